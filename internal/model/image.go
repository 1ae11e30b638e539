package model

// ItemImage is one photo in an item's gallery. Uploaded photos carry a
// BlobKey and are served from /images/{key}; linked photos only have a URL.
type ItemImage struct {
	ID      int64  `json:"id"`
	ItemID  int64  `json:"item_id"`
	URL     string `json:"url"`
	Order   int    `json:"order"`
	IsCover bool   `json:"is_cover"`
	BlobKey string `json:"-"`
}

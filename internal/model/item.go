package model

import (
	"errors"
	"time"
)

// Status is the lifecycle state of a tracked item.
type Status string

// Item statuses.
const (
	StatusDelivered Status = "Delivered"
	StatusReturned  Status = "Returned"
	StatusPreOrder  Status = "Pre-Order"
	StatusWishlist  Status = "Wishlist"
)

// Statuses lists every valid status in display order.
var Statuses = []Status{StatusDelivered, StatusReturned, StatusPreOrder, StatusWishlist}

var (
	ErrInvalidStatus = errors.New("invalid status")
	ErrInvalidRating = errors.New("rating must be between 1 and 5")
)

// ParseStatus validates a status string.
func ParseStatus(s string) (Status, error) {
	for _, st := range Statuses {
		if string(st) == s {
			return st, nil
		}
	}
	return "", ErrInvalidStatus
}

// ValidateRating checks an optional rating.
func ValidateRating(rating *int) error {
	if rating != nil && (*rating < 1 || *rating > 5) {
		return ErrInvalidRating
	}
	return nil
}

// DateLayout is the storage and form layout of purchase dates.
const DateLayout = "2006-01-02"

// Item is a purchase or wishlist entry.
type Item struct {
	ID             int64      `json:"id"`
	Title          string     `json:"title"`
	Price          Money      `json:"price_cents"`
	PurchaseDate   *time.Time `json:"purchase_date,omitempty"`
	Status         Status     `json:"status"`
	IsSubscription bool       `json:"is_subscription"`
	Rating         *int       `json:"rating,omitempty"`
	Review         string     `json:"review,omitempty"`
	CategoryID     int64      `json:"category_id"`
	StoreID        int64      `json:"store_id"`
	YearID         int64      `json:"year_id"`
	BrandID        *int64     `json:"brand_id,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`

	// Joined fields (not always populated).
	CategoryName string      `json:"category,omitempty"`
	StoreName    string      `json:"store,omitempty"`
	BrandName    string      `json:"brand,omitempty"`
	YearValue    int         `json:"year,omitempty"`
	Images       []ItemImage `json:"images,omitempty"`
}

// CoverImage returns the designated cover, falling back to the first image.
func (i Item) CoverImage() *ItemImage {
	for k := range i.Images {
		if i.Images[k].IsCover {
			return &i.Images[k]
		}
	}
	if len(i.Images) > 0 {
		return &i.Images[0]
	}
	return nil
}

// GalleryImages returns the images with the cover first and the rest in order.
func (i Item) GalleryImages() []ItemImage {
	cover := i.CoverImage()
	if cover == nil {
		return nil
	}
	out := make([]ItemImage, 0, len(i.Images))
	out = append(out, *cover)
	for _, img := range i.Images {
		if img.ID != cover.ID {
			out = append(out, img)
		}
	}
	return out
}

// PurchaseDateString formats the purchase date for forms, empty when unset.
func (i Item) PurchaseDateString() string {
	if i.PurchaseDate == nil {
		return ""
	}
	return i.PurchaseDate.Format(DateLayout)
}

// ItemInput is the editable part of an item, as submitted by the admin forms.
type ItemInput struct {
	Title          string
	Price          Money
	PurchaseDate   *time.Time
	Status         Status
	IsSubscription bool
	Rating         *int
	Review         string
	CategoryID     int64
	StoreID        int64
	YearID         int64
	BrandID        *int64
}

// Validate checks the invariants of an item input.
func (in *ItemInput) Validate() error {
	if in.Title == "" {
		return errors.New("title required")
	}
	if in.Price < 0 {
		return ErrInvalidAmount
	}
	if _, err := ParseStatus(string(in.Status)); err != nil {
		return err
	}
	if err := ValidateRating(in.Rating); err != nil {
		return err
	}
	if in.CategoryID <= 0 || in.StoreID <= 0 || in.YearID <= 0 {
		return errors.New("category, store and year are required")
	}
	return nil
}

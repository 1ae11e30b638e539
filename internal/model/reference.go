package model

// Category groups items by kind.
type Category struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// Store is where an item was bought.
type Store struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// Brand is an item's manufacturer.
type Brand struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// Year is a bookkeeping year items are filed under.
type Year struct {
	ID    int64 `json:"id"`
	Value int   `json:"value"`
}

// ReferenceData bundles all reference entities for filters and forms.
type ReferenceData struct {
	Categories []Category `json:"categories"`
	Stores     []Store    `json:"stores"`
	Years      []Year     `json:"years"`
	Brands     []Brand    `json:"brands"`
}

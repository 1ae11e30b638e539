package catalog

import (
	"errors"
	"fmt"
)

// SortKey selects the ordering of the catalog listing.
type SortKey string

// Sort keys.
const (
	SortDateDesc    SortKey = "date-desc"
	SortDateAsc     SortKey = "date-asc"
	SortPriceDesc   SortKey = "price-desc"
	SortPriceAsc    SortKey = "price-asc"
	SortTitleAsc    SortKey = "title-asc"
	SortTitleDesc   SortKey = "title-desc"
	SortCategoryAsc SortKey = "category-asc"
	SortBrandAsc    SortKey = "brand-asc"
	SortStoreAsc    SortKey = "store-asc"
)

// DefaultSort is used when no sort is requested.
const DefaultSort = SortDateDesc

// ErrUnknownSort is returned for a sort value outside the enumeration.
var ErrUnknownSort = errors.New("unknown sort key")

// SortOption is a sort key with its dropdown label.
type SortOption struct {
	Key   SortKey
	Label string
}

// SortOptions lists the sort keys in dropdown order.
var SortOptions = []SortOption{
	{SortDateDesc, "Date (Newest)"},
	{SortDateAsc, "Date (Oldest)"},
	{SortPriceDesc, "Price (High to Low)"},
	{SortPriceAsc, "Price (Low to High)"},
	{SortTitleAsc, "Title (A-Z)"},
	{SortTitleDesc, "Title (Z-A)"},
	{SortCategoryAsc, "Category (A-Z)"},
	{SortBrandAsc, "Brand (A-Z)"},
	{SortStoreAsc, "Store (A-Z)"},
}

// orderClauses maps each key to its ORDER BY clause. The trailing id
// column makes the ordering total, so the same page always holds the
// same items. Undated and brandless items sort last in either direction.
var orderClauses = map[SortKey]string{
	SortDateDesc:    "i.purchase_date IS NULL, i.purchase_date DESC, i.id DESC",
	SortDateAsc:     "i.purchase_date IS NULL, i.purchase_date ASC, i.id ASC",
	SortPriceDesc:   "i.price_cents DESC, i.id DESC",
	SortPriceAsc:    "i.price_cents ASC, i.id ASC",
	SortTitleAsc:    "i.title COLLATE NOCASE ASC, i.id ASC",
	SortTitleDesc:   "i.title COLLATE NOCASE DESC, i.id DESC",
	SortCategoryAsc: "c.name COLLATE NOCASE ASC, i.id ASC",
	SortBrandAsc:    "b.name IS NULL, b.name COLLATE NOCASE ASC, i.id ASC",
	SortStoreAsc:    "s.name COLLATE NOCASE ASC, i.id ASC",
}

// ParseSortKey maps a query-string value to a sort key. An empty value
// selects DefaultSort.
func ParseSortKey(s string) (SortKey, error) {
	if s == "" {
		return DefaultSort, nil
	}
	k := SortKey(s)
	if _, ok := orderClauses[k]; !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownSort, s)
	}
	return k, nil
}

// Label returns the human-readable name of the sort key.
func (k SortKey) Label() string {
	for _, o := range SortOptions {
		if o.Key == k {
			return o.Label
		}
	}
	return string(k)
}

// OrderBy returns the SQL ordering for the key, DefaultSort for unknown keys.
func (k SortKey) OrderBy() string {
	if c, ok := orderClauses[k]; ok {
		return c
	}
	return orderClauses[DefaultSort]
}

// Package catalog turns catalog query-string parameters into the predicate,
// ordering and pagination window of an item listing.
package catalog

import (
	"math"
	"net/url"
	"strconv"
	"strings"

	"github.com/erazemk/nakupi/internal/model"
)

// PageSize is the number of items shown per catalog page.
const PageSize = 6

// MaxPage is the largest page number whose offset fits in an int.
const MaxPage = math.MaxInt/PageSize + 1

// Filter holds the parsed catalog parameters. Zero ids mean "not filtered".
type Filter struct {
	CategoryID int64
	YearID     int64
	StoreID    int64
	BrandID    int64
	Status     string
	Search     string
	Page       int
	Sort       SortKey
}

// ParseFilter reads categoryId, yearId, storeId, brandId, status, q, page and
// sort from the query string. Malformed ids and pages are ignored; an
// unknown sort key is the only error.
func ParseFilter(v url.Values) (Filter, error) {
	f := Filter{
		CategoryID: parseID(v.Get("categoryId")),
		YearID:     parseID(v.Get("yearId")),
		StoreID:    parseID(v.Get("storeId")),
		BrandID:    parseID(v.Get("brandId")),
		Status:     v.Get("status"),
		Search:     strings.ToLower(strings.TrimSpace(v.Get("q"))),
		Page:       parsePage(v.Get("page")),
	}

	sort, err := ParseSortKey(v.Get("sort"))
	if err != nil {
		return f, err
	}
	f.Sort = sort
	return f, nil
}

func parseID(s string) int64 {
	id, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil || id <= 0 {
		return 0
	}
	return id
}

func parsePage(s string) int {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || n < 1 {
		return 1
	}
	return min(n, MaxPage)
}

// Query is the SQL form of a filter. Where and Args apply to the joined
// item set (aliases i, c, s, y, b); count and page must share them.
type Query struct {
	Where   string
	Args    []any
	OrderBy string
	Limit   int
	Offset  int
}

// Query builds the predicate, ordering and window for the filter.
func (f Filter) Query() Query {
	var conds []string
	var args []any

	if f.CategoryID > 0 {
		conds = append(conds, "i.category_id = ?")
		args = append(args, f.CategoryID)
	}
	if f.YearID > 0 {
		conds = append(conds, "i.year_id = ?")
		args = append(args, f.YearID)
	}
	if f.StoreID > 0 {
		conds = append(conds, "i.store_id = ?")
		args = append(args, f.StoreID)
	}
	if f.BrandID > 0 {
		conds = append(conds, "i.brand_id = ?")
		args = append(args, f.BrandID)
	}

	if f.Status != "" {
		conds = append(conds, "i.status = ?")
		args = append(args, f.Status)
	} else {
		conds = append(conds, "i.status <> ?")
		args = append(args, string(model.StatusWishlist))
	}

	if f.Search != "" {
		fields := []string{
			"i.title",
			"COALESCE(i.review, '')",
			"s.name",
			"COALESCE(b.name, '')",
			"c.name",
		}
		ors := make([]string, len(fields))
		for k, field := range fields {
			// unicode_lower is registered on the driver by package db.
			ors[k] = "instr(unicode_lower(" + field + "), ?) > 0"
			args = append(args, f.Search)
		}
		conds = append(conds, "("+strings.Join(ors, " OR ")+")")
	}

	page := min(max(f.Page, 1), MaxPage)

	return Query{
		Where:   strings.Join(conds, " AND "),
		Args:    args,
		OrderBy: f.Sort.OrderBy(),
		Limit:   PageSize,
		Offset:  (page - 1) * PageSize,
	}
}

// Values encodes the filter back into query-string form, omitting defaults.
func (f Filter) Values() url.Values {
	v := url.Values{}
	setID := func(key string, id int64) {
		if id > 0 {
			v.Set(key, strconv.FormatInt(id, 10))
		}
	}
	setID("categoryId", f.CategoryID)
	setID("yearId", f.YearID)
	setID("storeId", f.StoreID)
	setID("brandId", f.BrandID)
	if f.Status != "" {
		v.Set("status", f.Status)
	}
	if f.Search != "" {
		v.Set("q", f.Search)
	}
	if f.Sort != "" && f.Sort != DefaultSort {
		v.Set("sort", string(f.Sort))
	}
	if f.Page > 1 {
		v.Set("page", strconv.Itoa(f.Page))
	}
	return v
}

// URL returns "/?…" for the filter moved to the given page.
func (f Filter) URL(page int) string {
	f.Page = page
	if enc := f.Values().Encode(); enc != "" {
		return "/?" + enc
	}
	return "/"
}

// Active reports whether any narrowing filter (not paging or sort) is set.
func (f Filter) Active() bool {
	return f.CategoryID > 0 || f.YearID > 0 || f.StoreID > 0 || f.BrandID > 0 ||
		f.Status != "" || f.Search != ""
}

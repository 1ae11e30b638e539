package catalog

import (
	"errors"
	"math"
	"net/url"
	"reflect"
	"strings"
	"testing"
)

func mustParse(t *testing.T, raw string) Filter {
	t.Helper()
	v, err := url.ParseQuery(raw)
	if err != nil {
		t.Fatalf("ParseQuery(%q): %v", raw, err)
	}
	f, err := ParseFilter(v)
	if err != nil {
		t.Fatalf("ParseFilter(%q): %v", raw, err)
	}
	return f
}

func TestParseFilterDefaults(t *testing.T) {
	f := mustParse(t, "")
	if f.Page != 1 {
		t.Errorf("expected page 1, got %d", f.Page)
	}
	if f.Sort != SortDateDesc {
		t.Errorf("expected default sort date-desc, got %q", f.Sort)
	}
	if f.Active() {
		t.Error("expected no active filters")
	}
}

func TestParseFilterIgnoresMalformedNumbers(t *testing.T) {
	tests := []struct {
		raw  string
		want Filter
	}{
		{"categoryId=abc", Filter{Page: 1, Sort: SortDateDesc}},
		{"categoryId=3&storeId=x&yearId=0", Filter{CategoryID: 3, Page: 1, Sort: SortDateDesc}},
		{"brandId=-4", Filter{Page: 1, Sort: SortDateDesc}},
		{"page=0", Filter{Page: 1, Sort: SortDateDesc}},
		{"page=-3", Filter{Page: 1, Sort: SortDateDesc}},
		{"page=two", Filter{Page: 1, Sort: SortDateDesc}},
		{"page=4", Filter{Page: 4, Sort: SortDateDesc}},
		{"q=++Sony+", Filter{Search: "sony", Page: 1, Sort: SortDateDesc}},
		{"q=+++", Filter{Page: 1, Sort: SortDateDesc}},
		{"q=%C4%8Cevlji+%C3%9Cber", Filter{Search: "čevlji über", Page: 1, Sort: SortDateDesc}},
		{"page=3074457345618258603", Filter{Page: MaxPage, Sort: SortDateDesc}},
		{"page=99999999999999999999", Filter{Page: 1, Sort: SortDateDesc}},
	}

	for _, tt := range tests {
		got := mustParse(t, tt.raw)
		if !reflect.DeepEqual(got, tt.want) {
			t.Errorf("ParseFilter(%q) = %+v, want %+v", tt.raw, got, tt.want)
		}
	}
}

func TestQueryHugePageKeepsOffsetInRange(t *testing.T) {
	for _, page := range []int{MaxPage, MaxPage + 1, 3074457345618258603, math.MaxInt} {
		q := Filter{Page: page, Sort: DefaultSort}.Query()
		if q.Offset < 0 {
			t.Errorf("page %d: negative offset %d", page, q.Offset)
		}
		if want := (MaxPage - 1) * PageSize; q.Offset != want {
			t.Errorf("page %d: expected offset %d, got %d", page, want, q.Offset)
		}
	}
}

func TestParseFilterRejectsUnknownSort(t *testing.T) {
	_, err := ParseFilter(url.Values{"sort": {"popularity"}})
	if !errors.Is(err, ErrUnknownSort) {
		t.Fatalf("expected ErrUnknownSort, got %v", err)
	}
}

func TestParseSortKeyAcceptsAllOptions(t *testing.T) {
	for _, o := range SortOptions {
		k, err := ParseSortKey(string(o.Key))
		if err != nil || k != o.Key {
			t.Errorf("ParseSortKey(%q) = %q, %v", o.Key, k, err)
		}
		if o.Key.OrderBy() == "" {
			t.Errorf("sort %q has no ordering", o.Key)
		}
	}
	if len(SortOptions) != 9 {
		t.Errorf("expected 9 sort options, got %d", len(SortOptions))
	}
}

func TestQueryDefaultExcludesWishlist(t *testing.T) {
	q := mustParse(t, "").Query()

	if q.Where != "i.status <> ?" {
		t.Errorf("unexpected default predicate %q", q.Where)
	}
	if !reflect.DeepEqual(q.Args, []any{"Wishlist"}) {
		t.Errorf("unexpected args %v", q.Args)
	}
	if q.Limit != PageSize || q.Offset != 0 {
		t.Errorf("expected window %d/0, got %d/%d", PageSize, q.Limit, q.Offset)
	}
	if q.OrderBy != "i.purchase_date IS NULL, i.purchase_date DESC, i.id DESC" {
		t.Errorf("unexpected ordering %q", q.OrderBy)
	}
}

func TestQueryExplicitStatusReplacesDefault(t *testing.T) {
	q := mustParse(t, "status=Wishlist").Query()
	if q.Where != "i.status = ?" {
		t.Errorf("unexpected predicate %q", q.Where)
	}
	if !reflect.DeepEqual(q.Args, []any{"Wishlist"}) {
		t.Errorf("unexpected args %v", q.Args)
	}
}

func TestQueryCombinesFilters(t *testing.T) {
	q := mustParse(t, "categoryId=1&yearId=2&storeId=3&brandId=4&q=Sony&page=3&sort=price-asc").Query()

	wantWhere := []string{
		"i.category_id = ?",
		"i.year_id = ?",
		"i.store_id = ?",
		"i.brand_id = ?",
		"i.status <> ?",
	}
	for _, w := range wantWhere {
		if !strings.Contains(q.Where, w) {
			t.Errorf("predicate %q missing %q", q.Where, w)
		}
	}
	if strings.Count(q.Where, "instr(unicode_lower(") != 5 {
		t.Errorf("expected 5 search fields, got predicate %q", q.Where)
	}

	wantArgs := []any{int64(1), int64(2), int64(3), int64(4), "Wishlist", "sony", "sony", "sony", "sony", "sony"}
	if !reflect.DeepEqual(q.Args, wantArgs) {
		t.Errorf("args = %v, want %v", q.Args, wantArgs)
	}
	if q.Offset != 12 {
		t.Errorf("expected offset 12 for page 3, got %d", q.Offset)
	}
	if q.OrderBy != "i.price_cents ASC, i.id ASC" {
		t.Errorf("unexpected ordering %q", q.OrderBy)
	}
}

func TestQueryIsDeterministic(t *testing.T) {
	v, _ := url.ParseQuery("sort=price-asc&page=2&q=desk")
	f1, _ := ParseFilter(v)
	f2, _ := ParseFilter(v)
	if !reflect.DeepEqual(f1.Query(), f2.Query()) {
		t.Error("expected identical queries for identical parameters")
	}
}

func TestFilterURLRoundTrip(t *testing.T) {
	f := mustParse(t, "categoryId=2&q=lamp&sort=title-desc&page=3")

	if got := f.URL(4); got != "/?categoryId=2&page=4&q=lamp&sort=title-desc" {
		t.Errorf("URL(4) = %q", got)
	}
	if got := f.URL(1); got != "/?categoryId=2&q=lamp&sort=title-desc" {
		t.Errorf("URL(1) = %q", got)
	}

	v, _ := url.ParseQuery(strings.TrimPrefix(f.URL(3), "/?"))
	back, err := ParseFilter(v)
	if err != nil {
		t.Fatalf("ParseFilter: %v", err)
	}
	if !reflect.DeepEqual(back, f) {
		t.Errorf("round trip = %+v, want %+v", back, f)
	}

	if got := (Filter{Sort: SortDateDesc}).URL(1); got != "/" {
		t.Errorf("default URL = %q, want /", got)
	}
}

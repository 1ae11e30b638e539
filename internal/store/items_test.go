package store

import (
	"context"
	"fmt"
	"net/url"
	"reflect"
	"testing"

	"github.com/erazemk/nakupi/internal/catalog"
	"github.com/erazemk/nakupi/internal/db"
	"github.com/erazemk/nakupi/internal/model"
)

func TestCreateAndGetItem(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()
	r := newTestRefs(t, ctx, database)

	created := newTestItem(t, ctx, database, r, func(in *model.ItemInput) {
		in.Title = "WH-1000XM5"
		in.Price = 34800
		in.Rating = intPtr(5)
		in.Review = "Great noise cancelling"
		in.BrandID = &r.brand
		in.IsSubscription = true
	})

	got, err := GetItem(ctx, database, created.ID)
	if err != nil {
		t.Fatalf("GetItem: %v", err)
	}
	if got == nil {
		t.Fatal("expected item, got nil")
	}
	if got.Title != "WH-1000XM5" || got.Price != 34800 {
		t.Errorf("unexpected title/price: %q %d", got.Title, got.Price)
	}
	if got.PurchaseDateString() != "2024-03-10" {
		t.Errorf("expected purchase date 2024-03-10, got %q", got.PurchaseDateString())
	}
	if got.Rating == nil || *got.Rating != 5 {
		t.Errorf("expected rating 5, got %v", got.Rating)
	}
	if !got.IsSubscription {
		t.Error("expected subscription flag")
	}
	if got.CategoryName != "Audio" || got.StoreName != "Big Box" || got.BrandName != "Sony" || got.YearValue != 2024 {
		t.Errorf("unexpected joined names: %q %q %q %d", got.CategoryName, got.StoreName, got.BrandName, got.YearValue)
	}
}

func TestCreateItemWithoutOptionalFields(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()
	r := newTestRefs(t, ctx, database)

	created := newTestItem(t, ctx, database, r, func(in *model.ItemInput) {
		in.PurchaseDate = nil
		in.Status = model.StatusWishlist
	})

	got, _ := GetItem(ctx, database, created.ID)
	if got.PurchaseDate != nil {
		t.Errorf("expected no purchase date, got %v", got.PurchaseDate)
	}
	if got.Rating != nil || got.BrandID != nil || got.BrandName != "" {
		t.Errorf("expected no rating and no brand, got %v %v %q", got.Rating, got.BrandID, got.BrandName)
	}
}

func TestCreateItemRejectsInvalidInput(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()
	r := newTestRefs(t, ctx, database)

	in := model.ItemInput{
		Title: "Bad rating", Status: model.StatusDelivered, Rating: intPtr(6),
		CategoryID: r.category, StoreID: r.store, YearID: r.year,
	}
	if _, err := CreateItem(ctx, database, in, nil); err == nil {
		t.Error("expected error for rating 6")
	}
}

func TestGetItemMissing(t *testing.T) {
	database := db.NewTestDB(t)

	got, err := GetItem(context.Background(), database, 999)
	if err != nil {
		t.Fatalf("GetItem: %v", err)
	}
	if got != nil {
		t.Error("expected nil for missing item")
	}
}

func TestListItemsPageCountAndWindow(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()
	r := newTestRefs(t, ctx, database)

	for i := 0; i < 8; i++ {
		newTestItem(t, ctx, database, r, func(in *model.ItemInput) {
			in.Title = fmt.Sprintf("Item %d", i)
		})
	}
	for i := 0; i < 2; i++ {
		newTestItem(t, ctx, database, r, func(in *model.ItemInput) {
			in.Title = fmt.Sprintf("Wish %d", i)
			in.Status = model.StatusWishlist
		})
	}

	f := catalog.Filter{Page: 1, Sort: catalog.DefaultSort}
	page1, total, err := ListItemsPage(ctx, database, f.Query())
	if err != nil {
		t.Fatalf("ListItemsPage: %v", err)
	}
	if total != 8 {
		t.Errorf("expected total 8 (wishlist excluded), got %d", total)
	}
	if len(page1) != catalog.PageSize {
		t.Errorf("expected %d items on page 1, got %d", catalog.PageSize, len(page1))
	}

	f.Page = 2
	page2, total2, err := ListItemsPage(ctx, database, f.Query())
	if err != nil {
		t.Fatalf("ListItemsPage: %v", err)
	}
	if total2 != total {
		t.Errorf("total changed between pages: %d vs %d", total, total2)
	}
	if len(page2) != 2 {
		t.Errorf("expected 2 items on page 2, got %d", len(page2))
	}

	seen := map[int64]bool{}
	for _, it := range append(page1, page2...) {
		if seen[it.ID] {
			t.Errorf("item %d appears on both pages", it.ID)
		}
		seen[it.ID] = true
		if it.Status == model.StatusWishlist {
			t.Errorf("wishlist item %q in default listing", it.Title)
		}
	}

	f.Status = string(model.StatusWishlist)
	f.Page = 1
	wish, wishTotal, err := ListItemsPage(ctx, database, f.Query())
	if err != nil {
		t.Fatalf("ListItemsPage: %v", err)
	}
	if wishTotal != 2 || len(wish) != 2 {
		t.Errorf("expected 2 wishlist items, got total %d len %d", wishTotal, len(wish))
	}
}

func TestListItemsPageSearch(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()
	r := newTestRefs(t, ctx, database)

	newTestItem(t, ctx, database, r, func(in *model.ItemInput) {
		in.Title = "Earbuds"
		in.BrandID = &r.brand
	})
	newTestItem(t, ctx, database, r, func(in *model.ItemInput) {
		in.Title = "Desk lamp"
		in.Review = "Warm light, sturdy"
	})
	newTestItem(t, ctx, database, r, func(in *model.ItemInput) {
		in.Title = "Chair"
	})

	tests := []struct {
		search string
		want   int
	}{
		{"sony", 1},    // brand name
		{"sturdy", 1},  // review
		{"big box", 3}, // store name
		{"audio", 3},   // category name
		{"lamp", 1},    // title
		{"nothing", 0},
	}

	for _, tt := range tests {
		f := catalog.Filter{Search: tt.search, Page: 1, Sort: catalog.DefaultSort}
		items, total, err := ListItemsPage(ctx, database, f.Query())
		if err != nil {
			t.Fatalf("ListItemsPage(%q): %v", tt.search, err)
		}
		if total != tt.want || len(items) != tt.want {
			t.Errorf("search %q: expected %d, got total %d len %d", tt.search, tt.want, total, len(items))
		}
	}
}

func TestListItemsPageSearchFoldsUnicode(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()
	r := newTestRefs(t, ctx, database)

	newTestItem(t, ctx, database, r, func(in *model.ItemInput) {
		in.Title = "Čevlji Über"
	})
	newTestItem(t, ctx, database, r, func(in *model.ItemInput) {
		in.Title = "Chair"
		in.Review = "ŠIROK sedež"
	})

	tests := []struct {
		raw  string
		want int
	}{
		{"q=Čevlji", 1},
		{"q=čevlji", 1},
		{"q=ČEVLJI", 1},
		{"q=Über", 1},
		{"q=über", 1},
		{"q=evlji", 1},
		{"q=širok", 1},
		{"q=cevlji", 0},
	}

	for _, tt := range tests {
		v, err := url.ParseQuery(tt.raw)
		if err != nil {
			t.Fatalf("ParseQuery(%q): %v", tt.raw, err)
		}
		f, err := catalog.ParseFilter(v)
		if err != nil {
			t.Fatalf("ParseFilter(%q): %v", tt.raw, err)
		}
		items, total, err := ListItemsPage(ctx, database, f.Query())
		if err != nil {
			t.Fatalf("ListItemsPage(%q): %v", tt.raw, err)
		}
		if total != tt.want || len(items) != tt.want {
			t.Errorf("%s: expected %d, got total %d len %d", tt.raw, tt.want, total, len(items))
		}
	}
}

func TestListItemsPageHugePageIsEmpty(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()
	r := newTestRefs(t, ctx, database)

	newTestItem(t, ctx, database, r, nil)

	f, err := catalog.ParseFilter(url.Values{"page": {"3074457345618258603"}})
	if err != nil {
		t.Fatalf("ParseFilter: %v", err)
	}
	items, total, err := ListItemsPage(ctx, database, f.Query())
	if err != nil {
		t.Fatalf("ListItemsPage: %v", err)
	}
	if total != 1 {
		t.Errorf("expected total 1, got %d", total)
	}
	if len(items) != 0 {
		t.Errorf("expected no items on page %d, got %d", f.Page, len(items))
	}
}

func TestListItemsPageMissingValuesSortLast(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()
	r := newTestRefs(t, ctx, database)

	undated := newTestItem(t, ctx, database, r, func(in *model.ItemInput) {
		in.Title = "Undated"
		in.PurchaseDate = nil
	})
	older := newTestItem(t, ctx, database, r, func(in *model.ItemInput) {
		in.Title = "Older"
		in.PurchaseDate = date("2024-01-05")
		in.BrandID = &r.brand
	})
	newer := newTestItem(t, ctx, database, r, func(in *model.ItemInput) {
		in.Title = "Newer"
		in.PurchaseDate = date("2024-06-20")
	})

	tests := []struct {
		sort catalog.SortKey
		want []int64
	}{
		{catalog.SortDateDesc, []int64{newer.ID, older.ID, undated.ID}},
		{catalog.SortDateAsc, []int64{older.ID, newer.ID, undated.ID}},
		{catalog.SortBrandAsc, []int64{older.ID, undated.ID, newer.ID}},
	}

	for _, tt := range tests {
		f := catalog.Filter{Page: 1, Sort: tt.sort}
		items, _, err := ListItemsPage(ctx, database, f.Query())
		if err != nil {
			t.Fatalf("ListItemsPage(%s): %v", tt.sort, err)
		}
		got := make([]int64, len(items))
		for i, it := range items {
			got[i] = it.ID
		}
		if !reflect.DeepEqual(got, tt.want) {
			t.Errorf("sort %s: expected ids %v, got %v", tt.sort, tt.want, got)
		}
	}
}

func TestListItemsPageSortDeterministic(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()
	r := newTestRefs(t, ctx, database)

	var ids []int64
	for i := 0; i < 4; i++ {
		it := newTestItem(t, ctx, database, r, func(in *model.ItemInput) {
			in.Title = fmt.Sprintf("Same price %d", i)
			in.Price = 1000
		})
		ids = append(ids, it.ID)
	}

	f := catalog.Filter{Page: 1, Sort: catalog.SortPriceAsc}
	first, _, err := ListItemsPage(ctx, database, f.Query())
	if err != nil {
		t.Fatalf("ListItemsPage: %v", err)
	}
	second, _, _ := ListItemsPage(ctx, database, f.Query())

	for i := range first {
		if first[i].ID != ids[i] {
			t.Errorf("position %d: expected id %d, got %d", i, ids[i], first[i].ID)
		}
		if first[i].ID != second[i].ID {
			t.Errorf("position %d differs between runs", i)
		}
	}
}

func TestListWishlistAndSubscriptions(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()
	r := newTestRefs(t, ctx, database)

	newTestItem(t, ctx, database, r, func(in *model.ItemInput) {
		in.Title = "Wanted"
		in.Status = model.StatusWishlist
	})
	newTestItem(t, ctx, database, r, func(in *model.ItemInput) {
		in.Title = "Streaming"
		in.IsSubscription = true
	})
	newTestItem(t, ctx, database, r, func(in *model.ItemInput) {
		in.Title = "Cancelled"
		in.IsSubscription = true
		in.Status = model.StatusReturned
	})

	wish, err := ListWishlist(ctx, database)
	if err != nil {
		t.Fatalf("ListWishlist: %v", err)
	}
	if len(wish) != 1 || wish[0].Title != "Wanted" {
		t.Errorf("unexpected wishlist: %+v", wish)
	}

	subs, err := ListSubscriptions(ctx, database)
	if err != nil {
		t.Fatalf("ListSubscriptions: %v", err)
	}
	if len(subs) != 1 || subs[0].Title != "Streaming" {
		t.Errorf("unexpected subscriptions: %+v", subs)
	}

	purchased, err := ListPurchasedItems(ctx, database)
	if err != nil {
		t.Fatalf("ListPurchasedItems: %v", err)
	}
	if len(purchased) != 2 {
		t.Errorf("expected 2 purchased items, got %d", len(purchased))
	}

	all, _ := ListAllItems(ctx, database)
	if len(all) != 3 {
		t.Errorf("expected 3 items in admin list, got %d", len(all))
	}
}

func TestUpdateItem(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()
	r := newTestRefs(t, ctx, database)

	it := newTestItem(t, ctx, database, r, nil)

	in := model.ItemInput{
		Title:      "Renamed",
		Price:      500,
		Status:     model.StatusReturned,
		Rating:     intPtr(2),
		CategoryID: r.category,
		StoreID:    r.store,
		YearID:     r.year,
		BrandID:    &r.brand,
	}
	if err := UpdateItem(ctx, database, it.ID, in, nil); err != nil {
		t.Fatalf("UpdateItem: %v", err)
	}

	got, _ := GetItem(ctx, database, it.ID)
	if got.Title != "Renamed" || got.Price != 500 || got.Status != model.StatusReturned {
		t.Errorf("update not applied: %+v", got)
	}
	if got.PurchaseDate != nil {
		t.Errorf("expected purchase date cleared, got %v", got.PurchaseDate)
	}
	if got.BrandName != "Sony" {
		t.Errorf("expected brand Sony, got %q", got.BrandName)
	}
}

func TestDeleteItemRemovesImages(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()
	r := newTestRefs(t, ctx, database)

	it := newTestItem(t, ctx, database, r, nil)
	if err := AddItemImages(ctx, database, it.ID, []NewImage{{Data: []byte("jpeg"), MIME: "image/jpeg"}}); err != nil {
		t.Fatalf("AddItemImages: %v", err)
	}
	got, _ := GetItem(ctx, database, it.ID)
	key := got.Images[0].BlobKey

	if err := DeleteItem(ctx, database, it.ID); err != nil {
		t.Fatalf("DeleteItem: %v", err)
	}

	if got, _ := GetItem(ctx, database, it.ID); got != nil {
		t.Error("expected item to be gone")
	}
	data, _, err := GetImageBlob(ctx, database, key)
	if err != nil {
		t.Fatalf("GetImageBlob: %v", err)
	}
	if data != nil {
		t.Error("expected image blob to be removed with the item")
	}
}

func TestYearToDateSpend(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()
	r := newTestRefs(t, ctx, database)

	newTestItem(t, ctx, database, r, func(in *model.ItemInput) { in.Price = 1000; in.PurchaseDate = date("2024-01-01") })
	newTestItem(t, ctx, database, r, func(in *model.ItemInput) { in.Price = 250; in.PurchaseDate = date("2024-12-31") })
	newTestItem(t, ctx, database, r, func(in *model.ItemInput) {
		in.Price = 9999
		in.PurchaseDate = date("2024-06-01")
		in.Status = model.StatusReturned
	})
	newTestItem(t, ctx, database, r, func(in *model.ItemInput) { in.Price = 5000; in.PurchaseDate = date("2023-12-31") })
	newTestItem(t, ctx, database, r, func(in *model.ItemInput) {
		in.Price = 7000
		in.PurchaseDate = nil
		in.Status = model.StatusWishlist
	})

	got, err := YearToDateSpend(ctx, database, *date("2024-07-15"))
	if err != nil {
		t.Fatalf("YearToDateSpend: %v", err)
	}
	if got != 1250 {
		t.Errorf("expected 1250 cents, got %d", got)
	}
}

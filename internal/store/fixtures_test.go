package store

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/erazemk/nakupi/internal/model"
)

type testRefs struct {
	category, store, year, brand int64
}

func newTestRefs(t *testing.T, ctx context.Context, database *sql.DB) testRefs {
	t.Helper()

	c, err := CreateCategory(ctx, database, "Audio")
	if err != nil {
		t.Fatalf("CreateCategory: %v", err)
	}
	s, err := CreateStore(ctx, database, "Big Box")
	if err != nil {
		t.Fatalf("CreateStore: %v", err)
	}
	y, err := CreateYear(ctx, database, 2024)
	if err != nil {
		t.Fatalf("CreateYear: %v", err)
	}
	b, err := CreateBrand(ctx, database, "Sony")
	if err != nil {
		t.Fatalf("CreateBrand: %v", err)
	}
	return testRefs{category: c.ID, store: s.ID, year: y.ID, brand: b.ID}
}

func date(s string) *time.Time {
	d, err := time.Parse(model.DateLayout, s)
	if err != nil {
		panic(err)
	}
	return &d
}

func intPtr(n int) *int { return &n }

func newTestItem(t *testing.T, ctx context.Context, database *sql.DB, r testRefs, edit func(*model.ItemInput)) *model.Item {
	t.Helper()

	in := model.ItemInput{
		Title:        "Headphones",
		Price:        9900,
		PurchaseDate: date("2024-03-10"),
		Status:       model.StatusDelivered,
		CategoryID:   r.category,
		StoreID:      r.store,
		YearID:       r.year,
	}
	if edit != nil {
		edit(&in)
	}

	item, err := CreateItem(ctx, database, in, nil)
	if err != nil {
		t.Fatalf("CreateItem(%q): %v", in.Title, err)
	}
	return item
}

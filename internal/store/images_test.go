package store

import (
	"context"
	"strings"
	"testing"

	"github.com/erazemk/nakupi/internal/db"
	"github.com/erazemk/nakupi/internal/model"
)

func TestCreateItemWithImages(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()
	r := newTestRefs(t, ctx, database)

	in := model.ItemInput{
		Title: "Camera", Price: 1000, Status: model.StatusDelivered,
		CategoryID: r.category, StoreID: r.store, YearID: r.year,
	}
	images := []NewImage{
		{Data: []byte{0xff, 0xd8}, MIME: "image/jpeg"},
		{URL: "https://example.com/a.jpg"},
		{URL: ""},
	}
	it, err := CreateItem(ctx, database, in, images)
	if err != nil {
		t.Fatalf("CreateItem: %v", err)
	}

	if len(it.Images) != 2 {
		t.Fatalf("expected 2 images (empty URL skipped), got %d", len(it.Images))
	}
	if !strings.HasPrefix(it.Images[0].URL, "/images/") || it.Images[0].BlobKey == "" {
		t.Errorf("expected uploaded image served locally, got %+v", it.Images[0])
	}
	if it.Images[1].URL != "https://example.com/a.jpg" || it.Images[1].BlobKey != "" {
		t.Errorf("unexpected URL image: %+v", it.Images[1])
	}
	if it.Images[0].Order != 0 || it.Images[1].Order != 1 {
		t.Errorf("expected orders 0 and 1, got %d and %d", it.Images[0].Order, it.Images[1].Order)
	}

	data, mime, err := GetImageBlob(ctx, database, it.Images[0].BlobKey)
	if err != nil {
		t.Fatalf("GetImageBlob: %v", err)
	}
	if len(data) != 2 || mime != "image/jpeg" {
		t.Errorf("unexpected blob: %v %q", data, mime)
	}
}

func TestAddItemImagesContinuesOrder(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()
	r := newTestRefs(t, ctx, database)

	it := newTestItem(t, ctx, database, r, nil)
	AddItemImages(ctx, database, it.ID, []NewImage{{URL: "a"}, {URL: "b"}})

	got, _ := GetItem(ctx, database, it.ID)
	if _, err := DeleteItemImage(ctx, database, got.Images[0].ID); err != nil {
		t.Fatalf("DeleteItemImage: %v", err)
	}

	if err := AddItemImages(ctx, database, it.ID, []NewImage{{URL: "c"}}); err != nil {
		t.Fatalf("AddItemImages: %v", err)
	}

	got, _ = GetItem(ctx, database, it.ID)
	if len(got.Images) != 2 {
		t.Fatalf("expected 2 images, got %d", len(got.Images))
	}
	if got.Images[1].URL != "c" || got.Images[1].Order != 2 {
		t.Errorf("expected new image after max order, got %+v", got.Images[1])
	}
}

func TestSetCoverImageKeepsSingleCover(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()
	r := newTestRefs(t, ctx, database)

	it := newTestItem(t, ctx, database, r, nil)
	AddItemImages(ctx, database, it.ID, []NewImage{{URL: "a"}, {URL: "b"}, {URL: "c"}})
	got, _ := GetItem(ctx, database, it.ID)

	for _, img := range []model.ItemImage{got.Images[1], got.Images[2]} {
		itemID, err := SetCoverImage(ctx, database, img.ID)
		if err != nil {
			t.Fatalf("SetCoverImage: %v", err)
		}
		if itemID != it.ID {
			t.Errorf("expected item id %d, got %d", it.ID, itemID)
		}

		after, _ := GetItem(ctx, database, it.ID)
		covers := 0
		for _, a := range after.Images {
			if a.IsCover {
				covers++
			}
		}
		if covers != 1 {
			t.Errorf("expected exactly one cover, got %d", covers)
		}
		if after.CoverImage().ID != img.ID {
			t.Errorf("expected cover %d, got %d", img.ID, after.CoverImage().ID)
		}
	}
}

func TestImageOperationsOnMissingImage(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	itemID, err := SetCoverImage(ctx, database, 42)
	if err != nil || itemID != 0 {
		t.Errorf("SetCoverImage on missing image: %d, %v", itemID, err)
	}
	itemID, err = DeleteItemImage(ctx, database, 42)
	if err != nil || itemID != 0 {
		t.Errorf("DeleteItemImage on missing image: %d, %v", itemID, err)
	}
	data, _, err := GetImageBlob(ctx, database, "missing")
	if err != nil || data != nil {
		t.Errorf("GetImageBlob on missing key: %v, %v", data, err)
	}
}

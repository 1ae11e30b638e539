// Package seed loads fixture data from YAML into the database.
package seed

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/erazemk/nakupi/internal/model"
	"github.com/erazemk/nakupi/internal/store"
)

// Fixture is the YAML document layout.
type Fixture struct {
	Categories []string `yaml:"categories"`
	Stores     []string `yaml:"stores"`
	Brands     []string `yaml:"brands"`
	Years      []int    `yaml:"years"`
	Items      []Item   `yaml:"items"`
}

// Item references its category, store, brand and year by name or value.
type Item struct {
	Title        string   `yaml:"title"`
	Price        string   `yaml:"price"`
	PurchaseDate string   `yaml:"purchase_date"`
	Status       string   `yaml:"status"`
	Subscription bool     `yaml:"subscription"`
	Rating       *int     `yaml:"rating"`
	Review       string   `yaml:"review"`
	Category     string   `yaml:"category"`
	Store        string   `yaml:"store"`
	Brand        string   `yaml:"brand"`
	Year         int      `yaml:"year"`
	Images       []string `yaml:"images"`
}

// Result counts what Apply inserted.
type Result struct {
	Items   int
	Skipped int
}

// Parse decodes a fixture, rejecting unknown keys.
func Parse(r io.Reader) (*Fixture, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var f Fixture
	if err := dec.Decode(&f); err != nil && err != io.EOF {
		return nil, fmt.Errorf("decoding fixture: %w", err)
	}
	return &f, nil
}

// LoadFile parses the fixture at path.
func LoadFile(path string) (*Fixture, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening fixture: %w", err)
	}
	defer f.Close()
	return Parse(f)
}

// Apply inserts the fixture. Reference entities are matched by name, and
// items whose title already exists are skipped, so applying twice is safe.
func Apply(ctx context.Context, db *sql.DB, f *Fixture) (*Result, error) {
	for _, name := range f.Categories {
		if _, err := store.EnsureCategory(ctx, db, name); err != nil {
			return nil, err
		}
	}
	for _, name := range f.Stores {
		if _, err := store.EnsureStore(ctx, db, name); err != nil {
			return nil, err
		}
	}
	for _, name := range f.Brands {
		if _, err := store.EnsureBrand(ctx, db, name); err != nil {
			return nil, err
		}
	}
	for _, y := range f.Years {
		if _, err := store.EnsureYear(ctx, db, y); err != nil {
			return nil, err
		}
	}

	res := &Result{}
	for i, it := range f.Items {
		exists, err := store.ItemExists(ctx, db, it.Title)
		if err != nil {
			return nil, err
		}
		if exists {
			res.Skipped++
			continue
		}

		in, err := itemInput(ctx, db, it)
		if err != nil {
			return nil, fmt.Errorf("item %d (%q): %w", i+1, it.Title, err)
		}

		images := make([]store.NewImage, 0, len(it.Images))
		for _, u := range it.Images {
			images = append(images, store.NewImage{URL: u})
		}

		if _, err := store.CreateItem(ctx, db, in, images); err != nil {
			return nil, fmt.Errorf("item %d (%q): %w", i+1, it.Title, err)
		}
		res.Items++
	}

	slog.Info("fixture applied", "items", res.Items, "skipped", res.Skipped)
	return res, nil
}

func itemInput(ctx context.Context, db *sql.DB, it Item) (model.ItemInput, error) {
	in := model.ItemInput{
		Title:          strings.TrimSpace(it.Title),
		Status:         model.Status(it.Status),
		IsSubscription: it.Subscription,
		Rating:         it.Rating,
		Review:         it.Review,
	}
	if in.Status == "" {
		in.Status = model.StatusDelivered
	}

	price, err := model.ParseMoney(it.Price)
	if err != nil {
		return in, fmt.Errorf("price %q: %w", it.Price, err)
	}
	in.Price = price

	if it.PurchaseDate != "" {
		d, err := time.Parse(model.DateLayout, it.PurchaseDate)
		if err != nil {
			return in, fmt.Errorf("purchase date %q: %w", it.PurchaseDate, err)
		}
		in.PurchaseDate = &d
	}

	if in.CategoryID, err = store.EnsureCategory(ctx, db, it.Category); err != nil {
		return in, err
	}
	if in.StoreID, err = store.EnsureStore(ctx, db, it.Store); err != nil {
		return in, err
	}
	if in.YearID, err = store.EnsureYear(ctx, db, it.Year); err != nil {
		return in, err
	}
	if it.Brand != "" {
		id, err := store.EnsureBrand(ctx, db, it.Brand)
		if err != nil {
			return in, err
		}
		in.BrandID = &id
	}
	return in, nil
}

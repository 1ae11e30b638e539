package store

import (
	"context"
	"database/sql"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/erazemk/nakupi/internal/model"
)

// ReferencedError is returned when a reference entity cannot be deleted
// because items still point at it.
type ReferencedError struct {
	Entity string
	Count  int
}

func (e *ReferencedError) Error() string {
	noun := "items"
	if e.Count == 1 {
		noun = "item"
	}
	return fmt.Sprintf("%s is referenced by %d %s", e.Entity, e.Count, noun)
}

// namedTable describes a reference table with a unique name column.
type namedTable struct {
	entity     string
	table      string
	itemColumn string
	orderBy    string
}

var (
	categoriesTable = namedTable{"category", "categories", "category_id", "name ASC"}
	storesTable     = namedTable{"store", "stores", "store_id", "name ASC"}
	brandsTable     = namedTable{"brand", "brands", "brand_id", "name ASC"}
)

type named struct {
	id   int64
	name string
}

func (t namedTable) create(ctx context.Context, db *sql.DB, name string) (int64, error) {
	result, err := db.ExecContext(ctx, `INSERT INTO `+t.table+` (name) VALUES (?)`, name)
	if err != nil {
		return 0, fmt.Errorf("creating %s: %w", t.entity, err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("getting %s id: %w", t.entity, err)
	}
	return id, nil
}

// ensure returns the id of the row with this name, creating it if needed.
func (t namedTable) ensure(ctx context.Context, db *sql.DB, name string) (int64, error) {
	if _, err := db.ExecContext(ctx, `INSERT OR IGNORE INTO `+t.table+` (name) VALUES (?)`, name); err != nil {
		return 0, fmt.Errorf("ensuring %s: %w", t.entity, err)
	}
	var id int64
	if err := db.QueryRowContext(ctx, `SELECT id FROM `+t.table+` WHERE name = ?`, name).Scan(&id); err != nil {
		return 0, fmt.Errorf("getting %s: %w", t.entity, err)
	}
	return id, nil
}

func (t namedTable) list(ctx context.Context, db *sql.DB) ([]named, error) {
	rows, err := db.QueryContext(ctx, `SELECT id, name FROM `+t.table+` ORDER BY `+t.orderBy+`, id`)
	if err != nil {
		return nil, fmt.Errorf("listing %s: %w", t.table, err)
	}
	defer rows.Close()

	var out []named
	for rows.Next() {
		var n named
		if err := rows.Scan(&n.id, &n.name); err != nil {
			return nil, fmt.Errorf("scanning %s: %w", t.entity, err)
		}
		out = append(out, n)
	}
	return out, rows.Err()
}

func (t namedTable) delete(ctx context.Context, db *sql.DB, id int64) error {
	return deleteReference(ctx, db, t.entity, t.table, t.itemColumn, id)
}

// deleteReference removes a reference row unless items still use it.
func deleteReference(ctx context.Context, db *sql.DB, entity, table, itemColumn string, id int64) error {
	var count int
	err := db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM items WHERE `+itemColumn+` = ?`, id,
	).Scan(&count)
	if err != nil {
		return fmt.Errorf("counting items for %s: %w", entity, err)
	}
	if count > 0 {
		return &ReferencedError{Entity: entity, Count: count}
	}

	if _, err := db.ExecContext(ctx, `DELETE FROM `+table+` WHERE id = ?`, id); err != nil {
		return fmt.Errorf("deleting %s: %w", entity, err)
	}
	return nil
}

// CreateCategory creates a category.
func CreateCategory(ctx context.Context, db *sql.DB, name string) (*model.Category, error) {
	id, err := categoriesTable.create(ctx, db, name)
	if err != nil {
		return nil, err
	}
	return &model.Category{ID: id, Name: name}, nil
}

// EnsureCategory returns the id of the named category, creating it if needed.
func EnsureCategory(ctx context.Context, db *sql.DB, name string) (int64, error) {
	return categoriesTable.ensure(ctx, db, name)
}

// ListCategories returns all categories by name.
func ListCategories(ctx context.Context, db *sql.DB) ([]model.Category, error) {
	rows, err := categoriesTable.list(ctx, db)
	if err != nil {
		return nil, err
	}
	out := make([]model.Category, len(rows))
	for i, r := range rows {
		out[i] = model.Category{ID: r.id, Name: r.name}
	}
	return out, nil
}

// DeleteCategory deletes a category that no item uses.
func DeleteCategory(ctx context.Context, db *sql.DB, id int64) error {
	return categoriesTable.delete(ctx, db, id)
}

// CreateStore creates a store.
func CreateStore(ctx context.Context, db *sql.DB, name string) (*model.Store, error) {
	id, err := storesTable.create(ctx, db, name)
	if err != nil {
		return nil, err
	}
	return &model.Store{ID: id, Name: name}, nil
}

// EnsureStore returns the id of the named store, creating it if needed.
func EnsureStore(ctx context.Context, db *sql.DB, name string) (int64, error) {
	return storesTable.ensure(ctx, db, name)
}

// ListStores returns all stores by name.
func ListStores(ctx context.Context, db *sql.DB) ([]model.Store, error) {
	rows, err := storesTable.list(ctx, db)
	if err != nil {
		return nil, err
	}
	out := make([]model.Store, len(rows))
	for i, r := range rows {
		out[i] = model.Store{ID: r.id, Name: r.name}
	}
	return out, nil
}

// DeleteStore deletes a store that no item uses.
func DeleteStore(ctx context.Context, db *sql.DB, id int64) error {
	return storesTable.delete(ctx, db, id)
}

// CreateBrand creates a brand.
func CreateBrand(ctx context.Context, db *sql.DB, name string) (*model.Brand, error) {
	id, err := brandsTable.create(ctx, db, name)
	if err != nil {
		return nil, err
	}
	return &model.Brand{ID: id, Name: name}, nil
}

// EnsureBrand returns the id of the named brand, creating it if needed.
func EnsureBrand(ctx context.Context, db *sql.DB, name string) (int64, error) {
	return brandsTable.ensure(ctx, db, name)
}

// ListBrands returns all brands by name.
func ListBrands(ctx context.Context, db *sql.DB) ([]model.Brand, error) {
	rows, err := brandsTable.list(ctx, db)
	if err != nil {
		return nil, err
	}
	out := make([]model.Brand, len(rows))
	for i, r := range rows {
		out[i] = model.Brand{ID: r.id, Name: r.name}
	}
	return out, nil
}

// DeleteBrand deletes a brand that no item uses.
func DeleteBrand(ctx context.Context, db *sql.DB, id int64) error {
	return brandsTable.delete(ctx, db, id)
}

// CreateYear creates a year.
func CreateYear(ctx context.Context, db *sql.DB, value int) (*model.Year, error) {
	result, err := db.ExecContext(ctx, `INSERT INTO years (value) VALUES (?)`, value)
	if err != nil {
		return nil, fmt.Errorf("creating year: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("getting year id: %w", err)
	}
	return &model.Year{ID: id, Value: value}, nil
}

// EnsureYear returns the id of the year with this value, creating it if needed.
func EnsureYear(ctx context.Context, db *sql.DB, value int) (int64, error) {
	if _, err := db.ExecContext(ctx, `INSERT OR IGNORE INTO years (value) VALUES (?)`, value); err != nil {
		return 0, fmt.Errorf("ensuring year: %w", err)
	}
	var id int64
	if err := db.QueryRowContext(ctx, `SELECT id FROM years WHERE value = ?`, value).Scan(&id); err != nil {
		return 0, fmt.Errorf("getting year: %w", err)
	}
	return id, nil
}

// ListYears returns all years, most recent first.
func ListYears(ctx context.Context, db *sql.DB) ([]model.Year, error) {
	rows, err := db.QueryContext(ctx, `SELECT id, value FROM years ORDER BY value DESC, id`)
	if err != nil {
		return nil, fmt.Errorf("listing years: %w", err)
	}
	defer rows.Close()

	var years []model.Year
	for rows.Next() {
		var y model.Year
		if err := rows.Scan(&y.ID, &y.Value); err != nil {
			return nil, fmt.Errorf("scanning year: %w", err)
		}
		years = append(years, y)
	}
	return years, rows.Err()
}

// DeleteYear deletes a year that no item uses.
func DeleteYear(ctx context.Context, db *sql.DB, id int64) error {
	return deleteReference(ctx, db, "year", "years", "year_id", id)
}

// LoadReferenceData loads all reference entities concurrently.
func LoadReferenceData(ctx context.Context, db *sql.DB) (*model.ReferenceData, error) {
	var ref model.ReferenceData
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() (err error) {
		ref.Categories, err = ListCategories(ctx, db)
		return err
	})
	g.Go(func() (err error) {
		ref.Stores, err = ListStores(ctx, db)
		return err
	})
	g.Go(func() (err error) {
		ref.Years, err = ListYears(ctx, db)
		return err
	})
	g.Go(func() (err error) {
		ref.Brands, err = ListBrands(ctx, db)
		return err
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return &ref, nil
}

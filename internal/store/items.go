package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/erazemk/nakupi/internal/catalog"
	"github.com/erazemk/nakupi/internal/model"
)

// querier is satisfied by both *sql.DB and *sql.Tx.
type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// itemFrom joins every item with its reference entities. Brand is optional.
const itemFrom = `
	FROM items i
	JOIN categories c ON c.id = i.category_id
	JOIN stores s ON s.id = i.store_id
	JOIN years y ON y.id = i.year_id
	LEFT JOIN brands b ON b.id = i.brand_id`

const itemColumns = `SELECT i.id, i.title, i.price_cents, i.purchase_date, i.status, i.is_subscription,
	       i.rating, i.review, i.category_id, i.store_id, i.year_id, i.brand_id, i.created_at,
	       c.name, s.name, y.value, COALESCE(b.name, '')`

type scanner interface {
	Scan(dest ...any) error
}

func scanItem(sc scanner) (*model.Item, error) {
	var (
		it           model.Item
		purchaseDate sql.NullString
		rating       sql.NullInt64
		review       sql.NullString
		brandID      sql.NullInt64
		status       string
	)
	err := sc.Scan(&it.ID, &it.Title, &it.Price, &purchaseDate, &status, &it.IsSubscription,
		&rating, &review, &it.CategoryID, &it.StoreID, &it.YearID, &brandID, &it.CreatedAt,
		&it.CategoryName, &it.StoreName, &it.YearValue, &it.BrandName)
	if err != nil {
		return nil, err
	}

	it.Status = model.Status(status)
	it.Review = review.String
	if purchaseDate.Valid && purchaseDate.String != "" {
		d, err := time.Parse(model.DateLayout, purchaseDate.String)
		if err != nil {
			return nil, fmt.Errorf("parsing purchase date %q: %w", purchaseDate.String, err)
		}
		it.PurchaseDate = &d
	}
	if rating.Valid {
		r := int(rating.Int64)
		it.Rating = &r
	}
	if brandID.Valid {
		id := brandID.Int64
		it.BrandID = &id
	}
	return &it, nil
}

func dateArg(d *time.Time) any {
	if d == nil {
		return nil
	}
	return d.Format(model.DateLayout)
}

func ratingArg(r *int) any {
	if r == nil {
		return nil
	}
	return *r
}

func brandArg(id *int64) any {
	if id == nil {
		return nil
	}
	return *id
}

func reviewArg(s string) any {
	if s == "" {
		return nil
	}
	return s
}

// CreateItem creates an item together with its initial images.
func CreateItem(ctx context.Context, db *sql.DB, in model.ItemInput, images []NewImage) (*model.Item, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	result, err := tx.ExecContext(ctx,
		`INSERT INTO items (title, price_cents, purchase_date, status, is_subscription, rating, review,
		                    category_id, store_id, year_id, brand_id)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		in.Title, int64(in.Price), dateArg(in.PurchaseDate), string(in.Status), in.IsSubscription,
		ratingArg(in.Rating), reviewArg(in.Review), in.CategoryID, in.StoreID, in.YearID, brandArg(in.BrandID),
	)
	if err != nil {
		return nil, fmt.Errorf("creating item: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("getting item id: %w", err)
	}

	if err := insertImages(ctx, tx, id, images); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("committing item: %w", err)
	}

	return GetItem(ctx, db, id)
}

// GetItem returns an item by ID with its images, or nil if it does not exist.
func GetItem(ctx context.Context, db *sql.DB, id int64) (*model.Item, error) {
	item, err := scanItem(db.QueryRowContext(ctx, itemColumns+itemFrom+` WHERE i.id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting item: %w", err)
	}

	images, err := listImages(ctx, db, []int64{id})
	if err != nil {
		return nil, err
	}
	item.Images = images[id]
	return item, nil
}

// UpdateItem replaces an item's fields and appends new images after the
// existing ones.
func UpdateItem(ctx context.Context, db *sql.DB, id int64, in model.ItemInput, images []NewImage) error {
	if err := in.Validate(); err != nil {
		return err
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		`UPDATE items SET title = ?, price_cents = ?, purchase_date = ?, status = ?, is_subscription = ?,
		                  rating = ?, review = ?, category_id = ?, store_id = ?, year_id = ?, brand_id = ?
		 WHERE id = ?`,
		in.Title, int64(in.Price), dateArg(in.PurchaseDate), string(in.Status), in.IsSubscription,
		ratingArg(in.Rating), reviewArg(in.Review), in.CategoryID, in.StoreID, in.YearID, brandArg(in.BrandID),
		id,
	)
	if err != nil {
		return fmt.Errorf("updating item: %w", err)
	}

	if err := insertImages(ctx, tx, id, images); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing item update: %w", err)
	}
	return nil
}

// DeleteItem removes an item. Its images are removed by the cascade.
func DeleteItem(ctx context.Context, db *sql.DB, id int64) error {
	_, err := db.ExecContext(ctx, `DELETE FROM items WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting item: %w", err)
	}
	return nil
}

// ListItemsPage returns one catalog page and the total number of items
// matching the same predicate.
func ListItemsPage(ctx context.Context, db *sql.DB, q catalog.Query) ([]model.Item, int, error) {
	where := ""
	if q.Where != "" {
		where = " WHERE " + q.Where
	}

	var total int
	if err := db.QueryRowContext(ctx, `SELECT COUNT(*)`+itemFrom+where, q.Args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("counting items: %w", err)
	}

	items, err := queryItems(ctx, db, q.Where, q.Args, q.OrderBy, q.Limit, q.Offset)
	if err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

// ListPurchasedItems returns every item that is not on the wishlist.
func ListPurchasedItems(ctx context.Context, db *sql.DB) ([]model.Item, error) {
	return queryItems(ctx, db, `i.status <> ?`, []any{string(model.StatusWishlist)}, "i.purchase_date ASC, i.id ASC", 0, 0)
}

// ListWishlist returns wishlist items, newest first.
func ListWishlist(ctx context.Context, db *sql.DB) ([]model.Item, error) {
	return queryItems(ctx, db, `i.status = ?`, []any{string(model.StatusWishlist)}, "i.created_at DESC, i.id DESC", 0, 0)
}

// ListSubscriptions returns active subscriptions (not returned), newest first.
func ListSubscriptions(ctx context.Context, db *sql.DB) ([]model.Item, error) {
	return queryItems(ctx, db, `i.is_subscription = 1 AND i.status <> ?`, []any{string(model.StatusReturned)}, "i.created_at DESC, i.id DESC", 0, 0)
}

// ListAllItems returns every item for the admin overview.
func ListAllItems(ctx context.Context, db *sql.DB) ([]model.Item, error) {
	return queryItems(ctx, db, "", nil, catalog.DefaultSort.OrderBy(), 0, 0)
}

// queryItems runs a joined item query and attaches images. A zero limit
// returns all rows.
func queryItems(ctx context.Context, db *sql.DB, where string, args []any, orderBy string, limit, offset int) ([]model.Item, error) {
	var sb strings.Builder
	sb.WriteString(itemColumns)
	sb.WriteString(itemFrom)
	if where != "" {
		sb.WriteString(" WHERE ")
		sb.WriteString(where)
	}
	if orderBy != "" {
		sb.WriteString(" ORDER BY ")
		sb.WriteString(orderBy)
	}
	if limit > 0 {
		sb.WriteString(" LIMIT ? OFFSET ?")
		args = append(append([]any{}, args...), limit, offset)
	}

	rows, err := db.QueryContext(ctx, sb.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("listing items: %w", err)
	}

	var items []model.Item
	for rows.Next() {
		it, err := scanItem(rows)
		if err != nil {
			rows.Close()
			return nil, fmt.Errorf("scanning item: %w", err)
		}
		items = append(items, *it)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, fmt.Errorf("listing items: %w", err)
	}
	rows.Close()

	if len(items) == 0 {
		return items, nil
	}

	ids := make([]int64, len(items))
	for i := range items {
		ids[i] = items[i].ID
	}
	images, err := listImages(ctx, db, ids)
	if err != nil {
		return nil, err
	}
	for i := range items {
		items[i].Images = images[items[i].ID]
	}
	return items, nil
}

// ItemExists reports whether an item with this title is already tracked.
func ItemExists(ctx context.Context, db *sql.DB, title string) (bool, error) {
	var n int
	if err := db.QueryRowContext(ctx, `SELECT COUNT(*) FROM items WHERE title = ?`, title).Scan(&n); err != nil {
		return false, fmt.Errorf("checking item %q: %w", title, err)
	}
	return n > 0, nil
}

// YearToDateSpend sums the prices of items bought in now's calendar year,
// leaving out wishlist and returned items.
func YearToDateSpend(ctx context.Context, db *sql.DB, now time.Time) (model.Money, error) {
	year := now.Year()
	var total int64
	err := db.QueryRowContext(ctx,
		`SELECT COALESCE(SUM(price_cents), 0) FROM items
		 WHERE purchase_date >= ? AND purchase_date <= ? AND status NOT IN (?, ?)`,
		fmt.Sprintf("%04d-01-01", year), fmt.Sprintf("%04d-12-31", year),
		string(model.StatusWishlist), string(model.StatusReturned),
	).Scan(&total)
	if err != nil {
		return 0, fmt.Errorf("summing year-to-date spend: %w", err)
	}
	return model.Money(total), nil
}

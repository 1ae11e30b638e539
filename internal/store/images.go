package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/erazemk/nakupi/internal/model"
)

// NewImage is an image to attach to an item: either an uploaded photo
// (Data and MIME set) or a link to an external URL.
type NewImage struct {
	URL  string
	Data []byte
	MIME string
}

// ImagePath returns the URL under which an uploaded photo is served.
func ImagePath(key string) string {
	return "/images/" + key
}

// insertImages appends images after the item's current highest order.
func insertImages(ctx context.Context, q querier, itemID int64, images []NewImage) error {
	if len(images) == 0 {
		return nil
	}

	var next int
	err := q.QueryRowContext(ctx,
		`SELECT COALESCE(MAX(sort_order) + 1, 0) FROM item_images WHERE item_id = ?`, itemID,
	).Scan(&next)
	if err != nil {
		return fmt.Errorf("getting next image order: %w", err)
	}

	for _, img := range images {
		var key, mime any
		url := img.URL
		if len(img.Data) > 0 {
			k := uuid.NewString()
			key, mime, url = k, img.MIME, ImagePath(k)
		}
		if url == "" {
			continue
		}

		_, err := q.ExecContext(ctx,
			`INSERT INTO item_images (item_id, url, sort_order, blob_key, data, mime) VALUES (?, ?, ?, ?, ?, ?)`,
			itemID, url, next, key, nullBytes(img.Data), mime,
		)
		if err != nil {
			return fmt.Errorf("adding item image: %w", err)
		}
		next++
	}
	return nil
}

func nullBytes(b []byte) any {
	if len(b) == 0 {
		return nil
	}
	return b
}

// AddItemImages appends images to an existing item.
func AddItemImages(ctx context.Context, db *sql.DB, itemID int64, images []NewImage) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	if err := insertImages(ctx, tx, itemID, images); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing images: %w", err)
	}
	return nil
}

// listImages returns the images of the given items keyed by item ID, each
// list in gallery order.
func listImages(ctx context.Context, q querier, itemIDs []int64) (map[int64][]model.ItemImage, error) {
	out := make(map[int64][]model.ItemImage, len(itemIDs))
	if len(itemIDs) == 0 {
		return out, nil
	}

	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(itemIDs)), ",")
	args := make([]any, len(itemIDs))
	for i, id := range itemIDs {
		args[i] = id
	}

	rows, err := q.QueryContext(ctx,
		`SELECT id, item_id, url, sort_order, is_cover, COALESCE(blob_key, '')
		 FROM item_images WHERE item_id IN (`+placeholders+`)
		 ORDER BY item_id, sort_order, id`, args...,
	)
	if err != nil {
		return nil, fmt.Errorf("listing item images: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var img model.ItemImage
		if err := rows.Scan(&img.ID, &img.ItemID, &img.URL, &img.Order, &img.IsCover, &img.BlobKey); err != nil {
			return nil, fmt.Errorf("scanning item image: %w", err)
		}
		out[img.ItemID] = append(out[img.ItemID], img)
	}
	return out, rows.Err()
}

// DeleteItemImage removes an image and returns the item it belonged to
// (0 if the image did not exist).
func DeleteItemImage(ctx context.Context, db *sql.DB, imageID int64) (int64, error) {
	var itemID int64
	err := db.QueryRowContext(ctx, `SELECT item_id FROM item_images WHERE id = ?`, imageID).Scan(&itemID)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("getting item image: %w", err)
	}

	if _, err := db.ExecContext(ctx, `DELETE FROM item_images WHERE id = ?`, imageID); err != nil {
		return 0, fmt.Errorf("deleting item image: %w", err)
	}
	return itemID, nil
}

// SetCoverImage makes imageID the only cover of its item in one
// transaction and returns the item ID (0 if the image did not exist).
func SetCoverImage(ctx context.Context, db *sql.DB, imageID int64) (int64, error) {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	var itemID int64
	err = tx.QueryRowContext(ctx, `SELECT item_id FROM item_images WHERE id = ?`, imageID).Scan(&itemID)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("getting item image: %w", err)
	}

	if _, err := tx.ExecContext(ctx, `UPDATE item_images SET is_cover = 0 WHERE item_id = ?`, itemID); err != nil {
		return 0, fmt.Errorf("clearing cover images: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `UPDATE item_images SET is_cover = 1 WHERE id = ?`, imageID); err != nil {
		return 0, fmt.Errorf("setting cover image: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("committing cover image: %w", err)
	}
	return itemID, nil
}

// GetImageBlob returns the stored photo for a blob key, nil if unknown.
func GetImageBlob(ctx context.Context, db *sql.DB, key string) ([]byte, string, error) {
	var data []byte
	var mime sql.NullString
	err := db.QueryRowContext(ctx,
		`SELECT data, mime FROM item_images WHERE blob_key = ?`, key,
	).Scan(&data, &mime)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, "", nil
	}
	if err != nil {
		return nil, "", fmt.Errorf("getting image blob: %w", err)
	}
	return data, mime.String, nil
}

package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/lib/pq"

	"anonshop/api/logger"
	"anonshop/api/models"
)

type ProductStore struct {
	db *sql.DB
}

func NewProductStore(db *sql.DB) *ProductStore {
	return &ProductStore{db: db}
}

// SearchByCategory returns products whose category contains query, case-insensitively.
// An empty query matches everything.
func (s *ProductStore) SearchByCategory(ctx context.Context, query string) ([]models.Product, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, category, price, image_url
		FROM products
		WHERE LOWER(category) LIKE $1
		ORDER BY id
	`, "%"+strings.ToLower(query)+"%")
	if err != nil {
		return nil, fmt.Errorf("failed to search products: %w", err)
	}
	defer rows.Close()

	return scanProducts(rows)
}

// SaveProducts inserts the batch in one transaction. Ids already in the catalog are skipped, and
// the first failing insert rolls back the whole batch.
func (s *ProductStore) SaveProducts(ctx context.Context, products []models.Product) (inserted, skipped int, err error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	const query = `
		INSERT INTO products (id, name, category, price, image_url)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (id) DO NOTHING
	`
	for _, p := range products {
		res, execErr := tx.ExecContext(ctx, query, p.ID, p.Name, p.Category, p.Price, p.ImageURL)
		if execErr != nil {
			return 0, 0, fmt.Errorf("failed to insert product %q: %w", p.ID, execErr)
		}
		n, raErr := res.RowsAffected()
		if raErr != nil {
			return 0, 0, fmt.Errorf("failed to get rows affected: %w", raErr)
		}
		if n == 0 {
			logger.Debug(ctx).Str("product_id", p.ID).Msg("Product already exists, skipping")
			skipped++
			continue
		}
		inserted++
	}

	if err = tx.Commit(); err != nil {
		return 0, 0, fmt.Errorf("failed to commit products: %w", err)
	}
	logger.Info(ctx).Int("inserted", inserted).Int("skipped", skipped).Msg("Products saved")
	return inserted, skipped, nil
}

// GetProductsByIDs returns the known products among ids, in the order of ids.
func (s *ProductStore) GetProductsByIDs(ctx context.Context, ids []string) ([]models.Product, error) {
	if len(ids) == 0 {
		return []models.Product{}, nil
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, category, price, image_url FROM products WHERE id = ANY($1)
	`, pq.Array(ids))
	if err != nil {
		return nil, fmt.Errorf("failed to get products by ids: %w", err)
	}
	defer rows.Close()

	found, err := scanProducts(rows)
	if err != nil {
		return nil, err
	}

	byID := make(map[string]models.Product, len(found))
	for _, p := range found {
		byID[p.ID] = p
	}
	out := make([]models.Product, 0, len(found))
	for _, id := range ids {
		if p, ok := byID[id]; ok {
			out = append(out, p)
			delete(byID, id)
		}
	}
	return out, nil
}

func scanProducts(rows *sql.Rows) ([]models.Product, error) {
	products := []models.Product{}
	for rows.Next() {
		var p models.Product
		if err := rows.Scan(&p.ID, &p.Name, &p.Category, &p.Price, &p.ImageURL); err != nil {
			return nil, fmt.Errorf("failed to scan product: %w", err)
		}
		products = append(products, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row error while reading products: %w", err)
	}
	return products, nil
}

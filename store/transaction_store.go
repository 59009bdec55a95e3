package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"math"

	"anonshop/api/logger"
	"anonshop/api/models"
)

// ErrEmptyCart means no cart line referenced a known product with a positive quantity.
var ErrEmptyCart = errors.New("no valid cart items")

type TransactionStore struct {
	db *sql.DB
}

func NewTransactionStore(db *sql.DB) *TransactionStore {
	return &TransactionStore{db: db}
}

// Checkout prices the cart against the catalog and records it as one transaction under id.
// Lines without a product id, with a non-positive quantity, or naming an unknown product are skipped.
// Product lookups and the insert share one SQL transaction so the saved prices match the catalog.
func (s *TransactionStore) Checkout(ctx context.Context, id, userEmail string, cart []models.CartItem) (_ *models.Transaction, err error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	t := &models.Transaction{ID: id, UserEmail: userEmail, Items: []models.LineItem{}}
	for _, c := range cart {
		if c.ProductID == "" || c.Quantity <= 0 {
			continue
		}
		var name string
		var price float64
		lookupErr := tx.QueryRowContext(ctx,
			`SELECT name, price FROM products WHERE id = $1`, c.ProductID,
		).Scan(&name, &price)
		if errors.Is(lookupErr, sql.ErrNoRows) {
			logger.Debug(ctx).Str("product_id", c.ProductID).Msg("Unknown product in cart, skipping")
			continue
		}
		if lookupErr != nil {
			return nil, fmt.Errorf("failed to look up product %q: %w", c.ProductID, lookupErr)
		}

		line := roundCents(price * float64(c.Quantity))
		t.Items = append(t.Items, models.LineItem{
			ProductID:   c.ProductID,
			ProductName: name,
			Quantity:    c.Quantity,
			TotalPrice:  line,
		})
		t.TotalPrice += line
	}
	if len(t.Items) == 0 {
		return nil, ErrEmptyCart
	}
	t.TotalPrice = roundCents(t.TotalPrice)

	raw, err := models.EncodeItems(t.Items)
	if err != nil {
		return nil, err
	}
	err = tx.QueryRowContext(ctx, `
		INSERT INTO transactions (transaction_id, user_email, items, total_price)
		VALUES ($1, $2, $3, $4)
		RETURNING created_at
	`, t.ID, t.UserEmail, raw, t.TotalPrice).Scan(&t.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to insert transaction: %w", err)
	}

	if err = tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	logger.Info(ctx).
		Str("transaction_id", t.ID).
		Str("user_email", userEmail).
		Int("items", len(t.Items)).
		Float64("total_price", t.TotalPrice).
		Msg("Transaction saved")
	return t, nil
}

// ListTransactions scans the whole table in insertion order.
func (s *TransactionStore) ListTransactions(ctx context.Context) ([]models.Transaction, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT transaction_id, user_email, items, total_price, created_at
		FROM transactions
		ORDER BY created_at, transaction_id
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to list transactions: %w", err)
	}
	defer rows.Close()

	return scanTransactions(rows)
}

// MostBought ranks catalog products by the number of line items naming them.
// Ties go to the smaller product id.
func (s *TransactionStore) MostBought(ctx context.Context, limit int) ([]models.RankedProduct, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT p.id, p.name, p.category, p.price, p.image_url, c.purchase_count
		FROM (
			SELECT item->>'product_id' AS product_id, COUNT(*) AS purchase_count
			FROM transactions t, jsonb_array_elements(t.items) AS item
			GROUP BY item->>'product_id'
		) c
		JOIN products p ON p.id = c.product_id
		ORDER BY c.purchase_count DESC, p.id ASC
		LIMIT $1
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query most bought products: %w", err)
	}
	defer rows.Close()

	results := []models.RankedProduct{}
	for rows.Next() {
		var r models.RankedProduct
		if err := rows.Scan(&r.ID, &r.Name, &r.Category, &r.Price, &r.ImageURL, &r.PurchaseCount); err != nil {
			return nil, fmt.Errorf("failed to scan most bought product: %w", err)
		}
		results = append(results, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row error while reading most bought products: %w", err)
	}
	return results, nil
}

func (s *TransactionStore) Count(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM transactions`).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count transactions: %w", err)
	}
	return n, nil
}

func scanTransactions(rows *sql.Rows) ([]models.Transaction, error) {
	txs := []models.Transaction{}
	for rows.Next() {
		var (
			t   models.Transaction
			raw []byte
		)
		if err := rows.Scan(&t.ID, &t.UserEmail, &raw, &t.TotalPrice, &t.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan transaction: %w", err)
		}
		items, err := models.DecodeItems(raw)
		if err != nil {
			return nil, fmt.Errorf("transaction %s: %w", t.ID, err)
		}
		t.Items = items
		txs = append(txs, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row error while reading transactions: %w", err)
	}
	return txs, nil
}

func roundCents(v float64) float64 {
	return math.Round(v*100) / 100
}

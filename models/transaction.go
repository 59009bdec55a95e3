package models

import (
	"fmt"
	"time"

	"github.com/goccy/go-json"
)

// LineItem is one product within a transaction. Name and price are copied at save time.
type LineItem struct {
	ProductID   string  `json:"product_id"`
	ProductName string  `json:"product_name"`
	Quantity    int     `json:"quantity"`
	TotalPrice  float64 `json:"total_price"`
}

type Transaction struct {
	ID         string     `json:"transaction_id"`
	UserEmail  string     `json:"user_email"`
	Items      []LineItem `json:"items"`
	TotalPrice float64    `json:"total_price"`
	CreatedAt  time.Time  `json:"created_at"`
}

// ProductIDs lists the product ids of every line, duplicates included.
func (t *Transaction) ProductIDs() []string {
	ids := make([]string, 0, len(t.Items))
	for _, it := range t.Items {
		ids = append(ids, it.ProductID)
	}
	return ids
}

type CartItem struct {
	ProductID string `json:"product_id"`
	Quantity  int    `json:"quantity"`
}

type SaveTransactionRequest struct {
	UserEmail string     `json:"user_email" binding:"required"`
	Items     []CartItem `json:"items" binding:"required,min=1"`
}

// EncodeItems serializes line items for the items column.
func EncodeItems(items []LineItem) ([]byte, error) {
	if items == nil {
		items = []LineItem{}
	}
	b, err := json.Marshal(items)
	if err != nil {
		return nil, fmt.Errorf("failed to encode line items: %w", err)
	}
	return b, nil
}

// DecodeItems parses the items column.
func DecodeItems(raw []byte) ([]LineItem, error) {
	if len(raw) == 0 {
		return nil, nil
	}
	var items []LineItem
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, fmt.Errorf("failed to decode line items: %w", err)
	}
	return items, nil
}

package models

type Product struct {
	ID       string  `json:"id" binding:"required"`
	Name     string  `json:"name"`
	Category string  `json:"category"`
	Price    float64 `json:"price"`
	ImageURL string  `json:"image_url"`
}

// RankedProduct is a catalog entry with its line-item purchase count.
type RankedProduct struct {
	Product
	PurchaseCount int64 `json:"purchase_count"`
}

package models

import "time"

const (
	EventPurchase       = "purchase"
	EventSearch         = "search"
	EventRecommendation = "recommendation"
	EventRegister       = "register"
)

// CommerceEvent is a row of the ClickHouse commerce_events table.
type CommerceEvent struct {
	EventID    string    `json:"eventId"`
	EventType  string    `json:"eventType"`
	UserEmail  string    `json:"userEmail"`
	ProductIDs []string  `json:"productIds"`
	Amount     float64   `json:"amount"`
	Query      string    `json:"query,omitempty"`
	Timestamp  time.Time `json:"timestamp"`
}

type TopProductResult struct {
	ProductID string `json:"productId"`
	Count     uint64 `json:"count"`
}

package utils

import (
	"strings"

	"github.com/google/uuid"
)

// IsValidInterval reports whether interval names a ClickHouse toStartOf* bucket.
func IsValidInterval(interval string) bool {
	switch interval {
	case "Minute", "Hour", "Day", "Week", "Month", "Quarter", "Year":
		return true
	default:
		return false
	}
}

// NewTransactionID returns a short random id: the first 8 characters of a UUIDv4.
func NewTransactionID() string {
	return uuid.NewString()[:8]
}

// NormalizeEmail trims surrounding whitespace. Case is kept, emails are compared as entered.
func NormalizeEmail(email string) string {
	return strings.TrimSpace(email)
}

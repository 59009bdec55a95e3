package models

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/goccy/go-json"
)

// RegisterRequest mirrors the registration form. Every field must be present.
type RegisterRequest struct {
	Name     string      `json:"name" binding:"required"`
	Email    string      `json:"email" binding:"required"`
	Phone    string      `json:"phone" binding:"required"`
	Address  string      `json:"address" binding:"required"`
	Age      *FlexNumber `json:"age" binding:"required"`
	Gender   string      `json:"gender" binding:"required"`
	Category string      `json:"category" binding:"required"`
	Budget   *FlexNumber `json:"budget" binding:"required"`
	Payment  string      `json:"payment" binding:"required"`
	Password string      `json:"password" binding:"required"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type User struct {
	ID             int       `json:"id"`
	Name           string    `json:"name"`
	Email          string    `json:"email"`
	Phone          string    `json:"phone"`
	Address        string    `json:"address"`
	Age            int       `json:"age"`
	Gender         string    `json:"gender"`
	Category       string    `json:"category"`
	Budget         float64   `json:"budget"`
	PaymentMethod  string    `json:"payment_method"`
	HashedPassword []byte    `json:"-"`
	CreatedAt      time.Time `json:"created_at"`
}

// FlexNumber accepts a JSON number or a numeric string; HTML forms post the latter.
type FlexNumber float64

func (n *FlexNumber) UnmarshalJSON(b []byte) error {
	s := strings.TrimSpace(string(b))
	if strings.HasPrefix(s, `"`) {
		var str string
		if err := json.Unmarshal(b, &str); err != nil {
			return err
		}
		s = strings.TrimSpace(str)
	}
	if s == "" || s == "null" {
		return fmt.Errorf("empty number")
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return fmt.Errorf("invalid number %q: %w", s, err)
	}
	*n = FlexNumber(f)
	return nil
}

// Float returns the value, or 0 for a nil pointer.
func (n *FlexNumber) Float() float64 {
	if n == nil {
		return 0
	}
	return float64(*n)
}

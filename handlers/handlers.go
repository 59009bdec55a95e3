package handlers

import (
	"context"
	"time"

	"anonshop/api/models"
	"anonshop/api/recommend"
	"anonshop/api/store"
)

// The interfaces below are satisfied by the store and recommend packages.

type UserRepository interface {
	CreateUser(ctx context.Context, u *models.User) (*models.User, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
}

type ProductRepository interface {
	SearchByCategory(ctx context.Context, query string) ([]models.Product, error)
	SaveProducts(ctx context.Context, products []models.Product) (inserted, skipped int, err error)
	GetProductsByIDs(ctx context.Context, ids []string) ([]models.Product, error)
}

type TransactionRepository interface {
	Checkout(ctx context.Context, id, userEmail string, cart []models.CartItem) (*models.Transaction, error)
	MostBought(ctx context.Context, limit int) ([]models.RankedProduct, error)
	Count(ctx context.Context) (int, error)
}

type Recommender interface {
	Recommend(ctx context.Context, userEmail string) (*recommend.Result, error)
	Rules(ctx context.Context) (*recommend.RuleSet, error)
}

type EventStats interface {
	GetEventCountsOverTime(ctx context.Context, interval string, start, end time.Time, eventTypeFilter string) ([]store.EventTypeCountByTime, error)
	GetTopProducts(ctx context.Context, start, end time.Time, limit uint64) ([]models.TopProductResult, error)
}

// EventRecorder records commerce events best-effort.
type EventRecorder interface {
	Record(ctx context.Context, ev models.CommerceEvent)
}

type nopRecorder struct{}

func (nopRecorder) Record(context.Context, models.CommerceEvent) {}

func recorderOrNop(r EventRecorder) EventRecorder {
	if r == nil {
		return nopRecorder{}
	}
	return r
}

package handlers

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"anonshop/api/models"
	"anonshop/api/store"
)

// memShop is an in-memory stand-in for the Postgres stores.
type memShop struct {
	mu       sync.Mutex
	users    map[string]*models.User
	products map[string]models.Product
	txs      []models.Transaction
	err      error
}

func newMemShop() *memShop {
	return &memShop{
		users:    make(map[string]*models.User),
		products: make(map[string]models.Product),
	}
}

func (m *memShop) CreateUser(_ context.Context, u *models.User) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	if _, ok := m.users[u.Email]; ok {
		return nil, fmt.Errorf("email %q: %w", u.Email, store.ErrEmailTaken)
	}
	u.ID = len(m.users) + 1
	u.CreatedAt = time.Now()
	m.users[u.Email] = u
	return u, nil
}

func (m *memShop) GetUserByEmail(_ context.Context, email string) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	u, ok := m.users[email]
	if !ok {
		return nil, fmt.Errorf("email %q: %w", email, store.ErrUserNotFound)
	}
	return u, nil
}

func (m *memShop) SearchByCategory(_ context.Context, query string) ([]models.Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	out := []models.Product{}
	for _, p := range m.sortedProducts() {
		if query == "" || strings.Contains(strings.ToLower(p.Category), strings.ToLower(query)) {
			out = append(out, p)
		}
	}
	return out, nil
}

func (m *memShop) SaveProducts(_ context.Context, products []models.Product) (int, int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return 0, 0, m.err
	}
	inserted, skipped := 0, 0
	for _, p := range products {
		if _, ok := m.products[p.ID]; ok {
			skipped++
			continue
		}
		m.products[p.ID] = p
		inserted++
	}
	return inserted, skipped, nil
}

func (m *memShop) GetProductsByIDs(_ context.Context, ids []string) ([]models.Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []models.Product{}
	for _, id := range ids {
		if p, ok := m.products[id]; ok {
			out = append(out, p)
		}
	}
	return out, nil
}

func (m *memShop) Checkout(_ context.Context, id, email string, cart []models.CartItem) (*models.Transaction, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	t := models.Transaction{ID: id, UserEmail: email, CreatedAt: time.Now()}
	for _, c := range cart {
		p, ok := m.products[c.ProductID]
		if !ok || c.Quantity <= 0 {
			continue
		}
		line := p.Price * float64(c.Quantity)
		t.Items = append(t.Items, models.LineItem{ProductID: p.ID, ProductName: p.Name, Quantity: c.Quantity, TotalPrice: line})
		t.TotalPrice += line
	}
	if len(t.Items) == 0 {
		return nil, store.ErrEmptyCart
	}
	m.txs = append(m.txs, t)
	return &t, nil
}

func (m *memShop) ListTransactions(context.Context) ([]models.Transaction, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	return append([]models.Transaction(nil), m.txs...), nil
}

func (m *memShop) MostBought(_ context.Context, limit int) ([]models.RankedProduct, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	counts := map[string]int64{}
	for _, t := range m.txs {
		for _, it := range t.Items {
			counts[it.ProductID]++
		}
	}
	out := []models.RankedProduct{}
	for id, n := range counts {
		if p, ok := m.products[id]; ok {
			out = append(out, models.RankedProduct{Product: p, PurchaseCount: n})
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].PurchaseCount != out[j].PurchaseCount {
			return out[i].PurchaseCount > out[j].PurchaseCount
		}
		return out[i].ID < out[j].ID
	})
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (m *memShop) Count(context.Context) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.txs), m.err
}

func (m *memShop) Ping(context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.err
}

func (m *memShop) sortedProducts() []models.Product {
	out := make([]models.Product, 0, len(m.products))
	for _, p := range m.products {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

type recordedEvents struct {
	mu     sync.Mutex
	events []models.CommerceEvent
}

func (r *recordedEvents) Record(_ context.Context, ev models.CommerceEvent) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, ev)
}

func (r *recordedEvents) types() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, len(r.events))
	for i, ev := range r.events {
		out[i] = ev.EventType
	}
	return out
}

type fakeStats struct {
	counts   []store.EventTypeCountByTime
	top      []models.TopProductResult
	interval string
	limit    uint64
	err      error
}

func (f *fakeStats) GetEventCountsOverTime(_ context.Context, interval string, _, _ time.Time, _ string) ([]store.EventTypeCountByTime, error) {
	f.interval = interval
	return f.counts, f.err
}

func (f *fakeStats) GetTopProducts(_ context.Context, _, _ time.Time, limit uint64) ([]models.TopProductResult, error) {
	f.limit = limit
	return f.top, f.err
}

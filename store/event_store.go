package store

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"anonshop/api/database"
	"anonshop/api/logger"
	"anonshop/api/metrics"
	"anonshop/api/models"
	"anonshop/api/utils"
)

// EventStore reads and writes the ClickHouse commerce_events table.
type EventStore struct {
	DB *database.ClickHouseClient
}

type EventTypeCountByTime struct {
	Time      time.Time `json:"time"`
	EventType *string   `json:"eventType,omitempty"`
	Count     uint64    `json:"count"`
}

func NewEventStore(chClient *database.ClickHouseClient) *EventStore {
	return &EventStore{DB: chClient}
}

func (s *EventStore) InsertEvents(ctx context.Context, events []models.CommerceEvent) error {
	if len(events) == 0 {
		return nil
	}

	batch, err := s.DB.Conn.PrepareBatch(ctx, `
		INSERT INTO commerce_events (
			event_id, event_type, user_email, product_ids, amount, query, timestamp
		) VALUES (?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare batch insert: %w", err)
	}

	for _, event := range events {
		productIDs := event.ProductIDs
		if productIDs == nil {
			productIDs = []string{}
		}
		err := batch.Append(
			event.EventID,
			event.EventType,
			event.UserEmail,
			productIDs,
			event.Amount,
			event.Query,
			event.Timestamp,
		)
		if err != nil {
			logger.Warn(ctx).Err(err).Str("event_id", event.EventID).Msg("Error appending event to batch")
		}
	}

	if err := batch.Send(); err != nil {
		return fmt.Errorf("failed to send batch: %w", err)
	}

	logger.Debug(ctx).Int("events", len(events)).Msg("Inserted commerce events")
	return nil
}

// GetEventCountsOverTime buckets events by interval (Minute, Hour, Day, ...). A non-empty eventTypeFilter
// restricts the count to one event type and tags each bucket with it.
func (s *EventStore) GetEventCountsOverTime(ctx context.Context, interval string, start, end time.Time, eventTypeFilter string) ([]EventTypeCountByTime, error) {
	if !utils.IsValidInterval(interval) {
		return nil, fmt.Errorf("invalid interval: %s", interval)
	}

	args := []any{start, end}
	selectCols := fmt.Sprintf("toStartOf%s(timestamp) AS time_bucket, count() AS total_events", interval)
	groupByCols := "time_bucket"
	whereClause := "WHERE timestamp >= ? AND timestamp <= ?"
	orderByCols := "time_bucket ASC"
	isFilteringByType := eventTypeFilter != ""

	if isFilteringByType {
		selectCols += ", event_type"
		groupByCols += ", event_type"
		whereClause += " AND event_type = ?"
		args = append(args, eventTypeFilter)
		orderByCols += ", event_type ASC"
	}

	query := fmt.Sprintf(`
		SELECT %s
		FROM commerce_events
		%s
		GROUP BY %s
		ORDER BY %s
	`, selectCols, whereClause, groupByCols, orderByCols)

	rows, err := s.DB.Conn.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query event counts over time: %w", err)
	}
	defer rows.Close()

	results := []EventTypeCountByTime{}
	for rows.Next() {
		var (
			bucket    time.Time
			count     uint64
			eventType string
			result    EventTypeCountByTime
		)
		if isFilteringByType {
			if err := rows.Scan(&bucket, &count, &eventType); err != nil {
				return nil, fmt.Errorf("failed to scan event count: %w", err)
			}
			result.EventType = &eventType
		} else if err := rows.Scan(&bucket, &count); err != nil {
			return nil, fmt.Errorf("failed to scan event count: %w", err)
		}
		result.Time = bucket
		result.Count = count
		results = append(results, result)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row error during event counts over time query: %w", err)
	}
	return results, nil
}

// GetTopProducts counts purchase events per product id.
func (s *EventStore) GetTopProducts(ctx context.Context, start, end time.Time, limit uint64) ([]models.TopProductResult, error) {
	if limit == 0 {
		limit = 10
	}

	rows, err := s.DB.Conn.Query(ctx, `
		SELECT arrayJoin(product_ids) AS product_id, count() AS purchases
		FROM commerce_events
		WHERE event_type = ? AND timestamp >= ? AND timestamp <= ?
		GROUP BY product_id
		ORDER BY purchases DESC, product_id ASC
		LIMIT ?
	`, models.EventPurchase, start, end, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query top products: %w", err)
	}
	defer rows.Close()

	results := []models.TopProductResult{}
	for rows.Next() {
		var r models.TopProductResult
		if err := rows.Scan(&r.ProductID, &r.Count); err != nil {
			return nil, fmt.Errorf("failed to scan top product: %w", err)
		}
		results = append(results, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows for top products: %w", err)
	}
	return results, nil
}

// EventWriter persists commerce events.
type EventWriter interface {
	InsertEvents(ctx context.Context, events []models.CommerceEvent) error
}

// EventRecorder writes single events best-effort. A failed write is logged and counted, never returned.
// The zero value and a nil *EventRecorder drop every event.
type EventRecorder struct {
	w       EventWriter
	timeout time.Duration
}

func NewEventRecorder(w EventWriter, timeout time.Duration) *EventRecorder {
	if timeout <= 0 {
		timeout = 2 * time.Second
	}
	return &EventRecorder{w: w, timeout: timeout}
}

func (r *EventRecorder) Record(ctx context.Context, ev models.CommerceEvent) {
	if r == nil || r.w == nil {
		return
	}
	if ev.EventID == "" {
		ev.EventID = uuid.NewString()
	}
	if ev.Timestamp.IsZero() {
		ev.Timestamp = time.Now().UTC()
	}

	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), r.timeout)
	defer cancel()

	if err := r.w.InsertEvents(ctx, []models.CommerceEvent{ev}); err != nil {
		metrics.EventSinkErrors.Inc()
		logger.Warn(ctx).Err(err).Str("event_type", ev.EventType).Msg("Failed to record commerce event")
	}
}

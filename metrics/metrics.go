package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "shop_http_requests_total",
			Help: "Total number of HTTP requests by route, method and status",
		},
		[]string{"route", "method", "status"},
	)

	HTTPDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "shop_http_request_duration_seconds",
			Help:    "HTTP request latency in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"route", "method"},
	)

	MiningDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "shop_rule_mining_duration_seconds",
			Help:    "Time spent building the basket and mining association rules",
			Buckets: []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5},
		},
	)

	MinedRules = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "shop_association_rules",
			Help: "Number of association rules produced by the last mining run",
		},
	)

	SkippedItemsets = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "shop_rule_itemsets_skipped_total",
			Help: "Frequent itemsets too wide to split into association rules",
		},
	)

	Recommendations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "shop_recommendations_total",
			Help: "Recommendation responses by outcome (rules, fallback, empty)",
		},
		[]string{"outcome"},
	)

	TransactionsSaved = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "shop_transactions_saved_total",
			Help: "Total number of transactions persisted",
		},
	)

	EventSinkErrors = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "shop_event_sink_errors_total",
			Help: "Commerce events that could not be written to ClickHouse",
		},
	)
)

// RecordHTTP records one finished request.
func RecordHTTP(route, method string, status int, d time.Duration) {
	if route == "" {
		route = "unmatched"
	}
	HTTPRequests.WithLabelValues(route, method, strconv.Itoa(status)).Inc()
	HTTPDuration.WithLabelValues(route, method).Observe(d.Seconds())
}

// RecordMining records a mining run and the size of its rule set.
func RecordMining(d time.Duration, rules int) {
	MiningDuration.Observe(d.Seconds())
	MinedRules.Set(float64(rules))
}

// RecordRecommendation counts a recommendation response by outcome.
func RecordRecommendation(outcome string) {
	Recommendations.WithLabelValues(outcome).Inc()
}

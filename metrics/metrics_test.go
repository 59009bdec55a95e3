package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestRecordHTTP(t *testing.T) {
	before := testutil.ToFloat64(HTTPRequests.WithLabelValues("/search", "GET", "200"))
	RecordHTTP("/search", "GET", 200, 15*time.Millisecond)
	after := testutil.ToFloat64(HTTPRequests.WithLabelValues("/search", "GET", "200"))

	if after-before != 1 {
		t.Errorf("request counter delta = %v, want 1", after-before)
	}

	unmatched := testutil.ToFloat64(HTTPRequests.WithLabelValues("unmatched", "GET", "404"))
	RecordHTTP("", "GET", 404, time.Millisecond)
	if got := testutil.ToFloat64(HTTPRequests.WithLabelValues("unmatched", "GET", "404")); got-unmatched != 1 {
		t.Errorf("empty route should be labelled unmatched, delta = %v", got-unmatched)
	}
}

func TestRecordMining(t *testing.T) {
	RecordMining(3*time.Millisecond, 7)
	if got := testutil.ToFloat64(MinedRules); got != 7 {
		t.Errorf("MinedRules = %v, want 7", got)
	}
	RecordMining(time.Millisecond, 0)
	if got := testutil.ToFloat64(MinedRules); got != 0 {
		t.Errorf("MinedRules = %v, want 0", got)
	}
}

func TestRecordRecommendation(t *testing.T) {
	for _, outcome := range []string{"rules", "fallback", "empty"} {
		before := testutil.ToFloat64(Recommendations.WithLabelValues(outcome))
		RecordRecommendation(outcome)
		if got := testutil.ToFloat64(Recommendations.WithLabelValues(outcome)); got-before != 1 {
			t.Errorf("%s delta = %v, want 1", outcome, got-before)
		}
	}
}

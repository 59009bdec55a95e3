package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"anonshop/api/logger"
)

const defaultStatsWindow = 7 * 24 * time.Hour

// StatsHandlers serves aggregates over commerce events. Stats is nil when ClickHouse is not configured.
type StatsHandlers struct {
	Stats EventStats
}

func NewStatsHandlers(stats EventStats) *StatsHandlers {
	return &StatsHandlers{Stats: stats}
}

func (h *StatsHandlers) available(c *gin.Context) bool {
	if h.Stats == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Event analytics are not configured"})
		return false
	}
	return true
}

// timeRange reads ?start= and ?end= (RFC3339), defaulting to the last seven days.
func timeRange(c *gin.Context) (start, end time.Time, ok bool) {
	end = time.Now().UTC()
	start = end.Add(-defaultStatsWindow)

	if s := c.Query("start"); s != "" {
		t, err := time.Parse(time.RFC3339, s)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid 'start' timestamp format. Use RFC3339 (e.g., 2006-01-02T15:04:05Z)"})
			return start, end, false
		}
		start = t
	}
	if e := c.Query("end"); e != "" {
		t, err := time.Parse(time.RFC3339, e)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid 'end' timestamp format. Use RFC3339 (e.g., 2006-01-02T15:04:05Z)"})
			return start, end, false
		}
		end = t
	}
	if end.Before(start) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "'end' must not be before 'start'"})
		return start, end, false
	}
	return start, end, true
}

func (h *StatsHandlers) GetEventCountsOverTime(c *gin.Context) {
	if !h.available(c) {
		return
	}
	interval := c.Query("interval")
	if interval == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "interval query parameter is required (e.g., 'Day', 'Hour')"})
		return
	}
	start, end, ok := timeRange(c)
	if !ok {
		return
	}

	ctx := c.Request.Context()
	results, err := h.Stats.GetEventCountsOverTime(ctx, interval, start, end, c.Query("eventType"))
	if err != nil {
		logger.Error(ctx).Err(err).Msg("Error getting event counts over time")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve event statistics"})
		return
	}
	c.JSON(http.StatusOK, results)
}

func (h *StatsHandlers) GetTopProducts(c *gin.Context) {
	if !h.available(c) {
		return
	}
	start, end, ok := timeRange(c)
	if !ok {
		return
	}

	var limit uint64 = 10
	if l := c.Query("limit"); l != "" {
		parsed, err := strconv.ParseUint(l, 10, 64)
		if err != nil || parsed == 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid 'limit' parameter. Must be a positive integer."})
			return
		}
		limit = parsed
	}

	ctx := c.Request.Context()
	results, err := h.Stats.GetTopProducts(ctx, start, end, limit)
	if err != nil {
		logger.Error(ctx).Err(err).Msg("Error getting top products")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve top product statistics"})
		return
	}
	c.JSON(http.StatusOK, results)
}

package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"anonshop/api/logger"
	"anonshop/api/models"
	"anonshop/api/web"
)

type Pinger interface {
	Ping(ctx context.Context) error
}

type PageHandlers struct {
	Transactions    TransactionRepository
	DB              Pinger
	Title           string
	MostBoughtLimit int
}

func NewPageHandlers(txs TransactionRepository, db Pinger, mostBoughtLimit int) *PageHandlers {
	return &PageHandlers{Transactions: txs, DB: db, Title: "Anon eCommerce", MostBoughtLimit: mostBoughtLimit}
}

// Index renders the landing page. A failed ranking query still renders the page, without products.
func (h *PageHandlers) Index(c *gin.Context) {
	ctx := c.Request.Context()

	ranked, err := h.Transactions.MostBought(ctx, h.MostBoughtLimit)
	if err != nil {
		logger.Warn(ctx).Err(err).Msg("Landing page rendered without most bought products")
		ranked = []models.RankedProduct{}
	}
	c.HTML(http.StatusOK, "index.html", web.IndexData{Title: h.Title, MostBought: ranked})
}

// Health pings Postgres and reports the number of stored transactions.
func (h *PageHandlers) Health(c *gin.Context) {
	ctx := c.Request.Context()

	if err := h.DB.Ping(ctx); err != nil {
		logger.Error(ctx).Err(err).Msg("Health check failed")
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable", "error": err.Error()})
		return
	}
	n, err := h.Transactions.Count(ctx)
	if err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable", "error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok", "transactions": n})
}

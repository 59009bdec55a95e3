package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"anonshop/api/logger"
	"anonshop/api/models"
)

type ProductHandlers struct {
	Products        ProductRepository
	Transactions    TransactionRepository
	Events          EventRecorder
	MostBoughtLimit int
}

func NewProductHandlers(products ProductRepository, txs TransactionRepository, events EventRecorder, mostBoughtLimit int) *ProductHandlers {
	if mostBoughtLimit <= 0 {
		mostBoughtLimit = 4
	}
	return &ProductHandlers{
		Products:        products,
		Transactions:    txs,
		Events:          recorderOrNop(events),
		MostBoughtLimit: mostBoughtLimit,
	}
}

// Search matches ?query= against product categories. An absent query lists every product.
func (h *ProductHandlers) Search(c *gin.Context) {
	ctx := c.Request.Context()
	query := c.Query("query")

	products, err := h.Products.SearchByCategory(ctx, query)
	if err != nil {
		logger.Error(ctx).Err(err).Str("query", query).Msg("Product search failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	h.Events.Record(ctx, models.CommerceEvent{EventType: models.EventSearch, Query: query})
	c.JSON(http.StatusOK, gin.H{"products": products})
}

// SaveProducts loads a catalog batch. Products whose id already exists are left untouched.
func (h *ProductHandlers) SaveProducts(c *gin.Context) {
	ctx := c.Request.Context()

	var products []models.Product
	if err := c.ShouldBindJSON(&products); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid product list", "details": err.Error()})
		return
	}

	inserted, skipped, err := h.Products.SaveProducts(ctx, products)
	if err != nil {
		logger.Error(ctx).Err(err).Int("products", len(products)).Msg("Failed to save products")
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message":  "Products saved successfully!",
		"inserted": inserted,
		"skipped":  skipped,
	})
}

func (h *ProductHandlers) MostBought(c *gin.Context) {
	ctx := c.Request.Context()

	ranked, err := h.Transactions.MostBought(ctx, h.MostBoughtLimit)
	if err != nil {
		logger.Error(ctx).Err(err).Msg("Failed to rank products")
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"most_bought_products": ranked})
}

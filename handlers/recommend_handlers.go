package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"anonshop/api/logger"
	"anonshop/api/metrics"
	"anonshop/api/models"
	"anonshop/api/recommend"
	"anonshop/api/utils"
)

const (
	outcomeRules    = "rules"
	outcomeFallback = "fallback"
	outcomeEmpty    = "empty"
)

type RecommendHandlers struct {
	Engine   Recommender
	Products ProductRepository
	Events   EventRecorder
}

func NewRecommendHandlers(engine Recommender, products ProductRepository, events EventRecorder) *RecommendHandlers {
	return &RecommendHandlers{Engine: engine, Products: products, Events: recorderOrNop(events)}
}

// Recommendations answers GET /recommendations/:user_email.
func (h *RecommendHandlers) Recommendations(c *gin.Context) {
	ctx := c.Request.Context()
	email := utils.NormalizeEmail(c.Param("user_email"))

	result, err := h.Engine.Recommend(ctx, email)
	if err != nil {
		logger.Error(ctx).Err(err).Str("user_email", email).Msg("Recommendation failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	products := []models.Product{}
	if len(result.ProductIDs) > 0 {
		products, err = h.Products.GetProductsByIDs(ctx, result.ProductIDs)
		if err != nil {
			logger.Error(ctx).Err(err).Msg("Failed to load recommended products")
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
	}

	if len(products) == 0 {
		metrics.RecordRecommendation(outcomeEmpty)
		c.JSON(http.StatusOK, gin.H{"message": "No recommendations found"})
		return
	}

	outcome := outcomeRules
	if result.Strategy == recommend.StrategyFallback {
		outcome = outcomeFallback
	}
	metrics.RecordRecommendation(outcome)

	ids := make([]string, len(products))
	for i, p := range products {
		ids[i] = p.ID
	}
	h.Events.Record(ctx, models.CommerceEvent{
		EventType:  models.EventRecommendation,
		UserEmail:  email,
		ProductIDs: ids,
	})

	c.JSON(http.StatusOK, gin.H{"recommended_products": products})
}

// Rules exposes the current association rules for operators.
func (h *RecommendHandlers) Rules(c *gin.Context) {
	ctx := c.Request.Context()

	rs, err := h.Engine.Rules(ctx)
	if err != nil {
		logger.Error(ctx).Err(err).Msg("Failed to mine rules")
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, rs)
}

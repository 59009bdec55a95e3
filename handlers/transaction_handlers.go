package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"anonshop/api/logger"
	"anonshop/api/metrics"
	"anonshop/api/models"
	"anonshop/api/store"
	"anonshop/api/utils"
)

type TransactionHandlers struct {
	Transactions TransactionRepository
	Events       EventRecorder
	// NewID generates transaction ids; tests replace it.
	NewID func() string
}

func NewTransactionHandlers(txs TransactionRepository, events EventRecorder) *TransactionHandlers {
	return &TransactionHandlers{
		Transactions: txs,
		Events:       recorderOrNop(events),
		NewID:        utils.NewTransactionID,
	}
}

// SaveTransaction records a checkout. Prices and names come from the catalog, not the request.
func (h *TransactionHandlers) SaveTransaction(c *gin.Context) {
	ctx := c.Request.Context()

	var req models.SaveTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing user email or cart items"})
		return
	}

	email := utils.NormalizeEmail(req.UserEmail)
	tx, err := h.Transactions.Checkout(ctx, h.NewID(), email, req.Items)
	if err != nil {
		if errors.Is(err, store.ErrEmptyCart) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "No valid items in cart"})
			return
		}
		logger.Error(ctx).Err(err).Str("user_email", email).Msg("Failed to save transaction")
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	metrics.TransactionsSaved.Inc()
	h.Events.Record(ctx, models.CommerceEvent{
		EventType:  models.EventPurchase,
		UserEmail:  tx.UserEmail,
		ProductIDs: tx.ProductIDs(),
		Amount:     tx.TotalPrice,
	})

	c.JSON(http.StatusCreated, gin.H{
		"message":        "Transaction saved successfully!",
		"transaction_id": tx.ID,
	})
}

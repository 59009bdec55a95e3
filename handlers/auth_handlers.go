package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"anonshop/api/logger"
	"anonshop/api/models"
	"anonshop/api/store"
	"anonshop/api/utils"
)

const msgMissingFields = "Required fields are missing!"

type AuthHandlers struct {
	Users  UserRepository
	Events EventRecorder
}

func NewAuthHandlers(users UserRepository, events EventRecorder) *AuthHandlers {
	return &AuthHandlers{Users: users, Events: recorderOrNop(events)}
}

// Register creates an account from the registration form.
func (h *AuthHandlers) Register(c *gin.Context) {
	ctx := c.Request.Context()

	var req models.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Debug(ctx).Err(err).Msg("Rejected registration body")
		c.JSON(http.StatusBadRequest, gin.H{"error": msgMissingFields})
		return
	}

	hashed, err := utils.HashPassword(req.Password)
	if err != nil {
		logger.Error(ctx).Err(err).Msg("Failed to hash password")
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	user, err := h.Users.CreateUser(ctx, &models.User{
		Name:           strings.TrimSpace(req.Name),
		Email:          utils.NormalizeEmail(req.Email),
		Phone:          req.Phone,
		Address:        req.Address,
		Age:            int(req.Age.Float()),
		Gender:         req.Gender,
		Category:       req.Category,
		Budget:         req.Budget.Float(),
		PaymentMethod:  req.Payment,
		HashedPassword: hashed,
	})
	if err != nil {
		if errors.Is(err, store.ErrEmailTaken) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "User already exists!"})
			return
		}
		logger.Error(ctx).Err(err).Str("email", req.Email).Msg("Failed to create user")
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	h.Events.Record(ctx, models.CommerceEvent{EventType: models.EventRegister, UserEmail: user.Email})
	c.JSON(http.StatusCreated, gin.H{"message": "User registered successfully!"})
}

// Login checks a password against the stored hash. No session or token is issued.
func (h *AuthHandlers) Login(c *gin.Context) {
	ctx := c.Request.Context()

	var req models.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": msgMissingFields})
		return
	}

	user, err := h.Users.GetUserByEmail(ctx, utils.NormalizeEmail(req.Email))
	if err != nil {
		if errors.Is(err, store.ErrUserNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "User not found!"})
			return
		}
		logger.Error(ctx).Err(err).Msg("Failed to load user for login")
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	if !utils.VerifyPassword(user.HashedPassword, req.Password) {
		logger.Info(ctx).Str("email", user.Email).Msg("Login failed: password mismatch")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid password!"})
		return
	}

	logger.Info(ctx).Int("user_id", user.ID).Str("email", user.Email).Msg("User logged in")
	c.JSON(http.StatusOK, gin.H{"message": "Login successful!"})
}

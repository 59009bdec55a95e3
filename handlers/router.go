package handlers

import (
	"html/template"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"anonshop/api/middleware"
)

type RouterConfig struct {
	Auth         *AuthHandlers
	Products     *ProductHandlers
	Transactions *TransactionHandlers
	Recommend    *RecommendHandlers
	Stats        *StatsHandlers
	Pages        *PageHandlers

	Templates      *template.Template
	CORSOrigins    []string
	AdminAPIKey    string
	JWTSecret      string
	RequestTimeout time.Duration
}

// NewRouter wires every route. Storefront routes keep the paths the web frontend already calls.
func NewRouter(cfg RouterConfig) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestLogger())
	r.Use(middleware.CORS(cfg.CORSOrigins))

	if cfg.Templates != nil {
		r.SetHTMLTemplate(cfg.Templates)
	}

	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	r.GET("/health", cfg.Pages.Health)
	r.GET("/", cfg.Pages.Index)

	shop := r.Group("/")
	shop.Use(middleware.Timeout(cfg.RequestTimeout))
	{
		shop.POST("/register", cfg.Auth.Register)
		shop.POST("/login", cfg.Auth.Login)
		shop.GET("/search", cfg.Products.Search)
		shop.POST("/save_products", cfg.Products.SaveProducts)
		shop.POST("/save_transaction", cfg.Transactions.SaveTransaction)
		shop.GET("/most_bought", cfg.Products.MostBought)
		shop.GET("/recommendations/:user_email", cfg.Recommend.Recommendations)
	}

	stats := r.Group("/stats")
	stats.Use(middleware.AdminRequired(cfg.AdminAPIKey, cfg.JWTSecret), middleware.Timeout(cfg.RequestTimeout))
	{
		stats.GET("/event-counts", cfg.Stats.GetEventCountsOverTime)
		stats.GET("/top-products", cfg.Stats.GetTopProducts)
		stats.GET("/rules", cfg.Recommend.Rules)
	}

	r.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Not found"})
	})
	return r
}

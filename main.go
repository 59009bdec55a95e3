package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"anonshop/api/config"
	"anonshop/api/database"
	"anonshop/api/handlers"
	"anonshop/api/logger"
	"anonshop/api/recommend"
	"anonshop/api/store"
	"anonshop/api/utils"
	"anonshop/api/web"
)

func main() {
	mintToken := flag.Bool("mint-admin-token", false, "print an admin token for the /stats endpoints and exit")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	logger.Init("anonshop-api", cfg.Log.Level, cfg.Log.Pretty)
	log := logger.Logger

	if *mintToken {
		token, err := utils.GenerateAdminToken(cfg.Auth.JWTSecret, "operator", cfg.Auth.TokenTTL)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to mint admin token")
		}
		fmt.Println(token)
		return
	}

	if cfg.IsRelease() {
		gin.SetMode(gin.ReleaseMode)
	}

	// --- PostgreSQL (users, products, transactions) ---
	dbClient, err := database.NewPostgresDB(cfg.Database)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize PostgreSQL database")
	}
	defer dbClient.Close()

	if cfg.Database.AutoMigrate {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		err := dbClient.EnsureSchema(ctx)
		cancel()
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to apply PostgreSQL schema")
		}
	}

	// --- ClickHouse (commerce events, optional) ---
	var (
		recorder *store.EventRecorder
		stats    handlers.EventStats
	)
	if cfg.ClickHouse.Enabled() {
		chClient, err := database.NewClickHouseDB(cfg.ClickHouse)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to initialize ClickHouse database")
		}
		defer chClient.Close()

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		err = chClient.EnsureSchema(ctx)
		cancel()
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to apply ClickHouse schema")
		}

		eventStore := store.NewEventStore(chClient)
		recorder = store.NewEventRecorder(eventStore, 2*time.Second)
		stats = eventStore
	} else {
		log.Info().Msg("ClickHouse host not set, commerce events are not recorded")
	}

	// --- Stores ---
	userStore := store.NewUserStore(dbClient.DB)
	productStore := store.NewProductStore(dbClient.DB)
	transactionStore := store.NewTransactionStore(dbClient.DB)

	engine := recommend.NewEngine(transactionStore, productStore, recommend.Config{
		MinSupport:    cfg.Recommend.MinSupport,
		MinLift:       cfg.Recommend.MinLift,
		MaxLen:        cfg.Recommend.MaxLen,
		MaxResults:    cfg.Recommend.MaxResults,
		FallbackLimit: cfg.Recommend.FallbackLimit,
	})

	tmpl, err := web.Templates()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to parse page templates")
	}

	// --- Handlers ---
	r := handlers.NewRouter(handlers.RouterConfig{
		Auth:           handlers.NewAuthHandlers(userStore, recorder),
		Products:       handlers.NewProductHandlers(productStore, transactionStore, recorder, cfg.Catalog.MostBoughtLimit),
		Transactions:   handlers.NewTransactionHandlers(transactionStore, recorder),
		Recommend:      handlers.NewRecommendHandlers(engine, productStore, recorder),
		Stats:          handlers.NewStatsHandlers(stats),
		Pages:          handlers.NewPageHandlers(transactionStore, dbClient, cfg.Catalog.MostBoughtLimit),
		Templates:      tmpl,
		CORSOrigins:    cfg.CORS.Origins,
		AdminAPIKey:    cfg.Auth.APIKey,
		JWTSecret:      cfg.Auth.JWTSecret,
		RequestTimeout: cfg.Server.RequestTimeout,
	})

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Info().Int("port", cfg.Server.Port).Msg("API server starting")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("API server failed to start")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server exiting.")
}

package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/gorilla/mux"
	_ "github.com/lib/pq"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/cors"

	"github.com/hedgie-app/hedgie/internal/auth"
	"github.com/hedgie-app/hedgie/internal/broker"
	"github.com/hedgie-app/hedgie/internal/cache"
	"github.com/hedgie-app/hedgie/internal/config"
	"github.com/hedgie-app/hedgie/internal/database"
	"github.com/hedgie-app/hedgie/internal/handlers"
	"github.com/hedgie-app/hedgie/internal/logger"
	"github.com/hedgie-app/hedgie/internal/middleware"
	"github.com/hedgie-app/hedgie/internal/monitoring"
	"github.com/hedgie-app/hedgie/internal/seed"
	"github.com/hedgie-app/hedgie/internal/services"
)

func main() {
	configPath := flag.String("config", os.Getenv("CONFIG_PATH"), "path to config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logg, err := logger.New(cfg.App.Env)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logg.Sync()

	db, err := database.Open(cfg.GetDatabaseURL())
	if err != nil {
		logg.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	ctx := context.Background()
	if err := db.Migrate(ctx); err != nil {
		logg.Fatalf("Failed to apply schema: %v", err)
	}

	if cfg.App.Seed {
		if err := seed.Run(ctx, db, logg); err != nil {
			logg.Fatalf("Failed to seed database: %v", err)
		}
	}

	// Cache is optional; the tracker service falls back to the database
	// when it is absent.
	var trackerCache *cache.TrackerCache
	if cfg.Redis.Enabled {
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
		})
		if err := client.Ping(ctx).Err(); err != nil {
			logg.Warnw("redis unavailable, tracker cache disabled", "error", err)
		} else {
			trackerCache = cache.NewTrackerCache(client, cfg.Redis.CacheTTL)
			if cfg.App.Seed {
				if err := trackerCache.Invalidate(ctx); err != nil {
					logg.Warnw("failed to invalidate tracker cache after seeding", "error", err)
				}
			}
		}
	}

	registry := prometheus.NewRegistry()
	metrics := monitoring.NewMetrics(registry)

	mockBroker := broker.NewMockBroker(db, cfg.Broker.TradeDelay)
	jwtManager := auth.NewJWTManager(cfg.Auth.JWTSecret, cfg.Auth.TokenExpiry)

	userService := services.NewUserService(db)
	trackerService := services.NewTrackerService(db, trackerCache)
	investmentService := services.NewInvestmentService(db, mockBroker)
	portfolioService := services.NewPortfolioService(db)
	transactionService := services.NewTransactionService(db)

	authHandler := handlers.NewAuthHandler(userService, jwtManager)
	trackerHandler := handlers.NewTrackerHandler(trackerService)
	investHandler := handlers.NewInvestHandler(investmentService, metrics)
	portfolioHandler := handlers.NewPortfolioHandler(portfolioService)
	transactionHandler := handlers.NewTransactionHandler(transactionService)
	userHandler := handlers.NewUserHandler(userService)
	healthHandler := handlers.NewHealthHandler(db)

	rateLimiter := middleware.NewRateLimiter(cfg.Server.RateLimit, cfg.Server.RateBurst)
	authMiddleware := middleware.NewAuthMiddleware(jwtManager)

	router := mux.NewRouter()
	router.Use(middleware.Recovery(logg))
	router.Use(middleware.RequestLogger(logg))
	router.Use(rateLimiter.RateLimit)
	router.Use(metrics.Middleware)

	router.Handle("/metrics", monitoring.Handler(registry)).Methods("GET")

	api := router.PathPrefix("/api/v1").Subrouter()
	api.Use(authMiddleware.Authenticate)
	api.HandleFunc("/health", healthHandler.Health).Methods("GET")

	api.HandleFunc("/auth/dev-login", authHandler.DevLogin).Methods("POST")
	api.HandleFunc("/auth/register", authHandler.Register).Methods("POST")

	api.HandleFunc("/trackers", trackerHandler.ListTrackers).Methods("GET")
	api.HandleFunc("/trackers/{id}", trackerHandler.GetTracker).Methods("GET")
	api.HandleFunc("/trackers/{id}/holdings", trackerHandler.GetHoldings).Methods("GET")
	api.HandleFunc("/trackers/{id}/performance", trackerHandler.GetPerformance).Methods("GET")

	api.HandleFunc("/invest", investHandler.Invest).Methods("POST")
	api.HandleFunc("/portfolio/{user_id}", portfolioHandler.GetPortfolio).Methods("GET")
	api.HandleFunc("/transactions/{user_id}", transactionHandler.GetTransactions).Methods("GET")

	api.HandleFunc("/user/{id}/deposit", userHandler.Deposit).Methods("POST")
	api.HandleFunc("/user/{id}/withdraw", userHandler.Withdraw).Methods("POST")
	api.HandleFunc("/user/{id}/balance", userHandler.GetBalance).Methods("GET")

	handler := cors.New(cors.Options{
		AllowedOrigins:   cfg.Server.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Authorization", "Content-Type"},
		AllowCredentials: true,
	}).Handler(router)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.App.Port),
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logg.Infow("server starting", "port", cfg.App.Port, "env", cfg.App.Env)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logg.Fatalf("Failed to start server: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logg.Info("server shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logg.Fatalf("Server forced to shutdown: %v", err)
	}

	logg.Info("server stopped")
}

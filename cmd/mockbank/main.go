package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/eaglebank/console/internal/mockbank/command"
	"github.com/eaglebank/console/internal/mockbank/config"
	"github.com/eaglebank/console/internal/mockbank/handler"
	"github.com/eaglebank/console/internal/mockbank/middleware"
	"github.com/eaglebank/console/internal/mockbank/query"
	"github.com/eaglebank/console/internal/mockbank/repository"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

func main() {
	cfg, err := config.LoadConfig(".")
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Amounts go over the wire as JSON numbers.
	decimal.MarshalJSONWithoutQuotes = true
	gin.SetMode(cfg.GinMode)

	repo := repository.NewBankRepository()
	if cfg.SeedDemo {
		if err := repo.Seed(cfg.AdminPassword, cfg.CustomerPassword); err != nil {
			log.Fatalf("Failed to seed demo data: %v", err)
		}
	}

	// --- CQRS wiring ---
	tokens := middleware.NewTokens(cfg.JWTSecret, cfg.TokenTTL)
	commandSvc := command.NewBankCommandService(repo, tokens)
	querySvc := query.NewBankQueryService(repo)
	authSvc := query.NewAuthQueryService(repo, tokens)

	router := gin.New()
	router.Use(gin.Recovery(), middleware.LoggingMiddleware())
	handler.RegisterRoutes(router, handler.RouterConfig{
		BasePath:    cfg.BasePath,
		StatusRoute: cfg.StatusRoute,
		Tokens:      tokens,
	}, handler.Handlers{
		Auth:         handler.NewAuthHandler(commandSvc, authSvc),
		Accounts:     handler.NewAccountHandler(commandSvc, querySvc),
		Transactions: handler.NewTransactionHandler(commandSvc, querySvc),
		Admin:        handler.NewAdminHandler(querySvc),
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Printf("Mock bank starting on port %s (base path %q, status route %t)", cfg.Port, cfg.BasePath, cfg.StatusRoute)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	<-sigChan
	log.Println("Shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Printf("Forced shutdown: %v", err)
	}
}

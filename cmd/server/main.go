package main

import (
	"context"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"finbuddy/internal/blog"
	"finbuddy/internal/config"
	"finbuddy/internal/db"
	"finbuddy/internal/handlers"
	"finbuddy/internal/services"
	"finbuddy/internal/session"
	"finbuddy/internal/store"
	"finbuddy/internal/websocket"

	"github.com/joho/godotenv"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load()
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stdout, nil)))
	database, err := db.Connect(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("failed to connect database: %v", err)
	}
	defer database.Close()

	users := store.NewUserStore(database)
	accounts := store.NewAccountStore(database)
	transactions := store.NewTransactionStore(database)
	categories := store.NewCategoryStore(database)
	audit := store.NewAuditStore(database)
	txRunner := db.NewTxRunner(database)
	hub := websocket.NewHub()
	ledger := services.NewLedgerService(txRunner, accounts, transactions, audit, hub)
	sessions := session.New(session.Config{
		Secret: cfg.SessionSecret,
		TTL:    cfg.SessionTTL,
		MaxAge: cfg.SessionMaxAge,
		Secure: cfg.Production(),
	})
	posts := blog.NewClient(blog.Config{
		BaseURL:       cfg.BlogBaseURL,
		SpaceID:       cfg.BlogSpaceID,
		Environment:   cfg.BlogEnvironment,
		DeliveryToken: cfg.BlogDeliveryToken,
	})

	handler := handlers.New(cfg, sessions, txRunner, users, accounts, transactions, categories, audit, ledger, posts, hub)
	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      handler.Routes(),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		slog.Info("finbuddy API listening", "addr", server.Addr, "env", cfg.AppEnv)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, syscall.SIGINT, syscall.SIGTERM)
	<-shutdown
	slog.Info("shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		log.Fatalf("shutdown error: %v", err)
	}
}

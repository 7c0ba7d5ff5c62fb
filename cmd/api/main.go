package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/estate-leads-api/internal/config"
	"github.com/estate-leads-api/internal/infrastructure/dynamo"
	jwtinfra "github.com/estate-leads-api/internal/infrastructure/jwt"
	"github.com/estate-leads-api/internal/infrastructure/memory"
	"github.com/estate-leads-api/internal/infrastructure/messaging"
	redisinfra "github.com/estate-leads-api/internal/infrastructure/redis"
	transporthttp "github.com/estate-leads-api/internal/transport/http"
	"github.com/joho/godotenv"
)

func main() {
	if err := godotenv.Load(); err != nil {
		slog.Info("no .env file found, reading from environment")
	}

	cfg := config.Load()
	setupLogger(cfg)

	if len(config.AdminPhones()) == 0 {
		slog.Warn("no admin phone numbers configured", "env", config.AdminPhonesEnv)
	}

	// Bootstrap DynamoDB tables (creates them if they don't exist).
	dynamoClient := dynamo.NewClient(cfg)
	dynamo.Bootstrap(context.Background(), dynamoClient, cfg.DynamoTables)

	jwtProvider, err := jwtinfra.NewProvider(cfg)
	if err != nil {
		slog.Error("JWT provider not available", "err", err)
		os.Exit(1)
	}

	verificationStore, closeStore := newVerificationStore(cfg, dynamoClient)
	defer closeStore()

	deps := &transporthttp.Deps{
		UserRepo:          dynamo.NewUserRepo(dynamoClient, cfg.DynamoTables.Users, cfg.DynamoTables.UserPhones),
		RequestRepo:       dynamo.NewRequestRepo(dynamoClient, cfg.DynamoTables.EstateRequests),
		NotificationRepo:  dynamo.NewNotificationRepo(dynamoClient, cfg.DynamoTables.Notifications),
		VerificationStore: verificationStore,
		Sender:            messaging.New(cfg),
		JWTProvider:       jwtProvider,
	}

	router := transporthttp.NewRouter(cfg, deps)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.AppPort),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		slog.Info("server starting", "port", cfg.AppPort, "env", cfg.AppEnv,
			"verification_store", cfg.VerificationStore, "messaging", cfg.MessagingProvider)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server error", "err", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("shutting down server")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		slog.Error("forced shutdown", "err", err)
		return
	}
	slog.Info("server stopped")
}

func setupLogger(cfg *config.Config) {
	var h slog.Handler
	if cfg.IsProduction() {
		h = slog.NewJSONHandler(os.Stdout, nil)
	} else {
		h = slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug})
	}
	slog.SetDefault(slog.New(h))
}

// newVerificationStore picks the backend for pending codes. The returned
// func releases any connection it opened.
func newVerificationStore(cfg *config.Config, client dynamo.API) (transporthttp.VerificationStore, func()) {
	switch cfg.VerificationStore {
	case "dynamo":
		return dynamo.NewVerificationRepo(client, cfg.DynamoTables.VerificationCodes), func() {}
	case "redis":
		rc := redisinfra.NewClient(cfg.RedisAddr, cfg.RedisPassword)
		if err := rc.Ping(context.Background()).Err(); err != nil {
			slog.Error("redis not reachable", "addr", cfg.RedisAddr, "err", err)
			os.Exit(1)
		}
		return redisinfra.NewVerificationStore(rc), func() { _ = rc.Close() }
	default:
		if cfg.VerificationStore != "memory" {
			slog.Warn("unknown verification store, using memory", "store", cfg.VerificationStore)
		}
		return memory.NewVerificationStore(), func() {}
	}
}

/**
 * @description
 * This is the main entry point for the payment-service. It starts a stateless HTTP proxy
 * that exchanges tokens with the MTN MoMo API and relays collection ("pay") and
 * disbursement ("withdraw") requests to it.
 *
 * @dependencies
 * - github.com/joho/godotenv: For loading .env files during local development.
 * - internal/payment/api, internal/payment/app, internal/payment/config, pkg/momoclient.
 */
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/levishimwe/savesmart-mobile-app-Group4/internal/payment/api"
	"github.com/levishimwe/savesmart-mobile-app-Group4/internal/payment/app"
	"github.com/levishimwe/savesmart-mobile-app-Group4/internal/payment/config"
	"github.com/levishimwe/savesmart-mobile-app-Group4/pkg/momoclient"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	if err := godotenv.Load(); err != nil {
		logger.Info("no .env file found, using environment variables")
	}

	cfg, err := config.LoadConfig(".")
	if err != nil {
		logger.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	momo := momoclient.NewClient(cfg.MomoBaseURL, cfg.TargetEnvironment, cfg.HTTPTimeout)
	service := app.NewService(
		momo,
		momoclient.Credentials{
			APIUser:         cfg.CollectionAPIUser,
			APIKey:          cfg.CollectionAPIKey,
			SubscriptionKey: cfg.CollectionSubscriptionKey,
		},
		momoclient.Credentials{
			APIUser:         cfg.DisbursementAPIUser,
			APIKey:          cfg.DisbursementAPIKey,
			SubscriptionKey: cfg.DisbursementSubscriptionKey,
		},
		cfg.Currency,
		logger,
	)

	handlers := api.NewPaymentHandlers(service, logger)
	server := &http.Server{
		Addr:    ":" + cfg.ServerPort,
		Handler: api.PaymentRoutes(handlers, cfg.AllowedOrigins()),
	}

	go func() {
		logger.Info("server listening", "addr", server.Addr, "target_environment", cfg.TargetEnvironment)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server failed", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.Error("server shutdown failed", "error", err)
		os.Exit(1)
	}

	logger.Info("server gracefully stopped")
}

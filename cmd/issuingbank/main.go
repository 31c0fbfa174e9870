package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/paygs/paygs/internal/config"
	"github.com/paygs/paygs/internal/infra"
	"github.com/paygs/paygs/internal/issuer"
	"github.com/paygs/paygs/internal/logging"
	"github.com/paygs/paygs/internal/middleware"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config: %v\n", err)
		os.Exit(1)
	}

	logger := logging.New(cfg.LogLevel)

	ctx := context.Background()

	store := issuer.NewMemoryStore()
	if cfg.RedisURL != "" {
		cache, err := infra.NewRedisClient(ctx, cfg.RedisURL)
		if err != nil {
			logger.Error("connect redis", "error", err)
			os.Exit(1)
		}
		defer func() {
			if err := cache.Close(); err != nil {
				logger.Warn("close redis", "error", err)
			}
		}()
		// Sessions outlive the OTP window so expiry can be reported as a
		// timeout instead of an unknown session.
		store = issuer.NewRedisStore(cache, 2*cfg.OTPWindow)
	}

	service := issuer.NewService(store, cfg.OTPWindow, cfg.OTPValidateURL(), cfg.BankCallTimeout, logger)

	app := fiber.New(fiber.Config{
		AppName:      cfg.AppName + "-issuingbank",
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
	})
	app.Use(recover.New())
	app.Use(middleware.RequestID())
	app.Use(middleware.Audit(logger))

	issuer.NewHandler(service).Register(app)

	srvErrCh := make(chan error, 1)
	go func() {
		srvErrCh <- app.Listen(cfg.IssuerAddress())
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		logger.Info("shutdown signal received", "signal", sig.String())
	case err := <-srvErrCh:
		if err != nil {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
		return
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownPeriod)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		logger.Error("shutdown error", "error", err)
		os.Exit(1)
	}

	logger.Info("server exited cleanly")
}

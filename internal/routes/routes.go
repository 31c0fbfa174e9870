package routes

import (
	"context"
	"log/slog"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"github.com/paygs/paygs/internal/bank"
	"github.com/paygs/paygs/internal/config"
	"github.com/paygs/paygs/internal/event"
	"github.com/paygs/paygs/internal/merchant"
	"github.com/paygs/paygs/internal/middleware"
	"github.com/paygs/paygs/internal/payment"
)

// Deps aggregates the shared dependencies required to wire routes.
type Deps struct {
	Cfg    config.Config
	DB     *pgxpool.Pool
	Cache  *redis.Client
	Logger *slog.Logger
}

// Setup configures middlewares and all gateway routes. Without a database
// connection (development mode) everything runs on in-memory backends.
func Setup(app *fiber.App, d Deps) error {
	app.Use(recover.New())
	app.Use(middleware.RequestID())
	app.Use(middleware.Audit(d.Logger))
	if d.Cache != nil {
		app.Use(middleware.Idempotency(d.Cache, d.Cfg.IdempotencyTTL, d.Logger))
	}

	RegisterHealthRoutes(app, d)

	var bankRepo bank.Repository
	var merchantRepo merchant.Repository
	var paymentRepo payment.Repository
	if d.DB != nil {
		bankRepo = bank.NewPostgresRepository(d.DB)
		merchantRepo = merchant.NewPostgresRepository(d.DB)
		paymentRepo = payment.NewPostgresRepository(d.DB)
	} else {
		bankRepo = bank.NewMemoryRepository()
		merchantRepo = merchant.NewMemoryRepository()
		paymentRepo = payment.NewMemoryRepository()
	}

	if d.Cfg.InitDB {
		if err := merchant.Seed(context.Background(), merchantRepo, bankRepo, d.Logger); err != nil {
			return err
		}
	}

	var events event.Publisher
	if d.Cache != nil {
		events = event.NewRedisPublisher(d.Cache)
	} else {
		events = event.NewLoggerPublisher(d.Logger)
	}

	merchantSvc := merchant.NewService(merchantRepo, bankRepo, d.Logger)

	bankClient := payment.NewHTTPBankClient(d.Cfg.BankCallTimeout)
	authenticator := payment.NewAuthenticator(bankClient, d.Cfg.ChallengeResultURL(), d.Cfg.SuccessRedirectURL())
	authorizer := payment.NewAuthorizer(bankClient)
	paymentSvc := payment.NewService(paymentRepo, merchantSvc, bankRepo, authenticator, authorizer, events, d.Logger)

	merchantHandler := merchant.NewHandler(merchantSvc)
	paymentHandler := payment.NewHandler(paymentSvc)

	// Endpoints reached by the issuing bank and the payer's browser carry no
	// merchant identity.
	app.Post("/result", paymentHandler.ChallengeResult)
	app.Get("/redirect/:uuid", paymentHandler.Redirect)

	// Merchant-facing endpoints require the caller identity propagated by
	// the upstream authenticator.
	authed := app.Group("", middleware.MerchantAuth())
	authed.Post("/payments", middleware.PanRateLimit(d.Cache, d.Cfg.PanRateLimit), paymentHandler.Create)
	authed.Post("/clients", merchantHandler.CreateClient)
	authed.Put("/clients", merchantHandler.UpdateClient)
	authed.Get("/clients/:uuid", merchantHandler.GetClient)
	authed.Post("/pos", merchantHandler.CreatePos)

	return nil
}

package billingapi

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi"
	"github.com/streadway/amqp"

	"github.com/magabrotheeeer/prorated-billing/internal/backend"
	"github.com/magabrotheeeer/prorated-billing/internal/cache"
	"github.com/magabrotheeeer/prorated-billing/internal/config"
	"github.com/magabrotheeeer/prorated-billing/internal/http/handlers/health"
	"github.com/magabrotheeeer/prorated-billing/internal/http/middlewarectx"
	"github.com/magabrotheeeer/prorated-billing/internal/lib/jwt"
	"github.com/magabrotheeeer/prorated-billing/internal/lib/rabbitmq"
	"github.com/magabrotheeeer/prorated-billing/internal/lib/sl"
	"github.com/magabrotheeeer/prorated-billing/internal/migrations"
	"github.com/magabrotheeeer/prorated-billing/internal/paymentprovider"
	"github.com/magabrotheeeer/prorated-billing/internal/services/account"
	planservice "github.com/magabrotheeeer/prorated-billing/internal/services/plans"
	upgradeservice "github.com/magabrotheeeer/prorated-billing/internal/services/upgrade"
	"github.com/magabrotheeeer/prorated-billing/internal/storage"
)

type App struct {
	server *http.Server
	logger *slog.Logger
	db     *storage.Storage
	cache  *cache.Cache
	conn   *amqp.Connection
	ch     *amqp.Channel
}

func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	const op = "billingapi.New"

	loc, err := cfg.Billing.Location()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	db, err := storage.New(cfg.StorageConnectionString)
	if err != nil {
		return nil, err
	}
	if err = migrations.Run(db.DB, cfg.MigrationsPath); err != nil {
		_ = db.Close()
		return nil, err
	}

	cacheRedis, err := cache.InitServer(ctx, cfg.Redis)
	if err != nil {
		_ = db.Close()
		return nil, err
	}

	conn, err := rabbitmq.Connect(cfg.RabbitMQ.URL, cfg.RabbitMQ.Retries, cfg.RabbitMQ.RetryDelay)
	if err != nil {
		_ = db.Close()
		_ = cacheRedis.Close()
		return nil, err
	}
	ch, err := rabbitmq.SetupChannel(conn, cfg.RabbitMQ.Exchange, rabbitmq.BillingQueues(cfg.RabbitMQ))
	if err != nil {
		_ = conn.Close()
		_ = db.Close()
		_ = cacheRedis.Close()
		return nil, err
	}
	publisher := rabbitmq.NewPublisher(ch, cfg.RabbitMQ.Exchange, cfg.RabbitMQ.RoutingKey)

	backendClient := backend.New(cfg.Backend, cfg.CircuitBreaker, loc, logger)
	mollie := paymentprovider.NewClient(cfg.Mollie, cfg.CircuitBreaker, logger)

	upgradeService := upgradeservice.New(backendClient, mollie, db, cacheRedis, publisher, upgradeservice.Config{
		Currency:    cfg.Billing.Currency,
		RedirectURL: cfg.Mollie.RedirectURL,
		WebhookURL:  cfg.Mollie.WebhookURL,
		LockTTL:     cfg.Billing.LockTTL,
		Location:    loc,
	}, nil, logger)
	planService := planservice.NewPlanService(backendClient, cacheRedis, cfg.Billing.PlanCacheTTL, logger)
	accountService := account.New(backendClient, db, logger)

	router := chi.NewRouter()
	RegisterRoutes(router, logger, Services{
		Upgrade:  upgradeService,
		Plans:    planService,
		Customer: accountService,
		Payments: accountService,
		Tokens:   jwt.NewJWTMaker(cfg.JWTToken.JWTSecretKey, cfg.JWTToken.TokenTTL),
		Limiter:  middlewarectx.NewUserLimiter(cfg.RateLimit),
		Checks: map[string]health.Checker{
			"postgres": db.DB.PingContext,
			"redis": func(ctx context.Context) error {
				return cacheRedis.Db.Ping(ctx).Err()
			},
			"rabbitmq": func(context.Context) error {
				if conn.IsClosed() {
					return amqp.ErrClosed
				}
				return nil
			},
		},
	})

	srv := &http.Server{
		Addr:         cfg.HTTPServer.AddressHTTP,
		Handler:      router,
		ReadTimeout:  cfg.HTTPServer.TimeoutHTTP,
		WriteTimeout: cfg.HTTPServer.TimeoutHTTP,
		IdleTimeout:  cfg.HTTPServer.IdleTimeout,
	}

	return &App{
		server: srv,
		logger: logger,
		db:     db,
		cache:  cacheRedis,
		conn:   conn,
		ch:     ch,
	}, nil
}

func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("HTTP server starting on", slog.String("address", a.server.Addr))
		err := a.server.ListenAndServe()
		if errors.Is(err, http.ErrServerClosed) {
			errCh <- nil
		} else {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		a.close()
		return err
	case <-ctx.Done():
		timeoutCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		a.logger.Info("shutting down HTTP server gracefully")
		err := a.server.Shutdown(timeoutCtx)
		a.close()
		return err
	}
}

func (a *App) close() {
	if err := a.ch.Close(); err != nil {
		a.logger.Error("failed to close channel", sl.Err(err))
	}
	if err := a.conn.Close(); err != nil {
		a.logger.Error("failed to close connection", sl.Err(err))
	}
	if err := a.cache.Close(); err != nil {
		a.logger.Error("failed to close redis", sl.Err(err))
	}
	if err := a.db.Close(); err != nil {
		a.logger.Error("failed to close database", sl.Err(err))
	}
}

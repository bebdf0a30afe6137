// Package premiumservice собирает HTTP-сервис премиум-статусов: хранилище
// статусов, журнал webhook-событий, кэш, брокер сообщений и маршруты.
package premiumservice

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi"
	"github.com/streadway/amqp"

	"github.com/Gagan625-cmd/shikshasetu-premium/internal/cache"
	"github.com/Gagan625-cmd/shikshasetu-premium/internal/config"
	"github.com/Gagan625-cmd/shikshasetu-premium/internal/lib/jwt"
	"github.com/Gagan625-cmd/shikshasetu-premium/internal/lib/sl"
	"github.com/Gagan625-cmd/shikshasetu-premium/internal/migrations"
	"github.com/Gagan625-cmd/shikshasetu-premium/internal/rabbitmq"
	premiumsvc "github.com/Gagan625-cmd/shikshasetu-premium/internal/services/premium"
	"github.com/Gagan625-cmd/shikshasetu-premium/internal/storage/repository"
	"github.com/Gagan625-cmd/shikshasetu-premium/internal/surreal"
)

type App struct {
	server     *http.Server
	logger     *slog.Logger
	db         *repository.Storage
	rabbitConn *amqp.Connection
	rabbitCh   *amqp.Channel
}

func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	logger.Debug("premium-service configuration",
		slog.String("address", cfg.AddressHTTP),
		slog.String("surreal_endpoint", cfg.SurrealDB.Endpoint),
		sl.Secret("surreal_token", cfg.SurrealDB.Token),
		sl.Secret("stripe_webhook_secret", cfg.StripeWebhookSecret),
		sl.Secret("admin_token_secret", cfg.AdminToken.Secret),
	)

	db, err := repository.New(cfg.LedgerConnectionString)
	if err != nil {
		return nil, err
	}
	if err = migrations.Run(db.DB, cfg.MigrationsPath); err != nil {
		return nil, err
	}

	cacheRedis, err := cache.InitServer(ctx, cfg.RedisConnection)
	if err != nil {
		return nil, err
	}

	store := surreal.NewClient(cfg.SurrealDB)

	// Брокер опционален: без него сервис работает, но письма-подтверждения
	// не отправляются.
	var publisher premiumsvc.Publisher
	var rabbitConn *amqp.Connection
	var rabbitCh *amqp.Channel
	if cfg.RabbitConnection != "" {
		rabbitConn, err = rabbitmq.Connect(cfg.RabbitConnection, cfg.RabbitMaxRetries, cfg.RabbitRetryDelay)
		if err != nil {
			return nil, err
		}
		rabbitCh, err = rabbitmq.SetupChannel(rabbitConn, rabbitmq.GetEntitlementQueues())
		if err != nil {
			rabbitConn.Close()
			return nil, err
		}
		publisher = &premiumsvc.ChannelPublisher{Channel: rabbitCh}
	} else {
		logger.Warn("rabbit connection is not configured, grant notifications disabled")
	}

	premiumService := premiumsvc.New(store, db, cacheRedis, publisher, cfg.RedisConnection.CheckTTL, logger)
	tokenMaker := jwt.NewJWTMaker(cfg.AdminToken.Secret, cfg.AdminToken.TTL)

	router := chi.NewRouter()
	RegisterRoutes(router, logger, premiumService, db, tokenMaker, cfg.StripeWebhookSecret)

	srv := &http.Server{
		Addr:         cfg.AddressHTTP,
		Handler:      router,
		ReadTimeout:  cfg.TimeoutHTTP,
		WriteTimeout: cfg.TimeoutHTTP,
		IdleTimeout:  cfg.IdleTimeout,
	}

	return &App{
		server:     srv,
		logger:     logger,
		db:         db,
		rabbitConn: rabbitConn,
		rabbitCh:   rabbitCh,
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
		return err
	case <-ctx.Done():
		timeoutCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		a.logger.Info("shutting down HTTP server gracefully")
		err := a.server.Shutdown(timeoutCtx)
		a.closeBroker()
		a.db.DB.Close()
		return err
	}
}

func (a *App) closeBroker() {
	if a.rabbitCh != nil {
		if err := a.rabbitCh.Close(); err != nil {
			a.logger.Error("failed to close channel", sl.Err(err))
		}
	}
	if a.rabbitConn != nil {
		if err := a.rabbitConn.Close(); err != nil {
			a.logger.Error("failed to close connection", sl.Err(err))
		}
	}
}

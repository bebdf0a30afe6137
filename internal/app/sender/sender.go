// Package sender собирает воркер отправки писем о выдаче премиума:
// подключение к брокеру, SMTP-транспорт и потребитель очереди.
package sender

import (
	"context"
	"log/slog"

	"github.com/streadway/amqp"

	"github.com/Gagan625-cmd/shikshasetu-premium/internal/config"
	"github.com/Gagan625-cmd/shikshasetu-premium/internal/lib/smtp"
	"github.com/Gagan625-cmd/shikshasetu-premium/internal/rabbitmq"
	senderservice "github.com/Gagan625-cmd/shikshasetu-premium/internal/services/sender"
)

type App struct {
	conn          *amqp.Connection
	ch            *amqp.Channel
	senderService *senderservice.SenderService
	logger        *slog.Logger
}

func New(_ context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	conn, err := rabbitmq.Connect(cfg.RabbitConnection, cfg.RabbitMaxRetries, cfg.RabbitRetryDelay)
	if err != nil {
		return nil, err
	}

	queues := rabbitmq.GetEntitlementQueues()
	ch, err := rabbitmq.SetupChannel(conn, queues)
	if err != nil {
		conn.Close()
		return nil, err
	}

	newTransport := smtp.NewTransport(cfg.SMTPConnection, logger)
	senderService := senderservice.NewSenderService(logger, newTransport)

	return &App{
		conn:          conn,
		ch:            ch,
		senderService: senderService,
		logger:        logger,
	}, nil
}

func (a *App) Run(ctx context.Context) error {
	err := rabbitmq.ConsumerMessage(ctx, a.logger, a.ch, rabbitmq.GrantedQueue, rabbitmq.DefaultPrefetch, a.senderService.SendPremiumGranted)
	if err != nil {
		a.logger.Error("failed to start granted queue consumer", slog.Any("err", err))
		return err
	}

	<-ctx.Done()
	a.logger.Info("Sender service shutting down gracefully")

	if err := a.ch.Close(); err != nil {
		a.logger.Error("failed to close channel", slog.Any("err", err))
	}

	if err := a.conn.Close(); err != nil {
		a.logger.Error("failed to close connection", slog.Any("err", err))
	}

	return nil
}

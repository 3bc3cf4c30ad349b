// Package upgradenotifier читает события о смене плана из RabbitMQ и
// отправляет клиенту письмо с подтверждением.
package upgradenotifier

import (
	"context"
	"log/slog"

	"github.com/streadway/amqp"

	"github.com/magabrotheeeer/prorated-billing/internal/config"
	"github.com/magabrotheeeer/prorated-billing/internal/lib/rabbitmq"
	"github.com/magabrotheeeer/prorated-billing/internal/lib/sl"
	"github.com/magabrotheeeer/prorated-billing/internal/lib/smtp"
	senderservice "github.com/magabrotheeeer/prorated-billing/internal/services/sender"
)

type App struct {
	conn          *amqp.Connection
	ch            *amqp.Channel
	queue         string
	senderService *senderservice.SenderService
	logger        *slog.Logger
}

func New(_ context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	conn, err := rabbitmq.Connect(cfg.RabbitMQ.URL, cfg.RabbitMQ.Retries, cfg.RabbitMQ.RetryDelay)
	if err != nil {
		return nil, err
	}

	ch, err := rabbitmq.SetupChannel(conn, cfg.RabbitMQ.Exchange, rabbitmq.BillingQueues(cfg.RabbitMQ))
	if err != nil {
		conn.Close()
		return nil, err
	}

	transport := smtp.NewTransport(cfg.SMTP, logger)
	senderService := senderservice.NewSenderService(logger, transport)

	return &App{
		conn:          conn,
		ch:            ch,
		queue:         cfg.RabbitMQ.Queue,
		senderService: senderService,
		logger:        logger,
	}, nil
}

func (a *App) Run(ctx context.Context) error {
	err := rabbitmq.ConsumerMessage(ctx, a.logger, a.ch, a.queue, a.senderService.SendUpgradeConfirmation)
	if err != nil {
		a.logger.Error("failed to start consumer", slog.String("queue", a.queue), sl.Err(err))
		return err
	}

	<-ctx.Done()
	a.logger.Info("upgrade notifier shutting down gracefully")

	if err := a.ch.Close(); err != nil {
		a.logger.Error("failed to close channel", sl.Err(err))
	}

	if err := a.conn.Close(); err != nil {
		a.logger.Error("failed to close connection", sl.Err(err))
	}

	return nil
}

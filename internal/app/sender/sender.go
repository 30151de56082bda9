// Package sender собирает и запускает сервис отправки писем из очередей.
package sender

import (
	"context"
	"log/slog"

	"github.com/streadway/amqp"

	"github.com/creatorshield/creatorshield/internal/config"
	"github.com/creatorshield/creatorshield/internal/lib/smtp"
	"github.com/creatorshield/creatorshield/internal/rabbitmq"
	senderservice "github.com/creatorshield/creatorshield/internal/services/sender"
)

// App инкапсулирует зависимости сервиса отправки писем.
type App struct {
	conn          *amqp.Connection
	ch            *amqp.Channel
	senderService *senderservice.SenderService
	logger        *slog.Logger
}

// New собирает приложение: подключение к брокеру и SMTP транспорт.
func New(_ context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	conn, err := rabbitmq.Connect(cfg.RabbitMQURL, cfg.RabbitMQMaxRetries, cfg.RabbitMQRetryDelay)
	if err != nil {
		return nil, err
	}

	ch, err := rabbitmq.SetupChannel(conn, rabbitmq.GetNotificationQueues())
	if err != nil {
		conn.Close()
		return nil, err
	}

	transport := smtp.NewTransport(cfg, logger)
	senderService := senderservice.NewSenderService(transport, logger)

	return &App{
		conn:          conn,
		ch:            ch,
		senderService: senderService,
		logger:        logger,
	}, nil
}

// Run запускает потребителей очередей и блокируется до отмены контекста.
func (a *App) Run(ctx context.Context) error {
	err := rabbitmq.ConsumerMessage(ctx, a.ch, rabbitmq.AccountQueue, a.senderService.SendAccountNotification)
	if err != nil {
		a.logger.Error("failed to start account notifications consumer", slog.Any("err", err))
		return err
	}

	err = rabbitmq.ConsumerMessage(ctx, a.ch, rabbitmq.DeviceQueue, a.senderService.SendDeviceNotification)
	if err != nil {
		a.logger.Error("failed to start device notifications consumer", slog.Any("err", err))
		return err
	}

	<-ctx.Done()
	a.logger.Info("sender service shutting down gracefully")

	if err := a.ch.Close(); err != nil {
		a.logger.Error("failed to close channel", slog.Any("err", err))
	}

	if err := a.conn.Close(); err != nil {
		a.logger.Error("failed to close connection", slog.Any("err", err))
	}

	return nil
}

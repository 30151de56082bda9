// Package creatorshield собирает и запускает HTTP-сервис аккаунтов.
package creatorshield

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi"
	"github.com/streadway/amqp"

	"github.com/creatorshield/creatorshield/internal/cache"
	"github.com/creatorshield/creatorshield/internal/config"
	customjwt "github.com/creatorshield/creatorshield/internal/lib/jwt"
	"github.com/creatorshield/creatorshield/internal/migrations"
	"github.com/creatorshield/creatorshield/internal/rabbitmq"
	accountservice "github.com/creatorshield/creatorshield/internal/services/account"
	authservice "github.com/creatorshield/creatorshield/internal/services/auth"
	deviceservice "github.com/creatorshield/creatorshield/internal/services/device"
	"github.com/creatorshield/creatorshield/internal/services/logingate"
	"github.com/creatorshield/creatorshield/internal/services/notify"
	checkerservice "github.com/creatorshield/creatorshield/internal/services/statuschecker"
	"github.com/creatorshield/creatorshield/internal/storage/repository"
)

// App инкапсулирует зависимости HTTP-сервиса аккаунтов.
type App struct {
	server *http.Server
	logger *slog.Logger
	db     *repository.Storage
	conn   *amqp.Connection
	ch     *amqp.Channel
}

// New собирает приложение: хранилище, кеш, брокер, сервисы и маршруты.
func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	db, err := repository.New(cfg.StorageConnectionString)
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

	conn, err := rabbitmq.Connect(cfg.RabbitMQURL, cfg.RabbitMQMaxRetries, cfg.RabbitMQRetryDelay)
	if err != nil {
		return nil, err
	}
	ch, err := rabbitmq.SetupChannel(conn, rabbitmq.GetNotificationQueues())
	if err != nil {
		conn.Close()
		return nil, err
	}

	notifier := notify.NewAMQPDispatcher(ch)
	maker := customjwt.NewJWTMaker(cfg.JWTSecretKey, cfg.TokenTTL)
	gate := logingate.New(cfg.StatusDelay)

	accounts := accountservice.NewService(db, cacheRedis, notifier, logger)
	devices := deviceservice.NewRegistry(db, notifier, cfg.AlertSuppressionWindow, logger)
	auth := authservice.NewService(accounts, devices, gate, maker, logger)
	checker := checkerservice.NewService(db, accounts, notifier, cfg.StatusDelay, logger)

	router := chi.NewRouter()
	RegisterRoutes(router, logger, auth, accounts, devices, checker)

	srv := &http.Server{
		Addr:         cfg.AddressHTTP,
		Handler:      router,
		ReadTimeout:  cfg.TimeoutHTTP,
		WriteTimeout: cfg.TimeoutHTTP,
		IdleTimeout:  cfg.IdleTimeout,
	}

	return &App{
		server: srv,
		logger: logger,
		db:     db,
		conn:   conn,
		ch:     ch,
	}, nil
}

// Run запускает HTTP-сервер и корректно останавливает его по отмене контекста.
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
		if closeErr := a.ch.Close(); closeErr != nil {
			a.logger.Error("failed to close channel", slog.Any("err", closeErr))
		}
		if closeErr := a.conn.Close(); closeErr != nil {
			a.logger.Error("failed to close connection", slog.Any("err", closeErr))
		}
		a.db.DB.Close()
		return err
	}
}

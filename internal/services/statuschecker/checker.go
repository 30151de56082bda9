// Package statuschecker реализует проход проверки статусов аккаунтов.
//
// Проход запускается только извне (ручной вызов эндпоинта или внешний
// планировщик) — внутреннего таймера нет. Функция идемпотентна: повторный
// запуск над теми же данными не делает лишних переходов.
package statuschecker

import (
	"context"
	"log/slog"
	"time"

	"github.com/creatorshield/creatorshield/internal/lib/sl"
	"github.com/creatorshield/creatorshield/internal/metrics"
	"github.com/creatorshield/creatorshield/internal/models"
)

// Repository определяет запросы, нужные для поиска просроченных окон.
type Repository interface {
	// FindExpiredSuspensions возвращает приостановленные аккаунты с отметкой не позже cutoff.
	FindExpiredSuspensions(ctx context.Context, cutoff time.Time) ([]*models.Account, error)
	// FindExpiredApprovedReactivations возвращает одобренные заявки с отметкой не позже cutoff.
	FindExpiredApprovedReactivations(ctx context.Context, cutoff time.Time) ([]*models.Account, error)
	// CountAccountsByStatus возвращает количество аккаунтов в статусе.
	CountAccountsByStatus(ctx context.Context, status models.AccountStatus) (int, error)
}

// TransitionExecutor применяет переход статуса одного аккаунта.
type TransitionExecutor interface {
	Transition(ctx context.Context, uid string, change models.StatusChange) (*models.Account, error)
}

// Dispatcher описывает отправку уведомлений о переходах.
type Dispatcher interface {
	Dispatch(ctx context.Context, n models.Notification) error
}

// Service реализует проход проверки статусов.
type Service struct {
	repo     Repository
	executor TransitionExecutor
	notifier Dispatcher
	delay    time.Duration
	log      *slog.Logger
}

// NewService создает новый экземпляр Service с задержкой активации delay.
func NewService(repo Repository, executor TransitionExecutor, notifier Dispatcher, delay time.Duration, log *slog.Logger) *Service {
	return &Service{
		repo:     repo,
		executor: executor,
		notifier: notifier,
		delay:    delay,
		log:      log,
	}
}

// Counts возвращает количество приостановленных и деактивированных
// аккаунтов. Ничего не мутирует.
func (s *Service) Counts(ctx context.Context) (*models.StatusCounts, error) {
	suspended, err := s.repo.CountAccountsByStatus(ctx, models.StatusSuspended)
	if err != nil {
		return nil, err
	}
	deactivated, err := s.repo.CountAccountsByStatus(ctx, models.StatusDeactivated)
	if err != nil {
		return nil, err
	}
	return &models.StatusCounts{
		SuspendedUsers:   suspended,
		DeactivatedUsers: deactivated,
	}, nil
}

// Sweep находит аккаунты с истёкшим окном ожидания и переводит их в
// active. Ошибка перехода или уведомления одного аккаунта логируется и
// не прерывает обработку остальных.
func (s *Service) Sweep(ctx context.Context) (*models.SweepResult, error) {
	now := time.Now().UTC()
	cutoff := now.Add(-s.delay)

	result := &models.SweepResult{
		ReactivatedUsers: []string{},
		ActivatedUsers:   []string{},
	}

	expired, err := s.repo.FindExpiredSuspensions(ctx, cutoff)
	if err != nil {
		return nil, err
	}
	for _, acc := range expired {
		updated, err := s.executor.Transition(ctx, acc.UID, models.StatusChange{
			Status: models.StatusActive,
		})
		if err != nil {
			s.log.Error("failed to reactivate suspended account",
				slog.String("uid", acc.UID), sl.Err(err))
			continue
		}
		metrics.SweepTransitions.WithLabelValues(models.ReasonExpiredSuspension).Inc()
		result.ReactivatedUsers = append(result.ReactivatedUsers, updated.Email)
		s.notify(ctx, updated, models.NotificationReactivated, models.ReasonExpiredSuspension)
	}

	approved, err := s.repo.FindExpiredApprovedReactivations(ctx, cutoff)
	if err != nil {
		return nil, err
	}
	completed := models.ReactivationCompleted
	for _, acc := range approved {
		updated, err := s.executor.Transition(ctx, acc.UID, models.StatusChange{
			Status:             models.StatusActive,
			ReactivationStatus: &completed,
		})
		if err != nil {
			s.log.Error("failed to activate account after approved reactivation",
				slog.String("uid", acc.UID), sl.Err(err))
			continue
		}
		metrics.SweepTransitions.WithLabelValues(models.ReasonExpiredReactivation).Inc()
		result.ActivatedUsers = append(result.ActivatedUsers, updated.Email)
		s.notify(ctx, updated, models.NotificationActivated, models.ReasonExpiredReactivation)
	}

	result.TotalProcessed = len(result.ReactivatedUsers) + len(result.ActivatedUsers)
	s.log.Info("status sweep finished",
		slog.Int("reactivated", len(result.ReactivatedUsers)),
		slog.Int("activated", len(result.ActivatedUsers)))
	return result, nil
}

func (s *Service) notify(ctx context.Context, acc *models.Account, kind, reason string) {
	err := s.notifier.Dispatch(ctx, models.Notification{
		Kind:     kind,
		Email:    acc.Email,
		Username: acc.Username,
		Reason:   reason,
	})
	if err != nil {
		metrics.NotificationFailures.Inc()
		s.log.Warn("failed to dispatch notification",
			slog.String("kind", kind), slog.String("email", acc.Email), sl.Err(err))
	}
}

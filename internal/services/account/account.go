// Package account содержит бизнес-логику переходов статуса аккаунта.
//
// Transition — единственный примитив записи статуса: и действия
// администратора, и автоматический проход проверки статусов применяют
// переходы через него. Политика "когда переходить" живёт у вызывающих.
package account

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/creatorshield/creatorshield/internal/lib/sl"
	"github.com/creatorshield/creatorshield/internal/metrics"
	"github.com/creatorshield/creatorshield/internal/models"
	"github.com/creatorshield/creatorshield/internal/storage/repository"
)

// ErrNoPendingRequest возвращается при попытке решить несуществующую заявку.
var ErrNoPendingRequest = errors.New("no pending reactivation request")

// ErrNotDeactivated возвращается, когда заявку подаёт недеактивированный аккаунт.
var ErrNotDeactivated = errors.New("account is not deactivated")

// Repository определяет методы для работы с аккаунтами в хранилище.
type Repository interface {
	// CreateAccount сохраняет новый аккаунт и возвращает его UID.
	CreateAccount(ctx context.Context, acc models.Account) (string, error)
	// GetAccountByEmail возвращает аккаунт по email.
	GetAccountByEmail(ctx context.Context, email string) (*models.Account, error)
	// GetAccountByUID возвращает аккаунт по UID.
	GetAccountByUID(ctx context.Context, uid string) (*models.Account, error)
	// TransitionAccount применяет переход статуса одним обновлением.
	TransitionAccount(ctx context.Context, uid string, change models.StatusChange) (*models.Account, error)
	// SetReactivationRequest записывает заявку создателя на реактивацию.
	SetReactivationRequest(ctx context.Context, email, reason, explanation string) (*models.Account, error)
}

// Cache описывает методы для кэширования данных.
type Cache interface {
	// Get пытается получить значение из кеша по ключу.
	Get(key string, result any) (bool, error)
	// Set сохраняет значение в кеш с временем жизни.
	Set(key string, value any, expiration time.Duration) error
	// Invalidate удаляет значение из кеша по ключу.
	Invalidate(key string) error
}

// Dispatcher описывает отправку уведомлений о переходах.
type Dispatcher interface {
	Dispatch(ctx context.Context, n models.Notification) error
}

// Service реализует бизнес-логику жизненного цикла аккаунта.
type Service struct {
	repo     Repository
	cache    Cache
	notifier Dispatcher
	log      *slog.Logger
}

// NewService создает новый экземпляр Service.
func NewService(repo Repository, cache Cache, notifier Dispatcher, log *slog.Logger) *Service {
	return &Service{
		repo:     repo,
		cache:    cache,
		notifier: notifier,
		log:      log,
	}
}

func cacheKey(email string) string {
	return fmt.Sprintf("account:%s", email)
}

// Create регистрирует новый аккаунт и возвращает его UID.
func (s *Service) Create(ctx context.Context, acc models.Account) (string, error) {
	return s.repo.CreateAccount(ctx, acc)
}

// GetByEmail возвращает аккаунт по email, используя кеш или репозиторий.
func (s *Service) GetByEmail(ctx context.Context, email string) (*models.Account, error) {
	var cached models.Account
	key := cacheKey(email)
	found, err := s.cache.Get(key, &cached)
	if err != nil {
		s.log.Warn("failed to read account from cache", slog.String("key", key), sl.Err(err))
	}
	if found {
		return &cached, nil
	}

	acc, err := s.repo.GetAccountByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if err := s.cache.Set(key, acc, time.Hour); err != nil {
		s.log.Warn("failed to cache account", slog.String("key", key), sl.Err(err))
	}
	return acc, nil
}

// GetByUID возвращает аккаунт по UID.
func (s *Service) GetByUID(ctx context.Context, uid string) (*models.Account, error) {
	return s.repo.GetAccountByUID(ctx, uid)
}

// Transition применяет переход статуса и инвалидирует кеш аккаунта.
// Возвращает обновлённую запись.
func (s *Service) Transition(ctx context.Context, uid string, change models.StatusChange) (*models.Account, error) {
	acc, err := s.repo.TransitionAccount(ctx, uid, change)
	if err != nil {
		return nil, err
	}
	if err := s.cache.Invalidate(cacheKey(acc.Email)); err != nil {
		s.log.Warn("failed to invalidate account cache", slog.String("email", acc.Email), sl.Err(err))
	}
	return acc, nil
}

// Suspend приостанавливает аккаунт и отправляет уведомление.
func (s *Service) Suspend(ctx context.Context, uid string) (*models.Account, error) {
	acc, err := s.lookup(ctx, uid)
	if err != nil {
		return nil, err
	}
	now := time.Now().UTC()
	updated, err := s.Transition(ctx, acc.UID, models.StatusChange{
		Status:              models.StatusSuspended,
		SuspensionTimestamp: &now,
	})
	if err != nil {
		return nil, err
	}
	s.notify(ctx, updated, models.NotificationSuspended, "")
	return updated, nil
}

// LiftSuspension досрочно снимает приостановку и отправляет уведомление.
func (s *Service) LiftSuspension(ctx context.Context, uid string) (*models.Account, error) {
	acc, err := s.lookup(ctx, uid)
	if err != nil {
		return nil, err
	}
	updated, err := s.Transition(ctx, acc.UID, models.StatusChange{
		Status: models.StatusActive,
	})
	if err != nil {
		return nil, err
	}
	s.notify(ctx, updated, models.NotificationSuspensionLifted, "")
	return updated, nil
}

// Deactivate деактивирует аккаунт и отправляет уведомление.
func (s *Service) Deactivate(ctx context.Context, uid string) (*models.Account, error) {
	acc, err := s.lookup(ctx, uid)
	if err != nil {
		return nil, err
	}
	updated, err := s.Transition(ctx, acc.UID, models.StatusChange{
		Status: models.StatusDeactivated,
	})
	if err != nil {
		return nil, err
	}
	s.notify(ctx, updated, models.NotificationDeactivated, "")
	return updated, nil
}

// RequestReactivation записывает заявку создателя на реактивацию.
// Заявка принимается только для деактивированного аккаунта.
func (s *Service) RequestReactivation(ctx context.Context, email, reason, explanation string) (*models.Account, error) {
	acc, err := s.repo.GetAccountByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if acc.Status != models.StatusDeactivated {
		return nil, ErrNotDeactivated
	}
	updated, err := s.repo.SetReactivationRequest(ctx, email, reason, explanation)
	if err != nil {
		return nil, err
	}
	if err := s.cache.Invalidate(cacheKey(email)); err != nil {
		s.log.Warn("failed to invalidate account cache", slog.String("email", email), sl.Err(err))
	}
	s.notify(ctx, updated, models.NotificationReactivationReceived, "")
	return updated, nil
}

// ApproveReactivation одобряет заявку: статус аккаунта остаётся
// deactivated, активация произойдёт после задержки при очередном проходе
// проверки статусов.
func (s *Service) ApproveReactivation(ctx context.Context, uid string) (*models.Account, error) {
	acc, err := s.lookup(ctx, uid)
	if err != nil {
		return nil, err
	}
	if acc.ReactivationStatus != models.ReactivationPending {
		return nil, ErrNoPendingRequest
	}
	now := time.Now().UTC()
	approved := models.ReactivationApproved
	updated, err := s.Transition(ctx, acc.UID, models.StatusChange{
		Status:                 models.StatusDeactivated,
		ReactivationStatus:     &approved,
		ReactivationApprovedAt: &now,
	})
	if err != nil {
		return nil, err
	}
	s.notify(ctx, updated, models.NotificationReactivationApproved, "")
	return updated, nil
}

// RejectReactivation отклоняет заявку на реактивацию.
func (s *Service) RejectReactivation(ctx context.Context, uid string) (*models.Account, error) {
	acc, err := s.lookup(ctx, uid)
	if err != nil {
		return nil, err
	}
	if acc.ReactivationStatus != models.ReactivationPending {
		return nil, ErrNoPendingRequest
	}
	rejected := models.ReactivationRejected
	updated, err := s.Transition(ctx, acc.UID, models.StatusChange{
		Status:             models.StatusDeactivated,
		ReactivationStatus: &rejected,
	})
	if err != nil {
		return nil, err
	}
	s.notify(ctx, updated, models.NotificationReactivationRejected, "")
	return updated, nil
}

// lookup возвращает аккаунт по UID и требует непустой email:
// запись без адреса считается отсутствующей.
func (s *Service) lookup(ctx context.Context, uid string) (*models.Account, error) {
	acc, err := s.repo.GetAccountByUID(ctx, uid)
	if err != nil {
		return nil, err
	}
	if acc.Email == "" {
		return nil, fmt.Errorf("account %s without email: %w", uid, repository.ErrAccountNotFound)
	}
	return acc, nil
}

// notify отправляет уведомление о переходе. Ошибка доставки логируется
// и не влияет на результат самого перехода.
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

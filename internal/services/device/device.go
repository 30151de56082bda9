// Package device реализует реестр сессий устройств.
//
// Реестр решает при каждом входе, видел ли он устройство у аккаунта
// раньше, ведёт список сессий и шлёт уведомление о новом устройстве с
// подавлением повторов внутри окна.
package device

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/creatorshield/creatorshield/internal/lib/fingerprint"
	"github.com/creatorshield/creatorshield/internal/lib/sl"
	"github.com/creatorshield/creatorshield/internal/metrics"
	"github.com/creatorshield/creatorshield/internal/models"
	"github.com/creatorshield/creatorshield/internal/storage/repository"
)

// Repository определяет методы хранилища для сессий и журнала уведомлений.
type Repository interface {
	CreateSession(ctx context.Context, sess models.DeviceSession) error
	GetSessionByFingerprint(ctx context.Context, email, fingerprint string) (*models.DeviceSession, error)
	ListSessions(ctx context.Context, email string) ([]*models.DeviceSession, error)
	TouchSession(ctx context.Context, id string, lastActivity time.Time) error
	UnmarkOtherSessions(ctx context.Context, email, keepID string) error
	DeleteSession(ctx context.Context, email, id string) error
	LastAlertSentAt(ctx context.Context, email, fingerprint string) (*time.Time, error)
	RecordAlert(ctx context.Context, email, fingerprint string, sentAt time.Time) error
}

// Dispatcher описывает отправку уведомлений о новом устройстве.
type Dispatcher interface {
	Dispatch(ctx context.Context, n models.Notification) error
}

// Registry реализует бизнес-логику реестра сессий устройств.
type Registry struct {
	repo        Repository
	notifier    Dispatcher
	suppression time.Duration
	log         *slog.Logger
}

// NewRegistry создает новый Registry с окном подавления повторных
// уведомлений suppression.
func NewRegistry(repo Repository, notifier Dispatcher, suppression time.Duration, log *slog.Logger) *Registry {
	return &Registry{
		repo:        repo,
		notifier:    notifier,
		suppression: suppression,
		log:         log,
	}
}

// IsNewDevice сообщает, видел ли реестр устройство у аккаунта раньше.
func (r *Registry) IsNewDevice(ctx context.Context, email string, info models.DeviceInfo) (bool, error) {
	_, err := r.repo.GetSessionByFingerprint(ctx, email, fingerprint.Derive(info))
	if errors.Is(err, repository.ErrSessionNotFound) {
		return true, nil
	}
	if err != nil {
		return false, err
	}
	return false, nil
}

// RecordSession регистрирует вход с устройства.
//
// Невиданный отпечаток создаёт новую сессию (isConfirmed = false до
// явного подтверждения) и запускает уведомление о новом устройстве;
// известный — обновляет отметку активности. В обоих случаях сессия
// помечается текущей, остальные сессии аккаунта последовательно
// размечаются как не текущие. Возвращает признак нового устройства и
// саму сессию.
func (r *Registry) RecordSession(ctx context.Context, email, username string, info models.DeviceInfo) (bool, *models.DeviceSession, error) {
	fp := fingerprint.Derive(info)
	now := time.Now().UTC()

	existing, err := r.repo.GetSessionByFingerprint(ctx, email, fp)
	if err == nil {
		if err := r.repo.TouchSession(ctx, existing.ID, now); err != nil {
			return false, nil, err
		}
		if err := r.repo.UnmarkOtherSessions(ctx, email, existing.ID); err != nil {
			r.log.Warn("failed to unmark other sessions", slog.String("email", email), sl.Err(err))
		}
		existing.LastActivity = now
		existing.IsCurrent = true
		return false, existing, nil
	}
	if !errors.Is(err, repository.ErrSessionNotFound) {
		return false, nil, err
	}

	info.Timestamp = now
	sess := models.DeviceSession{
		ID:           uuid.New().String(),
		UserEmail:    email,
		Fingerprint:  fp,
		Device:       info,
		IsActive:     true,
		IsConfirmed:  false,
		IsCurrent:    true,
		LastActivity: now,
		CreatedAt:    now,
	}
	if err := r.repo.CreateSession(ctx, sess); err != nil {
		return false, nil, err
	}
	if err := r.repo.UnmarkOtherSessions(ctx, email, sess.ID); err != nil {
		r.log.Warn("failed to unmark other sessions", slog.String("email", email), sl.Err(err))
	}

	r.maybeAlert(ctx, email, username, fp, &sess)

	return true, &sess, nil
}

// maybeAlert шлёт уведомление о новом устройстве, если для этой пары
// (email, fingerprint) его не отправляли внутри окна подавления.
// Ошибки уведомления и журнала не влияют на регистрацию сессии.
func (r *Registry) maybeAlert(ctx context.Context, email, username, fp string, sess *models.DeviceSession) {
	now := time.Now().UTC()
	lastSent, err := r.repo.LastAlertSentAt(ctx, email, fp)
	if err != nil {
		r.log.Warn("failed to read login alert log", slog.String("email", email), sl.Err(err))
	}
	if lastSent != nil && now.Sub(*lastSent) < r.suppression {
		r.log.Info("new device alert suppressed",
			slog.String("email", email), slog.Time("last_sent", *lastSent))
		return
	}

	device := sess.Device
	err = r.notifier.Dispatch(ctx, models.Notification{
		Kind:     models.NotificationNewDevice,
		Email:    email,
		Username: username,
		Device:   &device,
	})
	if err != nil {
		metrics.NotificationFailures.Inc()
		r.log.Warn("failed to dispatch new device notification",
			slog.String("email", email), sl.Err(err))
		return
	}
	if err := r.repo.RecordAlert(ctx, email, fp, now); err != nil {
		r.log.Warn("failed to record login alert", slog.String("email", email), sl.Err(err))
	}
}

// ListSessions возвращает активные сессии аккаунта.
func (r *Registry) ListSessions(ctx context.Context, email string) ([]*models.DeviceSession, error) {
	return r.repo.ListSessions(ctx, email)
}

// RevokeSession удаляет сессию по паре (email, sessionID).
func (r *Registry) RevokeSession(ctx context.Context, email, sessionID string) error {
	return r.repo.DeleteSession(ctx, email, sessionID)
}

package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

// LastAlertSentAt возвращает момент последнего уведомления о новом
// устройстве для пары (email, fingerprint) или nil, если уведомлений не было.
func (s *Storage) LastAlertSentAt(ctx context.Context, email, fingerprint string) (*time.Time, error) {
	const op = "storage.LastAlertSentAt"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	var sentAt sql.NullTime
	query := `SELECT MAX(sent_at)
			  FROM login_alerts
			  WHERE user_email = $1 AND fingerprint = $2`
	if err := s.DB.QueryRowContext(ctx, query, email, fingerprint).Scan(&sentAt); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if !sentAt.Valid {
		return nil, nil
	}
	return &sentAt.Time, nil
}

// RecordAlert записывает в журнал факт отправки уведомления о новом устройстве.
func (s *Storage) RecordAlert(ctx context.Context, email, fingerprint string, sentAt time.Time) error {
	const op = "storage.RecordAlert"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `INSERT INTO login_alerts (user_email, fingerprint, sent_at)
			  VALUES ($1, $2, $3)`
	if _, err := s.DB.ExecContext(ctx, query, email, fingerprint, sentAt); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

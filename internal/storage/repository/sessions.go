package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/creatorshield/creatorshield/internal/models"
)

const sessionColumns = `id, user_email, fingerprint, device_name, browser,
			      browser_version, os, os_version, ip_address, location, user_agent,
			      is_active, is_confirmed, is_current, last_activity, created_at`

func scanSession(row interface{ Scan(...any) error }) (*models.DeviceSession, error) {
	sess := &models.DeviceSession{}
	if err := row.Scan(&sess.ID, &sess.UserEmail, &sess.Fingerprint,
		&sess.Device.DeviceName, &sess.Device.Browser, &sess.Device.BrowserVersion,
		&sess.Device.OS, &sess.Device.OSVersion, &sess.Device.IPAddress,
		&sess.Device.Location, &sess.Device.UserAgent,
		&sess.IsActive, &sess.IsConfirmed, &sess.IsCurrent,
		&sess.LastActivity, &sess.CreatedAt); err != nil {
		return nil, err
	}
	sess.Device.Timestamp = sess.CreatedAt
	return sess, nil
}

// CreateSession сохраняет новую сессию устройства.
func (s *Storage) CreateSession(ctx context.Context, sess models.DeviceSession) error {
	const op = "storage.CreateSession"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `INSERT INTO device_sessions (id, user_email, fingerprint, device_name,
			      browser, browser_version, os, os_version, ip_address, location,
			      user_agent, is_active, is_confirmed, is_current, last_activity, created_at)
			  VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)`
	_, err := s.DB.ExecContext(ctx, query,
		sess.ID, sess.UserEmail, sess.Fingerprint, sess.Device.DeviceName,
		sess.Device.Browser, sess.Device.BrowserVersion, sess.Device.OS,
		sess.Device.OSVersion, sess.Device.IPAddress, sess.Device.Location,
		sess.Device.UserAgent, sess.IsActive, sess.IsConfirmed, sess.IsCurrent,
		sess.LastActivity, sess.CreatedAt)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// GetSessionByFingerprint возвращает сессию аккаунта по отпечатку устройства.
func (s *Storage) GetSessionByFingerprint(ctx context.Context, email, fingerprint string) (*models.DeviceSession, error) {
	const op = "storage.GetSessionByFingerprint"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT ` + sessionColumns + `
			  FROM device_sessions
			  WHERE user_email = $1 AND fingerprint = $2`
	sess, err := scanSession(s.DB.QueryRowContext(ctx, query, email, fingerprint))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%s: %w", op, ErrSessionNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return sess, nil
}

// ListSessions возвращает активные сессии аккаунта, свежие первыми.
func (s *Storage) ListSessions(ctx context.Context, email string) ([]*models.DeviceSession, error) {
	const op = "storage.ListSessions"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT ` + sessionColumns + `
			  FROM device_sessions
			  WHERE user_email = $1 AND is_active = TRUE
			  ORDER BY last_activity DESC`
	rows, err := s.DB.QueryContext(ctx, query, email)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()
	var result []*models.DeviceSession
	for rows.Next() {
		sess, err := scanSession(rows)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, sess)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// TouchSession обновляет отметку активности сессии и помечает её текущей.
func (s *Storage) TouchSession(ctx context.Context, id string, lastActivity time.Time) error {
	const op = "storage.TouchSession"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE device_sessions
			  SET last_activity = $2, is_current = TRUE
			  WHERE id = $1`
	res, err := s.DB.ExecContext(ctx, query, id, lastActivity)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if affected == 0 {
		return fmt.Errorf("%s: %w", op, ErrSessionNotFound)
	}
	return nil
}

// UnmarkOtherSessions снимает флаг текущей сессии со всех сессий аккаунта,
// кроме keepID. Последовательное обновление, без транзакции.
func (s *Storage) UnmarkOtherSessions(ctx context.Context, email, keepID string) error {
	const op = "storage.UnmarkOtherSessions"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE device_sessions
			  SET is_current = FALSE
			  WHERE user_email = $1 AND id <> $2 AND is_current = TRUE`
	if _, err := s.DB.ExecContext(ctx, query, email, keepID); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// DeleteSession удаляет сессию по паре (email, id).
// Возвращает ErrSessionNotFound, если пара не совпала ни с одной записью.
func (s *Storage) DeleteSession(ctx context.Context, email, id string) error {
	const op = "storage.DeleteSession"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `DELETE FROM device_sessions WHERE user_email = $1 AND id = $2`
	res, err := s.DB.ExecContext(ctx, query, email, id)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if affected == 0 {
		return fmt.Errorf("%s: %w", op, ErrSessionNotFound)
	}
	return nil
}

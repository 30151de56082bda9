package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/creatorshield/creatorshield/internal/models"
)

const accountColumns = `uid, email, username, password_hash, role, status,
			      suspension_timestamp, reactivation_status, reactivation_reason,
			      reactivation_explanation, reactivation_approved_at, created_at, updated_at`

func scanAccount(row interface{ Scan(...any) error }) (*models.Account, error) {
	a := &models.Account{}
	var suspensionTS, approvedAt sql.NullTime
	if err := row.Scan(&a.UID, &a.Email, &a.Username, &a.PasswordHash, &a.Role,
		&a.Status, &suspensionTS, &a.ReactivationStatus, &a.ReactivationReason,
		&a.ReactivationExplanation, &approvedAt, &a.CreatedAt, &a.UpdatedAt); err != nil {
		return nil, err
	}
	if suspensionTS.Valid {
		a.SuspensionTimestamp = &suspensionTS.Time
	}
	if approvedAt.Valid {
		a.ReactivationApprovedAt = &approvedAt.Time
	}
	return a, nil
}

// CreateAccount сохраняет новый аккаунт и возвращает его UID.
func (s *Storage) CreateAccount(ctx context.Context, acc models.Account) (string, error) {
	const op = "storage.CreateAccount"
	select {
	case <-ctx.Done():
		return "", fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	var newID string
	query := `INSERT INTO accounts (email, username, password_hash, role, status)
			  VALUES ($1, $2, $3, $4, $5)
			  RETURNING uid;`
	if err := s.DB.QueryRowContext(ctx, query,
		acc.Email, acc.Username, acc.PasswordHash, acc.Role, acc.Status).Scan(&newID); err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	return newID, nil
}

// GetAccountByEmail возвращает аккаунт по его email.
func (s *Storage) GetAccountByEmail(ctx context.Context, email string) (*models.Account, error) {
	const op = "storage.GetAccountByEmail"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT ` + accountColumns + `
			  FROM accounts
			  WHERE email = $1`
	acc, err := scanAccount(s.DB.QueryRowContext(ctx, query, email))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%s: %w", op, ErrAccountNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return acc, nil
}

// GetAccountByUID возвращает аккаунт по его UID.
func (s *Storage) GetAccountByUID(ctx context.Context, uid string) (*models.Account, error) {
	const op = "storage.GetAccountByUID"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT ` + accountColumns + `
			  FROM accounts
			  WHERE uid = $1`
	acc, err := scanAccount(s.DB.QueryRowContext(ctx, query, uid))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%s: %w", op, ErrAccountNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return acc, nil
}

// CountAccountsByStatus возвращает количество аккаунтов в заданном статусе.
func (s *Storage) CountAccountsByStatus(ctx context.Context, status models.AccountStatus) (int, error) {
	const op = "storage.CountAccountsByStatus"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	var count int
	query := `SELECT COUNT(*) FROM accounts WHERE status = $1`
	if err := s.DB.QueryRowContext(ctx, query, status).Scan(&count); err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return count, nil
}

// FindExpiredSuspensions возвращает приостановленные аккаунты, у которых
// отметка приостановки не позже cutoff.
func (s *Storage) FindExpiredSuspensions(ctx context.Context, cutoff time.Time) ([]*models.Account, error) {
	const op = "storage.FindExpiredSuspensions"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT ` + accountColumns + `
			  FROM accounts
			  WHERE status = 'suspended'
			      AND suspension_timestamp IS NOT NULL
			      AND suspension_timestamp <= $1
			  ORDER BY suspension_timestamp`
	return s.queryAccounts(ctx, op, query, cutoff)
}

// FindExpiredApprovedReactivations возвращает деактивированные аккаунты
// с одобренной заявкой, у которых отметка одобрения не позже cutoff.
func (s *Storage) FindExpiredApprovedReactivations(ctx context.Context, cutoff time.Time) ([]*models.Account, error) {
	const op = "storage.FindExpiredApprovedReactivations"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT ` + accountColumns + `
			  FROM accounts
			  WHERE status = 'deactivated'
			      AND reactivation_status = 'approved'
			      AND reactivation_approved_at IS NOT NULL
			      AND reactivation_approved_at <= $1
			  ORDER BY reactivation_approved_at`
	return s.queryAccounts(ctx, op, query, cutoff)
}

func (s *Storage) queryAccounts(ctx context.Context, op, query string, args ...any) ([]*models.Account, error) {
	rows, err := s.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()
	var result []*models.Account
	for rows.Next() {
		acc, err := scanAccount(rows)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, acc)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// TransitionAccount применяет один переход статуса одним UPDATE:
// статус и отметка приостановки записываются всегда (nil очищает поле),
// поля заявки на реактивацию меняются только если change.ReactivationStatus задан.
// Возвращает обновлённый аккаунт или ErrAccountNotFound.
func (s *Storage) TransitionAccount(ctx context.Context, uid string, change models.StatusChange) (*models.Account, error) {
	const op = "storage.TransitionAccount"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	var reactStatus *string
	if change.ReactivationStatus != nil {
		v := string(*change.ReactivationStatus)
		reactStatus = &v
	}

	query := `UPDATE accounts
			  SET status = $2,
			      suspension_timestamp = $3,
			      reactivation_status = COALESCE($4, reactivation_status),
			      reactivation_approved_at = CASE WHEN $4 IS NULL
			          THEN reactivation_approved_at ELSE $5 END,
			      updated_at = now()
			  WHERE uid = $1
			  RETURNING ` + accountColumns
	acc, err := scanAccount(s.DB.QueryRowContext(ctx, query,
		uid, change.Status, change.SuspensionTimestamp, reactStatus, change.ReactivationApprovedAt))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%s: %w", op, ErrAccountNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return acc, nil
}

// SetReactivationRequest записывает заявку создателя на реактивацию:
// статус заявки становится pending, отметка одобрения очищается.
func (s *Storage) SetReactivationRequest(ctx context.Context, email, reason, explanation string) (*models.Account, error) {
	const op = "storage.SetReactivationRequest"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE accounts
			  SET reactivation_status = 'pending',
			      reactivation_reason = $2,
			      reactivation_explanation = $3,
			      reactivation_approved_at = NULL,
			      updated_at = now()
			  WHERE email = $1
			  RETURNING ` + accountColumns
	acc, err := scanAccount(s.DB.QueryRowContext(ctx, query, email, reason, explanation))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%s: %w", op, ErrAccountNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return acc, nil
}

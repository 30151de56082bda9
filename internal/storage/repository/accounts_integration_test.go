package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/creatorshield/creatorshield/internal/models"
)

func TestStorage_CreateAndGetAccount(t *testing.T) {
	storage, cleanup := setupTestDatabase(t)
	defer cleanup()

	ctx := context.Background()
	uid, err := storage.CreateAccount(ctx, models.Account{
		Email:        "creator@example.com",
		Username:     "creator",
		PasswordHash: "hashedpassword",
		Role:         "user",
		Status:       models.StatusActive,
	})
	require.NoError(t, err)
	require.NotEmpty(t, uid)

	byEmail, err := storage.GetAccountByEmail(ctx, "creator@example.com")
	require.NoError(t, err)
	assert.Equal(t, uid, byEmail.UID)
	assert.Equal(t, models.StatusActive, byEmail.Status)
	assert.Nil(t, byEmail.SuspensionTimestamp)
	assert.Equal(t, models.ReactivationNone, byEmail.ReactivationStatus)

	byUID, err := storage.GetAccountByUID(ctx, uid)
	require.NoError(t, err)
	assert.Equal(t, "creator@example.com", byUID.Email)

	_, err = storage.GetAccountByEmail(ctx, "missing@example.com")
	assert.ErrorIs(t, err, ErrAccountNotFound)
}

func TestStorage_TransitionAccount(t *testing.T) {
	storage, cleanup := setupTestDatabase(t)
	defer cleanup()

	ctx := context.Background()
	factory := NewTestDataFactory(storage)
	uid := factory.CreateAccount(t, "creator@example.com", "creator", models.StatusActive)

	// Приостановка записывает отметку
	now := time.Now().UTC().Truncate(time.Second)
	acc, err := storage.TransitionAccount(ctx, uid, models.StatusChange{
		Status:              models.StatusSuspended,
		SuspensionTimestamp: &now,
	})
	require.NoError(t, err)
	assert.Equal(t, models.StatusSuspended, acc.Status)
	require.NotNil(t, acc.SuspensionTimestamp)
	assert.WithinDuration(t, now, *acc.SuspensionTimestamp, time.Second)

	// Возврат в active очищает отметку и не трогает поля заявки
	acc, err = storage.TransitionAccount(ctx, uid, models.StatusChange{
		Status: models.StatusActive,
	})
	require.NoError(t, err)
	assert.Equal(t, models.StatusActive, acc.Status)
	assert.Nil(t, acc.SuspensionTimestamp)
	assert.Equal(t, models.ReactivationNone, acc.ReactivationStatus)
}

func TestStorage_TransitionAccount_ReactivationFields(t *testing.T) {
	storage, cleanup := setupTestDatabase(t)
	defer cleanup()

	ctx := context.Background()
	factory := NewTestDataFactory(storage)
	uid := factory.CreateAccount(t, "creator@example.com", "creator", models.StatusDeactivated)

	_, err := storage.SetReactivationRequest(ctx, "creator@example.com", "mistake", "it was not me")
	require.NoError(t, err)

	approvedAt := time.Now().UTC().Truncate(time.Second)
	approved := models.ReactivationApproved
	acc, err := storage.TransitionAccount(ctx, uid, models.StatusChange{
		Status:                 models.StatusDeactivated,
		ReactivationStatus:     &approved,
		ReactivationApprovedAt: &approvedAt,
	})
	require.NoError(t, err)
	assert.Equal(t, models.ReactivationApproved, acc.ReactivationStatus)
	require.NotNil(t, acc.ReactivationApprovedAt)
	assert.WithinDuration(t, approvedAt, *acc.ReactivationApprovedAt, time.Second)

	// Переход без ReactivationStatus не трогает поля заявки
	acc, err = storage.TransitionAccount(ctx, uid, models.StatusChange{
		Status: models.StatusDeactivated,
	})
	require.NoError(t, err)
	assert.Equal(t, models.ReactivationApproved, acc.ReactivationStatus)
	assert.NotNil(t, acc.ReactivationApprovedAt)

	// Завершение заявки очищает отметку одобрения
	completed := models.ReactivationCompleted
	acc, err = storage.TransitionAccount(ctx, uid, models.StatusChange{
		Status:             models.StatusActive,
		ReactivationStatus: &completed,
	})
	require.NoError(t, err)
	assert.Equal(t, models.StatusActive, acc.Status)
	assert.Equal(t, models.ReactivationCompleted, acc.ReactivationStatus)
	assert.Nil(t, acc.ReactivationApprovedAt)
}

func TestStorage_TransitionAccount_NotFound(t *testing.T) {
	storage, cleanup := setupTestDatabase(t)
	defer cleanup()

	_, err := storage.TransitionAccount(context.Background(),
		"00000000-0000-0000-0000-000000000000", models.StatusChange{Status: models.StatusActive})
	assert.ErrorIs(t, err, ErrAccountNotFound)
}

func TestStorage_FindExpiredSuspensions_Boundary(t *testing.T) {
	storage, cleanup := setupTestDatabase(t)
	defer cleanup()

	ctx := context.Background()
	factory := NewTestDataFactory(storage)
	cutoff := time.Now().UTC().Add(-24 * time.Hour)

	// Ровно на границе — попадает в выборку
	factory.CreateSuspendedAccount(t, "exact@example.com", "exact", cutoff)
	// Старше границы — попадает
	factory.CreateSuspendedAccount(t, "older@example.com", "older", cutoff.Add(-time.Hour))
	// Свежее границы — не попадает
	factory.CreateSuspendedAccount(t, "fresh@example.com", "fresh", cutoff.Add(time.Minute))
	// Активный аккаунт не попадает независимо от отметки
	factory.CreateAccount(t, "active@example.com", "active", models.StatusActive)

	got, err := storage.FindExpiredSuspensions(ctx, cutoff)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "older@example.com", got[0].Email)
	assert.Equal(t, "exact@example.com", got[1].Email)
}

func TestStorage_FindExpiredApprovedReactivations(t *testing.T) {
	storage, cleanup := setupTestDatabase(t)
	defer cleanup()

	ctx := context.Background()
	factory := NewTestDataFactory(storage)
	cutoff := time.Now().UTC().Add(-24 * time.Hour)

	factory.CreateApprovedReactivation(t, "due@example.com", "due", cutoff.Add(-time.Hour))
	factory.CreateApprovedReactivation(t, "notdue@example.com", "notdue", cutoff.Add(time.Hour))
	// Заявка в статусе pending не попадает
	uid := factory.CreateAccount(t, "pending@example.com", "pending", models.StatusDeactivated)
	_, err := storage.SetReactivationRequest(ctx, "pending@example.com", "mistake", "text")
	require.NoError(t, err)
	_ = uid

	got, err := storage.FindExpiredApprovedReactivations(ctx, cutoff)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "due@example.com", got[0].Email)
}

func TestStorage_CountAccountsByStatus(t *testing.T) {
	storage, cleanup := setupTestDatabase(t)
	defer cleanup()

	ctx := context.Background()
	factory := NewTestDataFactory(storage)
	factory.CreateAccount(t, "a@example.com", "a", models.StatusActive)
	factory.CreateSuspendedAccount(t, "b@example.com", "b", time.Now().UTC())
	factory.CreateSuspendedAccount(t, "c@example.com", "c", time.Now().UTC())
	factory.CreateAccount(t, "d@example.com", "d", models.StatusDeactivated)

	suspended, err := storage.CountAccountsByStatus(ctx, models.StatusSuspended)
	require.NoError(t, err)
	assert.Equal(t, 2, suspended)

	deactivated, err := storage.CountAccountsByStatus(ctx, models.StatusDeactivated)
	require.NoError(t, err)
	assert.Equal(t, 1, deactivated)
}

func TestStorage_SetReactivationRequest(t *testing.T) {
	storage, cleanup := setupTestDatabase(t)
	defer cleanup()

	ctx := context.Background()
	factory := NewTestDataFactory(storage)
	factory.CreateApprovedReactivation(t, "creator@example.com", "creator", time.Now().UTC())

	acc, err := storage.SetReactivationRequest(ctx, "creator@example.com", "second try", "please")
	require.NoError(t, err)
	assert.Equal(t, models.ReactivationPending, acc.ReactivationStatus)
	assert.Equal(t, "second try", acc.ReactivationReason)
	assert.Equal(t, "please", acc.ReactivationExplanation)
	assert.Nil(t, acc.ReactivationApprovedAt)

	_, err = storage.SetReactivationRequest(ctx, "missing@example.com", "x", "y")
	assert.ErrorIs(t, err, ErrAccountNotFound)
}

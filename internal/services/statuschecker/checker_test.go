package statuschecker_test

import (
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/creatorshield/creatorshield/internal/models"
	services "github.com/creatorshield/creatorshield/internal/services/statuschecker"
)

type CheckerRepoMock struct {
	mock.Mock
}

func (m *CheckerRepoMock) FindExpiredSuspensions(ctx context.Context, cutoff time.Time) ([]*models.Account, error) {
	args := m.Called(ctx, cutoff)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Account), args.Error(1)
}

func (m *CheckerRepoMock) FindExpiredApprovedReactivations(ctx context.Context, cutoff time.Time) ([]*models.Account, error) {
	args := m.Called(ctx, cutoff)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Account), args.Error(1)
}

func (m *CheckerRepoMock) CountAccountsByStatus(ctx context.Context, status models.AccountStatus) (int, error) {
	args := m.Called(ctx, status)
	return args.Int(0), args.Error(1)
}

type ExecutorMock struct {
	mock.Mock
}

func (m *ExecutorMock) Transition(ctx context.Context, uid string, change models.StatusChange) (*models.Account, error) {
	args := m.Called(ctx, uid, change)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Account), args.Error(1)
}

type DispatcherMock struct {
	mock.Mock
}

func (m *DispatcherMock) Dispatch(ctx context.Context, n models.Notification) error {
	args := m.Called(ctx, n)
	return args.Error(0)
}

func discardLogger() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

func suspendedAccount(uid, email string) *models.Account {
	return &models.Account{UID: uid, Email: email, Username: "u-" + uid, Status: models.StatusSuspended}
}

func activeAccount(uid, email string) *models.Account {
	return &models.Account{UID: uid, Email: email, Username: "u-" + uid, Status: models.StatusActive}
}

func TestService_Sweep(t *testing.T) {
	repo := new(CheckerRepoMock)
	executor := new(ExecutorMock)
	notifier := new(DispatcherMock)
	svc := services.NewService(repo, executor, notifier, 24*time.Hour, discardLogger())

	repo.On("FindExpiredSuspensions", mock.Anything, mock.MatchedBy(func(cutoff time.Time) bool {
		return time.Since(cutoff) >= 24*time.Hour && time.Since(cutoff) < 24*time.Hour+time.Minute
	})).Return([]*models.Account{suspendedAccount("uid-1", "a@example.com")}, nil).Once()
	executor.On("Transition", mock.Anything, "uid-1", mock.MatchedBy(func(change models.StatusChange) bool {
		return change.Status == models.StatusActive &&
			change.SuspensionTimestamp == nil &&
			change.ReactivationStatus == nil
	})).Return(activeAccount("uid-1", "a@example.com"), nil).Once()

	deactivated := &models.Account{
		UID: "uid-2", Email: "b@example.com", Username: "u-uid-2",
		Status: models.StatusDeactivated, ReactivationStatus: models.ReactivationApproved,
	}
	repo.On("FindExpiredApprovedReactivations", mock.Anything, mock.Anything).
		Return([]*models.Account{deactivated}, nil).Once()
	executor.On("Transition", mock.Anything, "uid-2", mock.MatchedBy(func(change models.StatusChange) bool {
		return change.Status == models.StatusActive &&
			change.ReactivationStatus != nil &&
			*change.ReactivationStatus == models.ReactivationCompleted &&
			change.ReactivationApprovedAt == nil
	})).Return(activeAccount("uid-2", "b@example.com"), nil).Once()

	notifier.On("Dispatch", mock.Anything, mock.MatchedBy(func(n models.Notification) bool {
		return n.Kind == models.NotificationReactivated && n.Reason == models.ReasonExpiredSuspension
	})).Return(nil).Once()
	notifier.On("Dispatch", mock.Anything, mock.MatchedBy(func(n models.Notification) bool {
		return n.Kind == models.NotificationActivated && n.Reason == models.ReasonExpiredReactivation
	})).Return(nil).Once()

	result, err := svc.Sweep(context.Background())
	assert.NoError(t, err)
	assert.Equal(t, []string{"a@example.com"}, result.ReactivatedUsers)
	assert.Equal(t, []string{"b@example.com"}, result.ActivatedUsers)
	assert.Equal(t, 2, result.TotalProcessed)

	repo.AssertExpectations(t)
	executor.AssertExpectations(t)
	notifier.AssertExpectations(t)
}

func TestService_Sweep_EmptyResultHasNonNilSlices(t *testing.T) {
	repo := new(CheckerRepoMock)
	svc := services.NewService(repo, new(ExecutorMock), new(DispatcherMock), 24*time.Hour, discardLogger())

	repo.On("FindExpiredSuspensions", mock.Anything, mock.Anything).Return([]*models.Account{}, nil).Once()
	repo.On("FindExpiredApprovedReactivations", mock.Anything, mock.Anything).Return([]*models.Account{}, nil).Once()

	result, err := svc.Sweep(context.Background())
	assert.NoError(t, err)
	assert.NotNil(t, result.ReactivatedUsers)
	assert.NotNil(t, result.ActivatedUsers)
	assert.Empty(t, result.ReactivatedUsers)
	assert.Empty(t, result.ActivatedUsers)
	assert.Equal(t, 0, result.TotalProcessed)
}

func TestService_Sweep_OneFailureDoesNotAbortBatch(t *testing.T) {
	repo := new(CheckerRepoMock)
	executor := new(ExecutorMock)
	notifier := new(DispatcherMock)
	svc := services.NewService(repo, executor, notifier, 24*time.Hour, discardLogger())

	repo.On("FindExpiredSuspensions", mock.Anything, mock.Anything).Return([]*models.Account{
		suspendedAccount("uid-1", "a@example.com"),
		suspendedAccount("uid-2", "b@example.com"),
		suspendedAccount("uid-3", "c@example.com"),
	}, nil).Once()
	repo.On("FindExpiredApprovedReactivations", mock.Anything, mock.Anything).
		Return([]*models.Account{}, nil).Once()

	executor.On("Transition", mock.Anything, "uid-1", mock.Anything).
		Return(activeAccount("uid-1", "a@example.com"), nil).Once()
	executor.On("Transition", mock.Anything, "uid-2", mock.Anything).
		Return(nil, errors.New("db timeout")).Once()
	executor.On("Transition", mock.Anything, "uid-3", mock.Anything).
		Return(activeAccount("uid-3", "c@example.com"), nil).Once()

	notifier.On("Dispatch", mock.Anything, mock.Anything).Return(nil).Twice()

	result, err := svc.Sweep(context.Background())
	assert.NoError(t, err)
	assert.Equal(t, []string{"a@example.com", "c@example.com"}, result.ReactivatedUsers)
	assert.Equal(t, 2, result.TotalProcessed)
	executor.AssertExpectations(t)
}

func TestService_Sweep_NotificationFailureDoesNotAbortBatch(t *testing.T) {
	repo := new(CheckerRepoMock)
	executor := new(ExecutorMock)
	notifier := new(DispatcherMock)
	svc := services.NewService(repo, executor, notifier, 24*time.Hour, discardLogger())

	repo.On("FindExpiredSuspensions", mock.Anything, mock.Anything).Return([]*models.Account{
		suspendedAccount("uid-1", "a@example.com"),
	}, nil).Once()
	repo.On("FindExpiredApprovedReactivations", mock.Anything, mock.Anything).
		Return([]*models.Account{}, nil).Once()
	executor.On("Transition", mock.Anything, "uid-1", mock.Anything).
		Return(activeAccount("uid-1", "a@example.com"), nil).Once()
	notifier.On("Dispatch", mock.Anything, mock.Anything).Return(errors.New("broker down")).Once()

	result, err := svc.Sweep(context.Background())
	assert.NoError(t, err)
	assert.Equal(t, []string{"a@example.com"}, result.ReactivatedUsers)
}

func TestService_Sweep_QueryErrorAbortsSweep(t *testing.T) {
	repo := new(CheckerRepoMock)
	svc := services.NewService(repo, new(ExecutorMock), new(DispatcherMock), 24*time.Hour, discardLogger())

	repo.On("FindExpiredSuspensions", mock.Anything, mock.Anything).
		Return(nil, errors.New("connection refused")).Once()

	_, err := svc.Sweep(context.Background())
	assert.Error(t, err)
}

func TestService_Counts(t *testing.T) {
	repo := new(CheckerRepoMock)
	svc := services.NewService(repo, new(ExecutorMock), new(DispatcherMock), 24*time.Hour, discardLogger())

	repo.On("CountAccountsByStatus", mock.Anything, models.StatusSuspended).Return(3, nil).Once()
	repo.On("CountAccountsByStatus", mock.Anything, models.StatusDeactivated).Return(7, nil).Once()

	counts, err := svc.Counts(context.Background())
	assert.NoError(t, err)
	assert.Equal(t, 3, counts.SuspendedUsers)
	assert.Equal(t, 7, counts.DeactivatedUsers)
	repo.AssertExpectations(t)
}

package list_test

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/creatorshield/creatorshield/internal/http/handlers/device/list"
	"github.com/creatorshield/creatorshield/internal/http/middlewarectx"
	"github.com/creatorshield/creatorshield/internal/models"
)

type RegistryMock struct {
	mock.Mock
}

func (m *RegistryMock) ListSessions(ctx context.Context, email string) ([]*models.DeviceSession, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.DeviceSession), args.Error(1)
}

func newNoopLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{}))
}

func authedRequest(target, tokenEmail, role string) *http.Request {
	req := httptest.NewRequest(http.MethodGet, target, nil)
	ctx := context.WithValue(req.Context(), middlewarectx.Email, tokenEmail)
	ctx = context.WithValue(ctx, middlewarectx.Role, role)
	return req.WithContext(ctx)
}

func TestListHandler_OwnSessions(t *testing.T) {
	registry := new(RegistryMock)
	handler := list.New(newNoopLogger(), registry)

	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	registry.On("ListSessions", mock.Anything, "creator@example.com").Return([]*models.DeviceSession{
		{
			ID:           "sess-1",
			UserEmail:    "creator@example.com",
			Device:       models.DeviceInfo{DeviceName: "MacBook Pro"},
			IsActive:     true,
			IsConfirmed:  true,
			IsCurrent:    true,
			LastActivity: now,
			CreatedAt:    now.Add(-48 * time.Hour),
		},
	}, nil).Once()

	req := authedRequest("/devices?email=creator@example.com", "creator@example.com", "user")
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)

	var resp struct {
		Status string `json:"status"`
		Data   struct {
			Sessions []map[string]any `json:"sessions"`
		} `json:"data"`
	}
	assert.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.Equal(t, "OK", resp.Status)
	assert.Len(t, resp.Data.Sessions, 1)
	assert.Equal(t, "sess-1", resp.Data.Sessions[0]["id"])
	assert.Equal(t, true, resp.Data.Sessions[0]["isCurrent"])
	registry.AssertExpectations(t)
}

func TestListHandler_AdminSeesForeignSessions(t *testing.T) {
	registry := new(RegistryMock)
	handler := list.New(newNoopLogger(), registry)

	registry.On("ListSessions", mock.Anything, "creator@example.com").
		Return([]*models.DeviceSession{}, nil).Once()

	req := authedRequest("/devices?email=creator@example.com", "admin@example.com", "admin")
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	registry.AssertExpectations(t)
}

func TestListHandler_ForeignSessionsForbidden(t *testing.T) {
	registry := new(RegistryMock)
	handler := list.New(newNoopLogger(), registry)

	req := authedRequest("/devices?email=other@example.com", "creator@example.com", "user")
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusForbidden, rr.Code)
	registry.AssertNotCalled(t, "ListSessions", mock.Anything, mock.Anything)
}

func TestListHandler_MissingEmail(t *testing.T) {
	registry := new(RegistryMock)
	handler := list.New(newNoopLogger(), registry)

	req := authedRequest("/devices", "creator@example.com", "user")
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

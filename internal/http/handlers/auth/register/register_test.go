package register_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/creatorshield/creatorshield/internal/http/handlers/auth/register"
)

type AuthServiceMock struct {
	mock.Mock
}

func (m *AuthServiceMock) Register(ctx context.Context, email, username, password string) (string, error) {
	args := m.Called(ctx, email, username, password)
	return args.String(0), args.Error(1)
}

func newNoopLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{}))
}

func TestRegisterHandler(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		setupMocks func(s *AuthServiceMock)
		wantStatus int
		wantInBody string
	}{
		{
			name: "successful registration",
			body: `{"email":"creator@example.com","username":"creator","password":"password123"}`,
			setupMocks: func(s *AuthServiceMock) {
				s.On("Register", mock.Anything, "creator@example.com", "creator", "password123").
					Return("uid-1", nil).Once()
			},
			wantStatus: http.StatusOK,
			wantInBody: "uid-1",
		},
		{
			name:       "malformed json",
			body:       `{not json`,
			setupMocks: func(_ *AuthServiceMock) {},
			wantStatus: http.StatusBadRequest,
			wantInBody: "invalid request body",
		},
		{
			name:       "short username",
			body:       `{"email":"creator@example.com","username":"ab","password":"password123"}`,
			setupMocks: func(_ *AuthServiceMock) {},
			wantStatus: http.StatusUnprocessableEntity,
			wantInBody: "Username",
		},
		{
			name:       "short password",
			body:       `{"email":"creator@example.com","username":"creator","password":"123"}`,
			setupMocks: func(_ *AuthServiceMock) {},
			wantStatus: http.StatusUnprocessableEntity,
			wantInBody: "Password",
		},
		{
			name: "service error",
			body: `{"email":"creator@example.com","username":"creator","password":"password123"}`,
			setupMocks: func(s *AuthServiceMock) {
				s.On("Register", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
					Return("", errors.New("duplicate email")).Once()
			},
			wantStatus: http.StatusInternalServerError,
			wantInBody: "failed to register account",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(AuthServiceMock)
			tt.setupMocks(svc)
			handler := register.New(newNoopLogger(), svc)

			req := httptest.NewRequest(http.MethodPost, "/register", bytes.NewBufferString(tt.body))
			rr := httptest.NewRecorder()
			handler.ServeHTTP(rr, req)

			assert.Equal(t, tt.wantStatus, rr.Code)
			assert.Contains(t, rr.Body.String(), tt.wantInBody)
			svc.AssertExpectations(t)
		})
	}
}

func TestRegisterHandler_ResponseShape(t *testing.T) {
	svc := new(AuthServiceMock)
	svc.On("Register", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return("uid-1", nil).Once()
	handler := register.New(newNoopLogger(), svc)

	body := `{"email":"creator@example.com","username":"creator","password":"password123"}`
	req := httptest.NewRequest(http.MethodPost, "/register", bytes.NewBufferString(body))
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	var resp struct {
		Status string         `json:"status"`
		Data   map[string]any `json:"data"`
	}
	assert.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.Equal(t, "OK", resp.Status)
	assert.Equal(t, "creator@example.com", resp.Data["email"])
	assert.Equal(t, "creator", resp.Data["username"])
}

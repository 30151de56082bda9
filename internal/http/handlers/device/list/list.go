// Package list реализует HTTP-обработчик списка сессий устройств аккаунта.
package list

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/creatorshield/creatorshield/internal/http/middlewarectx"
	"github.com/creatorshield/creatorshield/internal/http/response"
	"github.com/creatorshield/creatorshield/internal/lib/sl"
	"github.com/creatorshield/creatorshield/internal/models"
)

// SessionView — представление сессии в ответе.
type SessionView struct {
	ID           string            `json:"id"`
	Device       models.DeviceInfo `json:"device"`
	IsActive     bool              `json:"isActive"`
	IsConfirmed  bool              `json:"isConfirmed"`
	IsCurrent    bool              `json:"isCurrent"`
	LastActivity string            `json:"lastActivity"`
	CreatedAt    string            `json:"createdAt"`
}

// Service описывает интерфейс реестра сессий.
type Service interface {
	ListSessions(ctx context.Context, email string) ([]*models.DeviceSession, error)
}

// Handler обрабатывает HTTP-запросы списка сессий.
type Handler struct {
	log      *slog.Logger
	registry Service
}

// New создает новый экземпляр Handler.
func New(log *slog.Logger, registry Service) *Handler {
	return &Handler{log: log, registry: registry}
}

// ServeHTTP godoc
// @Summary Список сессий устройств
// @Description Возвращает активные сессии аккаунта. Чужие сессии доступны только администратору.
// @Tags Devices
// @Produce  json
// @Param email query string true "Email аккаунта"
// @Success 200 {object} map[string]any "Список сессий"
// @Failure 400 {object} response.ErrorResponse "Не указан email"
// @Failure 403 {object} response.ErrorResponse "Доступ к чужим сессиям запрещён"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Security BearerAuth
// @Router /devices [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.device.list"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	email := r.URL.Query().Get("email")
	if email == "" {
		log.Error("missing email query parameter")
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("email query parameter is required"))
		return
	}

	if !ownsOrAdmin(r, email) {
		log.Error("access to foreign sessions denied", slog.String("email", email))
		w.WriteHeader(http.StatusForbidden)
		render.JSON(w, r, response.Error("access denied"))
		return
	}

	sessions, err := h.registry.ListSessions(r.Context(), email)
	if err != nil {
		log.Error("failed to list sessions", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("failed to list sessions"))
		return
	}

	views := make([]SessionView, 0, len(sessions))
	for _, sess := range sessions {
		views = append(views, SessionView{
			ID:           sess.ID,
			Device:       sess.Device,
			IsActive:     sess.IsActive,
			IsConfirmed:  sess.IsConfirmed,
			IsCurrent:    sess.IsCurrent,
			LastActivity: sess.LastActivity.UTC().Format("2006-01-02T15:04:05Z"),
			CreatedAt:    sess.CreatedAt.UTC().Format("2006-01-02T15:04:05Z"),
		})
	}

	log.Info("sessions listed", slog.String("email", email), slog.Int("count", len(views)))
	render.JSON(w, r, response.OKWithData(map[string]any{
		"sessions": views,
	}))
}

// ownsOrAdmin проверяет, что email из запроса принадлежит владельцу токена
// либо запрос сделан администратором.
func ownsOrAdmin(r *http.Request, email string) bool {
	tokenEmail, _ := r.Context().Value(middlewarectx.Email).(string)
	role, _ := r.Context().Value(middlewarectx.Role).(string)
	return tokenEmail == email || role == "admin"
}

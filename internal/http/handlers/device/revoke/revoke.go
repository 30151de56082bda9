// Package revoke реализует HTTP-обработчик отзыва сессии устройства.
package revoke

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/creatorshield/creatorshield/internal/http/middlewarectx"
	"github.com/creatorshield/creatorshield/internal/http/response"
	"github.com/creatorshield/creatorshield/internal/lib/sl"
	"github.com/creatorshield/creatorshield/internal/storage/repository"
)

// Request — структура входных данных для отзыва сессии.
type Request struct {
	Email     string `json:"email" validate:"required,email"`
	SessionID string `json:"sessionId" validate:"required,uuid"`
}

// Service описывает интерфейс реестра сессий.
type Service interface {
	RevokeSession(ctx context.Context, email, sessionID string) error
}

// Handler обрабатывает HTTP-запросы отзыва сессии.
type Handler struct {
	log      *slog.Logger
	registry Service
	validate *validator.Validate
}

// New создает новый экземпляр Handler.
func New(log *slog.Logger, registry Service) *Handler {
	return &Handler{
		log:      log,
		registry: registry,
		validate: validator.New(),
	}
}

// ServeHTTP godoc
// @Summary Отзыв сессии устройства
// @Description Удаляет одну сессию аккаунта по её идентификатору.
// @Tags Devices
// @Accept  json
// @Produce  json
// @Param request body Request true "Email аккаунта и идентификатор сессии"
// @Success 200 {object} map[string]any "Сессия отозвана"
// @Failure 400 {object} response.ErrorResponse "Некорректный JSON"
// @Failure 403 {object} response.ErrorResponse "Доступ к чужим сессиям запрещён"
// @Failure 404 {object} response.ErrorResponse "Сессия не найдена"
// @Failure 422 {object} response.ErrorResponse "Ошибка валидации"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Security BearerAuth
// @Router /devices [delete]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.device.revoke"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	var req Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Error("failed to decode request body", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid request body"))
		return
	}
	log.Info("request body decoded", slog.String("email", req.Email))

	if err := h.validate.Struct(req); err != nil {
		log.Error("validation failed", sl.Err(err))
		w.WriteHeader(http.StatusUnprocessableEntity)
		render.JSON(w, r, response.ValidationError(err.(validator.ValidationErrors)))
		return
	}
	log.Info("all fields are validated")

	tokenEmail, _ := r.Context().Value(middlewarectx.Email).(string)
	role, _ := r.Context().Value(middlewarectx.Role).(string)
	if tokenEmail != req.Email && role != "admin" {
		log.Error("access to foreign sessions denied", slog.String("email", req.Email))
		w.WriteHeader(http.StatusForbidden)
		render.JSON(w, r, response.Error("access denied"))
		return
	}

	err := h.registry.RevokeSession(r.Context(), req.Email, req.SessionID)
	if errors.Is(err, repository.ErrSessionNotFound) {
		log.Info("session not found", slog.String("session_id", req.SessionID))
		w.WriteHeader(http.StatusNotFound)
		render.JSON(w, r, response.Error("session not found"))
		return
	}
	if err != nil {
		log.Error("failed to revoke session", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("failed to revoke session"))
		return
	}

	log.Info("session revoked", slog.String("session_id", req.SessionID))
	render.JSON(w, r, response.OKWithData(map[string]any{
		"sessionId": req.SessionID,
	}))
}

// Package request реализует HTTP-обработчик подачи заявки на реактивацию.
//
// Эндпоинт публичный: деактивированный создатель не может войти и,
// следовательно, не имеет токена.
package request

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/creatorshield/creatorshield/internal/http/response"
	"github.com/creatorshield/creatorshield/internal/lib/sl"
	"github.com/creatorshield/creatorshield/internal/models"
	accountservice "github.com/creatorshield/creatorshield/internal/services/account"
	"github.com/creatorshield/creatorshield/internal/storage/repository"
)

// Request — структура входных данных заявки на реактивацию.
type Request struct {
	Email       string `json:"email" validate:"required,email"`
	Reason      string `json:"reason" validate:"required,max=200"`
	Explanation string `json:"explanation" validate:"required,max=2000"`
}

// Service описывает интерфейс бизнес-логики заявок на реактивацию.
type Service interface {
	RequestReactivation(ctx context.Context, email, reason, explanation string) (*models.Account, error)
}

// Handler обрабатывает HTTP-запросы подачи заявки.
type Handler struct {
	log      *slog.Logger
	accounts Service
	validate *validator.Validate
}

// New создает новый экземпляр Handler.
func New(log *slog.Logger, accounts Service) *Handler {
	return &Handler{
		log:      log,
		accounts: accounts,
		validate: validator.New(),
	}
}

// ServeHTTP godoc
// @Summary Заявка на реактивацию аккаунта
// @Description Принимает заявку деактивированного создателя. Повторная заявка замещает предыдущую.
// @Tags Reactivation
// @Accept  json
// @Produce  json
// @Param request body Request true "Email, причина и пояснение"
// @Success 200 {object} map[string]any "Заявка принята"
// @Failure 400 {object} response.ErrorResponse "Некорректный JSON"
// @Failure 404 {object} response.ErrorResponse "Аккаунт не найден"
// @Failure 409 {object} response.ErrorResponse "Аккаунт не деактивирован"
// @Failure 422 {object} response.ErrorResponse "Ошибка валидации"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Router /reactivation [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.reactivation.request"

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

	acc, err := h.accounts.RequestReactivation(r.Context(), req.Email, req.Reason, req.Explanation)
	if errors.Is(err, repository.ErrAccountNotFound) {
		log.Info("account not found", slog.String("email", req.Email))
		w.WriteHeader(http.StatusNotFound)
		render.JSON(w, r, response.Error("account not found"))
		return
	}
	if errors.Is(err, accountservice.ErrNotDeactivated) {
		log.Info("account is not deactivated", slog.String("email", req.Email))
		w.WriteHeader(http.StatusConflict)
		render.JSON(w, r, response.Error("account is not deactivated"))
		return
	}
	if err != nil {
		log.Error("failed to submit reactivation request", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("failed to submit reactivation request"))
		return
	}

	log.Info("reactivation request submitted", slog.String("email", req.Email))
	render.JSON(w, r, response.OKWithData(map[string]any{
		"email":              acc.Email,
		"reactivationStatus": acc.ReactivationStatus,
	}))
}

// Package suspend реализует HTTP-обработчик приостановки аккаунта администратором.
package suspend

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/creatorshield/creatorshield/internal/http/response"
	"github.com/creatorshield/creatorshield/internal/lib/sl"
	"github.com/creatorshield/creatorshield/internal/models"
	"github.com/creatorshield/creatorshield/internal/storage/repository"
)

// Service описывает интерфейс бизнес-логики приостановки.
type Service interface {
	Suspend(ctx context.Context, uid string) (*models.Account, error)
}

// Handler обрабатывает HTTP-запросы приостановки аккаунта.
type Handler struct {
	log      *slog.Logger
	accounts Service
}

// New создает новый экземпляр Handler.
func New(log *slog.Logger, accounts Service) *Handler {
	return &Handler{log: log, accounts: accounts}
}

// ServeHTTP godoc
// @Summary Приостановка аккаунта
// @Description Переводит аккаунт в suspended и запускает 24-часовое окно автоматической активации.
// @Tags Admin
// @Produce  json
// @Param uid path string true "UID аккаунта"
// @Success 200 {object} map[string]any "Аккаунт приостановлен"
// @Failure 404 {object} response.ErrorResponse "Аккаунт не найден"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Security BearerAuth
// @Router /admin/accounts/{uid}/suspend [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.admin.suspend"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	uid := chi.URLParam(r, "uid")

	acc, err := h.accounts.Suspend(r.Context(), uid)
	if errors.Is(err, repository.ErrAccountNotFound) {
		log.Info("account not found", slog.String("uid", uid))
		w.WriteHeader(http.StatusNotFound)
		render.JSON(w, r, response.Error("account not found"))
		return
	}
	if err != nil {
		log.Error("failed to suspend account", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("failed to suspend account"))
		return
	}

	log.Info("account suspended", slog.String("uid", uid))
	render.JSON(w, r, response.OKWithData(map[string]any{
		"uid":                 acc.UID,
		"status":              acc.Status,
		"suspensionTimestamp": acc.SuspensionTimestamp,
	}))
}

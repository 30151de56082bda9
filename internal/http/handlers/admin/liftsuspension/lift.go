// Package liftsuspension реализует HTTP-обработчик досрочного снятия
// приостановки администратором.
package liftsuspension

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

// Service описывает интерфейс бизнес-логики снятия приостановки.
type Service interface {
	LiftSuspension(ctx context.Context, uid string) (*models.Account, error)
}

// Handler обрабатывает HTTP-запросы снятия приостановки.
type Handler struct {
	log      *slog.Logger
	accounts Service
}

// New создает новый экземпляр Handler.
func New(log *slog.Logger, accounts Service) *Handler {
	return &Handler{log: log, accounts: accounts}
}

// ServeHTTP godoc
// @Summary Снятие приостановки
// @Description Досрочно возвращает приостановленный аккаунт в active, не дожидаясь окна ожидания.
// @Tags Admin
// @Produce  json
// @Param uid path string true "UID аккаунта"
// @Success 200 {object} map[string]any "Приостановка снята"
// @Failure 404 {object} response.ErrorResponse "Аккаунт не найден"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Security BearerAuth
// @Router /admin/accounts/{uid}/lift-suspension [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.admin.liftsuspension"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	uid := chi.URLParam(r, "uid")

	acc, err := h.accounts.LiftSuspension(r.Context(), uid)
	if errors.Is(err, repository.ErrAccountNotFound) {
		log.Info("account not found", slog.String("uid", uid))
		w.WriteHeader(http.StatusNotFound)
		render.JSON(w, r, response.Error("account not found"))
		return
	}
	if err != nil {
		log.Error("failed to lift suspension", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("failed to lift suspension"))
		return
	}

	log.Info("suspension lifted", slog.String("uid", uid))
	render.JSON(w, r, response.OKWithData(map[string]any{
		"uid":    acc.UID,
		"status": acc.Status,
	}))
}

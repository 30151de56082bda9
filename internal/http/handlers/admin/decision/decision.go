// Package decision реализует HTTP-обработчики решения администратора по
// заявке на реактивацию: одобрение и отклонение.
package decision

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
	accountservice "github.com/creatorshield/creatorshield/internal/services/account"
	"github.com/creatorshield/creatorshield/internal/storage/repository"
)

// Service описывает интерфейс бизнес-логики решений по заявкам.
type Service interface {
	ApproveReactivation(ctx context.Context, uid string) (*models.Account, error)
	RejectReactivation(ctx context.Context, uid string) (*models.Account, error)
}

// Handler обрабатывает HTTP-запросы решений по заявкам на реактивацию.
type Handler struct {
	log      *slog.Logger
	accounts Service
}

// New создает новый экземпляр Handler.
func New(log *slog.Logger, accounts Service) *Handler {
	return &Handler{log: log, accounts: accounts}
}

// Approve godoc
// @Summary Одобрение заявки на реактивацию
// @Description Одобряет заявку. Аккаунт остаётся deactivated и активируется автоматически после окна ожидания.
// @Tags Admin
// @Produce  json
// @Param uid path string true "UID аккаунта"
// @Success 200 {object} map[string]any "Заявка одобрена"
// @Failure 404 {object} response.ErrorResponse "Аккаунт не найден"
// @Failure 409 {object} response.ErrorResponse "Нет заявки в статусе pending"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Security BearerAuth
// @Router /admin/reactivations/{uid}/approve [post]
func (h *Handler) Approve(w http.ResponseWriter, r *http.Request) {
	h.decide(w, r, "handlers.admin.decision.approve", h.accounts.ApproveReactivation)
}

// Reject godoc
// @Summary Отклонение заявки на реактивацию
// @Description Отклоняет заявку. Аккаунт остаётся deactivated, создатель может подать новую заявку.
// @Tags Admin
// @Produce  json
// @Param uid path string true "UID аккаунта"
// @Success 200 {object} map[string]any "Заявка отклонена"
// @Failure 404 {object} response.ErrorResponse "Аккаунт не найден"
// @Failure 409 {object} response.ErrorResponse "Нет заявки в статусе pending"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Security BearerAuth
// @Router /admin/reactivations/{uid}/reject [post]
func (h *Handler) Reject(w http.ResponseWriter, r *http.Request) {
	h.decide(w, r, "handlers.admin.decision.reject", h.accounts.RejectReactivation)
}

func (h *Handler) decide(w http.ResponseWriter, r *http.Request, op string,
	action func(ctx context.Context, uid string) (*models.Account, error)) {
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	uid := chi.URLParam(r, "uid")

	acc, err := action(r.Context(), uid)
	if errors.Is(err, repository.ErrAccountNotFound) {
		log.Info("account not found", slog.String("uid", uid))
		w.WriteHeader(http.StatusNotFound)
		render.JSON(w, r, response.Error("account not found"))
		return
	}
	if errors.Is(err, accountservice.ErrNoPendingRequest) {
		log.Info("no pending reactivation request", slog.String("uid", uid))
		w.WriteHeader(http.StatusConflict)
		render.JSON(w, r, response.Error("no pending reactivation request"))
		return
	}
	if err != nil {
		log.Error("failed to apply reactivation decision", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("failed to apply reactivation decision"))
		return
	}

	log.Info("reactivation decision applied",
		slog.String("uid", uid), slog.String("result", string(acc.ReactivationStatus)))
	render.JSON(w, r, response.OKWithData(map[string]any{
		"uid":                acc.UID,
		"status":             acc.Status,
		"reactivationStatus": acc.ReactivationStatus,
	}))
}

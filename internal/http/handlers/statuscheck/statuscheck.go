// Package statuscheck реализует HTTP-обработчики прохода проверки статусов.
//
// GET возвращает количество аккаунтов в переходных статусах и ничего не
// мутирует. POST запускает проход: аккаунты с истёкшим окном ожидания
// переводятся в active. Оба эндпоинта публичные — проход запускает
// внешний планировщик, внутреннего таймера у сервиса нет.
package statuscheck

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/creatorshield/creatorshield/internal/lib/sl"
	"github.com/creatorshield/creatorshield/internal/models"
)

// Service описывает интерфейс прохода проверки статусов.
type Service interface {
	Counts(ctx context.Context) (*models.StatusCounts, error)
	Sweep(ctx context.Context) (*models.SweepResult, error)
}

// Handler обрабатывает HTTP-запросы проверки статусов.
type Handler struct {
	log     *slog.Logger
	checker Service
}

// New создает новый экземпляр Handler.
func New(log *slog.Logger, checker Service) *Handler {
	return &Handler{log: log, checker: checker}
}

// Counts godoc
// @Summary Количество аккаунтов в переходных статусах
// @Description Возвращает число приостановленных и деактивированных аккаунтов. Ничего не изменяет.
// @Tags StatusCheck
// @Produce  json
// @Success 200 {object} map[string]any "Счётчики статусов"
// @Failure 500 {object} map[string]any "Внутренняя ошибка сервера"
// @Router /status-check [get]
func (h *Handler) Counts(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.statuscheck.counts"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	counts, err := h.checker.Counts(r.Context())
	if err != nil {
		log.Error("failed to count accounts", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, map[string]any{
			"success": false,
			"message": "failed to count accounts",
		})
		return
	}

	render.JSON(w, r, map[string]any{
		"success":          true,
		"suspendedUsers":   counts.SuspendedUsers,
		"deactivatedUsers": counts.DeactivatedUsers,
	})
}

// Sweep godoc
// @Summary Проход проверки статусов
// @Description Переводит в active аккаунты с истёкшим окном приостановки или одобренной реактивации.
// @Tags StatusCheck
// @Produce  json
// @Success 200 {object} map[string]any "Результат прохода"
// @Failure 500 {object} map[string]any "Внутренняя ошибка сервера"
// @Router /status-check [post]
func (h *Handler) Sweep(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.statuscheck.sweep"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	result, err := h.checker.Sweep(r.Context())
	if err != nil {
		log.Error("status sweep failed", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, map[string]any{
			"success": false,
			"message": "status sweep failed",
		})
		return
	}

	log.Info("status sweep completed", slog.Int("total", result.TotalProcessed))
	render.JSON(w, r, map[string]any{
		"success":          true,
		"reactivatedUsers": result.ReactivatedUsers,
		"activatedUsers":   result.ActivatedUsers,
		"totalProcessed":   result.TotalProcessed,
	})
}

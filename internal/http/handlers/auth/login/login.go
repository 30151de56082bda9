// Package login реализует HTTP-обработчик входа в аккаунт.
//
// Обработчик декодирует учетные данные и сведения об устройстве,
// делегирует проверку сервису аутентификации и формирует один из трёх
// ответов: успешный вход с JWT, отказ по статусу аккаунта с обратным
// отсчётом или 401 при неверных учетных данных.
package login

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
	authservice "github.com/creatorshield/creatorshield/internal/services/auth"
)

// Request — структура входных данных для входа.
type Request struct {
	Email      string                  `json:"email" validate:"required,email"`
	Password   string                  `json:"password" validate:"required,min=6"`
	DeviceInfo *models.DummyDeviceInfo `json:"deviceInfo,omitempty"`
}

// DenialResponse — отказ во входе по статусу аккаунта.
//
// Hours, Minutes и Seconds присутствуют только при наличии обратного
// отсчёта. Отсчёт носит справочный характер: фактический переход
// статуса выполняет только проход проверки статусов на сервере.
type DenialResponse struct {
	Error         string `json:"error"`
	Message       string `json:"message"`
	IsApproved    bool   `json:"isApproved,omitempty"`
	TimeRemaining string `json:"timeRemaining,omitempty"`
	Hours         *int   `json:"hours,omitempty"`
	Minutes       *int   `json:"minutes,omitempty"`
	Seconds       *int   `json:"seconds,omitempty"`
}

// Service описывает интерфейс бизнес-логики входа.
type Service interface {
	Login(ctx context.Context, email, password string, device models.DeviceInfo) (*authservice.LoginResult, error)
}

// Handler обрабатывает HTTP-запросы входа.
type Handler struct {
	log      *slog.Logger
	auth     Service
	validate *validator.Validate
}

// New создает новый экземпляр Handler.
func New(log *slog.Logger, auth Service) *Handler {
	return &Handler{
		log:      log,
		auth:     auth,
		validate: validator.New(),
	}
}

// ServeHTTP godoc
// @Summary Вход в аккаунт
// @Description Аутентифицирует создателя по email и паролю с учётом статуса аккаунта.
// @Tags Auth
// @Accept  json
// @Produce  json
// @Param request body Request true "Учетные данные и сведения об устройстве"
// @Success 200 {object} map[string]any "Успешный вход"
// @Failure 400 {object} response.ErrorResponse "Некорректный JSON"
// @Failure 401 {object} response.ErrorResponse "Неверные учетные данные"
// @Failure 403 {object} DenialResponse "Вход запрещён по статусу аккаунта"
// @Failure 422 {object} response.ErrorResponse "Ошибка валидации"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Router /login [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.auth.login"

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

	result, err := h.auth.Login(r.Context(), req.Email, req.Password, deviceInfo(req, r))
	if errors.Is(err, authservice.ErrInvalidCredentials) {
		log.Info("invalid credentials", slog.String("email", req.Email))
		w.WriteHeader(http.StatusUnauthorized)
		render.JSON(w, r, response.Error("invalid credentials"))
		return
	}
	if err != nil {
		log.Error("login failed", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("internal server error"))
		return
	}

	if result.Denial != nil {
		denial := DenialResponse{
			Error:      result.Denial.Reason,
			Message:    result.Denial.Message,
			IsApproved: result.Denial.IsApproved,
		}
		if result.Denial.HasCountdown {
			hours, minutes, seconds := result.Denial.Countdown()
			denial.TimeRemaining = result.Denial.Remaining.String()
			denial.Hours = &hours
			denial.Minutes = &minutes
			denial.Seconds = &seconds
		}
		log.Info("login denied", slog.String("email", req.Email), slog.String("reason", denial.Error))
		w.WriteHeader(http.StatusForbidden)
		render.JSON(w, r, denial)
		return
	}

	log.Info("login success", slog.String("email", req.Email))
	data := map[string]any{
		"token": result.Token,
		"user": map[string]any{
			"uid":      result.Account.UID,
			"email":    result.Account.Email,
			"username": result.Account.Username,
			"role":     result.Account.Role,
			"status":   result.Account.Status,
		},
		"isNewDevice": result.IsNewDevice,
	}
	if result.IsNewDevice && result.Session != nil {
		data["deviceInfo"] = result.Session.Device
	}
	render.JSON(w, r, response.OKWithData(data))
}

// deviceInfo собирает метаданные устройства из тела запроса и заголовков.
// UserAgent и IP берутся из самого запроса, остальное — из полей клиента.
func deviceInfo(req Request, r *http.Request) models.DeviceInfo {
	info := models.DeviceInfo{
		UserAgent: r.UserAgent(),
		IPAddress: r.RemoteAddr,
	}
	if req.DeviceInfo != nil {
		info.DeviceName = req.DeviceInfo.DeviceName
		info.Browser = req.DeviceInfo.Browser
		info.BrowserVersion = req.DeviceInfo.BrowserVersion
		info.OS = req.DeviceInfo.OS
		info.OSVersion = req.DeviceInfo.OSVersion
		info.Location = req.DeviceInfo.Location
	}
	return info
}

// Package creatorshield предоставляет маршруты для основного приложения.
package creatorshield

import (
	"log/slog"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/creatorshield/creatorshield/internal/http/handlers/admin/deactivate"
	"github.com/creatorshield/creatorshield/internal/http/handlers/admin/decision"
	"github.com/creatorshield/creatorshield/internal/http/handlers/admin/liftsuspension"
	"github.com/creatorshield/creatorshield/internal/http/handlers/admin/suspend"
	"github.com/creatorshield/creatorshield/internal/http/handlers/auth/login"
	"github.com/creatorshield/creatorshield/internal/http/handlers/auth/register"
	devicelist "github.com/creatorshield/creatorshield/internal/http/handlers/device/list"
	devicerevoke "github.com/creatorshield/creatorshield/internal/http/handlers/device/revoke"
	reactivationrequest "github.com/creatorshield/creatorshield/internal/http/handlers/reactivation/request"
	"github.com/creatorshield/creatorshield/internal/http/handlers/statuscheck"
	"github.com/creatorshield/creatorshield/internal/http/middlewarectx"
	accountservice "github.com/creatorshield/creatorshield/internal/services/account"
	authservice "github.com/creatorshield/creatorshield/internal/services/auth"
	deviceservice "github.com/creatorshield/creatorshield/internal/services/device"
	checkerservice "github.com/creatorshield/creatorshield/internal/services/statuschecker"
)

// RegisterRoutes регистрирует все маршруты приложения.
func RegisterRoutes(r chi.Router, logger *slog.Logger,
	auth *authservice.Service,
	accounts *accountservice.Service,
	devices *deviceservice.Registry,
	checker *checkerservice.Service,
) {
	// Глобальные middleware
	r.Use(
		middleware.RequestID,
		middleware.Logger,
		middleware.Recoverer,
		middleware.URLFormat,
	)

	r.Route("/api/v1", func(r chi.Router) {
		// Открытые конечные точки
		r.Post("/register", register.New(logger, auth).ServeHTTP)
		r.Post("/login", login.New(logger, auth).ServeHTTP)
		r.Post("/reactivation", reactivationrequest.New(logger, accounts).ServeHTTP)

		// Проход проверки статусов запускает внешний планировщик
		statusHandler := statuscheck.New(logger, checker)
		r.Get("/status-check", statusHandler.Counts)
		r.Post("/status-check", statusHandler.Sweep)

		// Группа с JWT аутентификацией
		r.Group(func(r chi.Router) {
			r.Use(middlewarectx.JWTMiddleware(auth, logger))
			r.Use(middlewarectx.RateLimitMiddleware(logger))
			r.Get("/devices", devicelist.New(logger, devices).ServeHTTP)
			r.Delete("/devices", devicerevoke.New(logger, devices).ServeHTTP)
		})

		// Группа администратора
		r.Group(func(r chi.Router) {
			r.Use(middlewarectx.JWTMiddleware(auth, logger))
			r.Use(middlewarectx.RequireAdmin(logger))
			r.Post("/admin/accounts/{uid}/suspend", suspend.New(logger, accounts).ServeHTTP)
			r.Post("/admin/accounts/{uid}/lift-suspension", liftsuspension.New(logger, accounts).ServeHTTP)
			r.Post("/admin/accounts/{uid}/deactivate", deactivate.New(logger, accounts).ServeHTTP)
			decisionHandler := decision.New(logger, accounts)
			r.Post("/admin/reactivations/{uid}/approve", decisionHandler.Approve)
			r.Post("/admin/reactivations/{uid}/reject", decisionHandler.Reject)
		})
	})

	r.Handle("/metrics", promhttp.Handler())
	// Swagger docs endpoint
	r.Get("/docs/*", httpSwagger.WrapHandler)
}

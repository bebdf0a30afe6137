// Package premiumservice предоставляет маршруты для основного приложения.
package premiumservice

import (
	"log/slog"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/time/rate"

	"github.com/Gagan625-cmd/shikshasetu-premium/internal/http/handlers/stripewebhook"
	"github.com/Gagan625-cmd/shikshasetu-premium/internal/http/handlers/subscription/check"
	"github.com/Gagan625-cmd/shikshasetu-premium/internal/http/handlers/subscription/health"
	"github.com/Gagan625-cmd/shikshasetu-premium/internal/http/handlers/subscription/set"
	"github.com/Gagan625-cmd/shikshasetu-premium/internal/http/handlers/webhookevents"
	"github.com/Gagan625-cmd/shikshasetu-premium/internal/http/middlewarectx"
	"github.com/Gagan625-cmd/shikshasetu-premium/internal/lib/jwt"
	premiumsvc "github.com/Gagan625-cmd/shikshasetu-premium/internal/services/premium"
	"github.com/Gagan625-cmd/shikshasetu-premium/internal/storage/repository"
)

// RegisterRoutes регистрирует все маршруты приложения.
func RegisterRoutes(r chi.Router, logger *slog.Logger, premiumService *premiumsvc.Service, ledger *repository.Storage, tokenMaker jwt.Maker, webhookSecret string) {
	// Глобальные middleware
	r.Use(
		middleware.RequestID,
		middleware.Logger,
		middleware.Recoverer,
		middleware.URLFormat,
	)

	webhookLimiter := rate.NewLimiter(rate.Limit(20), 40)

	r.Route("/api/v1", func(r chi.Router) {
		// Открытые конечные точки
		r.Post("/subscription/check", check.New(logger, premiumService).ServeHTTP)
		r.Get("/subscription/health", health.New(logger, ledger).ServeHTTP)

		// Webhook endpoint (без аутентификации, с rate limit)
		r.Group(func(r chi.Router) {
			r.Use(middlewarectx.RateLimitMiddleware(logger, webhookLimiter))
			r.Post("/stripe-webhook", stripewebhook.New(logger, premiumService, webhookSecret).ServeHTTP)
		})

		// Группа административных эндпоинтов с JWT аутентификацией
		r.Group(func(r chi.Router) {
			r.Use(middlewarectx.AdminJWTMiddleware(tokenMaker, logger))
			r.Post("/subscription/set", set.New(logger, premiumService).ServeHTTP)
			r.Get("/webhook-events", webhookevents.New(logger, premiumService).ServeHTTP)
		})
	})

	r.Handle("/metrics", promhttp.Handler())
}

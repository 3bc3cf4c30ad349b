// Package billingapi собирает HTTP-сервис биллинга: маршруты, зависимости и запуск сервера.
package billingapi

import (
	"log/slog"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/magabrotheeeer/prorated-billing/internal/http/handlers/customer/customerread"
	"github.com/magabrotheeeer/prorated-billing/internal/http/handlers/health"
	"github.com/magabrotheeeer/prorated-billing/internal/http/handlers/payment/paymentlist"
	"github.com/magabrotheeeer/prorated-billing/internal/http/handlers/plans/planlist"
	"github.com/magabrotheeeer/prorated-billing/internal/http/handlers/upgrade"
	"github.com/magabrotheeeer/prorated-billing/internal/http/middlewarectx"
)

// UpgradeService - предпросмотр, создание и подтверждение апгрейда.
type UpgradeService interface {
	upgrade.PreviewService
	upgrade.UpgradeService
	upgrade.ConfirmService
}

// Services - зависимости обработчиков.
type Services struct {
	Upgrade  UpgradeService
	Plans    planlist.PlanService
	Customer customerread.Service
	Payments paymentlist.PaymentService
	Tokens   middlewarectx.TokenParser
	Limiter  *middlewarectx.UserLimiter
	Checks   map[string]health.Checker
}

// RegisterRoutes регистрирует все маршруты приложения.
func RegisterRoutes(r chi.Router, logger *slog.Logger, s Services) {
	// Глобальные middleware
	r.Use(
		middleware.RequestID,
		middleware.Logger,
		middleware.Recoverer,
		middleware.URLFormat,
	)

	r.Route("/api/v1", func(r chi.Router) {
		// Открытые конечные точки
		r.Get("/plans", planlist.New(logger, s.Plans).ServeHTTP)

		// Уведомление Mollie без аутентификации, платёж перепроверяется запросом к шлюзу
		r.Post("/payments/webhook-upgrade", upgrade.NewWebhook(logger, s.Upgrade).ServeHTTP)

		// Группа с JWT аутентификацией
		r.Group(func(r chi.Router) {
			r.Use(middlewarectx.JWTMiddleware(s.Tokens, logger))
			r.Get("/upgrade", upgrade.NewPreview(logger, s.Upgrade).ServeHTTP)
			r.With(middlewarectx.RateLimitMiddleware(s.Limiter, logger)).
				Post("/upgrade", upgrade.NewCreate(logger, s.Upgrade).ServeHTTP)
			r.Get("/customer", customerread.New(logger, s.Customer).ServeHTTP)
			r.Get("/payments", paymentlist.New(logger, s.Payments).ServeHTTP)
		})
	})

	r.Get("/health", health.New(logger, s.Checks).ServeHTTP)
	r.Handle("/metrics", promhttp.Handler())
	// Swagger docs endpoint
	r.Get("/docs/*", httpSwagger.WrapHandler)
}

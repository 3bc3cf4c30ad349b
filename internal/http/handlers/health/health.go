// Package health отдаёт состояние сервиса и его зависимостей.
package health

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/render"

	"github.com/magabrotheeeer/prorated-billing/internal/http/response"
	"github.com/magabrotheeeer/prorated-billing/internal/lib/sl"
)

// Checker проверяет одну зависимость.
type Checker func(ctx context.Context) error

type Handler struct {
	log    *slog.Logger
	checks map[string]Checker
}

// New создаёт обработчик. checks - проверки по имени зависимости.
func New(log *slog.Logger, checks map[string]Checker) *Handler {
	return &Handler{
		log:    log,
		checks: checks,
	}
}

// ServeHTTP godoc
// @Summary Состояние сервиса
// @Tags Health
// @Produce  json
// @Success 200 {object} response.Response "Все зависимости доступны"
// @Failure 503 {object} response.Response "Одна из зависимостей недоступна"
// @Router /health [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.health"
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	status := "ok"
	deps := make(map[string]string, len(h.checks))
	for name, check := range h.checks {
		if err := check(ctx); err != nil {
			h.log.Warn("dependency unhealthy", slog.String("op", op), slog.String("dependency", name), sl.Err(err))
			deps[name] = "down"
			status = "degraded"
			continue
		}
		deps[name] = "up"
	}

	resp := response.OKWithData(map[string]any{
		"status":       status,
		"dependencies": deps,
	})
	if status != "ok" {
		resp.Status = response.StatusError
		resp.Error = "dependency unavailable"
		render.Status(r, http.StatusServiceUnavailable)
	}
	render.JSON(w, r, resp)
}

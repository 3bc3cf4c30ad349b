// Package planlist отдаёт каталог тарифных планов.
package planlist

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/prorated-billing/internal/http/response"
	"github.com/magabrotheeeer/prorated-billing/internal/lib/sl"
	"github.com/magabrotheeeer/prorated-billing/internal/models"
)

// PlanService возвращает каталог планов.
type PlanService interface {
	List(ctx context.Context) ([]models.Plan, error)
}

type Handler struct {
	log     *slog.Logger
	service PlanService
}

func New(log *slog.Logger, service PlanService) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Каталог планов
// @Description Возвращает тарифные планы, отсортированные по цене
// @Tags Plans
// @Produce  json
// @Success 200 {object} response.Response{data=[]models.Plan} "Список планов"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка"
// @Router /plans [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.plans.list"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	plans, err := h.service.List(r.Context())
	if err != nil {
		log.Error("failed to list plans", sl.Err(err))
		render.Status(r, http.StatusInternalServerError)
		render.JSON(w, r, response.Error("internal error"))
		return
	}

	log.Debug("list plans", slog.Int("count", len(plans)))
	render.JSON(w, r, response.OKWithData(map[string]any{
		"list_count": len(plans),
		"plans":      plans,
	}))
}

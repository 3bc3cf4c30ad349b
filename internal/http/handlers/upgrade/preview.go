package upgrade

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/magabrotheeeer/prorated-billing/internal/http/middlewarectx"
	"github.com/magabrotheeeer/prorated-billing/internal/http/response"
	"github.com/magabrotheeeer/prorated-billing/internal/lib/sl"
	"github.com/magabrotheeeer/prorated-billing/internal/models"
)

// PreviewService считает стоимость апгрейда без изменений.
type PreviewService interface {
	Preview(ctx context.Context, user models.User, newPlanID int) (*models.UpgradeQuote, error)
}

type previewRequest struct {
	PlanID int `validate:"required,gt=0"`
}

// PreviewHandler отдаёт расчёт стоимости апгрейда.
type PreviewHandler struct {
	log      *slog.Logger
	service  PreviewService
	validate *validator.Validate
}

// NewPreview создает новый PreviewHandler.
func NewPreview(log *slog.Logger, service PreviewService) *PreviewHandler {
	return &PreviewHandler{
		log:      log,
		service:  service,
		validate: validator.New(),
	}
}

// ServeHTTP godoc
// @Summary Предпросмотр апгрейда
// @Description Считает, сколько нужно доплатить за переход на более дорогой план с учётом неиспользованных дней текущего периода
// @Tags Upgrade
// @Produce  json
// @Param planId query int true "Идентификатор нового плана"
// @Success 200 {object} response.Response{data=models.UpgradeQuote} "Расчёт апгрейда"
// @Failure 400 {object} response.ErrorResponse "Некорректный план или подписка"
// @Failure 401 {object} response.ErrorResponse "Пользователь не авторизован"
// @Failure 404 {object} response.ErrorResponse "Клиент или план не найден"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка"
// @Router /upgrade [get]
// @Security BearerAuth
func (h *PreviewHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.upgrade.preview"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	user, ok := middlewarectx.UserFromContext(r.Context())
	if !ok {
		log.Error("user not found in context")
		render.Status(r, http.StatusUnauthorized)
		render.JSON(w, r, response.Error("unauthorized"))
		return
	}

	planID, err := strconv.Atoi(r.URL.Query().Get("planId"))
	if err != nil {
		log.Error("failed to parse planId", sl.Err(err))
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, response.Error("planId must be an integer"))
		return
	}
	req := previewRequest{PlanID: planID}
	if err := h.validate.Struct(req); err != nil {
		log.Error("validation failed", sl.Err(err))
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, response.ValidationError(err.(validator.ValidationErrors)))
		return
	}

	quote, err := h.service.Preview(r.Context(), user, req.PlanID)
	if err != nil {
		status, msg := errorStatus(err)
		log.Error("failed to preview upgrade", slog.Int("status", status), sl.Err(err))
		render.Status(r, status)
		render.JSON(w, r, response.Error(msg))
		return
	}

	log.Info("upgrade preview", slog.Int("user_id", user.ID), slog.Int("plan_id", req.PlanID),
		sl.Amount("final_amount", quote.Calculation.FinalAmountToPay))
	render.JSON(w, r, response.OKWithData(quote))
}

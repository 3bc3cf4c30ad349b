package upgrade

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/magabrotheeeer/prorated-billing/internal/http/middlewarectx"
	"github.com/magabrotheeeer/prorated-billing/internal/http/response"
	"github.com/magabrotheeeer/prorated-billing/internal/lib/sl"
	"github.com/magabrotheeeer/prorated-billing/internal/models"
)

// UpgradeService переводит пользователя на новый план.
type UpgradeService interface {
	Upgrade(ctx context.Context, user models.User, newPlanID int) (*models.UpgradeResult, error)
}

// CreateRequest - тело запроса на апгрейд.
type CreateRequest struct {
	NewPlanID int `json:"new_plan_id" validate:"required,gt=0" example:"2"`
}

// CreateHandler запускает апгрейд.
type CreateHandler struct {
	log      *slog.Logger
	service  UpgradeService
	validate *validator.Validate
}

// NewCreate создает новый CreateHandler.
func NewCreate(log *slog.Logger, service UpgradeService) *CreateHandler {
	return &CreateHandler{
		log:      log,
		service:  service,
		validate: validator.New(),
	}
}

// ServeHTTP godoc
// @Summary Апгрейд плана
// @Description Переводит пользователя на более дорогой план. Если кредита хватает, план меняется сразу, иначе возвращается ссылка на оплату
// @Tags Upgrade
// @Accept  json
// @Produce  json
// @Param request body CreateRequest true "Новый план"
// @Success 200 {object} response.Response{data=models.UpgradeResult} "Апгрейд применён или создан платёж"
// @Failure 400 {object} response.ErrorResponse "Некорректный запрос, план или подписка"
// @Failure 401 {object} response.ErrorResponse "Пользователь не авторизован"
// @Failure 404 {object} response.ErrorResponse "Клиент или план не найден"
// @Failure 409 {object} response.ErrorResponse "Другой апгрейд уже выполняется"
// @Failure 429 {object} response.ErrorResponse "Слишком много запросов"
// @Failure 503 {object} response.ErrorResponse "Платёжный шлюз недоступен"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка"
// @Router /upgrade [post]
// @Security BearerAuth
func (h *CreateHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.upgrade.create"
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

	var req CreateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Error("failed to decode request", sl.Err(err))
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid request body"))
		return
	}
	if err := h.validate.Struct(req); err != nil {
		log.Error("validation failed", sl.Err(err))
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, response.ValidationError(err.(validator.ValidationErrors)))
		return
	}

	result, err := h.service.Upgrade(r.Context(), user, req.NewPlanID)
	if err != nil {
		status, msg := errorStatus(err)
		log.Error("failed to upgrade plan", slog.Int("status", status), sl.Err(err))
		render.Status(r, status)
		render.JSON(w, r, response.Error(msg))
		return
	}

	log.Info("upgrade accepted",
		slog.Int("user_id", user.ID),
		slog.Int("plan_id", req.NewPlanID),
		slog.Bool("payment_required", result.PaymentRequired),
		slog.String("payment_id", result.PaymentID),
	)
	render.JSON(w, r, response.OKWithData(result))
}

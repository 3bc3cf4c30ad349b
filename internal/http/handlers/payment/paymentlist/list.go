// Package paymentlist отдаёт журнал платежей текущего пользователя.
package paymentlist

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/prorated-billing/internal/http/middlewarectx"
	"github.com/magabrotheeeer/prorated-billing/internal/http/response"
	"github.com/magabrotheeeer/prorated-billing/internal/lib/sl"
	"github.com/magabrotheeeer/prorated-billing/internal/models"
	"github.com/magabrotheeeer/prorated-billing/internal/services/account"
)

type PaymentService interface {
	Payments(ctx context.Context, user models.User, limit, offset int) ([]*models.PaymentLog, error)
}

type Handler struct {
	log     *slog.Logger // Логгер для записи информации и ошибок
	service PaymentService
}

func New(log *slog.Logger, service PaymentService) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Журнал платежей
// @Description Платежи клиента, новые сверху. Некорректные limit и offset заменяются значениями по умолчанию
// @Tags Payments
// @Produce  json
// @Param limit query int false "Размер страницы (1..100, по умолчанию 20)"
// @Param offset query int false "Смещение"
// @Success 200 {object} response.Response{data=[]models.PaymentLog} "Страница журнала"
// @Failure 401 {object} response.ErrorResponse "Пользователь не авторизован"
// @Failure 404 {object} response.ErrorResponse "Клиент не найден"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка"
// @Router /payments [get]
// @Security BearerAuth
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.payment.list"
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

	limit, err := strconv.Atoi(r.URL.Query().Get("limit"))
	if err != nil {
		limit = 0
	}
	offset, err := strconv.Atoi(r.URL.Query().Get("offset"))
	if err != nil {
		offset = 0
	}

	logs, err := h.service.Payments(r.Context(), user, limit, offset)
	if err != nil {
		if errors.Is(err, account.ErrCustomerNotFound) {
			render.Status(r, http.StatusNotFound)
			render.JSON(w, r, response.Error("customer not found"))
			return
		}
		log.Error("failed to list payments", sl.Err(err))
		render.Status(r, http.StatusInternalServerError)
		render.JSON(w, r, response.Error("internal error"))
		return
	}

	log.Info("list payments", slog.Int("count", len(logs)))
	render.JSON(w, r, response.OKWithData(map[string]any{
		"list_count": len(logs),
		"payments":   logs,
	}))
}

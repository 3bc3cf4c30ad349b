// Package customerread отдаёт биллинговую запись текущего пользователя:
// план, статус подписки и границы оплаченного периода.
package customerread

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/prorated-billing/internal/http/middlewarectx"
	"github.com/magabrotheeeer/prorated-billing/internal/http/response"
	"github.com/magabrotheeeer/prorated-billing/internal/lib/sl"
	"github.com/magabrotheeeer/prorated-billing/internal/models"
	"github.com/magabrotheeeer/prorated-billing/internal/services/account"
)

// Service описывает интерфейс чтения клиента.
type Service interface {
	Customer(ctx context.Context, user models.User) (*models.Customer, error)
}

type Handler struct {
	log     *slog.Logger
	service Service
}

func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Текущий клиент
// @Tags Customer
// @Produce  json
// @Success 200 {object} response.Response{data=models.Customer} "Биллинговая запись"
// @Failure 401 {object} response.ErrorResponse "Пользователь не авторизован"
// @Failure 404 {object} response.ErrorResponse "Клиент не найден"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка"
// @Router /customer [get]
// @Security BearerAuth
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.customer.read"
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

	customer, err := h.service.Customer(r.Context(), user)
	if err != nil {
		if errors.Is(err, account.ErrCustomerNotFound) {
			render.Status(r, http.StatusNotFound)
			render.JSON(w, r, response.Error("customer not found"))
			return
		}
		log.Error("failed to read customer", sl.Err(err))
		render.Status(r, http.StatusInternalServerError)
		render.JSON(w, r, response.Error("internal error"))
		return
	}

	render.JSON(w, r, response.OKWithData(customer))
}

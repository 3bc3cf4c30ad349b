package upgrade

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/prorated-billing/internal/http/response"
	"github.com/magabrotheeeer/prorated-billing/internal/lib/sl"
	upgradeservice "github.com/magabrotheeeer/prorated-billing/internal/services/upgrade"
)

// ConfirmService применяет оплаченный апгрейд.
type ConfirmService interface {
	ConfirmPayment(ctx context.Context, paymentID string) (upgradeservice.Outcome, error)
}

// WebhookHandler принимает уведомление Mollie об изменении статуса платежа.
// Mollie присылает только идентификатор платежа, статус сервис запрашивает сам.
// Любой ответ кроме 2xx Mollie повторит позже.
type WebhookHandler struct {
	log     *slog.Logger
	service ConfirmService
}

// NewWebhook создает новый WebhookHandler.
func NewWebhook(log *slog.Logger, service ConfirmService) *WebhookHandler {
	return &WebhookHandler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Уведомление об оплате апгрейда
// @Description Webhook платёжного шлюза. Применяет оплаченный апгрейд; повторные уведомления безопасны
// @Tags Payments
// @Accept  x-www-form-urlencoded
// @Produce  json
// @Param id formData string true "Идентификатор платежа"
// @Success 200 {object} response.Response "Уведомление обработано"
// @Failure 400 {object} response.ErrorResponse "Нет идентификатора платежа"
// @Failure 409 {object} response.ErrorResponse "План клиента изменился или апгрейд уже выполняется"
// @Failure 503 {object} response.ErrorResponse "Платёжный шлюз недоступен"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка"
// @Router /payments/webhook-upgrade [post]
func (h *WebhookHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.upgrade.webhook"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	if err := r.ParseForm(); err != nil {
		log.Error("failed to parse webhook form", sl.Err(err))
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid request body"))
		return
	}
	paymentID := strings.TrimSpace(r.PostFormValue("id"))
	if paymentID == "" {
		log.Error("webhook without payment id")
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, response.Error("payment id is required"))
		return
	}
	log = log.With(slog.String("payment_id", paymentID))

	outcome, err := h.service.ConfirmPayment(r.Context(), paymentID)
	if err != nil {
		status, msg := errorStatus(err)
		log.Error("failed to confirm payment", slog.Int("status", status), sl.Err(err))
		render.Status(r, status)
		render.JSON(w, r, response.Error(msg))
		return
	}

	log.Info("webhook processed", slog.String("outcome", string(outcome)))
	render.JSON(w, r, response.OKWithData(map[string]any{
		"outcome": outcome,
	}))
}

// Package upgrade реализует HTTP-обработчики апгрейда плана: предпросмотр
// стоимости, запуск апгрейда и уведомление платёжного шлюза об оплате.
//
// Ошибки сервиса переводятся в HTTP-статусы в errorStatus. Текст внутренних
// ошибок клиенту не отдаётся.
package upgrade

import (
	"errors"
	"net/http"

	"github.com/magabrotheeeer/prorated-billing/internal/lib/prorate"
	upgradeservice "github.com/magabrotheeeer/prorated-billing/internal/services/upgrade"
)

func errorStatus(err error) (int, string) {
	switch {
	case errors.Is(err, upgradeservice.ErrUpgradeInProgress):
		return http.StatusConflict, "another upgrade is in progress"
	case errors.Is(err, upgradeservice.ErrStaleUpgrade):
		return http.StatusConflict, "plan changed since the payment was created"
	case errors.Is(err, upgradeservice.ErrGatewayUnavailable):
		return http.StatusServiceUnavailable, "payment provider unavailable, try again later"
	case errors.Is(err, upgradeservice.ErrCustomerNotFound):
		return http.StatusNotFound, "customer not found"
	case errors.Is(err, upgradeservice.ErrPlanNotFound):
		return http.StatusNotFound, "plan not found"
	case errors.Is(err, prorate.ErrInvalidUpgradeTarget):
		return http.StatusBadRequest, "new plan must be more expensive than the current plan"
	case errors.Is(err, prorate.ErrNoActiveSubscription):
		return http.StatusBadRequest, "no active subscription"
	case errors.Is(err, prorate.ErrMissingBillingPeriod):
		return http.StatusBadRequest, "subscription has no billing period"
	case errors.Is(err, prorate.ErrSubscriptionExpired):
		return http.StatusBadRequest, "subscription has expired"
	default:
		return http.StatusInternalServerError, "internal error"
	}
}

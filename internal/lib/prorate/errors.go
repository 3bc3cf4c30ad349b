package prorate

import "errors"

var (
	// ErrNoActiveSubscription - у клиента нет активной подписки.
	ErrNoActiveSubscription = errors.New("customer has no active subscription")
	// ErrMissingBillingPeriod - даты расчётного периода отсутствуют или период вырожден.
	ErrMissingBillingPeriod = errors.New("subscription billing period is not available")
	// ErrSubscriptionExpired - расчётный период уже закончился.
	ErrSubscriptionExpired = errors.New("subscription has already expired")
	// ErrInvalidUpgradeTarget - тот же план или план не дороже текущего.
	ErrInvalidUpgradeTarget = errors.New("new plan must differ from the current plan and be more expensive")
)

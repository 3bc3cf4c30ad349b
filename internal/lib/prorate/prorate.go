// Package prorate считает стоимость перехода на более дорогой план в середине
// расчётного периода: сколько кредита остаётся от текущего периода и сколько
// клиент должен доплатить сегодня.
//
// Все функции пакета чистые: не выполняют ввод-вывод и не меняют состояние,
// текущее время передаётся параметром. Денежные суммы - decimal.Decimal
// с округлением до центов по правилу half away from zero.
package prorate

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/magabrotheeeer/prorated-billing/internal/models"
)

// AmountPlaces - количество знаков после запятой для денежных сумм.
const AmountPlaces = 2

var (
	two     = decimal.NewFromInt(2)
	hundred = decimal.NewFromInt(100)
)

// CalculateUpgrade рассчитывает стоимость апгрейда клиента на newPlan.
//
// Порядок округления фиксирован: сначала округляется unused_amount,
// затем final_amount_to_pay считается от уже округлённого кредита.
// Кредит сверх стоимости нового плана сгорает.
func CalculateUpgrade(customer models.Customer, newPlan models.Plan, now time.Time, loc *time.Location) (*models.ProRatedCalculation, error) {
	const op = "prorate.CalculateUpgrade"

	if loc == nil {
		loc = time.UTC
	}

	if customer.SubscriptionStatus != models.StatusActive {
		return nil, fmt.Errorf("%s: status %q: %w", op, customer.SubscriptionStatus, ErrNoActiveSubscription)
	}
	if customer.SubscriptionStartDate == nil || customer.SubscriptionEndDate == nil {
		return nil, fmt.Errorf("%s: %w", op, ErrMissingBillingPeriod)
	}

	start := *customer.SubscriptionStartDate
	end := *customer.SubscriptionEndDate
	today := StartOfDay(now, loc)

	if today.After(end) {
		return nil, fmt.Errorf("%s: ended %s: %w", op, end.Format(time.DateOnly), ErrSubscriptionExpired)
	}

	remainingDays := WholeDaysBetween(today, end, loc)
	totalDays := WholeDaysBetween(start, end, loc)
	if totalDays <= 0 {
		return nil, fmt.Errorf("%s: period of %d days: %w", op, totalDays, ErrMissingBillingPeriod)
	}

	// price / total * remaining без промежуточной потери точности.
	currentPrice := customer.Plan.Price
	unused := divRound(currentPrice.Mul(decimal.NewFromInt(int64(remainingDays))), decimal.NewFromInt(int64(totalDays)), AmountPlaces)

	upgradeCost := newPlan.Price
	final := decimal.Max(decimal.Zero, upgradeCost.Sub(unused)).Round(AmountPlaces)

	discount := decimal.Zero
	if unused.IsPositive() && upgradeCost.IsPositive() {
		discount = divRound(unused.Mul(hundred), upgradeCost, AmountPlaces)
	}

	return &models.ProRatedCalculation{
		CurrentPlan:        customer.Plan,
		NewPlan:            newPlan,
		RemainingDays:      remainingDays,
		TotalDaysInPeriod:  totalDays,
		UnusedAmount:       unused,
		UpgradeCost:        upgradeCost,
		FinalAmountToPay:   final,
		DiscountPercentage: discount,
	}, nil
}

// IsUpgradeValid проверяет, что newPlan - другой и строго более дорогой план.
// Даунгрейды и переход на план той же цены не поддерживаются.
func IsUpgradeValid(currentPlan, newPlan models.Plan) bool {
	if currentPlan.ID == newPlan.ID {
		return false
	}
	return newPlan.Price.GreaterThan(currentPlan.Price)
}

// AmountForGateway переводит сумму к оплате в центы для платёжного шлюза.
// 33.335 превращается в 3334.
func AmountForGateway(calc models.ProRatedCalculation) int64 {
	return calc.FinalAmountToPay.Shift(AmountPlaces).Round(0).IntPart()
}

// divRound делит неотрицательные num на положительный den и округляет
// результат до places знаков half-up, используя точный остаток деления.
func divRound(num, den decimal.Decimal, places int32) decimal.Decimal {
	q, r := num.QuoRem(den, places)
	if r.Mul(two).GreaterThanOrEqual(den.Shift(-places)) {
		q = q.Add(decimal.New(1, -places))
	}
	return q
}

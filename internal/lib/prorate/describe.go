package prorate

import (
	"fmt"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"

	"github.com/magabrotheeeer/prorated-billing/internal/models"
)

// DescribeUpgrade формирует описание платежа. Текст сохраняется как описание
// платежа в шлюзе и в журнале, поэтому формулировки менять не стоит.
func DescribeUpgrade(calc models.ProRatedCalculation) string {
	from, to := calc.CurrentPlan.Name, calc.NewPlan.Name

	switch {
	case calc.FinalAmountToPay.IsZero():
		return fmt.Sprintf("Upgrade van %s naar %s - Geen extra kosten dankzij resterende credit", from, to)
	case calc.UnusedAmount.IsPositive():
		return fmt.Sprintf("Upgrade van %s naar %s - €%s (€%s credit toegepast)",
			from, to, calc.FinalAmountToPay.String(), calc.UnusedAmount.String())
	default:
		return fmt.Sprintf("Upgrade van %s naar %s - €%s", from, to, calc.FinalAmountToPay.String())
	}
}

// FormatAmount форматирует сумму в евро для отображения (nl-NL): "€ 1.234,56".
// Только для UI, в расчётах не используется.
func FormatAmount(amount decimal.Decimal) string {
	p := message.NewPrinter(language.Dutch)
	return "€ " + p.Sprint(number.Decimal(amount.InexactFloat64(), number.Scale(AmountPlaces)))
}

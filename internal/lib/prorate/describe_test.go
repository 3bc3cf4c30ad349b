package prorate

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/magabrotheeeer/prorated-billing/internal/models"
)

func TestDescribeUpgrade(t *testing.T) {
	basic := plan(1, "Basic", "29")
	pro := plan(2, "Professional", "59")

	tests := []struct {
		name   string
		unused string
		final  string
		want   string
	}{
		{
			name:   "free upgrade",
			unused: "99",
			final:  "0",
			want:   "Upgrade van Basic naar Professional - Geen extra kosten dankzij resterende credit",
		},
		{
			name:   "credit applied",
			unused: "9.67",
			final:  "49.33",
			want:   "Upgrade van Basic naar Professional - €49.33 (€9.67 credit toegepast)",
		},
		{
			name:   "no credit",
			unused: "0",
			final:  "59",
			want:   "Upgrade van Basic naar Professional - €59",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			calc := models.ProRatedCalculation{
				CurrentPlan:      basic,
				NewPlan:          pro,
				UnusedAmount:     decimal.RequireFromString(tt.unused),
				FinalAmountToPay: decimal.RequireFromString(tt.final),
			}
			assert.Equal(t, tt.want, DescribeUpgrade(calc))
		})
	}
}

func TestFormatAmount(t *testing.T) {
	tests := []struct {
		amount string
		want   string
	}{
		{amount: "9.67", want: "€ 9,67"},
		{amount: "40", want: "€ 40,00"},
		{amount: "1234.5", want: "€ 1.234,50"},
	}

	for _, tt := range tests {
		t.Run(tt.amount, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatAmount(decimal.RequireFromString(tt.amount)))
		})
	}
}

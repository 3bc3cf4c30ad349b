package cli

import (
	"bytes"
	"encoding/json"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/prorated-billing/internal/lib/jwt"
	"github.com/magabrotheeeer/prorated-billing/internal/models"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := NewRootCmd(io.Discard)
	cmd.SetOut(&out)
	cmd.SetErr(io.Discard)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestQuote_Text(t *testing.T) {
	out, err := run(t, "quote",
		"--current-name", "Basic", "--current-price", "29",
		"--new-name", "Professional", "--new-price", "59",
		"--start", "2025-06-01", "--end", "2025-07-01", "--today", "2025-06-21")
	require.NoError(t, err)

	assert.Contains(t, out, "Upgrade van Basic naar Professional - €49.33 (€9.67 credit toegepast)")
	assert.Contains(t, out, "remaining days: 10 of 30")
	assert.Contains(t, out, "€ 9,67")
	assert.Contains(t, out, "(4933 cents)")
	assert.Contains(t, out, "discount:       16.39%")
}

func TestQuote_JSON(t *testing.T) {
	out, err := run(t, "quote", "--json",
		"--current-price", "29", "--new-price", "59",
		"--start", "2025-06-01", "--end", "2025-07-01", "--today", "2025-06-21")
	require.NoError(t, err)

	var quote models.UpgradeQuote
	require.NoError(t, json.Unmarshal([]byte(out), &quote))
	assert.True(t, quote.PaymentRequired)
	assert.Equal(t, "49.33", quote.Calculation.FinalAmountToPay.String())
	assert.Equal(t, "9.67", quote.Calculation.UnusedAmount.String())
	assert.Equal(t, 10, quote.Calculation.RemainingDays)
}

func TestQuote_Errors(t *testing.T) {
	period := []string{"--start", "2025-06-01", "--end", "2025-07-01", "--today", "2025-06-21"}

	tests := []struct {
		name string
		args []string
		want string
	}{
		{
			name: "downgrade",
			args: append([]string{"quote", "--current-price", "59", "--new-price", "29"}, period...),
			want: "more expensive",
		},
		{
			name: "bad price",
			args: append([]string{"quote", "--current-price", "abc", "--new-price", "59"}, period...),
			want: "invalid current price",
		},
		{
			name: "bad timezone",
			args: append([]string{"quote", "--current-price", "29", "--new-price", "59", "--timezone", "Mars/Olympus"}, period...),
			want: "invalid timezone",
		},
		{
			name: "expired period",
			args: []string{"quote", "--current-price", "29", "--new-price", "59",
				"--start", "2025-05-01", "--end", "2025-06-01", "--today", "2025-06-21"},
			want: "expired",
		},
		{
			name: "missing flags",
			args: []string{"quote", "--current-price", "29"},
			want: "required flag",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := run(t, tt.args...)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestToken(t *testing.T) {
	out, err := run(t, "token", "--user-id", "42", "--email", "jan@example.nl", "--secret", "local-secret")
	require.NoError(t, err)

	claims, err := jwt.NewJWTMaker("local-secret", time.Hour).ParseToken(strings.TrimSpace(out))
	require.NoError(t, err)
	assert.Equal(t, 42, claims.UserID)
	assert.Equal(t, "jan@example.nl", claims.Email)
}

func TestToken_RequiresSecret(t *testing.T) {
	t.Setenv("JWT_SECRET_KEY", "")

	_, err := run(t, "token", "--user-id", "42", "--email", "jan@example.nl")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "secret is required")
}

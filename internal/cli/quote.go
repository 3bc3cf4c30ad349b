package cli

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/magabrotheeeer/prorated-billing/internal/lib/prorate"
	"github.com/magabrotheeeer/prorated-billing/internal/models"
)

const dateLayout = "2006-01-02"

type quoteOptions struct {
	currentName  string
	currentPrice string
	newName      string
	newPrice     string
	periodStart  string
	periodEnd    string
	today        string
	timezone     string
	asJSON       bool
}

func newQuoteCmd() *cobra.Command {
	var opts quoteOptions

	cmd := &cobra.Command{
		Use:   "quote",
		Short: "Reproduce a pro-rated upgrade quote",
		Long: `Reproduce the quote a customer saw for an upgrade, from the plan prices
and the billing period on record.

Examples:
  billingctl quote --current-price 29 --new-price 59 --start 2025-06-01 --end 2025-07-01 --today 2025-06-21
  billingctl quote --current-price 29 --new-price 59 --start 2025-06-01 --end 2025-07-01 --json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			calc, err := opts.calculate()
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if opts.asJSON {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(models.UpgradeQuote{
					Calculation:     *calc,
					Description:     prorate.DescribeUpgrade(*calc),
					PaymentRequired: !calc.IsFree(),
				})
			}

			fmt.Fprintf(out, "%s\n", prorate.DescribeUpgrade(*calc))
			fmt.Fprintf(out, "  remaining days: %d of %d\n", calc.RemainingDays, calc.TotalDaysInPeriod)
			fmt.Fprintf(out, "  unused credit:  %s\n", prorate.FormatAmount(calc.UnusedAmount))
			fmt.Fprintf(out, "  upgrade cost:   %s\n", prorate.FormatAmount(calc.UpgradeCost))
			fmt.Fprintf(out, "  to pay:         %s (%d cents)\n", prorate.FormatAmount(calc.FinalAmountToPay), prorate.AmountForGateway(*calc))
			fmt.Fprintf(out, "  discount:       %s%%\n", calc.DiscountPercentage.String())
			return nil
		},
	}

	cmd.Flags().StringVar(&opts.currentName, "current-name", "Current", "current plan name")
	cmd.Flags().StringVar(&opts.currentPrice, "current-price", "", "current plan price in EUR")
	cmd.Flags().StringVar(&opts.newName, "new-name", "New", "new plan name")
	cmd.Flags().StringVar(&opts.newPrice, "new-price", "", "new plan price in EUR")
	cmd.Flags().StringVar(&opts.periodStart, "start", "", "billing period start (YYYY-MM-DD)")
	cmd.Flags().StringVar(&opts.periodEnd, "end", "", "billing period end (YYYY-MM-DD)")
	cmd.Flags().StringVar(&opts.today, "today", "", "date of the quote (YYYY-MM-DD), defaults to today")
	cmd.Flags().StringVar(&opts.timezone, "timezone", "Europe/Amsterdam", "billing timezone")
	cmd.Flags().BoolVar(&opts.asJSON, "json", false, "print the quote as JSON")
	_ = cmd.MarkFlagRequired("current-price")
	_ = cmd.MarkFlagRequired("new-price")
	_ = cmd.MarkFlagRequired("start")
	_ = cmd.MarkFlagRequired("end")

	return cmd
}

func (o quoteOptions) calculate() (*models.ProRatedCalculation, error) {
	loc, err := time.LoadLocation(o.timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid timezone %q: %w", o.timezone, err)
	}

	currentPrice, err := decimal.NewFromString(o.currentPrice)
	if err != nil {
		return nil, fmt.Errorf("invalid current price %q: %w", o.currentPrice, err)
	}
	newPrice, err := decimal.NewFromString(o.newPrice)
	if err != nil {
		return nil, fmt.Errorf("invalid new price %q: %w", o.newPrice, err)
	}

	start, err := time.ParseInLocation(dateLayout, o.periodStart, loc)
	if err != nil {
		return nil, fmt.Errorf("invalid start date (use YYYY-MM-DD): %w", err)
	}
	end, err := time.ParseInLocation(dateLayout, o.periodEnd, loc)
	if err != nil {
		return nil, fmt.Errorf("invalid end date (use YYYY-MM-DD): %w", err)
	}
	now := time.Now()
	if o.today != "" {
		now, err = time.ParseInLocation(dateLayout, o.today, loc)
		if err != nil {
			return nil, fmt.Errorf("invalid date (use YYYY-MM-DD): %w", err)
		}
	}

	current := models.Plan{ID: 1, Name: o.currentName, Price: currentPrice}
	next := models.Plan{ID: 2, Name: o.newName, Price: newPrice}
	if !prorate.IsUpgradeValid(current, next) {
		return nil, fmt.Errorf("new plan must be more expensive than the current plan")
	}

	customer := models.Customer{
		Plan:                  current,
		SubscriptionStatus:    models.StatusActive,
		SubscriptionStartDate: &start,
		SubscriptionEndDate:   &end,
	}
	return prorate.CalculateUpgrade(customer, next, now, loc)
}

package cli

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/magabrotheeeer/prorated-billing/internal/lib/jwt"
)

func newTokenCmd() *cobra.Command {
	var (
		userID int
		email  string
		secret string
		ttl    time.Duration
	)

	cmd := &cobra.Command{
		Use:   "token",
		Short: "Issue a bearer token for local testing",
		Long: `Issue an HS256 token with the claims the billing API expects.
The secret defaults to the JWT_SECRET_KEY environment variable.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if secret == "" {
				secret = os.Getenv("JWT_SECRET_KEY")
			}
			if secret == "" {
				return fmt.Errorf("secret is required: pass --secret or set JWT_SECRET_KEY")
			}

			token, err := jwt.NewJWTMaker(secret, ttl).GenerateToken(userID, email)
			if err != nil {
				return fmt.Errorf("failed to issue token: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), token)
			return nil
		},
	}

	cmd.Flags().IntVar(&userID, "user-id", 0, "user id")
	cmd.Flags().StringVar(&email, "email", "", "user e-mail")
	cmd.Flags().StringVar(&secret, "secret", "", "signing secret")
	cmd.Flags().DurationVar(&ttl, "ttl", time.Hour, "token lifetime")
	_ = cmd.MarkFlagRequired("user-id")
	_ = cmd.MarkFlagRequired("email")

	return cmd
}

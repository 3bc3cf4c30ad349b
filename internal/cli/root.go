// Package cli реализует утилиту billingctl для поддержки: воспроизведение
// расчёта апгрейда по данным клиента и выпуск тестовых токенов.
package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

type commandContext struct {
	correlationID uuid.UUID
	startedAt     time.Time
}

type commandContextKey struct{}

// NewRootCmd собирает дерево команд billingctl. Журнал команд пишется в logOut.
func NewRootCmd(logOut io.Writer) *cobra.Command {
	var verbose bool
	var logger *slog.Logger

	rootCmd := &cobra.Command{
		Use:   "billingctl",
		Short: "Support tooling for pro-rated plan upgrades",
		Long: `billingctl reproduces pro-rated upgrade quotes offline so support can
explain a charge, and issues short-lived tokens for local testing.`,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, _ []string) {
			level := slog.LevelWarn
			if verbose {
				level = slog.LevelDebug
			}
			logger = slog.New(slog.NewTextHandler(logOut, &slog.HandlerOptions{Level: level}))
			info := commandContext{
				correlationID: uuid.New(),
				startedAt:     time.Now(),
			}
			cmd.SetContext(context.WithValue(cmd.Context(), commandContextKey{}, info))
			logger.Debug("command start",
				slog.String("command", cmd.CommandPath()),
				slog.String("correlation_id", info.correlationID.String()),
			)
		},
		PersistentPostRun: func(cmd *cobra.Command, _ []string) {
			info, ok := cmd.Context().Value(commandContextKey{}).(commandContext)
			if !ok {
				return
			}
			logger.Debug("command end",
				slog.String("command", cmd.CommandPath()),
				slog.String("correlation_id", info.correlationID.String()),
				slog.Int64("duration_ms", time.Since(info.startedAt).Milliseconds()),
			)
		},
	}

	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
	rootCmd.AddCommand(newQuoteCmd(), newTokenCmd())
	return rootCmd
}

// Execute запускает billingctl и завершает процесс при ошибке.
func Execute() {
	if err := NewRootCmd(os.Stderr).ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/shunichi-ikebuchi/billdivider/pkg/ledger"
	"github.com/spf13/cobra"
)

var settleRecord bool

// settleCmd represents the settle command.
var settleCmd = &cobra.Command{
	Use:   "settle",
	Short: "Suggest transfers that settle every debt",
	Long: `Suggest the transfers between roommates that bring every debt to zero.

With --record the transfers are recorded as payments, as if they had been made.

Example:
  billdivider settle
  billdivider settle --record`,
	Args: cobra.NoArgs,
	Run:  runSettle,
}

func init() {
	settleCmd.Flags().BoolVar(&settleRecord, "record", false, "record the suggested transfers as payments")
}

func runSettle(cmd *cobra.Command, args []string) {
	a := mustApp()
	defer a.Close()

	ctx := cmd.Context()
	transfers, err := a.ledger.Settlements(ctx)
	if errors.Is(err, ledger.ErrEmptyRoommateList) {
		transfers, err = nil, nil
	}
	exitOnError(err, "failed to compute settlements")

	exitOnError(a.formatter.WriteSettlements(cmd.OutOrStdout(), transfers), "failed to write settlements")

	if !settleRecord {
		return
	}
	recorded, err := recordTransfers(ctx, a.ledger, transfers)
	if len(transfers) > 0 {
		fmt.Fprintf(cmd.OutOrStdout(), "Recorded %d of %d transfers\n", recorded, len(transfers))
	}
	exitOnError(err, "failed to record transfer")
	slog.Info("Settlement completed", "transfers", len(transfers), "recorded", recorded)
}

// recordTransfers records transfers in order as payments and returns how many
// were written before the first failure.
func recordTransfers(ctx context.Context, l *ledger.Ledger, transfers []ledger.Transfer) (int, error) {
	for i, t := range transfers {
		if _, err := l.AddPayment(ctx, "settle up", t.From, t.To, t.Amount); err != nil {
			return i, fmt.Errorf("transfer %d of %d: %w", i+1, len(transfers), err)
		}
	}
	return len(transfers), nil
}

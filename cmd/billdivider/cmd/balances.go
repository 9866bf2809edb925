package cmd

import (
	"errors"
	"fmt"

	"github.com/shunichi-ikebuchi/billdivider/pkg/ledger"
	"github.com/spf13/cobra"
)

// balancesCmd represents the balances command.
var balancesCmd = &cobra.Command{
	Use:   "balances",
	Short: "Show every roommate's contribution and debt",
	Args:  cobra.NoArgs,
	Run:   runBalances,
}

func runBalances(cmd *cobra.Command, args []string) {
	a := mustApp()
	defer a.Close()

	balances, err := a.ledger.Balances(cmd.Context())
	if errors.Is(err, ledger.ErrEmptyRoommateList) {
		fmt.Fprintln(cmd.OutOrStdout(), "No roommates yet. Add one with: billdivider roommate add <id>")
		return
	}
	exitOnError(err, "failed to compute balances")

	exitOnError(a.formatter.WriteBalances(cmd.OutOrStdout(), balances), "failed to write balances")
}

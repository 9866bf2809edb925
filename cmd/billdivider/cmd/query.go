package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var contributionCmd = &cobra.Command{
	Use:   "contribution <roommate>",
	Short: "Show a roommate's net contribution",
	Args:  cobra.ExactArgs(1),
	Run:   runContribution,
}

var debtCmd = &cobra.Command{
	Use:   "debt <roommate>",
	Short: "Show how much a roommate owes relative to the average",
	Long: `Show the average contribution minus the roommate's contribution.

A positive debt means the roommate owes money to the group, a negative one
means the group owes the roommate.

Example:
  billdivider debt bob`,
	Args: cobra.ExactArgs(1),
	Run:  runDebt,
}

var totalCmd = &cobra.Command{
	Use:   "total",
	Short: "Show the sum of all contributions",
	Args:  cobra.NoArgs,
	Run:   runTotal,
}

var averageCmd = &cobra.Command{
	Use:   "average",
	Short: "Show the average contribution per roommate",
	Args:  cobra.NoArgs,
	Run:   runAverage,
}

func runContribution(cmd *cobra.Command, args []string) {
	a := mustApp()
	defer a.Close()

	id, err := a.resolveRoommate(args[0])
	exitOnError(err, "invalid roommate")

	amount, err := a.ledger.GetContribution(cmd.Context(), id)
	exitOnError(err, "failed to get contribution")

	fmt.Fprintf(cmd.OutOrStdout(), "%s: %s\n", a.names.Name(id), a.formatter.Amount(amount))
}

func runDebt(cmd *cobra.Command, args []string) {
	a := mustApp()
	defer a.Close()

	id, err := a.resolveRoommate(args[0])
	exitOnError(err, "invalid roommate")

	debt, err := a.ledger.GetDebt(cmd.Context(), id)
	exitOnError(err, "failed to get debt")

	fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", a.names.Name(id), a.formatter.Debt(debt))
}

func runTotal(cmd *cobra.Command, args []string) {
	a := mustApp()
	defer a.Close()

	total, err := a.ledger.GetTotalContributions(cmd.Context())
	exitOnError(err, "failed to get total")

	fmt.Fprintln(cmd.OutOrStdout(), a.formatter.Amount(total))
}

func runAverage(cmd *cobra.Command, args []string) {
	a := mustApp()
	defer a.Close()

	avg, err := a.ledger.GetAvgContribution(cmd.Context())
	exitOnError(err, "failed to get average")

	fmt.Fprintln(cmd.OutOrStdout(), a.formatter.Amount(avg))
}

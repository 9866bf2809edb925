package cmd

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"
)

// payCmd represents the pay command.
var payCmd = &cobra.Command{
	Use:   "pay <text> <giver> <recipient> <amount>",
	Short: "Record a payment",
	Long: `Record a payment from giver to recipient and append it to the log.

Giver and recipient are roommate ids or names from the roommate directory.
Use "household" (or "-") for money coming from or going outside the group,
for example a bill paid to a utility company.

Example:
  billdivider pay "electricity" alice household 90
  billdivider pay "dinner" alice bob 30`,
	Args: cobra.ExactArgs(4),
	Run:  runPay,
}

func runPay(cmd *cobra.Command, args []string) {
	a := mustApp()
	defer a.Close()

	giver, err := a.resolveRoommate(args[1])
	exitOnError(err, "invalid giver")

	recipient, err := a.resolveRoommate(args[2])
	exitOnError(err, "invalid recipient")

	amount, err := parseAmount(args[3])
	exitOnError(err, "invalid amount")

	entry, err := a.ledger.AddPayment(cmd.Context(), args[0], giver, recipient, amount)
	exitOnError(err, "failed to record payment")

	fmt.Fprintf(cmd.OutOrStdout(), "%s: %s paid %s to %s\n",
		entry.Text, a.names.Name(entry.Giver), a.formatter.Amount(entry.Amount), a.names.Name(entry.Recipient))
	slog.Info("Payment recorded", "giver", entry.Giver, "recipient", entry.Recipient, "amount", entry.Amount)
}

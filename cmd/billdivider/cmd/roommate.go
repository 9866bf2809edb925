package cmd

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/shunichi-ikebuchi/billdivider/pkg/ledger"
	"github.com/spf13/cobra"
)

// roommateCmd groups the roommate subcommands.
var roommateCmd = &cobra.Command{
	Use:   "roommate",
	Short: "Manage roommates in the ledger",
}

var roommateAddCmd = &cobra.Command{
	Use:   "add <roommate>",
	Short: "Add a roommate with a zero contribution",
	Long: `Add a roommate to the ledger with a zero contribution.

The roommate may be given by id or by a name from the roommate directory.

Example:
  billdivider roommate add 3
  billdivider roommate add carol`,
	Args: cobra.ExactArgs(1),
	Run:  runRoommateAdd,
}

var roommateListCmd = &cobra.Command{
	Use:   "list",
	Short: "List roommates with their contributions and debts",
	Args:  cobra.NoArgs,
	Run:   runBalances,
}

func init() {
	roommateCmd.AddCommand(roommateAddCmd)
	roommateCmd.AddCommand(roommateListCmd)
}

func runRoommateAdd(cmd *cobra.Command, args []string) {
	a := mustApp()
	defer a.Close()

	id, err := a.resolveRoommate(args[0])
	exitOnError(err, "invalid roommate")

	record, err := a.ledger.AddRoommate(cmd.Context(), id)
	if errors.Is(err, ledger.ErrDuplicateRoommate) {
		fmt.Fprintf(cmd.OutOrStdout(), "Roommate %d (%s) is already in the ledger\n", id, a.names.Name(id))
		return
	}
	exitOnError(err, "failed to add roommate")

	fmt.Fprintf(cmd.OutOrStdout(), "Added roommate %d (%s)\n", record.ID, a.names.Name(record.ID))
	slog.Info("Roommate added", "id", record.ID)
}

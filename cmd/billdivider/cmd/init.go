package cmd

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/shunichi-ikebuchi/billdivider/pkg/ledger"
	"github.com/spf13/cobra"
)

// initCmd represents the init command.
var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create the ledger document",
	Long: `Create the ledger document if it does not exist yet.

Every roommate listed in the roommate directory that is not yet part of the
ledger is added with a zero contribution. Running init again is harmless.

Example:
  billdivider init`,
	Args: cobra.NoArgs,
	Run:  runInit,
}

func runInit(cmd *cobra.Command, args []string) {
	a := mustApp()
	defer a.Close()

	created, added, err := initialize(cmd, a)
	exitOnError(err, "failed to initialize ledger")

	out := cmd.OutOrStdout()
	if created {
		fmt.Fprintln(out, "Created ledger document")
	} else {
		fmt.Fprintln(out, "Ledger document already exists")
	}
	for _, id := range added {
		fmt.Fprintf(out, "Added roommate %d (%s)\n", id, a.names.Name(id))
	}

	slog.Info("Initialization completed", "created", created, "added", len(added))
}

// initialize creates the document and adds directory roommates that are missing.
func initialize(cmd *cobra.Command, a *app) (bool, []int, error) {
	ctx := cmd.Context()

	created, err := a.ledger.EnsureInitialized(ctx)
	if err != nil {
		return false, nil, err
	}

	var added []int
	for _, r := range a.names.Roommates() {
		if _, err := a.ledger.AddRoommate(ctx, r.ID); err != nil {
			if errors.Is(err, ledger.ErrDuplicateRoommate) {
				continue
			}
			return created, added, err
		}
		added = append(added, r.ID)
	}
	return created, added, nil
}

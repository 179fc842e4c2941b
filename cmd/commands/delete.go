package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/marketdesk/marketdesk-terminal/internal/cli"
	"github.com/marketdesk/marketdesk-terminal/pkg/resource"
)

var (
	deleteForce bool
)

// NewDeleteCommand creates the delete command
func NewDeleteCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "delete <kind> <id>",
		Short: "Delete a record",
		Long: `Permanently delete one record.

This action cannot be undone.

Examples:
  # Delete an item (with confirmation)
  marketdesk delete items 64b7f0c2e1d3a9

  # Delete without confirmation
  marketdesk delete users 64b7f0c2e1d3a0 --force`,
		Args:      cobra.ExactArgs(2),
		ValidArgs: resource.Kinds,
		RunE:      runDelete,
	}

	cmd.Flags().BoolVarP(&deleteForce, "force", "f", false, "Force deletion without confirmation")

	return cmd
}

func runDelete(cmd *cobra.Command, args []string) error {
	k, err := lookupKind(args[0])
	if err != nil {
		return err
	}

	cc, err := commandContext(cmd)
	if err != nil {
		return err
	}
	defer cc.Close()

	confirm := func(label string) (bool, error) {
		if deleteForce || skipConfirm(cmd) || !cc.Settings.UI.ConfirmDeletes {
			return true, nil
		}
		return cli.Confirm(fmt.Sprintf("Permanently delete %s? This cannot be undone.", label), false)
	}

	notice, deleted, err := k.remove(cmd.Context(), cc, args[1], confirm)
	if err != nil {
		return err
	}
	if !deleted {
		cli.PrintInfo("Deletion cancelled")
		return nil
	}

	cli.PrintSuccess("%s", notice.Text)
	return nil
}

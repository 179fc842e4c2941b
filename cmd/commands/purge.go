package commands

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/marketdesk/marketdesk-terminal/internal/cli"
	"github.com/marketdesk/marketdesk-terminal/pkg/resource"
)

// NewPurgeCommand creates the purge command
func NewPurgeCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "purge <kind>",
		Short: "Delete every record of a kind",
		Long: `Delete every user, property or item in one request.

You will be asked to type a confirmation phrase. This cannot be undone.

Examples:
  # Remove every item
  marketdesk purge items

  # Scripted, no prompt
  marketdesk purge properties --yes`,
		Args:      cobra.ExactArgs(1),
		ValidArgs: resource.PurgeableKinds,
		RunE:      runPurge,
	}

	return cmd
}

func runPurge(cmd *cobra.Command, args []string) error {
	normalized, err := cli.ValidatePurgeKind(args[0])
	if err != nil {
		return err
	}
	k, err := lookupKind(normalized)
	if err != nil {
		return err
	}

	phrase := "DELETE ALL " + strings.ToUpper(k.plural())
	if !skipConfirm(cmd) {
		ok, err := cli.ConfirmTyped(fmt.Sprintf("This permanently deletes every %s.", strings.ToLower(k.name())), phrase)
		if err != nil {
			return err
		}
		if !ok {
			cli.PrintInfo("Purge cancelled")
			return nil
		}
	}

	cc, err := commandContext(cmd)
	if err != nil {
		return err
	}
	defer cc.Close()

	n, err := k.purge(cmd.Context(), cc)
	if err != nil {
		return fmt.Errorf("failed to delete %s: %w", k.plural(), err)
	}

	cli.PrintSuccess("Deleted %d %s", n, k.plural())
	return nil
}

package commands

import (
	"github.com/spf13/cobra"

	"github.com/marketdesk/marketdesk-terminal/pkg/resource"
)

// NewShowCommand creates the show command
func NewShowCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show <kind> <id>",
		Short: "Show one record",
		Long: `Display every field of a single record.

Examples:
  # Show an item
  marketdesk show items 64b7f0c2e1d3a9

  # Show a blog post as YAML
  marketdesk show blogs 64b7f0c2e1d3b1 -o yaml`,
		Args:      cobra.ExactArgs(2),
		ValidArgs: resource.Kinds,
		RunE:      runShow,
	}

	return cmd
}

func runShow(cmd *cobra.Command, args []string) error {
	k, err := lookupKind(args[0])
	if err != nil {
		return err
	}

	cc, err := commandContext(cmd)
	if err != nil {
		return err
	}
	defer cc.Close()

	format, err := outputFormat(cmd, cc)
	if err != nil {
		return err
	}
	return k.show(cmd.Context(), cc, cmd.OutOrStdout(), args[1], format)
}

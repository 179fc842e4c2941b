package commands

import (
	"fmt"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/spf13/cobra"

	"github.com/marketdesk/marketdesk-terminal/internal/cli"
	"github.com/marketdesk/marketdesk-terminal/pkg/resource"
)

var (
	clipboardIDOnly bool
)

// writeClipboard is replaced in tests
var writeClipboard = clipboard.WriteAll

// NewClipboardCommand creates the clipboard command
func NewClipboardCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "clipboard <kind> <id>",
		Short: "Copy a record to the clipboard",
		Long: `Copy a record to the system clipboard as YAML, ready to paste into a
ticket or chat.

Examples:
  # Copy an item
  marketdesk clipboard items 64b7f0c2e1d3a9

  # Copy only the id
  marketdesk copy users 64b7f0c2e1d3a0 --id`,
		Args:      cobra.ExactArgs(2),
		Aliases:   []string{"clip", "copy"},
		ValidArgs: resource.Kinds,
		RunE:      runClipboard,
	}

	cmd.Flags().BoolVar(&clipboardIDOnly, "id", false, "Copy only the record id")

	return cmd
}

func runClipboard(cmd *cobra.Command, args []string) error {
	k, err := lookupKind(args[0])
	if err != nil {
		return err
	}

	cc, err := commandContext(cmd)
	if err != nil {
		return err
	}
	defer cc.Close()

	content, err := k.export(cmd.Context(), cc, args[1])
	if err != nil {
		return err
	}
	if clipboardIDOnly {
		content = args[1]
	}

	if err := writeClipboard(content); err != nil {
		return fmt.Errorf("failed to copy to clipboard: %w", err)
	}

	cli.PrintSuccess("%s '%s' copied to clipboard", k.name(), args[1])

	// Show a preview of what was copied
	lines := strings.Split(strings.TrimSpace(content), "\n")
	preview := lines[0]
	if len(lines) > 1 {
		preview += " ..."
	}
	cli.PrintInfo("Preview: %s", cli.TruncateString(preview, 80))
	return nil
}

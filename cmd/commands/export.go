package commands

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/marketdesk/marketdesk-terminal/internal/cli"
	"github.com/marketdesk/marketdesk-terminal/pkg/files"
	"github.com/marketdesk/marketdesk-terminal/pkg/resource"
)

var (
	exportToFile string
	exportSearch string
	exportStdout bool
)

// exportNow stamps default export file names
var exportNow = time.Now

// NewExportCommand creates the export command
func NewExportCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export <kind>",
		Short: "Export a collection to a file or stdout",
		Long: `Export every record of a kind, optionally narrowed by a search, as YAML
or JSON.

By default the export is written to the exports folder under
~/.marketdesk with a timestamped name. Use --file to choose the path or
--stdout to print it.

Examples:
  # Export all users as YAML
  marketdesk export users

  # Export sold items as JSON to a file
  marketdesk export items --search "sold" -o json --file sold.json

  # Pipe properties into another tool
  marketdesk export properties --stdout -o json | jq length`,
		Args:      cobra.ExactArgs(1),
		ValidArgs: resource.Kinds,
		RunE:      runExport,
	}

	cmd.Flags().StringVarP(&exportToFile, "file", "f", "", "Export to file instead of the exports folder")
	cmd.Flags().StringVarP(&exportSearch, "search", "s", "", "Only export records matching the search")
	cmd.Flags().BoolVar(&exportStdout, "stdout", false, "Write the export to stdout")

	return cmd
}

func runExport(cmd *cobra.Command, args []string) error {
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
	// Exports are always structured
	if format == string(cli.FormatText) {
		format = string(cli.FormatYAML)
	}

	data, n, err := k.exportAll(cmd.Context(), cc, exportSearch, format)
	if err != nil {
		return err
	}

	if exportStdout {
		_, err := cmd.OutOrStdout().Write(data)
		return err
	}

	var path string
	if exportToFile != "" {
		if err := os.WriteFile(exportToFile, data, 0644); err != nil {
			return fmt.Errorf("failed to write file: %w", err)
		}
		path = exportToFile
	} else {
		name := fmt.Sprintf("%s-%s.%s", k.plural(), exportNow().Format("20060102-150405"), format)
		path, err = files.WriteExport(name, data)
		if err != nil {
			return err
		}
	}

	cli.PrintSuccess("Exported %d %s to: %s", n, k.plural(), path)
	return nil
}

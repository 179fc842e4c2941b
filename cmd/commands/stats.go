package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/marketdesk/marketdesk-terminal/internal/cli"
	"github.com/marketdesk/marketdesk-terminal/pkg/resource"
)

// NewStatsCommand creates the stats command
func NewStatsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show dashboard counts",
		Long: `Show how many users, properties, items and admins the platform has.

Examples:
  marketdesk stats
  marketdesk stats -o json`,
		Args: cobra.NoArgs,
		RunE: runStats,
	}

	return cmd
}

func runStats(cmd *cobra.Command, args []string) error {
	cc, err := commandContext(cmd)
	if err != nil {
		return err
	}
	defer cc.Close()

	format, err := outputFormat(cmd, cc)
	if err != nil {
		return err
	}

	client, err := cc.Client()
	if err != nil {
		return err
	}
	stats, err := resource.FetchCounts(cmd.Context(), client)
	if err != nil {
		return err
	}

	w := cmd.OutOrStdout()
	switch format {
	case "json", "yaml":
		return cli.OutputResults(w, format, stats)
	}

	table := cli.NewTableFormatter(w)
	for _, c := range stats.Counts() {
		table.Row(c.Label, fmt.Sprintf("%d", c.Value))
	}
	table.Flush()
	return nil
}

package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/marketdesk/marketdesk-terminal/internal/cli"
	"github.com/marketdesk/marketdesk-terminal/pkg/resource"
)

var (
	listSearch  string
	listFilters []string
	listSummary bool
	listNoIDs   bool
)

// NewListCommand creates the list command
func NewListCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list <kind>",
		Short: "List users, properties, items, admins or blogs",
		Long: `List every record of a kind, optionally narrowed by a search.

Kinds:
  users       - Platform users
  properties  - Property listings
  items       - Marketplace items
  admins      - Console administrators
  blogs       - Blog posts

Search syntax:
  free text             - Case-insensitive match on the kind's text fields
  category:electronics  - Exact match on a filter field
  condition:"like-new"  - Quote values with spaces

Filter fields:
  users       status
  properties  type
  items       category, condition
  admins      status

Examples:
  # List all items
  marketdesk list items

  # Items in Pune that are electronics
  marketdesk list items --search "pune category:electronics"

  # Villas as JSON with summary counts
  marketdesk list properties --filter type=villa --summary -o json`,
		Args:      cobra.ExactArgs(1),
		ValidArgs: resource.Kinds,
		RunE:      runList,
	}

	cmd.Flags().StringVarP(&listSearch, "search", "s", "", "Search query (free text and field:value filters)")
	cmd.Flags().StringArrayVarP(&listFilters, "filter", "f", nil, "Filter as field=value (repeatable)")
	cmd.Flags().BoolVar(&listSummary, "summary", false, "Show summary counts over the whole collection")
	cmd.Flags().BoolVar(&listNoIDs, "no-ids", false, "Hide the ID column")

	return cmd
}

func runList(cmd *cobra.Command, args []string) error {
	k, err := lookupKind(args[0])
	if err != nil {
		return err
	}

	filters, err := cli.ParseAssignments(listFilters)
	if err != nil {
		return fmt.Errorf("invalid --filter: %w", err)
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

	return k.list(cmd.Context(), cc, cmd.OutOrStdout(), listOptions{
		search:  listSearch,
		filters: filters,
		summary: listSummary,
		format:  format,
		showIDs: cc.Settings.Output.ShowIDs && !listNoIDs,
	})
}

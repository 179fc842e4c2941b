package commands

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/marketdesk/marketdesk-terminal/internal/cli"
	"github.com/marketdesk/marketdesk-terminal/pkg/resource"
	"github.com/marketdesk/marketdesk-terminal/pkg/search"
)

var (
	searchKinds []string
)

// SearchResultOutput represents the formatted search results
type SearchResultOutput struct {
	Query   string             `json:"query" yaml:"query"`
	Count   int                `json:"count" yaml:"count"`
	Results []SearchItemOutput `json:"results" yaml:"results"`
}

// SearchItemOutput represents a single search result item
type SearchItemOutput struct {
	Kind  string `json:"kind" yaml:"kind"`
	ID    string `json:"id" yaml:"id"`
	Title string `json:"title" yaml:"title"`
}

// NewSearchCommand creates the search command
func NewSearchCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "search <query>",
		Short: "Search across users, properties, items, admins and blogs",
		Long: `Search every kind at once with the same syntax as 'list --search'.

Query Syntax:
  pune                  - Free text, matched case-insensitively
  status:inactive       - Exact match on a filter field
  category:electronics  - Filter fields only apply to kinds that have them

Kinds without a filter field named in the query match nothing.

Examples:
  # Find anything mentioning Pune
  marketdesk search pune

  # Inactive users and admins
  marketdesk search "status:inactive"

  # Restrict to items and properties
  marketdesk search "sea view" --kind items --kind properties`,
		Args: cobra.MinimumNArgs(1),
		RunE: runSearch,
	}

	cmd.Flags().StringArrayVarP(&searchKinds, "kind", "k", nil, "Limit to a kind (repeatable)")

	return cmd
}

func runSearch(cmd *cobra.Command, args []string) error {
	query := strings.Join(args, " ")

	names := searchKinds
	if len(names) == 0 {
		names = resource.Kinds
	}
	// Parse with every kind's filter keys so field:value tokens are
	// recognised even when the kind lacks that field
	var keys []string
	for _, name := range resource.Kinds {
		k, err := lookupKind(name)
		if err != nil {
			return err
		}
		keys = append(keys, k.filterKeys()...)
	}
	parsed := search.NewParser(keys...).Parse(query)

	kinds := make([]kindRunner, 0, len(names))
	for _, name := range names {
		k, err := lookupKind(name)
		if err != nil {
			return err
		}
		kinds = append(kinds, k)
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

	// The client is shared by the loaders below
	if _, err := cc.Client(); err != nil {
		return err
	}

	// Load every kind concurrently; results keep kind order
	hits := make([][]SearchItemOutput, len(kinds))
	g, ctx := errgroup.WithContext(cmd.Context())
	for i, k := range kinds {
		g.Go(func() error {
			found, err := k.search(ctx, cc, parsed, query)
			if err != nil {
				return err
			}
			hits[i] = found
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	output := SearchResultOutput{Query: query, Results: []SearchItemOutput{}}
	for _, found := range hits {
		output.Results = append(output.Results, found...)
	}
	output.Count = len(output.Results)

	w := cmd.OutOrStdout()
	switch format {
	case "json", "yaml":
		return cli.OutputResults(w, format, output)
	}

	if output.Count == 0 {
		fmt.Fprintf(w, "No results found for: %s\n", query)
		return nil
	}

	fmt.Fprintf(w, "Found %d results for: %s\n\n", output.Count, query)
	table := cli.NewTableFormatter(w)
	table.Header("KIND", "ID", "TITLE")
	for _, hit := range output.Results {
		table.Row(hit.Kind, hit.ID, cli.TruncateString(hit.Title, 50))
	}
	table.Flush()
	return nil
}

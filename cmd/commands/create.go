package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/marketdesk/marketdesk-terminal/internal/cli"
)

var (
	createSet []string
)

// NewCreateCommand creates the create command
func NewCreateCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "create <kind>",
		Short: "Create a new record",
		Long: `Create a new record. Only blog posts can be created from the console;
users, properties and items are created by the platform's own apps.

With --set, the record is built from the given fields. Without it, an
empty form opens in your default editor ($EDITOR) as YAML.

Examples:
  # Create a blog post
  marketdesk create blogs \
    --set title="Moving checklist" \
    --set author="Team" \
    --set description="What to pack first" \
    --set content="<p>Start with the kitchen.</p>"

  # Upload a local cover image while creating
  marketdesk create blogs --set imageUrl=./cover.png ...

  # Fill the form in your editor
  marketdesk create blogs`,
		Args:      cobra.ExactArgs(1),
		ValidArgs: []string{"blogs"},
		RunE:      runCreate,
	}

	cmd.Flags().StringArrayVar(&createSet, "set", nil, "Set a field as key=value (repeatable)")

	return cmd
}

func runCreate(cmd *cobra.Command, args []string) error {
	k, err := lookupKind(args[0])
	if err != nil {
		return err
	}

	values, err := cli.ParseAssignments(createSet)
	if err != nil {
		return fmt.Errorf("invalid --set: %w", err)
	}

	cc, err := commandContext(cmd)
	if err != nil {
		return err
	}
	defer cc.Close()

	form, err := k.openCreate(cmd.Context(), cc)
	if err != nil {
		return err
	}

	if len(values) == 0 {
		values, err = editInEditor(form, k.plural())
		if err != nil {
			return err
		}
		if len(values) == 0 {
			cli.PrintInfo("Nothing to create")
			return nil
		}
	}

	if err := applyValues(form, values); err != nil {
		return err
	}
	if err := checkImagePaths(form); err != nil {
		return err
	}
	notice, err := form.Submit(cmd.Context())
	if err != nil {
		return submitError(notice, err)
	}

	cli.PrintSuccess("%s", notice.Text)
	return nil
}

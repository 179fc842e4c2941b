package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/marketdesk/marketdesk-terminal/internal/cli"
	"github.com/marketdesk/marketdesk-terminal/pkg/resource"
)

var (
	editSet []string
)

// editContent opens content in the user's editor; replaced in tests
var editContent = func(pattern, content string) (string, error) {
	return cli.NewEditorLauncher().EditContent(pattern, content)
}

// NewEditCommand creates the edit command
func NewEditCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "edit <kind> <id>",
		Short: "Edit a record",
		Long: `Edit an existing record.

With --set, the given fields are changed and the record is saved. Without
it, the record's form opens in your default editor ($EDITOR) as YAML and
the changed fields are saved when the editor exits.

Image fields accept a URL or a local file path. Local files are uploaded
to the configured image store first.

Examples:
  # Mark a user inactive
  marketdesk edit users 64b7f0c2e1d3a0 --set status=inactive

  # Reprice an item and mark it sold
  marketdesk edit items 64b7f0c2e1d3a9 --set price=4500 --set isAvailable=false

  # Edit a blog post in vim
  EDITOR=vim marketdesk edit blogs 64b7f0c2e1d3b1`,
		Args:      cobra.ExactArgs(2),
		ValidArgs: resource.Kinds,
		RunE:      runEdit,
	}

	cmd.Flags().StringArrayVar(&editSet, "set", nil, "Set a field as key=value (repeatable)")

	return cmd
}

func runEdit(cmd *cobra.Command, args []string) error {
	k, err := lookupKind(args[0])
	if err != nil {
		return err
	}

	values, err := cli.ParseAssignments(editSet)
	if err != nil {
		return fmt.Errorf("invalid --set: %w", err)
	}

	cc, err := commandContext(cmd)
	if err != nil {
		return err
	}
	defer cc.Close()

	form, err := k.openEdit(cmd.Context(), cc, args[1])
	if err != nil {
		return err
	}

	if len(values) == 0 {
		values, err = editInEditor(form, k.plural())
		if err != nil {
			return err
		}
		if len(values) == 0 {
			cli.PrintInfo("No changes made")
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

// editInEditor returns the fields changed in the editor
func editInEditor(form *resource.FormController, plural string) (map[string]string, error) {
	doc, err := formDocument(form)
	if err != nil {
		return nil, err
	}

	edited, err := editContent(fmt.Sprintf("marketdesk-%s-*.yaml", plural), doc)
	if err != nil {
		return nil, err
	}
	if edited == doc {
		return nil, nil
	}

	after, err := parseFormDocument(edited)
	if err != nil {
		return nil, err
	}
	return changedValues(form.Values(), after), nil
}

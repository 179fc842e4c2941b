package commands

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/muesli/reflow/wordwrap"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/marketdesk/marketdesk-terminal/internal/cli"
	"github.com/marketdesk/marketdesk-terminal/pkg/models"
	"github.com/marketdesk/marketdesk-terminal/pkg/resource"
	"github.com/marketdesk/marketdesk-terminal/pkg/search"
)

// listOptions carries list flags into a kind
type listOptions struct {
	search  string
	filters map[string]string
	summary bool
	format  string
	showIDs bool
}

// ListResult represents the output structure for list command
type ListResult[T any] struct {
	Kind    string           `json:"kind" yaml:"kind"`
	Items   []T              `json:"items" yaml:"items"`
	Count   int              `json:"count" yaml:"count"`
	Total   int              `json:"total" yaml:"total"`
	Summary []resource.Count `json:"summary,omitempty" yaml:"summary,omitempty"`
}

// kindRunner runs the generic command flows for one entity kind
type kindRunner interface {
	plural() string
	name() string
	list(ctx context.Context, cc *cli.CommandContext, w io.Writer, opts listOptions) error
	show(ctx context.Context, cc *cli.CommandContext, w io.Writer, id, format string) error
	remove(ctx context.Context, cc *cli.CommandContext, id string, confirm confirmFunc) (resource.Notice, bool, error)
	openEdit(ctx context.Context, cc *cli.CommandContext, id string) (*resource.FormController, error)
	openCreate(ctx context.Context, cc *cli.CommandContext) (*resource.FormController, error)
	purge(ctx context.Context, cc *cli.CommandContext) (int, error)
	filterKeys() []string
	search(ctx context.Context, cc *cli.CommandContext, q search.Query, raw string) ([]SearchItemOutput, error)
	export(ctx context.Context, cc *cli.CommandContext, id string) (string, error)
	exportAll(ctx context.Context, cc *cli.CommandContext, query, format string) ([]byte, int, error)
}

type kind[T any] struct {
	schema *resource.Schema[T]
}

func lookupKind(name string) (kindRunner, error) {
	normalized, err := cli.NormalizeResource(name)
	if err != nil {
		return nil, err
	}
	switch normalized {
	case "users":
		return kind[models.User]{schema: resource.Users}, nil
	case "properties":
		return kind[models.Property]{schema: resource.Properties}, nil
	case "items":
		return kind[models.Item]{schema: resource.Items}, nil
	case "admins":
		return kind[models.Admin]{schema: resource.Admins}, nil
	default:
		return kind[models.BlogPost]{schema: resource.Blogs}, nil
	}
}

func (k kind[T]) plural() string { return k.schema.Plural }
func (k kind[T]) name() string   { return k.schema.Name }

func (k kind[T]) list(ctx context.Context, cc *cli.CommandContext, w io.Writer, opts listOptions) error {
	client, err := cc.Client()
	if err != nil {
		return err
	}
	list := resource.NewListController(client, k.schema)
	if err := list.Load(ctx); err != nil {
		return err
	}

	list.ApplySearch(opts.search)
	for key, value := range opts.filters {
		if err := list.SetFilter(key, value); err != nil {
			return err
		}
	}

	result := ListResult[T]{
		Kind:  k.schema.Plural,
		Items: list.Visible(),
		Total: list.Total(),
	}
	result.Count = len(result.Items)
	if opts.summary {
		result.Summary = list.Summary()
	}

	switch opts.format {
	case "json", "yaml":
		return cli.OutputResults(w, opts.format, result)
	}

	if result.Count == 0 {
		fmt.Fprintf(w, "No %s found\n", k.schema.Plural)
	} else {
		cli.WriteRecords(w, k.schema, result.Items, opts.showIDs)
		fmt.Fprintf(w, "\nShowing %d of %d %s\n", result.Count, result.Total, k.schema.Plural)
	}
	if opts.summary {
		cli.WriteCounts(w, result.Summary)
	}
	return nil
}

func (k kind[T]) filterKeys() []string {
	return k.schema.FilterKeys()
}

// search loads the kind and applies raw. A filter this kind does not
// have excludes the whole kind.
func (k kind[T]) search(ctx context.Context, cc *cli.CommandContext, q search.Query, raw string) ([]SearchItemOutput, error) {
	for key := range q.Filters {
		if _, ok := k.schema.Filter(key); !ok {
			return nil, nil
		}
	}
	client, err := cc.Client()
	if err != nil {
		return nil, err
	}
	list := resource.NewListController(client, k.schema)
	if err := list.Load(ctx); err != nil {
		return nil, err
	}
	list.ApplySearch(raw)

	var hits []SearchItemOutput
	for _, record := range list.Visible() {
		hits = append(hits, SearchItemOutput{
			Kind:  k.schema.Plural,
			ID:    k.schema.ID(record),
			Title: k.schema.Title(record),
		})
	}
	return hits, nil
}

func (k kind[T]) load(ctx context.Context, cc *cli.CommandContext, id string) (*resource.DetailController[T], error) {
	if err := cli.ValidateRecordID(id); err != nil {
		return nil, err
	}
	client, err := cc.Client()
	if err != nil {
		return nil, err
	}
	detail := resource.NewDetailController(client, k.schema)
	detail.SetTiming(cc.Timing())
	if err := detail.Load(ctx, id); err != nil {
		return nil, err
	}
	return detail, nil
}

func (k kind[T]) show(ctx context.Context, cc *cli.CommandContext, w io.Writer, id, format string) error {
	detail, err := k.load(ctx, cc, id)
	if err != nil {
		return err
	}
	record, _ := detail.Record()

	if format == "json" || format == "yaml" {
		return cli.OutputResults(w, format, record)
	}
	writeDetail(w, k.schema, record)
	return nil
}

func writeDetail[T any](w io.Writer, schema *resource.Schema[T], record T) {
	fmt.Fprintf(w, "%s: %s\n", schema.Name, schema.Title(record))
	fmt.Fprintf(w, "%s\n", strings.Repeat("-", 40))

	table := cli.NewTableFormatter(w)
	table.Row("ID", schema.ID(record))
	for _, col := range append(append([]resource.Column[T]{}, schema.Columns...), schema.Details...) {
		if v := col.Value(record); v != "" {
			table.Row(col.Header, v)
		}
	}
	table.Flush()

	if schema.Body != nil {
		if body := schema.Body(record); body != "" {
			fmt.Fprintf(w, "\n%s\n", wordwrap.String(body, 80))
		}
	}
}

// confirmFunc asks whether the labelled record may be deleted
type confirmFunc func(label string) (bool, error)

// remove loads the record, asks confirm, then deletes it. The bool result
// is false when the deletion was cancelled.
func (k kind[T]) remove(ctx context.Context, cc *cli.CommandContext, id string, confirm confirmFunc) (resource.Notice, bool, error) {
	detail, err := k.load(ctx, cc, id)
	if err != nil {
		return resource.Notice{}, false, err
	}
	record, _ := detail.Record()
	ok, err := confirm(k.schema.Label(record))
	if err != nil || !ok {
		return resource.Notice{}, false, err
	}
	notice, err := detail.Delete(ctx)
	return notice, err == nil, err
}

// applyValues sets values in key order so errors are reproducible
func applyValues(form *resource.FormController, values map[string]string) error {
	keys := make([]string, 0, len(values))
	for key := range values {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	for _, key := range keys {
		if err := form.Set(key, values[key]); err != nil {
			return err
		}
	}
	return nil
}

func (k kind[T]) openEdit(ctx context.Context, cc *cli.CommandContext, id string) (*resource.FormController, error) {
	if err := cli.ValidateRecordID(id); err != nil {
		return nil, err
	}
	client, err := cc.Client()
	if err != nil {
		return nil, err
	}
	uploads, err := cc.Uploads(ctx)
	if err != nil {
		return nil, err
	}
	form, err := resource.LoadEditForm(ctx, client, k.schema, uploads, id)
	if err != nil {
		return nil, err
	}
	form.SetTiming(cc.Timing())
	return form, nil
}

func (k kind[T]) openCreate(ctx context.Context, cc *cli.CommandContext) (*resource.FormController, error) {
	client, err := cc.Client()
	if err != nil {
		return nil, err
	}
	uploads, err := cc.Uploads(ctx)
	if err != nil {
		return nil, err
	}
	form, err := resource.NewCreateForm(client, k.schema, uploads)
	if err != nil {
		return nil, err
	}
	form.SetTiming(cc.Timing())
	return form, nil
}

func (k kind[T]) purge(ctx context.Context, cc *cli.CommandContext) (int, error) {
	client, err := cc.Client()
	if err != nil {
		return 0, err
	}
	return resource.NewListController(client, k.schema).DeleteAll(ctx)
}

func (k kind[T]) export(ctx context.Context, cc *cli.CommandContext, id string) (string, error) {
	detail, err := k.load(ctx, cc, id)
	if err != nil {
		return "", err
	}
	record, _ := detail.Record()
	data, err := yaml.Marshal(record)
	if err != nil {
		return "", fmt.Errorf("failed to encode %s: %w", strings.ToLower(k.schema.Name), err)
	}
	return string(data), nil
}

func (k kind[T]) exportAll(ctx context.Context, cc *cli.CommandContext, query, format string) ([]byte, int, error) {
	client, err := cc.Client()
	if err != nil {
		return nil, 0, err
	}
	list := resource.NewListController(client, k.schema)
	if err := list.Load(ctx); err != nil {
		return nil, 0, err
	}
	list.ApplySearch(query)
	records := list.Visible()

	var buf bytes.Buffer
	if err := cli.OutputResults(&buf, format, records); err != nil {
		return nil, 0, fmt.Errorf("failed to encode %s: %w", k.schema.Plural, err)
	}
	return buf.Bytes(), len(records), nil
}

// commandContext builds a context honoring the --api-url flag
func commandContext(cmd *cobra.Command) (*cli.CommandContext, error) {
	apiURL, _ := cmd.Flags().GetString("api-url")
	return cli.NewCommandContext(apiURL)
}

// outputFormat resolves --output against the settings default
func outputFormat(cmd *cobra.Command, cc *cli.CommandContext) (string, error) {
	flagValue, _ := cmd.Flags().GetString("output")
	return cc.OutputFormat(flagValue)
}

// skipConfirm reports whether --yes was given
func skipConfirm(cmd *cobra.Command) bool {
	yes, _ := cmd.Flags().GetBool("yes")
	return yes
}

package resource

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/marketdesk/marketdesk-terminal/pkg/api"
	"github.com/marketdesk/marketdesk-terminal/pkg/search"
)

// ErrNotPurgeable is returned by DeleteAll for kinds that cannot be purged
var ErrNotPurgeable = errors.New("this collection cannot be deleted in bulk")

// ListController keeps one collection in memory and derives the visible
// view from it. Filtering never touches the network.
type ListController[T any] struct {
	client *api.Client
	schema *Schema[T]
	parser *search.Parser
	timing Timing

	records []T
	text    string
	filters map[string]string
	loaded  bool
	err     error
}

// NewListController creates a controller for schema
func NewListController[T any](client *api.Client, schema *Schema[T]) *ListController[T] {
	return &ListController[T]{
		client:  client,
		schema:  schema,
		parser:  search.NewParser(schema.FilterKeys()...),
		timing:  DefaultTiming(),
		records: []T{},
		filters: make(map[string]string),
	}
}

// SetTiming overrides notice timings
func (c *ListController[T]) SetTiming(t Timing) {
	c.timing = t
}

// Schema returns the controller's schema
func (c *ListController[T]) Schema() *Schema[T] {
	return c.schema
}

// Load fetches the whole collection. On failure the collection is empty
// and the returned error is a *LoadError.
func (c *ListController[T]) Load(ctx context.Context) error {
	records, err := c.Fetch(ctx)
	return c.Apply(records, err)
}

// Fetch reads the collection without touching controller state, so it can
// run off the UI goroutine. Pair it with Apply.
func (c *ListController[T]) Fetch(ctx context.Context) ([]T, error) {
	return api.GetList[T](ctx, c.client, c.schema.Endpoint)
}

// Apply stores the result of Fetch
func (c *ListController[T]) Apply(records []T, err error) error {
	c.loaded = true
	if err != nil {
		c.records = []T{}
		c.err = &LoadError{Subject: c.schema.Plural, Err: err}
		return c.err
	}
	c.records = records
	c.err = nil
	return nil
}

// Loaded reports whether Load has completed at least once
func (c *ListController[T]) Loaded() bool {
	return c.loaded
}

// Err returns the last load failure
func (c *ListController[T]) Err() error {
	return c.err
}

// Records returns the full collection
func (c *ListController[T]) Records() []T {
	return c.records
}

// Get looks a record up by id
func (c *ListController[T]) Get(id string) (T, bool) {
	for _, r := range c.records {
		if c.schema.ID(r) == id {
			return r, true
		}
	}
	var zero T
	return zero, false
}

// SetQuery sets the free text part of the search
func (c *ListController[T]) SetQuery(text string) {
	if strings.TrimSpace(text) == "" {
		text = ""
	}
	c.text = text
}

// Query returns the current free text
func (c *ListController[T]) Query() string {
	return c.text
}

// SetFilter narrows the view to records whose key field equals value.
// An empty value or "all" clears the filter.
func (c *ListController[T]) SetFilter(key, value string) error {
	f, ok := c.schema.Filter(key)
	if !ok {
		return fmt.Errorf("unknown filter %q for %s (valid: %s)", key, c.schema.Plural, strings.Join(c.schema.FilterKeys(), ", "))
	}
	if value == "" || strings.EqualFold(value, search.AllValue) {
		delete(c.filters, f.Key)
		return nil
	}
	c.filters[f.Key] = value
	return nil
}

// Filters returns the active filters
func (c *ListController[T]) Filters() map[string]string {
	out := make(map[string]string, len(c.filters))
	for k, v := range c.filters {
		out[k] = v
	}
	return out
}

// ApplySearch replaces text and filters from search bar syntax:
// free text plus key:value tokens.
func (c *ListController[T]) ApplySearch(raw string) {
	q := c.parser.Parse(raw)
	c.text = q.Text
	c.filters = make(map[string]string, len(q.Filters))
	for k, v := range q.Filters {
		if f, ok := c.schema.Filter(k); ok {
			c.filters[f.Key] = v
		}
	}
}

// Visible returns the records matching the text AND every filter
func (c *ListController[T]) Visible() []T {
	visible := make([]T, 0, len(c.records))
	for _, r := range c.records {
		if c.matches(r) {
			visible = append(visible, r)
		}
	}
	return visible
}

func (c *ListController[T]) matches(r T) bool {
	for key, want := range c.filters {
		f, ok := c.schema.Filter(key)
		if ok && f.Value(r) != want {
			return false
		}
	}

	if c.text == "" || len(c.schema.SearchFields) == 0 {
		return true
	}
	needle := strings.ToLower(c.text)
	for _, field := range c.schema.SearchFields {
		if strings.Contains(strings.ToLower(field(r)), needle) {
			return true
		}
	}
	return false
}

// CountVisible is len(Visible())
func (c *ListController[T]) CountVisible() int {
	n := 0
	for _, r := range c.records {
		if c.matches(r) {
			n++
		}
	}
	return n
}

// Total is the size of the full collection
func (c *ListController[T]) Total() int {
	return len(c.records)
}

// Summary computes the schema's counts over the full collection,
// regardless of text or filters.
func (c *ListController[T]) Summary() []Count {
	return c.schema.Summarize(c.records)
}

// Delete removes one record. The caller confirms first. On success the
// record is dropped from the in-memory collection without a refetch.
func (c *ListController[T]) Delete(ctx context.Context, id string) (Notice, error) {
	return c.ApplyDelete(id, c.SendDelete(ctx, id))
}

// SendDelete issues the delete request only
func (c *ListController[T]) SendDelete(ctx context.Context, id string) error {
	return c.client.Delete(ctx, api.ByID(c.schema.Endpoint, id), nil)
}

// ApplyDelete records the outcome of SendDelete and returns the notice
func (c *ListController[T]) ApplyDelete(id string, err error) (Notice, error) {
	label := fmt.Sprintf("%s %q", c.schema.Name, id)
	if r, ok := c.Get(id); ok {
		label = c.schema.Label(r)
	}

	if err != nil {
		return Notice{
			Kind:       NoticeError,
			Text:       fmt.Sprintf("Failed to delete %s: %s", strings.ToLower(c.schema.Name), api.Message(err)),
			ClearAfter: c.timing.ClearAfter,
		}, err
	}

	kept := c.records[:0:0]
	for _, r := range c.records {
		if c.schema.ID(r) != id {
			kept = append(kept, r)
		}
	}
	c.records = kept

	return Notice{
		Kind:       NoticeSuccess,
		Text:       label + " deleted successfully",
		ClearAfter: c.timing.ClearAfter,
	}, nil
}

// DeleteAll removes every record of the kind and returns how many the
// backend reported deleted.
func (c *ListController[T]) DeleteAll(ctx context.Context) (int, error) {
	if !c.schema.Purgeable {
		return 0, ErrNotPurgeable
	}
	var resp struct {
		Success      bool `json:"success"`
		DeletedCount int  `json:"deletedCount"`
	}
	if err := c.client.Delete(ctx, c.schema.Endpoint, &resp); err != nil {
		return 0, fmt.Errorf("failed to delete all %s: %w", c.schema.Plural, err)
	}
	c.records = []T{}
	return resp.DeletedCount, nil
}

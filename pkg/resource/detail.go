package resource

import (
	"context"
	"fmt"
	"strings"

	"github.com/marketdesk/marketdesk-terminal/pkg/api"
)

// DetailController shows one record. A failed load is terminal for the
// navigation that started it.
type DetailController[T any] struct {
	client *api.Client
	schema *Schema[T]
	timing Timing

	id     string
	record T
	loaded bool
	err    error
}

// NewDetailController creates a controller for schema
func NewDetailController[T any](client *api.Client, schema *Schema[T]) *DetailController[T] {
	return &DetailController[T]{client: client, schema: schema, timing: DefaultTiming()}
}

// SetTiming overrides notice timings
func (c *DetailController[T]) SetTiming(t Timing) {
	c.timing = t
}

// Schema returns the controller's schema
func (c *DetailController[T]) Schema() *Schema[T] {
	return c.schema
}

// Load fetches the record with id
func (c *DetailController[T]) Load(ctx context.Context, id string) error {
	record, err := c.Fetch(ctx, id)
	return c.Apply(id, record, err)
}

// Fetch reads the record without touching controller state
func (c *DetailController[T]) Fetch(ctx context.Context, id string) (T, error) {
	var record T
	err := c.client.Get(ctx, api.ByID(c.schema.Endpoint, id), &record)
	return record, err
}

// Apply stores the result of Fetch
func (c *DetailController[T]) Apply(id string, record T, err error) error {
	c.id = id
	if err != nil {
		c.loaded = false
		c.err = &LoadError{Subject: strings.ToLower(c.schema.Name), Err: err}
		return c.err
	}
	c.record = record
	c.loaded = true
	c.err = nil
	return nil
}

// ID returns the id of the last load
func (c *DetailController[T]) ID() string {
	return c.id
}

// Record returns the loaded record
func (c *DetailController[T]) Record() (T, bool) {
	return c.record, c.loaded
}

// Failed reports whether the last load failed
func (c *DetailController[T]) Failed() bool {
	return c.err != nil
}

// Err returns the load failure
func (c *DetailController[T]) Err() error {
	return c.err
}

// Delete removes the shown record. Success carries a redirect back to
// the list.
func (c *DetailController[T]) Delete(ctx context.Context) (Notice, error) {
	if !c.loaded {
		return Notice{}, fmt.Errorf("no %s loaded", strings.ToLower(c.schema.Name))
	}
	return c.ApplyDelete(c.SendDelete(ctx, c.id))
}

// SendDelete issues the delete request for id only
func (c *DetailController[T]) SendDelete(ctx context.Context, id string) error {
	return c.client.Delete(ctx, api.ByID(c.schema.Endpoint, id), nil)
}

// ApplyDelete turns the outcome of SendDelete into a notice
func (c *DetailController[T]) ApplyDelete(err error) (Notice, error) {
	if err != nil {
		return Notice{
			Kind:       NoticeError,
			Text:       fmt.Sprintf("Failed to delete %s: %s", strings.ToLower(c.schema.Name), api.Message(err)),
			ClearAfter: c.timing.ClearAfter,
		}, err
	}
	return Notice{
		Kind:          NoticeSuccess,
		Text:          c.schema.Label(c.record) + " deleted successfully",
		Redirect:      &Route{View: ViewList, Resource: c.schema.Plural},
		RedirectAfter: c.timing.RedirectAfter,
	}, nil
}

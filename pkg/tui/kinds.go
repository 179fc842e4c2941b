package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/marketdesk/marketdesk-terminal/pkg/models"
	"github.com/marketdesk/marketdesk-terminal/pkg/resource"
)

// kindScreens builds the screens of one entity kind
type kindScreens interface {
	list(e *env) screen
	detail(e *env, id string) screen
	create(e *env) (screen, error)
	edit(e *env, id string) (screen, error)
}

type kind[T any] struct {
	schema *resource.Schema[T]
}

var kinds = map[string]kindScreens{
	resource.Users.Plural:      kind[models.User]{resource.Users},
	resource.Properties.Plural: kind[models.Property]{resource.Properties},
	resource.Items.Plural:      kind[models.Item]{resource.Items},
	resource.Admins.Plural:     kind[models.Admin]{resource.Admins},
	resource.Blogs.Plural:      kind[models.BlogPost]{resource.Blogs},
}

func lookupKind(name string) (kindScreens, bool) {
	k, ok := kinds[strings.ToLower(name)]
	return k, ok
}

func (k kind[T]) list(e *env) screen {
	return newListScreen(e, k.schema)
}

func (k kind[T]) detail(e *env, id string) screen {
	return newDetailScreen(e, k.schema, id)
}

func (k kind[T]) create(e *env) (screen, error) {
	form, err := resource.NewCreateForm(e.client, k.schema, e.uploads)
	if err != nil {
		return nil, err
	}
	form.SetTiming(e.timing)
	open := func(context.Context) (*resource.FormController, error) {
		return form, nil
	}
	return newFormScreen(e, "New "+k.schema.Name, open, SwitchViewMsg{view: listView, resource: k.schema.Plural}), nil
}

func (k kind[T]) edit(e *env, id string) (screen, error) {
	if k.schema.Form == nil {
		return nil, fmt.Errorf("%s cannot be edited from the console", k.schema.Plural)
	}
	open := func(ctx context.Context) (*resource.FormController, error) {
		form, err := resource.LoadEditForm(ctx, e.client, k.schema, e.uploads, id)
		if err != nil {
			return nil, err
		}
		form.SetTiming(e.timing)
		return form, nil
	}
	back := SwitchViewMsg{view: detailView, resource: k.schema.Plural, id: id}
	return newFormScreen(e, "Edit "+k.schema.Name, open, back), nil
}

// titleCase turns "properties" or "PRICE" into "Properties" and "Price"
func titleCase(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + strings.ToLower(s[1:])
}

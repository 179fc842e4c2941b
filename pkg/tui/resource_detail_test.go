package tui

import (
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/marketdesk/marketdesk-terminal/pkg/api/apitest"
	"github.com/marketdesk/marketdesk-terminal/pkg/models"
	"github.com/marketdesk/marketdesk-terminal/pkg/resource"
)

func openItem(t *testing.T, srv *apitest.Server, id string) (*App, *detailScreen[models.Item]) {
	t.Helper()
	a := newTestApp(t, srv)
	drive(t, a, a.open(SwitchViewMsg{view: detailView, resource: "items", id: id}))
	d, ok := a.screen.(*detailScreen[models.Item])
	require.True(t, ok)
	return a, d
}

func TestDetailScreen_Load(t *testing.T) {
	srv := apitest.NewServer(t)
	seedItems(srv)
	a, d := openItem(t, srv, "i1")

	record, ok := d.detail.Record()
	require.True(t, ok)
	assert.Equal(t, "Phone", record.Title)

	view := a.View()
	assert.Contains(t, view, `Item "Phone"`)
	assert.Contains(t, view, "electronics")
	assert.Contains(t, view, "Kothrud")
	assert.Contains(t, view, "ID: i1")
}

func TestDetailScreen_NotFound(t *testing.T) {
	srv := apitest.NewServer(t)
	a, d := openItem(t, srv, "missing")

	assert.True(t, d.detail.Failed())
	assert.Contains(t, status(a), "Failed to load item")
	assert.Contains(t, a.View(), "Press r to retry or esc to go back")

	// nothing to act on
	typeKeys(a, "d", "e")
	assert.False(t, d.confirm.Active())
	assert.Equal(t, detailView, a.current.view)
}

func TestDetailScreen_DeleteRedirectsToList(t *testing.T) {
	srv := apitest.NewServer(t)
	seedItems(srv)
	a, d := openItem(t, srv, "i1")

	typeKeys(a, "d")
	require.True(t, d.confirm.Active())
	assert.Contains(t, a.View(), `Delete Item "Phone"?`)

	press(t, a, "y")

	assert.Len(t, srv.Records("items"), 2)
	assert.Equal(t, listView, a.current.view)
	assert.Equal(t, "items", a.current.resource)

	l := a.screen.(*listScreen[models.Item])
	assert.Equal(t, 2, l.list.Total())
}

func TestDetailScreen_DeleteFailureStays(t *testing.T) {
	srv := apitest.NewServer(t)
	seedItems(srv)
	srv.Respond(http.MethodDelete, "/items/i1", http.StatusForbidden, `{"message":"Not allowed"}`)
	a, d := openItem(t, srv, "i1")

	typeKeys(a, "d")
	press(t, a, "y")

	assert.Equal(t, detailView, a.current.view)
	assert.False(t, d.deleted)
	assert.Contains(t, status(a), "Failed to delete item: Not allowed")
}

func TestDetailScreen_EditKey(t *testing.T) {
	srv := apitest.NewServer(t)
	seedItems(srv)
	a, _ := openItem(t, srv, "i1")

	press(t, a, "e")
	assert.Equal(t, editView, a.current.view)
	assert.Equal(t, "i1", a.current.id)
}

func TestDetailScreen_CopyYAML(t *testing.T) {
	tests := []struct {
		name       string
		copyErr    error
		wantStatus string
	}{
		{name: "success", wantStatus: `Copied Item "Phone" to clipboard`},
		{name: "clipboard unavailable", copyErr: errors.New("no clipboard utility"), wantStatus: "Failed to copy to clipboard: no clipboard utility"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var copied string
			orig := copyToClipboard
			copyToClipboard = func(text string) error {
				copied = text
				return tt.copyErr
			}
			t.Cleanup(func() { copyToClipboard = orig })

			srv := apitest.NewServer(t)
			seedItems(srv)
			a, _ := openItem(t, srv, "i1")

			press(t, a, "y")

			assert.Contains(t, copied, "title: Phone")
			assert.Contains(t, status(a), tt.wantStatus)
		})
	}
}

func TestDetailScreen_Back(t *testing.T) {
	srv := apitest.NewServer(t)
	seedItems(srv)
	a, _ := openItem(t, srv, "i2")

	press(t, a, "esc")
	assert.Equal(t, listView, a.current.view)
	assert.Equal(t, "items", a.current.resource)
}

func TestRenderRecord(t *testing.T) {
	item := models.Item{
		ID:          "i9",
		Title:       "Desk",
		Category:    "furniture",
		Description: "Solid oak writing desk with two drawers",
	}

	out := renderRecord(resource.Items, item, 40)

	assert.Contains(t, out, "Title")
	assert.Contains(t, out, "Desk")
	assert.Contains(t, out, "Solid oak")
	assert.Contains(t, out, "ID: i9")
}

package resource_test

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/marketdesk/marketdesk-terminal/pkg/api/apitest"
	"github.com/marketdesk/marketdesk-terminal/pkg/resource"
)

func TestDetailLoadAndDelete(t *testing.T) {
	srv := apitest.NewServer(t)
	srv.Seed("properties", map[string]any{
		"_id": "p1", "title": "Sea View Villa", "propertyType": "villa", "price": 25000000,
		"user": map[string]any{"_id": "u1", "name": "Asha"},
	})

	detail := resource.NewDetailController(srv.Client(), resource.Properties)
	require.NoError(t, detail.Load(context.Background(), "p1"))
	assert.False(t, detail.Failed())

	prop, ok := detail.Record()
	require.True(t, ok)
	assert.Equal(t, "Sea View Villa", prop.Title)
	assert.Equal(t, "Asha", prop.Owner.Name)

	notice, err := detail.Delete(context.Background())
	require.NoError(t, err)
	assert.Equal(t, `Property "Sea View Villa" deleted successfully`, notice.Text)
	require.NotNil(t, notice.Redirect)
	assert.Equal(t, resource.Route{View: resource.ViewList, Resource: "properties"}, *notice.Redirect)
	assert.Equal(t, resource.DefaultRedirectAfter, notice.RedirectAfter)
	assert.Empty(t, srv.Records("properties"))
}

func TestDetailLoadFailureIsTerminal(t *testing.T) {
	srv := apitest.NewServer(t)

	detail := resource.NewDetailController(srv.Client(), resource.Users)
	err := detail.Load(context.Background(), "missing")
	require.Error(t, err)
	assert.True(t, detail.Failed())
	assert.Equal(t, "Failed to load user: Not found", err.Error())

	_, ok := detail.Record()
	assert.False(t, ok)

	_, err = detail.Delete(context.Background())
	assert.Error(t, err)
	assert.Equal(t, 0, srv.CountRequests(http.MethodDelete, "/users/missing"))
}

func TestDetailDeleteFailureKeepsRecord(t *testing.T) {
	srv := apitest.NewServer(t)
	srv.Seed("blogs", map[string]any{"_id": "b1", "title": "Hello"})
	srv.Respond(http.MethodDelete, "/blogs/b1", http.StatusInternalServerError, "")

	detail := resource.NewDetailController(srv.Client(), resource.Blogs)
	require.NoError(t, detail.Load(context.Background(), "b1"))

	notice, err := detail.Delete(context.Background())
	require.Error(t, err)
	assert.True(t, notice.IsError())
	assert.Nil(t, notice.Redirect)
	assert.Equal(t, "Failed to delete blog: request failed with status 500", notice.Text)
	assert.Len(t, srv.Records("blogs"), 1)
}

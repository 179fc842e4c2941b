package api_test

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/marketdesk/marketdesk-terminal/pkg/api"
	"github.com/marketdesk/marketdesk-terminal/pkg/api/apitest"
	"github.com/marketdesk/marketdesk-terminal/pkg/models"
	"github.com/marketdesk/marketdesk-terminal/pkg/session"
)

func TestNewRejectsInvalidBaseURL(t *testing.T) {
	tests := []string{"", "localhost:5000", "://bad"}
	for _, base := range tests {
		t.Run(base, func(t *testing.T) {
			_, err := api.New(api.Config{BaseURL: base})
			assert.Error(t, err)
		})
	}
}

func TestClientSendsSessionCookie(t *testing.T) {
	srv := apitest.NewServer(t)
	srv.Seed("users", map[string]any{"_id": "u1", "name": "Asha"})

	client := srv.Client()
	users, err := api.GetList[models.User](context.Background(), client, api.PathUsers)
	require.NoError(t, err)
	require.Len(t, users, 1)
	assert.Equal(t, "Asha", users[0].Name)
}

func TestClientUnauthorizedExpiresSession(t *testing.T) {
	srv := apitest.NewServer(t)
	cfg := srv.Config()
	cfg.SessionToken = "stale"

	manager := session.NewManager()
	events, unsub := manager.Subscribe()
	defer unsub()

	client, err := api.New(cfg, api.WithSession(manager))
	require.NoError(t, err)

	var items []models.Item
	err = client.Get(context.Background(), api.PathItems, &items)
	require.Error(t, err)
	assert.True(t, api.IsUnauthorized(err))
	assert.Equal(t, http.StatusUnauthorized, api.StatusCode(err))
	assert.Equal(t, "Not authorized, no token", api.Message(err))

	ev := <-events
	assert.Equal(t, session.StateExpired, ev.State)
	assert.Equal(t, session.LoginPath, ev.LoginPath)
	assert.Same(t, manager, client.Session())
}

func TestClientStatusErrors(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		message string
	}{
		{
			name:    "backend message is surfaced",
			status:  http.StatusBadRequest,
			body:    `{"message":"Price must be positive"}`,
			message: "Price must be positive",
		},
		{
			name:    "error field is used as fallback",
			status:  http.StatusNotFound,
			body:    `{"error":"Item not found"}`,
			message: "Item not found",
		},
		{
			name:    "generic message without body",
			status:  http.StatusInternalServerError,
			body:    ``,
			message: "request failed with status 500",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := apitest.NewServer(t)
			srv.Respond(http.MethodDelete, "/items/x1", tt.status, tt.body)

			err := srv.Client().Delete(context.Background(), api.ByID(api.PathItems, "x1"), nil)
			require.Error(t, err)

			var apiErr *api.Error
			require.True(t, errors.As(err, &apiErr))
			assert.Equal(t, api.KindStatus, apiErr.Kind)
			assert.Equal(t, tt.status, apiErr.Status)
			assert.Equal(t, tt.message, api.Message(err))
			assert.False(t, api.IsUnauthorized(err))
		})
	}
}

func TestGetListNonArray(t *testing.T) {
	srv := apitest.NewServer(t)
	srv.Respond(http.MethodGet, "/properties", http.StatusOK, `{"properties":[]}`)

	props, err := api.GetList[models.Property](context.Background(), srv.Client(), api.PathProperties)
	require.Error(t, err)
	assert.True(t, errors.Is(err, api.ErrUnexpectedShape))
	assert.NotNil(t, props)
	assert.Empty(t, props)
	assert.Equal(t, "Unexpected response format", api.Message(err))
}

func TestTransportError(t *testing.T) {
	client, err := api.New(api.Config{BaseURL: "http://127.0.0.1:1/api"})
	require.NoError(t, err)

	err = client.Get(context.Background(), api.PathUsers, nil)
	require.Error(t, err)

	var apiErr *api.Error
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, api.KindTransport, apiErr.Kind)
	assert.NotEmpty(t, api.Message(err))
}

func TestPostAndPutSendJSON(t *testing.T) {
	srv := apitest.NewServer(t)
	srv.Seed("blogs", map[string]any{"_id": "b1", "title": "Old"})
	client := srv.Client()
	ctx := context.Background()

	var created models.BlogPost
	require.NoError(t, client.Post(ctx, api.PathBlogs, map[string]any{"title": "New post", "author": "Ravi"}, &created))
	assert.NotEmpty(t, created.ID)
	assert.Equal(t, "New post", created.Title)

	var updated models.BlogPost
	require.NoError(t, client.Put(ctx, api.ByID(api.PathBlogs, "b1"), map[string]any{"title": "Renamed"}, &updated))
	assert.Equal(t, "Renamed", updated.Title)

	reqs := srv.Requests()
	require.Len(t, reqs, 2)
	assert.Equal(t, "New post", reqs[0].Body["title"])
	assert.Equal(t, "/api/blogs/b1", reqs[1].Path)
}

func TestDecodeList(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		want    int
		wantErr bool
	}{
		{name: "array", body: `[{"_id":"a"},{"_id":"b"}]`, want: 2},
		{name: "empty array", body: `[]`, want: 0},
		{name: "object", body: `{"items":[]}`, wantErr: true},
		{name: "null", body: `null`, wantErr: true},
		{name: "garbage", body: `<html>`, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := api.DecodeList[models.Item]([]byte(tt.body))
			if tt.wantErr {
				assert.ErrorIs(t, err, api.ErrUnexpectedShape)
				assert.Empty(t, got)
				return
			}
			require.NoError(t, err)
			assert.Len(t, got, tt.want)
		})
	}
}

func TestOwnerRefDecodesBothShapes(t *testing.T) {
	items, err := api.DecodeList[models.Item]([]byte(`[
		{"_id":"a","user":"u1"},
		{"_id":"b","user":{"_id":"u2","name":"Meera"}},
		{"_id":"c","user":null}
	]`))
	require.NoError(t, err)
	assert.Equal(t, "u1", items[0].Owner.ID)
	assert.Equal(t, "u2", items[1].Owner.ID)
	assert.Equal(t, "Meera", items[1].Owner.Name)
	assert.Empty(t, items[2].Owner.ID)
}

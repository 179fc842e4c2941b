package commands

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/marketdesk/marketdesk-terminal/internal/cli"
	"github.com/marketdesk/marketdesk-terminal/pkg/api/apitest"
	"github.com/marketdesk/marketdesk-terminal/pkg/files"
)

// setupBackend points commands at a fake backend and captures messages
func setupBackend(t *testing.T, input string) (*apitest.Server, *bytes.Buffer) {
	t.Helper()

	srv := apitest.NewServer(t)
	t.Setenv("MARKETDESK_API_URL", srv.URL())
	t.Setenv("MARKETDESK_SESSION_TOKEN", apitest.Token)
	t.Setenv("MARKETDESK_UPLOAD_MONGO_URI", "")
	t.Setenv("MARKETDESK_LOG_FILE", "")

	oldDir := files.ConfigDir
	files.ConfigDir = t.TempDir()

	messages := new(bytes.Buffer)
	cli.SetIO(strings.NewReader(input), messages, messages)
	cli.SetGlobalFlags(false, true, false)

	t.Cleanup(func() {
		files.ConfigDir = oldDir
		cli.SetIO(os.Stdin, os.Stdout, os.Stderr)
		cli.SetGlobalFlags(false, false, false)
	})
	return srv, messages
}

func seedItems(srv *apitest.Server) {
	srv.Seed("items",
		map[string]any{"_id": "i1", "title": "Phone", "price": 5000, "category": "electronics", "condition": "good", "city": "Pune", "location": "Kothrud", "isAvailable": true},
		map[string]any{"_id": "i2", "title": "Sofa", "price": 8000, "category": "furniture", "condition": "fair", "city": "Pune", "location": "Baner", "isAvailable": false},
		map[string]any{"_id": "i3", "title": "Laptop", "price": 40000, "category": "electronics", "condition": "like-new", "city": "Mumbai", "location": "Andheri", "isAvailable": true},
	)
}

func execute(t *testing.T, cmd *cobra.Command, args ...string) (string, error) {
	t.Helper()
	out := new(bytes.Buffer)
	cmd.SetOut(out)
	cmd.SetErr(out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestListCommand(t *testing.T) {
	tests := []struct {
		name     string
		args     []string
		wantErr  string
		contains []string
		excludes []string
	}{
		{
			name:     "all items",
			args:     []string{"items"},
			contains: []string{"Phone", "Sofa", "Laptop", "Showing 3 of 3 items"},
		},
		{
			name:     "search with filter",
			args:     []string{"items", "--search", "pune category:electronics"},
			contains: []string{"Phone", "Showing 1 of 3 items"},
			excludes: []string{"Sofa", "Laptop"},
		},
		{
			name:     "filter flag",
			args:     []string{"items", "--filter", "condition=like-new"},
			contains: []string{"Laptop", "Showing 1 of 3 items"},
			excludes: []string{"Phone"},
		},
		{
			name:     "summary covers the whole collection",
			args:     []string{"items", "--search", "sofa", "--summary"},
			contains: []string{"Showing 1 of 3 items", "Available: 2", "Sold: 1", "Total: 3"},
		},
		{
			name:     "no matches",
			args:     []string{"items", "--search", "tractor"},
			contains: []string{"No items found"},
		},
		{
			name:    "unknown filter",
			args:    []string{"items", "--filter", "colour=red"},
			wantErr: "colour",
		},
		{
			name:    "unknown kind",
			args:    []string{"pipelines"},
			wantErr: "invalid resource",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv, _ := setupBackend(t, "")
			seedItems(srv)

			out, err := execute(t, NewListCommand(), tt.args...)
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}
			require.NoError(t, err)
			for _, want := range tt.contains {
				assert.Contains(t, out, want)
			}
			for _, unwanted := range tt.excludes {
				assert.NotContains(t, out, unwanted)
			}
		})
	}
}

func TestListCommand_JSON(t *testing.T) {
	srv, _ := setupBackend(t, "")
	seedItems(srv)

	cmd := NewListCommand()
	cmd.Flags().StringP("output", "o", "", "")
	out, err := execute(t, cmd, "items", "--search", "category:electronics", "-o", "json")
	require.NoError(t, err)

	var result struct {
		Kind  string `json:"kind"`
		Count int    `json:"count"`
		Total int    `json:"total"`
		Items []struct {
			ID string `json:"_id"`
		} `json:"items"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &result))
	assert.Equal(t, "items", result.Kind)
	assert.Equal(t, 2, result.Count)
	assert.Equal(t, 3, result.Total)
	assert.Len(t, result.Items, 2)
}

func TestListCommand_SessionExpired(t *testing.T) {
	srv, _ := setupBackend(t, "")
	seedItems(srv)
	t.Setenv("MARKETDESK_SESSION_TOKEN", "stale")

	_, err := execute(t, NewListCommand(), "items")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Failed to load items")
}

func TestShowCommand(t *testing.T) {
	srv, _ := setupBackend(t, "")
	srv.Seed("blogs", map[string]any{
		"_id":     "b1",
		"title":   "Moving checklist",
		"author":  "Team",
		"content": "<p>Start with the <strong>kitchen</strong>.</p>",
	})

	out, err := execute(t, NewShowCommand(), "blogs", "b1")
	require.NoError(t, err)
	assert.Contains(t, out, "Moving checklist")
	assert.Contains(t, out, "Start with the kitchen.")
	assert.NotContains(t, out, "<strong>")

	_, err = execute(t, NewShowCommand(), "blogs", "missing")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Failed to load blog")

	_, err = execute(t, NewShowCommand(), "blogs", "../users")
	require.Error(t, err)
}

func TestDeleteCommand(t *testing.T) {
	tests := []struct {
		name        string
		input       string
		args        []string
		wantDeleted bool
		message     string
	}{
		{
			name:        "confirmed",
			input:       "y\n",
			args:        []string{"items", "i1"},
			wantDeleted: true,
			message:     `Item "Phone" deleted successfully`,
		},
		{
			name:    "declined",
			input:   "n\n",
			args:    []string{"items", "i1"},
			message: "Deletion cancelled",
		},
		{
			name:        "forced",
			args:        []string{"items", "i1", "--force"},
			wantDeleted: true,
			message:     "deleted successfully",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv, messages := setupBackend(t, tt.input)
			seedItems(srv)

			_, err := execute(t, NewDeleteCommand(), tt.args...)
			require.NoError(t, err)
			assert.Contains(t, messages.String(), tt.message)

			remaining := len(srv.Records("items"))
			if tt.wantDeleted {
				assert.Equal(t, 2, remaining)
			} else {
				assert.Equal(t, 3, remaining)
			}
		})
	}
}

func TestDeleteCommand_BackendFailure(t *testing.T) {
	srv, _ := setupBackend(t, "")
	seedItems(srv)
	srv.Respond("DELETE", "/items/i1", 500, `{"message":"database offline"}`)

	_, err := execute(t, NewDeleteCommand(), "items", "i1", "--force")
	require.Error(t, err)
	assert.Len(t, srv.Records("items"), 3)
}

func TestEditCommand_Set(t *testing.T) {
	srv, messages := setupBackend(t, "")
	seedItems(srv)

	_, err := execute(t, NewEditCommand(), "items", "i1", "--set", "price=4500", "--set", "isAvailable=false")
	require.NoError(t, err)
	assert.Contains(t, messages.String(), "Item updated successfully")

	rec := srv.Records("items")[0]
	assert.EqualValues(t, 4500, rec["price"])
	assert.Equal(t, false, rec["isAvailable"])
	assert.Equal(t, "Phone", rec["title"])
}

func TestEditCommand_InvalidChoice(t *testing.T) {
	srv, _ := setupBackend(t, "")
	seedItems(srv)

	_, err := execute(t, NewEditCommand(), "items", "i1", "--set", "condition=broken")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid")
	assert.Zero(t, srv.CountRequests("PUT", "/items/i1"))
}

func TestEditCommand_Editor(t *testing.T) {
	srv, messages := setupBackend(t, "")
	seedItems(srv)

	oldEdit := editContent
	t.Cleanup(func() { editContent = oldEdit })

	var shown string
	editContent = func(pattern, content string) (string, error) {
		shown = content
		return strings.Replace(content, `brand: ""`, `brand: "Acme"`, 1), nil
	}

	_, err := execute(t, NewEditCommand(), "items", "i1")
	require.NoError(t, err)
	assert.Contains(t, shown, "title:")
	assert.Contains(t, shown, "one of: new, like-new, good, fair, poor")
	assert.Contains(t, messages.String(), "Item updated successfully")
	assert.Equal(t, "Acme", srv.Records("items")[0]["brand"])
}

func TestEditCommand_EditorUnchanged(t *testing.T) {
	srv, messages := setupBackend(t, "")
	seedItems(srv)

	oldEdit := editContent
	t.Cleanup(func() { editContent = oldEdit })
	editContent = func(pattern, content string) (string, error) { return content, nil }

	_, err := execute(t, NewEditCommand(), "items", "i1")
	require.NoError(t, err)
	assert.Contains(t, messages.String(), "No changes made")
	assert.Zero(t, srv.CountRequests("PUT", "/items/i1"))
}

func TestCreateCommand(t *testing.T) {
	srv, messages := setupBackend(t, "")

	_, err := execute(t, NewCreateCommand(), "blogs",
		"--set", "title=Moving checklist",
		"--set", "author=Team",
		"--set", "description=What to pack first",
		"--set", "content=<p>Start with the kitchen.</p>",
	)
	require.NoError(t, err)
	assert.Contains(t, messages.String(), "Blog created successfully")

	blogs := srv.Records("blogs")
	require.Len(t, blogs, 1)
	assert.Equal(t, "Moving checklist", blogs[0]["title"])
}

func TestCreateCommand_Errors(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		wantErr string
	}{
		{
			name:    "missing required fields",
			args:    []string{"blogs", "--set", "title=Only a title"},
			wantErr: "required",
		},
		{
			name:    "kind is not creatable",
			args:    []string{"users", "--set", "name=Asha"},
			wantErr: "cannot be created",
		},
		{
			name:    "missing local image",
			args:    []string{"blogs", "--set", "title=T", "--set", "author=A", "--set", "description=D", "--set", "content=C", "--set", "imageUrl=./no-such-cover.png"},
			wantErr: "does not exist",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv, _ := setupBackend(t, "")

			_, err := execute(t, NewCreateCommand(), tt.args...)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
			assert.Empty(t, srv.Records("blogs"))
		})
	}
}

func TestPurgeCommand(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		kind      string
		wantErr   string
		remaining int
		message   string
	}{
		{name: "typed phrase", input: "DELETE ALL ITEMS\n", kind: "items", remaining: 0, message: "Deleted 3 items"},
		{name: "wrong phrase", input: "yes\n", kind: "items", remaining: 3, message: "Purge cancelled"},
		{name: "blogs are not purgeable", kind: "blogs", wantErr: "cannot be deleted in bulk", remaining: 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv, messages := setupBackend(t, tt.input)
			seedItems(srv)

			_, err := execute(t, NewPurgeCommand(), tt.kind)
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
			} else {
				require.NoError(t, err)
				assert.Contains(t, messages.String(), tt.message)
			}
			assert.Len(t, srv.Records("items"), tt.remaining)
		})
	}
}

func TestStatsCommand(t *testing.T) {
	srv, _ := setupBackend(t, "")
	seedItems(srv)
	srv.Seed("users", map[string]any{"name": "Asha"}, map[string]any{"name": "Ravi"})

	out, err := execute(t, NewStatsCommand())
	require.NoError(t, err)
	assert.Regexp(t, `Users\s+2`, out)
	assert.Regexp(t, `Items\s+3`, out)
	assert.Regexp(t, `Properties\s+0`, out)
}

func TestProfileCommand(t *testing.T) {
	srv, messages := setupBackend(t, "")
	me := map[string]any{"_id": "a1", "name": "Root", "email": "root@example.com", "phoneNumber": "111"}
	srv.SetMe(me)
	srv.Seed("admin", map[string]any{"_id": "a1", "name": "Root", "email": "root@example.com", "phoneNumber": "111"})

	out, err := execute(t, NewProfileCommand())
	require.NoError(t, err)
	assert.Contains(t, out, "root@example.com")

	_, err = execute(t, NewProfileCommand(), "--email", "ops@example.com")
	require.NoError(t, err)
	assert.Contains(t, messages.String(), "Profile updated successfully")

	admins := srv.Records("admin")
	assert.Equal(t, "ops@example.com", admins[0]["email"])
	assert.Equal(t, "Root", admins[0]["name"])

	cmd := NewProfileCommand()
	cmd.Flags().StringP("output", "o", "", "")
	out, err = execute(t, cmd, "--name", "Ops Lead", "-o", "json")
	require.NoError(t, err)
	var printed struct {
		ID    string `json:"_id"`
		Name  string `json:"name"`
		Email string `json:"email"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &printed))
	assert.Equal(t, "a1", printed.ID)
	assert.Equal(t, "Ops Lead", printed.Name, "prints the record the backend returned")
	assert.Equal(t, "ops@example.com", printed.Email)

	_, err = execute(t, NewProfileCommand(), "--name", " ")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Name")
}

func TestSearchCommand(t *testing.T) {
	srv, _ := setupBackend(t, "")
	seedItems(srv)
	srv.Seed("properties", map[string]any{"_id": "p1", "title": "Pune villa", "propertyType": "villa", "city": "Pune"})
	srv.Seed("users", map[string]any{"_id": "u1", "name": "Asha", "address": "Mumbai"})

	out, err := execute(t, NewSearchCommand(), "pune")
	require.NoError(t, err)
	assert.Contains(t, out, "Found 3 results for: pune")
	assert.Contains(t, out, "Pune villa")
	assert.NotContains(t, out, "Asha")

	out, err = execute(t, NewSearchCommand(), "mumbai", "--kind", "users")
	require.NoError(t, err)
	assert.Contains(t, out, "Asha")
	assert.NotContains(t, out, "Laptop")
}

func TestClipboardCommand(t *testing.T) {
	srv, messages := setupBackend(t, "")
	seedItems(srv)

	old := writeClipboard
	t.Cleanup(func() { writeClipboard = old })

	var copied string
	writeClipboard = func(s string) error {
		copied = s
		return nil
	}

	_, err := execute(t, NewClipboardCommand(), "items", "i1")
	require.NoError(t, err)
	assert.Contains(t, copied, "title: Phone")
	assert.Contains(t, messages.String(), "copied to clipboard")

	_, err = execute(t, NewClipboardCommand(), "items", "i1", "--id")
	require.NoError(t, err)
	assert.Equal(t, "i1", copied)

	writeClipboard = func(string) error { return errors.New("no display") }
	_, err = execute(t, NewClipboardCommand(), "items", "i1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to copy to clipboard")
}

func TestExportCommand(t *testing.T) {
	srv, messages := setupBackend(t, "")
	seedItems(srv)

	oldNow := exportNow
	t.Cleanup(func() { exportNow = oldNow })
	exportNow = func() time.Time { return time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC) }

	_, err := execute(t, NewExportCommand(), "items", "--search", "category:electronics")
	require.NoError(t, err)

	path := filepath.Join(files.ConfigDir, files.ExportsDirName, "items-20260102-030405.yaml")
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "title: Phone")
	assert.Contains(t, string(data), "title: Laptop")
	assert.NotContains(t, string(data), "Sofa")
	assert.Contains(t, messages.String(), "Exported 2 items")

	target := filepath.Join(t.TempDir(), "items.yaml")
	_, err = execute(t, NewExportCommand(), "items", "--file", target)
	require.NoError(t, err)
	assert.FileExists(t, target)

	out, err := execute(t, NewExportCommand(), "items", "--stdout")
	require.NoError(t, err)
	assert.Contains(t, out, "title: Sofa")
}

func TestSearchCommand_AcrossKinds(t *testing.T) {
	tests := []struct {
		name      string
		args      []string
		contains  []string
		excludes  []string
		itemsGets int
	}{
		{
			name:      "free text across kinds",
			args:      []string{"pune"},
			contains:  []string{"Found 3 results", "Phone", "Sofa", "Asha"},
			excludes:  []string{"Laptop", "Ravi"},
			itemsGets: 1,
		},
		{
			name:      "filter skips kinds without it",
			args:      []string{"status:inactive"},
			contains:  []string{"Found 2 results", "Ravi", "Root"},
			excludes:  []string{"Phone", "Asha"},
			itemsGets: 0,
		},
		{
			name:      "kind flag",
			args:      []string{"pune", "--kind", "users"},
			contains:  []string{"Found 1 results", "Asha"},
			excludes:  []string{"Phone"},
			itemsGets: 0,
		},
		{
			name:      "no matches",
			args:      []string{"tractor"},
			contains:  []string{"No results found for: tractor"},
			itemsGets: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv, _ := setupBackend(t, "")
			seedItems(srv)
			srv.Seed("users",
				map[string]any{"_id": "u1", "name": "Asha", "address": "Pune", "status": "active"},
				map[string]any{"_id": "u2", "name": "Ravi", "address": "Delhi", "status": "inactive"},
			)
			srv.Seed("admin", map[string]any{"_id": "a1", "name": "Root", "email": "root@example.com", "status": "inactive"})

			out, err := execute(t, NewSearchCommand(), tt.args...)
			require.NoError(t, err)
			for _, want := range tt.contains {
				assert.Contains(t, out, want)
			}
			for _, unwanted := range tt.excludes {
				assert.NotContains(t, out, unwanted)
			}
			assert.Equal(t, tt.itemsGets, srv.CountRequests("GET", "/items"))
		})
	}
}

func TestFormDocument_RoundTrip(t *testing.T) {
	before := map[string]string{"title": "Phone", "price": "5000", "brand": ""}
	after, err := parseFormDocument("# comment\ntitle: \"Phone\"\nprice: 4500\nbrand: \"\"\n")
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"price": "4500"}, changedValues(before, after))

	_, err = parseFormDocument("title: [unclosed")
	assert.Error(t, err)
}

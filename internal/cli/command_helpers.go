package cli

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"os/exec"
	"strings"

	"github.com/marketdesk/marketdesk-terminal/internal/config"
	"github.com/marketdesk/marketdesk-terminal/pkg/api"
	"github.com/marketdesk/marketdesk-terminal/pkg/files"
	"github.com/marketdesk/marketdesk-terminal/pkg/models"
	"github.com/marketdesk/marketdesk-terminal/pkg/resource"
	"github.com/marketdesk/marketdesk-terminal/pkg/upload"
)

// UserAgent is sent with every request
var UserAgent = "marketdesk-terminal"

// CommandContext builds the collaborators a command needs from the
// environment and the settings file
type CommandContext struct {
	Config   config.Config
	Settings *models.Settings
	// Logger receives request diagnostics. When nil, the configured log
	// file is opened on first use.
	Logger *log.Logger

	client  *api.Client
	uploads upload.Store
	closers []func() error
}

// NewCommandContext loads configuration. apiURL, when set, overrides
// MARKETDESK_API_URL.
func NewCommandContext(apiURL string) (*CommandContext, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	if apiURL != "" {
		cfg.APIURL = apiURL
		if err := cfg.Validate(); err != nil {
			return nil, err
		}
	}

	c := &CommandContext{Config: cfg}
	c.LoadSettingsWithDefault()
	return c, nil
}

// logger returns Logger, opening the configured log file when the caller
// has not installed one
func (c *CommandContext) logger() (*log.Logger, error) {
	if c.Logger != nil {
		return c.Logger, nil
	}
	logger, closeLog, err := OpenLogger(c.Config.LogFile)
	if err != nil {
		return nil, err
	}
	c.Logger = logger
	c.closers = append(c.closers, closeLog)
	return logger, nil
}

// LoadSettingsWithDefault loads settings or returns default if error
func (c *CommandContext) LoadSettingsWithDefault() *models.Settings {
	if c.Settings != nil {
		return c.Settings
	}

	settings, err := files.ReadSettings()
	if err != nil {
		settings = models.DefaultSettings()
	}

	c.Settings = settings
	return settings
}

// Client returns the shared API client
func (c *CommandContext) Client() (*api.Client, error) {
	if c.client != nil {
		return c.client, nil
	}
	logger, err := c.logger()
	if err != nil {
		return nil, err
	}
	client, err := api.New(c.Config.API(UserAgent), api.WithLogger(logger))
	if err != nil {
		return nil, err
	}
	c.client = client
	return client, nil
}

// Uploads connects the image store on first use. Without configuration it
// returns a store that rejects local files.
func (c *CommandContext) Uploads(ctx context.Context) (upload.Store, error) {
	if c.uploads != nil {
		return c.uploads, nil
	}
	if !c.Config.UploadsEnabled() {
		c.uploads = upload.Disabled{}
		return c.uploads, nil
	}

	store, err := upload.Connect(ctx, c.Config.GridFS())
	if err != nil {
		return nil, fmt.Errorf("failed to connect image store: %w", err)
	}
	c.closers = append(c.closers, func() error { return store.Close(context.Background()) })
	c.uploads = store
	return store, nil
}

// Timing returns notice timings from settings
func (c *CommandContext) Timing() resource.Timing {
	t := resource.DefaultTiming()
	if s := c.LoadSettingsWithDefault(); s != nil {
		if s.Notices.ClearAfter > 0 {
			t.ClearAfter = s.Notices.ClearAfter
		}
		if s.Notices.RedirectAfter > 0 {
			t.RedirectAfter = s.Notices.RedirectAfter
		}
	}
	return t
}

// OutputFormat returns flagValue, or the configured default when empty
func (c *CommandContext) OutputFormat(flagValue string) (string, error) {
	format := flagValue
	if format == "" {
		format = c.LoadSettingsWithDefault().Output.Format
	}
	if format == "" {
		format = string(FormatText)
	}
	if err := ValidateOutputFormat(format); err != nil {
		return "", err
	}
	return format, nil
}

// Close releases the log file and any store connection
func (c *CommandContext) Close() error {
	var first error
	for i := len(c.closers) - 1; i >= 0; i-- {
		if err := c.closers[i](); err != nil && first == nil {
			first = err
		}
	}
	c.closers = nil
	return first
}

// OpenLogger opens path for appending diagnostics. An empty path discards
// them.
func OpenLogger(path string) (*log.Logger, func() error, error) {
	if path == "" {
		return log.New(io.Discard, "", 0), func() error { return nil }, nil
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open log file: %w", err)
	}
	return log.New(f, "marketdesk ", log.LstdFlags), f.Close, nil
}

// EditorLauncher handles all editor-related operations
type EditorLauncher struct {
	DefaultEditor string
}

// NewEditorLauncher creates a new editor launcher
func NewEditorLauncher() *EditorLauncher {
	editor := os.Getenv("EDITOR")
	if editor == "" {
		editor = "vi"
	}
	return &EditorLauncher{
		DefaultEditor: editor,
	}
}

// OpenFile opens a file in the configured editor
func (e *EditorLauncher) OpenFile(path string) error {
	parts := strings.Fields(e.DefaultEditor)
	if len(parts) == 0 {
		return fmt.Errorf("no editor configured")
	}

	editorCmd := exec.Command(parts[0], append(parts[1:], path)...)
	editorCmd.Stdin = os.Stdin
	editorCmd.Stdout = os.Stdout
	editorCmd.Stderr = os.Stderr

	if err := editorCmd.Run(); err != nil {
		return fmt.Errorf("failed to open editor: %w", err)
	}
	return nil
}

// EditContent writes content to a temp file, opens it and returns what the
// editor left behind
func (e *EditorLauncher) EditContent(pattern, content string) (string, error) {
	tmpFile, err := os.CreateTemp("", pattern)
	if err != nil {
		return "", fmt.Errorf("failed to create temp file: %w", err)
	}
	path := tmpFile.Name()
	defer os.Remove(path)

	if _, err := tmpFile.WriteString(content); err != nil {
		tmpFile.Close()
		return "", fmt.Errorf("failed to write to temp file: %w", err)
	}
	if err := tmpFile.Close(); err != nil {
		return "", fmt.Errorf("failed to write to temp file: %w", err)
	}

	if err := e.OpenFile(path); err != nil {
		return "", err
	}

	edited, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read edited file: %w", err)
	}
	return string(edited), nil
}

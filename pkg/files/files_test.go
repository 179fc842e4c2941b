package files

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/marketdesk/marketdesk-terminal/pkg/models"
)

func withTempConfigDir(t *testing.T) string {
	t.Helper()
	dir := filepath.Join(t.TempDir(), ConfigDirName)
	old := ConfigDir
	ConfigDir = dir
	t.Cleanup(func() { ConfigDir = old })
	return dir
}

func TestInitConfigStructure(t *testing.T) {
	dir := withTempConfigDir(t)

	created, err := InitConfigStructure()
	require.NoError(t, err)
	assert.True(t, created)
	assert.DirExists(t, filepath.Join(dir, ExportsDirName))
	assert.FileExists(t, filepath.Join(dir, SettingsFileName))

	// Second run keeps the existing file
	created, err = InitConfigStructure()
	require.NoError(t, err)
	assert.False(t, created)
}

func TestReadSettings(t *testing.T) {
	tests := []struct {
		name    string
		content string
		check   func(t *testing.T, s *models.Settings)
		wantErr bool
	}{
		{
			name: "missing file returns defaults",
			check: func(t *testing.T, s *models.Settings) {
				assert.Equal(t, models.DefaultSettings(), s)
			},
		},
		{
			name:    "partial file keeps defaults for the rest",
			content: "output:\n  format: json\n",
			check: func(t *testing.T, s *models.Settings) {
				assert.Equal(t, "json", s.Output.Format)
				assert.True(t, s.UI.ConfirmDeletes)
				assert.Equal(t, 3*time.Second, s.Notices.ClearAfter)
			},
		},
		{
			name:    "invalid yaml",
			content: "output: [",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := withTempConfigDir(t)
			if tt.content != "" {
				require.NoError(t, os.MkdirAll(dir, 0755))
				require.NoError(t, os.WriteFile(filepath.Join(dir, SettingsFileName), []byte(tt.content), 0644))
			}

			settings, err := ReadSettings()
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			tt.check(t, settings)
		})
	}
}

func TestWriteSettingsRoundTrip(t *testing.T) {
	withTempConfigDir(t)

	settings := models.DefaultSettings()
	settings.Output.Format = "yaml"
	settings.Notices.ClearAfter = 5 * time.Second
	require.NoError(t, WriteSettings(settings))

	loaded, err := ReadSettings()
	require.NoError(t, err)
	assert.Equal(t, settings, loaded)
}

func TestWriteExport(t *testing.T) {
	dir := withTempConfigDir(t)

	path, err := WriteExport("items.yaml", []byte("- id: a\n"))
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, ExportsDirName, "items.yaml"), path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "- id: a\n", string(data))
}

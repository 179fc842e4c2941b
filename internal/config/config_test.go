package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"MARKETDESK_API_URL", "MARKETDESK_SESSION_COOKIE", "MARKETDESK_SESSION_TOKEN",
		"MARKETDESK_HTTP_TIMEOUT", "MARKETDESK_LOG_FILE", "MARKETDESK_UPLOAD_MONGO_URI",
	} {
		t.Setenv(key, "")
		os.Unsetenv(key)
	}
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load(filepath.Join(t.TempDir(), "missing.env"))
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:5000/api", cfg.APIURL)
	assert.Equal(t, "adminToken", cfg.SessionCookie)
	assert.Empty(t, cfg.SessionToken)
	assert.Zero(t, cfg.HTTPTimeout)
	assert.False(t, cfg.UploadsEnabled())
	assert.Equal(t, "images", cfg.GridFS().Bucket)
}

func TestLoadFromEnvAndDotenv(t *testing.T) {
	clearEnv(t)

	dotenv := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(dotenv, []byte(
		"MARKETDESK_SESSION_TOKEN=from-file\nMARKETDESK_API_URL=https://file.example.com/api\n",
	), 0o600))
	t.Setenv("MARKETDESK_API_URL", "https://api.example.com/api")
	t.Setenv("MARKETDESK_HTTP_TIMEOUT", "15s")
	t.Setenv("MARKETDESK_UPLOAD_MONGO_URI", "mongodb://localhost:27017")

	cfg, err := Load(dotenv)
	require.NoError(t, err)
	assert.Equal(t, "https://api.example.com/api", cfg.APIURL, "environment wins over .env")
	assert.Equal(t, "from-file", cfg.SessionToken)
	assert.Equal(t, 15*time.Second, cfg.HTTPTimeout)
	assert.True(t, cfg.UploadsEnabled())

	apiCfg := cfg.API("marketdesk/test")
	assert.Equal(t, "from-file", apiCfg.SessionToken)
	assert.Equal(t, "marketdesk/test", apiCfg.UserAgent)
	assert.Equal(t, 15*time.Second, apiCfg.Timeout)
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name string
		key  string
		val  string
		want string
	}{
		{name: "bad duration", key: "MARKETDESK_HTTP_TIMEOUT", val: "soon", want: "parse env:"},
		{name: "relative url", key: "MARKETDESK_API_URL", val: "localhost/api", want: "not an absolute URL"},
		{name: "negative timeout", key: "MARKETDESK_HTTP_TIMEOUT", val: "-1s", want: "must not be negative"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			t.Setenv(tt.key, tt.val)

			_, err := Load(filepath.Join(t.TempDir(), "missing.env"))
			require.Error(t, err)
			assert.True(t, strings.Contains(err.Error(), tt.want), err.Error())
		})
	}
}

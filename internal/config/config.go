// Package config reads runtime configuration from the environment and an
// optional .env file.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"

	"github.com/marketdesk/marketdesk-terminal/pkg/api"
	"github.com/marketdesk/marketdesk-terminal/pkg/upload"
)

// Config is everything the console needs to reach the backend
type Config struct {
	APIURL        string        `env:"MARKETDESK_API_URL" envDefault:"http://localhost:5000/api"`
	SessionCookie string        `env:"MARKETDESK_SESSION_COOKIE" envDefault:"adminToken"`
	SessionToken  string        `env:"MARKETDESK_SESSION_TOKEN"`
	HTTPTimeout   time.Duration `env:"MARKETDESK_HTTP_TIMEOUT"`
	LogFile       string        `env:"MARKETDESK_LOG_FILE"`

	Upload UploadConfig
}

// UploadConfig locates the image object store. An empty MongoURI disables
// uploads.
type UploadConfig struct {
	MongoURI  string `env:"MARKETDESK_UPLOAD_MONGO_URI"`
	Database  string `env:"MARKETDESK_UPLOAD_DATABASE" envDefault:"marketplace"`
	Bucket    string `env:"MARKETDESK_UPLOAD_BUCKET" envDefault:"images"`
	PublicURL string `env:"MARKETDESK_UPLOAD_PUBLIC_URL" envDefault:"http://localhost:5000/api/images"`
}

// ParseEnv parses environment variables into target
func ParseEnv(target any) error {
	if err := env.Parse(target); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

// Load reads .env files (when present) and then the environment. Variables
// already set in the environment win over .env values.
func Load(envFiles ...string) (Config, error) {
	if err := godotenv.Load(envFiles...); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("load .env: %w", err)
	}

	var cfg Config
	if err := ParseEnv(&cfg); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks values env parsing cannot
func (c Config) Validate() error {
	u, err := url.Parse(c.APIURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("MARKETDESK_API_URL %q is not an absolute URL", c.APIURL)
	}
	if c.HTTPTimeout < 0 {
		return fmt.Errorf("MARKETDESK_HTTP_TIMEOUT must not be negative")
	}
	return nil
}

// API returns the client configuration
func (c Config) API(userAgent string) api.Config {
	return api.Config{
		BaseURL:       c.APIURL,
		SessionCookie: c.SessionCookie,
		SessionToken:  c.SessionToken,
		UserAgent:     userAgent,
		Timeout:       c.HTTPTimeout,
	}
}

// UploadsEnabled reports whether an object store is configured
func (c Config) UploadsEnabled() bool {
	return c.Upload.MongoURI != ""
}

// GridFS returns the object store configuration
func (c Config) GridFS() upload.GridFSConfig {
	return upload.GridFSConfig{
		URI:       c.Upload.MongoURI,
		Database:  c.Upload.Database,
		Bucket:    c.Upload.Bucket,
		PublicURL: c.Upload.PublicURL,
	}
}

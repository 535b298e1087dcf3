// Package config loads mailtriage settings from defaults, an optional TOML
// file, and MT_* environment variables, in that order of precedence.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/daviddao/mailtriage/internal/api"
	"github.com/daviddao/mailtriage/internal/db"
)

type APIConfig struct {
	BaseURL string   `toml:"base_url"`
	Timeout Duration `toml:"timeout"`
	Token   string   `toml:"token"`
}

type StorageConfig struct {
	DBPath string `toml:"db_path"`
}

type GmailConfig struct {
	Credentials string `toml:"credentials"` // path to credentials.json; token.json sits next to it
}

type Config struct {
	API     APIConfig     `toml:"api"`
	Storage StorageConfig `toml:"storage"`
	Gmail   GmailConfig   `toml:"gmail"`
}

// Duration is a time.Duration that decodes from a TOML string like "10s".
type Duration struct {
	time.Duration
}

func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

// DefaultPath returns <user config dir>/mailtriage/config.toml.
func DefaultPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "mailtriage", "config.toml")
}

// Default returns the built-in configuration.
func Default() *Config {
	cfg := &Config{}
	cfg.API.BaseURL = api.DefaultBaseURL
	cfg.API.Timeout = Duration{api.DefaultTimeout}
	cfg.Storage.DBPath = db.DefaultPath()
	return cfg
}

// Load builds the configuration. A missing file at path is not an error;
// an empty path selects DefaultPath.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path == "" {
		path = DefaultPath()
	}
	if path != "" {
		if _, err := toml.DecodeFile(path, cfg); err != nil && !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	}

	if v := os.Getenv("MT_API_BASE_URL"); v != "" {
		cfg.API.BaseURL = v
	}
	if v := os.Getenv("MT_API_TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return nil, fmt.Errorf("MT_API_TIMEOUT: %w", err)
		}
		cfg.API.Timeout = Duration{d}
	}
	if v := os.Getenv("MT_API_TOKEN"); v != "" {
		cfg.API.Token = v
	}
	if v := os.Getenv("MT_DB_PATH"); v != "" {
		cfg.Storage.DBPath = v
	}
	if v := os.Getenv("MT_GMAIL_CREDENTIALS"); v != "" {
		cfg.Gmail.Credentials = v
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the API and storage settings.
func (c *Config) Validate() error {
	u, err := url.Parse(c.API.BaseURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("api base_url must be an absolute http(s) URL, got %q", c.API.BaseURL)
	}
	c.API.BaseURL = strings.TrimRight(c.API.BaseURL, "/")
	if c.API.Timeout.Duration <= 0 {
		return fmt.Errorf("api timeout must be positive, got %s", c.API.Timeout)
	}
	if c.Storage.DBPath == "" {
		return errors.New("storage db_path is required (could not determine user config directory)")
	}
	return nil
}

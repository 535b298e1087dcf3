package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	for _, k := range []string{"MT_API_BASE_URL", "MT_API_TIMEOUT", "MT_API_TOKEN", "MT_DB_PATH", "MT_GMAIL_CREDENTIALS"} {
		t.Setenv(k, "")
	}
}

func TestLoadDefaultsWhenFileMissing(t *testing.T) {
	clearEnv(t)
	t.Setenv("MT_DB_PATH", filepath.Join(t.TempDir(), "state.db"))

	cfg, err := Load(filepath.Join(t.TempDir(), "nope.toml"))
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:8000/api/v1", cfg.API.BaseURL)
	assert.Equal(t, 10*time.Second, cfg.API.Timeout.Duration)
	assert.Empty(t, cfg.API.Token)
}

func TestLoadFileThenEnv(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(`
[api]
base_url = "https://triage.example.com/api/v1/"
timeout = "3s"
token = "file-token"

[storage]
db_path = "/tmp/mt/state.db"

[gmail]
credentials = "/tmp/creds/credentials.json"
`), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "https://triage.example.com/api/v1", cfg.API.BaseURL)
	assert.Equal(t, 3*time.Second, cfg.API.Timeout.Duration)
	assert.Equal(t, "file-token", cfg.API.Token)
	assert.Equal(t, "/tmp/mt/state.db", cfg.Storage.DBPath)
	assert.Equal(t, "/tmp/creds/credentials.json", cfg.Gmail.Credentials)

	t.Setenv("MT_API_BASE_URL", "http://other:9000/api")
	t.Setenv("MT_API_TIMEOUT", "250ms")
	t.Setenv("MT_API_TOKEN", "env-token")
	cfg, err = Load(path)
	require.NoError(t, err)
	assert.Equal(t, "http://other:9000/api", cfg.API.BaseURL)
	assert.Equal(t, 250*time.Millisecond, cfg.API.Timeout.Duration)
	assert.Equal(t, "env-token", cfg.API.Token)
}

func TestLoadRejectsBadValues(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	t.Setenv("MT_DB_PATH", filepath.Join(dir, "state.db"))
	missing := filepath.Join(dir, "missing.toml")

	t.Setenv("MT_API_TIMEOUT", "soon")
	_, err := Load(missing)
	assert.Error(t, err)

	t.Setenv("MT_API_TIMEOUT", "-1s")
	_, err = Load(missing)
	assert.Error(t, err)

	t.Setenv("MT_API_TIMEOUT", "")
	t.Setenv("MT_API_BASE_URL", "localhost:8000")
	_, err = Load(missing)
	assert.Error(t, err)

	bad := filepath.Join(dir, "bad.toml")
	require.NoError(t, os.WriteFile(bad, []byte("[api\nbase_url = 1"), 0o600))
	t.Setenv("MT_API_BASE_URL", "")
	_, err = Load(bad)
	assert.Error(t, err)
}

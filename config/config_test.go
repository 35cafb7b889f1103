package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"unifeed/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	cfg := config.Default()

	assert.Equal(t, 8001, cfg.Port)
	assert.Equal(t, "unifeed.db", cfg.Database)
	assert.Equal(t, 10, cfg.CacheTTLMinutes)
	assert.Equal(t, "https://rsshub.app", cfg.RSSHubBase)
	assert.Equal(t, 30, cfg.FetchTimeoutSeconds)
	assert.Equal(t, 2, cfg.FetchRetries)
}

func TestLoadOverlaysDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "unifeed.toml")
	content := `port = 9000
database = "/tmp/feeds.db"
cache_ttl_minutes = 5
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	cfg, err := config.Load(path)
	require.NoError(t, err)

	assert.Equal(t, 9000, cfg.Port)
	assert.Equal(t, "/tmp/feeds.db", cfg.Database)
	assert.Equal(t, 5, cfg.CacheTTLMinutes)

	// Values absent from the file keep their defaults
	assert.Equal(t, "https://rsshub.app", cfg.RSSHubBase)
	assert.Equal(t, 30, cfg.FetchTimeoutSeconds)
	assert.Equal(t, 2, cfg.FetchRetries)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := config.Load(filepath.Join(t.TempDir(), "missing.toml"))
	assert.Error(t, err)
}

func TestLoadInvalidTOML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "unifeed.toml")
	require.NoError(t, os.WriteFile(path, []byte("port = [not valid"), 0644))

	_, err := config.Load(path)
	assert.Error(t, err)
}

func TestConnectorOptions(t *testing.T) {
	cfg := config.Config{
		RSSHubBase:          "http://localhost:1200",
		FetchTimeoutSeconds: 10,
		FetchRetries:        3,
	}

	opts := cfg.ConnectorOptions()
	assert.Equal(t, "http://localhost:1200", opts.RSSHubBase)
	assert.Equal(t, 10*time.Second, opts.Timeout)
	assert.Equal(t, uint64(3), opts.Retries)
}

func TestCacheTTL(t *testing.T) {
	cfg := config.Config{CacheTTLMinutes: 15}
	assert.Equal(t, 15*time.Minute, cfg.CacheTTL())
}

package config

import (
	"fmt"
	"os"
	"time"

	"unifeed/connectors"
	"unifeed/db"

	"github.com/BurntSushi/toml"
)

// Config is the optional TOML server configuration. Every field has a
// working default; CLI flags override individual values.
type Config struct {
	Port                int    `toml:"port"`
	Database            string `toml:"database"`
	CacheTTLMinutes     int    `toml:"cache_ttl_minutes"`
	RSSHubBase          string `toml:"rsshub_base"`
	FetchTimeoutSeconds int    `toml:"fetch_timeout_seconds"`
	FetchRetries        int    `toml:"fetch_retries"`
}

func Default() Config {
	return Config{
		Port:                8001,
		Database:            "unifeed.db",
		CacheTTLMinutes:     int(db.DefaultMaxAge.Minutes()),
		RSSHubBase:          connectors.DefaultRSSHubBase,
		FetchTimeoutSeconds: 30,
		FetchRetries:        2,
	}
}

// Load overlays the TOML file at path onto the defaults.
func Load(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("error reading config file: %w", err)
	}

	if err := toml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("error parsing config file: %w", err)
	}

	return cfg, nil
}

// ConnectorOptions translates the tuning values for the connector layer.
func (c Config) ConnectorOptions() connectors.Options {
	return connectors.Options{
		RSSHubBase: c.RSSHubBase,
		Timeout:    time.Duration(c.FetchTimeoutSeconds) * time.Second,
		Retries:    uint64(c.FetchRetries),
	}
}

// CacheTTL returns the freshness window as a duration.
func (c Config) CacheTTL() time.Duration {
	return time.Duration(c.CacheTTLMinutes) * time.Minute
}

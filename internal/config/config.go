// Package config loads and saves the per-root waymark configuration,
// stored as TOML at .waymark/config.toml.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// FileName is the config file inside the data root.
const FileName = "config.toml"

// Config holds per-root settings. Missing fields fall back to defaults.
type Config struct {
	// DefaultBranch overrides the branch new sessions start on.
	DefaultBranch string `toml:"default_branch,omitempty"`

	// EventLog enables the JSONL event file (events.jsonl in the root).
	EventLog bool `toml:"event_log"`

	// CacheFile is the SQLite query cache path, relative to the root.
	CacheFile string `toml:"cache_file,omitempty"`

	// DashboardPort is the WebSocket dashboard listen port.
	DashboardPort int `toml:"dashboard_port,omitempty"`

	// DebugLog is the rotating debug log path, relative to the root.
	// Empty disables it.
	DebugLog string `toml:"debug_log,omitempty"`
}

// Default returns the baseline configuration.
func Default() Config {
	return Config{
		DefaultBranch: "main",
		EventLog:      true,
		CacheFile:     "cache.db",
		DashboardPort: 8377,
		DebugLog:      "waymark.log",
	}
}

// Load reads the config from the data root. A missing file yields the
// defaults; a malformed file is an error.
func Load(root string) (Config, error) {
	cfg := Default()
	path := filepath.Join(root, FileName)
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return cfg, nil
	}
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return cfg, fmt.Errorf("invalid %s: %w", FileName, err)
	}
	if cfg.DefaultBranch == "" {
		cfg.DefaultBranch = Default().DefaultBranch
	}
	return cfg, nil
}

// Save writes the config to the data root.
func Save(root string, cfg Config) error {
	f, err := os.Create(filepath.Join(root, FileName))
	if err != nil {
		return fmt.Errorf("write %s: %w", FileName, err)
	}
	defer f.Close()
	if err := toml.NewEncoder(f).Encode(cfg); err != nil {
		return fmt.Errorf("encode %s: %w", FileName, err)
	}
	return nil
}

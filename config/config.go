// Package config loads the engine's runtime configuration from a TOML
// file via BurntSushi/toml. Configuration is ambient, not part of the
// query language itself: it controls where the sqlitekv storage
// backend keeps its file and how the executor handles foreign-key
// checks on UPDATE and cyclic foreign-key cascades.
package config

import (
	"os"

	"github.com/BurntSushi/toml"

	"github.com/SamsonMokaya/pesapal-challenge/dberr"
)

// FKCyclePolicy controls how CASCADE delete handles re-entry on the
// same (table, pk) pair.
type FKCyclePolicy string

const (
	// FKCycleDedup memoizes visited (table, pk) pairs and silently
	// stops recursing into ones already visited.
	FKCycleDedup FKCyclePolicy = "dedup"
	// FKCycleError turns re-entry into a referential error instead.
	FKCycleError FKCyclePolicy = "error"
)

// Config is the engine's top-level configuration document.
type Config struct {
	Storage StorageConfig `toml:"storage"`
	Engine  EngineConfig  `toml:"engine"`
}

// StorageConfig controls the on-disk location of the sqlitekv backend.
type StorageConfig struct {
	DataDir string `toml:"data_dir"`
}

// EngineConfig controls two optional executor behaviors.
type EngineConfig struct {
	// StrictFKOnUpdate replicates the FK RESTRICT/CASCADE scan on
	// UPDATE of a parent primary key, closing the asymmetry between
	// DELETE (always checked) and UPDATE (unchecked by default).
	StrictFKOnUpdate bool `toml:"strict_fk_on_update"`
	// FKCyclePolicy controls how cyclic FK graphs are handled during
	// CASCADE delete.
	FKCyclePolicy FKCyclePolicy `toml:"fk_cycle_policy"`
}

// Default returns the engine's default configuration: no strict FK
// check on UPDATE, cycles deduped rather than errored, data stored
// under "./data".
func Default() *Config {
	return &Config{
		Storage: StorageConfig{DataDir: "./data"},
		Engine: EngineConfig{
			StrictFKOnUpdate: false,
			FKCyclePolicy:    FKCycleDedup,
		},
	}
}

// Load reads and parses the TOML config file at path. A missing file
// is not an error: Load returns the defaults, so tests and the
// in-memory store need no config file at all.
func Load(path string) (*Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return cfg, nil
	}
	if err != nil {
		return nil, dberr.Wrap(dberr.Storage, err, "reading config file %q", path)
	}
	if _, err := toml.Decode(string(data), cfg); err != nil {
		return nil, dberr.Wrap(dberr.Storage, err, "parsing config file %q", path)
	}
	if cfg.Engine.FKCyclePolicy == "" {
		cfg.Engine.FKCyclePolicy = FKCycleDedup
	}
	if cfg.Storage.DataDir == "" {
		cfg.Storage.DataDir = "./data"
	}
	return cfg, nil
}

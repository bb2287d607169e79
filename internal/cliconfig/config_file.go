package cliconfig

import (
	"os"
	"path/filepath"

	toml "github.com/pelletier/go-toml/v2"
)

// FileConfig is the TOML shape of Config. Pointer bools distinguish
// "unset" from false.
type FileConfig struct {
	Sides       int    `toml:"sides"`
	MaxDice     int    `toml:"max_dice"`
	Seed        uint64 `toml:"seed"`
	Banner      *bool  `toml:"banner"`
	LogLevel    string `toml:"log_level"`
	Listen      string `toml:"listen"`
	HistorySize int    `toml:"history_size"`
	Watch       *bool  `toml:"watch"`
}

// LoadFileConfig reads and parses a TOML config file from the given path.
func LoadFileConfig(path string) (FileConfig, error) {
	var fc FileConfig
	b, err := os.ReadFile(path)
	if err != nil {
		return fc, err
	}
	if err := toml.Unmarshal(b, &fc); err != nil {
		return fc, err
	}
	return fc, nil
}

// DefaultConfigPath returns ~/.diceroller/config.toml, or "" when the home
// directory is unknown.
func DefaultConfigPath() string {
	if h, err := os.UserHomeDir(); err == nil {
		return filepath.Join(h, ".diceroller", "config.toml")
	}
	return ""
}

// ApplyFileConfig copies file values into cfg, skipping flags in changed.
func ApplyFileConfig(cfg *Config, fc FileConfig, changed map[string]bool) error {
	s := newConfigSetter(changed)

	s.setInt("sides", fc.Sides, &cfg.Sides)
	s.setInt("max-dice", fc.MaxDice, &cfg.MaxDice)
	s.setUint64("seed", fc.Seed, &cfg.Seed)
	s.setBool("banner", fc.Banner, &cfg.Banner)
	s.setString("log-level", fc.LogLevel, &cfg.LogLevel)

	s.setString("listen", fc.Listen, &cfg.Listen)
	s.setInt("history-size", fc.HistorySize, &cfg.HistorySize)
	s.setBool("watch", fc.Watch, &cfg.Watch)

	return nil
}

// FileExists checks if a file exists at the given path.
func FileExists(p string) bool {
	_, err := os.Stat(p)
	return err == nil
}

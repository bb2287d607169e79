package cliconfig

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/subosito/gotenv"
)

// EnvPrefix prefixes every environment variable read by ApplyEnvConfig.
const EnvPrefix = "DICEROLLER_"

// LoadDotEnv loads KEY=VALUE pairs from path into the process environment.
// Variables that are already set win. A missing file is not an error.
func LoadDotEnv(path string) error {
	if path == "" {
		return nil
	}
	if err := gotenv.Load(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("load %s: %w", path, err)
	}
	return nil
}

// ApplyEnvConfig applies DICEROLLER_* environment variables, skipping flags
// in changed.
func ApplyEnvConfig(cfg *Config, changed map[string]bool) error {
	s := newConfigSetter(changed)

	if err := s.setIntFromString("sides", os.Getenv(EnvPrefix+"SIDES"), &cfg.Sides); err != nil {
		return err
	}
	if err := s.setIntFromString("max-dice", os.Getenv(EnvPrefix+"MAX_DICE"), &cfg.MaxDice); err != nil {
		return err
	}
	if err := s.setUint64FromString("seed", os.Getenv(EnvPrefix+"SEED"), &cfg.Seed); err != nil {
		return err
	}
	s.setBoolFromString("banner", os.Getenv(EnvPrefix+"BANNER"), &cfg.Banner)
	s.setString("log-level", os.Getenv(EnvPrefix+"LOG_LEVEL"), &cfg.LogLevel)

	s.setString("listen", os.Getenv(EnvPrefix+"LISTEN"), &cfg.Listen)
	if err := s.setIntFromString("history-size", os.Getenv(EnvPrefix+"HISTORY_SIZE"), &cfg.HistorySize); err != nil {
		return err
	}
	s.setBoolFromString("watch", os.Getenv(EnvPrefix+"WATCH"), &cfg.Watch)

	return nil
}

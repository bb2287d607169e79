package cliconfig

import (
	"fmt"
	"strconv"

	"github.com/bft-labs/diceroller/pkg/dice"
	"github.com/bft-labs/diceroller/pkg/log"
)

// DefaultListen is the default address for the serve command.
const DefaultListen = ":8080"

// Config holds CLI configuration for diceroller.
type Config struct {
	Sides   int
	MaxDice int
	// Seed makes rolls reproducible. Zero means the process-wide source.
	Seed     uint64
	Banner   bool
	LogLevel string

	Listen      string
	HistorySize int
	Watch       bool
}

// DefaultConfig returns a Config with default values.
func DefaultConfig() Config {
	return Config{
		Sides:       dice.DefaultSides,
		MaxDice:     2,
		Banner:      true,
		LogLevel:    "info",
		Listen:      DefaultListen,
		HistorySize: 100,
		Watch:       true,
	}
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	if c.Sides < 1 {
		return fmt.Errorf("sides must be >= 1")
	}
	if c.MaxDice < 1 {
		return fmt.Errorf("max-dice must be >= 1")
	}
	if c.HistorySize < 1 {
		return fmt.Errorf("history-size must be >= 1")
	}
	if c.Listen == "" {
		return fmt.Errorf("listen address is required")
	}
	if _, err := log.ParseLevel(c.LogLevel); err != nil {
		return err
	}
	return nil
}

// NewRoller builds the dice roller described by the configuration.
func (c Config) NewRoller() *dice.Roller {
	opts := []dice.Option{dice.WithSides(c.Sides)}
	if c.Seed != 0 {
		opts = append(opts, dice.WithSource(dice.NewSource(c.Seed)))
	}
	return dice.New(opts...)
}

// configSetter applies values only for flags the user did not set explicitly.
type configSetter struct {
	changed map[string]bool
}

func newConfigSetter(changed map[string]bool) *configSetter {
	return &configSetter{changed: changed}
}

// setString sets a string value if not empty and flag not changed.
func (s *configSetter) setString(flag, value string, dst *string) {
	if value == "" || s.changed[flag] {
		return
	}
	*dst = value
}

// setInt sets an int value if positive and flag not changed.
func (s *configSetter) setInt(flag string, value int, dst *int) {
	if value <= 0 || s.changed[flag] {
		return
	}
	*dst = value
}

// setUint64 sets a uint64 value if non-zero and flag not changed.
func (s *configSetter) setUint64(flag string, value uint64, dst *uint64) {
	if value == 0 || s.changed[flag] {
		return
	}
	*dst = value
}

// setBool sets a bool value from a pointer if not nil and flag not changed.
func (s *configSetter) setBool(flag string, value *bool, dst *bool) {
	if value == nil || s.changed[flag] {
		return
	}
	*dst = *value
}

// setIntFromString parses an env var into dst. Non-positive values are ignored.
func (s *configSetter) setIntFromString(flag, value string, dst *int) error {
	if value == "" || s.changed[flag] {
		return nil
	}
	i, err := strconv.Atoi(value)
	if err != nil {
		return fmt.Errorf("parse %s: %w", flag, err)
	}
	if i <= 0 {
		return nil
	}
	*dst = i
	return nil
}

func (s *configSetter) setUint64FromString(flag, value string, dst *uint64) error {
	if value == "" || s.changed[flag] {
		return nil
	}
	u, err := strconv.ParseUint(value, 10, 64)
	if err != nil {
		return fmt.Errorf("parse %s: %w", flag, err)
	}
	*dst = u
	return nil
}

// setBoolFromString accepts "true" and "1" as true, anything else as false.
func (s *configSetter) setBoolFromString(flag, value string, dst *bool) {
	if value == "" || s.changed[flag] {
		return
	}
	*dst = value == "true" || value == "1"
}

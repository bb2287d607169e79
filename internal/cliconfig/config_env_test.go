package cliconfig

import (
	"os"
	"path/filepath"
	"testing"
)

func TestApplyEnvConfig(t *testing.T) {
	tests := []struct {
		name     string
		envVars  map[string]string
		changed  map[string]bool
		initial  Config
		expected Config
		wantErr  bool
	}{
		{
			name: "applies all valid env vars",
			envVars: map[string]string{
				"DICEROLLER_SIDES":        "8",
				"DICEROLLER_MAX_DICE":     "3",
				"DICEROLLER_SEED":         "11",
				"DICEROLLER_BANNER":       "1",
				"DICEROLLER_LOG_LEVEL":    "error",
				"DICEROLLER_LISTEN":       ":7000",
				"DICEROLLER_HISTORY_SIZE": "25",
				"DICEROLLER_WATCH":        "true",
			},
			changed: map[string]bool{},
			initial: Config{},
			expected: Config{
				Sides:       8,
				MaxDice:     3,
				Seed:        11,
				Banner:      true,
				LogLevel:    "error",
				Listen:      ":7000",
				HistorySize: 25,
				Watch:       true,
			},
		},
		{
			name:     "respects changed flags",
			envVars:  map[string]string{"DICEROLLER_SIDES": "8", "DICEROLLER_MAX_DICE": "3"},
			changed:  map[string]bool{"sides": true},
			initial:  Config{Sides: 20},
			expected: Config{Sides: 20, MaxDice: 3},
		},
		{
			name:     "non-true bool reads as false",
			envVars:  map[string]string{"DICEROLLER_BANNER": "no"},
			changed:  map[string]bool{},
			initial:  Config{Banner: true},
			expected: Config{Banner: false},
		},
		{
			name:     "non-positive int is ignored",
			envVars:  map[string]string{"DICEROLLER_SIDES": "0"},
			changed:  map[string]bool{},
			initial:  Config{Sides: 6},
			expected: Config{Sides: 6},
		},
		{
			name:    "returns error for invalid int",
			envVars: map[string]string{"DICEROLLER_SIDES": "six"},
			changed: map[string]bool{},
			wantErr: true,
		},
		{
			name:    "returns error for invalid seed",
			envVars: map[string]string{"DICEROLLER_SEED": "-1"},
			changed: map[string]bool{},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.envVars {
				t.Setenv(k, v)
			}

			cfg := tt.initial
			err := ApplyEnvConfig(&cfg, tt.changed)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ApplyEnvConfig() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				return
			}
			if cfg != tt.expected {
				t.Errorf("ApplyEnvConfig() = %+v, want %+v", cfg, tt.expected)
			}
		})
	}
}

func TestLoadDotEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".env")
	if err := os.WriteFile(path, []byte("DICEROLLER_SIDES=10\nDICEROLLER_MAX_DICE=4\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	// real environment wins over the file
	t.Setenv("DICEROLLER_MAX_DICE", "2")
	// registered so t cleans up the variable the file sets
	t.Setenv("DICEROLLER_SIDES", "")
	os.Unsetenv("DICEROLLER_SIDES")

	if err := LoadDotEnv(path); err != nil {
		t.Fatalf("LoadDotEnv() error = %v", err)
	}

	cfg := DefaultConfig()
	if err := ApplyEnvConfig(&cfg, map[string]bool{}); err != nil {
		t.Fatal(err)
	}
	if cfg.Sides != 10 {
		t.Errorf("Sides = %d, want 10", cfg.Sides)
	}
	if cfg.MaxDice != 2 {
		t.Errorf("MaxDice = %d, want 2", cfg.MaxDice)
	}
}

func TestLoadDotEnv_MissingFile(t *testing.T) {
	if err := LoadDotEnv(filepath.Join(t.TempDir(), ".env")); err != nil {
		t.Errorf("LoadDotEnv() on missing file = %v, want nil", err)
	}
	if err := LoadDotEnv(""); err != nil {
		t.Errorf("LoadDotEnv(\"\") = %v, want nil", err)
	}
}

package log

import (
	"bytes"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

func TestZerologAdapter_Fields(t *testing.T) {
	var buf bytes.Buffer
	adapter := NewZerologAdapterWithLogger(zerolog.New(&buf))

	adapter.Info("rolled",
		String("session", "abc"),
		Ints("dice", []int{3, 5}),
		Int("total", 8),
		Uint64("seq", 7),
		Bool("ok", true),
		Duration("took", time.Millisecond),
		Err(errors.New("boom")),
		Any("extra", map[string]int{"a": 1}),
	)

	out := buf.String()
	for _, want := range []string{
		`"level":"info"`,
		`"session":"abc"`,
		`"dice":[3,5]`,
		`"total":8`,
		`"seq":7`,
		`"ok":true`,
		`"error":"boom"`,
		`"extra":{"a":1}`,
		`"message":"rolled"`,
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output %s missing %s", out, want)
		}
	}
}

func TestZerologAdapter_LevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	adapter := NewZerologAdapterWithLogger(zerolog.New(&buf).Level(zerolog.WarnLevel))

	adapter.Debug("hidden")
	adapter.Info("hidden")
	adapter.Warn("shown")
	adapter.Error("shown too")

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Errorf("output contains filtered messages: %s", out)
	}
	if strings.Count(out, "shown") != 2 {
		t.Errorf("output = %s, want two visible lines", out)
	}
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in      string
		want    zerolog.Level
		wantErr bool
	}{
		{in: "", want: zerolog.InfoLevel},
		{in: "debug", want: zerolog.DebugLevel},
		{in: " WARN ", want: zerolog.WarnLevel},
		{in: "error", want: zerolog.ErrorLevel},
		{in: "loud", wantErr: true},
	}

	for _, tt := range tests {
		got, err := ParseLevel(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseLevel(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if !tt.wantErr && got != tt.want {
			t.Errorf("ParseLevel(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestNoopLogger(t *testing.T) {
	var l Logger = NewNoopLogger()
	l.Debug("x")
	l.Info("x", Int("n", 1))
	l.Warn("x")
	l.Error("x", Err(errors.New("e")))
}

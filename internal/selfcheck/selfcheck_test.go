package selfcheck

import (
	"bytes"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/bft-labs/diceroller/pkg/dice"
)

func TestRun_AllPass(t *testing.T) {
	var out bytes.Buffer
	if err := Run(&out, dice.New(dice.WithSource(dice.NewSource(5)))); err != nil {
		t.Fatalf("Run() error = %v\n%s", err, out.String())
	}
	want := "Running tests...\nAll tests passed.\n"
	if out.String() != want {
		t.Errorf("output = %q, want %q", out.String(), want)
	}
}

// stuckSource always returns n-1, so every die lands on its highest face.
type stuckSource struct{}

func (stuckSource) IntN(n int) int { return n - 1 }

func TestRun_HighestFaceStillInBounds(t *testing.T) {
	var out bytes.Buffer
	if err := Run(&out, dice.New(dice.WithSource(stuckSource{}))); err != nil {
		t.Fatalf("Run() error = %v", err)
	}
}

// brokenSource returns values past the upper bound.
type brokenSource struct{}

func (brokenSource) IntN(n int) int { return n }

func TestRun_ReportsFailure(t *testing.T) {
	var out bytes.Buffer
	err := Run(&out, dice.New(dice.WithSource(brokenSource{})))
	if err == nil {
		t.Fatal("Run() succeeded with an out-of-range source")
	}
	if !strings.Contains(err.Error(), "roll bounds") {
		t.Errorf("error = %v, want roll bounds failure", err)
	}
	if !strings.Contains(out.String(), "Test failed: roll bounds") {
		t.Errorf("output = %q", out.String())
	}
	if strings.Contains(out.String(), "All tests passed.") {
		t.Error("success line printed after failure")
	}
}

func TestRun_CustomChecksStopAtFirstFailure(t *testing.T) {
	errBoom := errors.New("boom")
	ran := 0
	checks := []Check{
		{Name: "first", Run: func(*dice.Roller) error { ran++; return nil }},
		{Name: "second", Run: func(*dice.Roller) error { ran++; return errBoom }},
		{Name: "third", Run: func(*dice.Roller) error { ran++; return nil }},
	}

	var out bytes.Buffer
	err := Run(&out, dice.New(), checks...)
	if !errors.Is(err, errBoom) {
		t.Errorf("Run() error = %v, want boom", err)
	}
	if ran != 2 {
		t.Errorf("ran %d checks, want 2", ran)
	}
}

func TestRun_FailureVersusError(t *testing.T) {
	tests := []struct {
		name     string
		check    func(*dice.Roller) error
		wantLine string
		wantErr  string
	}{
		{
			name:     "assertion",
			check:    func(*dice.Roller) error { return Failf("got %d, want %d", 7, 6) },
			wantLine: "Test failed: sample: got 7, want 6\n",
			wantErr:  "sample: got 7, want 6",
		},
		{
			name:     "wrapped assertion",
			check:    func(*dice.Roller) error { return fmt.Errorf("round 2: %w", Failf("mismatch")) },
			wantLine: "Test failed: sample: round 2: mismatch\n",
			wantErr:  "sample: round 2: mismatch",
		},
		{
			name:     "unexpected error",
			check:    func(*dice.Roller) error { return errors.New("source exhausted") },
			wantLine: "Test error: sample: source exhausted\n",
			wantErr:  "sample: source exhausted",
		},
		{
			name:     "panic",
			check:    func(*dice.Roller) error { panic("index out of range") },
			wantLine: "Test error: sample: panic: index out of range\n",
			wantErr:  "sample: panic: index out of range",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out bytes.Buffer
			err := Run(&out, dice.New(), Check{Name: "sample", Run: tt.check})
			if err == nil || err.Error() != tt.wantErr {
				t.Errorf("Run() error = %v, want %q", err, tt.wantErr)
			}
			want := "Running tests...\n" + tt.wantLine
			if out.String() != want {
				t.Errorf("output = %q, want %q", out.String(), want)
			}
		})
	}
}

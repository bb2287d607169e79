// Package selfcheck exercises the dice engine at runtime for the `test`
// command. A check reports a violated expectation with Failf; any other
// error, or a panic, is reported as an unexpected test error.
package selfcheck

import (
	"errors"
	"fmt"
	"io"

	"github.com/bft-labs/diceroller/pkg/dice"
)

// Check is a single named assertion group.
type Check struct {
	Name string
	Run  func(r *dice.Roller) error
}

// Checks returns the built-in checks in execution order.
func Checks() []Check {
	return []Check{
		{Name: "roll bounds", Run: checkBounds},
		{Name: "dice count", Run: checkCount},
		{Name: "argument rejection", Run: checkRejection},
		{Name: "formatting", Run: checkFormatting},
		{Name: "format determinism", Run: checkDeterminism},
		{Name: "atomic failure", Run: checkAtomicFailure},
	}
}

// AssertionError is a violated expectation, as opposed to a check that
// could not run to completion.
type AssertionError struct {
	Msg string
}

func (e *AssertionError) Error() string { return e.Msg }

// Failf returns an AssertionError with a formatted message.
func Failf(format string, args ...any) error {
	return &AssertionError{Msg: fmt.Sprintf(format, args...)}
}

// Run executes checks against r, reporting progress on w. It stops at the
// first failing check and returns its error. Assertion failures print
// "Test failed: ..."; other errors and panics print "Test error: ...".
func Run(w io.Writer, r *dice.Roller, checks ...Check) error {
	if len(checks) == 0 {
		checks = Checks()
	}
	fmt.Fprintln(w, "Running tests...")
	for _, c := range checks {
		err := runCheck(c, r)
		if err == nil {
			continue
		}
		var assertion *AssertionError
		if errors.As(err, &assertion) {
			fmt.Fprintf(w, "Test failed: %s: %v\n", c.Name, err)
		} else {
			fmt.Fprintf(w, "Test error: %s: %v\n", c.Name, err)
		}
		return fmt.Errorf("%s: %w", c.Name, err)
	}
	fmt.Fprintln(w, "All tests passed.")
	return nil
}

func runCheck(c Check, r *dice.Roller) (err error) {
	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("panic: %v", p)
		}
	}()
	return c.Run(r)
}

func checkBounds(r *dice.Roller) error {
	for _, sides := range []int{1, 4, 6, 20} {
		for i := 0; i < 50; i++ {
			v, err := r.RollOne(sides)
			if err != nil {
				return fmt.Errorf("RollOne(%d): %w", sides, err)
			}
			if v < 1 || v > sides {
				return Failf("RollOne out of bounds: %d for sides %d", v, sides)
			}
		}
	}
	return nil
}

func checkCount(r *dice.Roller) error {
	for _, tc := range []struct{ count, sides int }{{1, 6}, {2, 6}, {3, 8}} {
		got, err := r.RollMany(tc.count, tc.sides)
		if err != nil {
			return fmt.Errorf("RollMany(%d, %d): %w", tc.count, tc.sides, err)
		}
		if len(got) != tc.count {
			return Failf("RollMany(%d, %d) returned %d values", tc.count, tc.sides, len(got))
		}
		for _, v := range got {
			if v < 1 || v > tc.sides {
				return Failf("RollMany(%d, %d) value %d out of bounds", tc.count, tc.sides, v)
			}
		}
	}
	return nil
}

func checkRejection(r *dice.Roller) error {
	if _, err := r.RollOne(0); !errors.Is(err, dice.ErrInvalidArgument) {
		return Failf("expected invalid argument for sides=0, got %v", err)
	}
	for _, count := range []int{0, -1} {
		if _, err := r.RollMany(count, dice.DefaultSides); !errors.Is(err, dice.ErrInvalidArgument) {
			return Failf("expected invalid argument for num_dice=%d, got %v", count, err)
		}
	}
	if _, err := dice.Format(nil); !errors.Is(err, dice.ErrInvalidArgument) {
		return Failf("expected invalid argument for empty results, got %v", err)
	}
	return nil
}

func checkFormatting(*dice.Roller) error {
	cases := []struct {
		in   []int
		want string
	}{
		{[]int{4}, "You rolled: 4"},
		{[]int{3, 5}, "You rolled: 3 and 5 (total: 8)"},
		{[]int{2, 2, 6}, "You rolled: 2, 2, 6 (total: 10)"},
	}
	for _, c := range cases {
		got, err := dice.Format(c.in)
		if err != nil {
			return fmt.Errorf("Format(%v): %w", c.in, err)
		}
		if got != c.want {
			return Failf("Format(%v) = %q, want %q", c.in, got, c.want)
		}
	}
	return nil
}

func checkDeterminism(r *dice.Roller) error {
	values, err := r.RollMany(3, dice.DefaultSides)
	if err != nil {
		return err
	}
	first, _ := dice.Format(values)
	if _, err := dice.Format([]int{1}); err != nil {
		return err
	}
	second, _ := dice.Format(values)
	if first != second {
		return Failf("Format not deterministic: %q then %q", first, second)
	}
	return nil
}

type countingSource struct{ calls int }

func (s *countingSource) IntN(int) int {
	s.calls++
	return 0
}

// checkAtomicFailure runs on its own counting source; the supplied roller
// is not consulted.
func checkAtomicFailure(*dice.Roller) error {
	src := &countingSource{}
	r := dice.New(dice.WithSource(src))
	for _, tc := range []struct{ count, sides int }{{0, 6}, {-1, 6}, {2, 0}} {
		if _, err := r.RollMany(tc.count, tc.sides); err == nil {
			return Failf("RollMany(%d, %d) succeeded", tc.count, tc.sides)
		}
	}
	if src.calls != 0 {
		return Failf("rejected rolls consumed %d random values", src.calls)
	}
	return nil
}

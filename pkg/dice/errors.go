package dice

import "errors"

// ErrInvalidArgument matches every precondition failure in this package.
var ErrInvalidArgument = errors.New("dice: invalid argument")

// ArgumentError reports a violated precondition on a single argument.
// Error returns the bare message so callers can show it to users as-is.
type ArgumentError struct {
	Arg string
	Msg string
}

func (e *ArgumentError) Error() string { return e.Msg }

// Is reports whether target is ErrInvalidArgument.
func (e *ArgumentError) Is(target error) bool {
	return target == ErrInvalidArgument
}

func errSides() error {
	return &ArgumentError{Arg: "sides", Msg: "sides must be >= 1"}
}

func errCount() error {
	return &ArgumentError{Arg: "num_dice", Msg: "num_dice must be >= 1"}
}

func errEmpty() error {
	return &ArgumentError{Arg: "results", Msg: "results must not be empty"}
}

// Package dice rolls dice and formats the results.
//
// It is the shared core behind the interactive console, the self-check and
// the HTTP server. Everything here is synchronous and holds no state beyond
// the random [Source] a [Roller] was built with.
//
// # Usage
//
// Roll with the process-wide source:
//
//	values, err := dice.RollMany(2, dice.DefaultSides)
//	if err != nil {
//	    return err
//	}
//	text, _ := dice.Format(values) // "You rolled: 3 and 5 (total: 8)"
//
// Or build a Roller with its own source, for example one per session:
//
//	r := dice.New(dice.WithSource(dice.NewSource(42)), dice.WithSides(20))
//	v, err := r.RollOne(20)
//
// # Errors
//
// Every precondition failure is an [*ArgumentError] and matches
// [ErrInvalidArgument] with errors.Is. Counts are validated before any die is
// rolled, so a rejected call never consumes randomness.
//
// # Version
//
// Current version: 1.0.0
// Minimum compatible version: 1.0.0
package dice

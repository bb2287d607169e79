// Package log is the logging abstraction shared by the diceroller commands,
// the HTTP server and plugins.
//
// The dice core never logs. Front-ends take a [Logger] so tests can pass
// [NewNoopLogger] and the binary can pass a zerolog-backed adapter:
//
//	logger := log.NewZerologAdapter(zerolog.InfoLevel)
//	logger.Info("rolled", log.Ints("dice", values), log.Int("total", total))
package log

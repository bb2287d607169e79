package configwatcher

import "github.com/bft-labs/diceroller/pkg/log"

// Option configures a Plugin.
type Option func(*Plugin)

// WithLogger sets the logger for reload and watcher errors.
//
// Usage:
//
//	p := configwatcher.New(cfg, configwatcher.WithLogger(logger))
func WithLogger(logger log.Logger) Option {
	return func(p *Plugin) {
		if logger != nil {
			p.logger = logger
		}
	}
}

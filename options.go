package diffvec

import "runtime"

type options struct {
	logger  *Logger
	workers int
}

func defaultOptions() options {
	return options{
		logger:  NoopLogger(),
		workers: runtime.GOMAXPROCS(0),
	}
}

// Option configures DiffractionVectors behavior.
type Option func(*options)

// WithLogger sets the structured logger used by analysis operations.
//
// If nil is passed, logging is disabled.
func WithLogger(l *Logger) Option {
	return func(o *options) {
		if l == nil {
			l = NoopLogger()
		}
		o.logger = l
	}
}

// WithWorkers caps the parallelism of the fan-out passes (the global
// consistency check, lattice indexation and dark-field extraction).
//
// The incremental reduction loop itself is sequential: each position's
// distance matrix depends on the accepted set left by the previous one.
// If workers <= 0, GOMAXPROCS is used.
func WithWorkers(workers int) Option {
	return func(o *options) {
		if workers <= 0 {
			workers = runtime.GOMAXPROCS(0)
		}
		o.workers = workers
	}
}

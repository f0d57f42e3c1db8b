package flowrunner

import (
	"log/slog"

	"github.com/google/uuid"

	"github.com/dmitrymomot/payflow/pkg/flowstore"
	"github.com/dmitrymomot/payflow/pkg/paymentflow"
)

// Option configures a runner during construction.
type Option func(*Runner)

// WithLogger sets a custom logger. A discard logger is used by default.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Runner) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// WithStore enables snapshot persistence: the runner saves a snapshot after
// every transition and deletes it once the flow reaches a terminal outcome.
func WithStore(store flowstore.Store) Option {
	return func(r *Runner) {
		r.store = store
	}
}

// WithConfig overrides the default runner settings.
func WithConfig(cfg Config) Option {
	return func(r *Runner) {
		r.cfg = cfg
	}
}

// WithFlowID sets an explicit flow ID instead of a generated one.
func WithFlowID(id uuid.UUID) Option {
	return func(r *Runner) {
		if id != uuid.Nil {
			r.id = id
		}
	}
}

// WithInitialState seeds the machine with a state other than initializing,
// e.g. when resuming a persisted flow or in tests.
func WithInitialState(state paymentflow.State) Option {
	return func(r *Runner) {
		if !state.IsZero() {
			r.initial = state
		}
	}
}

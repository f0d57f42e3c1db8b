package paymentflow

import (
	"fmt"
	"io"
	"log/slog"
	"sync"
)

// Machine holds the single current-state cell for one payment attempt.
// State mutation and effect emission happen as one unit under the lock, so
// no intermediate state is observable. The machine performs no I/O; all
// blocking work lives in the caller that executes the emitted effects.
type Machine struct {
	initial State
	current State
	logger  *slog.Logger
	mu      sync.RWMutex
}

// Option configures a machine during construction.
type Option func(*Machine)

// WithLogger sets a logger used to report ignored events at debug level.
func WithLogger(logger *slog.Logger) Option {
	return func(m *Machine) {
		if logger != nil {
			m.logger = logger
		}
	}
}

// NewMachine creates a machine seeded with the given initial state. The
// initial state is normally StateInitializing, but a caller may seed any
// state, e.g. when resuming a persisted flow or in tests.
func NewMachine(initial State, opts ...Option) (*Machine, error) {
	if initial.IsZero() {
		return nil, ErrInvalidInitialState
	}

	m := &Machine{
		initial: initial,
		current: initial,
		logger:  slog.New(slog.NewTextHandler(io.Discard, nil)),
	}

	for _, opt := range opts {
		opt(m)
	}

	return m, nil
}

// MustNewMachine is like NewMachine but panics on invalid configuration,
// for fail-fast initialization.
func MustNewMachine(initial State, opts ...Option) *Machine {
	m, err := NewMachine(initial, opts...)
	if err != nil {
		panic(fmt.Sprintf("failed to create payment flow machine: %v", err))
	}
	return m
}

// Current returns the current state.
func (m *Machine) Current() State {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.current
}

// Send applies the event to the current state and commits the result. It
// returns the side effect the caller must execute, and whether a transition
// happened at all. An unrecognized event leaves the state untouched, emits
// no effect, and returns ok=false; callers should treat that as a no-op.
//
// Send serializes concurrent callers, but the transition table itself
// assumes ordered delivery: if events can arrive concurrently, the caller
// decides the order in which they are sent.
func (m *Machine) Send(ev Event) (SideEffect, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	next, fx, ok := Apply(m.current, ev)
	if !ok {
		m.logger.Debug("ignoring event with no transition",
			slog.String("state", m.current.Name()),
			slog.String("event", ev.Name()))
		return SideEffect{}, false
	}

	m.logger.Debug("payment flow transition",
		slog.String("from", m.current.Name()),
		slog.String("to", next.Name()),
		slog.String("event", ev.Name()),
		slog.String("effect", fx.String()))

	m.current = next
	return fx, true
}

// CanSend reports whether the event would trigger a transition right now.
func (m *Machine) CanSend(ev Event) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return CanApply(m.current, ev)
}

// Reset returns the machine to its initial state. Distinct from the
// resetState side effect, which asks the caller to clear its own session
// state after a retry.
func (m *Machine) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.current = m.initial
}

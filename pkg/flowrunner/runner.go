package flowrunner

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/dmitrymomot/payflow/pkg/flowstore"
	"github.com/dmitrymomot/payflow/pkg/paymentflow"
)

// Outcome reports where a finished flow ended up: paymentCompleted,
// paymentRejected (after the user closed the flow), or errored.
type Outcome struct {
	FlowID uuid.UUID
	State  paymentflow.State
}

// Runner owns one payment flow attempt. It serializes event delivery through
// a single-consumer channel, applies each event to the machine, executes the
// requested side effect through the handler, and feeds effect outcomes back
// in as events. The transition table assumes ordered delivery; the runner is
// the component that provides it.
type Runner struct {
	id      uuid.UUID
	initial paymentflow.State
	machine *paymentflow.Machine
	handler EffectHandler
	store   flowstore.Store
	logger  *slog.Logger
	cfg     Config

	events chan paymentflow.Event
	done   chan Outcome
	quit   chan struct{}

	resumeToken string

	startOnce sync.Once
	closeOnce sync.Once

	// Owned by the loop goroutine.
	waitToken   string
	cancelTimer *time.Timer
}

// NewRunner creates a runner for a fresh flow starting at initializing.
// Panics on a nil handler to fail fast during initialization.
func NewRunner(handler EffectHandler, opts ...Option) *Runner {
	if handler == nil {
		panic("flowrunner: effect handler is required")
	}

	r := &Runner{
		id:      uuid.New(),
		initial: paymentflow.StateInitializing,
		handler: handler,
		logger:  slog.New(slog.NewTextHandler(io.Discard, nil)),
		cfg:     defaultConfig(),
		done:    make(chan Outcome, 1),
		quit:    make(chan struct{}),
	}

	for _, opt := range opts {
		opt(r)
	}

	r.events = make(chan paymentflow.Event, max(r.cfg.EventBuffer, 1))
	r.machine = paymentflow.MustNewMachine(r.initial, paymentflow.WithLogger(r.logger))

	return r
}

// ResumeRunner rebuilds a runner from a persisted snapshot. If the snapshot
// carries a wait token, the runner re-subscribes to the payment status
// stream on Start.
func ResumeRunner(ctx context.Context, store flowstore.Store, flowID uuid.UUID, handler EffectHandler, opts ...Option) (*Runner, error) {
	if store == nil {
		panic("flowrunner: snapshot store is required")
	}

	snap, err := store.Load(ctx, flowID)
	if err != nil {
		return nil, errors.Join(ErrResumeSnapshot, err)
	}

	state, err := snap.State()
	if err != nil {
		return nil, errors.Join(ErrResumeSnapshot, err)
	}

	opts = append(opts, WithFlowID(flowID), WithInitialState(state), WithStore(store))
	r := NewRunner(handler, opts...)
	r.resumeToken = snap.WaitToken
	return r, nil
}

// FlowID returns the runner's flow identifier.
func (r *Runner) FlowID() uuid.UUID {
	return r.id
}

// State returns the machine's current state.
func (r *Runner) State() paymentflow.State {
	return r.machine.Current()
}

// Done delivers the terminal outcome once the flow finishes. The channel
// never fires for flows that are closed before finishing.
func (r *Runner) Done() <-chan Outcome {
	return r.done
}

// Start launches the event loop. Subsequent calls are no-ops. The loop stops
// when the context is canceled, the runner is closed, or the flow finishes.
func (r *Runner) Start(ctx context.Context) {
	r.startOnce.Do(func() {
		go r.loop(ctx)
	})
}

// Dispatch delivers an event to the flow. It blocks while the event buffer
// is full and returns ErrRunnerClosed once the flow has finished or the
// runner was closed. Any goroutine may call Dispatch; the loop applies
// events strictly in the order they are accepted.
func (r *Runner) Dispatch(ctx context.Context, ev paymentflow.Event) error {
	select {
	case <-r.quit:
		return ErrRunnerClosed
	default:
	}

	select {
	case r.events <- ev:
		return nil
	case <-r.quit:
		return ErrRunnerClosed
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Close stops the event loop without emitting an outcome. Safe to call
// multiple times.
func (r *Runner) Close() error {
	r.shutdown()
	return nil
}

func (r *Runner) shutdown() {
	r.closeOnce.Do(func() {
		close(r.quit)
	})
}

func (r *Runner) loop(ctx context.Context) {
	// A resumed flow re-attaches to its status stream before processing
	// anything else, so a backend outcome that happened while the process
	// was down is observed first.
	if r.resumeToken != "" {
		r.waitToken = r.resumeToken
		if err := r.handler.SubscribeToPaymentStatus(ctx, r.resumeToken); err != nil {
			if r.process(ctx, paymentflow.ErrorOccurred(err)) {
				return
			}
		}
	}

	for {
		select {
		case <-ctx.Done():
			return
		case <-r.quit:
			return
		case ev := <-r.events:
			if finished := r.process(ctx, ev); finished {
				return
			}
		}
	}
}

// process applies one event plus all synchronous follow-ups produced by the
// executed effects. Returns true when the flow reached its outcome.
func (r *Runner) process(ctx context.Context, ev paymentflow.Event) bool {
	pending := []paymentflow.Event{ev}

	for len(pending) > 0 {
		ev, pending = pending[0], pending[1:]

		from := r.machine.Current()
		fx, ok := r.machine.Send(ev)
		if !ok {
			r.logger.DebugContext(ctx, "event ignored, no transition",
				slog.String("flow_id", r.id.String()),
				slog.String("state", from.Name()),
				slog.String("event", ev.Name()))
			continue
		}

		state := r.machine.Current()
		r.logger.InfoContext(ctx, "payment flow transition",
			slog.String("flow_id", r.id.String()),
			slog.String("from", from.Name()),
			slog.String("to", state.Name()),
			slog.String("event", ev.Name()),
			slog.String("effect", fx.String()))

		if token := ev.WaitToken(); token != "" {
			r.waitToken = token
		}
		if ev.Is(paymentflow.EventRetry) {
			r.waitToken = ""
		}

		r.persist(ctx, state)

		if followup, ok := r.execute(ctx, fx); ok {
			pending = append(pending, followup)
		}

		closedByUser := ev.Is(paymentflow.EventCancelFlow) && state.Is(paymentflow.StatePaymentRejected)
		if state.IsTerminal() || closedByUser {
			r.finish(ctx, state)
			return true
		}
	}

	return false
}

// execute runs the requested side effect through the handler and returns the
// event to feed back, if any.
func (r *Runner) execute(ctx context.Context, fx paymentflow.SideEffect) (paymentflow.Event, bool) {
	switch {
	case fx.IsZero():

	case fx.Is(paymentflow.EffectCreatePaymentRequest):
		token, err := r.handler.CreatePaymentRequest(ctx)
		if err != nil {
			return paymentflow.ErrorOccurred(err), true
		}
		return paymentflow.PaymentRequestCreated(token), true

	case fx.Is(paymentflow.SubscribeToPaymentStatus("")):
		if err := r.handler.SubscribeToPaymentStatus(ctx, fx.WaitToken()); err != nil {
			return paymentflow.ErrorOccurred(err), true
		}

	case fx.Is(paymentflow.EffectOpenEmbeddedSite):
		if err := r.handler.OpenEmbeddedSite(ctx); err != nil {
			return paymentflow.ErrorOccurred(err), true
		}

	case fx.Is(paymentflow.EffectResetState):
		if err := r.handler.ResetState(ctx); err != nil {
			return paymentflow.ErrorOccurred(err), true
		}

	case fx.Is(paymentflow.EffectNotifyPaymentSuccess):
		if err := r.handler.NotifyPaymentSuccess(ctx); err != nil {
			r.warn(ctx, "failed to notify payment success", err)
		}

	case fx.Is(paymentflow.EffectNotifyPaymentFailure):
		if err := r.handler.NotifyPaymentFailure(ctx); err != nil {
			r.warn(ctx, "failed to notify payment failure", err)
		}

	case fx.Is(paymentflow.EffectCancelAndNotifyFailure):
		if err := r.handler.CancelAndNotifyFailure(ctx); err != nil {
			r.warn(ctx, "failed to cancel payment request", err)
		}

	case fx.Is(paymentflow.EffectCancelAfterDeadline):
		r.armCancelTimer(ctx)
	}

	return paymentflow.Event{}, false
}

// armCancelTimer schedules a cancel event after the configured deadline.
// A timer firing after a terminal event is harmless: the machine no longer
// accepts cancel and ignores it.
func (r *Runner) armCancelTimer(ctx context.Context) {
	if r.cancelTimer != nil {
		r.cancelTimer.Stop()
	}

	deadlineCtx := context.WithoutCancel(ctx)
	r.cancelTimer = time.AfterFunc(r.cfg.CancelDeadline, func() {
		if err := r.Dispatch(deadlineCtx, paymentflow.EventCancel); err != nil {
			r.logger.DebugContext(deadlineCtx, "cancel deadline fired after flow finished",
				slog.String("flow_id", r.id.String()))
		}
	})
}

func (r *Runner) persist(ctx context.Context, state paymentflow.State) {
	if r.store == nil {
		return
	}

	if err := r.store.Save(ctx, flowstore.Take(r.id, state, r.waitToken)); err != nil {
		r.warn(ctx, "failed to persist flow snapshot", err)
	}
}

func (r *Runner) finish(ctx context.Context, state paymentflow.State) {
	if r.cancelTimer != nil {
		r.cancelTimer.Stop()
	}

	if r.store != nil {
		if err := r.store.Delete(ctx, r.id); err != nil {
			r.warn(ctx, "failed to delete flow snapshot", err)
		}
	}

	r.done <- Outcome{FlowID: r.id, State: state}
	r.shutdown()
}

func (r *Runner) warn(ctx context.Context, msg string, err error) {
	r.logger.WarnContext(ctx, msg,
		slog.String("flow_id", r.id.String()),
		slog.Any("error", err))
}

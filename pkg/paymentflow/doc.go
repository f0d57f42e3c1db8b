// Package paymentflow models a multi-step asynchronous payment flow as an
// explicit finite state machine: create a payment request, wait for the user
// to act in an external payment app, observe the backend outcome, and surface
// success, failure, or cancellation.
//
// The machine is a pure, synchronous transition function. Given the current
// state and an incoming event it either stays put or moves to a new state,
// and requests at most one side effect for the caller to execute. All I/O
// (network calls, timers, UI) lives outside the machine.
//
// # Architecture
//
// State, Event, and SideEffect are closed tagged unions: value structs with a
// kind tag plus an optional payload (the errored state and error event carry
// an opaque error; paymentRequestCreated and subscribeToPaymentStatus carry a
// wait token). Transition lookup is by kind tag only, via a nested map
// [stateTag][eventTag]rule; payloads are inspected only inside the matched
// rule. Pairs absent from the table are silent no-ops (NoTransition), which
// keeps races between backend-driven and UI-driven events from crashing the
// flow.
//
// Several rules exist precisely because of those races: paymentAuthorized and
// paymentRejected are accepted from every waiting state and even from
// initializing, so a backend outcome arriving before the client finished its
// local setup is never lost. waitForCancel defers cancellation: the caller is
// asked to cancel after a deadline while the machine returns to waiting, so a
// late authorization can still win.
//
// # Usage
//
//	m := paymentflow.MustNewMachine(paymentflow.StateInitializing)
//
//	fx, ok := m.Send(paymentflow.EventInitialize)
//	// ok == true, fx == paymentflow.EffectCreatePaymentRequest
//
//	fx, ok = m.Send(paymentflow.PaymentRequestCreated("tok-1"))
//	// fx.WaitToken() == "tok-1"
//
// The stateless Apply function is available when the caller owns the current
// state cell itself:
//
//	next, fx, ok := paymentflow.Apply(current, ev)
//
// # Concurrency
//
// Machine guards its current-state cell with a mutex, so a transition and its
// effect decision are observed atomically. Ordering of concurrent events is
// still the caller's responsibility; pkg/flowrunner provides a
// single-consumer loop that serializes delivery and executes effects.
package paymentflow

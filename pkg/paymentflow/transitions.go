package paymentflow

// rule produces the next state and the effect to request. The triggering
// event is passed in so payload-carrying rules can move the payload across.
type rule func(current State, ev Event) (State, SideEffect)

// to builds a rule for the common case of a fixed target and effect.
func to(next State, fx SideEffect) rule {
	return func(State, Event) (State, SideEffect) { return next, fx }
}

// toErrored moves any in-flight state into errored, preserving the error
// payload unchanged.
func toErrored(_ State, ev Event) (State, SideEffect) {
	return Errored(ev.Err()), SideEffect{}
}

// transitions is the complete transition table, keyed by kind tags only.
// Pairs absent from the table are no-ops: backend-driven and UI-driven events
// race, so an event arriving in the "wrong" state must never crash the flow.
//
// paymentAuthorized and paymentRejected are accepted from several waiting
// states (and even from initializing) because the status subscription can
// outrun the local flow setup; a backend outcome must not be lost.
var transitions = map[string]map[string]rule{
	stateInitializing: {
		eventInitialize:                to(StateCreatingPaymentRequest, EffectCreatePaymentRequest),
		eventPaymentRequestInitialized: to(StatePaymentRequestInitialized, EffectOpenEmbeddedSite),
		eventPaymentAuthorized:         to(StatePaymentCompleted, EffectNotifyPaymentSuccess),
		eventPaymentRejected:           to(StatePaymentRequestInitialized, EffectOpenEmbeddedSite),
	},
	stateCreatingPaymentRequest: {
		eventPaymentRequestCreated: func(_ State, ev Event) (State, SideEffect) {
			return StateWaitingForPaymentRequest, SubscribeToPaymentStatus(ev.WaitToken())
		},
		eventPaymentRequestWillBeCreatedElsewhere: to(StatePaymentRequestInitialized, EffectOpenEmbeddedSite),
		eventError: toErrored,
	},
	stateWaitingForPaymentRequest: {
		eventPaymentRequestInitialized: to(StatePaymentRequestInitialized, EffectOpenEmbeddedSite),
		eventError:                     toErrored,
		eventCancel:                    to(StatePaymentRejected, EffectCancelAndNotifyFailure),
		eventPaymentAuthorized:         to(StatePaymentCompleted, EffectNotifyPaymentSuccess),
		eventPaymentRejected:           to(StatePaymentRejected, SideEffect{}),
	},
	statePaymentRequestInitialized: {
		eventPaymentAuthorized: to(StatePaymentCompleted, EffectNotifyPaymentSuccess),
		eventPaymentRejected:   to(StatePaymentRejected, SideEffect{}),
		eventError:             toErrored,
		eventCancel:            to(StatePaymentRejected, EffectCancelAndNotifyFailure),
		// Deferred cancellation: fall back to waiting so a late backend
		// outcome can still win before the deadline fires.
		eventWaitForCancel: to(StateWaitingForPaymentRequest, EffectCancelAfterDeadline),
	},
	stateWaitingForPayment: {
		eventPaymentAuthorized: to(StatePaymentCompleted, EffectNotifyPaymentSuccess),
		eventPaymentRejected:   to(StatePaymentRejected, SideEffect{}),
		eventError:             toErrored,
		eventCancel:            to(StatePaymentRejected, EffectCancelAndNotifyFailure),
		eventWaitForCancel:     to(StateWaitingForPaymentRequest, EffectCancelAfterDeadline),
	},
	statePaymentRejected: {
		eventCancelFlow: to(StatePaymentRejected, EffectNotifyPaymentFailure),
		eventRetry:      to(StateInitializing, EffectResetState),
	},
}

// Apply is the pure transition function. Given the current state and an
// incoming event it returns the next state and the requested side effect.
// ok is false when the event is not a recognized trigger for the state
// (NoTransition): the state is returned unchanged and the effect is zero.
// NoTransition is a no-op, not an error.
func Apply(current State, ev Event) (next State, fx SideEffect, ok bool) {
	rules, ok := transitions[current.Name()]
	if !ok {
		return current, SideEffect{}, false
	}
	r, ok := rules[ev.Name()]
	if !ok {
		return current, SideEffect{}, false
	}
	next, fx = r(current, ev)
	return next, fx, true
}

// CanApply reports whether the event would trigger a transition from the
// current state, without applying it.
func CanApply(current State, ev Event) bool {
	rules, ok := transitions[current.Name()]
	if !ok {
		return false
	}
	_, ok = rules[ev.Name()]
	return ok
}

package paymentflow

import "fmt"

// Kind tags for states. Used as transition table keys; payloads never
// participate in dispatch.
const (
	stateInitializing              = "initializing"
	stateCreatingPaymentRequest    = "creating_payment_request"
	stateWaitingForPaymentRequest  = "waiting_for_payment_request"
	statePaymentRequestInitialized = "payment_request_initialized"
	stateWaitingForPayment         = "waiting_for_payment"
	statePaymentRejected           = "payment_rejected"
	statePaymentCompleted          = "payment_completed"
	stateErrored                   = "errored"
)

// State is one variant of the closed set of payment flow states.
// The zero value is not a valid state; construct states from the exported
// variables or the Errored constructor.
type State struct {
	kind string
	err  error
}

var (
	StateInitializing              = State{kind: stateInitializing}
	StateCreatingPaymentRequest    = State{kind: stateCreatingPaymentRequest}
	StateWaitingForPaymentRequest  = State{kind: stateWaitingForPaymentRequest}
	StatePaymentRequestInitialized = State{kind: statePaymentRequestInitialized}
	StateWaitingForPayment         = State{kind: stateWaitingForPayment}
	StatePaymentRejected           = State{kind: statePaymentRejected}
	StatePaymentCompleted          = State{kind: statePaymentCompleted}
)

// Errored creates the errored state carrying the opaque error delivered by
// the external API layer. The payload is preserved as-is and retrievable
// through Err.
func Errored(err error) State {
	return State{kind: stateErrored, err: err}
}

// Name returns the state's kind tag. Payload is ignored, so two errored
// states with different errors share a name.
func (s State) Name() string {
	return s.kind
}

func (s State) String() string {
	if s.kind == stateErrored && s.err != nil {
		return fmt.Sprintf("%s(%v)", s.kind, s.err)
	}
	return s.kind
}

// Err returns the error payload of an errored state, nil otherwise.
func (s State) Err() error {
	return s.err
}

// Is reports whether both states carry the same kind tag, ignoring payload.
func (s State) Is(other State) bool {
	return s.kind == other.kind
}

func (s State) IsZero() bool {
	return s.kind == ""
}

// IsErrored reports whether the flow has hit a protocol error. Errored is a
// dead end for the machine; recovery is an external concern.
func (s State) IsErrored() bool {
	return s.kind == stateErrored
}

// IsTerminal reports whether no further transitions can move the flow toward
// completion: the payment completed or the flow errored. paymentRejected is
// not terminal because it still accepts retry and cancelFlow.
func (s State) IsTerminal() bool {
	return s.kind == statePaymentCompleted || s.kind == stateErrored
}

// StateFromName resolves a kind tag back to a State value. Used to rehydrate
// persisted snapshots; the errored payload cannot be rebuilt from a name, so
// callers restoring an errored flow must attach the error themselves via
// Errored.
func StateFromName(name string) (State, bool) {
	switch name {
	case stateInitializing:
		return StateInitializing, true
	case stateCreatingPaymentRequest:
		return StateCreatingPaymentRequest, true
	case stateWaitingForPaymentRequest:
		return StateWaitingForPaymentRequest, true
	case statePaymentRequestInitialized:
		return StatePaymentRequestInitialized, true
	case stateWaitingForPayment:
		return StateWaitingForPayment, true
	case statePaymentRejected:
		return StatePaymentRejected, true
	case statePaymentCompleted:
		return StatePaymentCompleted, true
	case stateErrored:
		return Errored(nil), true
	}
	return State{}, false
}

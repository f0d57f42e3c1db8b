package paymentflow

import "fmt"

// Kind tags for events.
const (
	eventInitialize                           = "initialize"
	eventPaymentRequestCreated                = "payment_request_created"
	eventPaymentRequestWillBeCreatedElsewhere = "payment_request_will_be_created_elsewhere"
	eventPaymentRequestInitialized            = "payment_request_initialized"
	eventPaymentAuthorized                    = "payment_authorized"
	eventPaymentRejected                      = "payment_rejected"
	eventCancel                               = "cancel"
	eventRetry                                = "retry"
	eventCancelFlow                           = "cancel_flow"
	eventError                                = "error"
	eventWaitForCancel                        = "wait_for_cancel"
)

// Event is one variant of the closed set of inputs delivered to the machine.
// Events arrive both from the UI and from the payment status subscription, so
// the same event value may be delivered in states where it is not expected;
// the machine ignores those silently.
type Event struct {
	kind      string
	waitToken string
	err       error
}

var (
	EventInitialize                           = Event{kind: eventInitialize}
	EventPaymentRequestWillBeCreatedElsewhere = Event{kind: eventPaymentRequestWillBeCreatedElsewhere}
	EventPaymentRequestInitialized            = Event{kind: eventPaymentRequestInitialized}
	EventPaymentAuthorized                    = Event{kind: eventPaymentAuthorized}
	EventPaymentRejected                      = Event{kind: eventPaymentRejected}
	EventCancel                               = Event{kind: eventCancel}
	EventRetry                                = Event{kind: eventRetry}
	EventCancelFlow                           = Event{kind: eventCancelFlow}
	EventWaitForCancel                        = Event{kind: eventWaitForCancel}
)

// PaymentRequestCreated signals that the backend created a payment request
// identified by the given wait token. The token is an opaque pass-through
// value used to subscribe to status updates.
func PaymentRequestCreated(waitToken string) Event {
	return Event{kind: eventPaymentRequestCreated, waitToken: waitToken}
}

// ErrorOccurred wraps an opaque error from the external API layer into an
// error event.
func ErrorOccurred(err error) Event {
	return Event{kind: eventError, err: err}
}

// Name returns the event's kind tag. Payload is ignored for dispatch.
func (e Event) Name() string {
	return e.kind
}

func (e Event) String() string {
	switch {
	case e.kind == eventPaymentRequestCreated:
		return fmt.Sprintf("%s(%s)", e.kind, e.waitToken)
	case e.kind == eventError && e.err != nil:
		return fmt.Sprintf("%s(%v)", e.kind, e.err)
	}
	return e.kind
}

// WaitToken returns the token carried by a paymentRequestCreated event,
// empty string otherwise.
func (e Event) WaitToken() string {
	return e.waitToken
}

// Err returns the error payload of an error event, nil otherwise.
func (e Event) Err() error {
	return e.err
}

// Is reports whether both events carry the same kind tag, ignoring payload.
func (e Event) Is(other Event) bool {
	return e.kind == other.kind
}

func (e Event) IsZero() bool {
	return e.kind == ""
}

package paymentflow

import "fmt"

// Kind tags for side effects.
const (
	effectCreatePaymentRequest     = "create_payment_request"
	effectOpenEmbeddedSite         = "open_embedded_site"
	effectSubscribeToPaymentStatus = "subscribe_to_payment_status"
	effectNotifyPaymentSuccess     = "notify_payment_success"
	effectNotifyPaymentFailure     = "notify_payment_failure"
	effectResetState               = "reset_state"
	effectCancelAndNotifyFailure   = "cancel_and_notify_failure"
	effectCancelAfterDeadline      = "cancel_after_deadline"
)

// SideEffect is an action the machine requests but never performs itself.
// The caller executes it after the transition has been committed. The zero
// value means "no effect"; a transition emits at most one effect.
type SideEffect struct {
	kind      string
	waitToken string
}

var (
	EffectCreatePaymentRequest   = SideEffect{kind: effectCreatePaymentRequest}
	EffectOpenEmbeddedSite       = SideEffect{kind: effectOpenEmbeddedSite}
	EffectNotifyPaymentSuccess   = SideEffect{kind: effectNotifyPaymentSuccess}
	EffectNotifyPaymentFailure   = SideEffect{kind: effectNotifyPaymentFailure}
	EffectResetState             = SideEffect{kind: effectResetState}
	EffectCancelAndNotifyFailure = SideEffect{kind: effectCancelAndNotifyFailure}
	EffectCancelAfterDeadline    = SideEffect{kind: effectCancelAfterDeadline}
)

// SubscribeToPaymentStatus requests a status stream subscription for the
// payment request identified by the wait token.
func SubscribeToPaymentStatus(waitToken string) SideEffect {
	return SideEffect{kind: effectSubscribeToPaymentStatus, waitToken: waitToken}
}

// Name returns the effect's kind tag. Payload is ignored.
func (fx SideEffect) Name() string {
	return fx.kind
}

func (fx SideEffect) String() string {
	if fx.kind == "" {
		return "none"
	}
	if fx.kind == effectSubscribeToPaymentStatus {
		return fmt.Sprintf("%s(%s)", fx.kind, fx.waitToken)
	}
	return fx.kind
}

// WaitToken returns the token carried by a subscribeToPaymentStatus effect,
// empty string otherwise.
func (fx SideEffect) WaitToken() string {
	return fx.waitToken
}

// Is reports whether both effects carry the same kind tag, ignoring payload.
func (fx SideEffect) Is(other SideEffect) bool {
	return fx.kind == other.kind
}

// IsZero reports whether the transition emitted no effect.
func (fx SideEffect) IsZero() bool {
	return fx.kind == ""
}

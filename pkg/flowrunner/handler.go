package flowrunner

import "context"

// EffectHandler executes the side effects the machine requests. It is the
// seam where the real collaborators plug in: the network client that creates
// payment requests and streams status updates, and the UI layer that shows
// the embedded payment site and surfaces outcomes.
//
// The runner calls at most one handler method at a time, always from its own
// goroutine. Handlers deliver later developments (status updates, user
// actions) back through Runner.Dispatch.
type EffectHandler interface {
	// CreatePaymentRequest initiates creation of a payment request over the
	// network and returns the wait token identifying it.
	CreatePaymentRequest(ctx context.Context) (waitToken string, err error)

	// OpenEmbeddedSite shows the embedded payment UI.
	OpenEmbeddedSite(ctx context.Context) error

	// SubscribeToPaymentStatus opens a status stream for the given token.
	// The implementation dispatches EventPaymentAuthorized,
	// EventPaymentRejected, or ErrorOccurred as updates arrive.
	SubscribeToPaymentStatus(ctx context.Context, waitToken string) error

	// NotifyPaymentSuccess informs the caller of the successful outcome.
	NotifyPaymentSuccess(ctx context.Context) error

	// NotifyPaymentFailure informs the caller of the failed outcome.
	NotifyPaymentFailure(ctx context.Context) error

	// ResetState clears transient UI/session state before re-initializing.
	ResetState(ctx context.Context) error

	// CancelAndNotifyFailure issues a cancellation request and notifies
	// failure.
	CancelAndNotifyFailure(ctx context.Context) error
}

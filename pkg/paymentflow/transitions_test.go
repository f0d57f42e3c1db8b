package paymentflow_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/payflow/pkg/paymentflow"
)

var errBackend = errors.New("backend unavailable")

func TestApply_TransitionTable(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		from  paymentflow.State
		event paymentflow.Event
		to    paymentflow.State
		fx    paymentflow.SideEffect
	}{
		{
			name:  "initialize starts payment request creation",
			from:  paymentflow.StateInitializing,
			event: paymentflow.EventInitialize,
			to:    paymentflow.StateCreatingPaymentRequest,
			fx:    paymentflow.EffectCreatePaymentRequest,
		},
		{
			name:  "early request initialization opens embedded site",
			from:  paymentflow.StateInitializing,
			event: paymentflow.EventPaymentRequestInitialized,
			to:    paymentflow.StatePaymentRequestInitialized,
			fx:    paymentflow.EffectOpenEmbeddedSite,
		},
		{
			name:  "authorization before setup completes the flow",
			from:  paymentflow.StateInitializing,
			event: paymentflow.EventPaymentAuthorized,
			to:    paymentflow.StatePaymentCompleted,
			fx:    paymentflow.EffectNotifyPaymentSuccess,
		},
		{
			name:  "rejection before setup reopens embedded site",
			from:  paymentflow.StateInitializing,
			event: paymentflow.EventPaymentRejected,
			to:    paymentflow.StatePaymentRequestInitialized,
			fx:    paymentflow.EffectOpenEmbeddedSite,
		},
		{
			name:  "created request subscribes to status",
			from:  paymentflow.StateCreatingPaymentRequest,
			event: paymentflow.PaymentRequestCreated("tok-1"),
			to:    paymentflow.StateWaitingForPaymentRequest,
			fx:    paymentflow.SubscribeToPaymentStatus("tok-1"),
		},
		{
			name:  "request created elsewhere opens embedded site",
			from:  paymentflow.StateCreatingPaymentRequest,
			event: paymentflow.EventPaymentRequestWillBeCreatedElsewhere,
			to:    paymentflow.StatePaymentRequestInitialized,
			fx:    paymentflow.EffectOpenEmbeddedSite,
		},
		{
			name:  "creation error dead-ends the flow",
			from:  paymentflow.StateCreatingPaymentRequest,
			event: paymentflow.ErrorOccurred(errBackend),
			to:    paymentflow.Errored(errBackend),
			fx:    paymentflow.SideEffect{},
		},
		{
			name:  "request initialization opens embedded site",
			from:  paymentflow.StateWaitingForPaymentRequest,
			event: paymentflow.EventPaymentRequestInitialized,
			to:    paymentflow.StatePaymentRequestInitialized,
			fx:    paymentflow.EffectOpenEmbeddedSite,
		},
		{
			name:  "error while waiting for request",
			from:  paymentflow.StateWaitingForPaymentRequest,
			event: paymentflow.ErrorOccurred(errBackend),
			to:    paymentflow.Errored(errBackend),
			fx:    paymentflow.SideEffect{},
		},
		{
			name:  "cancel while waiting for request",
			from:  paymentflow.StateWaitingForPaymentRequest,
			event: paymentflow.EventCancel,
			to:    paymentflow.StatePaymentRejected,
			fx:    paymentflow.EffectCancelAndNotifyFailure,
		},
		{
			name:  "authorization while waiting for request",
			from:  paymentflow.StateWaitingForPaymentRequest,
			event: paymentflow.EventPaymentAuthorized,
			to:    paymentflow.StatePaymentCompleted,
			fx:    paymentflow.EffectNotifyPaymentSuccess,
		},
		{
			name:  "rejection while waiting for request",
			from:  paymentflow.StateWaitingForPaymentRequest,
			event: paymentflow.EventPaymentRejected,
			to:    paymentflow.StatePaymentRejected,
			fx:    paymentflow.SideEffect{},
		},
		{
			name:  "authorization after site opened",
			from:  paymentflow.StatePaymentRequestInitialized,
			event: paymentflow.EventPaymentAuthorized,
			to:    paymentflow.StatePaymentCompleted,
			fx:    paymentflow.EffectNotifyPaymentSuccess,
		},
		{
			name:  "rejection after site opened",
			from:  paymentflow.StatePaymentRequestInitialized,
			event: paymentflow.EventPaymentRejected,
			to:    paymentflow.StatePaymentRejected,
			fx:    paymentflow.SideEffect{},
		},
		{
			name:  "error after site opened",
			from:  paymentflow.StatePaymentRequestInitialized,
			event: paymentflow.ErrorOccurred(errBackend),
			to:    paymentflow.Errored(errBackend),
			fx:    paymentflow.SideEffect{},
		},
		{
			name:  "cancel after site opened",
			from:  paymentflow.StatePaymentRequestInitialized,
			event: paymentflow.EventCancel,
			to:    paymentflow.StatePaymentRejected,
			fx:    paymentflow.EffectCancelAndNotifyFailure,
		},
		{
			name:  "deferred cancel after site opened",
			from:  paymentflow.StatePaymentRequestInitialized,
			event: paymentflow.EventWaitForCancel,
			to:    paymentflow.StateWaitingForPaymentRequest,
			fx:    paymentflow.EffectCancelAfterDeadline,
		},
		{
			name:  "authorization while waiting for payment",
			from:  paymentflow.StateWaitingForPayment,
			event: paymentflow.EventPaymentAuthorized,
			to:    paymentflow.StatePaymentCompleted,
			fx:    paymentflow.EffectNotifyPaymentSuccess,
		},
		{
			name:  "rejection while waiting for payment",
			from:  paymentflow.StateWaitingForPayment,
			event: paymentflow.EventPaymentRejected,
			to:    paymentflow.StatePaymentRejected,
			fx:    paymentflow.SideEffect{},
		},
		{
			name:  "error while waiting for payment",
			from:  paymentflow.StateWaitingForPayment,
			event: paymentflow.ErrorOccurred(errBackend),
			to:    paymentflow.Errored(errBackend),
			fx:    paymentflow.SideEffect{},
		},
		{
			name:  "cancel while waiting for payment",
			from:  paymentflow.StateWaitingForPayment,
			event: paymentflow.EventCancel,
			to:    paymentflow.StatePaymentRejected,
			fx:    paymentflow.EffectCancelAndNotifyFailure,
		},
		{
			name:  "deferred cancel while waiting for payment",
			from:  paymentflow.StateWaitingForPayment,
			event: paymentflow.EventWaitForCancel,
			to:    paymentflow.StateWaitingForPaymentRequest,
			fx:    paymentflow.EffectCancelAfterDeadline,
		},
		{
			name:  "cancel flow notifies failure and stays rejected",
			from:  paymentflow.StatePaymentRejected,
			event: paymentflow.EventCancelFlow,
			to:    paymentflow.StatePaymentRejected,
			fx:    paymentflow.EffectNotifyPaymentFailure,
		},
		{
			name:  "retry restarts the flow",
			from:  paymentflow.StatePaymentRejected,
			event: paymentflow.EventRetry,
			to:    paymentflow.StateInitializing,
			fx:    paymentflow.EffectResetState,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			next, fx, ok := paymentflow.Apply(tt.from, tt.event)
			require.True(t, ok, "expected a transition from %s on %s", tt.from, tt.event)
			assert.True(t, next.Is(tt.to), "next state = %s, want %s", next, tt.to)
			assert.True(t, fx.Is(tt.fx), "effect = %s, want %s", fx, tt.fx)
		})
	}
}

// validTriggers mirrors the transition table by tag name. Kept independent of
// the production table so the NoTransition sweep below actually checks the
// table's shape instead of echoing it.
var validTriggers = map[string][]string{
	paymentflow.StateInitializing.Name(): {
		paymentflow.EventInitialize.Name(),
		paymentflow.EventPaymentRequestInitialized.Name(),
		paymentflow.EventPaymentAuthorized.Name(),
		paymentflow.EventPaymentRejected.Name(),
	},
	paymentflow.StateCreatingPaymentRequest.Name(): {
		paymentflow.PaymentRequestCreated("").Name(),
		paymentflow.EventPaymentRequestWillBeCreatedElsewhere.Name(),
		paymentflow.ErrorOccurred(nil).Name(),
	},
	paymentflow.StateWaitingForPaymentRequest.Name(): {
		paymentflow.EventPaymentRequestInitialized.Name(),
		paymentflow.ErrorOccurred(nil).Name(),
		paymentflow.EventCancel.Name(),
		paymentflow.EventPaymentAuthorized.Name(),
		paymentflow.EventPaymentRejected.Name(),
	},
	paymentflow.StatePaymentRequestInitialized.Name(): {
		paymentflow.EventPaymentAuthorized.Name(),
		paymentflow.EventPaymentRejected.Name(),
		paymentflow.ErrorOccurred(nil).Name(),
		paymentflow.EventCancel.Name(),
		paymentflow.EventWaitForCancel.Name(),
	},
	paymentflow.StateWaitingForPayment.Name(): {
		paymentflow.EventPaymentAuthorized.Name(),
		paymentflow.EventPaymentRejected.Name(),
		paymentflow.ErrorOccurred(nil).Name(),
		paymentflow.EventCancel.Name(),
		paymentflow.EventWaitForCancel.Name(),
	},
	paymentflow.StatePaymentRejected.Name(): {
		paymentflow.EventCancelFlow.Name(),
		paymentflow.EventRetry.Name(),
	},
	paymentflow.StatePaymentCompleted.Name(): {},
	paymentflow.Errored(nil).Name():          {},
}

func TestApply_NoTransitionSweep(t *testing.T) {
	t.Parallel()

	states := []paymentflow.State{
		paymentflow.StateInitializing,
		paymentflow.StateCreatingPaymentRequest,
		paymentflow.StateWaitingForPaymentRequest,
		paymentflow.StatePaymentRequestInitialized,
		paymentflow.StateWaitingForPayment,
		paymentflow.StatePaymentRejected,
		paymentflow.StatePaymentCompleted,
		paymentflow.Errored(errBackend),
	}
	events := []paymentflow.Event{
		paymentflow.EventInitialize,
		paymentflow.PaymentRequestCreated("tok-sweep"),
		paymentflow.EventPaymentRequestWillBeCreatedElsewhere,
		paymentflow.EventPaymentRequestInitialized,
		paymentflow.EventPaymentAuthorized,
		paymentflow.EventPaymentRejected,
		paymentflow.EventCancel,
		paymentflow.EventRetry,
		paymentflow.EventCancelFlow,
		paymentflow.ErrorOccurred(errBackend),
		paymentflow.EventWaitForCancel,
	}

	for _, s := range states {
		for _, ev := range events {
			listed := false
			for _, name := range validTriggers[s.Name()] {
				if name == ev.Name() {
					listed = true
					break
				}
			}
			if listed {
				assert.True(t, paymentflow.CanApply(s, ev),
					"expected transition from %s on %s", s, ev)
				continue
			}

			assert.False(t, paymentflow.CanApply(s, ev),
				"unexpected transition from %s on %s", s, ev)

			// Repeated application never changes the state and never emits
			// an effect.
			current := s
			for range_i := 0; range_i < 3; range_i++ {
				next, fx, ok := paymentflow.Apply(current, ev)
				assert.False(t, ok, "apply(%s, %s) should be a no-op", s, ev)
				assert.Equal(t, current, next, "state must be unchanged")
				assert.True(t, fx.IsZero(), "no effect must be emitted")
				current = next
			}
		}
	}
}

func TestApply_PayloadPreservation(t *testing.T) {
	t.Parallel()

	t.Run("wait token flows into subscription effect", func(t *testing.T) {
		t.Parallel()

		next, fx, ok := paymentflow.Apply(paymentflow.StateCreatingPaymentRequest, paymentflow.PaymentRequestCreated("tok-42"))
		require.True(t, ok)
		assert.True(t, next.Is(paymentflow.StateWaitingForPaymentRequest))
		assert.True(t, fx.Is(paymentflow.SubscribeToPaymentStatus("")))
		assert.Equal(t, "tok-42", fx.WaitToken())
	})

	t.Run("error payload preserved unchanged in errored state", func(t *testing.T) {
		t.Parallel()

		cause := errors.New("payment request rejected by gateway")
		for _, from := range []paymentflow.State{
			paymentflow.StateCreatingPaymentRequest,
			paymentflow.StateWaitingForPaymentRequest,
			paymentflow.StatePaymentRequestInitialized,
			paymentflow.StateWaitingForPayment,
		} {
			next, fx, ok := paymentflow.Apply(from, paymentflow.ErrorOccurred(cause))
			require.True(t, ok, "from %s", from)
			assert.True(t, next.IsErrored())
			assert.Same(t, cause, next.Err(), "error payload must pass through untouched")
			assert.True(t, fx.IsZero())
		}
	})
}

func TestApply_AuthorizationAlwaysWins(t *testing.T) {
	t.Parallel()

	for _, from := range []paymentflow.State{
		paymentflow.StateWaitingForPaymentRequest,
		paymentflow.StatePaymentRequestInitialized,
		paymentflow.StateWaitingForPayment,
	} {
		next, fx, ok := paymentflow.Apply(from, paymentflow.EventPaymentAuthorized)
		require.True(t, ok, "from %s", from)
		assert.True(t, next.Is(paymentflow.StatePaymentCompleted), "from %s", from)
		assert.True(t, fx.Is(paymentflow.EffectNotifyPaymentSuccess), "from %s", from)
	}
}

func TestApply_LateSuccessPreemptsPendingCancellation(t *testing.T) {
	t.Parallel()

	// The UI requested cancellation after a deadline...
	next, fx, ok := paymentflow.Apply(paymentflow.StatePaymentRequestInitialized, paymentflow.EventWaitForCancel)
	require.True(t, ok)
	require.True(t, next.Is(paymentflow.StateWaitingForPaymentRequest))
	require.True(t, fx.Is(paymentflow.EffectCancelAfterDeadline))

	// ...but the backend authorized the payment before the deadline fired.
	next, fx, ok = paymentflow.Apply(next, paymentflow.EventPaymentAuthorized)
	require.True(t, ok)
	assert.True(t, next.Is(paymentflow.StatePaymentCompleted))
	assert.True(t, fx.Is(paymentflow.EffectNotifyPaymentSuccess))
}

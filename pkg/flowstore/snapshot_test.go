package flowstore_test

import (
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/payflow/pkg/flowstore"
	"github.com/dmitrymomot/payflow/pkg/paymentflow"
)

func TestSnapshot_Take(t *testing.T) {
	t.Parallel()

	t.Run("captures state and wait token", func(t *testing.T) {
		t.Parallel()
		id := uuid.New()

		snap := flowstore.Take(id, paymentflow.StateWaitingForPaymentRequest, "tok-5")

		assert.Equal(t, id, snap.FlowID)
		assert.Equal(t, paymentflow.StateWaitingForPaymentRequest.Name(), snap.StateName)
		assert.Equal(t, "tok-5", snap.WaitToken)
		assert.Empty(t, snap.Error)
		assert.False(t, snap.UpdatedAt.IsZero())
	})

	t.Run("records error message for errored flows", func(t *testing.T) {
		t.Parallel()
		snap := flowstore.Take(uuid.New(), paymentflow.Errored(errors.New("gateway down")), "")

		assert.Equal(t, "gateway down", snap.Error)
	})
}

func TestSnapshot_State(t *testing.T) {
	t.Parallel()

	t.Run("round trips every state", func(t *testing.T) {
		t.Parallel()
		states := []paymentflow.State{
			paymentflow.StateInitializing,
			paymentflow.StateCreatingPaymentRequest,
			paymentflow.StateWaitingForPaymentRequest,
			paymentflow.StatePaymentRequestInitialized,
			paymentflow.StateWaitingForPayment,
			paymentflow.StatePaymentRejected,
			paymentflow.StatePaymentCompleted,
		}

		for _, state := range states {
			snap := flowstore.Take(uuid.New(), state, "")
			restored, err := snap.State()
			require.NoError(t, err, "state %s", state)
			assert.True(t, restored.Is(state), "restored %s, want %s", restored, state)
		}
	})

	t.Run("rehydrates errored state with message", func(t *testing.T) {
		t.Parallel()
		snap := flowstore.Take(uuid.New(), paymentflow.Errored(errors.New("gateway down")), "")

		restored, err := snap.State()
		require.NoError(t, err)
		assert.True(t, restored.IsErrored())
		assert.EqualError(t, restored.Err(), "gateway down")
	})

	t.Run("rejects unknown state names", func(t *testing.T) {
		t.Parallel()
		snap := flowstore.Snapshot{FlowID: uuid.New(), StateName: "limbo"}

		_, err := snap.State()
		assert.ErrorIs(t, err, flowstore.ErrUnknownState)
		assert.ErrorIs(t, snap.Validate(), flowstore.ErrUnknownState)
	})

	t.Run("requires a flow ID", func(t *testing.T) {
		t.Parallel()
		snap := flowstore.Snapshot{StateName: paymentflow.StateInitializing.Name()}

		assert.ErrorIs(t, snap.Validate(), flowstore.ErrMissingFlowID)
	})
}

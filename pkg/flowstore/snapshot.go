package flowstore

import (
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/dmitrymomot/payflow/pkg/paymentflow"
)

// Snapshot captures a payment flow at a point in time so it can be resumed
// after a restart. The error payload of an errored state survives only as
// text; the original error value belongs to the process that produced it.
type Snapshot struct {
	FlowID    uuid.UUID `json:"flow_id"`
	StateName string    `json:"state_name"`
	Error     string    `json:"error,omitempty"`
	WaitToken string    `json:"wait_token,omitempty"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Take builds a snapshot of the given flow state. waitToken carries the
// active status subscription token, empty if none.
func Take(flowID uuid.UUID, state paymentflow.State, waitToken string) Snapshot {
	snap := Snapshot{
		FlowID:    flowID,
		StateName: state.Name(),
		WaitToken: waitToken,
		UpdatedAt: time.Now().UTC(),
	}
	if err := state.Err(); err != nil {
		snap.Error = err.Error()
	}
	return snap
}

// State rehydrates the persisted state. An errored snapshot comes back as an
// errored state wrapping the recorded message.
func (s Snapshot) State() (paymentflow.State, error) {
	state, ok := paymentflow.StateFromName(s.StateName)
	if !ok {
		return paymentflow.State{}, ErrUnknownState
	}
	if state.IsErrored() && s.Error != "" {
		state = paymentflow.Errored(errors.New(s.Error))
	}
	return state, nil
}

// Validate reports whether the snapshot can be rehydrated.
func (s Snapshot) Validate() error {
	if s.FlowID == uuid.Nil {
		return ErrMissingFlowID
	}
	if _, ok := paymentflow.StateFromName(s.StateName); !ok {
		return ErrUnknownState
	}
	return nil
}

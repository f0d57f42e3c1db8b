package paymentflow

import "errors"

var (
	ErrInvalidInitialState = errors.New("initial state is required")
)

package flowstore

import "errors"

var (
	ErrSnapshotNotFound = errors.New("flow snapshot not found")
	ErrUnknownState     = errors.New("snapshot state name is not a known flow state")
	ErrMissingFlowID    = errors.New("snapshot flow ID is required")
	ErrInvalidSnapshot  = errors.New("invalid flow snapshot")

	ErrFailedToParseRedisConnString = errors.New("failed to parse redis connection string")
	ErrRedisNotReady                = errors.New("redis is not ready")
)

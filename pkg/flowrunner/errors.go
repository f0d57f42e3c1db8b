package flowrunner

import "errors"

var (
	ErrRunnerClosed   = errors.New("flow runner is closed")
	ErrParsingConfig  = errors.New("failed to parse flow runner config")
	ErrInvalidConfig  = errors.New("invalid flow runner config")
	ErrResumeSnapshot = errors.New("failed to resume flow from snapshot")
)

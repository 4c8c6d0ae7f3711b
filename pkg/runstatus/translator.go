// Package runstatus maps an upstream run lifecycle state to the coarse
// status label and progress percentage shown to users.
package runstatus

import "strings"

const (
	StatePending       = "PENDING"
	StateQueued        = "QUEUED"
	StateRunning       = "RUNNING"
	StateTerminating   = "TERMINATING"
	StateTerminated    = "TERMINATED"
	StateInternalError = "INTERNAL_ERROR"

	StatusCompleted = "completed"
	StatusError     = "error"
)

var progressByState = map[string]int{
	StatePending:     10,
	StateQueued:      20,
	StateRunning:     60,
	StateTerminating: 90,
	StateTerminated:  100,
}

// Translate returns the status label and progress (0-100) for a lifecycle state.
// Unknown states report progress 0 and their lower-cased name as status.
func Translate(lifecycleState string) (status string, progress int) {
	return Status(lifecycleState), Progress(lifecycleState)
}

func Progress(lifecycleState string) int {
	return progressByState[lifecycleState]
}

func Status(lifecycleState string) string {
	switch lifecycleState {
	case StateTerminated:
		return StatusCompleted
	case StateInternalError:
		return StatusError
	default:
		return strings.ToLower(lifecycleState)
	}
}

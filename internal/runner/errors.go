package runner

import (
	"fmt"
	"time"
)

// ResourceError reports a failure to create a pipe, start a process or
// read its output.
type ResourceError struct {
	Op  string
	Err error
}

func (e *ResourceError) Error() string {
	return fmt.Sprintf("failed to %s: %v", e.Op, e.Err)
}

func (e *ResourceError) Unwrap() error { return e.Err }

// AbnormalTerminationError reports a child that ended without exiting,
// typically because it was killed by a signal.
type AbnormalTerminationError struct {
	Name   string
	Signal string // empty when the platform cannot tell
	// Timeout is set when the runner killed the child for overrunning it.
	Timeout time.Duration
}

// TimedOut reports whether the runner killed the child at its deadline.
func (e *AbnormalTerminationError) TimedOut() bool { return e.Timeout > 0 }

func (e *AbnormalTerminationError) Error() string {
	if e.TimedOut() {
		return fmt.Sprintf("%s timed out after %s and was killed", e.Name, e.Timeout)
	}
	if e.Signal == "" {
		return fmt.Sprintf("%s terminated unexpectedly", e.Name)
	}
	return fmt.Sprintf("%s terminated unexpectedly (%s)", e.Name, e.Signal)
}

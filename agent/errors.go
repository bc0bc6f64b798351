package agent

import "errors"

var (
	// ErrNotFound is returned by stores when a thread or run id is unknown.
	ErrNotFound = errors.New("not found")
	// ErrInvalidArgument is returned for structurally invalid input, such as
	// an empty id or an id that would resolve outside a store's base directory.
	ErrInvalidArgument = errors.New("invalid argument")
	// ErrIllegalState is returned when an operation is attempted against a
	// record whose current status forbids it, such as cancelling a terminal run.
	ErrIllegalState = errors.New("illegal state")
	// ErrExecFailed wraps any error raised from within a user-supplied ExecRun.
	ErrExecFailed = errors.New("exec run failed")
	// ErrInvalidRunStateTransition is returned when a status transition is
	// not allowed by the run lifecycle table.
	ErrInvalidRunStateTransition = errors.New("invalid run state transition")
	// ErrRunTimedOut is the context.Cause set on a run's execution context
	// when its config.timeout_ms elapses before ExecRun finishes.
	ErrRunTimedOut = errors.New("run timed out")
)

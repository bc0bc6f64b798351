// Package store declares the durable record store contract (spec §4.1).
// Concrete implementations live in sibling packages: filestore (the default,
// atomic-write, file-backed store) and memstore (an in-memory substitute for
// tests and local development).
package store

import (
	"context"
	"fmt"

	"github.com/tegglabs/agentrt/agent"
)

// RecordStore is a persistent mapping from thread-id -> Thread and
// run-id -> Run, per spec §4.1.
type RecordStore interface {
	// Init creates any storage directories/resources if absent. Idempotent.
	Init(ctx context.Context) error
	// Destroy performs optional teardown. Implementations that need none
	// may no-op.
	Destroy(ctx context.Context) error

	CreateThread(ctx context.Context, metadata agent.Metadata) (agent.Thread, error)
	GetThread(ctx context.Context, id agent.ThreadID) (agent.Thread, error)
	// AppendMessages appends msgs, in order, to the thread's message history.
	// No concurrency control is provided: concurrent appends to the same
	// thread may lose messages (spec §4.1's documented limitation).
	AppendMessages(ctx context.Context, id agent.ThreadID, msgs []agent.Message) error

	CreateRun(ctx context.Context, input []agent.InputMessage, threadID agent.ThreadID, config *agent.RunConfig, metadata agent.Metadata) (agent.Run, error)
	GetRun(ctx context.Context, id agent.RunID) (agent.Run, error)
	// UpdateRun reads, shallow-merges, and writes back. partial must not
	// alter ID, Object, CreatedAt, or Input; RunPatch enforces this by
	// construction (it has no fields for them).
	UpdateRun(ctx context.Context, id agent.RunID, partial RunPatch) (agent.Run, error)
}

// RunPatch is a shallow-merge patch applied by UpdateRun. A nil pointer
// field leaves the corresponding Run field untouched.
type RunPatch struct {
	Status      *agent.RunStatus
	Output      []agent.Message
	SetOutput   bool
	LastError   *agent.LastError
	Usage       *agent.Usage
	StartedAt   *int64
	CompletedAt *int64
	CancelledAt *int64
	FailedAt    *int64
}

// NotFoundError builds the sentinel-wrapped error every RecordStore
// implementation returns for a missing kind/id pair.
func NotFoundError(kind, id string) error {
	return fmt.Errorf("%w: %s %q", agent.ErrNotFound, kind, id)
}

// ApplyRunPatch shallow-merges partial onto run and returns the result,
// leaving run untouched. Shared by filestore and memstore so patch
// semantics never drift between implementations.
func ApplyRunPatch(run agent.Run, partial RunPatch) agent.Run {
	next := agent.CloneRun(run)
	if partial.Status != nil {
		next.Status = *partial.Status
	}
	if partial.SetOutput {
		next.Output = agent.CloneMessages(partial.Output)
	}
	if partial.LastError != nil {
		errCopy := *partial.LastError
		next.LastError = &errCopy
	}
	if partial.Usage != nil {
		usageCopy := *partial.Usage
		next.Usage = &usageCopy
	}
	if partial.StartedAt != nil {
		v := *partial.StartedAt
		next.StartedAt = &v
	}
	if partial.CompletedAt != nil {
		v := *partial.CompletedAt
		next.CompletedAt = &v
	}
	if partial.CancelledAt != nil {
		v := *partial.CancelledAt
		next.CancelledAt = &v
	}
	if partial.FailedAt != nil {
		v := *partial.FailedAt
		next.FailedAt = &v
	}
	return next
}

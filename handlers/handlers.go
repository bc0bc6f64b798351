// Package handlers implements the seven default operations (spec component
// C3): createThread, getThread, syncRun, asyncRun, streamRun, getRun,
// cancelRun. Each operation is its own type holding only the collaborators
// it needs, composed by the runtime package's Builder around a
// user-supplied ExecRunner.
package handlers

import (
	"context"
	"time"

	"github.com/tegglabs/agentrt/agent"
	"github.com/tegglabs/agentrt/store"
	"github.com/tegglabs/agentrt/streamchunk"
)

// Result is one value produced by an ExecRunner: either a stream chunk or a
// terminal error. A closed channel with no trailing error means the
// generator finished successfully.
type Result struct {
	Chunk streamchunk.Chunk
	Err   error
}

// ExecRunner is the single interface a user implements. The runtime
// composes all seven handlers around it; ctx carries the run's cancel
// token, so a cooperative implementation can react promptly to cancelRun.
type ExecRunner interface {
	ExecRun(ctx context.Context, input []agent.InputMessage) (<-chan Result, error)
}

// CreateRunInput is the body accepted by /runs, /runs/wait, and
// /runs/stream.
type CreateRunInput struct {
	ThreadID agent.ThreadID   `json:"thread_id,omitempty"`
	Input    RunInput         `json:"input"`
	Config   *agent.RunConfig `json:"config,omitempty"`
	Metadata agent.Metadata   `json:"metadata,omitempty"`
}

// RunInput wraps the ordered input message sequence.
type RunInput struct {
	Messages []agent.InputMessage `json:"messages"`
}

// resolveThreadID returns threadID unchanged if set, else creates a fresh,
// empty-metadata thread and returns its id.
func resolveThreadID(ctx context.Context, s store.RecordStore, threadID agent.ThreadID) (agent.ThreadID, error) {
	if threadID != "" {
		return threadID, nil
	}
	thread, err := s.CreateThread(ctx, nil)
	if err != nil {
		return "", err
	}
	return thread.ID, nil
}

// execContext derives an ExecRun context carrying a deadline when
// config.timeout_ms is set, grounded on the teacher's policylimit
// middleware's context.WithTimeoutCause idiom, adapted here from an
// HTTP-request budget to a run-execution budget. The returned cancel must
// always be called to release the timer.
func execContext(ctx context.Context, config *agent.RunConfig) (context.Context, context.CancelFunc) {
	if config == nil || config.TimeoutMS <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeoutCause(ctx, time.Duration(config.TimeoutMS)*time.Millisecond, agent.ErrRunTimedOut)
}

// inputMessagesToMessages converts the non-system entries of input into
// thread history Messages, in order, associated with runID. Role-system
// entries are dropped per the thread-history invariant.
func inputMessagesToMessages(input []agent.InputMessage, runID agent.RunID, now int64) []agent.Message {
	var out []agent.Message
	for _, msg := range input {
		if msg.Role == agent.RoleSystem {
			continue
		}
		blocks := streamchunk.ToContentBlocks(&streamchunk.ChunkMessage{Role: msg.Role, Content: msg.Content})
		out = append(out, agent.NewMessage(msg.Role, runID, "", blocks, now))
	}
	return out
}

func nowUnix() int64 {
	return time.Now().Unix()
}

package handlers

import (
	"context"
	"errors"

	"github.com/tegglabs/agentrt/agent"
	"github.com/tegglabs/agentrt/inflight"
	"github.com/tegglabs/agentrt/store"
	"github.com/tegglabs/agentrt/streamchunk"
)

// AsyncRunHandler implements POST /runs: it returns immediately with a
// queued Run and finishes the drain-and-finalize protocol on a background
// task tracked in Tasks.
type AsyncRunHandler struct {
	Store   store.RecordStore
	ExecRun ExecRunner
	Tasks   *inflight.Registry
}

// Handle creates the run, launches its background execution, and returns
// without waiting for it.
func (h AsyncRunHandler) Handle(ctx context.Context, in CreateRunInput) (agent.Run, error) {
	threadID, err := resolveThreadID(ctx, h.Store, in.ThreadID)
	if err != nil {
		return agent.Run{}, err
	}

	run, err := h.Store.CreateRun(ctx, in.Input.Messages, threadID, in.Config, in.Metadata)
	if err != nil {
		return agent.Run{}, err
	}

	taskCtx, cancel := context.WithCancel(context.Background())
	task := h.Tasks.Register(run.ID, cancel)

	go h.runInBackground(taskCtx, task, run.ID, threadID, in.Input.Messages, in.Config)

	return run, nil
}

func (h AsyncRunHandler) runInBackground(ctx context.Context, task *inflight.Task, runID agent.RunID, threadID agent.ThreadID, input []agent.InputMessage, config *agent.RunConfig) {
	defer func() {
		h.Tasks.Remove(runID)
		close(task.Done)
	}()

	execCtx, cancelTimeout := execContext(ctx, config)
	defer cancelTimeout()

	startedAt := nowUnix()
	inProgress := agent.RunStatusInProgress
	if _, err := h.Store.UpdateRun(context.Background(), runID, store.RunPatch{Status: &inProgress, StartedAt: &startedAt}); err != nil {
		return
	}

	resultCh, err := h.ExecRun.ExecRun(execCtx, input)
	if err != nil {
		h.finalizeFailure(ctx, runID, err)
		return
	}

	var chunks []streamchunk.Chunk
	aborted := false

drain:
	for {
		select {
		case <-execCtx.Done():
			aborted = true
			break drain
		case res, ok := <-resultCh:
			if !ok {
				break drain
			}
			if res.Err != nil {
				h.finalizeFailure(ctx, runID, res.Err)
				return
			}
			chunks = append(chunks, res.Chunk)
		}
	}

	if aborted {
		// A timeout is this handler's own failure to report; cancelRun
		// aborting ctx itself is the caller's action, which owns the
		// terminal write, so only a timed-out execCtx is finalized here.
		if cause := context.Cause(execCtx); errors.Is(cause, agent.ErrRunTimedOut) {
			h.finalizeFailure(context.Background(), runID, cause)
		}
		return
	}

	completedAt := nowUnix()
	output, usage := streamchunk.Collect(chunks, runID, completedAt)

	completed := agent.RunStatusCompleted
	if _, err := h.Store.UpdateRun(context.Background(), runID, store.RunPatch{
		Status:      &completed,
		SetOutput:   true,
		Output:      output,
		Usage:       usage,
		CompletedAt: &completedAt,
	}); err != nil {
		return
	}

	threadMsgs := inputMessagesToMessages(input, runID, completedAt)
	threadMsgs = append(threadMsgs, output...)
	_ = h.Store.AppendMessages(context.Background(), threadID, threadMsgs)
}

// finalizeFailure persists a failed status unless the run was concurrently
// aborted, in which case cancelRun owns the terminal write.
func (h AsyncRunHandler) finalizeFailure(ctx context.Context, runID agent.RunID, execErr error) {
	if ctx.Err() != nil {
		return
	}
	failedAt := nowUnix()
	failed := agent.RunStatusFailed
	lastErr := &agent.LastError{Code: "EXEC_ERROR", Message: execErr.Error()}
	_, _ = h.Store.UpdateRun(context.Background(), runID, store.RunPatch{Status: &failed, LastError: lastErr, FailedAt: &failedAt})
}

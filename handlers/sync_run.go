package handlers

import (
	"context"
	"fmt"

	"github.com/tegglabs/agentrt/agent"
	"github.com/tegglabs/agentrt/store"
	"github.com/tegglabs/agentrt/streamchunk"
)

// SyncRunHandler implements POST /runs/wait: it drains execRun fully before
// returning.
type SyncRunHandler struct {
	Store   store.RecordStore
	ExecRun ExecRunner
}

// Handle creates and runs to completion, returning the terminal Run.
func (h SyncRunHandler) Handle(ctx context.Context, in CreateRunInput) (agent.Run, error) {
	threadID, err := resolveThreadID(ctx, h.Store, in.ThreadID)
	if err != nil {
		return agent.Run{}, err
	}

	run, err := h.Store.CreateRun(ctx, in.Input.Messages, threadID, in.Config, in.Metadata)
	if err != nil {
		return agent.Run{}, err
	}

	startedAt := nowUnix()
	inProgress := agent.RunStatusInProgress
	if run, err = h.Store.UpdateRun(ctx, run.ID, store.RunPatch{Status: &inProgress, StartedAt: &startedAt}); err != nil {
		return agent.Run{}, err
	}

	execCtx, cancel := execContext(ctx, in.Config)
	defer cancel()

	resultCh, err := h.ExecRun.ExecRun(execCtx, in.Input.Messages)
	if err != nil {
		return h.finalizeFailure(ctx, run.ID, err)
	}

	var chunks []streamchunk.Chunk
	for res := range resultCh {
		if res.Err != nil {
			return h.finalizeFailure(ctx, run.ID, res.Err)
		}
		chunks = append(chunks, res.Chunk)
	}

	completedAt := nowUnix()
	output, usage := streamchunk.Collect(chunks, run.ID, completedAt)

	completed := agent.RunStatusCompleted
	if run, err = h.Store.UpdateRun(ctx, run.ID, store.RunPatch{
		Status:      &completed,
		SetOutput:   true,
		Output:      output,
		Usage:       usage,
		CompletedAt: &completedAt,
	}); err != nil {
		return agent.Run{}, err
	}

	threadMsgs := inputMessagesToMessages(in.Input.Messages, run.ID, completedAt)
	threadMsgs = append(threadMsgs, output...)
	if err := h.Store.AppendMessages(ctx, threadID, threadMsgs); err != nil {
		return agent.Run{}, err
	}

	return run, nil
}

// finalizeFailure records execErr as the run's terminal failure and
// re-raises it. A store failure while recording must not mask execErr.
func (h SyncRunHandler) finalizeFailure(ctx context.Context, runID agent.RunID, execErr error) (agent.Run, error) {
	failedAt := nowUnix()
	failed := agent.RunStatusFailed
	lastErr := &agent.LastError{Code: "EXEC_ERROR", Message: execErr.Error()}

	if _, err := h.Store.UpdateRun(ctx, runID, store.RunPatch{Status: &failed, LastError: lastErr, FailedAt: &failedAt}); err != nil {
		return agent.Run{}, fmt.Errorf("%w: %v (store update also failed: %v)", agent.ErrExecFailed, execErr, err)
	}
	return agent.Run{}, fmt.Errorf("%w: %v", agent.ErrExecFailed, execErr)
}

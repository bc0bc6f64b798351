package handlers

import (
	"context"
	"fmt"

	"github.com/tegglabs/agentrt/agent"
	"github.com/tegglabs/agentrt/store"
	"github.com/tegglabs/agentrt/streamchunk"
)

// StreamWriter is the narrow capability streamRun needs from the SSE
// transport: frame a named event, and emit the terminal done frame. The
// concrete implementation lives in package sse; this interface keeps
// handlers free of any net/http dependency.
type StreamWriter interface {
	WriteEvent(name string, payload any) error
	WriteDone() error
}

// StreamRunHandler implements POST /runs/stream. It is the most elaborate
// of the seven: it inlines the stream adapter's per-chunk logic so content
// is written to the wire as it is produced, never buffered for the whole
// response.
type StreamRunHandler struct {
	Store   store.RecordStore
	ExecRun ExecRunner
}

type messageDelta struct {
	ID     agent.MessageID  `json:"id"`
	Object string           `json:"object"`
	Delta  messageDeltaBody `json:"delta"`
}

type messageDeltaBody struct {
	Content []agent.ContentBlock `json:"content"`
}

// Handle runs execRun to completion, writing the exact SSE event sequence
// from creation through the terminal done frame. A w write failure aborts
// the handler immediately; execRun failures instead redirect the terminal
// frame to thread.run.failed while the done frame is always still emitted.
func (h StreamRunHandler) Handle(ctx context.Context, in CreateRunInput, w StreamWriter) error {
	threadID, err := resolveThreadID(ctx, h.Store, in.ThreadID)
	if err != nil {
		return err
	}

	run, err := h.Store.CreateRun(ctx, in.Input.Messages, threadID, in.Config, in.Metadata)
	if err != nil {
		return err
	}
	if err := w.WriteEvent("thread.run.created", run); err != nil {
		return err
	}

	startedAt := nowUnix()
	inProgress := agent.RunStatusInProgress
	if run, err = h.Store.UpdateRun(ctx, run.ID, store.RunPatch{Status: &inProgress, StartedAt: &startedAt}); err != nil {
		return err
	}
	if err := w.WriteEvent("thread.run.in_progress", run); err != nil {
		return err
	}

	message := agent.NewMessage(agent.RoleAssistant, run.ID, threadID, []agent.ContentBlock{}, startedAt)
	message.Status = agent.MessageStatusInProgress
	if err := w.WriteEvent("thread.message.created", message); err != nil {
		return err
	}

	execCtx, cancel := execContext(ctx, in.Config)
	defer cancel()

	resultCh, execErr := h.ExecRun.ExecRun(execCtx, in.Input.Messages)

	var usageAcc agent.Usage
	hasUsage := false
	producedAny := false

	if execErr == nil {
	drain:
		for res := range resultCh {
			if res.Err != nil {
				execErr = res.Err
				break drain
			}
			chunk := res.Chunk
			if chunk.Message != nil {
				blocks := streamchunk.ToContentBlocks(chunk.Message)
				message.Content = append(message.Content, blocks...)
				producedAny = true
				delta := messageDelta{ID: message.ID, Object: "thread.message.delta", Delta: messageDeltaBody{Content: blocks}}
				if err := w.WriteEvent("thread.message.delta", delta); err != nil {
					return err
				}
			}
			if chunk.Usage != nil {
				usageAcc.PromptTokens += chunk.Usage.PromptTokens
				usageAcc.CompletionTokens += chunk.Usage.CompletionTokens
				hasUsage = true
			}
		}
	}

	if execErr != nil {
		return h.finalizeFailure(ctx, w, run.ID, execErr)
	}

	completedAt := nowUnix()
	message.Status = agent.MessageStatusCompleted
	if err := w.WriteEvent("thread.message.completed", message); err != nil {
		return err
	}

	var usage *agent.Usage
	if hasUsage {
		usageAcc.TotalTokens = usageAcc.PromptTokens + usageAcc.CompletionTokens
		usage = &usageAcc
	}

	var output []agent.Message
	if producedAny {
		output = []agent.Message{message}
	}

	completed := agent.RunStatusCompleted
	if run, err = h.Store.UpdateRun(ctx, run.ID, store.RunPatch{
		Status:      &completed,
		SetOutput:   true,
		Output:      output,
		Usage:       usage,
		CompletedAt: &completedAt,
	}); err != nil {
		return err
	}
	if err := w.WriteEvent("thread.run.completed", run); err != nil {
		return err
	}

	threadMsgs := inputMessagesToMessages(in.Input.Messages, run.ID, completedAt)
	threadMsgs = append(threadMsgs, output...)
	_ = h.Store.AppendMessages(ctx, threadID, threadMsgs)

	return w.WriteDone()
}

// finalizeFailure persists the failed status, emits thread.run.failed in
// place of the completed pair, and guarantees the done frame is released
// regardless of what happens while recording the failure.
func (h StreamRunHandler) finalizeFailure(ctx context.Context, w StreamWriter, runID agent.RunID, execErr error) error {
	defer func() { _ = w.WriteDone() }()

	failedAt := nowUnix()
	failed := agent.RunStatusFailed
	lastErr := &agent.LastError{Code: "EXEC_ERROR", Message: execErr.Error()}

	run, storeErr := h.Store.UpdateRun(ctx, runID, store.RunPatch{Status: &failed, LastError: lastErr, FailedAt: &failedAt})
	if storeErr != nil {
		_ = w.WriteEvent("thread.run.failed", map[string]any{"id": runID, "last_error": lastErr})
		return fmt.Errorf("%w: %v (store update also failed: %v)", agent.ErrExecFailed, execErr, storeErr)
	}

	if err := w.WriteEvent("thread.run.failed", run); err != nil {
		return err
	}
	return fmt.Errorf("%w: %v", agent.ErrExecFailed, execErr)
}

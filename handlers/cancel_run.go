package handlers

import (
	"context"
	"fmt"

	"github.com/tegglabs/agentrt/agent"
	"github.com/tegglabs/agentrt/inflight"
	"github.com/tegglabs/agentrt/store"
)

// CancelRunHandler implements POST /runs/:id/cancel.
type CancelRunHandler struct {
	Store store.RecordStore
	Tasks *inflight.Registry
}

// Handle aborts any in-flight background task for runID, awaits its
// settlement, then persists the cancelled status. It raises
// agent.ErrIllegalState if the run has already reached a terminal status —
// abort-await happens first so the terminal check always sees the
// background writer's final state, not a stale one.
func (h CancelRunHandler) Handle(ctx context.Context, runID agent.RunID) (agent.Run, error) {
	if task, ok := h.Tasks.Lookup(runID); ok {
		task.Cancel()
		<-task.Done
	}

	run, err := h.Store.GetRun(ctx, runID)
	if err != nil {
		return agent.Run{}, err
	}

	if agent.IsTerminal(run.Status) {
		return agent.Run{}, fmt.Errorf("%w: cannot cancel run with status %q", agent.ErrIllegalState, run.Status)
	}

	cancelledAt := nowUnix()
	cancelled := agent.RunStatusCancelled
	return h.Store.UpdateRun(ctx, runID, store.RunPatch{Status: &cancelled, CancelledAt: &cancelledAt})
}

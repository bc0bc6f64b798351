package handlers_test

import (
	"context"
	"testing"
	"time"

	"github.com/tegglabs/agentrt/agent"
	"github.com/tegglabs/agentrt/handlers"
	"github.com/tegglabs/agentrt/inflight"
	"github.com/tegglabs/agentrt/store/memstore"
)

// TestAsyncRunHandler_BackgroundCompletion covers scenario S3: the handler
// returns queued immediately, then the background task settles within a
// bounded wait.
func TestAsyncRunHandler_BackgroundCompletion(t *testing.T) {
	t.Parallel()

	s := memstore.New()
	tasks := inflight.New()
	exec := &scriptedExecRunner{results: []handlers.Result{
		chunkResult("Processed 1 messages"),
		usageResult(10, 5),
	}}
	h := handlers.AsyncRunHandler{Store: s, ExecRun: exec, Tasks: tasks}

	in := handlers.CreateRunInput{Input: handlers.RunInput{Messages: []agent.InputMessage{{Role: agent.RoleUser, Content: "hi"}}}}
	run, err := h.Handle(context.Background(), in)
	if err != nil {
		t.Fatalf("handle: %v", err)
	}
	if run.Status != agent.RunStatusQueued {
		t.Fatalf("expected queued, got %s", run.Status)
	}
	if run.ThreadID == "" {
		t.Fatalf("expected a thread id")
	}

	deadline := time.Now().Add(time.Second)
	for {
		got, err := s.GetRun(context.Background(), run.ID)
		if err != nil {
			t.Fatalf("get run: %v", err)
		}
		if got.Status == agent.RunStatusCompleted {
			if len(got.Output) != 1 || got.Output[0].Content[0].Text.Value != "Processed 1 messages" {
				t.Fatalf("unexpected completed output: %+v", got.Output)
			}
			break
		}
		if time.Now().After(deadline) {
			t.Fatalf("run did not complete within bounded wait, last status %s", got.Status)
		}
		time.Sleep(time.Millisecond)
	}

	if _, ok := tasks.Lookup(run.ID); ok {
		t.Fatalf("expected task to be removed from the registry after completion")
	}
}

// TestAsyncRunHandler_TimeoutMarksRunFailed covers config.timeout_ms
// enforcement: a run whose ExecRunner outlives its budget is persisted as
// failed rather than left in_progress forever, and the failure is
// distinguishable from an operator cancelRun.
func TestAsyncRunHandler_TimeoutMarksRunFailed(t *testing.T) {
	t.Parallel()

	s := memstore.New()
	tasks := inflight.New()
	exec := &scriptedExecRunner{
		results:          []handlers.Result{chunkResult("too slow")},
		delayBeforeIndex: 0,
		delayDuration:    50 * time.Millisecond,
	}
	h := handlers.AsyncRunHandler{Store: s, ExecRun: exec, Tasks: tasks}

	in := handlers.CreateRunInput{
		Input:  handlers.RunInput{Messages: []agent.InputMessage{{Role: agent.RoleUser, Content: "hi"}}},
		Config: &agent.RunConfig{TimeoutMS: 5},
	}
	run, err := h.Handle(context.Background(), in)
	if err != nil {
		t.Fatalf("handle: %v", err)
	}

	deadline := time.Now().Add(time.Second)
	for {
		got, err := s.GetRun(context.Background(), run.ID)
		if err != nil {
			t.Fatalf("get run: %v", err)
		}
		if got.Status == agent.RunStatusFailed {
			if got.LastError == nil {
				t.Fatalf("expected a last_error recorded for the timed-out run")
			}
			break
		}
		if got.Status == agent.RunStatusCompleted {
			t.Fatalf("expected the run to time out before completing")
		}
		if time.Now().After(deadline) {
			t.Fatalf("run did not fail within bounded wait, last status %s", got.Status)
		}
		time.Sleep(time.Millisecond)
	}
}

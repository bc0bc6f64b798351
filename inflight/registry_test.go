package inflight_test

import (
	"context"
	"testing"
	"time"

	"github.com/tegglabs/agentrt/agent"
	"github.com/tegglabs/agentrt/inflight"
)

func TestRegistry_RegisterLookupRemove(t *testing.T) {
	t.Parallel()

	r := inflight.New()
	runID := agent.RunID("run_1")

	_, cancel := context.WithCancel(context.Background())
	defer cancel()
	task := r.Register(runID, cancel)
	if task == nil {
		t.Fatalf("expected a task")
	}

	found, ok := r.Lookup(runID)
	if !ok || found != task {
		t.Fatalf("expected to find the registered task")
	}

	r.Remove(runID)
	if _, ok := r.Lookup(runID); ok {
		t.Fatalf("expected task to be gone after remove")
	}
}

func TestRegistry_LookupMissingReturnsFalse(t *testing.T) {
	t.Parallel()

	r := inflight.New()
	_, ok := r.Lookup(agent.RunID("run_missing"))
	if ok {
		t.Fatalf("expected no task for unregistered run id")
	}
}

func TestRegistry_AwaitAllBlocksUntilTasksSettle(t *testing.T) {
	t.Parallel()

	r := inflight.New()
	_, cancel := context.WithCancel(context.Background())
	defer cancel()
	task := r.Register(agent.RunID("run_1"), cancel)

	settled := make(chan struct{})
	go func() {
		time.Sleep(10 * time.Millisecond)
		close(task.Done)
		close(settled)
	}()

	done := make(chan struct{})
	go func() {
		r.AwaitAll(context.Background())
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatalf("AwaitAll did not return after task settled")
	}
	<-settled
}

func TestRegistry_AwaitAllReturnsImmediatelyWhenEmpty(t *testing.T) {
	t.Parallel()

	r := inflight.New()
	done := make(chan struct{})
	go func() {
		r.AwaitAll(context.Background())
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatalf("AwaitAll did not return immediately for an empty registry")
	}
}

func TestRegistry_AwaitAllRespectsContextCancellation(t *testing.T) {
	t.Parallel()

	r := inflight.New()
	_, cancel := context.WithCancel(context.Background())
	defer cancel()
	r.Register(agent.RunID("run_stuck"), cancel)

	ctx, cancelAwait := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancelAwait()

	done := make(chan struct{})
	go func() {
		r.AwaitAll(ctx)
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatalf("AwaitAll did not respect context deadline")
	}
}

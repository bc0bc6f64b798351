// Package inflight is the in-flight task registry (spec component C4's
// shared state): a mapping from run id to a cancel handle and a completion
// signal, guarded by one mutex. Grounded on the cancel/finalize ordering
// discipline: insert and delete happen under the lock, and a lookup returns
// the task pointer, whose fields never change after Register, so the caller
// can act on it without holding the lock across a blocking await.
package inflight

import (
	"context"
	"sync"

	"github.com/tegglabs/agentrt/agent"
)

// Task is a background execution tracked between async acceptance and
// terminal completion.
type Task struct {
	Cancel context.CancelFunc
	Done   chan struct{}
}

// Registry tracks in-flight tasks for a single agent instance.
type Registry struct {
	mu    sync.Mutex
	tasks map[agent.RunID]*Task
}

// New returns an empty registry.
func New() *Registry {
	return &Registry{tasks: make(map[agent.RunID]*Task)}
}

// Register inserts a new task for runID and returns it. The caller owns
// closing Done exactly once, on every exit path of the background work.
func (r *Registry) Register(runID agent.RunID, cancel context.CancelFunc) *Task {
	task := &Task{Cancel: cancel, Done: make(chan struct{})}

	r.mu.Lock()
	r.tasks[runID] = task
	r.mu.Unlock()

	return task
}

// Lookup returns the task for runID, if any is currently in flight.
func (r *Registry) Lookup(runID agent.RunID) (*Task, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	task, ok := r.tasks[runID]
	return task, ok
}

// Remove drops runID from the registry. Safe to call even if runID is
// absent.
func (r *Registry) Remove(runID agent.RunID) {
	r.mu.Lock()
	delete(r.tasks, runID)
	r.mu.Unlock()
}

// AwaitAll blocks until every task currently registered has settled, or ctx
// is done. Errors from individual tasks are not surfaced: teardown never
// rethrows.
func (r *Registry) AwaitAll(ctx context.Context) {
	r.mu.Lock()
	dones := make([]chan struct{}, 0, len(r.tasks))
	for _, task := range r.tasks {
		dones = append(dones, task.Done)
	}
	r.mu.Unlock()

	for _, done := range dones {
		select {
		case <-done:
		case <-ctx.Done():
			return
		}
	}
}

// Package memstore is an in-memory RecordStore, grounded on the teacher's
// runstore/inmem store: a mutex-guarded map, widened here from run-only to
// thread+run. It is suited to tests and local development, not production
// durability.
package memstore

import (
	"context"
	"sync"
	"time"

	"github.com/tegglabs/agentrt/agent"
	"github.com/tegglabs/agentrt/store"
)

// Store persists threads and runs in memory, guarded by a single mutex.
type Store struct {
	mu      sync.RWMutex
	threads map[agent.ThreadID]agent.Thread
	runs    map[agent.RunID]agent.Run
}

var _ store.RecordStore = (*Store)(nil)

// New returns an empty in-memory store.
func New() *Store {
	return &Store{
		threads: make(map[agent.ThreadID]agent.Thread),
		runs:    make(map[agent.RunID]agent.Run),
	}
}

func (s *Store) Init(context.Context) error    { return nil }
func (s *Store) Destroy(context.Context) error { return nil }

func (s *Store) CreateThread(ctx context.Context, metadata agent.Metadata) (agent.Thread, error) {
	if err := ctx.Err(); err != nil {
		return agent.Thread{}, err
	}
	thread := agent.NewThread(metadata, now())

	s.mu.Lock()
	defer s.mu.Unlock()
	s.threads[thread.ID] = agent.CloneThread(thread)
	return agent.CloneThread(thread), nil
}

func (s *Store) GetThread(ctx context.Context, id agent.ThreadID) (agent.Thread, error) {
	if err := ctx.Err(); err != nil {
		return agent.Thread{}, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	thread, ok := s.threads[id]
	if !ok {
		return agent.Thread{}, store.NotFoundError("thread", string(id))
	}
	return agent.CloneThread(thread), nil
}

func (s *Store) AppendMessages(ctx context.Context, id agent.ThreadID, msgs []agent.Message) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	thread, ok := s.threads[id]
	if !ok {
		return store.NotFoundError("thread", string(id))
	}
	thread.Messages = append(thread.Messages, agent.CloneMessages(msgs)...)
	s.threads[id] = thread
	return nil
}

func (s *Store) CreateRun(ctx context.Context, input []agent.InputMessage, threadID agent.ThreadID, config *agent.RunConfig, metadata agent.Metadata) (agent.Run, error) {
	if err := ctx.Err(); err != nil {
		return agent.Run{}, err
	}
	run := agent.NewRun(input, threadID, config, metadata, now())

	s.mu.Lock()
	defer s.mu.Unlock()
	s.runs[run.ID] = agent.CloneRun(run)
	return agent.CloneRun(run), nil
}

func (s *Store) GetRun(ctx context.Context, id agent.RunID) (agent.Run, error) {
	if err := ctx.Err(); err != nil {
		return agent.Run{}, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	run, ok := s.runs[id]
	if !ok {
		return agent.Run{}, store.NotFoundError("run", string(id))
	}
	return agent.CloneRun(run), nil
}

func (s *Store) UpdateRun(ctx context.Context, id agent.RunID, partial store.RunPatch) (agent.Run, error) {
	if err := ctx.Err(); err != nil {
		return agent.Run{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	run, ok := s.runs[id]
	if !ok {
		return agent.Run{}, store.NotFoundError("run", string(id))
	}
	next := store.ApplyRunPatch(run, partial)
	s.runs[id] = next
	return agent.CloneRun(next), nil
}

func now() int64 {
	return time.Now().Unix()
}

package filestore_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/tegglabs/agentrt/agent"
	"github.com/tegglabs/agentrt/store"
	"github.com/tegglabs/agentrt/store/filestore"
)

func newTestStore(t *testing.T) *filestore.Store {
	t.Helper()
	dir := t.TempDir()
	s := filestore.New(dir)
	if err := s.Init(context.Background()); err != nil {
		t.Fatalf("init: %v", err)
	}
	return s
}

func TestStore_CreateThreadPersistsAcrossInstances(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	s1 := filestore.New(dir)
	if err := s1.Init(context.Background()); err != nil {
		t.Fatalf("init: %v", err)
	}
	thread, err := s1.CreateThread(context.Background(), agent.Metadata{"k": "v"})
	if err != nil {
		t.Fatalf("create thread: %v", err)
	}

	s2 := filestore.New(dir)
	loaded, err := s2.GetThread(context.Background(), thread.ID)
	if err != nil {
		t.Fatalf("get thread from fresh instance: %v", err)
	}
	if loaded.ID != thread.ID || loaded.Metadata["k"] != "v" {
		t.Fatalf("unexpected loaded thread: %+v", loaded)
	}
}

func TestStore_GetThreadNotFound(t *testing.T) {
	t.Parallel()

	s := newTestStore(t)
	_, err := s.GetThread(context.Background(), agent.ThreadID("thread_missing"))
	if !errors.Is(err, agent.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestStore_AppendMessagesAccumulates(t *testing.T) {
	t.Parallel()

	s := newTestStore(t)
	thread, err := s.CreateThread(context.Background(), nil)
	if err != nil {
		t.Fatalf("create thread: %v", err)
	}

	msg := agent.NewMessage(agent.RoleUser, "", thread.ID, []agent.ContentBlock{agent.NewTextBlock("hi")}, 1)
	if err := s.AppendMessages(context.Background(), thread.ID, []agent.Message{msg}); err != nil {
		t.Fatalf("append: %v", err)
	}

	loaded, err := s.GetThread(context.Background(), thread.ID)
	if err != nil {
		t.Fatalf("get thread: %v", err)
	}
	if len(loaded.Messages) != 1 || loaded.Messages[0].Content[0].Text.Value != "hi" {
		t.Fatalf("unexpected messages: %+v", loaded.Messages)
	}
}

func TestStore_CreateRunAndUpdateRunPersist(t *testing.T) {
	t.Parallel()

	s := newTestStore(t)
	run, err := s.CreateRun(context.Background(), nil, agent.ThreadID("thread_x"), nil, nil)
	if err != nil {
		t.Fatalf("create run: %v", err)
	}

	completed := agent.RunStatusCompleted
	completedAt := int64(42)
	updated, err := s.UpdateRun(context.Background(), run.ID, store.RunPatch{
		Status:      &completed,
		CompletedAt: &completedAt,
		SetOutput:   true,
		Output:      []agent.Message{agent.NewMessage(agent.RoleAssistant, run.ID, "thread_x", []agent.ContentBlock{agent.NewTextBlock("done")}, 43)},
	})
	if err != nil {
		t.Fatalf("update run: %v", err)
	}
	if updated.Status != agent.RunStatusCompleted {
		t.Fatalf("expected completed, got %s", updated.Status)
	}
	if len(updated.Output) != 1 {
		t.Fatalf("expected 1 output message, got %d", len(updated.Output))
	}

	reloaded, err := s.GetRun(context.Background(), run.ID)
	if err != nil {
		t.Fatalf("get run: %v", err)
	}
	if reloaded.Status != agent.RunStatusCompleted || reloaded.CompletedAt == nil || *reloaded.CompletedAt != completedAt {
		t.Fatalf("patch did not persist: %+v", reloaded)
	}
}

func TestStore_UpdateRunNotFound(t *testing.T) {
	t.Parallel()

	s := newTestStore(t)
	_, err := s.UpdateRun(context.Background(), agent.RunID("run_missing"), store.RunPatch{})
	if !errors.Is(err, agent.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestStore_RejectsPathTraversalIDs(t *testing.T) {
	t.Parallel()

	s := newTestStore(t)
	maliciousIDs := []agent.ThreadID{
		"../../etc/passwd",
		"../escape",
		"a/../../b",
		"",
	}
	for _, id := range maliciousIDs {
		id := id
		t.Run(string(id), func(t *testing.T) {
			t.Parallel()
			_, err := s.GetThread(context.Background(), id)
			if err == nil {
				t.Fatalf("expected error for id %q, got nil", id)
			}
			if errors.Is(err, agent.ErrNotFound) {
				t.Fatalf("path-traversal id %q must not resolve to a plain not-found lookup", id)
			}
			if !errors.Is(err, agent.ErrInvalidArgument) {
				t.Fatalf("expected ErrInvalidArgument for id %q, got %v", id, err)
			}
		})
	}
}

func TestStore_WriteJSONAtomicLeavesNoTempFilesBehind(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	s := filestore.New(dir)
	if err := s.Init(context.Background()); err != nil {
		t.Fatalf("init: %v", err)
	}
	if _, err := s.CreateThread(context.Background(), nil); err != nil {
		t.Fatalf("create thread: %v", err)
	}

	entries, err := os.ReadDir(filepath.Join(dir, "threads"))
	if err != nil {
		t.Fatalf("read threads dir: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("expected exactly 1 file, got %d: %+v", len(entries), entries)
	}
	if filepath.Ext(entries[0].Name()) != ".json" {
		t.Fatalf("expected a .json file, got %q", entries[0].Name())
	}
}

func TestStore_InitIsIdempotent(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	s := filestore.New(dir)
	if err := s.Init(context.Background()); err != nil {
		t.Fatalf("first init: %v", err)
	}
	if err := s.Init(context.Background()); err != nil {
		t.Fatalf("second init: %v", err)
	}
}

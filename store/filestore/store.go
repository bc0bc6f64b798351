// Package filestore is the default durable RecordStore: one JSON file per
// thread and per run under a data directory, written atomically via a
// temp-file-then-rename, grounded on the pattern in HyphaGroup-oubliette's
// session manager (tmpPath + os.Rename) and path-guarded on the teacher's
// examples/coding-agent toolset.Policy.ResolvePath.
package filestore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/tegglabs/agentrt/agent"
	"github.com/tegglabs/agentrt/store"
)

var errInvalidID = fmt.Errorf("%w: filestore invalid id", agent.ErrInvalidArgument)

const (
	threadsDirName = "threads"
	runsDirName    = "runs"
	jsonSuffix     = ".json"
	dirPerm        = 0o755
	filePerm       = 0o644
)

// Store is a RecordStore backed by <DataDir>/threads/<id>.json and
// <DataDir>/runs/<id>.json files.
type Store struct {
	dataDir    string
	threadsDir string
	runsDir    string
}

var _ store.RecordStore = (*Store)(nil)

// New returns a Store rooted at dataDir. Call Init before use.
func New(dataDir string) *Store {
	return &Store{
		dataDir:    dataDir,
		threadsDir: filepath.Join(dataDir, threadsDirName),
		runsDir:    filepath.Join(dataDir, runsDirName),
	}
}

func (s *Store) Init(context.Context) error {
	if err := os.MkdirAll(s.threadsDir, dirPerm); err != nil {
		return fmt.Errorf("filestore: create threads dir: %w", err)
	}
	if err := os.MkdirAll(s.runsDir, dirPerm); err != nil {
		return fmt.Errorf("filestore: create runs dir: %w", err)
	}
	return nil
}

func (s *Store) Destroy(context.Context) error { return nil }

func (s *Store) CreateThread(ctx context.Context, metadata agent.Metadata) (agent.Thread, error) {
	if err := ctx.Err(); err != nil {
		return agent.Thread{}, err
	}
	thread := agent.NewThread(metadata, nowUnix())

	path, err := idPath(s.threadsDir, string(thread.ID), jsonSuffix)
	if err != nil {
		return agent.Thread{}, err
	}
	if err := writeJSONAtomic(path, thread); err != nil {
		return agent.Thread{}, fmt.Errorf("filestore: create thread: %w", err)
	}
	return thread, nil
}

func (s *Store) GetThread(ctx context.Context, id agent.ThreadID) (agent.Thread, error) {
	if err := ctx.Err(); err != nil {
		return agent.Thread{}, err
	}
	path, err := idPath(s.threadsDir, string(id), jsonSuffix)
	if err != nil {
		return agent.Thread{}, err
	}

	var thread agent.Thread
	if err := readJSON(path, &thread); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return agent.Thread{}, store.NotFoundError("thread", string(id))
		}
		return agent.Thread{}, fmt.Errorf("filestore: get thread: %w", err)
	}
	return thread, nil
}

func (s *Store) AppendMessages(ctx context.Context, id agent.ThreadID, msgs []agent.Message) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	path, err := idPath(s.threadsDir, string(id), jsonSuffix)
	if err != nil {
		return err
	}

	var thread agent.Thread
	if err := readJSON(path, &thread); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return store.NotFoundError("thread", string(id))
		}
		return fmt.Errorf("filestore: append messages: %w", err)
	}

	thread.Messages = append(thread.Messages, agent.CloneMessages(msgs)...)
	if err := writeJSONAtomic(path, thread); err != nil {
		return fmt.Errorf("filestore: append messages: %w", err)
	}
	return nil
}

func (s *Store) CreateRun(ctx context.Context, input []agent.InputMessage, threadID agent.ThreadID, config *agent.RunConfig, metadata agent.Metadata) (agent.Run, error) {
	if err := ctx.Err(); err != nil {
		return agent.Run{}, err
	}
	run := agent.NewRun(input, threadID, config, metadata, nowUnix())

	path, err := idPath(s.runsDir, string(run.ID), jsonSuffix)
	if err != nil {
		return agent.Run{}, err
	}
	if err := writeJSONAtomic(path, run); err != nil {
		return agent.Run{}, fmt.Errorf("filestore: create run: %w", err)
	}
	return run, nil
}

func (s *Store) GetRun(ctx context.Context, id agent.RunID) (agent.Run, error) {
	if err := ctx.Err(); err != nil {
		return agent.Run{}, err
	}
	path, err := idPath(s.runsDir, string(id), jsonSuffix)
	if err != nil {
		return agent.Run{}, err
	}

	var run agent.Run
	if err := readJSON(path, &run); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return agent.Run{}, store.NotFoundError("run", string(id))
		}
		return agent.Run{}, fmt.Errorf("filestore: get run: %w", err)
	}
	return run, nil
}

func (s *Store) UpdateRun(ctx context.Context, id agent.RunID, partial store.RunPatch) (agent.Run, error) {
	if err := ctx.Err(); err != nil {
		return agent.Run{}, err
	}
	path, err := idPath(s.runsDir, string(id), jsonSuffix)
	if err != nil {
		return agent.Run{}, err
	}

	var run agent.Run
	if err := readJSON(path, &run); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return agent.Run{}, store.NotFoundError("run", string(id))
		}
		return agent.Run{}, fmt.Errorf("filestore: update run: %w", err)
	}

	next := store.ApplyRunPatch(run, partial)
	if err := writeJSONAtomic(path, next); err != nil {
		return agent.Run{}, fmt.Errorf("filestore: update run: %w", err)
	}
	return next, nil
}

func readJSON(path string, dest any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return json.Unmarshal(data, dest)
}

// writeJSONAtomic marshals v and replaces path's contents in one atomic
// rename, so a concurrent reader never observes a partial write. The temp
// file carries a uuid suffix so concurrent writers to the same path never
// collide on the temp name itself.
func writeJSONAtomic(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal: %w", err)
	}

	tmpPath := fmt.Sprintf("%s.%s.tmp", path, uuid.NewString())
	if err := os.WriteFile(tmpPath, data, filePerm); err != nil {
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("rename temp file: %w", err)
	}
	return nil
}

func nowUnix() int64 {
	return time.Now().Unix()
}

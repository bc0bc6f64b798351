// Package runtime is the Agent Enhancer (spec component C4): a one-time
// binding that composes a user's ExecRunner with the seven Default
// Handlers, a shared record store, and an in-flight task registry.
// Grounded on the teacher's runtimewire.Runtime composition style, widened
// from the teacher's Runner/EventSink/StreamBroker trio to this spec's
// store+handlers+task-registry trio.
package runtime

import (
	"context"
	"errors"
	"os"
	"path/filepath"

	"github.com/tegglabs/agentrt/handlers"
	"github.com/tegglabs/agentrt/inflight"
	"github.com/tegglabs/agentrt/store"
	"github.com/tegglabs/agentrt/store/filestore"
)

// ErrExecRunRequired is returned by Build when no ExecRunner was supplied.
var ErrExecRunRequired = errors.New("runtime: ExecRun is required")

const defaultDataDirName = ".agent-data"

// dataDirEnvVar names the environment variable that overrides the default
// file store's root directory when a Builder is given no Store. It is a
// different variable from config.Config.DataDir's AGENTRT_DATA_DIR.
const dataDirEnvVar = "TEGG_AGENT_DATA_DIR"

// Builder composes an Agent from a user-supplied ExecRunner and optional
// overrides. Build must run exactly once per agent instance, before any
// HTTP traffic reaches the resulting Agent.
type Builder struct {
	// ExecRun is the user's single required generator. Required.
	ExecRun handlers.ExecRunner
	// Store, if set, overrides the default file store. Useful for tests
	// and for hosts that want a different persistence backend.
	Store store.RecordStore
}

// Agent is the fully wired runtime: a record store, an in-flight task
// registry, and the seven Default Handlers composed around them.
type Agent struct {
	store store.RecordStore
	tasks *inflight.Registry

	CreateThread handlers.CreateThreadHandler
	GetThread    handlers.GetThreadHandler
	SyncRun      handlers.SyncRunHandler
	AsyncRun     handlers.AsyncRunHandler
	StreamRun    handlers.StreamRunHandler
	GetRun       handlers.GetRunHandler
	CancelRun    handlers.CancelRunHandler
}

// Build wires the Agent: it resolves (or constructs) the store, calls its
// Init, creates an empty in-flight task registry, and composes the seven
// handlers around them.
func (b Builder) Build(ctx context.Context) (*Agent, error) {
	if b.ExecRun == nil {
		return nil, ErrExecRunRequired
	}

	s := b.Store
	if s == nil {
		s = filestore.New(DefaultDataDir())
	}
	if err := s.Init(ctx); err != nil {
		return nil, err
	}

	tasks := inflight.New()

	return &Agent{
		store: s,
		tasks: tasks,

		CreateThread: handlers.CreateThreadHandler{Store: s},
		GetThread:    handlers.GetThreadHandler{Store: s},
		SyncRun:      handlers.SyncRunHandler{Store: s, ExecRun: b.ExecRun},
		AsyncRun:     handlers.AsyncRunHandler{Store: s, ExecRun: b.ExecRun, Tasks: tasks},
		StreamRun:    handlers.StreamRunHandler{Store: s, ExecRun: b.ExecRun},
		GetRun:       handlers.GetRunHandler{Store: s},
		CancelRun:    handlers.CancelRunHandler{Store: s, Tasks: tasks},
	}, nil
}

// Close awaits every in-flight task to settle, then destroys the store.
// Teardown never rethrows a background task's error.
func (a *Agent) Close(ctx context.Context) error {
	a.tasks.AwaitAll(ctx)
	return a.store.Destroy(ctx)
}

// DefaultDataDir resolves the default file store root: TEGG_AGENT_DATA_DIR
// if set, else <cwd>/.agent-data.
func DefaultDataDir() string {
	if dir := os.Getenv(dataDirEnvVar); dir != "" {
		return dir
	}
	cwd, err := os.Getwd()
	if err != nil {
		return defaultDataDirName
	}
	return filepath.Join(cwd, defaultDataDirName)
}

package handlers

import (
	"context"

	"github.com/tegglabs/agentrt/agent"
	"github.com/tegglabs/agentrt/store"
)

// ThreadView is the public projection of a Thread returned by createThread:
// it omits messages, since a freshly created thread has none worth wiring
// across the API boundary.
type ThreadView struct {
	ID        agent.ThreadID `json:"id"`
	Object    string         `json:"object"`
	Metadata  agent.Metadata `json:"metadata,omitempty"`
	CreatedAt int64          `json:"created_at"`
}

// NewThreadView projects a full Thread record down to its public shape.
func NewThreadView(t agent.Thread) ThreadView {
	return ThreadView{ID: t.ID, Object: t.Object, Metadata: t.Metadata, CreatedAt: t.CreatedAt}
}

// CreateThreadHandler implements POST /threads.
type CreateThreadHandler struct {
	Store store.RecordStore
}

// Handle creates a new, empty thread. The operation takes no input.
func (h CreateThreadHandler) Handle(ctx context.Context) (ThreadView, error) {
	thread, err := h.Store.CreateThread(ctx, nil)
	if err != nil {
		return ThreadView{}, err
	}
	return NewThreadView(thread), nil
}

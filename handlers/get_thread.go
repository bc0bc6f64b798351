package handlers

import (
	"context"

	"github.com/tegglabs/agentrt/agent"
	"github.com/tegglabs/agentrt/store"
)

// GetThreadHandler implements GET /threads/:id.
type GetThreadHandler struct {
	Store store.RecordStore
}

// Handle returns the full thread record, including its message history.
func (h GetThreadHandler) Handle(ctx context.Context, id agent.ThreadID) (agent.Thread, error) {
	return h.Store.GetThread(ctx, id)
}

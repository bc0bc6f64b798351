package handlers

import (
	"context"

	"github.com/tegglabs/agentrt/agent"
	"github.com/tegglabs/agentrt/store"
)

// GetRunHandler implements GET /runs/:id.
type GetRunHandler struct {
	Store store.RecordStore
}

// Handle returns the full run record.
func (h GetRunHandler) Handle(ctx context.Context, id agent.RunID) (agent.Run, error) {
	return h.Store.GetRun(ctx, id)
}

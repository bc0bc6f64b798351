package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/tegglabs/agentrt/agent"
)

func (h *apiHandlers) createThread(w http.ResponseWriter, r *http.Request) {
	view, err := h.agent.CreateThread.Handle(r.Context())
	if err != nil {
		writeMappedError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

func (h *apiHandlers) getThread(w http.ResponseWriter, r *http.Request) {
	id := agent.ThreadID(chi.URLParam(r, "id"))
	thread, err := h.agent.GetThread.Handle(r.Context(), id)
	if err != nil {
		writeMappedError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, thread)
}

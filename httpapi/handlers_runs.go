package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/tegglabs/agentrt/agent"
	"github.com/tegglabs/agentrt/handlers"
	"github.com/tegglabs/agentrt/sse"
)

func (h *apiHandlers) syncRun(w http.ResponseWriter, r *http.Request) {
	var in handlers.CreateRunInput
	if err := decodeJSONBody(r, &in); err != nil {
		writeMappedError(w, err)
		return
	}

	run, err := h.agent.SyncRun.Handle(r.Context(), in)
	if err != nil {
		writeMappedError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, run)
}

func (h *apiHandlers) asyncRun(w http.ResponseWriter, r *http.Request) {
	var in handlers.CreateRunInput
	if err := decodeJSONBody(r, &in); err != nil {
		writeMappedError(w, err)
		return
	}

	run, err := h.agent.AsyncRun.Handle(r.Context(), in)
	if err != nil {
		writeMappedError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, run)
}

func (h *apiHandlers) streamRun(w http.ResponseWriter, r *http.Request) {
	var in handlers.CreateRunInput
	if err := decodeJSONBody(r, &in); err != nil {
		writeMappedError(w, err)
		return
	}

	sw, err := sse.NewWriter(w)
	if err != nil {
		writeMappedError(w, err)
		return
	}

	// The client disconnecting cancels r.Context(), which propagates as
	// the run's cancel token all the way into the user's ExecRunner.
	if err := h.agent.StreamRun.Handle(r.Context(), in, sw); err != nil {
		return // headers and some frames are already on the wire; nothing more to write.
	}
}

func (h *apiHandlers) getRun(w http.ResponseWriter, r *http.Request) {
	id := agent.RunID(chi.URLParam(r, "id"))
	run, err := h.agent.GetRun.Handle(r.Context(), id)
	if err != nil {
		writeMappedError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, run)
}

func (h *apiHandlers) cancelRun(w http.ResponseWriter, r *http.Request) {
	id := agent.RunID(chi.URLParam(r, "id"))
	run, err := h.agent.CancelRun.Handle(r.Context(), id)
	if err != nil {
		writeMappedError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, run)
}

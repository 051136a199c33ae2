package handlers

import (
	"net/http"
)

func (h *Handlers) handleGetSnapshot(w http.ResponseWriter, r *http.Request) {
	state, ok, err := h.Snapshot.Latest(r.Context())
	if err != nil {
		h.fail(w, r, err)
		return
	}
	if !ok {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	respondOK(w, SnapshotResponse{State: state})
}

func (h *Handlers) handleGetDisplayView(w http.ResponseWriter, r *http.Request) {
	respondOK(w, h.Display.View())
}

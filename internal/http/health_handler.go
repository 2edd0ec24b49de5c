package http

import (
	"log/slog"
	"net/http"
)

type loadState interface {
	Loaded() bool
}

// HealthHandler reports whether the planner document is loaded.
type HealthHandler struct {
	state     loadState
	responder responder
}

func NewHealthHandler(state loadState, logger *slog.Logger) *HealthHandler {
	return &HealthHandler{state: state, responder: newResponder(defaultLogger(logger))}
}

func (h *HealthHandler) Check(w http.ResponseWriter, r *http.Request) {
	if h == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}
	if h.state == nil || !h.state.Loaded() {
		h.responder.writeJSON(r.Context(), w, http.StatusServiceUnavailable, healthResponse{Status: "loading"})
		return
	}
	h.responder.writeJSON(r.Context(), w, http.StatusOK, healthResponse{Status: "ok"})
}

type healthResponse struct {
	Status string `json:"status"`
}

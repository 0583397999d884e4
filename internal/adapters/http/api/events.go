// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"net/http"
)

// EventsDependencies defines the interface for event catalog reads.
type EventsDependencies interface {
	EventNames(ctx context.Context, refresh bool) []string
}

// EventsHandler handles certificate event listing requests.
type EventsHandler struct {
	deps EventsDependencies
}

// NewEventsHandler creates a new events handler.
func NewEventsHandler(deps EventsDependencies) *EventsHandler {
	return &EventsHandler{deps: deps}
}

// HandleGetEvents handles GET /events?refresh= requests.
func (h *EventsHandler) HandleGetEvents(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}

	names := h.deps.EventNames(r.Context(), parseRefresh(r))
	writeJSON(w, http.StatusOK, names)
}

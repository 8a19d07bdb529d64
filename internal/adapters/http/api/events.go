// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"encoding/json"
	"net/http"
	"strings"
	"sync/atomic"

	"github.com/okian/viva/pkg/metrics"
)

// EventsHandler streams job events to subscribers over server-sent
// events.
type EventsHandler struct {
	deps        Dependencies
	subscribers atomic.Int64
}

// NewEventsHandler creates a new events handler.
func NewEventsHandler(deps Dependencies) *EventsHandler {
	return &EventsHandler{deps: deps}
}

// HandleStreamEvents handles GET /events/{job_id} requests. Events are
// written as SSE frames until the job publishes its done event; a
// subscriber disconnecting never cancels the job itself.
func (h *EventsHandler) HandleStreamEvents(w http.ResponseWriter, r *http.Request) {
	const op = "api.stream_events"
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	jobID := strings.TrimPrefix(r.URL.Path, "/events/")
	if jobID == "" || strings.Contains(jobID, "/") {
		writeError(w, http.StatusBadRequest, "bad_request", NewKind(op, ErrBadRequest))
		return
	}

	events, ok := h.deps.Stream(jobID)
	if !ok {
		writeError(w, http.StatusNotFound, "job_not_found", NewKind(op, ErrJobNotFound))
		return
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		writeError(w, http.StatusInternalServerError, "internal_error", NewKind(op, ErrStreamingUnsupported))
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	metrics.UpdateSubscribers(int(h.subscribers.Add(1)))
	defer func() {
		metrics.UpdateSubscribers(int(h.subscribers.Add(-1)))
	}()

	for {
		select {
		case e, open := <-events:
			if !open {
				// Stream fully drained; the job is gone for good.
				h.deps.Release(jobID)
				return
			}
			payload, err := json.Marshal(e)
			if err != nil {
				continue
			}
			if _, err := w.Write([]byte("event: " + string(e.Type) + "\ndata: ")); err != nil {
				return
			}
			if _, err := w.Write(append(payload, '\n', '\n')); err != nil {
				return
			}
			flusher.Flush()
		case <-r.Context().Done():
			return
		}
	}
}

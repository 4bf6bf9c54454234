package handlers

import (
	"io"

	"github.com/gin-gonic/gin"
	"github.com/keithshino/one-on-one-supporter/internal/events"
)

// EventsHandler streams record-store change notifications over SSE so
// clients recompute their visible sets instead of polling or reloading.
type EventsHandler struct {
	hub *events.Hub
}

// NewEventsHandler creates a new EventsHandler.
func NewEventsHandler(hub *events.Hub) *EventsHandler {
	return &EventsHandler{hub: hub}
}

// Stream holds the connection open and forwards every published event. The
// subscription dies with the request context, so a logout or reconnect
// starts a fresh one with no state carried over.
func (h *EventsHandler) Stream(c *gin.Context) {
	ch := h.hub.Subscribe(c.Request.Context())

	c.Writer.Header().Set("Content-Type", "text/event-stream")
	c.Writer.Header().Set("Cache-Control", "no-cache")
	c.Writer.Header().Set("Connection", "keep-alive")

	c.Stream(func(w io.Writer) bool {
		e, ok := <-ch
		if !ok {
			return false
		}
		c.SSEvent("change", e)
		return true
	})
}

package handler

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/appointment-booking/internal/broadcast"
)

// heartbeatEvery keeps idle SSE connections from being reaped by
// intermediaries.
const heartbeatEvery = 25 * time.Second

// EventsHandler streams committed change events to browsers over
// Server-Sent Events. Each connection gets its own hub subscription;
// missed events are not replayed, clients refetch the affected views.
type EventsHandler struct {
	Hub *broadcast.Hub
}

func NewEventsHandler(hub *broadcast.Hub) *EventsHandler {
	return &EventsHandler{Hub: hub}
}

// Stream serves GET /v1/events until the client disconnects.
func (h *EventsHandler) Stream(c echo.Context) error {
	w := c.Response()
	w.Header().Set(echo.HeaderContentType, "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)
	w.Flush()

	id, ch := h.Hub.Subscribe()
	defer h.Hub.Unsubscribe(id)

	ctx := c.Request().Context()
	heartbeat := time.NewTicker(heartbeatEvery)
	defer heartbeat.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case env, ok := <-ch:
			if !ok {
				return nil
			}
			data, err := json.Marshal(env.Data)
			if err != nil {
				c.Logger().Errorf("sse: marshal %s event: %v", env.Type, err)
				continue
			}
			fmt.Fprintf(w, "event: %s\ndata: %s\n\n", env.Type, data)
			w.Flush()
		case <-heartbeat.C:
			fmt.Fprint(w, ": ping\n\n")
			w.Flush()
		}
	}
}

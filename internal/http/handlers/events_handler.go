package handlers

import (
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/carewire/go-hospital-backend/internal/http/middleware"
	"github.com/carewire/go-hospital-backend/internal/hub"
)

// LiveChannel is the per-connection event handle handed out by the hub.
type LiveChannel = hub.Channel

// sseKeepAlive is how often a comment line is written to an idle stream so
// intermediaries do not close the connection.
const sseKeepAlive = 25 * time.Second

// StreamEvents serves the caller's live event feed as Server-Sent Events.
//
// One HTTP connection maps to one hub channel. Events the hub pushed while
// no connection was open are not replayed here; clients recover them from
// the notification inbox. The stream ends when the client disconnects or
// the hub closes the channel.
//
// @Summary     Live event stream (SSE)
// @Tags        events
// @Produce     text/event-stream
// @Success     200 {string} string "event stream"
// @Router      /events [get]
func (h *Handlers) StreamEvents(c *gin.Context) {
	userID := middleware.UserID(c)

	ch := h.hub.Register(userID)
	defer h.hub.Unregister(ch)

	c.Writer.Header().Set("Content-Type", "text/event-stream")
	c.Writer.Header().Set("Cache-Control", "no-cache")
	c.Writer.Header().Set("Connection", "keep-alive")
	c.Writer.Header().Set("X-Accel-Buffering", "no")
	c.Writer.WriteHeader(http.StatusOK)
	c.Writer.Flush()

	keepAlive := time.NewTicker(sseKeepAlive)
	defer keepAlive.Stop()

	lg := middleware.LoggerFrom(c)
	lg.Debug().Str("user_id", userID).Msg("event stream opened")

	done := c.Request.Context().Done()
	for {
		select {
		case <-done:
			lg.Debug().Str("user_id", userID).Msg("event stream client gone")
			return
		case <-keepAlive.C:
			if !writeSSEComment(c.Writer, "keepalive") {
				return
			}
		case ev, open := <-ch.Events():
			if !open {
				return
			}
			if !writeSSEEvent(c.Writer, ev) {
				return
			}
		}
	}
}

// writeSSEEvent serializes one event in SSE framing and flushes. Returns
// false when the connection is no longer writable.
func writeSSEEvent(w gin.ResponseWriter, ev hub.Event) bool {
	data, err := json.Marshal(ev)
	if err != nil {
		return false
	}
	if _, err := io.WriteString(w, "event: "+ev.Category+"\n"); err != nil {
		return false
	}
	if _, err := io.WriteString(w, "data: "+string(data)+"\n\n"); err != nil {
		return false
	}
	w.Flush()
	return true
}

func writeSSEComment(w gin.ResponseWriter, text string) bool {
	if _, err := io.WriteString(w, ": "+text+"\n\n"); err != nil {
		return false
	}
	w.Flush()
	return true
}

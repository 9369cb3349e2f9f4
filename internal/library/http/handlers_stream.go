package http

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// stream pushes library snapshots over Server-Sent Events (SSE). Every
// event carries the full current snapshot, mirroring the listener
// semantics upstream: deliveries are authoritative replacements, not
// diffs.
func (h *Handler) stream(c *gin.Context) {
	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.Header("X-Accel-Buffering", "no") // nginx: disable buffering

	flusher, ok := c.Writer.(http.Flusher)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "error": "streaming unsupported"})
		return
	}

	// Send the current snapshot immediately
	initial, _ := json.Marshal(h.mirror.Snapshot())
	fmt.Fprintf(c.Writer, "event: snapshot\ndata: %s\n\n", initial)
	flusher.Flush()

	updates, unsubscribe := h.mirror.Subscribe()
	defer unsubscribe()

	ctx := c.Request.Context()

	keepAlive := time.NewTicker(15 * time.Second)
	defer keepAlive.Stop()

	for {
		select {
		case <-ctx.Done():
			// Client disconnected
			return

		case <-keepAlive.C:
			fmt.Fprint(c.Writer, ": keep-alive\n\n")
			flusher.Flush()

		case snap, open := <-updates:
			if !open {
				// Mirror closed; the stream ends with it
				return
			}
			data, _ := json.Marshal(snap)
			fmt.Fprintf(c.Writer, "event: snapshot\ndata: %s\n\n", data)
			flusher.Flush()
		}
	}
}

package http

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/sulaymani-library/go-library-backend/internal/auth"
	"github.com/sulaymani-library/go-library-backend/internal/library/domain"
)

type profileEvent struct {
	Profile domain.UserProfile `json:"profile"`
	Exists  bool               `json:"exists"`
}

// stream pushes the caller's profile document over SSE so favorites and
// history toggled on one device show up on another without polling.
// Every event is the full document, matching the listener semantics of
// the content stream.
func (h *Handler) stream(c *gin.Context) {
	uid := auth.UserUID(c)
	if uid == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"ok": false, "login_required": true})
		return
	}

	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.Header("X-Accel-Buffering", "no") // nginx: disable buffering

	flusher, ok := c.Writer.(http.Flusher)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "error": "streaming unsupported"})
		return
	}

	ctx := c.Request.Context()
	watcher := h.profiles.Watch(ctx, uid)
	defer watcher.Stop()

	events := make(chan profileEvent, 4)
	go func() {
		defer close(events)
		for {
			p, exists, err := watcher.Next()
			if err != nil {
				return
			}
			select {
			case events <- profileEvent{Profile: p, Exists: exists}:
			case <-ctx.Done():
				return
			}
		}
	}()

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

		case ev, open := <-events:
			if !open {
				return
			}
			data, _ := json.Marshal(ev)
			fmt.Fprintf(c.Writer, "event: profile\ndata: %s\n\n", data)
			flusher.Flush()
		}
	}
}

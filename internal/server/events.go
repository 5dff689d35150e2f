package server

import (
	"context"
	"errors"
	"net/http"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"

	"github.com/aretw0/memodesk/pkg/core"
)

// events streams store changes over a websocket. The optional "pattern"
// query parameter is a glob over memo ids.
func (s *Server) events(w http.ResponseWriter, r *http.Request) {
	pattern := r.URL.Query().Get("pattern")
	if pattern == "" {
		pattern = "*"
	}

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	changes, err := s.app.Memos.Watch(ctx, pattern)
	if errors.Is(err, core.ErrNotWatchable) {
		writeError(w, http.StatusNotImplemented, "NOT_WATCHABLE", "store does not support change events")
		return
	}
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}

	conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		OriginPatterns: []string{"*"},
	})
	if err != nil {
		s.logger.Error("websocket accept", "error", err)
		return
	}
	defer conn.CloseNow()

	// Clients only listen; CloseRead cancels ctx once the peer goes away.
	ctx = conn.CloseRead(ctx)

	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-changes:
			if !ok {
				conn.Close(websocket.StatusNormalClosure, "watch ended")
				return
			}
			if err := wsjson.Write(ctx, conn, ev); err != nil {
				if websocket.CloseStatus(err) == -1 && ctx.Err() == nil {
					s.logger.Warn("event write failed", "error", err)
				}
				return
			}
		}
	}
}

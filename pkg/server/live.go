package server

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"github.com/matzehuels/relayout/pkg/document"
	"github.com/matzehuels/relayout/pkg/pipeline"
)

const (
	liveReadTimeout  = 5 * time.Minute
	liveWriteTimeout = 5 * time.Second
)

// handleLive upgrades to a websocket. Each text message is a JSON document;
// each reply is a SolveResponse or an ErrorResponse, in message order.
// Query options of the upgrade request apply to every message.
func (s *Server) handleLive(w http.ResponseWriter, r *http.Request) {
	base, err := optionsFromQuery(r)
	if err != nil {
		writeError(w, err)
		return
	}
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	defer conn.Close()
	conn.SetReadLimit(s.maxBody)

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()
	out := make(chan []byte, 16)

	// Writer goroutine.
	done := make(chan struct{})
	go func() {
		defer close(done)
		for b := range out {
			_ = conn.SetWriteDeadline(time.Now().Add(liveWriteTimeout))
			if err := conn.WriteMessage(websocket.TextMessage, b); err != nil {
				cancel()
				return
			}
		}
	}()

	// Reader loop.
	for ctx.Err() == nil {
		_ = conn.SetReadDeadline(time.Now().Add(liveReadTimeout))
		typ, msg, err := conn.ReadMessage()
		if err != nil {
			break
		}
		if typ != websocket.TextMessage {
			continue
		}
		reply := s.liveReply(ctx, msg, base)
		select {
		case out <- reply:
		case <-ctx.Done():
		}
	}
	close(out)
	<-done
}

func (s *Server) liveReply(ctx context.Context, msg []byte, opts pipeline.Options) []byte {
	var v any
	doc, err := pipeline.Parse(ctx, msg, document.FormatJSON)
	if err == nil {
		opts.Document = doc
		v, err = s.solveResponse(ctx, opts)
	}
	if err != nil {
		resp, _ := newErrorResponse(err)
		v = resp
	}
	b, _ := json.Marshal(v)
	return b
}

package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"nhooyr.io/websocket"
)

const streamWriteTimeout = 10 * time.Second

// HandleSummaryStream handles GET /summary/stream.
//
// The connection is upgraded to a websocket; the current summary is pushed
// immediately and again after every ingest, so the dashboard never polls.
func (h *Handler) HandleSummaryStream(w http.ResponseWriter, r *http.Request) {
	conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		OriginPatterns: []string{"*"},
	})
	if err != nil {
		h.log.Warn().Err(err).Msg("Websocket accept failed")
		return
	}
	defer conn.Close(websocket.StatusInternalError, "stream closed")

	ctx := r.Context()

	sub, unsubscribe := h.bus.Subscribe()
	defer unsubscribe()

	if err := h.writeSummary(ctx, conn); err != nil {
		h.log.Debug().Err(err).Msg("Summary stream write failed")
		return
	}

	for {
		select {
		case <-ctx.Done():
			conn.Close(websocket.StatusNormalClosure, "")
			return
		case _, ok := <-sub:
			if !ok {
				conn.Close(websocket.StatusNormalClosure, "")
				return
			}
			if err := h.writeSummary(ctx, conn); err != nil {
				h.log.Debug().Err(err).Msg("Summary stream write failed")
				return
			}
		}
	}
}

// writeSummary marshals the current summary and writes it as one text frame
func (h *Handler) writeSummary(ctx context.Context, conn *websocket.Conn) error {
	data, err := json.Marshal(h.service.Summary())
	if err != nil {
		return err
	}

	writeCtx, cancel := context.WithTimeout(ctx, streamWriteTimeout)
	defer cancel()

	return conn.Write(writeCtx, websocket.MessageText, data)
}

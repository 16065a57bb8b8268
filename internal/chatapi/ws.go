package chatapi

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/coder/websocket"

	"github.com/bloxcoach/bloxcoach/internal/observe"
)

// wsFrame is a server-to-client WebSocket frame. Type is one of "reply",
// "chunk", or "error".
type wsFrame struct {
	Type string `json:"type"`

	// Reply metadata, sent once per turn before the chunk frames.
	SessionID string   `json:"session_id,omitempty"`
	Intent    string   `json:"intent,omitempty"`
	Entities  []string `json:"entities,omitempty"`
	Generated bool     `json:"generated,omitempty"`
	Total     int      `json:"total,omitempty"`

	// Chunk payload.
	Seq  int    `json:"seq,omitempty"`
	Text string `json:"text,omitempty"`
	Last bool   `json:"last,omitempty"`

	// Error payload.
	Error string `json:"error,omitempty"`
}

func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := websocket.Accept(w, r, nil)
	if err != nil {
		observe.Logger(r.Context()).Warn("websocket accept failed", "err", err)
		return
	}
	defer conn.CloseNow()
	conn.SetReadLimit(maxMessageBytes)

	ctx := r.Context()
	log := observe.Logger(ctx)

	if s.metrics != nil {
		s.metrics.ChatConnections.Add(ctx, 1)
		defer s.metrics.ChatConnections.Add(ctx, -1)
	}

	for {
		typ, data, err := conn.Read(ctx)
		if err != nil {
			// Normal closure and client drops both land here.
			return
		}
		if typ != websocket.MessageText {
			s.writeWSError(ctx, conn, "text frames only")
			continue
		}

		var req chatRequest
		if err := json.Unmarshal(data, &req); err != nil {
			s.writeWSError(ctx, conn, "invalid JSON frame")
			continue
		}
		if req.Message == "" {
			s.writeWSError(ctx, conn, "message is required")
			continue
		}

		resp, err := s.turn(ctx, req)
		if err != nil {
			log.Error("chat turn failed", "session_id", req.SessionID, "err", err)
			s.writeWSError(ctx, conn, "coaching engine error")
			continue
		}

		if err := s.streamReply(ctx, conn, resp); err != nil {
			log.Warn("websocket write failed", "session_id", resp.SessionID, "err", err)
			return
		}
	}
}

// streamReply sends the turn metadata followed by one frame per display
// segment, pausing between segments so the client renders them with the
// engine's pacing.
func (s *Server) streamReply(ctx context.Context, conn *websocket.Conn, resp *chatResponse) error {
	meta := wsFrame{
		Type:      "reply",
		SessionID: resp.SessionID,
		Intent:    resp.Intent,
		Entities:  resp.Entities,
		Generated: resp.Generated,
		Total:     len(resp.Chunks),
	}
	if err := writeWSFrame(ctx, conn, meta); err != nil {
		return err
	}

	delay := s.engine.ChunkDelay()
	for i, chunk := range resp.Chunks {
		if i > 0 && delay > 0 {
			select {
			case <-time.After(delay):
			case <-ctx.Done():
				return ctx.Err()
			}
		}
		frame := wsFrame{
			Type: "chunk",
			Seq:  i,
			Text: chunk,
			Last: i == len(resp.Chunks)-1,
		}
		if err := writeWSFrame(ctx, conn, frame); err != nil {
			return err
		}
	}
	return nil
}

func (s *Server) writeWSError(ctx context.Context, conn *websocket.Conn, msg string) {
	if err := writeWSFrame(ctx, conn, wsFrame{Type: "error", Error: msg}); err != nil {
		observe.Logger(ctx).Warn("websocket error frame write failed", "err", err)
	}
}

func writeWSFrame(ctx context.Context, conn *websocket.Conn, f wsFrame) error {
	data, err := json.Marshal(f)
	if err != nil {
		return err
	}
	return conn.Write(ctx, websocket.MessageText, data)
}

// Package chatapi exposes the coaching engine over HTTP.
//
// Two surfaces share one engine:
//
//   - POST /api/chat — single request/response turn; the reply comes back
//     whole, with its display segments included for client-side pacing.
//   - GET /api/chat/ws — WebSocket; the server paces reply segments itself,
//     one frame per segment, matching the original chat widget's typing feel.
package chatapi

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/google/uuid"

	"github.com/bloxcoach/bloxcoach/internal/engine"
	"github.com/bloxcoach/bloxcoach/internal/observe"
)

// maxMessageBytes caps the request body / websocket frame size. A chat
// question has no business being larger than this.
const maxMessageBytes = 16 << 10

// Server serves the chat API endpoints. It is safe for concurrent use.
type Server struct {
	engine  *engine.Engine
	metrics *observe.Metrics
}

// NewServer creates a chat API server around eng. metrics may be nil, in
// which case connection gauges are not maintained.
func NewServer(eng *engine.Engine, metrics *observe.Metrics) *Server {
	return &Server{engine: eng, metrics: metrics}
}

// Register adds the chat API routes to mux.
func (s *Server) Register(mux *http.ServeMux) {
	mux.HandleFunc("POST /api/chat", s.handleChat)
	mux.HandleFunc("GET /api/chat/ws", s.handleWS)
}

// chatRequest is the JSON body of POST /api/chat and of each client frame on
// the WebSocket endpoint.
type chatRequest struct {
	// SessionID identifies the conversation. Empty means a new session; the
	// generated ID is returned in the response and must be echoed on
	// subsequent turns to keep per-session state (last topic, deep mode).
	SessionID string `json:"session_id"`

	// Message is the user's chat message.
	Message string `json:"message"`
}

// chatResponse is the JSON reply for a single turn.
type chatResponse struct {
	SessionID string   `json:"session_id"`
	Reply     string   `json:"reply"`
	Chunks    []string `json:"chunks"`
	Intent    string   `json:"intent"`
	Entities  []string `json:"entities,omitempty"`
	Generated bool     `json:"generated"`
}

// errorResponse is the JSON error body.
type errorResponse struct {
	Error string `json:"error"`
}

func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	req, ok := decodeChatRequest(w, r)
	if !ok {
		return
	}

	resp, err := s.turn(r.Context(), req)
	if err != nil {
		observe.Logger(r.Context()).Error("chat turn failed", "session_id", req.SessionID, "err", err)
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "coaching engine error"})
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// turn runs one engine turn, minting a session ID when the client did not
// supply one.
func (s *Server) turn(ctx context.Context, req chatRequest) (*chatResponse, error) {
	sessionID := req.SessionID
	if sessionID == "" {
		sessionID = uuid.NewString()
	}

	reply, err := s.engine.Turn(ctx, sessionID, req.Message)
	if err != nil {
		return nil, err
	}

	return &chatResponse{
		SessionID: sessionID,
		Reply:     reply.Text,
		Chunks:    reply.Chunks,
		Intent:    reply.Intent.String(),
		Entities:  reply.Entities,
		Generated: reply.Generated,
	}, nil
}

// decodeChatRequest parses and validates the request body, writing the error
// response itself when validation fails.
func decodeChatRequest(w http.ResponseWriter, r *http.Request) (chatRequest, bool) {
	var req chatRequest

	r.Body = http.MaxBytesReader(w, r.Body, maxMessageBytes)
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			writeJSON(w, http.StatusRequestEntityTooLarge, errorResponse{Error: "message too large"})
			return req, false
		}
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid JSON body"})
		return req, false
	}
	if req.Message == "" {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "message is required"})
		return req, false
	}
	return req, true
}

// writeJSON encodes v as JSON with the given status code. On encoding failure
// it falls back to a plain-text 500 response.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("chatapi: encode response", "err", err)
	}
}

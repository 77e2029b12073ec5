package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"github.com/wricardo/chessrelay/analysis"
	"github.com/wricardo/chessrelay/engine"
	"github.com/wricardo/chessrelay/game"
	"github.com/wricardo/chessrelay/transport/websocket"
)

const startFEN = "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1"

// stubEngine answers every search with a fixed move or a fixed error.
type stubEngine struct {
	move string
	err  error
}

func (s *stubEngine) BestMove(ctx context.Context, fen string, depth int) (string, error) {
	if s.err != nil {
		return "", s.err
	}
	return s.move, nil
}

func (s *stubEngine) Close() error { return nil }

func newTestServer(t *testing.T, stub *stubEngine) (*Server, *game.Registry) {
	t.Helper()

	pool, err := engine.NewPool(1, func(id int) (engine.Engine, error) {
		return stub, nil
	}, zerolog.Nop())
	if err != nil {
		t.Fatalf("Failed to create pool: %v", err)
	}
	t.Cleanup(pool.Close)

	svc := analysis.NewService(pool, analysis.Limits{DefaultDepth: 12, MaxDepth: 20}, zerolog.Nop())
	registry := game.NewRegistry(zerolog.Nop())
	hub := websocket.NewHub(registry, zerolog.Nop())
	go hub.Run()

	return NewServer(svc, registry, hub, zerolog.Nop()), registry
}

func postAnalyze(t *testing.T, server *Server, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest("POST", "/api/analyze", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	server.ServeHTTP(w, req)
	return w
}

func TestAnalyze_Success(t *testing.T) {
	server, _ := newTestServer(t, &stubEngine{move: "e2e4"})

	w := postAnalyze(t, server, `{"position":"`+startFEN+`","effort":10}`)
	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", w.Code, w.Body.String())
	}

	var result analysis.Result
	if err := json.NewDecoder(w.Body).Decode(&result); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if result.Move != "e2e4" {
		t.Errorf("Expected move e2e4, got %s", result.Move)
	}
}

func TestAnalyze_BadRequests(t *testing.T) {
	server, _ := newTestServer(t, &stubEngine{move: "e2e4"})

	tests := []struct {
		name string
		body string
	}{
		{"invalid JSON", `{not json`},
		{"missing position", `{"effort":10}`},
		{"malformed FEN", `{"position":"hello world"}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := postAnalyze(t, server, tt.body)
			if w.Code != http.StatusBadRequest {
				t.Errorf("Expected 400, got %d: %s", w.Code, w.Body.String())
			}
			var resp map[string]string
			if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
				t.Fatalf("Failed to decode error response: %v", err)
			}
			if resp["error"] == "" {
				t.Error("Error response should carry a message")
			}
		})
	}
}

func TestAnalyze_EngineFailure(t *testing.T) {
	server, _ := newTestServer(t, &stubEngine{err: errors.New("engine crashed")})

	w := postAnalyze(t, server, `{"position":"`+startFEN+`"}`)
	if w.Code != http.StatusBadGateway {
		t.Fatalf("Expected 502, got %d: %s", w.Code, w.Body.String())
	}
}

func TestAnalyze_MethodNotAllowed(t *testing.T) {
	server, _ := newTestServer(t, &stubEngine{move: "e2e4"})

	req := httptest.NewRequest("GET", "/api/analyze", nil)
	w := httptest.NewRecorder()
	server.ServeHTTP(w, req)
	if w.Code != http.StatusMethodNotAllowed {
		t.Errorf("Expected 405, got %d", w.Code)
	}
}

func TestHealth(t *testing.T) {
	server, _ := newTestServer(t, &stubEngine{move: "e2e4"})

	req := httptest.NewRequest("GET", "/api/health", nil)
	w := httptest.NewRecorder()
	server.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", w.Code)
	}

	var resp struct {
		Status string       `json:"status"`
		Pool   engine.Stats `json:"pool"`
		Rooms  int          `json:"rooms"`
	}
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("Failed to decode health response: %v", err)
	}
	if resp.Status != "healthy" {
		t.Errorf("Expected healthy status, got %s", resp.Status)
	}
	if resp.Pool.Size != 1 || resp.Pool.Idle != 1 {
		t.Errorf("Unexpected pool stats: %+v", resp.Pool)
	}
	if resp.Rooms != 0 {
		t.Errorf("Expected 0 rooms, got %d", resp.Rooms)
	}
}

func TestListRooms(t *testing.T) {
	server, registry := newTestServer(t, &stubEngine{move: "e2e4"})

	registry.Join("alpha", &recordingParticipant{})
	registry.Join("beta", &recordingParticipant{})

	req := httptest.NewRequest("GET", "/api/rooms", nil)
	w := httptest.NewRecorder()
	server.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", w.Code)
	}

	var resp struct {
		Count int             `json:"count"`
		Rooms []game.RoomInfo `json:"rooms"`
	}
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("Failed to decode rooms response: %v", err)
	}
	if resp.Count != 2 || len(resp.Rooms) != 2 {
		t.Fatalf("Expected 2 rooms, got %+v", resp)
	}
	if resp.Rooms[0].ID != "alpha" || resp.Rooms[1].ID != "beta" {
		t.Errorf("Rooms should be sorted by identifier: %+v", resp.Rooms)
	}
	if resp.Rooms[0].Position != game.StartingFEN {
		t.Errorf("Fresh room should report the starting position: %+v", resp.Rooms[0])
	}
}

func TestCORS(t *testing.T) {
	server, _ := newTestServer(t, &stubEngine{move: "e2e4"})

	req := httptest.NewRequest("OPTIONS", "/api/analyze", nil)
	w := httptest.NewRecorder()
	server.ServeHTTP(w, req)
	if w.Code != http.StatusNoContent {
		t.Fatalf("Expected 204 for preflight, got %d", w.Code)
	}
	if got := w.Header().Get("Access-Control-Allow-Origin"); got != "*" {
		t.Errorf("Expected wildcard origin, got %q", got)
	}
	if !strings.Contains(w.Header().Get("Access-Control-Allow-Methods"), "POST") {
		t.Error("Preflight should allow POST")
	}
}

// recordingParticipant satisfies game.Participant for registry seeding.
type recordingParticipant struct {
	sent []interface{}
}

func (r *recordingParticipant) Send(v interface{}) {
	r.sent = append(r.sent, v)
}

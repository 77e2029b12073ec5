package mcp

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/wricardo/chessrelay/analysis"
	"github.com/wricardo/chessrelay/game"
)

func TestNewClient(t *testing.T) {
	baseURL := "http://localhost:8080"
	client := NewClient(baseURL)

	if client == nil {
		t.Fatal("Expected client to be created")
	}

	if client.baseURL != baseURL {
		t.Errorf("Expected baseURL %s, got %s", baseURL, client.baseURL)
	}

	if client.httpClient == nil {
		t.Error("Expected HTTP client to be initialized")
	}

	if client.mcpServer == nil {
		t.Error("Expected MCP server to be initialized")
	}

	if client.GetMCPServer() != client.mcpServer {
		t.Error("GetMCPServer should return the underlying server")
	}
}

func TestClient_apiCall(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(analysis.Result{Move: "e2e4"})
	}))
	defer server.Close()

	client := NewClient(server.URL)

	var result analysis.Result
	err := client.apiCall("GET", "/api/analyze", nil, &result)
	if err != nil {
		t.Fatalf("apiCall failed: %v", err)
	}

	if result.Move != "e2e4" {
		t.Errorf("Expected move e2e4, got %s", result.Move)
	}
}

func TestClient_apiCall_Error(t *testing.T) {
	client := NewClient("http://invalid-url-that-does-not-exist:9999")

	err := client.apiCall("GET", "/api/health", nil, nil)
	if err == nil {
		t.Error("Expected error for invalid URL")
	}
}

func TestClient_apiCall_HTTPErrorWithMessage(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(map[string]string{"error": "position is required"})
	}))
	defer server.Close()

	client := NewClient(server.URL)

	err := client.apiCall("POST", "/api/analyze", analysis.Request{}, nil)
	if err == nil {
		t.Fatal("Expected error for HTTP 400 response")
	}
	if !strings.Contains(err.Error(), "position is required") {
		t.Errorf("Expected server message in error, got: %v", err)
	}
}

func TestClient_apiCall_HTTPErrorWithoutMessage(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte("Internal Server Error"))
	}))
	defer server.Close()

	client := NewClient(server.URL)

	err := client.apiCall("GET", "/api/health", nil, nil)
	if err == nil {
		t.Error("Expected error for HTTP 500 response")
	}
	if !strings.Contains(err.Error(), "API error") {
		t.Errorf("Expected 'API error' in error message, got: %v", err)
	}
}

func TestClient_handleAnalyze(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != "POST" || r.URL.Path != "/api/analyze" {
			t.Errorf("Expected POST /api/analyze, got %s %s", r.Method, r.URL.Path)
		}

		var req analysis.Request
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("Failed to decode request body: %v", err)
		}
		if req.Effort != 15 {
			t.Errorf("Expected effort 15, got %d", req.Effort)
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(analysis.Result{Move: "g1f3"})
	}))
	defer server.Close()

	client := NewClient(server.URL)

	request := mcp.CallToolRequest{
		Params: mcp.CallToolParams{
			Name: "analyze",
			Arguments: map[string]interface{}{
				"position": "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1",
				"effort":   float64(15),
			},
		},
	}

	result, err := client.handleAnalyze(context.Background(), request)
	if err != nil {
		t.Fatalf("handleAnalyze failed: %v", err)
	}
	if result == nil {
		t.Fatal("Expected result, got nil")
	}

	text, ok := result.Content[0].(mcp.TextContent)
	if !ok {
		t.Fatal("Expected text content in result")
	}
	if !strings.Contains(text.Text, "g1f3") {
		t.Errorf("Expected best move in result, got: %s", text.Text)
	}
}

func TestClient_handleAnalyze_ServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(map[string]string{"error": "bad request: position is required"})
	}))
	defer server.Close()

	client := NewClient(server.URL)

	request := mcp.CallToolRequest{
		Params: mcp.CallToolParams{
			Name:      "analyze",
			Arguments: map[string]interface{}{},
		},
	}

	result, err := client.handleAnalyze(context.Background(), request)
	if err != nil {
		t.Fatalf("handleAnalyze should report server errors as tool errors, got: %v", err)
	}
	if result == nil || !result.IsError {
		t.Fatal("Expected an error tool result")
	}
}

func TestClient_handleListRooms(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/rooms" {
			t.Errorf("Expected GET /api/rooms, got %s", r.URL.Path)
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]interface{}{
			"count": 1,
			"rooms": []game.RoomInfo{
				{ID: "r1", Participants: 2, Position: game.StartingFEN, Turn: game.White},
			},
		})
	}))
	defer server.Close()

	client := NewClient(server.URL)

	request := mcp.CallToolRequest{
		Params: mcp.CallToolParams{
			Name:      "list_rooms",
			Arguments: map[string]interface{}{},
		},
	}

	result, err := client.handleListRooms(context.Background(), request)
	if err != nil {
		t.Fatalf("handleListRooms failed: %v", err)
	}

	text, ok := result.Content[0].(mcp.TextContent)
	if !ok {
		t.Fatal("Expected text content in result")
	}
	if !strings.Contains(text.Text, "r1") || !strings.Contains(text.Text, "2 participant") {
		t.Errorf("Expected room listing in result, got: %s", text.Text)
	}
}

func TestClient_handleServerHealth(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/health" {
			t.Errorf("Expected GET /api/health, got %s", r.URL.Path)
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]interface{}{
			"status": "healthy",
			"pool": map[string]interface{}{
				"size":    4,
				"idle":    3,
				"waiting": 0,
				"borrows": 17,
			},
			"rooms": 2,
		})
	}))
	defer server.Close()

	client := NewClient(server.URL)

	request := mcp.CallToolRequest{
		Params: mcp.CallToolParams{
			Name:      "server_health",
			Arguments: map[string]interface{}{},
		},
	}

	result, err := client.handleServerHealth(context.Background(), request)
	if err != nil {
		t.Fatalf("handleServerHealth failed: %v", err)
	}

	text, ok := result.Content[0].(mcp.TextContent)
	if !ok {
		t.Fatal("Expected text content in result")
	}
	if !strings.Contains(text.Text, "healthy") || !strings.Contains(text.Text, "3/4 idle") {
		t.Errorf("Expected health summary in result, got: %s", text.Text)
	}
}

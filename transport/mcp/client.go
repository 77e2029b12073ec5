package mcp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/wricardo/chessrelay/analysis"
	"github.com/wricardo/chessrelay/game"
)

// Client is a thin MCP client that proxies to the REST API
type Client struct {
	baseURL    string
	httpClient *http.Client
	mcpServer  *server.MCPServer
}

// NewClient creates a new MCP client that calls the REST API
func NewClient(baseURL string) *Client {
	c := &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			// Deep searches can take a while; the pool may also queue us.
			Timeout: 5 * time.Minute,
		},
	}

	c.initMCPServer()
	return c
}

// initMCPServer initializes the MCP server with all tools
func (c *Client) initMCPServer() {
	c.mcpServer = server.NewMCPServer(
		"Chess Relay Server",
		"1.0.0",
		server.WithToolCapabilities(true),
		server.WithInstructions(`Chess Relay Server - MCP Interface

This is a thin client that proxies all requests to the REST API server.

AVAILABLE TOOLS:
- analyze: Evaluate a FEN position with a pooled engine worker and get the best move
- list_rooms: List live two-player relay rooms
- server_health: Check server liveness and engine pool occupancy

The analyze tool may wait when every engine worker is busy; requests are
served in the order they arrive.`),
	)

	// Register all tools
	c.registerTools()
}

// registerTools registers all MCP tools
func (c *Client) registerTools() {
	c.mcpServer.AddTool(mcp.Tool{
		Name:        "analyze",
		Description: "Evaluate a chess position and return the engine's best move",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"position": map[string]interface{}{
					"type":        "string",
					"description": "Position to evaluate, in FEN notation",
				},
				"effort": map[string]interface{}{
					"type":        "integer",
					"description": "Search depth (optional; server default when omitted)",
				},
			},
			Required: []string{"position"},
		},
	}, c.handleAnalyze)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "list_rooms",
		Description: "List live two-player relay rooms",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, c.handleListRooms)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "server_health",
		Description: "Check server liveness and engine pool occupancy",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, c.handleServerHealth)
}

// GetMCPServer returns the underlying MCP server for serving
func (c *Client) GetMCPServer() *server.MCPServer {
	return c.mcpServer
}

// Helper methods for API calls

func (c *Client) apiCall(method, path string, body interface{}, result interface{}) error {
	url := c.baseURL + path

	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reqBody = bytes.NewBuffer(data)
	}

	req, err := http.NewRequest(method, url, reqBody)
	if err != nil {
		return err
	}

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		var errResp map[string]string
		json.NewDecoder(resp.Body).Decode(&errResp)
		if msg, ok := errResp["error"]; ok {
			return fmt.Errorf("%s", msg)
		}
		return fmt.Errorf("API error: %d", resp.StatusCode)
	}

	if result != nil {
		return json.NewDecoder(resp.Body).Decode(result)
	}

	return nil
}

// Tool handlers

func (c *Client) handleAnalyze(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.Params.Arguments.(map[string]interface{})
	position, _ := args["position"].(string)
	effort, _ := args["effort"].(float64)

	body := analysis.Request{Position: position, Effort: int(effort)}

	var result analysis.Result
	if err := c.apiCall("POST", "/api/analyze", body, &result); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(fmt.Sprintf("Best move: %s", result.Move)), nil
}

func (c *Client) handleListRooms(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var response struct {
		Count int             `json:"count"`
		Rooms []game.RoomInfo `json:"rooms"`
	}

	if err := c.apiCall("GET", "/api/rooms", nil, &response); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Live rooms (%d):\n\n", response.Count)
	for _, room := range response.Rooms {
		fmt.Fprintf(&b, "- %s: %d participant(s), turn %s\n  position: %s\n",
			room.ID, room.Participants, room.Turn, room.Position)
	}

	return mcp.NewToolResultText(b.String()), nil
}

func (c *Client) handleServerHealth(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var response struct {
		Status string `json:"status"`
		Pool   struct {
			Size    int    `json:"size"`
			Idle    int    `json:"idle"`
			Waiting int    `json:"waiting"`
			Borrows uint64 `json:"borrows"`
		} `json:"pool"`
		Rooms int `json:"rooms"`
	}

	if err := c.apiCall("GET", "/api/health", nil, &response); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result := fmt.Sprintf("Status: %s\nEngine pool: %d/%d idle, %d waiting, %d borrows total\nLive rooms: %d",
		response.Status, response.Pool.Idle, response.Pool.Size,
		response.Pool.Waiting, response.Pool.Borrows, response.Rooms)

	return mcp.NewToolResultText(result), nil
}

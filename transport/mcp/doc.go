// Package mcp exposes the server's REST API as MCP tools.
//
// The Client is a thin proxy: every tool call is translated into an HTTP
// request against a running chessrelay server, so the MCP surface and the
// REST surface can never drift apart. It can be served over stdio or mounted
// on the HTTP server's /mcp endpoint.
package mcp

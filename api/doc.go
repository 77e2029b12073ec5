// Package api exposes the REST surface and the WebSocket entry point.
//
// Routes:
//   - POST /api/analyze: evaluate a position with a pooled engine worker
//   - GET  /api/health: liveness plus pool occupancy
//   - GET  /api/rooms: snapshot of live relay rooms
//   - GET  /ws: upgrade to the relay protocol
//
// Invalid input is answered with 400; a failed engine exchange with 502, so
// clients can tell their own mistakes from server-side engine trouble.
package api

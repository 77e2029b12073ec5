// Package websocket provides the persistent-connection transport for the
// two-player relay.
//
// The package uses a hub-and-spoke model where a central Hub tracks every
// live connection. Each client connection gets a read pump and a write pump
// goroutine; the read pump decodes inbound frames into typed commands and
// dispatches them to the room registry, and the write pump drains a buffered
// send channel onto the wire with ping/pong keepalive.
//
// Message Protocol:
//
// One JSON object per frame, shaped {type, roomId, payload}:
//   - {"type":"join","roomId":"r1"} → {"type":"joined","color":"w","position":…,"turn":"w"}
//   - {"type":"move","roomId":"r1","payload":{"from":"e2","to":"e4","newPosition":…}}
//     → broadcasts {"type":"opponentMove","payload":{…}} to the opponent
//   - {"type":"leave","roomId":"r1"} → no reply
//   - anything else → {"type":"error","message":…} to the sender only
//
// Connection Lifecycle:
//
// A closed connection behaves exactly like an explicit leave: the client is
// removed from its room and the room is deleted if it empties.
package websocket

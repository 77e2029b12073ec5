// Package game holds the room registry and the per-room session state
// machine for the two-player relay.
//
// A Room binds at most two participants to a room identifier, assigns colors
// by join order (first joiner plays white), tracks the current position and
// turn, and broadcasts accepted moves to the opponent. The relay is
// intentionally position-agnostic: it trusts the mover's computed position
// and enforces only the turn order. Hard move legality belongs to the engine
// and the clients, not to this layer.
//
// The Registry owns every Room and the participant-to-room membership index.
// All mutation goes through Registry methods under a single mutex; rooms are
// created on first join and removed eagerly when their last participant
// leaves, so no orphaned rooms persist.
package game

package websocket

import (
	"encoding/json"
	"fmt"

	"github.com/wricardo/chessrelay/game"
)

// MessageType tags an inbound client frame.
type MessageType string

const (
	TypeJoin  MessageType = "join"
	TypeMove  MessageType = "move"
	TypeLeave MessageType = "leave"
)

// Envelope is the raw inbound frame, one JSON object per message.
type Envelope struct {
	Type    MessageType     `json:"type"`
	RoomID  string          `json:"roomId"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// Command is the decoded form of an inbound frame. Exactly one of the
// concrete variants below is produced per frame; an unrecognized type
// decodes to UnknownCommand rather than an error so the sender still gets
// a reply.
type Command interface{ isCommand() }

// JoinCommand asks to be seated in a room.
type JoinCommand struct{ RoomID string }

// MoveCommand submits a move for the sender's room.
type MoveCommand struct {
	RoomID string
	Move   game.MovePayload
}

// LeaveCommand removes the sender from its room.
type LeaveCommand struct{ RoomID string }

// UnknownCommand is the fallback for unrecognized message types.
type UnknownCommand struct{ Type string }

func (JoinCommand) isCommand()    {}
func (MoveCommand) isCommand()    {}
func (LeaveCommand) isCommand()   {}
func (UnknownCommand) isCommand() {}

// ParseCommand decodes one frame. JSON-level failures are errors; an
// unrecognized type is a valid UnknownCommand.
func ParseCommand(data []byte) (Command, error) {
	var env Envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, fmt.Errorf("malformed message: %w", err)
	}

	switch env.Type {
	case TypeJoin:
		return JoinCommand{RoomID: env.RoomID}, nil
	case TypeMove:
		var mv game.MovePayload
		if len(env.Payload) > 0 {
			if err := json.Unmarshal(env.Payload, &mv); err != nil {
				return nil, fmt.Errorf("malformed move payload: %w", err)
			}
		}
		return MoveCommand{RoomID: env.RoomID, Move: mv}, nil
	case TypeLeave:
		return LeaveCommand{RoomID: env.RoomID}, nil
	default:
		return UnknownCommand{Type: string(env.Type)}, nil
	}
}

package game

// Color identifies a side in a game.
type Color string

const (
	White Color = "w"
	Black Color = "b"
)

// Other returns the opposing color.
func (c Color) Other() Color {
	if c == White {
		return Black
	}
	return White
}

// StartingFEN is the canonical chess starting position.
const StartingFEN = "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1"

// JoinedMessage is the reply to a successful join: the assigned color and a
// snapshot of the room's position and turn.
type JoinedMessage struct {
	Type     string `json:"type"`
	Color    Color  `json:"color"`
	Position string `json:"position"`
	Turn     Color  `json:"turn"`
}

// MovePayload carries one move in coordinate notation plus the mover's
// resulting position, forwarded verbatim.
type MovePayload struct {
	From        string `json:"from"`
	To          string `json:"to"`
	NewPosition string `json:"newPosition"`
}

// OpponentMoveMessage notifies the other participant of an accepted move.
type OpponentMoveMessage struct {
	Type    string      `json:"type"`
	Payload MovePayload `json:"payload"`
}

// OpponentLeftMessage notifies the remaining participant that their opponent
// left the room.
type OpponentLeftMessage struct {
	Type string `json:"type"`
}

// ErrorMessage reports a rejected command to the offending participant only.
type ErrorMessage struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

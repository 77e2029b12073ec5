package game

import "errors"

var (
	ErrRoomFull    = errors.New("room is full")
	ErrNotYourTurn = errors.New("not your turn")
)

// Participant is the outbound side of a connected player. Send must not
// block; transports enqueue and drop slow consumers.
type Participant interface {
	Send(v interface{})
}

// seat binds a participant to its assigned color.
type seat struct {
	p     Participant
	color Color
}

// Room is the live state of one two-player game. All methods are called with
// the registry lock held.
type Room struct {
	id       string
	seats    []seat
	position string
	turn     Color
}

func newRoom(id string) *Room {
	return &Room{
		id:       id,
		position: StartingFEN,
		turn:     White,
	}
}

// join seats p, assigning white to the first joiner and black to the second.
func (r *Room) join(p Participant) (*JoinedMessage, error) {
	if len(r.seats) >= 2 {
		return nil, ErrRoomFull
	}

	color := White
	if len(r.seats) == 1 {
		color = Black
	}
	r.seats = append(r.seats, seat{p: p, color: color})

	return &JoinedMessage{
		Type:     "joined",
		Color:    color,
		Position: r.position,
		Turn:     r.turn,
	}, nil
}

// snapshot rebuilds the joined reply for a participant already seated.
func (r *Room) snapshot(p Participant) *JoinedMessage {
	msg := &JoinedMessage{Type: "joined", Position: r.position, Turn: r.turn}
	for i := range r.seats {
		if r.seats[i].p == p {
			msg.Color = r.seats[i].color
			break
		}
	}
	return msg
}

// move applies p's move: the submitted position replaces the room's position
// verbatim, the turn flips, and every other participant is notified exactly
// once. A move out of turn is rejected with no state change; a move from a
// participant not seated in this room is silently ignored.
func (r *Room) move(p Participant, mv MovePayload) error {
	var mover *seat
	for i := range r.seats {
		if r.seats[i].p == p {
			mover = &r.seats[i]
			break
		}
	}
	if mover == nil {
		return nil
	}
	if mover.color != r.turn {
		return ErrNotYourTurn
	}

	r.position = mv.NewPosition
	r.turn = r.turn.Other()

	msg := &OpponentMoveMessage{Type: "opponentMove", Payload: mv}
	for i := range r.seats {
		if r.seats[i].p != p {
			r.seats[i].p.Send(msg)
		}
	}
	return nil
}

// leave unseats p and notifies whoever remains. Unseating an absent
// participant is a no-op. Reports whether the room is now empty.
func (r *Room) leave(p Participant) bool {
	for i := range r.seats {
		if r.seats[i].p == p {
			r.seats = append(r.seats[:i], r.seats[i+1:]...)
			for j := range r.seats {
				r.seats[j].p.Send(&OpponentLeftMessage{Type: "opponentLeft"})
			}
			break
		}
	}
	return len(r.seats) == 0
}

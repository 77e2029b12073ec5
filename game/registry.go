package game

import (
	"sort"
	"sync"

	"github.com/rs/zerolog"
)

// Registry maps room identifiers to live rooms and owns all session
// mutation. Rooms are created on first join and deleted when they empty.
type Registry struct {
	log zerolog.Logger

	mu      sync.Mutex
	rooms   map[string]*Room
	members map[Participant]*Room
}

// RoomInfo is a point-in-time snapshot for the rooms listing.
type RoomInfo struct {
	ID           string `json:"id"`
	Participants int    `json:"participants"`
	Position     string `json:"position"`
	Turn         Color  `json:"turn"`
}

// NewRegistry creates an empty registry.
func NewRegistry(logger zerolog.Logger) *Registry {
	return &Registry{
		log:     logger.With().Str("component", "registry").Logger(),
		rooms:   make(map[string]*Room),
		members: make(map[Participant]*Room),
	}
}

// Join adds p to roomID, creating the room on first join. A participant
// already seated elsewhere leaves its previous room first. The third joiner
// of a room is rejected with ErrRoomFull and nothing changes.
func (g *Registry) Join(roomID string, p Participant) (*JoinedMessage, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if current, ok := g.members[p]; ok {
		if current.id == roomID {
			// Rejoining the same room is idempotent: resend the snapshot.
			return current.snapshot(p), nil
		}
		g.leaveLocked(p)
	}

	room, ok := g.rooms[roomID]
	if !ok {
		room = newRoom(roomID)
		g.rooms[roomID] = room
		g.log.Info().Str("room", roomID).Msg("room created")
	}

	joined, err := room.join(p)
	if err != nil {
		return nil, err
	}
	g.members[p] = room

	g.log.Debug().
		Str("room", roomID).
		Str("color", string(joined.Color)).
		Int("participants", len(room.seats)).
		Msg("participant joined")

	return joined, nil
}

// Move routes p's move to roomID. A move to a room that does not exist is
// silently ignored; a move out of turn returns ErrNotYourTurn with no state
// change.
func (g *Registry) Move(roomID string, p Participant, mv MovePayload) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	room, ok := g.rooms[roomID]
	if !ok {
		return nil
	}
	return room.move(p, mv)
}

// Leave removes p from its room, if any. Safe to call for unknown
// participants and safe to call twice; the room is deleted once its last
// participant is gone.
func (g *Registry) Leave(p Participant) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.leaveLocked(p)
}

func (g *Registry) leaveLocked(p Participant) {
	room, ok := g.members[p]
	if !ok {
		return
	}
	delete(g.members, p)

	if room.leave(p) {
		delete(g.rooms, room.id)
		g.log.Info().Str("room", room.id).Msg("room closed")
	}
}

// Rooms returns a snapshot of every live room, sorted by identifier.
func (g *Registry) Rooms() []RoomInfo {
	g.mu.Lock()
	defer g.mu.Unlock()

	infos := make([]RoomInfo, 0, len(g.rooms))
	for id, room := range g.rooms {
		infos = append(infos, RoomInfo{
			ID:           id,
			Participants: len(room.seats),
			Position:     room.position,
			Turn:         room.turn,
		})
	}
	sort.Slice(infos, func(i, j int) bool { return infos[i].ID < infos[j].ID })
	return infos
}

// Count returns the number of live rooms.
func (g *Registry) Count() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.rooms)
}

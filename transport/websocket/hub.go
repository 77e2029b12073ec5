package websocket

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
	"github.com/wricardo/chessrelay/game"
)

const (
	// Time allowed to write a message to the peer.
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer.
	pongWait = 60 * time.Second

	// Send pings to peer with this period. Must be less than pongWait.
	pingPeriod = (pongWait * 9) / 10

	// Maximum message size allowed from peer. Large enough for a move
	// frame carrying a full FEN.
	maxMessageSize = 2048
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		// Allow all origins in development
		// TODO: Configure this for production
		return true
	},
}

// Hub maintains the set of active clients and routes their commands to the
// room registry.
type Hub struct {
	registry *game.Registry
	log      zerolog.Logger

	// Registered clients
	clients map[*Client]bool

	// Register requests from clients
	register chan *Client

	// Unregister requests from clients
	unregister chan *Client
}

// Client is one WebSocket connection. It implements game.Participant: room
// broadcasts are marshalled and queued on the send channel, and the write
// pump drains that channel onto the wire.
type Client struct {
	hub  *Hub
	conn *websocket.Conn
	send chan []byte
	id   string
	log  zerolog.Logger
}

// NewHub creates a hub dispatching into registry.
func NewHub(registry *game.Registry, logger zerolog.Logger) *Hub {
	return &Hub{
		registry:   registry,
		log:        logger.With().Str("component", "ws_hub").Logger(),
		clients:    make(map[*Client]bool),
		register:   make(chan *Client),
		unregister: make(chan *Client),
	}
}

// Run starts the hub's event loop.
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.clients[client] = true
			h.log.Debug().Str("conn", client.id).Int("total", len(h.clients)).Msg("client connected")

		case client := <-h.unregister:
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				h.registry.Leave(client)
				close(client.send)
				h.log.Debug().Str("conn", client.id).Int("total", len(h.clients)).Msg("client disconnected")
			}
		}
	}
}

// ServeWS upgrades an HTTP request and starts the client pumps.
func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Warn().Err(err).Msg("websocket upgrade failed")
		return
	}

	id := uuid.NewString()
	client := &Client{
		hub:  h,
		conn: conn,
		send: make(chan []byte, 256),
		id:   id,
		log:  h.log.With().Str("conn", id).Logger(),
	}

	h.register <- client

	go client.writePump()
	go client.readPump()
}

// Count returns the number of connected clients. Safe only from the hub
// goroutine; exposed for tests.
func (h *Hub) Count() int {
	return len(h.clients)
}

// Send implements game.Participant. It never blocks: if the client's queue
// is full the message is dropped and the read deadline will eventually reap
// the connection.
func (c *Client) Send(v interface{}) {
	data, err := json.Marshal(v)
	if err != nil {
		c.log.Error().Err(err).Msg("marshal outbound message")
		return
	}
	select {
	case c.send <- data:
	default:
		c.log.Warn().Msg("send queue full, dropping message")
	}
}

// readPump pumps frames from the connection into the command dispatcher.
func (c *Client) readPump() {
	defer func() {
		c.hub.unregister <- c
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.log.Warn().Err(err).Msg("websocket read error")
			}
			break
		}
		c.dispatch(data)
	}
}

// dispatch decodes one frame and applies it to the registry. Rejections are
// reported to this client only; other rooms and connections never see them.
func (c *Client) dispatch(data []byte) {
	cmd, err := ParseCommand(data)
	if err != nil {
		c.Send(&game.ErrorMessage{Type: "error", Message: err.Error()})
		return
	}

	switch cmd := cmd.(type) {
	case JoinCommand:
		joined, err := c.hub.registry.Join(cmd.RoomID, c)
		if err != nil {
			c.Send(&game.ErrorMessage{Type: "error", Message: err.Error()})
			return
		}
		c.Send(joined)

	case MoveCommand:
		if err := c.hub.registry.Move(cmd.RoomID, c, cmd.Move); err != nil {
			if errors.Is(err, game.ErrNotYourTurn) {
				c.Send(&game.ErrorMessage{Type: "error", Message: err.Error()})
			}
		}

	case LeaveCommand:
		c.hub.registry.Leave(c)

	case UnknownCommand:
		c.Send(&game.ErrorMessage{Type: "error", Message: fmt.Sprintf("unknown command %q", cmd.Type)})
	}
}

// writePump pumps messages from the send channel to the connection.
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				// The hub closed the channel
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

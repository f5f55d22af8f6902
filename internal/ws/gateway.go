// Package ws is the WebSocket Gateway: the one real-time transport this
// server speaks. It upgrades incoming HTTP connections, decodes inbound
// session events into room manager / engine commands, and encodes engine
// output back out to the right sockets.
package ws

import (
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"arena-server/internal/engine"
	"arena-server/internal/roommgr"
)

const (
	pingInterval = 15 * time.Second
	pongTimeout  = 5 * time.Second
	writeTimeout = 5 * time.Second
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// inboundEnvelope is the wire shape of one client->server message.
type inboundEnvelope struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

// outboundEnvelope mirrors the teacher's {event, data} shape.
type outboundEnvelope struct {
	Event string      `json:"event"`
	Data  interface{} `json:"data"`
}

type client struct {
	conn       *websocket.Conn
	sessionKey string
	roomCode   string

	send chan outboundEnvelope
	done chan struct{}
}

// Gateway owns every live connection and routes commands into the room
// manager.
type Gateway struct {
	mu       sync.RWMutex
	sessions map[string]*client // session key -> client
	manager  *roommgr.Manager
}

// NewGateway builds a gateway with no room manager attached yet. The
// gateway and the manager are mutually referential (the manager needs a
// Dispatcher, the gateway needs a manager to route commands to), so
// construction is two steps: NewGateway, then SetManager once the manager
// exists.
func NewGateway() *Gateway {
	return &Gateway{
		sessions: make(map[string]*client),
	}
}

// SetManager attaches the room manager. Must be called once, before the
// gateway serves any connections.
func (g *Gateway) SetManager(manager *roommgr.Manager) {
	g.manager = manager
}

// ServeHTTP upgrades the connection and starts its read/write pumps.
func (g *Gateway) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("ws: upgrade error: %v", err)
		return
	}

	c := &client{
		conn:       conn,
		sessionKey: newSessionKey(),
		send:       make(chan outboundEnvelope, 64),
		done:       make(chan struct{}),
	}

	g.mu.Lock()
	g.sessions[c.sessionKey] = c
	g.mu.Unlock()

	go g.writePump(c)
	g.readPump(c)
}

func newSessionKey() string {
	buf := make([]byte, 16)
	if _, err := rand.Read(buf); err != nil {
		return hex.EncodeToString([]byte(time.Now().String()))
	}
	return hex.EncodeToString(buf)
}

func (g *Gateway) readPump(c *client) {
	defer func() {
		close(c.done)
		c.conn.Close()
		g.mu.Lock()
		delete(g.sessions, c.sessionKey)
		g.mu.Unlock()
		if c.roomCode != "" {
			g.manager.Disconnect(c.roomCode, c.sessionKey)
		}
	}()

	c.conn.SetReadDeadline(time.Now().Add(pingInterval + pongTimeout))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pingInterval + pongTimeout))
		return nil
	})

	for {
		_, message, err := c.conn.ReadMessage()
		if err != nil {
			return
		}
		var env inboundEnvelope
		if err := json.Unmarshal(message, &env); err != nil {
			continue
		}
		g.handleInbound(c, env)
	}
}

func (g *Gateway) writePump(c *client) {
	ticker := time.NewTicker(pingInterval)
	defer ticker.Stop()

	for {
		select {
		case <-c.done:
			return
		case env := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeTimeout))
			if err := c.conn.WriteJSON(env); err != nil {
				return
			}
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeTimeout))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func (g *Gateway) send(c *client, event string, data interface{}) {
	select {
	case c.send <- outboundEnvelope{Event: event, Data: data}:
	default:
		// Backpressure: drop rather than block the gateway on a slow client.
	}
}

// --- engine.Sink / roommgr.Dispatcher wiring ---

// SendTo delivers an event to one session by key.
func (g *Gateway) SendTo(sessionKey string, ev engine.Event) {
	g.mu.RLock()
	c, ok := g.sessions[sessionKey]
	g.mu.RUnlock()
	if !ok {
		return
	}
	g.send(c, string(ev.Type), ev.Payload)
}

// SendRoom delivers an event to every session currently in roomCode.
func (g *Gateway) SendRoom(roomCode string, ev engine.Event) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	for _, c := range g.sessions {
		if c.roomCode == roomCode {
			g.send(c, string(ev.Type), ev.Payload)
		}
	}
}

// BroadcastRoom delivers a full room-state snapshot to every session in
// roomCode.
func (g *Gateway) BroadcastRoom(roomCode string, state engine.GameStatePayload) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	for _, c := range g.sessions {
		if c.roomCode == roomCode {
			g.send(c, "serverGameState", state)
		}
	}
}

// RoomClosed notifies every session in roomCode that the match has ended.
func (g *Gateway) RoomClosed(roomCode string, result engine.GameOverPayload) {
	g.SendRoom(roomCode, engine.Event{Type: engine.EventGameOver, Payload: result})
}

package live

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

// GatewayConfig holds configuration for websocket connections.
type GatewayConfig struct {
	WriteTimeout    time.Duration
	ReadTimeout     time.Duration
	PingInterval    time.Duration
	MaxMessageSize  int64
	ReadBufferSize  int
	WriteBufferSize int
	CheckOrigin     func(r *http.Request) bool
}

func DefaultGatewayConfig() GatewayConfig {
	return GatewayConfig{
		WriteTimeout:    10 * time.Second,
		ReadTimeout:     60 * time.Second,
		PingInterval:    30 * time.Second,
		MaxMessageSize:  512,
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin: func(r *http.Request) bool {
			return true
		},
	}
}

// Gateway pushes every scoreboard update to the connected websocket clients.
type Gateway struct {
	board    *Board
	upgrader websocket.Upgrader
	config   GatewayConfig

	mu          sync.RWMutex
	connections map[*Connection]bool
	broadcastCh chan Scoreboard
}

// Connection is one observing client.
type Connection struct {
	ID          string
	Conn        *websocket.Conn
	Send        chan []byte
	ConnectedAt time.Time
	gateway     *Gateway
}

func NewGateway(board *Board, config GatewayConfig) *Gateway {
	g := &Gateway{
		board: board,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  config.ReadBufferSize,
			WriteBufferSize: config.WriteBufferSize,
			CheckOrigin:     config.CheckOrigin,
		},
		config:      config,
		connections: make(map[*Connection]bool),
		broadcastCh: make(chan Scoreboard, 64),
	}
	board.Listen(func(u Update) { g.Broadcast(u.Scoreboard) })
	return g
}

// Start processes broadcasts until ctx is done.
func (g *Gateway) Start(ctx context.Context) {
	log.Info("Live gateway started")
	for {
		select {
		case <-ctx.Done():
			log.Info("Live gateway shutting down")
			g.closeAll()
			return
		case sb := <-g.broadcastCh:
			g.handleBroadcast(sb)
		}
	}
}

// Broadcast queues a scoreboard for every client.
func (g *Gateway) Broadcast(sb Scoreboard) {
	select {
	case g.broadcastCh <- sb:
	default:
		log.Warn("Broadcast channel full, dropping scoreboard", "gameID", sb.GameID)
	}
}

// ServeHTTP upgrades the request, registers the client and queues the current scoreboard.
func (g *Gateway) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := g.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Error("Failed to upgrade websocket connection", "error", err)
		return
	}

	c := &Connection{
		ID:          uuid.New().String(),
		Conn:        conn,
		Send:        make(chan []byte, 16),
		ConnectedAt: time.Now(),
		gateway:     g,
	}
	g.register(c)

	go c.writePump()
	go c.readPump()
	log.Info("Websocket connection established", "connectionID", c.ID)
}

// register adds the client before reading the board, so a scoreboard published
// meanwhile still reaches it through the broadcast loop.
func (g *Gateway) register(c *Connection) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.connections[c] = true
	if u, ok := g.board.Latest(); ok {
		if data, err := json.Marshal(u.Scoreboard); err == nil {
			c.Send <- data
		}
	}
}

func (g *Gateway) unregister(c *Connection) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if _, ok := g.connections[c]; ok {
		delete(g.connections, c)
		close(c.Send)
		log.Info("Websocket connection closed", "connectionID", c.ID)
	}
}

func (g *Gateway) closeAll() {
	g.mu.RLock()
	conns := make([]*Connection, 0, len(g.connections))
	for c := range g.connections {
		conns = append(conns, c)
	}
	g.mu.RUnlock()
	for _, c := range conns {
		g.unregister(c)
	}
}

// Count returns the number of connected clients.
func (g *Gateway) Count() int {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return len(g.connections)
}

func (g *Gateway) handleBroadcast(sb Scoreboard) {
	data, err := json.Marshal(sb)
	if err != nil {
		log.Error("Failed to marshal scoreboard", "error", err)
		return
	}

	// Sends happen under the read lock so unregister cannot close Send meanwhile.
	g.mu.RLock()
	var slow []*Connection
	for c := range g.connections {
		select {
		case c.Send <- data:
		default:
			slow = append(slow, c)
		}
	}
	total := len(g.connections)
	g.mu.RUnlock()

	for _, c := range slow {
		log.Warn("Connection send buffer full, closing connection", "connectionID", c.ID)
		g.unregister(c)
		c.Conn.Close()
	}
	log.Debug("Scoreboard broadcast", "gameID", sb.GameID, "connections", total)
}

func (c *Connection) writePump() {
	ticker := time.NewTicker(c.gateway.config.PingInterval)
	defer func() {
		ticker.Stop()
		c.Conn.Close()
		c.gateway.unregister(c)
	}()

	for {
		select {
		case message, ok := <-c.Send:
			c.Conn.SetWriteDeadline(time.Now().Add(c.gateway.config.WriteTimeout))
			if !ok {
				c.Conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.Conn.WriteMessage(websocket.TextMessage, message); err != nil {
				log.Error("Failed to write websocket message", "connectionID", c.ID, "error", err)
				return
			}
		case <-ticker.C:
			c.Conn.SetWriteDeadline(time.Now().Add(c.gateway.config.WriteTimeout))
			if err := c.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				log.Error("Failed to send ping", "connectionID", c.ID, "error", err)
				return
			}
		}
	}
}

// readPump only drains control frames; observers never send commands here.
func (c *Connection) readPump() {
	defer func() {
		c.gateway.unregister(c)
		c.Conn.Close()
	}()

	c.Conn.SetReadLimit(c.gateway.config.MaxMessageSize)
	c.Conn.SetReadDeadline(time.Now().Add(c.gateway.config.ReadTimeout))
	c.Conn.SetPongHandler(func(string) error {
		return c.Conn.SetReadDeadline(time.Now().Add(c.gateway.config.ReadTimeout))
	})

	for {
		if _, _, err := c.Conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Error("Unexpected websocket close", "connectionID", c.ID, "error", err)
			}
			return
		}
	}
}

package ws

import (
	"encoding/json"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/Vovarama1992/cinecampaign/internal/models"
	"github.com/Vovarama1992/go-utils/logger"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

const AdminRoom = "admins"

func CampaignRoom(id uuid.UUID) string    { return "campaign:" + id.String() }
func DistributorRoom(id uuid.UUID) string { return "distributor:" + id.String() }

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10

	// queued messages per connection before it is dropped as too slow
	sendBuffer = 64
)

// Conn is the part of *websocket.Conn the hub writes to.
type Conn interface {
	WriteMessage(messageType int, data []byte) error
	SetWriteDeadline(t time.Time) error
	Close() error
}

// client owns one connection. Only its write pump touches conn for writing,
// so a stalled peer holds up nobody but itself.
type client struct {
	conn Conn
	send chan []byte
}

type Hub struct {
	mu      sync.RWMutex
	rooms   map[string]map[*client]bool
	clients map[Conn]*client
	log     *logger.ZapLogger
}

func NewHub(log *logger.ZapLogger) *Hub {
	log.Log(logger.LogEntry{Level: "info", Message: "[hub] init"})
	return &Hub{
		rooms:   make(map[string]map[*client]bool),
		clients: make(map[Conn]*client),
		log:     log,
	}
}

// Register adds conn to every listed room and starts its write pump.
func (h *Hub) Register(conn Conn, rooms ...string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	c, ok := h.clients[conn]
	if !ok {
		c = &client{conn: conn, send: make(chan []byte, sendBuffer)}
		h.clients[conn] = c
		go h.writePump(c)
	}

	for _, roomID := range rooms {
		if _, ok := h.rooms[roomID]; !ok {
			h.rooms[roomID] = make(map[*client]bool)
		}
		h.rooms[roomID][c] = true

		h.log.Log(logger.LogEntry{
			Level:   "debug",
			Message: "[hub] register",
			Fields:  map[string]any{"room": roomID, "conns": len(h.rooms[roomID])},
		})
	}
}

// Unregister drops conn from all rooms, stops its pump and closes it.
func (h *Hub) Unregister(conn Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()

	c, ok := h.clients[conn]
	if !ok {
		return
	}
	delete(h.clients, conn)
	close(c.send)

	for roomID, conns := range h.rooms {
		if !conns[c] {
			continue
		}
		delete(conns, c)
		if len(conns) == 0 {
			delete(h.rooms, roomID)
		}
	}
	conn.Close()
}

// writePump drains one client's queue under a write deadline and keeps the
// peer alive with pings. Any write error drops the client.
func (h *Hub) writePump(c *client) {
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for {
		select {
		case msg, ok := <-c.send:
			if !ok {
				return
			}
			if err := h.write(c, websocket.TextMessage, msg); err != nil {
				h.drop(c, "write", err)
				return
			}

		case <-ticker.C:
			if err := h.write(c, websocket.PingMessage, nil); err != nil {
				h.drop(c, "ping", err)
				return
			}
		}
	}
}

func (h *Hub) write(c *client, kind int, msg []byte) error {
	if err := c.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
		return err
	}
	return c.conn.WriteMessage(kind, msg)
}

func (h *Hub) drop(c *client, reason string, err error) {
	h.log.Log(logger.LogEntry{
		Level:   "warn",
		Message: "[hub][DROP] " + reason,
		Error:   err,
	})
	h.Unregister(c.conn)
}

func (h *Hub) SendToRoom(roomID string, msg []byte) {
	h.send([]string{roomID}, msg)
}

// BroadcastEvent fans an event out to its campaign room, the owning
// distributor's room and the admins. Each connection gets it once.
func (h *Hub) BroadcastEvent(ev models.Event) {
	msg, err := json.Marshal(ev)
	if err != nil {
		h.log.Log(logger.LogEntry{Level: "error", Message: "[hub][SEND-ERR] marshal", Error: err})
		return
	}

	rooms := []string{CampaignRoom(ev.CampaignID), AdminRoom}
	if ev.DistributorID != uuid.Nil {
		rooms = append(rooms, DistributorRoom(ev.DistributorID))
	}
	h.send(rooms, msg)
}

// send queues msg for every client in rooms without blocking. Clients whose
// queue is full are dropped.
func (h *Hub) send(rooms []string, msg []byte) {
	var slow []*client

	h.mu.RLock()
	targets := make(map[*client]bool)
	for _, roomID := range rooms {
		for c := range h.rooms[roomID] {
			targets[c] = true
		}
	}
	for c := range targets {
		select {
		case c.send <- msg:
		default:
			slow = append(slow, c)
		}
	}
	h.mu.RUnlock()

	for _, c := range slow {
		h.drop(c, "slow consumer", errors.New("send buffer full"))
	}
}

// Rooms reports how many connections sit in a room.
func (h *Hub) Rooms(roomID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.rooms[roomID])
}

var Upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

package services

import (
	"encoding/json"
	"sync"

	"codegaming/logger"

	"github.com/gorilla/websocket"
)

// Hub fans leaderboard updates out to connected websocket clients. Each
// client watches one board, identified by kind and category.
type Hub struct {
	clients    map[*Client]bool
	broadcast  chan boardUpdate
	register   chan *Client
	unregister chan *Client
	mutex      sync.RWMutex
	log        *logger.Logger
}

type Client struct {
	hub      *Hub
	socket   *websocket.Conn
	send     chan []byte
	kind     string
	category string
}

type Message struct {
	Type    string      `json:"type"`
	Payload interface{} `json:"payload"`
}

type boardUpdate struct {
	kind     string
	category string
	data     []byte
}

func NewHub(log *logger.Logger) *Hub {
	return &Hub{
		clients:    make(map[*Client]bool),
		broadcast:  make(chan boardUpdate),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		log:        log.With("component", "Hub"),
	}
}

func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.mutex.Lock()
			h.clients[client] = true
			h.mutex.Unlock()
			h.log.Debug("client registered", "kind", client.kind, "category", client.category, "total", len(h.clients))

		case client := <-h.unregister:
			h.mutex.Lock()
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.send)
			}
			h.mutex.Unlock()

		case update := <-h.broadcast:
			h.mutex.RLock()
			for client := range h.clients {
				if client.kind != update.kind || client.category != update.category {
					continue
				}
				select {
				case client.send <- update.data:
				default:
					close(client.send)
					delete(h.clients, client)
				}
			}
			h.mutex.RUnlock()
		}
	}
}

// BroadcastBoard pushes a freshly ranked board to every client watching it.
func (h *Hub) BroadcastBoard(kind, category string, entries []LeaderboardEntry) {
	message := Message{
		Type: "leaderboard_update",
		Payload: map[string]interface{}{
			"kind":        kind,
			"category":    category,
			"leaderboard": entries,
		},
	}
	data, err := json.Marshal(message)
	if err != nil {
		h.log.Error("failed to marshal leaderboard update", "error", err)
		return
	}
	h.broadcast <- boardUpdate{kind: kind, category: category, data: data}
}

// RegisterClient attaches a websocket connection to the hub and starts its
// read/write pumps.
func (h *Hub) RegisterClient(conn *websocket.Conn, kind, category string) {
	client := &Client{
		hub:      h,
		socket:   conn,
		send:     make(chan []byte, 8),
		kind:     kind,
		category: category,
	}
	h.register <- client

	go client.writePump()
	go client.readPump()
}

func (c *Client) writePump() {
	defer c.socket.Close()
	for message := range c.send {
		if err := c.socket.WriteMessage(websocket.TextMessage, message); err != nil {
			return
		}
	}
}

// readPump drains (and discards) client messages so ping/pong and close
// frames are processed; the feed is one-way.
func (c *Client) readPump() {
	defer func() {
		c.hub.unregister <- c
		c.socket.Close()
	}()
	for {
		if _, _, err := c.socket.ReadMessage(); err != nil {
			return
		}
	}
}

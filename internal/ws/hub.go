package ws

import (
	"encoding/json"
	"sync"
)

// Client is one live WebSocket connection with user context.
type Client struct {
	UserID uint
	Role   string
	Send   chan []byte
	done   chan struct{}
	hub    *Hub
	mu     sync.Mutex
	closed bool
}

func NewClient(userID uint, role string) *Client {
	return &Client{
		UserID: userID,
		Role:   role,
		Send:   make(chan []byte, 256),
		done:   make(chan struct{}),
	}
}

// Done is closed when the client disconnects; the write pump exits on
// it. Send itself is never closed, so a concurrent hub push cannot
// panic against a disconnecting client.
func (c *Client) Done() <-chan struct{} {
	return c.done
}

func (c *Client) Close() {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.closed = true
	close(c.done)
	c.mu.Unlock()
	if c.hub != nil {
		c.hub.unregister(c)
	}
}

// trySend delivers without blocking. Closed and slow clients both
// drop the message.
func (c *Client) trySend(data []byte) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	select {
	case c.Send <- data:
	default:
	}
}

// Hub fans auction events and notifications out to connected clients.
// A slow client drops messages rather than blocking the sender.
type Hub struct {
	mu      sync.RWMutex
	clients map[*Client]struct{}
	// userID -> clients; one user can hold several connections
	byUser map[uint]map[*Client]struct{}
}

func NewHub() *Hub {
	return &Hub{
		clients: make(map[*Client]struct{}),
		byUser:  make(map[uint]map[*Client]struct{}),
	}
}

func (h *Hub) Register(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	c.hub = h
	h.clients[c] = struct{}{}
	if h.byUser[c.UserID] == nil {
		h.byUser[c.UserID] = make(map[*Client]struct{})
	}
	h.byUser[c.UserID][c] = struct{}{}
}

func (h *Hub) unregister(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.clients, c)
	if m := h.byUser[c.UserID]; m != nil {
		delete(m, c)
		if len(m) == 0 {
			delete(h.byUser, c.UserID)
		}
	}
}

// SendToUser pushes a payload to every connection of one user.
func (h *Hub) SendToUser(userID uint, payload interface{}) {
	data, _ := json.Marshal(payload)
	h.mu.RLock()
	m := h.byUser[userID]
	clients := make([]*Client, 0, len(m))
	for c := range m {
		clients = append(clients, c)
	}
	h.mu.RUnlock()
	for _, c := range clients {
		c.trySend(data)
	}
}

// Broadcast pushes an auction event to every connection.
func (h *Hub) Broadcast(payload interface{}) {
	data, _ := json.Marshal(payload)
	h.mu.RLock()
	clients := make([]*Client, 0, len(h.clients))
	for c := range h.clients {
		clients = append(clients, c)
	}
	h.mu.RUnlock()
	for _, c := range clients {
		c.trySend(data)
	}
}

func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// AuctionEvent is the live feed payload for bid and lifecycle updates.
type AuctionEvent struct {
	Type         string `json:"type"` // bid_accepted | auction_started | auction_ended
	AuctionID    uint   `json:"auction_id"`
	CurrentPrice int64  `json:"current_price,omitempty"`
	Status       string `json:"status,omitempty"`
}

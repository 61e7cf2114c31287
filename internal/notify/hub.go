package notify

import (
	"encoding/json"
	"io"
	"sync"
	"time"

	"newsdesk/internal"

	"github.com/gin-gonic/gin"
)

// Event types pushed to browsers
const (
	EventNotify  = "notify"
	EventDismiss = "dismiss"
	EventRefresh = "refresh"
)

// Event is one message on the SSE stream.
type Event struct {
	Type         string        `json:"type"`
	SessionID    string        `json:"-"`
	Notification *Notification `json:"notification,omitempty"`
	Sequence     uint64        `json:"sequence,omitempty"`
	Timestamp    time.Time     `json:"timestamp"`
}

// Hub fans events out to the SSE clients of each session. An event with an
// empty SessionID goes to every client.
type Hub struct {
	clients   map[string]map[chan Event]bool
	clientsMu sync.RWMutex
	keepAlive time.Duration
	logger    *internal.Logger
}

// NewHub creates an SSE hub
func NewHub(logger *internal.Logger) *Hub {
	return &Hub{
		clients:   make(map[string]map[chan Event]bool),
		keepAlive: 30 * time.Second,
		logger:    logger.With("SSE"),
	}
}

// Subscribe registers a client channel for sessionID. The returned func
// unregisters it and closes the channel.
func (h *Hub) Subscribe(sessionID string) (<-chan Event, func()) {
	ch := make(chan Event, 16)

	h.clientsMu.Lock()
	if h.clients[sessionID] == nil {
		h.clients[sessionID] = make(map[chan Event]bool)
	}
	h.clients[sessionID][ch] = true
	count := len(h.clients[sessionID])
	h.clientsMu.Unlock()

	h.logger.Debug("Client registered for session %s (total clients: %d)", sessionID, count)

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			h.clientsMu.Lock()
			defer h.clientsMu.Unlock()
			if clients, ok := h.clients[sessionID]; ok {
				delete(clients, ch)
				if len(clients) == 0 {
					delete(h.clients, sessionID)
				}
			}
			close(ch)
		})
	}
}

// Publish delivers event without blocking; a full client buffer drops it.
func (h *Hub) Publish(event Event) {
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}

	h.clientsMu.RLock()
	defer h.clientsMu.RUnlock()

	for sessionID, clients := range h.clients {
		if event.SessionID != "" && sessionID != event.SessionID {
			continue
		}
		for ch := range clients {
			select {
			case ch <- event:
			default:
				h.logger.Warn("Client channel full for session %s, dropping %s event", sessionID, event.Type)
			}
		}
	}
}

// ClientCount returns the number of active clients for a session
func (h *Hub) ClientCount(sessionID string) int {
	h.clientsMu.RLock()
	defer h.clientsMu.RUnlock()
	return len(h.clients[sessionID])
}

// Stream serves the SSE endpoint for sessionID until the client goes away.
func (h *Hub) Stream(c *gin.Context, sessionID string) {
	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")

	events, unsubscribe := h.Subscribe(sessionID)
	defer unsubscribe()

	ctx := c.Request.Context()
	ticker := time.NewTicker(h.keepAlive)
	defer ticker.Stop()

	c.Stream(func(w io.Writer) bool {
		select {
		case event, ok := <-events:
			if !ok {
				return false
			}
			payload, err := json.Marshal(event)
			if err != nil {
				h.logger.Error("Failed to marshal event: %v", err)
				return true
			}
			c.SSEvent(event.Type, string(payload))
			return true

		case <-ticker.C:
			c.SSEvent("ping", `{"status":"alive"}`)
			return true

		case <-ctx.Done():
			return false
		}
	})
}

// TotalClients returns the number of connected clients across all sessions.
func (h *Hub) TotalClients() int {
	h.clientsMu.RLock()
	defer h.clientsMu.RUnlock()
	total := 0
	for _, clients := range h.clients {
		total += len(clients)
	}
	return total
}

package services

import (
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/careerhub/careerhub/backend/pkg/logger"
)

// NotificationEvent is the real-time payload pushed to connected clients.
type NotificationEvent struct {
	Kind      string                 `json:"kind"`
	Title     string                 `json:"title"`
	Body      string                 `json:"body"`
	Payload   map[string]interface{} `json:"payload,omitempty"`
	CreatedAt time.Time              `json:"created_at"`
}

type presenceClient struct {
	userID   uint
	ch       chan NotificationEvent
	lastSeen time.Time
}

// PresenceHub tracks connected SSE clients per user and routes notification
// events to them. A cron janitor evicts connections that stopped
// heartbeating without closing.
type PresenceHub struct {
	clients map[string]*presenceClient
	mu      sync.RWMutex
}

// NewPresenceHub creates a new hub instance
func NewPresenceHub() *PresenceHub {
	return &PresenceHub{
		clients: make(map[string]*presenceClient),
	}
}

// Subscribe registers a client connection for a user and returns the event channel
func (h *PresenceHub) Subscribe(clientID string, userID uint) <-chan NotificationEvent {
	h.mu.Lock()
	defer h.mu.Unlock()

	// Buffered so a slow consumer never blocks publishers
	ch := make(chan NotificationEvent, 100)
	h.clients[clientID] = &presenceClient{userID: userID, ch: ch, lastSeen: time.Now()}
	return ch
}

// Unsubscribe removes a client from the hub
func (h *PresenceHub) Unsubscribe(clientID string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if c, ok := h.clients[clientID]; ok {
		close(c.ch)
		delete(h.clients, clientID)
	}
}

// Touch refreshes a client's last-seen timestamp (called on every delivered
// event or heartbeat tick).
func (h *PresenceHub) Touch(clientID string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if c, ok := h.clients[clientID]; ok {
		c.lastSeen = time.Now()
	}
}

// PublishTo sends an event to every connection belonging to the given user
func (h *PresenceHub) PublishTo(userID uint, event NotificationEvent) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for _, c := range h.clients {
		if c.userID != userID {
			continue
		}
		// Non-blocking send - drop event if client buffer is full
		select {
		case c.ch <- event:
		default:
		}
	}
}

// ClientCount returns the number of connected clients
func (h *PresenceHub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// evictStale drops connections not seen for the given duration and returns
// how many were removed.
func (h *PresenceHub) evictStale(maxIdle time.Duration) int {
	h.mu.Lock()
	defer h.mu.Unlock()

	evicted := 0
	for id, c := range h.clients {
		if time.Since(c.lastSeen) > maxIdle {
			close(c.ch)
			delete(h.clients, id)
			evicted++
		}
	}
	return evicted
}

// Global hub instance
var (
	globalPresenceHub *PresenceHub
	presenceHubOnce   sync.Once
)

// GetPresenceHub returns the global presence hub singleton
func GetPresenceHub() *PresenceHub {
	presenceHubOnce.Do(func() {
		globalPresenceHub = NewPresenceHub()
	})
	return globalPresenceHub
}

var presenceJanitor *cron.Cron

// StartPresenceJanitor starts the cron job that evicts stale SSE connections.
func StartPresenceJanitor() {
	if presenceJanitor != nil {
		return
	}
	presenceJanitor = cron.New()
	presenceJanitor.AddFunc("@every 1m", func() {
		if n := GetPresenceHub().evictStale(5 * time.Minute); n > 0 {
			logger.Infof("[Presence] Evicted %d stale connections", n)
		}
	})
	presenceJanitor.Start()
}

// StopPresenceJanitor stops the janitor cron.
func StopPresenceJanitor() {
	if presenceJanitor != nil {
		presenceJanitor.Stop()
		presenceJanitor = nil
	}
}

package ui

import (
	"net/http"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Hub tracks the connected consoles. Each browser tab is one Client with its
// own session; nothing is broadcast between them.
type Hub struct {
	register   chan *Client
	unregister chan *Client
	quit       chan struct{}
	stopped    chan struct{}

	mu      sync.Mutex
	clients map[*Client]bool

	allowedOrigin  string
	confirmTimeout time.Duration
	log            *zap.Logger
}

func NewHub(allowedOrigin string, confirmTimeout time.Duration, log *zap.Logger) *Hub {
	return &Hub{
		register:       make(chan *Client),
		unregister:     make(chan *Client),
		quit:           make(chan struct{}),
		stopped:        make(chan struct{}),
		clients:        make(map[*Client]bool),
		allowedOrigin:  allowedOrigin,
		confirmTimeout: confirmTimeout,
		log:            log.Named("hub"),
	}
}

func (h *Hub) Run() {
	defer close(h.stopped)
	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			h.clients[client] = true
			n := len(h.clients)
			h.mu.Unlock()
			h.log.Info("console connected", zap.Int("consoles", n))

		case client := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
			}
			n := len(h.clients)
			h.mu.Unlock()
			client.close()
			h.log.Info("console disconnected", zap.Int("consoles", n))

		case <-h.quit:
			h.mu.Lock()
			for client := range h.clients {
				client.close()
				delete(h.clients, client)
			}
			h.mu.Unlock()
			return
		}
	}
}

// Shutdown disconnects every console and stops Run.
func (h *Hub) Shutdown() {
	select {
	case <-h.quit:
	default:
		close(h.quit)
	}
	<-h.stopped
}

// Count returns the number of connected consoles.
func (h *Hub) Count() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

func (h *Hub) add(c *Client) bool {
	select {
	case h.register <- c:
		return true
	case <-h.quit:
		return false
	}
}

func (h *Hub) remove(c *Client) {
	select {
	case h.unregister <- c:
	case <-h.quit:
	}
}

func (h *Hub) checkOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if h.allowedOrigin == "" || h.allowedOrigin == "*" || origin == "" {
		return true
	}
	return origin == h.allowedOrigin
}

// Package sse fans playback state changes out to connected player UIs.
package sse

import "sync"

// Update is one playback state notification.
type Update struct {
	State            string `json:"state"`
	RemainingSeconds int    `json:"remaining_seconds"`
	AdTitle          string `json:"ad_title,omitempty"`
	RewardPoints     int    `json:"reward_points,omitempty"`
}

// Hub is an in-memory broadcast hub.
type Hub struct {
	mu      sync.Mutex
	clients map[chan Update]struct{}
}

func New() *Hub {
	return &Hub{clients: make(map[chan Update]struct{})}
}

// Subscribe registers a listener. Returns a receive-only channel and an
// unsubscribe function.
func (h *Hub) Subscribe() (<-chan Update, func()) {
	ch := make(chan Update, 16)

	h.mu.Lock()
	h.clients[ch] = struct{}{}
	h.mu.Unlock()

	// The channel is never closed; Publish may hold a reference outside the
	// lock. Subscribers stop reading when their request context ends.
	unsub := func() {
		h.mu.Lock()
		delete(h.clients, ch)
		h.mu.Unlock()
	}

	return ch, unsub
}

// Publish sends an update to all subscribers. Non-blocking: slow clients
// are skipped.
func (h *Hub) Publish(u Update) {
	h.mu.Lock()
	channels := make([]chan Update, 0, len(h.clients))
	for ch := range h.clients {
		channels = append(channels, ch)
	}
	h.mu.Unlock()

	for _, ch := range channels {
		select {
		case ch <- u:
		default:
		}
	}
}

package sse

import (
	"sync"
	"sync/atomic"
)

// Event is a single server-sent event addressed to one staff member.
type Event struct {
	StaffID string
	Event   string
	Data    interface{}
}

// Hub fans events out to the open streams of each staff member.
// Slow subscribers lose events instead of blocking publishers.
type Hub struct {
	mu          sync.RWMutex
	subscribers map[string]map[chan Event]struct{}
	bufferSize  int
	dropped     atomic.Int64
}

// NewHub creates a hub whose subscriber channels hold bufferSize events (default 10).
func NewHub(bufferSize int) *Hub {
	if bufferSize <= 0 {
		bufferSize = 10
	}
	return &Hub{
		subscribers: make(map[string]map[chan Event]struct{}),
		bufferSize:  bufferSize,
	}
}

// Subscribe registers a stream for staffID. The returned cleanup must be called
// exactly once when the stream ends; it closes the channel.
func (h *Hub) Subscribe(staffID string) (<-chan Event, func()) {
	h.mu.Lock()
	defer h.mu.Unlock()

	ch := make(chan Event, h.bufferSize)
	if h.subscribers[staffID] == nil {
		h.subscribers[staffID] = make(map[chan Event]struct{})
	}
	h.subscribers[staffID][ch] = struct{}{}

	var once sync.Once
	cleanup := func() {
		once.Do(func() {
			h.mu.Lock()
			defer h.mu.Unlock()
			delete(h.subscribers[staffID], ch)
			close(ch)
			if len(h.subscribers[staffID]) == 0 {
				delete(h.subscribers, staffID)
			}
		})
	}

	return ch, cleanup
}

// Publish delivers event to every open stream of staffID.
func (h *Hub) Publish(staffID string, event Event) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for ch := range h.subscribers[staffID] {
		select {
		case ch <- event:
		default:
			h.dropped.Add(1)
		}
	}
}

// PublishToMany sends a copy of event to each staff member in staffIDs.
func (h *Hub) PublishToMany(staffIDs []string, event Event) {
	for _, id := range staffIDs {
		e := event
		e.StaffID = id
		h.Publish(id, e)
	}
}

// SubscriberCount returns the number of open streams for staffID.
func (h *Hub) SubscriberCount(staffID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subscribers[staffID])
}

// Dropped returns how many events were discarded because a subscriber was full.
func (h *Hub) Dropped() int64 {
	return h.dropped.Load()
}

// Package events carries change notifications from the record store out to
// connected sessions. Services publish after every successful write; clients
// hold an SSE stream open and recompute their visible sets on each event
// instead of polling or reloading.
package events

import (
	"context"
	"sync"
	"time"
)

// Kind says which collection changed.
type Kind string

const (
	KindMember Kind = "member"
	KindLog    Kind = "log"
)

// Op says what happened to the entity.
type Op string

const (
	OpCreated Op = "created"
	OpUpdated Op = "updated"
	OpDeleted Op = "deleted"
)

// Event is one change notification.
type Event struct {
	Kind Kind      `json:"kind"`
	Op   Op        `json:"op"`
	ID   string    `json:"id"`
	At   time.Time `json:"at"`
}

const subscriberBuffer = 16

// Hub fans change events out to subscribers. Slow subscribers miss events
// rather than block writers; a missed event only means the client recomputes
// on the next one.
type Hub struct {
	mu     sync.Mutex
	nextID int
	subs   map[int]chan Event
}

func NewHub() *Hub {
	return &Hub{
		subs: make(map[int]chan Event),
	}
}

// Subscribe registers a new subscriber. The channel closes when ctx is done.
func (h *Hub) Subscribe(ctx context.Context) <-chan Event {
	ch := make(chan Event, subscriberBuffer)

	h.mu.Lock()
	id := h.nextID
	h.nextID++
	h.subs[id] = ch
	h.mu.Unlock()

	go func() {
		<-ctx.Done()
		h.mu.Lock()
		delete(h.subs, id)
		h.mu.Unlock()
		close(ch)
	}()

	return ch
}

// Publish delivers an event to every current subscriber without blocking.
func (h *Hub) Publish(e Event) {
	if e.At.IsZero() {
		e.At = time.Now()
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	for _, ch := range h.subs {
		select {
		case ch <- e:
		default:
		}
	}
}

// SubscriberCount returns the number of active subscribers.
func (h *Hub) SubscriberCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.subs)
}

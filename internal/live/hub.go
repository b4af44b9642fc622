// Package live turns committed writes into refreshed query results.
//
// The store publishes the names of the tables each committed transaction touched.
// Subscribers listen on table names (topics) and re-run their query when signalled.
package live

import (
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/example/blotter/internal/logger"
)

// Subscription receives a signal after every commit touching one of its topics.
// Signals coalesce: a subscriber that falls behind sees one pending signal, not many.
type Subscription struct {
	ID     uuid.UUID
	C      <-chan struct{}
	topics map[string]bool
	signal chan struct{}
	hub    *Hub
	once   sync.Once
}

// Close unsubscribes. It is safe to call more than once.
func (s *Subscription) Close() {
	s.once.Do(func() { s.hub.remove(s) })
}

// Hub fans commit notifications out to subscribers.
type Hub struct {
	mu            sync.RWMutex
	log           *logger.Logger
	subscriptions map[string]map[*Subscription]bool
}

// NewHub creates an empty hub.
func NewHub(log *logger.Logger) *Hub {
	if log == nil {
		log = logger.Nop()
	}
	return &Hub{
		log:           log.With("component", "live_hub"),
		subscriptions: make(map[string]map[*Subscription]bool),
	}
}

// Subscribe registers interest in the given tables.
func (h *Hub) Subscribe(topics ...string) *Subscription {
	signal := make(chan struct{}, 1)
	sub := &Subscription{
		ID:     uuid.New(),
		C:      signal,
		topics: make(map[string]bool),
		signal: signal,
		hub:    h,
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	for _, t := range topics {
		t = strings.TrimSpace(t)
		if t == "" {
			continue
		}
		sub.topics[t] = true
		subs, ok := h.subscriptions[t]
		if !ok {
			subs = make(map[*Subscription]bool)
			h.subscriptions[t] = subs
		}
		subs[sub] = true
	}
	h.log.Debug("live subscription added", "subscription", sub.ID, "topics", topics)
	return sub
}

func (h *Hub) remove(sub *Subscription) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for t := range sub.topics {
		if subs, ok := h.subscriptions[t]; ok {
			delete(subs, sub)
			if len(subs) == 0 {
				delete(h.subscriptions, t)
			}
		}
	}
	h.log.Debug("live subscription removed", "subscription", sub.ID)
}

// Publish signals every subscriber of any of the tables. A subscriber listening on
// several touched tables is signalled once.
func (h *Hub) Publish(tables ...string) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	notified := make(map[*Subscription]bool)
	for _, t := range tables {
		for sub := range h.subscriptions[t] {
			if notified[sub] {
				continue
			}
			notified[sub] = true
			select {
			case sub.signal <- struct{}{}:
			default:
				// a signal is already pending
			}
		}
	}
}

// Subscribers returns the number of live subscriptions on a table.
func (h *Hub) Subscribers(table string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subscriptions[table])
}

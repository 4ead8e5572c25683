// Package realtime fans gateway events out to connected UI shells.
package realtime

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
)

// Event types sent to the shell.
const (
	EventSession    = "session"
	EventBanner     = "banner"
	EventAssessment = "assessment"
	EventIntent     = "intent"
	EventChat       = "chat"
	EventEmergency  = "emergency"
)

// Event is the payload written to every WebSocket subscriber.
type Event struct {
	Type      string      `json:"type"`
	Data      interface{} `json:"data,omitempty"`
	Timestamp time.Time   `json:"timestamp"`
	// Origin is set on events received from another process.
	Origin string `json:"origin,omitempty"`
}

// remoteEvent keeps Data undecoded; it is forwarded as-is.
type remoteEvent struct {
	Type      string          `json:"type"`
	Data      json.RawMessage `json:"data,omitempty"`
	Timestamp time.Time       `json:"timestamp"`
	Origin    string          `json:"origin,omitempty"`
}

type subscriber struct {
	ch chan Event
	// taps observe events but do not count as connected shells
	tap bool
}

// Hub is an in-process registry of event subscribers.
type Hub struct {
	mu     sync.RWMutex
	subs   map[uint64]subscriber
	nextID uint64
	log    *logrus.Entry
}

func NewHub(log *logrus.Entry) *Hub {
	return &Hub{subs: make(map[uint64]subscriber), log: log}
}

// Subscribe registers a shell. The returned func unsubscribes and
// closes the channel; it is safe to call more than once.
func (h *Hub) Subscribe(buffer int) (<-chan Event, func()) {
	return h.subscribe(buffer, false)
}

// Tap registers an observer that is not counted by Subscribers.
func (h *Hub) Tap(buffer int) (<-chan Event, func()) {
	return h.subscribe(buffer, true)
}

func (h *Hub) subscribe(buffer int, tap bool) (<-chan Event, func()) {
	if buffer <= 0 {
		buffer = 16
	}
	ch := make(chan Event, buffer)

	h.mu.Lock()
	id := h.nextID
	h.nextID++
	h.subs[id] = subscriber{ch: ch, tap: tap}
	h.mu.Unlock()

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			h.mu.Lock()
			delete(h.subs, id)
			h.mu.Unlock()
			close(ch)
		})
	}
}

// Publish delivers an event to every subscriber without blocking. A
// subscriber whose buffer is full misses the event.
func (h *Hub) Publish(eventType string, data interface{}) {
	h.Deliver(Event{Type: eventType, Data: data, Timestamp: time.Now().UTC()})
}

// Deliver fans out a fully formed event, such as one relayed from another process.
func (h *Hub) Deliver(evt Event) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for id, sub := range h.subs {
		select {
		case sub.ch <- evt:
		default:
			h.log.WithFields(logrus.Fields{"subscriber": id, "type": evt.Type}).Warn("event dropped for slow subscriber")
		}
	}
}

// Subscribers returns the number of connected shells.
func (h *Hub) Subscribers() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	n := 0
	for _, sub := range h.subs {
		if !sub.tap {
			n++
		}
	}
	return n
}

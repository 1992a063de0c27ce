// Package events provides a lightweight in-process event bus used to fan out
// ingest notifications to interested components (websocket stream, monitors).
package events

import (
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// EventType identifies the kind of event published on the bus
type EventType string

const (
	// SnapshotIngested is published after a snapshot has been written to the store
	SnapshotIngested EventType = "snapshot.ingested"
)

// Event is a single bus notification
type Event struct {
	Type      EventType `json:"type"`
	AccountID string    `json:"account_id"`
	At        time.Time `json:"at"`
}

// Bus fans out events to all current subscribers. Publishing never blocks:
// subscribers with a full buffer miss the event and catch up on the next one,
// which is acceptable because every event carries no payload beyond the account
// id — consumers re-read the store.
type Bus struct {
	mu   sync.RWMutex
	subs map[int]chan Event
	next int
	log  zerolog.Logger
}

// NewBus creates a new event bus
func NewBus(log zerolog.Logger) *Bus {
	return &Bus{
		subs: make(map[int]chan Event),
		log:  log.With().Str("component", "events").Logger(),
	}
}

// Subscribe registers a new subscriber and returns its channel along with an
// unsubscribe function. The unsubscribe function is safe to call more than once.
func (b *Bus) Subscribe() (<-chan Event, func()) {
	b.mu.Lock()
	defer b.mu.Unlock()

	id := b.next
	b.next++
	ch := make(chan Event, 16)
	b.subs[id] = ch

	var once sync.Once
	unsubscribe := func() {
		once.Do(func() {
			b.mu.Lock()
			defer b.mu.Unlock()
			if sub, ok := b.subs[id]; ok {
				delete(b.subs, id)
				close(sub)
			}
		})
	}

	return ch, unsubscribe
}

// Publish delivers the event to every subscriber that has buffer room
func (b *Bus) Publish(evt Event) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	for _, ch := range b.subs {
		select {
		case ch <- evt:
		default:
			b.log.Debug().Str("type", string(evt.Type)).Msg("Subscriber buffer full, event dropped")
		}
	}
}

// SubscriberCount returns the number of active subscribers
func (b *Bus) SubscriberCount() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subs)
}

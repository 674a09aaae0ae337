package common

import (
	"sync"

	"crown-platform/backend/internal/logging"
)

// Topic is a typed event-bus channel name.
type Topic string

const (
	// TopicVideoUpdate fires when a media/submission row changes.
	TopicVideoUpdate Topic = "videoUpdate"
	// TopicContestUpdate fires when a contest row changes.
	TopicContestUpdate Topic = "contestUpdate"
	// TopicSessionExpired fires when the sweep force-signs a user out.
	TopicSessionExpired Topic = "sessionExpired"
)

// Event is a bus message. Payload is topic-specific and JSON-friendly.
type Event struct {
	Topic   Topic       `json:"topic"`
	UserID  string      `json:"user_id,omitempty"`
	Payload interface{} `json:"payload,omitempty"`
}

// EventBus is the in-process replacement for the SPA's window-level custom
// events: best-effort, at-least-once, no ordering guarantee. Publish never
// blocks; subscribers with a full buffer miss the event.
type EventBus struct {
	mu   sync.RWMutex
	subs map[Topic][]chan Event
}

func NewEventBus() *EventBus {
	return &EventBus{
		subs: make(map[Topic][]chan Event),
	}
}

// Subscribe returns a buffered channel receiving events for the given
// topics, plus an unsubscribe func that closes it.
func (b *EventBus) Subscribe(topics ...Topic) (<-chan Event, func()) {
	ch := make(chan Event, 16)

	b.mu.Lock()
	for _, topic := range topics {
		b.subs[topic] = append(b.subs[topic], ch)
	}
	b.mu.Unlock()

	unsubscribe := func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		for _, topic := range topics {
			listeners := b.subs[topic]
			for i, c := range listeners {
				if c == ch {
					b.subs[topic] = append(listeners[:i], listeners[i+1:]...)
					break
				}
			}
		}
		close(ch)
	}

	return ch, unsubscribe
}

// Publish delivers the event to every current subscriber of its topic.
// The lock is held across the non-blocking sends so a concurrent
// unsubscribe cannot close a channel mid-send.
func (b *EventBus) Publish(event Event) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	for _, ch := range b.subs[event.Topic] {
		select {
		case ch <- event:
		default:
			// Slow subscriber; delivery is best-effort.
			logging.Debug("Event dropped for slow subscriber", "topic", string(event.Topic))
		}
	}
}

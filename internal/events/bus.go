// Package events carries the engine's internal event stream. Health
// transitions are always published here, including silent recoveries, so a
// recovery notifier or a dashboard can observe them without touching the
// state machine.
package events

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

type Type string

const (
	TypeStateChanged Type = "state_changed"
	TypeNotified     Type = "notified"
	TypeSuppressed   Type = "suppressed"
	TypeRecovered    Type = "recovered"
	TypeLoopStopped  Type = "loop_stopped"
)

type Event struct {
	ID      string    `json:"id"`
	Type    Type      `json:"type"`
	Alert   string    `json:"alert"`
	From    string    `json:"from,omitempty"`
	To      string    `json:"to,omitempty"`
	Message string    `json:"message,omitempty"`
	At      time.Time `json:"at"`
}

// Bus is a fan-out of engine events. Publishing never blocks: a subscriber
// that falls behind loses events rather than stalling an alert loop.
type Bus struct {
	mu   sync.RWMutex
	subs map[chan Event]struct{}
}

func NewBus() *Bus {
	return &Bus{subs: make(map[chan Event]struct{})}
}

// Publish stamps the event with an ID and timestamp and fans it out.
func (b *Bus) Publish(e Event) {
	e.ID = uuid.NewString()
	if e.At.IsZero() {
		e.At = time.Now()
	}

	b.mu.RLock()
	defer b.mu.RUnlock()

	for ch := range b.subs {
		select {
		case ch <- e:
		default:
		}
	}
}

// Subscribe returns a buffered event channel and a cancel func that closes it.
func (b *Bus) Subscribe() (<-chan Event, func()) {
	ch := make(chan Event, 64)

	b.mu.Lock()
	b.subs[ch] = struct{}{}
	b.mu.Unlock()

	cancel := func() {
		b.mu.Lock()
		if _, ok := b.subs[ch]; ok {
			delete(b.subs, ch)
			close(ch)
		}
		b.mu.Unlock()
	}

	return ch, cancel
}

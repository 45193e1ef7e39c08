package mailwatch

import (
	"log"
	"strings"
	"sync"

	"github.com/nats-io/nats.go"
)

// NATSWatcher turns messages on a NATS subject tree into label events. A
// bridge process scans the mailbox and publishes each match to
// <prefix>.<label> with the matched text as payload; the watcher itself never
// touches mailbox mechanics.
type NATSWatcher struct {
	nc     *nats.Conn
	sub    *nats.Subscription
	prefix string

	mu     sync.Mutex
	closed bool
	ch     chan Event
}

func NewNATS(url, prefix string) (*NATSWatcher, error) {
	nc, err := nats.Connect(url)

	if err != nil {
		return nil, err
	}

	w := &NATSWatcher{
		nc:     nc,
		prefix: strings.TrimSuffix(prefix, "."),
		ch:     make(chan Event, 16),
	}

	subject := w.prefix + ".>"
	if w.prefix == "" {
		subject = ">"
	}

	sub, err := nc.Subscribe(subject, w.handle)

	if err != nil {
		nc.Close()
		return nil, err
	}

	w.sub = sub
	log.Printf("mailwatch: subscribed to %s", subject)
	return w, nil
}

func (w *NATSWatcher) handle(msg *nats.Msg) {
	label := msg.Subject
	if w.prefix != "" {
		label = strings.TrimPrefix(label, w.prefix+".")
	}

	// A handler can still be in flight when Close runs; the lock keeps it
	// from sending on the closed channel.
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.closed {
		return
	}

	select {
	case w.ch <- Event{Label: label, MatchedText: string(msg.Data)}:
	default:
		log.Printf("mailwatch: dropping event for label %s, consumer is behind", label)
	}
}

func (w *NATSWatcher) Events() <-chan Event {
	return w.ch
}

func (w *NATSWatcher) Close() error {
	if w.sub != nil {
		w.sub.Unsubscribe()
	}
	if w.nc != nil {
		w.nc.Close()
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	if !w.closed {
		w.closed = true
		close(w.ch)
	}
	return nil
}

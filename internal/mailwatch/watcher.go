// Package mailwatch is the mailbox-trigger boundary: a watcher yields
// (label, matched text) events, and the scheduler feeds each event into the
// state machine of any alert subscribed to that label as an immediate
// synthetic failure, bypassing the probe cadence.
package mailwatch

// Event is one label match.
type Event struct {
	Label       string
	MatchedText string
}

// Watcher yields label match events until closed.
type Watcher interface {
	Events() <-chan Event
	Close() error
}

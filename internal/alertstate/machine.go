// Package alertstate implements the per-alert health machine: a single
// transient failure is confirmed with a one-shot re-check before escalating,
// recovery is silent, and an alerting target re-notifies every cycle unless
// the alert is configured to notify once per episode.
package alertstate

// State is the health of one alert.
type State int

const (
	StateOK State = iota
	StateSuspect
	StateAlerting
)

func (s State) String() string {
	switch s {
	case StateSuspect:
		return "suspect"
	case StateAlerting:
		return "alerting"
	default:
		return "ok"
	}
}

// Outcome tells the owning loop what to do after an observation.
type Outcome int

const (
	// OutcomeNone requires no action.
	OutcomeNone Outcome = iota
	// OutcomeConfirm schedules the one-shot confirmation re-check.
	OutcomeConfirm
	// OutcomeNotify triggers notification, gated by the silence registry.
	OutcomeNotify
	// OutcomeRecovered marks a transition out of alerting; no notification
	// is sent, but the transition is published so observers can see it.
	OutcomeRecovered
)

// Machine tracks one alert's health. It is owned by a single loop and needs
// no locking.
type Machine struct {
	state      State
	notifyOnce bool
}

// New returns a machine in StateOK. With notifyOnce set, an alerting target
// notifies only on entry to StateAlerting instead of every failing cycle.
func New(notifyOnce bool) *Machine {
	return &Machine{notifyOnce: notifyOnce}
}

func (m *Machine) State() State {
	return m.state
}

// Observe feeds a regular-cadence health result into the machine.
func (m *Machine) Observe(healthy bool) Outcome {
	if healthy {
		prev := m.state
		m.state = StateOK
		if prev == StateAlerting {
			return OutcomeRecovered
		}
		return OutcomeNone
	}

	switch m.state {
	case StateOK:
		m.state = StateSuspect
		return OutcomeConfirm
	case StateSuspect:
		// Still suspect at a regular tick means the confirmation re-check
		// never ran (the loop was paused through it); schedule it again.
		return OutcomeConfirm
	default: // StateAlerting
		if m.notifyOnce {
			return OutcomeNone
		}
		return OutcomeNotify
	}
}

// ObserveConfirmation feeds the result of the one-shot re-check. Healthy means
// the first failure was a transient blip: back to OK, no notification.
func (m *Machine) ObserveConfirmation(healthy bool) Outcome {
	if healthy {
		m.state = StateOK
		return OutcomeNone
	}

	m.state = StateAlerting
	return OutcomeNotify
}

// Reset returns the machine to OK, used when an alert is stopped.
func (m *Machine) Reset() {
	m.state = StateOK
}

// Package scheduler drives one independent, cancellable loop per running
// alert. Loops share nothing but the registry and the silence list; pausing
// or stopping one alert never touches another.
package scheduler

import (
	"context"
	"fmt"
	"log"
	"sync"
	"sync/atomic"
	"time"

	"github.com/argus-dev/argus/internal/alertstate"
	"github.com/argus-dev/argus/internal/events"
	"github.com/argus-dev/argus/internal/mailwatch"
	"github.com/argus-dev/argus/internal/models"
	"github.com/argus-dev/argus/internal/notifiers"
	"github.com/argus-dev/argus/internal/probes"
	"github.com/argus-dev/argus/internal/registry"
)

type Config struct {
	Registry *registry.Registry
	Prober   probes.Prober
	Notifier notifiers.Notifier
	Bus      *events.Bus // optional

	// DeliverTimeout bounds one notification fan-out. Default 30s.
	DeliverTimeout time.Duration

	// TickUnit scales Alert.Interval and Alert.ConfirmDelay. Production uses
	// the default of one second; tests shrink it.
	TickUnit time.Duration
}

type Scheduler struct {
	cfg    Config
	ctx    context.Context
	cancel context.CancelFunc

	mu    sync.Mutex
	loops map[string]*loop
}

type loop struct {
	cancel  context.CancelFunc
	done    chan struct{}
	paused  atomic.Bool
	inject  chan mailwatch.Event
	machine *alertstate.Machine
}

func New(cfg Config) *Scheduler {
	if cfg.TickUnit <= 0 {
		cfg.TickUnit = time.Second
	}
	if cfg.DeliverTimeout <= 0 {
		cfg.DeliverTimeout = 30 * time.Second
	}

	ctx, cancel := context.WithCancel(context.Background())
	return &Scheduler{
		cfg:    cfg,
		ctx:    ctx,
		cancel: cancel,
		loops:  make(map[string]*loop),
	}
}

// Start spawns the loop for an alert. Starting a paused alert resumes it;
// starting a running alert fails with ErrAlreadyRunning.
func (s *Scheduler) Start(name string) error {
	alert, _, _, err := s.cfg.Registry.ResolveAlert(name)

	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if l, exists := s.loops[name]; exists {
		if l.paused.Load() {
			l.paused.Store(false)
			s.cfg.Registry.SetRunState(name, models.RunStateRunning)
			log.Printf("scheduler: resumed alert %s", name)
			return nil
		}
		return fmt.Errorf("%w: %s", models.ErrAlreadyRunning, name)
	}

	loopCtx, loopCancel := context.WithCancel(s.ctx)
	l := &loop{
		cancel:  loopCancel,
		done:    make(chan struct{}),
		inject:  make(chan mailwatch.Event, 1),
		machine: alertstate.New(alert.NotifyOnce),
	}

	s.loops[name] = l
	s.cfg.Registry.SetRunState(name, models.RunStateRunning)

	go s.run(loopCtx, name, l)

	log.Printf("scheduler: started alert %s (interval %ds)", name, alert.Interval)
	return nil
}

// Pause freezes evaluation without discarding the alert's health state. The
// loop observes the flag at its next tick boundary.
func (s *Scheduler) Pause(name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	l, exists := s.loops[name]
	if !exists {
		return fmt.Errorf("%w: %s", models.ErrNotRunning, name)
	}

	l.paused.Store(true)
	s.cfg.Registry.SetRunState(name, models.RunStatePaused)
	log.Printf("scheduler: paused alert %s", name)
	return nil
}

// Stop tears the loop down, waiting for any in-flight probe, and resets the
// alert's health state to OK. Stopping a stopped alert is a no-op.
func (s *Scheduler) Stop(name string) error {
	s.mu.Lock()
	l, exists := s.loops[name]
	if exists {
		delete(s.loops, name)
	}
	s.mu.Unlock()

	if exists {
		l.cancel()
		<-l.done
	}

	s.cfg.Registry.SetRunState(name, models.RunStateStopped)
	s.cfg.Registry.SetHealthState(name, models.HealthOK)
	log.Printf("scheduler: stopped alert %s", name)
	return nil
}

// Running reports whether the alert currently has a loop (paused counts).
func (s *Scheduler) Running(name string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, exists := s.loops[name]
	return exists
}

// Shutdown cancels every loop and waits for them to exit.
func (s *Scheduler) Shutdown() {
	s.cancel()

	s.mu.Lock()
	loops := make([]*loop, 0, len(s.loops))
	for _, l := range s.loops {
		loops = append(loops, l)
	}
	s.loops = make(map[string]*loop)
	s.mu.Unlock()

	for _, l := range loops {
		<-l.done
	}

	log.Println("scheduler: stopped")
}

// DispatchLabel injects a synthetic failure into every running alert
// subscribed to the event's label.
func (s *Scheduler) DispatchLabel(ev mailwatch.Event) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for name, l := range s.loops {
		alert, ok := s.cfg.Registry.Alert(name)
		if !ok || alert.Label == "" || alert.Label != ev.Label {
			continue
		}
		select {
		case l.inject <- ev:
		default:
		}
	}
}

// ConsumeLabelEvents feeds a watcher's events into DispatchLabel until the
// watcher closes. Run it on its own goroutine.
func (s *Scheduler) ConsumeLabelEvents(w mailwatch.Watcher) {
	for ev := range w.Events() {
		s.DispatchLabel(ev)
	}
}

func (s *Scheduler) run(ctx context.Context, name string, l *loop) {
	defer close(l.done)
	defer func() {
		if r := recover(); r != nil {
			log.Printf("scheduler: alert %s loop crashed: %v", name, r)
			s.mu.Lock()
			delete(s.loops, name)
			s.mu.Unlock()
			s.cfg.Registry.SetRunState(name, models.RunStateStopped)
			s.cfg.Registry.SetHealthState(name, models.HealthOK)
			s.publish(events.Event{Type: events.TypeLoopStopped, Alert: name, Message: fmt.Sprint(r)})
		}
	}()

	first := true

	for {
		// Re-resolved every cycle so job and account edits take effect on
		// the next tick, never mid-probe.
		alert, job, account, err := s.cfg.Registry.ResolveAlert(name)

		if err != nil {
			log.Printf("scheduler: alert %s no longer resolvable, exiting: %v", name, err)
			return
		}

		synthetic := false

		if first {
			first = false
		} else {
			wait := time.NewTimer(s.scale(alert.Interval))
			select {
			case <-ctx.Done():
				wait.Stop()
				return
			case ev := <-l.inject:
				wait.Stop()
				synthetic = true
				log.Printf("scheduler: alert %s triggered by label %s: %s", name, ev.Label, ev.MatchedText)
			case <-wait.C:
			}
		}

		if l.paused.Load() {
			continue
		}

		var healthy bool
		if synthetic {
			healthy = false
		} else {
			res := s.cfg.Prober.Check(ctx, job)
			healthy = probes.Healthy(res, job)
		}

		if exit := s.evaluate(ctx, l, name, alert, job, account, healthy); exit {
			return
		}
	}
}

// evaluate feeds one health observation into the alert's machine and carries
// out the resulting action, including the blocking confirmation re-check.
// Returns true when the loop must exit.
func (s *Scheduler) evaluate(ctx context.Context, l *loop, name string, alert models.Alert, job models.Job, account models.Account, healthy bool) bool {
	prev := l.machine.State()
	outcome := l.machine.Observe(healthy)
	s.recordState(name, prev, l.machine.State())

	switch outcome {
	case alertstate.OutcomeConfirm:
		log.Printf("scheduler: alert %s failed once, re-checking in %ds", name, alert.ConfirmDelay)

		confirm := time.NewTimer(s.scale(alert.ConfirmDelay))
		select {
		case <-ctx.Done():
			confirm.Stop()
			return true
		case <-confirm.C:
		}

		if l.paused.Load() {
			// Paused through the confirmation: leave the machine suspect,
			// the next unpaused tick re-schedules the re-check.
			return false
		}

		res := s.cfg.Prober.Check(ctx, job)
		confirmed := probes.Healthy(res, job)

		prev = l.machine.State()
		confirmOutcome := l.machine.ObserveConfirmation(confirmed)
		s.recordState(name, prev, l.machine.State())

		if confirmOutcome == alertstate.OutcomeNotify {
			s.notify(ctx, name, alert, job, account)
		}

	case alertstate.OutcomeNotify:
		s.notify(ctx, name, alert, job, account)

	case alertstate.OutcomeRecovered:
		// Recovery is silent, but observers get the event.
		log.Printf("scheduler: alert %s recovered", name)
		s.publish(events.Event{Type: events.TypeRecovered, Alert: name})
	}

	return false
}

// notify delivers through the notifier unless the current instant is
// silenced. The health transition has already been recorded either way.
func (s *Scheduler) notify(ctx context.Context, name string, alert models.Alert, job models.Job, account models.Account) {
	if s.cfg.Registry.IsSilenced(time.Now()) {
		log.Printf("scheduler: alert %s is alerting but delivery is silenced", name)
		s.publish(events.Event{Type: events.TypeSuppressed, Alert: name})
		return
	}

	message := fmt.Sprintf("Argus alert %s: job %s (%s) is failing health checks", alert.Name, job.Name, job.Target)

	dctx, cancel := context.WithTimeout(ctx, s.cfg.DeliverTimeout)
	defer cancel()

	outcomes := s.cfg.Notifier.Deliver(dctx, account, account.Methods, account.Recipients, message)

	for _, o := range outcomes {
		if o.Err != nil {
			log.Printf("scheduler: alert %s delivery to %s via %s failed: %v", name, o.Recipient, o.Method, o.Err)
		}
	}

	s.publish(events.Event{Type: events.TypeNotified, Alert: name, Message: message})
}

func (s *Scheduler) recordState(name string, prev, cur alertstate.State) {
	if prev == cur {
		return
	}

	s.cfg.Registry.SetHealthState(name, healthOf(cur))
	s.publish(events.Event{
		Type:  events.TypeStateChanged,
		Alert: name,
		From:  prev.String(),
		To:    cur.String(),
	})
}

func (s *Scheduler) publish(e events.Event) {
	if s.cfg.Bus != nil {
		s.cfg.Bus.Publish(e)
	}
}

func (s *Scheduler) scale(seconds int) time.Duration {
	return time.Duration(seconds) * s.cfg.TickUnit
}

func healthOf(st alertstate.State) models.HealthState {
	switch st {
	case alertstate.StateSuspect:
		return models.HealthSuspect
	case alertstate.StateAlerting:
		return models.HealthAlerting
	default:
		return models.HealthOK
	}
}

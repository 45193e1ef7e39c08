package registry

import (
	"fmt"
	"log"
	"net/url"
	"regexp"
	"sort"
	"sync"
	"time"

	"github.com/argus-dev/argus/internal/models"
	"github.com/argus-dev/argus/internal/types"
)

// Store persists catalog snapshots. *catalog.Store satisfies it.
type Store interface {
	Save(models.Catalog) error
}

// Registry is the in-memory catalog of accounts, jobs, alerts and silence
// periods. Reads are concurrent; writes are serialized behind one lock. Every
// successful mutation is followed by a save of the full catalog; a failed save
// is logged and the in-memory state stays authoritative.
type Registry struct {
	mu       sync.RWMutex
	accounts map[string]models.Account
	jobs     map[string]models.Job
	alerts   map[string]*models.Alert
	silences []models.SilencePeriod
	store    Store
}

func New(store Store) *Registry {
	return &Registry{
		accounts: make(map[string]models.Account),
		jobs:     make(map[string]models.Job),
		alerts:   make(map[string]*models.Alert),
		store:    store,
	}
}

// NewFromCatalog builds a registry from a loaded catalog document. Run-states
// come in already reset by the loader; they are forced to Stopped regardless.
func NewFromCatalog(cat models.Catalog, store Store) *Registry {
	r := New(store)

	for _, a := range cat.Accounts {
		r.accounts[a.Name] = a
	}
	for _, j := range cat.Jobs {
		r.jobs[j.Name] = j
	}
	for _, al := range cat.Alerts {
		alert := al
		alert.RunState = models.RunStateStopped
		alert.HealthState = models.HealthOK
		if alert.ConfirmDelay <= 0 {
			alert.ConfirmDelay = types.DefaultConfirmDelay
			if alert.Interval > 0 && alert.ConfirmDelay > alert.Interval {
				alert.ConfirmDelay = alert.Interval
			}
		}
		r.alerts[alert.Name] = &alert
	}
	r.silences = append(r.silences, cat.SilencePeriods...)

	return r
}

// AddAccount validates and registers a notification account.
func (r *Registry) AddAccount(a models.Account) error {
	if a.Name == "" || a.AccountSID == "" || a.AuthToken == "" || a.FromNumber == "" {
		return fmt.Errorf("%w: name, account_sid, auth_token and from_number are required", models.ErrValidation)
	}
	if len(a.Methods) == 0 {
		return fmt.Errorf("%w: at least one delivery method is required", models.ErrValidation)
	}
	for _, m := range a.Methods {
		switch m {
		case models.MethodCall, models.MethodSMS, models.MethodEmail:
		default:
			return fmt.Errorf("%w: unknown delivery method %q", models.ErrValidation, m)
		}
	}

	a.Recipients = dedupe(a.Recipients)
	if len(a.Recipients) == 0 {
		return fmt.Errorf("%w: at least one recipient is required", models.ErrValidation)
	}
	if len(a.Recipients) > types.MaxRecipients {
		return fmt.Errorf("%w: at most %d recipients per account", models.ErrValidation, types.MaxRecipients)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if len(r.accounts) >= types.MaxAccounts {
		return fmt.Errorf("%w: at most %d accounts", models.ErrValidation, types.MaxAccounts)
	}
	if _, exists := r.accounts[a.Name]; exists {
		return fmt.Errorf("%w: account %q", models.ErrDuplicate, a.Name)
	}

	r.accounts[a.Name] = a
	r.saveLocked()
	return nil
}

// UpdateAccountCredentials rotates an account's credentials in place. Alerts
// referencing the account pick the new credentials up on their next tick.
func (r *Registry) UpdateAccountCredentials(name, sid, token, from string) error {
	if sid == "" || token == "" || from == "" {
		return fmt.Errorf("%w: account_sid, auth_token and from_number are required", models.ErrValidation)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	a, exists := r.accounts[name]
	if !exists {
		return fmt.Errorf("%w: account %q", models.ErrNotFound, name)
	}

	a.AccountSID = sid
	a.AuthToken = token
	a.FromNumber = from
	r.accounts[name] = a
	r.saveLocked()
	return nil
}

// AddJob validates and registers a monitoring job.
func (r *Registry) AddJob(j models.Job) error {
	if j.Name == "" {
		return fmt.Errorf("%w: job name is required", models.ErrValidation)
	}

	switch j.Kind {
	case models.JobKindPublic, models.JobKindIntranet:
		if j.Target == "" {
			return fmt.Errorf("%w: job target is required", models.ErrValidation)
		}
	case models.JobKindDatabase:
		if j.Database == nil || j.Database.Host == "" || j.Database.Driver == "" {
			return fmt.Errorf("%w: database jobs need a driver and host", models.ErrValidation)
		}
		if j.Database.Driver != "mysql" && j.Database.Driver != "postgres" {
			return fmt.Errorf("%w: unsupported database driver %q", models.ErrValidation, j.Database.Driver)
		}
	default:
		return fmt.Errorf("%w: unknown job kind %q", models.ErrValidation, j.Kind)
	}

	if j.Pattern != "" {
		if _, err := regexp.Compile(j.Pattern); err != nil {
			return fmt.Errorf("%w: invalid pattern: %v", models.ErrValidation, err)
		}
	}
	if j.Proxy != "" {
		if _, err := url.Parse(j.Proxy); err != nil {
			return fmt.Errorf("%w: invalid proxy: %v", models.ErrValidation, err)
		}
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.jobs[j.Name]; exists {
		return fmt.Errorf("%w: job %q", models.ErrDuplicate, j.Name)
	}

	r.jobs[j.Name] = j
	r.saveLocked()
	return nil
}

// AddAlert validates and registers an alert. The referenced job and account
// must already exist.
func (r *Registry) AddAlert(a models.Alert) error {
	if a.Name == "" || a.JobName == "" || a.AccountName == "" {
		return fmt.Errorf("%w: name, job_name and account_name are required", models.ErrValidation)
	}
	if a.Interval < types.MinIntervalSeconds {
		return fmt.Errorf("%w: interval must be at least %d seconds", models.ErrValidation, types.MinIntervalSeconds)
	}
	if a.ConfirmDelay <= 0 {
		// The default re-check delay never exceeds the alert's own cadence.
		a.ConfirmDelay = types.DefaultConfirmDelay
		if a.ConfirmDelay > a.Interval {
			a.ConfirmDelay = a.Interval
		}
	} else if a.ConfirmDelay > a.Interval {
		return fmt.Errorf("%w: confirm_delay cannot exceed interval", models.ErrValidation)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.alerts[a.Name]; exists {
		return fmt.Errorf("%w: alert %q", models.ErrDuplicate, a.Name)
	}
	if _, exists := r.jobs[a.JobName]; !exists {
		return fmt.Errorf("%w: job %q", models.ErrNotFound, a.JobName)
	}
	if _, exists := r.accounts[a.AccountName]; !exists {
		return fmt.Errorf("%w: account %q", models.ErrNotFound, a.AccountName)
	}

	a.RunState = models.RunStateStopped
	a.HealthState = models.HealthOK
	r.alerts[a.Name] = &a
	r.saveLocked()
	return nil
}

// AddSilence appends a suppression window. Existing windows are never removed.
func (r *Registry) AddSilence(start, end time.Time, reason string) error {
	if !start.Before(end) {
		return fmt.Errorf("%w: start must be before end", models.ErrInvalidRange)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.silences = append(r.silences, models.SilencePeriod{Start: start, End: end, Reason: reason})
	r.saveLocked()
	return nil
}

// IsSilenced reports whether t falls inside any stored window. Stale windows
// stay in the list, so every call compares against the instant given.
func (r *Registry) IsSilenced(t time.Time) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, p := range r.silences {
		if p.Contains(t) {
			return true
		}
	}
	return false
}

func (r *Registry) Account(name string) (models.Account, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	a, ok := r.accounts[name]
	return a, ok
}

func (r *Registry) Job(name string) (models.Job, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	j, ok := r.jobs[name]
	return j, ok
}

func (r *Registry) Alert(name string) (models.Alert, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	a, ok := r.alerts[name]
	if !ok {
		return models.Alert{}, false
	}
	return *a, true
}

// ResolveAlert returns the alert together with its job and account. Dangling
// references come back as ErrNotFound, never as a zero value.
func (r *Registry) ResolveAlert(name string) (models.Alert, models.Job, models.Account, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	a, ok := r.alerts[name]
	if !ok {
		return models.Alert{}, models.Job{}, models.Account{}, fmt.Errorf("%w: alert %q", models.ErrNotFound, name)
	}
	j, ok := r.jobs[a.JobName]
	if !ok {
		return models.Alert{}, models.Job{}, models.Account{}, fmt.Errorf("%w: job %q referenced by alert %q", models.ErrNotFound, a.JobName, name)
	}
	acct, ok := r.accounts[a.AccountName]
	if !ok {
		return models.Alert{}, models.Job{}, models.Account{}, fmt.Errorf("%w: account %q referenced by alert %q", models.ErrNotFound, a.AccountName, name)
	}

	return *a, j, acct, nil
}

// SetRunState records the scheduler's view of an alert's run-state.
func (r *Registry) SetRunState(name string, rs models.RunState) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if a, ok := r.alerts[name]; ok {
		a.RunState = rs
	}
}

// SetHealthState records the scheduler's view of an alert's health.
func (r *Registry) SetHealthState(name string, hs models.HealthState) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if a, ok := r.alerts[name]; ok {
		a.HealthState = hs
	}
}

func (r *Registry) ListAccounts() []models.Account {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]models.Account, 0, len(r.accounts))
	for _, a := range r.accounts {
		out = append(out, a)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

func (r *Registry) ListJobs() []models.Job {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]models.Job, 0, len(r.jobs))
	for _, j := range r.jobs {
		out = append(out, j)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

func (r *Registry) ListAlerts() []models.Alert {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]models.Alert, 0, len(r.alerts))
	for _, a := range r.alerts {
		out = append(out, *a)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

func (r *Registry) ListSilences() []models.SilencePeriod {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]models.SilencePeriod, len(r.silences))
	copy(out, r.silences)
	return out
}

// Snapshot returns the catalog document for persistence.
func (r *Registry) Snapshot() models.Catalog {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.snapshotLocked()
}

func (r *Registry) snapshotLocked() models.Catalog {
	cat := models.Catalog{
		Accounts:       make([]models.Account, 0, len(r.accounts)),
		Jobs:           make([]models.Job, 0, len(r.jobs)),
		Alerts:         make([]models.Alert, 0, len(r.alerts)),
		SilencePeriods: make([]models.SilencePeriod, 0, len(r.silences)),
	}

	for _, a := range r.accounts {
		cat.Accounts = append(cat.Accounts, a)
	}
	for _, j := range r.jobs {
		cat.Jobs = append(cat.Jobs, j)
	}
	for _, a := range r.alerts {
		cat.Alerts = append(cat.Alerts, *a)
	}
	cat.SilencePeriods = append(cat.SilencePeriods, r.silences...)

	sort.Slice(cat.Accounts, func(i, j int) bool { return cat.Accounts[i].Name < cat.Accounts[j].Name })
	sort.Slice(cat.Jobs, func(i, j int) bool { return cat.Jobs[i].Name < cat.Jobs[j].Name })
	sort.Slice(cat.Alerts, func(i, j int) bool { return cat.Alerts[i].Name < cat.Alerts[j].Name })

	return cat
}

// saveLocked persists the catalog after a successful mutation. The write lock
// is held by the caller, which also serializes saves. A save failure does not
// roll the mutation back.
func (r *Registry) saveLocked() {
	if r.store == nil {
		return
	}
	if err := r.store.Save(r.snapshotLocked()); err != nil {
		log.Printf("registry: failed to save catalog: %v", err)
	}
}

func dedupe(in []string) []string {
	seen := make(map[string]bool, len(in))
	out := make([]string, 0, len(in))
	for _, s := range in {
		if s == "" || seen[s] {
			continue
		}
		seen[s] = true
		out = append(out, s)
	}
	return out
}

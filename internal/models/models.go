package models

import "time"

// Method is a notification delivery method enabled on an account.
type Method string

const (
	MethodCall  Method = "call"
	MethodSMS   Method = "sms"
	MethodEmail Method = "email"
)

// JobKind selects how a monitoring job's target is probed.
type JobKind string

const (
	JobKindPublic   JobKind = "public"   // HTTP/HTTPS URL reachable directly
	JobKindIntranet JobKind = "intranet" // HTTP host reached through a proxy
	JobKindDatabase JobKind = "database" // mysql/postgres connectivity ping
)

// RunState is the scheduling state of an alert.
type RunState string

const (
	RunStateStopped RunState = "stopped"
	RunStateRunning RunState = "running"
	RunStatePaused  RunState = "paused"
)

// HealthState is the evaluated health of an alert's target.
type HealthState string

const (
	HealthOK       HealthState = "ok"
	HealthSuspect  HealthState = "suspect"
	HealthAlerting HealthState = "alerting"
)

// Account holds the credentials and recipient list for one notification channel.
type Account struct {
	Name       string   `json:"name"`
	AccountSID string   `json:"account_sid"`
	AuthToken  string   `json:"auth_token"`
	FromNumber string   `json:"from_number"`
	TwiMLURL   string   `json:"twiml_url,omitempty"` // voice call content
	SMTPFrom   string   `json:"smtp_from,omitempty"`
	Recipients []string `json:"recipients"`
	Methods    []Method `json:"methods"`
}

// DatabaseTarget configures a database-kind job.
type DatabaseTarget struct {
	Driver   string `json:"driver"` // "mysql" or "postgres"
	Host     string `json:"host"`
	Port     int    `json:"port"`
	Database string `json:"database"`
	Username string `json:"username"`
	Password string `json:"password"`
	SSLMode  string `json:"ssl_mode,omitempty"`
}

// Job describes a monitoring target.
type Job struct {
	Name        string          `json:"name"`
	Target      string          `json:"target"`
	Kind        JobKind         `json:"kind"`
	Proxy       string          `json:"proxy,omitempty"`
	Pattern     string          `json:"pattern,omitempty"`      // regex matched against the response body
	AcceptCodes []int           `json:"accept_codes,omitempty"` // empty means any reachable result is acceptable
	Database    *DatabaseTarget `json:"database,omitempty"`
}

// Alert binds one job to one account with its own evaluation cadence.
// Interval and ConfirmDelay are in seconds.
type Alert struct {
	Name         string      `json:"name"`
	JobName      string      `json:"job_name"`
	AccountName  string      `json:"account_name"`
	Interval     int         `json:"interval"`
	ConfirmDelay int         `json:"confirm_delay"`
	NotifyOnce   bool        `json:"notify_once,omitempty"`
	Label        string      `json:"label,omitempty"` // mailbox label that triggers a synthetic failure
	RunState     RunState    `json:"run_state"`
	HealthState  HealthState `json:"health_state"`
}

// SilencePeriod suppresses notification delivery between Start and End, inclusive.
type SilencePeriod struct {
	Start  time.Time `json:"start"`
	End    time.Time `json:"end"`
	Reason string    `json:"reason"`
}

// Contains reports whether t falls within the window.
func (p SilencePeriod) Contains(t time.Time) bool {
	return !t.Before(p.Start) && !t.After(p.End)
}

// Catalog is the persisted document holding every configured collection.
type Catalog struct {
	Accounts       []Account       `json:"accounts"`
	Jobs           []Job           `json:"jobs"`
	Alerts         []Alert         `json:"alerts"`
	SilencePeriods []SilencePeriod `json:"silence_periods"`
}

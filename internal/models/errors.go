package models

import "errors"

// Sentinel error kinds surfaced by the control surface. Callers classify with
// errors.Is; the wrapped message carries the detail.
var (
	ErrValidation     = errors.New("validation failed")
	ErrInvalidRange   = errors.New("invalid time range")
	ErrDuplicate      = errors.New("name already exists")
	ErrNotFound       = errors.New("not found")
	ErrAlreadyRunning = errors.New("alert already running")
	ErrNotRunning     = errors.New("alert not running")
)

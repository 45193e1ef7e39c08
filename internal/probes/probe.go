package probes

import (
	"context"
	"regexp"
	"time"

	"github.com/argus-dev/argus/internal/models"
)

// Result is the outcome of a single probe. Probes fail closed: any transport
// error, timeout or proxy failure becomes Reachable=false, never an error
// value handed back to the scheduler.
type Result struct {
	Reachable bool
	Code      *int
	Body      []byte
}

// Prober checks a monitoring job's target.
type Prober interface {
	Check(ctx context.Context, job models.Job) Result
}

// Checker is the production Prober, dispatching on the job kind.
type Checker struct {
	Timeout time.Duration // per-probe deadline, default 30s
}

func (c *Checker) timeout() time.Duration {
	if c.Timeout > 0 {
		return c.Timeout
	}
	return 30 * time.Second
}

func (c *Checker) Check(ctx context.Context, job models.Job) Result {
	ctx, cancel := context.WithTimeout(ctx, c.timeout())
	defer cancel()

	switch job.Kind {
	case models.JobKindPublic:
		return c.checkHTTP(ctx, job, "")
	case models.JobKindIntranet:
		return c.checkHTTP(ctx, job, job.Proxy)
	case models.JobKindDatabase:
		return c.checkDatabase(ctx, job)
	default:
		return Result{}
	}
}

// Healthy decides acceptability of a probe result for a job: reachable, the
// content pattern (if any) matches, and the observed code (if a set is
// configured) is a member of that set.
func Healthy(res Result, job models.Job) bool {
	if !res.Reachable {
		return false
	}

	if job.Pattern != "" {
		re, err := regexp.Compile(job.Pattern)
		if err != nil || !re.Match(res.Body) {
			return false
		}
	}

	if len(job.AcceptCodes) > 0 {
		if res.Code == nil {
			return false
		}
		accepted := false
		for _, code := range job.AcceptCodes {
			if code == *res.Code {
				accepted = true
				break
			}
		}
		if !accepted {
			return false
		}
	}

	return true
}

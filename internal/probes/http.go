package probes

import (
	"context"
	"io"
	"net/http"
	"net/url"

	"github.com/argus-dev/argus/internal/models"
)

const maxBodyBytes = 1 << 20

// checkHTTP performs a GET against the job's target, optionally through a
// proxy. Any HTTP response counts as reachable; the status code is reported
// for the acceptable-code gate, and the body is captured only when the job has
// a content pattern.
func (c *Checker) checkHTTP(ctx context.Context, job models.Job, proxy string) Result {
	transport := &http.Transport{}

	if proxy != "" {
		proxyURL, err := url.Parse(proxy)
		if err != nil {
			return Result{}
		}
		transport.Proxy = http.ProxyURL(proxyURL)
	}

	client := &http.Client{Transport: transport}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, job.Target, nil)

	if err != nil {
		return Result{}
	}

	resp, err := client.Do(req)

	if err != nil {
		return Result{}
	}

	defer resp.Body.Close()

	code := resp.StatusCode
	res := Result{Reachable: true, Code: &code}

	if job.Pattern != "" {
		body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
		if err == nil {
			res.Body = body
		}
	}

	return res
}

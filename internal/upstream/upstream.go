// Package upstream wraps calls to the speech-to-text and language model
// providers with per-attempt timeouts, exponential backoff and metrics.
package upstream

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/cenkalti/backoff/v4"
	openai "github.com/sashabaranov/go-openai"
	"google.golang.org/genai"

	"heatglass/internal/logger"
	"heatglass/internal/metrics"
)

// Service labels used in logs and metrics.
const (
	ServiceTranscription = "transcription"
	ServiceCompletion    = "completion"
)

// Policy bounds one upstream call.
type Policy struct {
	// AttemptTimeout caps a single attempt; 0 leaves only the caller's deadline.
	AttemptTimeout time.Duration
	// MaxElapsed caps all retries together; 0 disables retries.
	MaxElapsed time.Duration
}

// Do runs op until it succeeds, returns a client error, the context ends or
// the policy gives up. The last error is returned unwrapped.
func Do(ctx context.Context, service string, p Policy, op func(ctx context.Context) error) error {
	log := logger.FromContext(ctx).WithField("component", "upstream").WithField("service", service)
	started := time.Now()
	defer metrics.ObserveUpstream(service, started)

	attempt := 0
	try := func() error {
		attempt++
		actx, cancel := ctx, context.CancelFunc(func() {})
		if p.AttemptTimeout > 0 {
			actx, cancel = context.WithTimeout(ctx, p.AttemptTimeout)
		}
		defer cancel()

		err := op(actx)
		if err == nil {
			return nil
		}
		metrics.UpstreamError(service)
		entry := log.WithField("attempt", attempt).WithField("error", err.Error())
		if ctx.Err() != nil || IsClientError(err) {
			entry.Warn("upstream call failed permanently")
			return backoff.Permanent(err)
		}
		entry.Warn("upstream attempt failed")
		return err
	}

	var b backoff.BackOff = &backoff.StopBackOff{}
	if p.MaxElapsed > 0 {
		eb := backoff.NewExponentialBackOff()
		eb.MaxElapsedTime = p.MaxElapsed
		b = eb
	}
	return backoff.Retry(try, backoff.WithContext(b, ctx))
}

// StatusCode extracts the HTTP status from a provider error, or 0.
func StatusCode(err error) int {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return apiErr.HTTPStatusCode
	}
	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		return reqErr.HTTPStatusCode
	}
	var gErr genai.APIError
	if errors.As(err, &gErr) {
		return gErr.Code
	}
	return 0
}

// IsClientError reports whether err is a 4xx other than 408 and 429, which
// retrying cannot fix.
func IsClientError(err error) bool {
	code := StatusCode(err)
	if code == http.StatusRequestTimeout || code == http.StatusTooManyRequests {
		return false
	}
	return code >= 400 && code < 500
}

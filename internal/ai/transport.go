package ai

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strconv"
	"time"
)

// retryBaseDelay is the first backoff step; doubled on each attempt.
var retryBaseDelay = time.Second

// RequestBuilder builds a fresh request for every attempt so the body can be re-read.
type RequestBuilder func(ctx context.Context) (*http.Request, error)

// DoWithRetry sends the request produced by build. Transport errors, 429 and 5xx
// responses are retried up to maxRetries additional times; with maxRetries == 0
// exactly one attempt is made. A non-retryable response is returned to the caller
// with its body open.
func DoWithRetry(ctx context.Context, client *http.Client, provider string, maxRetries int, build RequestBuilder) (*http.Response, error) {
	if maxRetries < 0 {
		maxRetries = 0
	}

	for attempt := 0; ; attempt++ {
		req, err := build(ctx)
		if err != nil {
			return nil, NewProviderErrorWithCause(ErrTypeInternal, "failed to create request", provider, err)
		}

		resp, err := client.Do(req)
		if err != nil {
			perr := transportError(ctx, provider, err)
			if attempt >= maxRetries || !perr.Retryable {
				return nil, perr
			}
			if werr := wait(ctx, backoff(attempt)); werr != nil {
				return nil, transportError(ctx, provider, werr)
			}
			continue
		}

		if !retryableStatus(resp.StatusCode) || attempt >= maxRetries {
			return resp, nil
		}

		delay := backoff(attempt)
		if after := retryAfter(resp); after > 0 {
			delay = after
		}
		_, _ = io.Copy(io.Discard, resp.Body)
		_ = resp.Body.Close()

		if werr := wait(ctx, delay); werr != nil {
			return nil, transportError(ctx, provider, werr)
		}
	}
}

func transportError(ctx context.Context, provider string, err error) *ProviderError {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return NewProviderErrorWithCause(ErrTypeTimeout, "request timed out", provider, err)
	}
	if errors.Is(err, context.Canceled) {
		pe := NewProviderErrorWithCause(ErrTypeNetwork, "request canceled", provider, err)
		pe.Retryable = false
		return pe
	}
	return NewProviderErrorWithCause(ErrTypeNetwork, "request failed", provider, err)
}

func retryableStatus(status int) bool {
	return status == http.StatusTooManyRequests || status >= http.StatusInternalServerError
}

func retryAfter(resp *http.Response) time.Duration {
	header := resp.Header.Get("Retry-After")
	if header == "" {
		return 0
	}
	seconds, err := strconv.Atoi(header)
	if err != nil || seconds <= 0 {
		return 0
	}
	return time.Duration(seconds) * time.Second
}

func backoff(attempt int) time.Duration {
	return retryBaseDelay << uint(attempt)
}

func wait(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

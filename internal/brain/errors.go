package brain

import (
	"context"
	"errors"
	"fmt"

	"github.com/antoniostano/simhelper/internal/reliability"
)

// Sentinel errors for generation failures.
var (
	// ErrRateLimited indicates the backend rejected the call for quota reasons.
	ErrRateLimited = errors.New("generative backend rate limited")

	// ErrUnavailable indicates a transport failure or a 5xx response.
	ErrUnavailable = errors.New("generative backend unavailable")

	// ErrRejected indicates the backend refused the request (4xx, blocked prompt).
	ErrRejected = errors.New("generative backend rejected request")

	// ErrEmptyReply indicates a well-formed response with no text.
	ErrEmptyReply = errors.New("generative backend returned empty reply")

	// ErrMalformedResponse indicates a response body that could not be read.
	ErrMalformedResponse = errors.New("generative backend returned malformed response")
)

func statusError(provider string, code int, detail string) error {
	switch {
	case code == 429:
		return fmt.Errorf("%s status %d: %s: %w: %w", provider, code, detail, ErrRateLimited, reliability.ErrRetryable)
	case reliability.IsRetryableHTTPStatus(code):
		return fmt.Errorf("%s status %d: %s: %w: %w", provider, code, detail, ErrUnavailable, reliability.ErrRetryable)
	default:
		return fmt.Errorf("%s status %d: %s: %w", provider, code, detail, ErrRejected)
	}
}

func transportError(provider string, err error) error {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%s: %w", provider, err)
	}
	return fmt.Errorf("%s: %w: %w: %v", provider, ErrUnavailable, reliability.ErrRetryable, err)
}

package llm

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	// provider throttled the request; the caller may retry later
	ErrRateLimited = errors.New("ai provider rate limited")

	// provider credits are exhausted until topped up
	ErrQuotaExhausted = errors.New("ai provider credits exhausted")

	// any other provider or transport failure
	ErrUpstream = errors.New("ai provider error")
)

// longest provider error body kept in error messages
const maxErrorBody = 512

// maps a non-2xx provider status to the failure taxonomy
func statusError(provider Provider, status int, body []byte) error {
	if len(body) > maxErrorBody {
		body = body[:maxErrorBody]
	}

	var kind error

	switch status {
	case http.StatusTooManyRequests:
		kind = ErrRateLimited
	case http.StatusPaymentRequired:
		kind = ErrQuotaExhausted
	default:
		kind = ErrUpstream
	}

	return fmt.Errorf("%w: %s request failed with status %d: %s", kind, provider, status, string(body))
}

// wraps transport-level failures as upstream errors, keeping the cause inspectable
func transportError(provider Provider, err error) error {
	return fmt.Errorf("%w: %s request failed: %w", ErrUpstream, provider, err)
}

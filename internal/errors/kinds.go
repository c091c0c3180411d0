package errors

import "net/http"

const (
	KindUnauthenticated Kind = "unauthenticated"
	KindProfileMissing  Kind = "profile_missing"
	KindQuotaExceeded   Kind = "quota_exceeded"
	KindInvalidInput    Kind = "invalid_input"
	KindUnknownAction   Kind = "unknown_action"
	KindRateLimited     Kind = "rate_limited"
	KindQuotaExhausted  Kind = "quota_exhausted"
	KindUpstreamError   Kind = "upstream_error"
	KindServerError     Kind = "server_error"
)

var kindStatus = map[Kind]int{
	KindUnauthenticated: http.StatusUnauthorized,
	KindProfileMissing:  http.StatusForbidden,
	KindQuotaExceeded:   http.StatusForbidden,
	KindInvalidInput:    http.StatusBadRequest,
	KindUnknownAction:   http.StatusBadRequest,
	KindRateLimited:     http.StatusTooManyRequests,
	KindQuotaExhausted:  http.StatusPaymentRequired,
	KindUpstreamError:   http.StatusInternalServerError,
	KindServerError:     http.StatusInternalServerError,
}

// messages kept compatible with the web client's wording
var kindMessage = map[Kind]string{
	KindUnauthenticated: "Unauthorized",
	KindProfileMissing:  "User profile not found",
	KindQuotaExceeded:   "Usage limit exceeded",
	KindInvalidInput:    "Invalid input",
	KindUnknownAction:   "Unknown action",
	KindRateLimited:     "Rate limits exceeded, please try again later",
	KindQuotaExhausted:  "AI credits exhausted",
	KindUpstreamError:   "AI gateway error",
	KindServerError:     "an error occurred",
}

// returns the HTTP status code for the kind
func (k Kind) Status() int {
	if status, ok := kindStatus[k]; ok {
		return status
	}

	return http.StatusInternalServerError
}

// returns the default user-facing message for the kind
func (k Kind) Message() string {
	if msg, ok := kindMessage[k]; ok {
		return msg
	}

	return kindMessage[KindServerError]
}

// reports whether the caller has to sign in again
func (k Kind) NeedsLogin() bool {
	return k == KindUnauthenticated
}

// reports whether the caller should be offered an upgrade or account setup
func (k Kind) NeedsUpgrade() bool {
	return k == KindQuotaExceeded || k == KindProfileMissing
}

// reports whether repeating the same request later can succeed
func (k Kind) Retryable() bool {
	switch k {
	case KindRateLimited, KindUpstreamError, KindServerError:
		return true
	default:
		return false
	}
}

// parses a wire code into a kind; unknown codes fall back to the status mapping
func ParseKind(code string, status int) Kind {
	k := Kind(code)
	if _, ok := kindStatus[k]; ok {
		return k
	}

	return KindFromStatus(status)
}

// best-effort kind for responses that carry no recognizable code
func KindFromStatus(status int) Kind {
	switch status {
	case http.StatusUnauthorized:
		return KindUnauthenticated
	case http.StatusForbidden:
		return KindQuotaExceeded
	case http.StatusBadRequest:
		return KindInvalidInput
	case http.StatusTooManyRequests:
		return KindRateLimited
	case http.StatusPaymentRequired:
		return KindQuotaExhausted
	default:
		return KindServerError
	}
}

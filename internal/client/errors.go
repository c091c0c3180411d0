package client

import (
	"encoding/json"
	"errors"
	"fmt"

	apierrors "codeberg.org/echowrite/server/internal/errors"
)

func (e *Error) Error() string {
	return fmt.Sprintf("%s (%d): %s", e.Kind, e.Status, e.Message)
}

// reports whether the user has to sign in again
func (e *Error) NeedsLogin() bool {
	return e.Kind.NeedsLogin()
}

// reports whether the user should be offered an upgrade or account setup
func (e *Error) NeedsUpgrade() bool {
	return e.Kind.NeedsUpgrade()
}

func (e *Error) Retryable() bool {
	return e.Kind.Retryable()
}

// returns the kind carried by err; transport failures count as server errors
func KindOf(err error) apierrors.Kind {
	if err == nil {
		return ""
	}

	var clientErr *Error
	if errors.As(err, &clientErr) {
		return clientErr.Kind
	}

	return apierrors.KindServerError
}

// builds an Error from a non-2xx response body
func parseError(status int, body []byte) *Error {
	var resp errorResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		resp = errorResponse{}
	}

	kind := apierrors.ParseKind(resp.Error, status)

	message := resp.Message
	if message == "" {
		message = kind.Message()
	}

	return &Error{Kind: kind, Status: status, Message: message}
}

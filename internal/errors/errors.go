package errors

import (
	"net/http"

	"codeberg.org/echowrite/server/internal/logger"
	"github.com/gin-gonic/gin"
)

// Error Handling Guidelines:
//
// For HTTP REST handlers:
//   - Use errors.Respond() with a Kind for relay and account failures
//   - Use errors.InternalError() for unexpected failures; it logs and responds in one go
//   - Use logger.ErrorErr() only for non-critical errors where processing continues
//   - Never call both logger.ErrorErr() and errors.InternalError() for the same error
//
// For services/repositories/internal packages:
//   - Return wrapped errors with context using fmt.Errorf("context: %w", err)
//   - Expose sentinel errors so handlers can pick the Kind with errors.Is
//   - Do not log errors in non-handler code (avoid double logging)

// writes an error response for the given kind; an empty message uses the kind default
func Respond(c *gin.Context, kind Kind, message string, err error) {
	if message == "" {
		message = kind.Message()
	}

	status := kind.Status()

	if status >= http.StatusInternalServerError {
		logger.ErrorErr(err, message,
			"kind", string(kind),
			"path", c.Request.URL.Path,
			"method", c.Request.Method,
			"user_id", c.GetString("user_id"),
		)
	}

	response := ErrorResponse{
		Error:   string(kind),
		Message: message,
	}

	if err != nil {
		response.Details = sanitizeError(err)
	}

	c.JSON(status, response)
}

// same as Respond but also stops the gin handler chain
func Abort(c *gin.Context, kind Kind, message string, err error) {
	Respond(c, kind, message, err)
	c.Abort()
}

// returns a 401 unauthorized error
func Unauthorized(c *gin.Context, message string) {
	Respond(c, KindUnauthenticated, message, nil)
}

// returns a 403 error for a caller without an account record
func Forbidden(c *gin.Context, message string) {
	Respond(c, KindProfileMissing, message, nil)
}

// returns a 403 error for an exhausted free-tier quota
func QuotaExceeded(c *gin.Context, message string) {
	Respond(c, KindQuotaExceeded, message, nil)
}

// returns a 400 bad request error
func BadRequest(c *gin.Context, message string, err error) {
	if message == "" {
		message = "invalid request"
	}

	Respond(c, KindInvalidInput, message, err)
}

// returns a 400 bad request error for binding failures
func ValidationError(c *gin.Context, err error) {
	Respond(c, KindInvalidInput, "request validation failed", err)
}

// returns a 429 too many requests error
func TooManyRequests(c *gin.Context, message string) {
	Respond(c, KindRateLimited, message, nil)
}

// returns a 402 error when the AI provider has no credits left
func PaymentRequired(c *gin.Context, message string) {
	Respond(c, KindQuotaExhausted, message, nil)
}

// returns a 500 internal server error
func InternalError(c *gin.Context, message string, err error) {
	Respond(c, KindServerError, message, err)
}

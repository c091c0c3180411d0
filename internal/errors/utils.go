package errors

import (
	"context"
	"errors"
	"net/url"
	"os"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/redis/go-redis/v9"
)

// error categories for classification
const (
	CategoryDatabase = "database"
	CategoryNotFound = "not_found"
	CategoryTimeout  = "timeout"
	CategoryUpstream = "upstream"
	CategoryUnknown  = "unknown"
)

// sanitizes error messages for production
func sanitizeError(err error) string {
	return classifyError(err).sanitized
}

// sorts an error into the failure modes the relay produces: ledger storage,
// request context, and the AI or identity provider behind it
func classifyError(err error) errorInfo {
	if err == nil {
		return errorInfo{CategoryUnknown, ""}
	}

	isProduction := os.Getenv("ENVIRONMENT") == "production"

	// checked before the provider fallback, a timed out call is a timeout
	if errors.Is(err, context.DeadlineExceeded) {
		return errorInfo{
			category:  CategoryTimeout,
			sanitized: ternary(isProduction, "request timed out", err.Error()),
		}
	}

	if errors.Is(err, context.Canceled) {
		return errorInfo{
			category:  CategoryTimeout,
			sanitized: ternary(isProduction, "request canceled", err.Error()),
		}
	}

	if errors.Is(err, pgx.ErrNoRows) || errors.Is(err, redis.Nil) {
		return errorInfo{
			category:  CategoryNotFound,
			sanitized: ternary(isProduction, "resource not found", err.Error()),
		}
	}

	var pgErr *pgconn.PgError
	var redisErr redis.Error
	if errors.As(err, &pgErr) || errors.As(err, &redisErr) {
		return errorInfo{
			category:  CategoryDatabase,
			sanitized: ternary(isProduction, "database operation failed", err.Error()),
		}
	}

	// transport failures and non-2xx answers from the AI or identity provider
	var urlErr *url.Error
	if errors.As(err, &urlErr) || strings.Contains(err.Error(), "provider") {
		return errorInfo{
			category:  CategoryUpstream,
			sanitized: ternary(isProduction, "upstream service unavailable", err.Error()),
		}
	}

	return errorInfo{
		category:  CategoryUnknown,
		sanitized: ternary(isProduction, "an error occurred", err.Error()),
	}
}

// ternary helper for cleaner conditional assignment
func ternary(condition bool, trueVal, falseVal string) string {
	if condition {
		return trueVal
	}

	return falseVal
}

package errors

// represents a standardized error response
type ErrorResponse struct {
	OK      bool   `json:"ok"`                // always false, lets clients branch on a single field
	Error   string `json:"error"`             // error kind code (e.g., "unauthenticated", "quota_exceeded")
	Message string `json:"message"`           // user-friendly message
	Details string `json:"details,omitempty"` // optional details (sanitized in production)
}

// closed set of failure kinds shared by the relay and its clients
type Kind string

type errorInfo struct {
	category  string
	sanitized string
}

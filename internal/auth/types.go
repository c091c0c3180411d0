package auth

import (
	"context"
	"errors"

	"github.com/golang-jwt/jwt/v5"
)

// context keys set by Middleware
const (
	principalKey = "principal"
	userIDKey    = "user_id"
	userEmailKey = "user_email"
)

// returned when a token is well formed but identifies nobody
var ErrNoPrincipal = errors.New("token does not resolve to a principal")

// represents JWT claims
type Claims struct {
	UserID       string       `json:"user_id,omitempty"`
	Email        string       `json:"email"`
	UserMetadata UserMetadata `json:"user_metadata"`
	jwt.RegisteredClaims
}

type UserMetadata struct {
	Name     string `json:"name,omitempty"`
	FullName string `json:"full_name,omitempty"`
}

// the authenticated caller of one request
type Principal struct {
	UserID string
	Email  string
	Name   string
}

// resolves a bearer token into a principal
type Resolver interface {
	Resolve(ctx context.Context, token string) (*Principal, error)
}

// display name, preferring the short form
func (m UserMetadata) DisplayName() string {
	if m.Name != "" {
		return m.Name
	}

	return m.FullName
}

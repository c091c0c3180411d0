package usage

import (
	"context"
	"errors"
	"time"
)

type Role string

const (
	RoleUser    Role = "user"
	RolePremium Role = "premium"
)

// free-tier ceiling for newly bootstrapped accounts
const DefaultMaxUsage = 10

var (
	// no usage record exists; bootstrap is an explicit separate call
	ErrProfileMissing = errors.New("user profile not found")

	// the free-tier ceiling is reached, either at pre-check or on the conditional increment
	ErrQuotaExceeded = errors.New("usage limit exceeded")
)

// per-user role and generation counter
type Record struct {
	UserID     string    `json:"userId"`
	Role       Role      `json:"role"`
	UsageCount int       `json:"usageCount"`
	MaxUsage   int       `json:"maxUsage"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

// descriptive account data upserted on bootstrap
type Profile struct {
	UserID string `json:"userId"`
	Email  string `json:"email"`
	Name   string `json:"name"`
}

// storage for usage records
type Ledger interface {
	// returns ErrProfileMissing when the user was never bootstrapped
	Get(ctx context.Context, userID string) (*Record, error)

	// single atomic "increment if premium or below ceiling"; returns ErrQuotaExceeded otherwise
	Increment(ctx context.Context, userID string) (*Record, error)

	// upserts the profile and inserts a default record only if none exists
	Bootstrap(ctx context.Context, profile Profile, maxUsage int) (*Record, error)

	// sets role to premium without touching the counters
	ActivatePremium(ctx context.Context, userID string) (*Record, error)

	Ping(ctx context.Context) error
}

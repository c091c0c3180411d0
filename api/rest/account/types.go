package account

import (
	"context"

	"codeberg.org/echowrite/server/internal/usage"
)

// account actions accepted by POST /account
const (
	ActionBootstrap       = "bootstrap"
	ActionActivatePremium = "activate-premium"
)

// account operations backed by the usage gate
type Accounts interface {
	Bootstrap(ctx context.Context, profile usage.Profile) (*usage.Record, error)
	ActivatePremium(ctx context.Context, profile usage.Profile) (*usage.Record, error)
	Usage(ctx context.Context, userID string) (*usage.Record, error)
}

type Request struct {
	Action string `json:"action" binding:"required"`
	Name   string `json:"name,omitempty"`
}

type Response struct {
	OK         bool       `json:"ok"`
	Action     string     `json:"action"`
	UserID     string     `json:"userId"`
	Role       usage.Role `json:"role"`
	UsageCount int        `json:"usageCount"`
	MaxUsage   int        `json:"maxUsage"`
}

type UsageResponse struct {
	UserID     string     `json:"userId"`
	Role       usage.Role `json:"role"`
	UsageCount int        `json:"usageCount"`
	MaxUsage   int        `json:"maxUsage"`
	Remaining  int        `json:"remaining"` // -1 for premium
}

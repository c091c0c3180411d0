package usage

import (
	"context"
	"fmt"
)

// enforces the free-tier quota on top of a ledger
type Gate struct {
	ledger   Ledger
	maxUsage int
}

// creates a gate; non-positive maxUsage uses DefaultMaxUsage for new accounts
func NewGate(ledger Ledger, maxUsage int) *Gate {
	if maxUsage <= 0 {
		maxUsage = DefaultMaxUsage
	}

	return &Gate{ledger: ledger, maxUsage: maxUsage}
}

// pre-check before any relay call
func (g *Gate) Check(ctx context.Context, userID string) (*Record, error) {
	record, err := g.ledger.Get(ctx, userID)
	if err != nil {
		return nil, err
	}

	if record.Exhausted() {
		return record, ErrQuotaExceeded
	}

	return record, nil
}

// records one accepted generation; may lose a race and return ErrQuotaExceeded
func (g *Gate) Consume(ctx context.Context, userID string) (*Record, error) {
	return g.ledger.Increment(ctx, userID)
}

// current record without any quota decision
func (g *Gate) Usage(ctx context.Context, userID string) (*Record, error) {
	return g.ledger.Get(ctx, userID)
}

// idempotent account setup
func (g *Gate) Bootstrap(ctx context.Context, profile Profile) (*Record, error) {
	if profile.UserID == "" {
		return nil, fmt.Errorf("bootstrap: user id is required")
	}

	return g.ledger.Bootstrap(ctx, profile, g.maxUsage)
}

// ensures the account exists then upgrades it
func (g *Gate) ActivatePremium(ctx context.Context, profile Profile) (*Record, error) {
	if _, err := g.Bootstrap(ctx, profile); err != nil {
		return nil, err
	}

	return g.ledger.ActivatePremium(ctx, profile.UserID)
}

func (g *Gate) Ping(ctx context.Context) error {
	return g.ledger.Ping(ctx)
}

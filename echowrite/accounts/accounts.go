package accounts

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"codeberg.org/echowrite/server/internal/usage"
)

// creates a new accounts repository
func NewRepository(db *pgxpool.Pool) *Repository {
	return &Repository{db: db}
}

// finds the usage record for a user
func (r *Repository) Get(ctx context.Context, userID string) (*usage.Record, error) {
	record, err := scanRecord(r.db.QueryRow(ctx, queryFindUsageRecord, userID))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, usage.ErrProfileMissing
	}

	if err != nil {
		return nil, fmt.Errorf("failed to find usage record: %w", err)
	}

	return record, nil
}

// atomically increments usage_count if the user is premium or below the ceiling
func (r *Repository) Increment(ctx context.Context, userID string) (*usage.Record, error) {
	record, err := scanRecord(r.db.QueryRow(ctx, queryIncrementUsage, userID))
	if err == nil {
		return record, nil
	}

	if !errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("failed to increment usage: %w", err)
	}

	// no row updated: either the record is missing or the ceiling was reached
	if _, getErr := r.Get(ctx, userID); getErr != nil {
		return nil, getErr
	}

	return nil, usage.ErrQuotaExceeded
}

// upserts the profile and creates the usage record if absent, in one transaction
func (r *Repository) Bootstrap(ctx context.Context, profile usage.Profile, maxUsage int) (*usage.Record, error) {
	var record *usage.Record

	err := pgx.BeginFunc(ctx, r.db, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, queryUpsertProfile, profile.UserID, profile.Email, profile.Name); err != nil {
			return fmt.Errorf("failed to upsert profile: %w", err)
		}

		if _, err := tx.Exec(ctx, queryEnsureUsageRecord, profile.UserID, maxUsage); err != nil {
			return fmt.Errorf("failed to create usage record: %w", err)
		}

		found, err := scanRecord(tx.QueryRow(ctx, queryFindUsageRecord, profile.UserID))
		if err != nil {
			return fmt.Errorf("failed to read usage record: %w", err)
		}

		record = found
		return nil
	})

	if err != nil {
		return nil, err
	}

	return record, nil
}

// sets role to premium, leaving counters untouched
func (r *Repository) ActivatePremium(ctx context.Context, userID string) (*usage.Record, error) {
	record, err := scanRecord(r.db.QueryRow(ctx, queryActivatePremium, userID))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, usage.ErrProfileMissing
	}

	if err != nil {
		return nil, fmt.Errorf("failed to activate premium: %w", err)
	}

	return record, nil
}

// finds the descriptive profile for a user
func (r *Repository) FindProfile(ctx context.Context, userID string) (*usage.Profile, error) {
	var profile usage.Profile

	err := r.db.QueryRow(ctx, queryFindProfile, userID).Scan(
		&profile.UserID,
		&profile.Email,
		&profile.Name,
	)

	if errors.Is(err, pgx.ErrNoRows) {
		return nil, usage.ErrProfileMissing
	}

	if err != nil {
		return nil, fmt.Errorf("failed to find profile: %w", err)
	}

	return &profile, nil
}

func (r *Repository) Ping(ctx context.Context) error {
	return r.db.Ping(ctx)
}

func scanRecord(row pgx.Row) (*usage.Record, error) {
	var (
		record usage.Record
		role   string
	)

	err := row.Scan(
		&record.UserID,
		&role,
		&record.UsageCount,
		&record.MaxUsage,
		&record.UpdatedAt,
	)

	if err != nil {
		return nil, err
	}

	record.Role = usage.Role(role)
	return &record, nil
}

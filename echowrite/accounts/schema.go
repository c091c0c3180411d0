package accounts

import (
	"context"
	"fmt"
	"slices"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ordered by version; never edit an applied entry, append a new one
var migrations = []migration{
	{
		version: "0001_profiles",
		statements: []string{`
			CREATE TABLE IF NOT EXISTS profiles (
				user_id TEXT PRIMARY KEY,
				email TEXT NOT NULL DEFAULT '',
				name TEXT NOT NULL DEFAULT '',
				created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
				updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
			)
		`},
	},
	{
		version: "0002_usage_records",
		statements: []string{`
			CREATE TABLE IF NOT EXISTS usage_records (
				user_id TEXT PRIMARY KEY REFERENCES profiles (user_id),
				role TEXT NOT NULL DEFAULT 'user' CHECK (role IN ('user', 'premium')),
				usage_count INTEGER NOT NULL DEFAULT 0 CHECK (usage_count >= 0),
				max_usage INTEGER NOT NULL DEFAULT 10 CHECK (max_usage > 0),
				created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
				updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
			)
		`},
	},
}

// applies pending migrations and returns the versions it ran
func Migrate(ctx context.Context, db *pgxpool.Pool) ([]string, error) {
	pending, err := Pending(ctx, db)
	if err != nil {
		return nil, err
	}

	var ran []string

	for _, m := range migrations {
		if !slices.Contains(pending, m.version) {
			continue
		}

		err := pgx.BeginFunc(ctx, db, func(tx pgx.Tx) error {
			for _, stmt := range m.statements {
				if _, err := tx.Exec(ctx, stmt); err != nil {
					return err
				}
			}

			_, err := tx.Exec(ctx, queryRecordMigration, m.version)
			return err
		})

		if err != nil {
			return ran, fmt.Errorf("failed to apply migration %s: %w", m.version, err)
		}

		ran = append(ran, m.version)
	}

	return ran, nil
}

// returns the versions not yet recorded in schema_migrations, in apply order
func Pending(ctx context.Context, db *pgxpool.Pool) ([]string, error) {
	if _, err := db.Exec(ctx, queryCreateMigrationsTable); err != nil {
		return nil, fmt.Errorf("failed to create migrations table: %w", err)
	}

	rows, err := db.Query(ctx, queryAppliedMigrations)
	if err != nil {
		return nil, fmt.Errorf("failed to list applied migrations: %w", err)
	}

	applied, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return nil, fmt.Errorf("failed to scan applied migrations: %w", err)
	}

	var pending []string

	for _, m := range migrations {
		if !slices.Contains(applied, m.version) {
			pending = append(pending, m.version)
		}
	}

	return pending, nil
}

package main

import (
	"context"
	"os"
	"time"

	"codeberg.org/echowrite/server/echowrite/accounts"
	"codeberg.org/echowrite/server/internal/config"
	"codeberg.org/echowrite/server/internal/logger"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

func main() {
	flags, err := config.ParseMigrateFlags(os.Args[1:], os.Stderr)
	if err != nil {
		logger.FatalErr(err, "invalid arguments")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	poolConfig, err := pgxpool.ParseConfig(flags.DatabaseURL)
	if err != nil {
		logger.FatalErr(err, "failed to parse database config")
	}

	// PgBouncer in transaction mode doesn't support prepared statements
	poolConfig.ConnConfig.DefaultQueryExecMode = pgx.QueryExecModeSimpleProtocol
	poolConfig.MaxConns = 1

	db, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		logger.FatalErr(err, "failed to create database pool")
	}

	defer db.Close()

	if err := db.Ping(ctx); err != nil {
		db.Close()
		logger.FatalErr(err, "failed to ping database")
	}

	logger.Info("connected to database")

	if flags.DryRun {
		pending, err := accounts.Pending(ctx, db)
		if err != nil {
			db.Close()
			logger.FatalErr(err, "failed to list pending migrations")
		}

		logger.Info("pending migrations", "count", len(pending), "versions", pending)
		return
	}

	applied, err := accounts.Migrate(ctx, db)
	if err != nil {
		db.Close()
		logger.FatalErr(err, "migration failed", "applied", applied)
	}

	if len(applied) == 0 {
		logger.Info("database schema is up to date")
		return
	}

	logger.Info("migrations applied", "count", len(applied), "versions", applied)
}

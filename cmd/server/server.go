package main

import (
	"context"
	"fmt"
	"io"
	"time"

	"codeberg.org/echowrite/server/echowrite/accounts"
	"codeberg.org/echowrite/server/internal/config"
	"codeberg.org/echowrite/server/internal/logger"
	"codeberg.org/echowrite/server/internal/usage"
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// creates and configures a new server instance with all dependencies
func NewServer(ctx context.Context, cfg *config.Config) (*Server, error) {
	server := &Server{config: cfg}

	if err := server.openLedger(ctx); err != nil {
		return nil, err
	}

	services, err := InitializeServices(ctx, cfg, server.ledger)
	if err != nil {
		server.Close()
		return nil, fmt.Errorf("failed to initialize services: %w", err)
	}

	server.services = services

	if closer, ok := services.Gateway.(io.Closer); ok {
		server.closers = append(server.closers, closer)
	}

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery(), RequestLogger(), CORSMiddleware(cfg.CORSAllowedOrigins))

	server.router = router

	RegisterRoutes(router, server)

	return server, nil
}

// selects the usage ledger for the configured backend
func (s *Server) openLedger(ctx context.Context) error {
	switch s.config.LedgerBackend {
	case config.LedgerPostgres:
		db, err := newPool(ctx, s.config.DatabaseURL)
		if err != nil {
			return err
		}

		applied, err := accounts.Migrate(ctx, db)
		if err != nil {
			db.Close()
			return fmt.Errorf("failed to migrate database: %w", err)
		}

		if len(applied) > 0 {
			logger.Info("applied migrations", "versions", applied)
		}

		s.db = db
		s.ledger = accounts.NewRepository(db)

	case config.LedgerRedis:
		ledger, err := usage.NewRedisLedgerFromURL(ctx, s.config.RedisURL)
		if err != nil {
			return fmt.Errorf("failed to initialize redis ledger: %w", err)
		}

		s.ledger = ledger
		s.closers = append(s.closers, ledger)

	case config.LedgerMemory:
		logger.Warn("using in-memory usage ledger, counters reset on restart")
		s.ledger = usage.NewMemoryLedger()

	default:
		return fmt.Errorf("unknown ledger backend %q", s.config.LedgerBackend)
	}

	return nil
}

// opens a small pgx pool tuned for a transaction-mode pooler
func newPool(ctx context.Context, connString string) (*pgxpool.Pool, error) {
	poolConfig, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, fmt.Errorf("failed to parse database config: %w", err)
	}

	poolConfig.MaxConns = 5
	poolConfig.MinConns = 1
	poolConfig.MaxConnLifetime = 30 * time.Minute
	poolConfig.MaxConnIdleTime = 5 * time.Minute
	poolConfig.HealthCheckPeriod = 1 * time.Minute

	// PgBouncer in transaction mode doesn't support prepared statements
	poolConfig.ConnConfig.DefaultQueryExecMode = pgx.QueryExecModeSimpleProtocol

	db, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create database pool: %w", err)
	}

	if err := db.Ping(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return db, nil
}

// releases the ledger, AI gateway and database connections
func (s *Server) Close() {
	for _, closer := range s.closers {
		if err := closer.Close(); err != nil {
			logger.ErrorErr(err, "failed to close dependency")
		}
	}

	if s.db != nil {
		s.db.Close()
	}
}

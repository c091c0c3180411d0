package accounts

import (
	"github.com/jackc/pgx/v5/pgxpool"
)

// handles profile and usage record database operations
type Repository struct {
	db *pgxpool.Pool
}

// one schema change, applied at most once
type migration struct {
	version    string
	statements []string
}

package config

import (
	"flag"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/joho/godotenv"
)

const defaultTokenTTL = 7 * 24 * time.Hour

// parses CLI flags for the gentoken command; the secret defaults to JWT_SECRET
func ParseTokenFlags(args []string, output io.Writer) (TokenFlags, error) {
	loadDotEnv()

	fs := flag.NewFlagSet("gentoken", flag.ContinueOnError)
	fs.SetOutput(output)

	secret := fs.String("secret", os.Getenv("JWT_SECRET"), "HMAC secret used to sign the token")
	userID := fs.String("user", "", "user id placed in the sub claim")
	email := fs.String("email", "", "email claim")
	name := fs.String("name", "", "display name claim")
	ttl := fs.Duration("ttl", defaultTokenTTL, "token lifetime")

	if err := fs.Parse(args); err != nil {
		return TokenFlags{}, err
	}

	if *secret == "" {
		return TokenFlags{}, fmt.Errorf("a signing secret is required (-secret or JWT_SECRET)")
	}

	if *userID == "" {
		return TokenFlags{}, fmt.Errorf("-user is required")
	}

	if *ttl <= 0 {
		return TokenFlags{}, fmt.Errorf("-ttl must be positive, got %s", *ttl)
	}

	return TokenFlags{
		Secret: *secret,
		UserID: *userID,
		Email:  *email,
		Name:   *name,
		TTL:    *ttl,
	}, nil
}

// parses CLI flags for the migrate command; the url defaults to DATABASE_URL
func ParseMigrateFlags(args []string, output io.Writer) (MigrateFlags, error) {
	loadDotEnv()

	fs := flag.NewFlagSet("migrate", flag.ContinueOnError)
	fs.SetOutput(output)

	databaseURL := fs.String("database-url", os.Getenv("DATABASE_URL"), "postgres connection string")
	dryRun := fs.Bool("dry-run", false, "list pending migrations without applying them")

	if err := fs.Parse(args); err != nil {
		return MigrateFlags{}, err
	}

	if *databaseURL == "" {
		return MigrateFlags{}, fmt.Errorf("a database url is required (-database-url or DATABASE_URL)")
	}

	return MigrateFlags{DatabaseURL: *databaseURL, DryRun: *dryRun}, nil
}

func loadDotEnv() {
	if err := godotenv.Load(); err != nil {
		_ = err // not an error - production environments may not have .env file
	}
}

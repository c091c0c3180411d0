package config

import "time"

// ledger backends accepted by LEDGER_BACKEND
const (
	LedgerPostgres = "postgres"
	LedgerRedis    = "redis"
	LedgerMemory   = "memory"
)

// AI providers accepted by AI_PROVIDER
const (
	ProviderGateway   = "gateway"
	ProviderAnthropic = "anthropic"
	ProviderGemini    = "gemini"
)

type Config struct {
	Port               string
	Environment        string
	JWTSecret          string
	AuthURL            string
	AuthAPIKey         string
	LedgerBackend      string
	DatabaseURL        string
	RedisURL           string
	DefaultMaxUsage    int
	CORSAllowedOrigins []string
	AI                 AIConfig
}

type AIConfig struct {
	Provider    string
	BaseURL     string
	APIKey      string
	Model       string
	Temperature float32
	MaxTokens   int
}

func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

// flags for the gentoken command
type TokenFlags struct {
	Secret string
	UserID string
	Email  string
	Name   string
	TTL    time.Duration
}

// flags for the migrate command
type MigrateFlags struct {
	DatabaseURL string
	DryRun      bool
}

package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

const (
	defaultPort        = "8080"
	defaultMaxUsage    = 10
	defaultTemperature = 0.7
	defaultMaxTokens   = 2048
)

// loads configuration from environment variables
func LoadEnvironmentVariables() (*Config, error) {
	loadDotEnv()

	environment := os.Getenv("ENVIRONMENT")
	if environment == "" {
		environment = "development"
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = defaultPort
	}

	jwtSecret := os.Getenv("JWT_SECRET")
	authURL := strings.TrimRight(os.Getenv("AUTH_URL"), "/")

	if jwtSecret == "" && authURL == "" {
		return nil, fmt.Errorf("JWT_SECRET environment variable is required when AUTH_URL is not set")
	}

	ledgerBackend := strings.ToLower(os.Getenv("LEDGER_BACKEND"))
	if ledgerBackend == "" {
		ledgerBackend = LedgerPostgres
	}

	databaseURL := os.Getenv("DATABASE_URL")
	redisURL := os.Getenv("REDIS_URL")

	switch ledgerBackend {
	case LedgerPostgres:
		if databaseURL == "" {
			return nil, fmt.Errorf("DATABASE_URL environment variable is required for the postgres ledger")
		}
	case LedgerRedis:
		if redisURL == "" {
			return nil, fmt.Errorf("REDIS_URL environment variable is required for the redis ledger")
		}
	case LedgerMemory:
		if environment == "production" {
			return nil, fmt.Errorf("memory ledger is not allowed in production")
		}
	default:
		return nil, fmt.Errorf("unknown LEDGER_BACKEND %q (expected postgres, redis or memory)", ledgerBackend)
	}

	maxUsage, err := intFromEnv("DEFAULT_MAX_USAGE", defaultMaxUsage)
	if err != nil {
		return nil, err
	}

	if maxUsage <= 0 {
		return nil, fmt.Errorf("DEFAULT_MAX_USAGE must be positive, got %d", maxUsage)
	}

	ai, err := loadAIConfig()
	if err != nil {
		return nil, err
	}

	return &Config{
		Port:               port,
		Environment:        environment,
		JWTSecret:          jwtSecret,
		AuthURL:            authURL,
		AuthAPIKey:         os.Getenv("AUTH_API_KEY"),
		LedgerBackend:      ledgerBackend,
		DatabaseURL:        databaseURL,
		RedisURL:           redisURL,
		DefaultMaxUsage:    maxUsage,
		CORSAllowedOrigins: splitList(os.Getenv("CORS_ALLOWED_ORIGINS")),
		AI:                 *ai,
	}, nil
}

func loadAIConfig() (*AIConfig, error) {
	provider := strings.ToLower(os.Getenv("AI_PROVIDER"))
	if provider == "" {
		provider = ProviderGateway
	}

	switch provider {
	case ProviderGateway, ProviderAnthropic, ProviderGemini:
	default:
		return nil, fmt.Errorf("unknown AI_PROVIDER %q (expected gateway, anthropic or gemini)", provider)
	}

	apiKey := os.Getenv("AI_GATEWAY_API_KEY")
	if apiKey == "" {
		return nil, fmt.Errorf("AI_GATEWAY_API_KEY environment variable is required")
	}

	temperature := float32(defaultTemperature)
	if raw := os.Getenv("AI_TEMPERATURE"); raw != "" {
		parsed, err := strconv.ParseFloat(raw, 32)
		if err != nil {
			return nil, fmt.Errorf("invalid AI_TEMPERATURE %q: %w", raw, err)
		}

		temperature = float32(parsed)
	}

	maxTokens, err := intFromEnv("AI_MAX_TOKENS", defaultMaxTokens)
	if err != nil {
		return nil, err
	}

	return &AIConfig{
		Provider:    provider,
		BaseURL:     strings.TrimRight(os.Getenv("AI_GATEWAY_URL"), "/"),
		APIKey:      apiKey,
		Model:       os.Getenv("AI_MODEL"),
		Temperature: temperature,
		MaxTokens:   maxTokens,
	}, nil
}

func intFromEnv(key string, fallback int) (int, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback, nil
	}

	value, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", key, raw, err)
	}

	return value, nil
}

// splits a comma separated list, dropping blanks
func splitList(raw string) []string {
	if raw == "" {
		return nil
	}

	var out []string

	for _, part := range strings.Split(raw, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}

	return out
}

package llm

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"golang.org/x/time/rate"
)

const (
	defaultTemperature = 0.7
	defaultMaxTokens   = 2048
)

// default model per provider
var defaultModels = map[Provider]string{
	ProviderGateway:   "gpt-4o-mini",
	ProviderAnthropic: "claude-3-haiku-20240307",
	ProviderGemini:    "gemini-1.5-flash",
}

// shared HTTP client for provider calls
// reuses connection pool and timeout configuration
var sharedHTTPClient = &http.Client{
	Timeout: 60 * time.Second, // total request timeout
	Transport: &http.Transport{
		MaxIdleConns:        100,
		MaxIdleConnsPerHost: 10,
		IdleConnTimeout:     90 * time.Second,
		TLSHandshakeTimeout: 10 * time.Second,
	},
}

// smooths outbound bursts (50 requests/second with burst capacity of 10); never retries
var sharedLimiter = rate.NewLimiter(50, 10)

// creates the gateway for the configured provider
func NewGateway(ctx context.Context, config Config) (Gateway, error) {
	if config.APIKey == "" {
		return nil, fmt.Errorf("api key is required for provider %q", config.Provider)
	}

	if config.Provider == "" {
		config.Provider = ProviderGateway
	}

	if config.Model == "" {
		config.Model = defaultModels[config.Provider]
	}

	if config.Temperature == nil {
		config.Temperature = Temperature(defaultTemperature)
	}

	if config.MaxTokens == 0 {
		config.MaxTokens = defaultMaxTokens
	}

	if config.HTTPClient == nil {
		config.HTTPClient = sharedHTTPClient
	}

	if config.Limiter == nil {
		config.Limiter = sharedLimiter
	}

	switch config.Provider {
	case ProviderGateway:
		return NewChatGateway(config), nil
	case ProviderAnthropic:
		return NewAnthropicGateway(config), nil
	case ProviderGemini:
		return NewGeminiGateway(ctx, config)
	default:
		return nil, fmt.Errorf("unsupported provider: %s", config.Provider)
	}
}

// returns a pointer for Config.Temperature; zero is a valid setting
func Temperature(value float32) *float32 {
	return &value
}

// resolved sampling temperature
func (c Config) temperature() float32 {
	if c.Temperature == nil {
		return defaultTemperature
	}

	return *c.Temperature
}

// waits for the shared limiter before an outbound call
func wait(ctx context.Context, limiter *rate.Limiter) error {
	if err := limiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limiter error: %w", err)
	}

	return nil
}

package llm

import (
	"context"
	"net/http"

	"golang.org/x/time/rate"
)

// represents different LLM providers
type Provider string

const (
	ProviderGateway   Provider = "gateway"
	ProviderAnthropic Provider = "anthropic"
	ProviderGemini    Provider = "gemini"
)

// sends one prompt pair to a chat-completion provider
type Gateway interface {
	Complete(ctx context.Context, req Request) (*Completion, error)
	Model() string
}

type Request struct {
	System string
	User   string
}

type Completion struct {
	Text  string
	Model string
	Usage Usage
}

// token usage reported by the provider
type Usage struct {
	InputTokens  int `json:"input_tokens"`
	OutputTokens int `json:"output_tokens"`
}

// holds configuration for gateway initialization
type Config struct {
	Provider    Provider
	BaseURL     string // empty uses the provider default
	APIKey      string
	Model       string
	MaxTokens   int
	Temperature *float32 // 0.0 to 1.0; nil uses the default

	// optional; the package-level client and limiter are used when nil
	HTTPClient *http.Client
	Limiter    *rate.Limiter
}

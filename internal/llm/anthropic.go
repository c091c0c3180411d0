package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"golang.org/x/time/rate"
)

const (
	anthropicBaseURL = "https://api.anthropic.com"
	anthropicVersion = "2023-06-01"
)

type messagesRequest struct {
	Model       string    `json:"model"`
	MaxTokens   int       `json:"max_tokens"`
	System      string    `json:"system,omitempty"`
	Messages    []message `json:"messages"`
	Temperature float32   `json:"temperature"`
}

type message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type messagesResponse struct {
	ID      string    `json:"id"`
	Type    string    `json:"type"`
	Role    string    `json:"role"`
	Content []content `json:"content"`
	Model   string    `json:"model"`
	Usage   Usage     `json:"usage"`
}

type content struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

// talks to the Anthropic Messages API
type AnthropicGateway struct {
	config     Config
	httpClient *http.Client
	limiter    *rate.Limiter
}

func NewAnthropicGateway(config Config) *AnthropicGateway {
	if config.BaseURL == "" {
		config.BaseURL = anthropicBaseURL
	}

	config.BaseURL = strings.TrimRight(config.BaseURL, "/")

	return &AnthropicGateway{
		config:     config,
		httpClient: config.HTTPClient,
		limiter:    config.Limiter,
	}
}

func (g *AnthropicGateway) Model() string {
	return g.config.Model
}

func (g *AnthropicGateway) Complete(ctx context.Context, req Request) (*Completion, error) {
	reqBody := messagesRequest{
		Model:       g.config.Model,
		MaxTokens:   g.config.MaxTokens,
		System:      req.System,
		Temperature: g.config.temperature(),
		Messages: []message{
			{Role: "user", Content: req.User},
		},
	}

	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, g.config.BaseURL+"/v1/messages", bytes.NewBuffer(jsonData))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("x-api-key", g.config.APIKey)
	httpReq.Header.Set("anthropic-version", anthropicVersion)

	// rate limiting
	if err := wait(ctx, g.limiter); err != nil {
		return nil, err
	}

	resp, err := g.httpClient.Do(httpReq)
	if err != nil {
		return nil, transportError(ProviderAnthropic, err)
	}

	defer resp.Body.Close() //nolint:errcheck

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body) //nolint:errcheck
		return nil, statusError(ProviderAnthropic, resp.StatusCode, body)
	}

	var apiResp messagesResponse
	if err := json.NewDecoder(resp.Body).Decode(&apiResp); err != nil {
		return nil, fmt.Errorf("%w: failed to decode response: %w", ErrUpstream, err)
	}

	var text strings.Builder

	for _, block := range apiResp.Content {
		if block.Type == "text" {
			text.WriteString(block.Text)
		}
	}

	return &Completion{
		Text:  text.String(),
		Model: apiResp.Model,
		Usage: apiResp.Usage,
	}, nil
}

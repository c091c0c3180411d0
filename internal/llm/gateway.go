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

const chatBaseURL = "https://api.openai.com/v1"

type chatRequest struct {
	Model       string    `json:"model"`
	Messages    []message `json:"messages"`
	Temperature float32   `json:"temperature"`
	MaxTokens   int       `json:"max_tokens,omitempty"`
}

type chatResponse struct {
	ID      string `json:"id"`
	Model   string `json:"model"`
	Choices []struct {
		Index   int     `json:"index"`
		Message message `json:"message"`
	} `json:"choices"`
	Usage struct {
		PromptTokens     int `json:"prompt_tokens"`
		CompletionTokens int `json:"completion_tokens"`
	} `json:"usage"`
}

// talks to any OpenAI-compatible chat completions endpoint (AI gateways, OpenAI itself)
type ChatGateway struct {
	config     Config
	httpClient *http.Client
	limiter    *rate.Limiter
}

func NewChatGateway(config Config) *ChatGateway {
	if config.BaseURL == "" {
		config.BaseURL = chatBaseURL
	}

	config.BaseURL = strings.TrimRight(config.BaseURL, "/")

	return &ChatGateway{
		config:     config,
		httpClient: config.HTTPClient,
		limiter:    config.Limiter,
	}
}

func (g *ChatGateway) Model() string {
	return g.config.Model
}

func (g *ChatGateway) Complete(ctx context.Context, req Request) (*Completion, error) {
	reqBody := chatRequest{
		Model: g.config.Model,
		Messages: []message{
			{Role: "system", Content: req.System},
			{Role: "user", Content: req.User},
		},
		Temperature: g.config.temperature(),
		MaxTokens:   g.config.MaxTokens,
	}

	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, g.config.BaseURL+"/chat/completions", bytes.NewBuffer(jsonData))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+g.config.APIKey)

	// rate limiting
	if err := wait(ctx, g.limiter); err != nil {
		return nil, err
	}

	resp, err := g.httpClient.Do(httpReq)
	if err != nil {
		return nil, transportError(ProviderGateway, err)
	}

	defer resp.Body.Close() //nolint:errcheck

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body) //nolint:errcheck
		return nil, statusError(ProviderGateway, resp.StatusCode, body)
	}

	var apiResp chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&apiResp); err != nil {
		return nil, fmt.Errorf("%w: failed to decode response: %w", ErrUpstream, err)
	}

	if len(apiResp.Choices) == 0 {
		return nil, fmt.Errorf("%w: no choices in response", ErrUpstream)
	}

	model := apiResp.Model
	if model == "" {
		model = g.config.Model
	}

	return &Completion{
		Text:  apiResp.Choices[0].Message.Content,
		Model: model,
		Usage: Usage{
			InputTokens:  apiResp.Usage.PromptTokens,
			OutputTokens: apiResp.Usage.CompletionTokens,
		},
	}, nil
}

package llm

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"golang.org/x/time/rate"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
)

// talks to Google Gemini through the generative-ai SDK
type GeminiGateway struct {
	client  *genai.Client
	config  Config
	limiter *rate.Limiter
}

func NewGeminiGateway(ctx context.Context, config Config) (*GeminiGateway, error) {
	opts := []option.ClientOption{option.WithAPIKey(config.APIKey)}
	if config.BaseURL != "" {
		opts = append(opts, option.WithEndpoint(config.BaseURL))
	}

	client, err := genai.NewClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	return &GeminiGateway{client: client, config: config, limiter: config.Limiter}, nil
}

func (g *GeminiGateway) Model() string {
	return g.config.Model
}

func (g *GeminiGateway) Close() error {
	return g.client.Close()
}

func (g *GeminiGateway) Complete(ctx context.Context, req Request) (*Completion, error) {
	model := g.client.GenerativeModel(g.config.Model)
	model.SetTemperature(g.config.temperature())
	model.SetMaxOutputTokens(int32(g.config.MaxTokens)) //nolint:gosec // bounded by config

	if req.System != "" {
		model.SystemInstruction = &genai.Content{
			Parts: []genai.Part{genai.Text(req.System)},
		}
	}

	// rate limiting
	if err := wait(ctx, g.limiter); err != nil {
		return nil, err
	}

	resp, err := model.GenerateContent(ctx, genai.Text(req.User))
	if err != nil {
		return nil, geminiError(err)
	}

	completion := &Completion{
		Text:  candidateText(resp),
		Model: g.config.Model,
	}

	if resp.UsageMetadata != nil {
		completion.Usage = Usage{
			InputTokens:  int(resp.UsageMetadata.PromptTokenCount),
			OutputTokens: int(resp.UsageMetadata.CandidatesTokenCount),
		}
	}

	return completion, nil
}

// concatenates the text parts of the first candidate
func candidateText(resp *genai.GenerateContentResponse) string {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return ""
	}

	var text strings.Builder

	for _, part := range resp.Candidates[0].Content.Parts {
		if t, ok := part.(genai.Text); ok {
			text.WriteString(string(t))
		}
	}

	return text.String()
}

// maps SDK errors carrying an HTTP status onto the failure taxonomy
func geminiError(err error) error {
	status := 0

	var apiErr *googleapi.Error
	var coded interface{ HTTPCode() int }

	switch {
	case errors.As(err, &apiErr):
		status = apiErr.Code
	case errors.As(err, &coded):
		status = coded.HTTPCode()
	}

	if status == 0 {
		return transportError(ProviderGemini, err)
	}

	if status == http.StatusTooManyRequests || status == http.StatusPaymentRequired {
		return statusError(ProviderGemini, status, []byte(err.Error()))
	}

	return fmt.Errorf("%w: %s request failed with status %d: %w", ErrUpstream, ProviderGemini, status, err)
}

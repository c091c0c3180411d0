package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"codeberg.org/echowrite/server/echowrite/generation"
	"golang.org/x/sync/errgroup"
)

const (
	DefaultBaseURL = "http://localhost:8080"

	// generations wait on the upstream model
	requestTimeout = 90 * time.Second
)

// sets the bearer token sent with every request
func WithToken(token string) Option {
	return func(c *Client) {
		c.token = token
	}
}

func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) {
		if httpClient != nil {
			c.httpClient = httpClient
		}
	}
}

// creates a new REST client; an empty baseURL uses DefaultBaseURL
func New(baseURL string, opts ...Option) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: requestTimeout},
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// returns eight labeled style variations, optionally focused on a style
func (c *Client) Variations(ctx context.Context, text, style string) (*generation.VariationsResult, error) {
	var result generation.VariationsResult

	req := generation.Request{Action: generation.ActionVariations, Text: text, Style: style}
	if err := c.Generate(ctx, req, &result); err != nil {
		return nil, err
	}

	return &result, nil
}

// an empty targetLanguage lets the server default to English
func (c *Client) Translate(ctx context.Context, text, targetLanguage string) (string, error) {
	var result generation.TextResult

	req := generation.Request{Action: generation.ActionTranslate, Text: text, TargetLanguage: targetLanguage}
	if err := c.Generate(ctx, req, &result); err != nil {
		return "", err
	}

	return result.Text, nil
}

func (c *Client) Rephrase(ctx context.Context, text string) (string, error) {
	var result generation.TextResult

	req := generation.Request{Action: generation.ActionRephrase, Text: text}
	if err := c.Generate(ctx, req, &result); err != nil {
		return "", err
	}

	return result.Text, nil
}

func (c *Client) LengthVariations(ctx context.Context, text string, lengthType generation.LengthType) (*generation.LengthVariationsResult, error) {
	var result generation.LengthVariationsResult

	req := generation.Request{Action: generation.ActionLengthVariations, Text: text, LengthType: lengthType}
	if err := c.Generate(ctx, req, &result); err != nil {
		return nil, err
	}

	return &result, nil
}

func (c *Client) GenerateVisual(ctx context.Context, text string, visualType generation.VisualType) (*generation.VisualResult, error) {
	var result generation.VisualResult

	req := generation.Request{Action: generation.ActionGenerateVisual, Text: text, VisualType: visualType}
	if err := c.Generate(ctx, req, &result); err != nil {
		return nil, err
	}

	return &result, nil
}

// sends one generation request and decodes the action-specific body into out
func (c *Client) Generate(ctx context.Context, req generation.Request, out any) error {
	return c.do(ctx, http.MethodPost, "/api/v1/generate", req, out)
}

// runs variations, length variations and a flowchart in parallel; each panel
// succeeds or fails on its own
func (c *Client) GenerateAll(ctx context.Context, text string) *AllResult {
	result := &AllResult{Errors: make(map[generation.Action]error)}

	var (
		g  errgroup.Group
		mu sync.Mutex
	)

	record := func(action generation.Action, err error) {
		mu.Lock()
		defer mu.Unlock()

		result.Errors[action] = err
	}

	g.Go(func() error {
		variations, err := c.Variations(ctx, text, "")
		if err != nil {
			record(generation.ActionVariations, err)
			return nil
		}

		result.Variations = variations
		return nil
	})

	g.Go(func() error {
		lengths, err := c.LengthVariations(ctx, text, generation.LengthAll)
		if err != nil {
			record(generation.ActionLengthVariations, err)
			return nil
		}

		result.Lengths = lengths
		return nil
	})

	g.Go(func() error {
		visual, err := c.GenerateVisual(ctx, text, generation.VisualFlowchart)
		if err != nil {
			record(generation.ActionGenerateVisual, err)
			return nil
		}

		result.Visual = visual
		return nil
	})

	g.Wait() //nolint:errcheck // panels report their own errors

	return result
}

// creates the caller's account record if absent; an empty name keeps the stored one
func (c *Client) Bootstrap(ctx context.Context, name string) (*Account, error) {
	return c.account(ctx, accountRequest{Action: "bootstrap", Name: name})
}

// upgrades the caller to premium, keeping the usage count
func (c *Client) ActivatePremium(ctx context.Context) (*Account, error) {
	return c.account(ctx, accountRequest{Action: "activate-premium"})
}

func (c *Client) Usage(ctx context.Context) (*Usage, error) {
	var usage Usage
	if err := c.do(ctx, http.MethodGet, "/api/v1/account/usage", nil, &usage); err != nil {
		return nil, err
	}

	return &usage, nil
}

type accountRequest struct {
	Action string `json:"action"`
	Name   string `json:"name,omitempty"`
}

func (c *Client) account(ctx context.Context, req accountRequest) (*Account, error) {
	var account Account
	if err := c.do(ctx, http.MethodPost, "/api/v1/account", req, &account); err != nil {
		return nil, err
	}

	return &account, nil
}

func (c *Client) do(ctx context.Context, method, path string, payload, out any) error {
	var body io.Reader

	if payload != nil {
		payloadBytes, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("failed to marshal request: %w", err)
		}

		body = bytes.NewReader(payloadBytes)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close() //nolint:errcheck

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return parseError(resp.StatusCode, respBody)
	}

	if err := json.Unmarshal(respBody, out); err != nil {
		return fmt.Errorf("failed to parse response: %w", err)
	}

	return nil
}

package main

import (
	"context"
	"fmt"

	"codeberg.org/echowrite/server/internal/auth"
	"codeberg.org/echowrite/server/internal/config"
	"codeberg.org/echowrite/server/internal/llm"
	"codeberg.org/echowrite/server/internal/logger"
	"codeberg.org/echowrite/server/internal/relay"
	"codeberg.org/echowrite/server/internal/usage"
)

// creates the auth resolver, usage gate, AI gateway and relay service
func InitializeServices(ctx context.Context, cfg *config.Config, ledger usage.Ledger) (*Services, error) {
	gateway, err := llm.NewGateway(ctx, llm.Config{
		Provider:    llm.Provider(cfg.AI.Provider),
		BaseURL:     cfg.AI.BaseURL,
		APIKey:      cfg.AI.APIKey,
		Model:       cfg.AI.Model,
		MaxTokens:   cfg.AI.MaxTokens,
		Temperature: llm.Temperature(cfg.AI.Temperature),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create AI gateway: %w", err)
	}

	gate := usage.NewGate(ledger, cfg.DefaultMaxUsage)

	logger.Info("services initialized",
		"provider", cfg.AI.Provider,
		"model", gateway.Model(),
		"ledger", cfg.LedgerBackend,
		"max_usage", cfg.DefaultMaxUsage,
	)

	return &Services{
		Resolver: newResolver(cfg),
		Gate:     gate,
		Gateway:  gateway,
		Relay:    relay.NewService(gate, gateway),
	}, nil
}

// the identity provider is used when configured, otherwise tokens are verified locally
func newResolver(cfg *config.Config) auth.Resolver {
	if cfg.AuthURL != "" {
		logger.Info("resolving principals via identity provider", "auth_url", cfg.AuthURL)
		return auth.NewRemoteResolver(cfg.AuthURL, cfg.AuthAPIKey, nil)
	}

	return auth.NewJWTResolver(cfg.JWTSecret)
}

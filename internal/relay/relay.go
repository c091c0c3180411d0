package relay

import (
	"context"
	"fmt"

	"codeberg.org/echowrite/server/internal/llm"
	"codeberg.org/echowrite/server/internal/logger"
	"codeberg.org/echowrite/server/internal/normalize"
	"codeberg.org/echowrite/server/internal/prompts"
	"codeberg.org/echowrite/server/internal/usage"
)

func NewService(gate *usage.Gate, gateway llm.Gateway) *Service {
	return &Service{gate: gate, gateway: gateway}
}

// validate, build, pre-check, complete, consume, normalize; stops at the first failure
func (s *Service) Generate(ctx context.Context, call Call) (*Outcome, error) {
	req := call.Request

	if err := prompts.Validate(req); err != nil {
		return nil, err
	}

	prompt, err := prompts.Build(req)
	if err != nil {
		return nil, err
	}

	if _, err := s.gate.Check(ctx, call.Principal.UserID); err != nil {
		return nil, err
	}

	completion, err := s.gateway.Complete(ctx, llm.Request{
		System: prompt.System,
		User:   prompt.User,
	})
	if err != nil {
		return nil, fmt.Errorf("relay %s: %w", req.Action, err)
	}

	// a concurrent request may have taken the last slot; the relay cost is already spent
	record, err := s.gate.Consume(ctx, call.Principal.UserID)
	if err != nil {
		return nil, err
	}

	result := normalize.Normalize(req, completion.Text)

	logger.FromContext(ctx).Debug("generation completed",
		"action", req.Action,
		"model", completion.Model,
		"input_tokens", completion.Usage.InputTokens,
		"output_tokens", completion.Usage.OutputTokens,
		"degraded", result.IsDegraded(),
		"usage_count", record.UsageCount,
	)

	return &Outcome{
		Result: result,
		Usage:  record,
		Model:  completion.Model,
	}, nil
}

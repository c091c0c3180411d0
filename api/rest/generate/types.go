package generate

import (
	"context"

	"codeberg.org/echowrite/server/echowrite/generation"
	"codeberg.org/echowrite/server/internal/relay"
)

// runs one generation call through the gate chain
type Generator interface {
	Generate(ctx context.Context, call relay.Call) (*relay.Outcome, error)
}

// usage headers attached to successful generations
const (
	HeaderUsageCount     = "X-Usage-Count"
	HeaderUsageRemaining = "X-Usage-Remaining"
)

// largest accepted request body: the text limit at 4 bytes per rune plus room for the envelope
const MaxBodyBytes = generation.MaxTextLength*4 + 4096

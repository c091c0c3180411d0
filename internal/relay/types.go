package relay

import (
	"codeberg.org/echowrite/server/echowrite/generation"
	"codeberg.org/echowrite/server/internal/auth"
	"codeberg.org/echowrite/server/internal/llm"
	"codeberg.org/echowrite/server/internal/usage"
)

// runs one generation through the usage gate and the AI relay
type Service struct {
	gate    *usage.Gate
	gateway llm.Gateway
}

// per-request state passed through the gate chain
type Call struct {
	Principal auth.Principal
	Request   generation.Request
}

type Outcome struct {
	Result generation.Result
	Usage  *usage.Record
	Model  string
}

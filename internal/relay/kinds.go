package relay

import (
	"errors"

	"codeberg.org/echowrite/server/internal/auth"
	apierrors "codeberg.org/echowrite/server/internal/errors"
	"codeberg.org/echowrite/server/internal/llm"
	"codeberg.org/echowrite/server/internal/prompts"
	"codeberg.org/echowrite/server/internal/usage"
)

var kindBySentinel = []struct {
	err  error
	kind apierrors.Kind
}{
	{auth.ErrNoPrincipal, apierrors.KindUnauthenticated},
	{usage.ErrProfileMissing, apierrors.KindProfileMissing},
	{usage.ErrQuotaExceeded, apierrors.KindQuotaExceeded},
	{prompts.ErrInvalidInput, apierrors.KindInvalidInput},
	{prompts.ErrUnknownAction, apierrors.KindUnknownAction},
	{llm.ErrRateLimited, apierrors.KindRateLimited},
	{llm.ErrQuotaExhausted, apierrors.KindQuotaExhausted},
	{llm.ErrUpstream, apierrors.KindUpstreamError},
}

// maps a gate chain error onto the closed set of failure kinds
func KindOf(err error) apierrors.Kind {
	for _, entry := range kindBySentinel {
		if errors.Is(err, entry.err) {
			return entry.kind
		}
	}

	return apierrors.KindServerError
}

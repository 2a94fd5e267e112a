package ports

import (
	"context"

	"github.com/qaydhub/qayd-api/internal/application/dto"
)

// NarrativeService is the outbound port for the AI text collaborator that
// turns computed metrics into merchant-facing prose. Any adapter (OpenAI,
// Anthropic, mock) must implement it.
//
// The numeric pipeline never depends on this port being available: callers
// substitute static fallback text on any error. The context should carry a
// timeout to bound the external call.
type NarrativeService interface {
	GenerateNarrative(ctx context.Context, input dto.NarrativeInput) (*dto.NarrativeDTO, error)
}

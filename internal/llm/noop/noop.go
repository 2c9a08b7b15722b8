package noop

import (
	"context"

	"signal-extractor/internal/logger"
	"signal-extractor/internal/types"
)

// Extractor is a fallback extractor used when no LLM provider is
// configured. It extracts nothing.
type Extractor struct{}

// New returns an extractor that always yields zero candidates
func New() *Extractor {
	return &Extractor{}
}

// Extract implements the Extractor interface. It always returns an
// empty candidate list.
func (e *Extractor) Extract(ctx context.Context, msg types.Message) ([]types.TradingAction, error) {
	logger.Debug(ctx, "Noop extractor called - no actions extracted", "sender", msg.Sender)
	return nil, nil
}

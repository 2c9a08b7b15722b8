package llmobs

import (
	"context"

	"signal-extractor/internal/interfaces"
	"signal-extractor/internal/logger"
	"signal-extractor/internal/trace"
	"signal-extractor/internal/types"
)

// observableExtractor wraps an Extractor with observability (logging & tracing)
type observableExtractor struct {
	extractor interfaces.Extractor
}

// Compile-time interface check
var _ interfaces.Extractor = (*observableExtractor)(nil)

// Wrap wraps an extractor with observability middleware
func Wrap(extractor interfaces.Extractor) interfaces.Extractor {
	return &observableExtractor{
		extractor: extractor,
	}
}

// Extract extracts candidate actions with observability
func (oe *observableExtractor) Extract(ctx context.Context, msg types.Message) ([]types.TradingAction, error) {
	ctx, span := trace.StartSpan(ctx, "llm.Extract")
	defer span.End()

	// Use DebugSkip(1) to report the actual caller, not this middleware wrapper
	logger.DebugSkip(ctx, 1, "Requesting action extraction",
		"sender", msg.Sender,
		"send_time", msg.SendTime,
		"message_len", len(msg.Message),
	)

	actions, err := oe.extractor.Extract(ctx, msg)
	if err != nil {
		logger.ErrorWithErrSkip(ctx, 1, "Failed to extract actions", err,
			"sender", msg.Sender,
		)
		return nil, err
	}

	logger.InfoSkip(ctx, 1, "Extraction completed",
		"sender", msg.Sender,
		"candidates", len(actions),
	)

	return actions, nil
}

package interfaces

import (
	"context"

	"signal-extractor/internal/types"
)

// Extractor turns one message's free text into zero or more candidate
// trading actions via an LLM call. Implementations apply structural
// parsing only; semantic validation is the validator's job.
type Extractor interface {
	Extract(ctx context.Context, msg types.Message) ([]types.TradingAction, error)
}

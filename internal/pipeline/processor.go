// Package pipeline drives messages through extraction, validation and
// persistence, one message at a time.
package pipeline

import (
	"context"

	"signal-extractor/internal/db"
	"signal-extractor/internal/interfaces"
	"signal-extractor/internal/logger"
	"signal-extractor/internal/trace"
	"signal-extractor/internal/types"
	"signal-extractor/internal/validator"
)

// Processor is the orchestrator: the only component that knows the
// source adapter, the extractor, the validator and the store.
// Processing is synchronous and sequential; actions are persisted and
// callbacks fired in delivery order.
type Processor struct {
	source    interfaces.SourceAdapter
	extractor interfaces.Extractor
	validator *validator.ActionValidator
	store     *db.Store
	onAction  func(types.TradingAction)
}

// New creates a processor over the given collaborators.
func New(source interfaces.SourceAdapter, extractor interfaces.Extractor, v *validator.ActionValidator, store *db.Store) *Processor {
	return &Processor{
		source:    source,
		extractor: extractor,
		validator: v,
		store:     store,
	}
}

// SetActionCallback registers an optional sink invoked synchronously
// once per accepted action, after it is durably stored.
func (p *Processor) SetActionCallback(callback func(types.TradingAction)) {
	p.onAction = callback
}

// ProcessMessage runs one message through extract, filter, persist.
// The message itself is always saved, whether or not any action came
// out of it. Extraction failures degrade to zero candidates; a failed
// action write is skipped with a warning rather than aborting the
// batch. Returns the accepted actions.
func (p *Processor) ProcessMessage(ctx context.Context, msg types.Message) []types.TradingAction {
	ctx, span := trace.StartSpan(ctx, "pipeline.ProcessMessage")
	defer span.End()

	candidates, err := p.extractor.Extract(ctx, msg)
	if err != nil {
		logger.Warn(ctx, "Extraction failed, continuing with no candidates",
			"error", err, "sender", msg.Sender)
		candidates = nil
	}

	accepted := p.validator.Filter(candidates)

	// Signal time comes from the message, not the extraction clock.
	for i := range accepted {
		accepted[i].ActionSignalTime = msg.SendTime
	}

	var messageID *int64
	if id, err := p.store.SaveMessage(msg); err != nil {
		// Degraded: actions are still persisted, just without a link.
		logger.ErrorWithErr(ctx, "Failed to save message, actions will be stored unlinked", err,
			"sender", msg.Sender)
	} else {
		messageID = &id
	}

	for i := range accepted {
		if _, err := p.store.SaveTradingAction(accepted[i], messageID); err != nil {
			logger.Warn(ctx, "Failed to save trading action, skipping",
				"error", err,
				"symbol", accepted[i].Symbol,
				"action_type", accepted[i].ActionType)
			continue
		}
		accepted[i].MessageID = messageID

		logger.Action(ctx, accepted[i].Symbol, string(accepted[i].ActionType), accepted[i].Confidence,
			"sender", msg.Sender)

		if p.onAction != nil {
			p.onAction(accepted[i])
		}
	}

	return accepted
}

// ProcessMessages processes a batch sequentially, concatenating results
// in input order. One message's failure never aborts the batch.
func (p *Processor) ProcessMessages(ctx context.Context, messages []types.Message) []types.TradingAction {
	var all []types.TradingAction
	for _, msg := range messages {
		all = append(all, p.ProcessMessage(ctx, msg)...)
	}
	return all
}

// ProcessAll pulls up to limit messages from the source (limit <= 0 for
// all) and processes them. Source errors surface to the caller.
func (p *Processor) ProcessAll(ctx context.Context, limit int) ([]types.TradingAction, error) {
	if !p.source.IsConnected() {
		if err := p.source.Connect(); err != nil {
			return nil, err
		}
	}

	messages, err := p.source.GetMessages(limit)
	if err != nil {
		return nil, err
	}

	logger.Info(ctx, "Processing messages", "count", len(messages))
	return p.ProcessMessages(ctx, messages), nil
}

// StartListening registers the processor with the source's listen
// mechanism. For a file-backed source this drains the buffer once and
// returns.
func (p *Processor) StartListening(ctx context.Context) error {
	if !p.source.IsConnected() {
		if err := p.source.Connect(); err != nil {
			return err
		}
	}

	return p.source.Listen(func(msg types.Message) {
		p.ProcessMessage(ctx, msg)
	})
}

package types

import (
	"strings"
	"time"
)

// ActionType is the kind of trading signal extracted from a message.
type ActionType string

const (
	ActionBuy     ActionType = "buy"
	ActionSell    ActionType = "sell"
	ActionHold    ActionType = "hold"
	ActionUnknown ActionType = "unknown"
)

// ParseActionType maps a free-form string to an ActionType. Anything
// outside the known set becomes ActionUnknown; it never fails.
func ParseActionType(s string) ActionType {
	switch ActionType(strings.ToLower(strings.TrimSpace(s))) {
	case ActionBuy:
		return ActionBuy
	case ActionSell:
		return ActionSell
	case ActionHold:
		return ActionHold
	default:
		return ActionUnknown
	}
}

// Message is one normalized chat message delivered by a source adapter.
// Immutable once created; persisted verbatim.
type Message struct {
	Sender   string `json:"sender"`
	SendTime string `json:"send_time"`
	Message  string `json:"message"`

	// OriginalMessage carries the pre-translation text when the export
	// was translated; Message is what extraction runs on.
	OriginalMessage string `json:"original_message,omitempty"`

	Channel   string `json:"channel,omitempty"`
	MessageID string `json:"message_id,omitempty"`
	Platform  string `json:"platform,omitempty"`
}

// sendTimeLayouts covers the timestamp formats seen in exported chat
// dumps, e.g. "10/5/2024 12:25 PM".
var sendTimeLayouts = []string{
	"1/2/2006 3:04 PM",
	"1/2/2006 3:04:05 PM",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
}

// ParseTime attempts to parse the free-form SendTime field. The second
// return value reports whether any known layout matched.
func (m Message) ParseTime() (time.Time, bool) {
	for _, layout := range sendTimeLayouts {
		if t, err := time.Parse(layout, m.SendTime); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// TradingAction is a candidate trading signal extracted from one message.
// Candidates are never mutated after creation; validation only decides
// keep or drop.
type TradingAction struct {
	ActionType ActionType `json:"action_type"`
	Symbol     string     `json:"symbol"`
	Price      *float64   `json:"price"`
	Quantity   *int       `json:"quantity"`
	Confidence float64    `json:"confidence"`

	// MessageID is the storage id of the originating message, assigned
	// at persistence time. Nil until (or unless) the link is made.
	MessageID *int64 `json:"message_id,omitempty"`

	RawMessage  string    `json:"raw_message,omitempty"`
	ExtractedAt time.Time `json:"extracted_at"`

	// ActionSignalTime is when the underlying message was sent, as
	// reported by the source. Distinct from ExtractedAt.
	ActionSignalTime string `json:"action_signal_time,omitempty"`
}

// IsValid reports whether the candidate carries the minimum required
// fields: a known action kind, a symbol, and confidence within [0,1].
func (a TradingAction) IsValid() bool {
	return a.ActionType != ActionUnknown &&
		a.Symbol != "" &&
		a.Confidence >= 0.0 && a.Confidence <= 1.0
}

// IsExecutable reports whether the candidate is an actionable BUY or
// SELL meeting the given confidence threshold.
func (a TradingAction) IsExecutable(minConfidence float64) bool {
	return a.IsValid() &&
		a.Confidence >= minConfidence &&
		(a.ActionType == ActionBuy || a.ActionType == ActionSell)
}

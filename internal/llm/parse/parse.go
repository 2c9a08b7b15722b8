// Package parse holds the prompt contract and the defensive response
// parsing shared by every LLM provider client. Providers differ only in
// transport; they all hand raw response text to Actions.
package parse

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"signal-extractor/internal/logger"
	"signal-extractor/internal/types"
)

// SystemPrompt is the system-role instruction sent to providers that
// support one.
const SystemPrompt = "You are a trading action extraction system. Return only valid JSON."

// Prompt builds the extraction instruction embedding the message text.
func Prompt(messageText string) string {
	return fmt.Sprintf(`You are a trading action extraction system. Extract all trading actions (buy/sell) from the following message.

Message:
%s

Return a JSON array of trading actions. Each action should have:
- action_type: "buy" or "sell" or "hold" or "unknown"
- symbol: Stock symbol (e.g., "AAPL", "TSLA", "QQQ")
- price: Price per share (float, optional)
- quantity: Number of shares (integer, optional)
- confidence: Confidence score 0.0-1.0

If no trading action is found, return an empty array [].

Examples:
- "Buy 100 shares of AAPL at $150" -> {"action_type": "buy", "symbol": "AAPL", "price": 150.0, "quantity": 100, "confidence": 0.95}
- "sell qqq 492 from 483" -> {"action_type": "sell", "symbol": "QQQ", "price": 492.0, "quantity": null, "confidence": 0.9}
- "I'm thinking about buying TSLA" -> {"action_type": "unknown", "symbol": "TSLA", "price": null, "quantity": null, "confidence": 0.3}

Return ONLY valid JSON, no other text.`, messageText)
}

// Actions parses raw model output into candidate trading actions.
// It tolerates markdown fences, an object wrapped in an "actions" key, a
// bare single-action object, or a plain array; any other shape yields
// zero candidates. Malformed elements are logged and skipped, never
// propagated. Only candidates passing IsValid are returned.
func Actions(ctx context.Context, raw, messageText string) []types.TradingAction {
	t := strings.TrimSpace(raw)

	// Strip a markdown code fence if present.
	if strings.HasPrefix(t, "```") {
		lines := strings.Split(t, "\n")
		if len(lines) > 2 {
			t = strings.Join(lines[1:len(lines)-1], "\n")
		}
	}

	var data any
	if err := json.Unmarshal([]byte(t), &data); err != nil {
		logger.Warn(ctx, "Failed to parse model response as JSON",
			"error", err, "response_prefix", truncate(t, 200))
		return nil
	}

	var items []any
	switch v := data.(type) {
	case map[string]any:
		if wrapped, ok := v["actions"]; ok {
			items, _ = wrapped.([]any)
		} else if _, hasType := v["action_type"]; hasType {
			items = []any{v}
		} else if _, hasSymbol := v["symbol"]; hasSymbol {
			items = []any{v}
		}
	case []any:
		items = v
	}

	now := time.Now()
	actions := make([]types.TradingAction, 0, len(items))
	for _, item := range items {
		fields, ok := item.(map[string]any)
		if !ok {
			continue
		}

		action, err := convertAction(fields, messageText, now)
		if err != nil {
			logger.Warn(ctx, "Skipping malformed action element", "error", err)
			continue
		}
		if action.Symbol == "" {
			// No symbol after normalization, silently skip.
			continue
		}
		if action.IsValid() {
			actions = append(actions, action)
		}
	}
	return actions
}

// convertAction maps one response element to a candidate. An unknown or
// missing action_type degrades to unknown rather than failing; only an
// uncoercible confidence makes the element an error.
func convertAction(fields map[string]any, messageText string, extractedAt time.Time) (types.TradingAction, error) {
	actionType := types.ActionUnknown
	if s, ok := fields["action_type"].(string); ok {
		actionType = types.ParseActionType(s)
	}

	symbol := ""
	if s, ok := fields["symbol"].(string); ok {
		symbol = strings.ToUpper(strings.TrimSpace(s))
	}

	confidence := 0.5
	if v, present := fields["confidence"]; present && v != nil {
		c, err := toFloat(v)
		if err != nil {
			return types.TradingAction{}, fmt.Errorf("confidence: %w", err)
		}
		confidence = c
	}

	action := types.TradingAction{
		ActionType:  actionType,
		Symbol:      symbol,
		Confidence:  confidence,
		RawMessage:  messageText,
		ExtractedAt: extractedAt,
	}

	if v, present := fields["price"]; present && v != nil {
		if p, err := toFloat(v); err == nil {
			action.Price = &p
		}
	}
	if v, present := fields["quantity"]; present && v != nil {
		if q, err := toFloat(v); err == nil {
			n := int(q)
			action.Quantity = &n
		}
	}

	return action, nil
}

func toFloat(v any) (float64, error) {
	switch n := v.(type) {
	case float64:
		return n, nil
	case json.Number:
		return n.Float64()
	case string:
		return strconv.ParseFloat(strings.TrimSpace(n), 64)
	default:
		return 0, fmt.Errorf("not a number: %v (%T)", v, v)
	}
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}

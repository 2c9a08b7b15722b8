package parse

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"signal-extractor/internal/types"
)

func TestActionsFencedArray(t *testing.T) {
	raw := "```json\n[{\"action_type\":\"sell\",\"symbol\":\"qqq\",\"price\":492.0,\"quantity\":null,\"confidence\":0.9}]\n```"

	actions := Actions(context.Background(), raw, "sell qqq 492 from 483")
	require.Len(t, actions, 1)

	a := actions[0]
	assert.Equal(t, types.ActionSell, a.ActionType)
	assert.Equal(t, "QQQ", a.Symbol)
	require.NotNil(t, a.Price)
	assert.Equal(t, 492.0, *a.Price)
	assert.Nil(t, a.Quantity)
	assert.Equal(t, 0.9, a.Confidence)
	assert.Equal(t, "sell qqq 492 from 483", a.RawMessage)
	assert.False(t, a.ExtractedAt.IsZero())
}

func TestActionsEmptyArray(t *testing.T) {
	actions := Actions(context.Background(), "[]", "nothing here")
	assert.Empty(t, actions)
}

func TestActionsNotJSON(t *testing.T) {
	assert.NotPanics(t, func() {
		actions := Actions(context.Background(), "not json at all", "msg")
		assert.Empty(t, actions)
	})
}

func TestActionsWrappedObject(t *testing.T) {
	raw := `{"actions":[{"action_type":"buy","symbol":"AAPL","price":150,"quantity":100,"confidence":0.95}]}`

	actions := Actions(context.Background(), raw, "Buy 100 shares of AAPL at $150")
	require.Len(t, actions, 1)
	assert.Equal(t, types.ActionBuy, actions[0].ActionType)
	assert.Equal(t, "AAPL", actions[0].Symbol)
	require.NotNil(t, actions[0].Quantity)
	assert.Equal(t, 100, *actions[0].Quantity)
}

func TestActionsSingleObject(t *testing.T) {
	raw := `{"action_type":"buy","symbol":"tsla","confidence":0.8}`

	actions := Actions(context.Background(), raw, "buying TSLA")
	require.Len(t, actions, 1)
	assert.Equal(t, "TSLA", actions[0].Symbol)
}

func TestActionsSingleObjectSymbolOnly(t *testing.T) {
	// An object without action_type but with a symbol still looks like
	// one action; the unknown kind then fails IsValid and is dropped.
	raw := `{"symbol":"TSLA"}`

	actions := Actions(context.Background(), raw, "msg")
	assert.Empty(t, actions)
}

func TestActionsUnexpectedShape(t *testing.T) {
	actions := Actions(context.Background(), `"just a string"`, "msg")
	assert.Empty(t, actions)

	actions = Actions(context.Background(), `42`, "msg")
	assert.Empty(t, actions)

	actions = Actions(context.Background(), `{"foo":"bar"}`, "msg")
	assert.Empty(t, actions)
}

func TestActionsUnknownTypeDropped(t *testing.T) {
	raw := `[{"action_type":"yolo","symbol":"AAPL","confidence":0.9}]`

	actions := Actions(context.Background(), raw, "msg")
	assert.Empty(t, actions, "unknown action kind fails validity and is dropped")
}

func TestActionsMissingSymbolSkipped(t *testing.T) {
	raw := `[
		{"action_type":"buy","symbol":"","confidence":0.9},
		{"action_type":"sell","symbol":"  ","confidence":0.9},
		{"action_type":"buy","symbol":"MSFT","confidence":0.9}
	]`

	actions := Actions(context.Background(), raw, "msg")
	require.Len(t, actions, 1)
	assert.Equal(t, "MSFT", actions[0].Symbol)
}

func TestActionsConfidenceDefault(t *testing.T) {
	raw := `[{"action_type":"buy","symbol":"AAPL"}]`

	actions := Actions(context.Background(), raw, "msg")
	require.Len(t, actions, 1)
	assert.Equal(t, 0.5, actions[0].Confidence)
}

func TestActionsConfidenceCoercion(t *testing.T) {
	// A numeric string coerces; an uncoercible value drops only that
	// element, not the rest of the batch.
	raw := `[
		{"action_type":"buy","symbol":"AAPL","confidence":"0.9"},
		{"action_type":"sell","symbol":"QQQ","confidence":"very high"},
		{"action_type":"sell","symbol":"SPY","confidence":0.8}
	]`

	actions := Actions(context.Background(), raw, "msg")
	require.Len(t, actions, 2)
	assert.Equal(t, "AAPL", actions[0].Symbol)
	assert.Equal(t, 0.9, actions[0].Confidence)
	assert.Equal(t, "SPY", actions[1].Symbol)
}

func TestPromptEmbedsMessage(t *testing.T) {
	p := Prompt("Buy 100 shares of AAPL at $150")
	assert.Contains(t, p, "Buy 100 shares of AAPL at $150")
	assert.Contains(t, p, "action_type")
	assert.Contains(t, p, "Return ONLY valid JSON")
}

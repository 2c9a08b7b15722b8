package db

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"signal-extractor/internal/types"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func floatPtr(v float64) *float64 { return &v }
func intPtr(v int) *int           { return &v }

func TestSaveMessageAndActionRoundTrip(t *testing.T) {
	s := openTestStore(t)

	msgID, err := s.SaveMessage(types.Message{
		Sender:   "test_user",
		SendTime: "10/5/2024 12:25 PM",
		Message:  "Buy 100 shares of AAPL at $150",
		Platform: "json",
	})
	require.NoError(t, err)
	assert.Positive(t, msgID)

	actionID, err := s.SaveTradingAction(types.TradingAction{
		ActionType: types.ActionBuy,
		Symbol:     "AAPL",
		Price:      floatPtr(150.0),
		Quantity:   intPtr(100),
		Confidence: 0.95,
		RawMessage: "Buy 100 shares of AAPL at $150",
	}, &msgID)
	require.NoError(t, err)
	assert.Positive(t, actionID)

	actions, err := s.RecentActions(10, 0.0)
	require.NoError(t, err)
	require.Len(t, actions, 1)

	got := actions[0]
	assert.Equal(t, "buy", got.ActionType)
	assert.Equal(t, "AAPL", got.Symbol)
	assert.Equal(t, "test_user", got.Sender)
	assert.Equal(t, "10/5/2024 12:25 PM", got.SendTime)
	assert.Equal(t, "Buy 100 shares of AAPL at $150", got.Message)
	require.NotNil(t, got.MessageID)
	assert.Equal(t, msgID, *got.MessageID)
	require.NotNil(t, got.Price)
	assert.Equal(t, 150.0, *got.Price)
}

func TestUnlinkedActionStillAppears(t *testing.T) {
	s := openTestStore(t)

	_, err := s.SaveTradingAction(types.TradingAction{
		ActionType: types.ActionSell,
		Symbol:     "QQQ",
		Confidence: 0.9,
	}, nil)
	require.NoError(t, err)

	actions, err := s.RecentActions(10, 0.0)
	require.NoError(t, err)
	require.Len(t, actions, 1)
	assert.Nil(t, actions[0].MessageID)
	assert.Empty(t, actions[0].Sender)
	assert.Empty(t, actions[0].SendTime)
}

func TestConfidenceSafetyNet(t *testing.T) {
	s := openTestStore(t)

	_, err := s.SaveTradingAction(types.TradingAction{
		ActionType: types.ActionBuy,
		Symbol:     "AAPL",
		Confidence: 1.5,
	}, nil)
	assert.Error(t, err)

	_, err = s.SaveTradingAction(types.TradingAction{
		ActionType: types.ActionBuy,
		Symbol:     "AAPL",
		Confidence: -0.2,
	}, nil)
	assert.Error(t, err)
}

func TestExtractedAtDefaultsToNow(t *testing.T) {
	s := openTestStore(t)

	before := time.Now().Add(-time.Second)
	_, err := s.SaveTradingAction(types.TradingAction{
		ActionType: types.ActionBuy,
		Symbol:     "AAPL",
		Confidence: 0.9,
	}, nil)
	require.NoError(t, err)

	actions, err := s.RecentActions(1, 0.0)
	require.NoError(t, err)
	require.Len(t, actions, 1)
	assert.True(t, actions[0].ExtractedAt.After(before))
}

func TestDuplicateMessageIgnoredWhenKeyed(t *testing.T) {
	s := openTestStore(t)

	msg := types.Message{
		Sender:    "alice",
		SendTime:  "10/5/2024 12:25 PM",
		Message:   "sell qqq 492",
		Platform:  "discord",
		MessageID: "m-123",
	}

	first, err := s.SaveMessage(msg)
	require.NoError(t, err)
	second, err := s.SaveMessage(msg)
	require.NoError(t, err)
	assert.Equal(t, first, second, "duplicate keyed insert returns the original id")

	messages, err := s.RecentMessages(10)
	require.NoError(t, err)
	assert.Len(t, messages, 1)
}

func TestDuplicatesAcceptedWithoutKey(t *testing.T) {
	s := openTestStore(t)

	// The JSON source populates neither platform id nor message id key
	// fields fully, so identical inserts are accepted.
	msg := types.Message{Sender: "bob", SendTime: "1/1/2025 9:00 AM", Message: "buy spy", Platform: "json"}

	id1, err := s.SaveMessage(msg)
	require.NoError(t, err)
	id2, err := s.SaveMessage(msg)
	require.NoError(t, err)
	assert.NotEqual(t, id1, id2)

	messages, err := s.RecentMessages(10)
	require.NoError(t, err)
	assert.Len(t, messages, 2)
}

func TestActionStatistics(t *testing.T) {
	s := openTestStore(t)

	_, err := s.SaveTradingAction(types.TradingAction{
		ActionType: types.ActionBuy, Symbol: "AAPL", Confidence: 0.9,
	}, nil)
	require.NoError(t, err)
	_, err = s.SaveTradingAction(types.TradingAction{
		ActionType: types.ActionSell, Symbol: "QQQ", Confidence: 0.5,
	}, nil)
	require.NoError(t, err)

	stats, err := s.ActionStatistics()
	require.NoError(t, err)

	assert.Equal(t, int64(2), stats.TotalActions)
	assert.Equal(t, map[string]int64{"buy": 1, "sell": 1}, stats.ByType)
	assert.Equal(t, 0.7, stats.AverageConfidence)
	assert.Equal(t, int64(1), stats.TopSymbols["AAPL"])
	assert.Equal(t, int64(1), stats.TopSymbols["QQQ"])
}

func TestActionStatisticsEmpty(t *testing.T) {
	s := openTestStore(t)

	stats, err := s.ActionStatistics()
	require.NoError(t, err)
	assert.Equal(t, int64(0), stats.TotalActions)
	assert.Equal(t, 0.0, stats.AverageConfidence)
	assert.Empty(t, stats.ByType)
	assert.Empty(t, stats.TopSymbols)
}

func TestRecentActionsMinConfidence(t *testing.T) {
	s := openTestStore(t)

	for _, c := range []float64{0.3, 0.6, 0.9} {
		_, err := s.SaveTradingAction(types.TradingAction{
			ActionType: types.ActionBuy, Symbol: "AAPL", Confidence: c,
		}, nil)
		require.NoError(t, err)
	}

	actions, err := s.RecentActions(10, 0.5)
	require.NoError(t, err)
	assert.Len(t, actions, 2)
}

func TestMigrateIsIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "reopen.db")

	s1, err := Open(path)
	require.NoError(t, err)
	_, err = s1.SaveMessage(types.Message{Sender: "a", SendTime: "t", Message: "m"})
	require.NoError(t, err)
	require.NoError(t, s1.Close())

	// Reopening runs migration again over the existing schema.
	s2, err := Open(path)
	require.NoError(t, err)
	defer s2.Close()

	messages, err := s2.RecentMessages(10)
	require.NoError(t, err)
	assert.Len(t, messages, 1)
}

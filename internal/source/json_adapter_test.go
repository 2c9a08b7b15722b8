package source

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"signal-extractor/internal/types"
)

func writeMessagesFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "messages.json")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

const sampleMessages = `[
	{"sender": "alice", "send_time": "10/5/2024 12:25 PM", "message": "Buy 100 shares of AAPL at $150"},
	{"sender": "bob", "send_time": "10/5/2024 12:30 PM", "message": "sell qqq 492 from 483"},
	{"sender": "carol", "send_time": "10/5/2024 12:35 PM", "message": "good morning"}
]`

func TestConnectAndGetMessages(t *testing.T) {
	a := NewJSONAdapter(writeMessagesFile(t, sampleMessages))

	require.NoError(t, a.Connect())
	assert.True(t, a.IsConnected())

	messages, err := a.GetMessages(0)
	require.NoError(t, err)
	require.Len(t, messages, 3)
	assert.Equal(t, "alice", messages[0].Sender)
	assert.Equal(t, "json", messages[0].Platform)
	assert.Equal(t, "10/5/2024 12:25 PM", messages[0].SendTime)
}

func TestTranslatedMessageKeepsOriginal(t *testing.T) {
	a := NewJSONAdapter(writeMessagesFile(t, `[
		{"sender": "dan", "send_time": "10/5/2024 1:00 PM",
		 "message": "Buy 10 shares of TSLA", "original_message": "compra 10 acciones de TSLA"}
	]`))

	messages, err := a.GetMessages(0)
	require.NoError(t, err)
	require.Len(t, messages, 1)
	assert.Equal(t, "Buy 10 shares of TSLA", messages[0].Message)
	assert.Equal(t, "compra 10 acciones de TSLA", messages[0].OriginalMessage)
}

func TestConnectIsIdempotent(t *testing.T) {
	a := NewJSONAdapter(writeMessagesFile(t, sampleMessages))
	require.NoError(t, a.Connect())
	require.NoError(t, a.Connect())

	messages, err := a.GetMessages(0)
	require.NoError(t, err)
	assert.Len(t, messages, 3)
}

func TestGetMessagesAutoConnects(t *testing.T) {
	a := NewJSONAdapter(writeMessagesFile(t, sampleMessages))
	assert.False(t, a.IsConnected())

	messages, err := a.GetMessages(2)
	require.NoError(t, err)
	assert.Len(t, messages, 2)
	assert.True(t, a.IsConnected())
}

func TestConnectMissingFile(t *testing.T) {
	a := NewJSONAdapter(filepath.Join(t.TempDir(), "nope.json"))
	assert.Error(t, a.Connect())
	assert.False(t, a.IsConnected())
}

func TestConnectMalformedJSON(t *testing.T) {
	a := NewJSONAdapter(writeMessagesFile(t, "{not json"))
	assert.Error(t, a.Connect())
	assert.False(t, a.IsConnected())
}

func TestListenDeliversOnceInOrder(t *testing.T) {
	a := NewJSONAdapter(writeMessagesFile(t, sampleMessages))

	var seen []string
	require.NoError(t, a.Listen(func(m types.Message) {
		seen = append(seen, m.Sender)
	}))
	assert.Equal(t, []string{"alice", "bob", "carol"}, seen)

	// A second listen finds the buffer exhausted.
	require.NoError(t, a.Listen(func(m types.Message) {
		seen = append(seen, m.Sender)
	}))
	assert.Len(t, seen, 3)

	// Reset rewinds the cursor.
	a.Reset()
	require.NoError(t, a.Listen(func(m types.Message) {
		seen = append(seen, m.Sender)
	}))
	assert.Len(t, seen, 6)
}

func TestDisconnect(t *testing.T) {
	a := NewJSONAdapter(writeMessagesFile(t, sampleMessages))
	require.NoError(t, a.Connect())

	a.Disconnect()
	assert.False(t, a.IsConnected())
}

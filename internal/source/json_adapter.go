// Package source provides message source adapters. The JSON file
// adapter reads an exported chat dump; live platforms would implement
// the same interface.
package source

import (
	"encoding/json"
	"fmt"
	"os"

	"signal-extractor/internal/interfaces"
	"signal-extractor/internal/types"
)

// rawMessage is one entry of the exported JSON file:
//
//	[{"sender": "...", "send_time": "10/5/2024 12:25 PM", "message": "..."}, ...]
//
// original_message is present when a translation step has run.
type rawMessage struct {
	Sender          string `json:"sender"`
	SendTime        string `json:"send_time"`
	Message         string `json:"message"`
	OriginalMessage string `json:"original_message,omitempty"`
}

// JSONAdapter reads messages from a JSON file export.
type JSONAdapter struct {
	path      string
	connected bool
	messages  []types.Message
	cursor    int
}

var _ interfaces.SourceAdapter = (*JSONAdapter)(nil)

// NewJSONAdapter creates an adapter for the given file path. The file is
// not read until Connect.
func NewJSONAdapter(path string) *JSONAdapter {
	return &JSONAdapter{path: path}
}

// Connect loads the file into memory. It is idempotent and fails when
// the file is missing or not valid JSON.
func (a *JSONAdapter) Connect() error {
	if a.connected {
		return nil
	}

	data, err := os.ReadFile(a.path)
	if err != nil {
		return fmt.Errorf("messages file not readable: %w", err)
	}

	var raw []rawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("invalid messages file %s: %w", a.path, err)
	}

	a.messages = make([]types.Message, 0, len(raw))
	for _, item := range raw {
		a.messages = append(a.messages, types.Message{
			Sender:          item.Sender,
			SendTime:        item.SendTime,
			Message:         item.Message,
			OriginalMessage: item.OriginalMessage,
			Platform:        "json",
		})
	}

	a.connected = true
	a.cursor = 0
	return nil
}

// Disconnect drops the buffered messages.
func (a *JSONAdapter) Disconnect() {
	a.connected = false
	a.messages = nil
	a.cursor = 0
}

// GetMessages returns up to limit messages in file order,
// auto-connecting first if needed. limit <= 0 returns all.
func (a *JSONAdapter) GetMessages(limit int) ([]types.Message, error) {
	if !a.connected {
		if err := a.Connect(); err != nil {
			return nil, err
		}
	}

	n := len(a.messages)
	if limit > 0 && limit < n {
		n = limit
	}
	out := make([]types.Message, n)
	copy(out, a.messages[:n])
	return out, nil
}

// Listen delivers each buffered message once, in order, starting from
// the current cursor. A file source does not block past exhaustion.
func (a *JSONAdapter) Listen(callback func(types.Message)) error {
	if !a.connected {
		if err := a.Connect(); err != nil {
			return err
		}
	}

	for a.cursor < len(a.messages) {
		callback(a.messages[a.cursor])
		a.cursor++
	}
	return nil
}

// IsConnected reports whether the adapter has loaded its file.
func (a *JSONAdapter) IsConnected() bool {
	return a.connected
}

// Reset rewinds the listen cursor to the first message.
func (a *JSONAdapter) Reset() {
	a.cursor = 0
}

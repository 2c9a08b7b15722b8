package interfaces

import (
	"signal-extractor/internal/types"
)

// SourceAdapter supplies normalized messages from one backing platform
// (JSON file export today; live chat platforms implement the same
// capability set without changing the pipeline).
type SourceAdapter interface {
	// Connect is idempotent; it fails if the backing data is
	// unreachable or malformed.
	Connect() error
	Disconnect()

	// GetMessages returns up to limit messages in source order,
	// auto-connecting if needed. limit <= 0 means all.
	GetMessages(limit int) ([]types.Message, error)

	// Listen delivers each buffered message once, in source order, and
	// returns when the buffer is exhausted.
	Listen(callback func(types.Message)) error

	IsConnected() bool
}

// Package db is the durable record of ingested messages and accepted
// trading actions, backed by sqlite through gorm.
package db

import (
	"database/sql"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"signal-extractor/internal/types"
)

// Store is a handle to the sqlite database. Construct one per process
// and pass it by reference into read paths; there is no ambient global
// instance.
type Store struct {
	db *gorm.DB
}

type messageRow struct {
	ID              int64 `gorm:"primaryKey"`
	Sender          string
	SendTime        string
	Message         string
	OriginalMessage *string
	Channel         *string
	MessageID       *string `gorm:"uniqueIndex:idx_messages_platform_message"`
	Platform        *string `gorm:"uniqueIndex:idx_messages_platform_message"`
	CreatedAt       time.Time
}

func (messageRow) TableName() string { return "messages" }

type tradingActionRow struct {
	ID               int64 `gorm:"primaryKey"`
	MessageID        *int64
	ActionType       string `gorm:"not null;index"`
	Symbol           string `gorm:"not null;index"`
	Price            *float64
	Quantity         *int
	Confidence       float64 `gorm:"not null;index;check:confidence >= 0.0 AND confidence <= 1.0"`
	RawMessage       string
	ExtractedAt      time.Time `gorm:"index"`
	ActionSignalTime string
}

func (tradingActionRow) TableName() string { return "trading_actions" }

// StoredMessage is a persisted message as returned by read paths.
type StoredMessage struct {
	ID              int64     `json:"id"`
	Sender          string    `json:"sender"`
	SendTime        string    `json:"send_time"`
	Message         string    `json:"message"`
	OriginalMessage string    `json:"original_message,omitempty"`
	Channel         string    `json:"channel,omitempty"`
	MessageID       string    `json:"message_id,omitempty"`
	Platform        string    `json:"platform,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
}

// ActionRecord is a persisted action enriched with its joined message
// fields. Actions without a resolvable message appear with empty joined
// fields.
type ActionRecord struct {
	ID               int64     `json:"id"`
	MessageID        *int64    `json:"message_id"`
	ActionType       string    `json:"action_type"`
	Symbol           string    `json:"symbol"`
	Price            *float64  `json:"price"`
	Quantity         *int      `json:"quantity"`
	Confidence       float64   `json:"confidence"`
	RawMessage       string    `json:"raw_message"`
	ExtractedAt      time.Time `json:"extracted_at"`
	ActionSignalTime string    `json:"action_signal_time"`
	Sender           string    `json:"sender"`
	SendTime         string    `json:"send_time"`
	Message          string    `json:"message"`
}

// Statistics is the derived aggregate view over all stored actions.
type Statistics struct {
	TotalActions      int64            `json:"total_actions"`
	ByType            map[string]int64 `json:"by_type"`
	AverageConfidence float64          `json:"average_confidence"`
	TopSymbols        map[string]int64 `json:"top_symbols"`
}

// Open opens (creating if needed) the sqlite database at path and
// migrates the schema. Migration is idempotent; re-running against an
// existing database is a no-op.
func Open(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create data dir: %w", err)
		}
	}

	gdb, err := gorm.Open(sqlite.Open(path), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	s := &Store{db: gdb}
	if err := s.migrate(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Store) migrate() error {
	if err := s.db.AutoMigrate(&messageRow{}, &tradingActionRow{}); err != nil {
		return fmt.Errorf("migrate schema: %w", err)
	}
	// Databases created before the signal-time column existed get it
	// added here; adding an already present column is a no-op.
	m := s.db.Migrator()
	if !m.HasColumn(&tradingActionRow{}, "action_signal_time") {
		if err := m.AddColumn(&tradingActionRow{}, "action_signal_time"); err != nil {
			return fmt.Errorf("add action_signal_time column: %w", err)
		}
	}
	return nil
}

// Close releases the underlying connection pool.
func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// SaveMessage inserts a message row and returns its id. When both
// platform and message_id are present, a conflicting insert is silently
// ignored and the existing row's id is returned; rows missing either
// field never conflict.
func (s *Store) SaveMessage(msg types.Message) (int64, error) {
	row := messageRow{
		Sender:          msg.Sender,
		SendTime:        msg.SendTime,
		Message:         msg.Message,
		OriginalMessage: nullable(msg.OriginalMessage),
		Channel:         nullable(msg.Channel),
		MessageID:       nullable(msg.MessageID),
		Platform:        nullable(msg.Platform),
	}

	res := s.db.Clauses(clause.OnConflict{DoNothing: true}).Create(&row)
	if res.Error != nil {
		return 0, fmt.Errorf("save message: %w", res.Error)
	}
	if res.RowsAffected == 0 && msg.Platform != "" && msg.MessageID != "" {
		// Duplicate of an earlier ingest, hand back the original id.
		var existing messageRow
		err := s.db.Where("platform = ? AND message_id = ?", msg.Platform, msg.MessageID).
			First(&existing).Error
		if err != nil {
			return 0, fmt.Errorf("lookup duplicate message: %w", err)
		}
		return existing.ID, nil
	}
	return row.ID, nil
}

// SaveTradingAction inserts an action row referencing messageID (nil is
// allowed) and returns its id. Confidence outside [0,1] is rejected as
// a storage-layer safety net, the validator is the primary gate.
func (s *Store) SaveTradingAction(action types.TradingAction, messageID *int64) (int64, error) {
	if action.Confidence < 0 || action.Confidence > 1 {
		return 0, fmt.Errorf("save trading action: confidence %.3f outside [0,1]", action.Confidence)
	}

	extractedAt := action.ExtractedAt
	if extractedAt.IsZero() {
		extractedAt = time.Now()
	}

	row := tradingActionRow{
		MessageID:        messageID,
		ActionType:       string(action.ActionType),
		Symbol:           action.Symbol,
		Price:            action.Price,
		Quantity:         action.Quantity,
		Confidence:       action.Confidence,
		RawMessage:       action.RawMessage,
		ExtractedAt:      extractedAt,
		ActionSignalTime: action.ActionSignalTime,
	}
	if err := s.db.Create(&row).Error; err != nil {
		return 0, fmt.Errorf("save trading action: %w", err)
	}
	return row.ID, nil
}

// RecentMessages returns up to limit messages, newest-first.
func (s *Store) RecentMessages(limit int) ([]StoredMessage, error) {
	if limit <= 0 {
		limit = 100
	}
	var messages []StoredMessage
	err := s.db.Model(&messageRow{}).
		Order("created_at DESC").
		Limit(limit).
		Scan(&messages).Error
	if err != nil {
		return nil, fmt.Errorf("recent messages: %w", err)
	}
	return messages, nil
}

// RecentActions returns up to limit actions at or above minConfidence,
// newest-first by extraction time, each enriched with its joined
// message fields when the link resolves.
func (s *Store) RecentActions(limit int, minConfidence float64) ([]ActionRecord, error) {
	if limit <= 0 {
		limit = 100
	}
	var records []ActionRecord
	err := s.db.Table("trading_actions AS ta").
		Select("ta.*, m.sender, m.send_time, m.message").
		Joins("LEFT JOIN messages m ON ta.message_id = m.id").
		Where("ta.confidence >= ?", minConfidence).
		Order("ta.extracted_at DESC").
		Limit(limit).
		Scan(&records).Error
	if err != nil {
		return nil, fmt.Errorf("recent actions: %w", err)
	}
	return records, nil
}

// ActionStatistics recomputes the aggregate view on every call.
func (s *Store) ActionStatistics() (Statistics, error) {
	stats := Statistics{
		ByType:     map[string]int64{},
		TopSymbols: map[string]int64{},
	}

	if err := s.db.Model(&tradingActionRow{}).Count(&stats.TotalActions).Error; err != nil {
		return Statistics{}, fmt.Errorf("count actions: %w", err)
	}

	type bucket struct {
		Key   string
		Count int64
	}

	var byType []bucket
	err := s.db.Model(&tradingActionRow{}).
		Select("action_type AS key, COUNT(*) AS count").
		Group("action_type").
		Scan(&byType).Error
	if err != nil {
		return Statistics{}, fmt.Errorf("actions by type: %w", err)
	}
	for _, b := range byType {
		stats.ByType[b.Key] = b.Count
	}

	var avg sql.NullFloat64
	err = s.db.Model(&tradingActionRow{}).
		Select("AVG(confidence)").
		Scan(&avg).Error
	if err != nil {
		return Statistics{}, fmt.Errorf("average confidence: %w", err)
	}
	if avg.Valid {
		stats.AverageConfidence = math.Round(avg.Float64*1000) / 1000
	}

	var topSymbols []bucket
	err = s.db.Model(&tradingActionRow{}).
		Select("symbol AS key, COUNT(*) AS count").
		Group("symbol").
		Order("count DESC").
		Limit(10).
		Scan(&topSymbols).Error
	if err != nil {
		return Statistics{}, fmt.Errorf("top symbols: %w", err)
	}
	for _, b := range topSymbols {
		stats.TopSymbols[b.Key] = b.Count
	}

	return stats, nil
}

func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

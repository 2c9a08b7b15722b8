// Package export turns the store's contents into files for offline
// review: an Excel workbook of all actions and a CSV of messages for
// manual labeling.
package export

import (
	"encoding/csv"
	"os"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"signal-extractor/internal/db"
)

// readLimit bounds how many rows an export pulls from the store.
const readLimit = 10000

// Workbook writes every stored action to an .xlsx workbook with an
// "All Actions" sheet and a "Summary" statistics sheet.
func Workbook(store *db.Store, path string) error {
	actions, err := store.RecentActions(readLimit, 0.0)
	if err != nil {
		return err
	}
	stats, err := store.ActionStatistics()
	if err != nil {
		return err
	}

	f := excelize.NewFile()
	defer f.Close()

	const actionsSheet = "All Actions"
	f.SetSheetName("Sheet1", actionsSheet)

	header := []any{
		"Action Type", "Symbol", "Price", "Quantity", "Confidence",
		"Signal Time", "Extracted At", "Sender", "Message Send Time",
		"Original Message", "Raw Message", "Message ID", "Action ID",
	}
	if err := f.SetSheetRow(actionsSheet, "A1", &header); err != nil {
		return err
	}

	for i, a := range actions {
		row := []any{
			strings.ToUpper(a.ActionType),
			a.Symbol,
			floatCell(a.Price),
			intCell(a.Quantity),
			round3(a.Confidence),
			a.ActionSignalTime,
			a.ExtractedAt.Format("2006-01-02 15:04:05"),
			a.Sender,
			a.SendTime,
			a.Message,
			a.RawMessage,
			int64Cell(a.MessageID),
			a.ID,
		}
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		if err := f.SetSheetRow(actionsSheet, cell, &row); err != nil {
			return err
		}
	}

	if err := writeSummarySheet(f, stats); err != nil {
		return err
	}

	return f.SaveAs(path)
}

func writeSummarySheet(f *excelize.File, stats db.Statistics) error {
	const sheet = "Summary"
	if _, err := f.NewSheet(sheet); err != nil {
		return err
	}

	rows := [][]any{
		{"Metric", "Value"},
		{"Total Actions", stats.TotalActions},
		{"Average Confidence", stats.AverageConfidence},
		{"Buy Actions", stats.ByType["buy"]},
		{"Sell Actions", stats.ByType["sell"]},
		{"Hold Actions", stats.ByType["hold"]},
		{"Unknown Actions", stats.ByType["unknown"]},
	}
	for symbol, count := range stats.TopSymbols {
		rows = append(rows, []any{"Symbol " + symbol, count})
	}

	for i := range rows {
		cell, _ := excelize.CoordinatesToCellName(1, i+1)
		if err := f.SetSheetRow(sheet, cell, &rows[i]); err != nil {
			return err
		}
	}
	return nil
}

// LabelingCSV writes every stored message with its extracted actions
// and empty label columns, for manual annotation of extraction quality.
func LabelingCSV(store *db.Store, path string) error {
	messages, err := store.RecentMessages(readLimit)
	if err != nil {
		return err
	}
	actions, err := store.RecentActions(readLimit, 0.0)
	if err != nil {
		return err
	}

	// Group actions by their originating message.
	byMessage := make(map[int64][]db.ActionRecord)
	for _, a := range actions {
		if a.MessageID != nil {
			byMessage[*a.MessageID] = append(byMessage[*a.MessageID], a)
		}
	}

	out, err := os.Create(path)
	if err != nil {
		return err
	}
	defer out.Close()

	w := csv.NewWriter(out)
	defer w.Flush()

	header := []string{
		"message_id", "sender", "send_time", "message",
		"extracted_action", "extracted_symbol", "extracted_price",
		"extracted_quantity", "extracted_confidence",
		"label_correct", "label_notes",
	}
	if err := w.Write(header); err != nil {
		return err
	}

	for _, msg := range messages {
		extracted := byMessage[msg.ID]
		if len(extracted) == 0 {
			record := []string{
				strconv.FormatInt(msg.ID, 10), msg.Sender, msg.SendTime, msg.Message,
				"", "", "", "", "", "", "",
			}
			if err := w.Write(record); err != nil {
				return err
			}
			continue
		}
		// One row per extracted action so each can be labeled.
		for _, a := range extracted {
			record := []string{
				strconv.FormatInt(msg.ID, 10), msg.Sender, msg.SendTime, msg.Message,
				a.ActionType, a.Symbol,
				floatString(a.Price), intString(a.Quantity),
				strconv.FormatFloat(a.Confidence, 'f', 3, 64),
				"", "",
			}
			if err := w.Write(record); err != nil {
				return err
			}
		}
	}

	return w.Error()
}

func round3(v float64) float64 {
	return float64(int(v*1000+0.5)) / 1000
}

func floatCell(v *float64) any {
	if v == nil {
		return ""
	}
	return *v
}

func intCell(v *int) any {
	if v == nil {
		return ""
	}
	return *v
}

func int64Cell(v *int64) any {
	if v == nil {
		return ""
	}
	return *v
}

func floatString(v *float64) string {
	if v == nil {
		return ""
	}
	return strconv.FormatFloat(*v, 'f', -1, 64)
}

func intString(v *int) string {
	if v == nil {
		return ""
	}
	return strconv.Itoa(*v)
}

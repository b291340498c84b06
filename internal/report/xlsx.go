package report

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"voice-memo-go/internal/intent"
	"voice-memo-go/internal/logger"
	"voice-memo-go/internal/queue"
	"voice-memo-go/internal/types"
)

const (
	EntriesSheet = "Entries"
	SummarySheet = "Summary"
)

var entryHeader = []interface{}{"Name", "Intent", "Audio Bytes", "Audio Size", "Modified", "Transcript", "Path"}

// ExportXLSX writes the queue inventory to path: one row per memo on the
// Entries sheet and per-intent counts on the Summary sheet.
func ExportXLSX(path string, entries []types.QueueEntry, log *logger.Logger) error {
	if log == nil {
		log = logger.Discard()
	}
	l := log.WithComponent("report").WithField("path", path)

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", EntriesSheet); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}
	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("style: %w", err)
	}

	if err := writeRow(f, EntriesSheet, 1, entryHeader); err != nil {
		return err
	}
	for i, e := range entries {
		row := []interface{}{
			e.Name,
			string(e.Intent),
			e.AudioBytes,
			queue.FormatSize(e.AudioBytes),
			e.ModTime.Format("2006-01-02 15:04:05"),
			e.Transcript,
			e.Path,
		}
		if err := writeRow(f, EntriesSheet, i+2, row); err != nil {
			return err
		}
	}
	_ = f.SetCellStyle(EntriesSheet, "A1", "G1", bold)
	_ = f.SetColWidth(EntriesSheet, "A", "A", 36)
	_ = f.SetColWidth(EntriesSheet, "F", "F", 80)

	if _, err := f.NewSheet(SummarySheet); err != nil {
		return fmt.Errorf("new sheet: %w", err)
	}
	sum := Summarize(entries)
	if err := writeRow(f, SummarySheet, 1, []interface{}{"Intent", "Count"}); err != nil {
		return err
	}
	row := 2
	for _, label := range intent.Labels() {
		if err := writeRow(f, SummarySheet, row, []interface{}{string(label), sum.ByIntent[label]}); err != nil {
			return err
		}
		row++
	}
	if err := writeRow(f, SummarySheet, row, []interface{}{"total", sum.Total}); err != nil {
		return err
	}
	if err := writeRow(f, SummarySheet, row+1, []interface{}{"untranscribed", sum.Untranscribed}); err != nil {
		return err
	}
	_ = f.SetCellStyle(SummarySheet, "A1", "B1", bold)

	if err := f.SaveAs(path); err != nil {
		l.WithField("error", err.Error()).Error("save workbook failed")
		return fmt.Errorf("save: %w", err)
	}
	l.WithField("entries", len(entries)).Info("queue report written")
	return nil
}

func writeRow(f *excelize.File, sheet string, row int, values []interface{}) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	if err := f.SetSheetRow(sheet, cell, &values); err != nil {
		return fmt.Errorf("write %s!%s: %w", sheet, cell, err)
	}
	return nil
}

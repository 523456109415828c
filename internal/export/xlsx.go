package export

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"unicode/utf8"

	"github.com/godilite/feedback-analyzer/internal/service"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
)

const (
	resultsSheet = "Resultados"
	summarySheet = "Resumo"
)

// XLSXExporter writes each run to a workbook. The file is written next to
// its destination and renamed into place, so readers see either the old
// workbook or the new one.
type XLSXExporter struct {
	path   string
	logger *zap.Logger
}

func NewXLSXExporter(path string, logger *zap.Logger) *XLSXExporter {
	if path == "" {
		panic("export path must not be empty")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &XLSXExporter{path: path, logger: logger.Named("xlsx-export")}
}

// Export implements service.Exporter.
func (e *XLSXExporter) Export(ctx context.Context, run service.RunReport, records []service.OutputRecord) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", resultsSheet); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}
	if err := writeRow(f, resultsSheet, 1, service.OutputColumns); err != nil {
		return err
	}
	for i, rec := range records {
		row := rec.Row(true)
		e.warnOversized(run.ID, rec.ID, row)
		if err := writeRow(f, resultsSheet, i+2, row); err != nil {
			return err
		}
	}

	if err := writeSummary(f, run); err != nil {
		return err
	}

	dir := filepath.Dir(e.path)
	tmp, err := os.CreateTemp(dir, ".export-*.xlsx")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := f.WriteTo(tmp); err != nil {
		tmp.Close()
		return fmt.Errorf("write workbook: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Rename(tmpName, e.path); err != nil {
		return fmt.Errorf("replace %s: %w", e.path, err)
	}

	e.logger.Info("results exported",
		zap.String("path", e.path),
		zap.String("run_id", run.ID),
		zap.Int("records", len(records)))
	return nil
}

// warnOversized logs cells the workbook format will cut to TotalCellChars.
// The database keeps the full text.
func (e *XLSXExporter) warnOversized(runID string, id int, row []string) {
	for col, v := range row {
		if n := utf8.RuneCountInString(v); n > excelize.TotalCellChars {
			e.logger.Warn("cell truncated in workbook",
				zap.String("run_id", runID),
				zap.Int("feedback_id", id),
				zap.String("column", service.OutputColumns[col]),
				zap.Int("chars", n),
				zap.Int("limit", excelize.TotalCellChars))
		}
	}
}

func writeSummary(f *excelize.File, run service.RunReport) error {
	if _, err := f.NewSheet(summarySheet); err != nil {
		return fmt.Errorf("create summary sheet: %w", err)
	}

	sum := run.Summary
	rows := [][]string{
		{"run_id", run.ID},
		{"total", fmt.Sprint(sum.Total)},
		{"excluded", fmt.Sprint(sum.Excluded)},
		{"skipped", fmt.Sprint(sum.Skipped)},
		{"average_rating", fmt.Sprintf("%.2f", sum.AverageRating)},
		{"suggestions", fmt.Sprint(sum.SuggestionCount)},
	}
	for _, share := range sum.Distribution() {
		rows = append(rows, []string{string(share.Verdict), fmt.Sprintf("%d (%.1f%%)", share.Count, share.Percent)})
	}
	for _, w := range sum.TopWords {
		rows = append(rows, []string{"word:" + w.Word, fmt.Sprint(w.Count)})
	}

	for i, row := range rows {
		if err := writeRow(f, summarySheet, i+1, row); err != nil {
			return err
		}
	}
	return nil
}

func writeRow(f *excelize.File, sheet string, row int, values []string) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	cells := make([]any, len(values))
	for i, v := range values {
		cells[i] = v
	}
	if err := f.SetSheetRow(sheet, cell, &cells); err != nil {
		return fmt.Errorf("write %s row %d: %w", sheet, row, err)
	}
	return nil
}

package source

import (
	"context"
	"fmt"

	"github.com/godilite/feedback-analyzer/internal/service"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
)

// XLSXSource reads feedback from a workbook sheet. When the configured
// sheet does not exist the first sheet is used.
type XLSXSource struct {
	path    string
	sheet   string
	mapping Mapping
	logger  *zap.Logger
}

func NewXLSXSource(path, sheet string, mapping Mapping, logger *zap.Logger) *XLSXSource {
	return &XLSXSource{path: path, sheet: sheet, mapping: mapping, logger: logger.Named("xlsx-source")}
}

// Fetch reads the whole sheet.
func (s *XLSXSource) Fetch(ctx context.Context) ([]service.RawFeedbackRecord, error) {
	f, err := excelize.OpenFile(s.path)
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()

	sheet, err := s.pickSheet(f)
	if err != nil {
		return nil, err
	}

	table, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("read sheet %q: %w", sheet, err)
	}

	records, err := recordsFromTable(ctx, table, s.mapping)
	if err != nil {
		return nil, err
	}
	s.logger.Debug("xlsx source read",
		zap.String("path", s.path),
		zap.String("sheet", sheet),
		zap.Int("rows", len(table)),
		zap.Int("records", len(records)))
	return records, nil
}

func (s *XLSXSource) pickSheet(f *excelize.File) (string, error) {
	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return "", fmt.Errorf("workbook %s has no sheets", s.path)
	}
	for _, name := range sheets {
		if name == s.sheet {
			return name, nil
		}
	}
	if s.sheet != "" {
		s.logger.Warn("sheet not found, using first sheet",
			zap.String("sheet", s.sheet),
			zap.String("fallback", sheets[0]))
	}
	return sheets[0], nil
}

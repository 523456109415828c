package source

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"

	"github.com/godilite/feedback-analyzer/internal/service"
	"go.uber.org/zap"
)

// CSVSource reads feedback from a CSV export. The first row is the header.
type CSVSource struct {
	path    string
	mapping Mapping
	logger  *zap.Logger
}

func NewCSVSource(path string, mapping Mapping, logger *zap.Logger) *CSVSource {
	return &CSVSource{path: path, mapping: mapping, logger: logger.Named("csv-source")}
}

// Fetch reads the whole file.
func (s *CSVSource) Fetch(ctx context.Context) ([]service.RawFeedbackRecord, error) {
	f, err := os.Open(s.path)
	if err != nil {
		return nil, fmt.Errorf("open csv source: %w", err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	r.LazyQuotes = true

	table, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read csv %s: %w", s.path, err)
	}

	records, err := recordsFromTable(ctx, table, s.mapping)
	if err != nil {
		return nil, err
	}
	s.logger.Debug("csv source read", zap.String("path", s.path), zap.Int("rows", len(table)), zap.Int("records", len(records)))
	return records, nil
}

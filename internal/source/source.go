package source

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/godilite/feedback-analyzer/internal/service"
	"go.uber.org/zap"
)

// Open returns the reader matching the file extension of path.
func Open(path, sheet string, mapping Mapping, logger *zap.Logger) (service.RecordSource, error) {
	if mapping == nil {
		mapping = DefaultMapping()
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".csv":
		return NewCSVSource(path, mapping, logger), nil
	case ".xlsx", ".xlsm":
		return NewXLSXSource(path, sheet, mapping, logger), nil
	default:
		return nil, fmt.Errorf("unsupported source format %q", ext)
	}
}

func recordsFromTable(ctx context.Context, table [][]string, mapping Mapping) ([]service.RawFeedbackRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if len(table) == 0 {
		return nil, nil
	}

	cols, err := mapping.Resolve(table[0])
	if err != nil {
		return nil, err
	}
	return cols.Records(table[1:]), nil
}

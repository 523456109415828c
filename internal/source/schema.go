package source

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/godilite/feedback-analyzer/internal/service"
)

// Field is a logical column of a feedback record.
type Field string

const (
	FieldName        Field = "name"
	FieldEmail       Field = "email"
	FieldPhone       Field = "phone"
	FieldRating      Field = "rating"
	FieldFeedback    Field = "feedback"
	FieldSuggestion  Field = "suggestion"
	FieldSubmittedAt Field = "submitted_at"
)

var fieldOrder = []Field{
	FieldName, FieldEmail, FieldPhone, FieldRating, FieldFeedback, FieldSuggestion, FieldSubmittedAt,
}

var (
	ErrFeedbackColumnMissing = errors.New("feedback column not found")
	ErrInvalidEncoding       = errors.New("cell is not valid UTF-8")
)

// Mapping lists, per logical field, the header aliases recognized for it.
// Earlier aliases win.
type Mapping map[Field][]string

// DefaultMapping returns the aliases used by the feedback form exports.
func DefaultMapping() Mapping {
	return Mapping{
		FieldFeedback:    {"Dê a sua opinião sobre o serviço:", "Feedback", "Opinião"},
		FieldRating:      {"Como você nos avalia?", "Nota", "Avaliação"},
		FieldName:        {"Seu nome:", "Nome", "Cliente"},
		FieldEmail:       {"Seu e-mail:", "E-mail", "Email"},
		FieldPhone:       {"Seu telefone:", "Telefone", "Celular"},
		FieldSuggestion:  {"Gostaria de deixar alguma sugestão?", "Sugestão", "Deixe sua sugestão"},
		FieldSubmittedAt: {"Carimbo de data/hora", "Data", "Timestamp"},
	}
}

// Columns maps each resolved field to its column index.
type Columns map[Field]int

// Resolve builds the column table for header. Aliases are matched exactly
// after trimming first, then case-insensitively.
func (m Mapping) Resolve(header []string) (Columns, error) {
	trimmed := make([]string, len(header))
	for i, h := range header {
		trimmed[i] = strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))
	}

	cols := make(Columns, len(m))
	for field, aliases := range m {
		if idx, ok := findColumn(trimmed, aliases); ok {
			cols[field] = idx
		}
	}

	if _, ok := cols[FieldFeedback]; !ok {
		return nil, fmt.Errorf("%w in header %q", ErrFeedbackColumnMissing, header)
	}
	return cols, nil
}

func findColumn(header, aliases []string) (int, bool) {
	for _, alias := range aliases {
		for i, h := range header {
			if h == alias {
				return i, true
			}
		}
	}
	for _, alias := range aliases {
		for i, h := range header {
			if strings.EqualFold(h, alias) {
				return i, true
			}
		}
	}
	return 0, false
}

func (c Columns) value(row []string, f Field) string {
	idx, ok := c[f]
	if !ok || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}

// Records turns data rows into typed records. Blank rows are dropped and
// rows repeating an earlier (name, email, phone, feedback) are ignored.
func (c Columns) Records(rows [][]string) []service.RawFeedbackRecord {
	type key struct{ name, email, phone, feedback string }
	seen := make(map[key]struct{}, len(rows))

	out := make([]service.RawFeedbackRecord, 0, len(rows))
	for i, row := range rows {
		if isBlank(row) {
			continue
		}

		rec := service.RawFeedbackRecord{
			Row:         i + 1,
			Name:        c.value(row, FieldName),
			Email:       c.value(row, FieldEmail),
			Phone:       c.value(row, FieldPhone),
			Rating:      c.value(row, FieldRating),
			Feedback:    c.value(row, FieldFeedback),
			Suggestion:  c.value(row, FieldSuggestion),
			SubmittedAt: c.value(row, FieldSubmittedAt),
		}

		if field, idx, bad := c.invalidCell(row); bad {
			rec.Err = fmt.Errorf("%s (column %d): %w", field, idx+1, ErrInvalidEncoding)
		}

		k := key{rec.Name, rec.Email, rec.Phone, rec.Feedback}
		if _, dup := seen[k]; dup {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, rec)
	}
	return out
}

// invalidCell reports the first mapped cell that is not valid UTF-8.
// Unmapped columns are ignored.
func (c Columns) invalidCell(row []string) (Field, int, bool) {
	for _, field := range fieldOrder {
		idx, ok := c[field]
		if !ok || idx >= len(row) {
			continue
		}
		if !utf8.ValidString(row[idx]) {
			return field, idx, true
		}
	}
	return "", 0, false
}

func isBlank(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}

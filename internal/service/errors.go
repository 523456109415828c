package service

import (
	"errors"
	"fmt"
)

var (
	ErrSourceUnavailable = errors.New("feedback source unavailable")
	ErrEmptyBatch        = errors.New("no valid feedback records")
	ErrStorageFailure    = errors.New("storage failure")
	ErrNoResults         = errors.New("no analysis results found")
)

// RecordError describes a record that was skipped during a run.
type RecordError struct {
	Position int
	Row      int
	Rating   string
	Feedback string
	Err      error
}

func (e *RecordError) Error() string {
	return fmt.Sprintf("record %d (row %d): %v", e.Position, e.Row, e.Err)
}

func (e *RecordError) Unwrap() error { return e.Err }

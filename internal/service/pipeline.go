package service

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/godilite/feedback-analyzer/internal/sentiment"
	"github.com/jonboulle/clockwork"
	"go.uber.org/zap"
)

const defaultTopWords = 10

var (
	errInvalidText = errors.New("field is not valid UTF-8")

	ErrEmptyFeedback = errors.New("feedback text is empty")
)

// FeedbackPipeline classifies one batch of raw records. It performs no I/O
// and keeps no state between runs.
type FeedbackPipeline struct {
	resolver *sentiment.Resolver
	detector *sentiment.SuggestionDetector
	clock    clockwork.Clock
	logger   *zap.Logger
	topWords int
}

type PipelineOption func(*FeedbackPipeline)

// WithClock sets the clock used for processing timestamps.
func WithClock(clock clockwork.Clock) PipelineOption {
	return func(p *FeedbackPipeline) { p.clock = clock }
}

// WithTopWords sets how many frequent words the summary keeps.
func WithTopWords(n int) PipelineOption {
	return func(p *FeedbackPipeline) {
		if n > 0 {
			p.topWords = n
		}
	}
}

// NewFeedbackPipeline creates a pipeline over the given lexicon.
func NewFeedbackPipeline(lex sentiment.Lexicon, logger *zap.Logger, opts ...PipelineOption) *FeedbackPipeline {
	if logger == nil {
		logger = zap.NewNop()
	}
	p := &FeedbackPipeline{
		resolver: sentiment.NewResolver(lex),
		detector: sentiment.NewSuggestionDetector(lex),
		clock:    clockwork.NewRealClock(),
		logger:   logger.Named("pipeline"),
		topWords: defaultTopWords,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Run classifies every record with non-blank feedback. Records with blank
// feedback are excluded; records that fail are logged and skipped.
func (p *FeedbackPipeline) Run(records []RawFeedbackRecord) ([]OutputRecord, BatchSummary) {
	out := make([]OutputRecord, 0, len(records))
	var excluded, skipped int

	position := 0
	for _, raw := range records {
		if strings.TrimSpace(raw.Feedback) == "" {
			excluded++
			continue
		}
		position++

		rec, err := p.process(position, raw)
		if err != nil {
			skipped++
			var recErr *RecordError
			if errors.As(err, &recErr) {
				p.logger.Warn("skipping feedback record",
					zap.Int("position", recErr.Position),
					zap.Int("row", recErr.Row),
					zap.String("rating", recErr.Rating),
					zap.String("feedback", recErr.Feedback),
					zap.Error(recErr.Err))
			}
			continue
		}

		p.logger.Debug("feedback classified",
			zap.Int("position", rec.ID),
			zap.String("verdict", string(rec.Verdict)),
			zap.String("criterion", string(rec.Criterion)),
			zap.String("keywords", rec.Keywords),
			zap.String("feedback", rec.CondensedFeedback()),
			zap.Bool("has_suggestion", rec.HasSuggestion))

		out = append(out, rec)
	}

	summary := summarize(out, p.topWords)
	summary.Excluded = excluded
	summary.Skipped = skipped
	return out, summary
}

// Classify runs a single record through the pipeline outside of a batch.
func (p *FeedbackPipeline) Classify(raw RawFeedbackRecord) (OutputRecord, error) {
	if strings.TrimSpace(raw.Feedback) == "" {
		return OutputRecord{}, ErrEmptyFeedback
	}
	return p.process(1, raw)
}

func (p *FeedbackPipeline) process(position int, raw RawFeedbackRecord) (rec OutputRecord, err error) {
	fail := func(cause error) error {
		return &RecordError{
			Position: position,
			Row:      raw.Row,
			Rating:   raw.Rating,
			Feedback: truncate(raw.Feedback, condensedFeedbackLen),
			Err:      cause,
		}
	}

	defer func() {
		if r := recover(); r != nil {
			err = fail(fmt.Errorf("panic: %v", r))
		}
	}()

	if raw.Err != nil {
		return OutputRecord{}, fail(raw.Err)
	}
	if err := validateText(raw); err != nil {
		return OutputRecord{}, fail(err)
	}

	feedback := strings.TrimSpace(raw.Feedback)
	suggestion := strings.TrimSpace(raw.Suggestion)

	result := p.resolver.Resolve(feedback, raw.Rating)
	hasSuggestion, suggestionTerms := p.detector.Detect(suggestion)

	return OutputRecord{
		ProcessedAt:     p.clock.Now(),
		ID:              position,
		Name:            raw.Name,
		Email:           raw.Email,
		Phone:           raw.Phone,
		Rating:          raw.Rating,
		Feedback:        feedback,
		Verdict:         result.Verdict,
		Criterion:       result.Criterion,
		MatchedTerms:    result.MatchedTerms,
		Keywords:        result.Keywords(),
		Status:          StatusSuccess,
		SubmittedAt:     raw.SubmittedAt,
		Suggestion:      suggestion,
		HasSuggestion:   hasSuggestion,
		SuggestionTerms: suggestionTerms,
	}, nil
}

func validateText(raw RawFeedbackRecord) error {
	fields := []struct {
		name  string
		value string
	}{
		{"name", raw.Name},
		{"email", raw.Email},
		{"phone", raw.Phone},
		{"rating", raw.Rating},
		{"feedback", raw.Feedback},
		{"suggestion", raw.Suggestion},
	}
	for _, f := range fields {
		if !utf8.ValidString(f.value) {
			return fmt.Errorf("%s: %w", f.name, errInvalidText)
		}
	}
	return nil
}

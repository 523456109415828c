package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/godilite/feedback-analyzer/internal/repository/models"
)

// timeLayout is fixed width so stored timestamps sort as text.
const timeLayout = "2006-01-02T15:04:05.000000000Z"

// Schema holds the DDL for the result store, one statement per entry. It is
// valid for both sqlite3 and postgres.
var Schema = []string{
	`CREATE TABLE IF NOT EXISTS analysis_runs (
		run_id           TEXT PRIMARY KEY,
		started_at       TEXT NOT NULL,
		finished_at      TEXT NOT NULL,
		processed        INTEGER NOT NULL,
		excluded         INTEGER NOT NULL,
		skipped          INTEGER NOT NULL,
		positive         INTEGER NOT NULL,
		negative         INTEGER NOT NULL,
		neutral          INTEGER NOT NULL,
		rated            INTEGER NOT NULL,
		average_rating   REAL NOT NULL,
		suggestions      INTEGER NOT NULL,
		top_words        TEXT NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS analysis_results (
		run_id           TEXT NOT NULL,
		feedback_id      INTEGER NOT NULL,
		processed_at     TEXT NOT NULL,
		name             TEXT NOT NULL,
		email            TEXT NOT NULL,
		phone            TEXT NOT NULL,
		rating           TEXT NOT NULL,
		feedback         TEXT NOT NULL,
		sentiment        TEXT NOT NULL,
		criterion        TEXT NOT NULL,
		keywords         TEXT NOT NULL,
		matched_terms    TEXT NOT NULL,
		status           TEXT NOT NULL,
		submitted_at     TEXT NOT NULL,
		suggestion       TEXT NOT NULL,
		has_suggestion   INTEGER NOT NULL,
		suggestion_terms TEXT NOT NULL,
		PRIMARY KEY (run_id, feedback_id)
	)`,
	`CREATE INDEX IF NOT EXISTS idx_analysis_runs_started_at ON analysis_runs (started_at)`,
}

type ResultRepository struct {
	db       *sql.DB
	postgres bool
}

// NewResultRepository wraps db. driver selects the placeholder style:
// "pgx" and "postgres" use $n, everything else uses ?.
func NewResultRepository(db *sql.DB, driver string) *ResultRepository {
	return &ResultRepository{
		db:       db,
		postgres: driver == "pgx" || driver == "postgres",
	}
}

func (r *ResultRepository) rebind(query string) string {
	if !r.postgres {
		return query
	}
	var b strings.Builder
	n := 0
	for _, ch := range query {
		if ch == '?' {
			n++
			b.WriteString("$" + strconv.Itoa(n))
			continue
		}
		b.WriteRune(ch)
	}
	return b.String()
}

// ReplaceResults records run and swaps the stored results for results in a
// single transaction, so readers see either the old set or the new one.
func (r *ResultRepository) ReplaceResults(ctx context.Context, run models.AnalysisRun, results []models.AnalysisResult) error {
	topWords, err := json.Marshal(run.TopWords)
	if err != nil {
		return fmt.Errorf("encode top words: %w", err)
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin ReplaceResults: %w", err)
	}
	defer tx.Rollback()

	const insertRun = `
		INSERT INTO analysis_runs (
			run_id, started_at, finished_at, processed, excluded, skipped,
			positive, negative, neutral, rated, average_rating, suggestions, top_words
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	_, err = tx.ExecContext(ctx, r.rebind(insertRun),
		run.RunID, formatTime(run.StartedAt), formatTime(run.FinishedAt),
		run.Processed, run.Excluded, run.Skipped,
		run.Positive, run.Negative, run.Neutral,
		run.RatedCount, run.AverageRating, run.SuggestionCount, string(topWords))
	if err != nil {
		return fmt.Errorf("insert analysis run: %w", err)
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM analysis_results`); err != nil {
		return fmt.Errorf("clear analysis results: %w", err)
	}
	// Only the latest run is kept.
	if _, err := tx.ExecContext(ctx, r.rebind(`DELETE FROM analysis_runs WHERE run_id <> ?`), run.RunID); err != nil {
		return fmt.Errorf("prune analysis runs: %w", err)
	}

	const insertResult = `
		INSERT INTO analysis_results (
			run_id, feedback_id, processed_at, name, email, phone, rating, feedback,
			sentiment, criterion, keywords, matched_terms, status, submitted_at,
			suggestion, has_suggestion, suggestion_terms
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	stmt, err := tx.PrepareContext(ctx, r.rebind(insertResult))
	if err != nil {
		return fmt.Errorf("prepare insert result: %w", err)
	}
	defer stmt.Close()

	for _, res := range results {
		matched, err := json.Marshal(nonNil(res.MatchedTerms))
		if err != nil {
			return fmt.Errorf("encode matched terms: %w", err)
		}
		suggestions, err := json.Marshal(nonNil(res.SuggestionTerms))
		if err != nil {
			return fmt.Errorf("encode suggestion terms: %w", err)
		}

		_, err = stmt.ExecContext(ctx,
			res.RunID, res.FeedbackID, formatTime(res.ProcessedAt),
			res.Name, res.Email, res.Phone, res.Rating, res.Feedback,
			res.Sentiment, res.Criterion, res.Keywords, string(matched),
			res.Status, res.SubmittedAt, res.Suggestion, boolToInt(res.HasSuggestion), string(suggestions))
		if err != nil {
			return fmt.Errorf("insert result %d: %w", res.FeedbackID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit ReplaceResults: %w", err)
	}
	return nil
}

// LatestRun returns the most recent run, or a zero value when none exists.
func (r *ResultRepository) LatestRun(ctx context.Context) (models.AnalysisRun, error) {
	const query = `
		SELECT
			run_id, started_at, finished_at, processed, excluded, skipped,
			positive, negative, neutral, rated, average_rating, suggestions, top_words
		FROM analysis_runs
		ORDER BY started_at DESC
		LIMIT 1
	`

	var (
		run               models.AnalysisRun
		started, finished string
		topWords          string
	)
	err := r.db.QueryRowContext(ctx, query).Scan(
		&run.RunID, &started, &finished, &run.Processed, &run.Excluded, &run.Skipped,
		&run.Positive, &run.Negative, &run.Neutral, &run.RatedCount, &run.AverageRating,
		&run.SuggestionCount, &topWords)
	if err != nil {
		if err == sql.ErrNoRows {
			return models.AnalysisRun{}, nil
		}
		return models.AnalysisRun{}, fmt.Errorf("query LatestRun: %w", err)
	}

	if run.StartedAt, err = parseTime(started); err != nil {
		return models.AnalysisRun{}, err
	}
	if run.FinishedAt, err = parseTime(finished); err != nil {
		return models.AnalysisRun{}, err
	}
	if err := json.Unmarshal([]byte(topWords), &run.TopWords); err != nil {
		return models.AnalysisRun{}, fmt.Errorf("decode top words: %w", err)
	}
	return run, nil
}

// ListResults returns up to limit stored results ordered by feedback id.
// A non-positive limit returns every row.
func (r *ResultRepository) ListResults(ctx context.Context, limit int) ([]models.AnalysisResult, error) {
	query := `
		SELECT
			run_id, feedback_id, processed_at, name, email, phone, rating, feedback,
			sentiment, criterion, keywords, matched_terms, status, submitted_at,
			suggestion, has_suggestion, suggestion_terms
		FROM analysis_results
		ORDER BY feedback_id
	`
	var args []any
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := r.db.QueryContext(ctx, r.rebind(query), args...)
	if err != nil {
		return nil, fmt.Errorf("query ListResults: %w", err)
	}
	defer rows.Close()

	var results []models.AnalysisResult
	for rows.Next() {
		var (
			res                  models.AnalysisResult
			processed            string
			matched, suggestions string
			hasSuggestion        int
		)
		if err := rows.Scan(&res.RunID, &res.FeedbackID, &processed, &res.Name, &res.Email, &res.Phone,
			&res.Rating, &res.Feedback, &res.Sentiment, &res.Criterion, &res.Keywords, &matched,
			&res.Status, &res.SubmittedAt, &res.Suggestion, &hasSuggestion, &suggestions); err != nil {
			return nil, fmt.Errorf("scan ListResults row: %w", err)
		}

		if res.ProcessedAt, err = parseTime(processed); err != nil {
			return nil, err
		}
		if err := json.Unmarshal([]byte(matched), &res.MatchedTerms); err != nil {
			return nil, fmt.Errorf("decode matched terms: %w", err)
		}
		if err := json.Unmarshal([]byte(suggestions), &res.SuggestionTerms); err != nil {
			return nil, fmt.Errorf("decode suggestion terms: %w", err)
		}
		res.HasSuggestion = hasSuggestion != 0
		results = append(results, res)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate ListResults: %w", err)
	}
	return results, nil
}

// SentimentDistribution counts stored results per sentiment.
func (r *ResultRepository) SentimentDistribution(ctx context.Context) (map[string]int, error) {
	const query = `
		SELECT sentiment, COUNT(*) AS total
		FROM analysis_results
		GROUP BY sentiment
		ORDER BY sentiment
	`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query SentimentDistribution: %w", err)
	}
	defer rows.Close()

	out := make(map[string]int)
	for rows.Next() {
		var (
			sentiment string
			total     int
		)
		if err := rows.Scan(&sentiment, &total); err != nil {
			return nil, fmt.Errorf("scan SentimentDistribution row: %w", err)
		}
		out[sentiment] = total
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate SentimentDistribution: %w", err)
	}
	return out, nil
}

func formatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

func parseTime(s string) (time.Time, error) {
	t, err := time.Parse(timeLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse stored time %q: %w", s, err)
	}
	return t, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

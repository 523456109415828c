package service

import (
	"context"
	"fmt"
	"testing"

	"github.com/godilite/feedback-analyzer/internal/repository"
	"github.com/godilite/feedback-analyzer/internal/sentiment"
	dbbuilder "github.com/godilite/feedback-analyzer/pkg/database"
	_ "github.com/mattn/go-sqlite3"
	"go.uber.org/zap"
)

var benchFeedback = []string{
	"Atendimento excelente, equipe muito atenciosa",
	"Entrega com muita demora e produto com defeito",
	"Chegou no prazo, embalagem simples",
	"Foi bom mas o preço é caro",
}

func benchBatch(n int) []RawFeedbackRecord {
	records := make([]RawFeedbackRecord, n)
	for i := range records {
		records[i] = RawFeedbackRecord{
			Row:        i + 1,
			Name:       fmt.Sprintf("cliente %d", i),
			Rating:     fmt.Sprint(i % 11),
			Feedback:   benchFeedback[i%len(benchFeedback)],
			Suggestion: "Acho que deveriam abrir aos domingos",
		}
	}
	return records
}

type benchSource []RawFeedbackRecord

func (s benchSource) Fetch(context.Context) ([]RawFeedbackRecord, error) { return s, nil }

func setupRealRepo(tb testing.TB) *repository.ResultRepository {
	tb.Helper()

	db, err := dbbuilder.New(context.Background(),
		dbbuilder.WithDriver("sqlite3"),
		dbbuilder.WithDataSource(":memory:"),
		dbbuilder.WithMaxOpenConns(1),
		dbbuilder.WithSchema(repository.Schema...),
	)
	if err != nil {
		tb.Fatalf("failed to create db pool via builder: %v", err)
	}
	tb.Cleanup(func() { db.Close() })

	return repository.NewResultRepository(db, "sqlite3")
}

func BenchmarkFeedbackPipeline_Run(b *testing.B) {
	p := NewFeedbackPipeline(sentiment.DefaultLexicon(), zap.NewNop())
	batch := benchBatch(1000)

	b.ReportAllocs()

	for b.Loop() {
		_, _ = p.Run(batch)
	}
}

func BenchmarkAnalysisService_RunOnce(b *testing.B) {
	p := NewFeedbackPipeline(sentiment.DefaultLexicon(), zap.NewNop())
	svc := NewAnalysisService(benchSource(benchBatch(500)), setupRealRepo(b), p, zap.NewNop())

	b.ReportAllocs()

	for b.Loop() {
		if _, err := svc.RunOnce(context.Background()); err != nil {
			b.Fatal(err)
		}
	}
}

package publisher

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/godilite/feedback-analyzer/internal/service"
	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// messageWriter is the subset of *kafka.Writer used here.
type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// SummaryMessage is the value published on the summary topic.
type SummaryMessage struct {
	RunID      string               `json:"run_id"`
	StartedAt  time.Time            `json:"started_at"`
	FinishedAt time.Time            `json:"finished_at"`
	Summary    service.BatchSummary `json:"summary"`
}

// ResultMessage is the value published on the results topic.
type ResultMessage struct {
	RunID string `json:"run_id"`
	service.OutputRecord
}

// KafkaPublisher streams finished runs: one message per record on the
// results topic and one summary message per run.
type KafkaPublisher struct {
	results messageWriter
	summary messageWriter
	logger  *zap.Logger
}

// NewKafkaPublisher creates writers for both topics on brokers.
func NewKafkaPublisher(brokers []string, resultsTopic, summaryTopic string, logger *zap.Logger) *KafkaPublisher {
	if len(brokers) == 0 {
		panic("kafka brokers must not be empty")
	}
	newWriter := func(topic string) *kafka.Writer {
		return &kafka.Writer{
			Addr:         kafka.TCP(brokers...),
			Topic:        topic,
			Balancer:     &kafka.Hash{},
			RequiredAcks: kafka.RequireOne,
		}
	}
	return newKafkaPublisher(newWriter(resultsTopic), newWriter(summaryTopic), logger)
}

func newKafkaPublisher(results, summary messageWriter, logger *zap.Logger) *KafkaPublisher {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &KafkaPublisher{results: results, summary: summary, logger: logger.Named("kafka")}
}

// Publish implements service.ResultPublisher. Records go out in a single
// batch; the summary is sent only after all records were accepted.
func (p *KafkaPublisher) Publish(ctx context.Context, run service.RunReport, records []service.OutputRecord) error {
	msgs, err := resultMessages(run.ID, records)
	if err != nil {
		return err
	}
	if len(msgs) > 0 {
		if err := p.results.WriteMessages(ctx, msgs...); err != nil {
			return fmt.Errorf("publish results: %w", err)
		}
	}

	msg, err := summaryMessage(run)
	if err != nil {
		return err
	}
	if err := p.summary.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("publish summary: %w", err)
	}

	p.logger.Info("run published", zap.String("run_id", run.ID), zap.Int("records", len(msgs)))
	return nil
}

// Close closes both writers.
func (p *KafkaPublisher) Close() error {
	return errors.Join(p.results.Close(), p.summary.Close())
}

func resultMessages(runID string, records []service.OutputRecord) ([]kafka.Message, error) {
	msgs := make([]kafka.Message, 0, len(records))
	for _, rec := range records {
		data, err := json.Marshal(ResultMessage{RunID: runID, OutputRecord: rec})
		if err != nil {
			return nil, fmt.Errorf("encode record %d: %w", rec.ID, err)
		}
		msgs = append(msgs, kafka.Message{
			Key:   []byte(runID + ":" + strconv.Itoa(rec.ID)),
			Value: data,
		})
	}
	return msgs, nil
}

func summaryMessage(run service.RunReport) (kafka.Message, error) {
	data, err := json.Marshal(SummaryMessage{
		RunID:      run.ID,
		StartedAt:  run.StartedAt,
		FinishedAt: run.FinishedAt,
		Summary:    run.Summary,
	})
	if err != nil {
		return kafka.Message{}, fmt.Errorf("encode summary: %w", err)
	}
	return kafka.Message{Key: []byte(run.ID), Value: data}, nil
}

package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/couchcryptid/corsica-dataviz/internal/config"
	"github.com/couchcryptid/corsica-dataviz/internal/domain"
	"github.com/couchcryptid/corsica-dataviz/internal/observability"
	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	kafkago "github.com/segmentio/kafka-go"
)

// Record types carried in the record_type header.
const (
	RecordCommune = "commune"
	RecordFire    = "fire"
)

// Header keys set on every exported message.
const (
	HeaderRecordType = "record_type"
	HeaderExportID   = "export_id"
	HeaderExportedAt = "exported_at"
)

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafkago.Message) error
	Close() error
}

// Writer exports the normalized dataset to a Kafka topic.
// It implements pipeline.Publisher.
type Writer struct {
	writer  messageWriter
	clock   clockwork.Clock
	metrics *observability.Metrics
	logger  *slog.Logger
}

// NewWriter creates a Kafka producer for the configured export topic.
func NewWriter(cfg *config.Config, metrics *observability.Metrics, logger *slog.Logger) *Writer {
	w := &kafkago.Writer{
		Addr:                   kafkago.TCP(cfg.KafkaBrokers...),
		Topic:                  cfg.KafkaTopic,
		Balancer:               &kafkago.Hash{},
		RequiredAcks:           kafkago.RequireAll,
		AllowAutoTopicCreation: true,
	}
	return &Writer{writer: w, clock: clockwork.NewRealClock(), metrics: metrics, logger: logger}
}

// Publish writes every commune and fire as one JSON message keyed by record
// ID. All messages of a call share one export_id, so consumers can tell
// complete exports apart.
func (w *Writer) Publish(ctx context.Context, ds domain.Dataset) error {
	exp := export{id: uuid.NewString(), at: w.clock.Now().UTC()}

	msgs := make([]kafkago.Message, 0, len(ds.Communes)+len(ds.Fires))
	for i := range ds.Communes {
		msg, err := exp.message(RecordCommune, ds.Communes[i].ID, ds.Communes[i])
		if err != nil {
			return err
		}
		msgs = append(msgs, msg)
	}
	for i := range ds.Fires {
		msg, err := exp.message(RecordFire, ds.Fires[i].ID, ds.Fires[i])
		if err != nil {
			return err
		}
		msgs = append(msgs, msg)
	}
	if len(msgs) == 0 {
		return nil
	}

	if err := w.writer.WriteMessages(ctx, msgs...); err != nil {
		return fmt.Errorf("write export %s: %w", exp.id, err)
	}
	w.metrics.ExportMessages.Add(float64(len(msgs)))
	w.logger.Info("dataset exported to kafka",
		"export_id", exp.id,
		"communes", len(ds.Communes),
		"fires", len(ds.Fires),
	)
	return nil
}

func (w *Writer) Close() error {
	return w.writer.Close()
}

type export struct {
	id string
	at time.Time
}

// message marshals one record into a Kafka message.
func (e export) message(recordType, key string, record any) (kafkago.Message, error) {
	data, err := json.Marshal(record)
	if err != nil {
		return kafkago.Message{}, fmt.Errorf("serialize %s %s: %w", recordType, key, err)
	}
	return kafkago.Message{
		Key:   []byte(key),
		Value: data,
		Headers: []kafkago.Header{
			{Key: HeaderRecordType, Value: []byte(recordType)},
			{Key: HeaderExportID, Value: []byte(e.id)},
			{Key: HeaderExportedAt, Value: []byte(e.at.Format(time.RFC3339))},
		},
	}, nil
}

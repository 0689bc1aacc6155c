// Package ingest handles Kafka event production for BOM ingestion events.
package ingest

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/assetgraph/govcat/model"
	"github.com/segmentio/kafka-go"
)

// IngestProducer handles sending BOM ingestion events to Kafka
type IngestProducer struct {
	Writer *kafka.Writer
}

// NewIngestProducer initializes a new Kafka writer for ingestion events
func NewIngestProducer(brokers []string, topic string) *IngestProducer {
	return &IngestProducer{
		Writer: &kafka.Writer{
			Addr:     kafka.TCP(brokers...),
			Topic:    topic,
			Balancer: &kafka.LeastBytes{},
		},
	}
}

// PublishBOMIngested sends the event to the Kafka topic
func (p *IngestProducer) PublishBOMIngested(ctx context.Context, repositoryURL string, result model.IngestResult) error {

	event := BOMIngestedEvent{
		EventType:     "bom.ingested",
		EventID:       uuid.New().String(),
		EventTime:     time.Now().UTC(),
		SchemaVersion: "v1",
		RepositoryURL: repositoryURL,
		Result:        result,
	}

	payload, err := json.Marshal(event)
	if err != nil {
		return err
	}

	return p.Writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(repositoryURL),
		Value: payload,
	})
}

// Close cleans up the Kafka writer
func (p *IngestProducer) Close() error {
	return p.Writer.Close()
}

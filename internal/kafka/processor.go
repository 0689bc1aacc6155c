package kafka

import (
	"context"
	"crypto/tls"
	"log"
	"os"
	"strings"
	"time"

	"github.com/assetgraph/govcat/database"
	"github.com/assetgraph/govcat/events/modules/ingest"
	"github.com/assetgraph/govcat/internal/services"
	"github.com/segmentio/kafka-go"
	"github.com/segmentio/kafka-go/sasl/plain"
)

// RunEventProcessor consumes BOM upload events and feeds them through the
// same ingestion path as the REST endpoint.
func RunEventProcessor(ctx context.Context, db database.DBConnection) error {
	brokersEnv := os.Getenv("KAFKA_BROKERS")
	var brokers []string
	if brokersEnv != "" {
		brokers = strings.Split(brokersEnv, ",")
	} else {
		brokers = []string{"localhost:9092"}
	}

	username := os.Getenv("KAFKA_API_KEY")
	password := os.Getenv("KAFKA_API_SECRET")

	var dialer *kafka.Dialer

	// SASL/TLS only when credentials are provided; plain dialer for local dev
	if username != "" && password != "" {
		mechanism := plain.Mechanism{
			Username: username,
			Password: password,
		}

		dialer = &kafka.Dialer{
			Timeout:       10 * time.Second,
			DualStack:     true,
			SASLMechanism: mechanism,
			TLS:           &tls.Config{},
		}
	} else {
		dialer = &kafka.Dialer{
			Timeout:   10 * time.Second,
			DualStack: true,
		}
	}

	topic := os.Getenv("KAFKA_BOM_TOPIC")
	if topic == "" {
		topic = "bom-events"
	}

	var conn *kafka.Conn
	var err error

	// Retry logic: 3 tries
	for i := 1; i <= 3; i++ {
		log.Printf("Kafka connection attempt %d/3...", i)
		conn, err = dialer.DialContext(ctx, "tcp", brokers[0])
		if err == nil {
			conn.Close()
			break
		}
		if i < 3 {
			time.Sleep(2 * time.Second)
		}
	}

	if err != nil {
		return err
	}

	readerConfig := kafka.ReaderConfig{
		Brokers:  brokers,
		GroupID:  "govcat-worker",
		Topic:    topic,
		MaxBytes: 10e6,
		Dialer:   dialer,
	}

	reader := kafka.NewReader(readerConfig)

	var publisher ingest.IngestedPublisher
	if produceTopic := os.Getenv("KAFKA_INGESTED_TOPIC"); produceTopic != "" {
		publisher = ingest.NewIngestProducer(brokers, produceTopic)
	}

	go func() {
		defer reader.Close()

		store := database.NewGraphStore(db)
		service := &services.Ingestor{
			Repos:      store,
			Systems:    store,
			Components: store,
			Audit:      store,
			Logger:     database.InitLogger().Sugar(),
		}

		log.Println("Kafka Event Processor started. Listening for BOM upload events...")

		for {
			select {
			case <-ctx.Done():
				return
			default:
				msg, err := reader.ReadMessage(ctx)
				if err != nil {
					if ctx.Err() != nil {
						return
					}
					continue
				}
				if err := ingest.HandleBOMUploadedWithService(ctx, msg.Value, service, publisher); err != nil {
					log.Printf("BOM event processing failed: %v", err)
				}
			}
		}
	}()

	return nil
}

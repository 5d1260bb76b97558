package utils

import (
	"context"
	"log"
	"strings"

	"github.com/niyateshaukh/mehfil-backend/config"
	"github.com/segmentio/kafka-go"
)

var ticketWriter *kafka.Writer

// InitializeKafka sets up the producer for the ticket-email topic.
// Kafka is optional: without brokers configured the async email path is
// disabled and ticket emails are only sent via POST /send-ticket.
func InitializeKafka(cfg *config.Config) {
	if cfg.KafkaBrokers == "" {
		log.Println("ℹ️ Kafka not configured, async ticket emails disabled")
		return
	}

	ticketWriter = &kafka.Writer{
		Addr:         kafka.TCP(strings.Split(cfg.KafkaBrokers, ",")...),
		Topic:        cfg.KafkaTicketTopic,
		Balancer:     &kafka.LeastBytes{},
		RequiredAcks: kafka.RequireOne,
	}

	log.Printf("✅ Kafka producer ready (topic %s)", cfg.KafkaTicketTopic)
}

// PublishTicketEmail enqueues a ticket-email job. Best effort: failures
// are logged, never surfaced to the registrant.
func PublishTicketEmail(ctx context.Context, key string, payload []byte) {
	if ticketWriter == nil {
		return
	}
	if err := ticketWriter.WriteMessages(ctx, kafka.Message{
		Key:   []byte(key),
		Value: payload,
	}); err != nil {
		log.Printf("❌ Kafka publish failed for %s: %v", key, err)
	}
}

// NewTicketReader builds a consumer for the ticket-email topic
func NewTicketReader(cfg *config.Config) *kafka.Reader {
	if cfg.KafkaBrokers == "" {
		return nil
	}
	return kafka.NewReader(kafka.ReaderConfig{
		Brokers: strings.Split(cfg.KafkaBrokers, ","),
		GroupID: "mehfil-ticket-mailer",
		Topic:   cfg.KafkaTicketTopic,
	})
}

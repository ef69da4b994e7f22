// Package events publishes domain events to Kafka.
package events

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/aaravmahajanofficial/storefront/internal/models"
	kafkaGo "github.com/segmentio/kafka-go"
)

// MessageWriter is the subset of *kafka.Writer the publisher uses.
type MessageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafkaGo.Message) error
	Close() error
}

type KafkaPublisher struct {
	writer MessageWriter
}

func NewKafkaPublisher(brokers []string, topic string) *KafkaPublisher {
	return NewPublisherWithWriter(&kafkaGo.Writer{
		Addr:                   kafkaGo.TCP(brokers...),
		Topic:                  topic,
		Balancer:               &kafkaGo.Hash{},
		AllowAutoTopicCreation: true,
	})
}

func NewPublisherWithWriter(w MessageWriter) *KafkaPublisher {
	return &KafkaPublisher{writer: w}
}

// PublishOrderPlaced keys messages by owner so one customer's orders stay on one partition.
func (p *KafkaPublisher) PublishOrderPlaced(ctx context.Context, event models.OrderPlacedEvent) error {

	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	if err := p.writer.WriteMessages(ctx, kafkaGo.Message{
		Key:     []byte(event.OwnerID.String()),
		Value:   payload,
		Headers: []kafkaGo.Header{{Key: "event-type", Value: []byte("order.placed")}},
	}); err != nil {
		return fmt.Errorf("failed to publish order %s: %w", event.OrderID, err)
	}

	return nil
}

func (p *KafkaPublisher) Close() error {
	return p.writer.Close()
}

package kafka

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/segmentio/kafka-go"

	"ms-boxoffice/internal/models"
)

const TopicBookingCreated = "boxoffice.booking.created"

type Producer struct {
	Writer *kafka.Writer
}

func NewProducer(brokers []string) *Producer {
	writer := &kafka.Writer{
		Addr:     kafka.TCP(brokers...),
		Balancer: &kafka.LeastBytes{},
	}
	return &Producer{Writer: writer}
}

// Publish writes one message to the given topic.
func (p *Producer) Publish(topic string, key string, value []byte) error {
	return p.Writer.WriteMessages(context.Background(),
		kafka.Message{
			Topic: topic,
			Key:   []byte(key),
			Value: value,
		},
	)
}

// PublishBookingCreated streams a successful allocation to Kafka. This sits
// off the allocation hot path; failures are logged by the caller, never
// propagated into the booking result.
func (p *Producer) PublishBookingCreated(booking models.Booking) error {
	msgBytes, err := json.Marshal(booking)
	if err != nil {
		return fmt.Errorf("marshal booking %s: %w", booking.ID, err)
	}
	return p.Publish(TopicBookingCreated, booking.ID, msgBytes)
}

func (p *Producer) Close() error {
	return p.Writer.Close()
}

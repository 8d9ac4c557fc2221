package notify

import (
	"context"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"
)

// KafkaSender publishes alert text to a topic for downstream consumers
// (pagers, SIEM, chat bridges).
type KafkaSender struct {
	writer *kafka.Writer
}

func NewKafkaSender(brokers []string, topic string) *KafkaSender {
	return &KafkaSender{
		writer: &kafka.Writer{
			Addr:         kafka.TCP(brokers...),
			Topic:        topic,
			Balancer:     &kafka.LeastBytes{},
			WriteTimeout: 10 * time.Second,
		},
	}
}

func (s *KafkaSender) Send(ctx context.Context, text string) error {
	if err := s.writer.WriteMessages(ctx, kafka.Message{Value: []byte(text)}); err != nil {
		return fmt.Errorf("kafka write: %w", err)
	}
	return nil
}

func (s *KafkaSender) Close() error {
	return s.writer.Close()
}

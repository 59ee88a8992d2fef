package orderlog

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/segmentio/kafka-go"
	statex "github.com/tanpawarit/Chative-Restaurant-Ordering/agent/state"
)

type KafkaConfig struct {
	Brokers []string `required:"true"`
	Topic   string   `default:"orders.placed"`
}

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// KafkaPublisher emits one message per placed order, keyed by order ID.
type KafkaPublisher struct {
	writer messageWriter
}

func NewKafkaPublisher(cfg KafkaConfig) (*KafkaPublisher, error) {
	brokers := make([]string, 0, len(cfg.Brokers))
	for _, b := range cfg.Brokers {
		if b = strings.TrimSpace(b); b != "" {
			brokers = append(brokers, b)
		}
	}
	if len(brokers) == 0 {
		return nil, errors.New("kafka brokers are required")
	}
	topic := strings.TrimSpace(cfg.Topic)
	if topic == "" {
		return nil, errors.New("kafka topic is required")
	}

	return &KafkaPublisher{writer: &kafka.Writer{
		Addr:     kafka.TCP(brokers...),
		Topic:    topic,
		Balancer: &kafka.LeastBytes{},
	}}, nil
}

func (p *KafkaPublisher) Append(ctx context.Context, order statex.Order) error {
	payload, err := NewRecord(order).JSON()
	if err != nil {
		return fmt.Errorf("marshal order record: %w", err)
	}
	err = p.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(order.ID),
		Value: payload,
	})
	if err != nil {
		return fmt.Errorf("publish order %s: %w", order.ID, err)
	}
	return nil
}

func (p *KafkaPublisher) Close() error {
	return p.writer.Close()
}

package orderlog

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"
	statex "github.com/tanpawarit/Chative-Restaurant-Ordering/agent/state"
)

// Publisher is satisfied by *qstash.Client.
type Publisher interface {
	Publish(ctx context.Context, destination string, body []byte) (string, error)
}

// QStashNotifier forwards order records to a webhook through QStash.
type QStashNotifier struct {
	client      Publisher
	destination string
}

func NewQStashNotifier(client Publisher, destination string) (*QStashNotifier, error) {
	if client == nil {
		return nil, errors.New("qstash client is required")
	}
	destination = strings.TrimSpace(destination)
	if destination == "" {
		return nil, errors.New("qstash destination is required")
	}
	return &QStashNotifier{client: client, destination: destination}, nil
}

func (n *QStashNotifier) Append(ctx context.Context, order statex.Order) error {
	payload, err := NewRecord(order).JSON()
	if err != nil {
		return fmt.Errorf("marshal order record: %w", err)
	}
	messageID, err := n.client.Publish(ctx, n.destination, payload)
	if err != nil {
		return fmt.Errorf("notify order %s: %w", order.ID, err)
	}
	log.Debug().Str("order_id", order.ID).Str("message_id", messageID).Msg("order notification queued")
	return nil
}

func (n *QStashNotifier) Close() error {
	return nil
}

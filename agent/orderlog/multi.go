package orderlog

import (
	"context"
	"errors"
	"fmt"
	"io"

	contractx "github.com/tanpawarit/Chative-Restaurant-Ordering/agent/contract"
	statex "github.com/tanpawarit/Chative-Restaurant-Ordering/agent/state"
)

// Log is an order log that owns resources.
type Log interface {
	contractx.OrderLog
	io.Closer
}

var (
	_ Log = (*Multi)(nil)
	_ Log = Discard{}
	_ Log = (*BunStore)(nil)
	_ Log = (*UpstashStore)(nil)
	_ Log = (*KafkaPublisher)(nil)
	_ Log = (*QStashNotifier)(nil)
)

type Discard struct{}

func (Discard) Append(context.Context, statex.Order) error { return nil }
func (Discard) Close() error                               { return nil }

type namedSink struct {
	name string
	sink Log
}

// Multi fans an order out to every sink. All sinks are attempted.
type Multi struct {
	sinks []namedSink
}

func NewMulti() *Multi {
	return &Multi{}
}

func (m *Multi) Add(name string, sink Log) {
	if sink == nil {
		return
	}
	m.sinks = append(m.sinks, namedSink{name: name, sink: sink})
}

func (m *Multi) Len() int {
	return len(m.sinks)
}

func (m *Multi) Append(ctx context.Context, order statex.Order) error {
	var errs []error
	for _, s := range m.sinks {
		if err := s.sink.Append(ctx, order); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", s.name, err))
		}
	}
	return errors.Join(errs...)
}

func (m *Multi) Close() error {
	var errs []error
	for _, s := range m.sinks {
		if err := s.sink.Close(); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", s.name, err))
		}
	}
	return errors.Join(errs...)
}

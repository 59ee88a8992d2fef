package orderlog

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"
	contractx "github.com/tanpawarit/Chative-Restaurant-Ordering/agent/contract"
	configx "github.com/tanpawarit/Chative-Restaurant-Ordering/pkg/config"
	qstashx "github.com/tanpawarit/Chative-Restaurant-Ordering/pkg/qstash"
)

const (
	BackendPostgres = "postgres"
	BackendUpstash  = "upstash"
	BackendKafka    = "kafka"
	BackendQStash   = "qstash"
)

type Config struct {
	// Backends is a comma separated list; empty disables the order log.
	Backends          []string `split_words:"true"`
	QStashDestination string   `envconfig:"QSTASH_DESTINATION"`
}

func (c Config) backends() ([]string, error) {
	seen := make(map[string]struct{}, len(c.Backends))
	var out []string
	for _, b := range c.Backends {
		b = strings.ToLower(strings.TrimSpace(b))
		if b == "" {
			continue
		}
		switch b {
		case BackendPostgres, BackendUpstash, BackendKafka, BackendQStash:
		default:
			return nil, fmt.Errorf("%w: unknown order log backend %q", contractx.ErrValidation, b)
		}
		if _, dup := seen[b]; dup {
			continue
		}
		seen[b] = struct{}{}
		out = append(out, b)
	}
	return out, nil
}

// Build assembles the configured sinks. Each backend reads its own
// environment prefix only when it is enabled.
func Build(ctx context.Context, cfg Config) (Log, error) {
	backends, err := cfg.backends()
	if err != nil {
		return nil, err
	}
	if len(backends) == 0 {
		return Discard{}, nil
	}

	multi := NewMulti()
	fail := func(err error) (Log, error) {
		_ = multi.Close()
		return nil, err
	}

	for _, backend := range backends {
		var sink Log
		switch backend {
		case BackendPostgres:
			pgCfg, err := configx.New[PostgresConfig]("POSTGRES")
			if err != nil {
				return fail(fmt.Errorf("postgres config: %w", err))
			}
			if sink, err = OpenPostgres(ctx, *pgCfg); err != nil {
				return fail(err)
			}
		case BackendUpstash:
			upCfg, err := configx.New[UpstashConfig]("UPSTASH")
			if err != nil {
				return fail(fmt.Errorf("upstash config: %w", err))
			}
			if sink, err = NewUpstashStore(*upCfg); err != nil {
				return fail(err)
			}
		case BackendKafka:
			kCfg, err := configx.New[KafkaConfig]("KAFKA")
			if err != nil {
				return fail(fmt.Errorf("kafka config: %w", err))
			}
			if sink, err = NewKafkaPublisher(*kCfg); err != nil {
				return fail(err)
			}
		case BackendQStash:
			qCfg, err := configx.New[qstashx.Config]("QSTASH")
			if err != nil {
				return fail(fmt.Errorf("qstash config: %w", err))
			}
			client, err := qstashx.NewClient(*qCfg)
			if err != nil {
				return fail(err)
			}
			if sink, err = NewQStashNotifier(client, cfg.QStashDestination); err != nil {
				return fail(err)
			}
		}
		multi.Add(backend, sink)
	}

	log.Info().Strs("backends", backends).Int("sinks", multi.Len()).Msg("order log ready")
	return multi, nil
}

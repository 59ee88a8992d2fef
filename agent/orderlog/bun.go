package orderlog

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	statex "github.com/tanpawarit/Chative-Restaurant-Ordering/agent/state"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/driver/pgdriver"
)

type PostgresConfig struct {
	DSN          string        `envconfig:"DSN" required:"true"`
	Timeout      time.Duration `split_words:"true" default:"5s"`
	EnsureSchema bool          `split_words:"true" default:"true"`
}

type orderRow struct {
	bun.BaseModel `bun:"table:orders"`

	ID           string       `bun:"id,pk"`
	Lines        []LineRecord `bun:"lines,type:jsonb,notnull"`
	TotalPrice   string       `bun:"total_price,type:numeric(12,2),notnull"`
	DeliveryDate string       `bun:"delivery_date,type:date,notnull"`
	DeliveryTime string       `bun:"delivery_time,notnull"`
	PlacedAt     time.Time    `bun:"placed_at,notnull"`
}

// BunStore appends orders to a Postgres table.
type BunStore struct {
	db *bun.DB
}

func NewBunStore(db *bun.DB) (*BunStore, error) {
	if db == nil {
		return nil, errors.New("bun db is required")
	}
	return &BunStore{db: db}, nil
}

// OpenPostgres connects through pgdriver and verifies the connection.
func OpenPostgres(ctx context.Context, cfg PostgresConfig) (*BunStore, error) {
	dsn := strings.TrimSpace(cfg.DSN)
	if dsn == "" {
		return nil, errors.New("postgres dsn is required")
	}

	opts := []pgdriver.Option{pgdriver.WithDSN(dsn)}
	if cfg.Timeout > 0 {
		opts = append(opts, pgdriver.WithTimeout(cfg.Timeout))
	}
	sqldb := sql.OpenDB(pgdriver.NewConnector(opts...))
	db := bun.NewDB(sqldb, pgdialect.New())

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}

	store := &BunStore{db: db}
	if cfg.EnsureSchema {
		if err := store.EnsureSchema(ctx); err != nil {
			_ = db.Close()
			return nil, err
		}
	}
	return store, nil
}

func (s *BunStore) EnsureSchema(ctx context.Context) error {
	_, err := s.db.NewCreateTable().
		Model((*orderRow)(nil)).
		IfNotExists().
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("create orders table: %w", err)
	}
	return nil
}

func (s *BunStore) Append(ctx context.Context, order statex.Order) error {
	rec := NewRecord(order)
	row := &orderRow{
		ID:           rec.OrderID,
		Lines:        rec.Lines,
		TotalPrice:   rec.TotalPrice,
		DeliveryDate: rec.DeliveryDate,
		DeliveryTime: rec.DeliveryTime,
		PlacedAt:     rec.PlacedAt,
	}
	if _, err := s.db.NewInsert().Model(row).Exec(ctx); err != nil {
		return fmt.Errorf("insert order %s: %w", rec.OrderID, err)
	}
	return nil
}

func (s *BunStore) Close() error {
	return s.db.Close()
}

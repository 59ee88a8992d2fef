package contract

import (
	"context"

	statex "github.com/tanpawarit/Chative-Restaurant-Ordering/agent/state"
)

// DataSource produces the raw restaurant data consumed by the load tool.
type DataSource interface {
	Fetch(ctx context.Context) (Dataset, error)
}

// Answerer generates an answer to a question from restaurant info text.
type Answerer interface {
	Answer(ctx context.Context, question string, info string) (string, error)
}

// OrderLog durably records placed orders. It never feeds back into session state.
type OrderLog interface {
	Append(ctx context.Context, order statex.Order) error
}

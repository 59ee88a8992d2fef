package state

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Order is the confirmation of a placed cart. The state engine does not keep it;
// it is handed to the order log.
type Order struct {
	ID           string          `json:"order_id"`
	Lines        []CartLine      `json:"lines"`
	Total        decimal.Decimal `json:"total_price"`
	DeliveryDate time.Time       `json:"delivery_date"`
	DeliveryDay  Weekday         `json:"delivery_day"`
	DeliveryTime string          `json:"delivery_time"`
	PlacedAt     time.Time       `json:"placed_at"`
}

// DeliveryDateString renders the delivery date as YYYY-MM-DD.
func (o Order) DeliveryDateString() string {
	return o.DeliveryDate.Format(DateLayout)
}

// NewOrderID returns "ORD-" followed by a UUIDv7, which sorts by creation time.
func NewOrderID() (string, error) {
	id, err := uuid.NewV7()
	if err != nil {
		return "", fmt.Errorf("generate order id: %w", err)
	}
	return "ORD-" + id.String(), nil
}

package orderlog

import (
	"encoding/json"
	"time"

	statex "github.com/tanpawarit/Chative-Restaurant-Ordering/agent/state"
)

type LineRecord struct {
	ItemName  string `json:"item_name"`
	Quantity  int    `json:"quantity"`
	UnitPrice string `json:"unit_price"`
}

// Record is the wire and storage form of a placed order.
type Record struct {
	OrderID      string       `json:"order_id"`
	Lines        []LineRecord `json:"lines"`
	TotalPrice   string       `json:"total_price"`
	DeliveryDate string       `json:"delivery_date"`
	DeliveryTime string       `json:"delivery_time"`
	PlacedAt     time.Time    `json:"placed_at"`
}

func NewRecord(order statex.Order) Record {
	lines := make([]LineRecord, 0, len(order.Lines))
	for _, l := range order.Lines {
		lines = append(lines, LineRecord{
			ItemName:  l.ItemName,
			Quantity:  l.Quantity,
			UnitPrice: l.UnitPrice.StringFixed(2),
		})
	}
	return Record{
		OrderID:      order.ID,
		Lines:        lines,
		TotalPrice:   order.Total.StringFixed(2),
		DeliveryDate: order.DeliveryDateString(),
		DeliveryTime: order.DeliveryTime,
		PlacedAt:     order.PlacedAt.UTC(),
	}
}

func (r Record) JSON() ([]byte, error) {
	return json.Marshal(r)
}

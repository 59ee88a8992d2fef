package state

import "github.com/shopspring/decimal"

// CartLine is one item in the cart. UnitPrice is captured when the item is first added.
type CartLine struct {
	ItemName  string          `json:"item_name"`
	Quantity  int             `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
}

// Subtotal is Quantity x UnitPrice.
func (l CartLine) Subtotal() decimal.Decimal {
	return l.UnitPrice.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

// Cart keeps at most one line per item (case-insensitive) in insertion order.
type Cart struct {
	lines []CartLine
}

// IsEmpty reports whether the cart has no lines.
func (c *Cart) IsEmpty() bool {
	return len(c.lines) == 0
}

// Lines returns a copy of the lines.
func (c *Cart) Lines() []CartLine {
	return append([]CartLine(nil), c.lines...)
}

// Total sums every line subtotal with exact decimal arithmetic.
func (c *Cart) Total() decimal.Decimal {
	return TotalOf(c.lines)
}

// TotalOf sums the subtotals of lines.
func TotalOf(lines []CartLine) decimal.Decimal {
	total := decimal.Zero
	for _, l := range lines {
		total = total.Add(l.Subtotal())
	}
	return total
}

// add merges into an existing line, keeping its first price snapshot, or appends a new one.
func (c *Cart) add(item CatalogItem, quantity int) CartLine {
	key := NormalizeName(item.Name)
	for i := range c.lines {
		if NormalizeName(c.lines[i].ItemName) == key {
			c.lines[i].Quantity += quantity
			return c.lines[i]
		}
	}
	line := CartLine{ItemName: item.Name, Quantity: quantity, UnitPrice: item.UnitPrice}
	c.lines = append(c.lines, line)
	return line
}

func (c *Cart) clear() {
	c.lines = nil
}

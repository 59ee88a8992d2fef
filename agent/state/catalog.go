package state

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// CatalogItem is a sellable menu entry.
type CatalogItem struct {
	Name              string          `json:"name"`
	UnitPrice         decimal.Decimal `json:"unit_price"`
	AvailableQuantity int             `json:"available_quantity"`
}

// Catalog holds items keyed by normalized name and remembers source order for listing.
type Catalog struct {
	items map[string]*CatalogItem
	order []string
}

// NormalizeName is the catalog and cart key: trimmed, case folded.
func NormalizeName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

func newCatalog(capacity int) *Catalog {
	return &Catalog{
		items: make(map[string]*CatalogItem, capacity),
		order: make([]string, 0, capacity),
	}
}

// Len returns the number of items.
func (c *Catalog) Len() int {
	if c == nil {
		return 0
	}
	return len(c.order)
}

// Find is a case-insensitive exact match. Partial names never match.
func (c *Catalog) Find(name string) (CatalogItem, bool) {
	if c == nil {
		return CatalogItem{}, false
	}
	it, ok := c.items[NormalizeName(name)]
	if !ok {
		return CatalogItem{}, false
	}
	return *it, true
}

// Items returns copies of all items in source order.
func (c *Catalog) Items() []CatalogItem {
	if c == nil {
		return nil
	}
	out := make([]CatalogItem, 0, len(c.order))
	for _, key := range c.order {
		out = append(out, *c.items[key])
	}
	return out
}

// decrementStock assumes the caller already checked AvailableQuantity >= quantity.
func (c *Catalog) decrementStock(name string, quantity int) {
	c.items[NormalizeName(name)].AvailableQuantity -= quantity
}

func buildCatalog(rows []Row) (*Catalog, error) {
	cat := newCatalog(len(rows))
	for i, row := range rows {
		n := i + 1
		name, ok := row.Get(FieldName)
		if !ok {
			return nil, &LoadError{Source: SourceMenu, Row: n, Field: FieldName, Reason: "missing"}
		}
		key := NormalizeName(name)
		if _, dup := cat.items[key]; dup {
			return nil, &LoadError{Source: SourceMenu, Row: n, Field: FieldName, Reason: fmt.Sprintf("duplicate item %q", name)}
		}

		rawPrice, ok := row.Get(FieldPrice)
		if !ok {
			return nil, &LoadError{Source: SourceMenu, Row: n, Field: FieldPrice, Reason: "missing"}
		}
		price, err := decimal.NewFromString(strings.TrimPrefix(rawPrice, "$"))
		if err != nil {
			return nil, &LoadError{Source: SourceMenu, Row: n, Field: FieldPrice, Reason: fmt.Sprintf("%q is not a number", rawPrice)}
		}
		if price.IsNegative() {
			return nil, &LoadError{Source: SourceMenu, Row: n, Field: FieldPrice, Reason: "must not be negative"}
		}

		rawQty, ok := row.Get(FieldQuantity)
		if !ok {
			return nil, &LoadError{Source: SourceMenu, Row: n, Field: FieldQuantity, Reason: "missing"}
		}
		if strings.HasPrefix(rawQty, "-") && isDigits(rawQty[1:]) {
			return nil, &LoadError{Source: SourceMenu, Row: n, Field: FieldQuantity, Reason: "must not be negative"}
		}
		if !isDigits(rawQty) {
			return nil, &LoadError{Source: SourceMenu, Row: n, Field: FieldQuantity, Reason: fmt.Sprintf("%q is not an integer", rawQty)}
		}
		qty, err := strconv.Atoi(rawQty)
		if err != nil {
			return nil, &LoadError{Source: SourceMenu, Row: n, Field: FieldQuantity, Reason: fmt.Sprintf("%q is not an integer", rawQty)}
		}
		if qty < 0 {
			return nil, &LoadError{Source: SourceMenu, Row: n, Field: FieldQuantity, Reason: "must not be negative"}
		}

		cat.items[key] = &CatalogItem{Name: name, UnitPrice: price, AvailableQuantity: qty}
		cat.order = append(cat.order, key)
	}
	return cat, nil
}

package state

import (
	"sync"
	"time"

	"github.com/shopspring/decimal"
)

// Session is the single in-memory aggregate behind every tool call: catalog,
// schedule, restaurant info text and the current cart.
//
// Mutations (Load, AddToCart, PlaceOrder) hold the write lock; reads share the
// read lock. No method blocks on I/O.
type Session struct {
	mu sync.RWMutex

	loaded   bool
	info     string
	catalog  *Catalog
	schedule Schedule
	cart     Cart

	now     func() time.Time
	orderID func() (string, error)
}

// Option customizes a Session.
type Option func(*Session)

// WithClock overrides the time source used for PlacedAt.
func WithClock(now func() time.Time) Option {
	return func(s *Session) {
		if now != nil {
			s.now = now
		}
	}
}

// WithOrderIDs overrides the order id generator.
func WithOrderIDs(gen func() (string, error)) Option {
	return func(s *Session) {
		if gen != nil {
			s.orderID = gen
		}
	}
}

// NewSession returns an empty, unloaded session.
func NewSession(opts ...Option) *Session {
	s := &Session{
		catalog:  newCatalog(0),
		schedule: Schedule{},
		now:      time.Now,
		orderID:  NewOrderID,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

// LoadSummary counts what a successful load installed.
type LoadSummary struct {
	Items int
	Days  int
}

// Load replaces catalog, schedule and info text. Rows are fully converted before
// anything is installed, so a *LoadError leaves the previous state untouched.
// The cart is never modified.
func (s *Session) Load(catalogRows, scheduleRows []Row, info string) (LoadSummary, error) {
	cat, err := buildCatalog(catalogRows)
	if err != nil {
		return LoadSummary{}, err
	}
	sched, err := buildSchedule(scheduleRows)
	if err != nil {
		return LoadSummary{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.catalog = cat
	s.schedule = sched
	s.info = info
	s.loaded = true

	return LoadSummary{Items: cat.Len(), Days: len(sched)}, nil
}

// IsReady reports whether data has been loaded.
func (s *Session) IsReady() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loaded
}

// Info returns the restaurant info text.
func (s *Session) Info() (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.loaded {
		return "", ErrDataNotLoaded
	}
	return s.info, nil
}

// FindItem looks an item up by case-insensitive exact name.
func (s *Session) FindItem(name string) (CatalogItem, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.catalog.Find(name)
}

// Menu returns every catalog item in source order.
func (s *Session) Menu() ([]CatalogItem, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.loaded {
		return nil, ErrDataNotLoaded
	}
	return s.catalog.Items(), nil
}

// Schedule returns a copy of the loaded schedule.
func (s *Session) Schedule() Schedule {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(Schedule, len(s.schedule))
	for k, v := range s.schedule {
		out[k] = v
	}
	return out
}

// AddToCart checks quantity and stock against the catalog's current availability
// and adds or merges a cart line. Stock is not reserved; placement re-checks it.
func (s *Session) AddToCart(name string, quantity int) (CartLine, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.loaded {
		return CartLine{}, ErrDataNotLoaded
	}
	if quantity <= 0 {
		return CartLine{}, ErrInvalidQuantity
	}
	item, ok := s.catalog.Find(name)
	if !ok {
		return CartLine{}, &InputError{Kind: ErrItemNotFound, Value: name}
	}
	if item.AvailableQuantity < quantity {
		return CartLine{}, &StockError{
			Kind:      ErrInsufficientStock,
			Item:      item.Name,
			Requested: quantity,
			Available: item.AvailableQuantity,
		}
	}
	return s.cart.add(item, quantity), nil
}

// CartView is a point-in-time copy of the cart.
type CartView struct {
	Lines []CartLine
	Total decimal.Decimal
}

// ViewCart returns the cart lines and their exact total. It needs no loaded data.
func (s *Session) ViewCart() CartView {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return CartView{Lines: s.cart.Lines(), Total: s.cart.Total()}
}

// IsCartEmpty reports whether the cart has no lines.
func (s *Session) IsCartEmpty() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cart.IsEmpty()
}

// PlaceOrder validates the cart against the schedule, re-checks every line's
// stock, then decrements stock and clears the cart. Any rejection leaves cart and
// catalog unchanged.
func (s *Session) PlaceOrder(deliveryDate, deliveryTime string) (Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	acc, err := ValidateOrder(Proposal{
		Ready:        s.loaded,
		Lines:        s.cart.lines,
		Schedule:     s.schedule,
		DeliveryDate: deliveryDate,
		DeliveryTime: deliveryTime,
	})
	if err != nil {
		return Order{}, err
	}

	lines := s.cart.Lines()
	for _, line := range lines {
		item, ok := s.catalog.Find(line.ItemName)
		if !ok {
			return Order{}, &StockError{Kind: ErrStockChanged, Item: line.ItemName, Requested: line.Quantity}
		}
		if item.AvailableQuantity < line.Quantity {
			return Order{}, &StockError{
				Kind:      ErrStockChanged,
				Item:      item.Name,
				Requested: line.Quantity,
				Available: item.AvailableQuantity,
			}
		}
	}

	id, err := s.orderID()
	if err != nil {
		return Order{}, err
	}

	for _, line := range lines {
		s.catalog.decrementStock(line.ItemName, line.Quantity)
	}
	s.cart.clear()

	return Order{
		ID:           id,
		Lines:        lines,
		Total:        TotalOf(lines),
		DeliveryDate: acc.Date,
		DeliveryDay:  acc.Day,
		DeliveryTime: acc.Time.String(),
		PlacedAt:     s.now().UTC(),
	}, nil
}

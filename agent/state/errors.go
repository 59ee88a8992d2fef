package state

import (
	"errors"
	"fmt"
)

var (
	ErrDataNotLoaded     = errors.New("restaurant data is not loaded")
	ErrLoad              = errors.New("load failed")
	ErrItemNotFound      = errors.New("item not found")
	ErrInsufficientStock = errors.New("insufficient stock")
	ErrInvalidQuantity   = errors.New("quantity must be a positive integer")
	ErrEmptyCart         = errors.New("cart is empty")
	ErrInvalidDate       = errors.New("invalid delivery date")
	ErrInvalidTime       = errors.New("invalid delivery time")
	ErrClosedOnDay       = errors.New("restaurant is closed on delivery day")
	ErrOutsideHours      = errors.New("delivery time is outside opening hours")
	ErrStockChanged      = errors.New("stock changed since item was added")
)

// LoadError points at the row and field that made a load fail.
type LoadError struct {
	Source string // "menu" or "schedule"
	Row    int    // 1-based data row, 0 when the error is not row specific
	Field  string
	Reason string
}

func (e *LoadError) Error() string {
	switch {
	case e.Row > 0 && e.Field != "":
		return fmt.Sprintf("%s row %d: %s: %s", e.Source, e.Row, e.Field, e.Reason)
	case e.Row > 0:
		return fmt.Sprintf("%s row %d: %s", e.Source, e.Row, e.Reason)
	default:
		return fmt.Sprintf("%s: %s", e.Source, e.Reason)
	}
}

func (e *LoadError) Unwrap() error { return ErrLoad }

// StockError reports an item whose stock cannot cover a requested quantity.
// Kind is ErrInsufficientStock (add to cart) or ErrStockChanged (placement).
type StockError struct {
	Kind      error
	Item      string
	Requested int
	Available int
}

func (e *StockError) Error() string {
	return fmt.Sprintf("%v: item=%s requested=%d available=%d", e.Kind, e.Item, e.Requested, e.Available)
}

func (e *StockError) Unwrap() error { return e.Kind }

// ScheduleError reports why a delivery slot was rejected.
// Kind is ErrClosedOnDay or ErrOutsideHours; Open/Close are set for the latter.
type ScheduleError struct {
	Kind  error
	Day   Weekday
	Time  string
	Open  string
	Close string
}

func (e *ScheduleError) Error() string {
	if e.Kind == ErrOutsideHours {
		return fmt.Sprintf("%v: %s at %s (open %s-%s)", e.Kind, e.Day.Title(), e.Time, e.Open, e.Close)
	}
	return fmt.Sprintf("%v: %s", e.Kind, e.Day.Title())
}

func (e *ScheduleError) Unwrap() error { return e.Kind }

// InputError carries the raw value of a rejected user input.
type InputError struct {
	Kind  error
	Value string
}

func (e *InputError) Error() string {
	return fmt.Sprintf("%v: %q", e.Kind, e.Value)
}

func (e *InputError) Unwrap() error { return e.Kind }

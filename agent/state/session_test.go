package state

import (
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"
)

// 2026-10-19 is a Monday, 2026-10-20 a Tuesday.
const (
	monday  = "2026-10-19"
	tuesday = "2026-10-20"
)

func menuRows() []Row {
	return []Row{
		{FieldName: "Burger", FieldPrice: "5.00", FieldQuantity: "10"},
		{FieldName: "Fries", FieldPrice: "$3.33", FieldQuantity: "20"},
		{FieldName: "Soda", FieldPrice: "1.50", FieldQuantity: "2"},
	}
}

func scheduleRows() []Row {
	return []Row{
		{FieldDay: "Monday", FieldOpenTime: "09:00", FieldCloseTime: "21:00"},
		{FieldDay: "tuesday", FieldOpenTime: "closed"},
	}
}

func newLoadedSession(t *testing.T, opts ...Option) *Session {
	t.Helper()

	s := NewSession(opts...)
	if _, err := s.Load(menuRows(), scheduleRows(), "Open daily except Tuesday."); err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	return s
}

func sequentialIDs() func() (string, error) {
	n := 0
	return func() (string, error) {
		n++
		return fmt.Sprintf("ORD-%d", n), nil
	}
}

func TestNewSessionIsNotReady(t *testing.T) {
	t.Parallel()

	s := NewSession()
	if s.IsReady() {
		t.Fatal("new session must not be ready")
	}
	if _, err := s.Menu(); !errors.Is(err, ErrDataNotLoaded) {
		t.Fatalf("Menu() error = %v, want ErrDataNotLoaded", err)
	}
	if _, err := s.AddToCart("Burger", 1); !errors.Is(err, ErrDataNotLoaded) {
		t.Fatalf("AddToCart() error = %v, want ErrDataNotLoaded", err)
	}
	if _, err := s.PlaceOrder(monday, "12:00"); !errors.Is(err, ErrDataNotLoaded) {
		t.Fatalf("PlaceOrder() error = %v, want ErrDataNotLoaded", err)
	}
	if view := s.ViewCart(); len(view.Lines) != 0 || !view.Total.IsZero() {
		t.Fatalf("ViewCart() = %#v, want empty", view)
	}
}

func TestLoadSummaryAndLookup(t *testing.T) {
	t.Parallel()

	s := NewSession()
	summary, err := s.Load(menuRows(), scheduleRows(), "info")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if summary.Items != 3 || summary.Days != 2 {
		t.Fatalf("Load() summary = %#v", summary)
	}
	if !s.IsReady() {
		t.Fatal("session must be ready after load")
	}

	item, ok := s.FindItem("  bUrGeR ")
	if !ok {
		t.Fatal("FindItem() must match case-insensitively")
	}
	if item.Name != "Burger" || item.AvailableQuantity != 10 || item.UnitPrice.StringFixed(2) != "5.00" {
		t.Fatalf("FindItem() = %#v", item)
	}
	if _, ok := s.FindItem("Burg"); ok {
		t.Fatal("FindItem() must not match partial names")
	}

	menu, err := s.Menu()
	if err != nil {
		t.Fatalf("Menu() error = %v", err)
	}
	if len(menu) != 3 || menu[0].Name != "Burger" || menu[2].Name != "Soda" {
		t.Fatalf("Menu() order = %#v", menu)
	}
}

func TestLoadFailureLeavesStateUntouched(t *testing.T) {
	t.Parallel()

	s := newLoadedSession(t)
	if _, err := s.AddToCart("Burger", 2); err != nil {
		t.Fatalf("AddToCart() error = %v", err)
	}

	badSchedule := []Row{{FieldDay: "Funday", FieldOpenTime: "09:00", FieldCloseTime: "10:00"}}
	newMenu := []Row{{FieldName: "Pizza", FieldPrice: "9.00", FieldQuantity: "4"}}

	_, err := s.Load(newMenu, badSchedule, "new info")
	if !errors.Is(err, ErrLoad) {
		t.Fatalf("Load() error = %v, want ErrLoad", err)
	}
	var loadErr *LoadError
	if !errors.As(err, &loadErr) || loadErr.Source != SourceSchedule || loadErr.Row != 1 || loadErr.Field != FieldDay {
		t.Fatalf("Load() error = %#v", err)
	}

	if _, ok := s.FindItem("Pizza"); ok {
		t.Fatal("catalog must not be half-updated after a failed load")
	}
	if info, _ := s.Info(); info != "Open daily except Tuesday." {
		t.Fatalf("Info() = %q, want previous info", info)
	}
	if view := s.ViewCart(); len(view.Lines) != 1 {
		t.Fatalf("cart changed by failed load: %#v", view.Lines)
	}
}

func TestLoadFailureKeepsUnloadedFlag(t *testing.T) {
	t.Parallel()

	s := NewSession()
	_, err := s.Load([]Row{{FieldName: "Burger", FieldPrice: "abc", FieldQuantity: "1"}}, nil, "")
	if !errors.Is(err, ErrLoad) {
		t.Fatalf("Load() error = %v, want ErrLoad", err)
	}
	if s.IsReady() {
		t.Fatal("failed load must not mark session ready")
	}
}

func TestReloadIsIdempotentAndKeepsCart(t *testing.T) {
	t.Parallel()

	s := newLoadedSession(t)
	if _, err := s.AddToCart("Fries", 3); err != nil {
		t.Fatalf("AddToCart() error = %v", err)
	}
	before, _ := s.Menu()
	sched := s.Schedule()

	if _, err := s.Load(menuRows(), scheduleRows(), "Open daily except Tuesday."); err != nil {
		t.Fatalf("second Load() error = %v", err)
	}

	after, _ := s.Menu()
	if len(before) != len(after) {
		t.Fatalf("menu size changed: %d -> %d", len(before), len(after))
	}
	for i := range before {
		if before[i].Name != after[i].Name ||
			!before[i].UnitPrice.Equal(after[i].UnitPrice) ||
			before[i].AvailableQuantity != after[i].AvailableQuantity {
			t.Fatalf("menu[%d] changed: %#v -> %#v", i, before[i], after[i])
		}
	}
	for day, want := range sched {
		if got := s.Schedule()[day]; got != want {
			t.Fatalf("schedule[%s] = %#v, want %#v", day, got, want)
		}
	}

	view := s.ViewCart()
	if len(view.Lines) != 1 || view.Lines[0].Quantity != 3 {
		t.Fatalf("reload must not touch the cart: %#v", view.Lines)
	}
}

func TestAddToCartMergesAndKeepsFirstPrice(t *testing.T) {
	t.Parallel()

	s := newLoadedSession(t)
	if _, err := s.AddToCart("Burger", 1); err != nil {
		t.Fatalf("AddToCart() error = %v", err)
	}

	repriced := menuRows()
	repriced[0][FieldPrice] = "7.25"
	if _, err := s.Load(repriced, scheduleRows(), ""); err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	line, err := s.AddToCart("BURGER", 2)
	if err != nil {
		t.Fatalf("AddToCart() error = %v", err)
	}
	if line.Quantity != 3 {
		t.Fatalf("merged quantity = %d, want 3", line.Quantity)
	}

	view := s.ViewCart()
	if len(view.Lines) != 1 {
		t.Fatalf("expected one merged line, got %#v", view.Lines)
	}
	if got := view.Lines[0].UnitPrice.StringFixed(2); got != "5.00" {
		t.Fatalf("price snapshot = %s, want 5.00", got)
	}
	if got := view.Total.StringFixed(2); got != "15.00" {
		t.Fatalf("total = %s, want 15.00", got)
	}
}

func TestCartTotalIsExact(t *testing.T) {
	t.Parallel()

	s := newLoadedSession(t)
	for i := 0; i < 3; i++ {
		if _, err := s.AddToCart("Fries", 1); err != nil {
			t.Fatalf("AddToCart() error = %v", err)
		}
	}
	total := s.ViewCart().Total
	if total.String() != "9.99" {
		t.Fatalf("total = %s, want exactly 9.99", total.String())
	}
}

func TestAddToCartInsufficientStock(t *testing.T) {
	t.Parallel()

	s := newLoadedSession(t)
	_, err := s.AddToCart("soda", 5)
	if !errors.Is(err, ErrInsufficientStock) {
		t.Fatalf("AddToCart() error = %v, want ErrInsufficientStock", err)
	}
	var stockErr *StockError
	if !errors.As(err, &stockErr) || stockErr.Available != 2 || stockErr.Item != "Soda" {
		t.Fatalf("AddToCart() error = %#v", err)
	}
	if !s.IsCartEmpty() {
		t.Fatal("cart must be unchanged")
	}
	if item, _ := s.FindItem("Soda"); item.AvailableQuantity != 2 {
		t.Fatalf("stock = %d, want 2", item.AvailableQuantity)
	}
}

func TestAddToCartRejectsBadInput(t *testing.T) {
	t.Parallel()

	s := newLoadedSession(t)
	if _, err := s.AddToCart("Burger", 0); !errors.Is(err, ErrInvalidQuantity) {
		t.Fatalf("AddToCart(0) error = %v, want ErrInvalidQuantity", err)
	}
	if _, err := s.AddToCart("Burger", -1); !errors.Is(err, ErrInvalidQuantity) {
		t.Fatalf("AddToCart(-1) error = %v, want ErrInvalidQuantity", err)
	}
	_, err := s.AddToCart("Pizza", 1)
	if !errors.Is(err, ErrItemNotFound) {
		t.Fatalf("AddToCart(Pizza) error = %v, want ErrItemNotFound", err)
	}
	var inputErr *InputError
	if !errors.As(err, &inputErr) || inputErr.Value != "Pizza" {
		t.Fatalf("AddToCart(Pizza) error = %#v", err)
	}
}

func TestPlaceOrderOnClosedDayLeavesState(t *testing.T) {
	t.Parallel()

	s := newLoadedSession(t)
	if _, err := s.AddToCart("Burger", 3); err != nil {
		t.Fatalf("AddToCart() error = %v", err)
	}
	if got := s.ViewCart().Total.StringFixed(2); got != "15.00" {
		t.Fatalf("total = %s, want 15.00", got)
	}

	_, err := s.PlaceOrder(tuesday, "12:00")
	if !errors.Is(err, ErrClosedOnDay) {
		t.Fatalf("PlaceOrder() error = %v, want ErrClosedOnDay", err)
	}
	var schedErr *ScheduleError
	if !errors.As(err, &schedErr) || schedErr.Day != Tuesday {
		t.Fatalf("PlaceOrder() error = %#v", err)
	}

	view := s.ViewCart()
	if len(view.Lines) != 1 || view.Lines[0].Quantity != 3 {
		t.Fatalf("cart changed: %#v", view.Lines)
	}
	if item, _ := s.FindItem("Burger"); item.AvailableQuantity != 10 {
		t.Fatalf("stock = %d, want 10", item.AvailableQuantity)
	}
}

func TestPlaceOrderOnMissingDay(t *testing.T) {
	t.Parallel()

	s := newLoadedSession(t)
	if _, err := s.AddToCart("Burger", 1); err != nil {
		t.Fatalf("AddToCart() error = %v", err)
	}
	// 2026-10-21 is a Wednesday, absent from the schedule.
	if _, err := s.PlaceOrder("2026-10-21", "12:00"); !errors.Is(err, ErrClosedOnDay) {
		t.Fatalf("PlaceOrder() error = %v, want ErrClosedOnDay", err)
	}
}

func TestPlaceOrderAccepted(t *testing.T) {
	t.Parallel()

	placedAt := time.Date(2026, 10, 16, 8, 0, 0, 0, time.UTC)
	s := newLoadedSession(t,
		WithClock(func() time.Time { return placedAt }),
		WithOrderIDs(sequentialIDs()),
	)
	if _, err := s.AddToCart("Burger", 3); err != nil {
		t.Fatalf("AddToCart() error = %v", err)
	}

	order, err := s.PlaceOrder(monday, "12:00")
	if err != nil {
		t.Fatalf("PlaceOrder() error = %v", err)
	}
	if order.ID != "ORD-1" {
		t.Fatalf("order id = %q", order.ID)
	}
	if order.Total.StringFixed(2) != "15.00" {
		t.Fatalf("order total = %s", order.Total.StringFixed(2))
	}
	if order.DeliveryDateString() != monday || order.DeliveryDay != Monday || order.DeliveryTime != "12:00" {
		t.Fatalf("order slot = %s %s %s", order.DeliveryDateString(), order.DeliveryDay, order.DeliveryTime)
	}
	if !order.PlacedAt.Equal(placedAt) {
		t.Fatalf("placed at = %v", order.PlacedAt)
	}
	if len(order.Lines) != 1 || order.Lines[0].Quantity != 3 {
		t.Fatalf("order lines = %#v", order.Lines)
	}

	if !s.IsCartEmpty() {
		t.Fatal("cart must be empty after placement")
	}
	if item, _ := s.FindItem("Burger"); item.AvailableQuantity != 7 {
		t.Fatalf("Burger stock = %d, want 7", item.AvailableQuantity)
	}
	if item, _ := s.FindItem("Fries"); item.AvailableQuantity != 20 {
		t.Fatalf("Fries stock = %d, want 20", item.AvailableQuantity)
	}
}

func TestPlaceOrderIDsAreUnique(t *testing.T) {
	t.Parallel()

	s := newLoadedSession(t)
	seen := map[string]bool{}
	for i := 0; i < 3; i++ {
		if _, err := s.AddToCart("Burger", 1); err != nil {
			t.Fatalf("AddToCart() error = %v", err)
		}
		order, err := s.PlaceOrder(monday, "10:30")
		if err != nil {
			t.Fatalf("PlaceOrder() error = %v", err)
		}
		if seen[order.ID] {
			t.Fatalf("duplicate order id %q", order.ID)
		}
		seen[order.ID] = true
	}
}

func TestPlaceOrderOutsideHours(t *testing.T) {
	t.Parallel()

	s := newLoadedSession(t)
	if _, err := s.AddToCart("Burger", 1); err != nil {
		t.Fatalf("AddToCart() error = %v", err)
	}

	_, err := s.PlaceOrder(monday, "08:59")
	var schedErr *ScheduleError
	if !errors.As(err, &schedErr) || !errors.Is(err, ErrOutsideHours) {
		t.Fatalf("PlaceOrder() error = %v, want ErrOutsideHours", err)
	}
	if schedErr.Open != "09:00" || schedErr.Close != "21:00" {
		t.Fatalf("window = %s-%s", schedErr.Open, schedErr.Close)
	}
	if s.IsCartEmpty() {
		t.Fatal("cart must be unchanged after rejection")
	}
}

func TestPlaceOrderRejectsSignedTime(t *testing.T) {
	t.Parallel()

	s := newLoadedSession(t)
	if _, err := s.AddToCart("Burger", 1); err != nil {
		t.Fatalf("AddToCart() error = %v", err)
	}

	for _, at := range []string{"12:+5", "+9:00", "12:-0"} {
		if _, err := s.PlaceOrder(monday, at); !errors.Is(err, ErrInvalidTime) {
			t.Fatalf("PlaceOrder(%q) error = %v, want ErrInvalidTime", at, err)
		}
	}
	if s.IsCartEmpty() {
		t.Fatal("cart must be unchanged after rejection")
	}
	if item, _ := s.FindItem("Burger"); item.AvailableQuantity != 10 {
		t.Fatalf("stock = %d, want 10", item.AvailableQuantity)
	}
}

func TestPlaceOrderStockChangedIsAtomic(t *testing.T) {
	t.Parallel()

	s := newLoadedSession(t)
	if _, err := s.AddToCart("Burger", 2); err != nil {
		t.Fatalf("AddToCart() error = %v", err)
	}
	if _, err := s.AddToCart("Fries", 5); err != nil {
		t.Fatalf("AddToCart() error = %v", err)
	}

	shrunk := menuRows()
	shrunk[1][FieldQuantity] = "4"
	if _, err := s.Load(shrunk, scheduleRows(), ""); err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	_, err := s.PlaceOrder(monday, "12:00")
	var stockErr *StockError
	if !errors.As(err, &stockErr) || !errors.Is(err, ErrStockChanged) {
		t.Fatalf("PlaceOrder() error = %v, want ErrStockChanged", err)
	}
	if stockErr.Item != "Fries" || stockErr.Available != 4 {
		t.Fatalf("PlaceOrder() error = %#v", stockErr)
	}

	if item, _ := s.FindItem("Burger"); item.AvailableQuantity != 10 {
		t.Fatalf("Burger stock = %d, want 10 (no partial decrement)", item.AvailableQuantity)
	}
	if len(s.ViewCart().Lines) != 2 {
		t.Fatal("cart must be unchanged")
	}
}

func TestPlaceOrderItemRemovedByReload(t *testing.T) {
	t.Parallel()

	s := newLoadedSession(t)
	if _, err := s.AddToCart("Soda", 1); err != nil {
		t.Fatalf("AddToCart() error = %v", err)
	}
	if _, err := s.Load(menuRows()[:2], scheduleRows(), ""); err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	_, err := s.PlaceOrder(monday, "12:00")
	var stockErr *StockError
	if !errors.As(err, &stockErr) || stockErr.Available != 0 {
		t.Fatalf("PlaceOrder() error = %v, want StockChanged with 0 available", err)
	}
}

func TestPlaceOrderIDFailureLeavesState(t *testing.T) {
	t.Parallel()

	s := newLoadedSession(t, WithOrderIDs(func() (string, error) {
		return "", errors.New("entropy exhausted")
	}))
	if _, err := s.AddToCart("Burger", 1); err != nil {
		t.Fatalf("AddToCart() error = %v", err)
	}
	if _, err := s.PlaceOrder(monday, "12:00"); err == nil {
		t.Fatal("expected error but got nil")
	}
	if s.IsCartEmpty() {
		t.Fatal("cart must be unchanged")
	}
	if item, _ := s.FindItem("Burger"); item.AvailableQuantity != 10 {
		t.Fatalf("stock = %d, want 10", item.AvailableQuantity)
	}
}

func TestConcurrentAddsNeverOversell(t *testing.T) {
	t.Parallel()

	s := newLoadedSession(t)
	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = s.AddToCart("Burger", 1)
			_ = s.ViewCart()
		}()
	}
	wg.Wait()

	view := s.ViewCart()
	if len(view.Lines) != 1 || view.Lines[0].Quantity != 20 {
		t.Fatalf("cart = %#v, want one line of 20", view.Lines)
	}
	if _, err := s.PlaceOrder(monday, "12:00"); !errors.Is(err, ErrStockChanged) {
		t.Fatalf("PlaceOrder() error = %v, want ErrStockChanged", err)
	}
}

package tool

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	contractx "github.com/tanpawarit/Chative-Restaurant-Ordering/agent/contract"
	statex "github.com/tanpawarit/Chative-Restaurant-Ordering/agent/state"
)

// Error kinds reported in contract.ToolResult.Error.
const (
	KindDataNotLoaded     = "data_not_loaded"
	KindLoad              = "load_error"
	KindItemNotFound      = "item_not_found"
	KindInsufficientStock = "insufficient_stock"
	KindInvalidQuantity   = "invalid_quantity"
	KindEmptyCart         = "empty_cart"
	KindInvalidDate       = "invalid_date"
	KindInvalidTime       = "invalid_time"
	KindClosedOnDay       = "closed_on_day"
	KindOutsideHours      = "outside_hours"
	KindStockChanged      = "stock_changed"
	KindInvalidArgument   = "invalid_argument"
	KindAnswerFailed      = "answer_failed"
	KindUnavailable       = "unavailable"
	KindInternal          = "internal"
)

func success(tool, text string) contractx.ToolResult {
	return contractx.ToolResult{Tool: tool, Text: text}
}

func failure(tool string, err error) contractx.ToolResult {
	kind, msg := describe(err)
	return contractx.ToolResult{Tool: tool, Text: "Error: " + msg, Error: kind}
}

// describe maps an error to its kind and the user-facing message.
func describe(err error) (string, string) {
	var (
		argErr   *argError
		stockErr *statex.StockError
		schedErr *statex.ScheduleError
		inputErr *statex.InputError
		loadErr  *statex.LoadError
	)

	switch {
	case errors.As(err, &argErr):
		return KindInvalidArgument, fmt.Sprintf("Invalid input: %s.", argErr.Error())
	case errors.Is(err, statex.ErrDataNotLoaded):
		return KindDataNotLoaded, "Restaurant data is not loaded yet. Please run the load tool first."
	case errors.As(err, &loadErr):
		return KindLoad, fmt.Sprintf("Failed to load restaurant data: %s.", loadErr.Error())
	case errors.Is(err, contractx.ErrSourceUnavailable):
		return KindLoad, fmt.Sprintf("Failed to load restaurant data: %v.", err)
	case errors.Is(err, statex.ErrInvalidQuantity):
		return KindInvalidQuantity, "Quantity must be a positive whole number."
	case errors.Is(err, statex.ErrItemNotFound) && errors.As(err, &inputErr):
		return KindItemNotFound, fmt.Sprintf("Item '%s' was not found on the menu. Use the exact name from the menu.", inputErr.Value)
	case errors.Is(err, statex.ErrInsufficientStock) && errors.As(err, &stockErr):
		return KindInsufficientStock, fmt.Sprintf("Not enough stock for '%s'. You asked for %d, but only %d available.",
			stockErr.Item, stockErr.Requested, stockErr.Available)
	case errors.Is(err, statex.ErrEmptyCart):
		return KindEmptyCart, "Your cart is empty. Add items before placing an order."
	case errors.Is(err, statex.ErrInvalidDate) && errors.As(err, &inputErr):
		return KindInvalidDate, fmt.Sprintf("Invalid delivery date '%s'. Please use the YYYY-MM-DD format.", inputErr.Value)
	case errors.Is(err, statex.ErrInvalidTime) && errors.As(err, &inputErr):
		return KindInvalidTime, fmt.Sprintf("Invalid delivery time '%s'. Please use the 24-hour HH:MM format.", inputErr.Value)
	case errors.Is(err, statex.ErrClosedOnDay) && errors.As(err, &schedErr):
		return KindClosedOnDay, fmt.Sprintf("Sorry, the restaurant is closed on %s. Please choose another delivery date.", schedErr.Day.Title())
	case errors.Is(err, statex.ErrOutsideHours) && errors.As(err, &schedErr):
		return KindOutsideHours, fmt.Sprintf("Delivery time %s is outside opening hours on %s (%s - %s).",
			schedErr.Time, schedErr.Day.Title(), schedErr.Open, schedErr.Close)
	case errors.Is(err, statex.ErrStockChanged) && errors.As(err, &stockErr):
		return KindStockChanged, fmt.Sprintf("Stock for '%s' changed since it was added to your cart: %d requested, only %d available now. Your order was not placed.",
			stockErr.Item, stockErr.Requested, stockErr.Available)
	default:
		return KindInternal, fmt.Sprintf("Unexpected failure: %v.", err)
	}
}

func money(d decimal.Decimal) string {
	return "$" + d.StringFixed(2)
}

func renderMenu(items []statex.CatalogItem) string {
	if len(items) == 0 {
		return "The menu is currently empty."
	}
	var b strings.Builder
	b.WriteString("Here is our menu:")
	for _, it := range items {
		fmt.Fprintf(&b, "\n• %s - %s", it.Name, money(it.UnitPrice))
	}
	return b.String()
}

func renderCart(view statex.CartView) string {
	if len(view.Lines) == 0 {
		return "Your cart is empty."
	}
	var b strings.Builder
	b.WriteString("Your cart:")
	for _, l := range view.Lines {
		fmt.Fprintf(&b, "\n• %d x %s @ %s = %s", l.Quantity, l.ItemName, money(l.UnitPrice), money(l.Subtotal()))
	}
	fmt.Fprintf(&b, "\nTotal Price: %s", money(view.Total))
	return b.String()
}

func renderOrder(order statex.Order) string {
	return fmt.Sprintf("Success! Your order totaling %s will be delivered on %s (%s) at %s. Your order ID is %s.",
		money(order.Total), order.DeliveryDateString(), order.DeliveryDay.Title(), order.DeliveryTime, order.ID)
}

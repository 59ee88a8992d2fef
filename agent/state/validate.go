package state

import (
	"strings"
	"time"
)

// DateLayout is the accepted delivery date format.
const DateLayout = "2006-01-02"

// Proposal is an order candidate: the cart plus the requested delivery slot.
type Proposal struct {
	Ready        bool
	Lines        []CartLine
	Schedule     Schedule
	DeliveryDate string
	DeliveryTime string
}

// Acceptance is the normalized delivery slot of an accepted proposal.
type Acceptance struct {
	Date   time.Time
	Day    Weekday
	Time   Clock
	Window DaySchedule
}

// ValidateOrder decides whether a proposal may be placed. It has no side effects
// and checks, in order: data loaded, cart non-empty, date, day open, time in window.
// Per-line stock is checked by placement, not here.
func ValidateOrder(p Proposal) (Acceptance, error) {
	if !p.Ready {
		return Acceptance{}, ErrDataNotLoaded
	}
	if len(p.Lines) == 0 {
		return Acceptance{}, ErrEmptyCart
	}

	date, err := time.Parse(DateLayout, strings.TrimSpace(p.DeliveryDate))
	if err != nil {
		return Acceptance{}, &InputError{Kind: ErrInvalidDate, Value: p.DeliveryDate}
	}

	day := WeekdayOf(date)
	window, ok := p.Schedule.Lookup(day)
	if !ok || window.Closed {
		return Acceptance{}, &ScheduleError{Kind: ErrClosedOnDay, Day: day}
	}

	at, err := ParseClock(p.DeliveryTime)
	if err != nil {
		return Acceptance{}, &InputError{Kind: ErrInvalidTime, Value: p.DeliveryTime}
	}
	if !window.Allows(at) {
		return Acceptance{}, &ScheduleError{
			Kind:  ErrOutsideHours,
			Day:   day,
			Time:  at.String(),
			Open:  window.Open.String(),
			Close: window.Close.String(),
		}
	}

	return Acceptance{Date: date, Day: day, Time: at, Window: window}, nil
}

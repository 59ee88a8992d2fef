package state

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Weekday is a lower-case day name, "monday" through "sunday".
type Weekday string

const (
	Monday    Weekday = "monday"
	Tuesday   Weekday = "tuesday"
	Wednesday Weekday = "wednesday"
	Thursday  Weekday = "thursday"
	Friday    Weekday = "friday"
	Saturday  Weekday = "saturday"
	Sunday    Weekday = "sunday"
)

// ClosedSentinel marks a day without service in the open_time column.
const ClosedSentinel = "closed"

var weekdays = [...]Weekday{Sunday, Monday, Tuesday, Wednesday, Thursday, Friday, Saturday}

// WeekdayOf maps a calendar date to its day name; time.Weekday is locale independent.
func WeekdayOf(t time.Time) Weekday {
	return weekdays[t.Weekday()]
}

// ParseWeekday accepts a day name in any case, surrounding spaces ignored.
func ParseWeekday(s string) (Weekday, bool) {
	d := Weekday(strings.ToLower(strings.TrimSpace(s)))
	for _, w := range weekdays {
		if w == d {
			return d, true
		}
	}
	return "", false
}

// Title returns the capitalised day name for messages.
func (d Weekday) Title() string {
	if d == "" {
		return ""
	}
	return strings.ToUpper(string(d[:1])) + string(d[1:])
}

// Clock is a time of day in minutes after midnight.
type Clock int

// ParseClock parses a 24-hour "H:MM" or "HH:MM" value.
func ParseClock(s string) (Clock, error) {
	raw := strings.TrimSpace(s)
	hh, mm, ok := strings.Cut(raw, ":")
	if !ok || len(hh) == 0 || len(hh) > 2 || len(mm) != 2 {
		return 0, fmt.Errorf("time %q is not HH:MM", s)
	}
	if !isDigits(hh) || !isDigits(mm) {
		return 0, fmt.Errorf("time %q is not HH:MM", s)
	}
	h, err := strconv.Atoi(hh)
	if err != nil || h < 0 || h > 23 {
		return 0, fmt.Errorf("time %q has invalid hour", s)
	}
	m, err := strconv.Atoi(mm)
	if err != nil || m < 0 || m > 59 {
		return 0, fmt.Errorf("time %q has invalid minute", s)
	}
	return Clock(h*60 + m), nil
}

// isDigits reports whether s is non-empty and holds only ASCII digits.
func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

// String renders the zero-padded "HH:MM" form.
func (c Clock) String() string {
	return fmt.Sprintf("%02d:%02d", int(c)/60, int(c)%60)
}

// DaySchedule is the service window of one day. Open and Close are ignored when Closed.
type DaySchedule struct {
	Day    Weekday `json:"day"`
	Closed bool    `json:"closed"`
	Open   Clock   `json:"open"`
	Close  Clock   `json:"close"`
}

// OpenTime renders the open_time column, "closed" for closed days.
func (d DaySchedule) OpenTime() string {
	if d.Closed {
		return ClosedSentinel
	}
	return d.Open.String()
}

// Allows reports whether t falls in the inclusive [Open, Close] window.
func (d DaySchedule) Allows(t Clock) bool {
	return !d.Closed && t >= d.Open && t <= d.Close
}

// Schedule maps each day to at most one window. Missing days are closed.
type Schedule map[Weekday]DaySchedule

// Lookup returns the window for day, if any.
func (s Schedule) Lookup(day Weekday) (DaySchedule, bool) {
	d, ok := s[day]
	return d, ok
}

func buildSchedule(rows []Row) (Schedule, error) {
	sched := make(Schedule, len(rows))
	for i, row := range rows {
		n := i + 1
		rawDay, ok := row.Get(FieldDay)
		if !ok {
			return nil, &LoadError{Source: SourceSchedule, Row: n, Field: FieldDay, Reason: "missing"}
		}
		day, ok := ParseWeekday(rawDay)
		if !ok {
			return nil, &LoadError{Source: SourceSchedule, Row: n, Field: FieldDay, Reason: fmt.Sprintf("unknown day %q", rawDay)}
		}
		if _, dup := sched[day]; dup {
			return nil, &LoadError{Source: SourceSchedule, Row: n, Field: FieldDay, Reason: fmt.Sprintf("duplicate entry for %s", day)}
		}

		rawOpen, ok := row.Get(FieldOpenTime)
		if !ok {
			return nil, &LoadError{Source: SourceSchedule, Row: n, Field: FieldOpenTime, Reason: "missing"}
		}
		if strings.EqualFold(rawOpen, ClosedSentinel) {
			sched[day] = DaySchedule{Day: day, Closed: true}
			continue
		}
		open, err := ParseClock(rawOpen)
		if err != nil {
			return nil, &LoadError{Source: SourceSchedule, Row: n, Field: FieldOpenTime, Reason: err.Error()}
		}

		rawClose, ok := row.Get(FieldCloseTime)
		if !ok {
			return nil, &LoadError{Source: SourceSchedule, Row: n, Field: FieldCloseTime, Reason: "missing"}
		}
		closing, err := ParseClock(rawClose)
		if err != nil {
			return nil, &LoadError{Source: SourceSchedule, Row: n, Field: FieldCloseTime, Reason: err.Error()}
		}
		if closing < open {
			return nil, &LoadError{Source: SourceSchedule, Row: n, Field: FieldCloseTime, Reason: "close time is before open time"}
		}

		sched[day] = DaySchedule{Day: day, Open: open, Close: closing}
	}
	return sched, nil
}

package domain

import "time"

// SlotHours is the working capacity of one half-day slot.
const SlotHours = 3.0

// Slot is a half-day working interval: a calendar date plus a period.
// Dates carry no clock component; they are normalized to midnight UTC.
type Slot struct {
	Date   time.Time
	Period Period
}

// NewSlot builds a slot from a date, discarding any clock component.
func NewSlot(date time.Time, period Period) Slot {
	return Slot{Date: Midnight(date), Period: period}
}

// Midnight truncates a timestamp to its calendar date at midnight UTC.
func Midnight(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// Compare orders slots by (date, period), morning before afternoon.
// Returns -1, 0 or 1.
func (s Slot) Compare(o Slot) int {
	switch {
	case s.Date.Before(o.Date):
		return -1
	case s.Date.After(o.Date):
		return 1
	case s.Period == o.Period:
		return 0
	case s.Period == PeriodMorning:
		return -1
	default:
		return 1
	}
}

// Before reports whether s comes strictly before o in slot order.
func (s Slot) Before(o Slot) bool { return s.Compare(o) < 0 }

// After reports whether s comes strictly after o in slot order.
func (s Slot) After(o Slot) bool { return s.Compare(o) > 0 }

// String renders the slot as "2006-01-02 morning".
func (s Slot) String() string {
	return s.Date.Format("2006-01-02") + " " + string(s.Period)
}

// MaxSlot returns the later of two slots.
func MaxSlot(a, b Slot) Slot {
	if a.After(b) {
		return a
	}
	return b
}

// MinSlot returns the earlier of two slots.
func MinSlot(a, b Slot) Slot {
	if a.Before(b) {
		return a
	}
	return b
}

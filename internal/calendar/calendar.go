// Package calendar enumerates the working half-day slots of a sprint
// window. Weekends are excluded; every working day contributes a morning
// and an afternoon slot, totally ordered by (date, period).
package calendar

import (
	"time"

	"github.com/dfarias/sprinter/internal/domain"
)

// Calendar holds the ordered slot sequence for one sprint window.
type Calendar struct {
	slots []domain.Slot
	index map[domain.Slot]int
}

// New builds the calendar for the inclusive date range [start, end].
func New(start, end time.Time) *Calendar {
	c := &Calendar{index: make(map[domain.Slot]int)}
	for d := domain.Midnight(start); !d.After(domain.Midnight(end)); d = d.AddDate(0, 0, 1) {
		if wd := d.Weekday(); wd == time.Saturday || wd == time.Sunday {
			continue
		}
		for _, p := range []domain.Period{domain.PeriodMorning, domain.PeriodAfternoon} {
			s := domain.Slot{Date: d, Period: p}
			c.index[s] = len(c.slots)
			c.slots = append(c.slots, s)
		}
	}
	return c
}

// Len returns the number of working slots in the window.
func (c *Calendar) Len() int { return len(c.slots) }

// Slots returns the ordered slot sequence. Callers must not mutate it.
func (c *Calendar) Slots() []domain.Slot { return c.slots }

// At returns the slot at position i.
func (c *Calendar) At(i int) domain.Slot { return c.slots[i] }

// Index returns the position of s, or false when s is not a working slot
// of this window.
func (c *Calendar) Index(s domain.Slot) (int, bool) {
	i, ok := c.index[s]
	return i, ok
}

// First returns the earliest working slot, or false for an empty window.
func (c *Calendar) First() (domain.Slot, bool) {
	if len(c.slots) == 0 {
		return domain.Slot{}, false
	}
	return c.slots[0], true
}

// Last returns the latest working slot, or false for an empty window.
func (c *Calendar) Last() (domain.Slot, bool) {
	if len(c.slots) == 0 {
		return domain.Slot{}, false
	}
	return c.slots[len(c.slots)-1], true
}

// Contains reports whether the date (any period) falls inside the window
// on a working day.
func (c *Calendar) Contains(date time.Time) bool {
	_, ok := c.index[domain.NewSlot(date, domain.PeriodMorning)]
	return ok
}

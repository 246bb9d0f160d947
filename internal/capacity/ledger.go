// Package capacity tracks per-executor remaining hours across the sprint's
// working slots. The ledger is initialized from the calendar and the
// declared day-offs, and only ever decreases while the scheduler commits
// placements.
package capacity

import (
	"fmt"

	"github.com/dfarias/sprinter/internal/calendar"
	"github.com/dfarias/sprinter/internal/domain"
)

// ErrOverdraw is returned by Consume when a debit exceeds the remaining
// hours of a slot.
var ErrOverdraw = fmt.Errorf("capacity: consume exceeds remaining hours")

// Ledger holds remaining hours per executor per working slot.
type Ledger struct {
	cal   *calendar.Calendar
	hours map[string][]float64 // email -> hours indexed by calendar position
}

// NewLedger seeds every configured executor with SlotHours per slot, then
// zeroes slots covered by day-offs. Day-offs outside the window and
// day-offs for emails not present in executors are ignored; the caller is
// expected to warn about the latter.
func NewLedger(cal *calendar.Calendar, executors []domain.Executor, dayoffs map[string][]domain.DayOff) *Ledger {
	l := &Ledger{cal: cal, hours: make(map[string][]float64, len(executors))}
	for _, e := range executors {
		row := make([]float64, cal.Len())
		for i := range row {
			row[i] = domain.SlotHours
		}
		l.hours[e.Email] = row
	}
	for email, offs := range dayoffs {
		row, ok := l.hours[email]
		if !ok {
			continue
		}
		for _, off := range offs {
			for _, p := range periodsOf(off.Period) {
				if i, ok := cal.Index(domain.NewSlot(off.Date, p)); ok {
					row[i] = 0
				}
			}
		}
	}
	return l
}

func periodsOf(p domain.DayOffPeriod) []domain.Period {
	switch p {
	case domain.DayOffMorning:
		return []domain.Period{domain.PeriodMorning}
	case domain.DayOffAfternoon:
		return []domain.Period{domain.PeriodAfternoon}
	default:
		return []domain.Period{domain.PeriodMorning, domain.PeriodAfternoon}
	}
}

// Remaining returns the hours left for the executor in the given slot.
// Unknown executors and slots outside the window have zero capacity.
func (l *Ledger) Remaining(email string, s domain.Slot) float64 {
	row, ok := l.hours[email]
	if !ok {
		return 0
	}
	i, ok := l.cal.Index(s)
	if !ok {
		return 0
	}
	return row[i]
}

// Consume debits hours from the executor's slot. Fails with ErrOverdraw
// when the debit exceeds what remains.
func (l *Ledger) Consume(email string, s domain.Slot, h float64) error {
	row, ok := l.hours[email]
	if !ok {
		return fmt.Errorf("capacity: unknown executor %q", email)
	}
	i, ok := l.cal.Index(s)
	if !ok {
		return fmt.Errorf("capacity: slot %s outside sprint window", s)
	}
	if h > row[i] {
		return fmt.Errorf("%w: %s %s needs %.1fh, has %.1fh", ErrOverdraw, email, s, h, row[i])
	}
	row[i] -= h
	return nil
}

// TotalRemaining sums the executor's remaining hours across the whole
// window. Used for tie-breaks and whole-window capacity checks.
func (l *Ledger) TotalRemaining(email string) float64 {
	var total float64
	for _, h := range l.hours[email] {
		total += h
	}
	return total
}

package calendar

import (
	"testing"
	"time"

	"github.com/dfarias/sprinter/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestNew_SkipsWeekends(t *testing.T) {
	// 2024-03-18 is a Monday; two full weeks -> 10 working days.
	c := New(date(2024, 3, 18), date(2024, 3, 29))

	assert.Equal(t, 20, c.Len())
	for _, s := range c.Slots() {
		wd := s.Date.Weekday()
		assert.NotEqual(t, time.Saturday, wd)
		assert.NotEqual(t, time.Sunday, wd)
	}
}

func TestNew_SlotOrderIsMorningThenAfternoon(t *testing.T) {
	c := New(date(2024, 3, 18), date(2024, 3, 19))

	require.Equal(t, 4, c.Len())
	assert.Equal(t, domain.Slot{Date: date(2024, 3, 18), Period: domain.PeriodMorning}, c.At(0))
	assert.Equal(t, domain.Slot{Date: date(2024, 3, 18), Period: domain.PeriodAfternoon}, c.At(1))
	assert.Equal(t, domain.Slot{Date: date(2024, 3, 19), Period: domain.PeriodMorning}, c.At(2))

	for i := 1; i < c.Len(); i++ {
		assert.True(t, c.At(i-1).Before(c.At(i)), "slots must be strictly increasing")
	}
}

func TestNew_WeekendOnlyWindowIsEmpty(t *testing.T) {
	c := New(date(2024, 3, 23), date(2024, 3, 24)) // Sat..Sun

	assert.Equal(t, 0, c.Len())
	_, ok := c.First()
	assert.False(t, ok)
	_, ok = c.Last()
	assert.False(t, ok)
}

func TestIndex_RoundTrips(t *testing.T) {
	c := New(date(2024, 3, 18), date(2024, 3, 29))

	for i, s := range c.Slots() {
		got, ok := c.Index(s)
		require.True(t, ok)
		assert.Equal(t, i, got)
	}

	_, ok := c.Index(domain.NewSlot(date(2024, 3, 23), domain.PeriodMorning)) // Saturday
	assert.False(t, ok)
	_, ok = c.Index(domain.NewSlot(date(2024, 4, 1), domain.PeriodMorning)) // outside window
	assert.False(t, ok)
}

func TestContains(t *testing.T) {
	c := New(date(2024, 3, 18), date(2024, 3, 29))

	assert.True(t, c.Contains(date(2024, 3, 20)))
	assert.False(t, c.Contains(date(2024, 3, 23))) // weekend
	assert.False(t, c.Contains(date(2024, 4, 2)))  // past end
}

package domain

import "time"

// Sprint is the bounded planning window. Start and End are inclusive
// calendar dates, never timestamps. Timezone is display-only.
type Sprint struct {
	Name     string
	Year     string
	Quarter  string
	Start    time.Time
	End      time.Time
	Timezone string
}

// Executor is a team member identified by email, belonging to exactly
// one discipline pool.
type Executor struct {
	Email      string
	Discipline Discipline
}

// DayOff is a declared absence of an executor on a given date.
type DayOff struct {
	Date   time.Time
	Period DayOffPeriod
}

// Placement fixes a task to an executor and a slot interval. Immutable
// once committed by the scheduler.
type Placement struct {
	TaskID   string
	Executor string
	Start    Slot
	End      Slot
}

// Rejection records the single reason a task could not be placed.
type Rejection struct {
	TaskID string
	Reason RejectionReason
}

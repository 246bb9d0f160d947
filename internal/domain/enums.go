package domain

// Discipline is the work stream a task belongs to, inferred from its title tag.
type Discipline string

const (
	DisciplineBackend  Discipline = "backend"
	DisciplineFrontend Discipline = "frontend"
	DisciplineQA       Discipline = "qa"
	DisciplineDevOps   Discipline = "devops"
	DisciplineUnknown  Discipline = "unknown"
)

// ValidDisciplines is the canonical set of disciplines accepted in the
// executors configuration document.
var ValidDisciplines = map[string]bool{
	"backend": true, "frontend": true, "qa": true, "devops": true,
}

// TaskState folds the upstream tracker states into the three the planner
// distinguishes. States other than new/closed are treated as active.
type TaskState string

const (
	TaskNew    TaskState = "new"
	TaskActive TaskState = "active"
	TaskClosed TaskState = "closed"
)

// Period identifies one half of a working day.
type Period string

const (
	PeriodMorning   Period = "morning"
	PeriodAfternoon Period = "afternoon"
)

// DayOffPeriod extends Period with a whole-day variant for absence entries.
type DayOffPeriod string

const (
	DayOffFull      DayOffPeriod = "full"
	DayOffMorning   DayOffPeriod = "morning"
	DayOffAfternoon DayOffPeriod = "afternoon"
)

// ValidDayOffPeriods is the canonical set of period strings accepted in the
// day-offs configuration document.
var ValidDayOffPeriods = map[string]bool{
	"full": true, "morning": true, "afternoon": true,
}

// RejectionReason states why a task could not be placed in the sprint.
type RejectionReason string

const (
	RejectNoExecutor        RejectionReason = "no-executor"
	RejectMissingDependency RejectionReason = "missing-dependency"
	RejectDependencyCycle   RejectionReason = "dependency-cycle"
	RejectOutOfWindow       RejectionReason = "out-of-window"
	RejectNoCapacity        RejectionReason = "no-capacity"
	RejectNoEstimate        RejectionReason = "no-estimate"
	RejectUnknownDiscipline RejectionReason = "unknown-discipline"
)

package domain

// Task is a leaf work item pulled from the upstream tracker and normalized
// for scheduling. Tasks are read-only once built.
type Task struct {
	ID            string
	Title         string
	Discipline    Discipline
	IsTestPlan    bool
	EstimateHours *float64 // nil when the tracker carries no original estimate
	Assignee      string   // executor email; empty when unassigned
	ParentStoryID string
	State         TaskState
}

// Schedulable reports whether the task takes part in scheduling at all.
// Closed tasks are history: treated as already complete, never placed
// nor rejected.
func (t Task) Schedulable() bool {
	return t.State != TaskClosed
}

// Hours returns the estimate in hours, 0 when absent.
func (t Task) Hours() float64 {
	if t.EstimateHours == nil {
		return 0
	}
	return *t.EstimateHours
}

// UserStory groups related tasks under a shared business outcome.
type UserStory struct {
	ID       string
	Title    string
	AreaPath string
	TaskIDs  []string // child task ids, upstream order
}

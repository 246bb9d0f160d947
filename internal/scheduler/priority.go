package scheduler

import (
	"sort"

	"github.com/dfarias/sprinter/internal/domain"
)

// PriorityOrder returns the deterministic scheduling order:
// 1. qa test-plan tasks, ascending task id
// 2. everything else, ascending task id
// The input is not mutated.
func PriorityOrder(tasks []domain.Task) []domain.Task {
	out := make([]domain.Task, len(tasks))
	copy(out, tasks)
	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if a.IsTestPlan != b.IsTestPlan {
			return a.IsTestPlan
		}
		return domain.CompareTaskIDs(a.ID, b.ID) < 0
	})
	return out
}

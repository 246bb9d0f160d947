// Package normalize converts raw tracker records into the planner's Task
// and UserStory values. Everything downstream of this package works on
// validated in-memory snapshots only.
package normalize

import (
	"sort"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/dfarias/sprinter/internal/azdo"
	"github.com/dfarias/sprinter/internal/domain"
)

// Build normalizes a sprint snapshot. Tasks with no resolvable parent
// story are dropped with a warning; tasks with unrecognized titles are
// kept with DisciplineUnknown so the scheduler can record the rejection.
func Build(items *azdo.SprintItems, logger *zap.Logger) ([]domain.UserStory, []domain.Task) {
	stories := make([]domain.UserStory, 0, len(items.Stories))
	storyIdx := make(map[string]int, len(items.Stories))
	for _, raw := range items.Stories {
		id := strconv.Itoa(raw.ID)
		storyIdx[id] = len(stories)
		stories = append(stories, domain.UserStory{
			ID:       id,
			Title:    raw.Title,
			AreaPath: raw.AreaPath,
		})
	}

	var tasks []domain.Task
	for _, raw := range items.Tasks {
		id := strconv.Itoa(raw.ID)
		if raw.Parent == nil {
			logger.Warn("task has no parent story, dropping", zap.String("task_id", id))
			continue
		}
		parentID := strconv.Itoa(*raw.Parent)
		idx, ok := storyIdx[parentID]
		if !ok {
			logger.Warn("task parent is not a story of this sprint, dropping",
				zap.String("task_id", id), zap.String("parent_id", parentID))
			continue
		}

		discipline, isTestPlan := DetectDiscipline(raw.Title)
		if discipline == domain.DisciplineUnknown {
			logger.Warn("no discipline tag in task title",
				zap.String("task_id", id), zap.String("title", raw.Title))
		}

		tasks = append(tasks, domain.Task{
			ID:            id,
			Title:         raw.Title,
			Discipline:    discipline,
			IsTestPlan:    isTestPlan,
			EstimateHours: raw.OriginalEstimate,
			Assignee:      raw.AssignedTo,
			ParentStoryID: parentID,
			State:         foldState(raw.State),
		})
		stories[idx].TaskIDs = append(stories[idx].TaskIDs, id)
	}

	sort.Slice(stories, func(i, j int) bool {
		return domain.CompareTaskIDs(stories[i].ID, stories[j].ID) < 0
	})
	sort.Slice(tasks, func(i, j int) bool {
		return domain.CompareTaskIDs(tasks[i].ID, tasks[j].ID) < 0
	})
	return stories, tasks
}

// foldState maps upstream states onto the planner's three. Anything that
// is neither new nor closed counts as active.
func foldState(state string) domain.TaskState {
	switch strings.ToLower(state) {
	case "new":
		return domain.TaskNew
	case "closed":
		return domain.TaskClosed
	default:
		return domain.TaskActive
	}
}

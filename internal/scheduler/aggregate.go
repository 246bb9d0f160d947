package scheduler

import (
	"sort"

	"github.com/dfarias/sprinter/internal/domain"
)

// StorySummary is the story-level roll-up of its placed child tasks.
// Stories with no placed child do not get a summary.
type StorySummary struct {
	StoryID string      `json:"story_id"`
	Title   string      `json:"title"`
	Owner   string      `json:"owner"`
	Start   domain.Slot `json:"start"`
	End     domain.Slot `json:"end"`
	Points  int         `json:"points"`
	Hours   float64     `json:"hours"`
}

// AggregateStories rolls placed tasks up into their parent stories. The
// owner is the executor carrying the most estimated hours among the
// story's placed children; ties go to the lexicographically smallest
// email.
func AggregateStories(stories []domain.UserStory, tasks []domain.Task, placements []domain.Placement) []StorySummary {
	taskByID := make(map[string]domain.Task, len(tasks))
	for _, t := range tasks {
		taskByID[t.ID] = t
	}
	placedByID := make(map[string]domain.Placement, len(placements))
	for _, pl := range placements {
		placedByID[pl.TaskID] = pl
	}

	var out []StorySummary
	for _, story := range stories {
		var (
			total      float64
			byOwner    = map[string]float64{}
			start, end domain.Slot
			anyChild   bool
		)
		for _, taskID := range story.TaskIDs {
			pl, ok := placedByID[taskID]
			if !ok {
				continue
			}
			hours := taskByID[taskID].Hours()
			total += hours
			byOwner[pl.Executor] += hours
			if !anyChild {
				start, end = pl.Start, pl.End
			} else {
				start = domain.MinSlot(start, pl.Start)
				end = domain.MaxSlot(end, pl.End)
			}
			anyChild = true
		}
		if !anyChild {
			continue
		}

		out = append(out, StorySummary{
			StoryID: story.ID,
			Title:   story.Title,
			Owner:   pickOwner(byOwner),
			Start:   start,
			End:     end,
			Points:  storyPoints(total),
			Hours:   total,
		})
	}

	sort.Slice(out, func(i, j int) bool {
		return domain.CompareTaskIDs(out[i].StoryID, out[j].StoryID) < 0
	})
	return out
}

func pickOwner(hoursByExecutor map[string]float64) string {
	executors := make([]string, 0, len(hoursByExecutor))
	for e := range hoursByExecutor {
		executors = append(executors, e)
	}
	sort.Strings(executors)

	owner, best := "", -1.0
	for _, e := range executors {
		if hoursByExecutor[e] > best {
			owner, best = e, hoursByExecutor[e]
		}
	}
	return owner
}

// storyPoints buckets total estimated hours onto the fibonacci-ish scale
// the board uses.
func storyPoints(hours float64) int {
	switch {
	case hours <= 4:
		return 1
	case hours <= 8:
		return 2
	case hours <= 16:
		return 3
	case hours <= 24:
		return 5
	case hours <= 40:
		return 8
	default:
		return 13
	}
}

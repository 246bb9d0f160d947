// Package report turns one planning outcome into the structured run
// record and its markdown rendering. The record is the contract with
// whatever consumes the run downstream; every field survives a JSON
// round trip.
package report

import (
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/dfarias/sprinter/internal/domain"
	"github.com/dfarias/sprinter/internal/scheduler"
)

const dateLayout = "2006-01-02"

// SlotRef is the wire form of a half-day slot.
type SlotRef struct {
	Date   string `json:"date"`
	Period string `json:"period"`
}

// NewSlotRef converts a slot to its wire form.
func NewSlotRef(s domain.Slot) SlotRef {
	return SlotRef{Date: s.Date.Format(dateLayout), Period: string(s.Period)}
}

// Slot converts the wire form back to a slot.
func (r SlotRef) Slot() (domain.Slot, error) {
	d, err := time.Parse(dateLayout, r.Date)
	if err != nil {
		return domain.Slot{}, fmt.Errorf("parsing slot date %q: %w", r.Date, err)
	}
	return domain.Slot{Date: d, Period: domain.Period(r.Period)}, nil
}

// PlacementRecord is the wire form of one committed placement.
type PlacementRecord struct {
	TaskID   string  `json:"task_id"`
	Title    string  `json:"title"`
	Executor string  `json:"executor"`
	Start    SlotRef `json:"start"`
	End      SlotRef `json:"end"`
	Hours    float64 `json:"hours"`
}

// Placement converts the record back to the domain value.
func (r PlacementRecord) Placement() (domain.Placement, error) {
	start, err := r.Start.Slot()
	if err != nil {
		return domain.Placement{}, err
	}
	end, err := r.End.Slot()
	if err != nil {
		return domain.Placement{}, err
	}
	return domain.Placement{TaskID: r.TaskID, Executor: r.Executor, Start: start, End: end}, nil
}

// RejectionGroup lists every task rejected for one reason.
type RejectionGroup struct {
	Reason  domain.RejectionReason `json:"reason"`
	TaskIDs []string               `json:"task_ids"`
}

// StoryRecord is the wire form of one story roll-up.
type StoryRecord struct {
	StoryID string  `json:"story_id"`
	Title   string  `json:"title"`
	Owner   string  `json:"owner"`
	Start   SlotRef `json:"start"`
	End     SlotRef `json:"end"`
	Points  int     `json:"points"`
	Hours   float64 `json:"hours"`
}

// DayOffRecord is one declared absence, flattened for the report.
type DayOffRecord struct {
	Executor string `json:"executor"`
	Date     string `json:"date"`
	Period   string `json:"period"`
}

// DependencyRecord is one resolved prerequisite edge.
type DependencyRecord struct {
	TaskID    string `json:"task_id"`
	DependsOn string `json:"depends_on"`
}

// SprintMeta identifies the sprint the run planned.
type SprintMeta struct {
	Name     string `json:"name"`
	Year     string `json:"year"`
	Quarter  string `json:"quarter"`
	Start    string `json:"start_date"`
	End      string `json:"end_date"`
	Timezone string `json:"timezone"`
}

// Report is the full structured record of one planning run.
type Report struct {
	RunID        string             `json:"run_id"`
	GeneratedAt  time.Time          `json:"generated_at"`
	Sprint       SprintMeta         `json:"sprint"`
	Placements   []PlacementRecord  `json:"placements"`
	Stories      []StoryRecord      `json:"stories"`
	DayOffs      []DayOffRecord     `json:"dayoffs"`
	Dependencies []DependencyRecord `json:"dependencies"`
	Rejections   []RejectionGroup   `json:"rejections"`
}

// Input carries everything the assembler needs beyond the planning result.
type Input struct {
	Sprint  domain.Sprint
	Tasks   []domain.Task
	DayOffs map[string][]domain.DayOff
	Edges   [][2]string
	Result  scheduler.Result
}

// Assemble freezes one planning outcome into a report record. The run id
// is fresh per call; everything else is a deterministic function of the
// input.
func Assemble(in Input, now time.Time) *Report {
	titles := make(map[string]string, len(in.Tasks))
	hours := make(map[string]float64, len(in.Tasks))
	for _, t := range in.Tasks {
		titles[t.ID] = t.Title
		hours[t.ID] = t.Hours()
	}

	r := &Report{
		RunID:       uuid.NewString(),
		GeneratedAt: now.UTC(),
		Sprint: SprintMeta{
			Name:     in.Sprint.Name,
			Year:     in.Sprint.Year,
			Quarter:  in.Sprint.Quarter,
			Start:    in.Sprint.Start.Format(dateLayout),
			End:      in.Sprint.End.Format(dateLayout),
			Timezone: in.Sprint.Timezone,
		},
	}

	for _, pl := range in.Result.Placements {
		r.Placements = append(r.Placements, PlacementRecord{
			TaskID:   pl.TaskID,
			Title:    titles[pl.TaskID],
			Executor: pl.Executor,
			Start:    NewSlotRef(pl.Start),
			End:      NewSlotRef(pl.End),
			Hours:    hours[pl.TaskID],
		})
	}

	for _, s := range in.Result.Stories {
		r.Stories = append(r.Stories, StoryRecord{
			StoryID: s.StoryID,
			Title:   s.Title,
			Owner:   s.Owner,
			Start:   NewSlotRef(s.Start),
			End:     NewSlotRef(s.End),
			Points:  s.Points,
			Hours:   s.Hours,
		})
	}

	emails := make([]string, 0, len(in.DayOffs))
	for email := range in.DayOffs {
		emails = append(emails, email)
	}
	sort.Strings(emails)
	for _, email := range emails {
		offs := append([]domain.DayOff(nil), in.DayOffs[email]...)
		sort.Slice(offs, func(i, j int) bool { return offs[i].Date.Before(offs[j].Date) })
		for _, off := range offs {
			r.DayOffs = append(r.DayOffs, DayOffRecord{
				Executor: email,
				Date:     off.Date.Format(dateLayout),
				Period:   string(off.Period),
			})
		}
	}

	for _, e := range in.Edges {
		r.Dependencies = append(r.Dependencies, DependencyRecord{TaskID: e[0], DependsOn: e[1]})
	}

	r.Rejections = groupRejections(in.Result.Rejections)
	return r
}

// groupRejections buckets rejections by reason, reasons in fixed taxonomy
// order, task ids ascending within each bucket.
func groupRejections(rejections []domain.Rejection) []RejectionGroup {
	byReason := make(map[domain.RejectionReason][]string)
	for _, rej := range rejections {
		byReason[rej.Reason] = append(byReason[rej.Reason], rej.TaskID)
	}

	order := []domain.RejectionReason{
		domain.RejectNoExecutor,
		domain.RejectMissingDependency,
		domain.RejectDependencyCycle,
		domain.RejectOutOfWindow,
		domain.RejectNoCapacity,
		domain.RejectNoEstimate,
		domain.RejectUnknownDiscipline,
	}
	var out []RejectionGroup
	for _, reason := range order {
		ids, ok := byReason[reason]
		if !ok {
			continue
		}
		domain.SortTaskIDs(ids)
		out = append(out, RejectionGroup{Reason: reason, TaskIDs: ids})
	}
	return out
}

// Package scheduler places tasks into the sprint's working slots. It is
// single-threaded and sequential: the capacity ledger is the only mutable
// state, owned exclusively by the planning pass, and identical normalized
// input always yields identical placements and rejections.
package scheduler

import (
	"sort"

	"go.uber.org/zap"

	"github.com/dfarias/sprinter/internal/calendar"
	"github.com/dfarias/sprinter/internal/capacity"
	"github.com/dfarias/sprinter/internal/depgraph"
	"github.com/dfarias/sprinter/internal/domain"
)

// Guards float accumulation of consumed hours.
const hoursEpsilon = 1e-9

// Input is the in-memory snapshot the planner works on. Everything except
// the ledger is read-only.
type Input struct {
	Sprint    domain.Sprint
	Tasks     []domain.Task
	Stories   []domain.UserStory
	Executors map[string]domain.Discipline
	Graph     *depgraph.Graph
	Calendar  *calendar.Calendar
	Ledger    *capacity.Ledger
}

// Result is the frozen outcome of one planning pass. Every schedulable
// task appears in exactly one of Placements or Rejections.
type Result struct {
	Placements []domain.Placement
	Rejections []domain.Rejection
	Stories    []StorySummary
}

type planner struct {
	in       Input
	logger   *zap.Logger
	byID     map[string]domain.Task
	closed   map[string]bool
	placed   map[string]domain.Placement
	rejected map[string]domain.RejectionReason
}

// Plan runs the full scheduling pass: cycle rejections, priority-ordered
// placement with dependency-aware deferral, then story aggregation.
func Plan(in Input, logger *zap.Logger) Result {
	p := &planner{
		in:       in,
		logger:   logger,
		byID:     make(map[string]domain.Task, len(in.Tasks)),
		closed:   make(map[string]bool),
		placed:   make(map[string]domain.Placement),
		rejected: make(map[string]domain.RejectionReason),
	}
	for _, t := range in.Tasks {
		p.byID[t.ID] = t
		if t.State == domain.TaskClosed {
			p.closed[t.ID] = true
		}
	}

	p.rejectCycles()
	p.placeAll()

	return p.result()
}

// rejectCycles settles every schedulable task sitting on a dependency
// cycle before placement starts. Closed tasks stay out: they are history,
// never rejected.
func (p *planner) rejectCycles() {
	for _, id := range p.in.Graph.CycleMembers() {
		t, ok := p.byID[id]
		if !ok || !t.Schedulable() {
			continue
		}
		p.rejected[id] = domain.RejectDependencyCycle
		p.logger.Warn("task on dependency cycle", zap.String("task_id", id))
	}
}

// placeAll walks the priority list to a fixpoint. Tasks whose
// prerequisites are not settled yet are deferred and retried after every
// productive sweep; the graph is acyclic here, so the loop terminates with
// every task settled.
func (p *planner) placeAll() {
	queue := PriorityOrder(p.in.Tasks)

	progress := true
	for progress {
		progress = false
		for _, t := range queue {
			if !t.Schedulable() || p.settled(t.ID) {
				continue
			}
			if p.hasPendingPrereq(t) {
				continue
			}
			p.attempt(t)
			progress = true
		}
	}

	// Unreachable on an acyclic graph, but diagnosis must stay total.
	for _, t := range queue {
		if t.Schedulable() && !p.settled(t.ID) {
			p.rejected[t.ID] = domain.RejectMissingDependency
		}
	}
}

func (p *planner) settled(id string) bool {
	if _, ok := p.placed[id]; ok {
		return true
	}
	_, ok := p.rejected[id]
	return ok
}

func (p *planner) hasPendingPrereq(t domain.Task) bool {
	for _, pre := range p.in.Graph.Prereqs(t.ID) {
		if !p.closed[pre] && !p.settled(pre) {
			return true
		}
	}
	return false
}

// attempt settles one task: the pre-checks of the rejection taxonomy in
// fixed order, then the earliest-start computation, then the greedy slot
// scan. The ledger is only debited after the scan fully succeeds.
func (p *planner) attempt(t domain.Task) {
	if reason, ok := p.precheck(t); ok {
		p.reject(t, reason)
		return
	}
	for _, pre := range p.in.Graph.Prereqs(t.ID) {
		if _, ok := p.rejected[pre]; ok {
			p.reject(t, domain.RejectMissingDependency)
			return
		}
	}

	first, ok := p.in.Calendar.First()
	if !ok {
		p.reject(t, domain.RejectOutOfWindow)
		return
	}
	start := first
	for _, pre := range p.in.Graph.Prereqs(t.ID) {
		if p.closed[pre] {
			continue // closed prerequisites are satisfied at sprint start
		}
		start = domain.MaxSlot(start, p.placed[pre].End)
	}

	hours := t.Hours()
	if hours == 0 {
		// Zero-hour tasks (test plans) occupy their earliest slot for
		// ordering purposes and consume no capacity.
		p.commit(t, domain.Placement{TaskID: t.ID, Executor: t.Assignee, Start: start, End: start}, nil)
		return
	}

	if p.in.Ledger.TotalRemaining(t.Assignee) == 0 {
		p.reject(t, domain.RejectNoCapacity)
		return
	}

	placement, debits, reason := p.scan(t, start, hours)
	if reason != "" {
		p.reject(t, reason)
		return
	}
	p.commit(t, placement, debits)
}

func (p *planner) precheck(t domain.Task) (domain.RejectionReason, bool) {
	switch {
	case t.Assignee == "":
		return domain.RejectNoExecutor, true
	case t.Discipline == domain.DisciplineUnknown:
		return domain.RejectUnknownDiscipline, true
	case p.in.Executors[t.Assignee] != t.Discipline:
		// Covers both unconfigured executors and title-tag mismatches.
		return domain.RejectNoExecutor, true
	case t.EstimateHours == nil && !t.IsTestPlan:
		return domain.RejectNoEstimate, true
	}
	return "", false
}

type debit struct {
	slot  domain.Slot
	hours float64
}

// scan walks the slots from the earliest feasible start, greedily taking
// whatever the ledger still offers, until the estimate is covered or the
// window ends.
func (p *planner) scan(t domain.Task, start domain.Slot, hours float64) (domain.Placement, []debit, domain.RejectionReason) {
	i0, ok := p.in.Calendar.Index(start)
	if !ok {
		return domain.Placement{}, nil, domain.RejectOutOfWindow
	}

	remaining := hours
	var debits []debit
	anyCapacity := false
	for i := i0; i < p.in.Calendar.Len() && remaining > hoursEpsilon; i++ {
		slot := p.in.Calendar.At(i)
		avail := p.in.Ledger.Remaining(t.Assignee, slot)
		if avail <= 0 {
			continue
		}
		anyCapacity = true
		take := avail
		if remaining < take {
			take = remaining
		}
		debits = append(debits, debit{slot: slot, hours: take})
		remaining -= take
	}

	if remaining > hoursEpsilon {
		if anyCapacity {
			return domain.Placement{}, nil, domain.RejectNoCapacity
		}
		return domain.Placement{}, nil, domain.RejectOutOfWindow
	}

	return domain.Placement{
		TaskID:   t.ID,
		Executor: t.Assignee,
		Start:    debits[0].slot,
		End:      debits[len(debits)-1].slot,
	}, debits, ""
}

func (p *planner) commit(t domain.Task, placement domain.Placement, debits []debit) {
	for _, d := range debits {
		if err := p.in.Ledger.Consume(t.Assignee, d.slot, d.hours); err != nil {
			// Scan and commit see the same ledger; a failure here is a bug.
			p.logger.Error("ledger debit failed", zap.String("task_id", t.ID), zap.Error(err))
			p.reject(t, domain.RejectNoCapacity)
			return
		}
	}
	p.placed[t.ID] = placement
	p.logger.Info("task placed",
		zap.String("task_id", t.ID),
		zap.String("executor", t.Assignee),
		zap.String("start", placement.Start.String()),
		zap.String("end", placement.End.String()))
}

func (p *planner) reject(t domain.Task, reason domain.RejectionReason) {
	p.rejected[t.ID] = reason
	p.logger.Warn("task rejected",
		zap.String("task_id", t.ID),
		zap.String("reason", string(reason)))
}

func (p *planner) result() Result {
	var r Result
	for _, pl := range p.placed {
		r.Placements = append(r.Placements, pl)
	}
	for id, reason := range p.rejected {
		r.Rejections = append(r.Rejections, domain.Rejection{TaskID: id, Reason: reason})
	}
	sort.Slice(r.Placements, func(i, j int) bool {
		return domain.CompareTaskIDs(r.Placements[i].TaskID, r.Placements[j].TaskID) < 0
	})
	sort.Slice(r.Rejections, func(i, j int) bool {
		return domain.CompareTaskIDs(r.Rejections[i].TaskID, r.Rejections[j].TaskID) < 0
	})
	r.Stories = AggregateStories(p.in.Stories, p.in.Tasks, r.Placements)
	return r
}

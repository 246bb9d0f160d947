package report

import (
	"fmt"
	"strings"
)

// Markdown renders the report as a human-readable sprint document. The
// section layout is stable so diffs between runs stay reviewable.
func (r *Report) Markdown() string {
	var b strings.Builder

	fmt.Fprintf(&b, "# Sprint Report: %s\n\n", r.Sprint.Name)
	b.WriteString("## 1. Sprint Summary\n\n")
	fmt.Fprintf(&b, "- Sprint: **%s**\n", r.Sprint.Name)
	fmt.Fprintf(&b, "- Window: %s to %s\n", r.Sprint.Start, r.Sprint.End)
	if r.Sprint.Timezone != "" {
		fmt.Fprintf(&b, "- Timezone: %s\n", r.Sprint.Timezone)
	}
	fmt.Fprintf(&b, "- Planned user stories: %d\n", len(r.Stories))
	fmt.Fprintf(&b, "- Placed tasks: %d\n", len(r.Placements))
	fmt.Fprintf(&b, "- Rejected tasks: %d\n\n", countRejections(r.Rejections))

	b.WriteString("## 2. Planned User Stories\n\n")
	if len(r.Stories) == 0 {
		b.WriteString("*No story had a placed task.*\n\n")
	} else {
		b.WriteString("| ID | Title | Owner | Start | End | Points | Hours |\n")
		b.WriteString("|----|-------|-------|-------|-----|--------|-------|\n")
		for _, s := range r.Stories {
			fmt.Fprintf(&b, "| %s | %s | %s | %s | %s | %d | %.1f |\n",
				s.StoryID, s.Title, s.Owner,
				slotLabel(s.Start), slotLabel(s.End), s.Points, s.Hours)
		}
		b.WriteString("\n")
	}

	b.WriteString("## 3. Task Schedule\n\n")
	if len(r.Placements) == 0 {
		b.WriteString("*No task was placed.*\n\n")
	} else {
		b.WriteString("| Task | Title | Executor | Start | End | Hours |\n")
		b.WriteString("|------|-------|----------|-------|-----|-------|\n")
		for _, p := range r.Placements {
			fmt.Fprintf(&b, "| %s | %s | %s | %s | %s | %.1f |\n",
				p.TaskID, p.Title, p.Executor,
				slotLabel(p.Start), slotLabel(p.End), p.Hours)
		}
		b.WriteString("\n")
	}

	b.WriteString("## 4. Day-offs\n\n")
	if len(r.DayOffs) == 0 {
		b.WriteString("*No absences declared.*\n\n")
	} else {
		b.WriteString("| Executor | Date | Period |\n")
		b.WriteString("|----------|------|--------|\n")
		for _, d := range r.DayOffs {
			fmt.Fprintf(&b, "| %s | %s | %s |\n", d.Executor, d.Date, d.Period)
		}
		b.WriteString("\n")
	}

	b.WriteString("## 5. Task Dependencies\n\n")
	if len(r.Dependencies) == 0 {
		b.WriteString("*No dependencies declared.*\n\n")
	} else {
		for _, d := range r.Dependencies {
			fmt.Fprintf(&b, "- Task %s depends on task %s\n", d.TaskID, d.DependsOn)
		}
		b.WriteString("\n")
	}

	b.WriteString("## 6. Unscheduled Tasks\n\n")
	if len(r.Rejections) == 0 {
		b.WriteString("*Every schedulable task was placed.*\n")
	} else {
		for _, g := range r.Rejections {
			fmt.Fprintf(&b, "### %s\n\n", g.Reason)
			for _, id := range g.TaskIDs {
				fmt.Fprintf(&b, "- Task %s\n", id)
			}
			b.WriteString("\n")
		}
	}

	return b.String()
}

// Filename returns the markdown file name for this run, derived from the
// sprint name.
func (r *Report) Filename() string {
	return fmt.Sprintf("sprint_report_%s.md", strings.ReplaceAll(r.Sprint.Name, " ", "_"))
}

func slotLabel(s SlotRef) string {
	return s.Date + " " + s.Period
}

func countRejections(groups []RejectionGroup) int {
	n := 0
	for _, g := range groups {
		n += len(g.TaskIDs)
	}
	return n
}

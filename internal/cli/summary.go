package cli

import (
	"fmt"
	"io"

	"github.com/dfarias/sprinter/internal/report"
)

// printSummary renders a terminal recap of one run. Colors are applied
// only on interactive terminals.
func printSummary(w io.Writer, rep *report.Report) {
	color := isTerminal()
	render := func(s string, styled string) string {
		if color {
			return styled
		}
		return s
	}

	header := fmt.Sprintf("Sprint %s (%s to %s)", rep.Sprint.Name, rep.Sprint.Start, rep.Sprint.End)
	fmt.Fprintln(w, render(header, styleHeader.Render(header)))

	placed := fmt.Sprintf("  placed:   %d tasks", len(rep.Placements))
	fmt.Fprintln(w, render(placed, styleGreen.Render(placed)))

	rejected := 0
	for _, g := range rep.Rejections {
		rejected += len(g.TaskIDs)
	}
	line := fmt.Sprintf("  rejected: %d tasks", rejected)
	if rejected > 0 {
		fmt.Fprintln(w, render(line, styleRed.Render(line)))
		for _, g := range rep.Rejections {
			detail := fmt.Sprintf("    %-20s %v", g.Reason, g.TaskIDs)
			fmt.Fprintln(w, render(detail, styleYellow.Render(detail)))
		}
	} else {
		fmt.Fprintln(w, render(line, styleDim.Render(line)))
	}

	stories := fmt.Sprintf("  stories:  %d planned", len(rep.Stories))
	fmt.Fprintln(w, render(stories, styleDim.Render(stories)))
	fmt.Fprintf(w, "  run id:   %s\n", rep.RunID)
}

package normalize

import (
	"strings"

	"github.com/dfarias/sprinter/internal/domain"
)

// Title tags are wire-level contracts with the upstream board; the match
// order below is fixed.
const testPlanPhrase = "plano de testes"

// DetectDiscipline maps a task title to its discipline by case-insensitive
// substring match, and flags qa test-plan tasks. Titles matching no tag
// come back as DisciplineUnknown.
func DetectDiscipline(title string) (domain.Discipline, bool) {
	lower := strings.ToLower(title)

	var d domain.Discipline
	switch {
	case strings.Contains(lower, "[qa]"):
		d = domain.DisciplineQA
	case strings.Contains(lower, "[be]"):
		d = domain.DisciplineBackend
	case strings.Contains(lower, "[fe]"):
		d = domain.DisciplineFrontend
	case strings.Contains(lower, "devops"):
		d = domain.DisciplineDevOps
	default:
		return domain.DisciplineUnknown, false
	}

	isTestPlan := d == domain.DisciplineQA && strings.Contains(lower, testPlanPhrase)
	return d, isTestPlan
}

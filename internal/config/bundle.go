package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"sort"
	"time"

	"github.com/dfarias/sprinter/internal/domain"
)

// Bundle is the fully loaded, validated and converted configuration set.
type Bundle struct {
	Setup        *SetupSchema
	Sprint       domain.Sprint
	Executors    []domain.Executor // sorted by email
	DayOffs      map[string][]domain.DayOff
	Dependencies map[string][]string
}

// LoadBundle loads the setup document and the three documents it points
// to, validates everything, and converts to domain values. All validation
// errors are reported together.
func LoadBundle(setupPath string) (*Bundle, error) {
	setup, err := LoadSetup(setupPath)
	if err != nil {
		return nil, fmt.Errorf("loading setup: %w", err)
	}
	if errs := ValidateSetup(setup); len(errs) > 0 {
		return nil, errors.Join(errs...)
	}

	base := filepath.Dir(setupPath)
	executors, err := LoadExecutors(resolve(base, setup.ExecutorsFile))
	if err != nil {
		return nil, fmt.Errorf("loading executors: %w", err)
	}
	dayoffs, err := LoadDayOffs(resolve(base, setup.DayOffsFile))
	if err != nil {
		return nil, fmt.Errorf("loading dayoffs: %w", err)
	}
	deps, err := LoadDependencies(resolve(base, setup.DependenciesFile))
	if err != nil {
		return nil, fmt.Errorf("loading dependencies: %w", err)
	}

	var errs []error
	errs = append(errs, ValidateExecutors(executors)...)
	errs = append(errs, ValidateDayOffs(dayoffs)...)
	errs = append(errs, ValidateDependencies(deps)...)
	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}

	return &Bundle{
		Setup:        setup,
		Sprint:       convertSprint(setup),
		Executors:    convertExecutors(executors),
		DayOffs:      convertDayOffs(dayoffs),
		Dependencies: deps.Dependencies,
	}, nil
}

// ExecutorSet returns the email -> discipline lookup the scheduler uses.
func (b *Bundle) ExecutorSet() map[string]domain.Discipline {
	set := make(map[string]domain.Discipline, len(b.Executors))
	for _, e := range b.Executors {
		set[e.Email] = e.Discipline
	}
	return set
}

func convertSprint(s *SetupSchema) domain.Sprint {
	start, _ := time.Parse("2006-01-02", s.Sprint.StartDate)
	end, _ := time.Parse("2006-01-02", s.Sprint.EndDate)
	return domain.Sprint{
		Name:     s.Sprint.Name,
		Year:     s.Sprint.Year,
		Quarter:  s.Sprint.Quarter,
		Start:    domain.Midnight(start),
		End:      domain.Midnight(end),
		Timezone: s.Timezone,
	}
}

func convertExecutors(s ExecutorsSchema) []domain.Executor {
	var out []domain.Executor
	for discipline, emails := range s {
		for _, email := range emails {
			out = append(out, domain.Executor{
				Email:      email,
				Discipline: domain.Discipline(discipline),
			})
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Email < out[j].Email })
	return out
}

func convertDayOffs(s DayOffsSchema) map[string][]domain.DayOff {
	out := make(map[string][]domain.DayOff, len(s))
	for email, entries := range s {
		for _, e := range entries {
			d, _ := time.Parse("2006-01-02", e.Date)
			out[email] = append(out[email], domain.DayOff{
				Date:   domain.Midnight(d),
				Period: domain.DayOffPeriod(e.Period),
			})
		}
	}
	return out
}

func resolve(base, path string) string {
	if filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(base, path)
}

package config

import (
	"fmt"
	"time"

	"github.com/dfarias/sprinter/internal/domain"
)

// ValidateSetup checks the setup document. Returns all errors found.
func ValidateSetup(s *SetupSchema) []error {
	var errs []error

	if s.AzureDevOps.Organization == "" {
		errs = append(errs, fmt.Errorf("azure_devops.organization is required"))
	}
	if s.AzureDevOps.Project == "" {
		errs = append(errs, fmt.Errorf("azure_devops.project is required"))
	}
	if s.Sprint.Name == "" {
		errs = append(errs, fmt.Errorf("sprint.name is required"))
	}
	if s.Team == "" {
		errs = append(errs, fmt.Errorf("team is required"))
	}
	if s.OutputDir == "" {
		errs = append(errs, fmt.Errorf("output_dir is required"))
	}
	if s.ExecutorsFile == "" {
		errs = append(errs, fmt.Errorf("executors_file is required"))
	}
	if s.DayOffsFile == "" {
		errs = append(errs, fmt.Errorf("dayoffs_file is required"))
	}
	if s.DependenciesFile == "" {
		errs = append(errs, fmt.Errorf("dependencies_file is required"))
	}

	start, startErr := parseDate("sprint.start_date", s.Sprint.StartDate, &errs)
	end, endErr := parseDate("sprint.end_date", s.Sprint.EndDate, &errs)
	if startErr == nil && endErr == nil && end.Before(start) {
		errs = append(errs, fmt.Errorf("sprint.end_date %q must not precede start_date %q",
			s.Sprint.EndDate, s.Sprint.StartDate))
	}

	return errs
}

// ValidateExecutors checks the executors document: only recognized
// disciplines, no empty pools entries, no email in two pools.
func ValidateExecutors(s ExecutorsSchema) []error {
	var errs []error
	seen := make(map[string]string) // email -> discipline

	for discipline, emails := range s {
		if !domain.ValidDisciplines[discipline] {
			errs = append(errs, fmt.Errorf("executors: unknown discipline %q", discipline))
			continue
		}
		for i, email := range emails {
			if email == "" {
				errs = append(errs, fmt.Errorf("executors.%s[%d]: empty email", discipline, i))
				continue
			}
			if prev, dup := seen[email]; dup && prev != discipline {
				errs = append(errs, fmt.Errorf("executors: %s listed under both %s and %s", email, prev, discipline))
			}
			seen[email] = discipline
		}
	}

	return errs
}

// ValidateDayOffs checks date formats and period values.
func ValidateDayOffs(s DayOffsSchema) []error {
	var errs []error

	for email, entries := range s {
		for i, e := range entries {
			prefix := fmt.Sprintf("dayoffs.%s[%d]", email, i)
			if _, err := time.Parse("2006-01-02", e.Date); err != nil {
				errs = append(errs, fmt.Errorf("%s.date: invalid date %q (expected YYYY-MM-DD)", prefix, e.Date))
			}
			if !domain.ValidDayOffPeriods[e.Period] {
				errs = append(errs, fmt.Errorf("%s.period: invalid value %q", prefix, e.Period))
			}
		}
	}

	return errs
}

// ValidateDependencies rejects self-edges. Dangling ids are resolved later
// against the fetched task set, not here.
func ValidateDependencies(s *DependenciesSchema) []error {
	var errs []error

	for succ, prereqs := range s.Dependencies {
		if succ == "" {
			errs = append(errs, fmt.Errorf("dependencies: empty successor id"))
		}
		for _, pre := range prereqs {
			if pre == succ {
				errs = append(errs, fmt.Errorf("dependencies.%s: self-dependency", succ))
			}
		}
	}

	return errs
}

func parseDate(field, value string, errs *[]error) (time.Time, error) {
	if value == "" {
		err := fmt.Errorf("%s is required", field)
		*errs = append(*errs, err)
		return time.Time{}, err
	}
	t, err := time.Parse("2006-01-02", value)
	if err != nil {
		err = fmt.Errorf("%s: invalid date %q (expected YYYY-MM-DD)", field, value)
		*errs = append(*errs, err)
		return time.Time{}, err
	}
	return t, nil
}

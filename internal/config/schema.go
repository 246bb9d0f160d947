// Package config loads and validates the four planning documents: setup,
// executors, day-offs and dependencies. Configuration errors are fatal and
// reported all at once; no scheduling happens on a bad document set.
package config

import (
	"encoding/json"
	"fmt"
	"os"
)

// SetupSchema is the top-level setup.json document.
type SetupSchema struct {
	AzureDevOps AzureDevOpsSchema `json:"azure_devops"`
	Sprint      SprintSchema      `json:"sprint"`
	Team        string            `json:"team"`
	Timezone    string            `json:"timezone"`
	OutputDir   string            `json:"output_dir"`

	ExecutorsFile    string `json:"executors_file"`
	DayOffsFile      string `json:"dayoffs_file"`
	DependenciesFile string `json:"dependencies_file"`
}

// AzureDevOpsSchema holds upstream connection settings. The token may be
// left empty and supplied via SPRINTER_AZDO_TOKEN instead.
type AzureDevOpsSchema struct {
	Organization string `json:"organization"`
	Project      string `json:"project"`
	Token        string `json:"token"`
}

// SprintSchema identifies the sprint and its window. Dates are
// YYYY-MM-DD calendar dates.
type SprintSchema struct {
	Name      string `json:"name"`
	Year      string `json:"year"`
	Quarter   string `json:"quarter"`
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
}

// ExecutorsSchema maps a discipline name to its executor pool (emails).
type ExecutorsSchema map[string][]string

// DayOffEntry is one absence in the day-offs document.
type DayOffEntry struct {
	Date   string `json:"date"`
	Period string `json:"period"`
}

// DayOffsSchema maps executor email to absence entries.
type DayOffsSchema map[string][]DayOffEntry

// DependenciesSchema is the dependencies.json document: successor task id
// to its prerequisite task ids.
type DependenciesSchema struct {
	Dependencies map[string][]string `json:"dependencies"`
}

// LoadSetup reads and parses the setup document.
func LoadSetup(path string) (*SetupSchema, error) {
	var s SetupSchema
	if err := loadJSON(path, &s); err != nil {
		return nil, err
	}
	return &s, nil
}

// LoadExecutors reads and parses the executors document.
func LoadExecutors(path string) (ExecutorsSchema, error) {
	var s ExecutorsSchema
	if err := loadJSON(path, &s); err != nil {
		return nil, err
	}
	return s, nil
}

// LoadDayOffs reads and parses the day-offs document.
func LoadDayOffs(path string) (DayOffsSchema, error) {
	var s DayOffsSchema
	if err := loadJSON(path, &s); err != nil {
		return nil, err
	}
	return s, nil
}

// LoadDependencies reads and parses the dependencies document.
func LoadDependencies(path string) (*DependenciesSchema, error) {
	var s DependenciesSchema
	if err := loadJSON(path, &s); err != nil {
		return nil, err
	}
	return &s, nil
}

func loadJSON(path string, v any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("parsing %s: %w", path, err)
	}
	return nil
}

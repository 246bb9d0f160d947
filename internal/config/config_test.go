package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/dfarias/sprinter/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validSetup() *SetupSchema {
	return &SetupSchema{
		AzureDevOps: AzureDevOpsSchema{Organization: "acme", Project: "shop", Token: "pat"},
		Sprint: SprintSchema{
			Name: "2024_S07", Year: "2024", Quarter: "Q1",
			StartDate: "2024-03-18", EndDate: "2024-03-29",
		},
		Team:             `shop\Team A`,
		Timezone:         "America/Sao_Paulo",
		OutputDir:        "output",
		ExecutorsFile:    "executors.json",
		DayOffsFile:      "dayoffs.json",
		DependenciesFile: "dependencies.json",
	}
}

func TestValidateSetup_Valid(t *testing.T) {
	assert.Empty(t, ValidateSetup(validSetup()))
}

func TestValidateSetup_CollectsAllErrors(t *testing.T) {
	s := validSetup()
	s.AzureDevOps.Organization = ""
	s.Sprint.StartDate = "18/03/2024"
	s.Sprint.EndDate = ""
	s.OutputDir = ""

	errs := ValidateSetup(s)
	assert.Len(t, errs, 4)
}

func TestValidateSetup_EndBeforeStart(t *testing.T) {
	s := validSetup()
	s.Sprint.StartDate = "2024-03-29"
	s.Sprint.EndDate = "2024-03-18"

	errs := ValidateSetup(s)
	require.Len(t, errs, 1)
	assert.Contains(t, errs[0].Error(), "must not precede")
}

func TestValidateExecutors(t *testing.T) {
	errs := ValidateExecutors(ExecutorsSchema{
		"backend":  {"a@x", "b@x"},
		"qa":       {"c@x"},
		"designer": {"d@x"},
	})
	require.Len(t, errs, 1)
	assert.Contains(t, errs[0].Error(), `unknown discipline "designer"`)
}

func TestValidateExecutors_EmailInTwoPools(t *testing.T) {
	errs := ValidateExecutors(ExecutorsSchema{
		"backend":  {"a@x"},
		"frontend": {"a@x"},
	})
	require.Len(t, errs, 1)
	assert.Contains(t, errs[0].Error(), "listed under both")
}

func TestValidateDayOffs(t *testing.T) {
	errs := ValidateDayOffs(DayOffsSchema{
		"a@x": {
			{Date: "2024-03-18", Period: "full"},
			{Date: "next tuesday", Period: "full"},
			{Date: "2024-03-19", Period: "evening"},
		},
	})
	assert.Len(t, errs, 2)
}

func TestValidateDependencies_SelfEdge(t *testing.T) {
	errs := ValidateDependencies(&DependenciesSchema{
		Dependencies: map[string][]string{"7": {"5", "7"}},
	})
	require.Len(t, errs, 1)
	assert.Contains(t, errs[0].Error(), "self-dependency")
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadBundle(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "executors.json", `{"backend":["b@x","a@x"],"qa":["q@x"]}`)
	writeFile(t, dir, "dayoffs.json", `{"a@x":[{"date":"2024-03-18","period":"morning"}]}`)
	writeFile(t, dir, "dependencies.json", `{"dependencies":{"2":["1"]}}`)
	setupPath := writeFile(t, dir, "setup.json", `{
		"azure_devops": {"organization":"acme","project":"shop","token":"pat"},
		"sprint": {"name":"2024_S07","year":"2024","quarter":"Q1","start_date":"2024-03-18","end_date":"2024-03-29"},
		"team": "shop\\Team A",
		"timezone": "America/Sao_Paulo",
		"output_dir": "output",
		"executors_file": "executors.json",
		"dayoffs_file": "dayoffs.json",
		"dependencies_file": "dependencies.json"
	}`)

	b, err := LoadBundle(setupPath)
	require.NoError(t, err)

	assert.Equal(t, "2024_S07", b.Sprint.Name)
	assert.Equal(t, time.Date(2024, 3, 18, 0, 0, 0, 0, time.UTC), b.Sprint.Start)
	assert.Equal(t, time.Date(2024, 3, 29, 0, 0, 0, 0, time.UTC), b.Sprint.End)

	require.Len(t, b.Executors, 3)
	assert.Equal(t, "a@x", b.Executors[0].Email, "executors sorted by email")
	assert.Equal(t, domain.DisciplineBackend, b.ExecutorSet()["a@x"])
	assert.Equal(t, domain.DisciplineQA, b.ExecutorSet()["q@x"])

	require.Len(t, b.DayOffs["a@x"], 1)
	assert.Equal(t, domain.DayOffMorning, b.DayOffs["a@x"][0].Period)

	assert.Equal(t, []string{"1"}, b.Dependencies["2"])
}

func TestLoadBundle_ValidationFailureIsFatal(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "executors.json", `{"wizards":["a@x"]}`)
	writeFile(t, dir, "dayoffs.json", `{}`)
	writeFile(t, dir, "dependencies.json", `{"dependencies":{}}`)
	setupPath := writeFile(t, dir, "setup.json", `{
		"azure_devops": {"organization":"acme","project":"shop","token":"pat"},
		"sprint": {"name":"s","year":"2024","quarter":"Q1","start_date":"2024-03-18","end_date":"2024-03-29"},
		"team": "t", "timezone": "UTC", "output_dir": "out",
		"executors_file": "executors.json",
		"dayoffs_file": "dayoffs.json",
		"dependencies_file": "dependencies.json"
	}`)

	_, err := LoadBundle(setupPath)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown discipline")
}

func TestLoadBundle_MissingFile(t *testing.T) {
	_, err := LoadBundle(filepath.Join(t.TempDir(), "setup.json"))
	assert.Error(t, err)
}

package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/dfarias/sprinter/internal/azdo"
	"github.com/dfarias/sprinter/internal/calendar"
	"github.com/dfarias/sprinter/internal/capacity"
	"github.com/dfarias/sprinter/internal/config"
	"github.com/dfarias/sprinter/internal/depgraph"
	"github.com/dfarias/sprinter/internal/normalize"
	"github.com/dfarias/sprinter/internal/report"
	"github.com/dfarias/sprinter/internal/scheduler"
)

// tokenEnv overrides the token from setup.json so credentials can stay
// out of the configuration files.
const tokenEnv = "SPRINTER_AZDO_TOKEN"

func newPlanCmd(app *App) *cobra.Command {
	var (
		setupPath string
		outputDir string
		dbPath    string
		dryRun    bool
	)

	cmd := &cobra.Command{
		Use:   "plan",
		Short: "Fetch the sprint backlog and compute the schedule",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			bundle, err := config.LoadBundle(setupPath)
			if err != nil {
				return fmt.Errorf("loading configuration: %w", err)
			}

			token := os.Getenv(tokenEnv)
			if token == "" {
				token = bundle.Setup.AzureDevOps.Token
			}
			fetcher := app.NewFetcher(azdo.Config{
				Organization: bundle.Setup.AzureDevOps.Organization,
				Project:      bundle.Setup.AzureDevOps.Project,
				Token:        token,
			})

			items, err := fetcher.FetchSprintItems(ctx, azdo.SprintRef{
				Name:    bundle.Setup.Sprint.Name,
				Year:    bundle.Setup.Sprint.Year,
				Quarter: bundle.Setup.Sprint.Quarter,
			}, bundle.Setup.Team)
			if err != nil {
				return fmt.Errorf("fetching sprint items: %w", err)
			}

			stories, tasks := normalize.Build(items, app.Logger)

			known := make(map[string]bool, len(tasks))
			for _, t := range tasks {
				known[t.ID] = true
			}
			graph := depgraph.Build(bundle.Dependencies, known, app.Logger)

			executors := bundle.ExecutorSet()
			for email := range bundle.DayOffs {
				if _, ok := executors[email]; !ok {
					app.Logger.Warn("dayoff for unconfigured executor, ignoring",
						zap.String("email", email))
				}
			}

			cal := calendar.New(bundle.Sprint.Start, bundle.Sprint.End)
			ledger := capacity.NewLedger(cal, bundle.Executors, bundle.DayOffs)

			result := scheduler.Plan(scheduler.Input{
				Sprint:    bundle.Sprint,
				Tasks:     tasks,
				Stories:   stories,
				Executors: executors,
				Graph:     graph,
				Calendar:  cal,
				Ledger:    ledger,
			}, app.Logger)

			rep := report.Assemble(report.Input{
				Sprint:  bundle.Sprint,
				Tasks:   tasks,
				DayOffs: bundle.DayOffs,
				Edges:   graph.Edges(),
				Result:  result,
			}, app.Now())

			if !dryRun {
				dir := outputDir
				if dir == "" {
					dir = bundle.Setup.OutputDir
				}
				if err := writeArtifacts(rep, dir); err != nil {
					return err
				}

				hist, closeStore, err := app.OpenStore(dbPath)
				if err != nil {
					return fmt.Errorf("opening run history: %w", err)
				}
				defer closeStore()
				if err := hist.SaveRun(ctx, rep); err != nil {
					return fmt.Errorf("saving run: %w", err)
				}
			}

			printSummary(app.Out, rep)
			return nil
		},
	}

	cmd.Flags().StringVarP(&setupPath, "setup", "s", "setup.json", "path to the setup document")
	cmd.Flags().StringVarP(&outputDir, "output", "o", "", "report directory (overrides output_dir from setup)")
	cmd.Flags().StringVar(&dbPath, "db", defaultDBPath(), "run-history database path")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "compute the schedule without writing reports or history")
	return cmd
}

// writeArtifacts writes the markdown report and its JSON record side by
// side in the output directory.
func writeArtifacts(rep *report.Report, dir string) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}

	mdPath := filepath.Join(dir, rep.Filename())
	if err := os.WriteFile(mdPath, []byte(rep.Markdown()), 0644); err != nil {
		return fmt.Errorf("writing markdown report: %w", err)
	}

	raw, err := json.MarshalIndent(rep, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding report: %w", err)
	}
	jsonPath := mdPath[:len(mdPath)-len(".md")] + ".json"
	if err := os.WriteFile(jsonPath, raw, 0644); err != nil {
		return fmt.Errorf("writing report record: %w", err)
	}
	return nil
}

// defaultDBPath resolves the history database location: SPRINTER_DB, or
// ~/.sprinter/sprinter.db.
func defaultDBPath() string {
	if p := os.Getenv("SPRINTER_DB"); p != "" {
		return p
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "sprinter.db"
	}
	return filepath.Join(home, ".sprinter", "sprinter.db")
}

// Package cli defines the sprinter command tree. Commands stay thin: they
// load configuration, call into the planning pipeline and render results;
// all domain decisions live below this package.
package cli

import (
	"context"
	"io"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"go.uber.org/zap"

	"github.com/dfarias/sprinter/internal/azdo"
	"github.com/dfarias/sprinter/internal/report"
	"github.com/dfarias/sprinter/internal/store"
)

// SprintFetcher pulls the sprint's stories and tasks from the upstream
// board.
type SprintFetcher interface {
	FetchSprintItems(ctx context.Context, ref azdo.SprintRef, team string) (*azdo.SprintItems, error)
}

// RunHistory persists planning runs.
type RunHistory interface {
	SaveRun(ctx context.Context, r *report.Report) error
	ListRuns(ctx context.Context, limit int) ([]store.RunSummary, error)
	GetRun(ctx context.Context, id string) (*report.Report, error)
}

// App holds the wired dependencies the commands run against. Tests swap
// in fakes; main wires the real client and store.
type App struct {
	Logger     *zap.Logger
	Out        io.Writer
	Version    string
	Now        func() time.Time
	NewFetcher func(cfg azdo.Config) SprintFetcher
	OpenStore  func(path string) (RunHistory, func() error, error)
}

// NewRootCmd creates the top-level "sprinter" command and registers all
// subcommands against the provided App.
func NewRootCmd(app *App) *cobra.Command {
	root := &cobra.Command{
		Use:           "sprinter",
		Short:         "Sprint task scheduler for Azure DevOps boards",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Accept underscored flag spellings (--dry_run) as their dashed form.
	root.PersistentFlags().SetNormalizeFunc(func(f *pflag.FlagSet, name string) pflag.NormalizedName {
		return pflag.NormalizedName(strings.ReplaceAll(name, "_", "-"))
	})

	root.AddCommand(
		newPlanCmd(app),
		newHistoryCmd(app),
		newVersionCmd(app),
	)

	return root
}

func newVersionCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the sprinter version",
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := io.WriteString(app.Out, "sprinter "+app.Version+"\n")
			return err
		},
	}
}

package main

import (
	"fmt"
	"os"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/dfarias/sprinter/internal/azdo"
	"github.com/dfarias/sprinter/internal/cli"
	"github.com/dfarias/sprinter/internal/store"
)

// version is set at build time via -ldflags.
var version = "dev"

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	logger, err := newLogger()
	if err != nil {
		return fmt.Errorf("initializing logger: %w", err)
	}
	defer func() { _ = logger.Sync() }()

	app := &cli.App{
		Logger:  logger,
		Out:     os.Stdout,
		Version: version,
		Now:     time.Now,
		NewFetcher: func(cfg azdo.Config) cli.SprintFetcher {
			return azdo.NewClient(cfg, logger)
		},
		OpenStore: func(path string) (cli.RunHistory, func() error, error) {
			db, err := store.Open(path)
			if err != nil {
				return nil, nil, err
			}
			return store.NewRunStore(db), db.Close, nil
		},
	}

	return cli.NewRootCmd(app).Execute()
}

func newLogger() (*zap.Logger, error) {
	config := zap.NewProductionConfig()
	config.OutputPaths = []string{"stderr"}
	if os.Getenv("SPRINTER_DEBUG") != "" {
		config.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	}
	return config.Build()
}

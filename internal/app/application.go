// Package app assembles the windcapex dependency graph and runs one ingest or migration.
package app

import (
	"context"
	"errors"

	"go.uber.org/fx"

	"github.com/tigerroll/windcapex/internal/domain"
	"github.com/tigerroll/windcapex/internal/listener"
	"github.com/tigerroll/windcapex/internal/pipeline"
	"github.com/tigerroll/windcapex/internal/step/reader"
	"github.com/tigerroll/windcapex/internal/step/writer"
	gormadapter "github.com/tigerroll/windcapex/pkg/batch/adapter/database/gorm"
	"github.com/tigerroll/windcapex/pkg/batch/adapter/storage"
	"github.com/tigerroll/windcapex/pkg/batch/adapter/storage/gcs"
	"github.com/tigerroll/windcapex/pkg/batch/adapter/storage/local"
	"github.com/tigerroll/windcapex/pkg/batch/core/config"
	metricsinfra "github.com/tigerroll/windcapex/pkg/batch/infrastructure/metrics"
	"github.com/tigerroll/windcapex/pkg/batch/support/util/logger"
)

// Exit codes returned by RunApplication and RunMigrations.
const (
	ExitOK    = 0
	ExitError = 1
)

// Modules lists the fx modules shared by every command.
var Modules = fx.Options(
	logger.Module,
	config.Module,
	gormadapter.Module,
	storage.Module,
	local.Module,
	gcs.Module,
	metricsinfra.Module,
)

// RunApplication ingests sources with the given configuration and returns the exit code.
// An empty sources slice falls back to pipeline.sources.
func RunApplication(appCtx context.Context, cfg *config.Config, sources []string) int {
	if len(sources) == 0 {
		sources = cfg.Windcapex.Pipeline.Sources
	}

	app := fx.New(
		fx.Supply(cfg),
		Modules,
		listener.Module,
		reader.Module,
		writer.Module,
		pipeline.Module,
		fx.Invoke(func(lc fx.Lifecycle, shutdowner fx.Shutdowner, orch *pipeline.Orchestrator) {
			lc.Append(fx.Hook{
				OnStart: onStartRun(appCtx, orch, sources, shutdowner),
				OnStop:  onStopApplication(),
			})
		}),
	)
	return runToExit(app)
}

// onStartRun runs the ingest on its own goroutine and requests shutdown with the resulting
// exit code once it returns.
func onStartRun(appCtx context.Context, orch *pipeline.Orchestrator, sources []string, shutdowner fx.Shutdowner) func(ctx context.Context) error {
	return func(ctx context.Context) error {
		go func() {
			code := ExitError
			defer func() {
				if r := recover(); r != nil {
					logger.Errorf("Panic recovered in pipeline run: %v", r)
					code = ExitError
				}
				if err := shutdowner.Shutdown(fx.ExitCode(code)); err != nil {
					logger.Errorf("Failed to shutdown application: %v", err)
				}
			}()

			report, err := orch.Run(appCtx, sources)
			code = exitCode(report, err)
		}()
		return nil
	}
}

// exitCode maps a run result to a process exit code. A run without data is not an error.
func exitCode(report *domain.RunReport, err error) int {
	if err != nil {
		if errors.Is(err, context.Canceled) {
			logger.Warnf("Run cancelled.")
		} else {
			logger.Errorf("Run failed: %v", err)
		}
		return ExitError
	}
	if report != nil {
		logger.Infof("%s", report.Summary())
	}
	return ExitOK
}

func onStopApplication() func(ctx context.Context) error {
	return func(ctx context.Context) error {
		logger.Debugf("Application is shutting down.")
		return nil
	}
}

// runToExit starts app, waits for a shutdown signal and stops it.
func runToExit(app *fx.App) int {
	if err := app.Err(); err != nil {
		logger.Errorf("Failed to build application: %v", err)
		return ExitError
	}

	startCtx, cancel := context.WithTimeout(context.Background(), app.StartTimeout())
	defer cancel()
	if err := app.Start(startCtx); err != nil {
		logger.Errorf("Failed to start application: %v", err)
		return ExitError
	}

	// The run observes appCtx and always requests shutdown when it returns.
	code := (<-app.Wait()).ExitCode

	stopCtx, stopCancel := context.WithTimeout(context.Background(), app.StopTimeout())
	defer stopCancel()
	if err := app.Stop(stopCtx); err != nil {
		logger.Errorf("Failed to stop application cleanly: %v", err)
		if code == ExitOK {
			code = ExitError
		}
	}
	return code
}

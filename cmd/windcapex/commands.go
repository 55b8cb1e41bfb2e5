package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/tigerroll/windcapex/internal/app"
	"github.com/tigerroll/windcapex/pkg/batch/core/config"
	"github.com/tigerroll/windcapex/pkg/batch/support/util/exception"
	"github.com/tigerroll/windcapex/pkg/batch/support/util/logger"
)

// globalFlags are shared by every command.
type globalFlags struct {
	envFile  string
	logLevel string
}

// runFlags override configuration for a single run. Empty values leave the configuration untouched.
type runFlags struct {
	rates     string
	sink      string
	outputDir string
	dsn       string
	table     string
	noDedup   bool
}

// exitError carries a process exit code through cobra's error return.
type exitError struct{ code int }

func (e exitError) Error() string { return fmt.Sprintf("exit code %d", e.code) }

// execute runs the command line and returns the process exit code.
func execute(ctx context.Context, args []string) int {
	root := newRootCmd(ctx)
	root.SetArgs(args)
	if err := root.Execute(); err != nil {
		if ee, ok := err.(exitError); ok {
			return ee.code
		}
		return app.ExitError
	}
	return app.ExitOK
}

func newRootCmd(ctx context.Context) *cobra.Command {
	g := &globalFlags{}
	root := &cobra.Command{
		Use:           "windcapex",
		Short:         "Ingest wind CAPEX cost-projection CSVs into a normalized dataset",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&g.envFile, "env-file", ".env", "path of the .env file loaded before the configuration")
	root.PersistentFlags().StringVar(&g.logLevel, "log-level", "", "log level (DEBUG, INFO, WARN, ERROR); overrides system.logging.level")

	root.AddCommand(newRunCmd(ctx, g), newMigrateCmd(ctx, g), newVersionCmd())
	return root
}

func newRunCmd(ctx context.Context, g *globalFlags) *cobra.Command {
	f := &runFlags{}
	cmd := &cobra.Command{
		Use:   "run [sources...]",
		Short: "Process the given files, directories, URLs or gs:// objects",
		Long: `Process every source in order, convert dollar costs with the exchange-rate table,
normalize the columns and write the combined rows to the configured sink.
Without arguments the sources listed under pipeline.sources are used.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(g)
			if err != nil {
				return err
			}
			if err := applyRunFlags(cfg, f); err != nil {
				logger.Errorf("%v", err)
				return exitError{code: app.ExitError}
			}
			if code := app.RunApplication(ctx, cfg, args); code != app.ExitOK {
				return exitError{code: code}
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&f.rates, "rates", "", "exchange-rate CSV (path, URL or gs:// object)")
	cmd.Flags().StringVar(&f.sink, "sink", "", "sink type: csv, sql or parquet")
	cmd.Flags().StringVar(&f.outputDir, "output-dir", "", "directory receiving the CSV output")
	cmd.Flags().StringVar(&f.dsn, "dsn", "", "SQL connection string, e.g. postgresql://user:pw@host:5432/db")
	cmd.Flags().StringVar(&f.table, "table", "", "SQL table name")
	cmd.Flags().BoolVar(&f.noDedup, "no-dedup", false, "keep identical rows in the combined output")
	return cmd
}

func newMigrateCmd(ctx context.Context, g *globalFlags) *cobra.Command {
	var dsn string
	var down bool
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Create the output table on the SQL sink database",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(g)
			if err != nil {
				return err
			}
			if dsn != "" {
				cfg.Windcapex.Sink.SQL.ConnectionString = dsn
			}
			direction := app.MigrateUp
			if down {
				direction = app.MigrateDown
			}
			if code := app.RunMigrations(ctx, cfg, direction); code != app.ExitOK {
				return exitError{code: code}
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&dsn, "dsn", "", "SQL connection string; defaults to sink.sql.connection_string")
	cmd.Flags().BoolVar(&down, "down", false, "drop the output table instead of creating it")
	return cmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintln(cmd.OutOrStdout(), "windcapex "+version)
		},
	}
}

// loadConfig loads the embedded configuration and applies the global flags.
func loadConfig(g *globalFlags) (*config.Config, error) {
	if g.logLevel != "" {
		logger.SetLogLevel(g.logLevel)
	}
	cfg, err := config.LoadConfig(g.envFile, embeddedConfig)
	if err != nil {
		logger.Errorf("Failed to load configuration: %v", err)
		return nil, exitError{code: app.ExitError}
	}
	if g.logLevel != "" {
		cfg.Windcapex.System.Logging.Level = g.logLevel
	}
	logger.SetLogLevel(cfg.Windcapex.System.Logging.Level)
	return cfg, nil
}

// applyRunFlags overlays the run flags on cfg and validates the result.
func applyRunFlags(cfg *config.Config, f *runFlags) error {
	w := &cfg.Windcapex
	if f.rates != "" {
		w.Pipeline.RatesSource = f.rates
	}
	if f.noDedup {
		w.Pipeline.Deduplicate = false
	}
	if f.sink != "" {
		w.Sink.Type = f.sink
	}
	if f.outputDir != "" {
		w.Sink.CSV.OutputDir = f.outputDir
	}
	if f.dsn != "" {
		w.Sink.SQL.ConnectionString = f.dsn
		if f.sink == "" {
			w.Sink.Type = config.SinkTypeSQL
		}
	}
	if f.table != "" {
		w.Sink.SQL.TableName = f.table
	}
	if err := cfg.Validate(); err != nil {
		return exception.NewBatchError("cli", exception.KindConfig, "invalid options", err)
	}
	return nil
}

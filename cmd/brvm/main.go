package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/ternarybob/arbor"

	"github.com/kyac99/brvm-market-analysis/internal/app"
	"github.com/kyac99/brvm-market-analysis/internal/common"
	"github.com/kyac99/brvm-market-analysis/internal/scheduler"
)

// configPaths is a custom flag type that allows multiple -config flags
type configPaths []string

func (c *configPaths) String() string {
	return fmt.Sprintf("%v", *c)
}

func (c *configPaths) Set(value string) error {
	*c = append(*c, value)
	return nil
}

var (
	configFiles  configPaths
	doCollect    = flag.Bool("collect", false, "Collect historical data for the whole universe")
	doDashboard  = flag.Bool("dashboard", false, "Generate the HTML dashboard")
	doPDF        = flag.Bool("pdf", false, "Generate the PDF report")
	doExport     = flag.Bool("export", false, "Export the analysis as CSV files")
	doAll        = flag.Bool("all", false, "Collect, then generate every report artifact")
	doSchedule   = flag.Bool("schedule", false, "Run continuously on the configured cron schedule")
	showVersion  = flag.Bool("version", false, "Print version information")
	showVersionV = flag.Bool("v", false, "Print version information (shorthand)")

	config *common.Config
	logger arbor.ILogger
)

func init() {
	flag.Var(&configFiles, "config", "Configuration file path (can be specified multiple times, later files override earlier ones)")
	flag.Var(&configFiles, "c", "Configuration file path (shorthand)")
}

func main() {
	flag.Parse()

	if *showVersion || *showVersionV {
		fmt.Printf("brvm version %s\n", common.GetFullVersion())
		os.Exit(0)
	}

	// Startup sequence (REQUIRED ORDER):
	// 1. Load config (defaults -> file1 -> file2 -> ... -> env)
	// 2. Initialize logger
	// 3. Print banner
	var err error

	if len(configFiles) == 0 {
		if _, err := os.Stat("brvm.toml"); err == nil {
			configFiles = append(configFiles, "brvm.toml")
		}
	}

	config, err = common.LoadFromFiles(configFiles...)
	if err != nil {
		tempLogger := arbor.NewLogger()
		tempLogger.Fatal().Strs("paths", configFiles).Err(err).Msg("Failed to load configuration")
		os.Exit(1)
	}

	logger = common.InitLogger(config)
	common.PrintBanner(common.GetVersion())

	logger.Info().
		Strs("config_files", configFiles).
		Str("data_dir", config.Storage.DataDir).
		Str("log_level", config.Logging.Level).
		Msg("Application configuration loaded")

	application, err := app.New(config, logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to initialize application")
		os.Exit(1)
	}
	defer application.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if *doSchedule || config.Schedule.Enabled {
		runScheduled(ctx, application)
		return
	}

	if !*doCollect && !*doDashboard && !*doPDF && !*doExport && !*doAll {
		flag.Usage()
		os.Exit(2)
	}

	if *doCollect || *doAll {
		result, err := application.Collect(ctx)
		if err != nil {
			logger.Fatal().Err(err).Msg("Collection failed")
			os.Exit(1)
		}
		if result.Collected == 0 {
			logger.Error().Msg("Collection produced no data")
			os.Exit(1)
		}
	}

	outputs := app.ReportOutputs{
		Dashboard: *doDashboard || *doAll,
		PDF:       *doPDF || *doAll,
		Export:    *doExport || *doAll,
	}
	if outputs.Dashboard || outputs.PDF || outputs.Export {
		if _, err := application.Report(ctx, outputs); err != nil {
			logger.Fatal().Err(err).Msg("Report generation failed")
			os.Exit(1)
		}
	}
}

func runScheduled(ctx context.Context, application *app.App) {
	svc := scheduler.NewService(application.Refresh, logger)
	if err := svc.Start(config.Schedule.Cron); err != nil {
		logger.Fatal().Err(err).Str("schedule", config.Schedule.Cron).Msg("Failed to start scheduler")
		os.Exit(1)
	}

	if next, ok := svc.NextRun(); ok {
		logger.Info().
			Str("schedule", config.Schedule.Cron).
			Str("next_run", next.Format("2006-01-02 15:04:05")).
			Msg("Running on schedule - Press Ctrl+C to stop")
	}

	<-ctx.Done()
	svc.Stop()
}

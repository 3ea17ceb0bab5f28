// Command delivery-ranker ranks securities by the day-over-day increase of
// their deliverable percentage, prints the table and saves
// data/output/top10_<date>.csv.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"deliverycli/internal/app"
	"deliverycli/internal/config"
	apperrors "deliverycli/internal/errors"
	"deliverycli/internal/exporter"
	"deliverycli/internal/infrastructure"
	"deliverycli/pkg/contracts"
	"deliverycli/pkg/contracts/domain"
)

const command = "delivery-ranker"

type options struct {
	configFile string
	date       string
	dataDir    string
	series     string
	top        int
	xlsx       bool
	version    bool
	set        map[string]bool
}

func parseFlags(args []string, stderr io.Writer) (*options, error) {
	opts := &options{set: map[string]bool{}}

	fs := flag.NewFlagSet(command, flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.StringVar(&opts.configFile, "config", "", "YAML config file (defaults to config.yaml or configs/config.yaml)")
	fs.StringVar(&opts.date, "date", domain.TodayToken, "target date as YYYY-MM-DD or TODAY")
	fs.StringVar(&opts.dataDir, "data", "", "data directory (overrides paths.data_dir)")
	fs.StringVar(&opts.series, "series", "", "series to rank (overrides ranking.series)")
	fs.IntVar(&opts.top, "top", 0, "number of entries to keep (overrides ranking.top_n)")
	fs.BoolVar(&opts.xlsx, "xlsx", false, "also write top10_<date>.xlsx (overrides ranking.export_xlsx)")
	fs.BoolVar(&opts.version, "version", false, "print version and exit")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	fs.Visit(func(f *flag.Flag) { opts.set[f.Name] = true })

	if opts.set["top"] && opts.top < 1 {
		return nil, fmt.Errorf("-top must be at least 1, got %d", opts.top)
	}
	return opts, nil
}

func loadConfig(opts *options) (*config.Config, error) {
	var (
		cfg *config.Config
		err error
	)
	if opts.configFile != "" {
		cfg, err = config.LoadFrom(opts.configFile)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return nil, err
	}

	if opts.dataDir != "" {
		cfg.Paths.DataDir = opts.dataDir
	}
	if opts.series != "" {
		cfg.Ranking.Series = opts.series
	}
	if opts.set["top"] {
		cfg.Ranking.TopN = opts.top
	}
	if opts.set["xlsx"] {
		cfg.Ranking.ExportXLSX = opts.xlsx
	}
	return cfg, nil
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	opts, err := parseFlags(args, stderr)
	if err != nil {
		return err
	}
	if opts.version {
		fmt.Fprintln(stdout, contracts.GetFullVersionString(command))
		return nil
	}

	target, err := domain.ParseTargetDate(opts.date, time.Now())
	if err != nil {
		return apperrors.NewAppValidationError(err.Error())
	}

	cfg, err := loadConfig(opts)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	rt, err := app.NewRuntime(cfg, command)
	if err != nil {
		return err
	}
	defer func() {
		if err := rt.Close(context.WithoutCancel(ctx)); err != nil {
			rt.Logger.Warn("Shutdown incomplete", slog.String("error", err.Error()))
		}
	}()

	ctx, traceID := infrastructure.NewRunContext(ctx)
	rt.Logger.InfoContext(ctx, "Starting delivery ranking",
		slog.String("date", domain.FormatISODate(target)),
		slog.String("series", cfg.Ranking.Series),
		slog.Int("top_n", cfg.Ranking.TopN),
		slog.String("run_id", traceID))

	result, err := rt.RankingService().Run(ctx, target)
	if err != nil {
		rt.Logger.ErrorContext(ctx, "Delivery ranking failed", slog.String("error", err.Error()))
		return err
	}

	if err := exporter.PrintRanking(stdout, result.Entries, domain.FormatISODate(target), cfg.Ranking.TopN); err != nil {
		return err
	}
	fmt.Fprintf(stdout, "\nSaved CSV: %s\n", result.CSVPath)
	if result.XLSXPath != "" {
		fmt.Fprintf(stdout, "Saved XLSX: %s\n", result.XLSXPath)
	}
	return nil
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return
		}
		fmt.Fprintf(os.Stderr, "%s: %v\n", command, err)
		stop()
		os.Exit(1)
	}
}

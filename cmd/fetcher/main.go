// Command delivery-fetcher downloads the daily MTO security-wise delivery
// report and writes it as data/clean/delivery_<date>.csv, for the target
// date and, unless disabled, the previous calendar day.
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
	"deliverycli/internal/infrastructure"
	"deliverycli/internal/services"
	"deliverycli/pkg/contracts"
	"deliverycli/pkg/contracts/domain"
)

const command = "delivery-fetcher"

// options holds the parsed command line. set records which flags were
// given explicitly so they override the loaded configuration.
type options struct {
	configFile string
	date       string
	dataDir    string
	prev       bool
	fromRaw    bool
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
	fs.BoolVar(&opts.prev, "prev", true, "also fetch the previous calendar day (overrides archive.fetch_previous)")
	fs.BoolVar(&opts.fromRaw, "from-raw", false, "re-clean stored MTO_<date>.DAT files instead of downloading")
	fs.BoolVar(&opts.version, "version", false, "print version and exit")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	fs.Visit(func(f *flag.Flag) { opts.set[f.Name] = true })
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
	if opts.set["prev"] {
		cfg.Archive.FetchPrevious = opts.prev
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
	rt.Logger.InfoContext(ctx, "Starting delivery fetch",
		slog.String("date", domain.FormatISODate(target)),
		slog.Bool("fetch_previous", cfg.Archive.FetchPrevious),
		slog.Bool("from_raw", opts.fromRaw),
		slog.String("run_id", traceID))

	written, err := rt.DeliveryService().Run(ctx, target, services.FetchOptions{
		IncludePrevious: cfg.Archive.FetchPrevious,
		FromRaw:         opts.fromRaw,
	})
	for _, path := range written {
		fmt.Fprintf(stdout, "Saved clean CSV: %s\n", path)
	}
	if err != nil {
		rt.Logger.ErrorContext(ctx, "Delivery fetch failed", slog.String("error", err.Error()))
		return err
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

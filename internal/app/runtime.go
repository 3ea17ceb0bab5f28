package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"deliverycli/internal/archive"
	"deliverycli/internal/config"
	"deliverycli/internal/exporter"
	"deliverycli/internal/files"
	"deliverycli/internal/infrastructure"
	"deliverycli/internal/services"
	"deliverycli/pkg/contracts"
)

// Runtime is the process scaffolding shared by every command: resolved
// directories, the global logger and the telemetry providers.
type Runtime struct {
	Config        *config.Config
	Paths         *config.Paths
	Logger        *slog.Logger
	OTelProviders *infrastructure.OTelProviders
}

// NewRuntime initializes logging, directories and telemetry for command.
func NewRuntime(cfg *config.Config, command string) (*Runtime, error) {
	logger, err := infrastructure.InitializeLogger(cfg.Logging)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	logger = infrastructure.WithComponent(logger, command)

	paths, err := config.GetPaths(cfg.Paths)
	if err != nil {
		return nil, fmt.Errorf("failed to get paths: %w", err)
	}
	if err := paths.EnsureDirectories(); err != nil {
		return nil, fmt.Errorf("failed to ensure directories: %w", err)
	}
	paths.LogPathResolution(logger)

	providers, err := infrastructure.InitializeOTel(cfg.Telemetry, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize OpenTelemetry: %w", err)
	}

	logger.Debug("Runtime initialized",
		slog.String("version", contracts.GetVersionString(command)),
		slog.String("data_dir", paths.DataDir))

	return &Runtime{
		Config:        cfg,
		Paths:         paths,
		Logger:        logger,
		OTelProviders: providers,
	}, nil
}

// DeliveryService wires the archive fetcher, raw report storage and the
// clean CSV writer.
func (rt *Runtime) DeliveryService() *services.DeliveryService {
	fetcher := archive.NewFetcher(rt.Config.Archive, archive.NewHTTPClient(), rt.Logger, rt.OTelProviders.Metrics)
	return services.NewDeliveryService(
		fetcher,
		files.NewManager(rt.Paths, rt.Logger),
		exporter.NewCSVWriter(rt.Logger),
		rt.OTelProviders.Metrics,
		rt.Logger,
	)
}

// RankingService wires the ranking over the clean tables under Paths.
func (rt *Runtime) RankingService() *services.RankingService {
	return services.NewRankingService(
		rt.Paths,
		exporter.NewCSVWriter(rt.Logger),
		rt.Config.Ranking,
		rt.OTelProviders.Metrics,
		rt.Logger,
	)
}

// Close dumps the metrics textfile, flushes telemetry and closes the log
// file. Every step runs even when an earlier one fails.
func (rt *Runtime) Close(ctx context.Context) error {
	var errs []error
	if err := rt.OTelProviders.WriteTextfile(rt.Config.Telemetry.MetricsTextfile); err != nil {
		errs = append(errs, err)
	}
	if err := rt.OTelProviders.Shutdown(ctx); err != nil {
		errs = append(errs, err)
	}
	if err := infrastructure.CloseLogFile(); err != nil {
		errs = append(errs, fmt.Errorf("close log file: %w", err))
	}
	return errors.Join(errs...)
}

package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"deliverycli/internal/dataprocessing"
	"deliverycli/internal/exporter"
	"deliverycli/internal/files"
	"deliverycli/internal/infrastructure"
	"deliverycli/pkg/contracts/domain"
)

// ReportFetcher downloads the raw MTO report for a date.
type ReportFetcher interface {
	Fetch(ctx context.Context, date time.Time) (string, error)
}

// DeliveryService turns archive reports into clean delivery CSVs.
type DeliveryService struct {
	fetcher ReportFetcher
	files   *files.Manager
	writer  *exporter.CSVWriter
	metrics *infrastructure.PipelineMetrics
	logger  *slog.Logger
}

// NewDeliveryService creates a delivery service. metrics may be nil.
func NewDeliveryService(fetcher ReportFetcher, manager *files.Manager, writer *exporter.CSVWriter, metrics *infrastructure.PipelineMetrics, logger *slog.Logger) *DeliveryService {
	if logger == nil {
		logger = slog.Default()
	}
	return &DeliveryService{
		fetcher: fetcher,
		files:   manager,
		writer:  writer,
		metrics: metrics,
		logger:  infrastructure.WithComponent(logger, "delivery_service"),
	}
}

// FetchOptions selects which dates a run processes and where the report
// text comes from.
type FetchOptions struct {
	// IncludePrevious also processes the previous calendar day.
	IncludePrevious bool
	// FromRaw re-parses stored raw reports instead of downloading.
	FromRaw bool
}

// Run processes date and, when requested, the previous calendar day, in that
// order. It stops at the first failure and returns the clean CSV paths
// written so far.
func (s *DeliveryService) Run(ctx context.Context, date time.Time, opts FetchOptions) ([]string, error) {
	dates := []time.Time{date}
	if opts.IncludePrevious {
		dates = append(dates, domain.PreviousCalendarDay(date))
	}

	var written []string
	for _, d := range dates {
		var (
			path string
			err  error
		)
		if opts.FromRaw {
			path, err = s.CleanFromRaw(ctx, d)
		} else {
			path, err = s.FetchAndClean(ctx, d)
		}
		if err != nil {
			return written, err
		}
		written = append(written, path)
	}
	return written, nil
}

// FetchAndClean downloads the report for date, stores the raw text and writes
// the clean CSV. It returns the clean CSV path.
func (s *DeliveryService) FetchAndClean(ctx context.Context, date time.Time) (string, error) {
	iso := domain.FormatISODate(date)
	ctx, span := infrastructure.StartSpan(ctx, "delivery.fetch_and_clean", attribute.String("date", iso))
	defer span.End()

	raw, err := s.fetcher.Fetch(ctx, date)
	if err != nil {
		infrastructure.RecordError(span, err)
		return "", err
	}

	rawPath, err := s.files.WriteRawReport(date, raw)
	if err != nil {
		infrastructure.RecordError(span, err)
		return "", err
	}
	s.logger.InfoContext(ctx, "Saved raw report",
		slog.String("date", iso),
		slog.String("path", rawPath))

	path, err := s.clean(ctx, date, raw, rawPath)
	if err != nil {
		infrastructure.RecordError(span, err)
	}
	return path, err
}

// CleanFromRaw re-parses the stored raw report for date and rewrites its
// clean CSV. Re-running it on unchanged input yields an identical file.
func (s *DeliveryService) CleanFromRaw(ctx context.Context, date time.Time) (string, error) {
	iso := domain.FormatISODate(date)
	ctx, span := infrastructure.StartSpan(ctx, "delivery.clean_from_raw", attribute.String("date", iso))
	defer span.End()

	raw, err := s.files.ReadRawReport(date)
	if err != nil {
		infrastructure.RecordError(span, err)
		return "", err
	}

	path, err := s.clean(ctx, date, raw, s.files.Paths().RawReportPath(date))
	if err != nil {
		infrastructure.RecordError(span, err)
	}
	return path, err
}

func (s *DeliveryService) clean(ctx context.Context, date time.Time, raw, rawPath string) (string, error) {
	iso := domain.FormatISODate(date)

	table, err := dataprocessing.ParseReport(raw)
	if err != nil {
		s.logger.ErrorContext(ctx, "Failed to parse report",
			slog.String("date", iso),
			slog.String("raw_path", rawPath),
			slog.String("error", err.Error()))
		return "", fmt.Errorf("parse %s: %w", rawPath, err)
	}
	table.Date = iso
	s.metrics.RecordParsed(ctx, string(table.Layout), table.Len())

	path := s.files.Paths().CleanCSVPath(date)
	if err := s.writer.WriteDeliveryTable(path, table); err != nil {
		return "", fmt.Errorf("write clean CSV for %s: %w", iso, err)
	}

	s.logger.InfoContext(ctx, "Saved clean CSV",
		slog.String("date", iso),
		slog.String("path", path),
		slog.String("layout", string(table.Layout)),
		slog.Int("records", table.Len()))

	return path, nil
}

package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"deliverycli/internal/config"
	"deliverycli/internal/exporter"
	"deliverycli/internal/infrastructure"
	"deliverycli/internal/ranking"
	"deliverycli/pkg/contracts/domain"
)

// RankingResult is the outcome of one ranking run.
type RankingResult struct {
	DateToday time.Time            `json:"-"`
	DatePrev  time.Time            `json:"-"`
	Entries   []domain.RankedEntry `json:"entries"`
	CSVPath   string               `json:"csv_path,omitempty"`
	XLSXPath  string               `json:"xlsx_path,omitempty"`
}

// RankingService ranks day-over-day delivery percentage changes.
type RankingService struct {
	paths   *config.Paths
	writer  *exporter.CSVWriter
	cfg     config.RankingConfig
	metrics *infrastructure.PipelineMetrics
	logger  *slog.Logger
}

// NewRankingService creates a ranking service. metrics may be nil.
func NewRankingService(paths *config.Paths, writer *exporter.CSVWriter, cfg config.RankingConfig, metrics *infrastructure.PipelineMetrics, logger *slog.Logger) *RankingService {
	if logger == nil {
		logger = slog.Default()
	}
	return &RankingService{
		paths:   paths,
		writer:  writer,
		cfg:     cfg,
		metrics: metrics,
		logger:  infrastructure.WithComponent(logger, "ranking_service"),
	}
}

// Compute loads the clean tables for date and the previous calendar day and
// ranks them without writing anything. A missing table is a missing-file
// error.
func (s *RankingService) Compute(ctx context.Context, date time.Time) (*RankingResult, error) {
	prevDate := domain.PreviousCalendarDay(date)
	_, span := infrastructure.StartSpan(ctx, "ranking.compute",
		attribute.String("date_today", domain.FormatISODate(date)),
		attribute.String("date_prev", domain.FormatISODate(prevDate)))
	defer span.End()

	today, err := exporter.ReadDeliveryTable(s.paths.CleanCSVPath(date))
	if err != nil {
		infrastructure.RecordError(span, err)
		return nil, err
	}
	prev, err := exporter.ReadDeliveryTable(s.paths.CleanCSVPath(prevDate))
	if err != nil {
		infrastructure.RecordError(span, err)
		return nil, err
	}

	entries := ranking.Rank(today, prev, ranking.Options{
		Series:    s.cfg.Series,
		TopN:      s.cfg.TopN,
		DateToday: date,
		DatePrev:  prevDate,
	})

	return &RankingResult{
		DateToday: date,
		DatePrev:  prevDate,
		Entries:   entries,
	}, nil
}

// Run computes the ranking for date and writes top10_<date>.csv, plus the
// workbook when XLSX export is enabled.
func (s *RankingService) Run(ctx context.Context, date time.Time) (*RankingResult, error) {
	result, err := s.Compute(ctx, date)
	if err != nil {
		return nil, err
	}

	result.CSVPath = s.paths.RankingCSVPath(date)
	if err := s.writer.WriteRanking(result.CSVPath, result.Entries); err != nil {
		return nil, fmt.Errorf("write ranking: %w", err)
	}

	if s.cfg.ExportXLSX {
		result.XLSXPath = s.paths.RankingXLSXPath(date)
		if err := exporter.WriteRankingXLSX(result.XLSXPath, result.Entries); err != nil {
			return nil, fmt.Errorf("write ranking workbook: %w", err)
		}
	}

	s.metrics.RecordRanked(ctx, len(result.Entries))
	s.logger.InfoContext(ctx, "Saved ranking",
		slog.String("date_today", domain.FormatISODate(result.DateToday)),
		slog.String("date_prev", domain.FormatISODate(result.DatePrev)),
		slog.Int("entries", len(result.Entries)),
		slog.String("csv_path", result.CSVPath),
		slog.String("xlsx_path", result.XLSXPath))

	return result, nil
}

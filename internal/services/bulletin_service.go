// Package services contains the application services consumed by the
// transport layer and the CLI entrypoints.
package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"visatrack/internal/bulletin"
	"visatrack/internal/cache"
	"visatrack/internal/fetch"
	"visatrack/internal/infrastructure"
	"visatrack/internal/pipeline"
	"visatrack/pkg/contracts/domain"
)

// Fetcher retrieves the plain-text rendering of one period's bulletin.
type Fetcher interface {
	FetchDocumentText(ctx context.Context, p domain.Period) (string, error)
}

// ErrNoData reports that a period has no usable bulletin data. It wraps the
// underlying cause (unpublished document or missing section).
var ErrNoData = errors.New("no bulletin data")

// BulletinService exposes normalized bulletin records and cutoff-date
// series. Per-period results are cached for the lifetime of the process.
type BulletinService struct {
	fetcher  Fetcher
	store    *cache.Store
	backfill *pipeline.Backfill
	logger   *slog.Logger
	metrics  *infrastructure.Metrics
}

// NewBulletinService creates the service. publisher may be nil; metrics may
// be nil when observability is not initialized (CLI runs).
func NewBulletinService(fetcher Fetcher, store *cache.Store, workers int, publisher pipeline.Publisher, logger *slog.Logger, metrics *infrastructure.Metrics) *BulletinService {
	if logger == nil {
		logger = slog.Default()
	}
	s := &BulletinService{
		fetcher: fetcher,
		store:   store,
		logger:  logger.With(slog.String("component", "bulletin_service")),
		metrics: metrics,
	}
	s.backfill = pipeline.NewBackfill(s.Records, workers, publisher, logger)

	if metrics != nil {
		store.OnHit(func() { metrics.CacheHits.Add(context.Background(), 1) })
		store.OnMiss(func() { metrics.CacheMisses.Add(context.Background(), 1) })
	}
	return s
}

// Records returns the normalized records for one period, fetching and
// extracting the bulletin on first access.
func (s *BulletinService) Records(ctx context.Context, p domain.Period) ([]domain.Record, error) {
	return s.store.GetOrCompute(ctx, p, func(ctx context.Context) ([]domain.Record, error) {
		return s.extract(ctx, p)
	})
}

// extract is the cache-miss path: download the document and run the
// extraction pipeline over its text.
func (s *BulletinService) extract(ctx context.Context, p domain.Period) ([]domain.Record, error) {
	start := time.Now()

	text, err := s.fetcher.FetchDocumentText(ctx, p)
	if err != nil {
		if errors.Is(err, fetch.ErrNotPublished) {
			s.metrics.CountDocumentFetch(ctx, "not_published")
			return nil, fmt.Errorf("%w: %w", ErrNoData, err)
		}
		s.metrics.CountDocumentFetch(ctx, "error")
		return nil, err
	}
	s.metrics.CountDocumentFetch(ctx, "ok")

	records, stats, err := bulletin.ExtractRecords(text)
	if err != nil {
		if errors.Is(err, bulletin.ErrSectionNotFound) {
			s.logger.InfoContext(ctx, "section missing from bulletin",
				slog.String("period", p.Label()))
			return nil, fmt.Errorf("%w: %s: %w", ErrNoData, p.Label(), err)
		}
		return nil, err
	}

	for reason, n := range stats.Skipped {
		s.metrics.CountSkippedRows(ctx, string(reason), n)
	}
	if s.metrics != nil {
		s.metrics.ExtractDuration.Record(ctx, time.Since(start).Seconds())
	}

	s.logger.InfoContext(ctx, "bulletin extracted",
		slog.String("period", p.Label()),
		slog.Int("records", len(records)),
		slog.Int("rows", stats.Rows),
		slog.Int("duplicates", stats.Duplicates))
	return records, nil
}

// Backfill extracts all the given periods in parallel and returns the ones
// with data, preserving period order.
func (s *BulletinService) Backfill(ctx context.Context, periods []domain.Period) ([]domain.PeriodRecords, error) {
	if s.metrics != nil {
		s.metrics.BackfillsStarted.Add(ctx, 1)
	}
	extracted, err := s.backfill.Run(ctx, periods)
	if err != nil {
		return nil, err
	}
	if s.metrics != nil {
		s.metrics.PeriodsExtracted.Add(ctx, int64(len(extracted)))
	}
	return extracted, nil
}

// Series builds one category's cutoff-date series across the given periods,
// in period order, skipping periods without a parseable record for the
// category.
func (s *BulletinService) Series(ctx context.Context, category domain.Category, periods []domain.Period) ([]domain.SeriesPoint, error) {
	extracted, err := s.Backfill(ctx, periods)
	if err != nil {
		return nil, err
	}
	return bulletin.BuildSeries(extracted, category), nil
}

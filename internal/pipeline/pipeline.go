// Package pipeline runs batch extraction across many bulletin periods.
// Extraction is a pure function of the document text, so periods are
// processed in parallel; failures stay local to one period and the batch
// always reports the periods that did succeed.
package pipeline

import (
	"context"
	"errors"
	"log/slog"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"visatrack/internal/bulletin"
	"visatrack/internal/fetch"
	"visatrack/pkg/contracts/domain"
)

// Loader produces the record list for one period (typically the cached
// fetch-and-extract path of the bulletin service).
type Loader func(ctx context.Context, p domain.Period) ([]domain.Record, error)

// Event statuses published while a backfill runs.
const (
	StatusStarted   = "started"
	StatusExtracted = "extracted"
	StatusNoData    = "no_data"
	StatusFailed    = "failed"
)

// Event is one progress update of a backfill run.
type Event struct {
	RunID   string `json:"run_id"`
	Period  string `json:"period"`
	Status  string `json:"status"`
	Records int    `json:"records,omitempty"`
	Error   string `json:"error,omitempty"`
}

// Publisher receives progress events. The websocket hub implements it; a
// nil publisher disables streaming.
type Publisher interface {
	Publish(Event)
}

// Backfill extracts a list of periods with bounded parallelism.
type Backfill struct {
	load      Loader
	workers   int
	publisher Publisher
	logger    *slog.Logger
}

// NewBackfill creates a backfill runner.
func NewBackfill(load Loader, workers int, publisher Publisher, logger *slog.Logger) *Backfill {
	if workers < 1 {
		workers = 1
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Backfill{
		load:      load,
		workers:   workers,
		publisher: publisher,
		logger:    logger.With(slog.String("component", "backfill")),
	}
}

// Run extracts every period and returns the successful ones in the caller's
// order. Unpublished bulletins and missing sections are normal gaps; any
// other per-period failure is logged and skipped as well. Run only returns
// an error when the context is canceled.
func (b *Backfill) Run(ctx context.Context, periods []domain.Period) ([]domain.PeriodRecords, error) {
	runID := uuid.New().String()
	b.logger.InfoContext(ctx, "backfill started",
		slog.String("run_id", runID),
		slog.Int("periods", len(periods)),
		slog.Int("workers", b.workers))

	results := make([]*domain.PeriodRecords, len(periods))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(b.workers)
	for i, p := range periods {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			b.publish(Event{RunID: runID, Period: p.Label(), Status: StatusStarted})

			records, err := b.load(gctx, p)
			switch {
			case err == nil:
				results[i] = &domain.PeriodRecords{Period: p, Records: records}
				b.publish(Event{RunID: runID, Period: p.Label(), Status: StatusExtracted, Records: len(records)})
			case errors.Is(err, fetch.ErrNotPublished), errors.Is(err, bulletin.ErrSectionNotFound):
				b.logger.InfoContext(gctx, "no data for period",
					slog.String("run_id", runID),
					slog.String("period", p.Label()))
				b.publish(Event{RunID: runID, Period: p.Label(), Status: StatusNoData})
			default:
				b.logger.ErrorContext(gctx, "period extraction failed",
					slog.String("run_id", runID),
					slog.String("period", p.Label()),
					slog.String("error", err.Error()))
				b.publish(Event{RunID: runID, Period: p.Label(), Status: StatusFailed, Error: err.Error()})
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var extracted []domain.PeriodRecords
	for _, r := range results {
		if r != nil {
			extracted = append(extracted, *r)
		}
	}

	b.logger.InfoContext(ctx, "backfill finished",
		slog.String("run_id", runID),
		slog.Int("extracted", len(extracted)),
		slog.Int("requested", len(periods)))
	return extracted, nil
}

func (b *Backfill) publish(e Event) {
	if b.publisher != nil {
		b.publisher.Publish(e)
	}
}

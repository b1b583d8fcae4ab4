package http

import (
	"context"

	"visatrack/pkg/contracts/domain"
)

// BulletinServiceInterface is the service surface the handlers depend on.
type BulletinServiceInterface interface {
	Records(ctx context.Context, p domain.Period) ([]domain.Record, error)
	Series(ctx context.Context, category domain.Category, periods []domain.Period) ([]domain.SeriesPoint, error)
	Backfill(ctx context.Context, periods []domain.Period) ([]domain.PeriodRecords, error)
}

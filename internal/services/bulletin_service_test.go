package services

import (
	"context"
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"visatrack/internal/bulletin"
	"visatrack/internal/cache"
	"visatrack/internal/fetch"
	"visatrack/pkg/contracts/domain"
)

// fakeFetcher serves canned document text per period key.
type fakeFetcher struct {
	documents map[string]string
	calls     int32
}

func (f *fakeFetcher) FetchDocumentText(ctx context.Context, p domain.Period) (string, error) {
	atomic.AddInt32(&f.calls, 1)
	doc, ok := f.documents[p.Key()]
	if !ok {
		return "", fmt.Errorf("fetch %s: %w", p.Label(), fetch.ErrNotPublished)
	}
	return doc, nil
}

func docWithRows(rows ...string) string {
	doc := bulletin.SectionHeading
	for _, row := range rows {
		doc += "\n" + row
	}
	return doc + "\n"
}

func newTestService(f *fakeFetcher) *BulletinService {
	return NewBulletinService(f, cache.New(), 2, nil, nil, nil)
}

func TestRecordsExtractsAndCaches(t *testing.T) {
	june := domain.Period{Month: time.June, Year: 2024}
	f := &fakeFetcher{documents: map[string]string{
		june.Key(): docWithRows("2nd 01MAR24", "(see footnote 3)", "3rd 08NOV22"),
	}}
	svc := newTestService(f)

	records, err := svc.Records(context.Background(), june)
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, domain.CategoryEB2, records[0].Category)
	assert.Equal(t, domain.CategoryEB3, records[1].Category)

	_, err = svc.Records(context.Background(), june)
	require.NoError(t, err)
	assert.EqualValues(t, 1, atomic.LoadInt32(&f.calls), "second read must hit the cache")
}

func TestRecordsUnpublishedPeriod(t *testing.T) {
	svc := newTestService(&fakeFetcher{documents: map[string]string{}})

	_, err := svc.Records(context.Background(), domain.Period{Month: time.December, Year: 2099})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNoData)
	assert.ErrorIs(t, err, fetch.ErrNotPublished)
}

func TestRecordsSectionMissing(t *testing.T) {
	june := domain.Period{Month: time.June, Year: 2024}
	f := &fakeFetcher{documents: map[string]string{
		june.Key(): "a bulletin without the employment-based filing section",
	}}
	svc := newTestService(f)

	_, err := svc.Records(context.Background(), june)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNoData)
	assert.ErrorIs(t, err, bulletin.ErrSectionNotFound)
}

func TestSeriesAcrossPeriods(t *testing.T) {
	jan := domain.Period{Month: time.January, Year: 2024}
	feb := domain.Period{Month: time.February, Year: 2024}
	mar := domain.Period{Month: time.March, Year: 2024}
	f := &fakeFetcher{documents: map[string]string{
		jan.Key(): docWithRows("2nd 01MAR24"),
		// February unpublished.
		mar.Key(): docWithRows("3rd 01JAN23"), // no EB-2 row
	}}
	svc := newTestService(f)

	points, err := svc.Series(context.Background(), domain.CategoryEB2, []domain.Period{jan, feb, mar})
	require.NoError(t, err)
	require.Len(t, points, 1)
	assert.Equal(t, "January 2024", points[0].Period)
	assert.True(t, points[0].Date.Equal(time.Date(2024, time.March, 1, 0, 0, 0, 0, time.UTC)))
}

func TestBackfillReportsPartialResults(t *testing.T) {
	jan := domain.Period{Month: time.January, Year: 2024}
	feb := domain.Period{Month: time.February, Year: 2024}
	f := &fakeFetcher{documents: map[string]string{
		feb.Key(): docWithRows("1st C", "4th 15JUN24"),
	}}
	svc := newTestService(f)

	extracted, err := svc.Backfill(context.Background(), []domain.Period{jan, feb})
	require.NoError(t, err)
	require.Len(t, extracted, 1)
	assert.Equal(t, feb, extracted[0].Period)
	assert.Len(t, extracted[0].Records, 2)
}

package http

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apierrors "visatrack/internal/errors"
	"visatrack/internal/services"
	"visatrack/pkg/contracts/domain"
)

// stubService returns canned data and records the calls it sees.
type stubService struct {
	records   []domain.Record
	recordErr error
	points    []domain.SeriesPoint
	seriesErr error

	gotPeriod   domain.Period
	gotCategory domain.Category
	gotPeriods  []domain.Period
}

func (s *stubService) Records(ctx context.Context, p domain.Period) ([]domain.Record, error) {
	s.gotPeriod = p
	return s.records, s.recordErr
}

func (s *stubService) Series(ctx context.Context, category domain.Category, periods []domain.Period) ([]domain.SeriesPoint, error) {
	s.gotCategory = category
	s.gotPeriods = periods
	return s.points, s.seriesErr
}

func (s *stubService) Backfill(ctx context.Context, periods []domain.Period) ([]domain.PeriodRecords, error) {
	s.gotPeriods = periods
	var out []domain.PeriodRecords
	if s.records != nil {
		out = append(out, domain.PeriodRecords{Period: periods[0], Records: s.records})
	}
	return out, nil
}

func newTestHandler(svc *stubService) *BulletinHandler {
	logger := slog.Default()
	return NewBulletinHandler(svc, logger, apierrors.NewErrorHandler(logger))
}

func doRequest(t *testing.T, h *BulletinHandler, method, target string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, target, nil)
	rec := httptest.NewRecorder()
	h.Routes().ServeHTTP(rec, req)
	return rec
}

func TestGetRecords(t *testing.T) {
	svc := &stubService{records: []domain.Record{
		{Category: domain.CategoryEB2, DateToken: "01MAR24", Parseable: true},
	}}
	rec := doRequest(t, newTestHandler(svc), http.MethodGet, "/records/2024/June")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, domain.Period{Month: time.June, Year: 2024}, svc.gotPeriod)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "success", body["status"])
	assert.EqualValues(t, 1, body["count"])
}

func TestGetRecordsNoData(t *testing.T) {
	svc := &stubService{recordErr: fmt.Errorf("%w: June 2099", services.ErrNoData)}
	rec := doRequest(t, newTestHandler(svc), http.MethodGet, "/records/2099/June")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestGetRecordsValidation(t *testing.T) {
	tests := []struct {
		name   string
		target string
	}{
		{"bad year", "/records/abcd/June"},
		{"year out of range", "/records/1990/June"},
		{"bad month", "/records/2024/Juneish"},
		{"abbreviated month", "/records/2024/Jun"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := doRequest(t, newTestHandler(&stubService{}), http.MethodGet, tt.target)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
		})
	}
}

func TestGetSeries(t *testing.T) {
	svc := &stubService{points: []domain.SeriesPoint{
		{Period: "January 2024", Date: time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)},
	}}
	rec := doRequest(t, newTestHandler(svc), http.MethodGet, "/series/EB-2?year=2024")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, domain.CategoryEB2, svc.gotCategory)
	require.Len(t, svc.gotPeriods, 12)
	assert.Equal(t, domain.Period{Month: time.January, Year: 2024}, svc.gotPeriods[0])
	assert.Equal(t, domain.Period{Month: time.December, Year: 2024}, svc.gotPeriods[11])
}

func TestGetSeriesValidation(t *testing.T) {
	tests := []struct {
		name   string
		target string
	}{
		{"untracked category", "/series/EB-5?year=2024"},
		{"unknown category", "/series/EB-9?year=2024"},
		{"bad year", "/series/EB-2?year=twenty"},
		{"year out of range", "/series/EB-2?year=1900"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := doRequest(t, newTestHandler(&stubService{}), http.MethodGet, tt.target)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
		})
	}
}

func TestPostBackfill(t *testing.T) {
	svc := &stubService{records: []domain.Record{{Category: domain.CategoryEB1}}}
	rec := doRequest(t, newTestHandler(svc), http.MethodPost, "/backfill/2024")

	require.Equal(t, http.StatusOK, rec.Code)
	require.Len(t, svc.gotPeriods, 12)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.EqualValues(t, 1, body["count"])
}

package exporter

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"visatrack/pkg/contracts/domain"
)

func TestWriteSeries(t *testing.T) {
	dir := t.TempDir()
	w := NewCSVWriter(dir, nil)

	points := []domain.SeriesPoint{
		{Period: "January 2024", Date: time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)},
		{Period: "March 2024", Date: time.Date(2024, 4, 15, 0, 0, 0, 0, time.UTC)},
	}

	path, err := w.WriteSeries(domain.CategoryEB2, points)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "series_EB-2.csv"), path)

	file, err := os.Open(path)
	require.NoError(t, err)
	defer file.Close()

	rows, err := csv.NewReader(file).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, []string{"period", "cutoff_date"}, rows[0])
	assert.Equal(t, []string{"January 2024", "2024-03-01"}, rows[1])
	assert.Equal(t, []string{"March 2024", "2024-04-15"}, rows[2])
}

func TestWriteSeriesEmpty(t *testing.T) {
	w := NewCSVWriter(t.TempDir(), nil)

	path, err := w.WriteSeries(domain.CategoryEB1, nil)
	require.NoError(t, err)

	file, err := os.Open(path)
	require.NoError(t, err)
	defer file.Close()

	rows, err := csv.NewReader(file).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 1, "header only")
}

func TestWriteWorkbook(t *testing.T) {
	dir := t.TempDir()
	w := NewExcelWriter(dir, nil)

	periods := []domain.PeriodRecords{
		{
			Period: domain.Period{Month: time.June, Year: 2024},
			Records: []domain.Record{
				{Category: domain.CategoryEB1, DateToken: "C"},
				{Category: domain.CategoryEB2, DateToken: "01MAR24", Parseable: true},
			},
		},
		{
			Period: domain.Period{Month: time.July, Year: 2024},
			Records: []domain.Record{
				{Category: domain.CategoryEB3, DateToken: "08NOV22", Parseable: true},
			},
		},
	}

	path, err := w.WriteWorkbook("cutoffs_2024.xlsx", periods)
	require.NoError(t, err)

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(cutoffSheet)
	require.NoError(t, err)
	require.Len(t, rows, 3)

	assert.Equal(t, []string{"Period", "EB-1", "EB-2", "EB-3", "EB-4"}, rows[0])
	assert.Equal(t, "June 2024", rows[1][0])
	assert.Equal(t, "C", rows[1][1])
	assert.Equal(t, "01MAR24", rows[1][2])
	assert.Equal(t, "July 2024", rows[2][0])
	assert.Equal(t, "08NOV22", rows[2][3])
}

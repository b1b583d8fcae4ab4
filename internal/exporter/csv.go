// Package exporter writes extracted bulletin data to CSV and Excel files.
package exporter

import (
	"encoding/csv"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"visatrack/pkg/contracts/domain"
)

// dateLayout is the format used for cutoff dates in exports.
const dateLayout = "2006-01-02"

// CSVWriter exports series and record tables as CSV files under a base
// directory.
type CSVWriter struct {
	dir    string
	logger *slog.Logger
}

// NewCSVWriter creates a CSV writer rooted at dir.
func NewCSVWriter(dir string, logger *slog.Logger) *CSVWriter {
	if logger == nil {
		logger = slog.Default()
	}
	return &CSVWriter{dir: dir, logger: logger.With(slog.String("component", "csv_exporter"))}
}

// WriteSeries writes one category's cutoff-date series, one row per period.
func (w *CSVWriter) WriteSeries(category domain.Category, points []domain.SeriesPoint) (string, error) {
	path := filepath.Join(w.dir, fmt.Sprintf("series_%s.csv", category))
	if err := os.MkdirAll(w.dir, 0o755); err != nil {
		return "", fmt.Errorf("create export directory: %w", err)
	}

	file, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("create %s: %w", path, err)
	}
	defer file.Close()

	cw := csv.NewWriter(file)
	if err := cw.Write([]string{"period", "cutoff_date"}); err != nil {
		return "", fmt.Errorf("write header: %w", err)
	}
	for _, p := range points {
		if err := cw.Write([]string{p.Period, p.Date.Format(dateLayout)}); err != nil {
			return "", fmt.Errorf("write row: %w", err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return "", err
	}

	w.logger.Info("series exported",
		slog.String("category", string(category)),
		slog.String("path", path),
		slog.Int("points", len(points)))
	return path, nil
}

package exporter

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/xuri/excelize/v2"

	"visatrack/pkg/contracts/domain"
)

const cutoffSheet = "Cutoff Dates"

// ExcelWriter exports the per-period cutoff table as an Excel workbook,
// one row per period and one column per tracked category.
type ExcelWriter struct {
	dir    string
	logger *slog.Logger
}

// NewExcelWriter creates an Excel writer rooted at dir.
func NewExcelWriter(dir string, logger *slog.Logger) *ExcelWriter {
	if logger == nil {
		logger = slog.Default()
	}
	return &ExcelWriter{dir: dir, logger: logger.With(slog.String("component", "excel_exporter"))}
}

// WriteWorkbook writes the cutoff table of the given periods. Cells carry
// the published date token; unparseable tokens (e.g. "C") are written as-is
// and absent categories leave the cell empty.
func (w *ExcelWriter) WriteWorkbook(name string, periods []domain.PeriodRecords) (string, error) {
	if err := os.MkdirAll(w.dir, 0o755); err != nil {
		return "", fmt.Errorf("create export directory: %w", err)
	}
	path := filepath.Join(w.dir, name)

	f := excelize.NewFile()
	defer f.Close()

	index, err := f.NewSheet(cutoffSheet)
	if err != nil {
		return "", fmt.Errorf("create sheet: %w", err)
	}
	f.SetActiveSheet(index)
	f.DeleteSheet("Sheet1")

	categories := trackedCategories()
	header := []interface{}{"Period"}
	for _, c := range categories {
		header = append(header, string(c))
	}
	if err := f.SetSheetRow(cutoffSheet, "A1", &header); err != nil {
		return "", fmt.Errorf("write header: %w", err)
	}

	for i, pr := range periods {
		row := []interface{}{pr.Period.Label()}
		for _, c := range categories {
			row = append(row, tokenFor(pr.Records, c))
		}
		cell := fmt.Sprintf("A%d", i+2)
		if err := f.SetSheetRow(cutoffSheet, cell, &row); err != nil {
			return "", fmt.Errorf("write row %d: %w", i+2, err)
		}
	}

	if err := f.SaveAs(path); err != nil {
		return "", fmt.Errorf("save workbook: %w", err)
	}

	w.logger.Info("workbook exported",
		slog.String("path", path),
		slog.Int("periods", len(periods)))
	return path, nil
}

func trackedCategories() []domain.Category {
	var out []domain.Category
	for _, c := range domain.AllCategories() {
		if c.Tracked() {
			out = append(out, c)
		}
	}
	return out
}

func tokenFor(records []domain.Record, c domain.Category) string {
	for _, r := range records {
		if r.Category == c {
			return r.DateToken
		}
	}
	return ""
}

package bulletin

import (
	"log/slog"

	"visatrack/pkg/contracts/domain"
)

// ExtractStats summarizes one document's extraction for diagnostics and
// metrics. Skipped counts dropped rows by reason.
type ExtractStats struct {
	Rows       int
	Skipped    map[SkipReason]int
	Duplicates int
}

// ExtractRecords runs the full pipeline over one bulletin's plain text:
// locate the employment-based filing section, segment it into rows,
// normalize each row, and parse the date field. At most one record per
// category is produced; when a garbled document yields the same category
// twice, the first occurrence wins and the duplicate is dropped.
//
// Row-level problems never fail the document: skipped rows are counted and
// logged at debug level, and an unparseable date field keeps the record
// with Parseable=false.
func ExtractRecords(documentText string) ([]domain.Record, ExtractStats, error) {
	stats := ExtractStats{Skipped: make(map[SkipReason]int)}

	section, err := LocateSection(documentText, SectionHeading)
	if err != nil {
		return nil, stats, err
	}

	rows := SegmentRows(section)
	stats.Rows = len(rows)

	seen := make(map[domain.Category]bool)
	var records []domain.Record
	for _, row := range rows {
		rec, skip := NormalizeRow(row)
		if skip != SkipNone {
			stats.Skipped[skip]++
			slog.Debug("row skipped",
				slog.String("reason", string(skip)),
				slog.Any("row", row))
			continue
		}
		if seen[rec.Category] {
			stats.Duplicates++
			slog.Warn("duplicate category row dropped",
				slog.String("category", string(rec.Category)),
				slog.String("date_token", rec.DateToken))
			continue
		}
		seen[rec.Category] = true

		if date, ok := ParseCutoffDate(rec.DateToken); ok {
			rec.CutoffDate = date
			rec.Parseable = true
		} else {
			slog.Debug("unparseable date token",
				slog.String("category", string(rec.Category)),
				slog.String("token", rec.DateToken))
		}
		records = append(records, rec)
	}

	return records, stats, nil
}

package bulletin

import "visatrack/pkg/contracts/domain"

// BuildSeries projects one category's cutoff date out of an ordered
// sequence of period record lists. Periods where the category is absent or
// its date is unparseable are skipped entirely; gaps are expected, since
// bulletins frequently omit rows.
//
// The output preserves the caller-supplied period order. It is never
// re-sorted by date: published cutoff dates regress month-to-month at
// times, and the chart's x-axis must stay in period order.
func BuildSeries(periods []domain.PeriodRecords, category domain.Category) []domain.SeriesPoint {
	var points []domain.SeriesPoint
	for _, pr := range periods {
		for _, rec := range pr.Records {
			if rec.Category != category {
				continue
			}
			if rec.Parseable {
				points = append(points, domain.SeriesPoint{
					Period: pr.Period.Label(),
					Date:   rec.CutoffDate,
				})
			}
			break
		}
	}
	return points
}

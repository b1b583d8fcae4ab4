package domain

import (
	"fmt"
	"time"
)

// Category is the canonical identifier for an employment-based visa
// preference category. It is stable across bulletins regardless of how the
// source document words the row label.
type Category string

const (
	CategoryEB1              Category = "EB-1"
	CategoryEB2              Category = "EB-2"
	CategoryEB3              Category = "EB-3"
	CategoryEB4              Category = "EB-4"
	CategoryEB5              Category = "EB-5"
	CategoryCertainReligious Category = "Certain-Religious-Workers"
	CategoryOtherWorkers     Category = "Other-Workers"
)

// AllCategories returns every category the extractor can produce.
func AllCategories() []Category {
	return []Category{
		CategoryEB1,
		CategoryEB2,
		CategoryEB3,
		CategoryEB4,
		CategoryEB5,
		CategoryCertainReligious,
		CategoryOtherWorkers,
	}
}

// Tracked reports whether the category is part of the tracked set
// (EB-1 through EB-4). Records for other categories are filtered out
// during normalization.
func (c Category) Tracked() bool {
	switch c {
	case CategoryEB1, CategoryEB2, CategoryEB3, CategoryEB4:
		return true
	}
	return false
}

// Record is one normalized table row from a bulletin: a category and its
// published cutoff date. CutoffDate is the zero time and Parseable is false
// when the date field did not match the expected token format. Callers must
// treat an unparseable date as "omit from any series", never as an error.
type Record struct {
	Category   Category  `json:"category"`
	DateToken  string    `json:"date_token"`
	CutoffDate time.Time `json:"cutoff_date,omitempty"`
	Parseable  bool      `json:"parseable"`
}

// Period identifies one monthly bulletin.
type Period struct {
	Month time.Month `json:"month"`
	Year  int        `json:"year"`
}

// Label returns the human-readable period name, e.g. "June 2024".
func (p Period) Label() string {
	return fmt.Sprintf("%s %d", p.Month, p.Year)
}

// Key returns a stable cache key that sorts in calendar order
// (year major, month minor), e.g. "2024-06".
func (p Period) Key() string {
	return fmt.Sprintf("%04d-%02d", p.Year, int(p.Month))
}

// Before reports whether p precedes other in calendar order.
func (p Period) Before(other Period) bool {
	if p.Year != other.Year {
		return p.Year < other.Year
	}
	return p.Month < other.Month
}

// PeriodsForYear returns the twelve periods of a calendar year in order.
func PeriodsForYear(year int) []Period {
	periods := make([]Period, 0, 12)
	for m := time.January; m <= time.December; m++ {
		periods = append(periods, Period{Month: m, Year: year})
	}
	return periods
}

// PeriodRecords pairs a period with the records extracted from its bulletin.
// Record lists are immutable once produced.
type PeriodRecords struct {
	Period  Period   `json:"period"`
	Records []Record `json:"records"`
}

// SeriesPoint is one plotted coordinate of a category's cutoff-date series.
// Within a series, period labels are unique and appear in calendar order;
// dates may regress between consecutive points.
type SeriesPoint struct {
	Period string    `json:"period"`
	Date   time.Time `json:"date"`
}

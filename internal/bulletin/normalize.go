package bulletin

import (
	"strings"

	"visatrack/pkg/contracts/domain"
)

// SkipReason says why a raw row produced no record.
type SkipReason string

const (
	// SkipNone means the row was kept.
	SkipNone SkipReason = ""
	// SkipInsufficientTokens means the row had no date field.
	SkipInsufficientTokens SkipReason = "insufficient_tokens"
	// SkipUnknownCategory means the row label mapped to no category.
	// Unreachable for rows produced by SegmentRows, which gates on the
	// same label set.
	SkipUnknownCategory SkipReason = "unknown_category"
	// SkipFiltered means the row is outside the tracked category set or
	// its date field is a sentinel value.
	SkipFiltered SkipReason = "filtered"
)

// NormalizeRow converts a raw row into a record, or reports why the row was
// dropped. The row's lines are joined with a space and split on whitespace;
// the category label is the first token and the cutoff date field the
// second. Everything past the second token (footnote markers, country
// columns) is deliberately ignored: the bulletin's second column is always
// the cutoff date, so truncating to two tokens is layout-independent.
func NormalizeRow(row RawRow) (domain.Record, SkipReason) {
	tokens := strings.Fields(strings.Join(row, " "))
	if len(tokens) < 2 {
		return domain.Record{}, SkipInsufficientTokens
	}

	category, ok := labelCategories[tokens[0]]
	if !ok {
		return domain.Record{}, SkipUnknownCategory
	}

	dateToken := tokens[1]
	if !category.Tracked() || sentinelDates[dateToken] {
		return domain.Record{}, SkipFiltered
	}

	return domain.Record{Category: category, DateToken: dateToken}, SkipNone
}

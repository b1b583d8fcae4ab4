package bulletin

import "strings"

// RawRow is the ordered set of text lines believed to belong to one table
// row. It only exists between segmentation and normalization.
type RawRow []string

// SegmentRows scans the section text line by line and groups lines into
// logical rows. A line opens a new row exactly when its first
// whitespace-delimited token is a recognized row label; every other line is
// a continuation of the currently open row (this folds wrapped cells and
// footnote markers into the row they visually belong to). Text before the
// first labeled line is discarded.
func SegmentRows(sectionText string) []RawRow {
	var rows []RawRow
	for _, line := range strings.Split(sectionText, "\n") {
		fields := strings.Fields(line)
		if len(fields) > 0 {
			if _, ok := labelCategories[fields[0]]; ok {
				rows = append(rows, RawRow{line})
				continue
			}
		}
		// Continuation line. No open row yet means leading text, drop it.
		if len(rows) == 0 {
			continue
		}
		rows[len(rows)-1] = append(rows[len(rows)-1], line)
	}
	return rows
}

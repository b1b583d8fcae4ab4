// Package bulletin extracts the employment-based cutoff-date table from the
// plain-text rendering of a monthly visa bulletin.
//
// The bulletin text has no stable column delimiters: row labels may wrap
// across lines and footnote text is interleaved with table rows. Extraction
// therefore runs as a pipeline of small, layout-independent steps:
//
//	LocateSection  - find the employment-based filing-dates section
//	SegmentRows    - group lines into logical table rows by label cues
//	NormalizeRow   - map row label + date field to a typed record
//	ParseCutoffDate - parse the DDMmmYY date token
//
// Failures stay local: a missing section means "no data for this period",
// a bad row is skipped, and an unparseable date field keeps the record but
// excludes it from date-based series.
package bulletin

package bulletin

import (
	"regexp"
	"time"
)

// cutoffTokenRe pins the exact published date shape: zero-padded two-digit
// day, three-letter month abbreviation, two-digit year.
var cutoffTokenRe = regexp.MustCompile(`^[0-9]{2}[A-Za-z]{3}[0-9]{2}$`)

// ParseCutoffDate parses a DDMmmYY token such as "15JUN24" into a calendar
// date. The two-digit year is interpreted as 2000+YY. Any token not matching
// the shape, including the literal "C" (current: all applicants may file),
// is reported as unparseable with ok=false.
func ParseCutoffDate(token string) (time.Time, bool) {
	if !cutoffTokenRe.MatchString(token) {
		return time.Time{}, false
	}
	t, err := time.Parse("02Jan06", token)
	if err != nil {
		return time.Time{}, false
	}
	// time.Parse maps years 69-99 to 19xx; the bulletin's filing dates are
	// always 2000+YY.
	if t.Year() < 2000 {
		t = t.AddDate(100, 0, 0)
	}
	return t, true
}

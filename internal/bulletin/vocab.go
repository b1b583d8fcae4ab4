package bulletin

import "visatrack/pkg/contracts/domain"

// SectionHeading is the literal heading of the employment-based
// dates-for-filing section. It must match the published document
// bit-for-bit; no fuzzy matching is attempted.
const SectionHeading = "B. DATES FOR FILING OF EMPLOYMENT-BASED VISA APPLICATIONS"

// labelCategories maps the row labels used by the bulletin's first column
// to canonical categories. A line whose first token is one of these keys
// starts a new table row.
var labelCategories = map[string]domain.Category{
	"1st":     domain.CategoryEB1,
	"2nd":     domain.CategoryEB2,
	"3rd":     domain.CategoryEB3,
	"4th":     domain.CategoryEB4,
	"5th":     domain.CategoryEB5,
	"Certain": domain.CategoryCertainReligious,
	"Other":   domain.CategoryOtherWorkers,
}

// sentinelDates are non-date placeholders published in the date column,
// meaning "no numerical cutoff currently in effect".
var sentinelDates = map[string]bool{
	"Set":        true,
	"Unreserved": true,
}

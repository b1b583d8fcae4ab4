package bulletin

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestParseCutoffDate(t *testing.T) {
	tests := []struct {
		token string
		want  time.Time
		ok    bool
	}{
		{"15JUN24", time.Date(2024, time.June, 15, 0, 0, 0, 0, time.UTC), true},
		{"01JAN25", time.Date(2025, time.January, 1, 0, 0, 0, 0, time.UTC), true},
		{"08NOV22", time.Date(2022, time.November, 8, 0, 0, 0, 0, time.UTC), true},
		// Two-digit years are always 2000+YY, even past Go's 69 pivot.
		{"01SEP75", time.Date(2075, time.September, 1, 0, 0, 0, 0, time.UTC), true},
		{"C", time.Time{}, false},
		{"Set", time.Time{}, false},
		{"Unreserved", time.Time{}, false},
		{"1JAN25", time.Time{}, false},
		{"01JANUARY25", time.Time{}, false},
		{"01XXX25", time.Time{}, false},
		{"", time.Time{}, false},
	}

	for _, tt := range tests {
		t.Run(tt.token, func(t *testing.T) {
			got, ok := ParseCutoffDate(tt.token)
			assert.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.True(t, tt.want.Equal(got), "got %s", got)
			}
		})
	}
}

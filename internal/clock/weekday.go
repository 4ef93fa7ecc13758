package clock

import (
	"fmt"
	"strings"
	"time"
)

// Week lists the days of a training week starting on Monday.
//
//nolint:gochecknoglobals // read-only lookup table
var Week = [7]time.Weekday{
	time.Monday, time.Tuesday, time.Wednesday, time.Thursday, time.Friday, time.Saturday, time.Sunday,
}

// ParseWeekday accepts full ("Saturday") or three letter ("Sat") English day names, case-insensitively.
func ParseWeekday(s string) (time.Weekday, error) {
	needle := strings.ToLower(strings.TrimSpace(s))
	for _, d := range Week {
		full := strings.ToLower(d.String())
		if needle == full || (len(needle) == 3 && needle == full[:3]) {
			return d, nil
		}
	}
	return 0, fmt.Errorf("unknown weekday %q", s)
}

// ShortName returns the three letter abbreviation used in schedules, e.g. "Mon".
func ShortName(d time.Weekday) string {
	return d.String()[:3]
}

// IsWeekend reports whether d is Saturday or Sunday.
func IsWeekend(d time.Weekday) bool {
	return d == time.Saturday || d == time.Sunday
}

// WeekIndex returns the Monday-based position of d, Monday being 0 and Sunday 6.
func WeekIndex(d time.Weekday) int {
	return (int(d) + 6) % 7 //nolint:mnd // shift Sunday from 0 to 6
}

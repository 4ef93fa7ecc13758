// Package clock implements time-of-day arithmetic on minute offsets from midnight.
//
// Times wrap around midnight. Windows whose end is not after their start are treated as crossing midnight.
package clock

import (
	"fmt"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// MinutesPerDay is the number of minutes in a day.
const MinutesPerDay = 24 * 60

// Time is a time of day expressed in minutes since midnight, always in [0, MinutesPerDay).
type Time int

// FromMinutes normalizes any minute offset, including negative ones, into a time of day.
func FromMinutes(minutes int) Time {
	m := minutes % MinutesPerDay
	if m < 0 {
		m += MinutesPerDay
	}
	return Time(m)
}

// New returns the time of day for hour and minute. Out of range values wrap.
func New(hour, minute int) Time {
	return FromMinutes(hour*60 + minute)
}

// Parse parses "HH:MM" (hours 0-23, minutes 0-59, one or two digits each).
func Parse(s string) (Time, error) {
	hh, mm, ok := strings.Cut(strings.TrimSpace(s), ":")
	if !ok {
		return 0, fmt.Errorf("parse time of day %q: missing colon", s)
	}
	hour, err := parseField(hh, 23) //nolint:mnd // last hour of day
	if err != nil {
		return 0, fmt.Errorf("parse time of day %q: hour: %w", s, err)
	}
	minute, err := parseField(mm, 59) //nolint:mnd // last minute of hour
	if err != nil {
		return 0, fmt.Errorf("parse time of day %q: minute: %w", s, err)
	}
	return New(hour, minute), nil
}

// MustParse is like Parse but panics on malformed input. Meant for constants and tests.
func MustParse(s string) Time {
	t, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return t
}

func parseField(s string, maxValue int) (int, error) {
	if len(s) == 0 || len(s) > 2 {
		return 0, fmt.Errorf("want one or two digits, got %q", s)
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("atoi: %w", err)
	}
	if v < 0 || v > maxValue {
		return 0, fmt.Errorf("%d out of range [0, %d]", v, maxValue)
	}
	return v, nil
}

// Minutes returns the offset from midnight.
func (t Time) Minutes() int { return int(t) }

func (t Time) Hour() int { return int(t) / 60 }

func (t Time) Minute() int { return int(t) % 60 }

// Add shifts t by minutes, wrapping past midnight in either direction.
func (t Time) Add(minutes int) Time {
	return FromMinutes(int(t) + minutes)
}

// String formats t as zero padded "HH:MM".
func (t Time) String() string {
	return fmt.Sprintf("%02d:%02d", t.Hour(), t.Minute())
}

func (t Time) MarshalYAML() (any, error) {
	return t.String(), nil
}

func (t *Time) UnmarshalYAML(node *yaml.Node) error {
	parsed, err := Parse(node.Value)
	if err != nil {
		return fmt.Errorf("line %d: %w", node.Line, err)
	}
	*t = parsed
	return nil
}

// WindowDuration returns the length of the window from start to end in minutes.
// An end at or before start crosses midnight, so equal bounds span a whole day.
func WindowDuration(start, end Time) int {
	s, e := int(start), int(end)
	if e <= s {
		e += MinutesPerDay
	}
	return e - s
}

// InWindow reports whether check lies in the inclusive window [start, end], handling windows that cross midnight.
func InWindow(check, start, end Time) bool {
	c, s, e := int(check), int(start), int(end)
	if e <= s {
		e += MinutesPerDay
		if c < s {
			c += MinutesPerDay
		}
	}
	return s <= c && c <= e
}

// Separation is the absolute minute distance between a and b on the same day, without wrapping.
func Separation(a, b Time) int {
	d := int(a) - int(b)
	if d < 0 {
		return -d
	}
	return d
}

// ParseSeconds converts "M:SS" or a bare number of seconds to seconds.
func ParseSeconds(s string) (int, error) {
	s = strings.TrimSpace(s)
	mm, ss, ok := strings.Cut(s, ":")
	if !ok {
		v, err := strconv.Atoi(s)
		if err != nil {
			return 0, fmt.Errorf("parse seconds %q: %w", s, err)
		}
		return v, nil
	}
	minutes, err := strconv.Atoi(mm)
	if err != nil {
		return 0, fmt.Errorf("parse minutes of %q: %w", s, err)
	}
	seconds, err := strconv.Atoi(ss)
	if err != nil {
		return 0, fmt.Errorf("parse seconds of %q: %w", s, err)
	}
	return minutes*60 + seconds, nil
}

// FormatSeconds formats a non-negative number of seconds as "M:SS".
func FormatSeconds(total int) string {
	return fmt.Sprintf("%d:%02d", total/60, total%60)
}

package calendar_test

import (
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/myrjola/pfaplan/internal/calendar"
)

func TestCalendarEncoding(t *testing.T) {
	loc := time.FixedZone("MST", -7*60*60)
	description := "Warm-up: 10 min; strides, drills\n" + strings.Repeat("ÄÖ interval ", 20)
	cal := &calendar.Calendar{
		Name:     "Workouts",
		Color:    "blue",
		Timezone: "America/Denver",
		Stamp:    time.Date(2025, time.January, 1, 12, 0, 0, 0, time.UTC),
		Events: []calendar.Event{{
			ID:          "workout-week1-monday",
			Start:       time.Date(2025, time.January, 6, 6, 30, 0, 0, loc),
			Duration:    45 * time.Minute,
			Summary:     "Run Intervals",
			Description: description,
			Location:    "Base Gym, Hangar 3",
			Reminders:   []int{-15, 5},
		}},
	}
	out := cal.String()

	if !strings.HasSuffix(out, "END:VCALENDAR\r\n") {
		t.Errorf("calendar does not end with a CRLF terminated END:VCALENDAR")
	}
	lines := strings.Split(strings.TrimSuffix(out, "\r\n"), "\r\n")
	for _, line := range lines {
		if len(line) > 75 {
			t.Errorf("line exceeds 75 octets: %q", line)
		}
		if !utf8.ValidString(line) {
			t.Errorf("folding split a rune: %q", line)
		}
	}

	// Unfold continuation lines before matching content.
	unfolded := strings.ReplaceAll(out, "\r\n ", "")
	for _, want := range []string{
		"X-WR-CALNAME:Workouts\r\n",
		"X-WR-TIMEZONE:America/Denver\r\n",
		"X-APPLE-CALENDAR-COLOR:blue\r\n",
		"DTSTART:20250106T133000Z\r\n",
		"DTEND:20250106T141500Z\r\n",
		"DTSTAMP:20250101T120000Z\r\n",
		"UID:" + cal.Events[0].UID() + "\r\n",
		"LOCATION:Base Gym\\, Hangar 3\r\n",
		"DESCRIPTION:Warm-up: 10 min\\; strides\\, drills\\nÄÖ interval ",
		"TRIGGER:-PT15M\r\n",
		"TRIGGER:-PT5M\r\n",
		"DESCRIPTION:Reminder: Run Intervals\r\n",
	} {
		if !strings.Contains(unfolded, want) {
			t.Errorf("calendar does not contain %q", want)
		}
	}
	if got := strings.Count(unfolded, "BEGIN:VALARM"); got != 2 {
		t.Errorf("got %d alarms, want 2", got)
	}
}

func TestEventUID(t *testing.T) {
	a := calendar.Event{ID: "meal-week1-monday-breakfast"}
	b := calendar.Event{ID: "meal-week1-monday-breakfast", Summary: "changed"}
	c := calendar.Event{ID: "meal-week2-monday-breakfast"}

	if a.UID() != b.UID() {
		t.Errorf("UID() differs for the same event id: %s != %s", a.UID(), b.UID())
	}
	if a.UID() == c.UID() {
		t.Errorf("UID() collides for different event ids: %s", a.UID())
	}
	if !strings.HasSuffix(a.UID(), "@pfa-plan") {
		t.Errorf("UID() = %s, want @pfa-plan suffix", a.UID())
	}
}

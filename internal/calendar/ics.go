// Package calendar exports workout, meal and supplement schedules as iCalendar files.
package calendar

import (
	"fmt"
	"io"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
)

const (
	prodID      = "-//PFA Planning System//EN"
	uidSuffix   = "@pfa-plan"
	stampLayout = "20060102T150405Z"
	// maxLineOctets is the longest content line before folding.
	maxLineOctets = 75
)

// Event is one calendar entry. Start is in the calendar's local time zone.
type Event struct {
	ID          string
	Start       time.Time
	Duration    time.Duration
	Summary     string
	Description string
	Location    string
	// Reminders are minutes relative to Start. Only the magnitude is used; alarms always fire before the event.
	Reminders []int
}

// End returns the end time of the event.
func (e Event) End() time.Time {
	return e.Start.Add(e.Duration)
}

// UID derives a stable identifier from the event ID so re-imports update events instead of duplicating them.
func (e Event) UID() string {
	return uuid.NewSHA1(uuid.NameSpaceURL, []byte(e.ID)).String() + uidSuffix
}

// Calendar is a named list of events.
type Calendar struct {
	Name     string
	Color    string
	Timezone string
	// Stamp is written as DTSTAMP on every event.
	Stamp  time.Time
	Events []Event
}

// WriteTo encodes c as an iCalendar stream with CRLF line endings.
func (c *Calendar) WriteTo(w io.Writer) (int64, error) {
	lw := &lineWriter{w: w}
	lw.line("BEGIN:VCALENDAR")
	lw.line("VERSION:2.0")
	lw.line("PRODID:" + prodID)
	lw.line("CALSCALE:GREGORIAN")
	lw.line("X-WR-CALNAME:" + escape(c.Name))
	lw.line("X-WR-TIMEZONE:" + c.Timezone)
	if c.Color != "" {
		lw.line("X-APPLE-CALENDAR-COLOR:" + c.Color)
		lw.line("X-OUTLOOK-COLOR:" + c.Color)
	}
	stamp := c.Stamp.UTC().Format(stampLayout)
	for _, e := range c.Events {
		lw.line("BEGIN:VEVENT")
		lw.line("DTSTART:" + e.Start.UTC().Format(stampLayout))
		lw.line("DTEND:" + e.End().UTC().Format(stampLayout))
		lw.line("DTSTAMP:" + stamp)
		lw.line("UID:" + e.UID())
		lw.line("SUMMARY:" + escape(e.Summary))
		if e.Location != "" {
			lw.line("LOCATION:" + escape(e.Location))
		}
		if e.Description != "" {
			lw.line("DESCRIPTION:" + escape(e.Description))
		}
		for _, minutes := range e.Reminders {
			lw.line("BEGIN:VALARM")
			lw.line("ACTION:DISPLAY")
			lw.line("DESCRIPTION:" + escape("Reminder: "+e.Summary))
			lw.line(fmt.Sprintf("TRIGGER:-PT%dM", abs(minutes)))
			lw.line("END:VALARM")
		}
		lw.line("END:VEVENT")
	}
	lw.line("END:VCALENDAR")
	return lw.n, lw.err
}

// String returns the encoded calendar.
func (c *Calendar) String() string {
	var sb strings.Builder
	_, _ = c.WriteTo(&sb)
	return sb.String()
}

type lineWriter struct {
	w   io.Writer
	n   int64
	err error
}

// line writes s folded into lines of at most maxLineOctets, continuation lines starting with a space.
func (lw *lineWriter) line(s string) {
	if lw.err != nil {
		return
	}
	var sb strings.Builder
	limit := maxLineOctets
	for len(s) > limit {
		cut := limit
		for cut > 0 && !utf8.RuneStart(s[cut]) {
			cut--
		}
		sb.WriteString(s[:cut])
		sb.WriteString("\r\n ")
		s = s[cut:]
		// The leading space counts towards the next line.
		limit = maxLineOctets - 1
	}
	sb.WriteString(s)
	sb.WriteString("\r\n")
	n, err := io.WriteString(lw.w, sb.String())
	lw.n += int64(n)
	if err != nil {
		lw.err = fmt.Errorf("write calendar line: %w", err)
	}
}

//nolint:gochecknoglobals // constant replacer
var textEscaper = strings.NewReplacer(
	`\`, `\\`,
	";", `\;`,
	",", `\,`,
	"\r\n", `\n`,
	"\n", `\n`,
	"\r", `\n`,
)

func escape(s string) string {
	return textEscaper.Replace(s)
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}

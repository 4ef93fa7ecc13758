package calendar

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
	"unicode"

	"github.com/myrjola/pfaplan/internal/clock"
	"github.com/myrjola/pfaplan/internal/config"
	"github.com/myrjola/pfaplan/internal/supplement"
	"github.com/myrjola/pfaplan/internal/workout"
)

// CombinedName names the calendar holding every stream.
const CombinedName = "PFA_Complete_Plan"

const (
	snackDuration      = 15 * time.Minute
	defaultWorkoutTime = 7 * 60
)

//nolint:gochecknoglobals // read-only defaults per stream
var streamDefaults = map[string]config.CalendarStream{
	config.StreamWorkout:     {Name: "PFA_Workouts", Color: "blue", DefaultDuration: 60},
	config.StreamMeals:       {Name: "PFA_Meals", Color: "green", DefaultDuration: 30},
	config.StreamSupplements: {Name: "PFA_Supplements", Color: "orange", DefaultDuration: 5},
}

// MealEntry is one planned meal or snack at a time of day.
type MealEntry struct {
	// Week is 1-based.
	Week int
	Day  time.Weekday
	// Slot is breakfast, lunch, dinner, meal_N or snack_N.
	Slot   string
	Time   clock.Time
	Option string
	// Macros is an optional human readable macro line.
	Macros string
}

// Streams bundles everything written by Export.
type Streams struct {
	Program     workout.Program
	Meals       []MealEntry
	Supplements supplement.Week
	Weeks       int
}

// Exporter places schedules onto dates starting at a start date in the configured time zone.
type Exporter struct {
	logger *slog.Logger
	cfg    config.Calendar
	loc    *time.Location
	start  time.Time
	now    func() time.Time
}

// NewExporter resolves cfg.Timezone, falling back to UTC when the zone is unknown.
func NewExporter(ctx context.Context, logger *slog.Logger, cfg config.Calendar, start time.Time) *Exporter {
	loc, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		logger.LogAttrs(ctx, slog.LevelWarn, "unknown time zone, using UTC",
			slog.String("timezone", cfg.Timezone), slog.Any("error", err))
		loc = time.UTC
	}
	return &Exporter{
		logger: logger,
		cfg:    cfg,
		loc:    loc,
		start:  time.Date(start.Year(), start.Month(), start.Day(), 0, 0, 0, 0, loc),
		now:    time.Now,
	}
}

// Location returns the resolved time zone.
func (e *Exporter) Location() *time.Location { return e.loc }

func (e *Exporter) stream(key string) config.CalendarStream {
	def := streamDefaults[key]
	s, ok := e.cfg.SeparateCalendars[key]
	if !ok {
		return def
	}
	if s.Name == "" {
		s.Name = def.Name
	}
	if s.DefaultDuration <= 0 {
		s.DefaultDuration = def.DefaultDuration
	}
	return s
}

func (e *Exporter) newCalendar(name, color string) *Calendar {
	return &Calendar{Name: name, Color: color, Timezone: e.loc.String(), Stamp: e.now()}
}

// At returns the local start of the given 1-based week's occurrence of day at t. The first week begins with the
// first occurrence of day on or after the start date.
func (e *Exporter) At(week int, day time.Weekday, t clock.Time) time.Time {
	offset := (clock.WeekIndex(day) - clock.WeekIndex(e.start.Weekday()) + 7) % 7 //nolint:mnd // days per week
	date := e.start.AddDate(0, 0, offset+(week-1)*7)                            //nolint:mnd // days per week
	return time.Date(date.Year(), date.Month(), date.Day(), t.Hour(), t.Minute(), 0, 0, e.loc)
}

// Workouts lists every non-rest workout of the program.
func (e *Exporter) Workouts(ctx context.Context, program workout.Program) *Calendar {
	s := e.stream(config.StreamWorkout)
	cal := e.newCalendar(s.Name, s.Color)
	for _, week := range program.Weeks {
		for _, w := range week.Workouts {
			if w.IsRest() {
				continue
			}
			day, err := clock.ParseWeekday(w.Day)
			if err != nil {
				e.logger.LogAttrs(ctx, slog.LevelWarn, "skipping workout without weekday",
					slog.Int("week", week.Number), slog.String("day", w.Day))
				continue
			}
			at := clock.Time(defaultWorkoutTime)
			if w.Time != nil {
				at = *w.Time
			}
			minutes := s.DefaultDuration
			if w.TotalDuration > 0 {
				minutes = w.TotalDuration
			}
			cal.Events = append(cal.Events, Event{
				ID:          fmt.Sprintf("workout-week%d-%s", week.Number, strings.ToLower(w.Day)),
				Start:       e.At(week.Number, day, at),
				Duration:    time.Duration(minutes) * time.Minute,
				Summary:     title(string(w.Type)),
				Description: workoutDescription(week.Number, w),
				Location:    s.Location,
				Reminders:   s.Reminders,
			})
		}
	}
	return cal
}

func workoutDescription(week int, w workout.Workout) string {
	focus := w.Focus
	if focus == "" {
		focus = "training"
	}
	parts := []string{fmt.Sprintf("Week %d - %s", week, title(focus))}
	if w.WarmUp != "" {
		parts = append(parts, "Warm-up: "+w.WarmUp)
	}
	switch {
	case len(w.Exercises) > 0:
		lines := []string{"Main Set:"}
		for _, ex := range w.Exercises {
			lines = append(lines, fmt.Sprintf("  %s: %s", title(ex.Name), ex.Prescription))
		}
		parts = append(parts, strings.Join(lines, "\n"))
	case w.MainSet != "":
		parts = append(parts, "Main Set: "+w.MainSet)
	}
	if w.StrengthComponent != "" {
		parts = append(parts, "Strength: "+w.StrengthComponent)
	}
	if w.CoreComponent != "" {
		parts = append(parts, "Core: "+w.CoreComponent)
	}
	if w.CoolDown != "" {
		parts = append(parts, "Cool-down: "+w.CoolDown)
	}
	if w.Intensity != "" {
		parts = append(parts, "Intensity: "+title(string(w.Intensity)))
	}
	return strings.Join(parts, "\n\n")
}

// Meals lists every meal and snack entry. Snacks last fifteen minutes.
func (e *Exporter) Meals(entries []MealEntry) *Calendar {
	s := e.stream(config.StreamMeals)
	cal := e.newCalendar(s.Name, s.Color)
	for _, m := range entries {
		day := strings.ToLower(m.Day.String())
		ev := Event{
			Start:     e.At(m.Week, m.Day, m.Time),
			Duration:  time.Duration(s.DefaultDuration) * time.Minute,
			Reminders: s.Reminders,
		}
		label := "Meal Option: "
		if n, ok := strings.CutPrefix(m.Slot, "snack_"); ok {
			ev.ID = fmt.Sprintf("snack-week%d-%s-%s", m.Week, day, n)
			ev.Summary = "Snack " + n
			ev.Duration = snackDuration
			label = "Snack Option: "
		} else {
			ev.ID = fmt.Sprintf("meal-week%d-%s-%s", m.Week, day, m.Slot)
			ev.Summary = title(m.Slot)
		}
		parts := []string{label + m.Option}
		if m.Macros != "" {
			parts = append(parts, "Macros: "+m.Macros)
		}
		ev.Description = strings.Join(parts, "\n\n")
		cal.Events = append(cal.Events, ev)
	}
	return cal
}

// Supplements repeats the weekly supplement schedule for the given number of weeks.
func (e *Exporter) Supplements(schedule supplement.Week, weeks int) *Calendar {
	s := e.stream(config.StreamSupplements)
	cal := e.newCalendar(s.Name, s.Color)
	for week := 1; week <= weeks; week++ {
		for _, d := range schedule {
			day, err := clock.ParseWeekday(d.Day)
			if err != nil {
				continue
			}
			seen := make(map[string]int)
			for _, entry := range d.Supplements {
				id := fmt.Sprintf("supplement-week%d-%s-%s", week, strings.ToLower(d.Day), cleanName(entry.Name))
				// The same supplement may be taken twice a day.
				seen[id]++
				if n := seen[id]; n > 1 {
					id += "-" + strconv.Itoa(n)
				}
				lines := []string{
					"Supplement: " + entry.Name,
					"Dose: " + entry.Dose,
					"Type: " + title(string(entry.Kind)),
				}
				if entry.Condition != "" {
					lines = append(lines, "Note: "+entry.Condition)
				}
				cal.Events = append(cal.Events, Event{
					ID:          id,
					Start:       e.At(week, day, entry.Time),
					Duration:    time.Duration(s.DefaultDuration) * time.Minute,
					Summary:     entry.Name,
					Description: strings.Join(lines, "\n"),
					Reminders:   s.Reminders,
				})
			}
		}
	}
	return cal
}

// Combined merges the events of cals into one calendar without a color.
func (e *Exporter) Combined(cals ...*Calendar) *Calendar {
	combined := e.newCalendar(CombinedName, "")
	for _, c := range cals {
		combined.Events = append(combined.Events, c.Events...)
	}
	return combined
}

// Export writes one file per configured stream plus the combined calendar into dir. It returns the written paths
// keyed by stream, with "combined" for the merged file.
func (e *Exporter) Export(ctx context.Context, dir string, streams Streams) (map[string]string, error) {
	if err := os.MkdirAll(dir, 0o750); err != nil { //nolint:mnd // owner and group
		return nil, fmt.Errorf("create calendar dir: %w", err)
	}

	cals := map[string]*Calendar{
		config.StreamWorkout:     e.Workouts(ctx, streams.Program),
		config.StreamMeals:       e.Meals(streams.Meals),
		config.StreamSupplements: e.Supplements(streams.Supplements, streams.Weeks),
	}
	written := make(map[string]string, len(cals)+1)
	for _, key := range []string{config.StreamWorkout, config.StreamMeals, config.StreamSupplements} {
		if _, ok := e.cfg.SeparateCalendars[key]; !ok {
			continue
		}
		cal := cals[key]
		path := filepath.Join(dir, cal.Name+".ics")
		if err := writeFile(path, cal); err != nil {
			return nil, err
		}
		written[key] = path
		e.logger.LogAttrs(ctx, slog.LevelInfo, "wrote calendar",
			slog.String("stream", key), slog.String("path", path), slog.Int("events", len(cal.Events)))
	}

	combined := e.Combined(cals[config.StreamWorkout], cals[config.StreamMeals], cals[config.StreamSupplements])
	path := filepath.Join(dir, CombinedName+".ics")
	if err := writeFile(path, combined); err != nil {
		return nil, err
	}
	written["combined"] = path
	e.logger.LogAttrs(ctx, slog.LevelInfo, "wrote combined calendar",
		slog.String("path", path), slog.Int("events", len(combined.Events)))
	return written, nil
}

func writeFile(path string, cal *Calendar) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("close %s: %w", path, cerr)
		}
	}()
	if _, err = cal.WriteTo(f); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

// title turns snake_case identifiers into title cased words: "pfa_circuit" becomes "Pfa Circuit".
func title(s string) string {
	words := strings.Fields(strings.ReplaceAll(s, "_", " "))
	for i, w := range words {
		r := []rune(strings.ToLower(w))
		r[0] = unicode.ToUpper(r[0])
		words[i] = string(r)
	}
	return strings.Join(words, " ")
}

func cleanName(name string) string {
	return strings.ToLower(strings.NewReplacer(" ", "", "-", "").Replace(name))
}

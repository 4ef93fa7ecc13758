package calendar_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
	_ "time/tzdata"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/myrjola/pfaplan/internal/calendar"
	"github.com/myrjola/pfaplan/internal/clock"
	"github.com/myrjola/pfaplan/internal/config"
	"github.com/myrjola/pfaplan/internal/ptr"
	"github.com/myrjola/pfaplan/internal/supplement"
	"github.com/myrjola/pfaplan/internal/testhelpers"
	"github.com/myrjola/pfaplan/internal/workout"
)

// 2025-01-01 is a Wednesday. Denver is UTC-7 in January.
var start = time.Date(2025, time.January, 1, 0, 0, 0, 0, time.UTC) //nolint:gochecknoglobals // test fixture

func newExporter(t *testing.T, cfg config.Calendar) *calendar.Exporter {
	t.Helper()
	return calendar.NewExporter(t.Context(), testhelpers.NewLogger(testhelpers.NewWriter(t)), cfg, start)
}

func denver() config.Calendar {
	return config.Calendar{
		Timezone: "America/Denver",
		SeparateCalendars: map[string]config.CalendarStream{
			config.StreamWorkout: {Name: "Workouts", Color: "blue", Location: "Base Gym", DefaultDuration: 60,
				Reminders: []int{-15, -5}},
			config.StreamMeals: {Name: "Meals", DefaultDuration: 30},
		},
	}
}

func TestAt(t *testing.T) {
	e := newExporter(t, denver())

	tests := []struct {
		name string
		week int
		day  time.Weekday
		at   string
		want string
	}{
		{name: "start day", week: 1, day: time.Wednesday, at: "07:00", want: "2025-01-01T14:00:00Z"},
		{name: "later in first week", week: 1, day: time.Sunday, at: "07:00", want: "2025-01-05T14:00:00Z"},
		{name: "wraps to next monday", week: 1, day: time.Monday, at: "06:30", want: "2025-01-06T13:30:00Z"},
		{name: "second week", week: 2, day: time.Tuesday, at: "18:00", want: "2025-01-15T01:00:00Z"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := e.At(tt.week, tt.day, clock.MustParse(tt.at)).UTC().Format(time.RFC3339)
			if got != tt.want {
				t.Errorf("At() = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestUnknownTimezoneFallsBackToUTC(t *testing.T) {
	e := newExporter(t, config.Calendar{Timezone: "Mars/Olympus_Mons"})
	if got := e.Location(); got != time.UTC {
		t.Errorf("Location() = %v, want UTC", got)
	}
}

func program() workout.Program {
	return workout.Program{
		TotalWeeks: 1,
		Weeks: []workout.Week{{
			Number: 1,
			Workouts: []workout.Workout{
				{
					Type:          workout.StrengthCore,
					Week:          1,
					Day:           "Monday",
					Time:          ptr.Ref(clock.MustParse("06:30")),
					WarmUp:        "5 min row",
					Exercises:     []workout.Exercise{{Name: "push_ups", Prescription: "4×30"}},
					TotalDuration: 45,
					Intensity:     workout.IntensityModerate,
					Focus:         "strength_endurance",
				},
				{Type: workout.Rest, Week: 1, Day: "Saturday", Intensity: workout.IntensityRest},
			},
		}},
	}
}

func TestWorkouts(t *testing.T) {
	e := newExporter(t, denver())
	cal := e.Workouts(t.Context(), program())

	if len(cal.Events) != 1 {
		t.Fatalf("got %d events, want 1 (rest days skipped)", len(cal.Events))
	}
	ev := cal.Events[0]
	want := calendar.Event{
		ID:       "workout-week1-monday",
		Summary:  "Strength Core",
		Location: "Base Gym",
		Duration: 45 * time.Minute,
		Description: "Week 1 - Strength Endurance\n\nWarm-up: 5 min row\n\nMain Set:\n  Push Ups: 4×30\n\n" +
			"Intensity: Moderate",
		Reminders: []int{-15, -5},
	}
	if diff := cmp.Diff(want, ev, cmpopts.IgnoreFields(calendar.Event{}, "Start")); diff != "" {
		t.Errorf("event mismatch (-want +got):\n%s", diff)
	}
	if got, want := ev.Start.UTC().Format(time.RFC3339), "2025-01-06T13:30:00Z"; got != want {
		t.Errorf("Start = %s, want %s", got, want)
	}
	if cal.Name != "Workouts" || cal.Color != "blue" || cal.Timezone != "America/Denver" {
		t.Errorf("calendar header = %q %q %q", cal.Name, cal.Color, cal.Timezone)
	}
}

func TestMeals(t *testing.T) {
	e := newExporter(t, denver())
	cal := e.Meals([]calendar.MealEntry{
		{Week: 1, Day: time.Wednesday, Slot: "breakfast", Time: clock.MustParse("08:00"),
			Option: "Oats + berries", Macros: "Protein: 30g | Carbs: 40g | Fat: 10g"},
		{Week: 1, Day: time.Wednesday, Slot: "snack_2", Time: clock.MustParse("15:00"), Option: "Apple"},
	})

	type summary struct {
		ID, Summary, Description string
		Duration                 time.Duration
	}
	got := make([]summary, 0, len(cal.Events))
	for _, ev := range cal.Events {
		got = append(got, summary{ev.ID, ev.Summary, ev.Description, ev.Duration})
	}
	want := []summary{
		{
			ID:          "meal-week1-wednesday-breakfast",
			Summary:     "Breakfast",
			Description: "Meal Option: Oats + berries\n\nMacros: Protein: 30g | Carbs: 40g | Fat: 10g",
			Duration:    30 * time.Minute,
		},
		{
			ID:          "snack-week1-wednesday-2",
			Summary:     "Snack 2",
			Description: "Snack Option: Apple",
			Duration:    15 * time.Minute,
		},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("meal events mismatch (-want +got):\n%s", diff)
	}
}

func TestSupplements(t *testing.T) {
	e := newExporter(t, denver())
	schedule := supplement.Week{
		{Day: "Monday", Supplements: []supplement.Entry{
			{Time: clock.MustParse("07:00"), Name: "Vitamin D3", Dose: "2000 IU", Kind: supplement.KindDaily},
			{Time: clock.MustParse("19:00"), Name: "Creatine", Dose: "5g", Kind: supplement.KindPostWorkout,
				Condition: "only after strength sessions"},
			{Time: clock.MustParse("21:00"), Name: "Creatine", Dose: "5g", Kind: supplement.KindDaily},
		}},
		{Day: "Tuesday"},
	}
	cal := e.Supplements(schedule, 2)

	var ids []string
	for _, ev := range cal.Events {
		ids = append(ids, ev.ID)
	}
	want := []string{
		"supplement-week1-monday-vitamind3",
		"supplement-week1-monday-creatine",
		"supplement-week1-monday-creatine-2",
		"supplement-week2-monday-vitamind3",
		"supplement-week2-monday-creatine",
		"supplement-week2-monday-creatine-2",
	}
	if diff := cmp.Diff(want, ids); diff != "" {
		t.Errorf("event ids mismatch (-want +got):\n%s", diff)
	}
	if got, want := cal.Events[1].Description,
		"Supplement: Creatine\nDose: 5g\nType: Post Workout\nNote: only after strength sessions"; got != want {
		t.Errorf("Description = %q, want %q", got, want)
	}
	if got := cal.Events[0].Duration; got != 5*time.Minute {
		t.Errorf("Duration = %v, want default 5m", got)
	}
	if cal.Name != "PFA_Supplements" || cal.Color != "orange" {
		t.Errorf("unconfigured stream should use defaults, got %q %q", cal.Name, cal.Color)
	}
}

func TestExport(t *testing.T) {
	e := newExporter(t, denver())
	dir := filepath.Join(t.TempDir(), "calendars")

	written, err := e.Export(t.Context(), dir, calendar.Streams{
		Program: program(),
		Meals: []calendar.MealEntry{
			{Week: 1, Day: time.Thursday, Slot: "dinner", Time: clock.MustParse("18:30"), Option: "Chicken + rice"},
		},
		Supplements: supplement.Week{{Day: "Friday", Supplements: []supplement.Entry{
			{Time: clock.MustParse("07:00"), Name: "Fish Oil", Dose: "1g", Kind: supplement.KindDaily},
		}}},
		Weeks: 1,
	})
	if err != nil {
		t.Fatalf("Export() error = %v", err)
	}

	want := map[string]string{
		config.StreamWorkout: filepath.Join(dir, "Workouts.ics"),
		config.StreamMeals:   filepath.Join(dir, "Meals.ics"),
		"combined":           filepath.Join(dir, "PFA_Complete_Plan.ics"),
	}
	if diff := cmp.Diff(want, written); diff != "" {
		t.Fatalf("written files mismatch (-want +got):\n%s", diff)
	}

	raw, err := os.ReadFile(written["combined"])
	if err != nil {
		t.Fatalf("read combined calendar: %v", err)
	}
	combined := string(raw)
	if got := strings.Count(combined, "BEGIN:VEVENT"); got != 3 {
		t.Errorf("combined calendar has %d events, want 3", got)
	}
	if strings.Contains(combined, "X-APPLE-CALENDAR-COLOR") {
		t.Error("combined calendar must not carry a color")
	}
	if !strings.HasPrefix(combined, "BEGIN:VCALENDAR\r\nVERSION:2.0\r\n") {
		t.Errorf("unexpected calendar start: %q", combined[:min(len(combined), 40)])
	}
	if _, err = os.Stat(filepath.Join(dir, "PFA_Supplements.ics")); !os.IsNotExist(err) {
		t.Errorf("supplement stream is not configured, Stat() error = %v", err)
	}
}

package workout

import (
	"context"
	"log/slog"
	"slices"
	"time"

	"github.com/myrjola/pfaplan/internal/clock"
	"github.com/myrjola/pfaplan/internal/config"
	"github.com/myrjola/pfaplan/internal/fitness"
)

// TargetSource provides the weekly fitness targets and deload multipliers the engine scales workouts with.
type TargetSource interface {
	WeeklyTargets(week int) fitness.Targets
	VolumeMultiplier(week, frequency int, reduction float64) float64
	AdaptationWeeks(frequency int) []int
}

type dayCategory int

const (
	categoryEasy dayCategory = iota
	categoryWorkout
	categoryStrength
	categoryRest
)

// rotation assigns run days in schedule order.
var rotation = []Archetype{RunIntervals, TempoRun, PFACircuit} //nolint:gochecknoglobals // constant table

// Engine builds workouts from the training schedule. It is safe for concurrent use.
type Engine struct {
	logger     *slog.Logger
	targets    TargetSource
	times      config.WorkoutTimes
	adaptation config.AdaptationPeriods
	workout    []time.Weekday
	strength   []time.Weekday
	rest       []time.Weekday
	easyDay    time.Weekday
}

// NewEngine parses the schedule. Unknown day names are reported as *config.ValidationError.
func NewEngine(
	logger *slog.Logger,
	training config.Training,
	progression config.Progression,
	targets TargetSource,
) (*Engine, error) {
	e := &Engine{
		logger:     logger,
		targets:    targets,
		times:      training.WorkoutTimes,
		adaptation: progression.AdaptationPeriods,
	}
	var err error
	if e.workout, err = parseDays("training.schedule.workout_days", training.Schedule.WorkoutDays); err != nil {
		return nil, err
	}
	if e.strength, err = parseDays("training.schedule.strength_days", training.Schedule.StrengthDays); err != nil {
		return nil, err
	}
	if e.rest, err = parseDays("training.schedule.rest_days", training.Schedule.RestDays); err != nil {
		return nil, err
	}
	easy := training.Schedule.EasyDay
	if easy == "" {
		easy = config.DefaultEasyDay
	}
	if e.easyDay, err = clock.ParseWeekday(easy); err != nil {
		return nil, config.Invalid("training.schedule.easy_day", "%v", err)
	}
	return e, nil
}

func parseDays(field string, names []string) ([]time.Weekday, error) {
	days := make([]time.Weekday, 0, len(names))
	for _, name := range names {
		d, err := clock.ParseWeekday(name)
		if err != nil {
			return nil, config.Invalid(field, "%v", err)
		}
		days = append(days, d)
	}
	return days, nil
}

func (e *Engine) category(day time.Weekday) dayCategory {
	switch {
	case slices.Contains(e.workout, day):
		return categoryWorkout
	case slices.Contains(e.strength, day):
		return categoryStrength
	case day == e.easyDay:
		return categoryEasy
	case slices.Contains(e.rest, day):
		return categoryRest
	default:
		return categoryEasy
	}
}

// archetypeFor picks the template for a day. Run days rotate through intervals, tempo and circuit in the order they
// are listed in the schedule.
func (e *Engine) archetypeFor(day time.Weekday) Archetype {
	switch e.category(day) {
	case categoryWorkout:
		return rotation[slices.Index(e.workout, day)%len(rotation)]
	case categoryStrength:
		return StrengthCore
	case categoryRest:
		return Rest
	case categoryEasy:
		return EasyRun
	}
	return EasyRun
}

// timeFor returns the configured start time for the day's category.
func (e *Engine) timeFor(day time.Weekday) (clock.Time, error) {
	var (
		t     *clock.Time
		field string
	)
	switch e.category(day) {
	case categoryWorkout:
		t, field = e.times.WorkoutDays, "workout_days"
	case categoryStrength:
		t, field = e.times.StrengthDays, "strength_days"
	case categoryEasy:
		t, field = e.times.EasyDays, "easy_days"
	case categoryRest:
	}
	if t == nil {
		if field == "" {
			return 0, config.Invalid("training.workout_times", "no workout time configured for %s", day)
		}
		return 0, config.Invalid("training.workout_times."+field, "no workout time configured for %s", day)
	}
	return *t, nil
}

// WorkoutForDay builds the scheduled workout for the zero-based week and day.
func (e *Engine) WorkoutForDay(ctx context.Context, week int, day time.Weekday) (Workout, error) {
	archetype := e.archetypeFor(day)
	if archetype == Rest {
		return Workout{
			Type:             Rest,
			Week:             week + 1,
			Day:              day.String(),
			Activity:         "Complete rest or light stretching",
			Intensity:        IntensityRest,
			VolumeMultiplier: e.volume(week),
			weekday:          day,
		}, nil
	}
	return e.WorkoutOfType(ctx, week, day, archetype)
}

// WorkoutOfType builds a workout of an explicit archetype. The start time still follows the day's category, so a
// rest day that is not the easy day has no time and yields an error.
func (e *Engine) WorkoutOfType(ctx context.Context, week int, day time.Weekday, archetype Archetype) (Workout, error) {
	build, ok := builders[archetype]
	if !ok {
		return Workout{}, config.Invalid("workout_type", "unknown workout type %q", archetype)
	}
	at, err := e.timeFor(day)
	if err != nil {
		return Workout{}, err
	}

	volume := e.volume(week)
	w := build(e.session(week, volume))
	w.Type = archetype
	w.Week = week + 1
	w.Day = day.String()
	w.Time = &at
	w.VolumeMultiplier = volume
	w.weekday = day

	e.logger.LogAttrs(ctx, slog.LevelDebug, "built workout",
		slog.Int("week", week+1), slog.String("day", w.Day), slog.String("type", string(archetype)))
	return w, nil
}

func (e *Engine) volume(week int) float64 {
	return e.targets.VolumeMultiplier(week, e.adaptation.Frequency, e.adaptation.Reduction)
}

// AdaptationWeeks returns the zero-based deload weeks.
func (e *Engine) AdaptationWeeks() []int {
	return e.targets.AdaptationWeeks(e.adaptation.Frequency)
}

// WeeklyWorkouts builds Monday through Sunday of the zero-based week.
func (e *Engine) WeeklyWorkouts(ctx context.Context, week int) (Week, error) {
	out := Week{Number: week + 1, Workouts: make([]Workout, 0, len(clock.Week))}
	for _, day := range clock.Week {
		w, err := e.WorkoutForDay(ctx, week, day)
		if err != nil {
			return Week{}, err
		}
		out.Workouts = append(out.Workouts, w)
	}
	return out, nil
}

// DayTimes returns the start time of every training day. Rest days are absent.
func (e *Engine) DayTimes() (map[time.Weekday]clock.Time, error) {
	times := make(map[time.Weekday]clock.Time)
	for _, day := range clock.Week {
		if e.archetypeFor(day) == Rest {
			continue
		}
		t, err := e.timeFor(day)
		if err != nil {
			return nil, err
		}
		times[day] = t
	}
	return times, nil
}

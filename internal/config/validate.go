package config

import (
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/myrjola/pfaplan/internal/clock"
	"github.com/myrjola/pfaplan/internal/errors"
)

// ErrInvalid matches every *ValidationError with [errors.Is].
var ErrInvalid = errors.NewSentinel("invalid configuration")

// ValidationError reports a configuration value that makes a computation undefined.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s: %s", ErrInvalid, e.Field, e.Reason)
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrInvalid //nolint:errorlint // sentinel identity
}

// Invalid builds a *ValidationError for field.
func Invalid(field, format string, args ...any) *ValidationError {
	return &ValidationError{Field: field, Reason: fmt.Sprintf(format, args...)}
}

// Minimum values that trigger advisories.
const (
	MinMeaningfulWeeks  = 4
	MinRecommendedKcals = 1200
)

// Validate checks the shape of the configuration. Every problem is reported, joined into one error.
func (c *Config) Validate() error {
	var errs []error
	add := func(err *ValidationError) { errs = append(errs, err) }

	if c.Timeline.Weeks <= 0 {
		add(Invalid("timeline.weeks", "must be positive, got %d", c.Timeline.Weeks))
	}
	if c.Timeline.StartDate.IsZero() {
		add(Invalid("timeline.start_date", "is required"))
	}
	for _, metric := range slices.Sorted(maps.Keys(c.Timeline.BufferWeeks)) {
		buffer := c.Timeline.BufferWeeks[metric]
		field := "timeline.buffer_weeks." + metric
		switch {
		case !slices.Contains([]string{MetricRun, MetricPushups, MetricSitups}, metric):
			add(Invalid(field, "unknown metric"))
		case buffer < 0:
			add(Invalid(field, "must not be negative, got %d", buffer))
		case c.Timeline.Weeks > 0 && buffer >= c.Timeline.Weeks:
			add(Invalid(field, "buffer weeks %d must be less than timeline weeks %d", buffer, c.Timeline.Weeks))
		}
	}

	for field, value := range map[string]string{
		"fitness.baseline.run_time":      c.Fitness.Baseline.RunTime,
		"fitness.goals.run_time":         c.Fitness.Goals.RunTime,
		"fitness.pfa_standards.run_time": c.Fitness.PFAStandards.RunTime,
	} {
		if _, err := clock.ParseSeconds(value); err != nil {
			add(Invalid(field, "%v", err))
		}
	}

	m := c.Nutrition.Macros
	if sum := m.Protein + m.Carbs + m.Fat; sum != 100 { //nolint:mnd // percent
		add(Invalid("nutrition.macros", "percentages sum to %d%%, should be 100%%", sum))
	}
	if c.Nutrition.CalorieGoals.Target <= 0 {
		add(Invalid("nutrition.calorie_goals.target", "must be positive"))
	}
	if c.Nutrition.MealTiming.MealsPerDay < 1 {
		add(Invalid("nutrition.meal_timing.meals_per_day", "must be at least 1"))
	}
	if c.Nutrition.MealTiming.SnacksPerDay < 0 {
		add(Invalid("nutrition.meal_timing.snacks_per_day", "must not be negative"))
	}

	for i, item := range c.Supplements.PreWorkout.Items {
		for _, day := range item.Days {
			if _, err := clock.ParseWeekday(day); err != nil {
				add(Invalid(fmt.Sprintf("supplements.pre_workout.items[%d].days", i), "%v", err))
			}
		}
	}

	s := c.Training.Schedule
	for field, days := range map[string][]string{
		"training.schedule.workout_days":  s.WorkoutDays,
		"training.schedule.strength_days": s.StrengthDays,
		"training.schedule.rest_days":     s.RestDays,
	} {
		for _, day := range days {
			if _, err := clock.ParseWeekday(day); err != nil {
				add(Invalid(field, "%v", err))
			}
		}
	}
	if _, err := clock.ParseWeekday(s.EasyDay); err != nil {
		add(Invalid("training.schedule.easy_day", "%v", err))
	}

	ap := c.Progression.AdaptationPeriods
	if ap.Frequency <= 0 {
		add(Invalid("progression.adaptation_periods.frequency", "must be positive, got %d", ap.Frequency))
	}
	if ap.Reduction <= 0 || ap.Reduction > 1 {
		add(Invalid("progression.adaptation_periods.reduction", "must be in (0, 1], got %g", ap.Reduction))
	}

	if r := c.Recipes; r != nil {
		if r.RecipeRatio < 0 || r.RecipeRatio > 1 {
			add(Invalid("recipe_config.recipe_ratio", "must be in [0, 1], got %g", r.RecipeRatio))
		}
		if r.Mode != RecipeModeBlend && r.Mode != RecipeModeEnhance {
			add(Invalid("recipe_config.mode", "must be %q or %q, got %q", RecipeModeBlend, RecipeModeEnhance, r.Mode))
		}
		if r.MaxRecipesPerMeal < 0 {
			add(Invalid("recipe_config.max_recipes_per_meal", "must not be negative"))
		}
	}

	if len(errs) == 0 {
		return nil
	}
	// Map iteration order is random.
	slices.SortFunc(errs, func(a, b error) int {
		return strings.Compare(a.Error(), b.Error())
	})
	return errors.Join(errs...)
}

// Advisories lists non-fatal concerns about the plan, mirroring what a coach would point out.
func (c *Config) Advisories() []string {
	var issues []string
	if c.Timeline.Weeks < MinMeaningfulWeeks {
		issues = append(issues, "Timeline should be at least 4 weeks for meaningful progression")
	}

	goal, errGoal := clock.ParseSeconds(c.Fitness.Goals.RunTime)
	standard, errStd := clock.ParseSeconds(c.Fitness.PFAStandards.RunTime)
	if errGoal == nil && errStd == nil && goal > standard {
		issues = append(issues, "Run time goal does not meet PFA standards")
	}
	if c.Fitness.Goals.Pushups < c.Fitness.PFAStandards.Pushups {
		issues = append(issues, "Pushups goal does not meet PFA standards")
	}
	if c.Fitness.Goals.Situps < c.Fitness.PFAStandards.Situps {
		issues = append(issues, "Situps goal does not meet PFA standards")
	}
	if c.Nutrition.CalorieGoals.Target < MinRecommendedKcals {
		issues = append(issues, "Daily calorie target seems too low (minimum 1200 recommended)")
	}
	return issues
}

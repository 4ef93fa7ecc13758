// Package plan generates a complete PFA preparation plan: fitness progressions, the workout program, meals,
// supplements and the calendar files that tie them together.
package plan

import (
	"fmt"
	"strings"
	"time"

	"github.com/myrjola/pfaplan/internal/calendar"
	"github.com/myrjola/pfaplan/internal/clock"
	"github.com/myrjola/pfaplan/internal/config"
	"github.com/myrjola/pfaplan/internal/fitness"
	"github.com/myrjola/pfaplan/internal/meal"
	"github.com/myrjola/pfaplan/internal/nutrition"
	"github.com/myrjola/pfaplan/internal/supplement"
	"github.com/myrjola/pfaplan/internal/workout"
	"gopkg.in/yaml.v3"
)

// Plan is everything generated from one configuration.
type Plan struct {
	Config          *config.Config
	Fitness         fitness.Report
	Program         workout.Program
	Balance         workout.BalanceReport
	Supplements     supplement.Week
	SupplementCosts supplement.CostEstimate
	DailyMacros     nutrition.Macros
	Meals           MealPlans
	// MealEntries places the first option of every planned meal at its time of day.
	MealEntries []calendar.MealEntry
	Advisories  []string
}

// Weeks returns the number of planned weeks.
func (p *Plan) Weeks() int { return p.Config.Timeline.Weeks }

// StartDate returns the first day of the plan.
func (p *Plan) StartDate() time.Time { return p.Config.Timeline.StartDate.Time }

// MealPlans holds either option-based plans generated from a meal database or legacy flat plans.
type MealPlans struct {
	Weekly []meal.WeeklyPlan
	Legacy []nutrition.WeeklyPlan
}

// MarshalYAML keys plans by week_N in week order.
func (m MealPlans) MarshalYAML() (any, error) {
	root := &yaml.Node{Kind: yaml.MappingNode}
	add := func(week int, v any) error {
		node := &yaml.Node{}
		if err := node.Encode(v); err != nil {
			return fmt.Errorf("encode meals of week %d: %w", week, err)
		}
		root.Content = append(root.Content,
			&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: fmt.Sprintf("week_%d", week)}, node)
		return nil
	}
	for _, w := range m.Weekly {
		if err := add(w.Week, w); err != nil {
			return nil, err
		}
	}
	for _, w := range m.Legacy {
		if err := add(w.Week, w); err != nil {
			return nil, err
		}
	}
	return root, nil
}

// slotFor maps a meal type to its slot in the nutrition schedule.
func slotFor(mealType string) string {
	if mealType == meal.Snack {
		return nutrition.SnackName(0)
	}
	return mealType
}

// weeklyEntries places option-based meals. A meal whose slot has no time in the day's schedule is left out.
func weeklyEntries(plans []meal.WeeklyPlan, schedules map[time.Weekday]nutrition.Schedule) []calendar.MealEntry {
	var entries []calendar.MealEntry
	for _, w := range plans {
		for _, d := range w.Days {
			for _, m := range d.Meals {
				if len(m.Options) == 0 {
					continue
				}
				slot := slotFor(m.Type)
				at, ok := schedules[d.Day].Lookup(slot)
				if !ok {
					continue
				}
				entries = append(entries, calendar.MealEntry{
					Week:   w.Week,
					Day:    d.Day,
					Slot:   slot,
					Time:   at,
					Option: describe(m.Options),
					Macros: totals(m.Options[0].Totals),
				})
			}
		}
	}
	return entries
}

func describe(options []meal.Option) string {
	if len(options) == 1 {
		return options[0].Description
	}
	alternatives := make([]string, 0, len(options)-1)
	for _, o := range options[1:] {
		alternatives = append(alternatives, o.Description)
	}
	return options[0].Description + "\n\nAlternatives:\n- " + strings.Join(alternatives, "\n- ")
}

func totals(t meal.Totals) string {
	return fmt.Sprintf("Calories: %.0f | Protein: %.0fg | Carbs: %.0fg | Fat: %.0fg",
		t.Calories, t.Protein, t.Carbs, t.Fat)
}

// legacyEntries places legacy meals at the plan's shared meal times.
func legacyEntries(plans []nutrition.WeeklyPlan) []calendar.MealEntry {
	var entries []calendar.MealEntry
	for _, w := range plans {
		for _, d := range w.Days {
			for _, m := range d.Meals {
				at, ok := w.MealTimes.Lookup(m.Name)
				if !ok {
					continue
				}
				entries = append(entries, calendar.MealEntry{
					Week:   w.Week,
					Day:    d.Day,
					Slot:   m.Name,
					Time:   at,
					Option: m.Description,
					Macros: m.Macros.String(),
				})
			}
		}
	}
	return entries
}

// dailySchedules lays out meal times per weekday around that day's workout.
func dailySchedules(planner *nutrition.Planner, workouts map[time.Weekday]clock.Time) map[time.Weekday]nutrition.Schedule {
	schedules := make(map[time.Weekday]nutrition.Schedule, len(clock.Week))
	for _, day := range clock.Week {
		var at *clock.Time
		if t, ok := workouts[day]; ok {
			at = &t
		}
		schedules[day] = planner.MealTimes(at)
	}
	return schedules
}

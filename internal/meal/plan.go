package meal

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/myrjola/pfaplan/internal/clock"
	"gopkg.in/yaml.v3"
)

// Meal types.
const (
	Breakfast = "breakfast"
	Lunch     = "lunch"
	Dinner    = "dinner"
	Snack     = "snack"
)

// MealTypes lists the meals planned on day. Weekends add lunch.
func MealTypes(day time.Weekday) []string {
	if clock.IsWeekend(day) {
		return []string{Breakfast, Lunch, Dinner, Snack}
	}
	return []string{Breakfast, Dinner, Snack}
}

// Meal holds the options of one meal type.
type Meal struct {
	Type    string
	Options []Option
}

// DailyPlan lists the meals of one day in serving order.
type DailyPlan struct {
	Day   time.Weekday
	Meals []Meal
}

// Options returns the options for mealType, or nil when the day has no such meal.
func (d DailyPlan) Options(mealType string) []Option {
	for _, m := range d.Meals {
		if m.Type == mealType {
			return m.Options
		}
	}
	return nil
}

// WeeklyPlan is one week of daily plans starting on Monday.
type WeeklyPlan struct {
	Week int
	Days []DailyPlan
}

// DailyPlan generates options for every meal type in order.
func (p *Planner) DailyPlan(ctx context.Context, day time.Weekday, mealTypes []string) DailyPlan {
	plan := DailyPlan{Day: day, Meals: make([]Meal, 0, len(mealTypes))}
	for _, mealType := range mealTypes {
		plan.Meals = append(plan.Meals, Meal{Type: mealType, Options: p.Options(ctx, mealType, day, 0)})
	}
	return plan
}

// WeeklyPlan generates the daily plans of week, numbered from one.
func (p *Planner) WeeklyPlan(ctx context.Context, week int) WeeklyPlan {
	start := time.Now()
	plan := WeeklyPlan{Week: week, Days: make([]DailyPlan, 0, len(clock.Week))}
	for _, day := range clock.Week {
		plan.Days = append(plan.Days, p.DailyPlan(ctx, day, MealTypes(day)))
	}
	p.logger.LogAttrs(ctx, slog.LevelDebug, "planned meals",
		slog.Int("week", week), slog.Duration("duration", time.Since(start)))
	return plan
}

// MarshalYAML writes {week, daily_plans: {Monday: {breakfast: [...]}}} keeping day and meal order.
func (w WeeklyPlan) MarshalYAML() (any, error) {
	days := &yaml.Node{Kind: yaml.MappingNode}
	for _, d := range w.Days {
		meals := &yaml.Node{Kind: yaml.MappingNode}
		for _, m := range d.Meals {
			options := &yaml.Node{}
			opts := m.Options
			if opts == nil {
				opts = []Option{}
			}
			if err := options.Encode(opts); err != nil {
				return nil, fmt.Errorf("encode %s %s: %w", d.Day, m.Type, err)
			}
			meals.Content = append(meals.Content, scalar(m.Type), options)
		}
		days.Content = append(days.Content, scalar(d.Day.String()), meals)
	}

	week := &yaml.Node{}
	if err := week.Encode(w.Week); err != nil {
		return nil, fmt.Errorf("encode week number: %w", err)
	}
	return &yaml.Node{Kind: yaml.MappingNode, Content: []*yaml.Node{
		scalar("week"), week,
		scalar("daily_plans"), days,
	}}, nil
}

func scalar(s string) *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: s}
}

package nutrition

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"slices"
	"strings"
	"time"

	"github.com/myrjola/pfaplan/internal/clock"
	"github.com/myrjola/pfaplan/internal/config"
	"gopkg.in/yaml.v3"
)

// Option lists of the legacy planner, used when no meal database is configured.
//
//nolint:gochecknoglobals // constant tables
var (
	legacyBreakfast = []string{
		"Oats + berries + protein powder",
		"Scrambled eggs + spinach + toast",
		"Greek yogurt + granola + fruit",
		"Omelet with vegetables",
		"Protein smoothie + banana",
		"Avocado toast + eggs",
		"Overnight oats + nuts",
	}
	legacyLunch = []string{
		"Chicken + rice bowl + vegetables",
		"Turkey sandwich (whole grain)",
		"Turkey lettuce wraps + vegetables",
		"Chicken + quinoa + salad",
		"Beef + sweet potato + broccoli",
		"Tuna salad + whole grain crackers",
		"Grilled chicken + pasta + vegetables",
	}
	legacyDinner = []string{
		"Grilled chicken + sweet potato + asparagus",
		"Ground beef stir-fry + rice + vegetables",
		"Salmon + quinoa + steamed vegetables",
		"Turkey burger + roasted vegetables",
		"Beef + cauliflower rice + green beans",
		"Chicken thighs + brown rice + Brussels sprouts",
		"Pork tenderloin + roasted sweet potatoes + salad",
	}
	legacySnacks = []string{
		"Protein shake (20-30g)",
		"Greek yogurt + fruit",
		"Nuts + apple slices",
		"Hard-boiled eggs",
		"String cheese + vegetables",
		"Protein bar + water",
		"Cottage cheese + berries",
	}

	meatKeywords   = []string{"chicken", "beef", "turkey", "pork", "tuna", "salmon"}
	animalKeywords = []string{"chicken", "beef", "turkey", "pork", "tuna", "salmon", "eggs", "yogurt", "cheese", "milk"}
)

// Options are the legacy meal ideas per meal type.
type Options struct {
	Breakfast []string `yaml:"breakfast"`
	Lunch     []string `yaml:"lunch"`
	Dinner    []string `yaml:"dinner"`
	Snacks    []string `yaml:"snacks"`
}

// ForMeal returns the options of a main meal name or of snacks.
func (o Options) ForMeal(name string) []string {
	switch name {
	case "breakfast":
		return o.Breakfast
	case "lunch":
		return o.Lunch
	case "dinner":
		return o.Dinner
	default:
		return o.Snacks
	}
}

// MealOptions filters the built-in meal ideas by dietary restrictions, allergies and dislikes.
func (p *Planner) MealOptions() Options {
	prefs := p.cfg.DietaryPreferences
	avoid := slices.Concat(prefs.Allergies, prefs.Dislikes)
	keep := func(option string) bool {
		lower := strings.ToLower(option)
		contains := func(keyword string) bool { return strings.Contains(lower, strings.ToLower(keyword)) }
		if slices.Contains(prefs.Restrictions, "vegetarian") && slices.ContainsFunc(meatKeywords, contains) {
			return false
		}
		if slices.Contains(prefs.Restrictions, "vegan") && slices.ContainsFunc(animalKeywords, contains) {
			return false
		}
		return !slices.ContainsFunc(avoid, contains)
	}
	filter := func(options []string) []string {
		out := []string{}
		for _, o := range options {
			if keep(o) {
				out = append(out, o)
			}
		}
		return out
	}
	return Options{
		Breakfast: filter(legacyBreakfast),
		Lunch:     filter(legacyLunch),
		Dinner:    filter(legacyDinner),
		Snacks:    filter(legacySnacks),
	}
}

// PlannedMeal is one meal of a legacy plan.
type PlannedMeal struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
	Macros      Macros `yaml:"macros"`
}

// Day is one day of a legacy plan.
type Day struct {
	Day   time.Weekday  `yaml:"-"`
	Meals []PlannedMeal `yaml:"meals"`
}

// WeeklyPlan is the legacy flat meal plan: one random idea per meal, the same meal times every day.
type WeeklyPlan struct {
	Week               int
	TotalDailyCalories int
	DailyMacroTargets  Macros
	MealTimes          Schedule
	Days               []Day
}

// WeeklyPlan picks one idea per meal of every day with rng. Lunch is always planned; snacks follow snacks_per_day.
func (p *Planner) WeeklyPlan(ctx context.Context, logger *slog.Logger, week int, rng *rand.Rand) WeeklyPlan {
	options := p.MealOptions()
	plan := WeeklyPlan{
		Week:               week,
		TotalDailyCalories: p.cfg.CalorieGoals.Target,
		DailyMacroTargets:  p.MacroGrams(),
		MealTimes:          p.MealTimes(nil),
		Days:               make([]Day, 0, len(clock.Week)),
	}

	names := []string{"breakfast", "lunch", "dinner"}
	for i := range p.cfg.MealTiming.SnacksPerDay {
		names = append(names, SnackName(i))
	}
	for _, weekday := range clock.Week {
		day := Day{Day: weekday}
		for _, name := range names {
			choices := options.ForMeal(name)
			if len(choices) == 0 {
				continue
			}
			day.Meals = append(day.Meals, PlannedMeal{
				Name:        name,
				Description: choices[rng.IntN(len(choices))],
				Macros:      p.MealMacros(name),
			})
		}
		plan.Days = append(plan.Days, day)
	}
	logger.LogAttrs(ctx, slog.LevelDebug, "planned legacy meals", slog.Int("week", week))
	return plan
}

func (w WeeklyPlan) MarshalYAML() (any, error) {
	root := &yaml.Node{}
	days := &yaml.Node{Kind: yaml.MappingNode}
	for _, d := range w.Days {
		meals := &yaml.Node{Kind: yaml.MappingNode}
		for _, m := range d.Meals {
			macros := &yaml.Node{}
			if err := macros.Encode(m.Macros); err != nil {
				return nil, fmt.Errorf("encode %s macros: %w", m.Name, err)
			}
			meals.Content = append(meals.Content,
				str(m.Name), str(m.Description),
				str(m.Name+"_macros"), macros)
		}
		days.Content = append(days.Content, str(d.Day.String()), meals)
	}
	if err := root.Encode(struct {
		Week               int    `yaml:"week"`
		TotalDailyCalories int    `yaml:"total_daily_calories"`
		DailyMacroTargets  Macros `yaml:"daily_macro_targets"`
	}{w.Week, w.TotalDailyCalories, w.DailyMacroTargets}); err != nil {
		return nil, fmt.Errorf("encode week header: %w", err)
	}
	times, _ := w.MealTimes.MarshalYAML()
	root.Content = append(root.Content,
		str("meal_times"), times.(*yaml.Node), //nolint:forcetypeassert // Schedule always returns a node
		str("daily_meals"), days)
	return root, nil
}

func str(s string) *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: s}
}

package meal

import (
	"context"
	"log/slog"
	"math/rand/v2"
	"slices"
	"strings"
	"time"

	"github.com/myrjola/pfaplan/internal/clock"
	"github.com/myrjola/pfaplan/internal/config"
)

const (
	maxAttempts = 100
	// maxOverlap is the largest shared fraction of item names two options of one call may have.
	maxOverlap = 0.5
)

// Generator searches random component combinations that satisfy the combination rules of a meal type.
//
// A Generator is not safe for concurrent use because it draws from a single random source.
type Generator struct {
	logger         *slog.Logger
	components     map[string][]config.FoodItem
	rules          map[string]config.CombinationRule
	optionsPerMeal int
	recipeTags     config.RecipeTags
	rng            *rand.Rand
}

// NewGenerator searches db using rng. A database without generation rules yields no options.
func NewGenerator(logger *slog.Logger, db *config.MealDatabase, rng *rand.Rand) *Generator {
	g := &Generator{
		logger:         logger,
		rules:          map[string]config.CombinationRule{},
		optionsPerMeal: config.DefaultOptionsPerMeal,
		rng:            rng,
	}
	if db == nil {
		return g
	}
	g.components = db.Components
	if gen := db.Generation; gen != nil {
		if gen.CombinationRules != nil {
			g.rules = gen.CombinationRules
		}
		if gen.OptionsPerMeal > 0 {
			g.optionsPerMeal = gen.OptionsPerMeal
		}
		g.recipeTags = gen.RecipeTags
	}
	return g
}

// OptionsPerMeal is the configured number of options per meal.
func (g *Generator) OptionsPerMeal() int { return g.optionsPerMeal }

// RecipeTags is the tag filter fetched recipes must pass.
func (g *Generator) RecipeTags() config.RecipeTags { return g.recipeTags }

// Rule returns the combination rule of mealType.
func (g *Generator) Rule(mealType string) (config.CombinationRule, bool) {
	rule, ok := g.rules[mealType]
	return rule, ok
}

// Items returns the items of component usable for mealType in database order.
func (g *Generator) Items(component, mealType string) []config.FoodItem {
	var items []config.FoodItem
	for _, item := range g.components[component] {
		if slices.Contains(item.MealTypes, mealType) {
			items = append(items, item)
		}
	}
	return items
}

// Options returns up to n component-only options for mealType on day. Fewer options after the attempt budget is
// spent is a normal outcome. A non-positive n uses the configured options per meal.
func (g *Generator) Options(ctx context.Context, mealType string, day time.Weekday, n int) []Option {
	if n <= 0 {
		n = g.optionsPerMeal
	}
	rule, ok := g.rules[mealType]
	if !ok {
		return nil
	}
	weekend := clock.IsWeekend(day)

	var (
		options  []Option
		attempts int
	)
	for len(options) < n && attempts < maxAttempts {
		attempts++

		var selected []config.FoodItem
		used := make(map[string]bool)
		for _, component := range rule.RequiredComponents {
			if item, picked := g.pick(component, mealType, rule, weekend, selected); picked {
				selected = append(selected, item)
				used[component] = true
			}
		}

		var optional []string
		for _, component := range rule.OptionalComponents {
			if !used[component] {
				optional = append(optional, component)
			}
		}
		if len(optional) > 0 {
			count := min(1+g.rng.IntN(2), len(optional)) //nolint:mnd // one or two optional components
			for _, component := range g.sample(optional, count) {
				if item, picked := g.pick(component, mealType, rule, weekend, selected); picked {
					selected = append(selected, item)
				}
			}
		}

		if len(selected) == 0 || !meetsRule(rule, totalsOf(selected)) {
			continue
		}
		if slices.ContainsFunc(options, func(existing Option) bool { return tooSimilar(existing.Items, selected) }) {
			continue
		}
		options = append(options, componentOption(selected))
	}

	if len(options) < n {
		g.logger.LogAttrs(ctx, slog.LevelDebug, "meal search exhausted",
			slog.String("meal_type", mealType), slog.Int("found", len(options)), slog.Int("wanted", n),
			slog.Int("attempts", attempts))
	}
	return options
}

// pick draws one item of component that keeps the selection free of exclusions.
func (g *Generator) pick(
	component, mealType string,
	rule config.CombinationRule,
	weekend bool,
	selected []config.FoodItem,
) (config.FoodItem, bool) {
	items := g.Items(component, mealType)
	if weekend {
		items = preferWeekend(items, rule.WeekendPreference)
	}
	var valid []config.FoodItem
	for _, item := range items {
		if compatible(append(slices.Clip(selected), item)) {
			valid = append(valid, item)
		}
	}
	if len(valid) == 0 {
		return config.FoodItem{}, false
	}
	return valid[g.rng.IntN(len(valid))], true
}

// sample returns count distinct elements of s in random order.
func (g *Generator) sample(s []string, count int) []string {
	pool := slices.Clone(s)
	for i := range count {
		j := i + g.rng.IntN(len(pool)-i)
		pool[i], pool[j] = pool[j], pool[i]
	}
	return pool[:count]
}

// itemKey normalizes a food name the way exclusions refer to it: "Steel-Cut Oats (dry)" becomes "steel-cut_oats_dry".
func itemKey(name string) string {
	return strings.NewReplacer(" ", "_", "(", "", ")", "").Replace(strings.ToLower(name))
}

// compatible reports whether no item excludes another item of the selection.
func compatible(items []config.FoodItem) bool {
	keys := make(map[string]bool, len(items))
	for _, item := range items {
		keys[itemKey(item.Name)] = true
	}
	for _, item := range items {
		for _, excluded := range item.Exclusions {
			if keys[excluded] {
				return false
			}
		}
	}
	return true
}

// preferWeekend moves items whose key contains a preference, or that carry a preference as tag, to the front.
func preferWeekend(items []config.FoodItem, preferences []string) []config.FoodItem {
	if len(preferences) == 0 {
		return items
	}
	var preferred, regular []config.FoodItem
	for _, item := range items {
		key := itemKey(item.Name)
		if slices.ContainsFunc(preferences, func(p string) bool {
			return strings.Contains(key, p) || slices.Contains(item.Tags, p)
		}) {
			preferred = append(preferred, item)
		} else {
			regular = append(regular, item)
		}
	}
	return append(preferred, regular...)
}

func totalsOf(items []config.FoodItem) Totals {
	return componentOption(items).Totals
}

// meetsRule checks the protein floor and the inclusive calorie range.
func meetsRule(rule config.CombinationRule, totals Totals) bool {
	lo, hi := rule.CalorieBounds()
	return totals.Protein >= rule.MinProtein && lo <= totals.Calories && totals.Calories <= hi
}

// tooSimilar reports whether the item name sets share more than half of the larger set.
func tooSimilar(a, b []config.FoodItem) bool {
	names := func(items []config.FoodItem) map[string]bool {
		set := make(map[string]bool, len(items))
		for _, item := range items {
			set[item.Name] = true
		}
		return set
	}
	setA, setB := names(a), names(b)
	shared := 0
	for name := range setA {
		if setB[name] {
			shared++
		}
	}
	largest := max(len(setA), len(setB))
	return largest > 0 && float64(shared)/float64(largest) > maxOverlap
}

package meal

import (
	"context"
	"log/slog"
	"math"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/myrjola/pfaplan/internal/config"
	"github.com/myrjola/pfaplan/internal/recipe"
)

const (
	// Recipes are only rescaled toward the calorie target within this factor range.
	minPortionScale = 0.3
	maxPortionScale = 3.0
	// generalRecipeLimit caps searches built from popular ingredients.
	generalRecipeLimit = 10
)

// RecipeSource fetches recipes and caches them by key. *recipe.Client implements it.
type RecipeSource interface {
	Fetch(ctx context.Context, ingredients, filters []string, maxRecipes int) []recipe.Recipe
	FindForComponents(ctx context.Context, items []config.FoodItem, mealType string, filters []string) []recipe.Recipe
	Cached(ctx context.Context, key string) ([]recipe.Recipe, bool)
	Store(ctx context.Context, key string, recipes []recipe.Recipe)
}

// Planner produces meal options, mixing component combinations with fetched recipes when recipes are enabled.
type Planner struct {
	logger     *slog.Logger
	generator  *Generator
	source     RecipeSource
	mode       string
	ratio      float64
	maxPerMeal int
	filters    []string
	tags       config.RecipeTags
}

// NewPlanner plans with generator. source is only used when cfg enables recipes; pass nil for component-only plans.
func NewPlanner(logger *slog.Logger, generator *Generator, source RecipeSource, cfg *config.Recipes) *Planner {
	p := &Planner{logger: logger, generator: generator, tags: generator.RecipeTags()}
	if !cfg.Enabled() || source == nil {
		return p
	}
	p.source = source
	p.mode = cfg.Mode
	p.ratio = cfg.RecipeRatio
	p.maxPerMeal = cfg.MaxRecipesPerMeal
	p.filters = cfg.DietaryFilters
	if p.maxPerMeal <= 0 {
		p.maxPerMeal = config.DefaultMaxRecipesPerMeal
	}
	return p
}

// Options returns n options for mealType on day. A non-positive n uses the configured options per meal.
func (p *Planner) Options(ctx context.Context, mealType string, day time.Weekday, n int) []Option {
	if n <= 0 {
		n = p.generator.OptionsPerMeal()
	}
	switch {
	case p.source == nil:
		return p.generator.Options(ctx, mealType, day, n)
	case p.mode == config.RecipeModeEnhance:
		return p.enhanced(ctx, mealType, day, n)
	default:
		return p.blended(ctx, mealType, day, n)
	}
}

// blended fills part of the options with recipes and backfills missing recipes with component options.
func (p *Planner) blended(ctx context.Context, mealType string, day time.Weekday, n int) []Option {
	targetRecipes := min(p.maxPerMeal, max(1, int(math.RoundToEven(float64(n)*p.ratio))))
	targetComponents := max(0, n-targetRecipes)

	// The reserve beyond targetComponents backfills recipe shortfalls without repeating combinations.
	components := p.generator.Options(ctx, mealType, day, n)
	options := slices.Clone(components[:min(len(components), targetComponents)])
	reserve := components[len(options):]

	var query []config.FoodItem
	if len(components) > 0 {
		query = components[0].Items
	}
	recipes := p.recipesFor(ctx, mealType, query)
	for _, r := range recipes[:min(len(recipes), targetRecipes)] {
		options = append(options, recipeOption(r))
	}

	if shortfall := n - len(options); shortfall > 0 {
		options = append(options, reserve[:min(len(reserve), shortfall)]...)
	}
	p.logger.LogAttrs(ctx, slog.LevelDebug, "blended meal options",
		slog.String("meal_type", mealType), slog.Int("components", len(components)),
		slog.Int("recipes", min(len(recipes), targetRecipes)), slog.Int("options", len(options)))
	return options
}

// enhanced attaches the best matching recipe to every component option.
func (p *Planner) enhanced(ctx context.Context, mealType string, day time.Weekday, n int) []Option {
	components := p.generator.Options(ctx, mealType, day, n)
	options := make([]Option, 0, len(components))
	for _, option := range components {
		recipes := p.recipesFor(ctx, mealType, option.Items)
		if len(recipes) == 0 {
			p.logger.LogAttrs(ctx, slog.LevelWarn, "no matching recipe found for meal components",
				slog.String("meal_type", mealType), slog.String("components", option.Description))
			options = append(options, option.withoutRecipe())
			continue
		}
		options = append(options, option.withRecipe(recipes[0]))
	}
	return options
}

// RecipeFocused returns options built from recipes for ingredients, filling any gap with component options.
func (p *Planner) RecipeFocused(ctx context.Context, mealType string, ingredients []string, n int) []Option {
	if p.source == nil {
		return p.generator.Options(ctx, mealType, time.Monday, n)
	}
	rule, hasRule := p.generator.Rule(mealType)

	var options []Option
	for _, r := range p.source.Fetch(ctx, ingredients, p.filters, n*2) { //nolint:mnd // fetch extra to survive filtering
		if len(options) == n {
			break
		}
		if !slices.Contains(r.MealTypes, mealType) || (hasRule && !meetsRule(rule, nutritionTotals(r))) {
			continue
		}
		options = append(options, recipeOption(r))
	}
	for len(options) < n {
		more := p.generator.Options(ctx, mealType, time.Monday, 1)
		if len(more) == 0 {
			break
		}
		options = append(options, more...)
	}
	return options
}

// recipesFor returns up to maxPerMeal suitable recipes for the component items, or for the meal type's popular
// ingredients when items is empty. Results are cached per meal type and item set.
func (p *Planner) recipesFor(ctx context.Context, mealType string, items []config.FoodItem) []recipe.Recipe {
	key := CacheKey(mealType, items)
	if cached, ok := p.source.Cached(ctx, key); ok && len(cached) > 0 {
		p.logger.LogAttrs(ctx, slog.LevelDebug, "using cached recipes",
			slog.String("meal_type", mealType), slog.Int("count", len(cached)))
		return cached[:min(len(cached), p.maxPerMeal)]
	}

	var fetched []recipe.Recipe
	if len(items) > 0 {
		fetched = p.source.FindForComponents(ctx, items, mealType, p.filters)
	} else {
		fetched = p.source.Fetch(ctx, p.PopularIngredients(mealType), p.filters, generalRecipeLimit)
	}

	rule, hasRule := p.generator.Rule(mealType)
	var suitable []recipe.Recipe
	for _, r := range fetched {
		if hasRule && !meetsRule(rule, nutritionTotals(r)) {
			continue
		}
		if !p.tagsAllow(r) {
			p.logger.LogAttrs(ctx, slog.LevelDebug, "recipe excluded by tag filter",
				slog.String("recipe", r.Name), slog.String("tags", strings.Join(r.Tags, ",")))
			continue
		}
		if hasRule {
			r = scaleToTarget(r, rule)
		}
		suitable = append(suitable, r)
	}
	p.source.Store(ctx, key, suitable)

	p.logger.LogAttrs(ctx, slog.LevelInfo, "filtered recipes",
		slog.String("meal_type", mealType), slog.Int("suitable", len(suitable)), slog.Int("fetched", len(fetched)))
	return suitable[:min(len(suitable), p.maxPerMeal)]
}

// tagsAllow requires one include tag when any are configured and no exclude tag.
func (p *Planner) tagsAllow(r recipe.Recipe) bool {
	if len(p.tags.IncludeTags) > 0 && !slices.ContainsFunc(p.tags.IncludeTags, func(tag string) bool {
		return slices.Contains(r.Tags, tag)
	}) {
		return false
	}
	return !slices.ContainsFunc(p.tags.ExcludeTags, func(tag string) bool {
		return slices.Contains(r.Tags, tag)
	})
}

func nutritionTotals(r recipe.Recipe) Totals {
	return Totals{Calories: r.Nutrition.Calories, Protein: r.Nutrition.Protein, Carbs: r.Nutrition.Carbs, Fat: r.Nutrition.Fat}
}

// scaleToTarget rescales r toward the middle of the rule's calorie range unless that needs an extreme factor.
func scaleToTarget(r recipe.Recipe, rule config.CombinationRule) recipe.Recipe {
	if r.Nutrition.Calories == 0 {
		return r
	}
	lo, hi := rule.CalorieBounds()
	factor := (lo + hi) / 2 / r.Nutrition.Calories //nolint:mnd // midpoint
	if factor < minPortionScale || factor > maxPortionScale {
		return r
	}
	return r.Scaled(factor)
}

// CacheKey derives a stable key from the meal type and the sorted component names.
func CacheKey(mealType string, items []config.FoodItem) string {
	if len(items) == 0 {
		return mealType + "|general"
	}
	names := make([]string, 0, len(items))
	for _, item := range items {
		names = append(names, item.Name)
	}
	slices.Sort(names)
	return uuid.NewSHA1(uuid.NameSpaceOID, []byte(mealType+"|"+strings.Join(names, "|"))).String()
}

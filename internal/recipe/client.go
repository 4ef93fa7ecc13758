package recipe

import (
	"context"
	"log/slog"
	"net/http"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/myrjola/pfaplan/internal/config"
	"github.com/myrjola/pfaplan/internal/errors"
)

// fallbackUnfiltered is how many recipes are returned when none match the requested meal type.
const fallbackUnfiltered = 3

// Client queries sources in order, skipping sources that failed too often, and owns the recipe cache.
// It is safe for concurrent use.
type Client struct {
	logger      *slog.Logger
	sources     []Source
	cache       Cache
	maxFailures int
	maxRecipes  int

	mu       sync.Mutex
	failures map[string]int
}

// Options tune a Client. Zero values fall back to the configuration defaults.
type Options struct {
	Cache       Cache
	MaxFailures int
	MaxRecipes  int
}

// NewClient queries sources in the given order.
func NewClient(logger *slog.Logger, sources []Source, opts Options) *Client {
	if opts.MaxFailures <= 0 {
		opts.MaxFailures = config.DefaultMaxFailuresPerAPI
	}
	if opts.MaxRecipes <= 0 {
		opts.MaxRecipes = config.DefaultMaxRecipes
	}
	if opts.Cache == nil {
		opts.Cache = NewMemoryCache(config.DefaultCacheTTL)
	}
	return &Client{
		logger:      logger,
		sources:     sources,
		cache:       opts.Cache,
		maxFailures: opts.MaxFailures,
		maxRecipes:  opts.MaxRecipes,
		failures:    make(map[string]int),
	}
}

// NewClientFromConfig builds the enabled sources in the order TheMealDB, Edamam, Spoonacular. Sources that need
// credentials are left out with a warning when the credentials are empty.
func NewClientFromConfig(ctx context.Context, logger *slog.Logger, cfg *config.Recipes, cache Cache) *Client {
	httpClient := &http.Client{Timeout: cfg.RequestTimeout}
	interval := cfg.MinRequestInterval

	var sources []Source
	if api := cfg.APIs.TheMealDB; api.Enabled {
		sources = append(sources, NewTheMealDB(api.BaseURL, httpClient, interval, logger))
	}
	if api := cfg.APIs.Edamam; api.Enabled {
		if api.AppID == "" || api.AppKey == "" {
			logger.LogAttrs(ctx, slog.LevelWarn, "edamam credentials not configured, skipping source")
		} else {
			sources = append(sources, NewEdamam(api.BaseURL, api.AppID, api.AppKey, httpClient, interval, logger))
		}
	}
	if api := cfg.APIs.Spoonacular; api.Enabled {
		if api.APIKey == "" {
			logger.LogAttrs(ctx, slog.LevelWarn, "spoonacular API key not configured, skipping source")
		} else {
			sources = append(sources, NewSpoonacular(api.BaseURL, api.APIKey, httpClient, interval, logger))
		}
	}

	return NewClient(logger, sources, Options{
		Cache:       cache,
		MaxFailures: cfg.MaxFailuresPerAPI,
		MaxRecipes:  cfg.MaxRecipes,
	})
}

// Failures returns the consecutive failure count of a source.
func (c *Client) Failures(source string) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.failures[source]
}

func (c *Client) tripped(source string) bool {
	return c.Failures(source) >= c.maxFailures
}

func (c *Client) record(source string, err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err != nil {
		c.failures[source]++
		return
	}
	c.failures[source] = 0
}

// Fetch queries every healthy source until maxRecipes recipes are collected, then removes recipes whose trimmed
// lowercase names repeat. A non-positive maxRecipes uses the client's limit. Source errors are logged and counted,
// never returned.
func (c *Client) Fetch(ctx context.Context, ingredients, filters []string, maxRecipes int) []Recipe {
	if maxRecipes <= 0 {
		maxRecipes = c.maxRecipes
	}

	var all []Recipe
	for _, source := range c.sources {
		name := source.Name()
		if c.tripped(name) {
			c.logger.LogAttrs(ctx, slog.LevelDebug, "skipping recipe source after repeated failures",
				slog.String("api", name))
			continue
		}
		start := time.Now()
		recipes, err := source.Search(ctx, ingredients, filters)
		c.record(name, err)
		if err != nil {
			c.logger.LogAttrs(ctx, slog.LevelWarn, "recipe source failed",
				slog.String("api", name), slog.Int("failures", c.Failures(name)), errors.SlogError(err))
			continue
		}
		c.logger.LogAttrs(ctx, slog.LevelInfo, "fetched recipes",
			slog.String("api", name), slog.Int("count", len(recipes)), slog.Duration("duration", time.Since(start)))
		all = append(all, recipes...)
		if len(all) >= maxRecipes {
			break
		}
	}

	seen := make(map[string]bool, len(all))
	unique := make([]Recipe, 0, len(all))
	for _, r := range all {
		key := strings.ToLower(strings.TrimSpace(r.Name))
		if seen[key] {
			continue
		}
		seen[key] = true
		unique = append(unique, r)
	}
	return unique[:min(len(unique), maxRecipes)]
}

// FindForComponents searches recipes for a meal made of items, relaxing the query step by step: every ingredient,
// then without fruits, then dropping one main ingredient at a time. The first attempt with results wins. Recipes
// for mealType are preferred; otherwise the first three results are returned.
func (c *Client) FindForComponents(
	ctx context.Context,
	items []config.FoodItem,
	mealType string,
	filters []string,
) []Recipe {
	var mains, fruits []string
	for _, item := range items {
		term := SearchTerm(item.Name)
		if term == "" {
			continue
		}
		if isFruit(term) {
			fruits = append(fruits, term)
		} else {
			mains = append(mains, term)
		}
	}

	attempts := [][]string{slices.Concat(mains, fruits), mains}
	if len(mains) > 1 {
		for i := range mains {
			attempts = append(attempts, slices.Concat(mains[:i], mains[i+1:]))
		}
	}

	for i, ingredients := range attempts {
		if len(ingredients) == 0 {
			continue
		}
		recipes := c.Fetch(ctx, ingredients, filters, 0)
		if len(recipes) == 0 {
			continue
		}
		c.logger.LogAttrs(ctx, slog.LevelDebug, "found recipes",
			slog.Int("attempt", i+1), slog.String("ingredients", strings.Join(ingredients, ", ")),
			slog.Int("count", len(recipes)))

		var matching []Recipe
		for _, r := range recipes {
			if slices.Contains(r.MealTypes, mealType) {
				matching = append(matching, r)
			}
		}
		if len(matching) > 0 {
			return matching
		}
		return recipes[:min(len(recipes), fallbackUnfiltered)]
	}

	c.logger.LogAttrs(ctx, slog.LevelWarn, "no recipes found after all fallback attempts",
		slog.String("meal_type", mealType))
	return nil
}

// Cached returns fresh cached recipes. Cache errors are logged and reported as a miss.
func (c *Client) Cached(ctx context.Context, key string) ([]Recipe, bool) {
	recipes, ok, err := c.cache.Get(ctx, key)
	if err != nil {
		c.logger.LogAttrs(ctx, slog.LevelWarn, "read recipe cache", errors.SlogError(err))
		return nil, false
	}
	return recipes, ok
}

// Store caches recipes under key. Cache errors are logged.
func (c *Client) Store(ctx context.Context, key string, recipes []Recipe) {
	if err := c.cache.Put(ctx, key, recipes); err != nil {
		c.logger.LogAttrs(ctx, slog.LevelWarn, "write recipe cache", errors.SlogError(err))
	}
}

// searchTerms maps ingredient names to the term that works best in recipe searches. Checked in order.
var searchTerms = []struct { //nolint:gochecknoglobals // constant table
	term     string
	variants []string
}{
	{"eggs", []string{"eggs", "boiled eggs", "scrambled eggs"}},
	{"toast", []string{"toast", "bread"}},
	{"oats", []string{"oats", "steel-cut oats", "quick oats"}},
	{"chicken", []string{"chicken", "grilled chicken"}},
	{"beef", []string{"beef", "ground beef"}},
	{"rice", []string{"rice", "brown rice"}},
	{"yogurt", []string{"yogurt", "greek yogurt"}},
	{"cheese", []string{"cheese", "cottage cheese"}},
	{"sweet potato", []string{"sweet potato"}},
	{"avocado", []string{"avocado"}},
	{"spinach", []string{"spinach"}},
	{"broccoli", []string{"broccoli"}},
}

var skipSearchWords = []string{"whole", "grain", "steel-cut", "boiled", "grilled", "lean"} //nolint:gochecknoglobals // constant table

var fruitTerms = []string{ //nolint:gochecknoglobals // constant table
	"apple", "banana", "orange", "berry", "berries", "grape", "pear", "mango", "pineapple", "strawberries",
	"blueberries",
}

// SearchTerm reduces a food name like "Greek Yogurt (plain)" to a search term like "yogurt".
func SearchTerm(name string) string {
	clean, _, _ := strings.Cut(strings.ToLower(name), "(")
	clean = strings.TrimSpace(clean)

	for _, st := range searchTerms {
		for _, variant := range st.variants {
			if strings.Contains(clean, variant) {
				return st.term
			}
		}
	}
	for _, word := range strings.Fields(clean) {
		if !slices.Contains(skipSearchWords, word) {
			return word
		}
	}
	return clean
}

func isFruit(term string) bool {
	return containsAny(term, fruitTerms...)
}

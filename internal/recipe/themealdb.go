package recipe

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/myrjola/pfaplan/internal/errors"
)

const (
	// TheMealDBURL is the free public API, no key required.
	TheMealDBURL = "https://www.themealdb.com/api/json/v1/1"

	mealDBMaxIngredients   = 3
	mealDBMaxLookups       = 5
	mealDBIngredientFields = 20
)

// junkKeywords filter desserts out of TheMealDB results when dietary filters are set.
var junkKeywords = []string{ //nolint:gochecknoglobals // constant table
	"pancake", "flapjack", "cake", "cookie", "brownie", "donut", "pie", "tart", "pudding", "ice cream", "candy",
	"chocolate", "dessert", "sweet", "sugar", "frosting", "icing", "syrup",
}

// TheMealDB searches by single ingredient and looks up the details of the first few meals of each search.
type TheMealDB struct {
	endpoint
}

// NewTheMealDB returns a source reading from baseURL.
func NewTheMealDB(baseURL string, client *http.Client, interval time.Duration, logger *slog.Logger) *TheMealDB {
	if baseURL == "" {
		baseURL = TheMealDBURL
	}
	return &TheMealDB{endpoint: newEndpoint("themealdb", baseURL, client, interval, logger)}
}

func (s *TheMealDB) Name() string { return s.name }

type mealDBResponse struct {
	Meals []map[string]any `json:"meals"`
}

// Search queries the first three ingredients. A search that fails is skipped; the source only fails when every
// filter request fails.
func (s *TheMealDB) Search(ctx context.Context, ingredients, filters []string) ([]Recipe, error) {
	var (
		recipes []Recipe
		errs    []error
		tried   int
	)
	for _, ingredient := range ingredients[:min(len(ingredients), mealDBMaxIngredients)] {
		term := mealDBTerm(ingredient)
		if term == "" {
			continue
		}
		tried++
		var summary mealDBResponse
		if err := s.getJSON(ctx, "/filter.php", url.Values{"i": {term}}, &summary); err != nil {
			errs = append(errs, err)
			continue
		}
		for _, meal := range summary.Meals[:min(len(summary.Meals), mealDBMaxLookups)] {
			id := field(meal, "idMeal")
			if id == "" {
				continue
			}
			var detail mealDBResponse
			if err := s.getJSON(ctx, "/lookup.php", url.Values{"i": {id}}, &detail); err != nil {
				if ctx.Err() != nil {
					return recipes, fmt.Errorf("lookup %s: %w", id, err)
				}
				continue
			}
			if len(detail.Meals) == 0 {
				continue
			}
			if r, ok := parseMealDB(detail.Meals[0], len(filters) > 0); ok {
				recipes = append(recipes, r)
			}
		}
	}
	if tried > 0 && len(errs) == tried {
		return nil, errors.Join(errs...)
	}
	return recipes, nil
}

// mealDBTerm is the first word of the lowercased ingredient without parentheses.
func mealDBTerm(ingredient string) string {
	clean := strings.NewReplacer("(", "", ")", "").Replace(strings.ToLower(ingredient))
	words := strings.Fields(clean)
	if len(words) == 0 {
		return ""
	}
	return words[0]
}

func field(meal map[string]any, key string) string {
	switch v := meal[key].(type) {
	case string:
		return strings.TrimSpace(v)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	default:
		return ""
	}
}

func parseMealDB(meal map[string]any, skipJunk bool) (Recipe, bool) {
	id := field(meal, "idMeal")
	name := field(meal, "strMeal")
	category := field(meal, "strCategory")
	lowerName, lowerCategory := strings.ToLower(name), strings.ToLower(category)

	if skipJunk {
		for _, keyword := range junkKeywords {
			if strings.Contains(lowerName, keyword) || strings.Contains(lowerCategory, keyword) {
				return Recipe{}, false
			}
		}
	}

	var ingredients []string
	for i := 1; i <= mealDBIngredientFields; i++ {
		ingredient := field(meal, "strIngredient"+strconv.Itoa(i))
		if ingredient == "" {
			continue
		}
		if measure := field(meal, "strMeasure"+strconv.Itoa(i)); measure != "" {
			ingredient = measure + " " + ingredient
		}
		ingredients = append(ingredients, ingredient)
	}

	var instructions []string
	for _, sentence := range strings.Split(field(meal, "strInstructions"), ".") {
		if s := strings.TrimSpace(sentence); s != "" {
			instructions = append(instructions, s)
		}
	}

	var mealTypes []string
	if containsAny(lowerCategory, "breakfast", "dessert") {
		mealTypes = append(mealTypes, "breakfast")
	}
	if containsAny(lowerCategory, "beef", "chicken", "pork", "lamb", "seafood") {
		mealTypes = append(mealTypes, "lunch", "dinner")
	}
	if len(mealTypes) == 0 {
		mealTypes = defaultMealTypes()
	}

	return Recipe{
		ID:           "themealdb_" + id,
		Name:         name,
		Ingredients:  ingredients,
		Instructions: instructions,
		PrepTime:     15,
		CookTime:     30,
		TotalTime:    45,
		Servings:     4,
		Nutrition:    estimateNutrition(ingredients),
		Tags:         []string{category, field(meal, "strArea")},
		SourceAPI:    "themealdb",
		SourceURL:    "https://www.themealdb.com/meal/" + id,
		Difficulty:   defaultDifficulty,
		MealTypes:    mealTypes,
	}, true
}

func containsAny(s string, terms ...string) bool {
	for _, term := range terms {
		if strings.Contains(s, term) {
			return true
		}
	}
	return false
}

// estimateNutrition guesses macros from ingredient keywords for sources without nutrition data.
func estimateNutrition(ingredients []string) Nutrition {
	var proteins, carbs int
	for _, ingredient := range ingredients {
		lower := strings.ToLower(ingredient)
		if containsAny(lower, "chicken", "beef", "fish", "egg", "protein", "tofu", "beans") {
			proteins++
		}
		if containsAny(lower, "rice", "pasta", "bread", "potato", "oats") {
			carbs++
		}
	}
	n := len(ingredients)
	return Nutrition{
		Calories: float64(50*n + 100*proteins + 80*carbs),
		Protein:  float64(max(5, proteins*25)),
		Carbs:    float64(max(10, carbs*30)),
		Fat:      float64(max(5, n*3)),
	}
}

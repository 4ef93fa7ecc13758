// Package recipe fetches recipes from public recipe APIs and caches the results.
package recipe

import (
	"context"

	"github.com/myrjola/pfaplan/internal/errors"
)

// ErrSourceFailed marks a source request that did not produce a usable response.
var ErrSourceFailed = errors.NewSentinel("recipe source failed")

// Nutrition is per serving.
type Nutrition struct {
	Calories float64 `json:"calories" yaml:"calories"`
	Protein  float64 `json:"protein"  yaml:"protein"`
	Carbs    float64 `json:"carbs"    yaml:"carbs"`
	Fat      float64 `json:"fat"      yaml:"fat"`
}

// Recipe is the source independent representation of a fetched recipe.
type Recipe struct {
	ID           string    `json:"id"                   yaml:"id"`
	Name         string    `json:"name"                 yaml:"name"`
	Ingredients  []string  `json:"ingredients"          yaml:"ingredients"`
	Instructions []string  `json:"instructions"         yaml:"instructions"`
	PrepTime     int       `json:"prep_time"            yaml:"prep_time"`
	CookTime     int       `json:"cook_time"            yaml:"cook_time"`
	TotalTime    int       `json:"total_time"           yaml:"total_time"`
	Servings     int       `json:"servings"             yaml:"servings"`
	Nutrition    Nutrition `json:"nutrition"            yaml:"nutrition"`
	Tags         []string  `json:"tags,omitempty"       yaml:"tags,omitempty"`
	SourceAPI    string    `json:"source_api"           yaml:"source_api"`
	SourceURL    string    `json:"source_url,omitempty" yaml:"source_url,omitempty"`
	Difficulty   string    `json:"difficulty"           yaml:"difficulty"`
	MealTypes    []string  `json:"meal_types"           yaml:"meal_types"`
}

// Scaled returns the recipe with servings and nutrition multiplied by factor. Servings never drop below one.
func (r Recipe) Scaled(factor float64) Recipe {
	r.Servings = max(1, int(float64(r.Servings)*factor))
	r.Nutrition = Nutrition{
		Calories: r.Nutrition.Calories * factor,
		Protein:  r.Nutrition.Protein * factor,
		Carbs:    r.Nutrition.Carbs * factor,
		Fat:      r.Nutrition.Fat * factor,
	}
	return r
}

// Source is one recipe API.
type Source interface {
	// Name identifies the source in logs and failure counters.
	Name() string
	// Search returns recipes using the ingredients. A returned error counts toward the source's failure budget.
	Search(ctx context.Context, ingredients, filters []string) ([]Recipe, error)
}

const defaultDifficulty = "medium"

// defaultMealTypes is used when a source gives no usable meal type.
func defaultMealTypes() []string {
	return []string{"lunch", "dinner"}
}

package recipe

import (
	"context"
	"log/slog"
	"net/http"
	"net/url"
	"slices"
	"strings"
	"time"
)

// EdamamURL is the recipe search v2 API.
const EdamamURL = "https://api.edamam.com"

const (
	edamamMaxHits = 10
	edamamMaxTags = 10
)

// Edamam queries the recipe search API with an app id and key.
type Edamam struct {
	endpoint
	appID  string
	appKey string
}

// NewEdamam returns a source reading from baseURL.
func NewEdamam(
	baseURL, appID, appKey string,
	client *http.Client,
	interval time.Duration,
	logger *slog.Logger,
) *Edamam {
	if baseURL == "" {
		baseURL = EdamamURL
	}
	return &Edamam{endpoint: newEndpoint("edamam", baseURL, client, interval, logger), appID: appID, appKey: appKey}
}

func (s *Edamam) Name() string { return s.name }

type edamamNutrient struct {
	Quantity float64 `json:"quantity"`
}

type edamamResponse struct {
	Hits []struct {
		Recipe struct {
			URI             string                    `json:"uri"`
			Label           string                    `json:"label"`
			URL             string                    `json:"url"`
			IngredientLines []string                  `json:"ingredientLines"`
			TotalTime       *float64                  `json:"totalTime"`
			Yield           *float64                  `json:"yield"`
			Calories        float64                   `json:"calories"`
			TotalNutrients  map[string]edamamNutrient `json:"totalNutrients"`
			MealType        []string                  `json:"mealType"`
			HealthLabels    []string                  `json:"healthLabels"`
			DietLabels      []string                  `json:"dietLabels"`
			CuisineType     []string                  `json:"cuisineType"`
			DishType        []string                  `json:"dishType"`
		} `json:"recipe"`
	} `json:"hits"`
}

// Search combines the first three ingredients into one query. Only the first matching dietary filter is sent.
func (s *Edamam) Search(ctx context.Context, ingredients, filters []string) ([]Recipe, error) {
	query := url.Values{
		"type":    {"public"},
		"q":       {strings.Join(ingredients[:min(len(ingredients), 3)], " ")},
		"app_id":  {s.appID},
		"app_key": {s.appKey},
		"to":      {"20"},
	}
	for _, filter := range filters {
		if filter == "high-protein" {
			query.Set("health", filter)
			break
		}
		if slices.Contains([]string{"keto", "paleo", "vegetarian", "vegan"}, filter) {
			query.Set("diet", filter)
			break
		}
	}

	var resp edamamResponse
	if err := s.getJSON(ctx, "/api/recipes/v2", query, &resp); err != nil {
		return nil, err
	}

	recipes := make([]Recipe, 0, min(len(resp.Hits), edamamMaxHits))
	for _, hit := range resp.Hits[:min(len(resp.Hits), edamamMaxHits)] {
		r := hit.Recipe

		total := 30
		if r.TotalTime != nil && *r.TotalTime > 0 {
			total = int(*r.TotalTime)
		}
		servings := 4
		if r.Yield != nil && *r.Yield >= 1 {
			servings = int(*r.Yield)
		}
		perServing := float64(max(servings, 1))
		calories := r.Calories
		if calories == 0 {
			calories = r.TotalNutrients["ENERC_KCAL"].Quantity
		}

		var mealTypes []string
		for _, label := range r.MealType {
			if lower := strings.ToLower(label); slices.Contains([]string{"breakfast", "lunch", "dinner", "snack"}, lower) {
				mealTypes = append(mealTypes, lower)
			}
		}
		if len(mealTypes) == 0 {
			mealTypes = defaultMealTypes()
		}

		tags := slices.Concat(r.HealthLabels, r.DietLabels, r.CuisineType, r.DishType)
		uri := r.URI
		if _, fragment, ok := strings.Cut(uri, "#"); ok {
			uri = fragment
		}

		recipes = append(recipes, Recipe{
			ID:           "edamam_" + uri,
			Name:         r.Label,
			Ingredients:  r.IngredientLines,
			Instructions: []string{"See source URL for detailed instructions"},
			PrepTime:     total,
			TotalTime:    total,
			Servings:     servings,
			Nutrition: Nutrition{
				Calories: calories / perServing,
				Protein:  r.TotalNutrients["PROCNT"].Quantity / perServing,
				Carbs:    r.TotalNutrients["CHOCDF"].Quantity / perServing,
				Fat:      r.TotalNutrients["FAT"].Quantity / perServing,
			},
			Tags:       tags[:min(len(tags), edamamMaxTags)],
			SourceAPI:  "edamam",
			SourceURL:  r.URL,
			Difficulty: defaultDifficulty,
			MealTypes:  mealTypes,
		})
	}
	s.logger.LogAttrs(ctx, slog.LevelDebug, "edamam search",
		slog.String("query", query.Get("q")), slog.Int("results", len(recipes)))
	return recipes, nil
}

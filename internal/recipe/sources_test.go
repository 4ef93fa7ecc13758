package recipe_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/myrjola/pfaplan/internal/errors"
	"github.com/myrjola/pfaplan/internal/recipe"
	"github.com/myrjola/pfaplan/internal/testhelpers"
)

func serve(t *testing.T, handler http.HandlerFunc) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return srv
}

func writeJSON(t *testing.T, w http.ResponseWriter, v any) {
	t.Helper()
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		t.Errorf("encode response: %v", err)
	}
}

func mealDBHandler(t *testing.T) http.HandlerFunc {
	t.Helper()
	meals := map[string]map[string]any{
		"52772": {
			"idMeal":          "52772",
			"strMeal":         "Teriyaki Chicken Casserole",
			"strCategory":     "Chicken",
			"strArea":         "Japanese",
			"strInstructions": "Preheat oven. Mix the sauce.  Bake for 30 minutes.",
			"strIngredient1":  "soy sauce",
			"strMeasure1":     "3/4 cup",
			"strIngredient2":  "chicken breasts",
			"strMeasure2":     "2",
			"strIngredient3":  "brown rice",
			"strMeasure3":     " ",
			"strIngredient4":  "",
			"strIngredient5":  nil,
		},
		"52893": {
			"idMeal":          "52893",
			"strMeal":         "Chicken Pot Pie",
			"strCategory":     "Chicken",
			"strArea":         "British",
			"strInstructions": "Bake.",
			"strIngredient1":  "chicken",
			"strMeasure1":     "1",
		},
	}
	return func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/filter.php":
			if r.URL.Query().Get("i") != "chicken" {
				writeJSON(t, w, map[string]any{"meals": nil})
				return
			}
			writeJSON(t, w, map[string]any{"meals": []map[string]any{{"idMeal": "52772"}, {"idMeal": "52893"}}})
		case "/lookup.php":
			meal, ok := meals[r.URL.Query().Get("i")]
			if !ok {
				writeJSON(t, w, map[string]any{"meals": nil})
				return
			}
			writeJSON(t, w, map[string]any{"meals": []map[string]any{meal}})
		default:
			http.NotFound(w, r)
		}
	}
}

func TestTheMealDB(t *testing.T) {
	srv := serve(t, mealDBHandler(t))
	logger := testhelpers.NewLogger(testhelpers.NewWriter(t))
	source := recipe.NewTheMealDB(srv.URL, srv.Client(), 0, logger)

	got, err := source.Search(t.Context(), []string{"Chicken (grilled)", "Kale"}, nil)
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("Search() = %d recipes, want 2", len(got))
	}

	want := recipe.Recipe{
		ID:           "themealdb_52772",
		Name:         "Teriyaki Chicken Casserole",
		Ingredients:  []string{"3/4 cup soy sauce", "2 chicken breasts", "brown rice"},
		Instructions: []string{"Preheat oven", "Mix the sauce", "Bake for 30 minutes"},
		PrepTime:     15,
		CookTime:     30,
		TotalTime:    45,
		Servings:     4,
		Nutrition:    recipe.Nutrition{Calories: 330, Protein: 25, Carbs: 30, Fat: 9},
		Tags:         []string{"Chicken", "Japanese"},
		SourceAPI:    "themealdb",
		SourceURL:    "https://www.themealdb.com/meal/52772",
		Difficulty:   "medium",
		MealTypes:    []string{"lunch", "dinner"},
	}
	if diff := cmp.Diff(want, got[0]); diff != "" {
		t.Errorf("recipe mismatch (-want +got):\n%s", diff)
	}

	filtered, err := source.Search(t.Context(), []string{"chicken"}, []string{"high-protein"})
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}
	if len(filtered) != 1 || filtered[0].Name != "Teriyaki Chicken Casserole" {
		t.Errorf("dietary filters kept %v, want the pot pie skipped", filtered)
	}
}

func TestTheMealDBFailure(t *testing.T) {
	srv := serve(t, func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "down", http.StatusServiceUnavailable)
	})
	source := recipe.NewTheMealDB(srv.URL, srv.Client(), 0, testhelpers.NewLogger(testhelpers.NewWriter(t)))

	if _, err := source.Search(t.Context(), []string{"chicken", "rice"}, nil); !errors.Is(err, recipe.ErrSourceFailed) {
		t.Errorf("Search() error = %v, want ErrSourceFailed", err)
	}
}

func TestRateLimit(t *testing.T) {
	srv := serve(t, mealDBHandler(t))
	interval := 50 * time.Millisecond
	source := recipe.NewTheMealDB(srv.URL, srv.Client(), interval, testhelpers.NewLogger(testhelpers.NewWriter(t)))

	start := time.Now()
	// One filter request and two lookups.
	if _, err := source.Search(t.Context(), []string{"chicken"}, nil); err != nil {
		t.Fatalf("Search() error = %v", err)
	}
	if elapsed := time.Since(start); elapsed < 2*interval-10*time.Millisecond {
		t.Errorf("three requests took %v, want at least %v", elapsed, 2*interval)
	}
}

func TestEdamam(t *testing.T) {
	srv := serve(t, func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		if r.URL.Path != "/api/recipes/v2" || q.Get("app_id") != "id" || q.Get("app_key") != "key" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}
		if got, want := q.Get("q"), "chicken rice broccoli"; got != want {
			t.Errorf("q = %q, want %q", got, want)
		}
		if got := q.Get("diet"); got != "vegetarian" {
			t.Errorf("diet = %q, want vegetarian", got)
		}
		writeJSON(t, w, map[string]any{"hits": []map[string]any{{"recipe": map[string]any{
			"uri":             "http://www.edamam.com/ontologies/edamam.owl#recipe_abc",
			"label":           "Chicken Rice Bowl",
			"url":             "https://example.com/bowl",
			"ingredientLines": []string{"1 cup rice", "200g chicken"},
			"totalTime":       25,
			"yield":           2,
			"calories":        1200,
			"totalNutrients": map[string]any{
				"PROCNT": map[string]any{"quantity": 90},
				"CHOCDF": map[string]any{"quantity": 120},
				"FAT":    map[string]any{"quantity": 30},
			},
			"mealType":     []string{"lunch/dinner", "Breakfast"},
			"healthLabels": []string{"Dairy-Free"},
			"cuisineType":  []string{"asian"},
		}}}})
	})

	logger := testhelpers.NewLogger(testhelpers.NewWriter(t))
	source := recipe.NewEdamam(srv.URL, "id", "key", srv.Client(), 0, logger)
	got, err := source.Search(t.Context(), []string{"chicken", "rice", "broccoli", "garlic"},
		[]string{"vegetarian", "high-protein"})
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}
	want := []recipe.Recipe{{
		ID:           "edamam_recipe_abc",
		Name:         "Chicken Rice Bowl",
		Ingredients:  []string{"1 cup rice", "200g chicken"},
		Instructions: []string{"See source URL for detailed instructions"},
		PrepTime:     25,
		TotalTime:    25,
		Servings:     2,
		Nutrition:    recipe.Nutrition{Calories: 600, Protein: 45, Carbs: 60, Fat: 15},
		Tags:         []string{"Dairy-Free", "asian"},
		SourceAPI:    "edamam",
		SourceURL:    "https://example.com/bowl",
		Difficulty:   "medium",
		MealTypes:    []string{"breakfast"},
	}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Search() mismatch (-want +got):\n%s", diff)
	}

	bad := recipe.NewEdamam(srv.URL, "id", "wrong", srv.Client(), 0, logger)
	if _, err = bad.Search(t.Context(), []string{"chicken"}, nil); !errors.Is(err, recipe.ErrSourceFailed) {
		t.Errorf("Search() error = %v, want ErrSourceFailed", err)
	}
}

func TestSpoonacular(t *testing.T) {
	srv := serve(t, func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		if q.Get("apiKey") != "secret" {
			http.Error(w, "payment required", http.StatusPaymentRequired)
			return
		}
		if got, want := q.Get("includeIngredients"), "oats,yogurt"; got != want {
			t.Errorf("includeIngredients = %q, want %q", got, want)
		}
		if q.Get("minProtein") != "20" || q.Get("diet") != "vegan" {
			t.Errorf("filters = %v, want minProtein 20 and diet vegan", q)
		}
		writeJSON(t, w, map[string]any{"results": []map[string]any{{
			"id":                 42,
			"title":              "Overnight Oats",
			"sourceUrl":          "https://example.com/oats",
			"preparationMinutes": -1,
			"readyInMinutes":     10,
			"servings":           1,
			"dishTypes":          []string{"breakfast", "morning meal"},
			"nutrition": map[string]any{"nutrients": []map[string]any{
				{"name": "Calories", "amount": 420},
				{"name": "Saturated Fat", "amount": 2},
				{"name": "Fat", "amount": 9},
				{"name": "Carbohydrates", "amount": 60},
				{"name": "Protein", "amount": 24},
			}},
			"extendedIngredients":  []map[string]any{{"original": "1/2 cup oats"}, {"name": "yogurt"}},
			"analyzedInstructions": []map[string]any{{"steps": []map[string]any{{"step": "Mix."}, {"step": "Chill."}}}},
		}}})
	})

	logger := testhelpers.NewLogger(testhelpers.NewWriter(t))
	source := recipe.NewSpoonacular(srv.URL, "secret", srv.Client(), 0, logger)
	got, err := source.Search(t.Context(), []string{"oats", "yogurt"}, []string{"high-protein", "vegan"})
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}
	want := []recipe.Recipe{{
		ID:           "spoonacular_42",
		Name:         "Overnight Oats",
		Ingredients:  []string{"1/2 cup oats", "yogurt"},
		Instructions: []string{"Mix.", "Chill."},
		PrepTime:     15,
		CookTime:     15,
		TotalTime:    10,
		Servings:     1,
		Nutrition:    recipe.Nutrition{Calories: 420, Protein: 24, Carbs: 60, Fat: 9},
		Tags:         []string{"breakfast", "morning meal"},
		SourceAPI:    "spoonacular",
		SourceURL:    "https://example.com/oats",
		Difficulty:   "medium",
		MealTypes:    []string{"breakfast"},
	}}
	if diff := cmp.Diff(want, got, cmpopts.EquateEmpty()); diff != "" {
		t.Errorf("Search() mismatch (-want +got):\n%s", diff)
	}

	unpaid := recipe.NewSpoonacular(srv.URL, "other", srv.Client(), 0, logger)
	if _, err = unpaid.Search(t.Context(), []string{"oats"}, nil); !errors.Is(err, recipe.ErrSourceFailed) {
		t.Errorf("Search() error = %v, want ErrSourceFailed", err)
	}
}

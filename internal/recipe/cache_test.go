package recipe_test

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/myrjola/pfaplan/internal/recipe"
	"github.com/myrjola/pfaplan/internal/sqlite"
	"github.com/myrjola/pfaplan/internal/testhelpers"
)

type fakeClock struct{ now time.Time }

func (c *fakeClock) Now() time.Time { return c.now }

func TestCaches(t *testing.T) {
	ctx := t.Context()
	logger := testhelpers.NewLogger(testhelpers.NewWriter(t))

	db, err := sqlite.NewDatabase(ctx, ":memory:", logger)
	if err != nil {
		t.Fatalf("NewDatabase() error = %v", err)
	}
	t.Cleanup(func() {
		if err = db.Close(); err != nil {
			t.Errorf("Close() error = %v", err)
		}
	})

	ttl := time.Hour
	clk := &fakeClock{now: time.Date(2026, 3, 2, 8, 0, 0, 0, time.UTC)}
	caches := map[string]recipe.Cache{
		"memory": recipe.NewMemoryCache(ttl).WithClock(clk.Now),
		"sqlite": recipe.NewSQLiteCache(db, ttl).WithClock(clk.Now),
	}
	stored := []recipe.Recipe{{
		ID:          "themealdb_1",
		Name:        "Chicken Bowl",
		Ingredients: []string{"chicken", "rice"},
		Servings:    2,
		Nutrition:   recipe.Nutrition{Calories: 500, Protein: 40, Carbs: 50, Fat: 12},
		MealTypes:   []string{"lunch", "dinner"},
	}}

	for name, cache := range caches {
		t.Run(name, func(t *testing.T) {
			start := clk.now
			t.Cleanup(func() { clk.now = start })
			key := "lunch|" + name

			if _, ok, getErr := cache.Get(ctx, key); getErr != nil || ok {
				t.Fatalf("Get() before Put = %v, %v, want miss", ok, getErr)
			}
			if err := cache.Put(ctx, key, stored); err != nil {
				t.Fatalf("Put() error = %v", err)
			}

			clk.now = start.Add(ttl)
			got, ok, err := cache.Get(ctx, key)
			if err != nil || !ok {
				t.Fatalf("Get() at the TTL = %v, %v, want hit", ok, err)
			}
			if diff := cmp.Diff(stored, got); diff != "" {
				t.Errorf("Get() mismatch (-want +got):\n%s", diff)
			}

			clk.now = start.Add(ttl + time.Second)
			if _, ok, err = cache.Get(ctx, key); err != nil || ok {
				t.Errorf("Get() after the TTL = %v, %v, want miss", ok, err)
			}
		})
	}
}

func TestSQLiteCachePurge(t *testing.T) {
	ctx := t.Context()
	db, err := sqlite.NewDatabase(ctx, ":memory:", testhelpers.NewLogger(testhelpers.NewWriter(t)))
	if err != nil {
		t.Fatalf("NewDatabase() error = %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	clk := &fakeClock{now: time.Date(2026, 3, 2, 8, 0, 0, 0, time.UTC)}
	cache := recipe.NewSQLiteCache(db, time.Hour).WithClock(clk.Now)

	if err = cache.Put(ctx, "old", nil); err != nil {
		t.Fatalf("Put() error = %v", err)
	}
	clk.now = clk.now.Add(2 * time.Hour)
	if err = cache.Put(ctx, "fresh", []recipe.Recipe{{Name: "Oat Bowl"}}); err != nil {
		t.Fatalf("Put() error = %v", err)
	}

	n, err := cache.Purge(ctx)
	if err != nil {
		t.Fatalf("Purge() error = %v", err)
	}
	if n != 1 {
		t.Errorf("Purge() = %d, want 1", n)
	}
	if _, ok, _ := cache.Get(ctx, "fresh"); !ok {
		t.Error("fresh entry was purged")
	}
}

func TestMemoryCacheCopies(t *testing.T) {
	ctx := t.Context()
	cache := recipe.NewMemoryCache(time.Hour)
	input := []recipe.Recipe{{Name: "Oat Bowl"}}
	if err := cache.Put(ctx, "k", input); err != nil {
		t.Fatalf("Put() error = %v", err)
	}
	input[0].Name = "changed"

	got, _, _ := cache.Get(ctx, "k")
	if got[0].Name != "Oat Bowl" {
		t.Errorf("cached name = %q, want the value at Put time", got[0].Name)
	}
}

package plan

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"path/filepath"
	"time"

	"github.com/myrjola/pfaplan/internal/calendar"
	"github.com/myrjola/pfaplan/internal/config"
	"github.com/myrjola/pfaplan/internal/errors"
	"github.com/myrjola/pfaplan/internal/fitness"
	"github.com/myrjola/pfaplan/internal/logging"
	"github.com/myrjola/pfaplan/internal/meal"
	"github.com/myrjola/pfaplan/internal/nutrition"
	"github.com/myrjola/pfaplan/internal/recipe"
	"github.com/myrjola/pfaplan/internal/sqlite"
	"github.com/myrjola/pfaplan/internal/supplement"
	"github.com/myrjola/pfaplan/internal/workout"
)

// seedSalt decorrelates the two PCG words derived from one seed.
const seedSalt = 0x9e3779b97f4a7c15

// Options tune a Service beyond the plan configuration.
type Options struct {
	// Seed makes meal selection reproducible. Zero picks a random seed.
	Seed uint64
	// RecipeCache is the SQLite database for fetched recipes. Empty keeps recipes in memory for one run.
	RecipeCache string
	// OutputDir overrides calendar.output_dir when set.
	OutputDir string
}

// Service generates plans from a validated configuration.
type Service struct {
	logger *slog.Logger
	cfg    *config.Config
	opts   Options
}

func NewService(logger *slog.Logger, cfg *config.Config, opts Options) *Service {
	if opts.Seed == 0 {
		opts.Seed = rand.Uint64() //nolint:gosec // meal variety, not security
	}
	return &Service{logger: logger, cfg: cfg, opts: opts}
}

// CalendarDir is where calendar files are written.
func (s *Service) CalendarDir() string {
	if s.opts.OutputDir != "" {
		return s.opts.OutputDir
	}
	return s.cfg.Calendar.OutputDir
}

// ReportDir is the parent of the calendar directory. Reports and meal plans go below it.
func (s *Service) ReportDir() string {
	return filepath.Dir(filepath.Clean(s.CalendarDir()))
}

// Generate runs every planner. Fitness and schedule errors abort generation; recipe source failures only reduce
// the plan to component meals.
func (s *Service) Generate(ctx context.Context) (*Plan, error) {
	start := time.Now()
	cfg := s.cfg
	weeks := cfg.Timeline.Weeks
	ctx = logging.WithAttrs(ctx, slog.Int("weeks", weeks))

	calc, err := fitness.NewCalculator(ctx, s.logger, cfg.Fitness, weeks, cfg.Timeline.BufferWeeks)
	if err != nil {
		return nil, errors.Wrap(err, "calculate fitness progression")
	}
	engine, err := workout.NewEngine(s.logger, cfg.Training, cfg.Progression, calc)
	if err != nil {
		return nil, errors.Wrap(err, "create workout engine")
	}
	program, err := engine.GenerateProgram(ctx, weeks)
	if err != nil {
		return nil, errors.Wrap(err, "generate workout program")
	}
	dayTimes, err := engine.DayTimes()
	if err != nil {
		return nil, errors.Wrap(err, "resolve workout times")
	}

	scheduler, err := supplement.NewScheduler(cfg.Supplements)
	if err != nil {
		return nil, errors.Wrap(err, "create supplement scheduler")
	}

	p := &Plan{
		Config:          cfg,
		Fitness:         calc.Report(),
		Program:         program,
		Balance:         engine.Balance(program),
		Supplements:     scheduler.WeeklySchedule(dayTimes),
		SupplementCosts: scheduler.MonthlyCosts(nil),
		Advisories:      cfg.Advisories(),
	}

	np := nutrition.NewPlanner(cfg.Nutrition)
	p.DailyMacros = np.MacroGrams()
	rng := rand.New(rand.NewPCG(s.opts.Seed, s.opts.Seed^seedSalt)) //nolint:gosec // meal variety, not security

	if db := cfg.Nutrition.MealDatabase; db != nil {
		source, closeSource, err := s.recipeSource(ctx)
		if err != nil {
			return nil, err
		}
		defer closeSource()

		planner := meal.NewPlanner(s.logger, meal.NewGenerator(s.logger, db, rng), source, cfg.Recipes)
		for week := range weeks {
			if err = ctx.Err(); err != nil {
				return nil, fmt.Errorf("plan meals: %w", err)
			}
			p.Meals.Weekly = append(p.Meals.Weekly, planner.WeeklyPlan(ctx, week+1))
		}
		p.MealEntries = weeklyEntries(p.Meals.Weekly, dailySchedules(np, dayTimes))
	} else {
		for week := range weeks {
			p.Meals.Legacy = append(p.Meals.Legacy, np.WeeklyPlan(ctx, s.logger, week+1, rng))
		}
		p.MealEntries = legacyEntries(p.Meals.Legacy)
	}

	s.logger.LogAttrs(ctx, slog.LevelInfo, "generated plan",
		slog.Uint64("seed", s.opts.Seed),
		slog.Int("meal_events", len(p.MealEntries)),
		slog.Int("recommendations", len(p.Balance.Recommendations)),
		slog.Duration("duration", time.Since(start)))
	return p, nil
}

// recipeSource returns nil when recipes are disabled. The returned func releases the cache database.
func (s *Service) recipeSource(ctx context.Context) (meal.RecipeSource, func(), error) {
	noop := func() {}
	cfg := s.cfg.Recipes
	if !cfg.Enabled() {
		return nil, noop, nil
	}

	if s.opts.RecipeCache == "" {
		return recipe.NewClientFromConfig(ctx, s.logger, cfg, recipe.NewMemoryCache(cfg.CacheTTL)), noop, nil
	}

	db, err := sqlite.NewDatabase(ctx, s.opts.RecipeCache, s.logger)
	if err != nil {
		return nil, noop, errors.Wrap(err, "open recipe cache", slog.String("path", s.opts.RecipeCache))
	}
	cache := recipe.NewSQLiteCache(db, cfg.CacheTTL)
	purged, err := cache.Purge(ctx)
	if err != nil {
		s.logger.LogAttrs(ctx, slog.LevelWarn, "purge recipe cache", errors.SlogError(err))
	} else if purged > 0 {
		s.logger.LogAttrs(ctx, slog.LevelDebug, "purged stale recipes", slog.Int64("rows", purged))
	}
	closeDB := func() {
		if cerr := db.Close(); cerr != nil {
			s.logger.LogAttrs(ctx, slog.LevelWarn, "close recipe cache", errors.SlogError(cerr))
		}
	}
	return recipe.NewClientFromConfig(ctx, s.logger, cfg, cache), closeDB, nil
}

// ExportCalendars writes the workout, meal and supplement calendars of p into CalendarDir.
func (s *Service) ExportCalendars(ctx context.Context, p *Plan) (map[string]string, error) {
	exporter := calendar.NewExporter(ctx, s.logger, s.cfg.Calendar, p.StartDate())
	files, err := exporter.Export(ctx, s.CalendarDir(), calendar.Streams{
		Program:     p.Program,
		Meals:       p.MealEntries,
		Supplements: p.Supplements,
		Weeks:       p.Weeks(),
	})
	if err != nil {
		return nil, errors.Wrap(err, "export calendars", slog.String("dir", s.CalendarDir()))
	}
	return files, nil
}

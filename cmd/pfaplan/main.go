package main

import (
	"context"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"os/signal"
	_ "time/tzdata"

	"github.com/joho/godotenv"
	"github.com/myrjola/pfaplan/internal/envstruct"
	"github.com/myrjola/pfaplan/internal/errors"
	"github.com/myrjola/pfaplan/internal/logging"
)

type settings struct {
	// LogLevel is one of debug, info, warn and error.
	LogLevel string `env:"PFAPLAN_LOG_LEVEL" envDefault:"info"`
	// RecipeCache is the SQLite file caching fetched recipes. Empty keeps the cache in memory.
	RecipeCache string `env:"PFAPLAN_RECIPE_CACHE" envDefault:""`
	// OutputDir overrides calendar.output_dir of the plan configuration.
	OutputDir string `env:"PFAPLAN_OUTPUT_DIR" envDefault:""`
	// Seed makes meal selection reproducible. Zero picks a random seed.
	Seed uint64 `env:"PFAPLAN_SEED" envDefault:"0"`
}

// withDotenv returns a lookup that falls back to the variables in the dotenv file at path. A missing file is not
// an error. Variables of the process environment win.
func withDotenv(path string, lookupEnv func(string) (string, bool)) (func(string) (string, bool), error) {
	if path == "" {
		return lookupEnv, nil
	}
	vars, err := godotenv.Read(path)
	if errors.Is(err, fs.ErrNotExist) {
		return lookupEnv, nil
	}
	if err != nil {
		return nil, errors.Wrap(err, "read dotenv", slog.String("path", path))
	}
	return func(key string) (string, bool) {
		if v, ok := lookupEnv(key); ok {
			return v, true
		}
		v, ok := vars[key]
		return v, ok
	}, nil
}

func run(
	ctx context.Context,
	logger *slog.Logger,
	level *slog.LevelVar,
	lookupEnv func(string) (string, bool),
	args []string,
	stdout io.Writer,
) error {
	ctx, cancel := signal.NotifyContext(ctx, os.Interrupt)
	defer cancel()

	c := &cli{logger: logger, level: level, lookupEnv: lookupEnv, stdout: stdout}
	root := c.rootCommand()
	root.SetArgs(args)
	root.SetOut(stdout)
	root.SetErr(stdout)
	if err := root.ExecuteContext(ctx); err != nil {
		return errors.Wrap(err, "pfaplan")
	}
	return nil
}

func (c *cli) loadSettings() error {
	lookup, err := withDotenv(c.envFile, c.lookupEnv)
	if err != nil {
		return err
	}
	c.lookupEnv = lookup
	if err = envstruct.Populate(&c.settings, lookup); err != nil {
		return errors.Wrap(err, "populate settings")
	}
	lvl, err := logging.ParseLevel(c.settings.LogLevel)
	if err != nil {
		return errors.Wrap(err, "parse log level", slog.String("level", c.settings.LogLevel))
	}
	c.level.Set(lvl)
	return nil
}

func main() {
	ctx := context.Background()
	level := new(slog.LevelVar)
	logger := slog.New(logging.NewContextHandler(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		AddSource:   false,
		Level:       level,
		ReplaceAttr: nil,
	})))
	if err := run(ctx, logger, level, os.LookupEnv, os.Args[1:], os.Stdout); err != nil {
		logger.LogAttrs(ctx, slog.LevelError, "failure running pfaplan", errors.SlogError(err))
		os.Exit(1)
	}
}

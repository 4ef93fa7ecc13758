package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"

	"github.com/myrjola/pfaplan/internal/errors"
	"gopkg.in/yaml.v3"
)

const mealDatabaseFile = "meal_database.yml"

//nolint:gochecknoglobals // compiled once
var envRef = regexp.MustCompile(`\$\{([^}]+)\}`)

// Load reads the YAML configuration at path, substitutes ${VAR} references using lookupEnv, merges the meal database
// and validates the result.
//
// When the configuration has no inline meal database, meal_database.yml is looked up next to the file, one directory
// up, and in configs/ two directories up. Unknown ${VAR} references are left verbatim.
func Load(path string, lookupEnv func(string) (string, bool)) (*Config, error) {
	var cfg Config
	if err := decodeFile(path, lookupEnv, &cfg); err != nil {
		return nil, err
	}

	if cfg.Nutrition.MealDatabase == nil {
		dbPath, ok := findMealDatabase(path)
		if ok {
			var db MealDatabase
			if err := decodeFile(dbPath, lookupEnv, &db); err != nil {
				return nil, err
			}
			cfg.Nutrition.MealDatabase = &db
		}
	}
	if db := cfg.Nutrition.MealDatabase; db != nil && cfg.Nutrition.MealGeneration != nil {
		db.Generation = cfg.Nutrition.MealGeneration
	}

	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "validate", slog.String("path", path))
	}
	return &cfg, nil
}

func decodeFile(path string, lookupEnv func(string) (string, bool), v any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return errors.Wrap(err, "read config", slog.String("path", path))
	}
	var root yaml.Node
	if err = yaml.Unmarshal(data, &root); err != nil {
		return errors.Wrap(err, "parse yaml", slog.String("path", path))
	}
	substituteEnv(&root, lookupEnv)
	if err = root.Decode(v); err != nil {
		return errors.Wrap(err, "decode yaml", slog.String("path", path))
	}
	return nil
}

// substituteEnv rewrites ${VAR} references in every scalar below node.
func substituteEnv(node *yaml.Node, lookupEnv func(string) (string, bool)) {
	if node.Kind == yaml.ScalarNode && envRef.MatchString(node.Value) {
		node.Value = envRef.ReplaceAllStringFunc(node.Value, func(ref string) string {
			name := envRef.FindStringSubmatch(ref)[1]
			if v, ok := lookupEnv(name); ok {
				return v
			}
			return ref
		})
		if node.Style == 0 {
			// Let plain scalars resolve again so that "${WEEKS}" can become an int.
			node.Tag = ""
		}
	}
	for _, child := range node.Content {
		substituteEnv(child, lookupEnv)
	}
}

func findMealDatabase(configPath string) (string, bool) {
	dir := filepath.Dir(configPath)
	candidates := []string{
		filepath.Join(dir, mealDatabaseFile),
		filepath.Join(filepath.Dir(dir), mealDatabaseFile),
		filepath.Join(filepath.Dir(filepath.Dir(dir)), "configs", mealDatabaseFile),
	}
	for _, candidate := range candidates {
		if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
			return candidate, true
		}
	}
	return "", false
}

// WriteTemplate writes the default configuration to path.
func WriteTemplate(path string) error {
	data, err := yaml.Marshal(Default())
	if err != nil {
		return fmt.Errorf("marshal default config: %w", err)
	}
	if err = os.MkdirAll(filepath.Dir(path), 0o755); err != nil { //nolint:mnd,gosec // user readable directory
		return fmt.Errorf("create template directory: %w", err)
	}
	if err = os.WriteFile(path, data, 0o644); err != nil { //nolint:mnd,gosec // user readable file
		return fmt.Errorf("write template: %w", err)
	}
	return nil
}

package main

import (
	"bytes"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/myrjola/pfaplan/internal/config"
	"github.com/myrjola/pfaplan/internal/errors"
	"github.com/myrjola/pfaplan/internal/testhelpers"
	"gopkg.in/yaml.v3"
)

func lookup(vars map[string]string) func(string) (string, bool) {
	return func(key string) (string, bool) {
		v, ok := vars[key]
		return v, ok
	}
}

func runCLI(t *testing.T, env map[string]string, args ...string) (string, error) {
	t.Helper()
	var stdout bytes.Buffer
	logger := testhelpers.NewLogger(testhelpers.NewWriter(t))
	err := run(t.Context(), logger, new(slog.LevelVar), lookup(env), args, &stdout)
	return stdout.String(), err
}

func TestTemplateValidateGenerate(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "configs", "plan.yml")
	noDotenv := "--env-file=" + filepath.Join(dir, "missing.env")

	out, err := runCLI(t, nil, "template", cfgPath, noDotenv)
	if err != nil {
		t.Fatalf("template error = %v", err)
	}
	if !strings.Contains(out, cfgPath) {
		t.Errorf("template output %q does not mention %s", out, cfgPath)
	}

	out, err = runCLI(t, nil, "validate", cfgPath, noDotenv)
	if err != nil {
		t.Fatalf("validate error = %v", err)
	}
	if !strings.Contains(out, "Configuration is valid") {
		t.Errorf("validate output = %q", out)
	}

	outDir := filepath.Join(dir, "output", "calendars")
	env := map[string]string{"PFAPLAN_OUTPUT_DIR": outDir, "PFAPLAN_LOG_LEVEL": "debug"}
	out, err = runCLI(t, env, "generate", cfgPath, "--seed=9", noDotenv)
	if err != nil {
		t.Fatalf("generate error = %v", err)
	}
	for _, name := range []string{
		"calendars/PFA_Complete_Plan.ics",
		"calendars/PFA_Workouts.ics",
		"progress_reports/fitness_progression.yaml",
		"progress_reports/program_validation.yaml",
		"progress_reports/summary.html",
		"meal_plans/weekly_meal_plans.yaml",
	} {
		if _, err = os.Stat(filepath.Join(dir, "output", filepath.FromSlash(name))); err != nil {
			t.Errorf("missing %s: %v", name, err)
		}
	}
	if !strings.Contains(out, "PFA_Complete_Plan.ics") {
		t.Errorf("generate output does not name the combined calendar:\n%s", out)
	}
}

func writeConfig(t *testing.T, cfg *config.Config) string {
	t.Helper()
	data, err := yaml.Marshal(cfg)
	if err != nil {
		t.Fatalf("marshal config: %v", err)
	}
	path := filepath.Join(t.TempDir(), "plan.yml")
	if err = os.WriteFile(path, data, 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestGenerateBlockedByAdvisories(t *testing.T) {
	cfg := config.Default()
	cfg.Nutrition.CalorieGoals.Target = 1000
	path := writeConfig(t, cfg)
	outDir := filepath.Join(t.TempDir(), "calendars")
	env := map[string]string{"PFAPLAN_OUTPUT_DIR": outDir}

	out, err := runCLI(t, env, "validate", path, "--env-file=")
	if err != nil {
		t.Fatalf("validate error = %v", err)
	}
	if !strings.Contains(out, "Daily calorie target seems too low") {
		t.Errorf("validate output = %q, want calorie advisory", out)
	}

	_, err = runCLI(t, env, "generate", path, "--env-file=")
	if !errors.Is(err, ErrAdvisories) {
		t.Fatalf("generate error = %v, want ErrAdvisories", err)
	}
	if _, err = os.Stat(outDir); err == nil {
		t.Error("calendars written despite advisories")
	}
}

func TestValidateRejectsInvalidConfig(t *testing.T) {
	cfg := config.Default()
	cfg.Nutrition.Macros.Protein = 90
	path := writeConfig(t, cfg)

	_, err := runCLI(t, nil, "validate", path, "--env-file=")
	if !errors.Is(err, config.ErrInvalid) {
		t.Fatalf("validate error = %v, want config.ErrInvalid", err)
	}
}

func TestDotenv(t *testing.T) {
	dir := t.TempDir()
	envFile := filepath.Join(dir, ".env")
	if err := os.WriteFile(envFile, []byte("PFAPLAN_LOG_LEVEL=warn\nPFAPLAN_SEED=12\n"), 0o600); err != nil {
		t.Fatalf("write dotenv: %v", err)
	}

	lookupEnv, err := withDotenv(envFile, lookup(map[string]string{"PFAPLAN_LOG_LEVEL": "debug"}))
	if err != nil {
		t.Fatalf("withDotenv() error = %v", err)
	}
	if v, _ := lookupEnv("PFAPLAN_LOG_LEVEL"); v != "debug" {
		t.Errorf("PFAPLAN_LOG_LEVEL = %q, want process environment to win", v)
	}
	if v, _ := lookupEnv("PFAPLAN_SEED"); v != "12" {
		t.Errorf("PFAPLAN_SEED = %q, want 12 from dotenv", v)
	}
	if _, ok := lookupEnv("PFAPLAN_OUTPUT_DIR"); ok {
		t.Error("PFAPLAN_OUTPUT_DIR unexpectedly set")
	}

	if _, err = withDotenv(filepath.Join(dir, "nope.env"), lookup(nil)); err != nil {
		t.Errorf("missing dotenv error = %v, want nil", err)
	}
}

func TestUnknownLogLevel(t *testing.T) {
	_, err := runCLI(t, map[string]string{"PFAPLAN_LOG_LEVEL": "loud"}, "template", filepath.Join(t.TempDir(), "x.yml"),
		"--env-file=")
	if err == nil {
		t.Fatal("expected error for unknown log level")
	}
}

// Package report writes the YAML reports and the HTML summary of a generated plan.
package report

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/myrjola/pfaplan/internal/errors"
	"github.com/myrjola/pfaplan/internal/plan"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"gopkg.in/yaml.v3"
)

// Paths relative to the report directory.
const (
	FitnessProgressionFile = "progress_reports/fitness_progression.yaml"
	ProgramValidationFile  = "progress_reports/program_validation.yaml"
	MealPlansFile          = "meal_plans/weekly_meal_plans.yaml"
	SummaryFile            = "progress_reports/summary.html"
)

// Files lists the written report paths.
type Files struct {
	FitnessProgression string
	ProgramValidation  string
	MealPlans          string
	Summary            string
}

// Writer writes reports below a root directory.
type Writer struct {
	logger *slog.Logger
	root   string
	md     goldmark.Markdown
}

func NewWriter(logger *slog.Logger, root string) *Writer {
	return &Writer{
		logger: logger,
		root:   root,
		md:     goldmark.New(goldmark.WithExtensions(extension.GFM)),
	}
}

// Write writes every report of p. calendars lists the exported calendar files for the summary.
func (w *Writer) Write(ctx context.Context, p *plan.Plan, calendars map[string]string) (Files, error) {
	var (
		files Files
		err   error
	)
	if files.FitnessProgression, err = w.writeYAML(ctx, FitnessProgressionFile, p.Fitness); err != nil {
		return Files{}, err
	}
	if files.ProgramValidation, err = w.writeYAML(ctx, ProgramValidationFile, p.Balance); err != nil {
		return Files{}, err
	}
	if files.MealPlans, err = w.writeYAML(ctx, MealPlansFile, p.Meals); err != nil {
		return Files{}, err
	}

	html, err := w.Summary(p, calendars)
	if err != nil {
		return Files{}, err
	}
	if files.Summary, err = w.write(ctx, SummaryFile, html); err != nil {
		return Files{}, err
	}
	return files, nil
}

func (w *Writer) writeYAML(ctx context.Context, rel string, v any) (string, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2) //nolint:mnd // conventional YAML indent
	if err := enc.Encode(v); err != nil {
		return "", errors.Wrap(err, "encode report", slog.String("file", rel))
	}
	if err := enc.Close(); err != nil {
		return "", errors.Wrap(err, "flush report", slog.String("file", rel))
	}
	return w.write(ctx, rel, buf.Bytes())
}

func (w *Writer) write(ctx context.Context, rel string, data []byte) (string, error) {
	path := filepath.Join(w.root, filepath.FromSlash(rel))
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil { //nolint:mnd // owner and group
		return "", fmt.Errorf("create report dir: %w", err)
	}
	if err := os.WriteFile(path, data, 0o600); err != nil { //nolint:mnd // owner only
		return "", fmt.Errorf("write %s: %w", path, err)
	}
	w.logger.LogAttrs(ctx, slog.LevelInfo, "wrote report", slog.String("path", path))
	return path, nil
}

package report_test

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/google/go-cmp/cmp"
	"github.com/myrjola/pfaplan/internal/config"
	"github.com/myrjola/pfaplan/internal/fitness"
	"github.com/myrjola/pfaplan/internal/plan"
	"github.com/myrjola/pfaplan/internal/report"
	"github.com/myrjola/pfaplan/internal/testhelpers"
	"gopkg.in/yaml.v3"
)

func generatePlan(t *testing.T) *plan.Plan {
	t.Helper()
	cfg := config.Default()
	cfg.Timeline.Weeks = 6
	cfg.Timeline.BufferWeeks = map[string]int{config.MetricRun: 2, config.MetricPushups: 1, config.MetricSitups: 1}
	svc := plan.NewService(testhelpers.NewLogger(testhelpers.NewWriter(t)), cfg, plan.Options{Seed: 11})
	p, err := svc.Generate(t.Context())
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	return p
}

func TestWrite(t *testing.T) {
	p := generatePlan(t)
	root := t.TempDir()
	w := report.NewWriter(testhelpers.NewLogger(testhelpers.NewWriter(t)), root)

	files, err := w.Write(t.Context(), p, map[string]string{"combined": "calendars/PFA_Complete_Plan.ics"})
	if err != nil {
		t.Fatalf("Write() error = %v", err)
	}
	want := report.Files{
		FitnessProgression: filepath.Join(root, "progress_reports", "fitness_progression.yaml"),
		ProgramValidation:  filepath.Join(root, "progress_reports", "program_validation.yaml"),
		MealPlans:          filepath.Join(root, "meal_plans", "weekly_meal_plans.yaml"),
		Summary:            filepath.Join(root, "progress_reports", "summary.html"),
	}
	if diff := cmp.Diff(want, files); diff != "" {
		t.Fatalf("Write() files mismatch (-want +got):\n%s", diff)
	}

	var progression fitness.Report
	readYAML(t, files.FitnessProgression, &progression)
	if diff := cmp.Diff(p.Fitness, progression); diff != "" {
		t.Errorf("fitness report round trip mismatch (-want +got):\n%s", diff)
	}

	var meals yaml.Node
	readYAML(t, files.MealPlans, &meals)
	mapping := meals.Content[0]
	var keys []string
	for i := 0; i < len(mapping.Content); i += 2 {
		keys = append(keys, mapping.Content[i].Value)
	}
	if diff := cmp.Diff([]string{"week_1", "week_2", "week_3", "week_4", "week_5", "week_6"}, keys); diff != "" {
		t.Errorf("meal plan weeks mismatch (-want +got):\n%s", diff)
	}

	var validation struct {
		ProgramWeeks    int   `yaml:"program_weeks"`
		AdaptationWeeks []int `yaml:"adaptation_weeks"`
	}
	readYAML(t, files.ProgramValidation, &validation)
	if validation.ProgramWeeks != 6 || !cmp.Equal(validation.AdaptationWeeks, []int{3}) {
		t.Errorf("program validation = %+v, want 6 weeks with deload week index 3", validation)
	}
}

func readYAML(t *testing.T, path string, v any) {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read %s: %v", path, err)
	}
	if err = yaml.Unmarshal(data, v); err != nil {
		t.Fatalf("unmarshal %s: %v", path, err)
	}
}

func TestSummary(t *testing.T) {
	p := generatePlan(t)
	w := report.NewWriter(testhelpers.NewLogger(testhelpers.NewWriter(t)), t.TempDir())

	html, err := w.Summary(p, map[string]string{
		"workout":  "out/PFA_Workouts.ics",
		"combined": "out/PFA_Complete_Plan.ics",
	})
	if err != nil {
		t.Fatalf("Summary() error = %v", err)
	}
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(html))
	if err != nil {
		t.Fatalf("parse summary: %v", err)
	}

	if got, want := doc.Find("title").Text(), "PFA Plan: 6 weeks"; got != want {
		t.Errorf("title = %q, want %q", got, want)
	}
	if got := doc.Find("main h1").Text(); got != "PFA Plan" {
		t.Errorf("h1 = %q, want PFA Plan", got)
	}

	var headings []string
	doc.Find("main h2").Each(func(_ int, s *goquery.Selection) {
		headings = append(headings, s.Text())
	})
	wantHeadings := []string{
		"Fitness goals", "Weekly targets", "Nutrition", "Supplements", "Program recommendations", "Calendars",
	}
	if diff := cmp.Diff(wantHeadings, headings); diff != "" {
		t.Errorf("headings mismatch (-want +got):\n%s", diff)
	}

	targets := doc.Find("table").Eq(1).Find("tbody tr")
	if got := targets.Length(); got != 6 {
		t.Fatalf("weekly targets has %d rows, want 6", got)
	}
	firstWeek := targets.First().Find("td")
	if got, want := firstWeek.Eq(1).Text(), p.Fitness.Progressions.RunTime[0]; got != want {
		t.Errorf("week 1 run target = %q, want %q", got, want)
	}
	if got := strings.TrimSpace(targets.Eq(3).Find("td").Last().Text()); got != "deload" {
		t.Errorf("week 4 load = %q, want deload", got)
	}

	var calendars []string
	doc.Find("main ul").Last().Find("li").Each(func(_ int, s *goquery.Selection) {
		calendars = append(calendars, s.Text())
	})
	wantCalendars := []string{"combined: out/PFA_Complete_Plan.ics", "workout: out/PFA_Workouts.ics"}
	if diff := cmp.Diff(wantCalendars, calendars); diff != "" {
		t.Errorf("calendar list mismatch (-want +got):\n%s", diff)
	}
}

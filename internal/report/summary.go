package report

import (
	"bytes"
	"fmt"
	"html/template"
	"maps"
	"slices"
	"strings"
	"time"

	"github.com/myrjola/pfaplan/internal/plan"
)

//nolint:gochecknoglobals // parsed once
var page = template.Must(template.New("summary").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>{{.Title}}</title>
</head>
<body>
<main>
{{.Body}}
</main>
</body>
</html>
`))

// Markdown renders the plan overview as GitHub flavored Markdown.
func Markdown(p *plan.Plan, calendars map[string]string) string {
	var sb strings.Builder
	cfg := p.Config
	f := cfg.Fitness

	fmt.Fprintf(&sb, "# PFA Plan\n\n**Timeline:** %d weeks starting %s\n\n",
		p.Weeks(), p.StartDate().Format(time.DateOnly))

	sb.WriteString("## Fitness goals\n\n")
	sb.WriteString("| Metric | Baseline | Goal | PFA standard |\n|---|---|---|---|\n")
	fmt.Fprintf(&sb, "| 1.5 mile run | %s | %s | %s |\n", f.Baseline.RunTime, f.Goals.RunTime, f.PFAStandards.RunTime)
	fmt.Fprintf(&sb, "| Push-ups | %d | %d | %d |\n", f.Baseline.Pushups, f.Goals.Pushups, f.PFAStandards.Pushups)
	fmt.Fprintf(&sb, "| Sit-ups | %d | %d | %d |\n\n", f.Baseline.Situps, f.Goals.Situps, f.PFAStandards.Situps)

	sb.WriteString("## Weekly targets\n\n")
	sb.WriteString("| Week | Run | Push-ups | Sit-ups | Load |\n|---|---|---|---|---|\n")
	prog := p.Fitness.Progressions
	for week := range prog.RunTime {
		load := "build"
		if slices.Contains(p.Balance.AdaptationWeeks, week) {
			load = "deload"
		}
		fmt.Fprintf(&sb, "| %d | %s | %d | %d | %s |\n",
			week+1, prog.RunTime[week], at(prog.Pushups, week), at(prog.Situps, week), load)
	}
	sb.WriteString("\n")

	fmt.Fprintf(&sb, "## Nutrition\n\n- Daily calories: %d\n- %s\n\n", cfg.Nutrition.CalorieGoals.Target, p.DailyMacros)

	if costs := p.SupplementCosts; len(costs.Items) > 0 {
		sb.WriteString("## Supplements\n\n| Supplement | Monthly cost |\n|---|---|\n")
		for _, item := range costs.Items {
			fmt.Fprintf(&sb, "| %s | $%.2f |\n", item.Name, item.Monthly)
		}
		fmt.Fprintf(&sb, "| **Total** | **$%.2f** |\n\n", costs.Total)
	}

	sb.WriteString("## Program recommendations\n\n")
	if len(p.Balance.Recommendations) == 0 {
		sb.WriteString("No intensity balance issues found.\n\n")
	}
	for _, r := range p.Balance.Recommendations {
		fmt.Fprintf(&sb, "- %s\n", r)
	}
	if len(p.Balance.Recommendations) > 0 {
		sb.WriteString("\n")
	}

	if len(p.Advisories) > 0 {
		sb.WriteString("## Advisories\n\n")
		for _, a := range p.Advisories {
			fmt.Fprintf(&sb, "- %s\n", a)
		}
		sb.WriteString("\n")
	}

	if len(calendars) > 0 {
		sb.WriteString("## Calendars\n\n")
		for _, key := range slices.Sorted(maps.Keys(calendars)) {
			fmt.Fprintf(&sb, "- %s: `%s`\n", key, calendars[key])
		}
	}
	return sb.String()
}

func at(values []int, i int) int {
	if i < len(values) {
		return values[i]
	}
	return 0
}

// Summary renders Markdown as a standalone HTML page.
func (w *Writer) Summary(p *plan.Plan, calendars map[string]string) ([]byte, error) {
	var body bytes.Buffer
	if err := w.md.Convert([]byte(Markdown(p, calendars)), &body); err != nil {
		return nil, fmt.Errorf("render markdown: %w", err)
	}
	var out bytes.Buffer
	if err := page.Execute(&out, struct {
		Title string
		Body  template.HTML
	}{
		Title: fmt.Sprintf("PFA Plan: %d weeks", p.Weeks()),
		Body:  template.HTML(body.String()), //nolint:gosec // goldmark escapes raw HTML in the source
	}); err != nil {
		return nil, fmt.Errorf("execute summary template: %w", err)
	}
	return out.Bytes(), nil
}

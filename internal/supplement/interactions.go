package supplement

import (
	"fmt"
	"strings"

	"github.com/myrjola/pfaplan/internal/clock"
)

// Rule forbids taking Substance within MinSeparationHours of any of AvoidWith. Matching is a case-insensitive
// substring test on supplement names.
type Rule struct {
	Substance          string
	AvoidWith          []string
	MinSeparationHours int
}

// DefaultRules are checked in this order.
var DefaultRules = []Rule{ //nolint:gochecknoglobals // constant table
	{Substance: "caffeine", AvoidWith: []string{"magnesium", "calcium"}, MinSeparationHours: 2},
	{Substance: "iron", AvoidWith: []string{"calcium", "zinc", "magnesium"}, MinSeparationHours: 2},
	{Substance: "calcium", AvoidWith: []string{"iron", "zinc", "magnesium"}, MinSeparationHours: 2},
	{Substance: "zinc", AvoidWith: []string{"calcium", "iron", "copper"}, MinSeparationHours: 2},
}

// Warning describes two entries taken too close together.
type Warning struct {
	Supplement1       string `yaml:"supplement1"`
	Supplement2       string `yaml:"supplement2"`
	Time1             string `yaml:"time1"`
	Time2             string `yaml:"time2"`
	Issue             string `yaml:"issue"`
	CurrentSeparation string `yaml:"current_separation"`
}

// CheckInteractions tests every ordered pair (earlier index first) against every rule. A pair matching several
// rules or avoid terms produces several warnings.
func (s *Scheduler) CheckInteractions(entries []Entry) []Warning {
	var warnings []Warning
	for i, first := range entries {
		name1 := strings.ToLower(first.Name)
		for _, second := range entries[i+1:] {
			name2 := strings.ToLower(second.Name)
			for _, rule := range s.rules {
				if !strings.Contains(name1, rule.Substance) {
					continue
				}
				for _, avoid := range rule.AvoidWith {
					if !strings.Contains(name2, avoid) {
						continue
					}
					diff := clock.Separation(first.Time, second.Time)
					if diff >= rule.MinSeparationHours*60 {
						continue
					}
					warnings = append(warnings, Warning{
						Supplement1:       first.Name,
						Supplement2:       second.Name,
						Time1:             first.Time.String(),
						Time2:             second.Time.String(),
						Issue:             fmt.Sprintf("Should be separated by at least %d hours", rule.MinSeparationHours),
						CurrentSeparation: fmt.Sprintf("%dh %dm", diff/60, diff%60),
					})
				}
			}
		}
	}
	return warnings
}

// OptimizeTiming returns a copy of entries where, for each warning, the first daily entry named like the warning's
// first supplement moves two hours later, wrapping past midnight. It runs a single pass and does not re-check.
func (s *Scheduler) OptimizeTiming(entries []Entry) []Entry {
	optimized := append([]Entry(nil), entries...)
	for _, w := range s.CheckInteractions(optimized) {
		for i := range optimized {
			if optimized[i].Name == w.Supplement1 && optimized[i].Kind == KindDaily {
				optimized[i].Time = optimized[i].Time.Add(120) //nolint:mnd // two hours
				break
			}
		}
	}
	return optimized
}

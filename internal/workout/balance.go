package workout

import (
	"context"
	"fmt"

	"github.com/myrjola/pfaplan/internal/clock"
)

// Balance thresholds in percent of the week.
const (
	maxHardPercent         = 30
	minEasyModeratePercent = 50
)

// Distribution is the share of days per intensity in percent of seven days.
type Distribution struct {
	Easy     float64 `yaml:"easy"`
	Moderate float64 `yaml:"moderate"`
	Tempo    float64 `yaml:"tempo,omitempty"`
	Hard     float64 `yaml:"hard"`
	Rest     float64 `yaml:"rest"`
}

// IntensityDistribution counts the intensities of the zero-based week.
func (e *Engine) IntensityDistribution(ctx context.Context, week int) (Distribution, error) {
	w, err := e.WeeklyWorkouts(ctx, week)
	if err != nil {
		return Distribution{}, err
	}
	return distribution(w), nil
}

func distribution(w Week) Distribution {
	counts := make(map[Intensity]int)
	for _, workout := range w.Workouts {
		counts[workout.Intensity]++
	}
	percent := func(i Intensity) float64 {
		return float64(counts[i]) / float64(len(clock.Week)) * 100 //nolint:mnd // percent
	}
	return Distribution{
		Easy:     percent(IntensityEasy),
		Moderate: percent(IntensityModerate),
		Tempo:    percent(IntensityTempo),
		Hard:     percent(IntensityHard),
		Rest:     percent(IntensityRest),
	}
}

// WeekDistribution pairs a one-based week number with its distribution.
type WeekDistribution struct {
	Week         int          `yaml:"week"`
	Distribution Distribution `yaml:"distribution"`
}

// BalanceReport is the program validation result.
type BalanceReport struct {
	ProgramWeeks                int                `yaml:"program_weeks"`
	WeeklyIntensityDistribution []WeekDistribution `yaml:"weekly_intensity_distribution"`
	AdaptationWeeks             []int              `yaml:"adaptation_weeks"`
	Recommendations             []string           `yaml:"recommendations"`
}

// ValidateBalance flags weeks with more than 30% hard days or less than 50% easy and moderate days.
func (e *Engine) ValidateBalance(ctx context.Context, weeks int) (BalanceReport, error) {
	program, err := e.GenerateProgram(ctx, weeks)
	if err != nil {
		return BalanceReport{}, err
	}
	return e.Balance(program), nil
}

// Balance computes the balance report of an already generated program.
func (e *Engine) Balance(program Program) BalanceReport {
	report := BalanceReport{
		ProgramWeeks:    program.TotalWeeks,
		AdaptationWeeks: e.AdaptationWeeks(),
		Recommendations: []string{},
	}
	for _, week := range program.Weeks {
		d := distribution(week)
		report.WeeklyIntensityDistribution = append(report.WeeklyIntensityDistribution,
			WeekDistribution{Week: week.Number, Distribution: d})

		if d.Hard > maxHardPercent {
			report.Recommendations = append(report.Recommendations,
				fmt.Sprintf("Week %d: Consider reducing high-intensity workouts (%.1f%% hard)", week.Number, d.Hard))
		}
		if easyModerate := d.Easy + d.Moderate; easyModerate < minEasyModeratePercent {
			report.Recommendations = append(report.Recommendations,
				fmt.Sprintf("Week %d: Consider adding more easy/moderate workouts (%.1f%% easy-moderate)",
					week.Number, easyModerate))
		}
	}
	return report
}

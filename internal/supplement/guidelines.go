package supplement

import "github.com/myrjola/pfaplan/internal/config"

// TimingGuidelines returns general advice keyed by supplement group.
func TimingGuidelines() map[string]string {
	return map[string]string{
		"fat_soluble_vitamins":   "Take with meals containing fat (A, D, E, K)",
		"water_soluble_vitamins": "Take on empty stomach or with water (B, C)",
		"minerals":               "Take between meals when possible",
		"probiotics":             "Take on empty stomach, 30-60 minutes before meals",
		"omega_3":                "Take with meals to improve absorption and reduce fishy taste",
		"creatine":               "Timing not critical, but consistency is important",
		"caffeine":               "Avoid within 6-8 hours of bedtime",
		"magnesium":              "Take in evening as it can promote relaxation",
		"iron":                   "Take on empty stomach, avoid with dairy or caffeine",
		"calcium":                "Split doses throughout day, max 500mg at a time",
	}
}

// HydrationRecommendations returns water intake advice for supplement use.
func HydrationRecommendations() map[string]string {
	return map[string]string{
		"general":      "Take supplements with at least 8oz of water",
		"creatine":     "Increase water intake by 16-24oz daily",
		"fiber":        "Take with extra water to prevent digestive issues",
		"electrolytes": "Can count toward daily fluid intake",
		"timing":       "Spread supplement water intake throughout the day",
	}
}

func names(items []config.SupplementItem) []string {
	out := make([]string, len(items))
	for i, item := range items {
		out[i] = item.Name
	}
	return out
}

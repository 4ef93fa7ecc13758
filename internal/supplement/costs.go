package supplement

import "strings"

// Price is the monthly price of a supplement whose name contains Key.
type Price struct {
	Key     string
	Monthly float64
}

// DefaultPrices are estimates matched in this order.
var DefaultPrices = []Price{ //nolint:gochecknoglobals // constant table
	{Key: "creatine", Monthly: 20},
	{Key: "vitamin d3", Monthly: 15},
	{Key: "omega-3", Monthly: 25},
	{Key: "magnesium", Monthly: 18},
	{Key: "caffeine", Monthly: 30},
	{Key: "protein powder", Monthly: 40},
	{Key: "multivitamin", Monthly: 25},
	{Key: "cordyceps", Monthly: 35},
	{Key: "lion's mane", Monthly: 30},
	{Key: "collagen", Monthly: 35},
	{Key: "vitamin c", Monthly: 12},
}

// Usage factors for workout-bound supplements.
const (
	preWorkoutUsage  = 0.5
	postWorkoutUsage = 0.7
)

// ItemCost is the monthly cost of one supplement.
type ItemCost struct {
	Name    string  `yaml:"name"`
	Monthly float64 `yaml:"monthly"`
}

// CostEstimate lists costs in stack order.
type CostEstimate struct {
	Items []ItemCost `yaml:"items"`
	Total float64    `yaml:"total"`
}

func (c *CostEstimate) index(name string) int {
	for i, item := range c.Items {
		if item.Name == name {
			return i
		}
	}
	return -1
}

// MonthlyCosts estimates the monthly spend. Daily items pay full price. Pre and post workout items pay a fraction
// and are skipped when already priced as daily. Unknown supplements cost nothing. Nil prices use DefaultPrices.
func (s *Scheduler) MonthlyCosts(prices []Price) CostEstimate {
	if len(prices) == 0 {
		prices = DefaultPrices
	}
	var estimate CostEstimate

	for _, stack := range s.cfg.DailyStack {
		for _, item := range stack.Items {
			price, ok := match(prices, item.Name)
			if !ok {
				continue
			}
			if i := estimate.index(item.Name); i >= 0 {
				estimate.Items[i].Monthly = price
			} else {
				estimate.Items = append(estimate.Items, ItemCost{Name: item.Name, Monthly: price})
			}
			estimate.Total += price
		}
	}

	workout := func(enabled bool, items []string, factor float64) {
		if !enabled {
			return
		}
		for _, name := range items {
			if estimate.index(name) >= 0 {
				continue
			}
			if price, ok := match(prices, name); ok {
				estimate.Items = append(estimate.Items, ItemCost{Name: name, Monthly: price * factor})
				estimate.Total += price * factor
			}
		}
	}
	workout(s.cfg.PreWorkout.Enabled, names(s.cfg.PreWorkout.Items), preWorkoutUsage)
	workout(s.cfg.PostWorkout.Enabled, names(s.cfg.PostWorkout.Items), postWorkoutUsage)

	return estimate
}

func match(prices []Price, name string) (float64, bool) {
	lower := strings.ToLower(name)
	for _, p := range prices {
		if strings.Contains(lower, p.Key) {
			return p.Monthly, true
		}
	}
	return 0, false
}

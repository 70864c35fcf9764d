// Package nutrition renders stored nutrition values for display and assigns
// per-entry letter grades. Presentation only: nothing here is applied before
// persistence.
package nutrition

import (
	"fmt"

	"github.com/platewise/foodscan-cli/internal/model"
)

// FormatValue renders a single nutrition value with its unit. Sub-unit
// quantities are promoted to milli-units with no decimal places, everything
// else gets exactly one.
func FormatValue(v float64, unit string) string {
	if v > 0 && v < 1 {
		return fmt.Sprintf("%.0fm%s", v*1000, unit)
	}
	return fmt.Sprintf("%.1f%s", v, unit)
}

// Grade thresholds, evaluated as inclusive lower bounds from A down.
var gradeBounds = []struct {
	min    int
	letter string
}{
	{4, "A"},
	{2, "B"},
	{0, "C"},
	{-2, "D"},
}

// Grade assigns an A-F letter to a single nutrition record from a fixed
// point-scoring rule. Absent fields count as zero, so an entry with
// unavailable nutrition grades as if every value were zero.
func Grade(n model.Nutrition) string {
	f := n.Facts
	if f == nil {
		f = &model.NutritionFacts{}
	}

	score := 0
	if val(f.ProteinG) > 10 {
		score += 2
	}
	if val(f.FiberG) > 3 {
		score += 2
	}
	if val(f.Calories) < 200 {
		score++
	}
	if val(f.SugarG) > 10 {
		score -= 2
	}
	if val(f.SodiumMg) > 400 {
		score -= 2
	}
	if val(f.FatSaturatedG) > 5 {
		score--
	}

	for _, b := range gradeBounds {
		if score >= b.min {
			return b.letter
		}
	}
	return "F"
}

func val(p *float64) float64 {
	if p == nil {
		return 0
	}
	return *p
}

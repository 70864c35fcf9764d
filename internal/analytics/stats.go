package analytics

import (
	"math"

	"github.com/platewise/foodscan-cli/internal/model"
)

// EmptyFoodLabel is reported as the most analyzed food when the history is empty.
const EmptyFoodLabel = "N/A"

// Score model coefficients. The base sits at 50 and each averaged nutrient
// contributes a capped adjustment; the unclamped sum is clamped to [0, 100]
// before rounding.
const (
	scoreBase = 50.0

	proteinWeight = 2.0
	proteinCap    = 20.0
	fiberWeight   = 5.0
	fiberCap      = 15.0
	sugarWeight   = 0.5
	sugarCap      = 15.0
	sodiumWeight  = 0.01
	sodiumCap     = 10.0
)

// ComputeStats derives rolling statistics from a history snapshot. It is a
// pure function of its input: the same ordered snapshot always yields the
// same stats, and the snapshot is never mutated.
//
// Entries with unavailable or partial nutrition contribute zeros to the
// nutrient aggregates; an empty snapshot yields the zero stats, which is a
// defined result and not an error.
func ComputeStats(history []model.SavedAnalysis) model.HealthStats {
	if len(history) == 0 {
		return model.HealthStats{MostAnalyzedFood: EmptyFoodLabel}
	}

	count := float64(len(history))
	var totalCalories, totalConfidence float64
	var totalProtein, totalFiber, totalSugar, totalSodium float64

	counts := make(map[string]int, len(history))
	var order []string

	for _, entry := range history {
		totalConfidence += entry.Confidence
		if f := entry.Nutrition.Facts; f != nil {
			totalCalories += val(f.Calories)
			totalProtein += val(f.ProteinG)
			totalFiber += val(f.FiberG)
			totalSugar += val(f.SugarG)
			totalSodium += val(f.SodiumMg)
		}
		if _, seen := counts[entry.PredictedClass]; !seen {
			order = append(order, entry.PredictedClass)
		}
		counts[entry.PredictedClass]++
	}

	// Highest occurrence count wins; ties go to the class encountered
	// earliest in snapshot order.
	mostAnalyzed, best := "", 0
	for _, class := range order {
		if counts[class] > best {
			mostAnalyzed, best = class, counts[class]
		}
	}

	return model.HealthStats{
		TotalAnalyses:     len(history),
		AverageCalories:   int(math.Round(totalCalories / count)),
		TotalCalories:     totalCalories,
		AverageConfidence: math.Round(totalConfidence/count*100) / 100,
		MostAnalyzedFood:  mostAnalyzed,
		HealthScore:       healthScore(totalProtein/count, totalFiber/count, totalSugar/count, totalSodium/count),
	}
}

func healthScore(avgProtein, avgFiber, avgSugar, avgSodium float64) int {
	score := scoreBase
	score += math.Min(avgProtein*proteinWeight, proteinCap)
	score += math.Min(avgFiber*fiberWeight, fiberCap)
	score -= math.Min(avgSugar*sugarWeight, sugarCap)
	score -= math.Min(avgSodium*sodiumWeight, sodiumCap)
	score = math.Max(0, math.Min(100, score))
	return int(math.Round(score))
}

func val(p *float64) float64 {
	if p == nil {
		return 0
	}
	return *p
}

package analytics

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/platewise/foodscan-cli/internal/model"
)

func f64(v float64) *float64 { return &v }

func entry(class string, confidence float64, facts *model.NutritionFacts) model.SavedAnalysis {
	return model.SavedAnalysis{
		AnalysisResult: model.AnalysisResult{
			PredictedClass: class,
			Confidence:     confidence,
			Nutrition:      model.Nutrition{Facts: facts},
		},
	}
}

func TestComputeStats_EmptyHistory(t *testing.T) {
	stats := ComputeStats(nil)

	assert.Equal(t, model.HealthStats{
		TotalAnalyses:     0,
		AverageCalories:   0,
		TotalCalories:     0,
		AverageConfidence: 0,
		MostAnalyzedFood:  "N/A",
		HealthScore:       0,
	}, stats)
}

func TestComputeStats_Averages(t *testing.T) {
	history := []model.SavedAnalysis{
		entry("pizza", 0.5, &model.NutritionFacts{Calories: f64(100)}),
		entry("sushi", 0.7, &model.NutritionFacts{Calories: f64(200)}),
		entry("tacos", 0.9, &model.NutritionFacts{Calories: f64(300)}),
	}

	stats := ComputeStats(history)
	assert.Equal(t, 3, stats.TotalAnalyses)
	assert.Equal(t, 200, stats.AverageCalories)
	assert.InDelta(t, 600, stats.TotalCalories, 0.001)
	assert.InDelta(t, 0.70, stats.AverageConfidence, 0.001)
}

func TestComputeStats_AverageCaloriesRoundsToNearest(t *testing.T) {
	history := []model.SavedAnalysis{
		entry("a", 0.5, &model.NutritionFacts{Calories: f64(100)}),
		entry("b", 0.5, &model.NutritionFacts{Calories: f64(101)}),
	}
	assert.Equal(t, 101, ComputeStats(history).AverageCalories) // 100.5 rounds up
}

func TestComputeStats_MostAnalyzedFood(t *testing.T) {
	history := []model.SavedAnalysis{
		entry("pizza", 0.5, nil),
		entry("sushi", 0.5, nil),
		entry("sushi", 0.5, nil),
		entry("pizza", 0.5, nil),
		entry("sushi", 0.5, nil),
	}
	assert.Equal(t, "sushi", ComputeStats(history).MostAnalyzedFood)
}

func TestComputeStats_MostAnalyzedTieBreaksToEarliest(t *testing.T) {
	history := []model.SavedAnalysis{
		entry("ramen", 0.5, nil),
		entry("pizza", 0.5, nil),
		entry("pizza", 0.5, nil),
		entry("ramen", 0.5, nil),
	}
	assert.Equal(t, "ramen", ComputeStats(history).MostAnalyzedFood)
}

func TestComputeStats_HealthScore(t *testing.T) {
	tests := []struct {
		name  string
		facts model.NutritionFacts
		want  int
	}{
		{
			name:  "no nutrients is the base score",
			facts: model.NutritionFacts{},
			want:  50,
		},
		{
			name: "protein and fiber capped",
			facts: model.NutritionFacts{
				ProteinG: f64(15), // 30 capped to 20
				FiberG:   f64(5),  // 25 capped to 15
			},
			want: 85,
		},
		{
			name: "sugar and sodium capped",
			facts: model.NutritionFacts{
				SugarG:   f64(40),   // 20 capped to 15
				SodiumMg: f64(2000), // 20 capped to 10
			},
			want: 25,
		},
		{
			name: "mixed under caps",
			facts: model.NutritionFacts{
				ProteinG: f64(5),   // +10
				FiberG:   f64(2),   // +10
				SugarG:   f64(10),  // -5
				SodiumMg: f64(500), // -5
			},
			want: 60,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			facts := tt.facts
			stats := ComputeStats([]model.SavedAnalysis{entry("pizza", 0.5, &facts)})
			assert.Equal(t, tt.want, stats.HealthScore)
		})
	}
}

func TestComputeStats_HealthScoreAveragesBeforeCaps(t *testing.T) {
	// Two entries averaging to 10g protein: +20, exactly at the cap.
	history := []model.SavedAnalysis{
		entry("a", 0.5, &model.NutritionFacts{ProteinG: f64(20)}),
		entry("b", 0.5, &model.NutritionFacts{ProteinG: f64(0)}),
	}
	assert.Equal(t, 70, ComputeStats(history).HealthScore)
}

func TestComputeStats_MissingFieldsCountAsZero(t *testing.T) {
	history := []model.SavedAnalysis{
		entry("pizza", 0.6, &model.NutritionFacts{ProteinG: f64(10)}), // calories absent
		entry("mystery", 0.4, nil),                                    // nutrition unavailable
	}

	stats := ComputeStats(history)
	assert.Equal(t, 0, stats.AverageCalories)
	assert.InDelta(t, 0, stats.TotalCalories, 0.001)
	assert.InDelta(t, 0.5, stats.AverageConfidence, 0.001)
	assert.Equal(t, 60, stats.HealthScore) // avg 5g protein → +10
}

func TestComputeStats_DoesNotMutateInput(t *testing.T) {
	history := []model.SavedAnalysis{
		entry("pizza", 0.5, &model.NutritionFacts{Calories: f64(100)}),
	}
	before := history[0]
	ComputeStats(history)
	assert.Equal(t, before, history[0])
}

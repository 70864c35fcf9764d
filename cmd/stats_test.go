package main

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/platewise/foodscan-cli/internal/model"
)

func TestFormatHealthStats(t *testing.T) {
	var buf bytes.Buffer
	formatHealthStats(&buf, model.HealthStats{
		TotalAnalyses:     12,
		AverageCalories:   342,
		TotalCalories:     4104,
		AverageConfidence: 0.81,
		MostAnalyzedFood:  "pizza",
		HealthScore:       63,
	})
	out := buf.String()

	assert.Contains(t, out, "Total analyses:")
	assert.Contains(t, out, "12")
	assert.Contains(t, out, "4104")
	assert.Contains(t, out, "342")
	assert.Contains(t, out, "0.81")
	assert.Contains(t, out, "pizza")
	assert.Contains(t, out, "63/100")
}

func TestFormatHealthStats_Empty(t *testing.T) {
	var buf bytes.Buffer
	formatHealthStats(&buf, model.HealthStats{MostAnalyzedFood: "N/A"})

	assert.Contains(t, buf.String(), "N/A")
	assert.Contains(t, buf.String(), "0/100")
}

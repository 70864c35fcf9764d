package model

import (
	"encoding/json"
	"time"
)

// NutritionFacts holds the nutrition lookup values for a recognized food.
// Numeric fields are pointers because an absent field is not the same as
// zero: absence survives storage round-trips and is coerced to zero only
// when formatting or aggregating.
type NutritionFacts struct {
	Name                string   `json:"name,omitempty"`
	Calories            *float64 `json:"calories,omitempty"`
	ServingSizeG        *float64 `json:"serving_size_g,omitempty"`
	FatTotalG           *float64 `json:"fat_total_g,omitempty"`
	FatSaturatedG       *float64 `json:"fat_saturated_g,omitempty"`
	ProteinG            *float64 `json:"protein_g,omitempty"`
	SodiumMg            *float64 `json:"sodium_mg,omitempty"`
	PotassiumMg         *float64 `json:"potassium_mg,omitempty"`
	CholesterolMg       *float64 `json:"cholesterol_mg,omitempty"`
	CarbohydratesTotalG *float64 `json:"carbohydrates_total_g,omitempty"`
	FiberG              *float64 `json:"fiber_g,omitempty"`
	SugarG              *float64 `json:"sugar_g,omitempty"`
	Confidence          *float64 `json:"confidence,omitempty"`
}

// NutritionUnavailable is the payload the backend returns when the food was
// recognized but the nutrition lookup failed.
type NutritionUnavailable struct {
	Error      string `json:"error"`
	Suggestion string `json:"suggestion,omitempty"`
}

// Nutrition is either a set of NutritionFacts or an unavailable marker.
// At most one of the two fields is non-nil. Both variants occupy the same
// JSON object on the wire; the presence of an "error" key discriminates.
type Nutrition struct {
	Facts       *NutritionFacts
	Unavailable *NutritionUnavailable
}

// Available reports whether the record carries usable nutrition facts.
func (n Nutrition) Available() bool {
	return n.Facts != nil
}

func (n Nutrition) MarshalJSON() ([]byte, error) {
	switch {
	case n.Unavailable != nil:
		return json.Marshal(n.Unavailable)
	case n.Facts != nil:
		return json.Marshal(n.Facts)
	default:
		return []byte("{}"), nil
	}
}

func (n *Nutrition) UnmarshalJSON(data []byte) error {
	var probe struct {
		Error *string `json:"error"`
	}
	if err := json.Unmarshal(data, &probe); err != nil {
		return err
	}
	if probe.Error != nil {
		n.Facts = nil
		n.Unavailable = &NutritionUnavailable{}
		return json.Unmarshal(data, n.Unavailable)
	}
	n.Unavailable = nil
	n.Facts = &NutritionFacts{}
	return json.Unmarshal(data, n.Facts)
}

// AnalysisResult is a single raw result from the analysis backend.
type AnalysisResult struct {
	PredictedClass string    `json:"predicted_class"`
	Confidence     float64   `json:"confidence"`
	Nutrition      Nutrition `json:"nutrition"`
	ProcessingTime float64   `json:"processing_time"`
	Timestamp      time.Time `json:"timestamp"`
}

// SavedAnalysis is an AnalysisResult admitted into the history. Identity is
// the ID; everything except UserNotes is immutable after creation.
type SavedAnalysis struct {
	ID string `json:"id"`
	AnalysisResult
	SavedAt   time.Time `json:"savedAt"`
	UserNotes string    `json:"userNotes,omitempty"`
}

// HealthStats holds rolling statistics derived from a history snapshot.
type HealthStats struct {
	TotalAnalyses     int     `json:"total_analyses"`
	AverageCalories   int     `json:"average_calories"`
	TotalCalories     float64 `json:"total_calories"`
	AverageConfidence float64 `json:"average_confidence"`
	MostAnalyzedFood  string  `json:"most_analyzed_food"`
	HealthScore       int     `json:"health_score"`
}

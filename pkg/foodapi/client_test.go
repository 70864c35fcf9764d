package foodapi

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAnalyze_Success(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/analyze", r.URL.Path)

		file, header, err := r.FormFile("file")
		require.NoError(t, err)
		defer file.Close()
		assert.Equal(t, "lunch.jpg", header.Filename)

		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{
			"predicted_class": "pad_thai",
			"confidence": 0.87,
			"nutrition": {"name": "pad thai", "calories": 357.5, "protein_g": 11.9},
			"processing_time": 1.32,
			"timestamp": "2026-03-01T12:00:00Z"
		}`)
	}))
	defer ts.Close()

	c := NewClient(WithBaseURL(ts.URL))
	res, err := c.Analyze(context.Background(), "lunch.jpg", strings.NewReader("fake image bytes"))
	require.NoError(t, err)

	assert.Equal(t, "pad_thai", res.PredictedClass)
	assert.InDelta(t, 0.87, res.Confidence, 0.001)
	assert.InDelta(t, 1.32, res.ProcessingTime, 0.001)
	assert.False(t, res.Timestamp.IsZero())
	require.NotNil(t, res.Nutrition.Facts)
	assert.InDelta(t, 357.5, *res.Nutrition.Facts.Calories, 0.001)
}

func TestAnalyze_NutritionLookupFailed(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{
			"predicted_class": "mystery_dish",
			"confidence": 0.41,
			"nutrition": {"error": "No nutrition data found.", "suggestion": "retake the photo"},
			"processing_time": 0.9
		}`)
	}))
	defer ts.Close()

	c := NewClient(WithBaseURL(ts.URL))
	res, err := c.Analyze(context.Background(), "dish.jpg", strings.NewReader("img"))
	require.NoError(t, err)

	require.NotNil(t, res.Nutrition.Unavailable)
	assert.Equal(t, "No nutrition data found.", res.Nutrition.Unavailable.Error)
	assert.False(t, res.Timestamp.IsZero(), "missing timestamp is stamped client-side")
}

func TestAnalyze_ServerError(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "model not loaded", http.StatusServiceUnavailable)
	}))
	defer ts.Close()

	c := NewClient(WithBaseURL(ts.URL))
	_, err := c.Analyze(context.Background(), "x.jpg", strings.NewReader("img"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "503")
}

func TestAnalyze_MissingPredictedClass(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"confidence": 0.5, "nutrition": {}}`)
	}))
	defer ts.Close()

	c := NewClient(WithBaseURL(ts.URL))
	_, err := c.Analyze(context.Background(), "x.jpg", strings.NewReader("img"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "predicted_class")
}

func TestAnalyze_ContextCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	c := NewClient(WithBaseURL("http://localhost:0"))
	_, err := c.Analyze(ctx, "x.jpg", strings.NewReader("img"))
	require.Error(t, err)
}

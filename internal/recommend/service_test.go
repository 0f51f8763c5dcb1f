package recommend

import (
	"context"
	"math"
	"testing"

	pkgerrors "github.com/priyansupat/farmdirect-backend/pkg/errors"
)

func testArtifacts() *Artifacts {
	scaler := &Scaler{
		Columns: []string{"Temperature", "Moisture", "Rainfall", "PH", "Nitrogen", "Phosphorous", "Potassium", "Carbon"},
		Mean:    []float64{25, 30, 150, 6.5, 40, 30, 30, 0.5},
		Scale:   []float64{5, 10, 50, 1, 20, 15, 15, 0.2},
	}
	features := []string{
		"Temperature", "Moisture", "Rainfall", "PH",
		"Nitrogen", "Phosphorous", "Potassium", "Carbon",
		"Soil_Loamy Soil", "Soil_Sandy Soil",
		"Crop_Rice", "Crop_Maize",
	}
	classes := []string{"Urea", "DAP", "Muriate of Potash", "Balanced NPK Fertilizer"}

	coeffs := make([][]float64, len(classes))
	for i := range coeffs {
		coeffs[i] = make([]float64, len(features))
	}
	// Make low scaled nitrogen push hard toward Urea.
	coeffs[0][4] = -3

	return &Artifacts{
		Scaler: scaler,
		Model: &Model{
			FeatureNames: features,
			Classes:      classes,
			Intercepts:   make([]float64, len(classes)),
			Coefficients: coeffs,
		},
	}
}

func TestRecommendUnavailableWithoutArtifacts(t *testing.T) {
	t.Parallel()

	svc := NewService(nil, nil)
	if svc.Available() {
		t.Fatal("expected unavailable service")
	}

	_, err := svc.Recommend(context.Background(), Observation{})
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeModelUnavailable {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestRecommendReturnsTopThree(t *testing.T) {
	t.Parallel()

	svc := NewService(testArtifacts(), nil)

	rec, err := svc.Recommend(context.Background(), Observation{
		Temperature: 25, Moisture: 30, Rainfall: 150, PH: 6.5,
		Nitrogen: 5, Phosphorous: 30, Potassium: 30, Carbon: 0.5,
		Soil: "Loamy Soil", Crop: "Rice",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(rec.Top) != 3 {
		t.Fatalf("expected top 3, got %d", len(rec.Top))
	}
	if rec.Top[0].Fertilizer != "Urea" {
		t.Fatalf("expected Urea first for low nitrogen, got %+v", rec.Top[0])
	}
	if rec.Top[0].Description == "" {
		t.Fatal("expected a description")
	}

	var sum float64
	for _, entry := range rec.Top {
		if entry.Probability < 0 || entry.Probability > 1 {
			t.Fatalf("probability out of range: %+v", entry)
		}
		sum += entry.Probability
	}
	if sum > 1+1e-9 {
		t.Fatalf("top-3 probabilities exceed 1: %v", sum)
	}

	if rec.NutrientStatus["nitrogen"] != StatusLow {
		t.Fatalf("expected low nitrogen status, got %v", rec.NutrientStatus)
	}
	if len(rec.Hints) == 0 {
		t.Fatal("expected at least one hint")
	}
	if len(rec.Importances) != len(testArtifacts().Model.FeatureNames) {
		t.Fatalf("expected one importance per feature, got %d", len(rec.Importances))
	}
}

func TestRecommendIgnoresUnknownCategories(t *testing.T) {
	t.Parallel()

	svc := NewService(testArtifacts(), nil)

	rec, err := svc.Recommend(context.Background(), Observation{
		Temperature: 25, Moisture: 30, Rainfall: 150, PH: 6.5,
		Nitrogen: 40, Phosphorous: 30, Potassium: 30, Carbon: 0.5,
		Soil: "Volcanic Soil", Crop: "Dragonfruit",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Unknown one-hot columns contribute nothing; with zero coefficients the
	// distribution is uniform.
	want := 1.0 / 4
	for _, entry := range rec.Top {
		if math.Abs(entry.Probability-want) > 1e-9 {
			t.Fatalf("expected uniform probabilities, got %+v", rec.Top)
		}
	}
}

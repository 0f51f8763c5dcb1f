package recommend

import (
	"math"
	"testing"
)

func TestAlignProducesExactColumnOrder(t *testing.T) {
	t.Parallel()

	columns := []string{"A", "B", "C", "D"}
	features := map[string]float64{
		"C":       3,
		"A":       1,
		"Unknown": 99,
	}

	vector := align(features, columns)
	if len(vector) != len(columns) {
		t.Fatalf("expected %d entries, got %d", len(columns), len(vector))
	}
	want := []float64{1, 0, 3, 0}
	for i := range want {
		if vector[i] != want[i] {
			t.Fatalf("position %d: expected %v, got %v", i, want[i], vector[i])
		}
	}
}

func TestOneHotNaming(t *testing.T) {
	t.Parallel()

	encoded := oneHot("Soil", "Sandy Soil")
	if encoded["Soil_Sandy Soil"] != 1 {
		t.Fatalf("unexpected encoding: %v", encoded)
	}
}

func TestSoftmaxSumsToOne(t *testing.T) {
	t.Parallel()

	probs := softmax([]float64{2, 1, 0.5})
	var sum float64
	for _, p := range probs {
		sum += p
	}
	if math.Abs(sum-1) > 1e-9 {
		t.Fatalf("expected probabilities to sum to 1, got %v", sum)
	}
	if !(probs[0] > probs[1] && probs[1] > probs[2]) {
		t.Fatalf("expected monotone probabilities, got %v", probs)
	}
}

func TestSoftmaxHandlesLargeScores(t *testing.T) {
	t.Parallel()

	probs := softmax([]float64{1000, 999})
	for _, p := range probs {
		if math.IsNaN(p) || math.IsInf(p, 0) {
			t.Fatalf("unstable softmax output: %v", probs)
		}
	}
}

func TestRankSortsByProbability(t *testing.T) {
	t.Parallel()

	model := &Model{
		FeatureNames: []string{"X"},
		Classes:      []string{"Low", "High", "Mid"},
		Intercepts:   []float64{0, 2, 1},
		Coefficients: [][]float64{{0}, {0}, {0}},
	}

	ranked := model.rank([]float64{0})
	if ranked[0].Class != "High" || ranked[1].Class != "Mid" || ranked[2].Class != "Low" {
		t.Fatalf("unexpected order: %+v", ranked)
	}
}

func TestImportancesUseMeanAbsoluteCoefficient(t *testing.T) {
	t.Parallel()

	model := &Model{
		FeatureNames: []string{"Weak", "Strong"},
		Classes:      []string{"A", "B"},
		Intercepts:   []float64{0, 0},
		Coefficients: [][]float64{{0.1, -2}, {-0.3, 2}},
	}

	imps := model.importances()
	if imps[0].Feature != "Strong" {
		t.Fatalf("expected Strong first, got %+v", imps)
	}
	if math.Abs(imps[0].Weight-2) > 1e-9 {
		t.Fatalf("expected weight 2, got %v", imps[0].Weight)
	}
	if math.Abs(imps[1].Weight-0.2) > 1e-9 {
		t.Fatalf("expected weight 0.2, got %v", imps[1].Weight)
	}
}

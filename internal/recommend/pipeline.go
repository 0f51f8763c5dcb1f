package recommend

import (
	"math"
	"sort"
)

// oneHot encodes a categorical value as a single indicator column, matching
// the Prefix_Value naming the model was trained with.
func oneHot(prefix, value string) map[string]float64 {
	return map[string]float64{prefix + "_" + value: 1}
}

// align reindexes the feature map into the trained column order. Columns the
// observation lacks become zero; keys the model never saw are dropped. The
// result always has exactly len(columns) entries in column order.
func align(features map[string]float64, columns []string) []float64 {
	vector := make([]float64, len(columns))
	for i, col := range columns {
		vector[i] = features[col]
	}
	return vector
}

// scores computes the per-class linear scores for the aligned vector.
func (m *Model) scores(vector []float64) []float64 {
	out := make([]float64, len(m.Classes))
	for i := range m.Classes {
		score := m.Intercepts[i]
		for j, x := range vector {
			score += m.Coefficients[i][j] * x
		}
		out[i] = score
	}
	return out
}

// softmax converts linear scores into probabilities. The max is subtracted
// before exponentiation to keep large scores from overflowing.
func softmax(scores []float64) []float64 {
	if len(scores) == 0 {
		return nil
	}
	max := scores[0]
	for _, s := range scores[1:] {
		if s > max {
			max = s
		}
	}

	probs := make([]float64, len(scores))
	var sum float64
	for i, s := range scores {
		probs[i] = math.Exp(s - max)
		sum += probs[i]
	}
	for i := range probs {
		probs[i] /= sum
	}
	return probs
}

// classRanking pairs each class with its probability, sorted descending.
type classRanking struct {
	Class       string
	Probability float64
}

func (m *Model) rank(vector []float64) []classRanking {
	probs := softmax(m.scores(vector))
	ranked := make([]classRanking, len(m.Classes))
	for i, class := range m.Classes {
		ranked[i] = classRanking{Class: class, Probability: probs[i]}
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Probability > ranked[j].Probability
	})
	return ranked
}

// FeatureImportance is a model-level diagnostic: the mean absolute coefficient
// of a feature across all classes.
type FeatureImportance struct {
	Feature string  `json:"feature"`
	Weight  float64 `json:"weight"`
}

// importances returns every feature ranked by mean absolute coefficient.
func (m *Model) importances() []FeatureImportance {
	out := make([]FeatureImportance, len(m.FeatureNames))
	for j, name := range m.FeatureNames {
		var sum float64
		for i := range m.Classes {
			sum += math.Abs(m.Coefficients[i][j])
		}
		out[j] = FeatureImportance{
			Feature: name,
			Weight:  sum / float64(len(m.Classes)),
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Weight > out[j].Weight
	})
	return out
}

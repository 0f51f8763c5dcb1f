package recommend

import (
	"encoding/json"
	"fmt"
	"os"
)

// Scaler holds the fitted standard-scaler parameters, one entry per numeric
// column in Columns order.
type Scaler struct {
	Columns []string  `json:"columns"`
	Mean    []float64 `json:"mean"`
	Scale   []float64 `json:"scale"`
}

// Model holds a trained multinomial logistic regression: one intercept and one
// coefficient vector per class, with coefficients indexed by FeatureNames.
type Model struct {
	FeatureNames []string    `json:"feature_names"`
	Classes      []string    `json:"classes"`
	Intercepts   []float64   `json:"intercepts"`
	Coefficients [][]float64 `json:"coefficients"`
}

// Artifacts bundles everything the pipeline needs at inference time.
type Artifacts struct {
	Scaler *Scaler
	Model  *Model
}

// LoadArtifacts reads and validates the serialized scaler and model. Any
// missing file or shape mismatch fails the load; callers are expected to keep
// serving the rest of the API and report the recommender as unavailable.
func LoadArtifacts(scalerPath, modelPath string) (*Artifacts, error) {
	var scaler Scaler
	if err := readJSON(scalerPath, &scaler); err != nil {
		return nil, fmt.Errorf("load scaler: %w", err)
	}
	if len(scaler.Columns) == 0 ||
		len(scaler.Mean) != len(scaler.Columns) ||
		len(scaler.Scale) != len(scaler.Columns) {
		return nil, fmt.Errorf("scaler shape mismatch: %d columns, %d means, %d scales",
			len(scaler.Columns), len(scaler.Mean), len(scaler.Scale))
	}
	for i, s := range scaler.Scale {
		if s == 0 {
			return nil, fmt.Errorf("scaler column %q has zero scale", scaler.Columns[i])
		}
	}

	var model Model
	if err := readJSON(modelPath, &model); err != nil {
		return nil, fmt.Errorf("load model: %w", err)
	}
	if len(model.FeatureNames) == 0 || len(model.Classes) == 0 {
		return nil, fmt.Errorf("model is empty")
	}
	if len(model.Intercepts) != len(model.Classes) || len(model.Coefficients) != len(model.Classes) {
		return nil, fmt.Errorf("model shape mismatch: %d classes, %d intercepts, %d coefficient rows",
			len(model.Classes), len(model.Intercepts), len(model.Coefficients))
	}
	for i, row := range model.Coefficients {
		if len(row) != len(model.FeatureNames) {
			return nil, fmt.Errorf("coefficient row %d has %d entries, want %d", i, len(row), len(model.FeatureNames))
		}
	}

	return &Artifacts{Scaler: &scaler, Model: &model}, nil
}

func readJSON(path string, target any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return json.Unmarshal(data, target)
}

// Transform standard-scales the provided values using the fitted parameters.
// Every scaler column must be present; extra keys are ignored.
func (s *Scaler) Transform(values map[string]float64) (map[string]float64, error) {
	scaled := make(map[string]float64, len(s.Columns))
	for i, col := range s.Columns {
		raw, ok := values[col]
		if !ok {
			return nil, fmt.Errorf("missing numeric column %q", col)
		}
		scaled[col] = (raw - s.Mean[i]) / s.Scale[i]
	}
	return scaled, nil
}

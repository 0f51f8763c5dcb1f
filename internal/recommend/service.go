package recommend

import (
	"context"

	pkgerrors "github.com/priyansupat/farmdirect-backend/pkg/errors"
	"github.com/priyansupat/farmdirect-backend/pkg/logger"
)

const topN = 3

// Observation is one soil/crop reading submitted for a recommendation. Values
// are passed to the scaler as-is; domain range checks are deliberately left to
// the caller's judgement, matching how the model was trained.
type Observation struct {
	Temperature float64 `json:"temperature"`
	Moisture    float64 `json:"moisture"`
	Rainfall    float64 `json:"rainfall"`
	PH          float64 `json:"ph"`
	Nitrogen    float64 `json:"nitrogen"`
	Phosphorous float64 `json:"phosphorous"`
	Potassium   float64 `json:"potassium"`
	Carbon      float64 `json:"carbon"`
	Soil        string  `json:"soil"`
	Crop        string  `json:"crop"`
}

// RankedFertilizer is one entry of the top-N suggestion list.
type RankedFertilizer struct {
	Fertilizer  string  `json:"fertilizer"`
	Probability float64 `json:"probability"`
	Description string  `json:"description"`
}

// Recommendation is the full response for one observation.
type Recommendation struct {
	Top            []RankedFertilizer  `json:"top"`
	NutrientStatus map[string]string   `json:"nutrient_status"`
	Hints          []string            `json:"hints"`
	Importances    []FeatureImportance `json:"importances"`
}

// Service scores observations against the embedded model.
type Service interface {
	Recommend(ctx context.Context, obs Observation) (*Recommendation, error)
	Available() bool
}

type service struct {
	artifacts *Artifacts
	logg      *logger.Logger
}

// NewService wraps the loaded artifacts. A nil artifacts value is accepted so
// the marketplace keeps serving when the model failed to load; every call then
// reports the recommender as unavailable.
func NewService(artifacts *Artifacts, logg *logger.Logger) Service {
	return &service{artifacts: artifacts, logg: logg}
}

func (s *service) Available() bool {
	return s.artifacts != nil
}

// Recommend runs the full pipeline: scale numerics, one-hot soil and crop,
// align to the trained column order, then rank classes by softmax probability.
func (s *service) Recommend(ctx context.Context, obs Observation) (*Recommendation, error) {
	if s.artifacts == nil {
		return nil, pkgerrors.New(pkgerrors.CodeModelUnavailable, "recommendation model not loaded")
	}

	numerics := map[string]float64{
		"Temperature": obs.Temperature,
		"Moisture":    obs.Moisture,
		"Rainfall":    obs.Rainfall,
		"PH":          obs.PH,
		"Nitrogen":    obs.Nitrogen,
		"Phosphorous": obs.Phosphorous,
		"Potassium":   obs.Potassium,
		"Carbon":      obs.Carbon,
	}

	scaled, err := s.artifacts.Scaler.Transform(numerics)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeModelUnavailable, err, "scaler transform")
	}

	features := make(map[string]float64, len(scaled)+2)
	for k, v := range scaled {
		features[k] = v
	}
	for k, v := range oneHot("Soil", obs.Soil) {
		features[k] = v
	}
	for k, v := range oneHot("Crop", obs.Crop) {
		features[k] = v
	}

	model := s.artifacts.Model
	vector := align(features, model.FeatureNames)
	ranked := model.rank(vector)

	limit := topN
	if len(ranked) < limit {
		limit = len(ranked)
	}
	top := make([]RankedFertilizer, 0, limit)
	for _, entry := range ranked[:limit] {
		top = append(top, RankedFertilizer{
			Fertilizer:  entry.Class,
			Probability: entry.Probability,
			Description: DescribeFertilizer(entry.Class),
		})
	}

	return &Recommendation{
		Top: top,
		NutrientStatus: map[string]string{
			"nitrogen":    NutrientStatus(obs.Nitrogen, nitrogenLow, nitrogenHigh),
			"phosphorous": NutrientStatus(obs.Phosphorous, phosphorousLow, phosphorousHigh),
			"potassium":   NutrientStatus(obs.Potassium, potassiumLow, potassiumHigh),
		},
		Hints:       Hints(obs.Nitrogen, obs.Phosphorous, obs.Potassium, obs.PH, obs.Moisture, obs.Soil),
		Importances: model.importances(),
	}, nil
}

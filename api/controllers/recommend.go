package controllers

import (
	"net/http"

	"github.com/priyansupat/farmdirect-backend/api/responses"
	"github.com/priyansupat/farmdirect-backend/api/validators"
	"github.com/priyansupat/farmdirect-backend/internal/recommend"
	"github.com/priyansupat/farmdirect-backend/pkg/logger"
)

// Numeric fields carry no range checks on purpose: the fitted scaler
// extrapolates whatever it is given, exactly as at training time.
type recommendPayload struct {
	Temperature float64 `json:"temperature"`
	Moisture    float64 `json:"moisture"`
	Rainfall    float64 `json:"rainfall"`
	PH          float64 `json:"ph"`
	Nitrogen    float64 `json:"nitrogen"`
	Phosphorous float64 `json:"phosphorous"`
	Potassium   float64 `json:"potassium"`
	Carbon      float64 `json:"carbon"`
	Soil        string  `json:"soil" validate:"required"`
	Crop        string  `json:"crop" validate:"required"`
}

// Recommend scores a soil and crop observation and returns the ranked
// fertilizer suggestions with nutrient hints.
func Recommend(svc recommend.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		var payload recommendPayload
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		recommendation, err := svc.Recommend(ctx, recommend.Observation{
			Temperature: payload.Temperature,
			Moisture:    payload.Moisture,
			Rainfall:    payload.Rainfall,
			PH:          payload.PH,
			Nitrogen:    payload.Nitrogen,
			Phosphorous: payload.Phosphorous,
			Potassium:   payload.Potassium,
			Carbon:      payload.Carbon,
			Soil:        payload.Soil,
			Crop:        payload.Crop,
		})
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		responses.WriteSuccess(w, recommendation)
	}
}

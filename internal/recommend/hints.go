package recommend

// Nutrient status labels and the thresholds the dashboard reports against.
const (
	StatusLow    = "low"
	StatusNormal = "normal"
	StatusHigh   = "high"
)

const (
	nitrogenLow     = 10
	nitrogenHigh    = 80
	phosphorousLow  = 10
	phosphorousHigh = 60
	potassiumLow    = 10
	potassiumHigh   = 60
)

var fertilizerDescriptions = map[string]string{
	"Urea":                       "High-Nitrogen fertilizer used when N is low.",
	"DAP":                        "Phosphorous-rich fertilizer used when P is low.",
	"Muriate of Potash":          "Potassium-rich fertilizer used when K is low.",
	"Lime":                       "Used to increase soil pH in acidic soils.",
	"Balanced NPK Fertilizer":    "Provides a balanced mix of N, P, K.",
	"Organic Fertilizer":         "Improves soil structure and carbon content.",
	"Water Retaining Fertilizer": "Useful in dry or sandy soils with low moisture.",
}

const defaultFertilizerDescription = "Helps improve soil nutrient balance."

// DescribeFertilizer returns a short blurb for the fertilizer label.
func DescribeFertilizer(name string) string {
	if desc, ok := fertilizerDescriptions[name]; ok {
		return desc
	}
	return defaultFertilizerDescription
}

// NutrientStatus classifies a reading against its low/high thresholds.
func NutrientStatus(value, low, high float64) string {
	if value < low {
		return StatusLow
	}
	if value > high {
		return StatusHigh
	}
	return StatusNormal
}

// Hints produces rule-based advisories independent of the trained model.
func Hints(n, p, k, ph, moisture float64, soil string) []string {
	var hints []string
	if n < nitrogenLow {
		hints = append(hints, "Nitrogen is very low. A nitrogen-rich fertilizer like Urea or high-N NPK can help.")
	}
	if p < phosphorousLow {
		hints = append(hints, "Phosphorous is very low. Consider DAP or another P-rich fertilizer.")
	}
	if k < potassiumLow {
		hints = append(hints, "Potassium is very low. Muriate of Potash or other K-rich sources may be needed.")
	}
	if ph < 5.5 {
		hints = append(hints, "Soil is acidic. Lime is often used to increase pH.")
	}
	if ph > 8.0 {
		hints = append(hints, "Soil is alkaline. Gypsum or organic matter may help.")
	}
	if moisture < 20 || soil == "Sandy Soil" {
		hints = append(hints, "Soil seems dry with low water retention. Water retaining fertilizer or organic matter is useful.")
	}
	if len(hints) == 0 {
		hints = append(hints, "NPK and pH are within a normal range. Balanced fertilizers might be suitable.")
	}
	return hints
}

// Package spoilage holds the produce decay model: a weather-derived baseline
// risk, a storage/transit adjustment, and a 7-day decay simulation. All
// functions are pure; callers supply whatever weather window they have.
package spoilage

import (
	"math"

	"agri-advisor/internal/model"
)

// NoDataPrior is the baseline risk assumed when no weather signal is
// available at all.
const NoDataPrior = 0.25

const simulationDays = 7

// EstimateRisk derives the baseline spoilage risk from a forecast window.
// Spoilage is gated by the worst expected day, not the average, so the
// maximum single-day risk wins.
func EstimateRisk(window []model.WeatherData) float64 {
	if len(window) == 0 {
		return NoDataPrior
	}

	max := 0.0
	for _, w := range window {
		risk := math.Min(1, 0.6*(w.Humidity/100)+0.4*(w.Rainfall/100))
		if risk > max {
			max = risk
		}
	}
	return round2(max)
}

// StorageConditions are the user's actual storage and transit inputs. A nil
// field means the condition is unknown and contributes nothing.
type StorageConditions struct {
	Temperature  *float64 `json:"temperature,omitempty"`
	Humidity     *float64 `json:"humidity,omitempty"`
	TransitHours *float64 `json:"transit_hours,omitempty"`
}

// AdjustRisk applies storage and transit deltas to a baseline risk. Hot
// storage and long transit stack (temp above 30 contributes both the >25 and
// >30 deltas). The result is clamped to [0,1].
func AdjustRisk(baseRisk float64, cond StorageConditions) float64 {
	risk := baseRisk
	if cond.Temperature != nil {
		temp := *cond.Temperature
		if temp > 25 {
			risk += 0.08
		}
		if temp > 30 {
			risk += 0.08
		}
		if temp < 10 {
			risk -= 0.05
		}
	}
	if cond.Humidity != nil {
		hum := *cond.Humidity
		if hum > 80 {
			risk += 0.08
		}
		if hum < 40 {
			risk -= 0.03
		}
	}
	if cond.TransitHours != nil {
		hours := *cond.TransitHours
		if hours > 6 {
			risk += 0.05
		}
		if hours > 12 {
			risk += 0.08
		}
	}
	return round2(math.Min(1, math.Max(0, risk)))
}

// SimulationInput describes one what-if scenario. Nil fields take the
// defaults: quality 1.0, storage 20°C at 60% humidity, zero transit.
type SimulationInput struct {
	CropType        string              `json:"crop_type"`
	Quantity        float64             `json:"quantity"`
	InitialQuality  *float64            `json:"initial_quality,omitempty"`
	StorageTemp     *float64            `json:"storage_temp,omitempty"`
	StorageHumidity *float64            `json:"storage_humidity,omitempty"`
	TransitHours    *float64            `json:"transit_hours,omitempty"`
	Weather         []model.WeatherData `json:"weather,omitempty"`
}

// DayResult is one step of the decay curve, all values rounded to 1 decimal.
type DayResult struct {
	Day                int     `json:"day"`
	SpoilageRate       float64 `json:"spoilage_rate"`
	CumulativeSpoilage float64 `json:"cumulative_spoilage"`
	RemainingQuality   float64 `json:"remaining_quality"`
}

// Factors breaks the daily rate into its four impact components.
type Factors struct {
	TemperatureImpact float64 `json:"temperature_impact"`
	HumidityImpact    float64 `json:"humidity_impact"`
	TransitImpact     float64 `json:"transit_impact"`
	WeatherImpact     float64 `json:"weather_impact"`
}

// OptimalConditions are fixed advisory constants returned with every
// simulation, not computed values.
type OptimalConditions struct {
	SuggestedTemp     string `json:"suggested_temp"`
	SuggestedHumidity string `json:"suggested_humidity"`
	MaxTransitHours   int    `json:"max_transit_hours"`
}

// SimulationResult is the full 7-day decay curve with its classification.
type SimulationResult struct {
	SimulationResults    []DayResult       `json:"simulation_results"`
	FinalSpoilagePercent float64           `json:"final_spoilage_percent"`
	RiskLevel            string            `json:"risk_level"`
	Recommendation       string            `json:"recommendation"`
	Factors              Factors           `json:"factors"`
	OptimalConditions    OptimalConditions `json:"optimal_conditions"`
}

// Simulate runs the deterministic 7-day spoilage simulation. Identical inputs
// always yield identical output.
func Simulate(in SimulationInput) SimulationResult {
	temp := valueOr(in.StorageTemp, 20)
	humidity := valueOr(in.StorageHumidity, 60)
	transit := valueOr(in.TransitHours, 0)
	initQuality := valueOr(in.InitialQuality, 1.0)

	tempImpact := tierImpact(temp, 10, 25, 30)
	humidityImpact := tierImpact(humidity, 40, 70, 80)

	var transitImpact float64
	switch {
	case transit > 12:
		transitImpact = 20
	case transit > 6:
		transitImpact = 12
	case transit > 3:
		transitImpact = 6
	default:
		transitImpact = 2
	}

	var weatherImpact float64
	for _, w := range in.Weather {
		if w.Temperature > 30 {
			weatherImpact += 10
		}
		if w.Humidity > 80 {
			weatherImpact += 8
		}
		if w.Rainfall > 20 {
			weatherImpact += 7
		}
	}
	weatherImpact = math.Min(20, weatherImpact)

	dailyRate := (tempImpact + humidityImpact + transitImpact + weatherImpact) / simulationDays

	days := make([]DayResult, 0, simulationDays)
	cumulative := 0.0
	for day := 1; day <= simulationDays; day++ {
		// Spoilage accelerates ~5% per elapsed day and is inversely scaled by
		// the starting quality.
		daily := dailyRate * (1 + float64(day-1)*0.05) * (2 - initQuality)
		cumulative = math.Min(100, cumulative+daily)
		days = append(days, DayResult{
			Day:                day,
			SpoilageRate:       round1(daily),
			CumulativeSpoilage: round1(cumulative),
			RemainingQuality:   round1(math.Max(0, 100-cumulative)),
		})
	}

	final := round1(cumulative)
	level, advice := classify(final)

	return SimulationResult{
		SimulationResults:    days,
		FinalSpoilagePercent: final,
		RiskLevel:            level,
		Recommendation:       advice,
		Factors: Factors{
			TemperatureImpact: tempImpact,
			HumidityImpact:    humidityImpact,
			TransitImpact:     transitImpact,
			WeatherImpact:     weatherImpact,
		},
		OptimalConditions: OptimalConditions{
			SuggestedTemp:     "4-10°C",
			SuggestedHumidity: "40-60%",
			MaxTransitHours:   6,
		},
	}
}

// tierImpact maps a reading to the shared {5,10,15,25} impact ladder given
// its three breakpoints (below low = 5, mid band = 10, above mid = 15, above
// high = 25).
func tierImpact(value, low, mid, high float64) float64 {
	switch {
	case value > high:
		return 25
	case value > mid:
		return 15
	case value < low:
		return 5
	default:
		return 10
	}
}

func classify(finalSpoilage float64) (level, advice string) {
	switch {
	case finalSpoilage > 50:
		return "CRITICAL", "Sell immediately"
	case finalSpoilage > 30:
		return "HIGH", "Sell within 2-3 days"
	case finalSpoilage > 15:
		return "MEDIUM", "Monitor closely, sell within 5 days"
	default:
		return "LOW", "Quality can be maintained for about a week with proper storage"
	}
}

func valueOr(v *float64, fallback float64) float64 {
	if v == nil {
		return fallback
	}
	return *v
}

func round1(x float64) float64 {
	return math.Round(x*10) / 10
}

func round2(x float64) float64 {
	return math.Round(x*100) / 100
}

package spoilage

import (
	"testing"

	"agri-advisor/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fp(v float64) *float64 { return &v }

func TestEstimateRisk_NoDataPrior(t *testing.T) {
	assert.Equal(t, 0.25, EstimateRisk(nil))
	assert.Equal(t, 0.25, EstimateRisk([]model.WeatherData{}))
}

func TestEstimateRisk_WorstDayDominates(t *testing.T) {
	window := []model.WeatherData{
		{Humidity: 50, Rainfall: 0},  // 0.30
		{Humidity: 90, Rainfall: 40}, // 0.70
		{Humidity: 60, Rainfall: 10}, // 0.40
	}
	assert.Equal(t, 0.7, EstimateRisk(window))
}

func TestEstimateRisk_CappedAtOne(t *testing.T) {
	window := []model.WeatherData{{Humidity: 200, Rainfall: 300}}
	assert.Equal(t, 1.0, EstimateRisk(window))
}

func TestEstimateRisk_AlwaysInUnitInterval(t *testing.T) {
	windows := [][]model.WeatherData{
		nil,
		{{Humidity: 0, Rainfall: 0}},
		{{Humidity: 100, Rainfall: 100}},
		{{Humidity: 45.5, Rainfall: 12.3}, {Humidity: 88, Rainfall: 0}},
	}
	for _, w := range windows {
		risk := EstimateRisk(w)
		assert.GreaterOrEqual(t, risk, 0.0)
		assert.LessOrEqual(t, risk, 1.0)
	}
}

func TestAdjustRisk(t *testing.T) {
	tests := []struct {
		name     string
		baseRisk float64
		cond     StorageConditions
		expected float64
	}{
		{
			name:     "no conditions leaves base untouched",
			baseRisk: 0.4,
			cond:     StorageConditions{},
			expected: 0.4,
		},
		{
			name:     "hot storage stacks both temperature deltas",
			baseRisk: 0.3,
			cond:     StorageConditions{Temperature: fp(32)},
			expected: 0.46,
		},
		{
			name:     "warm but not hot adds one delta",
			baseRisk: 0.3,
			cond:     StorageConditions{Temperature: fp(27)},
			expected: 0.38,
		},
		{
			name:     "cold storage reduces risk",
			baseRisk: 0.3,
			cond:     StorageConditions{Temperature: fp(5)},
			expected: 0.25,
		},
		{
			name:     "humid storage adds",
			baseRisk: 0.3,
			cond:     StorageConditions{Humidity: fp(85)},
			expected: 0.38,
		},
		{
			name:     "dry storage subtracts",
			baseRisk: 0.3,
			cond:     StorageConditions{Humidity: fp(30)},
			expected: 0.27,
		},
		{
			name:     "long transit stacks both deltas",
			baseRisk: 0.3,
			cond:     StorageConditions{TransitHours: fp(14)},
			expected: 0.43,
		},
		{
			name:     "clamps to 1.0 at the extremes",
			baseRisk: 0.95,
			cond:     StorageConditions{Temperature: fp(35), Humidity: fp(90), TransitHours: fp(20)},
			expected: 1.0,
		},
		{
			name:     "clamps to 0.0 below",
			baseRisk: 0.02,
			cond:     StorageConditions{Temperature: fp(5), Humidity: fp(20)},
			expected: 0.0,
		},
		{
			name:     "zero-value inputs are applied, not skipped",
			baseRisk: 0.3,
			cond:     StorageConditions{Temperature: fp(0), Humidity: fp(0)},
			expected: 0.22,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := AdjustRisk(tt.baseRisk, tt.cond)
			assert.Equal(t, tt.expected, got)
			assert.GreaterOrEqual(t, got, 0.0)
			assert.LessOrEqual(t, got, 1.0)
		})
	}
}

func TestSimulate_Defaults(t *testing.T) {
	res := Simulate(SimulationInput{CropType: "vegetable", Quantity: 100})

	// Defaults: 20°C (impact 10), 60% humidity (impact 10), no transit
	// (impact 2), no weather.
	assert.Equal(t, 10.0, res.Factors.TemperatureImpact)
	assert.Equal(t, 10.0, res.Factors.HumidityImpact)
	assert.Equal(t, 2.0, res.Factors.TransitImpact)
	assert.Equal(t, 0.0, res.Factors.WeatherImpact)
	require.Len(t, res.SimulationResults, 7)
	assert.Equal(t, "MEDIUM", res.RiskLevel)
}

func TestSimulate_ImpactTiers(t *testing.T) {
	tests := []struct {
		name        string
		input       SimulationInput
		wantFactors Factors
	}{
		{
			name:        "cold dry quick",
			input:       SimulationInput{StorageTemp: fp(5), StorageHumidity: fp(30), TransitHours: fp(1)},
			wantFactors: Factors{TemperatureImpact: 5, HumidityImpact: 5, TransitImpact: 2},
		},
		{
			name:        "hot humid long haul",
			input:       SimulationInput{StorageTemp: fp(35), StorageHumidity: fp(85), TransitHours: fp(15)},
			wantFactors: Factors{TemperatureImpact: 25, HumidityImpact: 25, TransitImpact: 20},
		},
		{
			name:        "upper mid band",
			input:       SimulationInput{StorageTemp: fp(28), StorageHumidity: fp(75), TransitHours: fp(5)},
			wantFactors: Factors{TemperatureImpact: 15, HumidityImpact: 15, TransitImpact: 6},
		},
		{
			name:        "short transit tier",
			input:       SimulationInput{TransitHours: fp(4)},
			wantFactors: Factors{TemperatureImpact: 10, HumidityImpact: 10, TransitImpact: 6},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := Simulate(tt.input)
			assert.Equal(t, tt.wantFactors.TemperatureImpact, res.Factors.TemperatureImpact)
			assert.Equal(t, tt.wantFactors.HumidityImpact, res.Factors.HumidityImpact)
			assert.Equal(t, tt.wantFactors.TransitImpact, res.Factors.TransitImpact)
		})
	}
}

func TestSimulate_WeatherImpactCapped(t *testing.T) {
	weather := []model.WeatherData{
		{Temperature: 35, Humidity: 90, Rainfall: 30}, // 10+8+7 = 25, capped
		{Temperature: 35, Humidity: 90, Rainfall: 30},
	}
	res := Simulate(SimulationInput{Weather: weather})
	assert.Equal(t, 20.0, res.Factors.WeatherImpact)
}

func TestSimulate_Idempotent(t *testing.T) {
	in := SimulationInput{
		CropType:        "tomato",
		Quantity:        250,
		InitialQuality:  fp(0.9),
		StorageTemp:     fp(28),
		StorageHumidity: fp(75),
		TransitHours:    fp(8),
		Weather:         []model.WeatherData{{Temperature: 32, Humidity: 85, Rainfall: 25}},
	}
	first := Simulate(in)
	second := Simulate(in)
	assert.Equal(t, first, second)
}

func TestSimulate_Monotonic(t *testing.T) {
	inputs := []SimulationInput{
		{},
		{StorageTemp: fp(35), StorageHumidity: fp(90), TransitHours: fp(20)},
		{InitialQuality: fp(0.5), StorageTemp: fp(28)},
		{Weather: []model.WeatherData{{Temperature: 40, Humidity: 95, Rainfall: 50}}},
	}

	for _, in := range inputs {
		res := Simulate(in)
		require.Len(t, res.SimulationResults, 7)
		for i := 1; i < len(res.SimulationResults); i++ {
			prev := res.SimulationResults[i-1]
			cur := res.SimulationResults[i]
			assert.GreaterOrEqual(t, cur.CumulativeSpoilage, prev.CumulativeSpoilage)
			assert.LessOrEqual(t, cur.RemainingQuality, prev.RemainingQuality)
		}
	}
}

func TestSimulate_CumulativeCappedAtHundred(t *testing.T) {
	res := Simulate(SimulationInput{
		InitialQuality:  fp(0.0),
		StorageTemp:     fp(40),
		StorageHumidity: fp(95),
		TransitHours:    fp(24),
		Weather:         []model.WeatherData{{Temperature: 40, Humidity: 95, Rainfall: 60}},
	})
	last := res.SimulationResults[len(res.SimulationResults)-1]
	assert.LessOrEqual(t, last.CumulativeSpoilage, 100.0)
	assert.GreaterOrEqual(t, last.RemainingQuality, 0.0)
	assert.Equal(t, "CRITICAL", res.RiskLevel)
	assert.Equal(t, "Sell immediately", res.Recommendation)
}

func TestSimulate_Classification(t *testing.T) {
	// Low-impact scenario: cold, dry, short transit keeps day-7 spoilage
	// under the 15% MEDIUM threshold.
	res := Simulate(SimulationInput{StorageTemp: fp(5), StorageHumidity: fp(30), TransitHours: fp(1)})
	assert.Equal(t, "LOW", res.RiskLevel)

	// Worst-case storage with no weather lands in CRITICAL.
	res = Simulate(SimulationInput{StorageTemp: fp(35), StorageHumidity: fp(85), TransitHours: fp(15)})
	assert.Equal(t, "CRITICAL", res.RiskLevel)
}

func TestSimulate_AdvisoryConstants(t *testing.T) {
	res := Simulate(SimulationInput{})
	assert.Equal(t, "4-10°C", res.OptimalConditions.SuggestedTemp)
	assert.Equal(t, "40-60%", res.OptimalConditions.SuggestedHumidity)
	assert.Equal(t, 6, res.OptimalConditions.MaxTransitHours)
}

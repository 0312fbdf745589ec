// Package soil scores a farmer's measured soil chemistry against a crop's
// optimal ranges. No credit is given where suitability cannot be assessed.
package soil

import (
	"math"
	"regexp"
	"strconv"

	"agri-advisor/internal/model"
)

var numberPattern = regexp.MustCompile(`-?\d+(?:\.\d+)?`)

// Measurements are the farmer-supplied readings. Nil means not measured.
type Measurements struct {
	PH *float64 `json:"ph,omitempty"`
	N  *float64 `json:"n,omitempty"`
	P  *float64 `json:"p,omitempty"`
	K  *float64 `json:"k,omitempty"`
}

// RangeScore scores a single value against a free-text range containing two
// numbers, e.g. "6.0-7.5". Inside the range scores 1; outside it falls off
// linearly, normalized by the range's own bound to stay stable for small
// minimums. Missing value or an unparseable range scores 0.
func RangeScore(value *float64, rangeText string) float64 {
	if value == nil || rangeText == "" {
		return 0
	}
	nums := numberPattern.FindAllString(rangeText, -1)
	if len(nums) < 2 {
		return 0
	}
	min, err := strconv.ParseFloat(nums[0], 64)
	if err != nil {
		return 0
	}
	max, err := strconv.ParseFloat(nums[1], 64)
	if err != nil {
		return 0
	}

	v := *value
	switch {
	case v >= min && v <= max:
		return 1
	case v < min:
		return math.Max(0, 1-(min-v)/math.Max(min, 1))
	default:
		return math.Max(0, 1-(v-max)/math.Max(max, 1))
	}
}

// ScorePercent aggregates the four nutrient scores as an unweighted mean and
// reports it as an integer percent.
func ScorePercent(m Measurements, crop model.Crop) int {
	mean := (RangeScore(m.PH, crop.OptimalPHRange) +
		RangeScore(m.N, crop.OptimalNRange) +
		RangeScore(m.P, crop.OptimalPRange) +
		RangeScore(m.K, crop.OptimalKRange)) / 4
	return int(math.Round(mean * 100))
}

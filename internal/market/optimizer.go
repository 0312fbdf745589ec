// Package market picks the mandi to sell at and prices the trip. Selection is
// an ordered list of strategies evaluated in sequence; the first one with an
// opinion wins, and the last one never declines.
package market

import (
	"math"
	"sort"

	"agri-advisor/internal/model"
)

const (
	baseFee    = 500.0
	perKmRate  = 8.0
	perUnitFee = 5.0

	// Used when a candidate carries no distance and nothing better is known.
	defaultDistanceKm = 50.0

	// Terminal fallback so the orchestrator never returns an empty
	// recommendation.
	defaultMandiName = "Nearest Mandi"
	defaultPrice     = 2000.0
)

// EstimateTransportCost prices the haul: a fixed base fee plus per-km and
// per-unit linear terms, never negative.
func EstimateTransportCost(quantity, distanceKm float64) float64 {
	return math.Max(0, math.Round(baseFee+perKmRate*distanceKm+perUnitFee*quantity))
}

// CalculateProfit is gross revenue minus transport, rounded to the nearest
// currency unit. It may be negative and is not clamped.
func CalculateProfit(pricePerUnit, quantity, transportCost float64) float64 {
	return math.Round(pricePerUnit*quantity - transportCost)
}

// Selection is the chosen mandi with the rationale the explanation reports.
type Selection struct {
	MandiName  string
	Price      float64
	DistanceKm float64
	Source     string // "live", "stored", or "default"
	Rationale  string
}

type strategy func(live []model.MarketPrice, stored *model.MarketPrice) (Selection, bool)

// Strict priority order: live feed beats stored history beats the synthetic
// default.
var strategies = []strategy{selectLive, selectStored, selectDefault}

// SelectMandi evaluates the strategy chain and returns the first selection.
// It never fails; the terminal strategy synthesizes a plausible default.
func SelectMandi(live []model.MarketPrice, stored *model.MarketPrice) Selection {
	for _, s := range strategies {
		if sel, ok := s(live, stored); ok {
			return sel
		}
	}
	// Unreachable: selectDefault always accepts.
	sel, _ := selectDefault(nil, nil)
	return sel
}

// selectLive trusts fresh feed data over anything stored: highest price wins.
func selectLive(live []model.MarketPrice, _ *model.MarketPrice) (Selection, bool) {
	candidates := make([]model.MarketPrice, 0, len(live))
	for _, p := range live {
		if p.Price > 0 {
			candidates = append(candidates, p)
		}
	}
	if len(candidates) == 0 {
		return Selection{}, false
	}
	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].Price > candidates[j].Price
	})
	best := candidates[0]
	return Selection{
		MandiName:  best.MandiName,
		Price:      best.Price,
		DistanceKm: distanceOrDefault(best.DistanceKm),
		Source:     "live",
		Rationale:  "best live market price",
	}, true
}

// selectStored accepts the pre-ranked historical record. The stored-best
// query orders by recency first, then price, so recency wins over raw price.
func selectStored(_ []model.MarketPrice, stored *model.MarketPrice) (Selection, bool) {
	if stored == nil || stored.Price <= 0 {
		return Selection{}, false
	}
	return Selection{
		MandiName:  stored.MandiName,
		Price:      stored.Price,
		DistanceKm: distanceOrDefault(stored.DistanceKm),
		Source:     "stored",
		Rationale:  "most recent stored market price",
	}, true
}

func selectDefault(_ []model.MarketPrice, _ *model.MarketPrice) (Selection, bool) {
	return Selection{
		MandiName:  defaultMandiName,
		Price:      defaultPrice,
		DistanceKm: defaultDistanceKm,
		Source:     "default",
		Rationale:  "no market data available, using regional estimate",
	}, true
}

func distanceOrDefault(d *float64) float64 {
	if d == nil || *d <= 0 {
		return defaultDistanceKm
	}
	return *d
}

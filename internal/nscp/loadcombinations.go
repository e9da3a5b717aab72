package nscp

import "github.com/xcfem/xc-sub010/internal/fiber"

// LoadCombination represents an NSCP load combination
// Based on NSCP 2015 Section 203.3 - Load Combinations Using Strength Design
type LoadCombination struct {
	ID          string
	Description string
	// Load factors for each load type
	Dead       float64 // D - Dead load
	Live       float64 // L - Live load
	Roof       float64 // Lr - Roof live load
	Wind       float64 // W - Wind load
	Earthquake float64 // E - Earthquake load
	Rain       float64 // R - Rain load
}

// NSCP 2015 Section 203.3.1 - Basic Load Combinations
var LoadCombinations = []LoadCombination{
	{
		ID:          "1",
		Description: "1.4D",
		Dead:        1.4,
	},
	{
		ID:          "2",
		Description: "1.2D + 1.6L + 0.5(Lr or R)",
		Dead:        1.2,
		Live:        1.6,
		Roof:        0.5,
		Rain:        0.5,
	},
	{
		ID:          "3",
		Description: "1.2D + 1.6(Lr or R) + (1.0L or 0.5W)",
		Dead:        1.2,
		Live:        1.0,
		Roof:        1.6,
		Rain:        1.6,
		Wind:        0.5,
	},
	{
		ID:          "4",
		Description: "1.2D + 1.0W + 1.0L + 0.5(Lr or R)",
		Dead:        1.2,
		Live:        1.0,
		Wind:        1.0,
		Roof:        0.5,
		Rain:        0.5,
	},
	{
		ID:          "5",
		Description: "1.2D + 1.0E + 1.0L",
		Dead:        1.2,
		Live:        1.0,
		Earthquake:  1.0,
	},
	{
		ID:          "6",
		Description: "0.9D + 1.0W",
		Dead:        0.9,
		Wind:        1.0,
	},
	{
		ID:          "7",
		Description: "0.9D + 1.0E",
		Dead:        0.9,
		Earthquake:  1.0,
	},
}

// SimplifiedCombinations for gravity-only members
var SimplifiedCombinations = []LoadCombination{
	{
		ID:          "1",
		Description: "1.4D",
		Dead:        1.4,
	},
	{
		ID:          "2",
		Description: "1.2D + 1.6L",
		Dead:        1.2,
		Live:        1.6,
	},
}

// LoadEffects holds the unfactored section forces (N, My, Mz) of each load
// type, in N and N·m
type LoadEffects struct {
	Dead       fiber.Resultant `json:"dead" yaml:"dead"`
	Live       fiber.Resultant `json:"live" yaml:"live"`
	Roof       fiber.Resultant `json:"roof" yaml:"roof"`
	Wind       fiber.Resultant `json:"wind" yaml:"wind"`
	Earthquake fiber.Resultant `json:"earthquake" yaml:"earthquake"`
	Rain       fiber.Resultant `json:"rain" yaml:"rain"`
}

// IsZero tells whether no load effect was given
func (e LoadEffects) IsZero() bool {
	return e.Dead.IsZero() && e.Live.IsZero() && e.Roof.IsZero() &&
		e.Wind.IsZero() && e.Earthquake.IsZero() && e.Rain.IsZero()
}

// Factored calculates the factored section forces for the combination
func (lc LoadCombination) Factored(e LoadEffects) fiber.Resultant {
	return e.Dead.Scale(lc.Dead).
		Add(e.Live.Scale(lc.Live)).
		Add(e.Roof.Scale(lc.Roof)).
		Add(e.Wind.Scale(lc.Wind)).
		Add(e.Earthquake.Scale(lc.Earthquake)).
		Add(e.Rain.Scale(lc.Rain))
}

// Reversed returns the combination with lateral loads (W, E) acting in the
// opposite direction, or false if it has no lateral load
func (lc LoadCombination) Reversed() (LoadCombination, bool) {
	if lc.Wind == 0 && lc.Earthquake == 0 {
		return lc, false
	}
	lc.ID += "'"
	lc.Description += " (reversed W/E)"
	lc.Wind, lc.Earthquake = -lc.Wind, -lc.Earthquake
	return lc, true
}

// WithReversals appends the reversed variant of every combination having
// lateral loads
func WithReversals(combinations []LoadCombination) []LoadCombination {
	res := make([]LoadCombination, 0, 2*len(combinations))
	for _, lc := range combinations {
		res = append(res, lc)
		if rev, ok := lc.Reversed(); ok {
			res = append(res, rev)
		}
	}
	return res
}

// FactoredEffect is the outcome of one combination
type FactoredEffect struct {
	Combination LoadCombination
	Forces      fiber.Resultant
}

// Combine evaluates every combination
func Combine(e LoadEffects, combinations []LoadCombination) []FactoredEffect {
	res := make([]FactoredEffect, len(combinations))
	for i, lc := range combinations {
		res[i] = FactoredEffect{lc, lc.Factored(e)}
	}
	return res
}

// Governing finds the combination maximising measure
func Governing(e LoadEffects, combinations []LoadCombination, measure func(fiber.Resultant) float64) (FactoredEffect, bool) {
	var best FactoredEffect
	var found bool
	var maxValue float64
	for _, fe := range Combine(e, combinations) {
		v := measure(fe.Forces)
		if !found || v > maxValue {
			best, maxValue, found = fe, v, true
		}
	}
	return best, found
}

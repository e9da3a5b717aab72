package check

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/xcfem/xc-sub010/internal/nscp"
)

// Element holds the forces acting on one member section, either as
// unfactored load effects to combine or as explicit factored demands
type Element struct {
	Name    string           `json:"name" yaml:"name"`
	Effects nscp.LoadEffects `json:"effects" yaml:"effects"`
	Demands []Demand         `json:"demands" yaml:"demands"`
}

// DemandFile is the content of a demands file
type DemandFile struct {
	// Combinations selects the combination set applied to load effects:
	// "nscp" (default) or "simplified"
	Combinations string    `json:"combinations" yaml:"combinations"`
	Reversals    bool      `json:"reversals" yaml:"reversals"` // add reversed W/E combinations
	Elements     []Element `json:"elements" yaml:"elements"`
}

// LoadDemands reads a JSON or YAML demands file and expands it
func LoadDemands(path string) ([]Demand, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var f DemandFile
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &f)
	default:
		err = json.Unmarshal(data, &f)
	}
	if err != nil {
		return nil, fmt.Errorf("cannot parse %s: %w", path, err)
	}
	return f.Expand()
}

// CombinationSet returns the load combinations selected by name
func CombinationSet(name string, reversals bool) ([]nscp.LoadCombination, error) {
	var set []nscp.LoadCombination
	switch strings.ToLower(name) {
	case "", "nscp":
		set = nscp.LoadCombinations
	case "simplified":
		set = nscp.SimplifiedCombinations
	default:
		return nil, fmt.Errorf("unknown combination set %q", name)
	}
	if reversals {
		set = nscp.WithReversals(set)
	}
	return set, nil
}

// Expand returns the explicit demands of every element followed by its
// factored load effects. Elements without names are numbered.
func (o *DemandFile) Expand() ([]Demand, error) {
	combos, err := CombinationSet(o.Combinations, o.Reversals)
	if err != nil {
		return nil, err
	}
	var res []Demand
	for i, e := range o.Elements {
		name := e.Name
		if name == "" {
			name = fmt.Sprintf("E%d", i+1)
		}
		for k, d := range e.Demands {
			d.Element = name
			if d.Combination == "" {
				d.Combination = fmt.Sprintf("D%d", k+1)
			}
			res = append(res, d)
		}
		if e.Effects.IsZero() {
			continue
		}
		for _, fe := range nscp.Combine(e.Effects, combos) {
			res = append(res, Demand{Element: name, Combination: fe.Combination.ID, Forces: fe.Forces})
		}
	}
	if len(res) == 0 {
		return nil, fmt.Errorf("no demands defined")
	}
	return res, nil
}

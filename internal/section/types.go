package section

import "fmt"

// Definition describes a reinforced cross-section as drawn by the engineer.
// The section is defined in a local coordinate system where:
// - Y-axis points to the right (width direction)
// - Z-axis points upward (depth direction)
// - Origin can be at any convenient location
//
// Geometry is given in metres, material strengths in MPa.
type Definition struct {
	Name        string `json:"name" yaml:"name"`
	Description string `json:"description,omitempty" yaml:"description,omitempty"`

	Materials []MaterialDef `json:"materials" yaml:"materials"`

	// Concrete (or any other bulk material) regions
	Regions []Region `json:"regions" yaml:"regions"`

	// Reinforcement
	Layers []Layer `json:"layers,omitempty" yaml:"layers,omitempty"`
	Bars   []Bar   `json:"bars,omitempty" yaml:"bars,omitempty"`
}

// Point represents a 2D coordinate in the section plane
type Point struct {
	Y float64 `json:"y" yaml:"y"` // m
	Z float64 `json:"z" yaml:"z"` // m
}

// MaterialDef names a material law. Type is one of "concrete", "steel",
// "elastic" or "multilinear"; only the parameters of that type are read.
type MaterialDef struct {
	Name string `json:"name" yaml:"name"`
	Type string `json:"type" yaml:"type"`
	Code string `json:"code,omitempty" yaml:"code,omitempty"` // EC2, EHE or NSCP

	// concrete
	Fck     float64 `json:"fck,omitempty" yaml:"fck,omitempty"`
	GammaC  float64 `json:"gamma_c,omitempty" yaml:"gamma_c,omitempty"`
	AlphaCC float64 `json:"alpha_cc,omitempty" yaml:"alpha_cc,omitempty"`

	// reinforcing steel
	Fyk      float64 `json:"fyk,omitempty" yaml:"fyk,omitempty"`
	GammaS   float64 `json:"gamma_s,omitempty" yaml:"gamma_s,omitempty"`
	Es       float64 `json:"es,omitempty" yaml:"es,omitempty"` // MPa
	EpsUK    float64 `json:"eps_uk,omitempty" yaml:"eps_uk,omitempty"`
	K        float64 `json:"k,omitempty" yaml:"k,omitempty"`
	EpsLimit float64 `json:"eps_limit,omitempty" yaml:"eps_limit,omitempty"`

	// elastic and multilinear (MPa)
	E      float64       `json:"e,omitempty" yaml:"e,omitempty"`
	EpsMin float64       `json:"eps_min,omitempty" yaml:"eps_min,omitempty"`
	EpsMax float64       `json:"eps_max,omitempty" yaml:"eps_max,omitempty"`
	Points []StressPoint `json:"points,omitempty" yaml:"points,omitempty"`
	B      float64       `json:"b,omitempty" yaml:"b,omitempty"`
}

// StressPoint is a multilinear breakpoint; stress in MPa. Points with
// negative strain give the law its own compressive branch.
type StressPoint struct {
	Strain float64 `json:"strain" yaml:"strain"`
	Stress float64 `json:"stress" yaml:"stress"`
}

// Region is a bulk-material area discretized into fibers.
//
// A "quad" region has four vertices I, J, K, L and is divided into
// NDivIJ x NDivJK cells by bilinear interpolation. A "polygon" region is
// overlaid with a square grid of side Cell and every grid cell is clipped
// to the polygon.
type Region struct {
	Material string  `json:"material" yaml:"material"`
	Type     string  `json:"type,omitempty" yaml:"type,omitempty"` // quad (default) or polygon
	Vertices []Point `json:"vertices" yaml:"vertices"`
	NDivIJ   int     `json:"ndiv_ij,omitempty" yaml:"ndiv_ij,omitempty"`
	NDivJK   int     `json:"ndiv_jk,omitempty" yaml:"ndiv_jk,omitempty"`
	Cell     float64 `json:"cell,omitempty" yaml:"cell,omitempty"` // m
}

// Layer is a straight row of N equal bars from From to To (both included)
type Layer struct {
	Material    string  `json:"material" yaml:"material"`
	N           int     `json:"n" yaml:"n"`
	Diameter    float64 `json:"diameter" yaml:"diameter"` // m
	From        Point   `json:"from" yaml:"from"`
	To          Point   `json:"to" yaml:"to"`
	Description string  `json:"description,omitempty" yaml:"description,omitempty"`
}

// Bar is a single reinforcing bar
type Bar struct {
	Material string  `json:"material" yaml:"material"`
	Diameter float64 `json:"diameter" yaml:"diameter"` // m
	Y        float64 `json:"y" yaml:"y"`
	Z        float64 `json:"z" yaml:"z"`
}

// Validate checks if the section definition is valid
func (s *Definition) Validate() error {
	if len(s.Regions) == 0 && len(s.Layers) == 0 && len(s.Bars) == 0 {
		return &ValidationError{"section must have at least one region or bar"}
	}
	names := make(map[string]bool)
	for i, m := range s.Materials {
		if m.Name == "" {
			return &ValidationError{fmt.Sprintf("material %d has no name", i+1)}
		}
		if names[m.Name] {
			return &ValidationError{fmt.Sprintf("material %q is defined twice", m.Name)}
		}
		names[m.Name] = true
		switch m.Type {
		case "concrete", "steel", "elastic", "multilinear":
		default:
			return &ValidationError{fmt.Sprintf("material %q has unknown type %q", m.Name, m.Type)}
		}
	}
	for i, r := range s.Regions {
		if !names[r.Material] {
			return &ValidationError{fmt.Sprintf("region %d uses undefined material %q", i+1, r.Material)}
		}
		switch r.Type {
		case "", "quad":
			if len(r.Vertices) != 4 {
				return &ValidationError{fmt.Sprintf("quad region %d must have 4 vertices", i+1)}
			}
			if r.NDivIJ < 1 || r.NDivJK < 1 {
				return &ValidationError{fmt.Sprintf("quad region %d must have positive divisions", i+1)}
			}
		case "polygon":
			if len(r.Vertices) < 3 {
				return &ValidationError{fmt.Sprintf("polygon region %d must have at least 3 vertices", i+1)}
			}
			if r.Cell <= 0 {
				return &ValidationError{fmt.Sprintf("polygon region %d must have a positive cell size", i+1)}
			}
		default:
			return &ValidationError{fmt.Sprintf("region %d has unknown type %q", i+1, r.Type)}
		}
		if Polygon(r.Vertices).Area() <= 0 {
			return &ValidationError{fmt.Sprintf("region %d has zero area", i+1)}
		}
	}
	for i, l := range s.Layers {
		if !names[l.Material] {
			return &ValidationError{fmt.Sprintf("reinforcement layer %d uses undefined material %q", i+1, l.Material)}
		}
		if l.N < 1 || l.Diameter <= 0 {
			return &ValidationError{fmt.Sprintf("reinforcement layer %d must have positive bar count and diameter", i+1)}
		}
	}
	for i, b := range s.Bars {
		if !names[b.Material] {
			return &ValidationError{fmt.Sprintf("bar %d uses undefined material %q", i+1, b.Material)}
		}
		if b.Diameter <= 0 {
			return &ValidationError{fmt.Sprintf("bar %d must have positive diameter", i+1)}
		}
	}
	return nil
}

// ValidationError represents a section validation error
type ValidationError struct {
	msg string
}

func (e *ValidationError) Error() string {
	return e.msg
}

package section

import (
	"encoding/json"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/xcfem/xc-sub010/internal/fiber"
)

// LoadFromFile loads a section definition from a JSON or YAML file
func LoadFromFile(path string) (*Definition, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var def Definition
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &def)
	default:
		err = json.Unmarshal(data, &def)
	}
	if err != nil {
		return nil, fmt.Errorf("cannot parse %s: %w", path, err)
	}

	if err := def.Validate(); err != nil {
		return nil, err
	}

	return &def, nil
}

// AnalysisResult holds the response of a built section to one plane
type AnalysisResult struct {
	Plane     fiber.Plane
	Resultant fiber.Resultant

	// Extreme strains over all fibers and over the concrete fibers
	MinStrain, MaxStrain float64
	MinConcreteStrain    float64

	// Neutral axis depth measured from the most compressed fiber along the
	// strain gradient (m); +Inf for uniform planes
	NeutralAxisDepth float64

	// Steel bar details
	Bars []BarResult

	// Fibers outside their material domain
	Exceeded int
}

// BarResult holds analysis results for each reinforcing bar
type BarResult struct {
	Tag        int
	Y, Z       float64
	Area       float64 // m²
	Strain     float64
	Stress     float64 // Pa
	Force      float64 // N
	IsTension  bool
	HasYielded bool
}

// Analyze imposes plane p on the model
func (o *Model) Analyze(p fiber.Plane) *AnalysisResult {
	sec := o.Section
	st := fiber.NewState(sec)
	sec.SetDeformation(st, p)
	return o.Report(st, p)
}

// Report summarises a state already set on the model's section
func (o *Model) Report(st *fiber.State, p fiber.Plane) *AnalysisResult {
	sec := o.Section
	res := &AnalysisResult{
		Plane:             p,
		Resultant:         sec.StressResultant(st),
		MinStrain:         math.Inf(1),
		MaxStrain:         math.Inf(-1),
		MinConcreteStrain: math.NaN(),
		Exceeded:          len(st.Exceeded),
	}
	var sMin, sMax float64 = math.Inf(1), math.Inf(-1)
	gy, gz := -p.Kz, p.Ky // strain gradient
	g := math.Hypot(gy, gz)
	for i := 0; i < sec.Len(); i++ {
		f := sec.Fiber(i)
		eps := st.Strain[i]
		res.MinStrain = math.Min(res.MinStrain, eps)
		res.MaxStrain = math.Max(res.MaxStrain, eps)
		if f.Mat.IsConcrete() && !(eps >= res.MinConcreteStrain) {
			res.MinConcreteStrain = eps
		}
		if g > 0 {
			s := (f.Y*gy + f.Z*gz) / g
			sMin = math.Min(sMin, s)
			sMax = math.Max(sMax, s)
		}
	}
	res.NeutralAxisDepth = math.Inf(1)
	if g > 0 {
		// strain decreases towards sMin; depth measured from there
		eps0 := p.Eps0 + g*sMin
		if eps0 < 0 {
			res.NeutralAxisDepth = -eps0 / g
		} else {
			res.NeutralAxisDepth = 0
		}
	}

	for _, b := range o.Bars {
		eps := st.Strain[b.Index]
		law := sec.Fiber(b.Index).Mat
		sig := st.Stress[b.Index]
		res.Bars = append(res.Bars, BarResult{
			Tag:        b.Tag,
			Y:          b.Y,
			Z:          b.Z,
			Area:       b.Area,
			Strain:     eps,
			Stress:     sig,
			Force:      sig * b.Area,
			IsTension:  eps > 0,
			HasYielded: law.Fy > 0 && math.Abs(eps) >= law.Fy/law.E,
		})
	}
	return res
}

// ScaleReinforcement returns a copy of the definition whose bar areas are
// multiplied by factor (diameters scale with its square root)
func (s *Definition) ScaleReinforcement(factor float64) *Definition {
	k := math.Sqrt(factor)
	res := *s
	res.Layers = make([]Layer, len(s.Layers))
	for i, l := range s.Layers {
		l.Diameter *= k
		res.Layers[i] = l
	}
	res.Bars = make([]Bar, len(s.Bars))
	for i, b := range s.Bars {
		b.Diameter *= k
		res.Bars[i] = b
	}
	return &res
}

// Package crack computes characteristic crack widths of reinforced concrete
// sections following EHE-08 art. 49.2.4
package crack

import (
	"context"
	"errors"
	"fmt"
	"math"

	"github.com/cpmech/gosl/io"

	"github.com/xcfem/xc-sub010/internal/fiber"
	"github.com/xcfem/xc-sub010/internal/material"
	"github.com/xcfem/xc-sub010/internal/section"
	"github.com/xcfem/xc-sub010/internal/solver"
)

// ErrNoConcrete is returned when the model has no concrete material
var ErrNoConcrete = errors.New("section has no concrete material")

// Options holds the crack width coefficients
type Options struct {
	Beta float64 `json:"beta" yaml:"beta"` // 1.7 for direct actions, 1.3 for imposed deformations
	K2   float64 `json:"k2" yaml:"k2"`     // 1.0 for instantaneous loads, 0.5 otherwise
}

// SetDefault sets default values
func (o *Options) SetDefault() {
	if o.Beta == 0 {
		o.Beta = 1.7
	}
	if o.K2 == 0 {
		o.K2 = 0.5
	}
}

// Params are the inputs of the crack width formula. Lengths in m, stresses
// in Pa.
type Params struct {
	Cover    float64 // clear cover of the tensioned bars
	Spacing  float64 // distance between tensioned bars
	Diameter float64
	K1       float64 // strain distribution coefficient
	AcEff    float64 // effective concrete area in tension
	As       float64 // area of the tensioned bars
	SigmaS   float64 // steel stress in the cracked section
	SigmaSR  float64 // steel stress just after cracking
	Es       float64
}

// MeanSpacing returns sm = 2c + 0.2s + 0.4·k1·Ø·Ac,eff/As
func (p Params) MeanSpacing() float64 {
	return 2*p.Cover + 0.2*p.Spacing + 0.4*p.K1*p.Diameter*p.AcEff/p.As
}

// MeanStrain returns εsm = σs/Es·[1 - k2·(σsr/σs)²], not less than 0.4·σs/Es
func (p Params) MeanStrain(k2 float64) float64 {
	e := p.SigmaS / p.Es
	if p.SigmaS == 0 {
		return 0
	}
	r := p.SigmaSR / p.SigmaS
	return math.Max(e*(1-k2*r*r), 0.4*e)
}

// Result holds the crack width and its intermediate values
type Result struct {
	Params
	Sm      float64 // mean crack spacing
	EpsSm   float64 // mean steel elongation
	Wk      float64 // characteristic crack width (m)
	Cracked bool
	Plane   fiber.Plane // cracked section plane
}

// Width evaluates wk = β·sm·εsm
func (p Params) Width(opts Options) *Result {
	opts.SetDefault()
	res := &Result{Params: p, Cracked: true}
	res.Sm = p.MeanSpacing()
	res.EpsSm = p.MeanStrain(opts.K2)
	res.Wk = opts.Beta * res.Sm * res.EpsSm
	return res
}

// Analyzer computes crack widths of a built section. The model should use
// characteristic ("k") material diagrams.
type Analyzer struct {
	Model    *section.Model
	Concrete material.Concrete
	Opts     Options
	Solver   solver.Options
}

// NewAnalyzer takes the concrete properties from the first concrete material
// of the model definition
func NewAnalyzer(m *section.Model) (*Analyzer, error) {
	for _, md := range m.Def.Materials {
		if md.Type != "concrete" {
			continue
		}
		code := material.Code(md.Code)
		if code != material.EHE {
			code = material.EC2
		}
		o := &Analyzer{Model: m, Concrete: material.NewConcrete(code, md.Fck)}
		o.Concrete.Name = md.Name
		o.Opts.SetDefault()
		o.Solver.SetDefault()
		return o, nil
	}
	return nil, ErrNoConcrete
}

// Analyze solves the cracked section under demand and evaluates the crack
// width at the tensioned bars. A section without tensioned bars, or whose
// homogenized concrete stress stays below fctm, has zero width.
func (o *Analyzer) Analyze(ctx context.Context, demand fiber.Resultant) (*Result, error) {
	sec := o.Model.Section
	nwt := solver.NewNewton(&o.Solver)
	sol, err := nwt.Solve(ctx, sec, demand, solver.ElasticGuess(sec, demand))
	if err != nil {
		return nil, fmt.Errorf("cracked section: %w", err)
	}
	res := &Result{Plane: sol.Plane}

	// tensioned bars
	var tens []section.BarInfo
	for _, b := range o.Model.Bars {
		if sol.State.Strain[b.Index] > 0 {
			tens = append(tens, b)
		}
	}
	if len(tens) == 0 {
		return res, nil
	}
	p := &res.Params
	props := o.Model.Props
	p.Cover = math.Inf(1)
	for _, b := range tens {
		sig := sol.State.Stress[b.Index]
		if sig > p.SigmaS {
			p.SigmaS = sig
			p.Es = sec.Fiber(b.Index).Mat.E
		}
		p.Diameter = math.Max(p.Diameter, b.Diameter)
		p.As += b.Area
		c := math.Min(math.Min(b.Y-props.MinY, props.MaxY-b.Y), math.Min(b.Z-props.MinZ, props.MaxZ-b.Z))
		p.Cover = math.Min(p.Cover, c-b.Diameter/2)
	}
	p.Spacing = spacing(tens, 15*p.Diameter)

	// strain distribution and effective area over the concrete in tension
	eps1, eps2 := math.Inf(-1), math.Inf(1)
	for i := 0; i < sec.Len(); i++ {
		f := sec.Fiber(i)
		if !f.Mat.IsConcrete() {
			continue
		}
		eps := sol.State.Strain[i]
		eps1 = math.Max(eps1, eps)
		eps2 = math.Min(eps2, eps)
		if eps < 0 {
			continue
		}
		for _, b := range tens {
			if math.Max(math.Abs(f.Y-b.Y), math.Abs(f.Z-b.Z)) <= 7.5*b.Diameter {
				p.AcEff += f.Area
				break
			}
		}
	}
	if eps1 > 0 {
		p.K1 = (eps1 + math.Max(eps2, 0)) / (8 * eps1)
	}

	// cracking from the homogenized section
	sigCt, err := o.homogenizedTension(demand)
	if err != nil {
		return nil, err
	}
	fctm := o.Concrete.Fctm() * 1e6
	if sigCt < fctm {
		if o.Solver.Verbose {
			io.Pforan("uncracked: σct = %g < fctm = %g\n", sigCt, fctm)
		}
		return res, nil
	}
	p.SigmaSR = p.SigmaS * fctm / sigCt

	w := p.Width(o.Opts)
	w.Plane = sol.Plane
	return w, nil
}

// homogenizedTension returns the largest concrete tensile stress of the
// uncracked section (concrete Ecm, bars with their own modulus) under demand
func (o *Analyzer) homogenizedTension(demand fiber.Resultant) (float64, error) {
	sec := o.Model.Section
	ec := o.Concrete.Ecm() * 1e6
	conc, err := material.NewElastic("homogenized concrete", ec, 0, 0)
	if err != nil {
		return 0, err
	}
	laws := make(map[*material.Law]*material.Law)
	fibers := make([]fiber.Fiber, sec.Len())
	for i := range fibers {
		f := *sec.Fiber(i)
		if f.Mat.IsConcrete() {
			f.Mat = conc
		} else {
			el, ok := laws[f.Mat]
			if !ok {
				el, err = material.NewElastic(f.Mat.Name, f.Mat.E, 0, 0)
				if err != nil {
					return 0, err
				}
				laws[f.Mat] = el
			}
			f.Mat = el
		}
		fibers[i] = f
	}
	hom, err := fiber.NewSection(sec.Name()+" homogenized", fibers)
	if err != nil {
		return 0, err
	}
	plane := solver.ElasticGuess(hom, demand)
	sig := math.Inf(-1)
	for i := 0; i < hom.Len(); i++ {
		f := hom.Fiber(i)
		if f.Mat == conc {
			sig = math.Max(sig, ec*f.StrainAt(plane))
		}
	}
	return sig, nil
}

// spacing returns the mean distance from each bar to its nearest neighbour,
// capped at smax; zero for a single bar
func spacing(bars []section.BarInfo, smax float64) float64 {
	if len(bars) < 2 {
		return 0
	}
	var sum float64
	for i, a := range bars {
		d := math.Inf(1)
		for j, b := range bars {
			if i != j {
				d = math.Min(d, math.Hypot(a.Y-b.Y, a.Z-b.Z))
			}
		}
		sum += math.Min(d, smax)
	}
	return sum / float64(len(bars))
}

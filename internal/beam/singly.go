// Package beam designs and analyses rectangular reinforced concrete beams
// under uniaxial bending. Dimensions are in mm, strengths in MPa and moments
// in kN·m; capacities come from strain compatibility on a fiber section
// with the NSCP 2015 concrete and steel diagrams.
package beam

import (
	"context"
	"fmt"
	"math"

	"github.com/xcfem/xc-sub010/internal/fiber"
	"github.com/xcfem/xc-sub010/internal/interaction"
	"github.com/xcfem/xc-sub010/internal/material"
	"github.com/xcfem/xc-sub010/internal/nscp"
	"github.com/xcfem/xc-sub010/internal/section"
	"github.com/xcfem/xc-sub010/internal/solver"
)

// Discretization of the concrete rectangle
const (
	NDivWidth = 10
	NDivDepth = 60
)

const (
	tensionControlledStrain = 0.005
	maxSteelRatio           = 0.08 // largest As/(b·h) tried by the designers
	designTol               = 0.005
	nmaxDesign              = 50
)

// SinglyReinforced represents a singly reinforced rectangular beam section
type SinglyReinforced struct {
	// Geometry (mm)
	Width          float64 // b - beam width
	Height         float64 // h - total depth
	EffectiveDepth float64 // d - effective depth (to centroid of tension steel)
	Cover          float64 // concrete cover to centroid of reinforcement

	// Materials (MPa)
	Fc float64 // f'c - concrete compressive strength
	Fy float64 // fy - steel yield strength

	// Loading (kN-m)
	Mu float64 // Factored moment

	// Reinforcement (mm²)
	As    float64 // Area of tension reinforcement
	NBars int     // bars the area is split into (3 if zero)
}

// NewSinglyReinforced creates a new singly reinforced beam with calculated effective depth
func NewSinglyReinforced(width, height, cover, fc, fy float64) *SinglyReinforced {
	return &SinglyReinforced{
		Width:          width,
		Height:         height,
		Cover:          cover,
		EffectiveDepth: height - cover,
		Fc:             fc,
		Fy:             fy,
	}
}

func (b *SinglyReinforced) validate() error {
	if b.Width <= 0 || b.EffectiveDepth <= 0 || b.EffectiveDepth >= b.Height {
		return fmt.Errorf("invalid beam dimensions: width=%.2f, h=%.2f, d=%.2f", b.Width, b.Height, b.EffectiveDepth)
	}
	if b.Fc <= 0 || b.Fy <= 0 {
		return fmt.Errorf("invalid material properties: f'c=%.2f, fy=%.2f", b.Fc, b.Fy)
	}
	return nil
}

// Definition returns the fiber section of the beam with tension steel as
// (mm²). The origin is at the centre of the rectangle, z upwards.
func (b *SinglyReinforced) Definition(as float64) *section.Definition {
	r := rectangle{width: b.Width, height: b.Height, fc: b.Fc, fy: b.Fy, nbars: b.NBars}
	return r.definition("singly", []steelRow{{depth: b.EffectiveDepth, area: as}})
}

// DesignResult holds the results of beam design
type DesignResult struct {
	// Reinforcement
	AsRequired float64 // Required steel area (mm²)
	AsMin      float64 // Minimum steel area (mm²)
	AsProvided float64 // Provided steel area (mm²)

	// Reinforcement ratios
	RhoRequired float64
	RhoMin      float64

	// Section state at nominal capacity
	C        float64 // Neutral axis depth (mm)
	EpsilonT float64 // Tensile strain
	Phi      float64 // Strength reduction factor

	// Capacity
	Mn    float64 // Nominal moment capacity (kN-m)
	PhiMn float64 // Design moment capacity (kN-m)

	// Status
	IsTensionControlled bool
	IsAdequate          bool
	Iterations          int
	Message             string

	// Section at φMn
	Model  *section.Model
	Report *section.AnalysisResult
}

// Design finds the tension steel for which φMn reaches the factored moment
// mu (kN·m). The area is updated in proportion to Mu/φMn, starting from the
// lever arm estimate 0.9d, and never drops below As,min.
func (b *SinglyReinforced) Design(ctx context.Context, mu float64) (*DesignResult, error) {
	b.Mu = mu
	if err := b.validate(); err != nil {
		return nil, err
	}
	if mu <= 0 {
		return nil, fmt.Errorf("invalid factored moment: Mu=%.2f", mu)
	}

	result := &DesignResult{}
	bd := b.Width * b.EffectiveDepth
	result.RhoMin = nscp.RhoMin(b.Fc, b.Fy)
	result.AsMin = result.RhoMin * bd
	asLimit := maxSteelRatio * b.Width * b.Height

	as := math.Max(mu*1e6/(nscp.PhiFlexure*b.Fy*0.9*b.EffectiveDepth), result.AsMin)
	var a *AnalysisResult
	for result.Iterations = 1; ; result.Iterations++ {
		var err error
		a, err = b.Analyze(ctx, as)
		if err != nil {
			return nil, err
		}
		if a.PhiMn >= mu && (a.PhiMn <= mu*(1+designTol) || as == result.AsMin) {
			break
		}
		if result.Iterations == nmaxDesign || (as >= asLimit && a.PhiMn < mu) {
			result.fill(a, as, bd)
			result.Message = fmt.Sprintf("Section inadequate for singly reinforced design. Mu=%.2f kN-m > φMn=%.2f kN-m with As=%.0f mm². Consider increasing section size or using doubly reinforced design.", mu, a.PhiMn, as)
			return result, nil
		}
		as = math.Min(math.Max(as*mu*(1+designTol/2)/a.PhiMn, result.AsMin), asLimit)
	}

	result.fill(a, as, bd)
	result.IsAdequate = true
	result.Message = "Design OK - Section is tension-controlled"
	if !result.IsTensionControlled {
		result.Message = "Design OK - Section is in transition zone"
	}
	if as == result.AsMin && a.PhiMn > mu*(1+designTol) {
		result.Message += " | As governed by minimum reinforcement"
	}
	return result, nil
}

func (r *DesignResult) fill(a *AnalysisResult, as, bd float64) {
	r.AsRequired = as
	r.AsProvided = as
	r.RhoRequired = as / bd
	r.C = a.C
	r.EpsilonT = a.EpsilonT
	r.Phi = a.Phi
	r.Mn = a.Mn
	r.PhiMn = a.PhiMn
	r.IsTensionControlled = a.IsTensionControlled
	r.Model = a.Model
	r.Report = a.Report
}

// AnalysisResult holds the results of beam analysis
type AnalysisResult struct {
	// Section state at nominal capacity
	C          float64 // Neutral axis depth (mm)
	EpsilonTop float64 // Strain of the top concrete fiber
	EpsilonT   float64 // Tensile strain
	Phi        float64 // Strength reduction factor
	Plane      fiber.Plane

	// Reinforcement ratios
	Rho    float64
	RhoMin float64

	// Capacity
	Mn    float64 // Nominal moment capacity (kN-m)
	PhiMn float64 // Design moment capacity (kN-m)

	// Status
	IsTensionControlled bool
	MeetsMinReinf       bool
	Message             string

	Model  *section.Model
	Report *section.AnalysisResult
}

// Analyze calculates the moment capacity for a given reinforcement area
func (b *SinglyReinforced) Analyze(ctx context.Context, as float64) (*AnalysisResult, error) {
	b.As = as
	if err := b.validate(); err != nil {
		return nil, err
	}
	if as <= 0 {
		return nil, fmt.Errorf("invalid reinforcement area: As=%.2f", as)
	}

	result, err := nominal(ctx, b.Definition(as), as*b.Fy*0.9*b.EffectiveDepth/1e6)
	if err != nil {
		return nil, err
	}
	result.RhoMin = nscp.RhoMin(b.Fc, b.Fy)
	result.Rho = as / (b.Width * b.EffectiveDepth)
	result.MeetsMinReinf = result.Rho >= result.RhoMin
	result.Message = controlMessage(result, b.Fy)
	if !result.MeetsMinReinf {
		result.Message += " | WARNING: Below minimum reinforcement"
	}
	return result, nil
}

func controlMessage(r *AnalysisResult, fy float64) string {
	if r.IsTensionControlled {
		return "Section is tension-controlled (εt ≥ 0.005)"
	} else if r.EpsilonT >= fy/nscp.Es {
		return "Section is in transition zone"
	}
	return "Section is compression-controlled (εt < εy)"
}

// steelRow is a row of bars at depth (mm from the top) with total area (mm²)
type steelRow struct {
	depth float64
	area  float64
}

type rectangle struct {
	width, height float64
	fc, fy        float64
	nbars         int
}

func (r rectangle) definition(name string, rows []steelRow) *section.Definition {
	const mm = 1e-3
	b, h := r.width*mm, r.height*mm
	n := r.nbars
	if n < 1 {
		n = 3
	}
	def := &section.Definition{
		Name: name,
		Materials: []section.MaterialDef{
			{Name: "concrete", Type: "concrete", Code: string(material.NSCP), Fck: r.fc},
			{Name: "steel", Type: "steel", Code: string(material.NSCP), Fyk: r.fy},
		},
		Regions: []section.Region{{
			Material: "concrete",
			Vertices: []section.Point{{Y: -b / 2, Z: -h / 2}, {Y: b / 2, Z: -h / 2}, {Y: b / 2, Z: h / 2}, {Y: -b / 2, Z: h / 2}},
			NDivIJ:   NDivWidth,
			NDivJK:   NDivDepth,
		}},
	}
	for _, row := range rows {
		if row.area <= 0 {
			continue
		}
		z := h/2 - row.depth*mm
		side := math.Min(r.height-row.depth, row.depth) * mm
		y := math.Max(b/2-side, 0)
		def.Layers = append(def.Layers, section.Layer{
			Material: "steel",
			N:        n,
			Diameter: math.Sqrt(4*row.area/float64(n)/math.Pi) * mm,
			From:     section.Point{Y: -y, Z: z},
			To:       section.Point{Y: y, Z: z},
		})
	}
	return def
}

// sagging is a unit positive moment (compression at the top), kN·m
var sagging = fiber.Resultant{My: -1e3}

// nominal builds def and finds its sagging capacity; guess is an estimate of
// Mn in kN·m
func nominal(ctx context.Context, def *section.Definition, guess float64) (*AnalysisResult, error) {
	m, err := def.Build(material.Design)
	if err != nil {
		return nil, err
	}
	spec := interaction.DefaultSweepSpec()
	spec.DefaultTensionLimit = math.Inf(1)
	mn, res, err := interaction.PreciseCapacityFactor(ctx, m.Section, sagging, spec, 0.8*guess)
	if err != nil {
		return nil, fmt.Errorf("cannot find the moment capacity of %s: %w", def.Name, err)
	}
	return summarize(m, mn, res), nil
}

func summarize(m *section.Model, mn float64, res *solver.Result) *AnalysisResult {
	rep := m.Report(res.State, res.Plane)
	result := &AnalysisResult{
		C:          rep.NeutralAxisDepth * 1e3,
		EpsilonTop: rep.MinConcreteStrain,
		EpsilonT:   math.Inf(-1),
		Plane:      res.Plane,
		Mn:         mn,
		Model:      m,
		Report:     rep,
	}
	for _, bar := range rep.Bars {
		result.EpsilonT = math.Max(result.EpsilonT, bar.Strain)
	}
	fy := m.Section.Fiber(m.Bars[0].Index).Mat.Fy / 1e6
	result.Phi = nscp.Phi(result.EpsilonT, fy)
	result.PhiMn = result.Phi * mn
	result.IsTensionControlled = result.EpsilonT >= tensionControlledStrain
	return result
}

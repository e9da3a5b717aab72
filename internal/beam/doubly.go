package beam

import (
	"context"
	"fmt"
	"math"

	"github.com/xcfem/xc-sub010/internal/nscp"
	"github.com/xcfem/xc-sub010/internal/section"
)

// DoublyReinforced represents a doubly reinforced rectangular beam section
type DoublyReinforced struct {
	// Geometry (mm)
	Width          float64 // b - beam width
	Height         float64 // h - total depth
	EffectiveDepth float64 // d - effective depth (to centroid of tension steel)
	Cover          float64 // concrete cover to centroid of tension reinforcement
	CoverComp      float64 // d' - cover to centroid of compression reinforcement

	// Materials (MPa)
	Fc float64 // f'c - concrete compressive strength
	Fy float64 // fy - steel yield strength

	// Loading (kN-m)
	Mu float64 // Factored moment

	// Reinforcement (mm²)
	As    float64 // Area of tension reinforcement
	Asc   float64 // Area of compression reinforcement
	NBars int     // bars per row (3 if zero)
}

// NewDoublyReinforced creates a new doubly reinforced beam
func NewDoublyReinforced(width, height, cover, coverComp, fc, fy float64) *DoublyReinforced {
	return &DoublyReinforced{
		Width:          width,
		Height:         height,
		Cover:          cover,
		CoverComp:      coverComp,
		EffectiveDepth: height - cover,
		Fc:             fc,
		Fy:             fy,
	}
}

func (b *DoublyReinforced) validate() error {
	if b.Width <= 0 || b.EffectiveDepth <= 0 || b.EffectiveDepth >= b.Height {
		return fmt.Errorf("invalid beam dimensions: width=%.2f, h=%.2f, d=%.2f", b.Width, b.Height, b.EffectiveDepth)
	}
	if b.Fc <= 0 || b.Fy <= 0 {
		return fmt.Errorf("invalid material properties: f'c=%.2f, fy=%.2f", b.Fc, b.Fy)
	}
	if b.CoverComp <= 0 || b.CoverComp >= b.EffectiveDepth {
		return fmt.Errorf("invalid compression cover: d'=%.2f", b.CoverComp)
	}
	return nil
}

// Definition returns the fiber section with tension steel as and
// compression steel asc (mm²)
func (b *DoublyReinforced) Definition(as, asc float64) *section.Definition {
	r := rectangle{width: b.Width, height: b.Height, fc: b.Fc, fy: b.Fy, nbars: b.NBars}
	return r.definition("doubly", []steelRow{
		{depth: b.EffectiveDepth, area: as},
		{depth: b.CoverComp, area: asc},
	})
}

func (b *DoublyReinforced) singly() *SinglyReinforced {
	return &SinglyReinforced{
		Width:          b.Width,
		Height:         b.Height,
		EffectiveDepth: b.EffectiveDepth,
		Cover:          b.Cover,
		Fc:             b.Fc,
		Fy:             b.Fy,
		NBars:          b.NBars,
	}
}

// DoublyDesignResult holds the results of doubly reinforced beam design
type DoublyDesignResult struct {
	// Is doubly reinforced needed?
	RequiresCompSteel bool

	// Moment components
	Mu1 float64 // Moment resisted by tension steel with concrete (kN-m)
	Mu2 float64 // Moment resisted by steel couple (kN-m)

	// Reinforcement
	As1         float64 // Tension steel for concrete compression (mm²)
	As2         float64 // Additional tension steel for compression steel (mm²)
	AsTotal     float64 // Total tension reinforcement (mm²)
	AscRequired float64 // Required compression reinforcement (mm²)

	// Limits
	AsMin float64 // Minimum tension steel (mm²)
	AsMax float64 // Maximum tension steel for a tension-controlled singly reinforced section (mm²)

	RhoMin float64

	// Neutral axis depth of the singly reinforced section at AsMax (mm)
	CMax float64

	// Compression steel stress
	FscStress   float64 // Actual stress in compression steel (MPa)
	CompYielded bool    // Whether compression steel has yielded

	// Strains
	EpsilonT  float64 // Tensile strain
	EpsilonSc float64 // Compression steel strain

	// Capacity
	Phi   float64 // Strength reduction factor
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

// Design calculates required reinforcement for a doubly reinforced beam.
// When the tension-controlled singly reinforced capacity φMn1 is not enough,
// the remainder Mu - φMn1 is given to a steel couple As2 = A'sc whose area
// is corrected by secant steps on φMn.
func (b *DoublyReinforced) Design(ctx context.Context, mu float64) (*DoublyDesignResult, error) {
	b.Mu = mu
	if err := b.validate(); err != nil {
		return nil, err
	}
	if mu <= 0 {
		return nil, fmt.Errorf("invalid factored moment: Mu=%.2f", mu)
	}

	result := &DoublyDesignResult{}
	s := b.singly()
	result.RhoMin = nscp.RhoMin(b.Fc, b.Fy)
	result.AsMin = result.RhoMin * b.Width * b.EffectiveDepth

	asMax, a1, err := s.maxTensionControlled(ctx, result.AsMin)
	if err != nil {
		return nil, err
	}
	result.AsMax = asMax
	result.CMax = a1.C

	if mu <= a1.PhiMn {
		sd, err := s.Design(ctx, mu)
		if err != nil {
			return nil, err
		}
		result.Mu1 = mu
		result.As1 = sd.AsRequired
		result.AsTotal = sd.AsRequired
		result.EpsilonT = sd.EpsilonT
		result.Phi = sd.Phi
		result.Mn = sd.Mn
		result.PhiMn = sd.PhiMn
		result.IsTensionControlled = sd.IsTensionControlled
		result.IsAdequate = sd.IsAdequate
		result.Iterations = sd.Iterations
		result.Model, result.Report = sd.Model, sd.Report
		result.Message = "Singly reinforced design is adequate"
		if !sd.IsAdequate {
			result.Message = sd.Message
		}
		return result, nil
	}

	// Doubly reinforced design required
	result.RequiresCompSteel = true
	result.Mu1 = a1.PhiMn
	result.Mu2 = mu - a1.PhiMn
	result.As1 = asMax

	target := mu * (1 + designTol/2)
	asLimit := maxSteelRatio * b.Width * b.Height
	x := result.Mu2 * 1e6 / (nscp.PhiFlexure * b.Fy * (b.EffectiveDepth - b.CoverComp))
	var a *DoublyAnalysisResult
	for result.Iterations = 1; ; result.Iterations++ {
		a, err = b.Analyze(ctx, asMax+x, x)
		if err != nil {
			return nil, err
		}
		if a.PhiMn >= mu && a.PhiMn <= mu*(1+designTol) {
			break
		}
		if result.Iterations == nmaxDesign || (asMax+x >= asLimit && a.PhiMn < mu) {
			result.fill(a, asMax, x)
			result.Message = "Design inadequate - Consider increasing section size"
			return result, nil
		}
		if a.PhiMn > a1.PhiMn {
			x *= (target - a1.PhiMn) / (a.PhiMn - a1.PhiMn)
		} else {
			x *= 2
		}
		x = math.Min(x, asLimit-asMax)
	}

	result.fill(a, asMax, x)
	result.IsAdequate = true
	if result.CompYielded {
		result.Message = "Doubly reinforced design OK - Compression steel yields"
	} else {
		result.Message = fmt.Sprintf("Doubly reinforced design OK - Compression steel does not yield (f'sc = %.1f MPa)", result.FscStress)
	}
	return result, nil
}

func (r *DoublyDesignResult) fill(a *DoublyAnalysisResult, as1, as2 float64) {
	r.As2 = as2
	r.AsTotal = as1 + as2
	r.AscRequired = as2
	r.FscStress = a.FscStress
	r.CompYielded = a.CompYielded
	r.EpsilonT = a.EpsilonT
	r.EpsilonSc = a.EpsilonSc
	r.Phi = a.Phi
	r.Mn = a.Mn
	r.PhiMn = a.PhiMn
	r.IsTensionControlled = a.IsTensionControlled
	r.Model = a.Model
	r.Report = a.Report
}

// maxTensionControlled bisects the singly reinforced tension steel for the
// largest area with εt ≥ 0.005
func (s *SinglyReinforced) maxTensionControlled(ctx context.Context, asMin float64) (float64, *AnalysisResult, error) {
	const rtol = 1e-3
	lo, hi := asMin, maxSteelRatio*s.Width*s.Height
	best, err := s.Analyze(ctx, lo)
	if err != nil {
		return 0, nil, err
	}
	if !best.IsTensionControlled {
		return lo, best, nil
	}
	for hi-lo > rtol*hi {
		mid := (lo + hi) / 2
		a, err := s.Analyze(ctx, mid)
		if err != nil {
			return 0, nil, err
		}
		if a.IsTensionControlled {
			lo, best = mid, a
		} else {
			hi = mid
		}
	}
	return lo, best, nil
}

// DoublyAnalysisResult holds the results of doubly reinforced beam analysis
type DoublyAnalysisResult struct {
	AnalysisResult

	// Compression steel
	EpsilonSc float64 // Compression steel strain (compression positive)
	FsStress  float64 // Tension steel stress (MPa)
	FscStress float64 // Compression steel stress (MPa, compression positive)

	// Steel yielding status
	TensionYielded bool
	CompYielded    bool

	RhoComp float64

	// Forces (kN)
	Cc float64 // Concrete compression force
	Cs float64 // Compression steel force
	T  float64 // Tension steel force
}

// Analyze calculates moment capacity for a doubly reinforced beam
func (b *DoublyReinforced) Analyze(ctx context.Context, as, asc float64) (*DoublyAnalysisResult, error) {
	b.As = as
	b.Asc = asc
	if err := b.validate(); err != nil {
		return nil, err
	}
	if as <= 0 {
		return nil, fmt.Errorf("invalid tension reinforcement: As=%.2f", as)
	}
	if asc < 0 {
		return nil, fmt.Errorf("invalid compression reinforcement: A'sc=%.2f", asc)
	}

	a, err := nominal(ctx, b.Definition(as, asc), as*b.Fy*0.9*b.EffectiveDepth/1e6)
	if err != nil {
		return nil, err
	}
	result := &DoublyAnalysisResult{AnalysisResult: *a}
	result.RhoMin = nscp.RhoMin(b.Fc, b.Fy)
	result.Rho = as / (b.Width * b.EffectiveDepth)
	result.RhoComp = asc / (b.Width * b.EffectiveDepth)
	result.MeetsMinReinf = result.Rho >= result.RhoMin

	// tension row first, compression row (if any) after it
	epsilonY := b.Fy / nscp.Es
	n := len(a.Report.Bars)
	if asc > 0 {
		n /= 2
	}
	var steel float64
	for i, bar := range a.Report.Bars {
		steel += bar.Force
		if i < n {
			result.T += bar.Force / 1e3
			result.FsStress = bar.Stress / 1e6
			continue
		}
		result.Cs -= bar.Force / 1e3
		result.EpsilonSc = -bar.Strain
		result.FscStress = -bar.Stress / 1e6
	}
	result.Cc = (steel - a.Report.Resultant.N) / 1e3
	result.TensionYielded = result.EpsilonT >= epsilonY
	result.CompYielded = asc > 0 && result.EpsilonSc >= epsilonY

	result.Message = controlMessage(&result.AnalysisResult, b.Fy)
	if !result.MeetsMinReinf {
		result.Message += " | WARNING: Below minimum reinforcement"
	}
	return result, nil
}

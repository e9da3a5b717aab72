package material

import (
	"fmt"
	"math"
	"sort"
)

// Kind identifies the stress-strain relationship of a Law
type Kind int

const (
	ElasticIsotropic Kind = iota
	ParabolaRectangleConcrete
	BilinearSteel
	MultilinearSteel
)

func (k Kind) String() string {
	switch k {
	case ElasticIsotropic:
		return "elastic"
	case ParabolaRectangleConcrete:
		return "parabola-rectangle"
	case BilinearSteel:
		return "bilinear"
	case MultilinearSteel:
		return "multilinear"
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// Point is a breakpoint of a multilinear law
type Point struct {
	Strain float64 `json:"strain" yaml:"strain"`
	Stress float64 `json:"stress" yaml:"stress"`
}

// Law is a uniaxial stress-strain relationship.
//
// Sign convention: tension is positive, compression negative, both for
// strains and stresses. A Law is immutable once constructed and may be shared
// by any number of fibers and goroutines.
type Law struct {
	Name string
	Kind Kind

	E  float64 // elastic modulus (initial slope for steel laws)
	Fy float64 // yield stress (steel laws)
	B  float64 // hardening ratio: post-yield slope = B*E

	Fc    float64 // plateau stress of concrete, positive value
	EpsC2 float64 // strain at the end of the parabola (negative)
	EpsCU float64 // ultimate compressive strain (negative)
	N     float64 // parabola exponent

	Points    []Point // tensile branch of a multilinear law, ascending strains
	NegPoints []Point // compressive branch as magnitudes; nil mirrors Points

	// domain of validity
	EpsMin float64
	EpsMax float64
}

// limitTol absorbs round-off when a plane is pinned exactly at a limit strain
const limitTol = 1e-9

// NewElastic returns a linear elastic law. Zero limits mean unbounded.
func NewElastic(name string, e, epsMin, epsMax float64) (*Law, error) {
	if e <= 0 {
		return nil, fmt.Errorf("material %q: elastic modulus must be positive (E=%g)", name, e)
	}
	o := &Law{Name: name, Kind: ElasticIsotropic, E: e, EpsMin: epsMin, EpsMax: epsMax}
	if o.EpsMin == 0 {
		o.EpsMin = math.Inf(-1)
	}
	if o.EpsMax == 0 {
		o.EpsMax = math.Inf(1)
	}
	return o, nil
}

// NewParabolaRectangle returns a concrete law with tension cut-off.
// fc is the (positive) plateau stress; epsC2 and epsCU are negative.
func NewParabolaRectangle(name string, fc, epsC2, epsCU, n float64) (*Law, error) {
	switch {
	case fc <= 0:
		return nil, fmt.Errorf("material %q: concrete strength must be positive (fc=%g)", name, fc)
	case epsC2 >= 0 || epsCU >= 0:
		return nil, fmt.Errorf("material %q: concrete strains must be negative (εc2=%g, εcu=%g)", name, epsC2, epsCU)
	case epsCU > epsC2:
		return nil, fmt.Errorf("material %q: εcu=%g must not be smaller in magnitude than εc2=%g", name, epsCU, epsC2)
	case n < 1:
		return nil, fmt.Errorf("material %q: parabola exponent must be >= 1 (n=%g)", name, n)
	}
	return &Law{
		Name:   name,
		Kind:   ParabolaRectangleConcrete,
		E:      fc * n / -epsC2,
		Fc:     fc,
		EpsC2:  epsC2,
		EpsCU:  epsCU,
		N:      n,
		EpsMin: epsCU,
		EpsMax: math.Inf(1),
	}, nil
}

// NewBilinear returns a symmetric elastic-plastic steel law with hardening
// ratio b (b=0 gives a flat yield plateau). epsU <= 0 means unbounded.
func NewBilinear(name string, e, fy, b, epsU float64) (*Law, error) {
	switch {
	case e <= 0 || fy <= 0:
		return nil, fmt.Errorf("material %q: E and fy must be positive (E=%g, fy=%g)", name, e, fy)
	case b < 0 || b >= 1:
		return nil, fmt.Errorf("material %q: hardening ratio must be in [0,1) (b=%g)", name, b)
	case epsU > 0 && epsU < fy/e:
		return nil, fmt.Errorf("material %q: ultimate strain %g is below the yield strain %g", name, epsU, fy/e)
	}
	o := &Law{Name: name, Kind: BilinearSteel, E: e, Fy: fy, B: b}
	o.EpsMin, o.EpsMax = math.Inf(-1), math.Inf(1)
	if epsU > 0 {
		o.EpsMin, o.EpsMax = -epsU, epsU
	}
	return o, nil
}

// NewMultilinear returns a multilinear law through the origin and the given
// points. Points with negative strain form the compressive branch; without
// them the law is symmetric. Beyond the last point of a branch the law
// continues with b times the slope of the first segment of that branch.
func NewMultilinear(name string, points []Point, b, epsU float64) (*Law, error) {
	var pos, neg []Point
	for i, p := range points {
		switch {
		case p.Strain > 0:
			pos = append(pos, p)
		case p.Strain < 0:
			neg = append(neg, Point{Strain: -p.Strain, Stress: -p.Stress})
		default:
			return nil, fmt.Errorf("material %q: point %d is at zero strain", name, i+1)
		}
	}
	if len(pos) == 0 {
		return nil, fmt.Errorf("material %q: multilinear law needs at least one point in tension", name)
	}
	if err := checkBranch(name, "tensile", pos); err != nil {
		return nil, err
	}
	if len(neg) > 0 {
		if err := checkBranch(name, "compressive", neg); err != nil {
			return nil, err
		}
	}
	o := &Law{Name: name, Kind: MultilinearSteel, E: pos[0].Stress / pos[0].Strain, B: b, Points: pos, NegPoints: neg}
	o.Fy = pos[0].Stress
	o.EpsMin, o.EpsMax = math.Inf(-1), math.Inf(1)
	if epsU > 0 {
		o.EpsMin, o.EpsMax = -epsU, epsU
	}
	return o, nil
}

// checkBranch sorts pts by strain magnitude and rejects repeated strains,
// softening and a non-positive first slope
func checkBranch(name, branch string, pts []Point) error {
	sort.Slice(pts, func(i, j int) bool { return pts[i].Strain < pts[j].Strain })
	prev := Point{}
	for i, p := range pts {
		if p.Strain <= prev.Strain {
			return fmt.Errorf("material %q: %s point %d repeats strain %g", name, branch, i+1, p.Strain)
		}
		if p.Stress < prev.Stress {
			return fmt.Errorf("material %q: %s point %d has decreasing stress (softening is not supported)", name, branch, i+1)
		}
		prev = p
	}
	if pts[0].Stress <= 0 {
		return fmt.Errorf("material %q: first %s segment must have positive slope", name, branch)
	}
	return nil
}

// Stress returns the signed stress for the given strain
func (o *Law) Stress(eps float64) float64 {
	switch o.Kind {
	case ElasticIsotropic:
		return o.E * eps

	case ParabolaRectangleConcrete:
		if eps > 0 {
			return 0 // tension cut-off
		}
		if eps >= o.EpsC2 {
			return -o.Fc * (1 - math.Pow(1-eps/o.EpsC2, o.N))
		}
		return -o.Fc

	case BilinearSteel:
		epsY := o.Fy / o.E
		a := math.Abs(eps)
		if a <= epsY {
			return o.E * eps
		}
		return math.Copysign(o.Fy+o.B*o.E*(a-epsY), eps)

	case MultilinearSteel:
		s, _ := multilinear(o.branch(eps), o.B, math.Abs(eps))
		return math.Copysign(s, eps)
	}
	return 0
}

// Tangent returns dσ/dε at the given strain. At kinks the slope of the
// branch further from the origin is returned.
func (o *Law) Tangent(eps float64) float64 {
	switch o.Kind {
	case ElasticIsotropic:
		return o.E

	case ParabolaRectangleConcrete:
		if eps > 0 || eps < o.EpsC2 {
			return 0
		}
		return -o.Fc * o.N * math.Pow(1-eps/o.EpsC2, o.N-1) / o.EpsC2

	case BilinearSteel:
		if math.Abs(eps) < o.Fy/o.E {
			return o.E
		}
		return o.B * o.E

	case MultilinearSteel:
		_, et := multilinear(o.branch(eps), o.B, math.Abs(eps))
		return et
	}
	return 0
}

// branch returns the multilinear points that apply to strain eps
func (o *Law) branch(eps float64) []Point {
	if eps < 0 && len(o.NegPoints) > 0 {
		return o.NegPoints
	}
	return o.Points
}

// multilinear evaluates the branch pts at the strain magnitude a >= 0
func multilinear(pts []Point, b, a float64) (sig, et float64) {
	prev := Point{}
	for _, p := range pts {
		if a < p.Strain {
			slope := (p.Stress - prev.Stress) / (p.Strain - prev.Strain)
			return prev.Stress + slope*(a-prev.Strain), slope
		}
		prev = p
	}
	slope := b * pts[0].Stress / pts[0].Strain
	return prev.Stress + slope*(a-prev.Strain), slope
}

// Check reports whether eps lies inside the domain of validity
func (o *Law) Check(eps float64) error {
	if eps < o.EpsMin-limitTol || eps > o.EpsMax+limitTol {
		return &LimitError{Material: o.Name, Strain: eps, Min: o.EpsMin, Max: o.EpsMax}
	}
	return nil
}

// IsConcrete tells whether the law has a tension cut-off
func (o *Law) IsConcrete() bool {
	return o.Kind == ParabolaRectangleConcrete
}

// UltimateTension returns the largest admissible strain (+Inf if unbounded)
func (o *Law) UltimateTension() float64 { return o.EpsMax }

// UltimateCompression returns the smallest admissible strain (-Inf if unbounded)
func (o *Law) UltimateCompression() float64 { return o.EpsMin }

// UniformCompressionLimit returns the strain a fully compressed section may
// reach uniformly: εc2 for concrete, the compression limit otherwise.
func (o *Law) UniformCompressionLimit() float64 {
	if o.IsConcrete() {
		return o.EpsC2
	}
	return o.EpsMin
}

// ReferenceStress is a representative stress magnitude used to scale
// convergence tolerances
func (o *Law) ReferenceStress() float64 {
	switch o.Kind {
	case ParabolaRectangleConcrete:
		return o.Fc
	case BilinearSteel:
		return o.Fy
	case MultilinearSteel:
		s := o.Points[len(o.Points)-1].Stress
		if n := len(o.NegPoints); n > 0 {
			s = math.Max(s, o.NegPoints[n-1].Stress)
		}
		return s
	}
	return o.E * 1e-3
}

// Breakpoints returns the strains where the tangent is discontinuous
func (o *Law) Breakpoints() []float64 {
	switch o.Kind {
	case ParabolaRectangleConcrete:
		return []float64{o.EpsC2, 0}
	case BilinearSteel:
		epsY := o.Fy / o.E
		return []float64{-epsY, epsY}
	case MultilinearSteel:
		res := []float64{0}
		for _, p := range o.branch(-1) {
			res = append(res, -p.Strain)
		}
		for _, p := range o.Points {
			res = append(res, p.Strain)
		}
		return res
	}
	return nil
}

func (o *Law) String() string {
	return fmt.Sprintf("%s (%v)", o.Name, o.Kind)
}

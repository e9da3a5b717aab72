package interaction

import (
	"math"

	"github.com/xcfem/xc-sub010/internal/fiber"
	"github.com/xcfem/xc-sub010/internal/material"
)

// group collects the fibers sharing a material law
type group struct {
	law      *material.Law
	epsMin   float64 // finite, negative
	epsMax   float64 // finite and positive, or +Inf for concrete
	concrete bool
	idx      []int
}

// Limits measures how far a deformation plane is from the ultimate state of
// a section. The utilization of a plane is the largest ratio between a fiber
// strain and the limit strain of its material on the same side; concrete
// additionally checks the strain εc2 at the depth (1 - εc2/εcu)·h from the
// most compressed fiber. Utilization is positively homogeneous: scaling a
// plane by k>0 scales its utilization by k.
type Limits struct {
	sec    *fiber.Section
	groups []group
}

// NewLimits groups the fibers of sec by material
func NewLimits(sec *fiber.Section, spec SweepSpec) *Limits {
	o := &Limits{sec: sec}
	pos := make(map[*material.Law]int)
	for i := 0; i < sec.Len(); i++ {
		law := sec.Fiber(i).Mat
		k, ok := pos[law]
		if !ok {
			g := group{law: law, concrete: law.IsConcrete()}
			g.epsMin, g.epsMax = law.UltimateCompression(), law.UltimateTension()
			if math.IsInf(g.epsMin, -1) {
				g.epsMin = spec.DefaultCompressionLimit
			}
			if math.IsInf(g.epsMax, 1) && !g.concrete {
				g.epsMax = spec.DefaultTensionLimit
			}
			k = len(o.groups)
			pos[law] = k
			o.groups = append(o.groups, g)
		}
		o.groups[k].idx = append(o.groups[k].idx, i)
	}
	return o
}

// Utilization returns the utilization of plane p; 1 means ultimate
func (o *Limits) Utilization(p fiber.Plane) float64 {
	gy, gz := -p.Kz, p.Ky // strain gradient
	gnorm := math.Hypot(gy, gz)
	var u float64
	for _, g := range o.groups {
		sTop, sBot := math.Inf(-1), math.Inf(1)
		for _, i := range g.idx {
			f := o.sec.Fiber(i)
			eps := f.StrainAt(p)
			u = math.Max(u, ratio(eps, g.epsMin, g.epsMax))
			if g.concrete && gnorm > 0 {
				// s grows towards the compressed side
				s := -(gy*f.Y + gz*f.Z) / gnorm
				sTop = math.Max(sTop, s)
				sBot = math.Min(sBot, s)
			}
		}
		if !g.concrete {
			continue
		}
		epsC := p.Eps0
		if gnorm > 0 {
			sC := sTop - (1-g.law.EpsC2/g.law.EpsCU)*(sTop-sBot)
			epsC = p.Eps0 - gnorm*sC
		}
		if epsC < 0 {
			u = math.Max(u, epsC/g.law.EpsC2)
		}
	}
	return u
}

func ratio(eps, epsMin, epsMax float64) float64 {
	if eps < 0 {
		return eps / epsMin
	}
	if eps > 0 && !math.IsInf(epsMax, 1) {
		return eps / epsMax
	}
	return 0
}

// PlaneUtilization is a shortcut for NewLimits(sec, spec).Utilization(p)
func PlaneUtilization(sec *fiber.Section, spec SweepSpec, p fiber.Plane) float64 {
	return NewLimits(sec, spec).Utilization(p)
}

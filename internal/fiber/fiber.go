package fiber

import "github.com/xcfem/xc-sub010/internal/material"

// Fiber is a point-like area element of a cross-section
type Fiber struct {
	Tag  int
	Y, Z float64 // position relative to the reference axes (m)
	Area float64 // m²
	Mat  *material.Law
}

// basis returns the generalized strain vector (1, z, -y)
func (f *Fiber) basis() [3]float64 {
	return [3]float64{1, f.Z, -f.Y}
}

// StrainAt returns the fiber strain for the given plane
func (f *Fiber) StrainAt(p Plane) float64 {
	return p.Strain(f.Y, f.Z)
}

// ForceContribution returns σ·A·(1, z, -y)
func (f *Fiber) ForceContribution(stress float64) Resultant {
	force := stress * f.Area
	return Resultant{N: force, My: force * f.Z, Mz: -force * f.Y}
}

// StiffnessContribution returns Et·A·b·bᵀ with b = (1, z, -y)
func (f *Fiber) StiffnessContribution(tangent float64) Matrix3 {
	var m Matrix3
	m.AddScaled(f.basis(), tangent*f.Area)
	return m
}

// State is the mutable per-fiber buffer of one solve. A State must not be
// shared by concurrent solves; geometry lives in Section and is read-only.
type State struct {
	Strain  []float64
	Stress  []float64
	Tangent []float64

	Exceeded []int // fibers outside their material domain after the last update
}

// NewState allocates a state for all fibers of sec
func NewState(sec *Section) *State {
	n := sec.Len()
	return &State{
		Strain:  make([]float64, n),
		Stress:  make([]float64, n),
		Tangent: make([]float64, n),
	}
}

// UpdateFiber sets strain, stress and tangent of fiber i for plane p and
// reports whether the strain left the material domain
func (o *State) UpdateFiber(i int, f *Fiber, p Plane) (exceeded bool) {
	eps := f.StrainAt(p)
	o.Strain[i] = eps
	o.Stress[i] = f.Mat.Stress(eps)
	o.Tangent[i] = f.Mat.Tangent(eps)
	return f.Mat.Check(eps) != nil
}

// LimitError returns the material error of the first exceeded fiber, if any
func (o *State) LimitError(sec *Section) error {
	if len(o.Exceeded) == 0 {
		return nil
	}
	i := o.Exceeded[0]
	return sec.fibers[i].Mat.Check(o.Strain[i])
}

// Clone returns an independent copy
func (o *State) Clone() *State {
	res := &State{
		Strain:  append([]float64(nil), o.Strain...),
		Stress:  append([]float64(nil), o.Stress...),
		Tangent: append([]float64(nil), o.Tangent...),
	}
	res.Exceeded = append(res.Exceeded, o.Exceeded...)
	return res
}

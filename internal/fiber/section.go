package fiber

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/xcfem/xc-sub010/internal/material"
)

// Section is an immutable collection of fibers. The reference axes are the
// ones the fiber coordinates were given in; they need not be centroidal.
type Section struct {
	name   string
	fibers []Fiber

	area       float64
	yc, zc     float64
	ymin, ymax float64
	zmin, zmax float64
	length     float64
	refForce   float64
}

// NewSection validates the fibers and computes the geometric properties
func NewSection(name string, fibers []Fiber) (*Section, error) {
	if len(fibers) == 0 {
		return nil, fmt.Errorf("section %q has no fibers", name)
	}
	o := &Section{name: name, fibers: make([]Fiber, len(fibers))}
	copy(o.fibers, fibers)
	o.ymin, o.zmin = math.Inf(1), math.Inf(1)
	o.ymax, o.zmax = math.Inf(-1), math.Inf(-1)
	var sy, sz float64
	for i := range o.fibers {
		f := &o.fibers[i]
		if f.Mat == nil {
			return nil, fmt.Errorf("section %q: fiber %d has no material", name, f.Tag)
		}
		if !(f.Area > 0) {
			return nil, fmt.Errorf("section %q: fiber %d has non-positive area %g", name, f.Tag, f.Area)
		}
		o.area += f.Area
		sy += f.Area * f.Y
		sz += f.Area * f.Z
		o.ymin = math.Min(o.ymin, f.Y)
		o.ymax = math.Max(o.ymax, f.Y)
		o.zmin = math.Min(o.zmin, f.Z)
		o.zmax = math.Max(o.zmax, f.Z)
		o.refForce += f.Area * f.Mat.ReferenceStress()
	}
	o.yc, o.zc = sy/o.area, sz/o.area
	o.length = math.Max(o.ymax-o.ymin, o.zmax-o.zmin)
	if o.length < math.Sqrt(o.area) {
		o.length = math.Sqrt(o.area)
	}
	return o, nil
}

// Name returns the section name
func (o *Section) Name() string { return o.name }

// Len returns the number of fibers
func (o *Section) Len() int { return len(o.fibers) }

// Fiber returns fiber i (read-only)
func (o *Section) Fiber(i int) *Fiber { return &o.fibers[i] }

// Area returns the total fiber area
func (o *Section) Area() float64 { return o.area }

// Centroid returns the area-weighted centroid
func (o *Section) Centroid() (y, z float64) { return o.yc, o.zc }

// Extents returns the bounding box of the fiber positions
func (o *Section) Extents() (ymin, ymax, zmin, zmax float64) {
	return o.ymin, o.ymax, o.zmin, o.zmax
}

// CharacteristicLength is the larger bounding-box side; it converts moments
// and curvatures into force and strain units
func (o *Section) CharacteristicLength() float64 { return o.length }

// ReferenceForce returns Σ A·σref, the force scale of convergence tests
func (o *Section) ReferenceForce() float64 { return o.refForce }

// Materials returns the distinct laws in order of first appearance
func (o *Section) Materials() []*material.Law {
	var res []*material.Law
	seen := make(map[*material.Law]bool)
	for i := range o.fibers {
		m := o.fibers[i].Mat
		if !seen[m] {
			seen[m] = true
			res = append(res, m)
		}
	}
	return res
}

// AreaOf returns the total area of fibers made of m
func (o *Section) AreaOf(m *material.Law) float64 {
	var a float64
	for i := range o.fibers {
		if o.fibers[i].Mat == m {
			a += o.fibers[i].Area
		}
	}
	return a
}

// SetDeformation imposes plane p on all fibers and records the fibers whose
// strain is outside the material domain in st.Exceeded
func (o *Section) SetDeformation(st *State, p Plane) {
	st.Exceeded = st.Exceeded[:0]
	for i := range o.fibers {
		if st.UpdateFiber(i, &o.fibers[i], p) {
			st.Exceeded = append(st.Exceeded, i)
		}
	}
}

// StressResultant integrates the fiber stresses of st
func (o *Section) StressResultant(st *State) Resultant {
	var r Resultant
	for i := range o.fibers {
		r = r.Add(o.fibers[i].ForceContribution(st.Stress[i]))
	}
	return r
}

// Resultant is a convenience returning the resultant of plane p
func (o *Section) Resultant(p Plane) Resultant {
	st := NewState(o)
	o.SetDeformation(st, p)
	return o.StressResultant(st)
}

// TangentStiffness assembles ∂(N,My,Mz)/∂(ε0,κy,κz) from the tangents of st.
// A DegenerateError is returned when the scaled matrix is singular or its
// condition number exceeds maxCond.
func (o *Section) TangentStiffness(st *State, maxCond float64) (Matrix3, error) {
	var k Matrix3
	for i := range o.fibers {
		f := &o.fibers[i]
		k.AddScaled(f.basis(), st.Tangent[i]*f.Area)
	}
	return k, o.checkConditioning(k, maxCond)
}

// InitialStiffness returns the tangent stiffness at the undeformed state
func (o *Section) InitialStiffness() Matrix3 {
	var k Matrix3
	for i := range o.fibers {
		f := &o.fibers[i]
		k.AddScaled(f.basis(), f.Mat.Tangent(0)*f.Area)
	}
	return k
}

func (o *Section) checkConditioning(k Matrix3, maxCond float64) error {
	scaled := k.Scaled(o.length)
	var norm float64
	for _, v := range scaled.Flat() {
		norm = math.Max(norm, math.Abs(v))
	}
	if norm == 0 {
		return &DegenerateError{Section: o.name, Cond: math.Inf(1)}
	}
	c := mat.Cond(mat.NewDense(3, 3, scaled.Flat()), 2)
	if math.IsNaN(c) || c > maxCond {
		return &DegenerateError{Section: o.name, Cond: c}
	}
	return nil
}

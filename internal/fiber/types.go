package fiber

import (
	"fmt"
	"math"
)

// Plane is a deformation plane: strain(y,z) = Eps0 + Ky*z - Kz*y
type Plane struct {
	Eps0 float64 `json:"eps0" yaml:"eps0"` // axial strain at the reference axis
	Ky   float64 `json:"ky" yaml:"ky"`     // curvature about y
	Kz   float64 `json:"kz" yaml:"kz"`     // curvature about z
}

// Strain returns the strain at (y, z)
func (p Plane) Strain(y, z float64) float64 {
	return p.Eps0 + p.Ky*z - p.Kz*y
}

// Add returns p + s*d
func (p Plane) Add(d Plane, s float64) Plane {
	return Plane{p.Eps0 + s*d.Eps0, p.Ky + s*d.Ky, p.Kz + s*d.Kz}
}

// ScaledNorm measures a plane in strain units; curvatures are multiplied by
// the characteristic length l of the section
func (p Plane) ScaledNorm(l float64) float64 {
	return math.Sqrt(p.Eps0*p.Eps0 + (p.Ky*l)*(p.Ky*l) + (p.Kz*l)*(p.Kz*l))
}

func (p Plane) String() string {
	return fmt.Sprintf("ε0=%.6e κy=%.6e κz=%.6e", p.Eps0, p.Ky, p.Kz)
}

// Resultant holds the stress resultants of a section
type Resultant struct {
	N  float64 `json:"n" yaml:"n"`   // axial force
	My float64 `json:"my" yaml:"my"` // bending moment about y
	Mz float64 `json:"mz" yaml:"mz"` // bending moment about z
}

// Add returns r + s
func (r Resultant) Add(s Resultant) Resultant {
	return Resultant{r.N + s.N, r.My + s.My, r.Mz + s.Mz}
}

// Sub returns r - s
func (r Resultant) Sub(s Resultant) Resultant {
	return Resultant{r.N - s.N, r.My - s.My, r.Mz - s.Mz}
}

// Scale returns k*r
func (r Resultant) Scale(k float64) Resultant {
	return Resultant{k * r.N, k * r.My, k * r.Mz}
}

// IsZero tells whether all components vanish
func (r Resultant) IsZero() bool {
	return r.N == 0 && r.My == 0 && r.Mz == 0
}

// ScaledNorm measures a resultant in force units; moments are divided by
// the characteristic length l of the section
func (r Resultant) ScaledNorm(l float64) float64 {
	return math.Sqrt(r.N*r.N + (r.My/l)*(r.My/l) + (r.Mz/l)*(r.Mz/l))
}

// About returns r with the moments taken about the point (y, z) instead of
// the reference origin
func (r Resultant) About(y, z float64) Resultant {
	return Resultant{N: r.N, My: r.My - r.N*z, Mz: r.Mz + r.N*y}
}

// MomentAngle returns atan2(Mz, My)
func (r Resultant) MomentAngle() float64 {
	return math.Atan2(r.Mz, r.My)
}

func (r Resultant) String() string {
	return fmt.Sprintf("N=%.6g My=%.6g Mz=%.6g", r.N, r.My, r.Mz)
}

// Matrix3 is a 3x3 matrix in (N, My, Mz) x (Eps0, Ky, Kz) order
type Matrix3 [3][3]float64

// AddScaled adds s*b*bᵀ
func (m *Matrix3) AddScaled(b [3]float64, s float64) {
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			m[i][j] += s * b[i] * b[j]
		}
	}
}

// Apply returns m*p as a resultant
func (m Matrix3) Apply(p Plane) Resultant {
	x := [3]float64{p.Eps0, p.Ky, p.Kz}
	var r [3]float64
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			r[i] += m[i][j] * x[j]
		}
	}
	return Resultant{r[0], r[1], r[2]}
}

// Scaled returns D*m*D with D = diag(1, 1/l, 1/l); every entry then has
// force units
func (m Matrix3) Scaled(l float64) Matrix3 {
	d := [3]float64{1, 1 / l, 1 / l}
	var res Matrix3
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			res[i][j] = d[i] * m[i][j] * d[j]
		}
	}
	return res
}

// Flat returns the entries in row-major order
func (m Matrix3) Flat() []float64 {
	return []float64{
		m[0][0], m[0][1], m[0][2],
		m[1][0], m[1][1], m[1][2],
		m[2][0], m[2][1], m[2][2],
	}
}

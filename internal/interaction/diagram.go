package interaction

import (
	"math"
	"sort"

	"github.com/xcfem/xc-sub010/internal/fiber"
)

// Point is a vertex of the interaction surface
type Point struct {
	Resultant fiber.Resultant
	Plane     fiber.Plane // ultimate plane producing Resultant
	Alpha     float64     // direction of the compressed side in the (y, z) plane
	Theta     float64     // moment direction of the meridian, about the centroid when aligned
	T         float64     // position along the meridian: 0 tension pole, 1 compression pole
	Meridian  int
}

// Triangle holds indices into Diagram.Points
type Triangle [3]int

// Diagram is a closed triangulated surface in (N, My, Mz) space
type Diagram struct {
	Name      string
	Length    float64 // moments are divided by Length before any geometric test
	Points    []Point
	Meridians [][]int // indices into Points, ordered by T
	Triangles []Triangle
}

// Hit describes the crossing of a demand ray with the surface
type Hit struct {
	Factor    float64         // capacity factor: Factor·demand lies on the surface
	Capacity  fiber.Resultant // Factor·demand
	Plane     fiber.Plane     // plane interpolated from the triangle vertices
	Triangle  int
	U, V      float64 // barycentric coordinates of the crossing
}

// triangulate zips every pair of adjacent meridians together
func (o *Diagram) triangulate() {
	o.Triangles = o.Triangles[:0]
	n := len(o.Meridians)
	for j := 0; j < n; j++ {
		a, b := o.Meridians[j], o.Meridians[(j+1)%n]
		i, k := 0, 0
		for i < len(a)-1 || k < len(b)-1 {
			advanceA := k == len(b)-1 || (i < len(a)-1 && o.Points[a[i+1]].T <= o.Points[b[k+1]].T)
			if advanceA {
				o.Triangles = append(o.Triangles, Triangle{a[i], b[k], a[i+1]})
				i++
			} else {
				o.Triangles = append(o.Triangles, Triangle{a[i], b[k], b[k+1]})
				k++
			}
		}
	}
}

// scaled maps a resultant to (N, My/L, Mz/L)
func (o *Diagram) scaled(r fiber.Resultant) vec3 {
	return vec3{r.N, r.My / o.Length, r.Mz / o.Length}
}

// intersect runs the ray/triangle test against triangle t and returns the
// ray parameter; eps widens the barycentric bounds
func (o *Diagram) intersect(t Triangle, dir vec3, eps float64) (s, u, v float64, ok bool) {
	v0 := o.scaled(o.Points[t[0]].Resultant)
	e1 := o.scaled(o.Points[t[1]].Resultant).sub(v0)
	e2 := o.scaled(o.Points[t[2]].Resultant).sub(v0)
	pvec := dir.cross(e2)
	det := e1.dot(pvec)
	if math.Abs(det) <= 1e-14*e1.norm()*e2.norm()*dir.norm() {
		return 0, 0, 0, false // parallel or degenerate
	}
	inv := 1 / det
	tvec := v0.scale(-1)
	u = tvec.dot(pvec) * inv
	if u < -eps || u > 1+eps {
		return
	}
	qvec := tvec.cross(e1)
	v = dir.dot(qvec) * inv
	if v < -eps || u+v > 1+eps {
		return
	}
	s = e2.dot(qvec) * inv
	return s, u, v, s > 0
}

// Intersect finds where the ray from the origin through demand leaves the
// surface
func (o *Diagram) Intersect(demand fiber.Resultant) (Hit, error) {
	if demand.IsZero() {
		return Hit{}, ErrInvalidDemand
	}
	dir := o.scaled(demand)
	best := Hit{Factor: math.Inf(1), Triangle: -1}
	for i, t := range o.Triangles {
		s, u, v, ok := o.intersect(t, dir, 1e-9)
		if ok && s < best.Factor {
			best = Hit{Factor: s, Triangle: i, U: u, V: v}
		}
	}
	if best.Triangle < 0 {
		return Hit{}, ErrNoIntersection
	}
	t := o.Triangles[best.Triangle]
	w := 1 - best.U - best.V
	p0, p1, p2 := o.Points[t[0]].Plane, o.Points[t[1]].Plane, o.Points[t[2]].Plane
	best.Plane = fiber.Plane{}.Add(p0, w).Add(p1, best.U).Add(p2, best.V)
	best.Capacity = demand.Scale(best.Factor)
	return best, nil
}

// CapacityFactor returns CF such that CF·demand lies on the surface; CF < 1
// means the demand exceeds the capacity
func (o *Diagram) CapacityFactor(demand fiber.Resultant) (float64, error) {
	hit, err := o.Intersect(demand)
	if err != nil {
		return 0, err
	}
	return hit.Factor, nil
}

// Utilization returns 1/CF
func (o *Diagram) Utilization(demand fiber.Resultant) (float64, error) {
	cf, err := o.CapacityFactor(demand)
	if err != nil {
		return 0, err
	}
	return 1 / cf, nil
}

// Crossings counts the distinct points where the ray from the origin along
// dir crosses the surface; a star-shaped surface gives exactly one
func (o *Diagram) Crossings(dir fiber.Resultant) int {
	if dir.IsZero() {
		return 0
	}
	d := o.scaled(dir)
	var ts []float64
	for _, t := range o.Triangles {
		if s, _, _, ok := o.intersect(t, d, 0); ok {
			ts = append(ts, s)
		}
	}
	sort.Float64s(ts)
	count := 0
	for i, s := range ts {
		if i == 0 || s-ts[i-1] > 1e-9*s {
			count++
		}
	}
	return count
}

// Bounds returns the range of each resultant component over the vertices
func (o *Diagram) Bounds() (min, max fiber.Resultant) {
	min = fiber.Resultant{N: math.Inf(1), My: math.Inf(1), Mz: math.Inf(1)}
	max = fiber.Resultant{N: math.Inf(-1), My: math.Inf(-1), Mz: math.Inf(-1)}
	for _, p := range o.Points {
		r := p.Resultant
		min.N, max.N = math.Min(min.N, r.N), math.Max(max.N, r.N)
		min.My, max.My = math.Min(min.My, r.My), math.Max(max.My, r.My)
		min.Mz, max.Mz = math.Min(min.Mz, r.Mz), math.Max(max.Mz, r.Mz)
	}
	return
}

type vec3 [3]float64

func (a vec3) sub(b vec3) vec3 { return vec3{a[0] - b[0], a[1] - b[1], a[2] - b[2]} }

func (a vec3) scale(k float64) vec3 { return vec3{k * a[0], k * a[1], k * a[2]} }

func (a vec3) dot(b vec3) float64 { return a[0]*b[0] + a[1]*b[1] + a[2]*b[2] }

func (a vec3) cross(b vec3) vec3 {
	return vec3{a[1]*b[2] - a[2]*b[1], a[2]*b[0] - a[0]*b[2], a[0]*b[1] - a[1]*b[0]}
}

func (a vec3) norm() float64 { return math.Sqrt(a.dot(a)) }

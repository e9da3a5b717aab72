package section

import (
	"math"
	"sort"
)

// Polygon is a closed simple polygon; the last vertex connects to the first
type Polygon []Point

// Properties holds gross geometric properties of a definition
type Properties struct {
	// Overall dimensions
	Width  float64 // along y (m)
	Height float64 // along z (m)
	Area   float64 // gross area of all regions (m²)

	// Centroid location of the regions
	CentroidY float64
	CentroidZ float64

	// Bounding box
	MinY, MaxY float64
	MinZ, MaxZ float64

	// Reinforcement summary
	SteelArea  float64 // m²
	NumBars    int
	MinCover   float64 // smallest distance from a bar centre to the bounding box (m)
	SteelRatio float64 // SteelArea / Area
}

// Area uses the shoelace formula
func (p Polygon) Area() float64 {
	return math.Abs(p.signedArea())
}

func (p Polygon) signedArea() float64 {
	n := len(p)
	if n < 3 {
		return 0
	}
	var a float64
	for i := 0; i < n; i++ {
		j := (i + 1) % n
		a += p[i].Y*p[j].Z - p[j].Y*p[i].Z
	}
	return a / 2
}

// Centroid returns the area centroid; for a degenerate polygon the vertex
// average is returned
func (p Polygon) Centroid() (y, z float64) {
	n := len(p)
	if n == 0 {
		return 0, 0
	}
	var signedArea, sumY, sumZ float64
	for i := 0; i < n; i++ {
		j := (i + 1) % n
		cross := p[i].Y*p[j].Z - p[j].Y*p[i].Z
		signedArea += cross
		sumY += (p[i].Y + p[j].Y) * cross
		sumZ += (p[i].Z + p[j].Z) * cross
	}
	signedArea /= 2
	if math.Abs(signedArea) > 0 {
		return sumY / (6 * signedArea), sumZ / (6 * signedArea)
	}
	for _, v := range p {
		y += v.Y
		z += v.Z
	}
	return y / float64(n), z / float64(n)
}

// Bounds returns the bounding box
func (p Polygon) Bounds() (ymin, ymax, zmin, zmax float64) {
	ymin, zmin = math.Inf(1), math.Inf(1)
	ymax, zmax = math.Inf(-1), math.Inf(-1)
	for _, v := range p {
		ymin = math.Min(ymin, v.Y)
		ymax = math.Max(ymax, v.Y)
		zmin = math.Min(zmin, v.Z)
		zmax = math.Max(zmax, v.Z)
	}
	return
}

// WidthAt calculates the width of the polygon at level z
// Uses horizontal line intersection with the polygon
func (p Polygon) WidthAt(z float64) float64 {
	intersections := p.intersectionsAt(z)
	if len(intersections) < 2 {
		return 0
	}
	sort.Float64s(intersections)

	// Total width is the sum of all segments
	var total float64
	for i := 0; i+1 < len(intersections); i += 2 {
		total += intersections[i+1] - intersections[i]
	}
	return total
}

// intersectionsAt finds all y where a horizontal line at z crosses the polygon
func (p Polygon) intersectionsAt(z float64) []float64 {
	var res []float64
	n := len(p)
	for i := 0; i < n; i++ {
		v1, v2 := p[i], p[(i+1)%n]
		if (v1.Z <= z && v2.Z > z) || (v2.Z <= z && v1.Z > z) {
			t := (z - v1.Z) / (v2.Z - v1.Z)
			res = append(res, v1.Y+t*(v2.Y-v1.Y))
		}
	}
	return res
}

// Contains tells whether (y, z) lies inside (even-odd rule)
func (p Polygon) Contains(y, z float64) bool {
	inside := false
	for _, yi := range p.intersectionsAt(z) {
		if yi > y {
			inside = !inside
		}
	}
	return inside
}

// ClipBox clips the polygon to the box [ymin,ymax] x [zmin,zmax]
// (Sutherland-Hodgman against the four box edges)
func (p Polygon) ClipBox(ymin, ymax, zmin, zmax float64) Polygon {
	res := p
	edges := []struct {
		inside func(Point) bool
		cross  func(a, b Point) Point
	}{
		{func(q Point) bool { return q.Y >= ymin }, func(a, b Point) Point { return atY(a, b, ymin) }},
		{func(q Point) bool { return q.Y <= ymax }, func(a, b Point) Point { return atY(a, b, ymax) }},
		{func(q Point) bool { return q.Z >= zmin }, func(a, b Point) Point { return atZ(a, b, zmin) }},
		{func(q Point) bool { return q.Z <= zmax }, func(a, b Point) Point { return atZ(a, b, zmax) }},
	}
	for _, e := range edges {
		if len(res) == 0 {
			return nil
		}
		var out Polygon
		prev := res[len(res)-1]
		for _, cur := range res {
			switch {
			case e.inside(cur) && e.inside(prev):
				out = append(out, cur)
			case e.inside(cur):
				out = append(out, e.cross(prev, cur), cur)
			case e.inside(prev):
				out = append(out, e.cross(prev, cur))
			}
			prev = cur
		}
		res = out
	}
	return res
}

func atY(a, b Point, y float64) Point {
	t := (y - a.Y) / (b.Y - a.Y)
	return Point{y, a.Z + t*(b.Z-a.Z)}
}

func atZ(a, b Point, z float64) Point {
	t := (z - a.Z) / (b.Z - a.Z)
	return Point{a.Y + t*(b.Y-a.Y), z}
}

// cell is one fiber-sized piece of a region
type cell struct {
	Y, Z, Area float64
	Poly       Polygon
}

// quadCells divides the quadrilateral IJKL into nij x njk cells by
// bilinear interpolation of the vertices
func quadCells(v []Point, nij, njk int) []cell {
	at := func(s, t float64) Point {
		// s along IJ, t along JK
		return Point{
			Y: (1-s)*(1-t)*v[0].Y + s*(1-t)*v[1].Y + s*t*v[2].Y + (1-s)*t*v[3].Y,
			Z: (1-s)*(1-t)*v[0].Z + s*(1-t)*v[1].Z + s*t*v[2].Z + (1-s)*t*v[3].Z,
		}
	}
	res := make([]cell, 0, nij*njk)
	for j := 0; j < njk; j++ {
		t0, t1 := float64(j)/float64(njk), float64(j+1)/float64(njk)
		for i := 0; i < nij; i++ {
			s0, s1 := float64(i)/float64(nij), float64(i+1)/float64(nij)
			q := Polygon{at(s0, t0), at(s1, t0), at(s1, t1), at(s0, t1)}
			a := q.Area()
			if a <= 0 {
				continue
			}
			y, z := q.Centroid()
			res = append(res, cell{y, z, a, q})
		}
	}
	return res
}

// gridCells overlays a square grid of side h on the polygon and keeps the
// clipped pieces
func gridCells(p Polygon, h float64) []cell {
	ymin, ymax, zmin, zmax := p.Bounds()
	ny := int(math.Ceil((ymax - ymin) / h))
	nz := int(math.Ceil((zmax - zmin) / h))
	minArea := 1e-9 * h * h
	var res []cell
	for j := 0; j < nz; j++ {
		z0 := zmin + float64(j)*h
		z1 := math.Min(z0+h, zmax)
		for i := 0; i < ny; i++ {
			y0 := ymin + float64(i)*h
			y1 := math.Min(y0+h, ymax)
			piece := p.ClipBox(y0, y1, z0, z1)
			a := piece.Area()
			if a <= minArea {
				continue
			}
			y, z := piece.Centroid()
			res = append(res, cell{y, z, a, piece})
		}
	}
	return res
}

// CalculateProperties computes gross geometric properties of the definition
func (s *Definition) CalculateProperties() *Properties {
	props := &Properties{}
	props.MinY, props.MinZ = math.Inf(1), math.Inf(1)
	props.MaxY, props.MaxZ = math.Inf(-1), math.Inf(-1)

	var sy, sz float64
	for _, r := range s.Regions {
		p := Polygon(r.Vertices)
		a := p.Area()
		y, z := p.Centroid()
		props.Area += a
		sy += a * y
		sz += a * z
		ymin, ymax, zmin, zmax := p.Bounds()
		props.MinY = math.Min(props.MinY, ymin)
		props.MaxY = math.Max(props.MaxY, ymax)
		props.MinZ = math.Min(props.MinZ, zmin)
		props.MaxZ = math.Max(props.MaxZ, zmax)
	}
	if props.Area > 0 {
		props.CentroidY, props.CentroidZ = sy/props.Area, sz/props.Area
	}

	props.MinCover = math.Inf(1)
	for _, b := range s.barPositions() {
		props.SteelArea += barArea(b.Diameter)
		props.NumBars++
		if props.Area > 0 {
			c := math.Min(math.Min(b.Y-props.MinY, props.MaxY-b.Y), math.Min(b.Z-props.MinZ, props.MaxZ-b.Z))
			props.MinCover = math.Min(props.MinCover, c)
		}
		if len(s.Regions) == 0 {
			props.MinY = math.Min(props.MinY, b.Y)
			props.MaxY = math.Max(props.MaxY, b.Y)
			props.MinZ = math.Min(props.MinZ, b.Z)
			props.MaxZ = math.Max(props.MaxZ, b.Z)
		}
	}
	if math.IsInf(props.MinCover, 1) {
		props.MinCover = 0
	}
	props.Width = props.MaxY - props.MinY
	props.Height = props.MaxZ - props.MinZ
	if props.Area > 0 {
		props.SteelRatio = props.SteelArea / props.Area
	}
	return props
}

// barPositions expands layers into individual bars, followed by the single
// bars in definition order
func (s *Definition) barPositions() []Bar {
	var res []Bar
	for _, l := range s.Layers {
		for k := 0; k < l.N; k++ {
			t := 0.5
			if l.N > 1 {
				t = float64(k) / float64(l.N-1)
			}
			res = append(res, Bar{
				Material: l.Material,
				Diameter: l.Diameter,
				Y:        l.From.Y + t*(l.To.Y-l.From.Y),
				Z:        l.From.Z + t*(l.To.Z-l.From.Z),
			})
		}
	}
	return append(res, s.Bars...)
}

func barArea(d float64) float64 {
	return math.Pi * d * d / 4
}

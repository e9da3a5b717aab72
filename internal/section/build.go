package section

import (
	"fmt"
	"math"
	"strings"

	"github.com/xcfem/xc-sub010/internal/fiber"
	"github.com/xcfem/xc-sub010/internal/material"
	"github.com/xcfem/xc-sub010/internal/nscp"
)

// IDGenerator hands out consecutive fiber tags. One generator belongs to one
// build; there is no package-level counter.
type IDGenerator struct {
	next int
}

// NewIDGenerator returns a generator whose first tag is start
func NewIDGenerator(start int) *IDGenerator {
	return &IDGenerator{next: start}
}

// Next returns a fresh tag
func (o *IDGenerator) Next() int {
	id := o.next
	o.next++
	return id
}

// BarInfo describes one reinforcing bar of a built section
type BarInfo struct {
	Tag      int
	Index    int // position in fiber.Section
	Material string
	Diameter float64
	Area     float64
	Y, Z     float64
}

// Model is a built section: the fiber section plus what is needed to
// report on it
type Model struct {
	Def     *Definition
	Type    material.DiagramType
	Section *fiber.Section
	Laws    map[string]*material.Law
	Bars    []BarInfo
	Props   *Properties
}

// Build discretizes the definition into a fiber section using design ("d")
// or characteristic ("k") material diagrams. Every bar displaces its own
// area from the region fibers around it.
func (s *Definition) Build(dt material.DiagramType) (*Model, error) {
	if err := s.Validate(); err != nil {
		return nil, err
	}
	laws := make(map[string]*material.Law, len(s.Materials))
	for _, m := range s.Materials {
		law, err := m.Law(dt)
		if err != nil {
			return nil, err
		}
		laws[m.Name] = law
	}

	ids := NewIDGenerator(1)
	var fibers []fiber.Fiber
	var cells []cell
	for i, r := range s.Regions {
		var rc []cell
		if r.Type == "polygon" {
			rc = gridCells(Polygon(r.Vertices), r.Cell)
		} else {
			rc = quadCells(r.Vertices, r.NDivIJ, r.NDivJK)
		}
		if len(rc) == 0 {
			return nil, &ValidationError{fmt.Sprintf("region %d produced no fibers", i+1)}
		}
		for _, c := range rc {
			fibers = append(fibers, fiber.Fiber{Tag: ids.Next(), Y: c.Y, Z: c.Z, Area: c.Area, Mat: laws[r.Material]})
		}
		cells = append(cells, rc...)
	}

	positions := s.barPositions()
	for _, b := range positions {
		displace(fibers, cells, b.Y, b.Z, barArea(b.Diameter))
	}
	kept := fibers[:0]
	for _, f := range fibers {
		if f.Area > 0 {
			kept = append(kept, f)
		}
	}
	fibers = kept

	var bars []BarInfo
	for _, b := range positions {
		info := BarInfo{
			Tag:      ids.Next(),
			Index:    len(fibers),
			Material: b.Material,
			Diameter: b.Diameter,
			Area:     barArea(b.Diameter),
			Y:        b.Y,
			Z:        b.Z,
		}
		bars = append(bars, info)
		fibers = append(fibers, fiber.Fiber{Tag: info.Tag, Y: b.Y, Z: b.Z, Area: info.Area, Mat: laws[b.Material]})
	}

	sec, err := fiber.NewSection(s.Name, fibers)
	if err != nil {
		return nil, err
	}
	return &Model{Def: s, Type: dt, Section: sec, Laws: laws, Bars: bars, Props: s.CalculateProperties()}, nil
}

// displace removes area a from the region fibers around a bar at (y, z):
// first from the cell containing the bar, then from the nearest remaining
// cells when the bar is larger than its cell. Fibers left with zero area
// must be dropped by the caller. Bars outside every region displace nothing.
func displace(fibers []fiber.Fiber, cells []cell, y, z, a float64) {
	k := -1
	for i := range cells {
		if fibers[i].Area > 0 && cells[i].Poly.Contains(y, z) {
			k = i
			break
		}
	}
	for k >= 0 && a > 0 {
		f := &fibers[k]
		if f.Area > a {
			f.Area -= a
			return
		}
		a -= f.Area
		f.Area = 0
		k = -1
		best := math.Inf(1)
		for i := range cells {
			if fibers[i].Area <= 0 {
				continue
			}
			if d := math.Hypot(fibers[i].Y-y, fibers[i].Z-z); d < best {
				k, best = i, d
			}
		}
	}
}

// Law builds the material law described by m
func (m MaterialDef) Law(dt material.DiagramType) (*material.Law, error) {
	code := material.Code(strings.ToUpper(m.Code))
	if code == "" {
		code = material.EC2
	}
	switch m.Type {
	case "concrete":
		if code == material.NSCP {
			return nscp.ConcreteLaw(m.Name, m.Fck)
		}
		c := material.NewConcrete(code, m.Fck)
		c.Name = m.Name
		if m.GammaC > 0 {
			c.GammaC = m.GammaC
		}
		if m.AlphaCC > 0 {
			c.AlphaCC = m.AlphaCC
		}
		return c.Law(dt)

	case "steel":
		if code == material.NSCP {
			return nscp.SteelLaw(m.Name, m.Fyk)
		}
		st := material.Steel{
			Name:     m.Name,
			Fyk:      m.Fyk,
			GammaS:   orDefault(m.GammaS, 1.15),
			Es:       orDefault(m.Es, 200000),
			EpsUK:    orDefault(m.EpsUK, 0.05),
			K:        orDefault(m.K, 1),
			EpsLimit: m.EpsLimit,
		}
		return st.Law(dt)

	case "elastic":
		return material.NewElastic(m.Name, m.E*1e6, m.EpsMin, m.EpsMax)

	case "multilinear":
		pts := make([]material.Point, len(m.Points))
		for i, p := range m.Points {
			pts[i] = material.Point{Strain: p.Strain, Stress: p.Stress * 1e6}
		}
		return material.NewMultilinear(m.Name, pts, m.B, math.Max(m.EpsMax, -m.EpsMin))
	}
	return nil, &ValidationError{fmt.Sprintf("material %q has unknown type %q", m.Name, m.Type)}
}

func orDefault(v, def float64) float64 {
	if v > 0 {
		return v
	}
	return def
}

// Concrete returns the first concrete law of the model, or nil
func (o *Model) Concrete() *material.Law {
	for _, law := range o.Section.Materials() {
		if law.IsConcrete() {
			return law
		}
	}
	return nil
}

// SteelArea returns the total bar area
func (o *Model) SteelArea() float64 {
	var a float64
	for _, b := range o.Bars {
		a += b.Area
	}
	return a
}

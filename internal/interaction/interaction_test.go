package interaction

import (
	"context"
	"errors"
	"math"
	"math/rand"
	"sync"
	"testing"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/io"

	"github.com/xcfem/xc-sub010/internal/fiber"
	"github.com/xcfem/xc-sub010/internal/material"
	"github.com/xcfem/xc-sub010/internal/section"
)

func init() {
	io.Verbose = false
}

func verbose() {
	io.Verbose = true
	chk.Verbose = true
}

// column is a 0.30 x 0.50 C30 rectangle with 3+3 Ø20 B500S bars
func column(tst *testing.T, withBars bool) *section.Model {
	def := &section.Definition{
		Name: "column",
		Materials: []section.MaterialDef{
			{Name: "C30", Type: "concrete", Fck: 30},
			{Name: "B500S", Type: "steel", Fyk: 500, K: 1.05, EpsLimit: 0.01},
		},
		Regions: []section.Region{{
			Material: "C30",
			Vertices: []section.Point{{Y: -0.15, Z: -0.25}, {Y: 0.15, Z: -0.25}, {Y: 0.15, Z: 0.25}, {Y: -0.15, Z: 0.25}},
			NDivIJ:   6,
			NDivJK:   20,
		}},
	}
	if withBars {
		def.Layers = []section.Layer{
			{Material: "B500S", N: 3, Diameter: 0.02, From: section.Point{Y: -0.1, Z: -0.2}, To: section.Point{Y: 0.1, Z: -0.2}},
			{Material: "B500S", N: 3, Diameter: 0.02, From: section.Point{Y: -0.1, Z: 0.2}, To: section.Point{Y: 0.1, Z: 0.2}},
		}
	}
	m, err := def.Build(material.Design)
	if err != nil {
		tst.Fatalf("%v", err)
	}
	return m
}

func diagram(tst *testing.T, sec *fiber.Section, spec SweepSpec) *Diagram {
	d, err := ComputeDiagram(context.Background(), sec, spec)
	if err != nil {
		tst.Fatalf("%v", err)
	}
	return d
}

func Test_interaction01(tst *testing.T) {

	//verbose()
	chk.PrintTitle("interaction01. poles and limits")

	m := column(tst, true)
	spec := DefaultSweepSpec()
	d := diagram(tst, m.Section, spec)

	chk.Int(tst, "meridians", len(d.Meridians), spec.NumAngles)
	for j, mer := range d.Meridians {
		if len(mer) != spec.NumPoints {
			tst.Errorf("meridian %d has %d points", j, len(mer))
		}
	}
	chk.Int(tst, "triangles", len(d.Triangles), 2*spec.NumAngles*(spec.NumPoints-1))

	// uniform compression: concrete at εc2, steel still elastic
	as := m.SteelArea()
	nc := -(20e6*(0.15-as) + 200000e6*0.002*as)
	l := d.Length
	for j, mer := range d.Meridians {
		top := d.Points[mer[len(mer)-1]]
		bot := d.Points[mer[0]]
		chk.Float64(tst, io.Sf("N compression pole %d", j), 1e-6*math.Abs(nc), top.Resultant.N, nc)
		chk.Float64(tst, "My compression pole", 1e-6*math.Abs(nc)*l, top.Resultant.My, 0)
		chk.Float64(tst, "ε0 compression pole", 1e-12, top.Plane.Eps0, -0.002)
		chk.Float64(tst, "ε0 tension pole", 1e-12, bot.Plane.Eps0, 0.01)
	}

	// every vertex is an ultimate plane
	limits := NewLimits(m.Section, spec)
	for _, p := range d.Points {
		u := limits.Utilization(p.Plane)
		if math.Abs(u-1) > 1e-9 {
			tst.Errorf("vertex utilization %g (meridian %d, t=%g)", u, p.Meridian, p.T)
			break
		}
	}

	// positive homogeneity
	p := fiber.Plane{Eps0: -0.001, Ky: 0.004, Kz: -0.002}
	chk.Float64(tst, "U(2p)", 1e-12, PlaneUtilization(m.Section, spec, fiber.Plane{}.Add(p, 2)), 2*limits.Utilization(p))
}

func Test_interaction02(tst *testing.T) {

	//verbose()
	chk.PrintTitle("interaction02. capacity factors")

	m := column(tst, true)
	d := diagram(tst, m.Section, DefaultSweepSpec())

	// star shape
	rnd := rand.New(rand.NewSource(1234))
	for i := 0; i < 200; i++ {
		dir := fiber.Resultant{N: rnd.NormFloat64(), My: rnd.NormFloat64() * d.Length, Mz: rnd.NormFloat64() * d.Length}
		if n := d.Crossings(dir); n != 1 {
			tst.Errorf("ray %v crosses the surface %d times", dir, n)
		}
	}

	// vertices lie on the boundary
	for _, j := range []int{0, 3, 7, 13} {
		for _, k := range []int{5, 20, 33} {
			pt := d.Points[d.Meridians[j][k]]
			cf, err := d.CapacityFactor(pt.Resultant)
			if err != nil {
				tst.Errorf("%v", err)
				continue
			}
			chk.Float64(tst, io.Sf("CF at vertex %d,%d", j, k), 1e-3, cf, 1)
		}
	}

	// scale invariance
	demand := fiber.Resultant{N: -1.2e6, My: 90e3, Mz: -25e3}
	cf, err := d.CapacityFactor(demand)
	if err != nil {
		tst.Errorf("%v", err)
		return
	}
	cf2, _ := d.CapacityFactor(demand.Scale(2))
	chk.Float64(tst, "CF(2d)", 1e-12*cf, cf2, cf/2)
	u, _ := d.Utilization(demand)
	chk.Float64(tst, "utilization", 1e-12, u, 1/cf)
	io.Pforan("CF = %v\n", cf)

	hit, _ := d.Intersect(demand)
	chk.Float64(tst, "capacity N", 1e-6, hit.Capacity.N, cf*demand.N)
	pu := PlaneUtilization(m.Section, DefaultSweepSpec(), hit.Plane)
	if pu < 0.9 || pu > 1+1e-9 {
		tst.Errorf("interpolated plane utilization %g", pu)
	}

	// zero demand
	if _, err := d.CapacityFactor(fiber.Resultant{}); !errors.Is(err, ErrInvalidDemand) {
		tst.Errorf("zero demand must fail with ErrInvalidDemand, got %v", err)
	}
	if n := d.Crossings(fiber.Resultant{}); n != 0 {
		tst.Errorf("zero direction crosses %d times", n)
	}

	// an empty surface is never crossed
	empty := &Diagram{Length: 1}
	if _, err := empty.CapacityFactor(demand); !errors.Is(err, ErrNoIntersection) {
		tst.Errorf("expected ErrNoIntersection, got %v", err)
	}
}

func Test_interaction03(tst *testing.T) {

	//verbose()
	chk.PrintTitle("interaction03. precise capacity factor")

	m := column(tst, true)
	spec := DefaultSweepSpec()
	spec.Solver.Verbose = chk.Verbose
	ctx := context.Background()

	// pure compression
	as := m.SteelArea()
	nc := 20e6*(0.15-as) + 200000e6*0.002*as
	lambda, res, err := PreciseCapacityFactor(ctx, m.Section, fiber.Resultant{N: -1e6}, spec, 1)
	if err != nil {
		tst.Errorf("%v", err)
		return
	}
	chk.Float64(tst, "λ axial", 1e-4*nc/1e6, lambda, nc/1e6)
	chk.Float64(tst, "ε0", 1e-7, res.Plane.Eps0, -0.002)

	// combined bending against the diagram
	d := diagram(tst, m.Section, spec)
	demand := fiber.Resultant{N: -1e6, My: 1e5, Mz: 2e4}
	cf, err := d.CapacityFactor(demand)
	if err != nil {
		tst.Errorf("%v", err)
		return
	}
	lambda, res, err = PreciseCapacityFactor(ctx, m.Section, demand, spec, cf)
	if err != nil {
		tst.Errorf("%v", err)
		return
	}
	io.Pforan("diagram CF = %v  precise CF = %v\n", cf, lambda)
	chk.Float64(tst, "λ bending", 0.05*lambda, cf, lambda)
	chk.Float64(tst, "utilization", 1e-4, NewLimits(m.Section, spec).Utilization(res.Plane), 1)

	if _, _, err := PreciseCapacityFactor(ctx, m.Section, fiber.Resultant{}, spec, 1); !errors.Is(err, ErrInvalidDemand) {
		tst.Errorf("zero demand must fail, got %v", err)
	}
}

func Test_interaction04(tst *testing.T) {

	//verbose()
	chk.PrintTitle("interaction04. sweep options")

	m := column(tst, true)
	ctx := context.Background()

	// plain concrete has no tension pole
	plain := column(tst, false)
	_, err := ComputeDiagram(ctx, plain.Section, DefaultSweepSpec())
	if !errors.Is(err, ErrMalformedSection) {
		tst.Errorf("expected ErrMalformedSection, got %v", err)
	}

	spec := DefaultSweepSpec()
	spec.NumAngles = 2
	if _, err := ComputeDiagram(ctx, m.Section, spec); err == nil {
		tst.Errorf("two meridians cannot close a surface")
	}

	// bounded workers give the same surface
	spec = DefaultSweepSpec()
	d0 := diagram(tst, m.Section, spec)
	spec.Workers = 2
	d1 := diagram(tst, m.Section, spec)
	chk.Int(tst, "points", len(d1.Points), len(d0.Points))
	for i := range d0.Points {
		if d0.Points[i].Resultant != d1.Points[i].Resultant {
			tst.Errorf("point %d differs: %v != %v", i, d0.Points[i].Resultant, d1.Points[i].Resultant)
			break
		}
	}

	// cancelled context
	cctx, cancel := context.WithCancel(ctx)
	cancel()
	if _, err := ComputeDiagram(cctx, m.Section, spec); !errors.Is(err, context.Canceled) {
		tst.Errorf("expected context.Canceled, got %v", err)
	}

	// aligned meridians
	spec = DefaultSweepSpec()
	spec.AlignMoments = true
	d2 := diagram(tst, m.Section, spec)
	checkAligned(tst, m.Section, d2)
}

// checkAligned verifies that the centroidal moment of every interior vertex
// points along its meridian
func checkAligned(tst *testing.T, sec *fiber.Section, d *Diagram) {
	yc, zc := sec.Centroid()
	var interior int
	for _, p := range d.Points {
		if p.T == 0 || p.T == 1 {
			continue
		}
		interior++
		r := p.Resultant.About(yc, zc)
		if e := math.Abs(math.Remainder(r.MomentAngle()-p.Theta, 2*math.Pi)); e > 1e-6 {
			tst.Errorf("meridian %d, t=%g: moment direction off by %g rad", p.Meridian, p.T, e)
			return
		}
	}
	for j, mer := range d.Meridians {
		if len(mer) < 2 {
			tst.Errorf("meridian %d has %d points", j, len(mer))
		}
	}
	io.Pforan("%d interior vertices\n", interior)
	if interior == 0 {
		tst.Errorf("no aligned vertex")
	}
}

func Test_interaction05(tst *testing.T) {

	//verbose()
	chk.PrintTitle("interaction05. cache")

	m := column(tst, true)
	spec := DefaultSweepSpec()
	spec.NumAngles = 8
	spec.NumPoints = 11
	cache := NewCache(spec)

	var wg sync.WaitGroup
	res := make([]*Diagram, 8)
	for i := range res {
		i := i
		wg.Add(1)
		go func() {
			defer wg.Done()
			d, err := cache.Get(context.Background(), "column/d", m.Section)
			if err != nil {
				tst.Errorf("%v", err)
				return
			}
			res[i] = d
		}()
	}
	wg.Wait()
	for i := 1; i < len(res); i++ {
		if res[i] != res[0] {
			tst.Errorf("request %d got a different diagram", i)
		}
	}
	chk.Int(tst, "cached", cache.Len(), 1)

	plain := column(tst, false)
	if _, err := cache.Get(context.Background(), "plain/d", plain.Section); !errors.Is(err, ErrMalformedSection) {
		tst.Errorf("expected ErrMalformedSection, got %v", err)
	}
	chk.Int(tst, "failures are not cached", cache.Len(), 1)
}

// lshape is a C30 web with a flange on one side and three unequal bars
func lshape(tst *testing.T) *section.Model {
	def := &section.Definition{
		Name: "L",
		Materials: []section.MaterialDef{
			{Name: "C30", Type: "concrete", Fck: 30},
			{Name: "B500S", Type: "steel", Fyk: 500, K: 1.05, EpsLimit: 0.01},
		},
		Regions: []section.Region{
			{
				Material: "C30",
				Vertices: []section.Point{{Y: -0.15, Z: -0.25}, {Y: 0.15, Z: -0.25}, {Y: 0.15, Z: 0.25}, {Y: -0.15, Z: 0.25}},
				NDivIJ:   6,
				NDivJK:   20,
			},
			{
				Material: "C30",
				Vertices: []section.Point{{Y: 0.15, Z: -0.25}, {Y: 0.45, Z: -0.25}, {Y: 0.45, Z: -0.05}, {Y: 0.15, Z: -0.05}},
				NDivIJ:   6,
				NDivJK:   8,
			},
		},
		Bars: []section.Bar{
			{Material: "B500S", Diameter: 0.025, Y: -0.1, Z: -0.2},
			{Material: "B500S", Diameter: 0.016, Y: 0.4, Z: -0.2},
			{Material: "B500S", Diameter: 0.02, Y: -0.1, Z: 0.2},
		},
	}
	m, err := def.Build(material.Design)
	if err != nil {
		tst.Fatalf("%v", err)
	}
	return m
}

func Test_interaction06(tst *testing.T) {

	//verbose()
	chk.PrintTitle("interaction06. aligned meridians of an asymmetric section")

	m := lshape(tst)
	spec := DefaultSweepSpec()
	spec.AlignMoments = true
	d := diagram(tst, m.Section, spec)
	checkAligned(tst, m.Section, d)

	// the aligned surface stays star-shaped
	rnd := rand.New(rand.NewSource(4321))
	bad := 0
	for i := 0; i < 200; i++ {
		dir := fiber.Resultant{N: rnd.NormFloat64(), My: rnd.NormFloat64() * d.Length, Mz: rnd.NormFloat64() * d.Length}
		if n := d.Crossings(dir); n != 1 {
			tst.Errorf("ray %v crosses the surface %d times", dir, n)
			bad++
		}
	}
	io.Pforan("%d of 200 rays cross more than once\n", bad)

	// vertices lie on the boundary
	for _, mer := range d.Meridians {
		pt := d.Points[mer[len(mer)/2]]
		cf, err := d.CapacityFactor(pt.Resultant)
		if err != nil {
			tst.Errorf("%v", err)
			continue
		}
		chk.Float64(tst, io.Sf("CF at vertex of meridian %d", pt.Meridian), 1e-3, cf, 1)
	}
}

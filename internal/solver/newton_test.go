package solver

import (
	"context"
	"errors"
	"math"
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

func column(tst *testing.T, withBars bool) *fiber.Section {
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
	return m.Section
}

func elasticRectangle(tst *testing.T, b, h float64, ny, nz int) *fiber.Section {
	law, _ := material.NewElastic("elast", 30e9, 0, 0)
	dy, dz := b/float64(ny), h/float64(nz)
	var fibers []fiber.Fiber
	for i := 0; i < ny; i++ {
		for j := 0; j < nz; j++ {
			y := -b/2 + (float64(i)+0.5)*dy
			z := -h/2 + (float64(j)+0.5)*dz
			fibers = append(fibers, fiber.Fiber{Tag: len(fibers), Y: y, Z: z, Area: dy * dz, Mat: law})
		}
	}
	sec, err := fiber.NewSection("rect", fibers)
	if err != nil {
		tst.Fatalf("%v", err)
	}
	return sec
}

func Test_newton01(tst *testing.T) {

	//verbose()
	chk.PrintTitle("newton01. round trip")

	sec := column(tst, true)
	p := fiber.Plane{Eps0: -0.0005, Ky: 0.003, Kz: 0.001}
	target := sec.Resultant(p)
	io.Pforan("target = %v\n", target)

	opts := DefaultOptions()
	opts.Verbose = chk.Verbose
	nwt := NewNewton(&opts)
	for _, guess := range []fiber.Plane{{}, ElasticGuess(sec, target), {Eps0: 0.001, Ky: -0.002}} {
		res, err := nwt.Solve(context.Background(), sec, target, guess)
		if err != nil {
			tst.Errorf("guess %v: %v", guess, err)
			continue
		}
		if nwt.Status() != Converged {
			tst.Errorf("status must be converged, got %v", nwt.Status())
		}
		io.Pforan("it=%d plane=%v\n", res.Iterations, res.Plane)
		tol := opts.Atol * sec.ReferenceForce()
		if res.Norm > tol {
			tst.Errorf("residual %g above %g", res.Norm, tol)
		}
		l := sec.CharacteristicLength()
		chk.Float64(tst, "N", tol, res.Resultant.N, target.N)
		chk.Float64(tst, "My", tol*l, res.Resultant.My, target.My)
		chk.Float64(tst, "Mz", tol*l, res.Resultant.Mz, target.Mz)
		chk.Float64(tst, "ε0", 1e-9, res.Plane.Eps0, p.Eps0)
		chk.Float64(tst, "κy", 1e-8, res.Plane.Ky, p.Ky)
		chk.Float64(tst, "κz", 1e-8, res.Plane.Kz, p.Kz)
		chk.Int(tst, "exceeded", len(res.Exceeded), 0)
	}
}

func Test_newton02(tst *testing.T) {

	//verbose()
	chk.PrintTitle("newton02. failures")

	// plain concrete cannot carry tension
	sec := column(tst, false)
	nwt := NewNewton(nil)
	target := fiber.Resultant{N: 1e5}
	_, err := nwt.Solve(context.Background(), sec, target, ElasticGuess(sec, target))
	if !errors.Is(err, ErrConvergenceFailure) {
		tst.Errorf("expected convergence failure, got %v", err)
	}
	if !errors.Is(err, fiber.ErrSectionDegenerate) {
		tst.Errorf("cause must be a degenerate section, got %v", err)
	}
	var cerr *ConvergenceError
	if !errors.As(err, &cerr) {
		tst.Errorf("expected *ConvergenceError")
		return
	}
	chk.Float64(tst, "best residual", 1e-6, cerr.Residual.N, -1e5)
	if nwt.Status() != Failed {
		tst.Errorf("status must be failed, got %v", nwt.Status())
	}

	// a cancelled context stops the iterations
	sec = column(tst, true)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = nwt.Solve(ctx, sec, fiber.Resultant{N: -1e6, My: 1e5}, fiber.Plane{})
	if !errors.Is(err, context.Canceled) || !errors.Is(err, ErrConvergenceFailure) {
		tst.Errorf("expected cancelled solve, got %v", err)
	}

	// the state machine restarts on every call
	res, err := nwt.Solve(context.Background(), sec, fiber.Resultant{N: -1e6}, fiber.Plane{})
	if err != nil {
		tst.Errorf("%v", err)
		return
	}
	if nwt.Status() != Converged {
		tst.Errorf("status must be converged, got %v", nwt.Status())
	}
	chk.Float64(tst, "My", 1e-3, res.Resultant.My, 0)

	// too few iterations
	opts := DefaultOptions()
	opts.NmaxIt = 1
	_, err = NewNewton(&opts).Solve(context.Background(), sec, fiber.Resultant{N: -3e6, My: 2e5, Mz: 1e5}, fiber.Plane{})
	if !errors.Is(err, ErrConvergenceFailure) {
		tst.Errorf("expected max iterations failure, got %v", err)
	}
}

func Test_newton03(tst *testing.T) {

	//verbose()
	chk.PrintTitle("newton03. material limit policy")

	law, _ := material.NewElastic("lim", 2e11, -0.001, 0.001)
	var fibers []fiber.Fiber
	for i, yz := range [][2]float64{{-0.1, -0.1}, {0.1, -0.1}, {0.1, 0.1}, {-0.1, 0.1}} {
		fibers = append(fibers, fiber.Fiber{Tag: i, Y: yz[0], Z: yz[1], Area: 1e-4, Mat: law})
	}
	sec, err := fiber.NewSection("bars", fibers)
	if err != nil {
		tst.Errorf("%v", err)
		return
	}
	target := fiber.Resultant{N: 4 * 1e-4 * 2e11 * 0.002}

	opts := DefaultOptions()
	res, err := NewNewton(&opts).Solve(context.Background(), sec, target, fiber.Plane{})
	if err != nil {
		tst.Errorf("lenient mode must not fail: %v", err)
		return
	}
	chk.Float64(tst, "ε0", 1e-12, res.Plane.Eps0, 0.002)
	chk.Int(tst, "exceeded", len(res.Exceeded), 4)

	opts.Strict = true
	nwt := NewNewton(&opts)
	res, err = nwt.Solve(context.Background(), sec, target, fiber.Plane{})
	if !errors.Is(err, material.ErrMaterialLimitExceeded) {
		tst.Errorf("strict mode must report the material limit, got %v", err)
	}
	if res == nil || nwt.Status() != Converged {
		tst.Errorf("strict mode still returns the converged plane")
	}
}

func Test_newton04(tst *testing.T) {

	//verbose()
	chk.PrintTitle("newton04. elastic guess and orientation")

	b, h := 0.3, 0.5
	sec := elasticRectangle(tst, b, h, 12, 20)
	p := fiber.Plane{Eps0: 1e-4, Ky: 2e-4, Kz: -1e-4}
	target := sec.Resultant(p)
	guess := ElasticGuess(sec, target)
	chk.Float64(tst, "ε0", 1e-15, guess.Eps0, p.Eps0)
	chk.Float64(tst, "κy", 1e-15, guess.Ky, p.Ky)
	chk.Float64(tst, "κz", 1e-15, guess.Kz, p.Kz)

	res, err := NewNewton(nil).Solve(context.Background(), sec, target, guess)
	if err != nil {
		tst.Errorf("%v", err)
		return
	}
	chk.Int(tst, "iterations", res.Iterations, 0)

	var iy, iz float64
	for i := 0; i < sec.Len(); i++ {
		f := sec.Fiber(i)
		iy += f.Area * f.Z * f.Z
		iz += f.Area * f.Y * f.Y
	}
	eval := func(alpha float64) (fiber.Resultant, error) {
		k := 1e-3
		return sec.Resultant(fiber.Plane{Ky: k * math.Cos(alpha), Kz: k * math.Sin(alpha)}), nil
	}
	theta := 0.3
	alpha, r, err := SolveOrientation(context.Background(), eval, theta, theta)
	if err != nil {
		tst.Errorf("%v", err)
		return
	}
	io.Pforan("α = %v\n", alpha)
	chk.Float64(tst, "moment angle", 1e-9, r.MomentAngle(), theta)
	chk.Float64(tst, "α", 1e-8, alpha, math.Atan(iy/iz*math.Tan(theta)))

	_, _, err = SolveOrientation(context.Background(), func(float64) (fiber.Resultant, error) {
		return fiber.Resultant{N: 1}, nil
	}, theta, 0)
	if !errors.Is(err, ErrConvergenceFailure) {
		tst.Errorf("pure axial resultants have no direction, got %v", err)
	}
}

package interaction

import (
	"context"
	"fmt"
	"math"

	"github.com/cpmech/gosl/io"
	"github.com/cpmech/gosl/utl"
	"golang.org/x/sync/errgroup"

	"github.com/xcfem/xc-sub010/internal/fiber"
	"github.com/xcfem/xc-sub010/internal/solver"
)

// tracer computes the ultimate planes of one section
type tracer struct {
	sec    *fiber.Section
	spec   SweepSpec
	limits *Limits
	psi    []float64 // shape parameters from uniform tension to uniform compression
}

// shape returns the plane with strain cos(ψ) at the most compressed fiber
// and sin(ψ) at the opposite one, the compressed side being the direction
// (cos α, sin α) in the (y, z) plane
func (o *tracer) shape(alpha, psi float64) fiber.Plane {
	uy, uz := math.Cos(alpha), math.Sin(alpha)
	sTop, sBot := math.Inf(-1), math.Inf(1)
	for i := 0; i < o.sec.Len(); i++ {
		f := o.sec.Fiber(i)
		s := uy*f.Y + uz*f.Z
		sTop = math.Max(sTop, s)
		sBot = math.Min(sBot, s)
	}
	epsTop, epsBot := math.Cos(psi), math.Sin(psi)
	c := (epsBot - epsTop) / (sTop - sBot) // strain decrease per unit s
	a := epsBot + c*sBot
	// ε = a - c·(uy·y + uz·z) = Eps0 + Ky·z - Kz·y
	return fiber.Plane{Eps0: a, Ky: -c * uz, Kz: c * uy}
}

// ultimate scales the shape plane (α, ψ) to utilization 1 and returns its
// resultant; ok is false when the shape cannot reach any limit
func (o *tracer) ultimate(st *fiber.State, alpha, psi float64) (p fiber.Plane, r fiber.Resultant, ok bool) {
	p = o.shape(alpha, psi)
	u := o.limits.Utilization(p)
	if !(u > 0) || math.IsInf(u, 0) {
		return p, r, false
	}
	p = fiber.Plane{}.Add(p, 1/u)
	o.sec.SetDeformation(st, p)
	r = o.sec.StressResultant(st)
	if math.IsNaN(r.N+r.My+r.Mz) || math.IsInf(r.N+r.My+r.Mz, 0) {
		return p, r, false
	}
	return p, r, true
}

// meridian computes the points of meridian j. With AlignMoments the
// moment about the centroid of every interior point points along the
// meridian; points where no orientation achieves it are left out.
func (o *tracer) meridian(ctx context.Context, j int) ([]Point, error) {
	theta := 2 * math.Pi * float64(j) / float64(o.spec.NumAngles)
	alpha := theta - math.Pi/2 // moment direction of a symmetric section
	yc, zc := o.sec.Centroid()
	st := fiber.NewState(o.sec)
	n := len(o.psi)

	var res []Point
	failures := 0
	for k, psi := range o.psi {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if o.spec.AlignMoments && k > 0 && k < n-1 {
			eval := func(al float64) (fiber.Resultant, error) {
				_, r, ok := o.ultimate(st, al, psi)
				if !ok {
					return r, fmt.Errorf("no ultimate plane at α=%g", al)
				}
				return r.About(yc, zc), nil
			}
			al, _, err := solver.SolveOrientation(ctx, eval, theta, alpha)
			if err != nil {
				if cerr := ctx.Err(); cerr != nil {
					return nil, cerr
				}
				if o.spec.Solver.Verbose {
					io.Pfyel("meridian %d, point %d skipped: %v\n", j, k, err)
				}
				continue
			}
			alpha = al
		}
		p, r, ok := o.ultimate(st, alpha, psi)
		if !ok {
			failures++
			if failures > o.spec.MaxFailures {
				return nil, fmt.Errorf("%w: %d consecutive failed planes on meridian %d", ErrMalformedSection, failures, j)
			}
			continue
		}
		failures = 0
		res = append(res, Point{
			Resultant: r,
			Plane:     p,
			Alpha:     alpha,
			Theta:     theta,
			T:         float64(k) / float64(n-1),
			Meridian:  j,
		})
	}
	if len(res) < 2 {
		return nil, fmt.Errorf("%w: meridian %d has %d points", ErrMalformedSection, j, len(res))
	}
	return res, nil
}

// ComputeDiagram sweeps the ultimate deformation planes of sec and returns
// the triangulated interaction surface. Meridians are computed concurrently;
// each goroutine owns its fiber state.
func ComputeDiagram(ctx context.Context, sec *fiber.Section, spec SweepSpec) (*Diagram, error) {
	if spec.NumAngles < 3 || spec.NumPoints < 3 {
		return nil, fmt.Errorf("interaction sweep needs at least 3 angles and 3 points (got %d and %d)", spec.NumAngles, spec.NumPoints)
	}
	o := &tracer{
		sec:    sec,
		spec:   spec,
		limits: NewLimits(sec, spec),
		psi:    utl.LinSpace(math.Pi/4, 5*math.Pi/4, spec.NumPoints),
	}

	meridians := make([][]Point, spec.NumAngles)
	g, gctx := errgroup.WithContext(ctx)
	if spec.Workers > 0 {
		g.SetLimit(spec.Workers)
	}
	for j := 0; j < spec.NumAngles; j++ {
		j := j
		g.Go(func() error {
			pts, err := o.meridian(gctx, j)
			if err != nil {
				return err
			}
			meridians[j] = pts
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	d := &Diagram{Name: sec.Name(), Length: sec.CharacteristicLength()}
	for _, pts := range meridians {
		idx := make([]int, len(pts))
		for k, p := range pts {
			idx[k] = len(d.Points)
			d.Points = append(d.Points, p)
		}
		d.Meridians = append(d.Meridians, idx)
	}
	d.triangulate()
	return d, nil
}

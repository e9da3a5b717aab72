package interaction

import (
	"context"
	"fmt"
	"math"

	"github.com/cpmech/gosl/io"

	"github.com/xcfem/xc-sub010/internal/fiber"
	"github.com/xcfem/xc-sub010/internal/solver"
)

// PreciseCapacityFactor finds the factor λ for which the plane equilibrating
// λ·demand has utilization 1. The factor is bracketed starting from lambda0
// (a diagram capacity factor is a good start; values ≤ 0 mean 1) and then
// refined by bisection, each step solving λ·demand with Newton warm-started
// from the last admissible plane. A solve that does not converge counts as
// beyond capacity. The returned result is the admissible solve closest to
// the boundary.
func PreciseCapacityFactor(ctx context.Context, sec *fiber.Section, demand fiber.Resultant, spec SweepSpec, lambda0 float64) (float64, *solver.Result, error) {
	if demand.IsZero() {
		return 0, nil, ErrInvalidDemand
	}
	const (
		rtol      = 1e-6
		nmaxBisec = 60
		nmaxGrow  = 40
	)
	opts := spec.Solver
	opts.Strict = false
	nwt := solver.NewNewton(&opts)
	limits := NewLimits(sec, spec)

	var best *solver.Result
	guess := fiber.Plane{}
	eval := func(lambda float64) (float64, *solver.Result, error) {
		res, err := nwt.Solve(ctx, sec, demand.Scale(lambda), guess)
		if err != nil {
			if cerr := ctx.Err(); cerr != nil {
				return 0, nil, cerr
			}
			return math.Inf(1), nil, nil
		}
		return limits.Utilization(res.Plane), res, nil
	}
	accept := func(res *solver.Result) {
		best = res
		guess = res.Plane
	}

	if !(lambda0 > 0) {
		lambda0 = 1
	}
	lo, hi := 0.0, lambda0
	for k := 0; ; k++ {
		if k == nmaxGrow {
			return 0, nil, fmt.Errorf("%w: capacity not bracketed up to λ=%g", ErrNoIntersection, hi)
		}
		u, res, err := eval(hi)
		if err != nil {
			return 0, nil, err
		}
		if u > 1 {
			break
		}
		lo = hi
		accept(res)
		hi *= 2
	}

	for k := 0; k < nmaxBisec && hi-lo > rtol*hi; k++ {
		mid := (lo + hi) / 2
		u, res, err := eval(mid)
		if err != nil {
			return 0, nil, err
		}
		if spec.Solver.Verbose {
			io.Pf("λ = %.10f  utilization = %g\n", mid, u)
		}
		if u > 1 {
			hi = mid
		} else {
			lo = mid
			accept(res)
		}
	}
	if best == nil {
		// the first admissible plane was never found; lo is still zero
		return 0, nil, fmt.Errorf("%w: no admissible plane below λ=%g", ErrNoIntersection, hi)
	}
	return lo, best, nil
}

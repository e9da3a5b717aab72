package solver

import (
	"context"
	"errors"
	"fmt"
	"math"

	"github.com/cpmech/gosl/io"
	"gonum.org/v1/gonum/mat"

	"github.com/xcfem/xc-sub010/internal/fiber"
)

// Status of a Newton solve
type Status int

const (
	Initialized Status = iota
	Iterating
	Converged
	Failed
)

func (s Status) String() string {
	switch s {
	case Initialized:
		return "initialized"
	case Iterating:
		return "iterating"
	case Converged:
		return "converged"
	case Failed:
		return "failed"
	}
	return fmt.Sprintf("status(%d)", int(s))
}

// Result is the outcome of a successful solve
type Result struct {
	Plane      fiber.Plane
	Resultant  fiber.Resultant
	Residual   fiber.Resultant
	Norm       float64 // scaled residual norm
	Iterations int
	Exceeded   []int        // fibers outside their material domain
	State      *fiber.State // fiber state at the solution (owned by the caller)
}

// Newton finds the deformation plane whose stress resultant matches a
// target. A Newton value keeps a fiber state buffer between calls and must
// not be used by more than one goroutine at a time.
type Newton struct {
	Opts Options

	status Status
	sec    *fiber.Section
	st     *fiber.State
}

// NewNewton returns a solver with the given options; nil means defaults
func NewNewton(opts *Options) *Newton {
	o := &Newton{}
	if opts == nil {
		o.Opts.SetDefault()
	} else {
		o.Opts = *opts
	}
	return o
}

// Status returns the state of the last solve
func (o *Newton) Status() Status { return o.status }

// state returns the fiber buffer for sec
func (o *Newton) state(sec *fiber.Section) *fiber.State {
	if o.sec != sec || o.st == nil {
		o.sec = sec
		o.st = fiber.NewState(sec)
	}
	return o.st
}

// Solve iterates on the plane until S(plane) = target. The scaled residual
// (N, My/L, Mz/L) must fall below Atol·max(Fref, |target|), where Fref is
// the reference force of the section.
func (o *Newton) Solve(ctx context.Context, sec *fiber.Section, target fiber.Resultant, guess fiber.Plane) (*Result, error) {

	o.status = Initialized
	st := o.state(sec)
	l := sec.CharacteristicLength()
	tol := o.Opts.Atol * math.Max(sec.ReferenceForce(), target.ScaledNorm(l))

	x := guess
	sec.SetDeformation(st, x)
	r := sec.StressResultant(st).Sub(target)
	norm := r.ScaledNorm(l)
	best, bestR, bestNorm := x, r, norm

	var it int
	fail := func(cause error) (*Result, error) {
		o.status = Failed
		if o.Opts.Verbose {
			io.Pfred("newton: %v\n", cause)
		}
		return nil, &ConvergenceError{Iterations: it, Plane: best, Residual: bestR, Norm: bestNorm, Cause: cause}
	}

	if o.Opts.Verbose {
		io.Pf("\n%4s%23s%23s%6s\n", "it", "|R|", "|δ|", "ls")
	}

	o.status = Iterating
	for it = 0; it < o.Opts.NmaxIt; it++ {

		if err := ctx.Err(); err != nil {
			return fail(err)
		}

		// converged on residual
		if norm <= tol {
			return o.finish(sec, st, x, target, r, norm, it)
		}

		// Newton step
		k, err := sec.TangentStiffness(st, o.Opts.MaxCond)
		if err != nil {
			return fail(err)
		}
		δ, err := solve3(k, r, l)
		if err != nil {
			return fail(err)
		}
		δnorm := δ.ScaledNorm(l)
		if o.Opts.MaxStrainStep > 0 && δnorm > o.Opts.MaxStrainStep {
			δ = fiber.Plane{}.Add(δ, o.Opts.MaxStrainStep/δnorm)
			δnorm = o.Opts.MaxStrainStep
		}

		// backtracking line search on the scaled residual norm
		α, ls := 1.0, 0
		var xn fiber.Plane
		var rn fiber.Resultant
		var nn float64
		for {
			xn = x.Add(δ, α)
			sec.SetDeformation(st, xn)
			rn = sec.StressResultant(st).Sub(target)
			nn = rn.ScaledNorm(l)
			if o.Opts.NoLineSearch || nn < (1-1e-4*α)*norm || ls >= o.Opts.NmaxLs {
				break
			}
			α /= 2
			ls++
		}
		if !o.Opts.NoLineSearch && nn >= norm && α*δnorm <= o.Opts.Rtol*(1+x.ScaledNorm(l)) {
			return fail(errStagnated)
		}
		x, r, norm = xn, rn, nn
		if norm < bestNorm {
			best, bestR, bestNorm = x, r, norm
		}

		if o.Opts.Verbose {
			io.Pf("%4d%23.15e%23.15e%6d\n", it, norm, α*δnorm, ls)
		}

		// converged on step
		if α == 1 && δnorm <= o.Opts.Rtol*(1+x.ScaledNorm(l)) {
			return o.finish(sec, st, x, target, r, norm, it+1)
		}
	}

	if norm <= tol {
		return o.finish(sec, st, x, target, r, norm, it)
	}
	return fail(errMaxIterations)
}

// finish builds the result of a converged solve; st holds plane x
func (o *Newton) finish(sec *fiber.Section, st *fiber.State, x fiber.Plane, target, r fiber.Resultant, norm float64, it int) (*Result, error) {
	o.status = Converged
	res := &Result{
		Plane:      x,
		Resultant:  target.Add(r),
		Residual:   r,
		Norm:       norm,
		Iterations: it,
		State:      st.Clone(),
	}
	res.Exceeded = res.State.Exceeded
	if o.Opts.Strict && len(st.Exceeded) > 0 {
		return res, fmt.Errorf("solution outside the material domain: %w", st.LimitError(sec))
	}
	return res, nil
}

// solve3 solves K·δ = -r in scaled form; see fiber.Matrix3.Scaled
func solve3(k fiber.Matrix3, r fiber.Resultant, l float64) (fiber.Plane, error) {
	a := mat.NewDense(3, 3, k.Scaled(l).Flat())
	b := mat.NewVecDense(3, []float64{-r.N, -r.My / l, -r.Mz / l})
	var y mat.VecDense
	if err := y.SolveVec(a, b); err != nil {
		var cond mat.Condition
		if errors.As(err, &cond) {
			return fiber.Plane{}, &fiber.DegenerateError{Cond: float64(cond)}
		}
		return fiber.Plane{}, err
	}
	return fiber.Plane{Eps0: y.AtVec(0), Ky: y.AtVec(1) / l, Kz: y.AtVec(2) / l}, nil
}

// ElasticGuess returns the plane of the initial stiffness for target; the
// zero plane is returned when that stiffness is singular
func ElasticGuess(sec *fiber.Section, target fiber.Resultant) fiber.Plane {
	l := sec.CharacteristicLength()
	p, err := solve3(sec.InitialStiffness(), target.Scale(-1), l)
	if err != nil {
		return fiber.Plane{}
	}
	return p
}

// SolveOrientation finds the angle α for which the resultant returned by
// eval has its moment vector pointing at theta, i.e. atan2(Mz, My) = theta.
// A secant iteration starts from alpha0.
func SolveOrientation(ctx context.Context, eval func(alpha float64) (fiber.Resultant, error), theta, alpha0 float64) (float64, fiber.Resultant, error) {
	const (
		nmaxit = 40
		atol   = 1e-10
	)
	f := func(alpha float64) (float64, fiber.Resultant, error) {
		r, err := eval(alpha)
		if err != nil {
			return 0, r, err
		}
		if r.My == 0 && r.Mz == 0 {
			return 0, r, fmt.Errorf("%w: no bending moment at α=%g", ErrConvergenceFailure, alpha)
		}
		return wrapAngle(r.MomentAngle() - theta), r, nil
	}

	a0, a1 := alpha0, alpha0+0.05
	f0, r0, err := f(a0)
	if err != nil {
		return a0, r0, err
	}
	if math.Abs(f0) <= atol {
		return a0, r0, nil
	}
	f1, r1, err := f(a1)
	if err != nil {
		return a1, r1, err
	}
	for it := 0; it < nmaxit; it++ {
		if err := ctx.Err(); err != nil {
			return a1, r1, err
		}
		if math.Abs(f1) <= atol {
			return a1, r1, nil
		}
		if f1 == f0 {
			break
		}
		step := -f1 * (a1 - a0) / (f1 - f0)
		if math.Abs(step) > 0.5 {
			step = math.Copysign(0.5, step)
		}
		a0, f0 = a1, f1
		a1 += step
		f1, r1, err = f(a1)
		if err != nil {
			return a1, r1, err
		}
	}
	return a1, r1, fmt.Errorf("%w: moment direction %g not reached (error %g rad)", ErrConvergenceFailure, theta, f1)
}

// wrapAngle maps a into (-π, π]
func wrapAngle(a float64) float64 {
	for a > math.Pi {
		a -= 2 * math.Pi
	}
	for a <= -math.Pi {
		a += 2 * math.Pi
	}
	return a
}

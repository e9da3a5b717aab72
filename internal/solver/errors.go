package solver

import (
	"errors"
	"fmt"

	"github.com/xcfem/xc-sub010/internal/fiber"
)

// ErrConvergenceFailure is matched by every ConvergenceError
var ErrConvergenceFailure = errors.New("deformation solver did not converge")

// errMaxIterations and errStagnated are the causes of plain non-convergence
var (
	errMaxIterations = errors.New("max number of iterations reached")
	errStagnated     = errors.New("line search could not reduce the residual")
)

// ConvergenceError carries the best plane found by a failed solve
type ConvergenceError struct {
	Iterations int
	Plane      fiber.Plane
	Residual   fiber.Resultant
	Norm       float64 // scaled residual norm
	Cause      error
}

func (e *ConvergenceError) Error() string {
	return fmt.Sprintf("deformation solver failed after %d iterations (residual %.3e, %v): %v",
		e.Iterations, e.Norm, e.Plane, e.Cause)
}

// Is makes errors.Is(err, ErrConvergenceFailure) hold
func (e *ConvergenceError) Is(target error) bool { return target == ErrConvergenceFailure }

func (e *ConvergenceError) Unwrap() error { return e.Cause }

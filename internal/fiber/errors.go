package fiber

import (
	"errors"
	"fmt"
)

// ErrSectionDegenerate is matched by every DegenerateError
var ErrSectionDegenerate = errors.New("section stiffness is degenerate")

// DegenerateError reports a singular or ill-conditioned tangent stiffness
type DegenerateError struct {
	Section string
	Cond    float64
}

func (e *DegenerateError) Error() string {
	return fmt.Sprintf("section %q: tangent stiffness is singular (condition number %.3g)", e.Section, e.Cond)
}

func (e *DegenerateError) Unwrap() error { return ErrSectionDegenerate }

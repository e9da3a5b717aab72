package material

import (
	"errors"
	"fmt"
)

// ErrMaterialLimitExceeded is matched by every LimitError
var ErrMaterialLimitExceeded = errors.New("material limit exceeded")

// LimitError reports a strain outside the declared domain of a law
type LimitError struct {
	Material string
	Strain   float64
	Min, Max float64
}

func (e *LimitError) Error() string {
	return fmt.Sprintf("material %q: strain %.6g outside [%.6g, %.6g]", e.Material, e.Strain, e.Min, e.Max)
}

func (e *LimitError) Unwrap() error { return ErrMaterialLimitExceeded }

package interaction

import (
	"errors"

	"github.com/xcfem/xc-sub010/internal/solver"
)

var (
	// ErrInvalidDemand is returned for a zero demand vector
	ErrInvalidDemand = errors.New("demand is the zero vector")

	// ErrNoIntersection is returned when the demand ray misses the diagram
	ErrNoIntersection = errors.New("demand ray does not cross the interaction diagram")

	// ErrMalformedSection is returned when too many ultimate planes fail
	ErrMalformedSection = errors.New("section cannot produce a closed interaction diagram")
)

// SweepSpec holds the parameters of the interaction diagram tracer
type SweepSpec struct {
	NumAngles    int  `json:"nangles" yaml:"nangles"`           // number of meridians (neutral-axis orientations)
	NumPoints    int  `json:"npoints" yaml:"npoints"`           // ultimate planes per meridian, poles included
	AlignMoments bool `json:"alignmoments" yaml:"alignmoments"` // rotate each plane so its moment points along the meridian
	Workers      int  `json:"workers" yaml:"workers"`           // meridians computed concurrently; 0 means one per meridian
	MaxFailures  int  `json:"maxfailures" yaml:"maxfailures"`   // consecutive failed planes tolerated on a meridian

	// strain limits applied to laws without a finite limit (concrete tension excluded)
	DefaultTensionLimit     float64 `json:"tensionlimit" yaml:"tensionlimit"`
	DefaultCompressionLimit float64 `json:"compressionlimit" yaml:"compressionlimit"` // negative

	// solver used to align meridians and for precise capacity factors
	Solver solver.Options `json:"solver" yaml:"solver"`
}

// SetDefault sets default values
func (o *SweepSpec) SetDefault() {
	o.NumAngles = 24
	o.NumPoints = 41
	o.MaxFailures = 5
	o.DefaultTensionLimit = 0.01
	o.DefaultCompressionLimit = -0.01
	o.Solver.SetDefault()
}

// DefaultSweepSpec returns a spec with default values
func DefaultSweepSpec() SweepSpec {
	var o SweepSpec
	o.SetDefault()
	return o
}

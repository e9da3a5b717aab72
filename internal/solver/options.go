package solver

// Options holds the parameters of the deformation solver
type Options struct {
	NmaxIt        int     `json:"nmaxit" yaml:"nmaxit"`               // number of max iterations
	Atol          float64 `json:"atol" yaml:"atol"`                   // tolerance on the scaled residual, relative to the reference force
	Rtol          float64 `json:"rtol" yaml:"rtol"`                   // tolerance on the scaled Newton step, relative to 1+|plane|
	MaxCond       float64 `json:"maxcond" yaml:"maxcond"`             // largest condition number of the scaled tangent
	NoLineSearch  bool    `json:"nolinesearch" yaml:"nolinesearch"`   // take full Newton steps
	NmaxLs        int     `json:"nmaxls" yaml:"nmaxls"`               // max number of step halvings
	MaxStrainStep float64 `json:"maxstrainstep" yaml:"maxstrainstep"` // largest scaled step; 0 means unlimited
	Strict        bool    `json:"strict" yaml:"strict"`               // fail when the solution leaves a material domain
	Verbose       bool    `json:"verbose" yaml:"verbose"`             // print iterations
}

// SetDefault sets default values
func (o *Options) SetDefault() {
	o.NmaxIt = 30
	o.Atol = 1e-8
	o.Rtol = 1e-12
	o.MaxCond = 1e12
	o.NmaxLs = 8
	o.MaxStrainStep = 0.01
}

// DefaultOptions returns a new set of options with default values
func DefaultOptions() Options {
	var o Options
	o.SetDefault()
	return o
}

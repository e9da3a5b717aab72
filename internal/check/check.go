// Package check verifies demand triples against the interaction diagram of a
// section
package check

import (
	"context"
	"errors"
	"fmt"
	"math"

	"golang.org/x/sync/errgroup"

	"github.com/xcfem/xc-sub010/internal/fiber"
	"github.com/xcfem/xc-sub010/internal/interaction"
	"github.com/xcfem/xc-sub010/internal/material"
	"github.com/xcfem/xc-sub010/internal/nscp"
	"github.com/xcfem/xc-sub010/internal/section"
)

// Status is the verdict of one check
type Status int

const (
	Pass Status = iota
	Fail
	CouldNotVerify
)

func (s Status) String() string {
	switch s {
	case Pass:
		return "pass"
	case Fail:
		return "fail"
	}
	return "could not verify"
}

// Demand is one set of section forces to verify
type Demand struct {
	Element     string          `json:"element" yaml:"element"`
	Combination string          `json:"combination" yaml:"combination"`
	Forces      fiber.Resultant `json:"forces" yaml:"forces"`
}

// Outcome is the result of verifying one demand. Factor and Utilization are
// meaningful only when Status is not CouldNotVerify.
type Outcome struct {
	Demand
	Status      Status
	Factor      float64 // capacity factor, reduced by Phi
	Utilization float64 // 1/Factor
	Phi         float64 // strength reduction factor (1 unless NSCP φ is applied)
	Plane       fiber.Plane
	Err         error
}

// Checker verifies demands against a precomputed diagram. The diagram is
// shared read-only between goroutines.
type Checker struct {
	Model   *section.Model
	Diagram *interaction.Diagram
	Spec    interaction.SweepSpec

	Precise bool // refine every diagram factor with nested Newton solves
	NSCPPhi bool // multiply the factor by the NSCP φ of the capacity plane
	Workers int  // 0 means one goroutine per demand
}

// Check verifies a single demand
func (o *Checker) Check(ctx context.Context, d Demand) Outcome {
	out := Outcome{Demand: d, Phi: 1}
	fail := func(err error) Outcome {
		out.Status = CouldNotVerify
		out.Err = err
		return out
	}

	hit, err := o.Diagram.Intersect(d.Forces)
	if err != nil {
		return fail(err)
	}
	out.Factor, out.Plane = hit.Factor, hit.Plane
	if o.Precise {
		cf, res, err := interaction.PreciseCapacityFactor(ctx, o.Model.Section, d.Forces, o.Spec, hit.Factor)
		if err != nil {
			return fail(err)
		}
		out.Factor, out.Plane = cf, res.Plane
	}
	if o.NSCPPhi {
		out.Phi = o.phi(out.Plane)
		out.Factor *= out.Phi
	}

	out.Utilization = 1 / out.Factor
	out.Status = Pass
	if out.Factor < 1 {
		out.Status = Fail
	}
	return out
}

// phi returns the NSCP strength reduction factor from the net tensile strain
// of the extreme tension bar
func (o *Checker) phi(p fiber.Plane) float64 {
	if len(o.Model.Bars) == 0 {
		return nscp.PhiCompression
	}
	epsT, fy := math.Inf(-1), 0.0
	for _, b := range o.Model.Bars {
		eps := p.Strain(b.Y, b.Z)
		if eps > epsT {
			epsT = eps
			fy = o.Model.Section.Fiber(b.Index).Mat.Fy / 1e6
		}
	}
	return nscp.Phi(epsT, fy)
}

// Run verifies all demands concurrently; outcomes keep the order of demands.
// Only a cancelled context returns an error.
func (o *Checker) Run(ctx context.Context, demands []Demand) ([]Outcome, error) {
	res := make([]Outcome, len(demands))
	g, gctx := errgroup.WithContext(ctx)
	if o.Workers > 0 {
		g.SetLimit(o.Workers)
	}
	for i, d := range demands {
		i, d := i, d
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			res[i] = o.Check(gctx, d)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return res, nil
}

// Summary counts outcomes and finds the governing one
type Summary struct {
	Passed, Failed, Unverified int
	Worst                      *Outcome // smallest factor among verified outcomes
}

// Summarize builds the summary of outcomes
func Summarize(outcomes []Outcome) Summary {
	var s Summary
	for i := range outcomes {
		o := &outcomes[i]
		switch o.Status {
		case Pass:
			s.Passed++
		case Fail:
			s.Failed++
		default:
			s.Unverified++
			continue
		}
		if s.Worst == nil || o.Factor < s.Worst.Factor {
			s.Worst = o
		}
	}
	return s
}

// ErrInadequate is returned when no reinforcement factor satisfies the demands
var ErrInadequate = errors.New("reinforcement cannot satisfy the demands")

// DesignOptions controls DesignReinforcement
type DesignOptions struct {
	MinFactor float64 `json:"minfactor" yaml:"minfactor"` // smallest scaling of the bar areas
	MaxFactor float64 `json:"maxfactor" yaml:"maxfactor"` // largest scaling of the bar areas
	Rtol      float64 `json:"rtol" yaml:"rtol"`           // relative width of the final bracket
	NmaxIt    int     `json:"nmaxit" yaml:"nmaxit"`
}

// SetDefault sets default values
func (o *DesignOptions) SetDefault() {
	if o.MinFactor == 0 {
		o.MinFactor = 0.05
	}
	if o.MaxFactor == 0 {
		o.MaxFactor = 20
	}
	if o.Rtol == 0 {
		o.Rtol = 0.01
	}
	if o.NmaxIt == 0 {
		o.NmaxIt = 50
	}
}

// DesignResult is the reinforcement found by DesignReinforcement
type DesignResult struct {
	Factor     float64 // bar area multiplier
	Definition *section.Definition
	Model      *section.Model
	Governing  Outcome
	Iterations int
}

// DesignReinforcement scales every bar area of def by a common factor until
// the smallest capacity factor over demands reaches 1. Model and Diagram of
// checker are replaced at every trial. The factor is first
// updated in proportion to the capacity factor and then bisected.
func DesignReinforcement(ctx context.Context, def *section.Definition, dt material.DiagramType, checker Checker, demands []Demand, opts DesignOptions) (*DesignResult, error) {
	opts.SetDefault()
	if len(demands) == 0 {
		return nil, fmt.Errorf("design needs at least one demand")
	}
	it := 0
	eval := func(f float64) (*DesignResult, error) {
		it++
		scaled := def.ScaleReinforcement(f)
		m, err := scaled.Build(dt)
		if err != nil {
			return nil, err
		}
		d, err := interaction.ComputeDiagram(ctx, m.Section, checker.Spec)
		if err != nil {
			return nil, fmt.Errorf("factor %g: %w", f, err)
		}
		c := checker
		c.Model, c.Diagram = m, d
		outcomes, err := c.Run(ctx, demands)
		if err != nil {
			return nil, err
		}
		s := Summarize(outcomes)
		if s.Unverified > 0 {
			for _, o := range outcomes {
				if o.Status == CouldNotVerify {
					return nil, fmt.Errorf("factor %g: %s/%s: %w", f, o.Element, o.Combination, o.Err)
				}
			}
		}
		return &DesignResult{Factor: f, Definition: scaled, Model: m, Governing: *s.Worst}, nil
	}

	var lo, hi *DesignResult // inadequate, adequate
	f := 1.0
	for {
		if it >= opts.NmaxIt {
			return nil, fmt.Errorf("%w: no bracket after %d iterations", ErrInadequate, it)
		}
		r, err := eval(f)
		if err != nil {
			return nil, err
		}
		cf := r.Governing.Factor
		if cf >= 1 {
			hi = r
			if lo != nil || f <= opts.MinFactor {
				break
			}
			f = math.Max(f/cf, opts.MinFactor)
			if f >= hi.Factor {
				f = math.Max(hi.Factor/2, opts.MinFactor)
			}
		} else {
			lo = r
			if hi != nil {
				break
			}
			if f >= opts.MaxFactor {
				return nil, fmt.Errorf("%w: capacity factor %g at the largest area factor %g", ErrInadequate, cf, f)
			}
			f = math.Min(f/cf, opts.MaxFactor)
			if f <= lo.Factor {
				f = math.Min(2*lo.Factor, opts.MaxFactor)
			}
		}
	}

	for lo != nil && hi.Factor-lo.Factor > opts.Rtol*hi.Factor && it < opts.NmaxIt {
		r, err := eval((lo.Factor + hi.Factor) / 2)
		if err != nil {
			return nil, err
		}
		if r.Governing.Factor >= 1 {
			hi = r
		} else {
			lo = r
		}
	}
	hi.Iterations = it
	return hi, nil
}

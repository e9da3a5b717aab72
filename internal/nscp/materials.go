package nscp

import (
	"fmt"
	"math"

	"github.com/xcfem/xc-sub010/internal/material"
)

// NSCP 2015 Material Constants

const (
	// Strain limits
	EpsilonCU = 0.003 // Ultimate concrete strain (Section 410.2.2.1)
	EpsilonC0 = 0.002 // Strain at peak stress of the parabola

	// Strength reduction factors (Section 409.3.2)
	PhiFlexure       = 0.90 // Tension-controlled sections
	PhiShear         = 0.75 // Shear and torsion
	PhiCompression   = 0.65 // Compression-controlled (tied)
	PhiCompressionSp = 0.75 // Compression-controlled (spiral)

	// Modulus of elasticity for steel (Section 420.2.2)
	Es = 200000.0 // MPa

	// Tension-controlled strain limit above εty (Section 421.2.2)
	TensionControlledMargin = 0.003
)

// ConcreteLaw returns the parabola-rectangle diagram used for strain
// compatibility with the NSCP ultimate strain: plateau 0.85 f'c, peak at
// 0.002, crushing at 0.003. fc in MPa.
func ConcreteLaw(name string, fc float64) (*material.Law, error) {
	if fc <= 0 {
		return nil, fmt.Errorf("concrete %q: f'c must be positive", name)
	}
	return material.NewParabolaRectangle(name, 0.85*fc*1e6, -EpsilonC0, -EpsilonCU, 2)
}

// SteelLaw returns the elastic-perfectly plastic diagram of Section 420.2.2.
// The diagram is unbounded; capacity sweeps supply their own tension limit.
func SteelLaw(name string, fy float64) (*material.Law, error) {
	if fy <= 0 {
		return nil, fmt.Errorf("steel %q: fy must be positive", name)
	}
	return material.NewBilinear(name, Es*1e6, fy*1e6, 0, 0)
}

// Phi calculates the strength reduction factor based on the net tensile
// strain of the extreme tension steel
// NSCP 2015 Section 409.3.2
func Phi(epsilonT float64, fy float64) float64 {
	epsilonTY := fy / Es

	if epsilonT >= epsilonTY+TensionControlledMargin {
		// Tension-controlled
		return PhiFlexure
	} else if epsilonT <= epsilonTY {
		// Compression-controlled
		return PhiCompression
	}
	// Transition zone
	return PhiCompression + (PhiFlexure-PhiCompression)*(epsilonT-epsilonTY)/TensionControlledMargin
}

// RhoMin calculates minimum reinforcement ratio
// NSCP 2015 Section 409.6.1.2
func RhoMin(fc, fy float64) float64 {
	// ρmin = max(√f'c / 4fy, 1.4/fy)
	return math.Max(math.Sqrt(fc)/(4*fy), 1.4/fy)
}

package nscp

import (
	"math"
	"testing"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/io"

	"github.com/xcfem/xc-sub010/internal/fiber"
)

func init() {
	io.Verbose = false
}

func Test_nscp01(tst *testing.T) {

	//chk.Verbose = true
	chk.PrintTitle("nscp01. combinations of section forces")

	e := LoadEffects{
		Dead: fiber.Resultant{N: -500e3, My: 50e3},
		Live: fiber.Resultant{N: -200e3, My: 30e3},
		Wind: fiber.Resultant{My: 20e3, Mz: 10e3},
	}
	if e.IsZero() {
		tst.Errorf("effects are not zero")
	}

	r := LoadCombinations[1].Factored(e)
	chk.Float64(tst, "N(2)", 1e-9, r.N, -1.2*500e3-1.6*200e3)
	chk.Float64(tst, "My(2)", 1e-9, r.My, 1.2*50e3+1.6*30e3)
	chk.Float64(tst, "Mz(2)", 1e-15, r.Mz, 0)

	all := WithReversals(LoadCombinations)
	chk.Int(tst, "with reversals", len(all), 7+4)
	rev, ok := LoadCombinations[5].Reversed()
	if !ok {
		tst.Errorf("0.9D+1.0W has a lateral load")
		return
	}
	r = rev.Factored(e)
	chk.Float64(tst, "Mz(6')", 1e-9, r.Mz, -10e3)
	if _, ok := LoadCombinations[0].Reversed(); ok {
		tst.Errorf("1.4D has no lateral load")
	}

	gov, found := Governing(e, SimplifiedCombinations, func(f fiber.Resultant) float64 { return math.Abs(f.My) })
	if !found {
		tst.Errorf("governing combination expected")
		return
	}
	io.Pforan("governing = %s: %v\n", gov.Combination.Description, gov.Forces)
	chk.String(tst, gov.Combination.ID, "2")
	chk.Float64(tst, "Mu", 1e-9, gov.Forces.My, 108e3)
}

func Test_nscp02(tst *testing.T) {

	//chk.Verbose = true
	chk.PrintTitle("nscp02. materials and phi")

	c, err := ConcreteLaw("fc28", 28)
	if err != nil {
		tst.Errorf("%v", err)
		return
	}
	chk.Float64(tst, "plateau", 1e-6, c.Stress(-0.0025), -0.85*28e6)
	chk.Float64(tst, "εcu", 1e-15, c.UltimateCompression(), -0.003)

	s, err := SteelLaw("fy415", 415)
	if err != nil {
		tst.Errorf("%v", err)
		return
	}
	chk.Float64(tst, "fy", 1e-6, s.Stress(0.01), 415e6)
	if !math.IsInf(s.UltimateTension(), 1) {
		tst.Errorf("NSCP steel is unbounded")
	}

	chk.Float64(tst, "φ tension", 1e-15, Phi(0.006, 415), PhiFlexure)
	chk.Float64(tst, "φ compression", 1e-15, Phi(0.001, 415), PhiCompression)
	epsTY := 415 / Es
	chk.Float64(tst, "φ transition", 1e-12, Phi(epsTY+0.0015, 415), (PhiFlexure+PhiCompression)/2)
}

package material

import (
	"errors"
	"math"
	"testing"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/io"
	"github.com/cpmech/gosl/utl"
)

func init() {
	io.Verbose = false
}

func verbose() {
	io.Verbose = true
	chk.Verbose = true
}

// nearKink tells whether [eps-h, eps+h] contains a tangent discontinuity
func nearKink(o *Law, eps, h float64) bool {
	for _, k := range o.Breakpoints() {
		if math.Abs(eps-k) <= 2*h {
			return true
		}
	}
	return false
}

func checkTangent(tst *testing.T, o *Law, epsMin, epsMax float64) {
	h := 1e-8
	for _, eps := range utl.LinSpace(epsMin, epsMax, 301) {
		if nearKink(o, eps, h) {
			continue
		}
		num := (o.Stress(eps+h) - o.Stress(eps-h)) / (2 * h)
		ana := o.Tangent(eps)
		scale := math.Max(math.Abs(ana), o.ReferenceStress()*1e-2)
		if math.Abs(num-ana) > 1e-4*scale {
			tst.Errorf("%s: tangent at ε=%g: analytic=%g numerical=%g", o.Name, eps, ana, num)
			return
		}
	}
}

func Test_law01(tst *testing.T) {

	//verbose()
	chk.PrintTitle("law01. tangents of all kinds")

	elast, err := NewElastic("elast", 2.1e11, 0, 0)
	if err != nil {
		tst.Errorf("%v", err)
		return
	}
	conc, err := NewConcrete(EC2, 25).Law(Design)
	if err != nil {
		tst.Errorf("%v", err)
		return
	}
	hsc, err := NewConcrete(EC2, 70).Law(Design)
	if err != nil {
		tst.Errorf("%v", err)
		return
	}
	steel, err := B500S.Law(Design)
	if err != nil {
		tst.Errorf("%v", err)
		return
	}
	multi, err := NewMultilinear("multi", []Point{{0.002, 400e6}, {0.01, 450e6}, {0.05, 500e6}}, 0, 0.06)
	if err != nil {
		tst.Errorf("%v", err)
		return
	}
	asym, err := NewMultilinear("asym", []Point{{-0.001, -250e6}, {-0.01, -320e6}, {0.002, 400e6}, {0.02, 420e6}}, 0.01, 0.03)
	if err != nil {
		tst.Errorf("%v", err)
		return
	}

	checkTangent(tst, elast, -0.01, 0.01)
	checkTangent(tst, conc, conc.EpsCU, 0.002)
	checkTangent(tst, hsc, hsc.EpsCU, 0.002)
	checkTangent(tst, steel, steel.EpsMin, steel.EpsMax)
	checkTangent(tst, multi, -0.06, 0.06)
	checkTangent(tst, asym, -0.03, 0.03)
}

func Test_law02(tst *testing.T) {

	//verbose()
	chk.PrintTitle("law02. parabola-rectangle")

	c := NewConcrete(EC2, 25)
	o, err := c.Law(Design)
	if err != nil {
		tst.Errorf("%v", err)
		return
	}
	fcd := 25e6 / 1.5
	io.Pforan("fcd = %v\n", o.Fc)
	chk.Float64(tst, "fcd", 1e-6, o.Fc, fcd)
	chk.Float64(tst, "σ(εc2)", 1e-4, o.Stress(-0.002), -fcd)
	chk.Float64(tst, "σ(εcu)", 1e-4, o.Stress(-0.0035), -fcd)
	chk.Float64(tst, "σ(-0.001)", 1e-4, o.Stress(-0.001), -0.75*fcd)
	chk.Float64(tst, "σ(tension)", 1e-15, o.Stress(0.001), 0)
	chk.Float64(tst, "Et(tension)", 1e-15, o.Tangent(0.001), 0)
	chk.Float64(tst, "Et(plateau)", 1e-15, o.Tangent(-0.003), 0)
	chk.Float64(tst, "Et(0)", 1e-2, o.Tangent(0), 2*fcd/0.002)

	if err := o.Check(-0.0035); err != nil {
		tst.Errorf("εcu must be admissible: %v", err)
	}
	err = o.Check(-0.004)
	if !errors.Is(err, ErrMaterialLimitExceeded) {
		tst.Errorf("expected limit error, got %v", err)
	}
	var lerr *LimitError
	if !errors.As(err, &lerr) {
		tst.Errorf("expected *LimitError")
		return
	}
	chk.Float64(tst, "limit strain", 1e-15, lerr.Strain, -0.004)
	if err := o.Check(0.5); err != nil {
		tst.Errorf("concrete tension is unbounded: %v", err)
	}
}

func Test_law03(tst *testing.T) {

	//verbose()
	chk.PrintTitle("law03. bilinear steel")

	o, err := B500S.Law(Design)
	if err != nil {
		tst.Errorf("%v", err)
		return
	}
	fyd := 500e6 / 1.15
	epsY := fyd / 200e9
	chk.Float64(tst, "σ(εy)", 1e-4, o.Stress(epsY), fyd)
	chk.Float64(tst, "σ(-εy)", 1e-4, o.Stress(-epsY), -fyd)
	chk.Float64(tst, "εmax", 1e-15, o.UltimateTension(), 0.01)
	chk.Float64(tst, "εmin", 1e-15, o.UltimateCompression(), -0.01)
	if o.Tangent(0.005) <= 0 {
		tst.Errorf("hardening branch must have a positive tangent")
	}
	// ft = k fy reached at εuk
	chk.Float64(tst, "σ(εuk)", 1e-6*fyd, o.Stress(0.05), 1.05*fyd)

	plastic, err := NewBilinear("epp", 2.1e6, 2600, 0, 0)
	if err != nil {
		tst.Errorf("%v", err)
		return
	}
	chk.Float64(tst, "plateau", 1e-12, plastic.Stress(1), 2600)
	chk.Float64(tst, "plateau tangent", 1e-12, plastic.Tangent(-1), 0)
	if !math.IsInf(plastic.UltimateTension(), 1) {
		tst.Errorf("unbounded law expected")
	}

	if _, err := NewBilinear("bad", 2e11, 5e8, 0, 1e-4); err == nil {
		tst.Errorf("ultimate strain below yield must be rejected")
	}
}

func Test_law04(tst *testing.T) {

	//verbose()
	chk.PrintTitle("law04. multilinear and catalog")

	o, err := NewMultilinear("multi", []Point{{0.01, 450e6}, {0.002, 400e6}}, 0, 0)
	if err != nil {
		tst.Errorf("%v", err)
		return
	}
	chk.Float64(tst, "σ(0.001)", 1e-4, o.Stress(0.001), 200e6)
	chk.Float64(tst, "σ(0.006)", 1e-4, o.Stress(0.006), 425e6)
	chk.Float64(tst, "σ(-0.006)", 1e-4, o.Stress(-0.006), -425e6)
	chk.Float64(tst, "σ(0.02)", 1e-4, o.Stress(0.02), 450e6)

	if _, err := NewMultilinear("soft", []Point{{0.002, 400e6}, {0.01, 300e6}}, 0, 0); err == nil {
		tst.Errorf("softening must be rejected")
	}

	// explicit compressive branch
	o, err = NewMultilinear("asym", []Point{{-0.002, -300e6}, {0.002, 400e6}}, 0, 0)
	if err != nil {
		tst.Errorf("%v", err)
		return
	}
	chk.Float64(tst, "σ(0.001)", 1e-4, o.Stress(0.001), 200e6)
	chk.Float64(tst, "σ(-0.001)", 1e-4, o.Stress(-0.001), -150e6)
	chk.Float64(tst, "σ(-0.004)", 1e-4, o.Stress(-0.004), -300e6)
	chk.Float64(tst, "Et(-0.001)", 1e-2, o.Tangent(-0.001), 150e9)
	chk.Float64(tst, "Et(0.001)", 1e-2, o.Tangent(0.001), 200e9)
	chk.Float64(tst, "reference stress", 1e-4, o.ReferenceStress(), 400e6)

	o, err = NewMultilinear("asym", []Point{{-0.001, -250e6}, {-0.01, -320e6}, {0.002, 400e6}}, 0.01, 0)
	if err != nil {
		tst.Errorf("%v", err)
		return
	}
	chk.Float64(tst, "σ(-0.015)", 1e-4, o.Stress(-0.015), -(320e6 + 0.01*250e9*0.005))
	if _, err := NewMultilinear("zero", []Point{{0, 0}, {0.002, 400e6}}, 0, 0); err == nil {
		tst.Errorf("a point at zero strain must be rejected")
	}
	if _, err := NewMultilinear("compression only", []Point{{-0.002, -400e6}}, 0, 0); err == nil {
		tst.Errorf("a law without tensile branch must be rejected")
	}
	if _, err := NewMultilinear("soft", []Point{{-0.002, -400e6}, {-0.01, -300e6}, {0.002, 400e6}}, 0, 0); err == nil {
		tst.Errorf("compressive softening must be rejected")
	}

	c := NewConcrete(EC2, 70)
	io.Pforan("εc2=%v εcu2=%v n=%v\n", c.EpsC2(), c.EpsCU2(), c.Exponent())
	chk.Float64(tst, "εc2(C70)", 1e-12, c.EpsC2(), -(2.0+0.085*math.Pow(20, 0.53))/1000)
	chk.Float64(tst, "εcu2(C70)", 1e-12, c.EpsCU2(), -0.002656)
	chk.Float64(tst, "n(C70)", 1e-12, c.Exponent(), 1.43744)

	e := NewConcrete(EHE, 25)
	chk.Float64(tst, "fctm(HA25)", 1e-6, e.Fctm(), 0.30*math.Pow(25, 2.0/3.0))
	chk.Float64(tst, "Ecm(HA25)", 1e-6, e.Ecm(), 8500*math.Cbrt(33))

	dt, err := ParseDiagramType("k")
	if err != nil || dt != Characteristic {
		tst.Errorf("k must parse as characteristic")
	}
	if _, err := ParseDiagramType("x"); err == nil {
		tst.Errorf("unknown diagram type must fail")
	}
}

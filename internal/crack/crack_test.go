package crack

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/io"

	"github.com/xcfem/xc-sub010/internal/fiber"
	"github.com/xcfem/xc-sub010/internal/material"
	"github.com/xcfem/xc-sub010/internal/section"
)

func init() {
	io.Verbose = false
}

func verbose() {
	io.Verbose = true
	chk.Verbose = true
}

func Test_crack01(tst *testing.T) {

	//verbose()
	chk.PrintTitle("crack01. formula")

	p := Params{
		Cover:    0.03,
		Spacing:  0.1,
		Diameter: 0.016,
		K1:       0.125,
		AcEff:    0.02,
		As:       0.0006,
		SigmaS:   250e6,
		SigmaSR:  120e6,
		Es:       2e11,
	}
	chk.Float64(tst, "sm", 1e-12, p.MeanSpacing(), 0.08+0.0008*0.02/0.0006)
	chk.Float64(tst, "εsm", 1e-15, p.MeanStrain(0.5), 1.25e-3*(1-0.5*0.48*0.48))

	res := p.Width(Options{})
	io.Pforan("wk = %v\n", res.Wk)
	chk.Float64(tst, "wk", 1e-10, res.Wk, 1.7*0.1066666666666667*1.106e-3)

	// lower bound of the mean strain
	p.SigmaSR = p.SigmaS
	chk.Float64(tst, "εsm min", 1e-15, p.MeanStrain(1), 0.4*1.25e-3)
	res = p.Width(Options{Beta: 1.3, K2: 1})
	chk.Float64(tst, "wk imposed", 1e-12, res.Wk, 1.3*res.Sm*0.4*1.25e-3)

	p.SigmaS = 0
	chk.Float64(tst, "εsm unloaded", 1e-15, p.MeanStrain(0.5), 0)
}

func tie(tst *testing.T) *section.Model {
	def := &section.Definition{
		Name: "tie",
		Materials: []section.MaterialDef{
			{Name: "HA25", Type: "concrete", Code: "EHE", Fck: 25},
			{Name: "B500S", Type: "steel", Fyk: 500, K: 1.05, EpsLimit: 0.01},
		},
		Regions: []section.Region{{
			Material: "HA25",
			Vertices: []section.Point{{Y: -0.125, Z: -0.25}, {Y: 0.125, Z: -0.25}, {Y: 0.125, Z: 0.25}, {Y: -0.125, Z: 0.25}},
			NDivIJ:   10,
			NDivJK:   20,
		}},
		Layers: []section.Layer{
			{Material: "B500S", N: 2, Diameter: 0.025, From: section.Point{Y: -0.0725, Z: -0.1975}, To: section.Point{Y: 0.0725, Z: -0.1975}},
			{Material: "B500S", N: 2, Diameter: 0.025, From: section.Point{Y: -0.0725, Z: 0.1975}, To: section.Point{Y: 0.0725, Z: 0.1975}},
		},
	}
	m, err := def.Build(material.Characteristic)
	if err != nil {
		tst.Fatalf("%v", err)
	}
	return m
}

func Test_crack02(tst *testing.T) {

	//verbose()
	chk.PrintTitle("crack02. tension member")

	m := tie(tst)
	an, err := NewAnalyzer(m)
	if err != nil {
		tst.Errorf("%v", err)
		return
	}
	n := 700e3
	res, err := an.Analyze(context.Background(), fiber.Resultant{N: n})
	if err != nil {
		tst.Errorf("%v", err)
		return
	}
	io.Pforan("sm = %v  εsm = %v  wk = %v\n", res.Sm, res.EpsSm, res.Wk)

	as := 4 * math.Pi * 0.025 * 0.025 / 4
	ac := 0.25*0.5 - as // bars displace concrete
	c := material.NewConcrete(material.EHE, 25)
	nm := 200000 / c.Ecm()
	if !res.Cracked {
		tst.Errorf("section must be cracked")
		return
	}
	chk.Float64(tst, "As", 1e-12, res.As, as)
	chk.Float64(tst, "σs", 1e-6*n/as, res.SigmaS, n/as)
	chk.Float64(tst, "σsr", 1e-6*n/as, res.SigmaSR, c.Fctm()*1e6*(ac+nm*as)/as)
	chk.Float64(tst, "k1", 1e-6, res.K1, 0.25)
	chk.Float64(tst, "cover", 1e-12, res.Cover, 0.04)
	chk.Float64(tst, "spacing", 1e-12, res.Spacing, 0.145)
	chk.Float64(tst, "Ac,eff", 1e-12, res.AcEff, ac)

	// wk from the formula with the same inputs
	sm := 2*0.04 + 0.2*0.145 + 0.4*0.25*0.025*ac/as
	sig := n / as
	sr := c.Fctm() * 1e6 * (ac + nm*as) / as
	eps := sig / 2e11 * (1 - 0.5*(sr/sig)*(sr/sig))
	chk.Float64(tst, "wk", 1e-6*1.7*sm*eps, res.Wk, 1.7*sm*eps)
	tst.Logf("wk = %.5e (published reference 0.55189e-3, ratio %.4f)", res.Wk, res.Wk/0.55189e-3)

	// below the cracking load
	res, err = an.Analyze(context.Background(), fiber.Resultant{N: 100e3})
	if err != nil {
		tst.Errorf("%v", err)
		return
	}
	if res.Cracked || res.Wk != 0 {
		tst.Errorf("100 kN must not crack the tie (wk = %g)", res.Wk)
	}

	// compression
	res, err = an.Analyze(context.Background(), fiber.Resultant{N: -500e3})
	if err != nil {
		tst.Errorf("%v", err)
		return
	}
	chk.Float64(tst, "wk compression", 1e-15, res.Wk, 0)

	// bending: one tensioned layer, triangular strain distribution
	res, err = an.Analyze(context.Background(), fiber.Resultant{My: 150e3})
	if err != nil {
		tst.Errorf("%v", err)
		return
	}
	chk.Float64(tst, "k1 bending", 1e-12, res.K1, 0.125)
	chk.Float64(tst, "As bending", 1e-12, res.As, as/2)
	if !(res.Wk > 0) {
		tst.Errorf("bending must open cracks (wk = %g)", res.Wk)
	}
}

func Test_crack03(tst *testing.T) {

	//verbose()
	chk.PrintTitle("crack03. no concrete")

	def := &section.Definition{
		Name:      "bars",
		Materials: []section.MaterialDef{{Name: "B500S", Type: "steel", Fyk: 500}},
		Bars:      []section.Bar{{Material: "B500S", Diameter: 0.02, Y: 0, Z: 0.1}, {Material: "B500S", Diameter: 0.02, Y: 0, Z: -0.1}},
	}
	m, err := def.Build(material.Characteristic)
	if err != nil {
		tst.Errorf("%v", err)
		return
	}
	if _, err := NewAnalyzer(m); !errors.Is(err, ErrNoConcrete) {
		tst.Errorf("expected ErrNoConcrete, got %v", err)
	}
}

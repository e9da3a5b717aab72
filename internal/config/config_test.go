package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/io"

	"github.com/xcfem/xc-sub010/internal/material"
)

func init() {
	io.Verbose = false
}

func verbose() {
	io.Verbose = true
	chk.Verbose = true
}

func write(tst *testing.T, name, content string) string {
	path := filepath.Join(tst.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		tst.Fatalf("%v", err)
	}
	return path
}

func Test_config01(tst *testing.T) {

	//verbose()
	chk.PrintTitle("config01. defaults and overlays")

	o, err := Load("")
	if err != nil {
		tst.Fatalf("%v", err)
	}
	chk.Int(tst, "nangles", o.Sweep.NumAngles, 24)
	chk.Int(tst, "nmaxit", o.Sweep.Solver.NmaxIt, 30)
	chk.Float64(tst, "β", 1e-15, o.Crack.Beta, 1.7)
	if o.Type() != material.Design {
		tst.Errorf("default diagram type should be design")
	}

	path := write(tst, "opts.yaml", `
diagram: k
sweep:
  nangles: 12
  solver:
    atol: 1.0e-6
crack:
  k2: 1
`)
	o, err = Load(path)
	if err != nil {
		tst.Fatalf("%v", err)
	}
	chk.Int(tst, "nangles", o.Sweep.NumAngles, 12)
	chk.Int(tst, "npoints", o.Sweep.NumPoints, 41)
	chk.Float64(tst, "atol", 1e-20, o.Sweep.Solver.Atol, 1e-6)
	chk.Float64(tst, "rtol", 1e-25, o.Sweep.Solver.Rtol, 1e-12)
	chk.Float64(tst, "k2", 1e-15, o.Crack.K2, 1)
	chk.Float64(tst, "β", 1e-15, o.Crack.Beta, 1.7)
	chk.Float64(tst, "max factor", 1e-15, o.Design.MaxFactor, 20)
	if o.Type() != material.Characteristic {
		tst.Errorf("diagram type should be characteristic")
	}

	path = write(tst, "opts.json", `{"sweep": {"npoints": 21, "workers": 2}}`)
	o, err = Load(path)
	if err != nil {
		tst.Fatalf("%v", err)
	}
	chk.Int(tst, "npoints", o.Sweep.NumPoints, 21)
	chk.Int(tst, "workers", o.Sweep.Workers, 2)
	chk.Int(tst, "nangles", o.Sweep.NumAngles, 24)
}

func Test_config02(tst *testing.T) {

	//verbose()
	chk.PrintTitle("config02. invalid files")

	for _, c := range []struct{ name, content string }{
		{"type.yaml", "diagram: x\n"},
		{"angles.yaml", "sweep:\n  nangles: 2\n"},
		{"limits.yaml", "sweep:\n  compressionlimit: 0.01\n"},
		{"design.json", `{"design": {"minfactor": 2, "maxfactor": 1}}`},
		{"broken.json", `{"sweep": `},
	} {
		if _, err := Load(write(tst, c.name, c.content)); err == nil {
			tst.Errorf("%s: an error was expected", c.name)
		} else {
			io.Pforan("%s: %v\n", c.name, err)
		}
	}
	if _, err := Load(filepath.Join(tst.TempDir(), "missing.yaml")); err == nil {
		tst.Errorf("missing file should fail")
	}
}

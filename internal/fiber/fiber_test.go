package fiber

import (
	"errors"
	"math"
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

// rectangle returns ny x nz fibers of a b x h rectangle centred at the origin;
// b is measured along y and h along z
func rectangle(m *material.Law, b, h float64, ny, nz int) []Fiber {
	dy, dz := b/float64(ny), h/float64(nz)
	var res []Fiber
	for i := 0; i < ny; i++ {
		for j := 0; j < nz; j++ {
			res = append(res, Fiber{
				Tag:  len(res),
				Y:    -b/2 + (float64(i)+0.5)*dy,
				Z:    -h/2 + (float64(j)+0.5)*dz,
				Area: dy * dz,
				Mat:  m,
			})
		}
	}
	return res
}

func Test_fiber01(tst *testing.T) {

	//verbose()
	chk.PrintTitle("fiber01. axial and elastic stiffness")

	e := 30e9
	elast, _ := material.NewElastic("elast", e, 0, 0)
	b, h := 0.3, 0.4
	sec, err := NewSection("rect", rectangle(elast, b, h, 10, 20))
	if err != nil {
		tst.Errorf("%v", err)
		return
	}
	chk.Float64(tst, "area", 1e-12, sec.Area(), b*h)
	yc, zc := sec.Centroid()
	chk.Float64(tst, "yc", 1e-12, yc, 0)
	chk.Float64(tst, "zc", 1e-12, zc, 0)
	chk.Float64(tst, "L", 1e-12, sec.CharacteristicLength(), h-h/20)

	r := sec.Resultant(Plane{Eps0: 1e-4})
	io.Pforan("r = %v\n", r)
	chk.Float64(tst, "N", 1e-6, r.N, e*1e-4*b*h)
	chk.Float64(tst, "My", 1e-6, r.My, 0)
	chk.Float64(tst, "Mz", 1e-6, r.Mz, 0)

	st := NewState(sec)
	sec.SetDeformation(st, Plane{})
	k, err := sec.TangentStiffness(st, 1e12)
	if err != nil {
		tst.Errorf("%v", err)
		return
	}
	var iy, iz float64
	for i := 0; i < sec.Len(); i++ {
		f := sec.Fiber(i)
		iy += f.Area * f.Z * f.Z
		iz += f.Area * f.Y * f.Y
	}
	chk.Float64(tst, "EA", 1e-3, k[0][0], e*b*h)
	chk.Float64(tst, "EIy", 1e-6, k[1][1], e*iy)
	chk.Float64(tst, "EIz", 1e-6, k[2][2], e*iz)
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			if math.Abs(k[i][j]-k[j][i]) > 1e-12*e {
				tst.Errorf("stiffness is not symmetric at (%d,%d)", i, j)
			}
		}
	}

	// plane with curvature: K*p equals the resultant for a linear law
	p := Plane{Eps0: -2e-4, Ky: 1e-3, Kz: 5e-4}
	r = sec.Resultant(p)
	kp := k.Apply(p)
	chk.Float64(tst, "N=K*p", 1e-6, r.N, kp.N)
	chk.Float64(tst, "My=K*p", 1e-6, r.My, kp.My)
	chk.Float64(tst, "Mz=K*p", 1e-6, r.Mz, kp.Mz)
	if r.My <= 0 || r.Mz <= 0 {
		tst.Errorf("positive curvatures must give positive moments: %v", r)
	}
}

func Test_fiber02(tst *testing.T) {

	//verbose()
	chk.PrintTitle("fiber02. degenerate stiffness")

	conc, err := material.NewConcrete(material.EC2, 30).Law(material.Design)
	if err != nil {
		tst.Errorf("%v", err)
		return
	}
	sec, err := NewSection("plain", rectangle(conc, 0.3, 0.5, 4, 10))
	if err != nil {
		tst.Errorf("%v", err)
		return
	}
	st := NewState(sec)
	sec.SetDeformation(st, Plane{Eps0: 1e-3})
	_, err = sec.TangentStiffness(st, 1e12)
	if !errors.Is(err, ErrSectionDegenerate) {
		tst.Errorf("fully cracked section must be degenerate, got %v", err)
	}
	var derr *DegenerateError
	if !errors.As(err, &derr) {
		tst.Errorf("expected *DegenerateError")
	}

	// a single layer of fibers cannot resist bending about y
	line, _ := material.NewElastic("elast", 30e9, 0, 0)
	flat, err := NewSection("line", rectangle(line, 1.0, 0.2, 10, 1))
	if err != nil {
		tst.Errorf("%v", err)
		return
	}
	st = NewState(flat)
	flat.SetDeformation(st, Plane{})
	if _, err = flat.TangentStiffness(st, 1e12); !errors.Is(err, ErrSectionDegenerate) {
		tst.Errorf("aligned fibers must be degenerate, got %v", err)
	}

	if _, err := NewSection("empty", nil); err == nil {
		tst.Errorf("empty section must be rejected")
	}
	if _, err := NewSection("bad", []Fiber{{Area: -1, Mat: line}}); err == nil {
		tst.Errorf("negative area must be rejected")
	}
}

func Test_fiber03(tst *testing.T) {

	//verbose()
	chk.PrintTitle("fiber03. plastic moments")

	fy := 2600.0
	epp, err := material.NewBilinear("epp", 2.1e6, fy, 0, 0)
	if err != nil {
		tst.Errorf("%v", err)
		return
	}
	b, h := 0.2, 0.4
	sec, err := NewSection("rect", rectangle(epp, b, h, 40, 40))
	if err != nil {
		tst.Errorf("%v", err)
		return
	}

	r := sec.Resultant(Plane{Ky: 1})
	io.Pforan("Mp,y = %v\n", r.My)
	chk.Float64(tst, "N", 1e-9, r.N, 0)
	chk.Float64(tst, "Mp,y", 1e-9, r.My, fy*b*h*h/4)

	r = sec.Resultant(Plane{Kz: 1})
	io.Pforan("Mp,z = %v\n", r.Mz)
	chk.Float64(tst, "Mp,z", 1e-9, r.Mz, fy*h*b*b/4)
	chk.Float64(tst, "My", 1e-9, r.My, 0)
}

func Test_fiber04(tst *testing.T) {

	//verbose()
	chk.PrintTitle("fiber04. material limits")

	steel, err := material.B500S.Law(material.Design)
	if err != nil {
		tst.Errorf("%v", err)
		return
	}
	sec, err := NewSection("bars", []Fiber{
		{Tag: 1, Y: -0.1, Z: -0.2, Area: 3.14e-4, Mat: steel},
		{Tag: 2, Y: 0.1, Z: -0.2, Area: 3.14e-4, Mat: steel},
		{Tag: 3, Y: -0.1, Z: 0.2, Area: 3.14e-4, Mat: steel},
		{Tag: 4, Y: 0.1, Z: 0.2, Area: 3.14e-4, Mat: steel},
	})
	if err != nil {
		tst.Errorf("%v", err)
		return
	}
	st := NewState(sec)
	sec.SetDeformation(st, Plane{Eps0: 0.005, Ky: 0.05})
	chk.Int(tst, "exceeded", len(st.Exceeded), 2)
	if err := st.LimitError(sec); !errors.Is(err, material.ErrMaterialLimitExceeded) {
		tst.Errorf("expected limit error, got %v", err)
	}
	sec.SetDeformation(st, Plane{Eps0: 0.005})
	chk.Int(tst, "exceeded", len(st.Exceeded), 0)
	if err := st.LimitError(sec); err != nil {
		tst.Errorf("unexpected error %v", err)
	}
	chk.Int(tst, "materials", len(sec.Materials()), 1)
	chk.Float64(tst, "As", 1e-15, sec.AreaOf(steel), 4*3.14e-4)
}

func Test_fiber05(tst *testing.T) {

	//verbose()
	chk.PrintTitle("fiber05. plain concrete under uniform strain")

	conc, err := material.NewConcrete(material.EC2, 30).Law(material.Design)
	if err != nil {
		tst.Errorf("%v", err)
		return
	}
	b, h := 0.3, 0.4
	sec, err := NewSection("plain", rectangle(conc, b, h, 10, 20))
	if err != nil {
		tst.Errorf("%v", err)
		return
	}
	l := sec.CharacteristicLength()
	for _, c := range []struct {
		name string
		eps  float64
		sig  float64
	}{
		{"parabola", -0.001, -20e6 * 0.75},
		{"plateau", -0.003, -20e6},
		{"tension", 0.001, 0},
	} {
		r := sec.Resultant(Plane{Eps0: c.eps})
		io.Pforan("%s: %v\n", c.name, r)
		chk.Float64(tst, c.name+" σ", 1e-6, conc.Stress(c.eps), c.sig)
		chk.Float64(tst, c.name+" N", 1e-9*math.Abs(c.sig)*b*h, r.N, c.sig*b*h)
		chk.Float64(tst, c.name+" My", 1e-12*math.Abs(r.N)*l, r.My, 0)
		chk.Float64(tst, c.name+" Mz", 1e-12*math.Abs(r.N)*l, r.Mz, 0)
	}

	// no stress at all in tension
	r := sec.Resultant(Plane{Eps0: 0.001})
	if r.N != 0 || r.My != 0 || r.Mz != 0 {
		tst.Errorf("cracked concrete must carry nothing: %v", r)
	}

	// moments about another point
	p := Resultant{N: -2, My: 3, Mz: 5}.About(0.1, -0.2)
	chk.Float64(tst, "My about", 1e-15, p.My, 3-0.4)
	chk.Float64(tst, "Mz about", 1e-15, p.Mz, 5-0.2)
}

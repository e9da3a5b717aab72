package diagram

import (
	"fmt"
	"image/color"
	"math"
	"os"
	"path/filepath"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"

	"github.com/xcfem/xc-sub010/internal/fiber"
	"github.com/xcfem/xc-sub010/internal/interaction"
	"github.com/xcfem/xc-sub010/internal/section"
)

// ExportInteractionDiagram exports the N-M slice of a diagram at theta, with
// the given demands, to an image file
func ExportInteractionDiagram(d *interaction.Diagram, theta float64, demands []fiber.Resultant, filename string) error {
	curve := Slice(d, theta)
	if len(curve) == 0 {
		return fmt.Errorf("diagram %q has no points", d.Name)
	}

	p := plot.New()
	p.Title.Text = fmt.Sprintf("Interaction Diagram %s (θ = %.1f°)", d.Name, theta*180/math.Pi)
	p.X.Label.Text = "M (kN·m)"
	p.Y.Label.Text = "N (kN)"

	pts := make(plotter.XYs, len(curve))
	for i, c := range curve {
		pts[i] = plotter.XY{X: c.M / 1000, Y: c.N / 1000}
	}
	boundary, err := plotter.NewPolygon(pts)
	if err != nil {
		return err
	}
	boundary.Color = color.RGBA{R: 100, G: 149, B: 237, A: 80}
	boundary.LineStyle.Width = vg.Points(2)
	boundary.LineStyle.Color = color.RGBA{R: 0, G: 0, B: 139, A: 255}
	p.Add(boundary)

	vertices, err := plotter.NewScatter(pts)
	if err != nil {
		return err
	}
	vertices.GlyphStyle.Color = color.RGBA{R: 0, G: 0, B: 139, A: 255}
	vertices.GlyphStyle.Radius = vg.Points(1.5)
	p.Add(vertices)

	if len(demands) > 0 {
		ux, uy := math.Cos(theta), math.Sin(theta)
		dp := make(plotter.XYs, len(demands))
		for i, r := range demands {
			dp[i] = plotter.XY{X: (r.My*ux + r.Mz*uy) / 1000, Y: r.N / 1000}
		}
		sc, err := plotter.NewScatter(dp)
		if err != nil {
			return err
		}
		sc.GlyphStyle.Color = color.RGBA{R: 255, G: 0, B: 0, A: 255}
		sc.GlyphStyle.Radius = vg.Points(4)
		sc.GlyphStyle.Shape = draw.CrossGlyph{}
		p.Add(sc)
	}
	p.Add(plotter.NewGrid())

	return save(p, 8*vg.Inch, 6*vg.Inch, filename)
}

// ExportSectionDiagram exports the outline, bars and neutral axis of an
// analysed model to an image file
func ExportSectionDiagram(m *section.Model, res *section.AnalysisResult, filename string) error {
	p := plot.New()
	p.Title.Text = "Fiber Section Analysis"
	p.X.Label.Text = "y (mm)"
	p.Y.Label.Text = "z (mm)"

	for _, r := range m.Def.Regions {
		outline := make(plotter.XYs, len(r.Vertices))
		for i, v := range r.Vertices {
			outline[i] = plotter.XY{X: v.Y * 1000, Y: v.Z * 1000}
		}
		poly, err := plotter.NewPolygon(outline)
		if err != nil {
			return err
		}
		poly.Color = color.Gray{Y: 230}
		poly.LineStyle.Width = vg.Points(2)
		poly.LineStyle.Color = color.Black
		p.Add(poly)
	}

	// compressed concrete fibers
	var comp plotter.XYs
	sec := m.Section
	for i := 0; i < sec.Len(); i++ {
		f := sec.Fiber(i)
		if f.Mat.IsConcrete() && f.StrainAt(res.Plane) < 0 {
			comp = append(comp, plotter.XY{X: f.Y * 1000, Y: f.Z * 1000})
		}
	}
	if len(comp) > 0 {
		sc, err := plotter.NewScatter(comp)
		if err != nil {
			return err
		}
		sc.GlyphStyle.Color = color.RGBA{R: 100, G: 149, B: 237, A: 255}
		sc.GlyphStyle.Radius = vg.Points(2)
		sc.GlyphStyle.Shape = draw.BoxGlyph{}
		p.Add(sc)
	}

	if len(m.Bars) > 0 {
		bars := make(plotter.XYs, len(m.Bars))
		for i, b := range m.Bars {
			bars[i] = plotter.XY{X: b.Y * 1000, Y: b.Z * 1000}
		}
		sc, err := plotter.NewScatter(bars)
		if err != nil {
			return err
		}
		sc.GlyphStyle.Color = color.RGBA{R: 139, G: 69, B: 19, A: 255}
		sc.GlyphStyle.Radius = vg.Points(5)
		sc.GlyphStyle.Shape = draw.CircleGlyph{}
		p.Add(sc)
	}

	// neutral axis: ε0 + κy·z - κz·y = 0
	if na := neutralAxis(res.Plane, m.Props); len(na) == 2 {
		line, err := plotter.NewLine(na)
		if err != nil {
			return err
		}
		line.LineStyle.Width = vg.Points(1.5)
		line.LineStyle.Color = color.RGBA{R: 255, G: 0, B: 0, A: 255}
		line.LineStyle.Dashes = []vg.Length{vg.Points(5), vg.Points(3)}
		p.Add(line)

		lbl, err := plotter.NewLabels(plotter.XYLabels{
			XYs:    []plotter.XY{na[1]},
			Labels: []string{"N.A."},
		})
		if err != nil {
			return err
		}
		p.Add(lbl)
	}

	return save(p, 8*vg.Inch, 6*vg.Inch, filename)
}

// neutralAxis returns the segment of the zero-strain line inside the
// bounding box of the section (mm), or nothing
func neutralAxis(pl fiber.Plane, props *section.Properties) plotter.XYs {
	a, b, c := -pl.Kz, pl.Ky, pl.Eps0 // a·y + b·z + c = 0
	var res plotter.XYs
	add := func(y, z float64) {
		if y >= props.MinY-1e-9 && y <= props.MaxY+1e-9 && z >= props.MinZ-1e-9 && z <= props.MaxZ+1e-9 && len(res) < 2 {
			res = append(res, plotter.XY{X: y * 1000, Y: z * 1000})
		}
	}
	if b != 0 {
		add(props.MinY, -(c+a*props.MinY)/b)
		add(props.MaxY, -(c+a*props.MaxY)/b)
	}
	if a != 0 {
		add(-(c+b*props.MinZ)/a, props.MinZ)
		add(-(c+b*props.MaxZ)/a, props.MaxZ)
	}
	if len(res) == 2 && res[0] == res[1] {
		return nil
	}
	return res
}

// save writes p with the format given by the extension of filename; files
// without a known extension get .png
func save(p *plot.Plot, width, height vg.Length, filename string) error {
	dir := filepath.Dir(filename)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return err
		}
	}
	switch filepath.Ext(filename) {
	case ".png", ".svg", ".pdf":
		return p.Save(width, height, filename)
	default:
		return p.Save(width, height, filename+".png")
	}
}

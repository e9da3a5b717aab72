package diagram

import (
	"fmt"
	"math"
	"strings"

	"github.com/xcfem/xc-sub010/internal/fiber"
	"github.com/xcfem/xc-sub010/internal/interaction"
	"github.com/xcfem/xc-sub010/internal/section"
)

// Point is a point of a plane interaction curve
type Point struct {
	M float64 // moment projected on the slice direction
	N float64
}

// Slice returns the closed N-M curve of the diagram in the vertical plane
// containing the moment direction theta: the meridian closest to theta
// (positive M) followed by the one closest to theta+π (negative M), both
// from the tension to the compression pole.
func Slice(d *interaction.Diagram, theta float64) []Point {
	if len(d.Meridians) == 0 {
		return nil
	}
	ux, uy := math.Cos(theta), math.Sin(theta)
	proj := func(r fiber.Resultant) float64 { return r.My*ux + r.Mz*uy }

	j0, j1 := nearest(d, theta), nearest(d, theta+math.Pi)
	var res []Point
	for _, i := range d.Meridians[j0] {
		r := d.Points[i].Resultant
		res = append(res, Point{proj(r), r.N})
	}
	mer := d.Meridians[j1]
	for k := len(mer) - 1; k >= 0; k-- {
		r := d.Points[mer[k]].Resultant
		res = append(res, Point{proj(r), r.N})
	}
	return append(res, res[0])
}

// nearest returns the meridian whose direction is closest to theta
func nearest(d *interaction.Diagram, theta float64) int {
	best, dmin := 0, math.Inf(1)
	for j, mer := range d.Meridians {
		if len(mer) == 0 {
			continue
		}
		t := d.Points[mer[0]].Theta
		dist := math.Abs(math.Remainder(t-theta, 2*math.Pi))
		if dist < dmin {
			best, dmin = j, dist
		}
	}
	return best
}

// DrawASCIIInteraction plots the slice of the diagram at theta on a
// character grid; compression is drawn upwards and demands are marked ●
func DrawASCIIInteraction(d *interaction.Diagram, theta float64, demands []fiber.Resultant) string {
	const width, height = 61, 25
	curve := Slice(d, theta)
	if len(curve) == 0 {
		return ""
	}
	ux, uy := math.Cos(theta), math.Sin(theta)

	mmax, nmin, nmax := 0.0, math.Inf(1), math.Inf(-1)
	for _, p := range curve {
		mmax = math.Max(mmax, math.Abs(p.M))
		nmin = math.Min(nmin, p.N)
		nmax = math.Max(nmax, p.N)
	}
	for _, r := range demands {
		mmax = math.Max(mmax, math.Abs(r.My*ux+r.Mz*uy))
		nmin = math.Min(nmin, r.N)
		nmax = math.Max(nmax, r.N)
	}
	if mmax == 0 {
		mmax = 1
	}
	if nmax == nmin {
		nmax = nmin + 1
	}

	grid := make([][]rune, height)
	for i := range grid {
		grid[i] = []rune(strings.Repeat(" ", width))
	}
	col := func(m float64) int { return int(math.Round((m/mmax + 1) / 2 * float64(width-1))) }
	row := func(n float64) int { return int(math.Round((n - nmin) / (nmax - nmin) * float64(height-1))) }
	put := func(m, n float64, c rune) {
		i, k := row(n), col(m)
		if i >= 0 && i < height && k >= 0 && k < width {
			grid[i][k] = c
		}
	}

	// axes
	if i := row(0); i >= 0 && i < height {
		for k := range grid[i] {
			grid[i][k] = '─'
		}
	}
	for i := range grid {
		grid[i][col(0)] = '│'
	}

	// boundary, densified between vertices
	for k := 0; k+1 < len(curve); k++ {
		a, b := curve[k], curve[k+1]
		for s := 0; s <= 8; s++ {
			t := float64(s) / 8
			put(a.M+t*(b.M-a.M), a.N+t*(b.N-a.N), '∙')
		}
	}
	for _, r := range demands {
		put(r.My*ux+r.Mz*uy, r.N, '●')
	}

	var sb strings.Builder
	sb.WriteString("\n")
	sb.WriteString(fmt.Sprintf("  INTERACTION DIAGRAM %s  (θ = %.1f°)\n", d.Name, theta*180/math.Pi))
	sb.WriteString("  ──────────────────────────────────────\n")
	sb.WriteString(fmt.Sprintf("  N = %.1f kN\n", nmin/1000))
	for _, line := range grid {
		sb.WriteString("  ")
		sb.WriteString(string(line))
		sb.WriteString("\n")
	}
	sb.WriteString(fmt.Sprintf("  N = %.1f kN\n", nmax/1000))
	sb.WriteString(fmt.Sprintf("  M from %.1f to %.1f kN·m\n", -mmax/1000, mmax/1000))
	sb.WriteString("\n  Legend:\n")
	sb.WriteString("  ∙∙∙ = Capacity boundary (compression at the top)\n")
	sb.WriteString("  ●   = Demand\n")
	return sb.String()
}

// DrawASCIISection draws the fibers of a model under an analysed plane:
// compressed concrete ░, concrete in tension ·, bars ●
func DrawASCIISection(m *section.Model, res *section.AnalysisResult) string {
	const widthChars, heightChars = 30, 20
	props := m.Props
	w, h := props.Width, props.Height
	if w <= 0 || h <= 0 {
		return ""
	}

	grid := make([][]rune, heightChars)
	for i := range grid {
		grid[i] = []rune(strings.Repeat(" ", widthChars))
	}
	cell := func(y, z float64) (int, int) {
		k := int((y - props.MinY) / w * widthChars)
		i := int((props.MaxZ - z) / h * heightChars)
		return min(max(i, 0), heightChars-1), min(max(k, 0), widthChars-1)
	}
	sec := m.Section
	for n := 0; n < sec.Len(); n++ {
		f := sec.Fiber(n)
		if !f.Mat.IsConcrete() {
			continue
		}
		i, k := cell(f.Y, f.Z)
		if f.StrainAt(res.Plane) < 0 {
			grid[i][k] = '░'
		} else if grid[i][k] == ' ' {
			grid[i][k] = '·'
		}
	}
	for _, b := range m.Bars {
		i, k := cell(b.Y, b.Z)
		grid[i][k] = '●'
	}

	var sb strings.Builder
	sb.WriteString("\n")
	sb.WriteString("  SECTION                         BARS\n")
	sb.WriteString("  ───────                         ────\n")
	sb.WriteString(fmt.Sprintf("  ┌%s┐\n", strings.Repeat("─", widthChars)))
	for i, line := range grid {
		sb.WriteString(fmt.Sprintf("  │%s│", string(line)))
		if i < len(res.Bars) {
			b := res.Bars[i]
			mark := ""
			if b.HasYielded {
				mark = " (yields)"
			}
			sb.WriteString(fmt.Sprintf("    #%d ε = %.5f  σ = %.1f MPa%s", b.Tag, b.Strain, b.Stress/1e6, mark))
		}
		sb.WriteString("\n")
	}
	sb.WriteString(fmt.Sprintf("  └%s┘\n", strings.Repeat("─", widthChars)))
	sb.WriteString("\n  Legend:\n")
	sb.WriteString("  ░░░ = Compressed concrete\n")
	sb.WriteString("  ··· = Concrete in tension\n")
	sb.WriteString("  ●●● = Reinforcement\n")
	if !math.IsInf(res.NeutralAxisDepth, 1) {
		sb.WriteString(fmt.Sprintf("  Neutral axis depth = %.1f mm\n", res.NeutralAxisDepth*1000))
	}
	return sb.String()
}

// DrawSummaryBox creates a summary box for results
func DrawSummaryBox(title string, lines []string) string {
	var sb strings.Builder

	maxLen := len([]rune(title))
	for _, line := range lines {
		if n := len([]rune(line)); n > maxLen {
			maxLen = n
		}
	}
	maxLen += 4

	border := strings.Repeat("═", maxLen)
	sb.WriteString(fmt.Sprintf("  ╔%s╗\n", border))
	sb.WriteString(fmt.Sprintf("  ║  %-*s  ║\n", maxLen-4, title))
	sb.WriteString(fmt.Sprintf("  ╠%s╣\n", border))
	for _, line := range lines {
		sb.WriteString(fmt.Sprintf("  ║  %-*s  ║\n", maxLen-4, line))
	}
	sb.WriteString(fmt.Sprintf("  ╚%s╝\n", border))

	return sb.String()
}

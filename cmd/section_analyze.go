package cmd

import (
	"errors"
	"fmt"
	"math"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/xcfem/xc-sub010/internal/diagram"
	"github.com/xcfem/xc-sub010/internal/fiber"
	"github.com/xcfem/xc-sub010/internal/interaction"
	"github.com/xcfem/xc-sub010/internal/section"
	"github.com/xcfem/xc-sub010/internal/solver"
)

var (
	sectionAnalyzeFile        string
	sectionAnalyzeType        string
	sectionAnalyzeEps0        float64
	sectionAnalyzeKy          float64
	sectionAnalyzeKz          float64
	sectionAnalyzeN           float64
	sectionAnalyzeMy          float64
	sectionAnalyzeMz          float64
	sectionAnalyzeShowDiagram bool
	sectionAnalyzeExportFile  string
)

var sectionAnalyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Response of a fiber section to a strain plane or a force target",
	Long: `Integrate the fiber stresses of a section for a deformation plane
ε(y, z) = ε0 + κy·z - κz·y, or find the plane that equilibrates a target
(N, My, Mz) with the Newton solver when any force flag is given.

Tension is positive. My = Σσ·A·z and Mz = -Σσ·A·y.

Examples:
  # Strains of a given plane
  fibersec section analyze -f column.yaml --eps0 -0.001 --ky 0.01

  # Plane equilibrating 1000 kN of compression and 150 kN-m
  fibersec section analyze -f column.yaml --n -1000 --my 150 --diagram`,
	Run: runSectionAnalyze,
}

func init() {
	sectionCmd.AddCommand(sectionAnalyzeCmd)

	sectionAnalyzeCmd.Flags().StringVarP(&sectionAnalyzeFile, "file", "f", "", "Path to section YAML/JSON file [required]")
	sectionAnalyzeCmd.Flags().StringVarP(&sectionAnalyzeType, "type", "t", "", "Material diagrams: d (design) or k (characteristic)")
	sectionAnalyzeCmd.MarkFlagRequired("file")

	// Plane
	sectionAnalyzeCmd.Flags().Float64Var(&sectionAnalyzeEps0, "eps0", 0, "Strain at the origin")
	sectionAnalyzeCmd.Flags().Float64Var(&sectionAnalyzeKy, "ky", 0, "Curvature about y (1/m)")
	sectionAnalyzeCmd.Flags().Float64Var(&sectionAnalyzeKz, "kz", 0, "Curvature about z (1/m)")

	// Force target
	sectionAnalyzeCmd.Flags().Float64Var(&sectionAnalyzeN, "n", 0, "Target axial force (kN)")
	sectionAnalyzeCmd.Flags().Float64Var(&sectionAnalyzeMy, "my", 0, "Target moment about y (kN-m)")
	sectionAnalyzeCmd.Flags().Float64Var(&sectionAnalyzeMz, "mz", 0, "Target moment about z (kN-m)")

	// Diagram options
	sectionAnalyzeCmd.Flags().BoolVar(&sectionAnalyzeShowDiagram, "diagram", false, "Show ASCII strain diagram of the section")
	sectionAnalyzeCmd.Flags().StringVarP(&sectionAnalyzeExportFile, "output", "o", "", "Export section diagram to file (png, svg, pdf)")
}

func runSectionAnalyze(cmd *cobra.Command, args []string) {
	cfg, m, err := loadModel(sectionAnalyzeFile, sectionAnalyzeType)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		return
	}
	sec := m.Section

	plane := fiber.Plane{Eps0: sectionAnalyzeEps0, Ky: sectionAnalyzeKy, Kz: sectionAnalyzeKz}
	target := fiber.Resultant{N: sectionAnalyzeN * 1e3, My: sectionAnalyzeMy * 1e3, Mz: sectionAnalyzeMz * 1e3}
	var result *section.AnalysisResult
	var iterations int
	solved := cmd.Flags().Changed("n") || cmd.Flags().Changed("my") || cmd.Flags().Changed("mz")
	if solved {
		nwt := solver.NewNewton(&cfg.Sweep.Solver)
		res, err := nwt.Solve(cmd.Context(), sec, target, solver.ElasticGuess(sec, target))
		if err != nil {
			var cerr *solver.ConvergenceError
			if errors.As(err, &cerr) {
				fmt.Printf("Error: no plane equilibrates the target; best plane %v leaves %v\n", cerr.Plane, cerr.Residual)
				return
			}
			fmt.Printf("Error: %v\n", err)
			return
		}
		plane, iterations = res.Plane, res.Iterations
		result = m.Report(res.State, plane)
	} else {
		result = m.Analyze(plane)
	}

	header(fmt.Sprintf("FIBER SECTION ANALYSIS (%s diagrams)", m.Type))

	if m.Def.Name != "" {
		fmt.Printf("  Section: %s\n", m.Def.Name)
	}
	if m.Def.Description != "" {
		fmt.Printf("  Description: %s\n", m.Def.Description)
	}
	fmt.Println()

	// Geometric properties
	props := m.Props
	subheader("SECTION GEOMETRY:")
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "  Width:\t%.0f mm\n", props.Width*1e3)
	fmt.Fprintf(w, "  Height:\t%.0f mm\n", props.Height*1e3)
	fmt.Fprintf(w, "  Gross Area:\t%.0f mm²\n", props.Area*1e6)
	fmt.Fprintf(w, "  Centroid (y, z):\t(%.1f, %.1f) mm\n", props.CentroidY*1e3, props.CentroidZ*1e3)
	fmt.Fprintf(w, "  Fibers:\t%d\n", sec.Len())
	fmt.Fprintf(w, "  Bars:\t%d (%.0f mm², ρ = %.4f)\n", props.NumBars, props.SteelArea*1e6, props.SteelRatio)
	if props.NumBars > 0 {
		fmt.Fprintf(w, "  Minimum cover to bar centre:\t%.0f mm\n", props.MinCover*1e3)
	}
	w.Flush()
	fmt.Println()

	// Materials
	subheader("MATERIALS:")
	w = tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "  Law\tArea (mm²)\tLimits\n")
	fmt.Fprintf(w, "  ───\t──────────\t──────\n")
	for _, law := range sec.Materials() {
		fmt.Fprintf(w, "  %s\t%.0f\t[%g, %g]\n", law, sec.AreaOf(law)*1e6, law.UltimateCompression(), law.UltimateTension())
	}
	w.Flush()
	fmt.Println()

	// Plane and resultant
	subheader("DEFORMATION PLANE:")
	w = tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "  ε0:\t%.6e\n", plane.Eps0)
	fmt.Fprintf(w, "  κy:\t%.6e 1/m\n", plane.Ky)
	fmt.Fprintf(w, "  κz:\t%.6e 1/m\n", plane.Kz)
	if solved {
		fmt.Fprintf(w, "  Newton iterations:\t%d\n", iterations)
	}
	fmt.Fprintf(w, "  Strain range:\t[%.6f, %.6f]\n", result.MinStrain, result.MaxStrain)
	if !math.IsNaN(result.MinConcreteStrain) {
		fmt.Fprintf(w, "  Most compressed concrete:\t%.6f\n", result.MinConcreteStrain)
	}
	if !math.IsInf(result.NeutralAxisDepth, 1) {
		fmt.Fprintf(w, "  Neutral axis depth:\t%.1f mm\n", result.NeutralAxisDepth*1e3)
	}
	fmt.Fprintf(w, "  Utilization of strain limits:\t%.3f\n", interaction.PlaneUtilization(sec, cfg.Sweep, plane))
	w.Flush()
	fmt.Println()

	subheader("STRESS RESULTANT:")
	w = tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "  N:\t%.2f kN\n", result.Resultant.N/1e3)
	fmt.Fprintf(w, "  My:\t%.2f kN-m\n", result.Resultant.My/1e3)
	fmt.Fprintf(w, "  Mz:\t%.2f kN-m\n", result.Resultant.Mz/1e3)
	w.Flush()
	fmt.Println()

	// Bars
	if len(result.Bars) > 0 {
		subheader("REINFORCEMENT:")
		w = tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintf(w, "  Bar\ty (mm)\tz (mm)\tStrain\tStress (MPa)\tForce (kN)\tStatus\n")
		fmt.Fprintf(w, "  ───\t──────\t──────\t──────\t────────────\t──────────\t──────\n")
		for _, b := range result.Bars {
			status := "Tension"
			if !b.IsTension {
				status = "Compression"
			}
			if b.HasYielded {
				status += " (yields)"
			}
			fmt.Fprintf(w, "  %d\t%.0f\t%.0f\t%.6f\t%.2f\t%.2f\t%s\n",
				b.Tag, b.Y*1e3, b.Z*1e3, b.Strain, b.Stress/1e6, b.Force/1e3, status)
		}
		w.Flush()
		fmt.Println()
	}

	if result.Exceeded > 0 {
		fmt.Printf("  ⚠ %d fibers are outside their material domain\n\n", result.Exceeded)
	}

	if sectionAnalyzeShowDiagram {
		fmt.Println(diagram.DrawASCIISection(m, result))
	}
	if sectionAnalyzeExportFile != "" {
		if err := diagram.ExportSectionDiagram(m, result, sectionAnalyzeExportFile); err != nil {
			fmt.Printf("Error exporting diagram: %v\n", err)
		} else {
			fmt.Printf("Diagram exported to: %s\n", sectionAnalyzeExportFile)
		}
	}
}

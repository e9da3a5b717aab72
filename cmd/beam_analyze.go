package cmd

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/xcfem/xc-sub010/internal/beam"
	"github.com/xcfem/xc-sub010/internal/diagram"
)

var (
	analyzeBeam beamFlags
	analyzeAs   float64
	analyzeBars int
)

var beamAnalyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Analyze moment capacity of a singly reinforced beam",
	Long: `Calculate the moment capacity (φMn) of a singly reinforced
rectangular beam given the tension reinforcement area (As).

Mn is the sagging moment of the fiber section whose top fiber reaches
εcu = 0.003. The analysis follows NSCP 2015 provisions:
  - Section 409.3.2: Strength reduction factors
  - Section 409.6.1.2: Minimum reinforcement check
  - Section 422.2.2: Concrete strain limit

Examples:
  # Analyze a 300x500mm beam with 3-20mm bars (As = 942 mm²)
  fibersec beam analyze --width 300 --height 500 --cover 65 --fc 28 --fy 415 --as 942

  # Four bars, with the section strains
  fibersec beam analyze -b 300 --height 500 -a 1256 --bars 4 --diagram`,
	Run: runBeamAnalyze,
}

func init() {
	beamCmd.AddCommand(beamAnalyzeCmd)

	analyzeBeam.register(beamAnalyzeCmd, false)
	beamAnalyzeCmd.Flags().Float64VarP(&analyzeAs, "as", "a", 0, "Tension reinforcement area As (mm²) [required]")
	beamAnalyzeCmd.Flags().IntVar(&analyzeBars, "bars", 3, "Number of tension bars")
	beamAnalyzeCmd.MarkFlagRequired("as")
}

func runBeamAnalyze(cmd *cobra.Command, args []string) {
	f := analyzeBeam
	b := beam.NewSinglyReinforced(f.width, f.height, f.cover, f.fc, f.fy)
	b.NBars = analyzeBars

	result, err := b.Analyze(cmd.Context(), analyzeAs)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		return
	}

	header("SINGLY REINFORCED BEAM ANALYSIS - NSCP 2015")
	f.printInput(b.EffectiveDepth, false,
		fmt.Sprintf("Reinforcement (As):\t%.2f mm² (%d bars)", analyzeAs, b.NBars))

	subheader("REINFORCEMENT RATIOS:")
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "  ρ_min:\t%.6f\n", result.RhoMin)
	mark := " ✓"
	if !result.MeetsMinReinf {
		mark = " ⚠ (< ρ_min)"
	}
	fmt.Fprintf(w, "  ρ_actual:\t%.6f%s\n", result.Rho, mark)
	fmt.Fprintf(w, "  As,min:\t%.2f mm²\n", result.RhoMin*b.Width*b.EffectiveDepth)
	w.Flush()
	fmt.Println()

	subheader("SECTION AT NOMINAL CAPACITY:")
	w = tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "  Neutral axis depth (c):\t%.2f mm\n", result.C)
	fmt.Fprintf(w, "  c/d ratio:\t%.4f\n", result.C/b.EffectiveDepth)
	fmt.Fprintf(w, "  Top fiber strain:\t%.6f\n", result.EpsilonTop)
	fmt.Fprintf(w, "  Tensile strain (εt):\t%.6f\n", result.EpsilonT)
	fmt.Fprintf(w, "  Strength reduction factor (φ):\t%.2f\n", result.Phi)
	fmt.Fprintf(w, "  Nominal Moment (Mn):\t%.2f kN-m\n", result.Mn)
	w.Flush()
	fmt.Println()

	if beamDiagram {
		fmt.Println(diagram.DrawASCIISection(result.Model, result.Report))
	}

	capacityBox(result.PhiMn)

	subheader("STATUS:")
	fmt.Printf("  Section: %s\n", controlStatus(result.IsTensionControlled, result.EpsilonT, result.Phi, b.Fy))
	fmt.Printf("  %s\n", result.Message)
	fmt.Println()
}

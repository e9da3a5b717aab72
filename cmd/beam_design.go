package cmd

import (
	"fmt"
	"math"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/xcfem/xc-sub010/internal/beam"
	"github.com/xcfem/xc-sub010/internal/diagram"
)

var (
	designBeam       beamFlags
	designMu         float64
	designExportFile string
)

var beamDesignCmd = &cobra.Command{
	Use:   "design",
	Short: "Design reinforcement for a singly reinforced beam",
	Long: `Calculate the required tension reinforcement area (As) for a
singly reinforced rectangular beam given the factored moment (Mu).

The area is corrected by the ratio Mu/φMn of a fiber analysis until φMn
is within 0.5% above Mu, never below As,min (NSCP 2015 Section 409.6.1.2).

Examples:
  # Design a 300x500mm beam with Mu=150 kN-m
  fibersec beam design --width 300 --height 500 --cover 65 --fc 28 --fy 415 --mu 150

  # Export the section at φMn
  fibersec beam design -b 300 --height 500 -m 150 -o beam.png`,
	Run: runBeamDesign,
}

func init() {
	beamCmd.AddCommand(beamDesignCmd)

	designBeam.register(beamDesignCmd, false)
	beamDesignCmd.Flags().Float64VarP(&designMu, "mu", "m", 0, "Factored moment Mu (kN-m) [required]")
	beamDesignCmd.Flags().StringVarP(&designExportFile, "output", "o", "", "Export the section at φMn to file (png, svg, pdf)")
	beamDesignCmd.MarkFlagRequired("mu")
}

func runBeamDesign(cmd *cobra.Command, args []string) {
	f := designBeam
	b := beam.NewSinglyReinforced(f.width, f.height, f.cover, f.fc, f.fy)

	result, err := b.Design(cmd.Context(), designMu)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		return
	}

	header("SINGLY REINFORCED BEAM DESIGN - NSCP 2015")

	f.printInput(b.EffectiveDepth, false, fmt.Sprintf("Factored Moment (Mu):\t%.2f kN-m", designMu))

	// Reinforcement ratios
	subheader("REINFORCEMENT:")
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "  ρ_min:\t%.6f\n", result.RhoMin)
	fmt.Fprintf(w, "  ρ_required:\t%.6f\n", result.RhoRequired)
	fmt.Fprintf(w, "  As,min:\t%.2f mm²\n", result.AsMin)
	fmt.Fprintf(w, "  Iterations:\t%d\n", result.Iterations)
	w.Flush()
	fmt.Println()

	// Section analysis
	subheader("SECTION AT φMn:")
	w = tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "  Neutral axis depth (c):\t%.2f mm\n", result.C)
	fmt.Fprintf(w, "  Tensile strain (εt):\t%.6f\n", result.EpsilonT)
	fmt.Fprintf(w, "  Strength reduction factor (φ):\t%.2f\n", result.Phi)
	fmt.Fprintf(w, "  Section status:\t%s\n", controlStatus(result.IsTensionControlled, result.EpsilonT, result.Phi, b.Fy))
	w.Flush()
	fmt.Println()

	if beamDiagram && result.Model != nil {
		fmt.Println(diagram.DrawASCIISection(result.Model, result.Report))
	}

	// Design result
	subheader("DESIGN RESULT:")
	if result.IsAdequate {
		fmt.Println(diagram.DrawSummaryBox("DESIGN OK", []string{
			fmt.Sprintf("REQUIRED As = %.2f mm²", result.AsRequired),
			fmt.Sprintf("φMn = %.2f kN-m ≥ Mu = %.2f kN-m ✓", result.PhiMn, designMu),
		}))
		fmt.Printf("  Status: %s\n", result.Message)
	} else {
		fmt.Println(diagram.DrawSummaryBox("DESIGN NOT ADEQUATE", []string{
			fmt.Sprintf("φMn = %.2f kN-m < Mu = %.2f kN-m", result.PhiMn, designMu),
		}))
		fmt.Printf("  %s\n", result.Message)
	}
	fmt.Println()

	// Suggested bar combinations
	if result.IsAdequate {
		printBarSuggestions(result.AsRequired)
	}

	// Export diagram if requested
	if designExportFile != "" && result.Model != nil {
		if err := diagram.ExportSectionDiagram(result.Model, result.Report, designExportFile); err != nil {
			fmt.Printf("Error exporting diagram: %v\n", err)
		} else {
			fmt.Printf("Diagram exported to: %s\n", designExportFile)
		}
	}
}

// barDiameters are the bar sizes tried by the suggestions (mm)
var barDiameters = []float64{16, 20, 25, 28, 32}

func printBarSuggestions(asRequired float64) {
	subheader("SUGGESTED BAR COMBINATIONS:")
	printBarSuggestionsFor(asRequired, "  ")
	fmt.Println()
}

// printBarSuggestionsFor lists, per diameter, the smallest count of 2 to 8
// bars providing asRequired
func printBarSuggestionsFor(asRequired float64, indent string) {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "%sBars\tAs Provided\tRatio\n", indent)
	fmt.Fprintf(w, "%s────\t───────────\t─────\n", indent)
	for _, dia := range barDiameters {
		area := math.Pi * dia * dia / 4
		count := int(math.Ceil(asRequired / area))
		if count < 2 || count > 8 {
			continue
		}
		total := float64(count) * area
		fmt.Fprintf(w, "%s%d - φ%.0fmm\t%.2f mm²\t%.2f\n", indent, count, dia, total, total/asRequired)
	}
	w.Flush()
}

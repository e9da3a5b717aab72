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
	doublyDesignBeam beamFlags
	doublyDesignMu   float64
)

var beamDoublyDesignCmd = &cobra.Command{
	Use:   "design",
	Short: "Design reinforcement for a doubly reinforced beam",
	Long: `Calculate the required tension (As) and compression (A'sc) reinforcement
for a doubly reinforced rectangular beam given the factored moment (Mu).

The tension-controlled singly reinforced capacity φMn1 is found first. If
the moment can be resisted by it, no compression steel will be required.
Otherwise the remainder is given to a steel couple As2 = A'sc that is
corrected by a fiber analysis until φMn is within 0.5% above Mu.

Examples:
  # Design a 300x500mm beam with Mu=250 kN-m
  fibersec beam doubly design -b 300 --height 500 -c 65 --cover-comp 65 --fc 28 --fy 415 -m 250`,
	Run: runDoublyDesign,
}

func init() {
	beamDoublyCmd.AddCommand(beamDoublyDesignCmd)

	doublyDesignBeam.register(beamDoublyDesignCmd, true)
	beamDoublyDesignCmd.Flags().Float64VarP(&doublyDesignMu, "mu", "m", 0, "Factored moment Mu (kN-m) [required]")
	beamDoublyDesignCmd.MarkFlagRequired("mu")
}

func runDoublyDesign(cmd *cobra.Command, args []string) {
	f := doublyDesignBeam
	b := beam.NewDoublyReinforced(f.width, f.height, f.cover, f.coverComp, f.fc, f.fy)

	// Run design
	result, err := b.Design(cmd.Context(), doublyDesignMu)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		return
	}

	header("DOUBLY REINFORCED BEAM DESIGN - NSCP 2015")

	f.printInput(b.EffectiveDepth, true, fmt.Sprintf("Factored Moment (Mu):\t%.2f kN-m", doublyDesignMu))

	// Reinforcement limits
	subheader("REINFORCEMENT LIMITS (Singly Reinforced):")
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "  ρ_min:\t%.6f\n", result.RhoMin)
	fmt.Fprintf(w, "  As,min:\t%.2f mm²\n", result.AsMin)
	fmt.Fprintf(w, "  As,max (tension-controlled):\t%.2f mm²\n", result.AsMax)
	fmt.Fprintf(w, "  c at As,max:\t%.2f mm\n", result.CMax)
	w.Flush()
	fmt.Println()

	// Design type determination
	subheader("DESIGN DETERMINATION:")
	w = tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	if result.RequiresCompSteel {
		fmt.Fprintf(w, "  Max φMn (singly reinforced):\t%.2f kN-m\n", result.Mu1)
	}
	fmt.Fprintf(w, "  Required Mu:\t%.2f kN-m\n", doublyDesignMu)
	if result.RequiresCompSteel {
		fmt.Fprintf(w, "  Design Type:\tDOUBLY REINFORCED REQUIRED\n")
	} else {
		fmt.Fprintf(w, "  Design Type:\tSingly Reinforced Adequate\n")
	}
	w.Flush()
	fmt.Println()

	if result.RequiresCompSteel {
		// Doubly reinforced details
		subheader("MOMENT DISTRIBUTION:")
		w = tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintf(w, "  Mu1 (concrete couple):\t%.2f kN-m\n", result.Mu1)
		fmt.Fprintf(w, "  Mu2 (steel couple):\t%.2f kN-m\n", result.Mu2)
		fmt.Fprintf(w, "  Total Mu:\t%.2f kN-m\n", result.Mu1+result.Mu2)
		w.Flush()
		fmt.Println()

		subheader("COMPRESSION STEEL CHECK:")
		w = tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintf(w, "  d':\t%.2f mm\n", b.CoverComp)
		fmt.Fprintf(w, "  ε'sc:\t%.6f\n", result.EpsilonSc)
		fmt.Fprintf(w, "  εy:\t%.6f\n", b.Fy/200000)
		if result.CompYielded {
			fmt.Fprintf(w, "  Compression steel:\tYIELDS (f'sc = fy = %.1f MPa)\n", b.Fy)
		} else {
			fmt.Fprintf(w, "  Compression steel:\tDOES NOT YIELD (f'sc = %.1f MPa)\n", result.FscStress)
		}
		w.Flush()
		fmt.Println()

		subheader("TENSION STEEL CALCULATION:")
		w = tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintf(w, "  As1 (for Mu1):\t%.2f mm²\n", result.As1)
		fmt.Fprintf(w, "  As2 (for Mu2):\t%.2f mm²\n", result.As2)
		fmt.Fprintf(w, "  Iterations:\t%d\n", result.Iterations)
		w.Flush()
		fmt.Println()
	}

	// Section analysis
	subheader("SECTION STATUS:")
	w = tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
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
		lines := []string{fmt.Sprintf("TENSION STEEL     As  = %.2f mm²", result.AsTotal)}
		if result.RequiresCompSteel {
			lines = append(lines, fmt.Sprintf("COMPRESSION STEEL A'sc = %.2f mm²", result.AscRequired))
		}
		lines = append(lines, fmt.Sprintf("φMn = %.2f kN-m ≥ Mu = %.2f kN-m ✓", result.PhiMn, doublyDesignMu))
		fmt.Println(diagram.DrawSummaryBox("DESIGN OK", lines))
		fmt.Printf("  Status: %s\n", result.Message)
	} else {
		fmt.Println(diagram.DrawSummaryBox("DESIGN NOT ADEQUATE", []string{
			fmt.Sprintf("φMn = %.2f kN-m < Mu = %.2f kN-m", result.PhiMn, doublyDesignMu),
		}))
		fmt.Printf("  %s\n", result.Message)
	}
	fmt.Println()

	// Suggested bar combinations
	if result.IsAdequate {
		subheader("SUGGESTED BAR COMBINATIONS:")
		fmt.Println("  Tension Steel:")
		printBarSuggestionsFor(result.AsTotal, "    ")
		if result.RequiresCompSteel && result.AscRequired > 0 {
			fmt.Println()
			fmt.Println("  Compression Steel:")
			printBarSuggestionsFor(result.AscRequired, "    ")
		}
	}
}

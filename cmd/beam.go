package cmd

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

var beamCmd = &cobra.Command{
	Use:   "beam",
	Short: "Rectangular beam design and analysis (NSCP 2015)",
	Long: `Design and analyze rectangular concrete beams based on NSCP 2015
provisions.

The beam is discretized into fibers with the NSCP parabola-rectangle
concrete and elastic-perfectly-plastic steel. The nominal moment Mn is
reached when the top fiber crushes (εcu = 0.003).

Subcommands:
  design   - Calculate required reinforcement for a given moment
  analyze  - Calculate moment capacity for a given reinforcement
  doubly   - The same for beams with compression steel

Dimensions are in mm, strengths in MPa and moments in kN-m.`,
}

var beamDiagram bool

func init() {
	rootCmd.AddCommand(beamCmd)
	beamCmd.PersistentFlags().BoolVar(&beamDiagram, "diagram", false, "Draw the strains of the section at Mn")
}

// beamFlags are the geometry and material flags shared by the beam commands
type beamFlags struct {
	width, height, cover, coverComp float64
	fc, fy                          float64
}

func (o *beamFlags) register(c *cobra.Command, doubly bool) {
	c.Flags().Float64VarP(&o.width, "width", "b", 0, "Beam width (mm) [required]")
	c.Flags().Float64Var(&o.height, "height", 0, "Beam total depth (mm) [required]")
	if doubly {
		c.Flags().Float64VarP(&o.cover, "cover", "c", 65, "Effective cover to tension steel centroid (mm)")
		c.Flags().Float64VarP(&o.coverComp, "cover-comp", "d", 65, "Cover to compression steel centroid d' (mm)")
	} else {
		c.Flags().Float64VarP(&o.cover, "cover", "c", 65, "Effective cover to steel centroid (mm)")
	}
	c.Flags().Float64Var(&o.fc, "fc", 28, "Concrete compressive strength f'c (MPa)")
	c.Flags().Float64Var(&o.fy, "fy", 415, "Steel yield strength fy (MPa)")
	c.MarkFlagRequired("width")
	c.MarkFlagRequired("height")
}

// printInput prints the beam data followed by extra "label\tvalue" rows
func (o *beamFlags) printInput(d float64, doubly bool, rows ...string) {
	subheader("INPUT DATA:")
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "  Beam Width (b):\t%.0f mm\n", o.width)
	fmt.Fprintf(w, "  Beam Depth (h):\t%.0f mm\n", o.height)
	fmt.Fprintf(w, "  Effective Depth (d):\t%.0f mm\n", d)
	if doubly {
		fmt.Fprintf(w, "  Tension Cover:\t%.0f mm\n", o.cover)
		fmt.Fprintf(w, "  Compression Cover (d'):\t%.0f mm\n", o.coverComp)
	} else {
		fmt.Fprintf(w, "  Concrete Cover:\t%.0f mm\n", o.cover)
	}
	fmt.Fprintf(w, "  f'c:\t%.1f MPa\n", o.fc)
	fmt.Fprintf(w, "  fy:\t%.1f MPa\n", o.fy)
	for _, r := range rows {
		fmt.Fprintf(w, "  %s\n", r)
	}
	w.Flush()
	fmt.Println()
}

// controlStatus classifies the section by the strain of the extreme tension
// steel
func controlStatus(tensionControlled bool, epsT, phi, fy float64) string {
	switch {
	case tensionControlled:
		return "Tension-controlled (φ = 0.90)"
	case epsT >= fy/200000:
		return fmt.Sprintf("Transition zone (φ = %.2f)", phi)
	}
	return "Compression-controlled (φ = 0.65)"
}

// capacityBox prints the design capacity banner
func capacityBox(phiMn float64) {
	fmt.Printf("  ╔═════════════════════════════════════════╗\n")
	fmt.Printf("  ║  DESIGN CAPACITY φMn = %.2f kN-m\n", phiMn)
	fmt.Printf("  ╚═════════════════════════════════════════╝\n")
	fmt.Println()
}

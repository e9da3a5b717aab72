package cmd

import (
	"fmt"
	"math"
	"os"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/xcfem/xc-sub010/internal/check"
	"github.com/xcfem/xc-sub010/internal/diagram"
	"github.com/xcfem/xc-sub010/internal/fiber"
	"github.com/xcfem/xc-sub010/internal/interaction"
)

var (
	diagramFile    string
	diagramType    string
	diagramTheta   float64
	diagramDemands string
	diagramOutput  string
	diagramAngles  int
	diagramPoints  int
	diagramAlign   bool
)

var diagramCmd = &cobra.Command{
	Use:   "diagram",
	Short: "Compute the N-My-Mz interaction diagram of a section",
	Long: `Sweep the ultimate deformation planes of a section into a closed
N-My-Mz interaction surface and print the N-M curve in the vertical
plane of the moment direction θ (θ = 0 is My, θ = 90 is Mz).

Demands from a demands file are marked on the plot.

Examples:
  fibersec diagram -f column.yaml
  fibersec diagram -f column.yaml --theta 90 --angles 36 -o column.png
  fibersec diagram -f column.yaml -d demands.yaml --type k`,
	Run: runDiagram,
}

func init() {
	rootCmd.AddCommand(diagramCmd)

	diagramCmd.Flags().StringVarP(&diagramFile, "file", "f", "", "Path to section YAML/JSON file [required]")
	diagramCmd.Flags().StringVarP(&diagramType, "type", "t", "", "Material diagrams: d (design) or k (characteristic)")
	diagramCmd.Flags().Float64Var(&diagramTheta, "theta", 0, "Moment direction of the printed slice (degrees)")
	diagramCmd.Flags().StringVarP(&diagramDemands, "demands", "d", "", "Demands YAML/JSON file to plot")
	diagramCmd.Flags().StringVarP(&diagramOutput, "output", "o", "", "Export the slice to file (png, svg, pdf)")
	diagramCmd.Flags().IntVar(&diagramAngles, "angles", 0, "Number of neutral axis orientations")
	diagramCmd.Flags().IntVar(&diagramPoints, "points", 0, "Ultimate planes per orientation")
	diagramCmd.Flags().BoolVar(&diagramAlign, "align", false, "Rotate the planes so that every meridian keeps its moment direction")
	diagramCmd.MarkFlagRequired("file")
}

func runDiagram(cmd *cobra.Command, args []string) {
	cfg, m, err := loadModel(diagramFile, diagramType)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		return
	}
	if diagramAngles > 0 {
		cfg.Sweep.NumAngles = diagramAngles
	}
	if diagramPoints > 0 {
		cfg.Sweep.NumPoints = diagramPoints
	}
	if diagramAlign {
		cfg.Sweep.AlignMoments = true
	}

	var demands []fiber.Resultant
	if diagramDemands != "" {
		ds, err := check.LoadDemands(diagramDemands)
		if err != nil {
			fmt.Printf("Error loading demands: %v\n", err)
			return
		}
		for _, d := range ds {
			demands = append(demands, d.Forces)
		}
	}

	start := time.Now()
	d, err := interaction.ComputeDiagram(cmd.Context(), m.Section, cfg.Sweep)
	if err != nil {
		fmt.Printf("Error computing diagram: %v\n", err)
		return
	}
	elapsed := time.Since(start)

	header(fmt.Sprintf("INTERACTION DIAGRAM (%s diagrams)", m.Type))
	fmt.Printf("  Section: %s\n", m.Def.Name)
	fmt.Println()

	lo, hi := d.Bounds()
	subheader("SURFACE:")
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "  Meridians:\t%d\n", len(d.Meridians))
	fmt.Fprintf(w, "  Points:\t%d\n", len(d.Points))
	fmt.Fprintf(w, "  Triangles:\t%d\n", len(d.Triangles))
	fmt.Fprintf(w, "  Computed in:\t%v\n", elapsed.Round(time.Millisecond))
	fmt.Fprintf(w, "  N:\t%.1f to %.1f kN\n", lo.N/1e3, hi.N/1e3)
	fmt.Fprintf(w, "  My:\t%.1f to %.1f kN-m\n", lo.My/1e3, hi.My/1e3)
	fmt.Fprintf(w, "  Mz:\t%.1f to %.1f kN-m\n", lo.Mz/1e3, hi.Mz/1e3)
	w.Flush()
	fmt.Println()

	theta := diagramTheta * math.Pi / 180
	fmt.Println(diagram.DrawASCIIInteraction(d, theta, demands))

	if diagramOutput != "" {
		if err := diagram.ExportInteractionDiagram(d, theta, demands, diagramOutput); err != nil {
			fmt.Printf("Error exporting diagram: %v\n", err)
		} else {
			fmt.Printf("Diagram exported to: %s\n", diagramOutput)
		}
	}
}

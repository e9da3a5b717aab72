package cmd

import (
	"errors"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/xcfem/xc-sub010/internal/check"
	"github.com/xcfem/xc-sub010/internal/section"
)

var (
	sectionDesignFile    string
	sectionDesignDemands string
	sectionDesignType    string
	sectionDesignPrecise bool
	sectionDesignPhi     bool
	sectionDesignOutput  string
)

var sectionDesignCmd = &cobra.Command{
	Use:   "design",
	Short: "Scale the reinforcement of a section until every demand passes",
	Long: `Find the smallest common factor on the bar areas of a section for which
every demand has a capacity factor of at least 1.

The factor is updated in proportion to the governing capacity factor
until it is bracketed and then bisected. Bar diameters scale with the
square root of the factor, positions are kept.

Examples:
  fibersec section design -f column.yaml -d demands.yaml
  fibersec section design -f column.yaml -d demands.yaml --nscp-phi -o designed.yaml`,
	Run: runSectionDesign,
}

func init() {
	sectionCmd.AddCommand(sectionDesignCmd)

	sectionDesignCmd.Flags().StringVarP(&sectionDesignFile, "file", "f", "", "Path to section YAML/JSON file [required]")
	sectionDesignCmd.Flags().StringVarP(&sectionDesignDemands, "demands", "d", "", "Path to demands YAML/JSON file [required]")
	sectionDesignCmd.Flags().StringVarP(&sectionDesignType, "type", "t", "", "Material diagrams: d (design) or k (characteristic)")
	sectionDesignCmd.Flags().BoolVar(&sectionDesignPrecise, "precise", false, "Refine capacity factors with nested Newton solves")
	sectionDesignCmd.Flags().BoolVar(&sectionDesignPhi, "nscp-phi", false, "Apply the NSCP strength reduction factor φ")
	sectionDesignCmd.Flags().StringVarP(&sectionDesignOutput, "output", "o", "", "Write the designed section to a YAML file")

	sectionDesignCmd.MarkFlagRequired("file")
	sectionDesignCmd.MarkFlagRequired("demands")
}

func runSectionDesign(cmd *cobra.Command, args []string) {
	cfg, m, err := loadModel(sectionDesignFile, sectionDesignType)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		return
	}
	demands, err := check.LoadDemands(sectionDesignDemands)
	if err != nil {
		fmt.Printf("Error loading demands: %v\n", err)
		return
	}

	checker := check.Checker{Spec: cfg.Sweep, Precise: sectionDesignPrecise, NSCPPhi: sectionDesignPhi, Workers: cfg.Sweep.Workers}
	result, err := check.DesignReinforcement(cmd.Context(), m.Def, m.Type, checker, demands, cfg.Design)
	if err != nil {
		if errors.Is(err, check.ErrInadequate) {
			fmt.Println("Section inadequate - Consider increasing section size")
		}
		fmt.Printf("Error: %v\n", err)
		return
	}

	header("REINFORCEMENT DESIGN")
	fmt.Printf("  Section: %s\n", m.Def.Name)
	fmt.Printf("  Demands: %d\n", len(demands))
	fmt.Println()

	subheader("REINFORCEMENT:")
	before := m.SteelArea()
	after := result.Model.SteelArea()
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "  Area factor:\t%.4f\n", result.Factor)
	fmt.Fprintf(w, "  Steel area (given):\t%.0f mm²\n", before*1e6)
	fmt.Fprintf(w, "  Steel area (required):\t%.0f mm²\n", after*1e6)
	fmt.Fprintf(w, "  Diagrams computed:\t%d\n", result.Iterations)
	w.Flush()
	fmt.Println()

	w = tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "  Layer\tBars\tØ given (mm)\tØ required (mm)\n")
	fmt.Fprintf(w, "  ─────\t────\t────────────\t───────────────\n")
	for i, l := range result.Definition.Layers {
		fmt.Fprintf(w, "  %d\t%d\t%.1f\t%.1f\n", i+1, l.N, m.Def.Layers[i].Diameter*1e3, l.Diameter*1e3)
	}
	for i, b := range result.Definition.Bars {
		fmt.Fprintf(w, "  bar %d\t1\t%.1f\t%.1f\n", i+1, m.Def.Bars[i].Diameter*1e3, b.Diameter*1e3)
	}
	w.Flush()
	fmt.Println()

	g := result.Governing
	subheader("GOVERNING DEMAND:")
	w = tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "  Element / combination:\t%s / %s\n", g.Element, g.Combination)
	fmt.Fprintf(w, "  Forces:\tN = %.2f kN, My = %.2f kN-m, Mz = %.2f kN-m\n", g.Forces.N/1e3, g.Forces.My/1e3, g.Forces.Mz/1e3)
	fmt.Fprintf(w, "  Capacity factor:\t%.4f\n", g.Factor)
	if sectionDesignPhi {
		fmt.Fprintf(w, "  φ:\t%.3f\n", g.Phi)
	}
	w.Flush()
	fmt.Println()

	if sectionDesignOutput != "" {
		if err := writeDefinition(result.Definition, sectionDesignOutput); err != nil {
			fmt.Printf("Error writing section: %v\n", err)
		} else {
			fmt.Printf("Designed section written to: %s\n", sectionDesignOutput)
		}
	}
}

func writeDefinition(def *section.Definition, path string) error {
	data, err := yaml.Marshal(def)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

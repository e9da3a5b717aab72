package cmd

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/xcfem/xc-sub010/internal/crack"
	"github.com/xcfem/xc-sub010/internal/fiber"
)

var (
	crackFile  string
	crackType  string
	crackN     float64
	crackMy    float64
	crackMz    float64
	crackBeta  float64
	crackK2    float64
	crackLimit float64
)

var crackCmd = &cobra.Command{
	Use:   "crack",
	Short: "Crack width of a section under service forces (EHE-08)",
	Long: `Solve the cracked section under the service forces and compute the
characteristic crack width at the tensioned bars:

  wk = β·sm·εsm

  sm  = 2c + 0.2s + 0.4·k1·Ø·Ac,eff/As
  εsm = σs/Es·[1 - k2·(σsr/σs)²] ≥ 0.4·σs/Es

Characteristic material diagrams are used unless --type is given.

Examples:
  fibersec crack -f beam.yaml --my 120
  fibersec crack -f wall.yaml --n 300 --my 25 --beta 1.3 --limit 0.3`,
	Run: runCrack,
}

func init() {
	rootCmd.AddCommand(crackCmd)

	crackCmd.Flags().StringVarP(&crackFile, "file", "f", "", "Path to section YAML/JSON file [required]")
	crackCmd.Flags().StringVarP(&crackType, "type", "t", "k", "Material diagrams: d (design) or k (characteristic)")
	crackCmd.Flags().Float64Var(&crackN, "n", 0, "Service axial force N (kN, tension positive)")
	crackCmd.Flags().Float64Var(&crackMy, "my", 0, "Service bending moment My (kN-m)")
	crackCmd.Flags().Float64Var(&crackMz, "mz", 0, "Service bending moment Mz (kN-m)")
	crackCmd.Flags().Float64Var(&crackBeta, "beta", 0, "Ratio characteristic/mean crack width (default from config, 1.7)")
	crackCmd.Flags().Float64Var(&crackK2, "k2", 0, "Load duration coefficient (default from config, 0.5)")
	crackCmd.Flags().Float64Var(&crackLimit, "limit", 0, "Maximum crack width to verify (mm)")
	crackCmd.MarkFlagRequired("file")
}

func runCrack(cmd *cobra.Command, args []string) {
	cfg, m, err := loadModel(crackFile, crackType)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		return
	}

	an, err := crack.NewAnalyzer(m)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		return
	}
	an.Opts = cfg.Crack
	if crackBeta > 0 {
		an.Opts.Beta = crackBeta
	}
	if crackK2 > 0 {
		an.Opts.K2 = crackK2
	}
	an.Opts.SetDefault()
	an.Solver = cfg.Sweep.Solver

	demand := fiber.Resultant{N: crackN * 1e3, My: crackMy * 1e3, Mz: crackMz * 1e3}
	res, err := an.Analyze(cmd.Context(), demand)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		return
	}

	header("CRACK WIDTH (EHE-08)")
	fmt.Printf("  Section: %s (%s diagrams)\n", m.Def.Name, m.Type)
	fmt.Printf("  Forces: N = %.2f kN, My = %.2f kN-m, Mz = %.2f kN-m\n", crackN, crackMy, crackMz)
	fmt.Println()

	subheader("CONCRETE:")
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "  Material:\t%s\n", an.Concrete.Name)
	fmt.Fprintf(w, "  fck:\t%.1f MPa\n", an.Concrete.Fck)
	fmt.Fprintf(w, "  fctm:\t%.2f MPa\n", an.Concrete.Fctm())
	w.Flush()
	fmt.Println()

	if !res.Cracked {
		fmt.Println("  ✓ The section does not crack under the service forces (wk = 0)")
		fmt.Println()
		return
	}

	p := res.Params
	subheader("PARAMETERS:")
	w = tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "  Cover c:\t%.1f mm\n", p.Cover*1e3)
	fmt.Fprintf(w, "  Bar spacing s:\t%.1f mm\n", p.Spacing*1e3)
	fmt.Fprintf(w, "  Bar diameter Ø:\t%.1f mm\n", p.Diameter*1e3)
	fmt.Fprintf(w, "  k1:\t%.4f\n", p.K1)
	fmt.Fprintf(w, "  Ac,eff:\t%.0f mm²\n", p.AcEff*1e6)
	fmt.Fprintf(w, "  As:\t%.0f mm²\n", p.As*1e6)
	fmt.Fprintf(w, "  σs:\t%.1f MPa\n", p.SigmaS/1e6)
	fmt.Fprintf(w, "  σsr:\t%.1f MPa\n", p.SigmaSR/1e6)
	fmt.Fprintf(w, "  β, k2:\t%.2f, %.2f\n", an.Opts.Beta, an.Opts.K2)
	w.Flush()
	fmt.Println()

	subheader("RESULTS:")
	w = tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "  Mean crack spacing sm:\t%.1f mm\n", res.Sm*1e3)
	fmt.Fprintf(w, "  Mean steel strain εsm:\t%.6f\n", res.EpsSm)
	fmt.Fprintf(w, "  Crack width wk:\t%.3f mm\n", res.Wk*1e3)
	w.Flush()
	fmt.Println()

	if crackLimit > 0 {
		if res.Wk*1e3 <= crackLimit {
			fmt.Printf("  ✓ wk = %.3f mm ≤ %.3f mm\n", res.Wk*1e3, crackLimit)
		} else {
			fmt.Printf("  ✗ wk = %.3f mm > %.3f mm\n", res.Wk*1e3, crackLimit)
		}
		fmt.Println()
	}
}

package cmd

import (
	"fmt"
	"math"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/xcfem/xc-sub010/internal/fiber"
	"github.com/xcfem/xc-sub010/internal/nscp"
)

var (
	// Unfactored section forces: N (kN), My, Mz (kN-m)
	combineDead       []float64
	combineLive       []float64
	combineRoof       []float64
	combineWind       []float64
	combineEarthquake []float64
	combineRain       []float64

	// Options
	combineSimplified bool
	combineReversals  bool
	combineGovernBy   string
)

var combineCmd = &cobra.Command{
	Use:   "combine",
	Short: "Factored section forces using NSCP load combinations",
	Long: `Calculate the factored section forces (Nu, Myu, Mzu) for the NSCP 2015
load combinations.

Every load type takes the triple N,My,Mz in kN and kN-m (tension
positive). Missing components are zero.

Load Types:
  D  - Dead load
  L  - Live load
  Lr - Roof live load
  W  - Wind load
  E  - Earthquake load
  R  - Rain load

Examples:
  # Gravity loads on a column
  fibersec combine --dead -800,40 --live -300,25

  # With earthquake acting both ways, governing by axial force
  fibersec combine --dead -800,40 --live -300,25 --earthquake 0,120,30 --reversals --by n`,
	Run: runCombine,
}

func init() {
	rootCmd.AddCommand(combineCmd)

	combineCmd.Flags().Float64SliceVarP(&combineDead, "dead", "D", nil, "Dead load forces N,My,Mz")
	combineCmd.Flags().Float64SliceVarP(&combineLive, "live", "L", nil, "Live load forces N,My,Mz")
	combineCmd.Flags().Float64SliceVarP(&combineRoof, "roof", "r", nil, "Roof live load forces N,My,Mz")
	combineCmd.Flags().Float64SliceVarP(&combineWind, "wind", "w", nil, "Wind load forces N,My,Mz")
	combineCmd.Flags().Float64SliceVarP(&combineEarthquake, "earthquake", "e", nil, "Earthquake load forces N,My,Mz")
	combineCmd.Flags().Float64SliceVarP(&combineRain, "rain", "R", nil, "Rain load forces N,My,Mz")

	combineCmd.Flags().BoolVarP(&combineSimplified, "simplified", "s", false, "Use simplified combinations (gravity only: 1.4D and 1.2D+1.6L)")
	combineCmd.Flags().BoolVar(&combineReversals, "reversals", false, "Add the combinations with reversed wind and earthquake")
	combineCmd.Flags().StringVar(&combineGovernBy, "by", "m", "Governing measure: m (moment magnitude), n (compression) or t (tension)")
}

// triple converts a flag value in kN, kN-m to a resultant in N, N-m
func triple(v []float64) (fiber.Resultant, error) {
	if len(v) > 3 {
		return fiber.Resultant{}, fmt.Errorf("expected at most 3 values N,My,Mz, got %d", len(v))
	}
	var c [3]float64
	copy(c[:], v)
	return fiber.Resultant{N: c[0] * 1e3, My: c[1] * 1e3, Mz: c[2] * 1e3}, nil
}

func runCombine(cmd *cobra.Command, args []string) {
	var effects nscp.LoadEffects
	for _, f := range []struct {
		name string
		v    []float64
		dst  *fiber.Resultant
	}{
		{"dead", combineDead, &effects.Dead},
		{"live", combineLive, &effects.Live},
		{"roof", combineRoof, &effects.Roof},
		{"wind", combineWind, &effects.Wind},
		{"earthquake", combineEarthquake, &effects.Earthquake},
		{"rain", combineRain, &effects.Rain},
	} {
		r, err := triple(f.v)
		if err != nil {
			fmt.Printf("Error: --%s: %v\n", f.name, err)
			return
		}
		*f.dst = r
	}

	if effects.IsZero() {
		fmt.Println("Error: Please provide at least one unfactored load effect.")
		fmt.Println("Use 'fibersec combine --help' for usage information.")
		return
	}

	var measure func(fiber.Resultant) float64
	switch combineGovernBy {
	case "m":
		measure = func(r fiber.Resultant) float64 { return math.Hypot(r.My, r.Mz) }
	case "n":
		measure = func(r fiber.Resultant) float64 { return -r.N }
	case "t":
		measure = func(r fiber.Resultant) float64 { return r.N }
	default:
		fmt.Printf("Error: unknown governing measure %q (want m, n or t)\n", combineGovernBy)
		return
	}

	// Select which combinations to use
	combinations := nscp.LoadCombinations
	if combineSimplified {
		combinations = nscp.SimplifiedCombinations
	}
	if combineReversals {
		combinations = nscp.WithReversals(combinations)
	}

	header("NSCP 2015 FACTORED SECTION FORCES")

	subheader("UNFACTORED FORCES (kN, kN-m):")
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "  Load\tN\tMy\tMz\n")
	for _, l := range []struct {
		name string
		r    fiber.Resultant
	}{
		{"Dead Load (D)", effects.Dead},
		{"Live Load (L)", effects.Live},
		{"Roof Live Load (Lr)", effects.Roof},
		{"Wind Load (W)", effects.Wind},
		{"Earthquake Load (E)", effects.Earthquake},
		{"Rain Load (R)", effects.Rain},
	} {
		if !l.r.IsZero() {
			fmt.Fprintf(w, "  %s:\t%.2f\t%.2f\t%.2f\n", l.name, l.r.N/1e3, l.r.My/1e3, l.r.Mz/1e3)
		}
	}
	w.Flush()
	fmt.Println()

	governing, _ := nscp.Governing(effects, combinations, measure)

	subheader("LOAD COMBINATIONS (NSCP 2015 Section 203.3):")
	w = tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "  #\tCombination\tNu (kN)\tMyu (kN-m)\tMzu (kN-m)\n")
	fmt.Fprintf(w, "  ─\t───────────\t───────\t──────────\t──────────\n")
	for _, fe := range nscp.Combine(effects, combinations) {
		marker := ""
		if fe.Combination.ID == governing.Combination.ID {
			marker = " ← GOVERNS"
		}
		f := fe.Forces
		fmt.Fprintf(w, "  %s\t%s\t%.2f\t%.2f\t%.2f%s\n", fe.Combination.ID, fe.Combination.Description, f.N/1e3, f.My/1e3, f.Mz/1e3, marker)
	}
	w.Flush()
	fmt.Println()

	f := governing.Forces
	subheader("RESULT:")
	fmt.Printf("  Governing Combination: %s (%s)\n", governing.Combination.ID, governing.Combination.Description)
	fmt.Println()
	fmt.Printf("  ╔═══════════════════════════════════════════════════════════╗\n")
	fmt.Printf("  ║  Nu = %.2f kN, Myu = %.2f kN-m, Mzu = %.2f kN-m\n", f.N/1e3, f.My/1e3, f.Mz/1e3)
	fmt.Printf("  ╚═══════════════════════════════════════════════════════════╝\n")
	fmt.Println()
}

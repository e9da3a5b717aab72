package cmd

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/xcfem/xc-sub010/internal/check"
	"github.com/xcfem/xc-sub010/internal/config"
	"github.com/xcfem/xc-sub010/internal/interaction"
	"github.com/xcfem/xc-sub010/internal/section"
	"github.com/xcfem/xc-sub010/internal/store"
)

var (
	checkFiles   []string
	checkDemands string
	checkType    string
	checkPrecise bool
	checkPhi     bool
	checkDB      string
	checkFailed  bool
)

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Capacity factors of demands against the interaction diagram",
	Long: `Verify every demand of a demands file against the interaction diagram
of one or more sections.

The capacity factor CF is such that CF·demand lies on the boundary of the
diagram: CF ≥ 1 passes, CF < 1 fails. Demands whose ray cannot be
intersected are reported as "could not verify".

Demands files (YAML or JSON, N and N-m) hold either explicit demands or
unfactored load effects that are expanded with the NSCP 2015 load
combinations:

  combinations: nscp        # or simplified
  reversals: true           # add combinations with reversed W/E
  elements:
    - name: C1
      effects:
        dead: {n: -600000, my: 40000, mz: 0}
        live: {n: -250000, my: 20000, mz: 0}
        earthquake: {n: 0, my: 90000, mz: 30000}
    - name: C2
      demands:
        - {combination: user, forces: {n: -1.5e6, my: 1.2e5, mz: 0}}

Examples:
  fibersec check -f column.yaml -d demands.yaml
  fibersec check -f c1.yaml -f c2.yaml -d demands.yaml --precise --nscp-phi
  fibersec check -f column.yaml -d demands.yaml --db results.db`,
	Run: runCheck,
}

func init() {
	rootCmd.AddCommand(checkCmd)

	checkCmd.Flags().StringSliceVarP(&checkFiles, "file", "f", nil, "Section YAML/JSON file; repeat for several sections [required]")
	checkCmd.Flags().StringVarP(&checkDemands, "demands", "d", "", "Path to demands YAML/JSON file [required]")
	checkCmd.Flags().StringVarP(&checkType, "type", "t", "", "Material diagrams: d (design) or k (characteristic)")
	checkCmd.Flags().BoolVar(&checkPrecise, "precise", false, "Refine capacity factors with nested Newton solves")
	checkCmd.Flags().BoolVar(&checkPhi, "nscp-phi", false, "Apply the NSCP strength reduction factor φ")
	checkCmd.Flags().StringVar(&checkDB, "db", "", "Store the results in this sqlite database")
	checkCmd.Flags().BoolVar(&checkFailed, "failed", false, "List only the demands that do not pass")

	checkCmd.MarkFlagRequired("file")
	checkCmd.MarkFlagRequired("demands")
}

func runCheck(cmd *cobra.Command, args []string) {
	ctx := cmd.Context()
	cfg, err := loadConfig()
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		return
	}
	if checkType != "" {
		cfg.DiagramType = checkType
		if err := cfg.Validate(); err != nil {
			fmt.Printf("Error: %v\n", err)
			return
		}
	}
	demands, err := check.LoadDemands(checkDemands)
	if err != nil {
		fmt.Printf("Error loading demands: %v\n", err)
		return
	}

	var repo *store.Repository
	if checkDB != "" {
		db, err := store.Open(checkDB)
		if err != nil {
			fmt.Printf("Error opening database: %v\n", err)
			return
		}
		defer store.Close(db)
		if err := store.RunMigrations(ctx, db); err != nil {
			fmt.Printf("Error migrating database: %v\n", err)
			return
		}
		repo = store.NewRepository(db)
	}

	cache := interaction.NewCache(cfg.Sweep)
	for _, file := range checkFiles {
		if err := checkSection(ctx, cfg, cache, repo, file, demands); err != nil {
			fmt.Printf("Error: %s: %v\n", file, err)
			return
		}
	}
}

func checkSection(ctx context.Context, cfg *config.Config, cache *interaction.Cache, repo *store.Repository, file string, demands []check.Demand) error {
	def, err := section.LoadFromFile(file)
	if err != nil {
		return err
	}
	m, err := def.Build(cfg.Type())
	if err != nil {
		return err
	}
	d, err := cache.Get(ctx, file+"/"+m.Type.String(), m.Section)
	if err != nil {
		return err
	}

	checker := check.Checker{Model: m, Diagram: d, Spec: cfg.Sweep, Precise: checkPrecise, NSCPPhi: checkPhi, Workers: cfg.Sweep.Workers}
	outcomes, err := checker.Run(ctx, demands)
	if err != nil {
		return err
	}
	sum := check.Summarize(outcomes)

	header(fmt.Sprintf("CAPACITY CHECK - %s (%s diagrams)", def.Name, m.Type))
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "  Element\tCombination\tN (kN)\tMy (kN-m)\tMz (kN-m)\tCF\tStatus\n")
	fmt.Fprintf(w, "  ───────\t───────────\t──────\t─────────\t─────────\t──\t──────\n")
	for _, o := range outcomes {
		if checkFailed && o.Status == check.Pass {
			continue
		}
		f := o.Forces
		cf := "-"
		status := "✓ " + o.Status.String()
		switch o.Status {
		case check.Fail:
			cf = fmt.Sprintf("%.3f", o.Factor)
			status = "✗ " + o.Status.String()
		case check.CouldNotVerify:
			status = "⚠ " + o.Status.String()
		default:
			cf = fmt.Sprintf("%.3f", o.Factor)
		}
		fmt.Fprintf(w, "  %s\t%s\t%.1f\t%.1f\t%.1f\t%s\t%s\n", o.Element, o.Combination, f.N/1e3, f.My/1e3, f.Mz/1e3, cf, status)
	}
	w.Flush()
	fmt.Println()

	for _, o := range outcomes {
		if o.Status == check.CouldNotVerify {
			fmt.Printf("  ⚠ %s/%s: %v\n", o.Element, o.Combination, o.Err)
		}
	}

	subheader("SUMMARY:")
	w = tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "  Passed:\t%d\n", sum.Passed)
	fmt.Fprintf(w, "  Failed:\t%d\n", sum.Failed)
	fmt.Fprintf(w, "  Could not verify:\t%d\n", sum.Unverified)
	if sum.Worst != nil {
		fmt.Fprintf(w, "  Governing:\t%s/%s (CF = %.3f, utilization = %.3f)\n",
			sum.Worst.Element, sum.Worst.Combination, sum.Worst.Factor, sum.Worst.Utilization)
	}
	w.Flush()
	fmt.Println()

	if repo != nil {
		run, err := repo.SaveRun(ctx, store.Run{
			Section:     def.Name,
			DiagramType: m.Type.String(),
			Precise:     checkPrecise,
			NSCPPhi:     checkPhi,
		}, outcomes)
		if err != nil {
			return fmt.Errorf("cannot store results: %w", err)
		}
		fmt.Printf("  Results stored as run %d in %s\n\n", run.ID, checkDB)
	}
	return nil
}

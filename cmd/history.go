package cmd

import (
	"errors"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/xcfem/xc-sub010/internal/store"
)

var (
	historyDB      string
	historySection string
	historyLimit   int
	historyRun     uint
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List the capacity checks stored by 'check --db'",
	Long: `List the stored check runs, newest first, with their governing
demand, or the outcomes of a single run.

Examples:
  fibersec history --db results.db
  fibersec history --db results.db --section "C30 column" --limit 5
  fibersec history --db results.db --run 3`,
	Run: runHistory,
}

func init() {
	rootCmd.AddCommand(historyCmd)

	historyCmd.Flags().StringVar(&historyDB, "db", "", "Path to the sqlite database [required]")
	historyCmd.Flags().StringVarP(&historySection, "section", "s", "", "Only runs of this section")
	historyCmd.Flags().IntVarP(&historyLimit, "limit", "n", 20, "Number of runs to list")
	historyCmd.Flags().UintVar(&historyRun, "run", 0, "List the outcomes of this run")
	historyCmd.MarkFlagRequired("db")
}

func runHistory(cmd *cobra.Command, args []string) {
	ctx := cmd.Context()
	db, err := store.Open(historyDB)
	if err != nil {
		fmt.Printf("Error opening database: %v\n", err)
		return
	}
	defer store.Close(db)
	if err := store.RunMigrations(ctx, db); err != nil {
		fmt.Printf("Error migrating database: %v\n", err)
		return
	}
	repo := store.NewRepository(db)

	if historyRun > 0 {
		records, err := repo.ListOutcomes(ctx, historyRun)
		if err != nil {
			fmt.Printf("Error: %v\n", err)
			return
		}
		header(fmt.Sprintf("CHECK RUN %d", historyRun))
		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintf(w, "  Element\tCombination\tN (kN)\tMy (kN-m)\tMz (kN-m)\tCF\tStatus\n")
		fmt.Fprintf(w, "  ───────\t───────────\t──────\t─────────\t─────────\t──\t──────\n")
		for _, r := range records {
			cf := "-"
			if r.Factor != nil {
				cf = fmt.Sprintf("%.3f", *r.Factor)
			}
			fmt.Fprintf(w, "  %s\t%s\t%.1f\t%.1f\t%.1f\t%s\t%s\n",
				r.Element, r.Combination, r.Forces.N/1e3, r.Forces.My/1e3, r.Forces.Mz/1e3, cf, r.Status)
		}
		w.Flush()
		fmt.Println()
		return
	}

	runs, err := repo.ListRuns(ctx, historySection, historyLimit)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		return
	}
	header("CHECK HISTORY")
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "  Run\tDate\tSection\tType\tOptions\tGoverning\tCF\n")
	fmt.Fprintf(w, "  ───\t────\t───────\t────\t───────\t─────────\t──\n")
	for _, run := range runs {
		opts := ""
		if run.Precise {
			opts += "precise "
		}
		if run.NSCPPhi {
			opts += "φ"
		}
		gov, cf := "-", "-"
		worst, err := repo.Worst(ctx, run.ID)
		switch {
		case err == nil:
			gov = worst.Element + "/" + worst.Combination
			cf = fmt.Sprintf("%.3f", *worst.Factor)
		case !errors.Is(err, store.ErrNotFound):
			fmt.Printf("Error: %v\n", err)
			return
		}
		fmt.Fprintf(w, "  %d\t%s\t%s\t%s\t%s\t%s\t%s\n",
			run.ID, run.CreatedAt.Format("2006-01-02 15:04"), run.Section, run.DiagramType, opts, gov, cf)
	}
	w.Flush()
	fmt.Println()
}

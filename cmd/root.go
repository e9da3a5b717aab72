package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/xcfem/xc-sub010/internal/config"
	"github.com/xcfem/xc-sub010/internal/section"
	"github.com/xcfem/xc-sub010/internal/version"
)

var (
	configFile string
	verboseRun bool
)

var rootCmd = &cobra.Command{
	Use:   "fibersec",
	Short: "Fiber section analysis and interaction diagrams",
	Long: `fibersec - Fiber Section Interaction-Diagram Engine

A CLI tool for the ultimate limit state analysis of reinforced concrete
cross-sections discretized into fibers.

This tool helps structural engineers perform:
  - Strain-plane analysis of arbitrary sections
  - N-My-Mz interaction diagrams
  - Capacity checks of load combinations (capacity factor per demand)
  - Reinforcement design by scaling the bar areas
  - Crack width checks (EHE-08)
  - Rectangular beam design and analysis (NSCP 2015)

Section geometry is given in metres and strengths in MPa; forces on the
command line are in kN and kN-m.`,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println()
		fmt.Println("  ╔═══════════════════════════════════════════════════════════╗")
		fmt.Println("  ║                                                           ║")
		fmt.Printf("  ║   fibersec v%-46s║\n", version.Version)
		fmt.Println("  ║   Fiber Section Interaction-Diagram Engine                ║")
		fmt.Println("  ║                                                           ║")
		fmt.Println("  ╚═══════════════════════════════════════════════════════════╝")
		fmt.Println()
		fmt.Println("  Ultimate limit state analysis of reinforced concrete sections")
		fmt.Println("  by integration of stress-strain laws over fibers.")
		fmt.Println()
		fmt.Println("  Features:")
		fmt.Println("    • Section response to a deformation plane or a force target")
		fmt.Println("    • Interaction diagrams with ASCII and image output")
		fmt.Println("    • Capacity factors of NSCP load combinations")
		fmt.Println("    • Reinforcement design and crack width checks")
		fmt.Println("    • Singly and doubly reinforced beam design and analysis")
		fmt.Println()
		fmt.Println("  Use 'fibersec --help' to see available commands.")
		fmt.Println()
		fmt.Println("  ─────────────────────────────────────────────────────────────")
		fmt.Printf("  Copyright © %s %s.\n", version.Year, version.Author)
		fmt.Println()
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.CompletionOptions.DisableDefaultCmd = true

	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "Analysis options file (YAML or JSON)")
	rootCmd.PersistentFlags().BoolVarP(&verboseRun, "verbose", "v", false, "Print solver iterations")
}

// loadConfig reads the options file and applies the global flags
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(configFile)
	if err != nil {
		return nil, err
	}
	if verboseRun {
		cfg.Sweep.Solver.Verbose = true
	}
	return cfg, nil
}

// loadModel reads a section file and builds it with the configured diagram
// type, or with dtype when it is not empty
func loadModel(file, dtype string) (*config.Config, *section.Model, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, nil, err
	}
	if dtype != "" {
		cfg.DiagramType = dtype
		if err := cfg.Validate(); err != nil {
			return nil, nil, err
		}
	}
	def, err := section.LoadFromFile(file)
	if err != nil {
		return nil, nil, fmt.Errorf("error loading section: %w", err)
	}
	m, err := def.Build(cfg.Type())
	if err != nil {
		return nil, nil, fmt.Errorf("error building section: %w", err)
	}
	return cfg, m, nil
}

func header(title string) {
	fmt.Println()
	fmt.Println("═══════════════════════════════════════════════════════════════")
	fmt.Printf("     %s\n", title)
	fmt.Println("═══════════════════════════════════════════════════════════════")
	fmt.Println()
}

func subheader(title string) {
	fmt.Println(title)
	fmt.Println("───────────────────────────────────────────────────────────────")
}

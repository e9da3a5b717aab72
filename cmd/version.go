package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/xcfem/xc-sub010/internal/version"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of fibersec",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println(version.String())
		fmt.Println("Fiber Section Interaction-Diagram Engine")
		fmt.Println("Material diagrams: EC2, EHE-08, NSCP 2015")
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}

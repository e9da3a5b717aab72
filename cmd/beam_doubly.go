package cmd

import (
	"github.com/spf13/cobra"
)

var beamDoublyCmd = &cobra.Command{
	Use:   "doubly",
	Short: "Doubly reinforced rectangular beam design and analysis",
	Long: `Design and analyze rectangular beams with tension and compression
steel based on NSCP 2015 provisions.

The compression bars are fibers of the section, so their stress follows
from strain compatibility and the concrete they displace is removed.
Use when the required moment exceeds the tension-controlled capacity of
a singly reinforced section.

Subcommands:
  design   - Calculate required tension and compression reinforcement
  analyze  - Calculate moment capacity for given reinforcement`,
}

func init() {
	beamCmd.AddCommand(beamDoublyCmd)
}

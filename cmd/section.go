package cmd

import (
	"github.com/spf13/cobra"
)

var sectionCmd = &cobra.Command{
	Use:   "section",
	Short: "Fiber section analysis and reinforcement design",
	Long: `Analyze reinforced concrete sections defined in YAML or JSON files.

Any shape can be described with quadrilateral regions (divided into
ndiv_ij x ndiv_jk fibers) and polygon regions (clipped by a square grid),
plus straight layers of bars and single bars.

Subcommands:
  analyze  - Section response to a strain plane or a force target
  design   - Scale the reinforcement until every demand is satisfied

Example YAML file structure (metres, MPa):
  name: C30 column
  materials:
    - {name: C30, type: concrete, code: EC2, fck: 30}
    - {name: B500S, type: steel, fyk: 500, k: 1.05, eps_limit: 0.01}
  regions:
    - material: C30
      vertices: [{y: -0.15, z: -0.25}, {y: 0.15, z: -0.25},
                 {y: 0.15, z: 0.25}, {y: -0.15, z: 0.25}]
      ndiv_ij: 10
      ndiv_jk: 20
  layers:
    - {material: B500S, n: 3, diameter: 0.02,
       from: {y: -0.1, z: -0.2}, to: {y: 0.1, z: -0.2}}
    - {material: B500S, n: 3, diameter: 0.02,
       from: {y: -0.1, z: 0.2}, to: {y: 0.1, z: 0.2}}`,
}

func init() {
	rootCmd.AddCommand(sectionCmd)
}

package cmd

import (
	"fmt"

	"github.com/mj1618/desktop-throw/internal/model"
	"github.com/mj1618/desktop-throw/internal/render"
	"github.com/spf13/cobra"
)

var plotCmd = &cobra.Command{
	Use:   "plot",
	Short: "Chart a throw's position or velocity over time",
	Long: `Simulate a throw (or load one saved with simulate --save) and write a chart of
its position or velocity against time. The image format follows the output
file extension: png, svg, pdf, eps, jpg or tif.

Examples:
  desktop-throw plot --vx 2 --vy 1 -o throw.png
  desktop-throw plot --kind velocity --friction 8 --vx 3 -o decay.svg
  desktop-throw plot --input throw.json -o throw.pdf`,
	RunE: runPlot,
}

func init() {
	rootCmd.AddCommand(plotCmd)
	addThrowFlags(plotCmd)
	plotCmd.Flags().String("kind", "position", "What to chart: position, velocity")
	plotCmd.Flags().String("input", "", "Trajectory JSON written by simulate --save")
	plotCmd.Flags().StringP("output", "o", "throw.png", "Output file")
}

func runPlot(cmd *cobra.Command, args []string) error {
	kindStr, _ := cmd.Flags().GetString("kind")
	out, _ := cmd.Flags().GetString("output")

	kind, err := render.ParsePlotKind(kindStr)
	if err != nil {
		return err
	}
	traj, err := trajectoryFromFlags(cmd)
	if err != nil {
		return err
	}
	if err := render.SavePlot(traj, kind, out); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "wrote %s (%d frames)\n", out, len(traj.Points))
	return nil
}

// trajectoryFromFlags loads --input when given, otherwise simulates.
func trajectoryFromFlags(cmd *cobra.Command) (model.Trajectory, error) {
	if input, _ := cmd.Flags().GetString("input"); input != "" {
		return model.LoadTrajectory(input)
	}
	return simulateFromFlags(cmd)
}

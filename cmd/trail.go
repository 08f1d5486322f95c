package cmd

import (
	"fmt"

	"github.com/mj1618/desktop-throw/internal/render"
	"github.com/spf13/cobra"
)

var trailCmd = &cobra.Command{
	Use:   "trail",
	Short: "Draw a throw as window outlines on the screen",
	Long: `Simulate a throw (or load one saved with simulate --save) and write a PNG of the
screen with the window outline drawn every few frames, fading from blue at
release to red at rest.

Examples:
  desktop-throw trail --vx 3 --vy -1 -o trail.png
  desktop-throw trail --input throw.json --every 5 --labels -o trail.png`,
	RunE: runTrail,
}

func init() {
	rootCmd.AddCommand(trailCmd)
	addThrowFlags(trailCmd)
	trailCmd.Flags().String("input", "", "Trajectory JSON written by simulate --save")
	trailCmd.Flags().StringP("output", "o", "trail.png", "Output PNG file")
	trailCmd.Flags().Float64("scale", 0.5, "Image pixels per screen pixel")
	trailCmd.Flags().Int("every", 10, "Draw every Nth frame")
	trailCmd.Flags().Bool("labels", false, "Print frame numbers inside the outlines")
}

func runTrail(cmd *cobra.Command, args []string) error {
	out, _ := cmd.Flags().GetString("output")
	scale, _ := cmd.Flags().GetFloat64("scale")
	every, _ := cmd.Flags().GetInt("every")
	labels, _ := cmd.Flags().GetBool("labels")

	traj, err := trajectoryFromFlags(cmd)
	if err != nil {
		return err
	}
	opts := render.TrailOptions{Scale: scale, Every: every, Label: labels}
	if err := render.SaveTrail(traj, opts, out); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "wrote %s (%d frames)\n", out, len(traj.Points))
	return nil
}

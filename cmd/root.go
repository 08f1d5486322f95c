package cmd

import (
	"fmt"
	"os"

	"github.com/mj1618/desktop-throw/internal/output"
	"github.com/mj1618/desktop-throw/internal/version"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "desktop-throw",
	Short: "Throw windows with inertia after a drag",
	Long: `desktop-throw gives windows momentum: release a dragged window and it keeps
moving, slowed by friction and kept inside the screen.

Run it against an X11 session with "run", or explore the physics offline with
"simulate", "replay", "plot" and "trail".`,
	SilenceUsage: true,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.Version = fmt.Sprintf("%s (commit: %s, built: %s)", version.Version, version.Commit, version.BuildDate)
	rootCmd.PersistentFlags().String("format", "yaml", "Output format: yaml, json")
	rootCmd.PersistentFlags().Bool("pretty", false, "Pretty-print JSON output")
	rootCmd.PersistentFlags().String("config", "", "Config file (default $XDG_CONFIG_HOME/desktop-throw/config.yaml)")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Log releases and host errors to stderr")

	rootCmd.PersistentFlags().Float64("friction", 0, "Percent of velocity removed per frame (overrides config)")
	rootCmd.PersistentFlags().Float64("snap-threshold", 0, "Speed in px/ms below which an axis stops (overrides config)")
	rootCmd.PersistentFlags().Bool("constrain-x", true, "Keep windows inside the screen horizontally (overrides config)")
	rootCmd.PersistentFlags().Bool("constrain-y", true, "Keep windows inside the screen vertically (overrides config)")
	rootCmd.PersistentFlags().String("estimator", "", "Velocity estimator: ring, total (overrides config)")
	rootCmd.PersistentFlags().Int("ring-capacity", 0, "Samples kept by the ring estimator (overrides config)")
	rootCmd.PersistentFlags().Int("frame-rate", 0, "Frames per second (overrides config)")

	rootCmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		format, _ := rootCmd.PersistentFlags().GetString("format")
		f, err := output.ParseFormat(format)
		if err != nil {
			return err
		}
		output.OutputFormat = f
		output.PrettyOutput, _ = rootCmd.PersistentFlags().GetBool("pretty")
		return nil
	}
}

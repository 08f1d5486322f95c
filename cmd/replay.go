package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/mj1618/desktop-throw/internal/output"
	"github.com/mj1618/desktop-throw/internal/platform"
	"github.com/mj1618/desktop-throw/internal/scenario"
	"github.com/mj1618/desktop-throw/internal/throw"
	"github.com/spf13/cobra"
)

var replayCmd = &cobra.Command{
	Use:   "replay [file]",
	Short: "Replay a scripted sequence of window events",
	Long: `Run a YAML list of window events against a simulated screen. The script is
read from the file argument, or from stdin when no file is given.

Each step is an action name with its parameters as a map. Steps execute
sequentially, and by default execution stops on the first error.

Supported step types: screen, window, destroy, grab, move, release, drag, throw, tick, settle

Example:
  desktop-throw replay <<'EOF'
  - window: { id: 1, x: 100, y: 100, width: 400, height: 300 }
  - drag: { id: 1, dx: 240, dy: 30, ms: 80, steps: 5 }
  - tick: { ms: 16, count: 10 }
  - settle: {}
  EOF`,
	Args: cobra.MaximumNArgs(1),
	RunE: runReplay,
}

func init() {
	rootCmd.AddCommand(replayCmd)
	replayCmd.Flags().String("screen", "0,0,1920,1080", "Screen bounds as x,y,w,h")
	replayCmd.Flags().Bool("stop-on-error", true, "Stop execution on first error (default: true)")
}

func runReplay(cmd *cobra.Command, args []string) error {
	screenStr, _ := cmd.Flags().GetString("screen")
	stopOnError, _ := cmd.Flags().GetBool("stop-on-error")

	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	screen, err := platform.ParseBounds(screenStr)
	if err != nil {
		return fmt.Errorf("--screen: %w", err)
	}

	var in io.Reader = cmd.InOrStdin()
	if len(args) == 1 {
		f, err := os.Open(args[0])
		if err != nil {
			return fmt.Errorf("failed to open script: %w", err)
		}
		defer f.Close()
		in = f
	}

	steps, err := scenario.ParseSteps(in)
	if err != nil {
		return err
	}

	session := scenario.NewSession(cfg, screen, throw.WithLogger(newLogger(cmd)))
	return output.Fprint(cmd.OutOrStdout(), session.Run(steps, stopOnError))
}

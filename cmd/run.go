package cmd

import (
	"context"
	"errors"
	"os/signal"
	"syscall"

	"github.com/mj1618/desktop-throw/internal/platform"
	"github.com/mj1618/desktop-throw/internal/throw"
	"github.com/spf13/cobra"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Throw windows on the running desktop",
	Long: `Connect to the window system and make windows throwable. Hold the modifier,
drag a window with the configured button and let go while moving: the window
keeps its momentum until friction stops it.

Runs until interrupted. Requires an X11 display on Linux.

Examples:
  desktop-throw run
  desktop-throw run --modifier Mod4 --button left --friction 5 -v`,
	RunE: runRun,
}

func init() {
	rootCmd.AddCommand(runCmd)
	runCmd.Flags().String("button", "", "Drag button: left, middle, right (overrides config)")
	runCmd.Flags().String("modifier", "", "Modifier held while dragging, e.g. Mod1, Mod4-Shift (overrides config)")
}

func runRun(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("button") {
		cfg.Button, _ = cmd.Flags().GetString("button")
	}
	if cmd.Flags().Changed("modifier") {
		cfg.Modifier, _ = cmd.Flags().GetString("modifier")
	}
	opts, err := cfg.ProviderOptions()
	if err != nil {
		return err
	}

	provider, err := platform.NewProvider(opts)
	if err != nil {
		return err
	}

	logger := newLogger(cmd)
	driver := throw.NewDriver(provider.Host, cfg, throw.WithLogger(logger))
	logger.Printf("throwing windows with %s+%s, friction %.1f%%, %d fps", cfg.Modifier, cfg.Button, cfg.Friction, cfg.FrameRate)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := provider.Events.Run(ctx, driver); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}

package cmd

import (
	"fmt"

	"github.com/mj1618/desktop-throw/internal/config"
	"github.com/mj1618/desktop-throw/internal/output"
	"github.com/spf13/cobra"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show or write the effective configuration",
	Long: `Print the configuration after applying the config file and command-line
overrides. With --write, save it to the config file instead.

Examples:
  desktop-throw config
  desktop-throw config --friction 5 --estimator total --write
  desktop-throw config --path`,
	RunE: runConfig,
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.Flags().Bool("write", false, "Write the effective config to the config file")
	configCmd.Flags().Bool("path", false, "Print the config file path and exit")
}

func runConfig(cmd *cobra.Command, args []string) error {
	write, _ := cmd.Flags().GetBool("write")
	showPath, _ := cmd.Flags().GetBool("path")

	path, _ := cmd.Flags().GetString("config")
	if path == "" {
		path = config.DefaultPath()
	}
	if path == "" {
		return fmt.Errorf("no config path: set --config or $XDG_CONFIG_HOME")
	}
	if showPath {
		fmt.Fprintln(cmd.OutOrStdout(), path)
		return nil
	}

	if write {
		// The file may not exist yet; start from defaults plus flags.
		cfg, err := loadConfigFrom(cmd, path)
		if err != nil {
			return err
		}
		if err := config.Save(path, cfg); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", path)
		return nil
	}

	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	return output.Fprint(cmd.OutOrStdout(), cfg)
}

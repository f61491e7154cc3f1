package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/mhelmih/docureco/pkg/config"
)

// configShowCmd represents the config show command
var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show Docureco configuration attributes and their sources",
	Long: `Show Docureco configuration attributes and their sources.

The values displayed by this command reflect the current state of the
configuration sources, that is the environment variables and the config
file. They may not reflect the values used by a running Docureco server.

Config file location: /etc/docureco/config/docureco.yml (or DOCURECO_CONFIG_PATH)

Example:
  docureco config show
  docureco config show --json`,
	Run: func(cmd *cobra.Command, args []string) {
		asJSON, _ := cmd.Flags().GetBool("json")

		if err := showConfiguration(asJSON); err != nil {
			fmt.Fprintf(os.Stderr, "Failed to show configuration: %v\n", err)
			os.Exit(1)
		}
	},
}

func init() {
	configCmd.AddCommand(configShowCmd)
	configShowCmd.Flags().Bool("json", false, "output as JSON")
}

func showConfiguration(asJSON bool) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	if asJSON {
		jsonOutput, err := cfg.FormatJSON()
		if err != nil {
			return err
		}
		fmt.Println(jsonOutput)
		return nil
	}

	fmt.Print(cfg.FormatText())
	return nil
}

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// baselineCmd represents the baseline command
var baselineCmd = &cobra.Command{
	Use:   "baseline",
	Short: "Manage baseline traceability maps",
	Long:  `Create, update, and watch baseline traceability maps.`,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("error: Command 'baseline' requires a subcommand (create, update, watch)")
		fmt.Println()
		_ = cmd.Help()
		os.Exit(1)
	},
}

func init() {
	rootCmd.AddCommand(baselineCmd)
}

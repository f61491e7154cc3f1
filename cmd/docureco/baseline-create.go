package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/mhelmih/docureco/pkg/llm"
	"github.com/mhelmih/docureco/pkg/scanner"
	"github.com/mhelmih/docureco/pkg/workflow"
)

// baselineCreateCmd represents the baseline create command
var baselineCreateCmd = &cobra.Command{
	Use:   "create <owner/repo>",
	Short: "Create a baseline traceability map for a repository",
	Long: `Create a baseline traceability map for a repository.

The repository is scanned with repomix, its SRS/SDD documents and code are
analyzed, and the resulting map is saved to the database. Requires the
DATABASE_URL and ANTHROPIC_API_KEY environment variables, and the repomix
binary on PATH.

Example:
  docureco baseline create acme/shop
  docureco baseline create acme/shop --branch develop --force`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		repository := args[0]
		branch, _ := cmd.Flags().GetString("branch")
		force, _ := cmd.Flags().GetBool("force")

		cfg := mustLoadConfig()
		logger := newLogger()
		defer func() { _ = logger.Sync() }()

		st := mustConnectStore()

		client, err := llm.NewAnthropicClient(cfg)
		if err != nil {
			fmt.Fprintln(os.Stderr, "Unable to create LLM client:", err)
			os.Exit(1)
		}

		sc := scanner.NewScanner(logger)
		if !sc.Available() {
			fmt.Fprintln(os.Stderr, "repomix binary not found on PATH")
			os.Exit(1)
		}

		creator := workflow.NewBaselineMapCreator(st, client, sc, cfg, logger)
		m, err := creator.Create(context.Background(), repository, branch, force)
		if err != nil {
			fmt.Fprintln(os.Stderr, "Failed to create baseline map:", err)
			os.Exit(1)
		}
		if m == nil {
			fmt.Println("No baseline map created, see logs for the reason")
			return
		}

		fmt.Printf("Baseline map created for %s@%s: %d requirements, %d design elements, %d code components, %d links\n",
			repository, branch,
			len(m.Requirements), len(m.DesignElements), len(m.CodeComponents), len(m.Links))
	},
}

func init() {
	baselineCmd.AddCommand(baselineCreateCmd)
	baselineCreateCmd.Flags().StringP("branch", "b", "main", "branch to scan")
	baselineCreateCmd.Flags().BoolP("force", "f", false, "overwrite an existing baseline map")
}

package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/mhelmih/docureco/pkg/github"
	"github.com/mhelmih/docureco/pkg/llm"
	"github.com/mhelmih/docureco/pkg/workflow"
)

// baselineUpdateCmd represents the baseline update command
var baselineUpdateCmd = &cobra.Command{
	Use:   "update <owner/repo>",
	Short: "Update a baseline map from the changes between two refs",
	Long: `Update a baseline map from the changes between two refs.

The files changed between --base and --head are fetched from GitHub, changed
documents are re-extracted and merged into the existing map, and code
components are added, renamed, or removed to follow the code. Requires
GITHUB_TOKEN (or GitHub App credentials) and ANTHROPIC_API_KEY.

Example:
  docureco baseline update acme/shop --base v1.2.0 --head main`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		repository := args[0]
		branch, _ := cmd.Flags().GetString("branch")
		base, _ := cmd.Flags().GetString("base")
		head, _ := cmd.Flags().GetString("head")
		if head == "" {
			head = branch
		}

		cfg := mustLoadConfig()
		logger := newLogger()
		defer func() { _ = logger.Sync() }()

		st := mustConnectStore()

		client, err := llm.NewAnthropicClient(cfg)
		if err != nil {
			fmt.Fprintln(os.Stderr, "Unable to create LLM client:", err)
			os.Exit(1)
		}

		ctx := context.Background()
		gh, err := github.NewClientFromEnv(ctx, cfg)
		if err != nil {
			fmt.Fprintln(os.Stderr, "Unable to create GitHub client:", err)
			os.Exit(1)
		}

		updater := workflow.NewBaselineMapUpdater(st, client, gh, cfg, logger)
		m, err := updater.Update(ctx, repository, branch, base, head)
		if err != nil {
			fmt.Fprintln(os.Stderr, "Failed to update baseline map:", err)
			os.Exit(1)
		}
		if m == nil {
			fmt.Println("Baseline map unchanged, see logs for the reason")
			return
		}

		fmt.Printf("Baseline map updated for %s@%s: %d requirements, %d design elements, %d code components, %d links\n",
			repository, branch,
			len(m.Requirements), len(m.DesignElements), len(m.CodeComponents), len(m.Links))
	},
}

func init() {
	baselineCmd.AddCommand(baselineUpdateCmd)
	baselineUpdateCmd.Flags().StringP("branch", "b", "main", "branch whose map to update")
	baselineUpdateCmd.Flags().String("base", "", "base ref of the comparison")
	baselineUpdateCmd.Flags().String("head", "", "head ref of the comparison (defaults to the branch)")
	_ = baselineUpdateCmd.MarkFlagRequired("base")
}

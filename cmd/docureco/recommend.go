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

// recommendCmd represents the recommend command
var recommendCmd = &cobra.Command{
	Use:   "recommend <pr-url | owner/repo>",
	Short: "Post documentation update recommendations on a pull request",
	Long: `Post documentation update recommendations on a pull request.

The PR's changes are classified, traced through the stored baseline map, and
high-priority documentation impacts are posted as a PR comment in the 4W form
(What/Where/Why/How). Requires GITHUB_TOKEN (or GitHub App credentials) and
ANTHROPIC_API_KEY.

Example:
  docureco recommend https://github.com/acme/shop/pull/42
  docureco recommend acme/shop --pr 42`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		owner, repo, number, err := resolvePR(cmd, args[0])
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
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

		recommender := workflow.NewDocumentUpdateRecommender(st, client, gh, cfg, logger)
		recs, err := recommender.Recommend(ctx, owner, repo, number)
		if err != nil {
			fmt.Fprintln(os.Stderr, "Failed to generate recommendations:", err)
			os.Exit(1)
		}
		if len(recs) == 0 {
			fmt.Println("No new recommendations for this PR")
			return
		}

		fmt.Printf("Posted %d recommendation(s) on %s/%s#%d\n", len(recs), owner, repo, number)
	},
}

// resolvePR accepts either a full PR URL or owner/repo plus the --pr flag.
func resolvePR(cmd *cobra.Command, arg string) (string, string, int, error) {
	if owner, repo, number, err := github.ParsePRURL(arg); err == nil {
		return owner, repo, number, nil
	}

	owner, repo, err := github.SplitRepo(arg)
	if err != nil {
		return "", "", 0, fmt.Errorf("expected a PR URL or owner/repo: %w", err)
	}
	number, _ := cmd.Flags().GetInt("pr")
	if number <= 0 {
		return "", "", 0, fmt.Errorf("--pr is required when passing owner/repo")
	}
	return owner, repo, number, nil
}

func init() {
	rootCmd.AddCommand(recommendCmd)
	recommendCmd.Flags().Int("pr", 0, "pull request number (when passing owner/repo)")
}

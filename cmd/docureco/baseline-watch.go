package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/mhelmih/docureco/pkg/config"
	"github.com/mhelmih/docureco/pkg/github"
	"github.com/mhelmih/docureco/pkg/llm"
	"github.com/mhelmih/docureco/pkg/store"
	"github.com/mhelmih/docureco/pkg/workflow"
)

// baselineWatchCmd represents the baseline watch command
var baselineWatchCmd = &cobra.Command{
	Use:   "watch <owner/repo> <file>",
	Short: "Watch a trigger file and update the baseline map when it changes",
	Long: `Watch a trigger file and update the baseline map when it changes.

To trigger an update, replace the contents of the watched file with the refs
to compare, as "<base> <head>" on a single line. The file must be visible to
the process running "docureco baseline watch". Writes within one second are
coalesced into a single run.

Example:
  docureco baseline watch acme/shop /run/docureco/update`,
	Args: cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		repository := args[0]
		filename := args[1]
		branch, _ := cmd.Flags().GetString("branch")

		if err := watchBaseline(repository, branch, filename); err != nil {
			fmt.Fprintf(os.Stderr, "Failed to watch baseline: %v\n", err)
			os.Exit(1)
		}
	},
}

func init() {
	baselineCmd.AddCommand(baselineWatchCmd)
	baselineWatchCmd.Flags().StringP("branch", "b", "main", "branch whose map to update")
}

func watchBaseline(repository, branch, filename string) error {
	cfg := mustLoadConfig()
	logger := newLogger()
	defer func() { _ = logger.Sync() }()

	st := mustConnectStore()

	client, err := llm.NewAnthropicClient(cfg)
	if err != nil {
		return fmt.Errorf("failed to create LLM client: %w", err)
	}

	ctx := context.Background()
	gh, err := github.NewClientFromEnv(ctx, cfg)
	if err != nil {
		return fmt.Errorf("failed to create GitHub client: %w", err)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer func() { _ = watcher.Close() }()

	if err := watcher.Add(filename); err != nil {
		return fmt.Errorf("failed to watch file %s: %w", filename, err)
	}

	fmt.Printf("Watching %s for baseline updates (repository: %s, branch: %s)\n", filename, repository, branch)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	// Editors fire several events per save; the debounce timer coalesces them.
	var debounce *time.Timer
	runs := make(chan struct{}, 1)
	trigger := func() {
		select {
		case runs <- struct{}{}:
		default:
		}
	}

	for {
		select {
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if event.Op&fsnotify.Write == fsnotify.Write || event.Op&fsnotify.Create == fsnotify.Create {
				if debounce != nil {
					debounce.Stop()
				}
				debounce = time.AfterFunc(time.Second, trigger)
			}
		case <-runs:
			runBaselineUpdateFromFile(ctx, st, client, gh, cfg, logger, repository, branch, filename)
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			fmt.Fprintf(os.Stderr, "Watcher error: %v\n", err)
		case <-sigChan:
			fmt.Println("Shutting down watcher")
			return nil
		}
	}
}

func runBaselineUpdateFromFile(
	ctx context.Context,
	st store.Store,
	client llm.Client,
	gh *github.Client,
	cfg *config.Config,
	logger *zap.Logger,
	repository, branch, filename string,
) {
	content, err := os.ReadFile(filename)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error reading file: %v\n", err)
		return
	}

	refs := strings.Fields(string(content))
	if len(refs) != 2 {
		fmt.Fprintf(os.Stderr, "Expected \"<base> <head>\" in %s, got %q\n", filename, strings.TrimSpace(string(content)))
		return
	}

	fmt.Printf("[%s] Updating baseline map (%s..%s)...\n", time.Now().Format(time.RFC3339), refs[0], refs[1])

	updater := workflow.NewBaselineMapUpdater(st, client, gh, cfg, logger)
	if _, err := updater.Update(ctx, repository, branch, refs[0], refs[1]); err != nil {
		fmt.Fprintf(os.Stderr, "Error updating baseline map: %v\n", err)
		return
	}
	fmt.Println("Baseline map update finished")
}

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/mhelmih/docureco/pkg/config"
	"github.com/mhelmih/docureco/pkg/db"
	"github.com/mhelmih/docureco/pkg/store"
)

var rootCmd = &cobra.Command{
	Use:   "docureco",
	Short: "Documentation traceability agent",
	Long: `Docureco keeps a repository's SRS/SDD documentation traceable to its code.

It builds a baseline traceability map (requirements, design elements, code
components, and the links between them), keeps the map up to date as the
repository changes, and recommends documentation updates on pull requests.`,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func main() {
	Execute()
}

// newLogger builds the zap logger the workflows log through. Debug level when
// DOCURECO_LOG_LEVEL=debug.
func newLogger() *zap.Logger {
	cfg := zap.NewProductionConfig()
	if os.Getenv("DOCURECO_LOG_LEVEL") == "debug" {
		cfg.Level = zap.NewAtomicLevelAt(zap.DebugLevel)
	}
	logger, err := cfg.Build()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Unable to build logger:", err)
		os.Exit(1)
	}
	return logger
}

// mustLoadConfig loads and validates the configuration, exiting on failure.
func mustLoadConfig() *config.Config {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Failed to load configuration:", err)
		os.Exit(1)
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintln(os.Stderr, "Invalid configuration:", err)
		os.Exit(1)
	}
	return cfg
}

// mustConnectStore connects to Postgres and wraps the connection in a store.
func mustConnectStore() store.Store {
	if os.Getenv("DATABASE_URL") == "" {
		fmt.Fprintln(os.Stderr, "DATABASE_URL environment variable is required")
		os.Exit(1)
	}
	database, err := db.Connect(db.Config{})
	if err != nil {
		fmt.Fprintln(os.Stderr, "Unable to connect to DB:", err)
		os.Exit(1)
	}
	return store.NewGormStore(database)
}

// Package config provides configuration management for Docureco.
//
// This package handles loading and validating Docureco configuration
// from environment variables and an optional docureco.yml file.
//
// # Configuration Sources
//
// Configuration is loaded from:
//
//   - Environment variables (primary, DOCURECO_* prefix)
//   - docureco.yml in DOCURECO_CONFIG_PATH (optional)
//
// Each attribute remembers where its value came from (default, file, or
// environment); `docureco config show` prints the resulting table.
//
// # Key Configuration Options
//
//   - DOCURECO_LLM_MODEL: LLM model identifier
//   - DOCURECO_MAX_CONCURRENT_OPERATIONS: Bound on in-flight LLM calls
//   - DOCURECO_LOG_LEVEL: Logging verbosity
//   - DATABASE_URL: Database connection
//   - ANTHROPIC_API_KEY: LLM provider credential
//   - GITHUB_TOKEN: GitHub credential (or App credentials via
//     DOCURECO_GITHUB_APP_ID + DOCURECO_GITHUB_APP_PRIVATE_KEY)
package config

// Package main provides the docureco CLI, an agent that keeps a repository's
// SRS/SDD documentation traceable to its code.
//
// Docureco builds a baseline traceability map from a repository's
// documentation and code, stores it in Postgres, and recommends documentation
// updates when pull requests change mapped code.
//
// # Architecture
//
// The agent is organized into several packages:
//
//   - pkg/workflow: the creator, updater, and recommender workflows
//   - pkg/llm: Anthropic Messages client and reply parsing
//   - pkg/scanner: repomix repository scans and file classification
//   - pkg/github: GitHub API access and PR comment rendering
//   - pkg/server: read-only HTTP API over stored maps
//   - pkg/server/endpoints: REST API endpoint handlers
//   - pkg/store: map, recommendation, and workflow-run persistence
//   - pkg/model: database models
//   - pkg/db: database connection utilities
//   - pkg/config: configuration management
//
// # Quick Start
//
//	# Run database migrations
//	docureco db migrate
//
//	# Build a baseline map
//	docureco baseline create acme/shop --branch main
//
//	# Recommend documentation updates on a PR
//	docureco recommend https://github.com/acme/shop/pull/42
//
//	# Serve stored maps over HTTP
//	docureco server
//
// # Environment Variables
//
//   - DATABASE_URL: PostgreSQL connection string
//   - ANTHROPIC_API_KEY: key for the LLM extraction and assessment calls
//   - GITHUB_TOKEN: GitHub token (or DOCURECO_GITHUB_APP_ID plus
//     DOCURECO_GITHUB_APP_PRIVATE_KEY for GitHub App auth)
//   - DOCURECO_CONFIG_PATH: config directory (default /etc/docureco/config)
//   - DOCURECO_LOG_LEVEL: log level (debug enables SQL logging)
//   - DOCURECO_PORT: server port (default: 8080)
package main

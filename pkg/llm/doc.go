// Package llm wraps the Anthropic Messages API for the workflows.
//
// All hard extraction and classification logic is delegated to the model; this
// package only handles transport: prompt completion with retry and backoff,
// bounded by the configured timeout, plus helpers for digging JSON out of
// model replies.
package llm

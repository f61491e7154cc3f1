// Package github wraps the GitHub API operations the workflows need: pull
// request metadata, changed files, ref comparison, file contents, and comment
// posting.
//
// Authentication is either a plain token (GITHUB_TOKEN) or a GitHub App:
// an RS256-signed app JWT is exchanged for an installation token.
// Recommendation comments carry a hidden HTML marker so existing ones can be
// found and deduplicated on later runs.
package github

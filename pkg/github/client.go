package github

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/google/go-github/v57/github"

	"github.com/mhelmih/docureco/pkg/config"
)

// errCredentialsRequired is returned when no GitHub credential is configured.
var errCredentialsRequired = errors.New("GitHub credentials required")

// PullRequest is the subset of PR metadata the workflows use.
type PullRequest struct {
	Number  int    `json:"number"`
	Title   string `json:"title"`
	Body    string `json:"body"`
	BaseRef string `json:"base_ref"`
	HeadRef string `json:"head_ref"`
	BaseSHA string `json:"base_sha"`
	HeadSHA string `json:"head_sha"`
}

// ChangedFile is one file touched by a PR or a ref comparison.
type ChangedFile struct {
	Filename         string `json:"filename"`
	Status           string `json:"status"`
	Additions        int    `json:"additions"`
	Deletions        int    `json:"deletions"`
	Patch            string `json:"patch"`
	PreviousFilename string `json:"previous_filename,omitempty"`
}

// Commit is one commit reachable from a PR head.
type Commit struct {
	SHA     string `json:"sha"`
	Message string `json:"message"`
}

// Client wraps the GitHub REST API.
type Client struct {
	gh *github.Client
}

// NewClient creates a Client using an explicit token.
func NewClient(token string) *Client {
	return &Client{gh: github.NewClient(nil).WithAuthToken(token)}
}

// NewClientFromEnv creates a Client from the environment: GITHUB_TOKEN when
// set, GitHub App credentials otherwise.
func NewClientFromEnv(ctx context.Context, cfg *config.Config) (*Client, error) {
	if token := os.Getenv("GITHUB_TOKEN"); token != "" {
		return NewClient(token), nil
	}

	if cfg.GitHubAppID != 0 {
		token, err := installationToken(ctx, cfg)
		if err != nil {
			return nil, fmt.Errorf("failed to authenticate as GitHub App: %w", err)
		}
		return NewClient(token), nil
	}

	return nil, fmt.Errorf("%w: set GITHUB_TOKEN or configure App credentials", errCredentialsRequired)
}

// GetPullRequest fetches PR metadata.
func (c *Client) GetPullRequest(ctx context.Context, owner, repo string, number int) (*PullRequest, error) {
	pr, _, err := c.gh.PullRequests.Get(ctx, owner, repo, number)
	if err != nil {
		return nil, fmt.Errorf("failed to get pull request: %w", err)
	}
	return &PullRequest{
		Number:  pr.GetNumber(),
		Title:   pr.GetTitle(),
		Body:    pr.GetBody(),
		BaseRef: pr.GetBase().GetRef(),
		HeadRef: pr.GetHead().GetRef(),
		BaseSHA: pr.GetBase().GetSHA(),
		HeadSHA: pr.GetHead().GetSHA(),
	}, nil
}

// ListPullRequestFiles returns all files changed by a PR, patches included.
func (c *Client) ListPullRequestFiles(ctx context.Context, owner, repo string, number int) ([]ChangedFile, error) {
	var all []ChangedFile
	opts := &github.ListOptions{PerPage: 100}
	for {
		files, resp, err := c.gh.PullRequests.ListFiles(ctx, owner, repo, number, opts)
		if err != nil {
			return nil, fmt.Errorf("failed to list pull request files: %w", err)
		}
		for _, f := range files {
			all = append(all, changedFile(f))
		}
		if resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
	}
	return all, nil
}

// ListPullRequestCommits returns the commits of a PR.
func (c *Client) ListPullRequestCommits(ctx context.Context, owner, repo string, number int) ([]Commit, error) {
	var all []Commit
	opts := &github.ListOptions{PerPage: 100}
	for {
		commits, resp, err := c.gh.PullRequests.ListCommits(ctx, owner, repo, number, opts)
		if err != nil {
			return nil, fmt.Errorf("failed to list pull request commits: %w", err)
		}
		for _, commit := range commits {
			all = append(all, Commit{
				SHA:     commit.GetSHA(),
				Message: commit.GetCommit().GetMessage(),
			})
		}
		if resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
	}
	return all, nil
}

// CompareRefs returns the files changed between two refs.
func (c *Client) CompareRefs(ctx context.Context, owner, repo, base, head string) ([]ChangedFile, error) {
	var all []ChangedFile
	opts := &github.ListOptions{PerPage: 100}
	for {
		cmp, resp, err := c.gh.Repositories.CompareCommits(ctx, owner, repo, base, head, opts)
		if err != nil {
			return nil, fmt.Errorf("failed to compare %s...%s: %w", base, head, err)
		}
		for _, f := range cmp.Files {
			all = append(all, changedFile(f))
		}
		if resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
	}
	return all, nil
}

// GetFileContent fetches the decoded content of a file at a ref.
func (c *Client) GetFileContent(ctx context.Context, owner, repo, path, ref string) (string, error) {
	content, _, _, err := c.gh.Repositories.GetContents(ctx, owner, repo, path,
		&github.RepositoryContentGetOptions{Ref: ref})
	if err != nil {
		return "", fmt.Errorf("failed to get %s@%s: %w", path, ref, err)
	}
	if content == nil {
		return "", fmt.Errorf("%s@%s is a directory, not a file", path, ref)
	}
	decoded, err := content.GetContent()
	if err != nil {
		return "", fmt.Errorf("failed to decode %s@%s: %w", path, ref, err)
	}
	return decoded, nil
}

// ListIssueComments returns all comments on a PR.
func (c *Client) ListIssueComments(ctx context.Context, owner, repo string, number int) ([]string, error) {
	var all []string
	opts := &github.IssueListCommentsOptions{ListOptions: github.ListOptions{PerPage: 100}}
	for {
		comments, resp, err := c.gh.Issues.ListComments(ctx, owner, repo, number, opts)
		if err != nil {
			return nil, fmt.Errorf("failed to list comments: %w", err)
		}
		for _, comment := range comments {
			all = append(all, comment.GetBody())
		}
		if resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
	}
	return all, nil
}

// CreateComment posts a comment on a PR.
func (c *Client) CreateComment(ctx context.Context, owner, repo string, number int, body string) error {
	_, _, err := c.gh.Issues.CreateComment(ctx, owner, repo, number,
		&github.IssueComment{Body: github.String(body)})
	if err != nil {
		return fmt.Errorf("failed to create comment: %w", err)
	}
	return nil
}

func changedFile(f *github.CommitFile) ChangedFile {
	return ChangedFile{
		Filename:         f.GetFilename(),
		Status:           f.GetStatus(),
		Additions:        f.GetAdditions(),
		Deletions:        f.GetDeletions(),
		Patch:            f.GetPatch(),
		PreviousFilename: f.GetPreviousFilename(),
	}
}

package scanner

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"go.uber.org/zap"
)

const scanTimeout = 5 * time.Minute

// defaultIgnore lists directories excluded from every scan.
var defaultIgnore = []string{
	"node_modules", "__pycache__", ".git", ".venv", "venv", "env",
	"target", "build", "dist", ".next", "coverage", ".github", ".vscode",
}

// File is one file captured from a repository scan.
type File struct {
	Path    string `json:"path"`
	Content string `json:"content"`
}

// Scanner runs Repomix against remote repositories.
type Scanner struct {
	ignore []string
	log    *zap.Logger
}

// NewScanner creates a Scanner with the default ignore list.
func NewScanner(log *zap.Logger) *Scanner {
	return &Scanner{ignore: defaultIgnore, log: log}
}

// Available reports whether the repomix binary is on PATH.
func (s *Scanner) Available() bool {
	_, err := exec.LookPath("repomix")
	return err == nil
}

// Scan runs Repomix against a remote repository+branch and returns the
// captured files. The scan is bounded by a 5 minute timeout.
func (s *Scanner) Scan(ctx context.Context, repository, branch string) ([]File, error) {
	if !s.Available() {
		return nil, fmt.Errorf("repomix binary not found on PATH")
	}

	repoURL := repository
	if strings.Contains(repository, "/") && !strings.HasPrefix(repository, "http") {
		repoURL = fmt.Sprintf("https://github.com/%s.git", repository)
	}

	tempDir, err := os.MkdirTemp("", "docureco-scan-*")
	if err != nil {
		return nil, fmt.Errorf("failed to create temp dir: %w", err)
	}
	defer func() { _ = os.RemoveAll(tempDir) }()
	outputFile := filepath.Join(tempDir, "repo_scan.xml")

	ctx, cancel := context.WithTimeout(ctx, scanTimeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, "repomix",
		"--remote", repoURL,
		"--remote-branch", branch,
		"--output", outputFile,
		"--style", "xml",
		"--ignore", strings.Join(s.ignore, ","),
	)

	s.log.Info("running repomix scan",
		zap.String("repository", repository),
		zap.String("branch", branch),
	)

	output, err := cmd.CombinedOutput()
	if err != nil {
		if ctx.Err() == context.DeadlineExceeded {
			return nil, fmt.Errorf("repomix scan timed out after %s", scanTimeout)
		}
		return nil, fmt.Errorf("repomix failed: %w: %s", err, strings.TrimSpace(string(output)))
	}

	data, err := os.ReadFile(outputFile)
	if err != nil {
		return nil, fmt.Errorf("failed to read repomix output: %w", err)
	}

	files := ParseRepomix(string(data))
	s.log.Info("repomix scan complete", zap.Int("files", len(files)))
	return files, nil
}

// filePattern matches Repomix's <file path="..."> sections. The output is
// XML-like but not valid XML, so encoding/xml cannot parse it.
var filePattern = regexp.MustCompile(`(?s)<file path="([^"]*)">\s*(.*?)\s*</file>`)

// ParseRepomix parses Repomix output into files, falling back to the
// markdown-header format when no XML-like tags are present.
func ParseRepomix(content string) []File {
	var files []File
	for _, m := range filePattern.FindAllStringSubmatch(content, -1) {
		path, body := m[1], strings.TrimSpace(m[2])
		if path != "" && body != "" {
			files = append(files, File{Path: path, Content: body})
		}
	}
	if len(files) > 0 {
		return files
	}
	return parseMarkdownOutput(content)
}

// parseMarkdownOutput handles the "## path/to/file" output style: each file
// is a level-2 heading followed by a fenced code block.
func parseMarkdownOutput(content string) []File {
	var files []File
	var current string
	var body []string

	flush := func() {
		text := strings.TrimSpace(strings.Join(body, "\n"))
		if current != "" && text != "" {
			files = append(files, File{Path: current, Content: text})
		}
		current = ""
		body = nil
	}

	inCodeBlock := false
	for _, line := range strings.Split(content, "\n") {
		if strings.HasPrefix(line, "## ") && !inCodeBlock {
			header := strings.TrimSpace(line[3:])
			// File headers carry an extension or a path separator.
			if (strings.Contains(header, ".") || strings.Contains(header, "/")) &&
				!strings.HasSuffix(header, ":") {
				flush()
				current = header
			}
			continue
		}
		if strings.HasPrefix(line, "```") {
			inCodeBlock = !inCodeBlock
			continue
		}
		if current != "" {
			body = append(body, line)
		}
	}
	flush()
	return files
}

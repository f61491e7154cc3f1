package scanner

import (
	"path"
	"regexp"
	"strings"
)

// Classification buckets scanned files into documentation and code sets.
type Classification struct {
	SDD  []File
	SRS  []File
	Code []File
}

// Classify sorts files into SDD, SRS, and code buckets by glob pattern.
// A file claimed by a documentation pattern is never also treated as code.
func Classify(files []File, sddPatterns, srsPatterns, codePatterns []string) Classification {
	var c Classification
	for _, f := range files {
		switch {
		case matchAny(f.Path, sddPatterns):
			c.SDD = append(c.SDD, f)
		case matchAny(f.Path, srsPatterns):
			c.SRS = append(c.SRS, f)
		case matchAny(f.Path, codePatterns):
			c.Code = append(c.Code, f)
		}
	}
	return c
}

// Match reports whether a single path matches any of the patterns, under the
// same rules Classify uses.
func Match(filePath string, patterns []string) bool {
	return matchAny(filePath, patterns)
}

// matchAny reports whether the path matches any pattern. Patterns are matched
// case-insensitively against both the full path and the basename, so
// "srs*.md" finds "docs/SRS-v2.md".
func matchAny(filePath string, patterns []string) bool {
	lower := strings.ToLower(filePath)
	base := path.Base(lower)
	for _, p := range patterns {
		re, err := globToRegexp(strings.ToLower(p))
		if err != nil {
			continue
		}
		if re.MatchString(lower) || re.MatchString(base) {
			return true
		}
	}
	return false
}

// globToRegexp converts a glob pattern to a regexp. "**" crosses directory
// boundaries, "*" and "?" do not.
func globToRegexp(pattern string) (*regexp.Regexp, error) {
	var sb strings.Builder
	sb.WriteString("^")
	for i := 0; i < len(pattern); i++ {
		switch c := pattern[i]; c {
		case '*':
			if i+1 < len(pattern) && pattern[i+1] == '*' {
				i++
				// Swallow a following slash so "**/x" also matches "x".
				if i+1 < len(pattern) && pattern[i+1] == '/' {
					i++
					sb.WriteString(`(?:.*/)?`)
				} else {
					sb.WriteString(`.*`)
				}
			} else {
				sb.WriteString(`[^/]*`)
			}
		case '?':
			sb.WriteString(`[^/]`)
		default:
			sb.WriteString(regexp.QuoteMeta(string(c)))
		}
	}
	sb.WriteString("$")
	return regexp.Compile(sb.String())
}

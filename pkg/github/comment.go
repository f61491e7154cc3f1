package github

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/mhelmih/docureco/pkg/model"
)

// CommentHeader marks a comment as Docureco-generated.
const CommentHeader = "<!-- docureco:recommendations -->"

var recMarkerPattern = regexp.MustCompile(`<!-- docureco:rec:([^>]+?) -->`)

// RecommendationKey identifies a recommendation for deduplication across
// runs: same target document, section, and affected element.
func RecommendationKey(rec model.Recommendation) string {
	return fmt.Sprintf("%s|%s|%s", rec.TargetDocument, rec.Section, rec.AffectedElementID)
}

// ExistingRecommendationKeys scans PR comments for previously posted
// recommendation markers.
func ExistingRecommendationKeys(comments []string) map[string]bool {
	keys := make(map[string]bool)
	for _, body := range comments {
		for _, m := range recMarkerPattern.FindAllStringSubmatch(body, -1) {
			keys[m[1]] = true
		}
	}
	return keys
}

// FilterNewRecommendations drops recommendations already posted on the PR.
func FilterNewRecommendations(recs []model.Recommendation, existing map[string]bool) []model.Recommendation {
	var out []model.Recommendation
	for _, rec := range recs {
		if !existing[RecommendationKey(rec)] {
			out = append(out, rec)
		}
	}
	return out
}

// RenderComment formats recommendations as a single PR comment, grouped by
// target document. Each recommendation carries a hidden marker used for
// deduplication on later runs.
func RenderComment(recs []model.Recommendation) string {
	byDoc := make(map[string][]model.Recommendation)
	for _, rec := range recs {
		byDoc[rec.TargetDocument] = append(byDoc[rec.TargetDocument], rec)
	}
	docs := make([]string, 0, len(byDoc))
	for doc := range byDoc {
		docs = append(docs, doc)
	}
	sort.Strings(docs)

	var sb strings.Builder
	sb.WriteString(CommentHeader + "\n")
	sb.WriteString("## Documentation Update Recommendations\n\n")
	sb.WriteString(fmt.Sprintf("This PR's code changes likely affect the documentation below (%d finding(s)).\n", len(recs)))

	for _, doc := range docs {
		sb.WriteString(fmt.Sprintf("\n### `%s`\n", doc))
		for _, rec := range byDoc[doc] {
			sb.WriteString(fmt.Sprintf("\n<!-- docureco:rec:%s -->\n", RecommendationKey(rec)))
			if rec.Section != "" {
				sb.WriteString(fmt.Sprintf("**Section:** %s", rec.Section))
				if rec.Priority != "" {
					sb.WriteString(fmt.Sprintf(" · **Priority:** %s", rec.Priority))
				}
				sb.WriteString("\n\n")
			}
			sb.WriteString(fmt.Sprintf("- **What:** %s\n", rec.WhatToUpdate))
			sb.WriteString(fmt.Sprintf("- **Where:** %s\n", rec.WhereToUpdate))
			sb.WriteString(fmt.Sprintf("- **Why:** %s\n", rec.WhyUpdateNeeded))
			sb.WriteString(fmt.Sprintf("- **How:** %s\n", rec.HowToUpdate))
			if rec.SuggestedContent != "" {
				sb.WriteString(fmt.Sprintf("\n```suggestion\n%s\n```\n", rec.SuggestedContent))
			}
		}
	}

	return sb.String()
}

package workflow

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/mhelmih/docureco/pkg/config"
	gh "github.com/mhelmih/docureco/pkg/github"
	"github.com/mhelmih/docureco/pkg/llm"
	"github.com/mhelmih/docureco/pkg/model"
	"github.com/mhelmih/docureco/pkg/scanner"
	"github.com/mhelmih/docureco/pkg/store"
)

// PullRequestReader is the slice of the GitHub client the recommender needs.
type PullRequestReader interface {
	GetPullRequest(ctx context.Context, owner, repo string, number int) (*gh.PullRequest, error)
	ListPullRequestCommits(ctx context.Context, owner, repo string, number int) ([]gh.Commit, error)
	ListPullRequestFiles(ctx context.Context, owner, repo string, number int) ([]gh.ChangedFile, error)
	ListIssueComments(ctx context.Context, owner, repo string, number int) ([]string, error)
	CreateComment(ctx context.Context, owner, repo string, number int, body string) error
	GetFileContent(ctx context.Context, owner, repo, path, ref string) (string, error)
}

// DocumentUpdateRecommender turns a PR's code changes into 4W documentation
// update recommendations: scan the PR, classify the changes, assess the
// documentation impact through the baseline map, and post the results as a
// PR comment.
type DocumentUpdateRecommender struct {
	store  store.Store
	llm    llm.Client
	github PullRequestReader
	cfg    *config.Config
	log    *zap.Logger
}

// NewDocumentUpdateRecommender wires a recommender from its dependencies.
func NewDocumentUpdateRecommender(st store.Store, client llm.Client, reader PullRequestReader, cfg *config.Config, log *zap.Logger) *DocumentUpdateRecommender {
	return &DocumentUpdateRecommender{store: st, llm: client, github: reader, cfg: cfg, log: log}
}

type recommenderState struct {
	owner      string
	repo       string
	repository string
	prNumber   int
	runID      string

	baseline *model.BaselineMap

	pr      *gh.PullRequest
	commits []gh.Commit
	files   []gh.ChangedFile

	classifications []changeClassification
	changeSets      []changeSet
	impacts         []Impact
	findings        []impactFinding

	recommendations []model.Recommendation
	posted          bool

	stopReason string
}

// Recommend runs the recommendation workflow for one PR. Returns the
// recommendations that were generated, which is empty when the run
// terminated early.
func (r *DocumentUpdateRecommender) Recommend(ctx context.Context, owner, repo string, prNumber int) ([]model.Recommendation, error) {
	repository := owner + "/" + repo

	run := &model.WorkflowRun{
		Workflow:   model.WorkflowRecommend,
		Repository: repository,
		PRNumber:   &prNumber,
	}
	if err := r.store.CreateWorkflowRun(run); err != nil {
		return nil, err
	}

	state := &recommenderState{
		owner:      owner,
		repo:       repo,
		repository: repository,
		prNumber:   prNumber,
		runID:      run.ID,
	}

	g := NewGraph[*recommenderState]().
		AddNode("scan_pr", r.step("scan_pr", r.scanPR)).
		AddNode("load_baseline", r.step("load_baseline", r.loadBaseline)).
		AddNode("classify_changes", r.step("classify_changes", r.classifyChanges)).
		AddNode("assess_impact", r.step("assess_impact", r.assessImpact)).
		AddNode("generate_recommendations", r.step("generate_recommendations", r.generateRecommendations)).
		AddConditionalEdge("scan_pr", func(s *recommenderState) string {
			if len(s.files) == 0 {
				s.stopReason = "pull request changes no files"
				return End
			}
			return "load_baseline"
		}).
		AddConditionalEdge("load_baseline", func(s *recommenderState) string {
			if s.baseline == nil {
				s.stopReason = "no baseline map for base branch " + s.pr.BaseRef
				return End
			}
			return "classify_changes"
		}).
		AddConditionalEdge("classify_changes", func(s *recommenderState) string {
			if len(s.changeSets) == 0 {
				s.stopReason = "no logical change sets identified"
				return End
			}
			return "assess_impact"
		}).
		AddConditionalEdge("assess_impact", func(s *recommenderState) string {
			if len(s.findings) == 0 {
				s.stopReason = "no high-priority documentation impact"
				return End
			}
			return "generate_recommendations"
		}).
		SetEntryPoint("scan_pr")

	state, err := g.Run(ctx, state)
	switch {
	case err != nil:
		_ = r.store.FinishWorkflowRun(run.ID, model.RunFailed, err.Error())
		return nil, err
	case state.stopReason != "":
		r.log.Info("recommendation run ended early", zap.String("reason", state.stopReason))
		_ = r.store.FinishWorkflowRun(run.ID, model.RunSkipped, state.stopReason)
		return nil, nil
	}

	_ = r.store.FinishWorkflowRun(run.ID, model.RunCompleted, "")
	return state.recommendations, nil
}

func (r *DocumentUpdateRecommender) step(name string, fn Node[*recommenderState]) Node[*recommenderState] {
	return func(ctx context.Context, s *recommenderState) (*recommenderState, error) {
		_ = r.store.UpdateWorkflowStep(s.runID, name)
		return fn(ctx, s)
	}
}

func (r *DocumentUpdateRecommender) scanPR(ctx context.Context, s *recommenderState) (*recommenderState, error) {
	pr, err := r.github.GetPullRequest(ctx, s.owner, s.repo, s.prNumber)
	if err != nil {
		return s, err
	}
	commits, err := r.github.ListPullRequestCommits(ctx, s.owner, s.repo, s.prNumber)
	if err != nil {
		return s, err
	}
	files, err := r.github.ListPullRequestFiles(ctx, s.owner, s.repo, s.prNumber)
	if err != nil {
		return s, err
	}

	s.pr, s.commits, s.files = pr, commits, files
	r.log.Info("pull request scanned",
		zap.Int("pr", s.prNumber),
		zap.Int("commits", len(commits)),
		zap.Int("files", len(files)),
	)
	return s, nil
}

// loadBaseline fetches the traceability map for the PR's base branch. A
// missing map leaves s.baseline nil so the router can end the run without
// posting anything.
func (r *DocumentUpdateRecommender) loadBaseline(_ context.Context, s *recommenderState) (*recommenderState, error) {
	m, err := r.store.GetBaselineMap(s.repository, s.pr.BaseRef)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			r.log.Warn("no baseline map, skipping recommendations",
				zap.String("repository", s.repository),
				zap.String("branch", s.pr.BaseRef))
			return s, nil
		}
		return s, err
	}
	s.baseline = m
	return s, nil
}

func (r *DocumentUpdateRecommender) classifyChanges(ctx context.Context, s *recommenderState) (*recommenderState, error) {
	var commits strings.Builder
	for _, c := range s.commits {
		commits.WriteString(fmt.Sprintf("- %s %s\n", shortSHA(c.SHA), firstLine(c.Message)))
	}

	var files strings.Builder
	for _, f := range s.files {
		files.WriteString(fmt.Sprintf("### %s (%s, +%d -%d)\n", f.Filename, f.Status, f.Additions, f.Deletions))
		if f.Patch != "" {
			files.WriteString(contentPreview(f.Patch) + "\n")
		}
	}

	prompt, err := renderPrompt(classifyTmpl, map[string]string{
		"Title":   s.pr.Title,
		"Body":    s.pr.Body,
		"Commits": commits.String(),
		"Files":   files.String(),
	})
	if err != nil {
		return s, err
	}
	reply, err := r.llm.Complete(ctx, prompt)
	if err != nil {
		return s, fmt.Errorf("change classification: %w", err)
	}

	var out struct {
		Classifications []changeClassification `json:"classifications"`
		ChangeSets      []changeSet            `json:"change_sets"`
	}
	if err := llm.DecodeReply(reply, &out); err != nil {
		return s, fmt.Errorf("change classification: %w", err)
	}

	s.classifications = out.Classifications
	s.changeSets = out.ChangeSets
	r.log.Info("changes classified", zap.Int("change_sets", len(s.changeSets)))
	return s, nil
}

func (r *DocumentUpdateRecommender) assessImpact(ctx context.Context, s *recommenderState) (*recommenderState, error) {
	var changedPaths []string
	for _, f := range s.files {
		changedPaths = append(changedPaths, f.Filename)
	}
	s.impacts = TraceImpact(s.baseline, changedPaths)

	sets, err := json.Marshal(s.changeSets)
	if err != nil {
		return s, err
	}
	affected, err := json.Marshal(s.impacts)
	if err != nil {
		return s, err
	}

	prompt, err := renderPrompt(impactTmpl, map[string]string{
		"ChangeSets":       string(sets),
		"AffectedElements": string(affected),
	})
	if err != nil {
		return s, err
	}
	reply, err := r.llm.Complete(ctx, prompt)
	if err != nil {
		return s, fmt.Errorf("impact assessment: %w", err)
	}

	var out struct {
		Statuses []struct {
			Name               string `json:"name"`
			TraceabilityStatus string `json:"traceability_status"`
		} `json:"statuses"`
		Findings []impactFinding `json:"findings"`
	}
	if err := llm.DecodeReply(reply, &out); err != nil {
		return s, fmt.Errorf("impact assessment: %w", err)
	}

	statuses := make(map[string]string, len(out.Statuses))
	for _, st := range out.Statuses {
		statuses[st.Name] = st.TraceabilityStatus
	}
	for i := range s.changeSets {
		if status, ok := statuses[s.changeSets[i].Name]; ok {
			s.changeSets[i].TraceabilityStatus = status
		}
	}

	// Only high-priority findings continue into recommendation generation.
	for _, f := range out.Findings {
		if isHighPriority(f.Likelihood, f.Severity) {
			s.findings = append(s.findings, f)
		}
	}
	r.log.Info("impact assessed",
		zap.Int("affected_elements", len(s.impacts)),
		zap.Int("findings", len(out.Findings)),
		zap.Int("high_priority", len(s.findings)),
	)
	return s, nil
}

func (r *DocumentUpdateRecommender) generateRecommendations(ctx context.Context, s *recommenderState) (*recommenderState, error) {
	comments, err := r.github.ListIssueComments(ctx, s.owner, s.repo, s.prNumber)
	if err != nil {
		return s, err
	}
	existing := gh.ExistingRecommendationKeys(comments)

	findings, err := json.Marshal(s.findings)
	if err != nil {
		return s, err
	}

	prompt, err := renderPrompt(recommendTmpl, map[string]string{
		"Findings":   string(findings),
		"DocContext": r.docContext(ctx, s),
	})
	if err != nil {
		return s, err
	}
	reply, err := r.llm.Complete(ctx, prompt)
	if err != nil {
		return s, fmt.Errorf("recommendation generation: %w", err)
	}

	var out struct {
		Recommendations []recommendationOut `json:"recommendations"`
	}
	if err := llm.DecodeReply(reply, &out); err != nil {
		return s, fmt.Errorf("recommendation generation: %w", err)
	}

	var recs []model.Recommendation
	for _, rec := range out.Recommendations {
		recs = append(recs, model.Recommendation{
			Repository:          s.repository,
			PRNumber:            s.prNumber,
			TargetDocument:      rec.TargetDocument,
			Section:             rec.Section,
			RecommendationType:  rec.RecommendationType,
			Priority:            rec.Priority,
			WhatToUpdate:        rec.WhatToUpdate,
			WhereToUpdate:       rec.WhereToUpdate,
			WhyUpdateNeeded:     rec.WhyUpdateNeeded,
			HowToUpdate:         rec.HowToUpdate,
			SuggestedContent:    rec.SuggestedContent,
			AffectedElementID:   rec.AffectedElementID,
			AffectedElementType: rec.AffectedElementType,
			Confidence:          rec.Confidence,
			Status:              model.RecommendationPending,
		})
	}

	fresh := gh.FilterNewRecommendations(recs, existing)
	if len(fresh) > 0 {
		if err := r.github.CreateComment(ctx, s.owner, s.repo, s.prNumber, gh.RenderComment(fresh)); err != nil {
			return s, err
		}
		for i := range fresh {
			fresh[i].Status = model.RecommendationPosted
		}
		s.posted = true
	}

	if err := r.store.CreateRecommendations(fresh); err != nil {
		return s, err
	}
	s.recommendations = fresh
	r.log.Info("recommendations generated",
		zap.Int("generated", len(recs)),
		zap.Int("posted", len(fresh)),
	)
	return s, nil
}

// docContext gathers the current content of documentation files touched by
// the PR so the model can write edits against the real text. When the
// findings name document sections, only those sections are included.
func (r *DocumentUpdateRecommender) docContext(ctx context.Context, s *recommenderState) string {
	var sections []string
	seen := make(map[string]bool)
	for _, f := range s.findings {
		if f.Section != "" && !seen[f.Section] {
			seen[f.Section] = true
			sections = append(sections, f.Section)
		}
	}

	var sb strings.Builder
	for _, f := range s.files {
		if !scanner.Match(f.Filename, r.cfg.SDDPatterns) && !scanner.Match(f.Filename, r.cfg.SRSPatterns) {
			continue
		}
		if f.Status == "removed" {
			continue
		}
		content, err := r.github.GetFileContent(ctx, s.owner, s.repo, f.Filename, s.pr.HeadSHA)
		if err != nil {
			r.log.Warn("skipping unreadable document", zap.String("path", f.Filename), zap.Error(err))
			continue
		}
		sb.WriteString(scopedDocument(f.Filename, content, sections))
	}
	if sb.Len() == 0 {
		return "(no documentation files changed in this PR)"
	}
	return sb.String()
}

// scopedDocument narrows a document to the named sections. A document where
// none of the named sections resolve is kept whole so the model still sees
// its real text.
func scopedDocument(path, content string, titles []string) string {
	index := scanner.SectionIndex([]byte(content))

	var sb strings.Builder
	for _, title := range titles {
		if sec := scanner.FindSection(index, title); sec != nil {
			sb.WriteString(fmt.Sprintf("## %s (section %q)\n%s\n", path, sec.Title, sec.Content))
		}
	}
	if sb.Len() == 0 {
		return fmt.Sprintf("## %s\n%s\n", path, content)
	}
	return sb.String()
}

// isHighPriority keeps findings that are at least Likely and at least
// Moderate.
func isHighPriority(likelihood, severity string) bool {
	likely := likelihood == "Very Likely" || likelihood == "Likely"
	severe := severity == "Fundamental" || severity == "Major" || severity == "Moderate"
	return likely && severe
}

func shortSHA(sha string) string {
	if len(sha) > 7 {
		return sha[:7]
	}
	return sha
}

func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i]
	}
	return s
}

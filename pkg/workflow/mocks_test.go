package workflow

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	gh "github.com/mhelmih/docureco/pkg/github"
	"github.com/mhelmih/docureco/pkg/llm"
	"github.com/mhelmih/docureco/pkg/model"
	"github.com/mhelmih/docureco/pkg/scanner"
	"github.com/mhelmih/docureco/pkg/store"
)

// fakeStore is an in-memory Store for workflow tests.
type fakeStore struct {
	maps map[string]*model.BaselineMap

	saved []*model.BaselineMap
	recs  []model.Recommendation
	runs  []*model.WorkflowRun
	steps []string

	lastRunStatus string
	lastRunError  string
}

func newFakeStore() *fakeStore {
	return &fakeStore{maps: make(map[string]*model.BaselineMap)}
}

func mapKey(repository, branch string) string { return repository + "@" + branch }

func (f *fakeStore) Transaction(fn func(store.Store) error) error { return fn(f) }

func (f *fakeStore) GetBaselineMap(repository, branch string) (*model.BaselineMap, error) {
	m, ok := f.maps[mapKey(repository, branch)]
	if !ok {
		return nil, store.ErrNotFound
	}
	return m, nil
}

func (f *fakeStore) SaveBaselineMap(m *model.BaselineMap) error {
	if err := m.Validate(); err != nil {
		return err
	}
	f.maps[mapKey(m.Repository, m.Branch)] = m
	f.saved = append(f.saved, m)
	return nil
}

func (f *fakeStore) DeleteBaselineMap(repository, branch string) error {
	if _, ok := f.maps[mapKey(repository, branch)]; !ok {
		return store.ErrNotFound
	}
	delete(f.maps, mapKey(repository, branch))
	return nil
}

func (f *fakeStore) BaselineMapStats(repository, branch string) (*store.Stats, error) {
	m, err := f.GetBaselineMap(repository, branch)
	if err != nil {
		return nil, err
	}
	return &store.Stats{
		Repository:     repository,
		Branch:         branch,
		Requirements:   int64(len(m.Requirements)),
		DesignElements: int64(len(m.DesignElements)),
		CodeComponents: int64(len(m.CodeComponents)),
		Links:          int64(len(m.Links)),
	}, nil
}

func (f *fakeStore) UpsertTraceabilityLink(mapID string, link model.TraceabilityLink) error {
	return nil
}

func (f *fakeStore) CreateRecommendations(recs []model.Recommendation) error {
	f.recs = append(f.recs, recs...)
	return nil
}

func (f *fakeStore) ListRecommendations(repository string, prNumber int) ([]model.Recommendation, error) {
	return f.recs, nil
}

func (f *fakeStore) UpdateRecommendationStatus(id, status string) error { return nil }

func (f *fakeStore) CreateWorkflowRun(run *model.WorkflowRun) error {
	run.ID = fmt.Sprintf("run-%d", len(f.runs)+1)
	run.Status = model.RunRunning
	f.runs = append(f.runs, run)
	return nil
}

func (f *fakeStore) UpdateWorkflowStep(runID, step string) error {
	f.steps = append(f.steps, step)
	return nil
}

func (f *fakeStore) FinishWorkflowRun(runID, status, errMsg string) error {
	f.lastRunStatus = status
	f.lastRunError = errMsg
	return nil
}

var _ store.Store = (*fakeStore)(nil)

// scriptedLLM resolves replies by a distinctive substring of the prompt, so
// one fake serves every prompt template in a workflow run. Extraction calls
// run concurrently, hence the mutex.
type scriptedLLM struct {
	mu      sync.Mutex
	replies map[string]string
	prompts []string
}

func (l *scriptedLLM) Complete(_ context.Context, prompt string) (string, error) {
	l.mu.Lock()
	l.prompts = append(l.prompts, prompt)
	l.mu.Unlock()
	for marker, reply := range l.replies {
		if strings.Contains(prompt, marker) {
			return reply, nil
		}
	}
	return "", fmt.Errorf("no scripted reply matches prompt starting %q", prompt[:min(len(prompt), 60)])
}

func (l *scriptedLLM) recordedPrompts() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]string(nil), l.prompts...)
}

// inFlightLLM wraps another client and records the high-water mark of
// concurrent Complete calls. The sleep widens the overlap window.
type inFlightLLM struct {
	inner llm.Client

	mu       sync.Mutex
	inFlight int
	peak     int
}

func (l *inFlightLLM) Complete(ctx context.Context, prompt string) (string, error) {
	l.mu.Lock()
	l.inFlight++
	if l.inFlight > l.peak {
		l.peak = l.inFlight
	}
	l.mu.Unlock()

	defer func() {
		l.mu.Lock()
		l.inFlight--
		l.mu.Unlock()
	}()

	time.Sleep(5 * time.Millisecond)
	return l.inner.Complete(ctx, prompt)
}

// Prompt markers, unique per template.
const (
	markSDD       = "Software Design Document (SDD)"
	markSRS       = "Software Requirements Specification (SRS)"
	markD2D       = "mapping relationships between design elements"
	markR2D       = "mapping requirements to the design elements"
	markD2C       = "mapping design elements to the source files"
	markClassify  = "analyzing the code changes of a pull request"
	markImpact    = "assessing how a pull request's code changes"
	markRecommend = "writing documentation-update recommendations"
)

type fakeScanner struct {
	files []scanner.File
	err   error
}

func (f *fakeScanner) Scan(ctx context.Context, repository, branch string) ([]scanner.File, error) {
	return f.files, f.err
}

// fakeGitHub serves both the updater's RefComparer and the recommender's
// PullRequestReader.
type fakeGitHub struct {
	pr       *gh.PullRequest
	commits  []gh.Commit
	files    []gh.ChangedFile
	comments []string
	contents map[string]string

	posted []string
}

func (f *fakeGitHub) GetPullRequest(ctx context.Context, owner, repo string, number int) (*gh.PullRequest, error) {
	return f.pr, nil
}

func (f *fakeGitHub) ListPullRequestCommits(ctx context.Context, owner, repo string, number int) ([]gh.Commit, error) {
	return f.commits, nil
}

func (f *fakeGitHub) ListPullRequestFiles(ctx context.Context, owner, repo string, number int) ([]gh.ChangedFile, error) {
	return f.files, nil
}

func (f *fakeGitHub) ListIssueComments(ctx context.Context, owner, repo string, number int) ([]string, error) {
	return f.comments, nil
}

func (f *fakeGitHub) CreateComment(ctx context.Context, owner, repo string, number int, body string) error {
	f.posted = append(f.posted, body)
	return nil
}

func (f *fakeGitHub) CompareRefs(ctx context.Context, owner, repo, base, head string) ([]gh.ChangedFile, error) {
	return f.files, nil
}

func (f *fakeGitHub) GetFileContent(ctx context.Context, owner, repo, path, ref string) (string, error) {
	content, ok := f.contents[path]
	if !ok {
		return "", fmt.Errorf("no content for %s@%s", path, ref)
	}
	return content, nil
}

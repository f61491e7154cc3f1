package workflow

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"path"
	"strings"

	"go.uber.org/zap"

	"github.com/mhelmih/docureco/pkg/config"
	gh "github.com/mhelmih/docureco/pkg/github"
	"github.com/mhelmih/docureco/pkg/llm"
	"github.com/mhelmih/docureco/pkg/model"
	"github.com/mhelmih/docureco/pkg/scanner"
	"github.com/mhelmih/docureco/pkg/store"
)

// RefComparer is the slice of the GitHub client the updater needs.
type RefComparer interface {
	CompareRefs(ctx context.Context, owner, repo, base, head string) ([]gh.ChangedFile, error)
	GetFileContent(ctx context.Context, owner, repo, path, ref string) (string, error)
}

// BaselineMapUpdater applies the changes between two refs to an existing
// baseline map: changed documents are re-extracted and merged by reference
// id, removed code components and dangling links are dropped, and new code
// files are mapped in.
type BaselineMapUpdater struct {
	store  store.Store
	llm    llm.Client
	github RefComparer
	cfg    *config.Config
	log    *zap.Logger
}

// NewBaselineMapUpdater wires an updater from its dependencies.
func NewBaselineMapUpdater(st store.Store, client llm.Client, comparer RefComparer, cfg *config.Config, log *zap.Logger) *BaselineMapUpdater {
	return &BaselineMapUpdater{store: st, llm: client, github: comparer, cfg: cfg, log: log}
}

type updaterState struct {
	owner      string
	repo       string
	repository string
	branch     string
	baseRef    string
	headRef    string
	runID      string

	baseline *model.BaselineMap

	docChanges  []gh.ChangedFile
	codeChanges []gh.ChangedFile

	stopReason string
}

// Update runs the incremental update workflow. Returns the updated map, or
// nil when there was nothing to do.
func (u *BaselineMapUpdater) Update(ctx context.Context, repository, branch, baseRef, headRef string) (*model.BaselineMap, error) {
	owner, repo, err := gh.SplitRepo(repository)
	if err != nil {
		return nil, err
	}

	baseline, err := u.store.GetBaselineMap(repository, branch)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			u.log.Warn("no baseline map to update, create one first",
				zap.String("repository", repository), zap.String("branch", branch))
			return nil, nil
		}
		return nil, err
	}

	run := &model.WorkflowRun{
		Workflow:   model.WorkflowBaselineUpdate,
		Repository: repository,
		Branch:     branch,
	}
	if err := u.store.CreateWorkflowRun(run); err != nil {
		return nil, err
	}

	state := &updaterState{
		owner:      owner,
		repo:       repo,
		repository: repository,
		branch:     branch,
		baseRef:    baseRef,
		headRef:    headRef,
		runID:      run.ID,
		baseline:   baseline,
	}

	g := NewGraph[*updaterState]().
		AddNode("fetch_changes", u.step("fetch_changes", u.fetchChanges)).
		AddNode("update_documents", u.step("update_documents", u.updateDocuments)).
		AddNode("update_code_components", u.step("update_code_components", u.updateCodeComponents)).
		AddNode("reconcile_links", u.step("reconcile_links", u.reconcileLinks)).
		AddNode("save_baseline_map", u.step("save_baseline_map", u.saveBaselineMap)).
		AddConditionalEdge("fetch_changes", func(s *updaterState) string {
			if len(s.docChanges) == 0 && len(s.codeChanges) == 0 {
				s.stopReason = "no relevant files changed between refs"
				return End
			}
			return "update_documents"
		}).
		AddEdge("update_documents", "update_code_components").
		AddEdge("update_code_components", "reconcile_links").
		AddEdge("reconcile_links", "save_baseline_map").
		SetEntryPoint("fetch_changes")

	state, err = g.Run(ctx, state)
	switch {
	case err != nil:
		_ = u.store.FinishWorkflowRun(run.ID, model.RunFailed, err.Error())
		return nil, err
	case state.stopReason != "":
		u.log.Info("baseline map update skipped", zap.String("reason", state.stopReason))
		_ = u.store.FinishWorkflowRun(run.ID, model.RunSkipped, state.stopReason)
		return nil, nil
	}

	_ = u.store.FinishWorkflowRun(run.ID, model.RunCompleted, "")
	return state.baseline, nil
}

func (u *BaselineMapUpdater) step(name string, fn Node[*updaterState]) Node[*updaterState] {
	return func(ctx context.Context, s *updaterState) (*updaterState, error) {
		_ = u.store.UpdateWorkflowStep(s.runID, name)
		return fn(ctx, s)
	}
}

func (u *BaselineMapUpdater) fetchChanges(ctx context.Context, s *updaterState) (*updaterState, error) {
	files, err := u.github.CompareRefs(ctx, s.owner, s.repo, s.baseRef, s.headRef)
	if err != nil {
		return s, err
	}

	s.docChanges, s.codeChanges = categorizeChanges(files, u.cfg)
	u.log.Info("changes fetched",
		zap.String("base", s.baseRef), zap.String("head", s.headRef),
		zap.Int("doc_changes", len(s.docChanges)),
		zap.Int("code_changes", len(s.codeChanges)),
	)
	return s, nil
}

// updateDocuments re-extracts artifacts from every added or modified SDD/SRS
// file and merges them into the map. Elements are matched by document
// reference id first, then by name, so stable artifacts keep their ids.
func (u *BaselineMapUpdater) updateDocuments(ctx context.Context, s *updaterState) (*updaterState, error) {
	sddPatterns, srsPatterns := u.cfg.SDDPatterns, u.cfg.SRSPatterns

	for _, change := range s.docChanges {
		if change.Status == "removed" {
			continue
		}

		content, err := u.github.GetFileContent(ctx, s.owner, s.repo, change.Filename, s.headRef)
		if err != nil {
			return s, err
		}
		doc := scanner.File{Path: change.Filename, Content: content}

		switch {
		case scanner.Match(change.Filename, sddPatterns):
			if err := u.mergeDesignElements(ctx, s, doc); err != nil {
				return s, err
			}
		case scanner.Match(change.Filename, srsPatterns):
			if err := u.mergeRequirements(ctx, s, doc); err != nil {
				return s, err
			}
		}
	}
	return s, nil
}

func (u *BaselineMapUpdater) mergeDesignElements(ctx context.Context, s *updaterState, doc scanner.File) error {
	prompt, err := renderPrompt(designElementsTmpl, map[string]string{
		"Path": doc.Path, "Content": doc.Content,
	})
	if err != nil {
		return err
	}
	reply, err := u.llm.Complete(ctx, prompt)
	if err != nil {
		return fmt.Errorf("design element extraction for %s: %w", doc.Path, err)
	}

	var out struct {
		Elements []extractedDesignElement `json:"elements"`
	}
	if err := llm.DecodeReply(reply, &out); err != nil {
		return err
	}

	for _, e := range out.Elements {
		if existing := findDesignElement(s.baseline, e.ReferenceID, e.Name); existing != nil {
			existing.Name = e.Name
			existing.Description = e.Description
			existing.Type = e.Type
			existing.Section = e.Section
			if e.ReferenceID != "" {
				existing.ReferenceID = e.ReferenceID
			}
			continue
		}
		s.baseline.DesignElements = append(s.baseline.DesignElements, model.DesignElement{
			ElementID:   nextElementID("DE", designElementIDs(s.baseline)),
			ReferenceID: e.ReferenceID,
			Name:        e.Name,
			Description: e.Description,
			Type:        e.Type,
			Section:     e.Section,
		})
	}
	return nil
}

func (u *BaselineMapUpdater) mergeRequirements(ctx context.Context, s *updaterState, doc scanner.File) error {
	prompt, err := renderPrompt(requirementsTmpl, map[string]string{
		"Path": doc.Path, "Content": doc.Content,
	})
	if err != nil {
		return err
	}
	reply, err := u.llm.Complete(ctx, prompt)
	if err != nil {
		return fmt.Errorf("requirement extraction for %s: %w", doc.Path, err)
	}

	var out struct {
		Requirements []extractedRequirement `json:"requirements"`
	}
	if err := llm.DecodeReply(reply, &out); err != nil {
		return err
	}

	for _, r := range out.Requirements {
		if existing := findRequirement(s.baseline, r.ReferenceID, r.Title); existing != nil {
			existing.Title = r.Title
			existing.Description = r.Description
			existing.Type = r.Type
			existing.Priority = r.Priority
			existing.Section = r.Section
			if r.ReferenceID != "" {
				existing.ReferenceID = r.ReferenceID
			}
			continue
		}
		s.baseline.Requirements = append(s.baseline.Requirements, model.Requirement{
			ElementID:   nextElementID("REQ", requirementIDs(s.baseline)),
			ReferenceID: r.ReferenceID,
			Title:       r.Title,
			Description: r.Description,
			Type:        r.Type,
			Priority:    r.Priority,
			Section:     r.Section,
		})
	}
	return nil
}

// updateCodeComponents drops components for removed files, follows renames,
// and adds components plus design links for new files.
func (u *BaselineMapUpdater) updateCodeComponents(ctx context.Context, s *updaterState) (*updaterState, error) {
	byPath := make(map[string]*model.CodeComponent)
	for i := range s.baseline.CodeComponents {
		byPath[s.baseline.CodeComponents[i].Path] = &s.baseline.CodeComponents[i]
	}

	removed := make(map[string]bool)
	for _, change := range s.codeChanges {
		switch change.Status {
		case "removed":
			if comp := byPath[change.Filename]; comp != nil {
				removed[comp.ElementID] = true
			}
		case "renamed":
			if comp := byPath[change.PreviousFilename]; comp != nil {
				comp.Path = change.Filename
				comp.Name = path.Base(change.Filename)
			}
		}
	}

	// Additions come after renames: appending can reallocate the component
	// slice and would invalidate the byPath pointers above.
	var added []model.CodeComponent
	for _, change := range s.codeChanges {
		if change.Status != "added" || byPath[change.Filename] != nil {
			continue
		}
		comp := model.CodeComponent{
			ElementID: nextElementID("CC", codeComponentIDs(s.baseline, added)),
			Path:      change.Filename,
			Name:      path.Base(change.Filename),
			Type:      "file",
		}
		added = append(added, comp)
		s.baseline.CodeComponents = append(s.baseline.CodeComponents, comp)
	}

	if len(removed) > 0 {
		kept := s.baseline.CodeComponents[:0]
		for _, comp := range s.baseline.CodeComponents {
			if !removed[comp.ElementID] {
				kept = append(kept, comp)
			}
		}
		s.baseline.CodeComponents = kept
		dropLinksTouching(s.baseline, removed)
	}

	if len(added) > 0 {
		if err := u.linkNewComponents(ctx, s, added); err != nil {
			return s, err
		}
	}
	return s, nil
}

// linkNewComponents asks the model which design elements the new files
// implement and appends the resulting links.
func (u *BaselineMapUpdater) linkNewComponents(ctx context.Context, s *updaterState, added []model.CodeComponent) error {
	elems, err := marshalDigest(elementDigest(s.baseline.DesignElements))
	if err != nil {
		return err
	}

	var files []scanner.File
	for _, comp := range added {
		content, err := u.github.GetFileContent(ctx, s.owner, s.repo, comp.Path, s.headRef)
		if err != nil {
			// A file listed as added can vanish again between refs.
			u.log.Warn("skipping unreadable new file", zap.String("path", comp.Path), zap.Error(err))
			continue
		}
		files = append(files, scanner.File{Path: comp.Path, Content: content})
	}

	prompt, err := renderPrompt(designToCodeTmpl, map[string]string{
		"Elements":   elems,
		"Components": componentDigest(added, files),
	})
	if err != nil {
		return err
	}
	reply, err := u.llm.Complete(ctx, prompt)
	if err != nil {
		return fmt.Errorf("design-to-code mapping for new files: %w", err)
	}

	var out struct {
		Links []extractedLink `json:"links"`
	}
	if err := llm.DecodeReply(reply, &out); err != nil {
		return err
	}

	known := knownIDs(s.baseline)
	for _, el := range out.Links {
		sourceID := strings.TrimSpace(el.SourceID)
		targetID := strings.TrimSpace(el.TargetID)
		if !known[sourceID] || !known[targetID] {
			return fmt.Errorf("link references unknown element (%s -> %s)", sourceID, targetID)
		}
		link := model.TraceabilityLink{
			SourceType:       artifactTypeOf(sourceID),
			SourceID:         sourceID,
			TargetType:       artifactTypeOf(targetID),
			TargetID:         targetID,
			RelationshipType: el.RelationshipType,
		}
		if !model.ValidRelationship(link.SourceType, link.TargetType, link.RelationshipType) {
			return fmt.Errorf("relationship %q not allowed between %s and %s",
				link.RelationshipType, link.SourceType, link.TargetType)
		}
		link.LinkID = nextElementID("DC", linkIDs(s.baseline, "DC"))
		s.baseline.Links = append(s.baseline.Links, link)
	}
	return nil
}

// reconcileLinks drops any link whose endpoint no longer exists in the map.
func (u *BaselineMapUpdater) reconcileLinks(ctx context.Context, s *updaterState) (*updaterState, error) {
	known := knownIDs(s.baseline)
	kept := s.baseline.Links[:0]
	dropped := 0
	for _, l := range s.baseline.Links {
		if known[l.SourceID] && known[l.TargetID] {
			kept = append(kept, l)
		} else {
			dropped++
		}
	}
	s.baseline.Links = kept
	if dropped > 0 {
		u.log.Info("dropped dangling links", zap.Int("count", dropped))
	}
	return s, nil
}

func (u *BaselineMapUpdater) saveBaselineMap(ctx context.Context, s *updaterState) (*updaterState, error) {
	if err := u.store.SaveBaselineMap(s.baseline); err != nil {
		return s, fmt.Errorf("failed to save baseline map: %w", err)
	}
	u.log.Info("baseline map updated",
		zap.String("repository", s.repository),
		zap.String("branch", s.branch),
	)
	return s, nil
}

// categorizeChanges splits changed files into documentation and code sets by
// the configured patterns. Renamed docs are matched on their new path.
func categorizeChanges(files []gh.ChangedFile, cfg *config.Config) (docs, code []gh.ChangedFile) {
	for _, f := range files {
		switch {
		case scanner.Match(f.Filename, cfg.SDDPatterns) || scanner.Match(f.Filename, cfg.SRSPatterns):
			docs = append(docs, f)
		case scanner.Match(f.Filename, cfg.CodePatterns):
			code = append(code, f)
		}
	}
	return docs, code
}

func findDesignElement(m *model.BaselineMap, referenceID, name string) *model.DesignElement {
	for i := range m.DesignElements {
		e := &m.DesignElements[i]
		if referenceID != "" && strings.EqualFold(e.ReferenceID, referenceID) {
			return e
		}
		if strings.EqualFold(e.Name, name) {
			return e
		}
	}
	return nil
}

func findRequirement(m *model.BaselineMap, referenceID, title string) *model.Requirement {
	for i := range m.Requirements {
		r := &m.Requirements[i]
		if referenceID != "" && strings.EqualFold(r.ReferenceID, referenceID) {
			return r
		}
		if strings.EqualFold(r.Title, title) {
			return r
		}
	}
	return nil
}

func designElementIDs(m *model.BaselineMap) []string {
	out := make([]string, 0, len(m.DesignElements))
	for _, e := range m.DesignElements {
		out = append(out, e.ElementID)
	}
	return out
}

func requirementIDs(m *model.BaselineMap) []string {
	out := make([]string, 0, len(m.Requirements))
	for _, r := range m.Requirements {
		out = append(out, r.ElementID)
	}
	return out
}

func codeComponentIDs(m *model.BaselineMap, extra []model.CodeComponent) []string {
	out := make([]string, 0, len(m.CodeComponents)+len(extra))
	for _, c := range m.CodeComponents {
		out = append(out, c.ElementID)
	}
	for _, c := range extra {
		out = append(out, c.ElementID)
	}
	return out
}

func linkIDs(m *model.BaselineMap, prefix string) []string {
	var out []string
	for _, l := range m.Links {
		if strings.HasPrefix(l.LinkID, prefix+"-") {
			out = append(out, l.LinkID)
		}
	}
	return out
}

// nextElementID returns the lowest sequential id after the highest existing
// one, so removed ids are never reused.
func nextElementID(prefix string, existing []string) string {
	max := 0
	for _, id := range existing {
		var n int
		if _, err := fmt.Sscanf(id, prefix+"-%d", &n); err == nil && n > max {
			max = n
		}
	}
	return fmt.Sprintf("%s-%03d", prefix, max+1)
}

func knownIDs(m *model.BaselineMap) map[string]bool {
	known := make(map[string]bool)
	for _, r := range m.Requirements {
		known[r.ElementID] = true
	}
	for _, e := range m.DesignElements {
		known[e.ElementID] = true
	}
	for _, c := range m.CodeComponents {
		known[c.ElementID] = true
	}
	return known
}

func dropLinksTouching(m *model.BaselineMap, ids map[string]bool) {
	kept := m.Links[:0]
	for _, l := range m.Links {
		if !ids[l.SourceID] && !ids[l.TargetID] {
			kept = append(kept, l)
		}
	}
	m.Links = kept
}

func marshalDigest(digest []map[string]string) (string, error) {
	b, err := json.Marshal(digest)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

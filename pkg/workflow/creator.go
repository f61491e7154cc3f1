package workflow

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"path"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/mhelmih/docureco/pkg/config"
	"github.com/mhelmih/docureco/pkg/llm"
	"github.com/mhelmih/docureco/pkg/model"
	"github.com/mhelmih/docureco/pkg/scanner"
	"github.com/mhelmih/docureco/pkg/store"
)

// RepoScanner abstracts the repository scan so workflows can be tested
// without a repomix binary.
type RepoScanner interface {
	Scan(ctx context.Context, repository, branch string) ([]scanner.File, error)
}

// BaselineMapCreator builds a baseline traceability map for one
// repository+branch: scan, extract artifacts through the LLM, link them, and
// save the result.
type BaselineMapCreator struct {
	store   store.Store
	llm     llm.Client
	scanner RepoScanner
	cfg     *config.Config
	log     *zap.Logger
}

// NewBaselineMapCreator wires a creator from its dependencies.
func NewBaselineMapCreator(st store.Store, client llm.Client, sc RepoScanner, cfg *config.Config, log *zap.Logger) *BaselineMapCreator {
	return &BaselineMapCreator{store: st, llm: client, scanner: sc, cfg: cfg, log: log}
}

type creatorState struct {
	repository string
	branch     string
	runID      string

	scan scanner.Classification

	elements     []model.DesignElement
	requirements []model.Requirement
	components   []model.CodeComponent
	links        []model.TraceabilityLink

	// matrixLinks holds traceability-matrix rows extracted from the SDD,
	// keyed by document reference ids. They are resolved and validated
	// leniently: unknown ids are dropped with a warning.
	matrixLinks []extractedLink

	// refIndex resolves a reference id or element name to a map-scoped id.
	refIndex map[string]string

	// stopReason is set when a route terminates the run early.
	stopReason string
}

// Create runs the creation workflow. An existing map for the same
// repository+branch is only overwritten when force is set.
func (c *BaselineMapCreator) Create(ctx context.Context, repository, branch string, force bool) (*model.BaselineMap, error) {
	if _, err := c.store.GetBaselineMap(repository, branch); err == nil {
		if !force {
			return nil, fmt.Errorf("%w for %s@%s, use force to recreate", store.ErrMapExists, repository, branch)
		}
	} else if !errors.Is(err, store.ErrNotFound) {
		return nil, err
	}

	run := &model.WorkflowRun{
		Workflow:   model.WorkflowBaselineCreate,
		Repository: repository,
		Branch:     branch,
	}
	if err := c.store.CreateWorkflowRun(run); err != nil {
		return nil, err
	}

	state := &creatorState{
		repository: repository,
		branch:     branch,
		runID:      run.ID,
		refIndex:   make(map[string]string),
	}

	g := NewGraph[*creatorState]().
		AddNode("scan_repository", c.step("scan_repository", c.scanRepository)).
		AddNode("identify_design_elements", c.step("identify_design_elements", c.identifyDesignElements)).
		AddNode("identify_requirements", c.step("identify_requirements", c.identifyRequirements)).
		AddNode("design_to_design_mapping", c.step("design_to_design_mapping", c.designToDesignMapping)).
		AddNode("requirements_to_design_mapping", c.step("requirements_to_design_mapping", c.requirementsToDesignMapping)).
		AddNode("design_to_code_mapping", c.step("design_to_code_mapping", c.designToCodeMapping)).
		AddNode("save_baseline_map", c.step("save_baseline_map", c.saveBaselineMap)).
		AddConditionalEdge("scan_repository", func(s *creatorState) string {
			if len(s.scan.SDD) == 0 && len(s.scan.SRS) == 0 {
				s.stopReason = "no SDD or SRS documents found"
				return End
			}
			return "identify_design_elements"
		}).
		AddConditionalEdge("identify_design_elements", func(s *creatorState) string {
			if len(s.elements) == 0 {
				s.stopReason = "no design elements identified"
				return End
			}
			return "identify_requirements"
		}).
		AddConditionalEdge("identify_requirements", func(s *creatorState) string {
			if len(s.requirements) == 0 {
				s.stopReason = "no requirements identified"
				return End
			}
			return "design_to_design_mapping"
		}).
		AddEdge("design_to_design_mapping", "requirements_to_design_mapping").
		AddEdge("requirements_to_design_mapping", "design_to_code_mapping").
		AddEdge("design_to_code_mapping", "save_baseline_map").
		SetEntryPoint("scan_repository")

	state, err := g.Run(ctx, state)
	switch {
	case err != nil:
		_ = c.store.FinishWorkflowRun(run.ID, model.RunFailed, err.Error())
		return nil, err
	case state.stopReason != "":
		c.log.Warn("baseline map creation stopped early", zap.String("reason", state.stopReason))
		_ = c.store.FinishWorkflowRun(run.ID, model.RunSkipped, state.stopReason)
		return nil, nil
	}

	_ = c.store.FinishWorkflowRun(run.ID, model.RunCompleted, "")
	return c.assemble(state), nil
}

// step wraps a node so the workflow run row tracks the current step.
func (c *BaselineMapCreator) step(name string, fn Node[*creatorState]) Node[*creatorState] {
	return func(ctx context.Context, s *creatorState) (*creatorState, error) {
		_ = c.store.UpdateWorkflowStep(s.runID, name)
		return fn(ctx, s)
	}
}

func (c *BaselineMapCreator) scanRepository(ctx context.Context, s *creatorState) (*creatorState, error) {
	files, err := c.scanner.Scan(ctx, s.repository, s.branch)
	if err != nil {
		return s, fmt.Errorf("failed to scan repository: %w", err)
	}

	s.scan = scanner.Classify(files, c.cfg.SDDPatterns, c.cfg.SRSPatterns, c.cfg.CodePatterns)
	c.log.Info("repository scanned",
		zap.Int("sdd_files", len(s.scan.SDD)),
		zap.Int("srs_files", len(s.scan.SRS)),
		zap.Int("code_files", len(s.scan.Code)),
	)
	return s, nil
}

func (c *BaselineMapCreator) identifyDesignElements(ctx context.Context, s *creatorState) (*creatorState, error) {
	type sddResult struct {
		Elements    []extractedDesignElement `json:"elements"`
		MatrixLinks []extractedLink          `json:"matrix_links"`
	}

	results := make([]sddResult, len(s.scan.SDD))
	eg, ctx := errgroup.WithContext(ctx)
	eg.SetLimit(c.cfg.MaxConcurrentOperations)
	for i, doc := range s.scan.SDD {
		eg.Go(func() error {
			prompt, err := renderPrompt(designElementsTmpl, map[string]string{
				"Path": doc.Path, "Content": doc.Content,
			})
			if err != nil {
				return err
			}
			reply, err := c.llm.Complete(ctx, prompt)
			if err != nil {
				return fmt.Errorf("design element extraction for %s: %w", doc.Path, err)
			}
			return llm.DecodeReply(reply, &results[i])
		})
	}
	if err := eg.Wait(); err != nil {
		return s, err
	}

	for _, r := range results {
		for _, e := range r.Elements {
			id := fmt.Sprintf("DE-%03d", len(s.elements)+1)
			s.elements = append(s.elements, model.DesignElement{
				ElementID:   id,
				ReferenceID: e.ReferenceID,
				Name:        e.Name,
				Description: e.Description,
				Type:        e.Type,
				Section:     e.Section,
			})
			s.index(id, e.ReferenceID, e.Name)
		}
		s.matrixLinks = append(s.matrixLinks, r.MatrixLinks...)
	}

	c.log.Info("design elements identified", zap.Int("count", len(s.elements)))
	return s, nil
}

func (c *BaselineMapCreator) identifyRequirements(ctx context.Context, s *creatorState) (*creatorState, error) {
	known, err := json.Marshal(elementDigest(s.elements))
	if err != nil {
		return s, err
	}

	type srsResult struct {
		Requirements []extractedRequirement `json:"requirements"`
	}

	results := make([]srsResult, len(s.scan.SRS))
	eg, ctx := errgroup.WithContext(ctx)
	eg.SetLimit(c.cfg.MaxConcurrentOperations)
	for i, doc := range s.scan.SRS {
		eg.Go(func() error {
			prompt, err := renderPrompt(requirementsTmpl, map[string]string{
				"Path": doc.Path, "Content": doc.Content, "KnownElements": string(known),
			})
			if err != nil {
				return err
			}
			reply, err := c.llm.Complete(ctx, prompt)
			if err != nil {
				return fmt.Errorf("requirement extraction for %s: %w", doc.Path, err)
			}
			return llm.DecodeReply(reply, &results[i])
		})
	}
	if err := eg.Wait(); err != nil {
		return s, err
	}

	for _, r := range results {
		for _, req := range r.Requirements {
			id := fmt.Sprintf("REQ-%03d", len(s.requirements)+1)
			s.requirements = append(s.requirements, model.Requirement{
				ElementID:   id,
				ReferenceID: req.ReferenceID,
				Title:       req.Title,
				Description: req.Description,
				Type:        req.Type,
				Priority:    req.Priority,
				Section:     req.Section,
			})
			s.index(id, req.ReferenceID, req.Title)
		}
	}

	c.log.Info("requirements identified", zap.Int("count", len(s.requirements)))
	return s, nil
}

func (c *BaselineMapCreator) designToDesignMapping(ctx context.Context, s *creatorState) (*creatorState, error) {
	// Matrix rows come from the document itself and may reference ids the
	// extraction never produced; they are dropped with a warning rather than
	// failing the run.
	for _, ml := range s.matrixLinks {
		link, ok := s.resolveLink(ml)
		if !ok || !model.ValidRelationship(link.SourceType, link.TargetType, link.RelationshipType) {
			c.log.Warn("dropping unresolvable traceability matrix row",
				zap.String("source", ml.SourceID),
				zap.String("target", ml.TargetID),
				zap.String("relationship", ml.RelationshipType),
			)
			continue
		}
		s.appendLink(link)
	}

	elems, err := json.Marshal(elementDigest(s.elements))
	if err != nil {
		return s, err
	}
	prompt, err := renderPrompt(designToDesignTmpl, map[string]string{"Elements": string(elems)})
	if err != nil {
		return s, err
	}
	reply, err := c.llm.Complete(ctx, prompt)
	if err != nil {
		return s, fmt.Errorf("design-to-design mapping: %w", err)
	}

	links, err := c.decodeLinks(s, reply, model.ArtifactDesignElement, model.ArtifactDesignElement)
	if err != nil {
		return s, fmt.Errorf("design-to-design mapping: %w", err)
	}
	for _, l := range links {
		s.appendLink(l)
	}
	return s, nil
}

func (c *BaselineMapCreator) requirementsToDesignMapping(ctx context.Context, s *creatorState) (*creatorState, error) {
	reqs, err := json.Marshal(requirementDigest(s.requirements))
	if err != nil {
		return s, err
	}
	elems, err := json.Marshal(elementDigest(s.elements))
	if err != nil {
		return s, err
	}
	prompt, err := renderPrompt(reqToDesignTmpl, map[string]string{
		"Requirements": string(reqs), "Elements": string(elems),
	})
	if err != nil {
		return s, err
	}
	reply, err := c.llm.Complete(ctx, prompt)
	if err != nil {
		return s, fmt.Errorf("requirements-to-design mapping: %w", err)
	}

	links, err := c.decodeLinks(s, reply, model.ArtifactRequirement, model.ArtifactDesignElement)
	if err != nil {
		return s, fmt.Errorf("requirements-to-design mapping: %w", err)
	}
	for _, l := range links {
		s.appendLink(l)
	}
	return s, nil
}

func (c *BaselineMapCreator) designToCodeMapping(ctx context.Context, s *creatorState) (*creatorState, error) {
	for _, f := range s.scan.Code {
		id := fmt.Sprintf("CC-%03d", len(s.components)+1)
		s.components = append(s.components, model.CodeComponent{
			ElementID: id,
			Path:      f.Path,
			Name:      path.Base(f.Path),
			Type:      "file",
		})
		s.index(id, "", f.Path)
	}
	if len(s.components) == 0 {
		return s, nil
	}

	elems, err := json.Marshal(elementDigest(s.elements))
	if err != nil {
		return s, err
	}
	prompt, err := renderPrompt(designToCodeTmpl, map[string]string{
		"Elements":   string(elems),
		"Components": componentDigest(s.components, s.scan.Code),
	})
	if err != nil {
		return s, err
	}
	reply, err := c.llm.Complete(ctx, prompt)
	if err != nil {
		return s, fmt.Errorf("design-to-code mapping: %w", err)
	}

	links, err := c.decodeLinks(s, reply, model.ArtifactDesignElement, model.ArtifactCodeComponent)
	if err != nil {
		return s, fmt.Errorf("design-to-code mapping: %w", err)
	}
	for _, l := range links {
		s.appendLink(l)
	}
	return s, nil
}

func (c *BaselineMapCreator) saveBaselineMap(ctx context.Context, s *creatorState) (*creatorState, error) {
	m := c.assemble(s)
	if err := c.store.SaveBaselineMap(m); err != nil {
		return s, fmt.Errorf("failed to save baseline map: %w", err)
	}
	c.log.Info("baseline map saved",
		zap.String("repository", s.repository),
		zap.String("branch", s.branch),
		zap.Int("requirements", len(m.Requirements)),
		zap.Int("design_elements", len(m.DesignElements)),
		zap.Int("code_components", len(m.CodeComponents)),
		zap.Int("links", len(m.Links)),
	)
	return s, nil
}

func (c *BaselineMapCreator) assemble(s *creatorState) *model.BaselineMap {
	return &model.BaselineMap{
		Repository:     s.repository,
		Branch:         s.branch,
		Requirements:   s.requirements,
		DesignElements: s.elements,
		CodeComponents: s.components,
		Links:          s.links,
	}
}

// decodeLinks parses a link-generation reply and resolves its endpoints.
// Unlike matrix rows, generated links reference ids the model was handed, so
// an unresolvable or mistyped link is an error.
func (c *BaselineMapCreator) decodeLinks(s *creatorState, reply, wantSource, wantTarget string) ([]model.TraceabilityLink, error) {
	var out struct {
		Links []extractedLink `json:"links"`
	}
	if err := llm.DecodeReply(reply, &out); err != nil {
		return nil, err
	}

	links := make([]model.TraceabilityLink, 0, len(out.Links))
	for _, el := range out.Links {
		link, ok := s.resolveLink(el)
		if !ok {
			return nil, fmt.Errorf("link references unknown element (%s -> %s)", el.SourceID, el.TargetID)
		}
		if link.SourceType != wantSource || link.TargetType != wantTarget {
			return nil, fmt.Errorf("link %s -> %s has wrong endpoint types (%s -> %s)",
				el.SourceID, el.TargetID, link.SourceType, link.TargetType)
		}
		if !model.ValidRelationship(link.SourceType, link.TargetType, link.RelationshipType) {
			return nil, fmt.Errorf("relationship %q not allowed between %s and %s",
				link.RelationshipType, link.SourceType, link.TargetType)
		}
		links = append(links, link)
	}
	return links, nil
}

// resolveLink maps an extracted link onto map-scoped ids and endpoint types.
func (s *creatorState) resolveLink(el extractedLink) (model.TraceabilityLink, bool) {
	sourceID, ok := s.lookup(el.SourceID)
	if !ok {
		return model.TraceabilityLink{}, false
	}
	targetID, ok := s.lookup(el.TargetID)
	if !ok {
		return model.TraceabilityLink{}, false
	}
	return model.TraceabilityLink{
		SourceType:       artifactTypeOf(sourceID),
		SourceID:         sourceID,
		TargetType:       artifactTypeOf(targetID),
		TargetID:         targetID,
		RelationshipType: el.RelationshipType,
	}, true
}

// appendLink assigns the link id from the endpoint types: DD, RD, or DC.
func (s *creatorState) appendLink(link model.TraceabilityLink) {
	prefix := "DD"
	switch {
	case link.SourceType == model.ArtifactRequirement:
		prefix = "RD"
	case link.TargetType == model.ArtifactCodeComponent:
		prefix = "DC"
	}
	n := 0
	for _, l := range s.links {
		if strings.HasPrefix(l.LinkID, prefix+"-") {
			n++
		}
	}
	link.LinkID = fmt.Sprintf("%s-%03d", prefix, n+1)
	s.links = append(s.links, link)
}

// index registers the lookup keys for an element: its own id, the document's
// reference id, and its name, case-insensitively.
func (s *creatorState) index(id string, keys ...string) {
	s.refIndex[strings.ToLower(id)] = id
	for _, k := range keys {
		if k != "" {
			s.refIndex[strings.ToLower(k)] = id
		}
	}
}

func (s *creatorState) lookup(key string) (string, bool) {
	id, ok := s.refIndex[strings.ToLower(strings.TrimSpace(key))]
	return id, ok
}

func artifactTypeOf(elementID string) string {
	switch {
	case strings.HasPrefix(elementID, "REQ-"):
		return model.ArtifactRequirement
	case strings.HasPrefix(elementID, "CC-"):
		return model.ArtifactCodeComponent
	default:
		return model.ArtifactDesignElement
	}
}

func elementDigest(elements []model.DesignElement) []map[string]string {
	out := make([]map[string]string, 0, len(elements))
	for _, e := range elements {
		out = append(out, map[string]string{
			"id": e.ElementID, "name": e.Name, "type": e.Type, "description": e.Description,
		})
	}
	return out
}

func requirementDigest(reqs []model.Requirement) []map[string]string {
	out := make([]map[string]string, 0, len(reqs))
	for _, r := range reqs {
		out = append(out, map[string]string{
			"id": r.ElementID, "title": r.Title, "description": r.Description,
		})
	}
	return out
}

// componentDigest lists components with a short content preview per file.
func componentDigest(components []model.CodeComponent, files []scanner.File) string {
	contents := make(map[string]string, len(files))
	for _, f := range files {
		contents[f.Path] = f.Content
	}

	var sb strings.Builder
	for _, comp := range components {
		sb.WriteString(fmt.Sprintf("%s %s\n", comp.ElementID, comp.Path))
		if preview := contentPreview(contents[comp.Path]); preview != "" {
			sb.WriteString(preview + "\n")
		}
	}
	return sb.String()
}

const previewLimit = 1200

func contentPreview(content string) string {
	if content == "" {
		return ""
	}
	if len(content) > previewLimit {
		content = content[:previewLimit]
	}
	return "```\n" + content + "\n```"
}

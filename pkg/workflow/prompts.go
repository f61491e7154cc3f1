package workflow

import (
	"bytes"
	"text/template"
)

func renderPrompt(t *template.Template, data interface{}) (string, error) {
	var buf bytes.Buffer
	if err := t.Execute(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}

var (
	designElementsTmpl = template.Must(template.New("design_elements").Parse(designElementsPrompt))
	requirementsTmpl   = template.Must(template.New("requirements").Parse(requirementsPrompt))
	designToDesignTmpl = template.Must(template.New("design_to_design").Parse(designToDesignPrompt))
	reqToDesignTmpl    = template.Must(template.New("req_to_design").Parse(reqToDesignPrompt))
	designToCodeTmpl   = template.Must(template.New("design_to_code").Parse(designToCodePrompt))
	classifyTmpl       = template.Must(template.New("classify").Parse(classifyChangesPrompt))
	impactTmpl         = template.Must(template.New("impact").Parse(impactPrompt))
	recommendTmpl      = template.Must(template.New("recommend").Parse(recommendPrompt))
)

const designElementsPrompt = `You are analyzing a Software Design Document (SDD) to extract design elements for a traceability map.

Document path: {{.Path}}

Document content:
"""
{{.Content}}
"""

Extract every design element: classes, components, modules, services, interfaces, data stores, and UI elements. For each element capture:
- reference_id: the identifier the document itself uses (e.g. "DD-12"), or "" if none
- name: the element's name
- description: one or two sentences describing it
- type: one of class, component, module, service, interface, datastore, ui
- section: the document section heading the element appears under

If the document contains a traceability matrix, also extract its rows as links between reference ids with their stated relationship.

Respond with JSON only:
{"elements": [{"reference_id": "", "name": "", "description": "", "type": "", "section": ""}],
 "matrix_links": [{"source_id": "", "target_id": "", "relationship_type": ""}]}`

const requirementsPrompt = `You are analyzing a Software Requirements Specification (SRS) to extract requirements for a traceability map.

Document path: {{.Path}}

Document content:
"""
{{.Content}}
"""
{{if .KnownElements}}
Design elements already identified in this repository (for context, do not re-list them):
{{.KnownElements}}
{{end}}
Extract every requirement. For each capture:
- reference_id: the identifier the document itself uses (e.g. "F-REQ-12"), or "" if none
- title: a short name for the requirement
- description: the requirement text
- type: functional or non-functional
- priority: high, medium, or low (infer from wording if unstated)
- section: the document section heading the requirement appears under

Respond with JSON only:
{"requirements": [{"reference_id": "", "title": "", "description": "", "type": "", "priority": "", "section": ""}]}`

const designToDesignPrompt = `You are mapping relationships between design elements of one system.

Design elements (id, name, type, description):
{{.Elements}}

Identify relationships between these elements. Allowed relationship types:
- refines: source is a more detailed elaboration of target
- realizes: source concretely implements the concept of target
- depends_on: source requires target to function

Use only the element ids listed above. Respond with JSON only:
{"links": [{"source_id": "", "target_id": "", "relationship_type": ""}]}`

const reqToDesignPrompt = `You are mapping requirements to the design elements that address them.

Requirements (id, title, description):
{{.Requirements}}

Design elements (id, name, type, description):
{{.Elements}}

For each requirement that a design element addresses, produce a link from the requirement to the element. Allowed relationship types:
- satisfies: the element fulfills the requirement
- realizes: the element is the concrete realization of the requirement

Use only the ids listed above. Respond with JSON only:
{"links": [{"source_id": "", "target_id": "", "relationship_type": ""}]}`

const designToCodePrompt = `You are mapping design elements to the source files that implement them.

Design elements (id, name, type, description):
{{.Elements}}

Source files (id, path) with content previews:
{{.Components}}

For each design element implemented by a file, produce a link from the element to the file. Allowed relationship types:
- implements: the file contains the element's implementation
- realizes: the file is the concrete realization of the element

Use only the ids listed above. Respond with JSON only:
{"links": [{"source_id": "", "target_id": "", "relationship_type": ""}]}`

const classifyChangesPrompt = `You are analyzing the code changes of a pull request to prepare a documentation-impact assessment.

Pull request: {{.Title}}
{{.Body}}

Commits:
{{.Commits}}

Changed files with patches:
{{.Files}}

First classify each changed file:
- change_type: addition, deletion, modification, or rename
- scope: the functional area the change touches
- nature: behavioral (changes what the code does) or structural (refactor, rename, formatting)
- volume: trivial, small, medium, or large

Then group related files into logical change sets, each with a name, a one-sentence description, and its file list.

Respond with JSON only:
{"classifications": [{"file": "", "change_type": "", "scope": "", "nature": "", "volume": ""}],
 "change_sets": [{"name": "", "description": "", "files": []}]}`

const impactPrompt = `You are assessing how a pull request's code changes affect existing documentation, using a traceability map.

Logical change sets:
{{.ChangeSets}}

Documentation elements reachable from the changed files through the traceability map (id, type, name/title, section, hops from change):
{{.AffectedElements}}

For each change set, assign a traceability status:
- modification: changed code is mapped and docs describe the old behavior
- outdated: docs already lag the code regardless of this change
- rename: code moved or was renamed, references need updating
- gap: changed code has no mapped documentation at all
- anomaly: the map itself looks inconsistent here

Then, for each affected documentation element, rate the likelihood that it must be updated (Very Likely, Likely, Possibly, Unlikely) and the severity of the mismatch if it is not (Fundamental, Major, Moderate, Minor, None), with a one-sentence reason.

Respond with JSON only:
{"statuses": [{"name": "", "traceability_status": ""}],
 "findings": [{"change_set": "", "element_id": "", "element_type": "", "section": "", "likelihood": "", "severity": "", "reason": ""}]}`

const recommendPrompt = `You are writing documentation-update recommendations for a pull request.

High-priority impact findings:
{{.Findings}}

Current content of the affected documentation sections:
{{.DocContext}}

For each finding produce one recommendation in the 4W form:
- what_to_update: the artifact or statement that must change
- where_to_update: the document and section to change it in
- why_update_needed: the mismatch this PR introduces
- how_to_update: concrete instructions for the edit
- suggested_content: replacement text when you can write it, else ""

Also set target_document (path), section, recommendation_type (update, addition, deletion, or rename), priority (high, medium, low), affected_element_id, affected_element_type, and confidence (0.0 to 1.0).

Respond with JSON only:
{"recommendations": [{"target_document": "", "section": "", "recommendation_type": "", "priority": "", "what_to_update": "", "where_to_update": "", "why_update_needed": "", "how_to_update": "", "suggested_content": "", "affected_element_id": "", "affected_element_type": "", "confidence": 0.0}]}`

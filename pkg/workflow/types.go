package workflow

// extractedDesignElement is the shape the model returns for one SDD element.
// Map-scoped ids are assigned by the workflow, not the model.
type extractedDesignElement struct {
	ReferenceID string `json:"reference_id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Type        string `json:"type"`
	Section     string `json:"section"`
}

// extractedRequirement is the shape the model returns for one SRS requirement.
type extractedRequirement struct {
	ReferenceID string `json:"reference_id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Type        string `json:"type"`
	Priority    string `json:"priority"`
	Section     string `json:"section"`
}

// extractedLink is one relationship returned by the model. Endpoints are
// element names or reference ids; the workflow resolves them to map-scoped
// ids and validates the relationship type.
type extractedLink struct {
	SourceID         string `json:"source_id"`
	TargetID         string `json:"target_id"`
	RelationshipType string `json:"relationship_type"`
}

// changeClassification describes one changed file as classified by the model.
type changeClassification struct {
	File       string `json:"file"`
	ChangeType string `json:"change_type"`
	Scope      string `json:"scope"`
	Nature     string `json:"nature"`
	Volume     string `json:"volume"`
}

// changeSet groups related file changes into one logical change.
type changeSet struct {
	Name               string   `json:"name"`
	Description        string   `json:"description"`
	Files              []string `json:"files"`
	TraceabilityStatus string   `json:"traceability_status"`
}

// impactFinding is one documentation-impact assessment for a change set.
type impactFinding struct {
	ChangeSet   string `json:"change_set"`
	ElementID   string `json:"element_id"`
	ElementType string `json:"element_type"`
	Section     string `json:"section"`
	Likelihood  string `json:"likelihood"`
	Severity    string `json:"severity"`
	Reason      string `json:"reason"`
}

// recommendationOut is the 4W recommendation shape the model returns.
type recommendationOut struct {
	TargetDocument      string  `json:"target_document"`
	Section             string  `json:"section"`
	RecommendationType  string  `json:"recommendation_type"`
	Priority            string  `json:"priority"`
	WhatToUpdate        string  `json:"what_to_update"`
	WhereToUpdate       string  `json:"where_to_update"`
	WhyUpdateNeeded     string  `json:"why_update_needed"`
	HowToUpdate         string  `json:"how_to_update"`
	SuggestedContent    string  `json:"suggested_content"`
	AffectedElementID   string  `json:"affected_element_id"`
	AffectedElementType string  `json:"affected_element_type"`
	Confidence          float64 `json:"confidence"`
}

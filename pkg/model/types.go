package model

// Artifact types used in traceability link endpoints.
const (
	ArtifactRequirement   = "Requirement"
	ArtifactDesignElement = "DesignElement"
	ArtifactCodeComponent = "CodeComponent"
)

// Relationship types, by endpoint pair.
const (
	RelRefines    = "refines"
	RelRealizes   = "realizes"
	RelDependsOn  = "depends_on"
	RelSatisfies  = "satisfies"
	RelImplements = "implements"
)

// allowedRelationships maps a (source type, target type) pair to the
// relationship types permitted between them.
var allowedRelationships = map[[2]string]map[string]bool{
	{ArtifactDesignElement, ArtifactDesignElement}: {
		RelRefines: true, RelRealizes: true, RelDependsOn: true,
	},
	{ArtifactRequirement, ArtifactDesignElement}: {
		RelSatisfies: true, RelRealizes: true,
	},
	{ArtifactDesignElement, ArtifactCodeComponent}: {
		RelImplements: true, RelRealizes: true,
	},
}

// ValidRelationship reports whether relType is permitted between the given
// source and target artifact types.
func ValidRelationship(sourceType, targetType, relType string) bool {
	return allowedRelationships[[2]string{sourceType, targetType}][relType]
}

// Workflow run statuses.
const (
	RunRunning   = "running"
	RunCompleted = "completed"
	RunFailed    = "failed"
	RunSkipped   = "skipped"
)

// Workflow names recorded on workflow_runs rows.
const (
	WorkflowBaselineCreate = "baseline_create"
	WorkflowBaselineUpdate = "baseline_update"
	WorkflowRecommend      = "recommend"
)

// Recommendation statuses.
const (
	RecommendationPending  = "pending"
	RecommendationPosted   = "posted"
	RecommendationAccepted = "accepted"
	RecommendationRejected = "rejected"
)

// Traceability statuses assigned to a change set during impact assessment.
const (
	TraceModification = "modification"
	TraceOutdated     = "outdated"
	TraceRename       = "rename"
	TraceGap          = "gap"
	TraceAnomaly      = "anomaly"
)

// Likelihood scale for documentation-impact findings, highest first.
var Likelihoods = []string{"Very Likely", "Likely", "Possibly", "Unlikely"}

// Severity scale for documentation-impact findings, highest first.
var Severities = []string{"Fundamental", "Major", "Moderate", "Minor", "None"}

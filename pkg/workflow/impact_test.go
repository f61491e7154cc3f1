package workflow

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mhelmih/docureco/pkg/model"
)

// map layout: REQ-001 -satisfies-> DE-001 -implements-> CC-001 (auth.go)
//             DE-002 -depends_on-> DE-001
//             DE-003 -implements-> CC-002 (util.go), otherwise isolated
func impactTestMap() *model.BaselineMap {
	return &model.BaselineMap{
		ID: "map-1",
		Requirements: []model.Requirement{
			{ElementID: "REQ-001", Title: "Login", Section: "2.1"},
		},
		DesignElements: []model.DesignElement{
			{ElementID: "DE-001", Name: "AuthService", Section: "3.1"},
			{ElementID: "DE-002", Name: "SessionStore", Section: "3.2"},
			{ElementID: "DE-003", Name: "PathUtils", Section: "3.9"},
		},
		CodeComponents: []model.CodeComponent{
			{ElementID: "CC-001", Path: "internal/auth/service.go"},
			{ElementID: "CC-002", Path: "internal/util/path.go"},
		},
		Links: []model.TraceabilityLink{
			{LinkID: "RD-001", SourceType: model.ArtifactRequirement, SourceID: "REQ-001",
				TargetType: model.ArtifactDesignElement, TargetID: "DE-001", RelationshipType: model.RelSatisfies},
			{LinkID: "DD-001", SourceType: model.ArtifactDesignElement, SourceID: "DE-002",
				TargetType: model.ArtifactDesignElement, TargetID: "DE-001", RelationshipType: model.RelDependsOn},
			{LinkID: "DC-001", SourceType: model.ArtifactDesignElement, SourceID: "DE-001",
				TargetType: model.ArtifactCodeComponent, TargetID: "CC-001", RelationshipType: model.RelImplements},
			{LinkID: "DC-002", SourceType: model.ArtifactDesignElement, SourceID: "DE-003",
				TargetType: model.ArtifactCodeComponent, TargetID: "CC-002", RelationshipType: model.RelImplements},
		},
	}
}

func impactByID(impacts []Impact) map[string]Impact {
	out := make(map[string]Impact, len(impacts))
	for _, i := range impacts {
		out[i.ElementID] = i
	}
	return out
}

func TestTraceImpactDirectAndTwoHop(t *testing.T) {
	impacts := TraceImpact(impactTestMap(), []string{"internal/auth/service.go"})
	require.Len(t, impacts, 3)

	byID := impactByID(impacts)
	assert.Equal(t, 1, byID["DE-001"].Hops)
	assert.Equal(t, model.ArtifactDesignElement, byID["DE-001"].ElementType)
	assert.Equal(t, 2, byID["REQ-001"].Hops)
	assert.Equal(t, "Login", byID["REQ-001"].Name)
	assert.Equal(t, 2, byID["DE-002"].Hops)

	// PathUtils is not reachable from the auth change.
	assert.NotContains(t, byID, "DE-003")
}

func TestTraceImpactShortestDistanceWins(t *testing.T) {
	m := impactTestMap()
	// Touch both components: DE-001 is direct from auth.go even though it is
	// also two hops from util.go via nothing; DE-003 is direct from util.go.
	impacts := TraceImpact(m, []string{"internal/auth/service.go", "internal/util/path.go"})

	byID := impactByID(impacts)
	assert.Equal(t, 1, byID["DE-001"].Hops)
	assert.Equal(t, 1, byID["DE-003"].Hops)
}

func TestTraceImpactNoMatchingComponents(t *testing.T) {
	assert.Empty(t, TraceImpact(impactTestMap(), []string{"README.md"}))
	assert.Empty(t, TraceImpact(impactTestMap(), nil))
}

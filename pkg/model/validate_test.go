package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func testMap(links ...TraceabilityLink) *BaselineMap {
	return &BaselineMap{
		ID:         "map-1",
		Repository: "octocat/hello",
		Branch:     "main",
		Requirements: []Requirement{
			{ElementID: "REQ-001", Title: "Login"},
		},
		DesignElements: []DesignElement{
			{ElementID: "DE-001", Name: "AuthService"},
			{ElementID: "DE-002", Name: "SessionStore"},
		},
		CodeComponents: []CodeComponent{
			{ElementID: "CC-001", Path: "internal/auth/service.go"},
		},
		Links: links,
	}
}

func TestBaselineMapValidate(t *testing.T) {
	testCases := []struct {
		name    string
		link    TraceabilityLink
		wantErr string
	}{
		{
			name: "valid requirement to design link",
			link: TraceabilityLink{
				LinkID:     "RD-001",
				SourceType: ArtifactRequirement, SourceID: "REQ-001",
				TargetType: ArtifactDesignElement, TargetID: "DE-001",
				RelationshipType: RelSatisfies,
			},
		},
		{
			name: "valid design to design link",
			link: TraceabilityLink{
				LinkID:     "DD-001",
				SourceType: ArtifactDesignElement, SourceID: "DE-001",
				TargetType: ArtifactDesignElement, TargetID: "DE-002",
				RelationshipType: RelDependsOn,
			},
		},
		{
			name: "valid design to code link",
			link: TraceabilityLink{
				LinkID:     "DC-001",
				SourceType: ArtifactDesignElement, SourceID: "DE-001",
				TargetType: ArtifactCodeComponent, TargetID: "CC-001",
				RelationshipType: RelImplements,
			},
		},
		{
			name: "unknown source element",
			link: TraceabilityLink{
				LinkID:     "DD-002",
				SourceType: ArtifactDesignElement, SourceID: "DE-999",
				TargetType: ArtifactDesignElement, TargetID: "DE-001",
				RelationshipType: RelRefines,
			},
			wantErr: "unknown source element",
		},
		{
			name: "unknown target element",
			link: TraceabilityLink{
				LinkID:     "DC-002",
				SourceType: ArtifactDesignElement, SourceID: "DE-001",
				TargetType: ArtifactCodeComponent, TargetID: "CC-404",
				RelationshipType: RelImplements,
			},
			wantErr: "unknown target element",
		},
		{
			name: "endpoint type mismatch",
			link: TraceabilityLink{
				LinkID:     "RD-002",
				SourceType: ArtifactDesignElement, SourceID: "REQ-001",
				TargetType: ArtifactDesignElement, TargetID: "DE-001",
				RelationshipType: RelRealizes,
			},
			wantErr: "endpoint type mismatch",
		},
		{
			name: "relationship not allowed for pair",
			link: TraceabilityLink{
				LinkID:     "RD-003",
				SourceType: ArtifactRequirement, SourceID: "REQ-001",
				TargetType: ArtifactDesignElement, TargetID: "DE-001",
				RelationshipType: RelImplements,
			},
			wantErr: "not allowed",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			err := testMap(tc.link).Validate()
			if tc.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			assert.ErrorContains(t, err, tc.wantErr)
		})
	}
}

func TestValidRelationship(t *testing.T) {
	assert.True(t, ValidRelationship(ArtifactDesignElement, ArtifactDesignElement, RelRefines))
	assert.True(t, ValidRelationship(ArtifactRequirement, ArtifactDesignElement, RelRealizes))
	assert.False(t, ValidRelationship(ArtifactRequirement, ArtifactCodeComponent, RelRealizes))
	assert.False(t, ValidRelationship(ArtifactDesignElement, ArtifactCodeComponent, RelRefines))
}

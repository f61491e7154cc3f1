package model

import "fmt"

// Validate checks the internal consistency of a baseline map: every link must
// use a permitted relationship type and both endpoints must resolve to an
// artifact present in the same map.
func (m *BaselineMap) Validate() error {
	ids := map[string]string{}
	for _, r := range m.Requirements {
		ids[r.ElementID] = ArtifactRequirement
	}
	for _, d := range m.DesignElements {
		ids[d.ElementID] = ArtifactDesignElement
	}
	for _, c := range m.CodeComponents {
		ids[c.ElementID] = ArtifactCodeComponent
	}

	for _, l := range m.Links {
		srcType, ok := ids[l.SourceID]
		if !ok {
			return fmt.Errorf("link %s: unknown source element %q", l.LinkID, l.SourceID)
		}
		tgtType, ok := ids[l.TargetID]
		if !ok {
			return fmt.Errorf("link %s: unknown target element %q", l.LinkID, l.TargetID)
		}
		if srcType != l.SourceType || tgtType != l.TargetType {
			return fmt.Errorf("link %s: endpoint type mismatch (%s/%s vs %s/%s)",
				l.LinkID, l.SourceType, l.TargetType, srcType, tgtType)
		}
		if !ValidRelationship(l.SourceType, l.TargetType, l.RelationshipType) {
			return fmt.Errorf("link %s: relationship %q not allowed between %s and %s",
				l.LinkID, l.RelationshipType, l.SourceType, l.TargetType)
		}
	}
	return nil
}

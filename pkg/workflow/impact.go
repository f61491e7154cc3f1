package workflow

import "github.com/mhelmih/docureco/pkg/model"

// Impact is one documentation artifact reachable from a changed code
// component through the traceability map.
type Impact struct {
	ElementID   string
	ElementType string
	Name        string
	Section     string
	// Hops is 1 for elements directly linked to a changed component and 2
	// for elements one link further out.
	Hops int
}

// TraceImpact walks the map outward from the code components matching the
// changed paths: first to the design elements linked to them, then one more
// hop to the requirements and design elements linked to those. Each element
// is reported once, at its shortest distance.
func TraceImpact(m *model.BaselineMap, changedPaths []string) []Impact {
	changed := make(map[string]bool, len(changedPaths))
	for _, p := range changedPaths {
		changed[p] = true
	}

	var componentIDs []string
	for _, c := range m.CodeComponents {
		if changed[c.Path] {
			componentIDs = append(componentIDs, c.ElementID)
		}
	}
	if len(componentIDs) == 0 {
		return nil
	}

	// neighbors maps an element id to every id it shares a link with,
	// direction ignored.
	neighbors := make(map[string][]string)
	for _, l := range m.Links {
		neighbors[l.SourceID] = append(neighbors[l.SourceID], l.TargetID)
		neighbors[l.TargetID] = append(neighbors[l.TargetID], l.SourceID)
	}

	requirements := make(map[string]*model.Requirement, len(m.Requirements))
	for i := range m.Requirements {
		requirements[m.Requirements[i].ElementID] = &m.Requirements[i]
	}
	elements := make(map[string]*model.DesignElement, len(m.DesignElements))
	for i := range m.DesignElements {
		elements[m.DesignElements[i].ElementID] = &m.DesignElements[i]
	}

	seen := make(map[string]bool)
	var impacts []Impact
	record := func(id string, hops int) {
		if seen[id] {
			return
		}
		switch {
		case elements[id] != nil:
			e := elements[id]
			impacts = append(impacts, Impact{
				ElementID:   id,
				ElementType: model.ArtifactDesignElement,
				Name:        e.Name,
				Section:     e.Section,
				Hops:        hops,
			})
		case requirements[id] != nil:
			r := requirements[id]
			impacts = append(impacts, Impact{
				ElementID:   id,
				ElementType: model.ArtifactRequirement,
				Name:        r.Title,
				Section:     r.Section,
				Hops:        hops,
			})
		default:
			// Code components are the starting points, not impacts.
			return
		}
		seen[id] = true
	}

	var direct []string
	for _, cc := range componentIDs {
		for _, id := range neighbors[cc] {
			record(id, 1)
			direct = append(direct, id)
		}
	}
	for _, id := range direct {
		for _, next := range neighbors[id] {
			record(next, 2)
		}
	}
	return impacts
}

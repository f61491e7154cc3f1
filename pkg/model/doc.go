// Package model defines the database models for Docureco.
//
// This package contains GORM models that map to the traceability schema.
// A baseline map is the root record for a repository+branch pair; all
// extracted artifacts and the links between them hang off it.
//
// # Core Models
//
//   - BaselineMap: root record for a repository/branch traceability snapshot
//   - Requirement: SRS requirement extracted from documentation
//   - DesignElement: SDD design element (class, component, UI, ...)
//   - CodeComponent: source file or code-level component
//   - TraceabilityLink: typed link between any two artifacts
//   - Recommendation: 4W documentation-update recommendation for a PR
//   - WorkflowRun: bookkeeping for a single workflow execution
//
// # Database Schema
//
// The database uses PostgreSQL with the following key tables:
//
//   - baseline_maps: one row per repository/branch
//   - requirements, design_elements, code_components: child artifacts
//   - traceability_links: typed relationships between artifacts
//   - recommendations: generated documentation suggestions
//   - workflow_runs: workflow execution status
package model

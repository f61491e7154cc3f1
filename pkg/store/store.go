package store

import (
	"errors"
	"time"

	"github.com/mhelmih/docureco/pkg/model"
)

// ErrNotFound is returned when a requested record does not exist.
var ErrNotFound = errors.New("not found")

// ErrMapExists is returned when saving a new baseline map over an existing
// one without forcing.
var ErrMapExists = errors.New("baseline map already exists")

// Stats summarizes a baseline map without loading its artifacts.
type Stats struct {
	Repository     string    `json:"repository"`
	Branch         string    `json:"branch"`
	Requirements   int64     `json:"requirements"`
	DesignElements int64     `json:"design_elements"`
	CodeComponents int64     `json:"code_components"`
	Links          int64     `json:"traceability_links"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// Store abstracts the storage operations for traceability maps,
// recommendations, and workflow runs. This allows the workflows and the API
// server to work with different backends (e.g., database, mock for testing).
type Store interface {
	// Transaction wraps operations in a database transaction.
	// The provided function receives a transactional Store.
	// If the function returns an error, the transaction is rolled back.
	Transaction(fn func(Store) error) error

	// GetBaselineMap retrieves the full baseline map for a repository+branch,
	// including all artifacts and links. Returns ErrNotFound if none exists.
	GetBaselineMap(repository, branch string) (*model.BaselineMap, error)

	// SaveBaselineMap persists a baseline map atomically: the parent row is
	// upserted and all child rows are replaced in a single transaction.
	// The map is validated before any write.
	SaveBaselineMap(m *model.BaselineMap) error

	// DeleteBaselineMap removes a baseline map and, via cascade, its children.
	DeleteBaselineMap(repository, branch string) error

	// BaselineMapStats returns per-artifact counts for a baseline map.
	BaselineMapStats(repository, branch string) (*Stats, error)

	// UpsertTraceabilityLink inserts a link unless an identical
	// source/target/relationship tuple already exists in the map.
	UpsertTraceabilityLink(mapID string, link model.TraceabilityLink) error

	// CreateRecommendations persists a batch of recommendations.
	CreateRecommendations(recs []model.Recommendation) error

	// ListRecommendations returns stored recommendations for a repository+PR,
	// newest first.
	ListRecommendations(repository string, prNumber int) ([]model.Recommendation, error)

	// UpdateRecommendationStatus sets the status of a single recommendation.
	UpdateRecommendationStatus(id, status string) error

	// CreateWorkflowRun records the start of a workflow execution.
	CreateWorkflowRun(run *model.WorkflowRun) error

	// UpdateWorkflowStep records the step a running workflow has reached.
	UpdateWorkflowStep(runID, step string) error

	// FinishWorkflowRun marks a run completed, failed, or skipped.
	FinishWorkflowRun(runID, status, errMsg string) error
}

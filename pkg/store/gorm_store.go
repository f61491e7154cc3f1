package store

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/mhelmih/docureco/pkg/model"
)

// Ensure GormStore implements Store
var _ Store = (*GormStore)(nil)

// GormStore implements Store using GORM for database operations.
type GormStore struct {
	db *gorm.DB
}

// NewGormStore creates a new GormStore.
func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

// Transaction wraps operations in a database transaction.
func (s *GormStore) Transaction(fn func(Store) error) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		return fn(&GormStore{db: tx})
	})
}

// GetBaselineMap retrieves the full baseline map for a repository+branch.
func (s *GormStore) GetBaselineMap(repository, branch string) (*model.BaselineMap, error) {
	var m model.BaselineMap
	err := s.db.Where("repository = ? AND branch = ?", repository, branch).First(&m).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("baseline map for %s@%s: %w", repository, branch, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get baseline map: %w", err)
	}

	if err := s.db.Where("baseline_map_id = ?", m.ID).Order("element_id").Find(&m.Requirements).Error; err != nil {
		return nil, fmt.Errorf("failed to load requirements: %w", err)
	}
	if err := s.db.Where("baseline_map_id = ?", m.ID).Order("element_id").Find(&m.DesignElements).Error; err != nil {
		return nil, fmt.Errorf("failed to load design elements: %w", err)
	}
	if err := s.db.Where("baseline_map_id = ?", m.ID).Order("element_id").Find(&m.CodeComponents).Error; err != nil {
		return nil, fmt.Errorf("failed to load code components: %w", err)
	}
	if err := s.db.Where("baseline_map_id = ?", m.ID).Order("link_id").Find(&m.Links).Error; err != nil {
		return nil, fmt.Errorf("failed to load traceability links: %w", err)
	}
	return &m, nil
}

// SaveBaselineMap persists a baseline map atomically. Child rows are replaced
// wholesale; a failed save rolls everything back.
func (s *GormStore) SaveBaselineMap(m *model.BaselineMap) error {
	if err := m.Validate(); err != nil {
		return fmt.Errorf("invalid baseline map: %w", err)
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		// Reuse the id of an existing row for the same repository+branch so
		// incremental updates keep a stable map id.
		var existing model.BaselineMap
		err := tx.Where("repository = ? AND branch = ?", m.Repository, m.Branch).First(&existing).Error
		switch {
		case err == nil:
			m.ID = existing.ID
			m.CreatedAt = existing.CreatedAt
			if err := tx.Model(&model.BaselineMap{}).Where("id = ?", m.ID).
				Update("updated_at", time.Now()).Error; err != nil {
				return fmt.Errorf("failed to touch baseline map: %w", err)
			}
		case errors.Is(err, gorm.ErrRecordNotFound):
			if m.ID == "" {
				m.ID = uuid.NewString()
			}
			if err := tx.Create(&model.BaselineMap{
				ID:         m.ID,
				Repository: m.Repository,
				Branch:     m.Branch,
			}).Error; err != nil {
				return fmt.Errorf("failed to create baseline map: %w", err)
			}
		default:
			return fmt.Errorf("failed to look up baseline map: %w", err)
		}

		for _, child := range []interface{}{
			&model.TraceabilityLink{}, &model.Requirement{},
			&model.DesignElement{}, &model.CodeComponent{},
		} {
			if err := tx.Where("baseline_map_id = ?", m.ID).Delete(child).Error; err != nil {
				return fmt.Errorf("failed to clear existing rows: %w", err)
			}
		}

		for i := range m.Requirements {
			m.Requirements[i].BaselineMapID = m.ID
		}
		for i := range m.DesignElements {
			m.DesignElements[i].BaselineMapID = m.ID
		}
		for i := range m.CodeComponents {
			m.CodeComponents[i].BaselineMapID = m.ID
		}
		for i := range m.Links {
			m.Links[i].BaselineMapID = m.ID
		}

		if len(m.Requirements) > 0 {
			if err := tx.CreateInBatches(m.Requirements, 200).Error; err != nil {
				return fmt.Errorf("failed to insert requirements: %w", err)
			}
		}
		if len(m.DesignElements) > 0 {
			if err := tx.CreateInBatches(m.DesignElements, 200).Error; err != nil {
				return fmt.Errorf("failed to insert design elements: %w", err)
			}
		}
		if len(m.CodeComponents) > 0 {
			if err := tx.CreateInBatches(m.CodeComponents, 200).Error; err != nil {
				return fmt.Errorf("failed to insert code components: %w", err)
			}
		}
		if len(m.Links) > 0 {
			if err := tx.CreateInBatches(m.Links, 200).Error; err != nil {
				return fmt.Errorf("failed to insert traceability links: %w", err)
			}
		}
		return nil
	})
}

// DeleteBaselineMap removes a baseline map; child rows go with it via cascade.
func (s *GormStore) DeleteBaselineMap(repository, branch string) error {
	result := s.db.Where("repository = ? AND branch = ?", repository, branch).
		Delete(&model.BaselineMap{})
	if result.Error != nil {
		return fmt.Errorf("failed to delete baseline map: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("baseline map for %s@%s: %w", repository, branch, ErrNotFound)
	}
	return nil
}

// BaselineMapStats returns per-artifact counts for a baseline map.
func (s *GormStore) BaselineMapStats(repository, branch string) (*Stats, error) {
	var m model.BaselineMap
	err := s.db.Where("repository = ? AND branch = ?", repository, branch).First(&m).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("baseline map for %s@%s: %w", repository, branch, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get baseline map: %w", err)
	}

	stats := &Stats{Repository: m.Repository, Branch: m.Branch, UpdatedAt: m.UpdatedAt}
	counts := []struct {
		child interface{}
		dest  *int64
	}{
		{&model.Requirement{}, &stats.Requirements},
		{&model.DesignElement{}, &stats.DesignElements},
		{&model.CodeComponent{}, &stats.CodeComponents},
		{&model.TraceabilityLink{}, &stats.Links},
	}
	for _, c := range counts {
		if err := s.db.Model(c.child).Where("baseline_map_id = ?", m.ID).Count(c.dest).Error; err != nil {
			return nil, fmt.Errorf("failed to count artifacts: %w", err)
		}
	}
	return stats, nil
}

// UpsertTraceabilityLink inserts a link unless the same tuple already exists.
func (s *GormStore) UpsertTraceabilityLink(mapID string, link model.TraceabilityLink) error {
	link.BaselineMapID = mapID
	return s.db.Clauses(clause.OnConflict{
		Columns: []clause.Column{
			{Name: "baseline_map_id"}, {Name: "source_type"}, {Name: "source_id"},
			{Name: "target_type"}, {Name: "target_id"}, {Name: "relationship_type"},
		},
		DoNothing: true,
	}).Create(&link).Error
}

// CreateRecommendations persists a batch of recommendations.
func (s *GormStore) CreateRecommendations(recs []model.Recommendation) error {
	if len(recs) == 0 {
		return nil
	}
	for i := range recs {
		if recs[i].ID == "" {
			recs[i].ID = uuid.NewString()
		}
		if recs[i].Status == "" {
			recs[i].Status = model.RecommendationPending
		}
	}
	if err := s.db.CreateInBatches(recs, 100).Error; err != nil {
		return fmt.Errorf("failed to create recommendations: %w", err)
	}
	return nil
}

// ListRecommendations returns stored recommendations for a repository+PR.
func (s *GormStore) ListRecommendations(repository string, prNumber int) ([]model.Recommendation, error) {
	var recs []model.Recommendation
	err := s.db.Where("repository = ? AND pr_number = ?", repository, prNumber).
		Order("created_at DESC").Find(&recs).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list recommendations: %w", err)
	}
	return recs, nil
}

// UpdateRecommendationStatus sets the status of a single recommendation.
func (s *GormStore) UpdateRecommendationStatus(id, status string) error {
	result := s.db.Model(&model.Recommendation{}).Where("id = ?", id).
		Update("status", status)
	if result.Error != nil {
		return fmt.Errorf("failed to update recommendation: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("recommendation %s: %w", id, ErrNotFound)
	}
	return nil
}

// CreateWorkflowRun records the start of a workflow execution.
func (s *GormStore) CreateWorkflowRun(run *model.WorkflowRun) error {
	if run.ID == "" {
		run.ID = uuid.NewString()
	}
	if run.Status == "" {
		run.Status = model.RunRunning
	}
	if err := s.db.Create(run).Error; err != nil {
		return fmt.Errorf("failed to create workflow run: %w", err)
	}
	return nil
}

// UpdateWorkflowStep records the step a running workflow has reached.
func (s *GormStore) UpdateWorkflowStep(runID, step string) error {
	return s.db.Model(&model.WorkflowRun{}).Where("id = ?", runID).
		Update("current_step", step).Error
}

// FinishWorkflowRun marks a run completed, failed, or skipped.
func (s *GormStore) FinishWorkflowRun(runID, status, errMsg string) error {
	now := time.Now()
	return s.db.Model(&model.WorkflowRun{}).Where("id = ?", runID).
		Updates(map[string]interface{}{
			"status":       status,
			"error":        errMsg,
			"completed_at": &now,
		}).Error
}

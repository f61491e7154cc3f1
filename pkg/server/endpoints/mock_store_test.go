package endpoints

import (
	"github.com/mhelmih/docureco/pkg/model"
	"github.com/mhelmih/docureco/pkg/store"
)

// mockStore returns canned values for the read-only endpoints.
type mockStore struct {
	m     *model.BaselineMap
	stats *store.Stats
	recs  []model.Recommendation
	err   error
}

func (s *mockStore) Transaction(fn func(store.Store) error) error { return fn(s) }

func (s *mockStore) GetBaselineMap(repository, branch string) (*model.BaselineMap, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.m, nil
}

func (s *mockStore) SaveBaselineMap(m *model.BaselineMap) error { return nil }

func (s *mockStore) DeleteBaselineMap(repository, branch string) error { return nil }

func (s *mockStore) BaselineMapStats(repository, branch string) (*store.Stats, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.stats, nil
}

func (s *mockStore) UpsertTraceabilityLink(mapID string, link model.TraceabilityLink) error {
	return nil
}

func (s *mockStore) CreateRecommendations(recs []model.Recommendation) error { return nil }

func (s *mockStore) ListRecommendations(repository string, prNumber int) ([]model.Recommendation, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.recs, nil
}

func (s *mockStore) UpdateRecommendationStatus(id, status string) error { return nil }

func (s *mockStore) CreateWorkflowRun(run *model.WorkflowRun) error { return nil }

func (s *mockStore) UpdateWorkflowStep(runID, step string) error { return nil }

func (s *mockStore) FinishWorkflowRun(runID, status, errMsg string) error { return nil }

var _ store.Store = (*mockStore)(nil)

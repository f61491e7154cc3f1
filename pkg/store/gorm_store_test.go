package store

import (
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/mhelmih/docureco/pkg/model"
)

func newMockStore(t *testing.T) (*GormStore, sqlmock.Sqlmock) {
	t.Helper()

	conn, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })

	gdb, err := gorm.Open(
		postgres.New(postgres.Config{Conn: conn, PreferSimpleProtocol: true}),
		&gorm.Config{
			SkipDefaultTransaction: true,
			Logger:                 logger.Default.LogMode(logger.Silent),
		},
	)
	require.NoError(t, err)

	return NewGormStore(gdb), mock
}

func TestGetBaselineMapNotFound(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectQuery(`SELECT (.+) FROM "baseline_maps"`).
		WithArgs("octocat/hello", "main").
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, err := s.GetBaselineMap("octocat/hello", "main")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetBaselineMapLoadsChildren(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectQuery(`SELECT (.+) FROM "baseline_maps"`).
		WithArgs("octocat/hello", "main").
		WillReturnRows(sqlmock.NewRows([]string{"id", "repository", "branch"}).
			AddRow("map-1", "octocat/hello", "main"))
	mock.ExpectQuery(`SELECT (.+) FROM "requirements"`).
		WithArgs("map-1").
		WillReturnRows(sqlmock.NewRows([]string{"baseline_map_id", "element_id", "title"}).
			AddRow("map-1", "REQ-001", "Login"))
	mock.ExpectQuery(`SELECT (.+) FROM "design_elements"`).
		WithArgs("map-1").
		WillReturnRows(sqlmock.NewRows([]string{"baseline_map_id", "element_id", "name"}).
			AddRow("map-1", "DE-001", "AuthService").
			AddRow("map-1", "DE-002", "SessionStore"))
	mock.ExpectQuery(`SELECT (.+) FROM "code_components"`).
		WithArgs("map-1").
		WillReturnRows(sqlmock.NewRows([]string{"baseline_map_id", "element_id", "path"}))
	mock.ExpectQuery(`SELECT (.+) FROM "traceability_links"`).
		WithArgs("map-1").
		WillReturnRows(sqlmock.NewRows([]string{"baseline_map_id", "link_id", "source_id", "target_id"}).
			AddRow("map-1", "RD-001", "REQ-001", "DE-001"))

	m, err := s.GetBaselineMap("octocat/hello", "main")
	require.NoError(t, err)

	assert.Equal(t, "map-1", m.ID)
	assert.Len(t, m.Requirements, 1)
	assert.Len(t, m.DesignElements, 2)
	assert.Empty(t, m.CodeComponents)
	assert.Len(t, m.Links, 1)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSaveBaselineMapReplacesChildren(t *testing.T) {
	s, mock := newMockStore(t)

	m := &model.BaselineMap{
		Repository: "octocat/hello",
		Branch:     "main",
		Requirements: []model.Requirement{
			{ElementID: "REQ-001", Title: "Login"},
		},
		DesignElements: []model.DesignElement{
			{ElementID: "DE-001", Name: "AuthService"},
		},
		Links: []model.TraceabilityLink{
			{
				LinkID:     "RD-001",
				SourceType: model.ArtifactRequirement, SourceID: "REQ-001",
				TargetType: model.ArtifactDesignElement, TargetID: "DE-001",
				RelationshipType: model.RelSatisfies,
			},
		},
	}

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT (.+) FROM "baseline_maps"`).
		WithArgs("octocat/hello", "main").
		WillReturnRows(sqlmock.NewRows([]string{"id"}))
	mock.ExpectExec(`INSERT INTO "baseline_maps"`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`DELETE FROM "traceability_links"`).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(`DELETE FROM "requirements"`).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(`DELETE FROM "design_elements"`).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(`DELETE FROM "code_components"`).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(`INSERT INTO "requirements"`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`INSERT INTO "design_elements"`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`INSERT INTO "traceability_links"`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	require.NoError(t, s.SaveBaselineMap(m))

	assert.NotEmpty(t, m.ID)
	assert.Equal(t, m.ID, m.Requirements[0].BaselineMapID)
	assert.Equal(t, m.ID, m.Links[0].BaselineMapID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSaveBaselineMapRejectsInvalid(t *testing.T) {
	s, mock := newMockStore(t)

	m := &model.BaselineMap{
		Repository: "octocat/hello",
		Branch:     "main",
		Links: []model.TraceabilityLink{
			{
				LinkID:     "DD-001",
				SourceType: model.ArtifactDesignElement, SourceID: "DE-404",
				TargetType: model.ArtifactDesignElement, TargetID: "DE-405",
				RelationshipType: model.RelRefines,
			},
		},
	}

	// No SQL is expected: validation fails before any write.
	err := s.SaveBaselineMap(m)
	assert.ErrorContains(t, err, "invalid baseline map")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDeleteBaselineMap(t *testing.T) {
	testCases := []struct {
		name         string
		rowsAffected int64
		wantErr      error
	}{
		{name: "deletes existing map", rowsAffected: 1},
		{name: "missing map returns not found", rowsAffected: 0, wantErr: ErrNotFound},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			s, mock := newMockStore(t)

			mock.ExpectExec(`DELETE FROM "baseline_maps"`).
				WithArgs("octocat/hello", "main").
				WillReturnResult(sqlmock.NewResult(0, tc.rowsAffected))

			err := s.DeleteBaselineMap("octocat/hello", "main")
			if tc.wantErr != nil {
				assert.ErrorIs(t, err, tc.wantErr)
			} else {
				assert.NoError(t, err)
			}
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestUpdateRecommendationStatus(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectExec(`UPDATE "recommendations"`).
		WillReturnResult(sqlmock.NewResult(0, 1))

	assert.NoError(t, s.UpdateRecommendationStatus("rec-1", model.RecommendationPosted))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListRecommendations(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectQuery(`SELECT (.+) FROM "recommendations"`).
		WithArgs("octocat/hello", 42).
		WillReturnRows(sqlmock.NewRows([]string{"id", "repository", "pr_number", "target_document"}).
			AddRow("rec-1", "octocat/hello", 42, "docs/sdd.md").
			AddRow("rec-2", "octocat/hello", 42, "docs/srs.md"))

	recs, err := s.ListRecommendations("octocat/hello", 42)
	require.NoError(t, err)
	assert.Len(t, recs, 2)
	assert.Equal(t, "docs/sdd.md", recs[0].TargetDocument)
	assert.NoError(t, mock.ExpectationsWereMet())
}

package integration

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/mhelmih/docureco/pkg/db"
	"github.com/mhelmih/docureco/pkg/model"
	"github.com/mhelmih/docureco/pkg/store"
)

// startPostgres runs a disposable Postgres container and applies the real
// migrations against it.
func startPostgres(ctx context.Context, t *testing.T) string {
	t.Helper()

	pgContainer, err := tcpostgres.Run(ctx,
		"postgres:16-alpine",
		tcpostgres.WithDatabase("docureco_test"),
		tcpostgres.WithUsername("docureco"),
		tcpostgres.WithPassword("docureco"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second),
		),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = pgContainer.Terminate(ctx) })

	host, err := pgContainer.Host(ctx)
	require.NoError(t, err)
	port, err := pgContainer.MappedPort(ctx, "5432")
	require.NoError(t, err)
	connStr := fmt.Sprintf("postgres://docureco:docureco@%s:%s/docureco_test?sslmode=disable", host, port.Port())

	migrationsDir, err := filepath.Abs(filepath.Join("..", "..", "db", "migrations"))
	require.NoError(t, err)

	m, err := migrate.New("file://"+migrationsDir, connStr)
	require.NoError(t, err)
	require.NoError(t, m.Up())
	_, _ = m.Close()

	return connStr
}

func integrationMap() *model.BaselineMap {
	return &model.BaselineMap{
		Repository: "acme/shop",
		Branch:     "main",
		Requirements: []model.Requirement{
			{ElementID: "REQ-001", ReferenceID: "F-01", Title: "Login", Type: "functional", Priority: "high"},
		},
		DesignElements: []model.DesignElement{
			{ElementID: "DE-001", ReferenceID: "DD-01", Name: "AuthService", Type: "service"},
		},
		CodeComponents: []model.CodeComponent{
			{ElementID: "CC-001", Path: "internal/auth/service.go", Name: "service.go", Type: "file"},
		},
		Links: []model.TraceabilityLink{
			{LinkID: "RD-001", SourceType: model.ArtifactRequirement, SourceID: "REQ-001",
				TargetType: model.ArtifactDesignElement, TargetID: "DE-001", RelationshipType: model.RelSatisfies},
			{LinkID: "DC-001", SourceType: model.ArtifactDesignElement, SourceID: "DE-001",
				TargetType: model.ArtifactCodeComponent, TargetID: "CC-001", RelationshipType: model.RelImplements},
		},
	}
}

func TestGormStoreRoundTrip(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	if os.Getenv("INTEGRATION_TEST") == "" {
		t.Skip("Skipping integration tests. Set INTEGRATION_TEST=1 to run.")
	}

	ctx := context.Background()
	connStr := startPostgres(ctx, t)

	database, err := db.Connect(db.Config{URL: connStr})
	require.NoError(t, err)
	st := store.NewGormStore(database)

	// Save and load the full graph.
	require.NoError(t, st.SaveBaselineMap(integrationMap()))

	loaded, err := st.GetBaselineMap("acme/shop", "main")
	require.NoError(t, err)
	assert.NotEmpty(t, loaded.ID)
	require.Len(t, loaded.Requirements, 1)
	assert.Equal(t, "Login", loaded.Requirements[0].Title)
	require.Len(t, loaded.DesignElements, 1)
	require.Len(t, loaded.CodeComponents, 1)
	require.Len(t, loaded.Links, 2)

	// Saving again replaces the children and keeps the map id.
	second := integrationMap()
	second.DesignElements = append(second.DesignElements, model.DesignElement{
		ElementID: "DE-002", Name: "SessionStore", Type: "datastore",
	})
	require.NoError(t, st.SaveBaselineMap(second))

	reloaded, err := st.GetBaselineMap("acme/shop", "main")
	require.NoError(t, err)
	assert.Equal(t, loaded.ID, reloaded.ID)
	assert.Len(t, reloaded.DesignElements, 2)

	stats, err := st.BaselineMapStats("acme/shop", "main")
	require.NoError(t, err)
	assert.Equal(t, int64(2), stats.DesignElements)
	assert.Equal(t, int64(2), stats.Links)

	// Recommendations and workflow runs.
	recs := []model.Recommendation{{
		Repository:     "acme/shop",
		PRNumber:       42,
		TargetDocument: "docs/sdd.md",
		Section:        "3.1",
		Priority:       "high",
		WhatToUpdate:   "AuthService token lifecycle",
	}}
	require.NoError(t, st.CreateRecommendations(recs))

	listed, err := st.ListRecommendations("acme/shop", 42)
	require.NoError(t, err)
	require.Len(t, listed, 1)
	assert.Equal(t, model.RecommendationPending, listed[0].Status)
	require.NoError(t, st.UpdateRecommendationStatus(listed[0].ID, model.RecommendationPosted))

	run := &model.WorkflowRun{Workflow: model.WorkflowBaselineCreate, Repository: "acme/shop", Branch: "main"}
	require.NoError(t, st.CreateWorkflowRun(run))
	require.NoError(t, st.UpdateWorkflowStep(run.ID, "scan_repository"))
	require.NoError(t, st.FinishWorkflowRun(run.ID, model.RunCompleted, ""))

	// Delete cascades to children.
	require.NoError(t, st.DeleteBaselineMap("acme/shop", "main"))
	_, err = st.GetBaselineMap("acme/shop", "main")
	assert.ErrorIs(t, err, store.ErrNotFound)
}

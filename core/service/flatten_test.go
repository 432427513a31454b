package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"terminus/core/models"
)

func deploymentTree(deployments ...models.Deployment) models.WorkspaceData {
	return models.WorkspaceData{
		Me: models.Me{
			Workspaces: []models.Workspace{
				{
					ID: "ws-1",
					Projects: conn(
						models.Project{
							ID: "proj-1",
							Services: conn(
								models.Service{ID: "svc-1", Deployments: conn(deployments...)},
							),
						},
					),
				},
			},
		},
	}
}

func TestBuildDeploymentIndexKeepsLatest(t *testing.T) {
	tree := deploymentTree(
		models.Deployment{ID: "old", ServiceID: "svc-1", EnvironmentID: "env-1", Status: "SUCCESS", CreatedAt: "2024-03-01T10:00:00Z"},
		models.Deployment{ID: "new", ServiceID: "svc-1", EnvironmentID: "env-1", Status: "FAILED", CreatedAt: "2024-03-02T10:00:00Z"},
	)

	index := BuildDeploymentIndex(tree)
	require.Len(t, index, 1)
	assert.Equal(t, "new", index["svc-1-env-1"].ID)
}

func TestBuildDeploymentIndexLatestWinsRegardlessOfOrder(t *testing.T) {
	tree := deploymentTree(
		models.Deployment{ID: "new", ServiceID: "svc-1", EnvironmentID: "env-1", CreatedAt: "2024-03-02T10:00:00Z"},
		models.Deployment{ID: "old", ServiceID: "svc-1", EnvironmentID: "env-1", CreatedAt: "2024-03-01T10:00:00Z"},
	)

	index := BuildDeploymentIndex(tree)
	assert.Equal(t, "new", index["svc-1-env-1"].ID)
}

func TestBuildDeploymentIndexFallsBackToOwningService(t *testing.T) {
	// No direct serviceId on the record; the owning service supplies it.
	tree := deploymentTree(
		models.Deployment{ID: "dep-1", Environment: &models.EntityRef{ID: "env-1"}, CreatedAt: "2024-03-01T10:00:00Z"},
	)

	index := BuildDeploymentIndex(tree)
	require.Contains(t, index, "svc-1-env-1")
}

func TestFlattenServicesJoinsEnvironments(t *testing.T) {
	tree := workspaceTree()
	index := map[string]models.Deployment{
		"svc-1-env-1": {Status: "SUCCESS", CreatedAt: "2024-03-01T10:00:00Z"},
		"svc-1-env-2": {Status: "BUILDING", CreatedAt: "2024-03-01T11:00:00Z"},
	}

	rows := FlattenServices(tree, index)

	// svc-1 gets one row per deployed environment; svc-2 and svc-3 get
	// placeholder rows.
	require.Len(t, rows, 4)
	assert.Equal(t, "env-1", rows[0].EnvironmentID)
	assert.Equal(t, "SUCCESS", rows[0].Deployment.Status)
	assert.Equal(t, "env-2", rows[1].EnvironmentID)
	assert.Equal(t, "BUILDING", rows[1].Deployment.Status)

	assert.Equal(t, "svc-2", rows[2].ServiceID)
	assert.Nil(t, rows[2].Deployment)
	assert.Equal(t, "svc-3", rows[3].ServiceID)
	assert.Nil(t, rows[3].Deployment)
}

func TestFlattenServicesNormalizesUnknownStatus(t *testing.T) {
	tree := workspaceTree()
	index := map[string]models.Deployment{
		"svc-1-env-1": {Status: "EXPLODED", CreatedAt: "2024-03-01T10:00:00Z"},
	}

	rows := FlattenServices(tree, index)
	require.NotEmpty(t, rows)
	assert.Equal(t, models.StatusUnknown, rows[0].Deployment.Status)
}

func TestFlattenVolumesDenormalizesNames(t *testing.T) {
	rows := FlattenVolumes(volumeTree())

	require.Len(t, rows, 3)
	assert.Equal(t, "Acme", rows[0].WorkspaceName)
	assert.Equal(t, "store", rows[0].ProjectName)
	// vi-1 has no nested service reference.
	assert.Equal(t, UnknownServiceName, rows[0].ServiceName)
	// vi-2 carries nested relations.
	assert.Equal(t, "worker", rows[1].ServiceName)
	assert.Equal(t, "staging", rows[1].EnvironmentName)
}

func TestFlattenEventsSortsNewestFirst(t *testing.T) {
	entries := []models.EnvironmentLog{
		{Timestamp: "2024-03-01T10:00:00Z", Message: "first"},
		{Timestamp: "2024-03-01T12:00:00Z", Message: "third"},
		{Timestamp: "2024-03-01T11:00:00Z", Message: "second"},
	}

	rows := FlattenEvents(entries, nil)

	require.Len(t, rows, 3)
	assert.Equal(t, "third", rows[0].Message)
	assert.Equal(t, "second", rows[1].Message)
	assert.Equal(t, "first", rows[2].Message)
}

func TestFlattenEventsUnparseableTimestampsSortLast(t *testing.T) {
	entries := []models.EnvironmentLog{
		{Timestamp: "not-a-time", Message: "bad"},
		{Timestamp: "2024-03-01T10:00:00Z", Message: "good"},
	}

	rows := FlattenEvents(entries, nil)
	require.Len(t, rows, 2)
	assert.Equal(t, "good", rows[0].Message)
	assert.Equal(t, "bad", rows[1].Message)
}

func TestFlattenEventsAppliesExtractor(t *testing.T) {
	entries := []models.EnvironmentLog{
		{Timestamp: "2024-03-01T10:00:00Z", Message: "[deploy] rolled out v2"},
	}

	rows := FlattenEvents(entries, func(string) string { return "deploy" })
	require.Len(t, rows, 1)
	assert.Equal(t, "deploy", rows[0].Action)
}

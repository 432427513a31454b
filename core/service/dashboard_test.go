package service

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"terminus/core/models"
)

type stubClient struct {
	workspaces  models.WorkspaceData
	deployments models.WorkspaceData
	volumes     models.WorkspaceData
	logs        models.EnvironmentLogData
	fail        map[string]error
}

func (s *stubClient) err(query string) error {
	if s.fail == nil {
		return nil
	}
	return s.fail[query]
}

func (s *stubClient) Workspaces(context.Context) (models.WorkspaceData, error) {
	return s.workspaces, s.err(QueryWorkspaces)
}

func (s *stubClient) Deployments(context.Context) (models.WorkspaceData, error) {
	return s.deployments, s.err(QueryDeployments)
}

func (s *stubClient) Volumes(context.Context) (models.WorkspaceData, error) {
	return s.volumes, s.err(QueryVolumes)
}

func (s *stubClient) EnvironmentLogs(context.Context, string, string, int) (models.EnvironmentLogData, error) {
	return s.logs, s.err(QueryEnvironmentLogs)
}

func TestBuildSnapshotSuccess(t *testing.T) {
	client := &stubClient{
		workspaces:  workspaceTree(),
		deployments: deploymentTree(models.Deployment{ID: "dep-1", ServiceID: "svc-1", EnvironmentID: "env-1", Status: "SUCCESS", CreatedAt: "2024-03-01T10:00:00Z"}),
		volumes:     volumeTree(),
		logs: models.EnvironmentLogData{EnvironmentLogs: []models.EnvironmentLog{
			{Timestamp: "2024-03-01T10:00:00Z", Message: "[deploy] done", Severity: "INFO"},
		}},
	}
	svc := NewDashboardService(client, NewActionExtractor(ExtractorConfig{Pattern: `^\[([^\]]+)\]`}), "", 50)

	snapshot := svc.Build(context.Background(), models.Filter{}, "env-1", NewRecorder(50))

	require.True(t, snapshot.Success)
	require.NotNil(t, snapshot.Data)
	assert.Nil(t, snapshot.Error)
	assert.Empty(t, snapshot.Data.QueryInfo.Errors)
	assert.NotEmpty(t, snapshot.Data.Services)
	assert.NotEmpty(t, snapshot.Data.Volumes)
	require.Len(t, snapshot.Data.Events, 1)
	assert.Equal(t, "deploy", snapshot.Data.Events[0].Action)
}

func TestBuildSnapshotQueryFailureIsRecovered(t *testing.T) {
	client := &stubClient{
		workspaces: workspaceTree(),
		fail: map[string]error{
			QueryDeployments: errors.New("rate limited"),
		},
	}
	svc := NewDashboardService(client, nil, "", 50)
	rec := NewRecorder(50)

	snapshot := svc.Build(context.Background(), models.Filter{}, "", rec)

	// Per-query failures never fail the whole request.
	require.True(t, snapshot.Success)
	require.NotNil(t, snapshot.Data)
	require.Len(t, snapshot.Data.QueryInfo.Errors, 1)
	assert.Equal(t, QueryDeployments, snapshot.Data.QueryInfo.Errors[0].Query)
	assert.Contains(t, snapshot.Data.QueryInfo.Errors[0].Message, "rate limited")

	// Services from the surviving workspaces query are still present, as
	// placeholder rows.
	assert.NotEmpty(t, snapshot.Data.Services)
	for _, row := range snapshot.Data.Services {
		assert.Nil(t, row.Deployment)
	}

	assert.Contains(t, fmt.Sprint(rec.Lines()), "deployments")
}

func TestBuildSnapshotAllQueriesFail(t *testing.T) {
	client := &stubClient{
		fail: map[string]error{
			QueryWorkspaces:      errors.New("down"),
			QueryDeployments:     errors.New("down"),
			QueryVolumes:         errors.New("down"),
			QueryEnvironmentLogs: errors.New("down"),
		},
	}
	svc := NewDashboardService(client, nil, "", 50)

	snapshot := svc.Build(context.Background(), models.Filter{}, "env-1", NewRecorder(50))

	require.True(t, snapshot.Success)
	assert.Len(t, snapshot.Data.QueryInfo.Errors, 4)
	assert.Empty(t, snapshot.Data.Services)
	assert.Empty(t, snapshot.Data.Volumes)
	assert.Empty(t, snapshot.Data.Events)
}

func TestBuildSnapshotWithoutClientFails(t *testing.T) {
	svc := NewDashboardService(nil, nil, "", 50)

	snapshot := svc.Build(context.Background(), models.Filter{}, "", NewRecorder(50))

	require.False(t, snapshot.Success)
	assert.Nil(t, snapshot.Data)
	require.NotNil(t, snapshot.Error)
	assert.Equal(t, "ConfigError", snapshot.Error.Type)
}

func TestBuildSnapshotSkipsLogsWithoutEnvironment(t *testing.T) {
	client := &stubClient{
		logs: models.EnvironmentLogData{EnvironmentLogs: []models.EnvironmentLog{
			{Timestamp: "2024-03-01T10:00:00Z", Message: "should not appear"},
		}},
	}
	svc := NewDashboardService(client, nil, "", 50)

	snapshot := svc.Build(context.Background(), models.Filter{}, "", NewRecorder(50))

	require.True(t, snapshot.Success)
	assert.Empty(t, snapshot.Data.Events)
}

func TestBuildSnapshotAppliesFilter(t *testing.T) {
	client := &stubClient{workspaces: workspaceTree()}
	svc := NewDashboardService(client, nil, "", 50)

	snapshot := svc.Build(context.Background(), models.Filter{ProjectID: "proj-2"}, "", NewRecorder(50))

	require.True(t, snapshot.Success)
	for _, row := range snapshot.Data.Services {
		assert.Equal(t, "proj-2", row.ProjectID)
	}
}

func TestReplayReportsPerQueryOutcomes(t *testing.T) {
	client := &stubClient{
		workspaces: workspaceTree(),
		fail:       map[string]error{QueryVolumes: errors.New("boom")},
	}
	svc := NewDashboardService(client, nil, "", 50)
	rec := NewRecorder(50)

	replays := svc.Replay(context.Background(), "env-1", false, rec)

	require.Len(t, replays, 4)
	byQuery := map[string]QueryReplay{}
	for _, r := range replays {
		byQuery[r.Query] = r
	}
	assert.True(t, byQuery[QueryWorkspaces].OK)
	assert.False(t, byQuery[QueryVolumes].OK)
	assert.Contains(t, byQuery[QueryVolumes].Error, "boom")
	// Raw data only attaches on the advanced variant.
	assert.Nil(t, byQuery[QueryWorkspaces].Data)
	assert.NotEmpty(t, rec.Lines())
}

func TestRecorderBoundsBuffer(t *testing.T) {
	rec := NewRecorder(3)
	for i := 0; i < 5; i++ {
		rec.Logf("line %d", i)
	}

	lines := rec.Lines()
	require.Len(t, lines, 3)
	assert.Equal(t, "line 2", lines[0])
	assert.Equal(t, "line 4", lines[2])
}

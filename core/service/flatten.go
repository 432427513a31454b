// Package service provides the filter, flatten and dashboard logic for Terminus.
package service

import (
	"sort"
	"time"

	"terminus/core/models"
)

// UnknownServiceName labels volume rows whose owning service reference is
// absent on the upstream record.
const UnknownServiceName = "Unknown Service"

// deploymentKey joins a service and environment id into the index key.
func deploymentKey(serviceID, environmentID string) string {
	return serviceID + "-" + environmentID
}

// parseTimestamp parses an upstream ISO-8601 timestamp. Unparseable
// values yield the zero time; callers sorting newest-first will push
// those entries last, their relative order is unspecified.
func parseTimestamp(value string) time.Time {
	t, err := time.Parse(time.RFC3339Nano, value)
	if err != nil {
		return time.Time{}
	}
	return t
}

// BuildDeploymentIndex builds a lookup keyed serviceID+"-"+environmentID
// from a deployments query result, retaining per key only the deployment
// with the latest createdAt.
func BuildDeploymentIndex(data models.WorkspaceData) map[string]models.Deployment {
	index := make(map[string]models.Deployment)
	for _, ws := range data.Me.Workspaces {
		for _, projectEdge := range ws.Projects.Edges {
			for _, svcEdge := range projectEdge.Node.Services.Edges {
				svc := svcEdge.Node
				for _, depEdge := range svc.Deployments.Edges {
					dep := depEdge.Node
					serviceID := dep.ServiceKey()
					if serviceID == "" {
						serviceID = svc.ID
					}
					key := deploymentKey(serviceID, dep.EnvironmentKey())
					existing, ok := index[key]
					if ok && !parseTimestamp(dep.CreatedAt).After(parseTimestamp(existing.CreatedAt)) {
						continue
					}
					index[key] = dep
				}
			}
		}
	}
	return index
}

// FlattenServices joins each project's services against the project's
// environments: one row per (service, environment) pair that has a
// deployment in the index. A service with no matching deployments still
// emits a single placeholder row with a nil deployment so it stays
// visible. Sibling order is preserved.
func FlattenServices(data models.WorkspaceData, index map[string]models.Deployment) []models.ServiceRow {
	rows := []models.ServiceRow{}
	for _, ws := range data.Me.Workspaces {
		for _, projectEdge := range ws.Projects.Edges {
			project := projectEdge.Node
			for _, svcEdge := range project.Services.Edges {
				svc := svcEdge.Node
				matched := false
				for _, envEdge := range project.Environments.Edges {
					env := envEdge.Node
					dep, ok := index[deploymentKey(svc.ID, env.ID)]
					if !ok {
						continue
					}
					matched = true
					rows = append(rows, models.ServiceRow{
						ProjectID:       project.ID,
						ProjectName:     project.Name,
						ServiceID:       svc.ID,
						ServiceName:     svc.Name,
						Icon:            svc.Icon,
						EnvironmentID:   env.ID,
						EnvironmentName: env.Name,
						Deployment: &models.DeploymentInfo{
							Status:    models.NormalizeStatus(dep.Status),
							CreatedAt: dep.CreatedAt,
						},
					})
				}
				if !matched {
					rows = append(rows, models.ServiceRow{
						ProjectID:   project.ID,
						ProjectName: project.Name,
						ServiceID:   svc.ID,
						ServiceName: svc.Name,
						Icon:        svc.Icon,
					})
				}
			}
		}
	}
	return rows
}

// FlattenVolumes emits one row per volume instance, annotated with the
// owning workspace/project/environment names for flat display.
func FlattenVolumes(data models.WorkspaceData) []models.VolumeRow {
	rows := []models.VolumeRow{}
	for _, ws := range data.Me.Workspaces {
		for _, projectEdge := range ws.Projects.Edges {
			project := projectEdge.Node
			for _, volEdge := range project.Volumes.Edges {
				for _, instEdge := range volEdge.Node.VolumeInstances.Edges {
					inst := instEdge.Node
					serviceName := UnknownServiceName
					if inst.Service != nil && inst.Service.Name != "" {
						serviceName = inst.Service.Name
					}
					environmentName := ""
					if inst.Environment != nil {
						environmentName = inst.Environment.Name
					}
					rows = append(rows, models.VolumeRow{
						ID:              inst.ID,
						MountPath:       inst.MountPath,
						CurrentSizeMB:   inst.CurrentSizeMB,
						SizeMB:          inst.SizeMB,
						Region:          inst.Region,
						State:           inst.State,
						ServiceName:     serviceName,
						EnvironmentName: environmentName,
						ProjectName:     project.Name,
						WorkspaceName:   ws.Name,
					})
				}
			}
		}
	}
	return rows
}

// FlattenEvents projects raw log entries to event rows sorted
// newest-first. When extract is non-nil it supplies the shortened display
// action for each message.
func FlattenEvents(entries []models.EnvironmentLog, extract func(string) string) []models.EventRow {
	rows := make([]models.EventRow, 0, len(entries))
	for _, entry := range entries {
		row := models.EventRow{
			Timestamp: entry.Timestamp,
			Message:   entry.Message,
			Severity:  entry.Severity,
			ParsedAt:  parseTimestamp(entry.Timestamp),
		}
		if extract != nil {
			row.Action = extract(entry.Message)
		}
		rows = append(rows, row)
	}
	sort.SliceStable(rows, func(i, j int) bool {
		return rows[i].ParsedAt.After(rows[j].ParsedAt)
	})
	return rows
}

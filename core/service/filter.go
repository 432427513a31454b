// Package service provides the filter, flatten and dashboard logic for Terminus.
package service

import (
	"terminus/core/models"
)

// The filter engine prunes non-matching branches from an upstream tree.
// All functions are pure: they return new nodes and never mutate their
// input (structural sharing of untouched subtrees is fine). A missing or
// empty connection is "no items", never an error.

// FilterWorkspaces applies the filter to a workspace tree as returned by
// the workspaces or deployments query.
//
// A project is retained iff ProjectID is absent or matches. Within a
// retained project, a service is retained iff ServiceID is absent or
// matches, and its deployment edges are further retained iff
// EnvironmentID is absent or the deployment's environment id or name
// matches. An environment is retained iff EnvironmentID is absent or
// matches by id or by name (some callers supply the human name where an
// id is expected).
func FilterWorkspaces(data models.WorkspaceData, f models.Filter) models.WorkspaceData {
	if f.IsZero() {
		return data
	}

	out := models.WorkspaceData{}
	out.Me.Workspaces = make([]models.Workspace, 0, len(data.Me.Workspaces))
	for _, ws := range data.Me.Workspaces {
		filtered := ws
		filtered.Projects = filterProjects(ws.Projects, f)
		out.Me.Workspaces = append(out.Me.Workspaces, filtered)
	}
	return out
}

// FilterVolumes applies the filter to a volume tree as returned by the
// volumes query. A volume instance is retained iff both its owning
// service and owning environment constraints are satisfied, checked by
// direct foreign-key fields or nested relation objects, whichever is
// present. After filtering, a project with zero remaining instances is
// dropped entirely only when a ServiceID or EnvironmentID filter was
// active; a plain project-only filter keeps volume-less projects.
func FilterVolumes(data models.WorkspaceData, f models.Filter) models.WorkspaceData {
	if f.IsZero() {
		return data
	}

	requireInstances := f.ServiceID != "" || f.EnvironmentID != ""

	out := models.WorkspaceData{}
	out.Me.Workspaces = make([]models.Workspace, 0, len(data.Me.Workspaces))
	for _, ws := range data.Me.Workspaces {
		filtered := ws
		filtered.Projects = filterVolumeProjects(ws.Projects, f, requireInstances)
		out.Me.Workspaces = append(out.Me.Workspaces, filtered)
	}
	return out
}

func filterProjects(projects models.Connection[models.Project], f models.Filter) models.Connection[models.Project] {
	var edges []models.Edge[models.Project]
	for _, edge := range projects.Edges {
		project := edge.Node
		if !matchID(f.ProjectID, project.ID) {
			continue
		}
		project.Services = filterServices(project.Services, f)
		project.Environments = filterEnvironments(project.Environments, f)
		edges = append(edges, models.Edge[models.Project]{Node: project})
	}
	return models.Connection[models.Project]{Edges: edges}
}

func filterServices(services models.Connection[models.Service], f models.Filter) models.Connection[models.Service] {
	var edges []models.Edge[models.Service]
	for _, edge := range services.Edges {
		svc := edge.Node
		if !matchID(f.ServiceID, svc.ID) {
			continue
		}
		svc.Deployments = filterDeploymentEdges(svc.Deployments, f)
		edges = append(edges, models.Edge[models.Service]{Node: svc})
	}
	return models.Connection[models.Service]{Edges: edges}
}

func filterDeploymentEdges(deployments models.Connection[models.Deployment], f models.Filter) models.Connection[models.Deployment] {
	if f.EnvironmentID == "" {
		return deployments
	}
	var edges []models.Edge[models.Deployment]
	for _, edge := range deployments.Edges {
		if !deploymentMatchesEnvironment(edge.Node, f.EnvironmentID) {
			continue
		}
		edges = append(edges, edge)
	}
	return models.Connection[models.Deployment]{Edges: edges}
}

func filterEnvironments(environments models.Connection[models.Environment], f models.Filter) models.Connection[models.Environment] {
	if f.EnvironmentID == "" {
		return environments
	}
	var edges []models.Edge[models.Environment]
	for _, edge := range environments.Edges {
		env := edge.Node
		if env.ID != f.EnvironmentID && env.Name != f.EnvironmentID {
			continue
		}
		edges = append(edges, edge)
	}
	return models.Connection[models.Environment]{Edges: edges}
}

func filterVolumeProjects(projects models.Connection[models.Project], f models.Filter, requireInstances bool) models.Connection[models.Project] {
	var edges []models.Edge[models.Project]
	for _, edge := range projects.Edges {
		project := edge.Node
		if !matchID(f.ProjectID, project.ID) {
			continue
		}

		remaining := 0
		var volumeEdges []models.Edge[models.Volume]
		for _, volEdge := range project.Volumes.Edges {
			vol := volEdge.Node
			vol.VolumeInstances = filterInstances(vol.VolumeInstances, f)
			count := len(vol.VolumeInstances.Edges)
			if requireInstances && count == 0 {
				continue
			}
			remaining += count
			volumeEdges = append(volumeEdges, models.Edge[models.Volume]{Node: vol})
		}

		if requireInstances && remaining == 0 {
			continue
		}

		project.Volumes = models.Connection[models.Volume]{Edges: volumeEdges}
		edges = append(edges, models.Edge[models.Project]{Node: project})
	}
	return models.Connection[models.Project]{Edges: edges}
}

func filterInstances(instances models.Connection[models.VolumeInstance], f models.Filter) models.Connection[models.VolumeInstance] {
	if f.ServiceID == "" && f.EnvironmentID == "" {
		return instances
	}
	var edges []models.Edge[models.VolumeInstance]
	for _, edge := range instances.Edges {
		inst := edge.Node
		if !matchID(f.ServiceID, inst.ServiceKey()) {
			continue
		}
		if !instanceMatchesEnvironment(inst, f.EnvironmentID) {
			continue
		}
		edges = append(edges, edge)
	}
	return models.Connection[models.VolumeInstance]{Edges: edges}
}

// matchID reports whether a filter value is absent or equal to the id.
func matchID(want, got string) bool {
	return want == "" || want == got
}

func deploymentMatchesEnvironment(d models.Deployment, environmentID string) bool {
	if d.EnvironmentKey() == environmentID {
		return true
	}
	if d.EnvironmentName == environmentID {
		return true
	}
	if d.Environment != nil && d.Environment.Name == environmentID {
		return true
	}
	return false
}

func instanceMatchesEnvironment(inst models.VolumeInstance, environmentID string) bool {
	if environmentID == "" {
		return true
	}
	if inst.EnvironmentKey() == environmentID {
		return true
	}
	if inst.Environment != nil && inst.Environment.Name == environmentID {
		return true
	}
	return false
}

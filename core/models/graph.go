// Package models defines domain models for Terminus.
package models

// Connection is the GraphQL pagination wrapper: a list represented as
// {edges: [{node: T}]}. A missing or empty connection simply has no edges.
type Connection[T any] struct {
	Edges []Edge[T] `json:"edges"`
}

// Edge wraps a single connection node.
type Edge[T any] struct {
	Node T `json:"node"`
}

// Nodes unwraps the connection into a plain slice.
func (c Connection[T]) Nodes() []T {
	if len(c.Edges) == 0 {
		return nil
	}
	nodes := make([]T, 0, len(c.Edges))
	for _, e := range c.Edges {
		nodes = append(nodes, e.Node)
	}
	return nodes
}

// WorkspaceData is the top-level shape shared by the workspace-scoped
// queries (projects, deployments, volumes).
type WorkspaceData struct {
	Me Me `json:"me"`
}

// Me holds the authenticated account's workspaces.
type Me struct {
	Workspaces []Workspace `json:"workspaces"`
}

// Workspace is the top-level Railway account grouping.
type Workspace struct {
	ID       string              `json:"id"`
	Name     string              `json:"name"`
	Projects Connection[Project] `json:"projects"`
}

// Project groups services, environments and volumes.
type Project struct {
	ID           string                  `json:"id"`
	Name         string                  `json:"name"`
	Description  string                  `json:"description"`
	TeamID       string                  `json:"teamId"`
	CreatedAt    string                  `json:"createdAt"`
	Services     Connection[Service]     `json:"services"`
	Environments Connection[Environment] `json:"environments"`
	Volumes      Connection[Volume]      `json:"volumes"`
}

// Service belongs to exactly one project. Deployments are only populated
// by the deployments query.
type Service struct {
	ID          string                 `json:"id"`
	Name        string                 `json:"name"`
	Icon        string                 `json:"icon"`
	CreatedAt   string                 `json:"createdAt"`
	Deployments Connection[Deployment] `json:"deployments"`
}

// Environment is a named deployment target within a project.
type Environment struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	IsEphemeral bool   `json:"isEphemeral"`
	CreatedAt   string `json:"createdAt"`
}

// EntityRef is a nested relation object carrying just identity fields.
type EntityRef struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Deployment is one deploy of a service into an environment. Depending on
// the query shape the owning service/environment arrive either as direct
// foreign-key fields or as nested relation objects.
type Deployment struct {
	ID              string     `json:"id"`
	Status          string     `json:"status"`
	CreatedAt       string     `json:"createdAt"`
	EnvironmentID   string     `json:"environmentId"`
	EnvironmentName string     `json:"environmentName"`
	ServiceID       string     `json:"serviceId"`
	ProjectID       string     `json:"projectId"`
	Environment     *EntityRef `json:"environment,omitempty"`
	Service         *EntityRef `json:"service,omitempty"`
}

// EnvironmentKey returns the deployment's environment id, preferring the
// direct field over the nested relation.
func (d Deployment) EnvironmentKey() string {
	if d.EnvironmentID != "" {
		return d.EnvironmentID
	}
	if d.Environment != nil {
		return d.Environment.ID
	}
	return ""
}

// ServiceKey returns the deployment's service id, preferring the direct
// field over the nested relation.
func (d Deployment) ServiceKey() string {
	if d.ServiceID != "" {
		return d.ServiceID
	}
	if d.Service != nil {
		return d.Service.ID
	}
	return ""
}

// Volume is a persistent storage volume; its per-environment attachments
// are the volume instances.
type Volume struct {
	ID              string                     `json:"id"`
	Name            string                     `json:"name"`
	CreatedAt       string                     `json:"createdAt"`
	VolumeInstances Connection[VolumeInstance] `json:"volumeInstances"`
}

// VolumeInstance is one attachment of a volume to a service within an
// environment.
type VolumeInstance struct {
	ID            string     `json:"id"`
	MountPath     string     `json:"mountPath"`
	SizeMB        float64    `json:"sizeMB"`
	CurrentSizeMB float64    `json:"currentSizeMB"`
	Region        string     `json:"region"`
	State         string     `json:"state"`
	ServiceID     string     `json:"serviceId"`
	EnvironmentID string     `json:"environmentId"`
	Service       *EntityRef `json:"service,omitempty"`
	Environment   *EntityRef `json:"environment,omitempty"`
}

// ServiceKey returns the instance's owning service id, preferring the
// direct field over the nested relation.
func (v VolumeInstance) ServiceKey() string {
	if v.ServiceID != "" {
		return v.ServiceID
	}
	if v.Service != nil {
		return v.Service.ID
	}
	return ""
}

// EnvironmentKey returns the instance's owning environment id, preferring
// the direct field over the nested relation.
func (v VolumeInstance) EnvironmentKey() string {
	if v.EnvironmentID != "" {
		return v.EnvironmentID
	}
	if v.Environment != nil {
		return v.Environment.ID
	}
	return ""
}

// EnvironmentLogData is the response shape of the environment logs query.
type EnvironmentLogData struct {
	EnvironmentLogs []EnvironmentLog `json:"environmentLogs"`
}

// EnvironmentLog is a raw upstream log line.
type EnvironmentLog struct {
	Timestamp string `json:"timestamp"`
	Message   string `json:"message"`
	Severity  string `json:"severity"`
}

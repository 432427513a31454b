// Package railway provides a thin client for the Railway GraphQL API.
package railway

import "embed"

// Query documents are fixed text assets; they are never built per request.

//go:embed queries/*.graphql
var queryFS embed.FS

// The four query documents issued by the dashboard.
var (
	WorkspacesQuery      = mustQuery("workspaces.graphql")
	DeploymentsQuery     = mustQuery("deployments.graphql")
	VolumesQuery         = mustQuery("volumes.graphql")
	EnvironmentLogsQuery = mustQuery("environment_logs.graphql")
)

func mustQuery(name string) string {
	b, err := queryFS.ReadFile("queries/" + name)
	if err != nil {
		panic("railway: missing embedded query " + name)
	}
	return string(b)
}

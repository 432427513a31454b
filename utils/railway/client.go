// Package railway provides a thin client for the Railway GraphQL API.
package railway

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"terminus/core/models"
)

// DefaultEndpoint is the public Railway GraphQL API.
const DefaultEndpoint = "https://backboard.railway.com/graphql/v2"

// ErrMissingToken is returned when a client is constructed without an API token.
var ErrMissingToken = errors.New("railway: API token is required")

// ErrKind classifies a failed query.
type ErrKind string

// Query error kinds.
const (
	ErrKindNetwork ErrKind = "network" // transport-level failure
	ErrKindParse   ErrKind = "parse"   // malformed JSON response
	ErrKindQuery   ErrKind = "query"   // non-empty GraphQL errors array
)

// QueryError is a classified upstream failure. Body retains the raw
// response for diagnostics where one was received.
type QueryError struct {
	Kind    ErrKind
	Message string
	Body    string
	Err     error
}

func (e *QueryError) Error() string {
	return fmt.Sprintf("railway: %s error: %s", e.Kind, e.Message)
}

func (e *QueryError) Unwrap() error {
	return e.Err
}

// Client issues GraphQL queries over HTTPS with bearer auth. It performs
// no retries and no caching; every call is a single POST.
type Client struct {
	endpoint   string
	token      string
	httpClient *http.Client
}

// NewClient creates a Railway client. The token is required; the endpoint
// defaults to DefaultEndpoint when empty.
func NewClient(endpoint, token string) (*Client, error) {
	if token == "" {
		return nil, ErrMissingToken
	}
	if endpoint == "" {
		endpoint = DefaultEndpoint
	}
	return &Client{
		endpoint: endpoint,
		token:    token,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}, nil
}

type gqlRequest struct {
	Query     string         `json:"query"`
	Variables map[string]any `json:"variables,omitempty"`
}

type gqlError struct {
	Message string `json:"message"`
}

type gqlResponse struct {
	Data   json.RawMessage `json:"data"`
	Errors []gqlError      `json:"errors"`
}

// Execute posts a single query document and returns the data field
// verbatim. Failures are classified as network, parse or query errors.
func (c *Client) Execute(ctx context.Context, query string, variables map[string]any) (json.RawMessage, error) {
	payload, err := json.Marshal(gqlRequest{Query: query, Variables: variables})
	if err != nil {
		return nil, &QueryError{Kind: ErrKindParse, Message: "failed to encode request", Err: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, &QueryError{Kind: ErrKindNetwork, Message: "failed to build request", Err: err}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.token)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &QueryError{Kind: ErrKindNetwork, Message: err.Error(), Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &QueryError{Kind: ErrKindNetwork, Message: "failed to read response body", Err: err}
	}

	var parsed gqlResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, &QueryError{
			Kind:    ErrKindParse,
			Message: fmt.Sprintf("invalid JSON response (status %d)", resp.StatusCode),
			Body:    string(body),
			Err:     err,
		}
	}

	if len(parsed.Errors) > 0 {
		messages := make([]string, 0, len(parsed.Errors))
		for _, e := range parsed.Errors {
			messages = append(messages, e.Message)
		}
		return nil, &QueryError{
			Kind:    ErrKindQuery,
			Message: strings.Join(messages, "; "),
			Body:    string(body),
		}
	}

	return parsed.Data, nil
}

// Workspaces fetches the project/service/environment tree.
func (c *Client) Workspaces(ctx context.Context) (models.WorkspaceData, error) {
	var data models.WorkspaceData
	err := c.query(ctx, WorkspacesQuery, nil, &data)
	return data, err
}

// Deployments fetches recent deployments nested under each service.
func (c *Client) Deployments(ctx context.Context) (models.WorkspaceData, error) {
	var data models.WorkspaceData
	err := c.query(ctx, DeploymentsQuery, nil, &data)
	return data, err
}

// Volumes fetches volumes and their instances nested under each project.
func (c *Client) Volumes(ctx context.Context) (models.WorkspaceData, error) {
	var data models.WorkspaceData
	err := c.query(ctx, VolumesQuery, nil, &data)
	return data, err
}

// EnvironmentLogs fetches recent log entries for one environment.
func (c *Client) EnvironmentLogs(ctx context.Context, environmentID, filter string, limit int) (models.EnvironmentLogData, error) {
	var data models.EnvironmentLogData
	err := c.query(ctx, EnvironmentLogsQuery, map[string]any{
		"environmentId": environmentID,
		"filter":        filter,
		"limit":         limit,
	}, &data)
	return data, err
}

// query executes a document and decodes the data field into out. A decode
// failure of an otherwise well-formed response is a parse error.
func (c *Client) query(ctx context.Context, document string, variables map[string]any, out any) error {
	raw, err := c.Execute(ctx, document, variables)
	if err != nil {
		return err
	}
	if len(raw) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return &QueryError{
			Kind:    ErrKindParse,
			Message: "failed to decode query data",
			Body:    string(raw),
			Err:     err,
		}
	}
	return nil
}

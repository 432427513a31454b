// Package render turns a dashboard snapshot into a static HTML document.
package render

import (
	"bytes"
	"fmt"
	"html/template"
	"strings"
	"time"

	"terminus/core/models"
)

// Display limits for the fixed 800x480 surface. Sections past the limit
// collapse into a "+N more" indicator.
const (
	MaxServices = 8
	MaxVolumes  = 6
	MaxEvents   = 10
)

var htmlEscaper = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	`"`, "&quot;",
	"'", "&#39;",
)

// EscapeHTML entity-encodes the five HTML metacharacters. It is used to
// build pre-escaped template.HTML fragments; everything else goes through
// html/template's contextual escaping.
func EscapeHTML(s string) string {
	return htmlEscaper.Replace(s)
}

// Renderer renders snapshots in a fixed display timezone.
type Renderer struct {
	location *time.Location
}

// NewRenderer creates a renderer. A nil location falls back to UTC.
func NewRenderer(location *time.Location) *Renderer {
	if location == nil {
		location = time.UTC
	}
	return &Renderer{location: location}
}

type serviceView struct {
	Name        string
	Project     string
	Environment string
	Status      string
	StatusClass string
	DeployedAt  string
}

type volumeView struct {
	MountPath    string
	Service      string
	Environment  string
	Project      string
	UsagePercent int
	UsageLabel   string
	State        string
}

type eventView struct {
	Time     string
	Severity string
	Class    string
	Cell     template.HTML
}

type dashboardView struct {
	GeneratedAt  string
	Services     []serviceView
	MoreServices int
	Volumes      []volumeView
	MoreVolumes  int
	Events       []eventView
	MoreEvents   int
	QueryErrors  []models.QueryFailure
}

type errorView struct {
	GeneratedAt string
	Type        string
	Message     string
}

// Render produces the HTML document for a snapshot. A failure snapshot
// renders the dedicated error document; the dashboard never renders a
// blank page.
func (r *Renderer) Render(snapshot models.Snapshot) ([]byte, error) {
	var buf bytes.Buffer

	if !snapshot.Success || snapshot.Data == nil {
		view := errorView{
			GeneratedAt: r.formatTime(snapshot.Timestamp),
			Type:        "UnknownError",
			Message:     "no data available",
		}
		if snapshot.Error != nil {
			view.Type = snapshot.Error.Type
			view.Message = snapshot.Error.Message
		}
		if err := tmpl.ExecuteTemplate(&buf, "error.tmpl", view); err != nil {
			return nil, fmt.Errorf("render: error document failed: %w", err)
		}
		return buf.Bytes(), nil
	}

	view := r.buildView(snapshot)
	if err := tmpl.ExecuteTemplate(&buf, "dashboard.tmpl", view); err != nil {
		return nil, fmt.Errorf("render: dashboard document failed: %w", err)
	}
	return buf.Bytes(), nil
}

func (r *Renderer) buildView(snapshot models.Snapshot) dashboardView {
	data := snapshot.Data
	view := dashboardView{
		GeneratedAt: r.formatTime(snapshot.Timestamp),
		QueryErrors: data.QueryInfo.Errors,
	}

	services := data.Services
	if len(services) > MaxServices {
		view.MoreServices = len(services) - MaxServices
		services = services[:MaxServices]
	}
	for _, row := range services {
		sv := serviceView{
			Name:        row.ServiceName,
			Project:     row.ProjectName,
			Environment: row.EnvironmentName,
			Status:      models.StatusUnknown,
			StatusClass: statusClass(models.StatusUnknown),
			DeployedAt:  "-",
		}
		if row.Deployment != nil {
			sv.Status = row.Deployment.Status
			sv.StatusClass = statusClass(row.Deployment.Status)
			sv.DeployedAt = r.formatStamp(row.Deployment.CreatedAt)
		}
		view.Services = append(view.Services, sv)
	}

	volumes := data.Volumes
	if len(volumes) > MaxVolumes {
		view.MoreVolumes = len(volumes) - MaxVolumes
		volumes = volumes[:MaxVolumes]
	}
	for _, row := range volumes {
		view.Volumes = append(view.Volumes, volumeView{
			MountPath:    row.MountPath,
			Service:      row.ServiceName,
			Environment:  row.EnvironmentName,
			Project:      row.ProjectName,
			UsagePercent: int(row.UsagePercent()),
			UsageLabel:   fmt.Sprintf("%.0f/%.0f MB", row.CurrentSizeMB, row.SizeMB),
			State:        row.State,
		})
	}

	events := data.Events
	if len(events) > MaxEvents {
		view.MoreEvents = len(events) - MaxEvents
		events = events[:MaxEvents]
	}
	for _, row := range events {
		view.Events = append(view.Events, eventView{
			Time:     r.formatStamp(row.Timestamp),
			Severity: row.Severity,
			Class:    severityClass(row.Severity),
			Cell:     eventCell(row),
		})
	}

	return view
}

// eventCell builds the pre-escaped message fragment: the extracted action
// label, when present, is highlighted ahead of the raw message.
func eventCell(row models.EventRow) template.HTML {
	message := EscapeHTML(row.Message)
	if row.Action != "" && row.Action != row.Message {
		return template.HTML(fmt.Sprintf(
			`<span class="action">%s</span> <span class="msg">%s</span>`,
			EscapeHTML(row.Action), message))
	}
	return template.HTML(message)
}

func statusClass(status string) string {
	switch status {
	case models.StatusSuccess:
		return "ok"
	case models.StatusBuilding, models.StatusDeploying:
		return "busy"
	case models.StatusFailed, models.StatusCrashed:
		return "bad"
	case models.StatusRemoved, models.StatusSkipped:
		return "muted"
	}
	return "unknown"
}

func severityClass(severity string) string {
	switch strings.ToUpper(severity) {
	case models.SeverityError:
		return "bad"
	case models.SeverityWarn:
		return "busy"
	}
	return "info"
}

// formatTime renders a time in the display timezone.
func (r *Renderer) formatTime(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.In(r.location).Format("Jan 02 15:04:05")
}

// formatStamp renders an upstream ISO-8601 string in the display
// timezone, or "-" when it cannot be parsed.
func (r *Renderer) formatStamp(value string) string {
	t, err := time.Parse(time.RFC3339Nano, value)
	if err != nil {
		return "-"
	}
	return t.In(r.location).Format("Jan 02 15:04")
}

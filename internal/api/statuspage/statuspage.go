// Package statuspage renders the admin deployment status report.
package statuspage

import (
	"embed"
	"fmt"
	"html/template"
	"io"

	"github.com/reitmaier/transcribe-api/internal/domain"
)

// Title heads the rendered page.
const Title = "Human Transcription Deployment Status"

const awaiting = "Awaiting Transcription"

//go:embed templates/status.html.tmpl
var templates embed.FS

// Page renders deployment status reports.
type Page struct {
	tmpl *template.Template
}

// New parses the embedded template.
func New() (*Page, error) {
	tmpl, err := template.ParseFS(templates, "templates/status.html.tmpl")
	if err != nil {
		return nil, fmt.Errorf("failed to parse status template: %w", err)
	}
	return &Page{tmpl: tmpl}, nil
}

// Row is one line of the tasks table.
type Row struct {
	Label      string
	AudioURL   string
	UserID     domain.UserID
	Transcript string
	Emphasis   bool
}

type view struct {
	Title      string
	Rate       int
	Deployment *domain.Deployment
	Users      []domain.UserSummary
	Rows       []Row
}

// Rows flattens the task groups. Only the first row of a group links the
// shared audio file.
func Rows(status *domain.DeploymentStatus) []Row {
	var rows []Row
	for _, group := range status.TaskGroups() {
		for i, t := range group.Tasks {
			row := Row{Label: group.Label(), UserID: t.UserID}
			if i == 0 {
				row.AudioURL = fmt.Sprintf("/user/%d/task/%d/file", t.UserID, t.ID)
			}
			switch {
			case t.RejectReason != nil:
				row.Transcript, row.Emphasis = string(*t.RejectReason), true
			case t.Transcript == "":
				row.Transcript, row.Emphasis = awaiting, true
			default:
				row.Transcript = t.Transcript
			}
			rows = append(rows, row)
		}
	}
	return rows
}

// Render writes the HTML report for status to w.
func (p *Page) Render(w io.Writer, status *domain.DeploymentStatus) error {
	return p.tmpl.Execute(w, view{
		Title:      Title,
		Rate:       domain.RatePerMinute,
		Deployment: status.Deployment,
		Users:      status.UserSummaries(),
		Rows:       Rows(status),
	})
}

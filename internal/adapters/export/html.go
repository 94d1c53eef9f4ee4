// internal/adapters/export/html.go
package export

import (
	"bytes"
	"html/template"
	"sort"
	"time"

	"kirwada/internal/core/domain"
	"kirwada/internal/core/ports"
	"kirwada/internal/platform/errors"
	"kirwada/internal/platform/logx"
)

// HTMLExporter genera un informe autocontenido: resumen de sesión, campos
// deduplicados con procedencia y una sección colapsable por unit.
type HTMLExporter struct {
	logger logx.Logger
	tmpl   *template.Template
}

// NewHTML crea un exporter HTML.
func NewHTML(logger logx.Logger) *HTMLExporter {
	return &HTMLExporter{
		logger: logger.With("exporter", "html"),
		tmpl:   template.Must(template.New("report").Parse(reportTemplate)),
	}
}

// Format implementa ports.Exporter.
func (e *HTMLExporter) Format() ports.ExportFormat { return ports.FormatHTML }

type reportModel struct {
	GeneratedAt string
	Sessions    []sessionModel
	Fields      []fieldModel
}

type sessionModel struct {
	ID       string
	Query    string
	Kind     string
	Duration string
	Summary  domain.SessionSummary
	Units    []unitModel
}

type unitModel struct {
	Name       string
	Status     string
	StatusCSS  string
	DurationMs int64
	Error      string
	Rows       []kvRow
}

type kvRow struct {
	Path  string
	Value string
}

type fieldModel struct {
	Value        string
	Fields       []string
	Units        []string
	Corroborated bool
}

// Export renderiza el informe y lo escribe de forma atómica.
func (e *HTMLExporter) Export(sessions []*domain.SearchSession, view *ports.AggregateView, opts ports.ExportOptions) (*ports.Artifact, error) {
	model := reportModel{GeneratedAt: time.Now().Format(time.RFC1123)}

	for _, s := range sessions {
		sm := sessionModel{
			ID:       s.ID,
			Query:    s.Query,
			Kind:     s.Kind.String(),
			Duration: s.Duration().Round(time.Millisecond).String(),
			Summary:  s.Summary,
		}
		for _, o := range s.Outcomes {
			rec := o.Record
			if rec == nil {
				continue
			}
			um := unitModel{
				Name:       rec.UnitName,
				Status:     o.Status.String(),
				StatusCSS:  statusCSS(o),
				DurationMs: rec.DurationMs,
				Error:      rec.ErrorMessage,
			}
			if rec.Succeeded {
				flat := rec.Payload.Flatten()
				paths := make([]string, 0, len(flat))
				for p := range flat {
					paths = append(paths, p)
				}
				sort.Strings(paths)
				for _, p := range paths {
					um.Rows = append(um.Rows, kvRow{Path: p, Value: flat[p]})
				}
			}
			sm.Units = append(sm.Units, um)
		}
		model.Sessions = append(model.Sessions, sm)
	}

	if view != nil {
		values := make([]string, 0, len(view.Fields))
		for v := range view.Fields {
			values = append(values, v)
		}
		sort.Strings(values)
		for _, v := range values {
			f := view.Fields[v]
			model.Fields = append(model.Fields, fieldModel{
				Value:        f.Value,
				Fields:       f.Fields,
				Units:        f.Units,
				Corroborated: f.Corroborated(),
			})
		}
	}

	var buf bytes.Buffer
	if err := e.tmpl.Execute(&buf, model); err != nil {
		return nil, errors.Wrapf(errors.ErrExportFailed, "render HTML: %v", err)
	}

	path, err := resolvePath(sessions, opts, "html")
	if err != nil {
		return nil, err
	}
	n, err := writeAtomic(path, buf.Bytes())
	if err != nil {
		return nil, err
	}

	e.logger.Info("exported", "path", path, "bytes", n)
	return &ports.Artifact{Format: ports.FormatHTML, Path: path, Bytes: n}, nil
}

func statusCSS(o domain.ExecutionOutcome) string {
	switch o.Status {
	case domain.StatusCompleted:
		if o.Record != nil && o.Record.Succeeded {
			return "ok"
		}
		return "failed"
	case domain.StatusTimedOut:
		return "timedout"
	case domain.StatusSkipped, domain.StatusCancelled:
		return "muted"
	default:
		return "failed"
	}
}

const reportTemplate = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>Kirwada Report</title>
<style>
body { font-family: -apple-system, "Segoe UI", Roboto, sans-serif; background: #10141a; color: #d8dee9; margin: 0; padding: 2rem; }
h1 { color: #88c0d0; margin-top: 0; }
h2 { color: #81a1c1; border-bottom: 1px solid #2e3440; padding-bottom: .3rem; }
.meta { color: #6b7280; font-size: .85rem; }
.summary { display: flex; gap: 1rem; flex-wrap: wrap; margin: 1rem 0; }
.summary .card { background: #1b222c; border-radius: 6px; padding: .6rem 1rem; }
.summary .card b { display: block; font-size: 1.4rem; }
table { border-collapse: collapse; width: 100%; margin: .5rem 0 1.5rem; }
th, td { text-align: left; padding: .35rem .6rem; border-bottom: 1px solid #2e3440; font-size: .9rem; }
th { color: #81a1c1; }
.status { font-weight: 600; text-transform: uppercase; font-size: .75rem; }
.status.ok { color: #a3be8c; }
.status.failed { color: #bf616a; }
.status.timedout { color: #ebcb8b; }
.status.muted { color: #6b7280; }
details { margin: .4rem 0; background: #161c25; border-radius: 6px; padding: .4rem .8rem; }
summary { cursor: pointer; }
.badge { background: #2e3440; border-radius: 4px; padding: .1rem .4rem; font-size: .75rem; margin-right: .3rem; }
.corroborated { color: #a3be8c; }
</style>
</head>
<body>
<h1>Kirwada Report</h1>
<p class="meta">Generated {{.GeneratedAt}}</p>

{{range .Sessions}}
<h2>{{.Query}} <span class="badge">{{.Kind}}</span></h2>
<p class="meta">Session {{.ID}} &middot; {{.Duration}}</p>
<div class="summary">
  <div class="card"><b>{{.Summary.TotalUnits}}</b>units</div>
  <div class="card"><b>{{.Summary.SucceededCount}}</b>succeeded</div>
  <div class="card"><b>{{.Summary.FailedCount}}</b>failed</div>
  <div class="card"><b>{{.Summary.TimedOutCount}}</b>timed out</div>
  <div class="card"><b>{{.Summary.SkippedCount}}</b>skipped</div>
  <div class="card"><b>{{.Summary.CancelledCount}}</b>cancelled</div>
</div>

{{range .Units}}
<details{{if .Rows}} open{{end}}>
  <summary><span class="status {{.StatusCSS}}">{{.Status}}</span> {{.Name}} <span class="meta">({{.DurationMs}} ms)</span></summary>
  {{if .Error}}<p class="meta">{{.Error}}</p>{{end}}
  {{if .Rows}}
  <table>
    <tr><th>Field</th><th>Value</th></tr>
    {{range .Rows}}<tr><td>{{.Path}}</td><td>{{.Value}}</td></tr>{{end}}
  </table>
  {{end}}
</details>
{{end}}
{{end}}

{{if .Fields}}
<h2>Deduplicated fields</h2>
<table>
  <tr><th>Value</th><th>Seen as</th><th>Reported by</th></tr>
  {{range .Fields}}
  <tr>
    <td{{if .Corroborated}} class="corroborated"{{end}}>{{.Value}}</td>
    <td>{{range .Fields}}<span class="badge">{{.}}</span>{{end}}</td>
    <td>{{range .Units}}<span class="badge">{{.}}</span>{{end}}</td>
  </tr>
  {{end}}
</table>
{{end}}
</body>
</html>
`

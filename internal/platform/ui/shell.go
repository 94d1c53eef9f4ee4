// internal/platform/ui/shell.go

// Package ui implementa la shell interactiva de terminal sobre pterm:
// banner, menús de selección y render de resultados.
package ui

import (
	"fmt"
	"sort"
	"strconv"
	"time"

	"github.com/pterm/pterm"

	"kirwada/internal/core/domain"
	"kirwada/internal/core/ports"
)

// Shell encapsula la interacción con la terminal.
type Shell struct {
	version string
}

// NewShell crea la shell.
func NewShell(version string) *Shell {
	return &Shell{version: version}
}

// Banner imprime la cabecera del programa.
func (s *Shell) Banner() {
	pterm.DefaultHeader.
		WithBackgroundStyle(pterm.NewStyle(pterm.BgCyan)).
		WithTextStyle(pterm.NewStyle(pterm.FgBlack)).
		Println("Kirwada - OSINT Search Orchestrator")

	pterm.Println(pterm.Gray("version " + s.version))
	pterm.Println()
}

// AskKind pide el search kind a investigar.
func (s *Shell) AskKind() (domain.SearchKind, error) {
	options := make([]string, 0)
	for _, k := range domain.AllSearchKinds() {
		options = append(options, k.String())
	}

	choice, err := pterm.DefaultInteractiveSelect.
		WithOptions(options).
		Show("What kind of query do you want to run?")
	if err != nil {
		return "", err
	}
	return domain.SearchKind(choice), nil
}

// AskQuery pide la consulta literal.
func (s *Shell) AskQuery(kind domain.SearchKind) (string, error) {
	return pterm.DefaultInteractiveTextInput.
		Show(fmt.Sprintf("Enter the %s to look up", kind))
}

// AskUnits pide qué units ejecutar de entre las aplicables al kind.
// Devuelve nil si el usuario acepta el set completo.
func (s *Shell) AskUnits(metadata map[string]ports.UnitMetadata, kind domain.SearchKind) ([]string, error) {
	applicable := make([]string, 0)
	for name, meta := range metadata {
		if meta.SupportsKind(kind) {
			applicable = append(applicable, name)
		}
	}
	sort.Strings(applicable)

	if len(applicable) == 0 {
		return nil, nil
	}

	selected, err := pterm.DefaultInteractiveMultiselect.
		WithOptions(applicable).
		WithDefaultOptions(applicable).
		Show("Units to run")
	if err != nil {
		return nil, err
	}
	if len(selected) == len(applicable) {
		return nil, nil
	}
	return selected, nil
}

// AskFormats pide los formatos de exportación.
func (s *Shell) AskFormats(defaults []string) ([]string, error) {
	options := make([]string, 0)
	for _, f := range ports.AllExportFormats() {
		options = append(options, f.String())
	}

	return pterm.DefaultInteractiveMultiselect.
		WithOptions(options).
		WithDefaultOptions(defaults).
		Show("Export formats")
}

// Dispatching muestra un spinner mientras el despacho corre. Retorna un
// callback para cerrarlo con el resultado.
func (s *Shell) Dispatching(query string, units int) func(ok bool) {
	spinner, err := pterm.DefaultSpinner.
		WithStyle(pterm.NewStyle(pterm.FgCyan)).
		Start(fmt.Sprintf("Dispatching %d units for %q...", units, query))
	if err != nil {
		return func(bool) {}
	}
	return func(ok bool) {
		if ok {
			spinner.Success("Dispatch completed")
		} else {
			spinner.Fail("Dispatch finished with problems")
		}
	}
}

// SessionSummary imprime la tabla de outcomes y los contadores.
func (s *Shell) SessionSummary(session *domain.SearchSession) {
	pterm.Println()
	pterm.DefaultSection.Println("Results for " + session.Query)

	rows := pterm.TableData{{"Unit", "Status", "Duration", "Detail"}}
	for _, o := range session.Outcomes {
		rec := o.Record
		if rec == nil {
			continue
		}
		detail := ""
		if !rec.Succeeded {
			detail = rec.ErrorMessage
		}
		rows = append(rows, []string{
			rec.UnitName,
			statusCell(o),
			strconv.FormatInt(rec.DurationMs, 10) + " ms",
			truncate(detail, 60),
		})
	}

	if err := pterm.DefaultTable.WithHasHeader().WithData(rows).Render(); err != nil {
		pterm.Println(session.String())
	}

	sum := session.Summary
	pterm.Printf("\n%s succeeded, %s failed, %s timed out, %d skipped, %d cancelled (%s total)\n",
		pterm.Green(sum.SucceededCount),
		pterm.Red(sum.FailedCount),
		pterm.Yellow(sum.TimedOutCount),
		sum.SkippedCount,
		sum.CancelledCount,
		session.Duration().Round(time.Millisecond),
	)
}

// AggregateSummary imprime los campos deduplicados con su procedencia.
func (s *Shell) AggregateSummary(view *ports.AggregateView) {
	if view == nil || len(view.Fields) == 0 {
		return
	}

	pterm.Println()
	pterm.DefaultSection.Println("Deduplicated fields")

	values := make([]string, 0, len(view.Fields))
	for v := range view.Fields {
		values = append(values, v)
	}
	sort.Strings(values)

	rows := pterm.TableData{{"Value", "Seen as", "Reported by"}}
	for _, v := range values {
		f := view.Fields[v]
		value := f.Value
		if f.Corroborated() {
			value = pterm.Green(value)
		}
		rows = append(rows, []string{value, join(f.Fields), join(f.Units)})
	}

	if err := pterm.DefaultTable.WithHasHeader().WithData(rows).Render(); err != nil {
		return
	}
}

// UnitList imprime la tabla de units registradas con su metadata.
func (s *Shell) UnitList(metadata map[string]ports.UnitMetadata) {
	names := make([]string, 0, len(metadata))
	for name := range metadata {
		names = append(names, name)
	}
	sort.Strings(names)

	rows := pterm.TableData{{"Unit", "Type", "Kinds", "Auth", "Description"}}
	for _, name := range names {
		meta := metadata[name]
		kinds := make([]string, 0, len(meta.Kinds))
		for _, k := range meta.Kinds {
			kinds = append(kinds, k.String())
		}
		auth := ""
		if meta.RequiresAuth {
			auth = pterm.Yellow("api key")
		}
		rows = append(rows, []string{name, string(meta.Type), join(kinds), auth, meta.Description})
	}

	if err := pterm.DefaultTable.WithHasHeader().WithData(rows).Render(); err != nil {
		for _, name := range names {
			pterm.Println(name)
		}
	}
}

// Artifacts lista los artefactos exportados.
func (s *Shell) Artifacts(artifacts []*ports.Artifact) {
	if len(artifacts) == 0 {
		return
	}
	pterm.Println()
	for _, a := range artifacts {
		pterm.Printf("%s %s (%s, %d bytes)\n",
			pterm.Cyan("→"), a.Path, a.Format, a.Bytes)
	}
}

// Error imprime un error de forma destacada.
func (s *Shell) Error(err error) {
	pterm.Error.Println(err.Error())
}

func statusCell(o domain.ExecutionOutcome) string {
	switch o.Status {
	case domain.StatusCompleted:
		if o.Record != nil && o.Record.Succeeded {
			return pterm.Green("completed")
		}
		return pterm.Red("no data")
	case domain.StatusFailed:
		return pterm.Red("failed")
	case domain.StatusTimedOut:
		return pterm.Yellow("timed out")
	case domain.StatusSkipped:
		return pterm.Gray("skipped")
	case domain.StatusCancelled:
		return pterm.Gray("cancelled")
	default:
		return o.Status.String()
	}
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max-3] + "..."
}

func join(items []string) string {
	out := ""
	for i, it := range items {
		if i > 0 {
			out += ", "
		}
		out += it
	}
	return out
}

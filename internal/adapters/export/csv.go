// internal/adapters/export/csv.go
package export

import (
	"bytes"
	"encoding/csv"
	"sort"
	"strconv"
	"time"

	"kirwada/internal/core/domain"
	"kirwada/internal/core/ports"
	"kirwada/internal/platform/errors"
	"kirwada/internal/platform/logx"
)

// baseColumns son las columnas fijas que preceden a las del payload.
var baseColumns = []string{
	"session_id", "unit", "status", "kind", "query",
	"started_at", "finished_at", "duration_ms", "error",
}

// CSVExporter aplana cada outcome en una fila. Las columnas del payload
// son la unión ordenada de las rutas aplanadas de todos los outcomes;
// una unit sin cierta ruta deja la celda vacía.
type CSVExporter struct {
	logger logx.Logger
}

// NewCSV crea un exporter CSV.
func NewCSV(logger logx.Logger) *CSVExporter {
	return &CSVExporter{logger: logger.With("exporter", "csv")}
}

// Format implementa ports.Exporter.
func (e *CSVExporter) Format() ports.ExportFormat { return ports.FormatCSV }

// Export escribe la tabla aplanada de forma atómica.
func (e *CSVExporter) Export(sessions []*domain.SearchSession, view *ports.AggregateView, opts ports.ExportOptions) (*ports.Artifact, error) {
	type row struct {
		sessionID string
		outcome   domain.ExecutionOutcome
		flat      map[string]string
	}

	// Primera pasada: aplanar payloads y acumular la unión de columnas.
	columnSet := make(map[string]struct{})
	rows := make([]row, 0)
	for _, s := range sessions {
		for _, o := range s.Outcomes {
			r := row{sessionID: s.ID, outcome: o}
			if o.Record != nil && o.Record.Succeeded {
				r.flat = o.Record.Payload.Flatten()
				for k := range r.flat {
					columnSet[k] = struct{}{}
				}
			}
			rows = append(rows, r)
		}
	}

	payloadColumns := make([]string, 0, len(columnSet))
	for k := range columnSet {
		payloadColumns = append(payloadColumns, k)
	}
	sort.Strings(payloadColumns)

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	header := append(append([]string{}, baseColumns...), payloadColumns...)
	if err := w.Write(header); err != nil {
		return nil, errors.Wrapf(errors.ErrExportFailed, "write CSV header: %v", err)
	}

	for _, r := range rows {
		cells := make([]string, 0, len(header))
		if rec := r.outcome.Record; rec != nil {
			cells = append(cells,
				r.sessionID,
				rec.UnitName,
				r.outcome.Status.String(),
				rec.Kind.String(),
				rec.Query,
				rec.StartedAt.Format(time.RFC3339),
				rec.FinishedAt.Format(time.RFC3339),
				strconv.FormatInt(rec.DurationMs, 10),
				rec.ErrorMessage,
			)
		} else {
			cells = append(cells, r.sessionID, "", r.outcome.Status.String(), "", "", "", "", "", "")
		}
		for _, col := range payloadColumns {
			cells = append(cells, r.flat[col])
		}
		if err := w.Write(cells); err != nil {
			return nil, errors.Wrapf(errors.ErrExportFailed, "write CSV row: %v", err)
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, errors.Wrapf(errors.ErrExportFailed, "flush CSV: %v", err)
	}

	path, err := resolvePath(sessions, opts, "csv")
	if err != nil {
		return nil, err
	}
	n, err := writeAtomic(path, buf.Bytes())
	if err != nil {
		return nil, err
	}

	e.logger.Info("exported", "path", path, "rows", len(rows), "bytes", n)
	return &ports.Artifact{Format: ports.FormatCSV, Path: path, Bytes: n}, nil
}

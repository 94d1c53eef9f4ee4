// internal/adapters/export/json.go
package export

import (
	"encoding/json"
	"os"

	"kirwada/internal/core/domain"
	"kirwada/internal/core/ports"
	"kirwada/internal/platform/errors"
	"kirwada/internal/platform/logx"
)

// jsonDocument es el envoltorio serializado: sesiones completas más la
// vista agregada. El árbol de payloads sobrevive un ciclo export/import
// sin pérdida.
type jsonDocument struct {
	Sessions  []*domain.SearchSession `json:"sessions"`
	Aggregate *ports.AggregateView    `json:"aggregate,omitempty"`
}

// JSONExporter serializa sesiones como documento JSON re-importable.
type JSONExporter struct {
	logger logx.Logger
}

// NewJSON crea un exporter JSON.
func NewJSON(logger logx.Logger) *JSONExporter {
	return &JSONExporter{logger: logger.With("exporter", "json")}
}

// Format implementa ports.Exporter.
func (e *JSONExporter) Format() ports.ExportFormat { return ports.FormatJSON }

// Export escribe el documento en disco de forma atómica.
func (e *JSONExporter) Export(sessions []*domain.SearchSession, view *ports.AggregateView, opts ports.ExportOptions) (*ports.Artifact, error) {
	doc := jsonDocument{Sessions: sessions, Aggregate: view}

	var (
		data []byte
		err  error
	)
	if opts.Pretty {
		data, err = json.MarshalIndent(doc, "", "  ")
	} else {
		data, err = json.Marshal(doc)
	}
	if err != nil {
		return nil, errors.Wrapf(errors.ErrExportFailed, "encode JSON: %v", err)
	}
	data = append(data, '\n')

	path, err := resolvePath(sessions, opts, "json")
	if err != nil {
		return nil, err
	}

	n, err := writeAtomic(path, data)
	if err != nil {
		return nil, err
	}

	e.logger.Info("exported", "path", path, "bytes", n)
	return &ports.Artifact{Format: ports.FormatJSON, Path: path, Bytes: n}, nil
}

// ImportJSON relee un documento exportado. Permite reanalizar sesiones
// pasadas sin repetir el despacho.
func ImportJSON(path string) ([]*domain.SearchSession, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "read %s", path)
	}

	var doc jsonDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, errors.Wrapf(err, "decode %s", path)
	}
	return doc.Sessions, nil
}

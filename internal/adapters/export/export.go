// internal/adapters/export/export.go

// Package export implementa los exporters de sesiones: JSON estructurado,
// CSV aplanado, snapshot SQLite e informe HTML.
package export

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"kirwada/internal/core/domain"
	"kirwada/internal/core/ports"
	"kirwada/internal/platform/errors"
	"kirwada/internal/platform/logx"
)

// maxQueryInFilename limita la parte de la query en el nombre autogenerado.
const maxQueryInFilename = 30

// For retorna el exporter del formato pedido.
func For(format ports.ExportFormat, logger logx.Logger) (ports.Exporter, error) {
	switch format {
	case ports.FormatJSON:
		return NewJSON(logger), nil
	case ports.FormatCSV:
		return NewCSV(logger), nil
	case ports.FormatSQLite:
		return NewSQLite(logger), nil
	case ports.FormatHTML:
		return NewHTML(logger), nil
	default:
		return nil, errors.Wrapf(errors.ErrUnsupportedFormat, "%q", format)
	}
}

// ExportAll ejecuta varios exporters sobre las mismas sesiones. Un formato
// que falla no impide a los demás; los errores se acumulan.
func ExportAll(formats []ports.ExportFormat, sessions []*domain.SearchSession, view *ports.AggregateView, opts ports.ExportOptions, logger logx.Logger) ([]*ports.Artifact, error) {
	artifacts := make([]*ports.Artifact, 0, len(formats))
	var errs []error

	for _, f := range formats {
		exp, err := For(f, logger)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		art, err := exp.Export(sessions, view, opts)
		if err != nil {
			logger.Err(err, "format", f.String())
			errs = append(errs, errors.Wrapf(err, "export %s", f))
			continue
		}
		artifacts = append(artifacts, art)
	}

	if len(errs) > 0 {
		return artifacts, errors.Join(errs...)
	}
	return artifacts, nil
}

// resolvePath decide la ruta destino: crea el directorio y autogenera el
// nombre `<query-saneada>_<timestamp>.<ext>` cuando no hay nombre explícito.
func resolvePath(sessions []*domain.SearchSession, opts ports.ExportOptions, ext string) (string, error) {
	dir := opts.OutputDir
	if dir == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", errors.Wrapf(errors.ErrExportFailed, "create output dir %s: %v", dir, err)
	}

	name := opts.Filename
	if name == "" {
		query := "session"
		if len(sessions) > 0 {
			query = sessions[0].Query
		}
		name = sanitizeQuery(query) + "_" + time.Now().Format("20060102_150405") + "." + ext
	}

	return filepath.Join(dir, name), nil
}

// sanitizeQuery reduce la query a [a-zA-Z0-9_-], truncada.
func sanitizeQuery(q string) string {
	var b strings.Builder
	for _, r := range q {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '_', r == '-':
			b.WriteRune(r)
		default:
			b.WriteRune('_')
		}
		if b.Len() >= maxQueryInFilename {
			break
		}
	}
	if b.Len() == 0 {
		return "session"
	}
	return b.String()
}

// writeAtomic escribe data en path vía archivo temporal + rename, para que
// nunca quede un artefacto parcial visible.
func writeAtomic(path string, data []byte) (int64, error) {
	dir := filepath.Dir(path)

	tmp, err := os.CreateTemp(dir, ".kirwada-*")
	if err != nil {
		return 0, errors.Wrapf(errors.ErrExportFailed, "create temp file: %v", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return 0, errors.Wrapf(errors.ErrExportFailed, "write %s: %v", path, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return 0, errors.Wrapf(errors.ErrExportFailed, "close temp file: %v", err)
	}

	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return 0, errors.Wrapf(errors.ErrExportFailed, "rename to %s: %v", path, err)
	}

	return int64(len(data)), nil
}

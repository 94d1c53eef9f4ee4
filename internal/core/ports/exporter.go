// internal/core/ports/exporter.go
package ports

import (
	"kirwada/internal/core/domain"
)

// ExportFormat identifica un formato de exportación soportado.
type ExportFormat string

const (
	// FormatJSON árbol estructurado sin pérdida, re-importable
	FormatJSON ExportFormat = "json"

	// FormatCSV tabla aplanada, una fila por outcome
	FormatCSV ExportFormat = "csv"

	// FormatSQLite snapshot relacional (tablas sessions y outcomes)
	FormatSQLite ExportFormat = "sqlite"

	// FormatHTML informe autocontenido legible por humanos
	FormatHTML ExportFormat = "html"
)

// IsValid verifica si el formato es válido.
func (f ExportFormat) IsValid() bool {
	switch f {
	case FormatJSON, FormatCSV, FormatSQLite, FormatHTML:
		return true
	default:
		return false
	}
}

// String retorna la representación string del formato.
func (f ExportFormat) String() string {
	return string(f)
}

// AllExportFormats retorna los formatos soportados en orden estable.
func AllExportFormats() []ExportFormat {
	return []ExportFormat{FormatJSON, FormatCSV, FormatSQLite, FormatHTML}
}

// Exporter es el port para serializar sesiones en un formato concreto.
// Toda escritura es atómica respecto al destino: o el artefacto completo
// se escribe o no se escribe nada.
type Exporter interface {
	// Format retorna el formato que produce el exporter
	Format() ExportFormat

	// Export escribe las sesiones en el destino y retorna el descriptor
	// del artefacto escrito.
	Export(sessions []*domain.SearchSession, view *AggregateView, opts ExportOptions) (*Artifact, error)
}

// ExportOptions configura una exportación.
type ExportOptions struct {
	// OutputDir directorio destino; se crea si no existe
	OutputDir string

	// Filename nombre de archivo explícito (vacío = autogenerado a partir
	// de la query saneada + timestamp)
	Filename string

	// Pretty formatea la salida para legibilidad (solo JSON)
	Pretty bool
}

// Artifact describe un artefacto de exportación ya escrito.
type Artifact struct {
	// Format formato del artefacto
	Format ExportFormat

	// Path ruta absoluta o relativa del archivo escrito
	Path string

	// Bytes tamaño del artefacto escrito
	Bytes int64
}

// AggregateView es la vista derivada que el aggregator produce sobre una
// sesión: contadores y campos deduplicados con procedencia. Los exporters
// la reciben ya materializada y no requieren locking.
type AggregateView struct {
	// Summary contadores por estado
	Summary domain.SessionSummary

	// Fields valores normalizados -> procedencia (orden estable en Keys)
	Fields map[string]*domain.DeduplicatedField
}

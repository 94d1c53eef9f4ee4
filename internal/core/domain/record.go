// internal/core/domain/record.go
package domain

import (
	"fmt"
	"time"
)

// ResultRecord es la salida estandarizada de la ejecución de una unit.
// Es inmutable una vez producido: exactamente uno de Payload (no vacío)
// o ErrorMessage está poblado con significado.
type ResultRecord struct {
	// UnitName identifica la unit que produjo el record
	UnitName string `json:"unit_name"`

	// Kind categoría de la consulta ejecutada
	Kind SearchKind `json:"search_kind"`

	// Query la consulta literal recibida
	Query string `json:"query"`

	// Succeeded indica si la unit obtuvo datos
	Succeeded bool `json:"succeeded"`

	// Payload árbol arbitrario de datos específico de la unit
	Payload Value `json:"payload"`

	// ErrorMessage presente si y solo si Succeeded es false
	ErrorMessage string `json:"error_message,omitempty"`

	// StartedAt momento de inicio de la ejecución
	StartedAt time.Time `json:"started_at"`

	// FinishedAt momento de finalización
	FinishedAt time.Time `json:"finished_at"`

	// DurationMs duración derivada en milisegundos
	DurationMs int64 `json:"duration_ms"`
}

// NewResultRecord construye un record exitoso con timestamps ya medidos.
func NewResultRecord(unitName string, kind SearchKind, query string, payload Value, started, finished time.Time) *ResultRecord {
	return &ResultRecord{
		UnitName:   unitName,
		Kind:       kind,
		Query:      query,
		Succeeded:  true,
		Payload:    payload,
		StartedAt:  started,
		FinishedAt: finished,
		DurationMs: finished.Sub(started).Milliseconds(),
	}
}

// NewFailureRecord construye un record fallido con su mensaje de error.
func NewFailureRecord(unitName string, kind SearchKind, query, errMsg string, started, finished time.Time) *ResultRecord {
	return &ResultRecord{
		UnitName:     unitName,
		Kind:         kind,
		Query:        query,
		Succeeded:    false,
		Payload:      NullValue(),
		ErrorMessage: errMsg,
		StartedAt:    started,
		FinishedAt:   finished,
		DurationMs:   finished.Sub(started).Milliseconds(),
	}
}

// IsValid verifica el invariante del record: payload o error, nunca ambos.
func (r *ResultRecord) IsValid() bool {
	if r.UnitName == "" || !r.Kind.IsValid() {
		return false
	}
	if r.Succeeded {
		return r.ErrorMessage == ""
	}
	return r.ErrorMessage != ""
}

// String retorna una representación legible del record.
func (r *ResultRecord) String() string {
	status := "ok"
	if !r.Succeeded {
		status = "error=" + r.ErrorMessage
	}
	return fmt.Sprintf("[%s] %s %q (%s, %dms)", r.UnitName, r.Kind, r.Query, status, r.DurationMs)
}

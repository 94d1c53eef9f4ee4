// internal/core/domain/session.go
package domain

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// SearchSession es el registro completo de un despacho (query, kind) sobre
// un conjunto de units. Los outcomes se colocan en orden de registro de las
// units, no en orden de finalización, para que dos despachos del mismo set
// sean comparables en layout. Una sesión es append-only hasta Finalize y
// queda congelada después.
type SearchSession struct {
	// ID identificador único de la sesión
	ID string `json:"id"`

	// Query la consulta literal
	Query string `json:"query"`

	// Kind categoría de la consulta
	Kind SearchKind `json:"search_kind"`

	// StartedAt momento de inicio del despacho
	StartedAt time.Time `json:"started_at"`

	// FinishedAt momento de finalización del despacho
	FinishedAt time.Time `json:"finished_at"`

	// Outcomes secuencia ordenada de resultados, una entrada por unit
	Outcomes []ExecutionOutcome `json:"outcomes"`

	// Summary contadores derivados por estado
	Summary SessionSummary `json:"summary"`

	// Version versión del binario que produjo la sesión
	Version string `json:"version,omitempty"`
}

// SessionSummary agrupa los contadores derivados de una sesión.
type SessionSummary struct {
	TotalUnits     int `json:"total_units"`
	SucceededCount int `json:"succeeded_count"`
	FailedCount    int `json:"failed_count"`
	TimedOutCount  int `json:"timedout_count"`
	SkippedCount   int `json:"skipped_count"`
	CancelledCount int `json:"cancelled_count"`
}

// NewSearchSession crea una sesión vacía para un despacho que comienza ahora.
func NewSearchSession(query string, kind SearchKind) *SearchSession {
	return &SearchSession{
		ID:        uuid.NewString(),
		Query:     query,
		Kind:      kind,
		StartedAt: time.Now(),
		Outcomes:  []ExecutionOutcome{},
	}
}

// Finalize fija FinishedAt y recalcula los contadores del summary.
func (s *SearchSession) Finalize() {
	s.FinishedAt = time.Now()
	s.Summary = s.ComputeSummary()
}

// ComputeSummary cuenta outcomes por estado. Un outcome Completed cuyo
// record reporta Succeeded=false cuenta como fallo de la unit.
func (s *SearchSession) ComputeSummary() SessionSummary {
	sum := SessionSummary{TotalUnits: len(s.Outcomes)}
	for _, o := range s.Outcomes {
		switch o.Status {
		case StatusCompleted:
			if o.Record != nil && o.Record.Succeeded {
				sum.SucceededCount++
			} else {
				sum.FailedCount++
			}
		case StatusFailed:
			sum.FailedCount++
		case StatusTimedOut:
			sum.TimedOutCount++
		case StatusSkipped:
			sum.SkippedCount++
		case StatusCancelled:
			sum.CancelledCount++
		}
	}
	return sum
}

// Duration retorna la duración total del despacho.
func (s *SearchSession) Duration() time.Duration {
	if s.FinishedAt.IsZero() {
		return 0
	}
	return s.FinishedAt.Sub(s.StartedAt)
}

// SucceededOutcomes retorna los outcomes cuyos records reportaron datos.
func (s *SearchSession) SucceededOutcomes() []ExecutionOutcome {
	out := make([]ExecutionOutcome, 0)
	for _, o := range s.Outcomes {
		if o.Status == StatusCompleted && o.Record != nil && o.Record.Succeeded {
			out = append(out, o)
		}
	}
	return out
}

// OutcomesByUnit retorna los outcomes producidos por una unit concreta.
func (s *SearchSession) OutcomesByUnit(unitName string) []ExecutionOutcome {
	out := make([]ExecutionOutcome, 0)
	for _, o := range s.Outcomes {
		if o.Record != nil && o.Record.UnitName == unitName {
			out = append(out, o)
		}
	}
	return out
}

// Summary legible para logging.
func (s *SearchSession) String() string {
	return fmt.Sprintf("SearchSession{query=%q, kind=%s, outcomes=%d, ok=%d, failed=%d, timedout=%d}",
		s.Query, s.Kind, len(s.Outcomes), s.Summary.SucceededCount, s.Summary.FailedCount, s.Summary.TimedOutCount)
}

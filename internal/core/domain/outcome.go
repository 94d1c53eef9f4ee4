// internal/core/domain/outcome.go
package domain

import "time"

// ExecutionOutcome envuelve un ResultRecord con el estado a nivel de despacho.
// Los estados Failed, TimedOut y Cancelled sintetizan un record con
// Succeeded=false y un ErrorMessage descriptivo; la ejecución original, si
// sigue viva, queda abandonada (su resultado eventual se descarta).
type ExecutionOutcome struct {
	// Status estado de despacho de la unit
	Status OutcomeStatus `json:"status"`

	// Record resultado estandarizado (sintetizado para estados no-completed)
	Record *ResultRecord `json:"record"`
}

// CompletedOutcome construye un outcome para una unit que terminó a tiempo.
// El status final es Completed aunque el record reporte Succeeded=false:
// un "no encontrado" devuelto por la unit no es un fallo de despacho.
func CompletedOutcome(record *ResultRecord) ExecutionOutcome {
	return ExecutionOutcome{Status: StatusCompleted, Record: record}
}

// FailedOutcome construye un outcome para una unit cuyo contrato de
// ejecución falló (error retornado o panic capturado).
func FailedOutcome(unitName string, kind SearchKind, query, errMsg string, started, finished time.Time) ExecutionOutcome {
	return ExecutionOutcome{
		Status: StatusFailed,
		Record: NewFailureRecord(unitName, kind, query, errMsg, started, finished),
	}
}

// TimedOutOutcome construye un outcome para una unit que agotó su timeout.
func TimedOutOutcome(unitName string, kind SearchKind, query string, timeout time.Duration, started time.Time) ExecutionOutcome {
	finished := started.Add(timeout)
	return ExecutionOutcome{
		Status: StatusTimedOut,
		Record: NewFailureRecord(unitName, kind, query,
			"unit did not finish within "+timeout.String(), started, finished),
	}
}

// SkippedOutcome construye un outcome para una unit que no soporta el kind.
func SkippedOutcome(unitName string, kind SearchKind, query string, at time.Time) ExecutionOutcome {
	return ExecutionOutcome{
		Status: StatusSkipped,
		Record: NewFailureRecord(unitName, kind, query,
			"unit does not support search kind "+kind.String(), at, at),
	}
}

// CancelledOutcome construye un outcome para una unit cuya ejecución fue
// abandonada o nunca comenzó por cancelación del caller.
func CancelledOutcome(unitName string, kind SearchKind, query string, started, at time.Time) ExecutionOutcome {
	return ExecutionOutcome{
		Status: StatusCancelled,
		Record: NewFailureRecord(unitName, kind, query, "dispatch cancelled by caller", started, at),
	}
}

// internal/core/domain/enums.go
package domain

// SearchKind define la categoría de una consulta.
// Cada unit declara el subconjunto de kinds que soporta.
type SearchKind string

const (
	// KindUsername búsquedas de identidad/handle en plataformas
	KindUsername SearchKind = "username"

	// KindEmail búsquedas sobre direcciones de correo
	KindEmail SearchKind = "email"

	// KindDomain búsquedas sobre dominios DNS
	KindDomain SearchKind = "domain"

	// KindURL búsquedas sobre URLs concretas
	KindURL SearchKind = "url"

	// KindPhone búsquedas sobre números de teléfono
	KindPhone SearchKind = "phone"

	// KindIP búsquedas sobre direcciones de red
	KindIP SearchKind = "ip"
)

// AllSearchKinds retorna todos los kinds soportados, en orden estable.
func AllSearchKinds() []SearchKind {
	return []SearchKind{KindUsername, KindEmail, KindDomain, KindURL, KindPhone, KindIP}
}

// IsValid verifica si el kind es válido.
func (k SearchKind) IsValid() bool {
	switch k {
	case KindUsername, KindEmail, KindDomain, KindURL, KindPhone, KindIP:
		return true
	default:
		return false
	}
}

// String retorna la representación string del kind.
func (k SearchKind) String() string {
	return string(k)
}

// OutcomeStatus define el estado de despacho de la ejecución de una unit.
type OutcomeStatus string

const (
	// StatusCompleted la unit terminó dentro de su presupuesto de tiempo
	StatusCompleted OutcomeStatus = "completed"

	// StatusFailed la ejecución de la unit falló (error propio o panic capturado)
	StatusFailed OutcomeStatus = "failed"

	// StatusTimedOut la unit no terminó dentro del timeout por-unit
	StatusTimedOut OutcomeStatus = "timedout"

	// StatusSkipped la unit no declara soporte para el kind solicitado
	StatusSkipped OutcomeStatus = "skipped"

	// StatusCancelled el caller canceló el despacho antes de ejecutar la unit
	StatusCancelled OutcomeStatus = "cancelled"
)

// IsValid verifica si el estado es válido.
func (s OutcomeStatus) IsValid() bool {
	switch s {
	case StatusCompleted, StatusFailed, StatusTimedOut, StatusSkipped, StatusCancelled:
		return true
	default:
		return false
	}
}

// String retorna la representación string del estado.
func (s OutcomeStatus) String() string {
	return string(s)
}

// UnitType clasifica units por su tipo de implementación.
type UnitType string

const (
	// UnitTypeAPI units que consumen APIs HTTP/REST
	UnitTypeAPI UnitType = "api"

	// UnitTypeCLI units que ejecutan binarios externos
	UnitTypeCLI UnitType = "cli"

	// UnitTypeBuiltin units implementadas nativamente en Go
	UnitTypeBuiltin UnitType = "builtin"
)

// IsValid verifica si el tipo de unit es válido.
func (t UnitType) IsValid() bool {
	switch t {
	case UnitTypeAPI, UnitTypeCLI, UnitTypeBuiltin:
		return true
	default:
		return false
	}
}

// String retorna la representación string del tipo.
func (t UnitType) String() string {
	return string(t)
}

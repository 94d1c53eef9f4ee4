// internal/core/ports/unit.go
package ports

import (
	"context"
	"time"

	"kirwada/internal/core/domain"
)

// Unit es el port primario para todas las unidades de búsqueda.
// Cualquier unit (API, CLI, builtin) debe implementar esta interfaz.
//
// Run no debe retornar error para modos de fallo esperados (errores de red,
// not-found, rate limits): en esos casos retorna un ResultRecord con
// Succeeded=false y ErrorMessage poblado. Errores inesperados sí pueden
// propagarse; el dispatcher los captura y los convierte en outcomes Failed,
// así que las units no necesitan ser exhaustivamente defensivas.
type Unit interface {
	// Name retorna el nombre único de la unit (ej: "dnslookup", "hibp")
	Name() string

	// Type retorna el tipo de implementación (api, cli, builtin)
	Type() domain.UnitType

	// Kinds retorna los search kinds que la unit declara soportar
	Kinds() []domain.SearchKind

	// SupportsKind verifica si la unit soporta un kind concreto
	SupportsKind(kind domain.SearchKind) bool

	// Run ejecuta la búsqueda y retorna el record estandarizado
	Run(ctx context.Context, query string, kind domain.SearchKind) (*domain.ResultRecord, error)

	// Close libera recursos utilizados por la unit (conexiones, procesos)
	Close() error
}

// UnitConfig contiene la configuración específica de una unit.
type UnitConfig struct {
	// Enabled indica si la unit está habilitada
	Enabled bool `yaml:"enabled"`

	// Timeout tiempo máximo de ejecución por despacho
	Timeout time.Duration `yaml:"timeout"`

	// RateLimit límite de peticiones por segundo (0 = sin límite)
	RateLimit float64 `yaml:"rate_limit"`

	// APIKeyName clave en el credential store (vacío = sin credencial)
	APIKeyName string `yaml:"api_key_name"`

	// Custom configuración específica de la unit (endpoints, paths, etc.)
	Custom map[string]string `yaml:"custom"`
}

// DefaultUnitConfig retorna una configuración por defecto.
func DefaultUnitConfig() UnitConfig {
	return UnitConfig{
		Enabled:   true,
		Timeout:   30 * time.Second,
		RateLimit: 0,
		Custom:    make(map[string]string),
	}
}

// CredentialStore es una fuente read-only de secretos que las units pueden
// consultar. El core nunca persiste ni loguea valores de este store.
type CredentialStore interface {
	// Credential retorna el secreto bajo (service, key), y si existe
	Credential(service, key string) (string, bool)
}

// UnitMetadata contiene metadatos sobre una unit registrada.
type UnitMetadata struct {
	Name         string
	Description  string
	Type         domain.UnitType
	Kinds        []domain.SearchKind
	RequiresAuth bool
}

// SupportsKind verifica si el metadata declara soporte para un kind.
func (m UnitMetadata) SupportsKind(kind domain.SearchKind) bool {
	for _, k := range m.Kinds {
		if k == kind {
			return true
		}
	}
	return false
}

// internal/platform/registry/unit_registry.go
package registry

import (
	"fmt"
	"sort"
	"sync"

	"kirwada/internal/core/domain"
	"kirwada/internal/core/ports"
	"kirwada/internal/platform/errors"
	"kirwada/internal/platform/logx"
)

// UnitFactory es una función que crea una instancia de Unit.
type UnitFactory func(cfg ports.UnitConfig, creds ports.CredentialStore, logger logx.Logger) (ports.Unit, error)

// UnitRegistry gestiona el registro y construcción de units. Implementa el
// patrón Registry + Factory: las units se registran en init() de su package
// y el shell las construye desde configuración, sin escaneo dinámico ni
// reflection.
type UnitRegistry struct {
	mu        sync.RWMutex
	factories map[string]UnitFactory
	metadata  map[string]ports.UnitMetadata
	order     []string // orden de registro, determinista para el despacho
	logger    logx.Logger
}

// globalRegistry es la instancia global del registry.
var globalRegistry *UnitRegistry
var once sync.Once

// Global retorna la instancia global del registry.
func Global() *UnitRegistry {
	once.Do(func() {
		globalRegistry = NewUnitRegistry(logx.New())
	})
	return globalRegistry
}

// NewUnitRegistry crea un nuevo registry de units.
func NewUnitRegistry(logger logx.Logger) *UnitRegistry {
	return &UnitRegistry{
		factories: make(map[string]UnitFactory),
		metadata:  make(map[string]ports.UnitMetadata),
		logger:    logger.With("component", "unit-registry"),
	}
}

// Register registra una unit factory con su metadata.
// Típicamente llamado desde init() de cada unit package.
func (r *UnitRegistry) Register(name string, factory UnitFactory, meta ports.UnitMetadata) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if name == "" {
		return fmt.Errorf("unit name cannot be empty")
	}
	if factory == nil {
		return fmt.Errorf("factory cannot be nil for unit %s", name)
	}
	if _, exists := r.factories[name]; exists {
		return fmt.Errorf("unit %s is already registered", name)
	}

	r.factories[name] = factory
	r.metadata[name] = meta
	r.order = append(r.order, name)
	r.logger.Debug("unit registered", "name", name, "type", meta.Type, "kinds", len(meta.Kinds))

	return nil
}

// Build construye todas las units habilitadas según la configuración, en
// orden de registro. Units no registradas o cuyo factory falla se reportan
// como warning y se omiten; el despacho puede continuar con el resto.
func (r *UnitRegistry) Build(configs map[string]ports.UnitConfig, creds ports.CredentialStore, logger logx.Logger) ([]ports.Unit, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if configs == nil {
		return nil, fmt.Errorf("configs cannot be nil")
	}
	if logger == nil {
		return nil, fmt.Errorf("logger cannot be nil")
	}

	units := make([]ports.Unit, 0, len(r.order))
	var buildErrs []error

	for _, name := range r.order {
		cfg, ok := configs[name]
		if !ok {
			cfg = ports.DefaultUnitConfig()
		}
		if !cfg.Enabled {
			r.logger.Debug("unit disabled, skipping", "unit", name)
			continue
		}

		factory := r.factories[name]
		unit, err := factory(cfg, creds, logger)
		if err != nil {
			buildErrs = append(buildErrs, fmt.Errorf("failed to build unit %s: %w", name, err))
			continue
		}

		units = append(units, unit)
		r.logger.Debug("unit built", "name", name, "type", r.metadata[name].Type)
	}

	for _, err := range buildErrs {
		r.logger.Warn("unit build error", "error", err.Error())
	}

	if len(units) == 0 && len(r.order) > 0 {
		return nil, errors.Wrap(errors.ErrNoUnitsAvailable, "no units could be built")
	}

	logger.Info("units built", "count", len(units), "registered", len(r.order))
	return units, nil
}

// UnitsSupporting filtra un set de units por kind declarado, preservando orden.
func UnitsSupporting(units []ports.Unit, kind domain.SearchKind) []ports.Unit {
	out := make([]ports.Unit, 0, len(units))
	for _, u := range units {
		if u.SupportsKind(kind) {
			out = append(out, u)
		}
	}
	return out
}

// List retorna los nombres de todas las units registradas, ordenados.
func (r *UnitRegistry) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.factories))
	for name := range r.factories {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// GetMetadata retorna el metadata de una unit.
func (r *UnitRegistry) GetMetadata(name string) (ports.UnitMetadata, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	meta, exists := r.metadata[name]
	return meta, exists
}

// GetAllMetadata retorna el metadata de todas las units registradas.
func (r *UnitRegistry) GetAllMetadata() map[string]ports.UnitMetadata {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make(map[string]ports.UnitMetadata, len(r.metadata))
	for name, meta := range r.metadata {
		result[name] = meta
	}
	return result
}

// IsRegistered verifica si una unit está registrada.
func (r *UnitRegistry) IsRegistered(name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	_, exists := r.factories[name]
	return exists
}

// Clear elimina todas las units registradas (útil para testing).
func (r *UnitRegistry) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.factories = make(map[string]UnitFactory)
	r.metadata = make(map[string]ports.UnitMetadata)
	r.order = nil
}

// internal/units/namehunt/registry.go
package namehunt

import (
	"kirwada/internal/core/domain"
	"kirwada/internal/core/ports"
	"kirwada/internal/platform/logx"
	"kirwada/internal/platform/registry"
)

// Auto-registro de la unit al importar el package
func init() {
	if err := registry.Global().Register(
		unitName,
		func(cfg ports.UnitConfig, creds ports.CredentialStore, logger logx.Logger) (ports.Unit, error) {
			return New(logger, cfg), nil
		},
		ports.UnitMetadata{
			Name:         unitName,
			Description:  "Username presence probes across known platforms",
			Type:         domain.UnitTypeAPI,
			Kinds:        []domain.SearchKind{domain.KindUsername},
			RequiresAuth: false,
		},
	); err != nil {
		logx.New().Warn("failed to register namehunt unit", "error", err.Error())
	}
}

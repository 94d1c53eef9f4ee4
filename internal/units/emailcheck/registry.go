// internal/units/emailcheck/registry.go
package emailcheck

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
			return New(logger), nil
		},
		ports.UnitMetadata{
			Name:         unitName,
			Description:  "Email syntax validation and MX deliverability check",
			Type:         domain.UnitTypeBuiltin,
			Kinds:        []domain.SearchKind{domain.KindEmail},
			RequiresAuth: false,
		},
	); err != nil {
		logx.New().Warn("failed to register emailcheck unit", "error", err.Error())
	}
}

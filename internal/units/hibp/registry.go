// internal/units/hibp/registry.go
package hibp

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
			return New(logger, cfg, creds), nil
		},
		ports.UnitMetadata{
			Name:         unitName,
			Description:  "Known data breaches for an email via Have I Been Pwned",
			Type:         domain.UnitTypeAPI,
			Kinds:        []domain.SearchKind{domain.KindEmail},
			RequiresAuth: true,
		},
	); err != nil {
		logx.New().Warn("failed to register hibp unit", "error", err.Error())
	}
}

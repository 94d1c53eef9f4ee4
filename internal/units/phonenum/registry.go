// internal/units/phonenum/registry.go
package phonenum

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
			Description:  "Phone number validity, region, carrier and formats (libphonenumber)",
			Type:         domain.UnitTypeBuiltin,
			Kinds:        []domain.SearchKind{domain.KindPhone},
			RequiresAuth: false,
		},
	); err != nil {
		logx.New().Warn("failed to register phonenum unit", "error", err.Error())
	}
}

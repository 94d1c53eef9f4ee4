// internal/units/webpage/registry.go
package webpage

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
			Description:  "Web page analysis: title, metadata, links and emails",
			Type:         domain.UnitTypeAPI,
			Kinds:        []domain.SearchKind{domain.KindURL},
			RequiresAuth: false,
		},
	); err != nil {
		logx.New().Warn("failed to register webpage unit", "error", err.Error())
	}
}

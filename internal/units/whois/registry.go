// internal/units/whois/registry.go
package whois

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
			execPath := ""
			if cfg.Custom != nil {
				execPath = cfg.Custom["exec_path"]
			}
			return New(logger, execPath), nil
		},
		ports.UnitMetadata{
			Name:         unitName,
			Description:  "Domain and IP registration data via the system whois binary",
			Type:         domain.UnitTypeCLI,
			Kinds:        []domain.SearchKind{domain.KindDomain, domain.KindIP},
			RequiresAuth: false,
		},
	); err != nil {
		logx.New().Warn("failed to register whois unit", "error", err.Error())
	}
}

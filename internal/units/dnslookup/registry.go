// internal/units/dnslookup/registry.go
package dnslookup

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
			Description:  "DNS record resolution (A, AAAA, MX, NS, TXT, CNAME, PTR)",
			Type:         domain.UnitTypeBuiltin,
			Kinds:        []domain.SearchKind{domain.KindDomain, domain.KindIP},
			RequiresAuth: false,
		},
	); err != nil {
		logx.New().Warn("failed to register dnslookup unit", "error", err.Error())
	}
}

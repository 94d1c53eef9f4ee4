// internal/units/emailcheck/emailcheck.go

// Package emailcheck implementa la unit builtin de verificación de emails:
// sintaxis, dominio resoluble y presencia de registros MX.
package emailcheck

import (
	"context"
	"net"
	"sort"
	"strings"
	"time"

	"kirwada/internal/core/domain"
	"kirwada/internal/platform/logx"
	"kirwada/internal/platform/validator"
)

const unitName = "emailcheck"

// Unit verifica la entregabilidad aparente de una dirección de email.
type Unit struct {
	logger   logx.Logger
	resolver *net.Resolver
}

// New crea la unit con el resolver del sistema.
func New(logger logx.Logger) *Unit {
	return &Unit{
		logger:   logger.With("unit", unitName),
		resolver: net.DefaultResolver,
	}
}

// Name implementa ports.Unit.
func (u *Unit) Name() string { return unitName }

// Type implementa ports.Unit.
func (u *Unit) Type() domain.UnitType { return domain.UnitTypeBuiltin }

// Kinds implementa ports.Unit.
func (u *Unit) Kinds() []domain.SearchKind {
	return []domain.SearchKind{domain.KindEmail}
}

// SupportsKind implementa ports.Unit.
func (u *Unit) SupportsKind(kind domain.SearchKind) bool {
	return kind == domain.KindEmail
}

// Close implementa ports.Unit.
func (u *Unit) Close() error { return nil }

// Run valida el email. Una dirección sintácticamente inválida o sin MX es
// un resultado con datos (valid=false), no un fallo de la unit.
func (u *Unit) Run(ctx context.Context, query string, kind domain.SearchKind) (*domain.ResultRecord, error) {
	started := time.Now()
	email := validator.NormalizeEmail(query)

	fields := map[string]domain.Value{
		"emails": domain.StringListValue([]string{email}),
	}

	if !validator.IsEmail(email) {
		fields["valid_syntax"] = domain.BoolValue(false)
		fields["deliverable"] = domain.BoolValue(false)
		return domain.NewResultRecord(unitName, kind, query, domain.MapValue(fields), started, time.Now()), nil
	}
	fields["valid_syntax"] = domain.BoolValue(true)

	_, domainPart, _ := strings.Cut(email, "@")
	fields["domain"] = domain.StringValue(domainPart)

	mx, err := u.resolver.LookupMX(ctx, domainPart)
	if ctxErr := ctx.Err(); ctxErr != nil {
		return nil, ctxErr
	}
	if err != nil || len(mx) == 0 {
		fields["has_mx"] = domain.BoolValue(false)
		fields["deliverable"] = domain.BoolValue(false)
		return domain.NewResultRecord(unitName, kind, query, domain.MapValue(fields), started, time.Now()), nil
	}

	hosts := make([]string, 0, len(mx))
	for _, m := range mx {
		hosts = append(hosts, strings.TrimSuffix(m.Host, "."))
	}
	sort.Strings(hosts)

	fields["has_mx"] = domain.BoolValue(true)
	fields["deliverable"] = domain.BoolValue(true)
	fields["mx"] = domain.StringListValue(hosts)

	return domain.NewResultRecord(unitName, kind, query, domain.MapValue(fields), started, time.Now()), nil
}

// internal/units/dnslookup/dnslookup.go

// Package dnslookup implementa la unit builtin de resolución DNS: registros
// A, AAAA, MX, NS, TXT y CNAME para dominios, y PTR inverso para IPs.
package dnslookup

import (
	"context"
	"net"
	"sort"
	"strings"
	"time"

	"golang.org/x/net/publicsuffix"

	"kirwada/internal/core/domain"
	"kirwada/internal/platform/logx"
	"kirwada/internal/platform/validator"
)

const unitName = "dnslookup"

// Unit resuelve registros DNS con el resolver del sistema.
type Unit struct {
	logger   logx.Logger
	resolver *net.Resolver
}

// New crea la unit con el resolver por defecto.
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
	return []domain.SearchKind{domain.KindDomain, domain.KindIP}
}

// SupportsKind implementa ports.Unit.
func (u *Unit) SupportsKind(kind domain.SearchKind) bool {
	return kind == domain.KindDomain || kind == domain.KindIP
}

// Close implementa ports.Unit.
func (u *Unit) Close() error { return nil }

// Run resuelve los registros del dominio o el PTR de la IP. Un dominio que
// no resuelve ningún registro es un resultado "sin datos", no un fallo.
func (u *Unit) Run(ctx context.Context, query string, kind domain.SearchKind) (*domain.ResultRecord, error) {
	started := time.Now()

	if kind == domain.KindIP {
		return u.reverseLookup(ctx, query, started)
	}

	name := validator.NormalizeDomain(query)
	fields := make(map[string]domain.Value)

	if addrs := u.lookupHosts(ctx, name); len(addrs["a"]) > 0 || len(addrs["aaaa"]) > 0 {
		if len(addrs["a"]) > 0 {
			fields["a"] = domain.StringListValue(addrs["a"])
		}
		if len(addrs["aaaa"]) > 0 {
			fields["aaaa"] = domain.StringListValue(addrs["aaaa"])
		}
	}

	if mx, err := u.resolver.LookupMX(ctx, name); err == nil && len(mx) > 0 {
		hosts := make([]string, 0, len(mx))
		for _, m := range mx {
			hosts = append(hosts, strings.TrimSuffix(m.Host, "."))
		}
		fields["mx"] = domain.StringListValue(hosts)
	}

	if ns, err := u.resolver.LookupNS(ctx, name); err == nil && len(ns) > 0 {
		hosts := make([]string, 0, len(ns))
		for _, n := range ns {
			hosts = append(hosts, strings.TrimSuffix(n.Host, "."))
		}
		sort.Strings(hosts)
		fields["ns"] = domain.StringListValue(hosts)
	}

	if txt, err := u.resolver.LookupTXT(ctx, name); err == nil && len(txt) > 0 {
		fields["txt"] = domain.StringListValue(txt)
	}

	if cname, err := u.resolver.LookupCNAME(ctx, name); err == nil {
		cname = strings.TrimSuffix(cname, ".")
		if cname != "" && cname != name {
			fields["cname"] = domain.StringValue(cname)
		}
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if len(fields) == 0 {
		return domain.NewFailureRecord(unitName, kind, query,
			"no DNS records resolved for "+name, started, time.Now()), nil
	}

	fields["domain"] = domain.StringValue(name)

	if suffix, icann := publicsuffix.PublicSuffix(name); suffix != "" {
		fields["public_suffix"] = domain.StringValue(suffix)
		fields["icann_managed"] = domain.BoolValue(icann)
	}
	if etld1, err := publicsuffix.EffectiveTLDPlusOne(name); err == nil {
		fields["registrable_domain"] = domain.StringValue(etld1)
	}

	return domain.NewResultRecord(unitName, kind, query, domain.MapValue(fields), started, time.Now()), nil
}

// lookupHosts separa direcciones IPv4 e IPv6 de LookupIPAddr.
func (u *Unit) lookupHosts(ctx context.Context, name string) map[string][]string {
	out := map[string][]string{}
	addrs, err := u.resolver.LookupIPAddr(ctx, name)
	if err != nil {
		return out
	}
	for _, a := range addrs {
		if v4 := a.IP.To4(); v4 != nil {
			out["a"] = append(out["a"], v4.String())
		} else {
			out["aaaa"] = append(out["aaaa"], a.IP.String())
		}
	}
	sort.Strings(out["a"])
	sort.Strings(out["aaaa"])
	return out
}

func (u *Unit) reverseLookup(ctx context.Context, query string, started time.Time) (*domain.ResultRecord, error) {
	names, err := u.resolver.LookupAddr(ctx, strings.TrimSpace(query))
	if ctxErr := ctx.Err(); ctxErr != nil {
		return nil, ctxErr
	}
	if err != nil || len(names) == 0 {
		return domain.NewFailureRecord(unitName, domain.KindIP, query,
			"no PTR records for "+query, started, time.Now()), nil
	}

	trimmed := make([]string, 0, len(names))
	for _, n := range names {
		trimmed = append(trimmed, strings.TrimSuffix(n, "."))
	}
	sort.Strings(trimmed)

	payload := domain.MapValue(map[string]domain.Value{
		"ip":        domain.StringValue(strings.TrimSpace(query)),
		"hostnames": domain.StringListValue(trimmed),
	})
	return domain.NewResultRecord(unitName, domain.KindIP, query, payload, started, time.Now()), nil
}

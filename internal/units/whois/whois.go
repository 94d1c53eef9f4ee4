// internal/units/whois/whois.go

// Package whois implementa la unit CLI que envuelve el binario whois del
// sistema y estructura su salida de texto plano.
package whois

import (
	"context"
	"sort"
	"strings"
	"time"

	"kirwada/internal/core/domain"
	"kirwada/internal/platform/logx"
	"kirwada/internal/units/common"
)

const unitName = "whois"

// Unit ejecuta el binario whois y parsea los pares clave: valor relevantes.
type Unit struct {
	logger logx.Logger
	runner *common.CLIRunner

	resolved bool
}

// New crea la unit apuntando al binario indicado ("whois" si está vacío).
func New(logger logx.Logger, execPath string) *Unit {
	if execPath == "" {
		execPath = "whois"
	}
	return &Unit{
		logger: logger.With("unit", unitName),
		runner: common.NewCLIRunner(logger, execPath),
	}
}

// Name implementa ports.Unit.
func (u *Unit) Name() string { return unitName }

// Type implementa ports.Unit.
func (u *Unit) Type() domain.UnitType { return domain.UnitTypeCLI }

// Kinds implementa ports.Unit.
func (u *Unit) Kinds() []domain.SearchKind {
	return []domain.SearchKind{domain.KindDomain, domain.KindIP}
}

// SupportsKind implementa ports.Unit.
func (u *Unit) SupportsKind(kind domain.SearchKind) bool {
	return kind == domain.KindDomain || kind == domain.KindIP
}

// Close implementa ports.Unit.
func (u *Unit) Close() error { return u.runner.Close() }

// Run ejecuta whois sobre la query. Un binario ausente o una salida vacía
// son fallos de la unit, no errores de despacho.
func (u *Unit) Run(ctx context.Context, query string, kind domain.SearchKind) (*domain.ResultRecord, error) {
	started := time.Now()

	if !u.resolved {
		if err := u.runner.Resolve(); err != nil {
			return domain.NewFailureRecord(unitName, kind, query, err.Error(), started, time.Now()), nil
		}
		u.resolved = true
	}

	stdout, stderr, err := u.runner.Run(ctx, strings.TrimSpace(query))
	if ctxErr := ctx.Err(); ctxErr != nil {
		return nil, ctxErr
	}
	if err != nil && strings.TrimSpace(stdout) == "" {
		msg := err.Error()
		if s := strings.TrimSpace(stderr); s != "" {
			msg = s
		}
		return domain.NewFailureRecord(unitName, kind, query, msg, started, time.Now()), nil
	}

	payload := ParseOutput(stdout)
	if payload.IsEmpty() {
		return domain.NewFailureRecord(unitName, kind, query,
			"no whois data for "+query, started, time.Now()), nil
	}

	return domain.NewResultRecord(unitName, kind, query, payload, started, time.Now()), nil
}

// fieldAliases mapea claves whois habituales a nombres canónicos. Los
// registries varían en capitalización y redacción; se compara en minúsculas.
var fieldAliases = map[string]string{
	"registrar":             "registrar",
	"sponsoring registrar":  "registrar",
	"creation date":         "created",
	"created":               "created",
	"registered on":         "created",
	"registry expiry date":  "expires",
	"expiry date":           "expires",
	"expiration date":       "expires",
	"updated date":          "updated",
	"last-update":           "updated",
	"registrant":            "registrant",
	"registrant name":       "registrant",
	"registrant organization": "registrant_org",
	"org":                   "registrant_org",
	"organisation":          "registrant_org",
	"registrant country":    "country",
	"country":               "country",
	"registrant email":      "emails",
	"admin email":           "emails",
	"tech email":            "emails",
	"netname":               "netname",
	"origin":                "asn",
	"originas":              "asn",
}

// ParseOutput estructura la salida de whois: claves canónicas escalares,
// name servers y status como listas, y emails deduplicados.
func ParseOutput(raw string) domain.Value {
	fields := make(map[string]domain.Value)
	nameServers := make(map[string]struct{})
	statuses := make(map[string]struct{})
	emails := make(map[string]struct{})

	for _, line := range strings.Split(raw, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "%") || strings.HasPrefix(line, "#") ||
			strings.HasPrefix(line, ">>>") {
			continue
		}

		key, value, ok := strings.Cut(line, ":")
		if !ok {
			continue
		}
		key = strings.ToLower(strings.TrimSpace(key))
		value = strings.TrimSpace(value)
		if value == "" {
			continue
		}

		switch key {
		case "name server", "nserver", "nameserver":
			nameServers[strings.ToLower(strings.Fields(value)[0])] = struct{}{}
			continue
		case "domain status", "status":
			// "clientTransferProhibited https://icann.org/..." -> solo el código
			statuses[strings.Fields(value)[0]] = struct{}{}
			continue
		}

		canon, ok := fieldAliases[key]
		if !ok {
			continue
		}
		if canon == "emails" {
			emails[strings.ToLower(value)] = struct{}{}
			continue
		}
		if _, exists := fields[canon]; !exists {
			fields[canon] = domain.StringValue(value)
		}
	}

	if len(nameServers) > 0 {
		fields["name_servers"] = domain.StringListValue(sortedKeys(nameServers))
	}
	if len(statuses) > 0 {
		fields["status"] = domain.StringListValue(sortedKeys(statuses))
	}
	if len(emails) > 0 {
		fields["emails"] = domain.StringListValue(sortedKeys(emails))
	}

	if len(fields) == 0 {
		return domain.NullValue()
	}
	return domain.MapValue(fields)
}

func sortedKeys(set map[string]struct{}) []string {
	out := make([]string, 0, len(set))
	for k := range set {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// internal/platform/validator/validator.go
package validator

import (
	"net"
	"net/url"
	"regexp"
	"strings"

	"kirwada/internal/core/domain"
)

// Domain validators

var domainRegex = regexp.MustCompile(`^([a-zA-Z0-9]([a-zA-Z0-9\-]{0,61}[a-zA-Z0-9])?\.)+[a-zA-Z]{2,}$`)

// IsDomain verifica si un string es un dominio válido.
// Soporta dominios internacionales en forma punycode.
func IsDomain(d string) bool {
	if len(d) == 0 || len(d) > 253 {
		return false
	}
	if !domainRegex.MatchString(d) {
		return false
	}
	// No aceptar una IP como dominio
	return net.ParseIP(d) == nil
}

// NormalizeDomain normaliza un dominio a su forma canónica.
func NormalizeDomain(d string) string {
	d = strings.ToLower(strings.TrimSpace(d))
	d = strings.TrimSuffix(d, ".")
	d = strings.TrimPrefix(d, "www.")
	return d
}

// Email validators

var emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)

// IsEmail valida formato de email (RFC 5322 simplificado).
func IsEmail(email string) bool {
	if len(email) == 0 || len(email) > 254 {
		return false
	}
	return emailRegex.MatchString(email)
}

// NormalizeEmail normaliza un email a su forma canónica.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Network validators

// IsIP verifica si un string es una dirección IP válida (v4 o v6).
func IsIP(ip string) bool {
	return net.ParseIP(ip) != nil
}

// URL validators

// IsURL verifica si un string es una URL http(s) absoluta.
func IsURL(raw string) bool {
	u, err := url.Parse(raw)
	if err != nil {
		return false
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return false
	}
	return u.Host != ""
}

// Identity validators

var usernameRegex = regexp.MustCompile(`^[a-zA-Z0-9._\-]{1,64}$`)

// IsUsername valida que un handle sea razonable: alfanumérico con
// separadores comunes, sin espacios.
func IsUsername(u string) bool {
	return usernameRegex.MatchString(u)
}

var phoneRegex = regexp.MustCompile(`^\+?[0-9][0-9 .\-()]{5,24}$`)

// IsPhone valida la forma general de un número de teléfono.
// El parsing estricto por región es responsabilidad de la unit de teléfono.
func IsPhone(p string) bool {
	return phoneRegex.MatchString(strings.TrimSpace(p))
}

// MatchesKind verifica que una query tenga el formato esperado para su kind.
// Se usa como rechazo pre-despacho: una query que no pasa aquí nunca llega
// a las units.
func MatchesKind(query string, kind domain.SearchKind) bool {
	query = strings.TrimSpace(query)
	switch kind {
	case domain.KindUsername:
		return IsUsername(query)
	case domain.KindEmail:
		return IsEmail(query)
	case domain.KindDomain:
		return IsDomain(NormalizeDomain(query))
	case domain.KindURL:
		return IsURL(query)
	case domain.KindPhone:
		return IsPhone(query)
	case domain.KindIP:
		return IsIP(query)
	default:
		return false
	}
}

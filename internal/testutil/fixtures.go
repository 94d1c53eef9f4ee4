// internal/testutil/fixtures.go
package testutil

// Fixture data para tests (valores primitivos solamente, sin dependencias de domain)

// FixtureDomains contiene dominios de prueba válidos.
var FixtureDomains = []string{
	"example.com",
	"test.example.com",
	"subdomain.example.com",
	"another.test.example.com",
}

// FixtureInvalidDomains contiene dominios inválidos.
var FixtureInvalidDomains = []string{
	"",
	"not a domain",
	"192.168.1.1",
	"2001:db8::1",
	"-invalid.com",
	".example.com",
	"example..com",
}

// FixtureIPs contiene IPs de prueba.
var FixtureIPs = []string{
	"192.168.1.1",
	"10.0.0.1",
	"172.16.0.1",
	"8.8.8.8",
}

// FixtureIPv6 contiene IPv6 de prueba.
var FixtureIPv6 = []string{
	"2001:db8::1",
	"fe80::1",
	"::1",
}

// FixtureEmails contiene emails de prueba válidos.
var FixtureEmails = []string{
	"admin@example.com",
	"contact@example.com",
	"info@subdomain.example.com",
	"first.last+tag@example.co.uk",
}

// FixtureInvalidEmails contiene emails inválidos.
var FixtureInvalidEmails = []string{
	"",
	"plainaddress",
	"@example.com",
	"user@",
	"user@nodot",
	"user name@example.com",
}

// FixtureURLs contiene URLs de prueba válidas.
var FixtureURLs = []string{
	"https://example.com",
	"https://example.com/path",
	"https://subdomain.example.com/api/v1",
	"http://test.example.com:8080",
}

// FixtureInvalidURLs contiene URLs inválidas o de esquema no soportado.
var FixtureInvalidURLs = []string{
	"",
	"example.com",
	"ftp://example.com/file",
	"javascript:alert(1)",
	"https://",
}

// FixtureUsernames contiene handles de prueba válidos.
var FixtureUsernames = []string{
	"target",
	"john.doe",
	"dev_ops-1",
	"a",
}

// FixtureInvalidUsernames contiene handles inválidos.
var FixtureInvalidUsernames = []string{
	"",
	"has space",
	"emoji😀",
	"user name@host",
}

// FixturePhones contiene números de teléfono en varias notaciones.
var FixturePhones = []string{
	"+1 234 567 8900",
	"+44 20 7946 0958",
	"612-345-678",
	"555 (010) 1234",
}

// FixtureInvalidPhones contiene strings que no tienen forma de teléfono.
var FixtureInvalidPhones = []string{
	"",
	"abc",
	"12",
	"++123456",
}

// internal/units/whois/whois_test.go
package whois

import (
	"testing"

	"kirwada/internal/core/domain"
	"kirwada/internal/testutil"
)

const sampleOutput = `% IANA WHOIS server
% for more information on IANA, visit http://www.iana.org

Domain Name: EXAMPLE.COM
Registrar: RESERVED-Internet Assigned Numbers Authority
Creation Date: 1995-08-14T04:00:00Z
Registry Expiry Date: 2026-08-13T04:00:00Z
Domain Status: clientDeleteProhibited https://icann.org/epp#clientDeleteProhibited
Domain Status: clientTransferProhibited https://icann.org/epp#clientTransferProhibited
Name Server: A.IANA-SERVERS.NET
Name Server: B.IANA-SERVERS.NET
Registrant Organization: Internet Assigned Numbers Authority
Registrant Email: admin@example.com
Tech Email: tech@example.com
Tech Email: admin@example.com

>>> Last update of whois database: 2026-08-01T00:00:00Z <<<
`

func TestParseOutput(t *testing.T) {
	payload := ParseOutput(sampleOutput)
	testutil.AssertFalse(t, payload.IsEmpty(), "payload should not be empty")

	registrar, ok := payload.Get("registrar")
	testutil.AssertTrue(t, ok, "registrar present")
	testutil.AssertEqual(t, registrar.Str(), "RESERVED-Internet Assigned Numbers Authority", "registrar value")

	created, ok := payload.Get("created")
	testutil.AssertTrue(t, ok, "created present")
	testutil.AssertEqual(t, created.Str(), "1995-08-14T04:00:00Z", "creation date")

	ns, ok := payload.Get("name_servers")
	testutil.AssertTrue(t, ok, "name servers present")
	testutil.AssertEqual(t, len(ns.List()), 2, "two name servers")
	testutil.AssertEqual(t, ns.List()[0].Str(), "a.iana-servers.net", "name servers lowercased and sorted")

	status, ok := payload.Get("status")
	testutil.AssertTrue(t, ok, "status present")
	testutil.AssertEqual(t, status.List()[0].Str(), "clientDeleteProhibited", "status keeps only the code")

	emails, ok := payload.Get("emails")
	testutil.AssertTrue(t, ok, "emails present")
	testutil.AssertEqual(t, len(emails.List()), 2, "emails deduplicated")
}

func TestParseOutputIgnoresCommentsAndBlank(t *testing.T) {
	payload := ParseOutput("% comment only\n# another\n\n>>> trailer <<<\n")
	testutil.AssertTrue(t, payload.IsEmpty(), "comment-only output yields empty payload")
}

func TestParseOutputUnknownKeys(t *testing.T) {
	payload := ParseOutput("Some Random Key: value\nDNSSEC: unsigned\n")
	testutil.AssertTrue(t, payload.IsEmpty(), "unrecognized keys are dropped")
}

func TestUnitContract(t *testing.T) {
	u := New(testutil.NewTestLogger(), "")

	testutil.AssertEqual(t, u.Name(), "whois", "unit name")
	testutil.AssertEqual(t, u.Type(), domain.UnitTypeCLI, "unit type")
	testutil.AssertTrue(t, u.SupportsKind(domain.KindDomain), "supports domain")
	testutil.AssertTrue(t, u.SupportsKind(domain.KindIP), "supports ip")
	testutil.AssertFalse(t, u.SupportsKind(domain.KindEmail), "does not support email")
	testutil.AssertNoError(t, u.Close(), "close is idempotent")
}

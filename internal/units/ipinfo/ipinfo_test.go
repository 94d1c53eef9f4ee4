// internal/units/ipinfo/ipinfo_test.go
package ipinfo

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"kirwada/internal/core/domain"
	"kirwada/internal/core/ports"
	"kirwada/internal/testutil"
)

func newTestUnit(t *testing.T, baseURL string) *Unit {
	t.Helper()
	cfg := ports.DefaultUnitConfig()
	cfg.Timeout = 5 * time.Second
	cfg.Custom = map[string]string{"base_url": baseURL}
	return New(testutil.NewTestLogger(), cfg)
}

func TestSuccessfulLookup(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"status":"success","country":"Australia","countryCode":"AU",
			"regionName":"Queensland","city":"South Brisbane","zip":"4101",
			"lat":-27.4766,"lon":153.0166,"timezone":"Australia/Brisbane",
			"isp":"Cloudflare, Inc","org":"APNIC and Cloudflare DNS Resolver project",
			"as":"AS13335 Cloudflare, Inc.","reverse":"one.one.one.one","query":"1.1.1.1"
		}`))
	}))
	defer srv.Close()

	u := newTestUnit(t, srv.URL)

	rec, err := u.Run(context.Background(), "1.1.1.1", domain.KindIP)
	testutil.AssertNoError(t, err, "run should not error")
	testutil.AssertTrue(t, rec.Succeeded, "lookup succeeds")

	country, _ := rec.Payload.Get("country")
	testutil.AssertEqual(t, country.Str(), "Australia", "country parsed")

	asn, _ := rec.Payload.Get("asn")
	testutil.AssertEqual(t, asn.Str(), "AS13335 Cloudflare, Inc.", "asn parsed")

	hostname, _ := rec.Payload.Get("hostname")
	testutil.AssertEqual(t, hostname.Str(), "one.one.one.one", "reverse hostname parsed")

	ips, _ := rec.Payload.Get("ips")
	testutil.AssertEqual(t, ips.List()[0].Str(), "1.1.1.1", "canonical ip echoed")
}

func TestFailStatusCarriesMessage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"fail","message":"private range","query":"10.0.0.1"}`))
	}))
	defer srv.Close()

	u := newTestUnit(t, srv.URL)

	rec, err := u.Run(context.Background(), "10.0.0.1", domain.KindIP)
	testutil.AssertNoError(t, err, "run should not error")
	testutil.AssertFalse(t, rec.Succeeded, "fail status is a unit failure")
	testutil.AssertEqual(t, rec.ErrorMessage, "private range", "service message surfaced")
}

func TestUnitContract(t *testing.T) {
	u := newTestUnit(t, "http://unused.invalid")

	testutil.AssertEqual(t, u.Name(), "ipinfo", "unit name")
	testutil.AssertEqual(t, u.Type(), domain.UnitTypeAPI, "unit type")
	testutil.AssertTrue(t, u.SupportsKind(domain.KindIP), "supports ip")
	testutil.AssertFalse(t, u.SupportsKind(domain.KindURL), "rejects url")
}
